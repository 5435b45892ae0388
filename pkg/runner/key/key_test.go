package key

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
)

func TestKeyListsMarkers(t *testing.T) {
	color.NoColor = true
	out := &bytes.Buffer{}
	if err := (&Key{Out: out}).Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Marker", "application window opens", "deadline, urgent", "deadline, expired"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("key output missing %q:\n%s", want, out)
		}
	}
}
