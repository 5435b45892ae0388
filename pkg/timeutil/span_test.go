package timeutil

import "testing"

func TestParseSpanDefault(t *testing.T) {
	days, label, err := ParseSpan("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 7 {
		t.Fatalf("expected 7, got %d", days)
	}
	if label != "1w" {
		t.Fatalf("expected label 1w, got %s", label)
	}
}

func TestParseSpanComposite(t *testing.T) {
	days, label, err := ParseSpan("1w10d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 17 {
		t.Fatalf("expected 17, got %d", days)
	}
	if label != "2w3d" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseSpanInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3h", "0d"} {
		if _, _, err := ParseSpan(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
