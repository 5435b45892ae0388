package info

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/store"
	"tableflip.dev/jobcal/pkg/timeutil"
)

func TestInfoListsConfigAndSnapshots(t *testing.T) {
	cfg := &store.Config{
		Server:  "http://jobs.example/",
		User:    "42",
		Token:   "secret",
		Path:    t.TempDir(),
		Timeout: 3 * time.Second,
	}
	snaps, err := store.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, snaps.SaveViews("42", []posting.View{{
		PostingID: "1",
		Title:     "Backend",
		Start:     timeutil.NewDate(2025, time.January, 1),
		End:       timeutil.NewDate(2025, time.January, 9),
	}}, time.Now()))

	out := &bytes.Buffer{}
	n := &Info{Config: cfg, Snapshots: snaps, Out: out}
	require.NoError(t, n.Do(context.Background()))

	s := out.String()
	assert.Contains(t, s, "http://jobs.example/")
	assert.Contains(t, s, "3s")
	assert.Contains(t, s, "42: 1 postings")
	assert.NotContains(t, s, "secret")
}

func TestInfoNoSnapshots(t *testing.T) {
	cfg := &store.Config{Server: "http://jobs.example/", User: "42", Path: t.TempDir()}
	out := &bytes.Buffer{}
	n := &Info{Config: cfg, Out: out}
	require.NoError(t, n.Do(context.Background()))
	assert.Contains(t, out.String(), "no snapshots")
	assert.Contains(t, out.String(), "(none found)")
}
