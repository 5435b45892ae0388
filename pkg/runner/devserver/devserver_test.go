package devserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/jobcal/pkg/remote"
	"tableflip.dev/jobcal/pkg/runner/runnertest"
)

func TestDevServerServesSeededData(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	d := &DevServer{
		Addr:  "127.0.0.1:0",
		Token: "dev",
		Seed:  "3",
		Clock: runnertest.Clock,
		Ready: ready,
	}
	done := make(chan error, 1)
	go func() { done <- d.Do(ctx) }()

	var url string
	select {
	case url = <-ready:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server never became ready")
	}

	client, err := remote.New(url, remote.WithToken("dev"))
	require.NoError(t, err)
	bookmarks, err := client.ListBookmarks(ctx, "3")
	require.NoError(t, err)
	assert.Len(t, bookmarks, 5)

	anon, err := remote.New(url)
	require.NoError(t, err)
	_, err = anon.ListBookmarks(ctx, "3")
	assert.Error(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestDevServerBadAddr(t *testing.T) {
	d := &DevServer{Addr: "not an address"}
	assert.Error(t, d.Do(context.Background()))
}
