package fake

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/remote"
	"tableflip.dev/jobcal/pkg/status"
	"tableflip.dev/jobcal/pkg/timeutil"
)

var fixedNow = time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T, opts ...Option) (*Server, *remote.Client) {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	s := New(opts...)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	c, err := remote.New(srv.URL, remote.WithToken("tok"))
	require.NoError(t, err)
	return s, c
}

func TestRoundTrip(t *testing.T) {
	s, c := setup(t)
	ctx := context.Background()

	p, err := c.CreatePosting(ctx, posting.JobPosting{
		Title: "Platform Engineer",
		Start: timeutil.NewDate(2025, time.January, 1),
		End:   timeutil.NewDate(2025, time.January, 20),
	})
	require.NoError(t, err)
	assert.False(t, p.ID.IsZero())
	assert.Equal(t, status.Active, p.Status)

	_, err = c.CreateBookmark(ctx, "u1", p.ID, "ping recruiter")
	require.NoError(t, err)

	list, err := c.ListBookmarks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Posting)
	assert.Equal(t, "Platform Engineer", list[0].Posting.Title)
	assert.Equal(t, "ping recruiter", list[0].Memo)
	assert.Equal(t, fixedNow.Truncate(time.Second), list[0].CreatedAt)

	p.Title = "Staff Platform Engineer"
	_, err = c.UpdatePosting(ctx, p)
	require.NoError(t, err)
	stored, ok := s.Posting(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Staff Platform Engineer", stored.Title)

	require.NoError(t, c.DeleteBookmark(ctx, "u1", p.ID))
	list, err = c.ListBookmarks(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	// The posting outlives its bookmark.
	_, ok = s.Posting(p.ID)
	assert.True(t, ok)
}

func TestRejections(t *testing.T) {
	s, c := setup(t)
	ctx := context.Background()

	_, err := c.CreatePosting(ctx, posting.JobPosting{
		Title: "Backwards",
		Start: timeutil.NewDate(2025, time.January, 10),
		End:   timeutil.NewDate(2025, time.January, 5),
	})
	var rej *remote.ServerRejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "endDate is before startDate", remote.Message(err))

	_, err = c.CreateBookmark(ctx, "u1", "missing", "")
	var te *remote.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.StatusCode)

	err = c.DeleteBookmark(ctx, "u1", "missing")
	require.True(t, errors.As(err, &te))

	assert.Equal(t, 3, s.TotalCalls())
}

func TestFailNextAndAuth(t *testing.T) {
	s, c := setup(t, WithToken("tok"))
	s.FailNext(remote.OpListBookmarks, Failure{Message: "maintenance"})

	_, err := c.ListBookmarks(context.Background(), "u1")
	assert.Equal(t, "maintenance", remote.Message(err))

	_, err = c.ListBookmarks(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Calls(remote.OpListBookmarks))

	bad, err := remote.New(c.BaseURL(), remote.WithToken("wrong"))
	require.NoError(t, err)
	_, err = bad.ListBookmarks(context.Background(), "u1")
	var te *remote.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
}

func TestSeedOrphan(t *testing.T) {
	s, c := setup(t)
	_, err := s.Seed("u1", posting.JobPosting{
		Title: "Seeded",
		Start: timeutil.NewDate(2025, time.January, 1),
		End:   timeutil.NewDate(2025, time.January, 2),
	}, "")
	require.NoError(t, err)
	require.NoError(t, s.SeedOrphan("u1", "gone"))

	list, err := c.ListBookmarks(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotNil(t, list[0].Posting)
	assert.Equal(t, status.Expired, list[0].Posting.Status)
	assert.Nil(t, list[1].Posting)
}

func TestHoldBlocksUntilRelease(t *testing.T) {
	s, c := setup(t)
	release := s.Hold(remote.OpListBookmarks)

	done := make(chan error, 1)
	go func() {
		_, err := c.ListBookmarks(context.Background(), "u1")
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("request finished while held")
	case <-time.After(50 * time.Millisecond):
	}
	release()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("request never released")
	}
}
