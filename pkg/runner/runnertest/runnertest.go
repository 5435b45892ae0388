// Package runnertest builds apps backed by the fake job service for runner
// tests.
package runnertest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/jobcal/pkg/app"
	"tableflip.dev/jobcal/pkg/remote/fake"
	"tableflip.dev/jobcal/pkg/store"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// User is the user id every test app is configured with.
const User = "7"

// Now is the fixed instant test apps and servers use as "now".
var Now = time.Date(2025, time.January, 8, 9, 0, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time { return Now }

// Jan is a day in January 2025.
func Jan(day int) timeutil.Date {
	return timeutil.NewDate(2025, time.January, day)
}

// NewServer returns a fake job service pinned to Clock.
func NewServer() *fake.Server {
	return fake.New(fake.WithClock(Clock))
}

// NewApp serves svc over httptest and returns an app for User with its cache
// in a temporary directory. Color output is disabled for the test.
func NewApp(t *testing.T, svc *fake.Server) *app.App {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	a, err := app.New(&store.Config{
		Server:  srv.URL,
		User:    User,
		Path:    t.TempDir(),
		Timeout: 2 * time.Second,
	}, app.Options{Clock: Clock})
	if err != nil {
		t.Fatalf("app.New() = %v", err)
	}
	t.Cleanup(a.Close)
	return a
}
