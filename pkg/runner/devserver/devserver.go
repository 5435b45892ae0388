// Package devserver runs an in-memory job service for trying jobcal without
// a real backend.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/remote/fake"
	"tableflip.dev/jobcal/pkg/timeutil"
)

const shutdownTimeout = 5 * time.Second

// DevServer serves the fake job service on Addr until the context is done.
type DevServer struct {
	Addr  string
	Token string
	// Seed bookmarks a handful of demo postings for this user.
	Seed  string
	Clock timeutil.Clock
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
	// Ready, when set, receives the base URL once the listener is open.
	Ready chan<- string
}

func (d *DevServer) Do(ctx context.Context) error {
	log := zerolog.Nop()
	if d.Logger != nil {
		log = *d.Logger
	}
	opts := []fake.Option{fake.WithLogger(log), fake.WithToken(d.Token)}
	if d.Clock != nil {
		opts = append(opts, fake.WithClock(d.Clock))
	}
	svc := fake.New(opts...)
	if d.Seed != "" {
		if err := SeedDemo(svc, d.Seed, timeutil.Today(d.Clock)); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", d.Addr)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("http://%s/", ln.Addr())
	srv := &http.Server{
		Handler:           svc,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info().Str("url", url).Msg("job service listening")
	if d.Ready != nil {
		d.Ready <- url
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down job service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// SeedDemo bookmarks a spread of postings around today for userID: one that
// closed last week, a few closing at different urgencies and one that has not
// opened yet.
func SeedDemo(svc *fake.Server, userID string, today timeutil.Date) error {
	demo := []struct {
		p    posting.JobPosting
		memo string
	}{
		{posting.JobPosting{Title: "Platform Engineer", Company: "Acme", Location: "Remote", Start: today.AddDays(-30), End: today.AddDays(-6)}, "missed it"},
		{posting.JobPosting{Title: "Backend Developer", Company: "Globex", Position: "Payments", Start: today.AddDays(-10), End: today.AddDays(1)}, "referral from Sam"},
		{posting.JobPosting{Title: "SRE", Company: "Initech", Salary: "$150k-$180k", Start: today.AddDays(-3), End: today.AddDays(6)}, ""},
		{posting.JobPosting{Title: "Data Engineer", Company: "Umbrella", Location: "Berlin", Start: today.AddDays(-1), End: today.AddDays(14)}, ""},
		{posting.JobPosting{Title: "Go Developer", Company: "Hooli", Start: today.AddDays(4), End: today.AddDays(25)}, "opens soon"},
	}
	for _, d := range demo {
		if _, err := svc.Seed(userID, d.p, d.memo); err != nil {
			return err
		}
	}
	return nil
}
