package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"tableflip.dev/jobcal/pkg/app"
	"tableflip.dev/jobcal/pkg/store"
)

// newLogger writes human readable logs to stderr.
func newLogger(configured string) zerolog.Logger {
	w := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}
	return zerolog.New(w).Level(logLevel(configured)).With().Timestamp().Logger()
}

// logLevel resolves the level: --verbose wins over --log-level, which wins
// over the configured level. Anything unparsable means warn.
func logLevel(configured string) zerolog.Level {
	level := configured
	if logging.Level != "" {
		level = logging.Level
	}
	if logging.Verbose {
		level = "debug"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

// loadApp reads the config and builds the app every service command runs
// against.
func loadApp() (*app.App, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg.LogLevel)
	return app.New(cfg, app.Options{Logger: &log})
}

// signalContext is canceled on interrupt, for commands that run until
// stopped.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
