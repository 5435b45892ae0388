package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "server: http://localhost:8080/api\nuser: \"42\"\ntoken: from-file\ntimeout: 3s\nrate: 2.5\npath: ~/jobcal-test\n"
	if err := os.WriteFile(filepath.Join(dir, ".jobcal.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JOBCAL_CONFIG_PATH", dir)
	t.Setenv("JOBCAL_TOKEN", "from-env")
	t.Setenv("JOBCAL_LOG_LEVEL", "debug")

	cfg, err := loadConfig(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != "http://localhost:8080/api" || cfg.User != "42" {
		t.Fatalf("unexpected server/user: %+v", cfg)
	}
	if cfg.Token != "from-env" {
		t.Fatalf("env should override file token, got %q", cfg.Token)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
	if cfg.Timeout != 3*time.Second || cfg.Rate != 2.5 {
		t.Fatalf("timeout/rate = %s %v", cfg.Timeout, cfg.Rate)
	}
	want, _ := homedir.Expand("~/jobcal-test")
	if cfg.Path != want {
		t.Fatalf("path = %q, want %q", cfg.Path, want)
	}
	if cfg.File == "" {
		t.Fatalf("expected config file to be recorded")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Config{User: "1"}).Validate(); err != ErrNoServer {
		t.Fatalf("got %v, want ErrNoServer", err)
	}
	if err := (&Config{Server: "http://x"}).Validate(); err != ErrNoUser {
		t.Fatalf("got %v, want ErrNoUser", err)
	}
}
