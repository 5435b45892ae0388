package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultPath holds the snapshot cache.
	DefaultPath    = "~/.jobcal"
	DefaultTimeout = 15 * time.Second
	configName     = ".jobcal" // .yaml is implicit
	envPrefix      = "JOBCAL"
)

// ErrNoServer is returned by Validate when no service URL is configured.
var ErrNoServer = errors.New("store: no server configured (set server in .jobcal.yaml or JOBCAL_SERVER)")

// ErrNoUser is returned by Validate when no user id is configured.
var ErrNoUser = errors.New("store: no user configured (set user in .jobcal.yaml or JOBCAL_USER)")

// Config is the resolved jobcal configuration.
type Config struct {
	Server   string        `json:"server"`
	User     string        `json:"user"`
	Token    string        `json:"-"`
	Path     string        `json:"path"`
	Timeout  time.Duration `json:"timeout"`
	Rate     float64       `json:"rate"`
	LogLevel string        `json:"logLevel"`
	// File is the config file that was read, empty when none was found.
	File string `json:"file,omitempty"`
}

// BasePath is the expanded snapshot cache directory.
func (c *Config) BasePath() string {
	return c.Path
}

// Validate reports the first missing setting needed to reach the service.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return ErrNoServer
	}
	if strings.TrimSpace(c.User) == "" {
		return ErrNoUser
	}
	return nil
}

// LoadConfig reads .jobcal.yaml from $JOBCAL_CONFIG_PATH, ./ or $HOME and
// overlays JOBCAL_* environment variables.
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	v.SetDefault("path", DefaultPath)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("rate", 0)
	v.SetDefault("log-level", "warn")
	v.SetConfigName(configName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(envPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expanding path: %w", err)
	}

	return &Config{
		Server:   strings.TrimSpace(v.GetString("server")),
		User:     strings.TrimSpace(v.GetString("user")),
		Token:    strings.TrimSpace(v.GetString("token")),
		Path:     path,
		Timeout:  v.GetDuration("timeout"),
		Rate:     v.GetFloat64("rate"),
		LogLevel: v.GetString("log-level"),
		File:     v.ConfigFileUsed(),
	}, nil
}
