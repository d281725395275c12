// Package config resolves the console's tunables: built-in defaults, an
// optional YAML file, then environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/opsdeck/daemonctl/internal/validate"
)

// Built-in defaults. A missing config file means these apply as-is.
const (
	DefaultAddress        = "127.0.0.1:50051"
	DefaultTickInterval   = 250 * time.Millisecond
	DefaultConnectTimeout = 5 * time.Second
	DefaultCallTimeout    = 10 * time.Second
)

// Environment overrides, applied on top of the file.
const (
	EnvAddress = "DAEMONCTL_ADDRESS"
	EnvLogFile = "DAEMONCTL_LOG_FILE"
)

// Config holds every tunable of the console.
type Config struct {
	Address        string        `yaml:"address" validate:"required,hostname_port"`
	TickInterval   time.Duration `yaml:"tick_interval" validate:"gt=0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" validate:"gt=0"`
	CallTimeout    time.Duration `yaml:"call_timeout" validate:"gt=0"`
	LogFile        string        `yaml:"log_file" validate:"omitempty,filepath"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Address:        DefaultAddress,
		TickInterval:   DefaultTickInterval,
		ConnectTimeout: DefaultConnectTimeout,
		CallTimeout:    DefaultCallTimeout,
	}
}

// UnmarshalYAML merges a config document over the receiver, so fields absent
// from the file keep their current (default) values. Durations are Go
// duration strings ("250ms", "5s").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		Address        string `yaml:"address"`
		TickInterval   string `yaml:"tick_interval"`
		ConnectTimeout string `yaml:"connect_timeout"`
		CallTimeout    string `yaml:"call_timeout"`
		LogFile        string `yaml:"log_file"`
	}
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}

	if r.Address != "" {
		c.Address = r.Address
	}
	if r.LogFile != "" {
		c.LogFile = r.LogFile
	}
	durations := []struct {
		name string
		val  string
		dst  *time.Duration
	}{
		{"tick_interval", r.TickInterval, &c.TickInterval},
		{"connect_timeout", r.ConnectTimeout, &c.ConnectTimeout},
		{"call_timeout", r.CallTimeout, &c.CallTimeout},
	}
	for _, d := range durations {
		if d.val == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.val)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

// DefaultPath returns the config file location under XDG_CONFIG_HOME,
// falling back to ~/.config. Empty when no home directory is resolvable.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "daemonctl", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "daemonctl", "config.yaml")
}

// Load resolves the effective configuration from the default file location.
func Load() (Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile resolves the effective configuration from the given file. A
// missing file is not an error; an unreadable or invalid one is.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		logrus.Debug("Loading config file from: ", path)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// No file; defaults apply.
		default:
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv(EnvAddress); addr != "" {
		cfg.Address = addr
	}
	if path := os.Getenv(EnvLogFile); path != "" {
		cfg.LogFile = path
	}
}
