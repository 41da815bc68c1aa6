package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds tool-wide settings. All fields are optional; zero values
// fall back to the defaults below.
type Config struct {
	// Binaries overrides the executable invoked for each VCS. Keys are
	// "git", "hg", "svn" and "svnadmin".
	Binaries map[string]string `yaml:"binaries"`

	// CommandTimeout bounds every subprocess invocation. Zero means no
	// timeout, matching the historical behavior of shelling out to a VCS.
	CommandTimeout time.Duration `yaml:"-"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

var (
	loaded   *Config
	loadOnce sync.Once
)

// Default returns the process-wide configuration, loading it on first use.
func Default() *Config {
	loadOnce.Do(func() {
		loaded = Load()
	})
	return loaded
}

// Load reads the config file named by SCMKIT_CONFIG, or ~/.scmkit.yaml if
// unset. A missing or unreadable file yields the built-in defaults.
func Load() *Config {
	cfg := &Config{
		Binaries: map[string]string{},
		LogLevel: "info",
	}

	path := os.Getenv("SCMKIT_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg
		}
		path = filepath.Join(home, ".scmkit.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	// command_timeout is written as a duration string ("30s", "2m").
	var file struct {
		Binaries       map[string]string `yaml:"binaries"`
		CommandTimeout string            `yaml:"command_timeout"`
		LogLevel       string            `yaml:"log_level"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg
	}

	if file.Binaries != nil {
		cfg.Binaries = file.Binaries
	}
	if file.CommandTimeout != "" {
		if d, err := time.ParseDuration(file.CommandTimeout); err == nil {
			cfg.CommandTimeout = d
		}
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	return cfg
}

// Binary resolves the executable to invoke for the given tool name,
// honoring any configured override.
func (c *Config) Binary(tool string) string {
	if c == nil {
		return tool
	}
	if override, ok := c.Binaries[tool]; ok && override != "" {
		return override
	}
	return tool
}
