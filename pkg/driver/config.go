package driver

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"metajs/pkg/vm"
)

// Config represents a metajs.toml runtime configuration.
type Config struct {
	Runtime RuntimeConfig `toml:"runtime"`
	Log     LogConfig     `toml:"log"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`
}

// RuntimeConfig configures realms created by a Session.
type RuntimeConfig struct {
	MaxPrototypeDepth int `toml:"max_prototype_depth"`
}

// LogConfig configures the commonlog backend.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{MaxPrototypeDepth: vm.DefaultMaxPrototypeDepth},
	}
}

// LoadConfig parses a TOML configuration file. An empty path yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := DefaultConfig()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path

	// Defaults
	if c.Runtime.MaxPrototypeDepth <= 0 {
		c.Runtime.MaxPrototypeDepth = vm.DefaultMaxPrototypeDepth
	}
	if c.Log.Verbosity < 0 {
		return nil, fmt.Errorf("%s: log verbosity must not be negative", path)
	}

	return c, nil
}

// RealmOptions translates the runtime section into realm options.
func (c *Config) RealmOptions() vm.Options {
	return vm.Options{MaxPrototypeDepth: c.Runtime.MaxPrototypeDepth}
}
