// Package config resolves the serial connection settings from
// defaults, an optional YAML file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when looking it up in the
// environment, e.g. POLARGRAPH_PORT or POLARGRAPH_BAUD.
const EnvPrefix = "POLARGRAPH"

// Config holds the settings for a run.
type Config struct {
	Port        string        `mapstructure:"port"`
	Baud        int           `mapstructure:"baud"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	LineBuffer  int           `mapstructure:"line_buffer"`
	Verbose     bool          `mapstructure:"verbose"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		Port:        "/dev/ttyACM0",
		Baud:        250000,
		ReadTimeout: 100 * time.Millisecond,
		LineBuffer:  512,
	}
}

// SetDefaults registers every key with v so it can be found in the
// environment.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("port", d.Port)
	v.SetDefault("baud", d.Baud)
	v.SetDefault("read_timeout", d.ReadTimeout)
	v.SetDefault("line_buffer", d.LineBuffer)
	v.SetDefault("verbose", d.Verbose)
}

// Load resolves the config from v. If file is set it is read first;
// environment variables and bound flags take precedence over it.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %s", c.ReadTimeout)
	}
	if c.LineBuffer < 16 {
		return fmt.Errorf("line buffer of %d bytes is too small", c.LineBuffer)
	}
	return nil
}
