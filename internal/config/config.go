// Package config loads exportctl configuration.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/objexport/errors"
)

// EnvPrefix prefixes environment overrides, e.g. OBJEXPORT_LOG_LEVEL.
const EnvPrefix = "OBJEXPORT"

// Config holds the settings read by exportctl and by the C library at load.
type Config struct {
	// Zap level name: debug, info, warn or error.
	LogLevel string `mapstructure:"log_level"`

	// Log encoding: console or json.
	LogFormat string       `mapstructure:"log_format"`
	Layout    LayoutConfig `mapstructure:"layout"`
	Wasm      WasmConfig   `mapstructure:"wasm"`
}

// LayoutConfig controls the layout report.
type LayoutConfig struct {
	// Output format: yaml or text.
	Format string `mapstructure:"format"`
}

// WasmConfig controls the wasm guest runner.
type WasmConfig struct {
	// Import module name of the host functions.
	HostModule string `mapstructure:"host_module"`
	// Module name the guest is instantiated under.
	GuestName string `mapstructure:"guest_name"`
	// Exported function run after instantiation, if present.
	Entry string `mapstructure:"entry"`
	// Guest memory limit in 64KiB pages. 0 keeps the runtime default.
	MemoryLimitPages uint32 `mapstructure:"memory_limit_pages"`
}

// Load reads configuration from path, if not empty, over the defaults.
// Environment variables prefixed with EnvPrefix override both.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("layout.format", "yaml")
	v.SetDefault("wasm.host_module", "test_class")
	v.SetDefault("wasm.guest_name", "guest")
	v.SetDefault("wasm.entry", "run")
	v.SetDefault("wasm.memory_limit_pages", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidData).
				Path(path).
				Cause(err).
				Detail("read config").
				Build()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.InvalidInput(errors.PhaseConfig, []string{"log_level"}, err.Error())
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return errors.InvalidInput(errors.PhaseConfig, []string{"log_format"}, "want console or json, got "+c.LogFormat)
	}
	switch c.Layout.Format {
	case "yaml", "text":
	default:
		return errors.InvalidInput(errors.PhaseConfig, []string{"layout", "format"}, "want yaml or text, got "+c.Layout.Format)
	}
	if c.Wasm.HostModule == "" {
		return errors.InvalidInput(errors.PhaseConfig, []string{"wasm", "host_module"}, "must not be empty")
	}
	if c.Wasm.GuestName == "" {
		return errors.InvalidInput(errors.PhaseConfig, []string{"wasm", "guest_name"}, "must not be empty")
	}
	return nil
}

// NewLogger builds a logger for the configured level and format.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, []string{"log_level"}, err.Error())
	}

	var zc zap.Config
	if c.LogFormat == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
