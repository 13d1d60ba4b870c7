// Package config loads the program configuration from TOML or YAML files,
// applies DOMEVENTS_ environment overrides, validates the result and can
// watch the file for changes.
package config

import "time"

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "DOMEVENTS_"

// Config is the complete program configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Pointer PointerConfig `toml:"pointer" yaml:"pointer"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Script  ScriptConfig  `toml:"script" yaml:"script"`
}

// EngineConfig holds delegation engine policies.
type EngineConfig struct {
	// InterceptFallthrough routes an occurrence that misses the armed
	// interception to normal delegation instead of dropping it.
	InterceptFallthrough bool `toml:"intercept_fallthrough" yaml:"intercept_fallthrough"`

	// ReleaseIdle detaches a type's native subscription once its last
	// callback is removed.
	ReleaseIdle bool `toml:"release_idle" yaml:"release_idle"`
}

// PointerConfig selects the pointer profile and click thresholds.
type PointerConfig struct {
	Profile             string `toml:"profile" yaml:"profile"`
	DoubleClickMS       int    `toml:"double_click_ms" yaml:"double_click_ms"`
	DoubleClickDistance int    `toml:"double_click_distance" yaml:"double_click_distance"`
}

// DoubleClickTime returns the multi-click window.
func (p PointerConfig) DoubleClickTime() time.Duration {
	return time.Duration(p.DoubleClickMS) * time.Millisecond
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// ScriptConfig points at an optional Lua script.
type ScriptConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Pointer: PointerConfig{
			Profile:             "auto",
			DoubleClickMS:       400,
			DoubleClickDistance: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
