package config

import (
	"strconv"
)

// envBinding maps one environment variable onto a setting.
type envBinding struct {
	name  string
	apply func(c *Config, value string) error
}

func stringSetting(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func boolSetting(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func intSetting(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

var envBindings = []envBinding{
	{EnvPrefix + "ENGINE_INTERCEPT_FALLTHROUGH", boolSetting(func(c *Config) *bool { return &c.Engine.InterceptFallthrough })},
	{EnvPrefix + "ENGINE_RELEASE_IDLE", boolSetting(func(c *Config) *bool { return &c.Engine.ReleaseIdle })},
	{EnvPrefix + "POINTER_PROFILE", stringSetting(func(c *Config) *string { return &c.Pointer.Profile })},
	{EnvPrefix + "POINTER_DOUBLE_CLICK_MS", intSetting(func(c *Config) *int { return &c.Pointer.DoubleClickMS })},
	{EnvPrefix + "POINTER_DOUBLE_CLICK_DISTANCE", intSetting(func(c *Config) *int { return &c.Pointer.DoubleClickDistance })},
	{EnvPrefix + "LOG_LEVEL", stringSetting(func(c *Config) *string { return &c.Log.Level })},
	{EnvPrefix + "LOG_FORMAT", stringSetting(func(c *Config) *string { return &c.Log.Format })},
	{EnvPrefix + "SCRIPT_PATH", stringSetting(func(c *Config) *string { return &c.Script.Path })},
}

// EnvNames returns the recognised environment variable names.
func EnvNames() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = b.name
	}
	return names
}

// ApplyEnv overrides settings from environment variables read through
// getenv. Empty values are treated as unset.
func ApplyEnv(c *Config, getenv func(string) string) error {
	for _, b := range envBindings {
		v := getenv(b.name)
		if v == "" {
			continue
		}
		if err := b.apply(c, v); err != nil {
			return &EnvError{Name: b.name, Value: v, Err: err}
		}
	}
	return nil
}
