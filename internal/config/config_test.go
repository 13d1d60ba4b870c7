package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func noEnv(string) string { return "" }

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Pointer.Profile != "auto" {
		t.Errorf("Pointer.Profile = %q, want auto", cfg.Pointer.Profile)
	}
	if cfg.Pointer.DoubleClickTime() != 400*time.Millisecond {
		t.Errorf("DoubleClickTime() = %v, want 400ms", cfg.Pointer.DoubleClickTime())
	}
	if cfg.Engine.InterceptFallthrough || cfg.Engine.ReleaseIdle {
		t.Error("engine policies should default to off")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFileTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "domevents.toml", `
[engine]
intercept_fallthrough = true

[pointer]
profile = "touch"
double_click_ms = 250

[log]
level = "debug"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !cfg.Engine.InterceptFallthrough {
		t.Error("InterceptFallthrough not loaded")
	}
	if cfg.Pointer.Profile != "touch" || cfg.Pointer.DoubleClickMS != 250 {
		t.Errorf("Pointer = %+v", cfg.Pointer)
	}
	if cfg.Pointer.DoubleClickDistance != 4 {
		t.Errorf("DoubleClickDistance = %d, want default 4", cfg.Pointer.DoubleClickDistance)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "domevents.yaml", `
engine:
  release_idle: true
log:
  format: json
script:
  path: init.lua
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !cfg.Engine.ReleaseIdle {
		t.Error("ReleaseIdle not loaded")
	}
	if cfg.Log.Format != "json" || cfg.Script.Path != "init.lua" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFileEmptyYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yml", "# nothing here\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Pointer.Profile != "auto" {
		t.Errorf("Pointer.Profile = %q, want default", cfg.Pointer.Profile)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default", cfg.Log.Level)
	}

	cfg, err = LoadFile("")
	if err != nil || cfg == nil {
		t.Errorf("LoadFile(\"\") = %v, %v", cfg, err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		target  any
	}{
		{"toml syntax", "bad.toml", "[engine\nrelease_idle = true\n", new(*ParseError)},
		{"toml unknown key", "unknown.toml", "[engine]\nturbo = true\n", new(*ParseError)},
		{"yaml syntax", "bad.yaml", "engine: [\n", new(*ParseError)},
		{"yaml unknown key", "unknown.yaml", "engine:\n  turbo: true\n", new(*ParseError)},
		{"unsupported", "config.ini", "x=1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target == nil {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if !errors.As(err, tt.target) {
				t.Errorf("error = %T %v, want *ParseError", err, err)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pos.toml", "[log]\nlevel = \n")

	_, err := LoadFile(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DOMEVENTS_ENGINE_RELEASE_IDLE":     "true",
		"DOMEVENTS_POINTER_PROFILE":         "mouse",
		"DOMEVENTS_POINTER_DOUBLE_CLICK_MS": "300",
		"DOMEVENTS_LOG_LEVEL":               "warn",
	}
	cfg := Default()
	if err := ApplyEnv(cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if !cfg.Engine.ReleaseIdle {
		t.Error("ReleaseIdle not applied")
	}
	if cfg.Pointer.Profile != "mouse" || cfg.Pointer.DoubleClickMS != 300 {
		t.Errorf("Pointer = %+v", cfg.Pointer)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, func(k string) string {
		if k == "DOMEVENTS_ENGINE_INTERCEPT_FALLTHROUGH" {
			return "sometimes"
		}
		return ""
	})

	var envErr *EnvError
	if !errors.As(err, &envErr) {
		t.Fatalf("error = %v, want *EnvError", err)
	}
	if envErr.Name != "DOMEVENTS_ENGINE_INTERCEPT_FALLTHROUGH" {
		t.Errorf("Name = %q", envErr.Name)
	}
}

func TestEnvNames(t *testing.T) {
	names := EnvNames()
	if len(names) != len(envBindings) {
		t.Fatalf("len(EnvNames()) = %d", len(names))
	}
	for _, n := range names {
		if n[:len(EnvPrefix)] != EnvPrefix {
			t.Errorf("%s lacks prefix %s", n, EnvPrefix)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"profile", func(c *Config) { c.Pointer.Profile = "pen" }, "pointer.profile"},
		{"click window", func(c *Config) { c.Pointer.DoubleClickMS = 9000 }, "pointer.double_click_ms"},
		{"click distance", func(c *Config) { c.Pointer.DoubleClickDistance = -1 }, "pointer.double_click_distance"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Path != tt.path {
				t.Errorf("Path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestValidateJoinsAll(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate() = %T, want joined error", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("got %d errors, want 2", n)
	}
}

func TestLoadAppliesEnvAndValidates(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.toml", "[log]\nlevel = \"debug\"\n")
	t.Setenv("DOMEVENTS_LOG_FORMAT", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}

	t.Setenv("DOMEVENTS_LOG_FORMAT", "xml")
	if _, err := Load(path); err == nil {
		t.Error("expected validation error from environment override")
	}
}

func TestWatcherReload(t *testing.T) {
	for _, name := range EnvNames() {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	path := writeFile(t, dir, "watch.toml", "[log]\nlevel = \"info\"\n")

	w, err := NewWatcher(path, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(cfg *Config, err error) {
			if err != nil {
				return
			}
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	writeFile(t, dir, "other.toml", "[log]\nlevel = \"error\"\n")
	writeFile(t, dir, "watch.toml", "[log]\nlevel = \"debug\"\n")

	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "debug" {
			t.Errorf("reloaded Log.Level = %q, want debug", cfg.Log.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "c.toml")); err == nil {
		t.Error("expected error watching a missing directory")
	}
}
