// Package app wires the delegation engine, the terminal adapter, the
// configuration and the script bridge into the demo program.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/domevents/internal/config"
	"github.com/dshills/domevents/internal/domevents"
	"github.com/dshills/domevents/internal/env/terminal"
	"github.com/dshills/domevents/internal/event"
	"github.com/dshills/domevents/internal/logging"
	"github.com/dshills/domevents/internal/pointer"
	"github.com/dshills/domevents/internal/screen"
	"github.com/dshills/domevents/internal/script"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// ScriptPath overrides the configured Lua script.
	ScriptPath string

	// LogLevel overrides the configured log level.
	LogLevel string

	// LogOutput receives log records. Defaults to stderr.
	LogOutput io.Writer

	// Watch reloads the configuration file when it changes.
	Watch bool
}

// Application owns every component of the demo.
type Application struct {
	mu sync.Mutex

	opts     Options
	config   *config.Config
	logger   *slog.Logger
	levelVar *slog.LevelVar
	profile  pointer.Profile

	events  *event.Handler
	screen  screen.Screen
	ui      *UI
	adapter *terminal.Adapter
	engine  *domevents.Engine[*terminal.Widget]
	script  *script.Bridge

	running atomic.Bool
	cancel  context.CancelFunc
}

// New loads the configuration and builds the logger and event handler.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.ScriptPath != "" {
		cfg.Script.Path = opts.ScriptPath
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	levelVar := new(slog.LevelVar)
	logger, err := logging.New(logging.Options{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   out,
		LevelVar: levelVar,
	})
	if err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}

	profile, err := pointer.Detect(cfg.Pointer.Profile, os.Getenv)
	if err != nil {
		return nil, &InitError{Component: "pointer", Err: err}
	}

	app := &Application{
		opts:     opts,
		config:   cfg,
		logger:   logger,
		levelVar: levelVar,
		profile:  profile,
	}
	app.events = event.NewHandler(
		event.WithLogger(logger),
		event.WithErrorHandler(func(err error) {
			app.setStatus("error: " + err.Error())
		}),
	)
	return app, nil
}

// SetScreen sets the screen. Must be called before Run.
func (app *Application) SetScreen(s screen.Screen) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.screen = s
	return nil
}

// Run initializes the screen, builds the widget tree, registers the
// demo callbacks and processes input until q, Ctrl-C, Shutdown or ctx
// cancellation.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	s := app.screen
	app.mu.Unlock()
	if s == nil {
		return ErrNoScreen
	}

	if err := s.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer s.Shutdown()
	s.EnableMouse()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.mu.Lock()
	app.cancel = cancel
	app.mu.Unlock()

	if err := app.bootstrap(s); err != nil {
		return err
	}
	defer app.teardown()

	if app.opts.Watch && app.opts.ConfigPath != "" {
		app.watch(ctx)
	}

	app.logger.Info("running",
		slog.String("pointer", app.profile.Name),
		slog.Any("types", app.engine.Types()))

	return app.adapter.Run(ctx, app.handleKey)
}

// bootstrap builds the components that need the screen.
func (app *Application) bootstrap(s screen.Screen) error {
	cfg := app.config
	width, height := s.Size()

	app.ui = NewUI(width, height)
	app.adapter = terminal.New(s, app.ui.Root,
		terminal.WithProfile(app.profile),
		terminal.WithLogger(app.logger),
		terminal.WithClickTracker(pointer.NewClickTracker(
			cfg.Pointer.DoubleClickTime(), cfg.Pointer.DoubleClickDistance)),
	)

	opts := []domevents.Option{
		domevents.WithInterceptFallthrough(cfg.Engine.InterceptFallthrough),
		domevents.WithLogger(app.logger),
		domevents.WithErrorHandler(func(err error) {
			app.setStatus("error: " + err.Error())
		}),
	}
	if cfg.Engine.ReleaseIdle {
		opts = append(opts, domevents.WithReleaseIdle())
	}
	app.engine = domevents.New[*terminal.Widget](app.adapter, opts...)

	if err := app.register(); err != nil {
		return &InitError{Component: "engine", Err: err}
	}

	if cfg.Script.Path != "" {
		app.script = script.New(script.WithHandler(app.events), script.WithLogger(app.logger))
		script.BindEngine(app.script, app.engine, func(id string) (*terminal.Widget, bool) {
			w := app.ui.Root.Find(id)
			return w, w != nil
		})
		if err := app.script.DoFile(cfg.Script.Path); err != nil {
			return &InitError{Component: "script", Err: err}
		}
	}
	return nil
}

func (app *Application) teardown() {
	if app.script != nil {
		_ = app.script.Close()
	}
	if err := app.engine.Close(); err != nil {
		app.logger.Warn("closing engine", slog.String("error", err.Error()))
	}
}

// watch reloads engine policy and log level when the config file changes.
func (app *Application) watch(ctx context.Context) {
	w, err := config.NewWatcher(app.opts.ConfigPath, config.WithWatchLogger(app.logger))
	if err != nil {
		app.logger.Warn("config watch disabled", slog.String("error", err.Error()))
		return
	}
	go func() {
		_ = w.Run(ctx, func(cfg *config.Config, err error) {
			if err != nil {
				return
			}
			app.applyConfig(cfg)
		})
	}()
}

// applyConfig applies the settings that can change at runtime.
func (app *Application) applyConfig(cfg *config.Config) {
	if lvl, err := logging.ParseLevel(cfg.Log.Level); err == nil {
		app.levelVar.Set(lvl)
	}
	app.engine.SetInterceptFallthrough(cfg.Engine.InterceptFallthrough)
	app.logger.Info("config reloaded",
		slog.Bool("intercept_fallthrough", cfg.Engine.InterceptFallthrough),
		slog.String("log_level", cfg.Log.Level))
}

// handleKey returns false to end the event loop.
func (app *Application) handleKey(ev screen.Event) bool {
	switch {
	case ev.Key == screen.KeyCtrlC, ev.Key == screen.KeyEscape:
		return false
	case ev.Key == screen.KeyRune && ev.Rune == 'q':
		return false
	}
	return true
}

// Shutdown stops a running event loop.
func (app *Application) Shutdown() {
	app.mu.Lock()
	cancel := app.cancel
	app.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Events returns the named-event handler shared with scripts.
func (app *Application) Events() *event.Handler {
	return app.events
}

// Engine returns the delegation engine. It is nil before Run.
func (app *Application) Engine() *domevents.Engine[*terminal.Widget] {
	return app.engine
}

// Profile returns the pointer profile selected at startup.
func (app *Application) Profile() pointer.Profile {
	return app.profile
}

// UI returns the widget tree. It is nil before Run.
func (app *Application) UI() *UI {
	return app.ui
}
