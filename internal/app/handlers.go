package app

import (
	"fmt"
	"log/slog"

	"github.com/dshills/domevents/internal/domevents"
	"github.com/dshills/domevents/internal/env"
	"github.com/dshills/domevents/internal/env/terminal"
	"github.com/dshills/domevents/internal/event"
	"github.com/dshills/domevents/internal/pointer"
)

// Named events fired by the demo callbacks.
const (
	EventPress  = "press"
	EventStatus = "status"
)

type widgetOccurrence = env.Occurrence[*terminal.Widget]

// register installs the demo callbacks.
func (app *Application) register() error {
	app.events.On(EventStatus, event.NewListener(func(_ *event.Handler, _ string, args ...any) error {
		if len(args) > 0 {
			app.setStatus(fmt.Sprint(args...))
		}
		return nil
	}))
	app.events.On(EventPress, event.NewListener(func(h *event.Handler, _ string, args ...any) error {
		if len(args) == 0 {
			return nil
		}
		return h.Fire(EventStatus, "pressed ", args[0])
	}))

	ui := app.ui
	press := app.profile.Press
	release := app.profile.Release

	toolbarPress := domevents.NewCallback(func(occ widgetOccurrence) error {
		src := occ.Source()
		if src == ui.Toolbar {
			return nil
		}
		if src.ID == IDGrab {
			return app.grab()
		}
		return app.events.Fire(EventPress, src.ID)
	})

	canvasClick := domevents.NewCallback(func(occ widgetOccurrence) error {
		to, ok := occ.(*terminal.Occurrence)
		if !ok {
			return nil
		}
		app.setStatus(fmt.Sprintf("click x%d at %d,%d", to.Count, to.X, to.Y))
		return nil
	})

	rootRelease := domevents.NewCallback(func(occ widgetOccurrence) error {
		if p, ok := pointer.Position(occ); ok {
			app.logger.Debug("released",
				slog.String("widget", occ.Source().ID),
				slog.Int("x", p.X),
				slog.Int("y", p.Y))
		}
		return nil
	})

	for _, r := range []struct {
		target *terminal.Widget
		typ    string
		cb     *domevents.Callback[*terminal.Widget]
	}{
		{ui.Toolbar, press, toolbarPress},
		{ui.Canvas, pointer.Click, canvasClick},
		{ui.Root, release, rootRelease},
	} {
		if err := app.engine.On(r.target, r.typ, r.cb); err != nil {
			return err
		}
	}
	return nil
}

// grab arms the interception slot so that the next release over the
// canvas reports a drop instead of reaching the normal release callback.
func (app *Application) grab() error {
	drop := domevents.NewCallback(func(occ widgetOccurrence) error {
		p, _ := pointer.Position(occ)
		app.setStatus(fmt.Sprintf("dropped at %d,%d", p.X, p.Y))
		return domevents.CancelEvent(occ)
	})
	if err := app.engine.TakeOver(app.ui.Canvas, app.profile.Release, drop); err != nil {
		return err
	}
	app.setStatus("grabbing: release over the canvas")
	return nil
}

func (app *Application) setStatus(text string) {
	if app.ui == nil {
		return
	}
	app.ui.Status.Label = text
}
