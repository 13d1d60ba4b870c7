package app

import (
	"github.com/dshills/domevents/internal/env/terminal"
	"github.com/dshills/domevents/internal/screen"
)

// Widget IDs scripts can address.
const (
	IDRoot    = "root"
	IDToolbar = "toolbar"
	IDCanvas  = "canvas"
	IDStatus  = "status"
	IDGrab    = "grab"
)

// toolbarButtons are laid out left to right.
var toolbarButtons = []struct{ id, label string }{
	{"new", "New"},
	{"open", "Open"},
	{"save", "Save"},
	{IDGrab, "Grab"},
}

// UI is the demo widget tree.
type UI struct {
	Root    *terminal.Widget
	Toolbar *terminal.Widget
	Canvas  *terminal.Widget
	Status  *terminal.Widget
}

// NewUI lays out the widgets for a screen of the given size.
func NewUI(width, height int) *UI {
	root := terminal.NewWidget(IDRoot, "", screen.Rect{Width: width, Height: height})

	toolbar := root.Add(terminal.NewWidget(IDToolbar, "", screen.Rect{Width: width, Height: 1}))
	toolbar.Style = screen.Style{Reverse: true}
	x := 1
	for _, b := range toolbarButtons {
		w := len(b.label) + 2
		btn := toolbar.Add(terminal.NewWidget(b.id, b.label, screen.Rect{X: x, Width: w, Height: 1}))
		btn.Style = screen.Style{Reverse: true, Bold: true}
		x += w + 1
	}

	canvas := root.Add(terminal.NewWidget(IDCanvas, "", screen.Rect{Y: 1, Width: width, Height: max(height-2, 0)}))

	status := root.Add(terminal.NewWidget(IDStatus, "ready", screen.Rect{Y: height - 1, Width: width, Height: 1}))
	status.Style = screen.Style{Dim: true}

	return &UI{Root: root, Toolbar: toolbar, Canvas: canvas, Status: status}
}
