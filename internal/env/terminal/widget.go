package terminal

import (
	"github.com/dshills/domevents/internal/screen"
)

// Widget is a rectangular element of the terminal widget tree. Widgets are
// compared by pointer.
type Widget struct {
	ID     string
	Label  string
	Bounds screen.Rect
	Style  screen.Style

	parent   *Widget
	children []*Widget
}

// NewWidget creates a detached widget.
func NewWidget(id, label string, bounds screen.Rect) *Widget {
	return &Widget{ID: id, Label: label, Bounds: bounds}
}

// Add attaches child under w and returns child for chaining.
func (w *Widget) Add(child *Widget) *Widget {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = w
	w.children = append(w.children, child)
	return child
}

func (w *Widget) remove(child *Widget) {
	for i, c := range w.children {
		if c == child {
			w.children = append(w.children[:i:i], w.children[i+1:]...)
			break
		}
	}
	child.parent = nil
}

// Parent returns the parent widget or nil.
func (w *Widget) Parent() *Widget {
	return w.parent
}

// Children returns a copy of the child list.
func (w *Widget) Children() []*Widget {
	return append([]*Widget(nil), w.children...)
}

func (w *Widget) String() string {
	return w.ID
}

// HitTest returns the deepest widget under (x, y), or nil when the point is
// outside w. Later children are drawn on top and win overlaps.
func (w *Widget) HitTest(x, y int) *Widget {
	if w == nil || !w.Bounds.Contains(x, y) {
		return nil
	}
	for i := len(w.children) - 1; i >= 0; i-- {
		if hit := w.children[i].HitTest(x, y); hit != nil {
			return hit
		}
	}
	return w
}

// Find returns the widget with the given ID in w's subtree.
func (w *Widget) Find(id string) *Widget {
	if w == nil {
		return nil
	}
	if w.ID == id {
		return w
	}
	for _, c := range w.children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

func (w *Widget) draw(s screen.Screen) {
	s.Fill(w.Bounds, ' ', w.Style)
	if w.Label != "" {
		s.DrawText(w.Bounds.X+1, w.Bounds.Y, clip(w.Label, w.Bounds.Width-2), w.Style)
	}
	for _, c := range w.children {
		c.draw(s)
	}
}

func clip(text string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(text)
	if len(r) > width {
		r = r[:width]
	}
	return string(r)
}
