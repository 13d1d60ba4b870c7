package terminal

import (
	"time"

	"github.com/dshills/domevents/internal/screen"
)

// Occurrence is a pointer occurrence produced from a screen mouse event.
type Occurrence struct {
	typ    string
	source *Widget

	X, Y    int
	Buttons screen.ButtonMask
	Mod     screen.ModMask
	Time    time.Time

	// Count is the click count for click occurrences, 0 otherwise.
	Count int

	prevented bool
	stopped   bool
}

func (o *Occurrence) Type() string        { return o.typ }
func (o *Occurrence) Source() *Widget      { return o.source }
func (o *Occurrence) Position() (x, y int) { return o.X, o.Y }

func (o *Occurrence) PreventDefault()  { o.prevented = true }
func (o *Occurrence) StopPropagation() { o.stopped = true }

func (o *Occurrence) DefaultPrevented() bool   { return o.prevented }
func (o *Occurrence) PropagationStopped() bool { return o.stopped }
