package memtree

// Occurrence is a synthetic occurrence delivered by a Tree.
type Occurrence struct {
	typ    string
	source *Node

	// X and Y are optional pointer coordinates.
	X, Y int

	// Data carries arbitrary payload for callbacks.
	Data any

	prevented bool
	stopped   bool
}

// NewOccurrence creates an occurrence of typ originating at source.
func NewOccurrence(typ string, source *Node) *Occurrence {
	return &Occurrence{typ: typ, source: source}
}

// At sets the pointer coordinates and returns o.
func (o *Occurrence) At(x, y int) *Occurrence {
	o.X, o.Y = x, y
	return o
}

func (o *Occurrence) Type() string  { return o.typ }
func (o *Occurrence) Source() *Node { return o.source }

// Position implements pointer.Positioner.
func (o *Occurrence) Position() (x, y int) { return o.X, o.Y }

// PreventDefault marks the occurrence as handled.
func (o *Occurrence) PreventDefault() { o.prevented = true }

// StopPropagation stops delivery to further native subscriptions.
func (o *Occurrence) StopPropagation() { o.stopped = true }

// DefaultPrevented reports whether PreventDefault was called.
func (o *Occurrence) DefaultPrevented() bool { return o.prevented }

// PropagationStopped reports whether StopPropagation was called.
func (o *Occurrence) PropagationStopped() bool { return o.stopped }
