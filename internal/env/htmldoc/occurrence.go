package htmldoc

import "golang.org/x/net/html"

// Occurrence is a synthetic occurrence over an HTML node.
type Occurrence struct {
	typ    string
	source *html.Node

	X, Y int

	prevented bool
	stopped   bool
}

// NewOccurrence creates an occurrence of typ originating at source.
func NewOccurrence(typ string, source *html.Node) *Occurrence {
	return &Occurrence{typ: typ, source: source}
}

// At sets the pointer coordinates and returns o.
func (o *Occurrence) At(x, y int) *Occurrence {
	o.X, o.Y = x, y
	return o
}

func (o *Occurrence) Type() string         { return o.typ }
func (o *Occurrence) Source() *html.Node   { return o.source }
func (o *Occurrence) Position() (x, y int) { return o.X, o.Y }

func (o *Occurrence) PreventDefault()  { o.prevented = true }
func (o *Occurrence) StopPropagation() { o.stopped = true }

func (o *Occurrence) DefaultPrevented() bool   { return o.prevented }
func (o *Occurrence) PropagationStopped() bool { return o.stopped }
