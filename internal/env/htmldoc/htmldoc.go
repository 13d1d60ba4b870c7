// Package htmldoc adapts a parsed HTML document to env.Adapter, so the
// delegation engine can route occurrences over real markup.
package htmldoc

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/domevents/internal/env"
)

// ErrNotFound is returned when no element matches a lookup.
var ErrNotFound = errors.New("element not found")

type subscription struct {
	node *html.Node
	typ  string
	fn   env.NativeFunc[*html.Node]
}

func (s *subscription) Type() string { return s.typ }

// Document is an HTML node tree with native subscriptions.
type Document struct {
	root *html.Node

	mu   sync.Mutex
	subs []*subscription
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return FromNode(root), nil
}

// ParseString parses an HTML document held in s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// FromNode wraps an already parsed tree.
func FromNode(root *html.Node) *Document {
	return &Document{root: root}
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

func (d *Document) Attach(node *html.Node, typ string, fn env.NativeFunc[*html.Node]) (env.Subscription, error) {
	if node == nil {
		return nil, errors.New("htmldoc: attach to nil node")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	sub := &subscription{node: node, typ: typ, fn: fn}
	d.subs = append(d.subs, sub)
	return sub, nil
}

func (d *Document) Detach(s env.Subscription) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, sub := range d.subs {
		if sub == s {
			d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
			return nil
		}
	}
	return env.ErrUnknownSubscription
}

// Ancestors walks from source through its parents up to the document node.
func (d *Document) Ancestors(source *html.Node) iter.Seq[*html.Node] {
	return env.Chain(source, d.root, func(n *html.Node) (*html.Node, bool) {
		return n.Parent, n.Parent != nil
	})
}

// ByID returns the element whose id attribute equals id.
func (d *Document) ByID(id string) (*html.Node, error) {
	for n := range d.root.Descendants() {
		if n.Type == html.ElementNode && Attr(n, "id") == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: #%s", ErrNotFound, id)
}

// ByTag returns the elements with the given tag name in document order.
func (d *Document) ByTag(tag string) []*html.Node {
	a := atom.Lookup([]byte(strings.ToLower(tag)))
	var out []*html.Node
	for n := range d.root.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		if (a != 0 && n.DataAtom == a) || (a == 0 && n.Data == tag) {
			out = append(out, n)
		}
	}
	return out
}

// Attr returns the value of n's attribute key, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Describe renders n as tag#id for logs and errors.
func Describe(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case html.DocumentNode:
		return "#document"
	case html.TextNode:
		return "#text"
	case html.ElementNode:
		if id := Attr(n, "id"); id != "" {
			return n.Data + "#" + id
		}
		return n.Data
	default:
		return "#node"
	}
}

// Deliver sends occ to the subscriptions on its source's ancestor chain,
// nearest first, until one stops propagation. It returns the first error.
func (d *Document) Deliver(occ *Occurrence) error {
	d.mu.Lock()
	var targets []*subscription
	for n := range d.Ancestors(occ.source) {
		for _, sub := range d.subs {
			if sub.node == n && sub.typ == occ.typ {
				targets = append(targets, sub)
			}
		}
	}
	d.mu.Unlock()

	var first error
	for _, sub := range targets {
		if occ.stopped {
			break
		}
		if err := sub.fn(occ); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Fire delivers an occurrence of typ originating at source.
func (d *Document) Fire(typ string, source *html.Node) (*Occurrence, error) {
	occ := NewOccurrence(typ, source)
	return occ, d.Deliver(occ)
}

// FireByID fires typ at the element with the given id.
func (d *Document) FireByID(typ, id string) (*Occurrence, error) {
	n, err := d.ByID(id)
	if err != nil {
		return nil, err
	}
	return d.Fire(typ, n)
}
