// Package memtree provides an in-memory node tree that satisfies
// env.Adapter. It is used to embed the delegation engine in headless
// programs and to drive it with synthetic occurrences in tests.
package memtree

import (
	"errors"
	"iter"
	"sync"

	"github.com/dshills/domevents/internal/env"
)

// Node is an element of the tree. Nodes are compared by pointer.
type Node struct {
	Name string

	parent   *Node
	children []*Node
}

// NewNode creates a detached node.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Append attaches child under n and returns child for chaining.
// A child that already has a parent is moved.
func (n *Node) Append(child *Node) *Node {
	if child.parent != nil {
		child.Remove()
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// String returns the node name.
func (n *Node) String() string {
	return n.Name
}

// subscription is a native subscription created by Tree.Attach.
type subscription struct {
	node *Node
	typ  string
	fn   env.NativeFunc[*Node]
}

func (s *subscription) Type() string { return s.typ }

// Tree adapts a node hierarchy to env.Adapter.
type Tree struct {
	root *Node

	mu       sync.Mutex
	subs     []*subscription
	attaches map[string]int
}

// New creates a Tree rooted at root.
func New(root *Node) *Tree {
	return &Tree{
		root:     root,
		attaches: make(map[string]int),
	}
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Attach subscribes fn to occurrences of typ reaching node.
func (t *Tree) Attach(node *Node, typ string, fn env.NativeFunc[*Node]) (env.Subscription, error) {
	if node == nil {
		return nil, errors.New("memtree: attach to nil node")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	sub := &subscription{node: node, typ: typ, fn: fn}
	t.subs = append(t.subs, sub)
	t.attaches[typ]++
	return sub, nil
}

// Detach releases a subscription returned by Attach.
func (t *Tree) Detach(s env.Subscription) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, sub := range t.subs {
		if sub == s {
			t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
			return nil
		}
	}
	return env.ErrUnknownSubscription
}

// Ancestors walks from source up to the root.
func (t *Tree) Ancestors(source *Node) iter.Seq[*Node] {
	return env.Chain(source, t.root, func(n *Node) (*Node, bool) {
		return n.parent, n.parent != nil
	})
}

// Attaches returns how many times Attach was called for typ.
func (t *Tree) Attaches(typ string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.attaches[typ]
}

// Subscriptions returns the number of live subscriptions for typ.
func (t *Tree) Subscriptions(typ string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, sub := range t.subs {
		if sub.typ == typ {
			n++
		}
	}
	return n
}

// Deliver sends occ to every subscription for its type whose node is on the
// source's ancestor chain, nearest first. It returns the first error.
func (t *Tree) Deliver(occ *Occurrence) error {
	t.mu.Lock()
	var targets []*subscription
	for node := range t.Ancestors(occ.source) {
		for _, sub := range t.subs {
			if sub.node == node && sub.typ == occ.typ {
				targets = append(targets, sub)
			}
		}
	}
	t.mu.Unlock()

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

// Fire builds an occurrence of typ from source and delivers it.
func (t *Tree) Fire(typ string, source *Node) (*Occurrence, error) {
	occ := NewOccurrence(typ, source)
	return occ, t.Deliver(occ)
}
