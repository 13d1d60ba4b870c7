package memtree

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/domevents/internal/env"
)

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestNode_AppendRemove(t *testing.T) {
	root := NewNode("root")
	a := root.Append(NewNode("a"))
	b := root.Append(NewNode("b"))

	if a.Parent() != root || b.Parent() != root {
		t.Fatal("Append did not set parent")
	}
	if got := names(root.Children()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Children() = %v", got)
	}

	a.Remove()
	if a.Parent() != nil {
		t.Error("Remove did not clear parent")
	}
	if got := names(root.Children()); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Children() after Remove = %v", got)
	}

	// Moving a node re-parents it.
	b.Append(a)
	other := NewNode("other")
	other.Append(a)
	if a.Parent() != other || len(b.Children()) != 0 {
		t.Error("Append should move the child")
	}
}

func TestTree_Ancestors(t *testing.T) {
	body := NewNode("body")
	button := body.Append(NewNode("button"))
	span := button.Append(NewNode("span"))
	tree := New(body)

	var got []string
	for n := range tree.Ancestors(span) {
		got = append(got, n.Name)
	}
	if !reflect.DeepEqual(got, []string{"span", "button", "body"}) {
		t.Errorf("Ancestors() = %v", got)
	}
}

func TestTree_AttachDeliverDetach(t *testing.T) {
	body := NewNode("body")
	button := body.Append(NewNode("button"))
	tree := New(body)

	var got []string
	sub, err := tree.Attach(body, "press", func(occ env.Occurrence[*Node]) error {
		got = append(got, occ.Source().Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if sub.Type() != "press" {
		t.Errorf("Type() = %q, want press", sub.Type())
	}
	if tree.Attaches("press") != 1 || tree.Subscriptions("press") != 1 {
		t.Error("attach accounting is wrong")
	}

	if _, err := tree.Fire("press", button); err != nil {
		t.Fatalf("Fire() error = %v", err)
	}
	if _, err := tree.Fire("release", button); err != nil {
		t.Fatalf("Fire() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"button"}) {
		t.Errorf("delivered = %v, want [button]", got)
	}

	if err := tree.Detach(sub); err != nil {
		t.Fatalf("Detach() error = %v", err)
	}
	if err := tree.Detach(sub); !errors.Is(err, env.ErrUnknownSubscription) {
		t.Errorf("second Detach() error = %v, want ErrUnknownSubscription", err)
	}
	if tree.Subscriptions("press") != 0 {
		t.Error("subscription still live after Detach")
	}
}

func TestTree_AttachNil(t *testing.T) {
	tree := New(NewNode("root"))
	if _, err := tree.Attach(nil, "x", func(env.Occurrence[*Node]) error { return nil }); err == nil {
		t.Error("expected error attaching to nil node")
	}
}

func TestTree_StopPropagation(t *testing.T) {
	body := NewNode("body")
	inner := body.Append(NewNode("inner"))
	tree := New(body)

	var calls []string
	tree.Attach(inner, "press", func(occ env.Occurrence[*Node]) error {
		calls = append(calls, "inner")
		occ.(*Occurrence).StopPropagation()
		return nil
	})
	tree.Attach(body, "press", func(env.Occurrence[*Node]) error {
		calls = append(calls, "body")
		return nil
	})

	occ, _ := tree.Fire("press", inner)
	if !reflect.DeepEqual(calls, []string{"inner"}) {
		t.Errorf("calls = %v, want [inner]", calls)
	}
	if !occ.PropagationStopped() {
		t.Error("PropagationStopped() = false")
	}
}

func TestOccurrence_Position(t *testing.T) {
	occ := NewOccurrence("move", NewNode("n")).At(3, 7)
	if x, y := occ.Position(); x != 3 || y != 7 {
		t.Errorf("Position() = (%d, %d), want (3, 7)", x, y)
	}
}
