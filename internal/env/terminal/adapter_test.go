package terminal

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/dshills/domevents/internal/domevents"
	"github.com/dshills/domevents/internal/env"
	"github.com/dshills/domevents/internal/pointer"
	"github.com/dshills/domevents/internal/screen"
)

type fixture struct {
	root, toolbar, save, body *Widget
}

func newFixture() fixture {
	root := NewWidget("root", "", screen.Rect{Width: 20, Height: 5})
	toolbar := root.Add(NewWidget("toolbar", "", screen.Rect{Width: 20, Height: 1}))
	save := toolbar.Add(NewWidget("save", "Save", screen.Rect{X: 2, Width: 6, Height: 1}))
	body := root.Add(NewWidget("body", "", screen.Rect{Y: 1, Width: 20, Height: 4}))
	return fixture{root: root, toolbar: toolbar, save: save, body: body}
}

// clock returns a time source advanced manually by the test.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func mouse(x, y int, b screen.ButtonMask) screen.Event {
	return screen.Event{Type: screen.EventMouse, MouseX: x, MouseY: y, Buttons: b}
}

// record attaches a subscription for each type on w and collects what it sees.
func record(t *testing.T, a *Adapter, w *Widget, types ...string) *[]string {
	t.Helper()
	var got []string
	for _, typ := range types {
		_, err := a.Attach(w, typ, func(occ env.Occurrence[*Widget]) error {
			entry := occ.Type() + "@" + occ.Source().ID
			if o, ok := occ.(*Occurrence); ok && o.Count > 0 {
				entry += "x" + string(rune('0'+o.Count))
			}
			got = append(got, entry)
			return nil
		})
		if err != nil {
			t.Fatalf("Attach(%s) failed: %v", typ, err)
		}
	}
	return &got
}

func TestWidgetHitTest(t *testing.T) {
	f := newFixture()

	tests := []struct {
		x, y int
		want *Widget
	}{
		{3, 0, f.save},
		{0, 0, f.toolbar},
		{10, 3, f.body},
		{25, 0, nil},
		{-1, 2, nil},
	}

	for _, tt := range tests {
		if got := f.root.HitTest(tt.x, tt.y); got != tt.want {
			t.Errorf("HitTest(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWidgetAddMoves(t *testing.T) {
	f := newFixture()

	f.body.Add(f.save)
	if f.save.Parent() != f.body {
		t.Errorf("Parent() = %v, want body", f.save.Parent())
	}
	if len(f.toolbar.Children()) != 0 {
		t.Errorf("toolbar still has %d children", len(f.toolbar.Children()))
	}
	if f.root.Find("save") != f.save {
		t.Error("Find(save) did not locate moved widget")
	}
	if f.root.Find("missing") != nil {
		t.Error("Find(missing) should return nil")
	}
}

func TestAdapterAncestors(t *testing.T) {
	f := newFixture()
	a := New(screen.NewNullScreen(20, 5), f.root)

	var ids []string
	for w := range a.Ancestors(f.save) {
		ids = append(ids, w.ID)
	}
	if want := []string{"save", "toolbar", "root"}; !slices.Equal(ids, want) {
		t.Errorf("Ancestors = %v, want %v", ids, want)
	}
}

func TestAdapterDetach(t *testing.T) {
	f := newFixture()
	a := New(screen.NewNullScreen(20, 5), f.root)

	sub, err := a.Attach(f.root, "mousedown", func(env.Occurrence[*Widget]) error { return nil })
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if sub.Type() != "mousedown" {
		t.Errorf("Type() = %q", sub.Type())
	}
	if err := a.Detach(sub); err != nil {
		t.Errorf("Detach failed: %v", err)
	}
	if err := a.Detach(sub); !errors.Is(err, env.ErrUnknownSubscription) {
		t.Errorf("second Detach = %v, want ErrUnknownSubscription", err)
	}
	if _, err := a.Attach(nil, "mousedown", nil); err == nil {
		t.Error("Attach(nil) should fail")
	}
}

func TestHandleEventPressReleaseClick(t *testing.T) {
	f := newFixture()
	c := &clock{t: time.Unix(1000, 0)}
	a := New(screen.NewNullScreen(20, 5), f.root, WithClock(c.now))
	got := record(t, a, f.root, "mousedown", "mousemove", "mouseup", pointer.Click)

	_ = a.HandleEvent(mouse(3, 0, screen.ButtonPrimary))
	_ = a.HandleEvent(mouse(3, 0, screen.ButtonNone))
	c.advance(100 * time.Millisecond)
	_ = a.HandleEvent(mouse(3, 0, screen.ButtonPrimary))
	_ = a.HandleEvent(mouse(3, 0, screen.ButtonNone))

	want := []string{
		"mousedown@save", "mouseup@save", "click@savex1",
		"mousedown@save", "mouseup@save", "click@savex2",
	}
	if !slices.Equal(*got, want) {
		t.Errorf("occurrences = %v, want %v", *got, want)
	}
}

func TestHandleEventDragOffCancelsClick(t *testing.T) {
	f := newFixture()
	a := New(screen.NewNullScreen(20, 5), f.root)
	got := record(t, a, f.root, "mousedown", "mousemove", "mouseup", pointer.Click)

	_ = a.HandleEvent(mouse(3, 0, screen.ButtonPrimary))
	_ = a.HandleEvent(mouse(5, 2, screen.ButtonPrimary))
	_ = a.HandleEvent(mouse(5, 2, screen.ButtonNone))

	want := []string{"mousedown@save", "mousemove@body", "mouseup@body"}
	if !slices.Equal(*got, want) {
		t.Errorf("occurrences = %v, want %v", *got, want)
	}
}

func TestHandleEventTouchProfile(t *testing.T) {
	f := newFixture()
	a := New(screen.NewNullScreen(20, 5), f.root, WithProfile(pointer.Touch))
	got := record(t, a, f.root, "touchstart", "touchmove", "touchend", "mousedown")

	_ = a.HandleEvent(mouse(10, 3, screen.ButtonPrimary))
	_ = a.HandleEvent(mouse(11, 3, screen.ButtonPrimary))
	_ = a.HandleEvent(mouse(11, 3, screen.ButtonNone))

	want := []string{"touchstart@body", "touchmove@body", "touchend@body"}
	if !slices.Equal(*got, want) {
		t.Errorf("occurrences = %v, want %v", *got, want)
	}
	if a.Profile() != pointer.Touch {
		t.Errorf("Profile() = %v, want touch", a.Profile())
	}
}

func TestHandleEventIgnoresOutsideAndWheel(t *testing.T) {
	f := newFixture()
	a := New(screen.NewNullScreen(20, 5), f.root)
	got := record(t, a, f.root, "mousedown", "mousemove", "mouseup")

	_ = a.HandleEvent(mouse(3, 0, screen.WheelUp))
	_ = a.HandleEvent(mouse(50, 50, screen.ButtonPrimary))
	_ = a.HandleEvent(mouse(50, 50, screen.WheelUp))
	_ = a.HandleEvent(screen.Event{Type: screen.EventKey, Rune: 'x'})

	if len(*got) != 0 {
		t.Errorf("occurrences = %v, want none", *got)
	}
}

func TestDeliverStopPropagation(t *testing.T) {
	f := newFixture()
	a := New(screen.NewNullScreen(20, 5), f.root)

	var order []string
	_, _ = a.Attach(f.toolbar, "mousedown", func(occ env.Occurrence[*Widget]) error {
		order = append(order, "toolbar")
		occ.(*Occurrence).StopPropagation()
		return nil
	})
	_, _ = a.Attach(f.root, "mousedown", func(env.Occurrence[*Widget]) error {
		order = append(order, "root")
		return nil
	})

	_ = a.HandleEvent(mouse(3, 0, screen.ButtonPrimary))
	if !slices.Equal(order, []string{"toolbar"}) {
		t.Errorf("order = %v, want [toolbar]", order)
	}
}

func TestAdapterWithEngine(t *testing.T) {
	f := newFixture()
	a := New(screen.NewNullScreen(20, 5), f.root)
	engine := domevents.New[*Widget](a)

	var hits []string
	cb := domevents.NewCallback(func(occ env.Occurrence[*Widget]) error {
		x, y := occ.(*Occurrence).Position()
		hits = append(hits, occ.Source().ID+"@"+string(rune('0'+x))+string(rune('0'+y)))
		return nil
	})
	if err := engine.On(f.toolbar, "mousedown", cb); err != nil {
		t.Fatalf("On failed: %v", err)
	}

	_ = a.HandleEvent(mouse(3, 0, screen.ButtonPrimary))
	_ = a.HandleEvent(mouse(3, 0, screen.ButtonNone))
	_ = a.HandleEvent(mouse(4, 2, screen.ButtonPrimary))

	if want := []string{"save@30"}; !slices.Equal(hits, want) {
		t.Errorf("hits = %v, want %v", hits, want)
	}
	if got := engine.Stats(); got.Matched != 1 || got.Unmatched != 1 {
		t.Errorf("Stats = %+v, want 1 matched 1 unmatched", got)
	}
}

func TestDraw(t *testing.T) {
	f := newFixture()
	s := screen.NewNullScreen(20, 5)
	_ = s.Init()
	a := New(s, f.root)

	a.Draw()
	if line := s.Line(0); !strings.Contains(line, "Save") {
		t.Errorf("Line(0) = %q, want Save label", line)
	}
}

func TestRun(t *testing.T) {
	f := newFixture()
	s := screen.NewNullScreen(20, 5)
	_ = s.Init()
	a := New(s, f.root)
	got := record(t, a, f.root, "mousedown")

	s.PostEvent(mouse(3, 0, screen.ButtonPrimary))
	s.PostEvent(screen.Event{Type: screen.EventKey, Key: screen.KeyRune, Rune: 'q'})

	err := a.Run(context.Background(), func(ev screen.Event) bool {
		return ev.Rune != 'q'
	})
	if err != nil {
		t.Errorf("Run returned %v, want nil", err)
	}
	if !slices.Equal(*got, []string{"mousedown@save"}) {
		t.Errorf("occurrences = %v", *got)
	}
}

func TestRunCancel(t *testing.T) {
	f := newFixture()
	s := screen.NewNullScreen(20, 5)
	_ = s.Init()
	a := New(s, f.root)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx, nil)
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
