package screen

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Screen using tcell.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal screen on the controlling tty.
func NewTerminal() (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: s}, nil
}

// NewTerminalFrom wraps an existing tcell screen, such as a simulation screen.
func NewTerminalFrom(s tcell.Screen) *Terminal {
	return &Terminal{screen: s}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) DrawText(x, y int, text string, style Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ts := convertStyle(style)
	for _, r := range text {
		t.screen.SetContent(x, y, r, nil, ts)
		x++
	}
}

func (t *Terminal) Fill(rect Rect, r rune, style Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ts := convertStyle(style)
	width, height := t.screen.Size()
	for y := max(rect.Y, 0); y < rect.Y+rect.Height && y < height; y++ {
		for x := max(rect.X, 0); x < rect.X+rect.Width && x < width; x++ {
			t.screen.SetContent(x, y, r, nil, ts)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// PollEvent blocks without holding the lock so drawing can proceed.
func (t *Terminal) PollEvent() Event {
	return convertEvent(t.screen.PollEvent())
}

func (t *Terminal) PostEvent(event Event) {
	var ev tcell.Event
	switch event.Type {
	case EventKey:
		ev = tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod))
	case EventMouse:
		ev = tcell.NewEventMouse(event.MouseX, event.MouseY,
			convertToTcellButtons(event.Buttons), convertToTcellMod(event.Mod))
	case EventInterrupt:
		ev = tcell.NewEventInterrupt(nil)
	default:
		return
	}
	_ = t.screen.PostEvent(ev) // best-effort; event queue may be full
}

func (t *Terminal) EnableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.EnableMouse()
}

func (t *Terminal) DisableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.DisableMouse()
}

// Content returns the rune drawn at (x, y).
func (t *Terminal) Content(x, y int) rune {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, _, _, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return mainc
}

func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault
	if s.Bold {
		style = style.Bold(true)
	}
	if s.Dim {
		style = style.Dim(true)
	}
	if s.Reverse {
		style = style.Reverse(true)
	}
	return style
}

// convertEvent converts tcell events to our Event type. A nil event means
// the screen was finalized.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case nil:
		return Event{Type: EventInterrupt}

	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:    EventMouse,
			MouseX:  x,
			MouseY:  y,
			Buttons: convertButtons(e.Buttons()),
			Mod:     convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{
			Type:   EventResize,
			Width:  w,
			Height: h,
		}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}

	default:
		return Event{Type: EventNone}
	}
}

func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyCtrlC:
		return KeyCtrlC
	default:
		return KeyOther
	}
}

func convertToTcellKey(k Key) tcell.Key {
	switch k {
	case KeyRune:
		return tcell.KeyRune
	case KeyEscape:
		return tcell.KeyEscape
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyCtrlC:
		return tcell.KeyCtrlC
	default:
		return tcell.KeyNUL
	}
}

func convertMod(m tcell.ModMask) ModMask {
	var mod ModMask
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mod |= ModMeta
	}
	return mod
}

func convertToTcellMod(m ModMask) tcell.ModMask {
	var mod tcell.ModMask
	if m.Has(ModShift) {
		mod |= tcell.ModShift
	}
	if m.Has(ModCtrl) {
		mod |= tcell.ModCtrl
	}
	if m.Has(ModAlt) {
		mod |= tcell.ModAlt
	}
	if m.Has(ModMeta) {
		mod |= tcell.ModMeta
	}
	return mod
}

var buttonMap = []struct {
	tc  tcell.ButtonMask
	own ButtonMask
}{
	{tcell.Button1, ButtonPrimary},
	{tcell.Button2, ButtonSecondary},
	{tcell.Button3, ButtonMiddle},
	{tcell.WheelUp, WheelUp},
	{tcell.WheelDown, WheelDown},
}

func convertButtons(b tcell.ButtonMask) ButtonMask {
	var out ButtonMask
	for _, m := range buttonMap {
		if b&m.tc != 0 {
			out |= m.own
		}
	}
	return out
}

func convertToTcellButtons(b ButtonMask) tcell.ButtonMask {
	out := tcell.ButtonNone
	for _, m := range buttonMap {
		if b&m.own != 0 {
			out |= m.tc
		}
	}
	return out
}
