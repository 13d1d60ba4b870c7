// Package screen provides the terminal surface that the terminal adapter
// draws widgets on and reads pointer input from.
package screen

// EventType identifies the type of screen event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// Key represents a keyboard key.
type Key int

// Key constants for the keys the adapter cares about.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyCtrlC
	KeyOther
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// ButtonMask is the set of mouse buttons held during a mouse event.
type ButtonMask int

const (
	ButtonNone    ButtonMask = 0
	ButtonPrimary ButtonMask = 1 << (iota - 1)
	ButtonSecondary
	ButtonMiddle
	WheelUp
	WheelDown
)

// Pressed reports whether any non-wheel button is held.
func (b ButtonMask) Pressed() bool {
	return b&(ButtonPrimary|ButtonSecondary|ButtonMiddle) != 0
}

// Event represents a screen event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	Buttons        ButtonMask

	// Resize event fields
	Width, Height int
}

// Style is the subset of text attributes widgets use.
type Style struct {
	Bold    bool
	Reverse bool
	Dim     bool
}

// Rect is a rectangular screen region.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Screen is the interface for terminal surfaces.
type Screen interface {
	// Init prepares the screen for use. Must be called before any other method.
	Init() error

	// Shutdown releases resources and restores terminal state.
	Shutdown()

	// Size returns the current dimensions.
	Size() (width, height int)

	// DrawText writes text starting at (x, y). Cells outside the screen are ignored.
	DrawText(x, y int, text string, style Style)

	// Fill fills rect with r.
	Fill(rect Rect, r rune, style Style)

	// Clear clears the entire screen.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// PollEvent waits for and returns the next event.
	// It returns an EventInterrupt event once the screen is shut down.
	PollEvent() Event

	// PostEvent queues a synthetic event.
	PostEvent(event Event)

	// EnableMouse enables mouse event reporting.
	EnableMouse()

	// DisableMouse disables mouse event reporting.
	DisableMouse()
}
