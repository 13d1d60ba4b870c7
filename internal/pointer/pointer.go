// Package pointer describes the pointing device the host environment offers.
//
// A Profile names the press, move and release occurrence types for one kind
// of device. The profile is chosen once at startup and handed to whatever
// registers callbacks, so routing code never branches on the device.
package pointer

import (
	"errors"
	"fmt"
	"strings"
)

// EnvVar overrides profile detection when set to "mouse" or "touch".
const EnvVar = "DOMEVENTS_POINTER"

// ErrUnknownProfile is returned for profile names other than mouse or touch.
var ErrUnknownProfile = errors.New("unknown pointer profile")

// Profile names the occurrence types produced by a pointing device.
type Profile struct {
	Name    string
	Press   string
	Move    string
	Release string
}

// Built-in profiles.
var (
	Mouse = Profile{Name: "mouse", Press: "mousedown", Move: "mousemove", Release: "mouseup"}
	Touch = Profile{Name: "touch", Press: "touchstart", Move: "touchmove", Release: "touchend"}
)

// Click is the occurrence type emitted for completed clicks, independent of
// the profile.
const Click = "click"

// Types returns the press, move and release names.
func (p Profile) Types() []string {
	return []string{p.Press, p.Move, p.Release}
}

// Lookup returns the profile called name.
func Lookup(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Mouse.Name:
		return Mouse, nil
	case Touch.Name:
		return Touch, nil
	default:
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
}

// Detect picks the profile for this process. An explicit preference other
// than "" or "auto" wins; otherwise EnvVar is consulted through getenv, and
// the mouse profile is the fallback.
func Detect(preferred string, getenv func(string) string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(preferred)) {
	case "", "auto":
	default:
		return Lookup(preferred)
	}

	if getenv != nil {
		if v := getenv(EnvVar); v != "" {
			return Lookup(v)
		}
	}
	return Mouse, nil
}

// Point is a screen coordinate.
type Point struct {
	X int
	Y int
}

// Distance returns the Manhattan distance between two points.
func (p Point) Distance(other Point) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Positioner is implemented by occurrences that carry pointer coordinates.
// Touch occurrences report their first touch point.
type Positioner interface {
	Position() (x, y int)
}

// Position extracts the pointer coordinates of occ.
func Position(occ any) (Point, bool) {
	p, ok := occ.(Positioner)
	if !ok {
		return Point{}, false
	}
	x, y := p.Position()
	return Point{X: x, Y: y}, true
}
