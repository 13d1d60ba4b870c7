package pointer

import "time"

// Default multi-click thresholds.
const (
	DefaultDoubleClickTime     = 400 * time.Millisecond
	DefaultDoubleClickDistance = 4
)

// ClickTracker counts consecutive clicks for double and triple click
// detection. It is not safe for concurrent use.
type ClickTracker struct {
	maxTime     time.Duration
	maxDistance int

	lastPos   Point
	lastTime  time.Time
	lastCount int
}

// NewClickTracker creates a tracker. Non-positive thresholds fall back to
// the defaults.
func NewClickTracker(maxTime time.Duration, maxDistance int) *ClickTracker {
	if maxTime <= 0 {
		maxTime = DefaultDoubleClickTime
	}
	if maxDistance <= 0 {
		maxDistance = DefaultDoubleClickDistance
	}
	return &ClickTracker{
		maxTime:     maxTime,
		maxDistance: maxDistance,
	}
}

// Record registers a click and returns the click count (1, 2 or 3).
// The count wraps back to 1 after 3. A zero timestamp means now.
func (t *ClickTracker) Record(pos Point, timestamp time.Time) int {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	if t.inSequence(pos, timestamp) {
		t.lastCount++
		if t.lastCount > 3 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}

	t.lastPos = pos
	t.lastTime = timestamp
	return t.lastCount
}

func (t *ClickTracker) inSequence(pos Point, timestamp time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}

	// Negative elapsed time means the clock moved backwards.
	elapsed := timestamp.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}

	return pos.Distance(t.lastPos) <= t.maxDistance
}

// Reset clears the click history.
func (t *ClickTracker) Reset() {
	t.lastCount = 0
	t.lastTime = time.Time{}
	t.lastPos = Point{}
}
