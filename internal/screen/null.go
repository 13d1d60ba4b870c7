package screen

// NullScreen is an in-memory screen for tests and headless runs.
type NullScreen struct {
	width, height int
	cells         [][]rune
	mouse         bool
	events        chan Event
	done          chan struct{}
}

// NewNullScreen creates a null screen with the given dimensions.
func NewNullScreen(width, height int) *NullScreen {
	return &NullScreen{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		done:   make(chan struct{}),
	}
}

func (s *NullScreen) Init() error {
	s.cells = make([][]rune, s.height)
	for i := range s.cells {
		s.cells[i] = make([]rune, s.width)
		for j := range s.cells[i] {
			s.cells[i][j] = ' '
		}
	}
	return nil
}

func (s *NullScreen) Shutdown() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *NullScreen) Size() (int, int) {
	return s.width, s.height
}

func (s *NullScreen) DrawText(x, y int, text string, _ Style) {
	for _, r := range text {
		s.set(x, y, r)
		x++
	}
}

func (s *NullScreen) Fill(rect Rect, r rune, _ Style) {
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			s.set(x, y, r)
		}
	}
}

func (s *NullScreen) set(x, y int, r rune) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height && s.cells != nil {
		s.cells[y][x] = r
	}
}

func (s *NullScreen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = ' '
		}
	}
}

func (s *NullScreen) Show() {}

func (s *NullScreen) PollEvent() Event {
	select {
	case ev := <-s.events:
		return ev
	case <-s.done:
		return Event{Type: EventInterrupt}
	}
}

func (s *NullScreen) PostEvent(event Event) {
	select {
	case s.events <- event:
	default:
		// Dropped when the queue is full.
	}
}

func (s *NullScreen) EnableMouse()  { s.mouse = true }
func (s *NullScreen) DisableMouse() { s.mouse = false }

// MouseEnabled reports whether mouse reporting is on.
func (s *NullScreen) MouseEnabled() bool {
	return s.mouse
}

// Line returns row y as a string for assertions.
func (s *NullScreen) Line(y int) string {
	if y < 0 || y >= len(s.cells) {
		return ""
	}
	return string(s.cells[y])
}
