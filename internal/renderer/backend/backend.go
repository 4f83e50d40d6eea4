// Package backend abstracts the terminal the editor draws on.
//
// Terminal drives a real terminal through tcell. NullBackend keeps cells in
// memory and takes events from a channel; tests use it to drive the app.
package backend

import (
	"strings"

	"github.com/dshills/keynote/internal/input/key"
)

// Color is a palette index. ColorDefault keeps the terminal's color.
type Color int16

const ColorDefault Color = -1

// Palette colors used by the schema.
const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray Color = 8
)

// Attr is a set of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrStrikethrough
	AttrReverse
	AttrDim
)

// Style is the look of a cell.
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// DefaultStyle uses terminal colors and no attributes.
func DefaultStyle() Style {
	return Style{Fg: ColorDefault, Bg: ColorDefault}
}

// With adds attributes.
func (s Style) With(a Attr) Style {
	s.Attrs |= a
	return s
}

// Toggle flips attributes.
func (s Style) Toggle(a Attr) Style {
	s.Attrs ^= a
	return s
}

// Has reports whether all of a are set.
func (s Style) Has(a Attr) bool { return s.Attrs&a == a }

// Foreground sets the foreground color.
func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

// Background sets the background color.
func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

// Merge overlays o's attributes and non-default colors on s.
func (s Style) Merge(o Style) Style {
	s.Attrs |= o.Attrs
	if o.Fg != ColorDefault {
		s.Fg = o.Fg
	}
	if o.Bg != ColorDefault {
		s.Bg = o.Bg
	}
	return s
}

// Cell is one screen position.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell is a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Style: DefaultStyle()}
}

// EventType identifies a backend event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventPasteStart
	EventPasteEnd
	EventInterrupt
)

// Event is a terminal event.
type Event struct {
	Type EventType

	// Key is set for EventKey.
	Key key.Event

	// Width and Height are set for EventResize.
	Width, Height int
}

// Backend is a drawable, event-producing terminal.
type Backend interface {
	Init() error
	Shutdown()

	Size() (width, height int)

	// SetCell draws at (x, y). Positions off screen are ignored.
	SetCell(x, y int, c Cell)

	Clear()

	// Show flushes drawing to the display.
	Show()

	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks for the next event. ok is false once the backend has
	// shut down.
	PollEvent() (ev Event, ok bool)

	// PostEvent queues a synthetic event.
	PostEvent(ev Event)

	Beep()
}

// NullBackend is an in-memory Backend.
type NullBackend struct {
	width, height int
	cells         [][]Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	shows         int
	events        chan Event
	done          chan struct{}
}

// NewNullBackend creates a backend of the given size.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
	b.resize(width, height)
	return b
}

func (b *NullBackend) resize(width, height int) {
	b.width, b.height = width, height
	b.cells = make([][]Cell, height)
	for y := range b.cells {
		b.cells[y] = make([]Cell, width)
		for x := range b.cells[y] {
			b.cells[y][x] = EmptyCell()
		}
	}
}

func (b *NullBackend) Init() error { return nil }

// Shutdown makes PollEvent return ok == false.
func (b *NullBackend) Shutdown() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

func (b *NullBackend) Size() (int, int) { return b.width, b.height }

func (b *NullBackend) SetCell(x, y int, c Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = c
	}
}

// Cell returns the cell at (x, y).
func (b *NullBackend) Cell(x, y int) Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return EmptyCell()
}

// Row returns row y as text with trailing blanks trimmed.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Screen returns all rows joined by newlines.
func (b *NullBackend) Screen() string {
	rows := make([]string, b.height)
	for y := range rows {
		rows[y] = b.Row(y)
	}
	return strings.Join(rows, "\n")
}

func (b *NullBackend) Clear() {
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = EmptyCell()
		}
	}
}

func (b *NullBackend) Show() { b.shows++ }

// Shows counts calls to Show.
func (b *NullBackend) Shows() int { return b.shows }

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX, b.cursorY = x, y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() { b.cursorVisible = false }

// CursorPosition reports the cursor for tests.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

func (b *NullBackend) PollEvent() (Event, bool) {
	select {
	case ev := <-b.events:
		return ev, true
	case <-b.done:
		return Event{}, false
	}
}

// PostEvent queues ev, dropping it when the queue is full.
func (b *NullBackend) PostEvent(ev Event) {
	select {
	case b.events <- ev:
	default:
	}
}

// Resize changes the size and queues a resize event.
func (b *NullBackend) Resize(width, height int) {
	b.resize(width, height)
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func (b *NullBackend) Beep() {}
