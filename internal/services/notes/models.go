package notes

import (
	"strings"
	"time"
)

// Color is a palette entry name. The zero value renders as ColorNone.
type Color string

// Palette colors. The names are the wire values.
const (
	ColorNone   Color = "none"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorTeal   Color = "teal"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

// Swatch pairs a palette color with the hex value used to render it.
type Swatch struct {
	Name Color  `json:"name" example:"yellow"`
	Hex  string `json:"hex" example:"#fff475"`
}

var palette = []Swatch{
	{ColorNone, "#ffffff"},
	{ColorRed, "#f28b82"},
	{ColorOrange, "#fbbc04"},
	{ColorYellow, "#fff475"},
	{ColorGreen, "#ccff90"},
	{ColorTeal, "#a7ffeb"},
	{ColorBlue, "#cbf0f8"},
	{ColorPurple, "#aecbfa"},
	{ColorPink, "#fdcfe8"},
	{ColorGray, "#e8eaed"},
}

// Palette returns the selectable colors in display order.
func Palette() []Swatch {
	out := make([]Swatch, len(palette))
	copy(out, palette)
	return out
}

// ParseColor accepts a palette name or its hex value, case-insensitively.
// The empty string parses as ColorNone.
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ColorNone, true
	}
	for _, sw := range palette {
		if string(sw.Name) == s || sw.Hex == s {
			return sw.Name, true
		}
	}
	return "", false
}

// Valid reports whether c is a palette color.
func (c Color) Valid() bool {
	for _, sw := range palette {
		if sw.Name == c {
			return true
		}
	}
	return false
}

// Hex returns the render value of c, or the ColorNone value for unknown colors.
func (c Color) Hex() string {
	for _, sw := range palette {
		if sw.Name == c {
			return sw.Hex
		}
	}
	return palette[0].Hex
}

// UnmarshalText decodes names and legacy hex values; anything else becomes ColorNone
// so a stray value on disk never blocks loading the board.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, ok := ParseColor(string(b))
	if !ok {
		parsed = ColorNone
	}
	*c = parsed
	return nil
}

// Note represents a note on the board or in the trash
type Note struct {
	ID        string    `json:"id" example:"01JZ3V8Q6M0KX9T4N2B7C5D8EF"`
	Title     string    `json:"title" example:"Groceries"`
	Body      string    `json:"body" example:"milk, eggs, bread"`
	Image     string    `json:"image,omitempty" example:"data:image/png;base64,iVBORw0KGgo="`
	Color     Color     `json:"color" example:"yellow"`
	Timestamp time.Time `json:"timestamp" example:"2025-06-01T23:00:26.005703677Z"`
}

// IsEmpty reports whether the note carries no content worth keeping.
func (n Note) IsEmpty() bool {
	return strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Body) == "" && n.Image == ""
}

// Location tells which list holds a note.
type Location int

const (
	// Nowhere means the id is unknown.
	Nowhere Location = iota
	InActive
	InTrash
)

func (l Location) String() string {
	switch l {
	case InActive:
		return "active"
	case InTrash:
		return "trash"
	default:
		return "none"
	}
}

// Event types broadcast on the Bus.
const (
	EventCreated      = "created"
	EventUpdated      = "updated"
	EventTrashed      = "trashed"
	EventRestored     = "restored"
	EventPurged       = "purged"
	EventReordered    = "reordered"
	EventTrashEmptied = "trash_emptied"
	EventExpired      = "expired"
	EventEditorClosed = "editor_closed"
)

// NoteEvent represents a change on the board
type NoteEvent struct {
	Type  string              `json:"type" example:"created"`
	Note  *Note               `json:"note,omitempty"`
	Move  *ReorderInstruction `json:"move,omitempty"`
	Count int                 `json:"count,omitempty" example:"3"`
}
