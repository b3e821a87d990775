package notes

// CreateNoteRequest represents a note creation request
type CreateNoteRequest struct {
	Title string `json:"title" example:"Groceries"`
	Body  string `json:"body" example:"milk, eggs, bread"`
	Image string `json:"image" example:"data:image/png;base64,iVBORw0KGgo="`
	Color string `json:"color" validate:"omitempty,notecolor" example:"yellow"`
}

// UpdateNoteRequest represents a note edit; omitted fields keep their value
type UpdateNoteRequest struct {
	Title *string `json:"title,omitempty" example:"Groceries for Sunday"`
	Body  *string `json:"body,omitempty" example:"milk, eggs"`
	Image *string `json:"image,omitempty" example:""`
}

// ColorRequest represents a recolor request
type ColorRequest struct {
	Color string `json:"color" validate:"required,notecolor" example:"teal"`
}

// ReorderRequest moves the active note at From to To
type ReorderRequest struct {
	From *int `json:"from" validate:"required,min=0" example:"0"`
	To   *int `json:"to" validate:"required,min=0" example:"2"`
}

// HoverRequest reports the pointer over a note cell during a drag. Either
// Fraction or Rect together with Y must be given.
type HoverRequest struct {
	DragIndex  *int     `json:"drag_index" validate:"required,min=0" example:"0"`
	HoverIndex *int     `json:"hover_index" validate:"required,min=0" example:"1"`
	Fraction   *float64 `json:"fraction,omitempty" validate:"required_without=Rect,omitempty,min=0,max=1" example:"0.45"`
	Rect       *Rect    `json:"rect,omitempty" validate:"required_without=Fraction"`
	Y          *float64 `json:"y,omitempty" validate:"required_with=Rect" example:"165"`
}

// NoteResponse represents a single note response
type NoteResponse struct {
	Note *Note `json:"note"`
}

// EditNoteResponse reports an edit; Trashed is set when the edit emptied the note
type EditNoteResponse struct {
	Note    *Note `json:"note"`
	Trashed bool  `json:"trashed" example:"false"`
}

// ListNotesResponse represents the active board
type ListNotesResponse struct {
	Notes []Note `json:"notes"`
	Count int    `json:"count" example:"12"`
}

// TrashedNote is a trashed note with its expiry countdown
type TrashedNote struct {
	Note
	DaysRemaining int `json:"days_remaining" example:"14"`
}

// ListTrashResponse represents the trash, most recently deleted first
type ListTrashResponse struct {
	Notes []TrashedNote `json:"notes"`
	Count int           `json:"count" example:"3"`
}

// CountResponse reports how many notes an operation affected
type CountResponse struct {
	Count int `json:"count" example:"3"`
}

// HoverResponse reports whether a hover moved the dragged note
type HoverResponse struct {
	Moved bool                `json:"moved" example:"true"`
	Move  *ReorderInstruction `json:"move,omitempty"`
}

// EditorResponse holds the note open in the editor, or null
type EditorResponse struct {
	Note *Note `json:"note"`
}

// PaletteResponse lists the selectable colors
type PaletteResponse struct {
	Colors []Swatch `json:"colors"`
}
