package notes

import "errors"

// ErrNoteNotFound is returned by callers that need to report a missing note.
// Store operations themselves treat unknown ids as a silent no-op.
var ErrNoteNotFound = errors.New("note not found")

// ErrInvalidIndex is returned when a reorder index is outside the active list.
var ErrInvalidIndex = errors.New("invalid index")

// ErrPersist is returned when a list could not be written to the durable store.
// The in-memory change is kept.
var ErrPersist = errors.New("failed to persist notes")

// ErrLoadNotes is returned when the lists could not be read at startup.
var ErrLoadNotes = errors.New("failed to load notes")

// ErrGestureEnded is returned when a finished drag gesture receives more input.
var ErrGestureEnded = errors.New("drag gesture already ended")

// ErrBadRequest is returned when request parameters are invalid.
var ErrBadRequest = errors.New("bad request")
