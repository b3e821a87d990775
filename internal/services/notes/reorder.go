package notes

import (
	"context"
	"errors"
	"math"
	"sync"
)

// HoverThreshold is how far into the hovered cell the pointer must travel
// before the dragged note takes its place.
const HoverThreshold = 0.3

// ReorderInstruction moves the active note at From to position To.
type ReorderInstruction struct {
	From int `json:"from" example:"0"`
	To   int `json:"to" example:"2"`
}

// HoverMove decides whether hovering hoverIndex while dragging dragIndex
// should move the dragged note. fraction is the pointer position inside the
// hovered cell, 0 at the top edge and 1 at the bottom edge.
//
// Dragging down needs fraction >= HoverThreshold; dragging up needs
// fraction <= 1-HoverThreshold.
func HoverMove(dragIndex, hoverIndex int, fraction float64) (ReorderInstruction, bool) {
	if dragIndex == hoverIndex || math.IsNaN(fraction) {
		return ReorderInstruction{}, false
	}
	if dragIndex < hoverIndex && fraction < HoverThreshold {
		return ReorderInstruction{}, false
	}
	if dragIndex > hoverIndex && fraction > 1-HoverThreshold {
		return ReorderInstruction{}, false
	}
	return ReorderInstruction{From: dragIndex, To: hoverIndex}, true
}

// Rect is the vertical extent of a rendered note cell.
type Rect struct {
	Top    float64 `json:"top" example:"120"`
	Bottom float64 `json:"bottom" example:"220"`
}

// Fraction converts a pointer y coordinate to its position inside r,
// clamped to [0, 1]. A zero-height rect yields 0.
func (r Rect) Fraction(y float64) float64 {
	h := r.Bottom - r.Top
	if h <= 0 {
		return 0
	}
	f := (y - r.Top) / h
	return math.Min(1, math.Max(0, f))
}

// Reorderer is the part of the Store a drag gesture drives.
type Reorderer interface {
	Reorder(ctx context.Context, from, to int) error
}

// DragGesture tracks one drag from pick-up to drop. Each committed hover
// is a real Reorder on the store, so dropping or cancelling has nothing
// left to undo.
type DragGesture struct {
	mu     sync.Mutex
	store  Reorderer
	origin int
	index  int
	ended  bool
}

// NewDragGesture starts a gesture for the note currently at origin.
func NewDragGesture(store Reorderer, origin int) *DragGesture {
	return &DragGesture{store: store, origin: origin, index: origin}
}

// Hover feeds a pointer position over hoverIndex. It applies at most one
// reorder and reports whether the dragged note moved.
func (g *DragGesture) Hover(ctx context.Context, hoverIndex int, fraction float64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended {
		return false, ErrGestureEnded
	}

	move, ok := HoverMove(g.index, hoverIndex, fraction)
	if !ok {
		return false, nil
	}
	err := g.store.Reorder(ctx, move.From, move.To)
	if err != nil && !errors.Is(err, ErrPersist) {
		return false, err
	}
	// a persist failure still moved the note in memory
	g.index = move.To
	return true, err
}

// Index is the dragged note's current position.
func (g *DragGesture) Index() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index
}

// Drop ends the gesture and returns the net move it produced.
func (g *DragGesture) Drop() ReorderInstruction {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ended = true
	return ReorderInstruction{From: g.origin, To: g.index}
}

// Cancel ends the gesture. Moves already applied stay applied.
func (g *DragGesture) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ended = true
}
