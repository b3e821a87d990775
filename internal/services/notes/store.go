package notes

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultRetention is how long a trashed note is kept before it expires.
const DefaultRetention = 15 * 24 * time.Hour

const day = 24 * time.Hour

// Store owns the active and trashed lists and every mutation on them.
// Each operation runs under one mutex and writes the lists it touched
// before returning.
type Store struct {
	repo Repository
	bus  Bus
	log  *slog.Logger

	now       func() time.Time
	retention time.Duration

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	active  []Note
	trashed []Note
	editing string

	expired atomic.Uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithRetention sets how long trashed notes survive.
func WithRetention(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.retention = d
		}
	}
}

// NewStore creates an empty store. Call Load to read the persisted lists.
// bus may be nil when nobody listens for changes.
func NewStore(repo Repository, bus Bus, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		repo:      repo,
		bus:       bus,
		log:       log,
		now:       time.Now,
		retention: DefaultRetention,
		entropy:   ulid.Monotonic(rand.Reader, 0),
		active:    []Note{},
		trashed:   []Note{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retention returns the configured trash retention window.
func (s *Store) Retention() time.Duration {
	return s.retention
}

// Load reads both lists from the repository. A missing blob is an empty list.
// Duplicate ids are dropped, keeping the first occurrence with active
// notes taking precedence over trashed ones.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.read(ctx, KeyActive)
	if err != nil {
		return err
	}
	trashed, err := s.read(ctx, KeyTrashed)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(active)+len(trashed))
	s.active = s.dedupe(active, seen, KeyActive)
	s.trashed = s.dedupe(trashed, seen, KeyTrashed)

	s.log.Info("notes loaded", "active", len(s.active), "trashed", len(s.trashed))
	return nil
}

func (s *Store) read(ctx context.Context, key string) ([]Note, error) {
	blob, ok, err := s.repo.Load(ctx, key)
	if err != nil {
		s.log.Error(ErrLoadNotes.Error(), "error", err, "key", key)
		return nil, fmt.Errorf("%w: %w", ErrLoadNotes, err)
	}
	if !ok || len(blob) == 0 {
		return nil, nil
	}

	var list []Note
	if err := json.Unmarshal(blob, &list); err != nil {
		s.log.Error(ErrLoadNotes.Error(), "error", err, "key", key)
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadNotes, key, err)
	}
	return list, nil
}

func (s *Store) dedupe(list []Note, seen map[string]struct{}, key string) []Note {
	out := make([]Note, 0, len(list))
	for _, n := range list {
		if n.ID == "" {
			s.log.Warn("dropping stored note without id", "key", key)
			continue
		}
		if _, dup := seen[n.ID]; dup {
			s.log.Warn("dropping duplicate note id", "key", key, "note_id", n.ID)
			continue
		}
		seen[n.ID] = struct{}{}
		if n.Color == "" {
			n.Color = ColorNone
		}
		out = append(out, n)
	}
	return out
}

// AddNote inserts a new note at the head of the active list. Title and body
// are stored as given. An empty note is not stored and yields a nil note.
func (s *Store) AddNote(ctx context.Context, title, body, image string) (*Note, error) {
	return s.AddColoredNote(ctx, title, body, image, ColorNone)
}

// AddColoredNote is AddNote with an initial color, written and announced as
// one change. Colors outside the palette fall back to ColorNone.
func (s *Store) AddColoredNote(ctx context.Context, title, body, image string, color Color) (*Note, error) {
	if !color.Valid() {
		color = ColorNone
	}
	n := Note{
		Title: title,
		Body:  body,
		Image: image,
		Color: color,
	}
	if n.IsEmpty() {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n.Timestamp = s.now()
	n.ID = s.newID(n.Timestamp)
	s.active = prepend(s.active, n)

	err := s.persist(ctx, KeyActive)
	s.emit(ctx, NoteEvent{Type: EventCreated, Note: &n})
	return &n, err
}

// DeleteNote moves an active note to the head of the trash, stamping the
// deletion time. Unknown ids are ignored.
func (s *Store) DeleteNote(ctx context.Context, id string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return nil, nil
	}
	return s.trashLocked(ctx, i)
}

func (s *Store) trashLocked(ctx context.Context, i int) (*Note, error) {
	n := s.active[i]
	s.active = removeAt(s.active, i)
	n.Timestamp = s.now()
	s.trashed = prepend(s.trashed, n)

	err := s.persist(ctx, KeyActive, KeyTrashed)

	if s.editing == n.ID {
		s.editing = ""
		s.emit(ctx, NoteEvent{Type: EventEditorClosed, Note: &n})
	}
	s.emit(ctx, NoteEvent{Type: EventTrashed, Note: &n})
	return &n, err
}

// DuplicateNote copies an active note's content into a new note at the head.
func (s *Store) DuplicateNote(ctx context.Context, id string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return nil, nil
	}

	n := s.active[i]
	n.Timestamp = s.now()
	n.ID = s.newID(n.Timestamp)
	s.active = prepend(s.active, n)

	err := s.persist(ctx, KeyActive)
	s.emit(ctx, NoteEvent{Type: EventCreated, Note: &n})
	return &n, err
}

// SetColor recolors an active note in place. Colors outside the palette are ignored.
func (s *Store) SetColor(ctx context.Context, id string, color Color) (*Note, error) {
	if !color.Valid() {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return nil, nil
	}

	s.active[i].Color = color
	n := s.active[i]

	err := s.persist(ctx, KeyActive)
	s.emit(ctx, NoteEvent{Type: EventUpdated, Note: &n})
	return &n, err
}

// EditNote replaces the content of an active note, keeping its id, position
// and timestamp. When the result is empty the note goes to the trash
// instead and trashed is true.
func (s *Store) EditNote(ctx context.Context, id, title, body, image string) (note *Note, trashed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return nil, false, nil
	}

	if (Note{Title: title, Body: body, Image: image}).IsEmpty() {
		note, err = s.trashLocked(ctx, i)
		return note, true, err
	}

	s.active[i].Title = title
	s.active[i].Body = body
	s.active[i].Image = image
	n := s.active[i]

	err = s.persist(ctx, KeyActive)
	s.emit(ctx, NoteEvent{Type: EventUpdated, Note: &n})
	return &n, false, err
}

// RestoreNote moves a trashed note back to the head of the active list.
func (s *Store) RestoreNote(ctx context.Context, id string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.trashed, id)
	if i < 0 {
		return nil, nil
	}

	n := s.trashed[i]
	s.trashed = removeAt(s.trashed, i)
	n.Timestamp = s.now()
	s.active = prepend(s.active, n)

	err := s.persist(ctx, KeyActive, KeyTrashed)
	s.emit(ctx, NoteEvent{Type: EventRestored, Note: &n})
	return &n, err
}

// PermanentlyDelete removes a note from the trash for good.
func (s *Store) PermanentlyDelete(ctx context.Context, id string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.trashed, id)
	if i < 0 {
		return nil, nil
	}

	n := s.trashed[i]
	s.trashed = removeAt(s.trashed, i)

	err := s.persist(ctx, KeyTrashed)
	s.emit(ctx, NoteEvent{Type: EventPurged, Note: &n})
	return &n, err
}

// EmptyTrash drops every trashed note and reports how many there were.
func (s *Store) EmptyTrash(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.trashed)
	s.trashed = []Note{}

	err := s.persist(ctx, KeyTrashed)
	s.emit(ctx, NoteEvent{Type: EventTrashEmptied, Count: count})
	return count, err
}

// Reorder moves the active note at from to position to, shifting the notes
// in between by one.
func (s *Store) Reorder(ctx context.Context, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from < 0 || from >= len(s.active) || to < 0 || to >= len(s.active) {
		return ErrInvalidIndex
	}
	if from == to {
		return nil
	}

	n := s.active[from]
	s.active = removeAt(s.active, from)
	s.active = insertAt(s.active, to, n)

	err := s.persist(ctx, KeyActive)
	s.emit(ctx, NoteEvent{Type: EventReordered, Note: &n, Move: &ReorderInstruction{From: from, To: to}})
	return err
}

// PruneExpired drops trashed notes whose age at now has reached the
// retention window. Nothing is written when nothing expired.
func (s *Store) PruneExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Note, 0, len(s.trashed))
	for _, n := range s.trashed {
		if now.Sub(n.Timestamp) < s.retention {
			kept = append(kept, n)
		}
	}

	removed := len(s.trashed) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	s.trashed = kept
	s.expired.Add(uint64(removed))

	s.log.Info("expired trashed notes", "count", removed)

	err := s.persist(ctx, KeyTrashed)
	s.emit(ctx, NoteEvent{Type: EventExpired, Count: removed})
	return removed, err
}

// Active returns a copy of the active list in display order.
func (s *Store) Active() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.active)
}

// Trashed returns a copy of the trash, most recently deleted first.
func (s *Store) Trashed() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.trashed)
}

// Find looks an id up in both lists.
func (s *Store) Find(id string) (Note, Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.active, id); i >= 0 {
		return s.active[i], InActive
	}
	if i := indexOf(s.trashed, id); i >= 0 {
		return s.trashed[i], InTrash
	}
	return Note{}, Nowhere
}

// Counts returns the sizes of the active list and the trash.
func (s *Store) Counts() (active, trashed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active), len(s.trashed)
}

// DaysRemaining is the countdown shown for a trashed note: whole retention
// days minus whole days elapsed since deletion, never below zero.
func (s *Store) DaysRemaining(n Note, now time.Time) int {
	elapsed := int(now.Sub(n.Timestamp) / day)
	if elapsed < 0 {
		elapsed = 0
	}
	return max(0, int(s.retention/day)-elapsed)
}

// ExpiredTotal counts notes removed by PruneExpired since start.
func (s *Store) ExpiredTotal() uint64 {
	return s.expired.Load()
}

// OpenEditor marks an active note as the one being edited.
func (s *Store) OpenEditor(id string) (*Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return nil, false
	}
	s.editing = id
	n := s.active[i]
	return &n, true
}

// CloseEditor clears the editor session and reports whether one was open.
func (s *Store) CloseEditor() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	open := s.editing != ""
	s.editing = ""
	return open
}

// Editing returns the note open in the editor, if any.
func (s *Store) Editing() (*Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == "" {
		return nil, false
	}
	i := indexOf(s.active, s.editing)
	if i < 0 {
		return nil, false
	}
	n := s.active[i]
	return &n, true
}

// persist writes the named lists. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, keys ...string) error {
	blobs := make(map[string][]byte, len(keys))
	for _, key := range keys {
		list := s.active
		if key == KeyTrashed {
			list = s.trashed
		}
		blob, err := json.Marshal(list)
		if err != nil {
			s.log.Error(ErrPersist.Error(), "error", err, "key", key)
			return fmt.Errorf("%w: %w", ErrPersist, err)
		}
		blobs[key] = blob
	}

	if batch, ok := s.repo.(BatchRepository); ok && len(blobs) > 1 {
		if err := batch.SaveAll(ctx, blobs); err != nil {
			s.log.Error(ErrPersist.Error(), "error", err, "keys", keys)
			return fmt.Errorf("%w: %w", ErrPersist, err)
		}
		return nil
	}

	var errs []error
	for _, key := range keys {
		if err := s.repo.Save(ctx, key, blobs[key]); err != nil {
			s.log.Error(ErrPersist.Error(), "error", err, "key", key)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(errs...))
	}
	return nil
}

func (s *Store) emit(ctx context.Context, ev NoteEvent) {
	if s.bus == nil {
		return
	}
	s.bus.Broadcast(ctx, ev)
}

func (s *Store) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func indexOf(list []Note, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func prepend(list []Note, n Note) []Note {
	return append([]Note{n}, list...)
}

func removeAt(list []Note, i int) []Note {
	out := make([]Note, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func insertAt(list []Note, i int, n Note) []Note {
	out := make([]Note, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, n)
	return append(out, list[i:]...)
}

func clone(list []Note) []Note {
	out := make([]Note, len(list))
	copy(out, list)
	return out
}
