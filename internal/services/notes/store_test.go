package notes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	ErrDBMsg = "db error"
	t0       = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

// memRepo is an in-memory Repository that counts writes per key.
type memRepo struct {
	mu    sync.Mutex
	blobs map[string][]byte
	saves map[string]int
}

func newMemRepo() *memRepo {
	return &memRepo{blobs: map[string][]byte{}, saves: map[string]int{}}
}

func (r *memRepo) Load(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blobs[key]
	return b, ok, nil
}

func (r *memRepo) Save(_ context.Context, key string, blob []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[key] = blob
	r.saves[key]++
	return nil
}

func (r *memRepo) saveCount(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves[key]
}

func (r *memRepo) stored(t *testing.T, key string) []Note {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []Note
	if b, ok := r.blobs[key]; ok {
		require.NoError(t, json.Unmarshal(b, &list))
	}
	return list
}

// MockRepo is a mock implementation of Repository
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Load(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockRepo) Save(ctx context.Context, key string, blob []byte) error {
	args := m.Called(ctx, key, blob)
	return args.Error(0)
}

// MockBatchRepo additionally supports atomic multi-key writes
type MockBatchRepo struct {
	MockRepo
}

func (m *MockBatchRepo) SaveAll(ctx context.Context, blobs map[string][]byte) error {
	args := m.Called(ctx, blobs)
	return args.Error(0)
}

// MockBus is a mock implementation of Bus
type MockBus struct {
	mock.Mock
}

func (m *MockBus) Broadcast(ctx context.Context, ev NoteEvent) {
	m.Called(ctx, ev)
}

// recordingBus keeps every event in order
type recordingBus struct {
	mu     sync.Mutex
	events []NoteEvent
}

func (b *recordingBus) Broadcast(_ context.Context, ev NoteEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, ev := range b.events {
		out[i] = ev.Type
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store *Store
	repo  *memRepo
	bus   *recordingBus
	clock *fakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		repo:  newMemRepo(),
		bus:   &recordingBus{},
		clock: &fakeClock{now: t0},
	}
	f.store = NewStore(f.repo, f.bus, silentLogger, WithClock(f.clock.Now))
	require.NoError(t, f.store.Load(context.Background()))
	return f
}

// add creates notes so that the active list reads titles in the given order.
func (f fixture) add(t *testing.T, titles ...string) []Note {
	t.Helper()
	for i := len(titles) - 1; i >= 0; i-- {
		n, err := f.store.AddNote(context.Background(), titles[i], "", "")
		require.NoError(t, err)
		require.NotNil(t, n)
		f.clock.Advance(time.Second)
	}
	return f.store.Active()
}

func titles(list []Note) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Title
	}
	return out
}

func assertDisjoint(t *testing.T, s *Store) {
	t.Helper()
	seen := map[string]string{}
	for _, n := range s.Active() {
		_, dup := seen[n.ID]
		require.False(t, dup, "duplicate id %s in active list", n.ID)
		seen[n.ID] = "active"
	}
	for _, n := range s.Trashed() {
		where, dup := seen[n.ID]
		require.False(t, dup, "id %s in trash is also in %s", n.ID, where)
		seen[n.ID] = "trash"
	}
}

func TestStoreAddNote(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		body      string
		image     string
		wantNil   bool
		wantTitle string
		wantBody  string
	}{
		{name: "title only", title: "Groceries", wantTitle: "Groceries"},
		{name: "body only", body: "milk\neggs", wantBody: "milk\neggs"},
		{name: "image only", image: "data:image/png;base64,AAAA"},
		{name: "everything empty", wantNil: true},
		{name: "whitespace only", title: "   ", body: "\n\t ", wantNil: true},
		{name: "markup is content", title: "<br>", body: "<p></p>", wantTitle: "<br>", wantBody: "<p></p>"},
		{
			name:      "stored exactly as typed",
			title:     "  Todo:  use <div>  tags ",
			body:      "func main() {\n    if a<b>c { x := 1 }\n}\n\n\n",
			wantTitle: "  Todo:  use <div>  tags ",
			wantBody:  "func main() {\n    if a<b>c { x := 1 }\n}\n\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			n, err := f.store.AddNote(context.Background(), tt.title, tt.body, tt.image)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, n)
				assert.Empty(t, f.store.Active())
				assert.Zero(t, f.repo.saveCount(KeyActive), "an empty note must not be written")
				assert.Empty(t, f.bus.types())
				return
			}

			require.NotNil(t, n)
			assert.NotEmpty(t, n.ID)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.wantBody, n.Body)
			assert.Equal(t, tt.image, n.Image)
			assert.Equal(t, ColorNone, n.Color)
			assert.Equal(t, t0, n.Timestamp)

			assert.Equal(t, []Note{*n}, f.store.Active())
			assert.Equal(t, f.store.Active(), f.repo.stored(t, KeyActive))
			assert.Equal(t, []string{EventCreated}, f.bus.types())
		})
	}
}

func TestStoreAddNoteInsertsAtHead(t *testing.T) {
	f := newFixture(t)

	a, err := f.store.AddNote(context.Background(), "A", "", "")
	require.NoError(t, err)
	b, err := f.store.AddNote(context.Background(), "B", "", "")
	require.NoError(t, err)

	active := f.store.Active()
	assert.Equal(t, []string{"B", "A"}, titles(active))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestStoreDeleteRestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orig := f.add(t, "A")[0]

	f.clock.Advance(time.Hour)
	deleted, err := f.store.DeleteNote(ctx, orig.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	assert.Empty(t, f.store.Active())
	trash := f.store.Trashed()
	require.Len(t, trash, 1)
	assert.Equal(t, orig.ID, trash[0].ID)
	assert.Equal(t, f.clock.Now(), trash[0].Timestamp, "trash timestamp is the deletion time")
	assert.Equal(t, trash, f.repo.stored(t, KeyTrashed))
	assert.Empty(t, f.repo.stored(t, KeyActive))
	assertDisjoint(t, f.store)

	f.clock.Advance(time.Hour)
	restored, err := f.store.RestoreNote(ctx, orig.ID)
	require.NoError(t, err)
	require.NotNil(t, restored)

	assert.Empty(t, f.store.Trashed())
	active := f.store.Active()
	require.Len(t, active, 1)
	assert.Equal(t, orig.ID, active[0].ID)
	assert.Equal(t, orig.Title, active[0].Title)
	assert.Equal(t, f.clock.Now(), active[0].Timestamp, "restore stamps the restore time")
	assertDisjoint(t, f.store)

	assert.Equal(t, []string{EventCreated, EventTrashed, EventRestored}, f.bus.types())
}

func TestStoreDeleteInsertsAtTrashHead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notes := f.add(t, "A", "B")

	_, err := f.store.DeleteNote(ctx, notes[0].ID)
	require.NoError(t, err)
	_, err = f.store.DeleteNote(ctx, notes[1].ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A"}, titles(f.store.Trashed()))
}

func TestStoreUnknownIDsAreNoops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notes := f.add(t, "A")
	trashed := f.add(t, "T")[0]
	_, err := f.store.DeleteNote(ctx, trashed.ID)
	require.NoError(t, err)

	eventsBefore := len(f.bus.types())
	savesBefore := f.repo.saveCount(KeyActive) + f.repo.saveCount(KeyTrashed)

	n, err := f.store.DeleteNote(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, n)

	n, err = f.store.DeleteNote(ctx, trashed.ID)
	assert.NoError(t, err)
	assert.Nil(t, n, "a trashed note cannot be deleted again")

	n, err = f.store.DuplicateNote(ctx, trashed.ID)
	assert.NoError(t, err)
	assert.Nil(t, n)

	n, _, err = f.store.EditNote(ctx, trashed.ID, "x", "", "")
	assert.NoError(t, err)
	assert.Nil(t, n)

	n, err = f.store.SetColor(ctx, trashed.ID, ColorRed)
	assert.NoError(t, err)
	assert.Nil(t, n)

	n, err = f.store.RestoreNote(ctx, notes[0].ID)
	assert.NoError(t, err)
	assert.Nil(t, n, "an active note cannot be restored")

	n, err = f.store.PermanentlyDelete(ctx, notes[0].ID)
	assert.NoError(t, err)
	assert.Nil(t, n, "an active note cannot be purged")

	assert.Len(t, f.bus.types(), eventsBefore)
	assert.Equal(t, savesBefore, f.repo.saveCount(KeyActive)+f.repo.saveCount(KeyTrashed))
	assertDisjoint(t, f.store)
}

func TestStoreDuplicateNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "A", "B")
	orig := f.store.Active()[1]
	_, err := f.store.SetColor(ctx, orig.ID, ColorTeal)
	require.NoError(t, err)
	orig, _ = f.store.Find(orig.ID)

	f.clock.Advance(time.Minute)
	dup, err := f.store.DuplicateNote(ctx, orig.ID)
	require.NoError(t, err)
	require.NotNil(t, dup)

	assert.NotEqual(t, orig.ID, dup.ID)
	assert.Equal(t, orig.Title, dup.Title)
	assert.Equal(t, orig.Body, dup.Body)
	assert.Equal(t, orig.Image, dup.Image)
	assert.Equal(t, orig.Color, dup.Color)
	assert.Equal(t, f.clock.Now(), dup.Timestamp)

	active := f.store.Active()
	assert.Equal(t, []string{"B", "A", "B"}, titles(active))
	assert.Equal(t, dup.ID, active[0].ID)
	assert.Equal(t, orig, active[2], "original is untouched")
}

func TestStoreSetColor(t *testing.T) {
	tests := []struct {
		name    string
		color   Color
		wantNil bool
	}{
		{name: "palette color", color: ColorYellow},
		{name: "back to none", color: ColorNone},
		{name: "outside palette", color: Color("magenta"), wantNil: true},
		{name: "hex is not a name", color: Color("#fff475"), wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			n := f.add(t, "A")[0]

			got, err := f.store.SetColor(context.Background(), n.ID, tt.color)
			require.NoError(t, err)

			stored, _ := f.store.Find(n.ID)
			if tt.wantNil {
				assert.Nil(t, got)
				assert.Equal(t, ColorNone, stored.Color)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.color, got.Color)
			assert.Equal(t, tt.color, stored.Color)
			assert.Equal(t, n.Timestamp, stored.Timestamp)
		})
	}
}

func TestStoreEditNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notes := f.add(t, "A", "B", "C")
	target := notes[1]

	f.clock.Advance(time.Hour)
	n, trashed, err := f.store.EditNote(ctx, target.ID, "B2", "  <i>body</i>\n\tindented\n", "img")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.False(t, trashed)

	active := f.store.Active()
	assert.Equal(t, []string{"A", "B2", "C"}, titles(active), "position unchanged")
	assert.Equal(t, target.ID, active[1].ID)
	assert.Equal(t, target.Timestamp, active[1].Timestamp, "timestamp unchanged")
	assert.Equal(t, "  <i>body</i>\n\tindented\n", active[1].Body, "body is stored as typed")
	assert.Equal(t, "img", active[1].Image)
	assert.Equal(t, EventUpdated, f.bus.types()[len(f.bus.types())-1])
}

func TestStoreEditNoteKeepsMarkupOnlyContent(t *testing.T) {
	f := newFixture(t)
	n := f.add(t, "A")[0]

	got, trashed, err := f.store.EditNote(context.Background(), n.ID, "<script>x</script>", "", "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, trashed, "markup is not an empty note")
	assert.Equal(t, "<script>x</script>", f.store.Active()[0].Title)
	assert.Equal(t, f.store.Active(), f.repo.stored(t, KeyActive))
}

func TestStoreAddColoredNote(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  Color
	}{
		{name: "palette color", color: ColorTeal, want: ColorTeal},
		{name: "none", color: ColorNone, want: ColorNone},
		{name: "unknown falls back", color: Color("plaid"), want: ColorNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			n, err := f.store.AddColoredNote(context.Background(), "Ideas", "", "", tt.color)
			require.NoError(t, err)
			require.NotNil(t, n)
			assert.Equal(t, tt.want, n.Color)
			assert.Equal(t, []Note{*n}, f.repo.stored(t, KeyActive))
			assert.Equal(t, 1, f.repo.saveCount(KeyActive), "one write per colored add")
			assert.Equal(t, []string{EventCreated}, f.bus.types(), "one event per colored add")
		})
	}
}

func TestStoreEditNoteToEmptyMovesToTrash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n := f.add(t, "A")[0]

	got, trashed, err := f.store.EditNote(ctx, n.ID, "  ", "", "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, trashed)

	assert.Empty(t, f.store.Active())
	trash := f.store.Trashed()
	require.Len(t, trash, 1)
	assert.Equal(t, n.ID, trash[0].ID)
	assert.Equal(t, "A", trash[0].Title, "the trashed copy keeps its last saved content")
	assertDisjoint(t, f.store)
}

func TestStoreDeleteClosesEditor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notes := f.add(t, "A", "B")

	opened, ok := f.store.OpenEditor(notes[0].ID)
	require.True(t, ok)
	assert.Equal(t, notes[0].ID, opened.ID)

	// deleting another note leaves the editor alone
	_, err := f.store.DeleteNote(ctx, notes[1].ID)
	require.NoError(t, err)
	editing, ok := f.store.Editing()
	require.True(t, ok)
	assert.Equal(t, notes[0].ID, editing.ID)

	_, err = f.store.DeleteNote(ctx, notes[0].ID)
	require.NoError(t, err)

	_, ok = f.store.Editing()
	assert.False(t, ok)

	types := f.bus.types()
	assert.Equal(t, []string{EventEditorClosed, EventTrashed}, types[len(types)-2:])
}

func TestStoreEditorSession(t *testing.T) {
	f := newFixture(t)
	n := f.add(t, "A")[0]

	_, ok := f.store.OpenEditor("missing")
	assert.False(t, ok)
	assert.False(t, f.store.CloseEditor(), "nothing was open")

	_, ok = f.store.OpenEditor(n.ID)
	require.True(t, ok)
	assert.True(t, f.store.CloseEditor())

	_, ok = f.store.Editing()
	assert.False(t, ok)
}

func TestStorePermanentlyDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notes := f.add(t, "A", "B")
	_, err := f.store.DeleteNote(ctx, notes[0].ID)
	require.NoError(t, err)

	n, err := f.store.PermanentlyDelete(ctx, notes[0].ID)
	require.NoError(t, err)
	require.NotNil(t, n)

	assert.Empty(t, f.store.Trashed())
	assert.Equal(t, []string{"B"}, titles(f.store.Active()))
	_, where := f.store.Find(notes[0].ID)
	assert.Equal(t, Nowhere, where)
	assert.Empty(t, f.repo.stored(t, KeyTrashed))
}

func TestStoreEmptyTrash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notes := f.add(t, "A", "B", "C", "D")
	for _, n := range notes[:3] {
		_, err := f.store.DeleteNote(ctx, n.ID)
		require.NoError(t, err)
	}
	activeBefore := f.store.Active()

	count, err := f.store.EmptyTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Empty(t, f.store.Trashed())
	assert.Equal(t, activeBefore, f.store.Active(), "active list untouched")

	count, err = f.store.EmptyTrash(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	last := f.bus.events[len(f.bus.events)-1]
	assert.Equal(t, EventTrashEmptied, last.Type)
}

func TestStoreReorder(t *testing.T) {
	tests := []struct {
		name    string
		from    int
		to      int
		want    []string
		wantErr error
	}{
		{name: "first to last", from: 0, to: 2, want: []string{"B", "C", "A"}},
		{name: "last to first", from: 2, to: 0, want: []string{"C", "A", "B"}},
		{name: "adjacent down", from: 0, to: 1, want: []string{"B", "A", "C"}},
		{name: "adjacent up", from: 2, to: 1, want: []string{"A", "C", "B"}},
		{name: "same index", from: 1, to: 1, want: []string{"A", "B", "C"}},
		{name: "from out of range", from: 3, to: 0, want: []string{"A", "B", "C"}, wantErr: ErrInvalidIndex},
		{name: "to out of range", from: 0, to: 3, want: []string{"A", "B", "C"}, wantErr: ErrInvalidIndex},
		{name: "negative", from: -1, to: 0, want: []string{"A", "B", "C"}, wantErr: ErrInvalidIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			before := f.add(t, "A", "B", "C")
			saves := f.repo.saveCount(KeyActive)

			err := f.store.Reorder(context.Background(), tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			after := f.store.Active()
			assert.Equal(t, tt.want, titles(after))

			if tt.wantErr != nil || tt.from == tt.to {
				assert.Equal(t, saves, f.repo.saveCount(KeyActive), "no write without a move")
				return
			}
			assert.Equal(t, saves+1, f.repo.saveCount(KeyActive))
			assert.Equal(t, after, f.repo.stored(t, KeyActive))

			// reorder never touches timestamps
			stamps := map[string]time.Time{}
			for _, n := range before {
				stamps[n.ID] = n.Timestamp
			}
			for _, n := range after {
				assert.Equal(t, stamps[n.ID], n.Timestamp)
			}
		})
	}
}

func TestStoreReorderInverse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.add(t, "A", "B", "C", "D", "E")

	for from := range before {
		for to := range before {
			require.NoError(t, f.store.Reorder(ctx, from, to))
			require.NoError(t, f.store.Reorder(ctx, to, from))
			require.Equal(t, before, f.store.Active(), "reorder(%d,%d) then reorder(%d,%d)", from, to, to, from)
		}
	}
}

func TestStoreReorderEvent(t *testing.T) {
	f := newFixture(t)
	f.add(t, "A", "B", "C")

	require.NoError(t, f.store.Reorder(context.Background(), 0, 2))

	last := f.bus.events[len(f.bus.events)-1]
	assert.Equal(t, EventReordered, last.Type)
	require.NotNil(t, last.Move)
	assert.Equal(t, ReorderInstruction{From: 0, To: 2}, *last.Move)
	assert.Equal(t, "A", last.Note.Title)
}

func TestStorePruneExpired(t *testing.T) {
	tests := []struct {
		name     string
		age      time.Duration
		wantKept bool
	}{
		{name: "one second past retention", age: 15*24*time.Hour + time.Second, wantKept: false},
		{name: "exactly at retention", age: 15 * 24 * time.Hour, wantKept: false},
		{name: "one second before retention", age: 15*24*time.Hour - time.Second, wantKept: true},
		{name: "fourteen days", age: 14 * 24 * time.Hour, wantKept: true},
		{name: "fresh", age: 0, wantKept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			n := f.add(t, "A")[0]
			_, err := f.store.DeleteNote(ctx, n.ID)
			require.NoError(t, err)
			deletedAt := f.clock.Now()
			saves := f.repo.saveCount(KeyTrashed)

			removed, err := f.store.PruneExpired(ctx, deletedAt.Add(tt.age))
			require.NoError(t, err)

			if tt.wantKept {
				assert.Zero(t, removed)
				assert.Len(t, f.store.Trashed(), 1)
				assert.Equal(t, saves, f.repo.saveCount(KeyTrashed), "nothing expired, nothing written")
				return
			}
			assert.Equal(t, 1, removed)
			assert.Empty(t, f.store.Trashed())
			assert.Empty(t, f.repo.stored(t, KeyTrashed))
			assert.Equal(t, uint64(1), f.store.ExpiredTotal())
		})
	}
}

func TestStorePruneExpiredIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notes := f.add(t, "old", "new", "active")

	_, err := f.store.DeleteNote(ctx, notes[0].ID)
	require.NoError(t, err)
	f.clock.Advance(10 * 24 * time.Hour)
	_, err = f.store.DeleteNote(ctx, notes[1].ID)
	require.NoError(t, err)

	now := f.clock.Now().Add(6 * 24 * time.Hour)

	removed, err := f.store.PruneExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"new"}, titles(f.store.Trashed()))
	assert.Equal(t, []string{"active"}, titles(f.store.Active()))

	events := len(f.bus.types())
	saves := f.repo.saveCount(KeyTrashed)

	removed, err = f.store.PruneExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, f.bus.types(), events)
	assert.Equal(t, saves, f.repo.saveCount(KeyTrashed))
}

func TestStorePruneExpiredCustomRetention(t *testing.T) {
	repo := newMemRepo()
	clock := &fakeClock{now: t0}
	store := NewStore(repo, nil, silentLogger, WithClock(clock.Now), WithRetention(time.Hour))
	ctx := context.Background()

	n, err := store.AddNote(ctx, "A", "", "")
	require.NoError(t, err)
	_, err = store.DeleteNote(ctx, n.ID)
	require.NoError(t, err)

	removed, err := store.PruneExpired(ctx, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, time.Hour, store.Retention())
}

func TestStoreDaysRemaining(t *testing.T) {
	store := NewStore(newMemRepo(), nil, silentLogger)
	n := Note{Timestamp: t0}

	tests := []struct {
		age  time.Duration
		want int
	}{
		{0, 15},
		{23 * time.Hour, 15},
		{24 * time.Hour, 14},
		{14*24*time.Hour + 23*time.Hour, 1},
		{15 * 24 * time.Hour, 0},
		{40 * 24 * time.Hour, 0},
		{-time.Hour, 15},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, store.DaysRemaining(n, t0.Add(tt.age)), "age %s", tt.age)
	}
}

func TestStoreCountsAndFind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notes := f.add(t, "A", "B", "C")
	_, err := f.store.DeleteNote(ctx, notes[2].ID)
	require.NoError(t, err)

	active, trashed := f.store.Counts()
	assert.Equal(t, 2, active)
	assert.Equal(t, 1, trashed)

	got, where := f.store.Find(notes[0].ID)
	assert.Equal(t, InActive, where)
	assert.Equal(t, "A", got.Title)

	_, where = f.store.Find(notes[2].ID)
	assert.Equal(t, InTrash, where)
	assert.Equal(t, "trash", where.String())
}

func TestStoreSnapshotsAreCopies(t *testing.T) {
	f := newFixture(t)
	f.add(t, "A")

	snap := f.store.Active()
	snap[0].Title = "mutated"

	assert.Equal(t, "A", f.store.Active()[0].Title)
}

func TestStoreSingleNoteLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.add(t, "A")[0]

	_, err := f.store.DeleteNote(ctx, a.ID)
	require.NoError(t, err)

	assert.Empty(t, f.store.Active())
	trash := f.store.Trashed()
	require.Len(t, trash, 1)
	assert.Equal(t, a.ID, trash[0].ID)
	assert.Equal(t, a.Title, trash[0].Title)
	assert.Equal(t, f.clock.Now(), trash[0].Timestamp)
}

func TestStoreMutualExclusionUnderMixedOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "A", "B", "C", "D", "E", "F")

	ops := []func(){
		func() { _, _ = f.store.DeleteNote(ctx, f.store.Active()[0].ID) },
		func() { _, _ = f.store.DuplicateNote(ctx, f.store.Active()[1].ID) },
		func() { _, _ = f.store.RestoreNote(ctx, f.store.Trashed()[0].ID) },
		func() { _ = f.store.Reorder(ctx, 0, 3) },
		func() { _, _, _ = f.store.EditNote(ctx, f.store.Active()[2].ID, "", "", "") },
		func() { _, _ = f.store.PermanentlyDelete(ctx, f.store.Trashed()[0].ID) },
		func() { _, _ = f.store.SetColor(ctx, f.store.Active()[0].ID, ColorPink) },
		func() { _, _ = f.store.PruneExpired(ctx, f.clock.Now().Add(20*24*time.Hour)) },
		func() { _, _ = f.store.AddNote(ctx, "G", "", "") },
		func() { _, _ = f.store.EmptyTrash(ctx) },
	}

	for _, op := range ops {
		op()
		assertDisjoint(t, f.store)
		f.clock.Advance(time.Minute)
	}
}

func TestStoreConcurrentAdds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.store.AddNote(ctx, "note", "", "")
			assert.NoError(t, err, "worker %d", i)
		}(i)
	}
	wg.Wait()

	active := f.store.Active()
	assert.Len(t, active, workers)
	assertDisjoint(t, f.store)
	assert.Equal(t, active, f.repo.stored(t, KeyActive))
}

func TestStoreLoad(t *testing.T) {
	a := Note{ID: "a", Title: "A", Color: ColorRed, Timestamp: t0}
	b := Note{ID: "b", Title: "B", Color: ColorNone, Timestamp: t0}

	t.Run("absent blobs mean empty lists", func(t *testing.T) {
		store := NewStore(newMemRepo(), nil, silentLogger)
		require.NoError(t, store.Load(context.Background()))
		assert.Empty(t, store.Active())
		assert.Empty(t, store.Trashed())
	})

	t.Run("duplicates dropped with active first", func(t *testing.T) {
		repo := newMemRepo()
		activeBlob, _ := json.Marshal([]Note{a, b, a})
		trashBlob, _ := json.Marshal([]Note{b, {ID: "c", Title: "C", Timestamp: t0}})
		repo.blobs[KeyActive] = activeBlob
		repo.blobs[KeyTrashed] = trashBlob

		store := NewStore(repo, nil, silentLogger)
		require.NoError(t, store.Load(context.Background()))

		assert.Equal(t, []string{"A", "B"}, titles(store.Active()))
		assert.Equal(t, []string{"C"}, titles(store.Trashed()))
		assertDisjoint(t, store)
	})

	t.Run("legacy hex and unknown colors decode", func(t *testing.T) {
		repo := newMemRepo()
		repo.blobs[KeyActive] = []byte(`[
			{"id":"x","title":"hex","color":"#F28B82","timestamp":"2025-06-01T12:00:00Z"},
			{"id":"y","title":"weird","color":"chartreuse","timestamp":"2025-06-01T12:00:00Z"},
			{"id":"z","title":"missing","timestamp":"2025-06-01T12:00:00Z"}
		]`)

		store := NewStore(repo, nil, silentLogger)
		require.NoError(t, store.Load(context.Background()))

		active := store.Active()
		require.Len(t, active, 3)
		assert.Equal(t, ColorRed, active[0].Color)
		assert.Equal(t, ColorNone, active[1].Color)
		assert.Equal(t, ColorNone, active[2].Color)
	})

	t.Run("corrupt blob", func(t *testing.T) {
		repo := newMemRepo()
		repo.blobs[KeyTrashed] = []byte("{not json")

		store := NewStore(repo, nil, silentLogger)
		err := store.Load(context.Background())
		assert.ErrorIs(t, err, ErrLoadNotes)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockRepo)
		repo.On("Load", mock.Anything, KeyActive).Return(nil, false, errors.New(ErrDBMsg))

		store := NewStore(repo, nil, silentLogger)
		err := store.Load(context.Background())
		assert.ErrorIs(t, err, ErrLoadNotes)
		assert.Contains(t, err.Error(), ErrDBMsg)
		repo.AssertExpectations(t)
	})
}

func TestStorePersistFailureKeepsMutation(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Load", mock.Anything, mock.Anything).Return(nil, false, nil)
	repo.On("Save", mock.Anything, KeyActive, mock.Anything).Return(errors.New(ErrDBMsg))

	bus := new(MockBus)
	bus.On("Broadcast", mock.Anything, mock.MatchedBy(func(ev NoteEvent) bool {
		return ev.Type == EventCreated
	})).Return()

	store := NewStore(repo, bus, silentLogger)
	require.NoError(t, store.Load(context.Background()))

	n, err := store.AddNote(context.Background(), "A", "", "")
	assert.ErrorIs(t, err, ErrPersist)
	require.NotNil(t, n, "the note is returned alongside the error")
	assert.Len(t, store.Active(), 1)

	repo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestStoreMoveUsesBatchSave(t *testing.T) {
	repo := new(MockBatchRepo)
	repo.On("Load", mock.Anything, mock.Anything).Return(nil, false, nil)
	repo.On("Save", mock.Anything, KeyActive, mock.Anything).Return(nil).Once()
	repo.On("SaveAll", mock.Anything, mock.MatchedBy(func(blobs map[string][]byte) bool {
		_, hasActive := blobs[KeyActive]
		_, hasTrash := blobs[KeyTrashed]
		return len(blobs) == 2 && hasActive && hasTrash
	})).Return(nil).Once()

	store := NewStore(repo, nil, silentLogger)
	require.NoError(t, store.Load(context.Background()))

	n, err := store.AddNote(context.Background(), "A", "", "")
	require.NoError(t, err)
	_, err = store.DeleteNote(context.Background(), n.ID)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
