package notes

import "context"

// Storage keys of the two lists.
const (
	KeyActive  = "notes"
	KeyTrashed = "trashedNotes"
)

// Repository is the durable store adapter: two named blobs read and written whole.
type Repository interface {
	// Load returns the blob stored under key; ok is false when nothing was stored yet.
	Load(ctx context.Context, key string) (blob []byte, ok bool, err error)
	Save(ctx context.Context, key string, blob []byte) error
}

// BatchRepository is implemented by adapters that can write several blobs atomically.
type BatchRepository interface {
	Repository
	SaveAll(ctx context.Context, blobs map[string][]byte) error
}

// Bus defines the interface for event broadcasting
type Bus interface {
	Broadcast(ctx context.Context, ev NoteEvent)
}
