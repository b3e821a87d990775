package boltstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// OpenTimeout bounds how long Open waits for the file lock held by another process.
const OpenTimeout = time.Second

var boardBucket = []byte("board")

// ErrClosed is returned when the repository is used after Close.
var ErrClosed = errors.New("board store is closed")

// Repo stores named blobs in a single bbolt bucket.
// It implements notes.Repository and notes.BatchRepository.
type Repo struct {
	db   *bolt.DB
	path string
}

// Open opens (creating if needed) the bbolt file at path.
func Open(path string) (*Repo, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: OpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boardBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Repo{db: db, path: path}, nil
}

// Path returns the file the repository was opened from.
func (r *Repo) Path() string {
	return r.path
}

// Load returns a copy of the blob stored under key.
func (r *Repo) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var out []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boardBucket)
		if b == nil {
			return nil
		}
		// values are only valid for the life of the transaction
		if v := b.Get([]byte(key)); v != nil {
			out = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, false, r.wrap(err)
	}
	return out, out != nil, nil
}

// Save replaces the blob stored under key.
func (r *Repo) Save(ctx context.Context, key string, blob []byte) error {
	return r.SaveAll(ctx, map[string][]byte{key: blob})
}

// SaveAll writes every blob in one transaction: either all land or none do.
func (r *Repo) SaveAll(ctx context.Context, blobs map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(boardBucket)
		if err != nil {
			return err
		}
		for key, blob := range blobs {
			if err := b.Put([]byte(key), blob); err != nil {
				return fmt.Errorf("put %s: %w", key, err)
			}
		}
		return nil
	})
	return r.wrap(err)
}

// Ping checks that the file is open and readable.
func (r *Repo) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.wrap(r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(boardBucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	}))
}

// Close releases the file lock.
func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) wrap(err error) error {
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}
