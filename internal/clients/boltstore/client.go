package boltstore

import (
	"context"
	"log/slog"
	"sync"

	"note-board/internal/config"
)

var (
	repo *Repo
	mu   sync.Mutex
)

// Init opens the board file named by cfg.DataPath (first call wins, thread-safe).
func Init(ctx context.Context, cfg config.Config, log *slog.Logger) (*Repo, error) {
	mu.Lock()
	defer mu.Unlock()

	if repo != nil {
		return repo, nil
	}

	r, err := Open(cfg.DataPath)
	if err != nil {
		log.Error("failed to open board store", "err", err, "path", cfg.DataPath)
		return nil, err
	}

	if err := r.Ping(ctx); err != nil {
		log.Error("failed to ping board store", "err", err)
		_ = r.Close()
		return nil, err
	}

	repo = r
	log.Info("board store opened", "path", cfg.DataPath)

	return repo, nil
}

// DB returns the singleton repository, or nil before Init.
func DB() *Repo {
	mu.Lock()
	defer mu.Unlock()
	return repo
}

// Shutdown closes the repository.
// Safe to call more than once.
func Shutdown(_ context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if repo == nil {
		return nil
	}

	err := repo.Close()
	repo = nil

	return err
}
