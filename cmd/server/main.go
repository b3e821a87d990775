package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"note-board/internal/clients/boltstore" // bbolt client singleton
	"note-board/internal/config"
	"note-board/internal/logger"
	"note-board/internal/services/notes"

	"github.com/grafana/pyroscope-go"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 25 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Create bootstrap logger for early errors
	bootstrapLog := log.New(os.Stderr, "bootstrap: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		bootstrapLog.Printf("config load failed: %v", err)
		os.Exit(1)
	}

	logg, err := logger.Init(cfg)
	if err != nil {
		bootstrapLog.Printf("logger init failed: %v", err)
		os.Exit(1)
	}

	profiler, err := startProfiler(cfg, logg)
	if err != nil {
		logg.Error("pyroscope start", "err", err)
		os.Exit(1)
	}

	repo, err := boltstore.Init(ctx, cfg, logg)
	if err != nil {
		logg.Error("board store init", "err", err)
		os.Exit(1)
	}

	hub := notes.NewHub(cfg.WSOutboxBuffer)
	store := notes.NewStore(repo, hub, logg, notes.WithRetention(cfg.TrashRetention()))
	if err := store.Load(ctx); err != nil {
		logg.Error(notes.ErrLoadNotes.Error(), "err", err)
		os.Exit(1)
	}
	active, trashed := store.Counts()
	logg.Info("board loaded", "active", active, "trashed", trashed)

	sweeper := notes.NewSweeper(store, cfg.SweepInterval(), nil, logg)
	sweeper.Start(ctx)

	logg.Info("starting note board", "port", cfg.AppPort)

	app := setupRouter(cfg, routerDeps{Store: store, Hub: hub, DB: repo})
	portStr := fmt.Sprintf(":%d", cfg.AppPort)

	g.Go(func() error {
		err := app.Listen(portStr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	// Graceful shutdown
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		sweeper.Stop()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		if profiler != nil {
			if err := profiler.Stop(); err != nil {
				logg.Warn("pyroscope stop", "err", err)
			}
		}
		return boltstore.Shutdown(shutdownCtx)
	})

	// Wait and exit
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error("fatal", "err", err)
		os.Exit(1)
	}
	logg.Info("graceful shutdown complete")
}

// startProfiler ships CPU and allocation profiles to Pyroscope when an address is configured
func startProfiler(cfg config.Config, logg *slog.Logger) (*pyroscope.Profiler, error) {
	if cfg.PyroscopeAddress == "" {
		return nil, nil
	}

	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "note-board",
		ServerAddress:   cfg.PyroscopeAddress,
		Tags:            map[string]string{"port": fmt.Sprint(cfg.AppPort)},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, err
	}

	logg.Info("continuous profiling enabled", "server", cfg.PyroscopeAddress)
	return p, nil
}
