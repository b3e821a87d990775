// Command board works with a note board file directly, without the server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"note-board/internal/clients/boltstore"
	"note-board/internal/config"
	"note-board/internal/logger"
	"note-board/internal/services/notes"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// cli carries the settings shared by every subcommand.
type cli struct {
	dataPath string
	cfg      config.Config
	log      *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "board",
		Short:        "Manage a note board file from the terminal.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.dataPath, "data", "", "Board file (defaults to DATA_PATH)")

	root.AddCommand(
		newListCmd(c),
		newTrashCmd(c),
		newShowCmd(c),
		newAddCmd(c),
		newEditCmd(c),
		newRemoveCmd(c),
		newRestoreCmd(c),
		newPurgeCmd(c),
		newEmptyTrashCmd(c),
		newColorCmd(c),
		newMoveCmd(c),
		newSweepCmd(c),
		newImportCmd(c),
		newExportCmd(c),
		newWatchCmd(c),
		newMCPCmd(c),
		newPingCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	if c.dataPath == "" {
		c.dataPath = cfg.DataPath
	}
	c.log = logger.New(cmd.ErrOrStderr(), "warn", "text")
	return nil
}

// withStore opens the board file, loads it and hands the store to fn.
// The file is locked until fn returns.
func (c *cli) withStore(ctx context.Context, fn func(*notes.Store) error) error {
	repo, err := boltstore.Open(c.dataPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			c.log.Warn("failed to close board file", "path", c.dataPath, "error", cerr)
		}
	}()

	store := notes.NewStore(repo, nil, c.log, notes.WithRetention(c.cfg.TrashRetention()))
	if err := store.Load(ctx); err != nil {
		return err
	}
	return fn(store)
}

// withSession is withStore for long running commands: the trash sweeper runs
// against the store until fn returns.
func (c *cli) withSession(ctx context.Context, fn func(*notes.Store) error) error {
	return c.withStore(ctx, func(s *notes.Store) error {
		sw := c.newSweeper(s)
		sw.Start(ctx)
		defer sw.Stop()
		return fn(s)
	})
}

func (c *cli) newSweeper(s *notes.Store) *notes.Sweeper {
	return notes.NewSweeper(s, c.cfg.SweepInterval(), nil, c.log)
}
