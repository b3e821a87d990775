package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"note-board/internal/services/notes"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const defaultSettle = 250 * time.Millisecond

func newWatchCmd(c *cli) *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Keep the board in sync with the Markdown files of a directory.",
		Long: `Watch a directory for Markdown files. A new file becomes a note, a changed
file updates its note and a removed file moves its note to the trash.
Expired trash is swept on the configured interval. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *notes.Store) error {
				w := &dirWatcher{
					store:  s,
					out:    cmd.OutOrStdout(),
					log:    c.log,
					settle: settle,
					synced: make(map[string]string),
				}
				return w.run(cmd.Context(), args[0])
			})
		},
	}
	cmd.Flags().DurationVar(&settle, "settle", defaultSettle, "Quiet period before a changed file is read")
	return cmd
}

// dirWatcher maps Markdown files to the notes imported from them.
type dirWatcher struct {
	store  *notes.Store
	out    io.Writer
	log    *slog.Logger
	settle time.Duration

	// file path -> note id; only touched by the run loop
	synced map[string]string
}

type fileChange struct {
	path    string
	removed bool
	gen     uint64
}

// debouncer holds back file changes until a path has been quiet for settle.
// Only the change of the latest timer per path is taken; a timer that fired
// before it could be stopped delivers a stale change that take rejects.
type debouncer struct {
	settle  time.Duration
	ready   chan fileChange
	pending map[string]pendingChange
	gen     uint64
}

type pendingChange struct {
	timer *time.Timer
	gen   uint64
}

func newDebouncer(settle time.Duration) *debouncer {
	return &debouncer{
		settle:  settle,
		ready:   make(chan fileChange),
		pending: make(map[string]pendingChange),
	}
}

// schedule (re)arms the timer of change.path.
func (d *debouncer) schedule(ctx context.Context, change fileChange) {
	if p, ok := d.pending[change.path]; ok {
		p.timer.Stop()
	}
	d.gen++
	change.gen = d.gen
	t := time.AfterFunc(d.settle, func() {
		select {
		case d.ready <- change:
		case <-ctx.Done():
		}
	})
	d.pending[change.path] = pendingChange{timer: t, gen: change.gen}
}

// take reports whether change is the current one for its path and clears it.
func (d *debouncer) take(change fileChange) bool {
	p, ok := d.pending[change.path]
	if !ok || p.gen != change.gen {
		return false
	}
	delete(d.pending, change.path)
	return true
}

func (d *debouncer) stop() {
	for _, p := range d.pending {
		p.timer.Stop()
	}
}

func (w *dirWatcher) run(ctx context.Context, dir string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	fmt.Fprintf(w.out, "watching %s\n", dir)

	deb := newDebouncer(w.settle)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
				continue
			}

			change := fileChange{path: event.Name}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				change.removed = true
			default:
				continue
			}

			deb.schedule(ctx, change)

		case change := <-deb.ready:
			if !deb.take(change) {
				continue
			}
			if err := w.apply(ctx, change); err != nil {
				w.log.Warn("failed to sync file", "path", change.path, "error", err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

func (w *dirWatcher) apply(ctx context.Context, change fileChange) error {
	id, known := w.synced[change.path]

	if change.removed {
		if !known {
			return nil
		}
		delete(w.synced, change.path)
		n, err := w.store.DeleteNote(ctx, id)
		if err == nil && n != nil {
			fmt.Fprintf(w.out, "trashed %s %s\n", n.ID, change.path)
		}
		return err
	}

	d, err := readDraft(change.path)
	if err != nil {
		return err
	}

	if known {
		if _, loc := w.store.Find(id); loc == notes.InActive {
			n, trashed, err := w.store.EditNote(ctx, id, d.Title, d.Body, d.Image)
			if err != nil {
				return err
			}
			if trashed {
				delete(w.synced, change.path)
				fmt.Fprintf(w.out, "trashed %s %s\n", n.ID, change.path)
				return nil
			}
			if _, err := applyColor(ctx, w.store, n, d.Color); err != nil {
				return err
			}
			fmt.Fprintf(w.out, "updated %s %s\n", n.ID, change.path)
			return nil
		}
	}

	n, err := importDraft(ctx, w.store, d)
	if err != nil {
		return err
	}
	if n == nil {
		delete(w.synced, change.path)
		return nil
	}
	w.synced[change.path] = n.ID
	fmt.Fprintf(w.out, "added %s %s\n", n.ID, change.path)
	return nil
}
