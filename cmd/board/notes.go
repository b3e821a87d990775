package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"note-board/internal/services/notes"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
)

var errInvalidColor = errors.New("unknown color")

func newListCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active notes in board order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				active := s.Active()
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), active)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "#\tID\tCOLOR\tTITLE")
				for i, n := range active {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, n.ID, n.Color, headline(n))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print notes as JSON")
	return cmd
}

func newTrashCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "List trashed notes with the days left before they expire.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				now := time.Now()
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDAYS\tTITLE")
				for _, n := range s.Trashed() {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", n.ID, s.DaysRemaining(n, now), headline(n))
				}
				return tw.Flush()
			})
		},
	}
	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one note with all its fields.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				n, loc := s.Find(args[0])
				if loc == notes.Nowhere {
					return notes.ErrNoteNotFound
				}

				out := cmd.OutOrStdout()
				printer := pp.New()
				printer.SetColoringEnabled(!noColor && out == os.Stdout)
				printer.SetOutput(out)
				printer.Println(loc.String(), n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}

func newAddCmd(c *cli) *cobra.Command {
	var title, body, image, color string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note at the top of the board.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			col, ok := notes.ParseColor(color)
			if !ok {
				return fmt.Errorf("%w: %q", errInvalidColor, color)
			}

			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				n, err := s.AddColoredNote(cmd.Context(), title, body, image, col)
				if err != nil {
					return err
				}
				if n == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "empty note ignored")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), n.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Note body")
	cmd.Flags().StringVar(&image, "image", "", "Image data URL")
	cmd.Flags().StringVarP(&color, "color", "c", "", "Palette color")
	return cmd
}

func newEditCmd(c *cli) *cobra.Command {
	var title, body, image string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title, body or image of an active note.",
		Long:  "Change the title, body or image of an active note. Fields not given keep their value; a note left empty is moved to the trash.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				cur, loc := s.Find(args[0])
				if loc != notes.InActive {
					return notes.ErrNoteNotFound
				}

				flags := cmd.Flags()
				if flags.Changed("title") {
					cur.Title = title
				}
				if flags.Changed("body") {
					cur.Body = body
				}
				if flags.Changed("image") {
					cur.Image = image
				}

				n, trashed, err := s.EditNote(cmd.Context(), cur.ID, cur.Title, cur.Body, cur.Image)
				if err != nil {
					return err
				}
				if trashed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s moved to trash\n", n.ID)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), n.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&body, "body", "b", "", "New body")
	cmd.Flags().StringVar(&image, "image", "", "New image data URL")
	return cmd
}

// newIDCmd builds a command that applies op to a single note id.
func newIDCmd(c *cli, use, short string, op func(*notes.Store, *cobra.Command, string) (*notes.Note, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				n, err := op(s, cmd, args[0])
				if err != nil {
					return err
				}
				if n == nil {
					return notes.ErrNoteNotFound
				}
				fmt.Fprintln(cmd.OutOrStdout(), n.ID)
				return nil
			})
		},
	}
}

func newRemoveCmd(c *cli) *cobra.Command {
	return newIDCmd(c, "rm", "Move an active note to the trash.", func(s *notes.Store, cmd *cobra.Command, id string) (*notes.Note, error) {
		return s.DeleteNote(cmd.Context(), id)
	})
}

func newRestoreCmd(c *cli) *cobra.Command {
	return newIDCmd(c, "restore", "Move a trashed note back to the top of the board.", func(s *notes.Store, cmd *cobra.Command, id string) (*notes.Note, error) {
		return s.RestoreNote(cmd.Context(), id)
	})
}

func newPurgeCmd(c *cli) *cobra.Command {
	return newIDCmd(c, "purge", "Delete a trashed note for good.", func(s *notes.Store, cmd *cobra.Command, id string) (*notes.Note, error) {
		return s.PermanentlyDelete(cmd.Context(), id)
	})
}

func newEmptyTrashCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "empty-trash",
		Short: "Delete every trashed note for good.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				n, err := s.EmptyTrash(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d notes deleted\n", n)
				return nil
			})
		},
	}
}

func newColorCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "color <id> <color>",
		Short: "Set the palette color of an active note.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, ok := notes.ParseColor(args[1])
			if !ok {
				return fmt.Errorf("%w: %q", errInvalidColor, args[1])
			}
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				n, err := s.SetColor(cmd.Context(), args[0], col)
				if err != nil {
					return err
				}
				if n == nil {
					return notes.ErrNoteNotFound
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", n.ID, n.Color)
				return nil
			})
		},
	}
}

func newMoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the note at position from to position to.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", notes.ErrInvalidIndex, args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", notes.ErrInvalidIndex, args[1])
			}
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				return s.Reorder(cmd.Context(), from, to)
			})
		},
	}
}

func newSweepCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete trashed notes past the retention window now.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				n, err := c.newSweeper(s).Sweep(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d expired notes deleted\n", n)
				return nil
			})
		},
	}
}

// headline is the one-line label of a note in listings.
func headline(n notes.Note) string {
	switch {
	case n.Title != "":
		return n.Title
	case n.Body != "":
		line := n.Body
		for i, r := range line {
			if r == '\n' {
				line = line[:i]
				break
			}
		}
		return line
	case n.Image != "":
		return "(image)"
	}
	return ""
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
