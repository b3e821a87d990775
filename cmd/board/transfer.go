package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"note-board/internal/services/notes"
	"note-board/internal/utils/mdnote"
	"note-board/internal/utils/sanitize"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errUnknownFormat = errors.New("unknown export format")

// boardPage renders notes as a static HTML board.
var boardPage = template.Must(template.New("board").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Note board</title>
<style>
.note{display:inline-block;vertical-align:top;width:240px;margin:8px;padding:12px;border:1px solid #dadce0;border-radius:8px}
.note .body{white-space:pre-wrap}
.note img{max-width:100%}
</style>
</head>
<body>
{{range .}}<article class="note" id="{{.ID}}" style="{{.Style}}">
{{if .Image}}<img src="{{.Image}}" alt="">
{{end}}{{if .Title}}<h2>{{.Title}}</h2>
{{end}}{{if .Body}}<div class="body">{{.Body}}</div>
{{end}}</article>
{{end}}</body>
</html>
`))

// htmlNote is a note prepared for boardPage; text fields are already sanitized.
type htmlNote struct {
	ID    string
	Title template.HTML
	Body  template.HTML
	Image template.URL
	Style template.CSS
}

// exportNote is the YAML shape of an exported note.
type exportNote struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title,omitempty"`
	Body      string    `yaml:"body,omitempty"`
	Image     string    `yaml:"image,omitempty"`
	Color     string    `yaml:"color"`
	Timestamp time.Time `yaml:"timestamp"`
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.md>...",
		Short: "Add Markdown files to the board as notes.",
		Long:  "Add Markdown files to the board as notes. The frontmatter may set title, color and image; the rest of the file becomes the body.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				out := cmd.OutOrStdout()
				for _, path := range args {
					d, err := readDraft(path)
					if err != nil {
						return err
					}
					n, err := importDraft(cmd.Context(), s, d)
					if err != nil {
						return fmt.Errorf("import %s: %w", path, err)
					}
					if n == nil {
						fmt.Fprintf(out, "skipped %s (empty)\n", path)
						continue
					}
					fmt.Fprintf(out, "%s %s\n", n.ID, path)
				}
				return nil
			})
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		format string
		dir    string
		trash  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board as JSON, YAML, an HTML page or one Markdown file per note.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(s *notes.Store) error {
				list := s.Active()
				if trash {
					list = s.Trashed()
				}

				out := cmd.OutOrStdout()
				switch strings.ToLower(format) {
				case "json":
					return writeJSON(out, list)
				case "yaml", "yml":
					return writeYAML(out, list)
				case "html":
					return writeHTML(out, list)
				case "md", "markdown":
					if dir == "" {
						return errors.New("--dir is required for markdown export")
					}
					return writeMarkdownDir(out, dir, list)
				}
				return fmt.Errorf("%w: %q", errUnknownFormat, format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json, yaml, html or md")
	cmd.Flags().StringVar(&dir, "dir", "", "Target directory for md export")
	cmd.Flags().BoolVar(&trash, "trash", false, "Export the trash instead of the board")
	return cmd
}

func readDraft(path string) (mdnote.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return mdnote.Draft{}, err
	}
	defer f.Close()

	d, err := mdnote.Parse(f)
	if err != nil {
		return mdnote.Draft{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// importDraft adds d to the board with its color. An empty draft adds
// nothing and yields a nil note; an unknown color is ignored.
func importDraft(ctx context.Context, s *notes.Store, d mdnote.Draft) (*notes.Note, error) {
	col, ok := notes.ParseColor(d.Color)
	if !ok {
		col = notes.ColorNone
	}
	return s.AddColoredNote(ctx, d.Title, d.Body, d.Image, col)
}

func applyColor(ctx context.Context, s *notes.Store, n *notes.Note, color string) (*notes.Note, error) {
	col, ok := notes.ParseColor(color)
	if !ok || col == n.Color {
		return n, nil
	}
	colored, err := s.SetColor(ctx, n.ID, col)
	if err != nil {
		return n, err
	}
	if colored == nil {
		return n, nil
	}
	return colored, nil
}

func writeYAML(w io.Writer, list []notes.Note) error {
	out := make([]exportNote, 0, len(list))
	for _, n := range list {
		out = append(out, exportNote{
			ID:        n.ID,
			Title:     n.Title,
			Body:      n.Body,
			Image:     n.Image,
			Color:     string(n.Color),
			Timestamp: n.Timestamp,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

// writeHTML renders list as one page. Markup typed into notes is sanitized
// here, on the way into HTML; the stored text is never changed.
func writeHTML(w io.Writer, list []notes.Note) error {
	page := make([]htmlNote, 0, len(list))
	for _, n := range list {
		hn := htmlNote{
			ID:    n.ID,
			Title: template.HTML(sanitize.HTML(n.Title)),
			Body:  template.HTML(sanitize.HTML(n.Body)),
			Style: template.CSS("background:" + n.Color.Hex()),
		}
		if strings.HasPrefix(n.Image, "data:image/") {
			hn.Image = template.URL(n.Image)
		}
		page = append(page, hn)
	}
	return boardPage.Execute(w, page)
}

// writeMarkdownDir writes each note to <dir>/<id>.md.
func writeMarkdownDir(out io.Writer, dir string, list []notes.Note) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, n := range list {
		front := mdnote.Front{Title: n.Title, Image: n.Image}
		if n.Color != notes.ColorNone {
			front.Color = string(n.Color)
		}

		path := filepath.Join(dir, n.ID+".md")
		if err := writeMarkdownFile(path, mdnote.Draft{Front: front, Body: n.Body}); err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}
	return nil
}

func writeMarkdownFile(path string, d mdnote.Draft) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mdnote.Render(f, d); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
