// Package mdnote converts between board notes and Markdown files with a
// YAML frontmatter header.
package mdnote

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// ErrParse is returned when a file's frontmatter cannot be decoded.
var ErrParse = errors.New("failed to parse markdown note")

// Front is the frontmatter header of a note file.
type Front struct {
	Title string `yaml:"title,omitempty"`
	Color string `yaml:"color,omitempty"`
	Image string `yaml:"image,omitempty"`
}

// Draft is a note read from a file, before it reaches the board.
type Draft struct {
	Front
	Body string
}

// Parse reads a Markdown note. When the frontmatter has no title, a leading
// "# " heading is used instead and removed from the body.
func Parse(r io.Reader) (Draft, error) {
	var d Draft
	rest, err := frontmatter.Parse(r, &d.Front)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	body := strings.TrimLeft(string(rest), "\r\n")
	if d.Title == "" {
		first, tail, _ := strings.Cut(body, "\n")
		if heading, ok := strings.CutPrefix(strings.TrimRight(first, "\r"), "# "); ok {
			d.Title = strings.TrimSpace(heading)
			body = strings.TrimLeft(tail, "\r\n")
		}
	}
	d.Body = strings.TrimRight(body, "\r\n")
	return d, nil
}

// Render writes d as Markdown with a YAML frontmatter block. Empty header
// fields are omitted; an all-empty header is not written at all.
func Render(w io.Writer, d Draft) error {
	bw := bufio.NewWriter(w)

	if d.Front != (Front{}) {
		var head bytes.Buffer
		enc := yaml.NewEncoder(&head)
		enc.SetIndent(2)
		if err := enc.Encode(d.Front); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		bw.WriteString("---\n")
		bw.Write(head.Bytes())
		bw.WriteString("---\n\n")
	}

	if d.Body != "" {
		bw.WriteString(d.Body)
		bw.WriteString("\n")
	}
	return bw.Flush()
}
