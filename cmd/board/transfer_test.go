package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"note-board/internal/services/notes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImport(t *testing.T) {
	data := newBoardFile(t)
	dir := t.TempDir()

	withFront := writeFile(t, dir, "shopping.md", "---\ntitle: Shopping\ncolor: green\n---\n\nmilk\neggs\n")
	withHeading := writeFile(t, dir, "ideas.md", "# Ideas\n\nwrite more tests\n")
	empty := writeFile(t, dir, "empty.md", "")
	badColor := writeFile(t, dir, "odd.md", "---\ncolor: plaid\n---\nstill imported\n")

	out := mustRun(t, data, "import", withFront, withHeading, empty, badColor)
	assert.Contains(t, out, "skipped "+empty)

	list := listNotes(t, data)
	require.Len(t, list, 3)

	// each import lands on top
	assert.Equal(t, []string{"", "Ideas", "Shopping"}, titles(list))
	assert.Equal(t, "still imported", list[0].Body)
	assert.Equal(t, notes.ColorNone, list[0].Color, "unknown colors are ignored")
	assert.Equal(t, "write more tests", list[1].Body)
	assert.Equal(t, notes.ColorGreen, list[2].Color)
	assert.Equal(t, "milk\neggs", list[2].Body)
}

func TestImportMissingFile(t *testing.T) {
	_, err := runBoard(t, newBoardFile(t), "import", filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExport(t *testing.T) {
	data := newBoardFile(t)
	mustRun(t, data, "add", "-t", "first", "-b", "one")
	mustRun(t, data, "add", "-t", "second", "-c", "pink")
	trashed := mustRun(t, data, "add", "-t", "binned")
	mustRun(t, data, "rm", trashed[:len(trashed)-1])

	t.Run("json", func(t *testing.T) {
		var list []notes.Note
		require.NoError(t, json.Unmarshal([]byte(mustRun(t, data, "export")), &list))
		assert.Equal(t, []string{"second", "first"}, titles(list))
	})

	t.Run("yaml", func(t *testing.T) {
		var list []exportNote
		require.NoError(t, yaml.Unmarshal([]byte(mustRun(t, data, "export", "-f", "yaml")), &list))
		require.Len(t, list, 2)
		assert.Equal(t, "second", list[0].Title)
		assert.Equal(t, "pink", list[0].Color)
		assert.Equal(t, "one", list[1].Body)
		assert.False(t, list[1].Timestamp.IsZero())
	})

	t.Run("trash", func(t *testing.T) {
		var list []notes.Note
		require.NoError(t, json.Unmarshal([]byte(mustRun(t, data, "export", "--trash")), &list))
		assert.Equal(t, []string{"binned"}, titles(list))
	})

	t.Run("markdown round trip", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		mustRun(t, data, "export", "-f", "md", "--dir", dir)

		files, err := filepath.Glob(filepath.Join(dir, "*.md"))
		require.NoError(t, err)
		require.Len(t, files, 2)

		other := newBoardFile(t)
		mustRun(t, other, append([]string{"import"}, files...)...)
		imported := listNotes(t, other)
		assert.ElementsMatch(t, []string{"first", "second"}, titles(imported))
		for _, n := range imported {
			if n.Title == "second" {
				assert.Equal(t, notes.ColorPink, n.Color)
			}
		}
	})

	t.Run("markdown needs a dir", func(t *testing.T) {
		_, err := runBoard(t, data, "export", "-f", "md")
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := runBoard(t, data, "export", "-f", "csv")
		assert.ErrorIs(t, err, errUnknownFormat)
	})
}

func TestExportHTML(t *testing.T) {
	data := newBoardFile(t)
	body := "<script>alert(1)</script>  keep  spacing\n\tindented"
	mustRun(t, data, "add", "-t", "<b>Bold</b> plan", "-b", body, "-c", "teal")
	mustRun(t, data, "add", "-t", "pic", "--image", "javascript:alert(1)")

	page := mustRun(t, data, "export", "-f", "html")

	assert.Contains(t, page, "<b>Bold</b> plan")
	assert.Contains(t, page, "  keep  spacing\n\tindented")
	assert.Contains(t, page, "background:"+notes.ColorTeal.Hex())
	assert.NotContains(t, page, "<script")
	assert.NotContains(t, page, "javascript:")

	list := listNotes(t, data)
	require.Len(t, list, 2)
	assert.Equal(t, body, list[1].Body, "the stored note keeps its markup")
}
