package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"note-board/internal/services/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

const mcpServerVersion = "0.1.0"

func newMCPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the board as MCP tools over stdio.",
		Long:  "Serve the board as MCP tools over stdio. The board file stays locked while the server runs and expired trash is swept on the configured interval.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(s *notes.Store) error {
				return server.ServeStdio(newMCPServer(&boardMCP{store: s}))
			})
		},
	}
}

func newMCPServer(b *boardMCP) *server.MCPServer {
	s := server.NewMCPServer(
		"Note Board",
		mcpServerVersion,
		server.WithToolCapabilities(false),
	)

	idArg := func(desc string) mcp.ToolOption {
		return mcp.WithString("id", mcp.Required(), mcp.Description(desc))
	}

	s.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the active notes in board order, top first."),
	), b.listHandler)

	s.AddTool(mcp.NewTool("list_trash",
		mcp.WithDescription("List trashed notes with the number of days left before each is deleted."),
	), b.trashHandler)

	s.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Add a note at the top of the board. A note without title and body is not stored."),
		mcp.WithString("title", mcp.Description("Note title.")),
		mcp.WithString("body", mcp.Description("Note text.")),
		mcp.WithString("color", mcp.Description("Palette color name."), mcp.Enum(colorNames()...)),
	), b.addHandler)

	s.AddTool(mcp.NewTool("edit_note",
		mcp.WithDescription("Change the title or body of an active note. Omitted fields keep their value; emptying a note moves it to the trash."),
		idArg("Id of the note to edit."),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("body", mcp.Description("New body.")),
	), b.editHandler)

	s.AddTool(mcp.NewTool("set_color",
		mcp.WithDescription("Set the palette color of an active note."),
		idArg("Id of the note to color."),
		mcp.WithString("color", mcp.Required(), mcp.Description("Palette color name."), mcp.Enum(colorNames()...)),
	), b.colorHandler)

	s.AddTool(mcp.NewTool("move_note",
		mcp.WithDescription("Move the note at position `from` to position `to`. Positions start at 0."),
		mcp.WithNumber("from", mcp.Required(), mcp.Description("Current position.")),
		mcp.WithNumber("to", mcp.Required(), mcp.Description("Target position.")),
	), b.moveHandler)

	s.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Move an active note to the trash."),
		idArg("Id of the note to delete."),
	), b.deleteHandler)

	s.AddTool(mcp.NewTool("restore_note",
		mcp.WithDescription("Move a trashed note back to the top of the board."),
		idArg("Id of the trashed note."),
	), b.restoreHandler)

	s.AddTool(mcp.NewTool("purge_note",
		mcp.WithDescription("Delete a trashed note for good."),
		idArg("Id of the trashed note."),
	), b.purgeHandler)

	s.AddTool(mcp.NewTool("empty_trash",
		mcp.WithDescription("Delete every trashed note for good."),
	), b.emptyTrashHandler)

	return s
}

// boardMCP exposes a store as MCP tool handlers.
type boardMCP struct {
	store *notes.Store
}

type trashEntry struct {
	notes.Note
	DaysRemaining int `json:"daysRemaining"`
}

func (b *boardMCP) listHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(b.store.Active())
}

func (b *boardMCP) trashHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	trashed := b.store.Trashed()
	out := make([]trashEntry, 0, len(trashed))
	for _, n := range trashed {
		out = append(out, trashEntry{Note: n, DaysRemaining: b.store.DaysRemaining(n, now)})
	}
	return jsonResult(out)
}

func (b *boardMCP) addHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	color, ok := notes.ParseColor(req.GetString("color", ""))
	if !ok {
		return mcp.NewToolResultError(errInvalidColor.Error()), nil
	}

	n, err := b.store.AddColoredNote(ctx, req.GetString("title", ""), req.GetString("body", ""), "", color)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if n == nil {
		return mcp.NewToolResultText("Empty note was not stored."), nil
	}
	return jsonResult(n)
}

func (b *boardMCP) editHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	cur, loc := b.store.Find(id)
	if loc != notes.InActive {
		return mcp.NewToolResultError(notes.ErrNoteNotFound.Error()), nil
	}

	args := req.GetArguments()
	if _, ok := args["title"]; ok {
		cur.Title = req.GetString("title", "")
	}
	if _, ok := args["body"]; ok {
		cur.Body = req.GetString("body", "")
	}

	n, trashed, err := b.store.EditNote(ctx, id, cur.Title, cur.Body, cur.Image)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if trashed {
		return mcp.NewToolResultText(fmt.Sprintf("Note %s was empty and moved to the trash.", n.ID)), nil
	}
	return jsonResult(n)
}

func (b *boardMCP) colorHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	color, ok := notes.ParseColor(req.GetString("color", ""))
	if !ok {
		return mcp.NewToolResultError(errInvalidColor.Error()), nil
	}
	return b.noteResult(b.store.SetColor(ctx, req.GetString("id", ""), color))
}

func (b *boardMCP) moveHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetInt("from", -1)
	to := req.GetInt("to", -1)
	if err := b.store.Reorder(ctx, from, to); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(b.store.Active())
}

func (b *boardMCP) deleteHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return b.noteResult(b.store.DeleteNote(ctx, req.GetString("id", "")))
}

func (b *boardMCP) restoreHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return b.noteResult(b.store.RestoreNote(ctx, req.GetString("id", "")))
}

func (b *boardMCP) purgeHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := b.store.PermanentlyDelete(ctx, req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if n == nil {
		return mcp.NewToolResultError(notes.ErrNoteNotFound.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Note %s was deleted.", n.ID)), nil
}

func (b *boardMCP) emptyTrashHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count, err := b.store.EmptyTrash(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d notes deleted.", count)), nil
}

func (b *boardMCP) noteResult(n *notes.Note, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if n == nil {
		return mcp.NewToolResultError(notes.ErrNoteNotFound.Error()), nil
	}
	return jsonResult(n)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func colorNames() []string {
	palette := notes.Palette()
	names := make([]string, 0, len(palette))
	for _, sw := range palette {
		names = append(names, string(sw.Name))
	}
	return names
}
