package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"note-board/cmd/server/handlers/handlerutil"
	"note-board/cmd/server/handlers/httperr"
	"note-board/internal/services/notes"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Board defines the note store operations the HTTP layer needs
type Board interface {
	AddColoredNote(ctx context.Context, title, body, image string, color notes.Color) (*notes.Note, error)
	DeleteNote(ctx context.Context, id string) (*notes.Note, error)
	DuplicateNote(ctx context.Context, id string) (*notes.Note, error)
	SetColor(ctx context.Context, id string, color notes.Color) (*notes.Note, error)
	EditNote(ctx context.Context, id, title, body, image string) (*notes.Note, bool, error)
	RestoreNote(ctx context.Context, id string) (*notes.Note, error)
	PermanentlyDelete(ctx context.Context, id string) (*notes.Note, error)
	EmptyTrash(ctx context.Context) (int, error)
	Reorder(ctx context.Context, from, to int) error

	Active() []notes.Note
	Trashed() []notes.Note
	Find(id string) (notes.Note, notes.Location)
	DaysRemaining(n notes.Note, now time.Time) int

	OpenEditor(id string) (*notes.Note, bool)
	CloseEditor() bool
	Editing() (*notes.Note, bool)
}

// Handlers contains the notes HTTP handlers
type Handlers struct {
	board     Board
	validator *validator.Validate
	now       func() time.Time
}

// NewHandlers creates new notes handlers
func NewHandlers(board Board, validator *validator.Validate, now func() time.Time) *Handlers {
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		board:     board,
		validator: validator,
		now:       now,
	}
}

// noteResult turns a store result into a response, mapping a nil note to 404.
func noteResult(c *fiber.Ctx, status int, n *notes.Note, err error, handlerName, noteID string) error {
	if err != nil {
		return handlerutil.HandleServiceError(err, handlerName, noteID)
	}
	if n == nil {
		return handlerutil.HandleServiceError(notes.ErrNoteNotFound, handlerName, noteID)
	}
	return c.Status(status).JSON(notes.NoteResponse{Note: n})
}

// sendWithETag writes v as JSON tagged with an xxhash ETag, answering 304
// when the client already holds the same representation.
func sendWithETag(c *fiber.Ctx, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return httperr.Fail(httperr.ErrInternal)
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	c.Set(fiber.HeaderETag, etag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// List handles listing the active board
// @Summary List notes on the board in display order
// @Tags notes
// @Produce json
// @Security Bearer
// @Param If-None-Match header string false "ETag of a previous response"
// @Success 200 {object} notes.ListNotesResponse
// @Success 304
// @Failure 401 {object} httperr.E
// @Router /notes [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	active := h.board.Active()
	return sendWithETag(c, notes.ListNotesResponse{Notes: active, Count: len(active)})
}

// Create handles note creation
// @Summary Create a new note at the head of the board
// @Description An empty note (no title, no body, no image) is not stored and yields 204.
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notes.CreateNoteRequest true "Create note request"
// @Success 201 {object} notes.NoteResponse
// @Success 204
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req notes.CreateNoteRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	color, _ := notes.ParseColor(req.Color)
	n, err := h.board.AddColoredNote(c.UserContext(), req.Title, req.Body, req.Image, color)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Create", "")
	}
	if n == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusCreated).JSON(notes.NoteResponse{Note: n})
}

// Update handles note edits
// @Summary Edit a note in place
// @Description Omitted fields keep their value. An edit that leaves the note empty moves it to the trash.
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Param request body notes.UpdateNoteRequest true "Update note request"
// @Success 200 {object} notes.EditNoteResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id} [patch]
func (h *Handlers) Update(c *fiber.Ctx) error {
	noteID, err := handlerutil.ExtractNoteID(c, "Update")
	if err != nil {
		return err
	}

	var req notes.UpdateNoteRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Update"); err != nil {
		return err
	}

	current, where := h.board.Find(noteID)
	if where != notes.InActive {
		return handlerutil.HandleServiceError(notes.ErrNoteNotFound, "Update", noteID)
	}

	title, body, image := current.Title, current.Body, current.Image
	if req.Title != nil {
		title = *req.Title
	}
	if req.Body != nil {
		body = *req.Body
	}
	if req.Image != nil {
		image = *req.Image
	}

	n, trashed, err := h.board.EditNote(c.UserContext(), noteID, title, body, image)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Update", noteID)
	}
	if n == nil {
		return handlerutil.HandleServiceError(notes.ErrNoteNotFound, "Update", noteID)
	}

	return c.JSON(notes.EditNoteResponse{Note: n, Trashed: trashed})
}

// Delete handles moving a note to the trash
// @Summary Move a note to the trash
// @Tags notes
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} notes.NoteResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	noteID, err := handlerutil.ExtractNoteID(c, "Delete")
	if err != nil {
		return err
	}

	n, err := h.board.DeleteNote(c.UserContext(), noteID)
	return noteResult(c, fiber.StatusOK, n, err, "Delete", noteID)
}

// Duplicate handles note duplication
// @Summary Duplicate a note to the head of the board
// @Tags notes
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 201 {object} notes.NoteResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id}/duplicate [post]
func (h *Handlers) Duplicate(c *fiber.Ctx) error {
	noteID, err := handlerutil.ExtractNoteID(c, "Duplicate")
	if err != nil {
		return err
	}

	n, err := h.board.DuplicateNote(c.UserContext(), noteID)
	return noteResult(c, fiber.StatusCreated, n, err, "Duplicate", noteID)
}

// SetColor handles recoloring a note
// @Summary Set a note's palette color
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Param request body notes.ColorRequest true "Palette name or hex value"
// @Success 200 {object} notes.NoteResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id}/color [put]
func (h *Handlers) SetColor(c *fiber.Ctx) error {
	noteID, err := handlerutil.ExtractNoteID(c, "SetColor")
	if err != nil {
		return err
	}

	var req notes.ColorRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "SetColor"); err != nil {
		return err
	}

	color, _ := notes.ParseColor(req.Color)
	n, err := h.board.SetColor(c.UserContext(), noteID, color)
	return noteResult(c, fiber.StatusOK, n, err, "SetColor", noteID)
}

// Reorder handles moving a note to another position
// @Summary Move the note at one position to another
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notes.ReorderRequest true "Reorder request"
// @Success 200 {object} notes.ListNotesResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 422 {object} httperr.E
// @Router /notes/reorder [post]
func (h *Handlers) Reorder(c *fiber.Ctx) error {
	var req notes.ReorderRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Reorder"); err != nil {
		return err
	}

	if err := h.board.Reorder(c.UserContext(), *req.From, *req.To); err != nil {
		return handlerutil.HandleServiceError(err, "Reorder", "")
	}

	active := h.board.Active()
	return c.JSON(notes.ListNotesResponse{Notes: active, Count: len(active)})
}

// Hover handles one pointer update of a drag in progress
// @Summary Feed a drag hover; moves the dragged note once the pointer crosses 30% of the hovered cell
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notes.HoverRequest true "Hover request"
// @Success 200 {object} notes.HoverResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 422 {object} httperr.E
// @Router /notes/hover [post]
func (h *Handlers) Hover(c *fiber.Ctx) error {
	var req notes.HoverRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Hover"); err != nil {
		return err
	}

	var fraction float64
	if req.Fraction != nil {
		fraction = *req.Fraction
	} else {
		fraction = req.Rect.Fraction(*req.Y)
	}

	gesture := notes.NewDragGesture(h.board, *req.DragIndex)
	moved, err := gesture.Hover(c.UserContext(), *req.HoverIndex, fraction)
	move := gesture.Drop()
	if err != nil {
		return handlerutil.HandleServiceError(err, "Hover", "")
	}

	resp := notes.HoverResponse{Moved: moved}
	if moved {
		resp.Move = &move
	}
	return c.JSON(resp)
}

// ListTrash handles listing the trash
// @Summary List trashed notes with their expiry countdown
// @Tags trash
// @Produce json
// @Security Bearer
// @Success 200 {object} notes.ListTrashResponse
// @Failure 401 {object} httperr.E
// @Router /trash [get]
func (h *Handlers) ListTrash(c *fiber.Ctx) error {
	now := h.now()
	trashed := h.board.Trashed()

	out := make([]notes.TrashedNote, len(trashed))
	for i, n := range trashed {
		out[i] = notes.TrashedNote{Note: n, DaysRemaining: h.board.DaysRemaining(n, now)}
	}

	return sendWithETag(c, notes.ListTrashResponse{Notes: out, Count: len(out)})
}

// Restore handles bringing a note back from the trash
// @Summary Restore a trashed note to the head of the board
// @Tags trash
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} notes.NoteResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /trash/{id}/restore [post]
func (h *Handlers) Restore(c *fiber.Ctx) error {
	noteID, err := handlerutil.ExtractNoteID(c, "Restore")
	if err != nil {
		return err
	}

	n, err := h.board.RestoreNote(c.UserContext(), noteID)
	return noteResult(c, fiber.StatusOK, n, err, "Restore", noteID)
}

// Purge handles permanent deletion of a trashed note
// @Summary Permanently delete a trashed note
// @Tags trash
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 204
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /trash/{id} [delete]
func (h *Handlers) Purge(c *fiber.Ctx) error {
	noteID, err := handlerutil.ExtractNoteID(c, "Purge")
	if err != nil {
		return err
	}

	n, err := h.board.PermanentlyDelete(c.UserContext(), noteID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Purge", noteID)
	}
	if n == nil {
		return handlerutil.HandleServiceError(notes.ErrNoteNotFound, "Purge", noteID)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// EmptyTrash handles clearing the trash
// @Summary Permanently delete every trashed note
// @Tags trash
// @Produce json
// @Security Bearer
// @Success 200 {object} notes.CountResponse
// @Failure 401 {object} httperr.E
// @Router /trash [delete]
func (h *Handlers) EmptyTrash(c *fiber.Ctx) error {
	count, err := h.board.EmptyTrash(c.UserContext())
	if err != nil {
		return handlerutil.HandleServiceError(err, "EmptyTrash", "")
	}
	return c.JSON(notes.CountResponse{Count: count})
}

// GetEditor returns the note open in the editor
// @Summary Get the note currently open in the editor
// @Tags editor
// @Produce json
// @Security Bearer
// @Success 200 {object} notes.EditorResponse
// @Failure 401 {object} httperr.E
// @Router /editor [get]
func (h *Handlers) GetEditor(c *fiber.Ctx) error {
	n, _ := h.board.Editing()
	return c.JSON(notes.EditorResponse{Note: n})
}

// OpenEditor opens a note in the editor
// @Summary Open an active note in the editor
// @Tags editor
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} notes.EditorResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /editor/{id} [put]
func (h *Handlers) OpenEditor(c *fiber.Ctx) error {
	noteID, err := handlerutil.ExtractNoteID(c, "OpenEditor")
	if err != nil {
		return err
	}

	n, ok := h.board.OpenEditor(noteID)
	if !ok {
		return handlerutil.HandleServiceError(notes.ErrNoteNotFound, "OpenEditor", noteID)
	}
	return c.JSON(notes.EditorResponse{Note: n})
}

// CloseEditor closes the editor
// @Summary Close the editor
// @Tags editor
// @Security Bearer
// @Success 204
// @Failure 401 {object} httperr.E
// @Router /editor [delete]
func (h *Handlers) CloseEditor(c *fiber.Ctx) error {
	h.board.CloseEditor()
	return c.SendStatus(fiber.StatusNoContent)
}

// Palette lists the selectable colors
// @Summary List palette colors
// @Tags notes
// @Produce json
// @Success 200 {object} notes.PaletteResponse
// @Router /palette [get]
func (h *Handlers) Palette(c *fiber.Ctx) error {
	return c.JSON(notes.PaletteResponse{Colors: notes.Palette()})
}
