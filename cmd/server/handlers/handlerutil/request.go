package handlerutil

import (
	"errors"

	"note-board/cmd/server/handlers/httperr"
	"note-board/internal/logger"
	"note-board/internal/services/notes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func NotFoundError(err error) error {
	return httperr.Fail(httperr.E{
		Status:  404,
		Message: err.Error(),
	})
}

// ParseAndValidateBody parses request body and validates it
func ParseAndValidateBody(c *fiber.Ctx, req any, validator *validator.Validate, handlerName string) error {
	if err := c.BodyParser(req); err != nil {
		logger.L().Warn("failed to parse request body", "handler", handlerName, "path", c.Path(), "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := validator.Struct(req); err != nil {
		logger.L().Warn("request validation failed", "handler", handlerName, "path", c.Path(), "error", err)
		return httperr.InvalidInput(err)
	}

	return nil
}

// ExtractNoteID reads the :id route parameter
func ExtractNoteID(c *fiber.Ctx, handlerName string) (string, error) {
	noteID := c.Params("id")
	if noteID == "" {
		logger.L().Warn("missing note ID parameter", "handler", handlerName, "path", c.Path())
		return "", NotFoundError(notes.ErrNoteNotFound)
	}
	return noteID, nil
}

// HandleServiceError handles common service error responses
func HandleServiceError(err error, handlerName string, noteID string) error {
	logFields := []any{"handler", handlerName, "error", err}
	if noteID != "" {
		logFields = append(logFields, "noteID", noteID)
	}

	switch {
	case errors.Is(err, notes.ErrNoteNotFound):
		logger.L().Info("resource not found", logFields...)
		return NotFoundError(notes.ErrNoteNotFound)
	case errors.Is(err, notes.ErrInvalidIndex):
		logger.L().Info("invalid reorder index", logFields...)
		return httperr.Fail(httperr.E{
			Status:  422,
			Message: notes.ErrInvalidIndex.Error(),
		})
	case errors.Is(err, notes.ErrGestureEnded):
		return httperr.Fail(httperr.E{
			Status:  409,
			Message: notes.ErrGestureEnded.Error(),
		})
	case errors.Is(err, notes.ErrPersist):
		logger.L().Error("board change not persisted", logFields...)
		return httperr.Fail(httperr.E{
			Status:  500,
			Message: notes.ErrPersist.Error(),
		})
	}

	logger.L().Error("service operation failed", logFields...)
	return httperr.Fail(httperr.ErrInternal)
}
