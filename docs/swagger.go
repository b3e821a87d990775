// Package docs Note Board API
//
// @title  Note Board API
// @version 0.1.0
// @description Sticky-note board with a trash bin, drag reordering and live updates.
// @host      localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Only needed when the server runs with JWT_SECRET.
package docs

import (
	_ "note-board/cmd/server/handlers/httperr"
	_ "note-board/internal/services/notes"
)
