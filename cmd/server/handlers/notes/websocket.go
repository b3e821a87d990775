package notes

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"note-board/cmd/server/ctxkeys"
	"note-board/cmd/server/handlers/httperr"
	"note-board/internal/logger"
	"note-board/internal/services/notes"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

const (
	// WSClosePolicyViolation represents WebSocket close code for policy violation
	WSClosePolicyViolation = 1008

	wsWriteTimeout     = 10 * time.Second
	wsPingInterval     = 25 * time.Second
	wsPingWriteTimeout = 5 * time.Second

	// anonymousSubject names stream clients of a board without auth
	anonymousSubject = "anonymous"

	msgFailedToCloseWebSocketConnection = "failed to close WebSocket connection"
)

var (
	errMissingSubject = errors.New("missing sub")
	errInvalidToken   = errors.New("invalid token")
)

// Hub interface for WebSocket management
type Hub interface {
	Subscribe(connULID ulid.ULID) (*notes.Subscriber, func())
	Unsubscribe(connULID ulid.ULID)
}

// WebSocketHandlers streams board events to connected clients
type WebSocketHandlers struct {
	hub           Hub
	jwtSecret     string
	maxSessionSec int
}

// NewWebSocketHandlers creates new WebSocket handlers. An empty jwtSecret
// accepts connections without a token.
func NewWebSocketHandlers(hub Hub, jwtSecret string, maxSessionSec int) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub:           hub,
		jwtSecret:     jwtSecret,
		maxSessionSec: maxSessionSec,
	}
}

// WSUpgrade checks the upgrade request before handing it to WSNotesStream.
// When auth is enabled the bearer token travels in the token query parameter.
func (h *WebSocketHandlers) WSUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		logger.L().Warn("websocket upgrade required", "handler", "WSUpgrade", "path", c.Path())
		return httperr.Fail(httperr.ErrUpgradeRequired)
	}

	subject := anonymousSubject
	if h.jwtSecret != "" {
		token := c.Query("token")
		if token == "" {
			logger.L().Warn("missing token in websocket upgrade", "handler", "WSUpgrade", "path", c.Path())
			return httperr.Fail(httperr.E{Status: 401, Message: "Missing token"})
		}

		var err error
		subject, err = h.validateJWT(token)
		if err != nil {
			logger.L().Warn("invalid token in websocket upgrade", "handler", "WSUpgrade", "path", c.Path(), "error", err)
			return httperr.Fail(httperr.E{Status: 401, Message: "Invalid token"})
		}
	}

	c.Locals(ctxkeys.SubjectKey, subject)
	c.Locals(ctxkeys.ParentCtxKey, c.UserContext())
	return c.Next()
}

// WSNotesStream handles WebSocket connections for real-time board updates
func (h *WebSocketHandlers) WSNotesStream(c *websocket.Conn) {
	conn, parentCtx, err := h.initializeConnection(c)
	if err != nil {
		h.closeConnection(c)
		return
	}

	ctx, cancelCtx := context.WithCancel(parentCtx)
	defer cancelCtx()

	subscriber, cancel := h.hub.Subscribe(conn.connULID)
	defer cancel()

	logger.L().Info("WebSocket connection established", "subject", conn.subject, "conn_id", conn.connID)

	sessionTimer := h.startSessionTimer(c, conn, cancelCtx)
	defer h.stopSessionTimer(sessionTimer)

	ping := h.startKeepAlive(c, conn)
	defer ping.Stop()

	go h.handleOutgoingMessages(ctx, c, conn, subscriber)

	h.handleIncomingMessages(c, conn)

	logger.L().Info("WebSocket connection closed", "subject", conn.subject, "conn_id", conn.connID)
}

type wsConnection struct {
	subject  string
	connULID ulid.ULID
	connID   string
}

func (h *WebSocketHandlers) initializeConnection(c *websocket.Conn) (*wsConnection, context.Context, error) {
	subject, ok := c.Locals(ctxkeys.SubjectKey).(string)
	if !ok {
		logger.L().Error(ctxkeys.SubjectKey + " not found in WebSocket context")
		return nil, nil, fmt.Errorf("%s not found", ctxkeys.SubjectKey)
	}

	parentCtx, ok := c.Locals(ctxkeys.ParentCtxKey).(context.Context)
	if !ok {
		logger.L().Error(ctxkeys.ParentCtxKey + " not found in WebSocket context")
		return nil, nil, fmt.Errorf("%s not found", ctxkeys.ParentCtxKey)
	}

	connULID := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader)

	return &wsConnection{
		subject:  subject,
		connULID: connULID,
		connID:   connULID.String(),
	}, parentCtx, nil
}

func (h *WebSocketHandlers) closeConnection(c *websocket.Conn) {
	if err := c.Close(); err != nil {
		logger.L().Error(msgFailedToCloseWebSocketConnection, "error", err)
	}
}

// startSessionTimer closes the connection with a policy violation once the session cap is hit
func (h *WebSocketHandlers) startSessionTimer(c *websocket.Conn, conn *wsConnection, cancelCtx context.CancelFunc) *time.Timer {
	if h.maxSessionSec <= 0 {
		return nil
	}
	return time.AfterFunc(time.Duration(h.maxSessionSec)*time.Second, func() {
		logger.L().Info("WebSocket session timeout", "subject", conn.subject, "conn_id", conn.connID)
		h.sendCloseMessage(c, conn)
		h.closeConnection(c)
		cancelCtx()
	})
}

func (h *WebSocketHandlers) stopSessionTimer(timer *time.Timer) {
	if timer != nil {
		timer.Stop()
	}
}

func (h *WebSocketHandlers) sendCloseMessage(c *websocket.Conn, conn *wsConnection) {
	err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(WSClosePolicyViolation, "session timeout"))
	if err != nil {
		logger.L().Error("failed to send close message", "error", err, "conn_id", conn.connID)
	}
}

func (h *WebSocketHandlers) startKeepAlive(c *websocket.Conn, conn *wsConnection) *time.Ticker {
	ping := time.NewTicker(wsPingInterval)
	go func() {
		for range ping.C {
			if h.sendPing(c, conn) != nil {
				return
			}
		}
	}()
	return ping
}

func (h *WebSocketHandlers) sendPing(c *websocket.Conn, conn *wsConnection) error {
	if err := c.SetWriteDeadline(time.Now().Add(wsPingWriteTimeout)); err != nil {
		logger.L().Error("failed to set write deadline", "error", err, "conn_id", conn.connID)
		return err
	}
	if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
		logger.L().Warn("failed to write ping message", "error", err, "conn_id", conn.connID)
		return err
	}
	return nil
}

func (h *WebSocketHandlers) handleOutgoingMessages(ctx context.Context, c *websocket.Conn, conn *wsConnection, subscriber *notes.Subscriber) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().Error("panic in WebSocket sender", "error", r, "conn_id", conn.connID)
		}
	}()

	for {
		select {
		case event, ok := <-subscriber.Ch:
			if !ok {
				return
			}
			if h.sendEvent(c, conn, event) != nil {
				return
			}
		case <-subscriber.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandlers) sendEvent(c *websocket.Conn, conn *wsConnection, event notes.NoteEvent) error {
	if err := c.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		logger.L().Error("failed to set write deadline", "error", err, "conn_id", conn.connID)
		return err
	}
	if err := c.WriteJSON(buildEventMessage(event)); err != nil {
		logger.L().Error("failed to write WebSocket message", "error", err, "conn_id", conn.connID)
		return err
	}
	return nil
}

// buildEventMessage strips purged notes down to their id; the client only
// needs to drop them.
func buildEventMessage(event notes.NoteEvent) notes.NoteEvent {
	if event.Type == notes.EventPurged && event.Note != nil {
		event.Note = &notes.Note{ID: event.Note.ID}
	}
	return event
}

func (h *WebSocketHandlers) handleIncomingMessages(c *websocket.Conn, conn *wsConnection) {
	for {
		messageType, _, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().Error("WebSocket error", "error", err, "conn_id", conn.connID)
			}
			return
		}

		if messageType == websocket.PingMessage {
			if err := c.WriteMessage(websocket.PongMessage, nil); err != nil {
				logger.L().Error("failed to send pong", "error", err, "conn_id", conn.connID)
				return
			}
		}
	}
}

// validateJWT verifies an HS256 token and returns its subject
func (h *WebSocketHandlers) validateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if subject == "" {
		return "", errMissingSubject
	}
	return subject, nil
}

// LogWSConnections logs every WebSocket upgrade attempt. The subject is only
// logged once the token verifies so it can't be spoofed.
func LogWSConnections(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			subject := ""
			if token := c.Query("token"); token != "" && jwtSecret != "" {
				h := WebSocketHandlers{jwtSecret: jwtSecret}
				subject, _ = h.validateJWT(token)
			}
			logger.L().Info("WebSocket upgrade attempt", "ip", c.IP(), "subject", subject)
		}
		return c.Next()
	}
}
