package notes

import (
	"crypto/rand"
	"sync"
	"testing"
	"time"

	"note-board/cmd/server/ctxkeys"
	"note-board/cmd/server/testutil"
	"note-board/internal/services/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

// MockHub implements the Hub interface for testing
type MockHub struct {
	mu             sync.Mutex
	subscribers    map[ulid.ULID]*notes.Subscriber
	subscribeCount int
}

func NewMockHub() *MockHub {
	return &MockHub{
		subscribers: make(map[ulid.ULID]*notes.Subscriber),
	}
}

func (m *MockHub) Subscribe(connULID ulid.ULID) (*notes.Subscriber, func()) {
	sub := &notes.Subscriber{
		ID:   connULID,
		Ch:   make(chan notes.NoteEvent, 10),
		Done: make(chan struct{}),
	}

	m.mu.Lock()
	m.subscribers[connULID] = sub
	m.subscribeCount++
	m.mu.Unlock()

	return sub, func() { m.Unsubscribe(connULID) }
}

func (m *MockHub) Unsubscribe(connULID ulid.ULID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub, exists := m.subscribers[connULID]; exists {
		close(sub.Ch)
		close(sub.Done)
		delete(m.subscribers, connULID)
	}
}

func (m *MockHub) GetSubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

// WebSocketTestConfig holds configuration for WebSocket tests
type WebSocketTestConfig struct {
	Secret        string
	MaxSessionSec int
}

// DefaultWebSocketTestConfig returns a default test configuration
func DefaultWebSocketTestConfig() WebSocketTestConfig {
	return WebSocketTestConfig{
		Secret:        "test-secret-key-with-32-characters",
		MaxSessionSec: 900,
	}
}

// SetupWebSocketHandlersApp creates a test app whose /ws route echoes the upgrade locals
func SetupWebSocketHandlersApp(t *testing.T, config WebSocketTestConfig) (*fiber.App, *MockHub, *WebSocketHandlers) {
	t.Helper()

	app := testutil.CreateTestApp(t)
	hub := NewMockHub()
	wsHandlers := NewWebSocketHandlers(hub, config.Secret, config.MaxSessionSec)

	app.Get("/ws", wsHandlers.WSUpgrade, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"subject": c.Locals(ctxkeys.SubjectKey),
		})
	})

	return app, hub, wsHandlers
}

// WSUpgradeTestCase represents a WebSocket upgrade test case
type WSUpgradeTestCase struct {
	Name           string
	Token          *string // nil means no token
	ExpectedStatus int
}

// GetStandardWSUpgradeTestCases returns common WebSocket upgrade test cases
func GetStandardWSUpgradeTestCases(t *testing.T, secret string) []WSUpgradeTestCase {
	t.Helper()

	validToken, err := testutil.CreateTestJWT("board-owner", []byte(secret), time.Hour)
	require.NoError(t, err)

	expiredToken, err := testutil.CreateTestJWT("board-owner", []byte(secret), -time.Hour)
	require.NoError(t, err)

	invalidToken := "invalid-token"

	return []WSUpgradeTestCase{
		{Name: "ValidToken", Token: &validToken, ExpectedStatus: 200},
		{Name: "MissingToken", Token: nil, ExpectedStatus: 401},
		{Name: "InvalidToken", Token: &invalidToken, ExpectedStatus: 401},
		{Name: "ExpiredToken", Token: &expiredToken, ExpectedStatus: 401},
	}
}

// WebSocketConnectionTest subscribes a fresh connection and unsubscribes it on cleanup
func WebSocketConnectionTest(t *testing.T, hub *MockHub) *notes.Subscriber {
	t.Helper()

	connULID := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader)
	sub, cancel := hub.Subscribe(connULID)
	t.Cleanup(cancel)

	return sub
}
