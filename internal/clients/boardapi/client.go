// Package boardapi is a small HTTP client for a running board server.
package boardapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"note-board/internal/services/notes"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTimeout = 5 * time.Second

var (
	ErrUnhealthy   = errors.New("board server reported unhealthy")
	ErrUnexpected  = errors.New("unexpected response from board server")
	ErrEmptySecret = errors.New("cannot sign a token without a secret")
)

// Health mirrors the /healthz payload.
type Health struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Active  int    `json:"active"`
	Trashed int    `json:"trashed"`
}

// Client talks to one board server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a Bearer credential on API calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default client, which times out after DefaultTimeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SignToken mints an HS256 token for subject, valid for ttl.
func SignToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now().UTC()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}).SignedString([]byte(secret))
}

// Health queries /healthz. A reachable server that reports itself down
// returns the payload together with ErrUnhealthy.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	status, err := c.do(ctx, http.MethodGet, "/healthz", nil, &h)
	if err != nil {
		return h, err
	}
	if status != http.StatusOK || h.Status != "ok" {
		return h, fmt.Errorf("%w: status %d %s", ErrUnhealthy, status, h.Error)
	}
	return h, nil
}

// CreateNote posts a note. It returns nil when the server dropped it as empty.
func (c *Client) CreateNote(ctx context.Context, req notes.CreateNoteRequest) (*notes.Note, error) {
	var resp notes.NoteResponse
	status, err := c.do(ctx, http.MethodPost, "/api/v1/notes", req, &resp)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusCreated:
		return resp.Note, nil
	case http.StatusNoContent:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: create note: status %d", ErrUnexpected, status)
}

// ListNotes returns the active board in display order.
func (c *Client) ListNotes(ctx context.Context) ([]notes.Note, error) {
	var resp notes.ListNotesResponse
	status, err := c.do(ctx, http.MethodGet, "/api/v1/notes", nil, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: list notes: status %d", ErrUnexpected, status)
	}
	return resp.Notes, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return resp.StatusCode, fmt.Errorf("%w: %w", ErrUnexpected, err)
		}
	}
	return resp.StatusCode, nil
}
