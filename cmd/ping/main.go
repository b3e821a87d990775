// Intended for Docker HEALTHCHECK:
//
//	HEALTHCHECK CMD ["/ping"]
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"note-board/internal/clients/boardapi"
)

const (
	defaultPort    = 8080
	requestTimeout = 1 * time.Second

	// exit codes
	codeRequestFailed     = 2
	codeReportedUnhealthy = 5
)

func main() {
	port := detectPort()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	h, err := boardapi.New(fmt.Sprintf("http://localhost:%d", port)).Health(ctx)
	switch {
	case errors.Is(err, boardapi.ErrUnhealthy):
		fail(codeReportedUnhealthy, "service reported unhealthy: %v", err)
	case err != nil:
		fail(codeRequestFailed, "request failed: %v", err)
	}

	log.Printf("service healthy on port %d (active=%d trashed=%d)", port, h.Active, h.Trashed)
}

// detectPort parses APP_PORT and falls back to defaultPort.
func detectPort() int {
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			return p
		}
	}
	return defaultPort
}

func fail(code int, format string, args ...any) {
	log.Printf(format, args...)
	os.Exit(code)
}
