package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"note-board/internal/clients/boardapi"

	"github.com/spf13/cobra"
)

func newPingCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that a board server is up.",
		Args:  cobra.NoArgs,
		// the server check does not need the local config
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			h, err := boardapi.New(url).Health(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s active=%d trashed=%d\n", h.Status, h.Active, h.Trashed)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", defaultServerURL(), "Board server base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "Request timeout")
	return cmd
}

func defaultServerURL() string {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	return "http://localhost:" + port
}
