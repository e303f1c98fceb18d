package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// Pinger checks that the backend answers. *api.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkStatus(cmd.Context(), cmd.OutOrStdout(), current.client, current.cfg.APIBaseURL)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func checkStatus(ctx context.Context, w io.Writer, p Pinger, baseURL string) error {
	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("backend %s unreachable: %w", baseURL, err)
	}
	fmt.Fprintf(w, "Backend %s is up (%s).\n", baseURL, time.Since(start).Round(time.Millisecond))
	return nil
}
