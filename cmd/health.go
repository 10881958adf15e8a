// ABOUTME: Health command for the facepunch client
// ABOUTME: Checks that the attendance service base URL answers

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/markalston/facepunch/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check service connectivity",
	Long:  `Check that the attendance service base URL answers HTTP. Any status code counts as reachable.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(runHealth)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// healthChecker is the part of the client the health command calls
type healthChecker interface {
	Health(ctx context.Context) (*client.HealthResponse, error)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, e *env, w io.Writer) int {
	return checkHealth(ctx, e.client, w)
}

func checkHealth(ctx context.Context, c healthChecker, w io.Writer) int {
	resp, err := c.Health(ctx)
	if err != nil {
		if IsJSONOutput() && resp != nil {
			writeJSON(w, formatHealthJSON(resp))
			return exitError
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		writeJSON(w, formatHealthJSON(resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(w, resp))
	}
	return exitOK
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(w io.Writer, resp *client.HealthResponse) string {
	return fmt.Sprintf(`Service:  %s
Status:   %s
HTTP:     %d
Latency:  %s`, resp.BaseURL, statusWord(w, "reachable", true), resp.StatusCode, resp.Latency.Round(time.Millisecond))
}

// formatHealthJSON shapes the health response for JSON output
func formatHealthJSON(resp *client.HealthResponse) map[string]any {
	return map[string]any{
		"service":     resp.BaseURL,
		"reachable":   resp.Reachable,
		"status_code": resp.StatusCode,
		"latency_ms":  resp.Latency.Milliseconds(),
	}
}
