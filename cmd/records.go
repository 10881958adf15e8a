// ABOUTME: Records command listing each person's most recent attendance
// ABOUTME: --with-users also fetches the user count concurrently for a summary

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/facepunch/internal/client"
)

var recordsWithUsers bool

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List attendance records",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, e *env, w io.Writer) int {
			return runRecords(ctx, e, recordsWithUsers, w)
		})
	},
}

func init() {
	recordsCmd.Flags().BoolVar(&recordsWithUsers, "with-users", false, "Include how many registered users attended")
	rootCmd.AddCommand(recordsCmd)
}

// recordsReport is the JSON shape of the records command.
// Registered is -1 when the user count was not fetched or failed.
type recordsReport struct {
	Records    []client.AttendanceRecord `json:"records"`
	Registered int                       `json:"registered"`
}

// runRecords fetches records and, when asked, the user list alongside.
// A failed user count only drops the summary.
func runRecords(ctx context.Context, e *env, withUsers bool, w io.Writer) int {
	token, ok := requireSession(e.session, w)
	if !ok {
		return exitError
	}

	report := recordsReport{Registered: -1}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := e.client.ListAttendanceRecords(gctx, token)
		report.Records = records
		return err
	})
	if withUsers {
		g.Go(func() error {
			users, err := e.client.ListUsers(gctx, token)
			if err != nil {
				e.logger.Warn("user count unavailable", "error", err)
				return nil
			}
			report.Registered = len(users)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return writeError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, report)
	} else {
		fmt.Fprintln(w, formatRecordsHuman(report))
	}
	return exitOK
}

func formatRecordsHuman(report recordsReport) string {
	summary := fmt.Sprintf("%d attendance records", len(report.Records))
	if report.Registered >= 0 {
		summary = fmt.Sprintf("%d of %d registered users attended", len(report.Records), report.Registered)
	}
	if len(report.Records) == 0 {
		return summary
	}

	rows := make([][]string, 0, len(report.Records))
	for _, r := range report.Records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID), r.Name, r.Email, r.LastAttendanceDate, r.LastAttendanceTime,
		})
	}
	return summary + "\n" + renderTable(
		[]string{"ID", "Name", "Email", "Date", "Time"}, rows, []columnAlignment{alignRight})
}
