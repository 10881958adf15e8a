// ABOUTME: Shared output helpers for CLI commands
// ABOUTME: Renders tables and JSON, colours status words only on a terminal

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/markalston/facepunch/internal/client"
	"github.com/markalston/facepunch/internal/submit"
)

// Exit codes shared by all commands
const (
	exitOK      = 0
	exitFailure = 1 // the service reported a failure
	exitError   = 2 // local, usage or authorization error
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// statusWord colours s green or red when w is a terminal
func statusWord(w io.Writer, s string, ok bool) string {
	if !shouldColorize(w) {
		return s
	}
	if ok {
		return text.FgGreen.Sprint(s)
	}
	return text.FgRed.Sprint(s)
}

func writeJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// writeJSONLine writes v compactly, one value per line
func writeJSONLine(w io.Writer, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

// writeOutcome prints a submission result and maps it to an exit code:
// a rejection from the service is 1, a failure before any reply is 2
func writeOutcome(w io.Writer, outcome submit.Outcome) int {
	if IsJSONOutput() {
		writeJSON(w, outcome)
	} else if outcome.Success {
		fmt.Fprintln(w, statusWord(w, outcome.Message, true))
	} else {
		fmt.Fprintf(w, "Error: %s\n", statusWord(w, outcome.Message, false))
	}
	switch {
	case outcome.Success:
		return exitOK
	case outcome.Local:
		return exitError
	}
	return exitFailure
}

// writeError prints err and picks the exit code: a reply from the service
// is a remote failure, anything else is local.
func writeError(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) || errors.Is(err, client.ErrInvalidCredentials) {
		return exitFailure
	}
	return exitError
}
