// ABOUTME: Attendance records table showing each person's latest check-in
// ABOUTME: Summarises how many registered users have attended

package dashboard

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/facepunch/internal/client"
	"github.com/markalston/facepunch/internal/tui/icons"
)

// Records lists attendance records
type Records struct {
	listView
	records    []client.AttendanceRecord
	registered int
}

// NewRecords starts in the loading state
func NewRecords() *Records {
	return &Records{
		listView: newListView(icons.Records.String()+" Attendance Records", []table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 24},
			{Title: "Email", Width: 30},
			{Title: "Date", Width: 12},
			{Title: "Time", Width: 10},
		}),
		registered: -1,
	}
}

// SetRecords replaces the rows. registered < 0 means the user count is unknown.
func (r *Records) SetRecords(records []client.AttendanceRecord, registered int) {
	r.records = records
	r.registered = registered
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			strconv.Itoa(rec.ID), rec.Name, rec.Email, rec.LastAttendanceDate, rec.LastAttendanceTime,
		})
	}
	r.setRows(rows)
}

// SetError shows msg instead of the table
func (r *Records) SetError(msg string) {
	r.setError(msg)
}

// SetSize updates the available area
func (r *Records) SetSize(width, height int) {
	r.setSize(width, height)
}

// Loading reports whether a fetch is outstanding
func (r *Records) Loading() bool {
	return r.loading
}

// Update handles list keys
func (r *Records) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if cmd, handled := r.handleCommon(key); handled {
		return cmd
	}
	var cmd tea.Cmd
	r.table, cmd = r.table.Update(msg)
	return cmd
}

// View renders the list
func (r *Records) View() string {
	summary := fmt.Sprintf("%d records", len(r.records))
	if r.registered >= 0 {
		summary = fmt.Sprintf("%d of %d registered users attended", len(r.records), r.registered)
	}
	return r.render(summary)
}
