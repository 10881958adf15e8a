// ABOUTME: Shared table plumbing for the administrator list screens
// ABOUTME: Holds loading/error state and the messages the screens emit

package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/facepunch/internal/tui/styles"
)

// RefreshMsg asks the root model to reload the current list
type RefreshMsg struct{}

// BackMsg asks the root model to return home
type BackMsg struct{}

// minTableHeight keeps a usable table on tiny terminals
const minTableHeight = 3

// listView is the state both list screens share
type listView struct {
	table   table.Model
	title   string
	loading bool
	err     string
	width   int
	height  int
}

func newListView(title string, columns []table.Column) listView {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(false)
	t.SetStyles(s)

	return listView{table: t, title: title, loading: true}
}

func (l *listView) setSize(width, height int) {
	l.width = width
	l.height = height
	// title, count line, blank line, header
	l.table.SetHeight(max(minTableHeight, height-5))
	l.table.SetWidth(width)
}

func (l *listView) setRows(rows []table.Row) {
	l.loading = false
	l.err = ""
	l.table.SetRows(rows)
	if l.table.Cursor() >= len(rows) {
		l.table.SetCursor(max(0, len(rows)-1))
	}
}

func (l *listView) setError(msg string) {
	l.loading = false
	l.err = msg
}

// handleCommon maps the keys every list understands
func (l *listView) handleCommon(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "r":
		l.loading = true
		return func() tea.Msg { return RefreshMsg{} }, true
	case "b", "esc":
		return func() tea.Msg { return BackMsg{} }, true
	}
	return nil, false
}

func (l *listView) render(summary string) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(l.title))
	sb.WriteString("\n")

	switch {
	case l.loading:
		sb.WriteString(styles.Subtitle.Render("Loading..."))
	case l.err != "":
		sb.WriteString(styles.StatusCritical.Render(l.err))
	case len(l.table.Rows()) == 0:
		sb.WriteString(styles.Subtitle.Render("Nothing here yet."))
	default:
		sb.WriteString(styles.Subtitle.Render(summary))
		sb.WriteString("\n")
		sb.WriteString(l.table.View())
	}
	return sb.String()
}
