// ABOUTME: Transient single-line notification shown above the footer
// ABOUTME: Each notice expires after a fixed duration unless replaced

package widgets

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/facepunch/internal/tui/styles"
)

// NoticeDuration is how long a notice stays visible
const NoticeDuration = 3 * time.Second

// NoticeExpiredMsg clears the notice with the matching sequence number
type NoticeExpiredMsg struct {
	Seq int
}

// Notice holds at most one message at a time
type Notice struct {
	text    string
	success bool
	seq     int
}

// Show replaces the current notice and schedules its expiry
func (n *Notice) Show(text string, success bool) tea.Cmd {
	n.seq++
	n.text = text
	n.success = success
	seq := n.seq
	return tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{Seq: seq}
	})
}

// Expire clears the notice if msg refers to the one still showing
func (n *Notice) Expire(msg NoticeExpiredMsg) {
	if msg.Seq == n.seq {
		n.text = ""
	}
}

// Clear removes any notice immediately
func (n *Notice) Clear() {
	n.seq++
	n.text = ""
}

// Text returns the visible message, "" when none
func (n *Notice) Text() string {
	return n.text
}

// Success reports whether the visible notice is a success
func (n *Notice) Success() bool {
	return n.success
}

// View renders the notice, or "" when none
func (n *Notice) View() string {
	if n.text == "" {
		return ""
	}
	if n.success {
		return styles.NoticeSuccess.Render(StatusIconPlain(StatusOK) + " " + n.text)
	}
	return styles.NoticeError.Render(StatusIconPlain(StatusCritical) + " " + n.text)
}
