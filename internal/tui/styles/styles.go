// ABOUTME: Palette and lipgloss styles shared by every facepunch screen
// ABOUTME: Teal brand color with red reserved for rejected punches and errors

package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.Color("#0D9488")
	Accent    = lipgloss.Color("#2DD4BF")
	Info      = lipgloss.Color("#38BDF8")
	Secondary = lipgloss.Color("#22C55E")
	Danger    = lipgloss.Color("#DC2626")
	Muted     = lipgloss.Color("#78716C")
	Surface   = lipgloss.Color("#292524")
	Text      = lipgloss.Color("#FAFAF9")
	white     = lipgloss.Color("#FFFFFF")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func badge(bg lipgloss.Color) lipgloss.Style {
	return fg(white).Background(bg).Padding(0, 1)
}

var (
	Title    = fg(Primary).Bold(true).MarginBottom(1)
	Subtitle = fg(Muted).MarginBottom(1)

	StatusOK       = fg(Secondary).Bold(true)
	StatusCritical = fg(Danger).Bold(true)

	// ActivePanel frames the screen that has focus
	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(Primary).
			Padding(1, 2)

	Selected = fg(Accent).Bold(true)
	Normal   = fg(Text)
	Disabled = fg(Muted).Strikethrough(true)

	KeyStyle   = fg(Accent).Bold(true)
	ValueStyle = fg(Text).Bold(true)

	// Toasts shown after a punch or an admin action
	NoticeSuccess = badge(Primary)
	NoticeError   = badge(Danger)
)
