// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Provides colored inline badges for camera and submission state

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/facepunch/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func colors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := colors(level)
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := colors(level)
	style := lipgloss.NewStyle().Foreground(bg)
	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	case StatusInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

// StatusIconPlain returns the icon without color, for use on colored backgrounds
func StatusIconPlain(level StatusLevel) string {
	switch level {
	case StatusOK:
		return icons.CheckOK.String()
	case StatusWarning:
		return icons.Warning.String()
	case StatusCritical:
		return icons.Critical.String()
	case StatusInfo:
		return icons.Info.String()
	default:
		return "•"
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := colors(level)
	return fmt.Sprintf("%s %s", StatusIcon(level), lipgloss.NewStyle().Foreground(bg).Render(text))
}

// CameraBadge shows probe state: still checking, ready, or missing
func CameraBadge(probing, available bool) string {
	text := CameraBadgeText(probing, available)
	switch {
	case probing:
		return Badge(icons.Camera.String()+" "+text, StatusInfo)
	case available:
		return Badge(icons.Camera.String()+" "+text, StatusOK)
	default:
		return Badge(icons.NoCamera.String()+" "+text, StatusCritical)
	}
}

// CameraBadgeText is the plain wording of CameraBadge
func CameraBadgeText(probing, available bool) string {
	switch {
	case probing:
		return "Checking camera..."
	case available:
		return "Camera ready"
	default:
		return "Camera not detected"
	}
}

// SessionBadge shows whether a credential is stored
func SessionBadge(authorized bool) string {
	if authorized {
		return Badge("Signed in", StatusOK)
	}
	return Badge("Anonymous", StatusNeutral)
}
