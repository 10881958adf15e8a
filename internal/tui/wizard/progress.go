// ABOUTME: Step tracker drawn above multi-step flows such as registration
// ABOUTME: Shows done, current and pending steps with a proportional bar

package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/facepunch/internal/tui/icons"
	"github.com/markalston/facepunch/internal/tui/styles"
)

// RegistrationSteps names the registration flow stages, in order
var RegistrationSteps = []string{"Identity", "Details", "Capture"}

const minTrackerWidth = 60

var (
	doneStep    = lipgloss.NewStyle().Foreground(styles.Muted)
	currentStep = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	pendingStep = lipgloss.NewStyle().Foreground(styles.Muted).Faint(true)
	trackerBox  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true).
			BorderForeground(styles.Muted).
			Padding(0, 1)
)

// RenderProgress draws the tracker for a 1-based step; steps past the end
// render as all done
func RenderProgress(names []string, step, width int) string {
	inner := max(width-1, minTrackerWidth) - 4
	total := len(names)
	step = min(step, total)

	labels := make([]string, 0, total)
	for i, name := range names {
		n := i + 1
		switch {
		case n < step:
			labels = append(labels, lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())+" "+doneStep.Render(name))
		case n == step:
			labels = append(labels, currentStep.Render("● "+name))
		default:
			labels = append(labels, pendingStep.Render("○ "+name))
		}
	}

	heading := currentStep.Render(fmt.Sprintf("Step %d of %d", max(step, 0), total))
	return trackerBox.Width(inner + 2).Render(strings.Join([]string{
		heading,
		strings.Join(labels, "  ›  "),
		bar(step, total, inner),
	}, "\n"))
}

func bar(step, total, width int) string {
	filled := 0
	if total > 0 {
		filled = max(step, 0) * width / total
	}
	return lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", width-filled))
}
