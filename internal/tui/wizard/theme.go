// ABOUTME: Shared huh theme for every form in the TUI
// ABOUTME: Colors come from the teal palette in the styles package

package wizard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/facepunch/internal/tui/styles"
)

// CancelledMsg is sent when the user leaves a form with esc
type CancelledMsg struct{}

var (
	formHint  = lipgloss.Color("#A8A29E")
	formInput = lipgloss.Color("#E7E5E4")
	formError = lipgloss.Color("#F87171")
)

func ink(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// createTheme returns the huh theme every form uses
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = ink(styles.Primary).Bold(true).MarginBottom(1)
	t.Group.Description = ink(formHint).MarginBottom(1)

	f := &t.Focused
	f.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	f.Title = ink(styles.Accent).Bold(true)
	f.Description = ink(formHint)
	f.ErrorIndicator = ink(formError).SetString(" *")
	f.ErrorMessage = ink(formError)
	f.SelectSelector = ink(styles.Primary).SetString("› ")
	f.Option = ink(formInput)
	f.SelectedOption = ink(styles.Primary).Bold(true)
	f.TextInput.Cursor = ink(styles.Accent)
	f.TextInput.Placeholder = ink(formHint)
	f.TextInput.Prompt = ink(styles.Primary)
	f.TextInput.Text = ink(formInput)

	button := lipgloss.NewStyle().Padding(0, 2).MarginRight(1)
	f.FocusedButton = button.Foreground(styles.Text).Background(styles.Primary)
	f.BlurredButton = button.Foreground(formHint).Background(styles.Surface)

	t.Blurred = t.Focused
	b := &t.Blurred
	b.Base = f.Base.BorderStyle(lipgloss.HiddenBorder())
	b.Title = ink(formHint)
	b.SelectSelector = ink(formHint).SetString("  ")
	b.Option = ink(formHint)

	return t
}

// updateForm forwards msg to form and reports whether it just completed
func updateForm(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd, bool) {
	model, cmd := form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		form = f
	}
	return form, cmd, form.State == huh.StateCompleted
}

func cancel() tea.Msg { return CancelledMsg{} }
