// ABOUTME: Yes/no confirmation before deleting a user
// ABOUTME: Emits DeleteConfirmedMsg only on an explicit yes

package wizard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/facepunch/internal/client"
)

// DeleteConfirmedMsg asks the root model to delete the user
type DeleteConfirmedMsg struct {
	ID int
}

// ConfirmDelete asks before deleting a user
type ConfirmDelete struct {
	form *huh.Form
	id   int
	yes  bool
}

// NewConfirmDelete builds the prompt for u
func NewConfirmDelete(u client.User) *ConfirmDelete {
	c := &ConfirmDelete{id: u.ID}
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", u.Name)).
				Description(u.Email).
				Affirmative("Delete").
				Negative("Keep").
				Value(&c.yes),
		),
	).WithTheme(createTheme())
	return c
}

// Init implements tea.Model
func (c *ConfirmDelete) Init() tea.Cmd {
	return c.form.Init()
}

// Update implements tea.Model
func (c *ConfirmDelete) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return c, cancel
	}
	form, cmd, done := updateForm(c.form, msg)
	c.form = form
	if done {
		if !c.yes {
			return c, cancel
		}
		id := c.id
		return c, func() tea.Msg { return DeleteConfirmedMsg{ID: id} }
	}
	return c, cmd
}

// View implements tea.Model
func (c *ConfirmDelete) View() string {
	return c.form.View()
}
