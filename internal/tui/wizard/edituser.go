// ABOUTME: Edit form for an existing registered user
// ABOUTME: Prefills current values and emits the edited fields

package wizard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/facepunch/internal/client"
)

// UserEditedMsg carries the submitted edit
type UserEditedMsg struct {
	ID     int
	Update client.UserUpdate
}

// EditUser is the user edit form
type EditUser struct {
	form   *huh.Form
	id     int
	update client.UserUpdate
}

// NewEditUser prefills the form from u
func NewEditUser(u client.User) *EditUser {
	e := &EditUser{
		id: u.ID,
		update: client.UserUpdate{
			Name:   u.Name,
			Email:  u.Email,
			Gender: u.Gender,
			DOB:    u.DOB,
		},
	}
	if e.update.Gender == "" {
		e.update.Gender = "other"
	}
	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&e.update.Name),
			huh.NewInput().Title("Email").Value(&e.update.Email),
			huh.NewSelect[string]().
				Title("Gender").
				Options(genderOptions...).
				Value(&e.update.Gender),
			huh.NewInput().
				Title("Date of birth").
				Description("YYYY-MM-DD").
				CharLimit(10).
				Value(&e.update.DOB).
				Validate(validateDate),
		).Title("Edit User"),
	).WithTheme(createTheme())
	return e
}

// Init implements tea.Model
func (e *EditUser) Init() tea.Cmd {
	return e.form.Init()
}

// Update implements tea.Model
func (e *EditUser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return e, cancel
	}
	form, cmd, done := updateForm(e.form, msg)
	e.form = form
	if done {
		edited := UserEditedMsg{ID: e.id, Update: e.update}
		return e, func() tea.Msg { return edited }
	}
	return e, cmd
}

// View implements tea.Model
func (e *EditUser) View() string {
	return e.form.View()
}
