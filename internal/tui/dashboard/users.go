// ABOUTME: Registered users table with edit and delete actions
// ABOUTME: Emits requests; the root model performs the calls and refetches

package dashboard

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/facepunch/internal/client"
	"github.com/markalston/facepunch/internal/tui/icons"
)

// EditRequestedMsg opens the edit form for User
type EditRequestedMsg struct {
	User client.User
}

// DeleteRequestedMsg opens the delete confirmation for User
type DeleteRequestedMsg struct {
	User client.User
}

// Users lists registered people
type Users struct {
	listView
	users []client.User
}

// NewUsers starts in the loading state
func NewUsers() *Users {
	return &Users{
		listView: newListView(icons.Users.String()+" Registered Users", []table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 24},
			{Title: "Email", Width: 30},
			{Title: "Gender", Width: 8},
			{Title: "Date of Birth", Width: 13},
		}),
	}
}

// SetUsers replaces the rows
func (u *Users) SetUsers(users []client.User) {
	u.users = users
	rows := make([]table.Row, 0, len(users))
	for _, usr := range users {
		rows = append(rows, table.Row{strconv.Itoa(usr.ID), usr.Name, usr.Email, usr.Gender, usr.DOB})
	}
	u.setRows(rows)
}

// SetError shows msg instead of the table
func (u *Users) SetError(msg string) {
	u.setError(msg)
}

// SetSize updates the available area
func (u *Users) SetSize(width, height int) {
	u.setSize(width, height)
}

// Loading reports whether a fetch is outstanding
func (u *Users) Loading() bool {
	return u.loading
}

// Selected returns the highlighted user
func (u *Users) Selected() (client.User, bool) {
	i := u.table.Cursor()
	if i < 0 || i >= len(u.users) {
		return client.User{}, false
	}
	return u.users[i], true
}

// Update handles list keys
func (u *Users) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if cmd, handled := u.handleCommon(key); handled {
		return cmd
	}

	switch key.String() {
	case "e":
		if usr, ok := u.Selected(); ok {
			return func() tea.Msg { return EditRequestedMsg{User: usr} }
		}
		return nil
	case "d":
		if usr, ok := u.Selected(); ok {
			return func() tea.Msg { return DeleteRequestedMsg{User: usr} }
		}
		return nil
	}

	var cmd tea.Cmd
	u.table, cmd = u.table.Update(msg)
	return cmd
}

// View renders the list
func (u *Users) View() string {
	return u.render(fmt.Sprintf("%d registered", len(u.users)))
}
