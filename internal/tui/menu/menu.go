// ABOUTME: Home menu listing every screen the operator can open
// ABOUTME: Shows lock markers on protected items while signed out

package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/facepunch/internal/route"
	"github.com/markalston/facepunch/internal/tui/icons"
	"github.com/markalston/facepunch/internal/tui/styles"
)

// SelectedMsg asks the root model to navigate
type SelectedMsg struct {
	Route route.Route
}

// SignOutMsg asks the root model to clear the session
type SignOutMsg struct{}

// CancelledMsg is sent when the user quits from the menu
type CancelledMsg struct{}

type action int

const (
	actionNavigate action = iota
	actionSignOut
	actionQuit
)

type item struct {
	label       string
	description string
	icon        icons.Icon
	route       route.Route
	action      action
}

// Menu is the home screen
type Menu struct {
	items      []item
	cursor     int
	authorized bool
	width      int
}

// New builds the menu for the current sign-in state
func New(authorized bool) *Menu {
	m := &Menu{}
	m.SetAuthorized(authorized)
	return m
}

// SetAuthorized rebuilds the items; the cursor is kept in range
func (m *Menu) SetAuthorized(authorized bool) {
	m.authorized = authorized

	session := item{label: "Sign In", description: "Administrator access", icon: icons.SignIn, route: route.SignIn}
	if authorized {
		session = item{label: "Sign Out", description: "Forget the stored credential", icon: icons.SignOut, action: actionSignOut}
	}

	m.items = []item{
		{label: "Candidate Registration", description: "Register new candidates with facial recognition", icon: icons.Register, route: route.Register},
		{label: "Mark Attendance", description: "Quickly mark attendance using face detection", icon: icons.Camera, route: route.Attendance},
		{label: "Registered Users", description: "View and manage all registered candidates", icon: icons.Users, route: route.Users},
		{label: "Attendance Records", description: "Track and analyze attendance history", icon: icons.Records, route: route.AttendanceRecords},
		session,
		{label: "Quit", icon: icons.Quit, action: actionQuit},
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			return m, m.choose(m.items[m.cursor])
		case "q", "esc":
			return m, func() tea.Msg { return CancelledMsg{} }
		}
	}
	return m, nil
}

func (m *Menu) choose(it item) tea.Cmd {
	switch it.action {
	case actionSignOut:
		return func() tea.Msg { return SignOutMsg{} }
	case actionQuit:
		return func() tea.Msg { return CancelledMsg{} }
	}

	target := it.route
	// Registration while signed out goes to sign-in instead of bouncing home
	if target == route.Register && !m.authorized {
		target = route.SignIn
	}
	return func() tea.Msg { return SelectedMsg{Route: target} }
}

// View implements tea.Model
func (m *Menu) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.Home.String() + " Face Attendance"))
	b.WriteString("\n")

	descStyle := lipgloss.NewStyle().Foreground(styles.Muted).PaddingLeft(4)
	for i, it := range m.items {
		cursor := "  "
		style := styles.Normal
		if i == m.cursor {
			cursor = "> "
			style = styles.Selected
		}

		label := it.icon.String() + " " + it.label
		if it.action == actionNavigate && it.route.Protected() && !m.authorized {
			label += " " + styles.Disabled.Render(icons.Locked.String())
		}
		b.WriteString(cursor + style.Render(label) + "\n")
		if it.description != "" {
			b.WriteString(descStyle.Render(it.description) + "\n")
		}
	}

	return b.String()
}
