// ABOUTME: Sign-in form collecting username and password
// ABOUTME: Emits the entered credentials; the root model performs the call

package wizard

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/facepunch/internal/tui/styles"
)

// SignInSubmittedMsg carries the entered credentials
type SignInSubmittedMsg struct {
	Username string
	Password string
}

// SignIn is the sign-in screen
type SignIn struct {
	form     *huh.Form
	username string
	password string
	err      string
	busy     bool
}

// NewSignIn returns an empty sign-in form
func NewSignIn() *SignIn {
	s := &SignIn{}
	s.form = s.newForm()
	return s
}

func (s *SignIn) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				CharLimit(128).
				Value(&s.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				CharLimit(128).
				Value(&s.password).
				Validate(required("password")),
		).Title("Sign In").
			Description("Use your administrator account"),
	).WithTheme(createTheme())
}

// Init implements tea.Model
func (s *SignIn) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SignIn) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return s, cancel
	}
	if s.busy {
		return s, nil
	}

	form, cmd, done := updateForm(s.form, msg)
	s.form = form
	if done {
		s.busy = true
		s.err = ""
		submitted := SignInSubmittedMsg{Username: s.username, Password: s.password}
		return s, func() tea.Msg { return submitted }
	}
	return s, cmd
}

// Fail shows err and re-opens the form with the username kept
func (s *SignIn) Fail(err string) tea.Cmd {
	s.busy = false
	s.err = err
	s.password = ""
	s.form = s.newForm()
	return s.form.Init()
}

// Busy reports whether a sign-in request is outstanding
func (s *SignIn) Busy() bool {
	return s.busy
}

// View implements tea.Model
func (s *SignIn) View() string {
	if s.busy {
		return styles.Subtitle.Render("Signing in...")
	}
	view := s.form.View()
	if s.err != "" {
		view += "\n" + styles.StatusCritical.Render(s.err)
	}
	return view
}

func required(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}
