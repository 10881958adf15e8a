// ABOUTME: Registration profile form as a two-step bubbletea model
// ABOUTME: Collects name/email then gender/date of birth before capture

package wizard

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/facepunch/internal/submit"
)

// DateLayout is the accepted date-of-birth format
const DateLayout = "2006-01-02"

// ProfileCompleteMsg carries the collected registration profile
type ProfileCompleteMsg struct {
	Profile submit.Profile
}

var genderOptions = []huh.Option[string]{
	huh.NewOption("Male", "male"),
	huh.NewOption("Female", "female"),
	huh.NewOption("Other", "other"),
}

// Register walks the operator through the profile steps
type Register struct {
	form  *huh.Form
	step  int
	width int

	name   string
	email  string
	gender string
	dob    string
}

// NewRegister starts an empty registration
func NewRegister() *Register {
	r := &Register{step: 1, gender: "male"}
	r.form = r.identityForm()
	return r
}

func (r *Register) identityForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Placeholder("Jane Doe").
				CharLimit(128).
				Value(&r.name),
			huh.NewInput().
				Title("Email").
				Placeholder("jane@example.com").
				CharLimit(254).
				Value(&r.email),
		).Title("Step 1: Identity").
			Description("Who is being registered?"),
	).WithTheme(createTheme())
}

func (r *Register) detailsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Gender").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(genderOptions...).
				Value(&r.gender),
			huh.NewInput().
				Title("Date of birth").
				Description("YYYY-MM-DD").
				Placeholder("1990-01-31").
				CharLimit(10).
				Value(&r.dob).
				Validate(validateDate),
		).Title("Step 2: Details"),
	).WithTheme(createTheme())
}

// Init implements tea.Model
func (r *Register) Init() tea.Cmd {
	return r.form.Init()
}

// Update implements tea.Model
func (r *Register) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return r, cancel
		}
	}

	form, cmd, done := updateForm(r.form, msg)
	r.form = form
	if done {
		return r.advanceStep()
	}
	return r, cmd
}

func (r *Register) advanceStep() (tea.Model, tea.Cmd) {
	switch r.step {
	case 1:
		r.step = 2
		r.form = r.detailsForm()
		return r, r.form.Init()
	case 2:
		r.step = 3
		profile := r.Profile()
		return r, func() tea.Msg { return ProfileCompleteMsg{Profile: profile} }
	}
	return r, nil
}

// Step returns the current 1-based step
func (r *Register) Step() int {
	return r.step
}

// Profile returns the values collected so far
func (r *Register) Profile() submit.Profile {
	return submit.Profile{
		Name:   r.name,
		Email:  r.email,
		Gender: r.gender,
		DOB:    strings.TrimSpace(r.dob),
	}
}

// View implements tea.Model
func (r *Register) View() string {
	var sb strings.Builder
	sb.WriteString(RenderProgress(RegistrationSteps, r.step, r.width))
	sb.WriteString("\n\n")
	sb.WriteString(r.form.View())
	return sb.String()
}

// validateDate accepts an empty value; the server decides if it is required
func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}
