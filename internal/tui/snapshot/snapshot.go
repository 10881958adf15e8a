// ABOUTME: Camera screen shared by attendance marking and registration capture
// ABOUTME: Probes for a camera on entry and runs one submission at a time

package snapshot

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/facepunch/internal/submit"
	"github.com/markalston/facepunch/internal/tui/filepicker"
	"github.com/markalston/facepunch/internal/tui/icons"
	"github.com/markalston/facepunch/internal/tui/samples"
	"github.com/markalston/facepunch/internal/tui/styles"
	"github.com/markalston/facepunch/internal/tui/widgets"
	"github.com/markalston/facepunch/internal/tui/wizard"
)

// ProbeTimeout bounds a single camera probe
const ProbeTimeout = 5 * time.Second

// Mode selects what a capture is submitted as
type Mode int

const (
	ModeAttendance Mode = iota
	ModeRegistration
)

// ProbedMsg reports the result of the entry probe
type ProbedMsg struct {
	Screen    uint64
	Available bool
}

// SubmittedMsg carries the outcome of one capture-and-submit. Screen is the
// ID of the snapshot that started it.
type SubmittedMsg struct {
	Screen  uint64
	Mode    Mode
	Outcome submit.Outcome
}

var screens atomic.Uint64

// CancelledMsg is sent when the user leaves the screen
type CancelledMsg struct{}

// Config wires the screen to the probe and the submission pipeline
type Config struct {
	Mode Mode

	// Probe reports whether a video input is present
	Probe func(ctx context.Context) bool
	// Camera captures from the live device
	Camera submit.FrameSource
	// FromFile builds a source for a still image; nil disables the fallback
	FromFile func(path string) submit.FrameSource
	// Submit performs the capture and the request
	Submit func(ctx context.Context, source submit.FrameSource) submit.Outcome

	Samples []samples.SampleFile
	// Recent lists previously used images; Remember records a new one
	Recent   []string
	Remember func(path string)
}

// Snapshot is the capture screen
type Snapshot struct {
	id  uint64
	cfg Config

	probing   bool
	available bool
	busy      bool
	imagePath string

	spinner spinner.Model
	picker  *filepicker.Picker
	cancel  context.CancelFunc
	width   int
}

// New returns a screen that probes on Init
func New(cfg Config) *Snapshot {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusOK

	return &Snapshot{
		id:      screens.Add(1),
		cfg:     cfg,
		probing: true,
		spinner: sp,
	}
}

// Init implements tea.Model
func (s *Snapshot) Init() tea.Cmd {
	probe := s.cfg.Probe
	id := s.id
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		if probe == nil {
			return ProbedMsg{Screen: id}
		}
		ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
		defer cancel()
		return ProbedMsg{Screen: id, Available: probe(ctx)}
	})
}

// Update implements tea.Model
func (s *Snapshot) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width

	case ProbedMsg:
		if msg.Screen != s.id {
			return s, nil
		}
		s.probing = false
		s.available = msg.Available
		return s, nil

	case SubmittedMsg:
		if msg.Screen != s.id {
			return s, nil
		}
		s.busy = false
		s.cancel = nil
		return s, nil

	case spinner.TickMsg:
		if !s.probing && !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case filepicker.FileSelectedMsg:
		s.imagePath = msg.Path
		s.picker = nil
		if s.cfg.Remember != nil {
			s.cfg.Remember(msg.Path)
		}
		return s, nil

	case filepicker.CancelledMsg:
		s.picker = nil
		return s, nil

	case tea.KeyMsg:
		if s.picker != nil {
			_, cmd := s.picker.Update(msg)
			return s, cmd
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Snapshot) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		s.Stop()
		return s, func() tea.Msg { return CancelledMsg{} }
	case "f":
		if s.cfg.FromFile != nil && !s.busy {
			s.picker = filepicker.New(s.cfg.Recent, s.cfg.Samples)
		}
	case "c":
		s.imagePath = ""
	case "enter", " ":
		return s, s.capture()
	}
	return s, nil
}

// CanCapture reports whether a capture would start now
func (s *Snapshot) CanCapture() bool {
	if s.busy || s.probing || s.cfg.Submit == nil {
		return false
	}
	return s.source() != nil
}

func (s *Snapshot) source() submit.FrameSource {
	if s.imagePath != "" && s.cfg.FromFile != nil {
		return s.cfg.FromFile(s.imagePath)
	}
	if s.available {
		return s.cfg.Camera
	}
	return nil
}

func (s *Snapshot) capture() tea.Cmd {
	if !s.CanCapture() {
		return nil
	}
	source := s.source()
	id := s.id
	mode := s.cfg.Mode
	submitFn := s.cfg.Submit

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.busy = true

	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		defer cancel()
		return SubmittedMsg{Screen: id, Mode: mode, Outcome: submitFn(ctx, source)}
	})
}

// SetAvailable applies a hot-plug change
func (s *Snapshot) SetAvailable(available bool) {
	s.probing = false
	s.available = available
}

// Stop cancels an in-flight submission, if any
func (s *Snapshot) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// ID identifies this screen instance; results carry it back
func (s *Snapshot) ID() uint64 {
	return s.id
}

// Busy reports whether a submission is in flight
func (s *Snapshot) Busy() bool {
	return s.busy
}

// Picking reports whether the image picker is open
func (s *Snapshot) Picking() bool {
	return s.picker != nil
}

// View implements tea.Model
func (s *Snapshot) View() string {
	if s.picker != nil {
		return s.picker.View()
	}

	var b strings.Builder

	if s.cfg.Mode == ModeRegistration {
		b.WriteString(wizard.RenderProgress(wizard.RegistrationSteps, len(wizard.RegistrationSteps), s.width))
		b.WriteString("\n\n")
		b.WriteString(styles.Title.Render(icons.Register.String() + " Capture face"))
	} else {
		b.WriteString(styles.Title.Render(icons.Camera.String() + " Mark Attendance"))
	}
	b.WriteString("\n")
	b.WriteString(widgets.CameraBadge(s.probing, s.available))
	b.WriteString("\n\n")

	switch {
	case s.probing:
		b.WriteString(s.spinner.View() + " Checking camera...")
	case s.busy:
		b.WriteString(s.spinner.View() + " Submitting...")
	case s.imagePath != "":
		b.WriteString(icons.ImageFile.String() + " Using image " + styles.ValueStyle.Render(s.imagePath))
		b.WriteString("\n\n" + s.actionLine(true))
	case s.available:
		b.WriteString(s.actionLine(true))
	default:
		b.WriteString(styles.StatusCritical.Render("Camera not detected"))
		b.WriteString("\n\n" + s.actionLine(false))
	}

	return b.String()
}

func (s *Snapshot) actionLine(enabled bool) string {
	verb := "Mark attendance"
	if s.cfg.Mode == ModeRegistration {
		verb = "Register"
	}
	capture := styles.KeyStyle.Render("Enter") + " " + verb
	if !enabled {
		capture = styles.Disabled.Render("Enter " + verb)
	}
	parts := []string{capture}
	if s.cfg.FromFile != nil {
		parts = append(parts, styles.KeyStyle.Render("f")+" Use image file")
	}
	if s.imagePath != "" {
		parts = append(parts, styles.KeyStyle.Render("c")+" Use camera")
	}
	return strings.Join(parts, "   ")
}
