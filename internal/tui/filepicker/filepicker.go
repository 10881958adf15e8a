// ABOUTME: Image picker used in place of the camera when none is present
// ABOUTME: Lists recent and sample images in one menu and accepts a typed path

package filepicker

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	_ "golang.org/x/image/bmp"

	"github.com/markalston/facepunch/internal/tui/samples"
	"github.com/markalston/facepunch/internal/tui/styles"
)

// FileSelectedMsg carries the absolute path of a readable image
type FileSelectedMsg struct {
	Path string
}

// CancelledMsg is sent when the picker is dismissed without a choice
type CancelledMsg struct{}

type origin int

const (
	fromRecent origin = iota
	fromSample
	typePath
)

type entry struct {
	origin origin
	label  string
	path   string
}

// Picker chooses one still image
type Picker struct {
	entries []entry
	focus   int
	typing  bool
	input   textinput.Model
	problem string
	width   int
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	problemStyle = lipgloss.NewStyle().Foreground(styles.Danger)
	hintStyle    = lipgloss.NewStyle().Foreground(styles.Muted)
)

// New builds the menu: recent images first, then samples, then a typed path
func New(recent []string, sampleFiles []samples.SampleFile) *Picker {
	entries := make([]entry, 0, len(recent)+len(sampleFiles)+1)
	for _, p := range recent {
		entries = append(entries, entry{origin: fromRecent, label: p, path: p})
	}
	for _, s := range sampleFiles {
		entries = append(entries, entry{origin: fromSample, label: "sample: " + s.Name, path: s.Path})
	}
	entries = append(entries, entry{origin: typePath, label: "Type a path..."})

	in := textinput.New()
	in.Placeholder = "~/Pictures/face.jpg"
	in.CharLimit = 512
	in.Width = 60

	return &Picker{entries: entries, input: in}
}

// Init implements tea.Model
func (p *Picker) Init() tea.Cmd { return nil }

// Update implements tea.Model
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case tea.KeyMsg:
		p.problem = ""
		if p.typing {
			return p, p.onTyping(msg)
		}
		return p, p.onMenu(msg)
	}
	return p, nil
}

func (p *Picker) onMenu(msg tea.KeyMsg) tea.Cmd {
	last := len(p.entries) - 1
	switch msg.String() {
	case "up", "k":
		p.focus = max(p.focus-1, 0)
	case "down", "j":
		p.focus = min(p.focus+1, last)
	case "home", "g":
		p.focus = 0
	case "end", "G":
		p.focus = last
	case "enter":
		e := p.entries[p.focus]
		if e.origin == typePath {
			p.typing = true
			p.input.Focus()
			return textinput.Blink
		}
		return p.pick(e.path)
	case "esc", "b":
		return func() tea.Msg { return CancelledMsg{} }
	}
	return nil
}

func (p *Picker) onTyping(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		p.typing = false
		p.input.Blur()
		p.input.Reset()
		return nil
	case tea.KeyEnter:
		typed := strings.TrimSpace(p.input.Value())
		if typed == "" {
			p.problem = "Type the path of an image first"
			return nil
		}
		return p.pick(typed)
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// pick validates the file and emits FileSelectedMsg when it decodes as an image
func (p *Picker) pick(raw string) tea.Cmd {
	path, err := checkImage(raw)
	if err != nil {
		p.problem = err.Error()
		return nil
	}
	return func() tea.Msg { return FileSelectedMsg{Path: path} }
}

// checkImage resolves ~ and relative paths and reads the image header
func checkImage(raw string) (string, error) {
	path := resolve(raw)
	if !samples.IsImage(path) {
		return "", fmt.Errorf("%s is not a jpg, png or bmp image", raw)
	}
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("no such file: %s", raw)
	case errors.Is(err, fs.ErrPermission):
		return "", fmt.Errorf("cannot read %s: permission denied", raw)
	case err != nil:
		return "", fmt.Errorf("cannot read %s: %v", raw, err)
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		return "", fmt.Errorf("%s could not be decoded: %v", raw, err)
	}
	return path, nil
}

func resolve(raw string) string {
	if raw == "~" || strings.HasPrefix(raw, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			raw = filepath.Join(home, strings.TrimPrefix(raw, "~"))
		}
	}
	if abs, err := filepath.Abs(raw); err == nil {
		return abs
	}
	return raw
}

// SetError shows msg under the menu until the next key press
func (p *Picker) SetError(msg string) {
	p.problem = msg
}

// View implements tea.Model
func (p *Picker) View() string {
	var b strings.Builder
	if p.typing {
		b.WriteString(headingStyle.Render("Image path") + "\n\n")
		b.WriteString(p.input.View() + "\n")
		b.WriteString(hintStyle.Render("enter: use  esc: back") + "\n")
	} else {
		b.WriteString(headingStyle.Render("Send a still image") + "\n")
		b.WriteString(hintStyle.Render("No camera is available.") + "\n\n")
		for i, e := range p.entries {
			b.WriteString(p.renderEntry(i, e) + "\n")
		}
	}
	if p.problem != "" {
		b.WriteString("\n" + problemStyle.Render(p.problem))
	}
	return b.String()
}

func (p *Picker) renderEntry(i int, e entry) string {
	label := e.label
	if e.origin == fromRecent {
		label = shorten(label, p.width-6)
	}
	if i == p.focus {
		return styles.Selected.Render("› " + label)
	}
	return styles.Normal.Render("  " + label)
}

// shorten keeps the tail of long paths, where the file name is
func shorten(s string, limit int) string {
	if limit < 12 || len(s) <= limit {
		return s
	}
	return "…" + s[len(s)-limit+1:]
}
