// ABOUTME: Glyphs for menus and badges, Nerd Font or plain Unicode
// ABOUTME: The glyph set is chosen once from config or the terminal identity

package icons

import (
	"os"
	"strings"
	"sync"
)

// Mode selects the glyph set
type Mode string

const (
	Auto  Mode = "auto"
	Nerd  Mode = "nerd"
	Plain Mode = "plain"
)

// terminals known to ship or commonly pair with a patched font
var nerdTerminals = []string{"iterm", "alacritty", "wezterm", "kitty", "ghostty"}

var (
	mu       sync.Mutex
	resolved *bool
	mode     = Auto
)

// SetMode overrides terminal detection; Auto restores it
func SetMode(m Mode) {
	mu.Lock()
	defer mu.Unlock()
	mode = m
	resolved = nil
}

// HasNerdFonts reports whether Nerd Font glyphs are in use
func HasNerdFonts() bool {
	mu.Lock()
	defer mu.Unlock()
	if resolved == nil {
		v := decide(mode, os.Getenv)
		resolved = &v
	}
	return *resolved
}

func decide(m Mode, getenv func(string) string) bool {
	switch m {
	case Nerd:
		return true
	case Plain:
		return false
	}
	if v := getenv("FACEPUNCH_NERD_FONTS"); v != "" {
		return v == "1" || strings.EqualFold(v, "true")
	}
	ident := strings.ToLower(getenv("TERM_PROGRAM") + " " + getenv("TERM"))
	for _, t := range nerdTerminals {
		if strings.Contains(ident, t) {
			return true
		}
	}
	return false
}

// Icon pairs a Nerd Font glyph with its Unicode stand-in
type Icon struct {
	NerdFont string
	Fallback string
}

func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Screens
var (
	Home      = Icon{"󰋜", "⌂"}
	Register  = Icon{"󰀄", "+"}
	Camera    = Icon{"󰄀", "◉"}
	Users     = Icon{"󰡉", "☰"}
	Records   = Icon{"󰄬", "↗"}
	SignIn    = Icon{"󰍂", "→"}
	SignOut   = Icon{"󰍃", "←"}
	Locked    = Icon{"󰌾", "⚿"}
	NoCamera  = Icon{"󰗟", "⊘"}
	ImageFile = Icon{"󰈟", "▣"}
	App       = Icon{"󰙃", "☺"}
)

// Outcomes and actions
var (
	CheckOK  = Icon{"\uf058", "✓"}
	Warning  = Icon{"\uf071", "⚠"}
	Critical = Icon{"\uf057", "✗"}
	Info     = Icon{"\uf05a", "ℹ"}
	Refresh  = Icon{"󰑓", "↻"}
	Edit     = Icon{"󰏫", "✎"}
	Delete   = Icon{"󰆴", "⌫"}
	Back     = Icon{"󰁍", "←"}
	Quit     = Icon{"󰗼", "×"}
)
