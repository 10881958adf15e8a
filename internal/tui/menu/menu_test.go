// ABOUTME: Tests for the home menu
// ABOUTME: Validates item lists per sign-in state and emitted navigation messages

package menu

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/facepunch/internal/route"
)

func pressEnterOn(t *testing.T, m *Menu, label string) tea.Msg {
	t.Helper()
	for i, it := range m.items {
		if it.label == label {
			m.cursor = i
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			if cmd == nil {
				t.Fatalf("expected command for %q", label)
			}
			return cmd()
		}
	}
	t.Fatalf("no item %q", label)
	return nil
}

func TestMenuSessionItem(t *testing.T) {
	if got := New(false).items[4].label; got != "Sign In" {
		t.Errorf("expected Sign In while anonymous, got %q", got)
	}
	if got := New(true).items[4].label; got != "Sign Out" {
		t.Errorf("expected Sign Out while authorized, got %q", got)
	}
}

func TestMenuRegisterWhileAnonymousGoesToSignIn(t *testing.T) {
	msg := pressEnterOn(t, New(false), "Candidate Registration")
	sel, ok := msg.(SelectedMsg)
	if !ok || sel.Route != route.SignIn {
		t.Errorf("expected SelectedMsg{signin}, got %#v", msg)
	}
}

func TestMenuRegisterWhileAuthorized(t *testing.T) {
	msg := pressEnterOn(t, New(true), "Candidate Registration")
	if sel, ok := msg.(SelectedMsg); !ok || sel.Route != route.Register {
		t.Errorf("expected SelectedMsg{register}, got %#v", msg)
	}
}

func TestMenuNavigatesPlainly(t *testing.T) {
	tests := []struct {
		label string
		want  route.Route
	}{
		{"Mark Attendance", route.Attendance},
		{"Registered Users", route.Users},
		{"Attendance Records", route.AttendanceRecords},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			msg := pressEnterOn(t, New(false), tt.label)
			if sel, ok := msg.(SelectedMsg); !ok || sel.Route != tt.want {
				t.Errorf("expected SelectedMsg{%s}, got %#v", tt.want, msg)
			}
		})
	}
}

func TestMenuSignOutAndQuit(t *testing.T) {
	if _, ok := pressEnterOn(t, New(true), "Sign Out").(SignOutMsg); !ok {
		t.Error("expected SignOutMsg")
	}
	if _, ok := pressEnterOn(t, New(false), "Quit").(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}

func TestMenuCursorBounds(t *testing.T) {
	m := New(false)
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", m.cursor)
	}
	for range 20 {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("expected cursor at last item, got %d", m.cursor)
	}
}

func TestMenuViewShowsDescriptions(t *testing.T) {
	view := New(false).View()
	for _, want := range []string{
		"Register new candidates with facial recognition",
		"Quickly mark attendance using face detection",
		"View and manage all registered candidates",
		"Track and analyze attendance history",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
