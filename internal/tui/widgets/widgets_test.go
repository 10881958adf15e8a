// ABOUTME: Tests for badges and the transient notice
// ABOUTME: Verifies notice expiry only clears the notice it was scheduled for

package widgets

import (
	"strings"
	"testing"
)

func TestNotice_ExpiresOnlyMatchingSeq(t *testing.T) {
	var n Notice

	cmd := n.Show("Attendance marked", true)
	if cmd == nil {
		t.Fatal("expected expiry command")
	}
	first := n.seq

	n.Show("Face not recognized", false)
	n.Expire(NoticeExpiredMsg{Seq: first})
	if n.Text() != "Face not recognized" {
		t.Errorf("stale expiry must not clear a newer notice, got %q", n.Text())
	}

	n.Expire(NoticeExpiredMsg{Seq: n.seq})
	if n.Text() != "" {
		t.Errorf("expected notice cleared, got %q", n.Text())
	}
	if n.View() != "" {
		t.Error("expected empty view after expiry")
	}
}

func TestNotice_View(t *testing.T) {
	var n Notice
	n.Show("User deleted successfully", true)
	if !strings.Contains(n.View(), "User deleted successfully") {
		t.Errorf("expected message in view, got %q", n.View())
	}
	if !n.Success() {
		t.Error("expected success notice")
	}

	n.Clear()
	if n.Text() != "" {
		t.Error("expected cleared notice")
	}
}

func TestCameraBadge(t *testing.T) {
	tests := []struct {
		probing, available bool
		want               string
	}{
		{true, false, "Checking camera"},
		{false, true, "Camera ready"},
		{false, false, "Camera not detected"},
	}
	for _, tt := range tests {
		if got := CameraBadge(tt.probing, tt.available); !strings.Contains(got, tt.want) {
			t.Errorf("CameraBadge(%v, %v) = %q, want it to contain %q", tt.probing, tt.available, got, tt.want)
		}
	}
}
