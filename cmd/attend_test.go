// ABOUTME: Tests for the attend, register and camera commands
// ABOUTME: Uses a still image in place of the camera and counts service calls

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/markalston/facepunch/internal/client"
	"github.com/markalston/facepunch/internal/device"
	"github.com/markalston/facepunch/internal/submit"
)

// submission is what the fake service saw of one multipart request
type submission struct {
	path     string
	auth     string
	filename string
	fields   map[string]string
}

// captureServer records multipart submissions and replies with status/body
func captureServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, chan submission) {
	t.Helper()
	var calls atomic.Int32
	received := make(chan submission, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		sub := submission{path: r.URL.Path, auth: r.Header.Get("Authorization"), fields: map[string]string{}}
		if files := r.MultipartForm.File["image"]; len(files) == 1 {
			sub.filename = files[0].Filename
		}
		for name, values := range r.MultipartForm.Value {
			sub.fields[name] = values[0]
		}
		received <- sub
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls, received
}

func TestAttend_Success(t *testing.T) {
	server, calls, requests := captureServer(t, http.StatusOK, `{"message":"Attendance marked for Ann"}`)
	e := newTestEnv(t, server.URL)

	var buf bytes.Buffer
	code := runAttend(context.Background(), e, writeJPEG(t), &buf)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Attendance marked for Ann") {
		t.Errorf("expected service message, got %q", buf.String())
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly one submission, got %d", calls.Load())
	}

	sub := <-requests
	if sub.path != client.PathMarkAttendance {
		t.Errorf("expected %s, got %s", client.PathMarkAttendance, sub.path)
	}
	if sub.auth != "" {
		t.Error("expected attendance to be sent without a token")
	}
	if sub.filename != "face.jpg" {
		t.Errorf("expected face.jpg image part, got %q", sub.filename)
	}
}

func TestAttend_Rejected(t *testing.T) {
	server, _, _ := captureServer(t, http.StatusBadRequest, `{"error":"Face not recognized"}`)
	e := newTestEnv(t, server.URL)

	var buf bytes.Buffer
	code := runAttend(context.Background(), e, writeJPEG(t), &buf)

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Face not recognized") {
		t.Errorf("expected service error, got %q", buf.String())
	}
}

func TestAttend_ServiceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()
	e := newTestEnv(t, url)

	var buf bytes.Buffer
	if code := runAttend(context.Background(), e, writeJPEG(t), &buf); code != 2 {
		t.Errorf("expected exit code 2 without a reply, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), submit.FallbackAttendance) {
		t.Errorf("expected fallback message, got %q", buf.String())
	}
}

func TestAttend_NoCamera(t *testing.T) {
	server, calls, _ := captureServer(t, http.StatusOK, `{}`)
	e := newTestEnv(t, server.URL)

	var buf bytes.Buffer
	code := runAttend(context.Background(), e, "", &buf)

	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(buf.String(), "No camera detected") {
		t.Errorf("expected no camera message, got %q", buf.String())
	}
	if calls.Load() != 0 {
		t.Errorf("expected no submission, got %d", calls.Load())
	}
}

func TestAttend_MissingImage(t *testing.T) {
	server, calls, _ := captureServer(t, http.StatusOK, `{}`)
	e := newTestEnv(t, server.URL)

	var buf bytes.Buffer
	if code := runAttend(context.Background(), e, "/nonexistent/face.jpg", &buf); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no submission, got %d", calls.Load())
	}
}

func TestRegister_RequiresSession(t *testing.T) {
	server, calls, _ := captureServer(t, http.StatusOK, `{}`)
	e := newTestEnv(t, server.URL)

	var buf bytes.Buffer
	code := runRegister(context.Background(), e, submit.Profile{Name: "Ann", Gender: "female"}, writeJPEG(t), &buf)

	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(buf.String(), "not signed in") {
		t.Errorf("expected authorization error, got %q", buf.String())
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network call while anonymous, got %d", calls.Load())
	}
}

func TestRegister_SendsProfile(t *testing.T) {
	server, _, requests := captureServer(t, http.StatusCreated, ``)
	e := newTestEnv(t, server.URL)
	signIn(t, e)

	profile := submit.Profile{Name: " Ann Lee ", Email: "ann@example.com", Gender: "Female", DOB: "1990-04-01"}
	var buf bytes.Buffer
	code := runRegister(context.Background(), e, profile, writeJPEG(t), &buf)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), submit.DefaultRegisterOK) {
		t.Errorf("expected default success message, got %q", buf.String())
	}

	sub := <-requests
	if sub.path != client.PathRegister {
		t.Errorf("expected %s, got %s", client.PathRegister, sub.path)
	}
	if sub.auth != "Bearer tok" {
		t.Errorf("expected bearer token, got %q", sub.auth)
	}
	want := map[string]string{"name": "Ann Lee", "email": "ann@example.com", "gender": "female", "dob": "1990-04-01"}
	for field, value := range want {
		if got := sub.fields[field]; got != value {
			t.Errorf("field %s: expected %q, got %q", field, value, got)
		}
	}
}

func TestNormalizeProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile submit.Profile
		wantErr bool
	}{
		{"valid", submit.Profile{Name: "Ann", Gender: "male", DOB: "2000-01-31"}, false},
		{"empty dob", submit.Profile{Name: "Ann", Gender: "other"}, false},
		{"unknown gender", submit.Profile{Name: "Ann", Gender: "robot"}, true},
		{"bad dob", submit.Profile{Name: "Ann", Gender: "male", DOB: "31/01/2000"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeProfile(tt.profile)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCamera_NoDevices(t *testing.T) {
	e := newTestEnv(t, "http://localhost:8000")

	var buf bytes.Buffer
	if code := runCamera(context.Background(), e, &buf); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "Camera not detected") {
		t.Errorf("expected missing camera, got %q", buf.String())
	}
}

func TestCameraWatch_StopsOnCancel(t *testing.T) {
	e := newTestEnv(t, "http://localhost:8000")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	done := make(chan int, 1)
	go func() { done <- runCameraWatch(ctx, device.NewWatcher(e.enumerator, e.logger), &buf) }()

	if code := <-done; code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}
