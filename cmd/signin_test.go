// ABOUTME: Tests for the signin, signout and whoami commands
// ABOUTME: Verifies the credential round trip through the session file

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/markalston/facepunch/internal/client"
)

func signInServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != client.PathSignIn || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "admin" || body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"No active account"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access":"access-token","refresh":"refresh-token"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSignIn_StoresCredential(t *testing.T) {
	e := newTestEnv(t, signInServer(t).URL)

	var buf bytes.Buffer
	if code := runSignIn(context.Background(), e, "admin", "secret", &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Login successful!") {
		t.Errorf("expected login message, got %q", buf.String())
	}

	cred, ok := e.session.Credential()
	if !ok || cred.Access != "access-token" || cred.Refresh != "refresh-token" {
		t.Errorf("expected stored token pair, got %+v (ok=%v)", cred, ok)
	}
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	e := newTestEnv(t, signInServer(t).URL)

	var buf bytes.Buffer
	if code := runSignIn(context.Background(), e, "admin", "wrong", &buf); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Invalid credentials") {
		t.Errorf("expected invalid credentials message, got %q", buf.String())
	}
	if e.session.Current() != "" {
		t.Error("expected no token after failed sign-in")
	}
}

func TestSignOut_ClearsCredential(t *testing.T) {
	e := newTestEnv(t, "http://localhost:8000")
	signIn(t, e)

	var buf bytes.Buffer
	if code := runSignOut(e, &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if e.session.Current() != "" {
		t.Error("expected token cleared")
	}
	if !strings.Contains(buf.String(), "Signed out") {
		t.Errorf("expected signed out message, got %q", buf.String())
	}
}

func TestWhoami(t *testing.T) {
	e := newTestEnv(t, "http://localhost:8000")

	var buf bytes.Buffer
	runWhoami(e, &buf)
	if !strings.Contains(buf.String(), "Anonymous") {
		t.Errorf("expected anonymous session, got %q", buf.String())
	}

	signIn(t, e)
	buf.Reset()
	runWhoami(e, &buf)
	if !strings.Contains(buf.String(), "Signed in") {
		t.Errorf("expected signed in session, got %q", buf.String())
	}
}

func TestWhoami_JSON(t *testing.T) {
	e := newTestEnv(t, "http://localhost:8000")
	signIn(t, e)
	useJSON(t)

	var buf bytes.Buffer
	runWhoami(e, &buf)

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["authorized"] != true {
		t.Errorf("expected authorized true, got %v", parsed["authorized"])
	}
}
