// ABOUTME: Tests for the health command
// ABOUTME: Verifies health check output formatting and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/markalston/facepunch/internal/client"
)

func TestFormatHealthHuman(t *testing.T) {
	resp := &client.HealthResponse{
		BaseURL:    "http://localhost:8000",
		Reachable:  true,
		StatusCode: 404,
		Latency:    12 * time.Millisecond,
	}

	var buf bytes.Buffer
	output := formatHealthHuman(&buf, resp)

	if !strings.Contains(output, "http://localhost:8000") {
		t.Error("expected output to contain service URL")
	}
	if !strings.Contains(output, "reachable") {
		t.Error("expected output to contain reachable status")
	}
	if !strings.Contains(output, "404") {
		t.Error("expected output to contain the HTTP status")
	}
}

func TestFormatHealthJSON(t *testing.T) {
	resp := &client.HealthResponse{BaseURL: "http://localhost:8000", Reachable: true, StatusCode: 200}

	var buf bytes.Buffer
	writeJSON(&buf, formatHealthJSON(resp))

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["service"] != "http://localhost:8000" {
		t.Errorf("expected service URL in JSON, got %v", parsed["service"])
	}
	if parsed["reachable"] != true {
		t.Errorf("expected reachable true, got %v", parsed["reachable"])
	}
}

func TestHealthCommand_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e := newTestEnv(t, server.URL)

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), e, &buf)

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "reachable") {
		t.Errorf("expected reachable in output, got %q", buf.String())
	}
}

func TestHealthCommand_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	e := newTestEnv(t, url)

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), e, &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2 for connection error, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Error:") {
		t.Errorf("expected error in output, got %q", buf.String())
	}
}

func TestHealthCommand_ConnectionErrorJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	e := newTestEnv(t, url)
	useJSON(t)

	var buf bytes.Buffer
	if exitCode := runHealth(context.Background(), e, &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if parsed["reachable"] != false {
		t.Errorf("expected reachable false, got %v", parsed["reachable"])
	}
}
