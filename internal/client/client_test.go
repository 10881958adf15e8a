// ABOUTME: Tests for the attendance service API client
// ABOUTME: Uses httptest to mock service responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSignIn_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/signin/" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("sign in must not carry a credential")
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "admin" || body["password"] != "hunter2" {
			t.Errorf("unexpected body %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"access": "a", "refresh": "b"})
	}))
	defer server.Close()

	cred, err := New(server.URL).SignIn(context.Background(), "admin", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.Access != "a" || cred.Refresh != "b" {
		t.Errorf("unexpected credential %+v", cred)
	}
}

func TestSignIn_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "No active account"})
	}))
	defer server.Close()

	_, err := New(server.URL).SignIn(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err.Error() != "Invalid credentials" {
		t.Errorf("expected generic message, got %q", err.Error())
	}
}

func TestSignIn_ConnectionError(t *testing.T) {
	_, err := New("http://localhost:99999").SignIn(context.Background(), "a", "b")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected connection error, got %v", err)
	}
}

func TestRequestHeaders(t *testing.T) {
	seen := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected uuid request id, got %q", id)
		}
		if seen[id] {
			t.Errorf("request id %s reused", id)
		}
		seen[id] = true
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "facepunch/") {
			t.Errorf("unexpected user agent %q", ua)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", auth)
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	c := New(server.URL)
	c.ListUsers(context.Background(), "tok")
	c.ListUsers(context.Background(), "tok")
	if len(seen) != 2 {
		t.Errorf("expected 2 distinct request ids, got %d", len(seen))
	}
}

func TestListUsers_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/features/users/" {
			t.Errorf("expected users path, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":7,"name":"Ada","email":"ada@example.com","gender":"female","dob":"1815-12-10"}]`))
	}))
	defer server.Close()

	users, err := New(server.URL + "/").ListUsers(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := User{ID: 7, Name: "Ada", Email: "ada@example.com", Gender: "female", DOB: "1815-12-10"}
	if len(users) != 1 || users[0] != want {
		t.Errorf("unexpected users %+v", users)
	}
}

func TestListUsers_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Given token not valid"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).ListUsers(context.Background(), "stale")
	if err == nil || !strings.HasPrefix(err.Error(), "Failed to fetch users") {
		t.Fatalf("expected fetch failure message, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected wrapped 401 status error, got %v", err)
	}
}

func TestListAttendanceRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/features/attendance-records/" {
			t.Errorf("expected records path, got %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":1,"name":"Ada","email":"ada@example.com","last_attendance_date":"2024-05-01","last_attendance_time":"09:02:11"}]`))
	}))
	defer server.Close()

	records, err := New(server.URL).ListAttendanceRecords(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].LastAttendanceTime != "09:02:11" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestListAttendanceRecords_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(server.URL).ListAttendanceRecords(context.Background(), "tok")
	if err == nil || !strings.HasPrefix(err.Error(), "Failed to fetch attendance records") {
		t.Errorf("expected records failure message, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/features/users/7/" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var update UserUpdate
		json.NewDecoder(r.Body).Decode(&update)
		if update.Name != "Ada L." || update.DOB != "1815-12-10" {
			t.Errorf("unexpected update %+v", update)
		}
		w.Write([]byte(`{"id":7}`))
	}))
	defer server.Close()

	err := New(server.URL).UpdateUser(context.Background(), "tok", 7, UserUpdate{
		Name: "Ada L.", Email: "ada@example.com", Gender: "female", DOB: "1815-12-10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateUser_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	err := New(server.URL).UpdateUser(context.Background(), "tok", 7, UserUpdate{})
	if err == nil || !strings.HasPrefix(err.Error(), "Failed to update user") {
		t.Errorf("expected update failure message, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/features/users/3/" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := New(server.URL).DeleteUser(context.Background(), "tok", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteUser_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := New(server.URL).DeleteUser(context.Background(), "tok", 3)
	if err == nil || !strings.HasPrefix(err.Error(), "Failed to delete user") {
		t.Errorf("expected delete failure message, got %v", err)
	}
}

func TestPostMultipart_ReturnsNon2xxBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "multipart/form-data; boundary=x" {
			t.Errorf("unexpected content type %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "payload" {
			t.Errorf("unexpected body %q", body)
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Face not recognized"}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).PostMultipart(context.Background(), PathMarkAttendance, "",
		"multipart/form-data; boundary=x", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OK() || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "Face not recognized") {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	health, err := New(server.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !health.Reachable || health.StatusCode != http.StatusNotFound {
		t.Errorf("expected reachable 404, got %+v", health)
	}
}

func TestHealth_ConnectionError(t *testing.T) {
	health, err := New("http://localhost:99999").Health(context.Background())
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	if health == nil || health.Reachable {
		t.Errorf("expected unreachable result, got %+v", health)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL).ListUsers(ctx, "tok")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled error, got %v", err)
	}
	if !strings.Contains(err.Error(), "request canceled") {
		t.Errorf("expected friendly message, got %q", err.Error())
	}
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(server.URL).ListUsers(ctx, "tok")
	if err == nil || !strings.Contains(err.Error(), "request timed out") {
		t.Errorf("expected timeout message, got %v", err)
	}
}
