// ABOUTME: Typed calls for sign-in and the admin user/attendance endpoints
// ABOUTME: JSON request/response helpers are generic over the payload type

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/markalston/facepunch/internal/session"
)

// Messages shown to the operator for admin operations
const (
	MsgFetchUsersFailed   = "Failed to fetch users"
	MsgFetchRecordsFailed = "Failed to fetch attendance records"
	MsgUpdateUserFailed   = "Failed to update user"
	MsgDeleteUserFailed   = "Failed to delete user"
	MsgUserUpdated        = "User updated successfully"
	MsgUserDeleted        = "User deleted successfully"
)

// User is a registered person
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	DOB    string `json:"dob"`
}

// UserUpdate is the editable subset of a User
type UserUpdate struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	DOB    string `json:"dob"`
}

// AttendanceRecord is a person's most recent check-in
type AttendanceRecord struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	LastAttendanceDate string `json:"last_attendance_date"`
	LastAttendanceTime string `json:"last_attendance_time"`
}

// HealthResponse reports whether the service answered at all
type HealthResponse struct {
	BaseURL    string        `json:"base_url"`
	Reachable  bool          `json:"reachable"`
	StatusCode int           `json:"status_code"`
	Latency    time.Duration `json:"latency_ns"`
}

// StatusError is a non-2xx reply from the service
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("service returned status %d: %s", e.StatusCode, e.Body)
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignIn exchanges username and password for a credential pair
func (c *Client) SignIn(ctx context.Context, username, password string) (session.Credential, error) {
	cred, err := doJSON[session.Credential](ctx, c, http.MethodPost, PathSignIn, "", signInRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return session.Credential{}, ErrInvalidCredentials
		}
		return session.Credential{}, err
	}
	if cred == nil || cred.Access == "" {
		return session.Credential{}, ErrInvalidCredentials
	}
	return *cred, nil
}

// ListUsers calls GET /api/features/users/
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	users, err := doJSON[[]User](ctx, c, http.MethodGet, PathUsers, token, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MsgFetchUsersFailed, err)
	}
	if users == nil {
		return []User{}, nil
	}
	return *users, nil
}

// UpdateUser calls PUT /api/features/users/{id}/
func (c *Client) UpdateUser(ctx context.Context, token string, id int, update UserUpdate) error {
	if _, err := doJSON[json.RawMessage](ctx, c, http.MethodPut, userPath(id), token, update); err != nil {
		return fmt.Errorf("%s: %w", MsgUpdateUserFailed, err)
	}
	return nil
}

// DeleteUser calls DELETE /api/features/users/{id}/
func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	if _, err := doJSON[json.RawMessage](ctx, c, http.MethodDelete, userPath(id), token, nil); err != nil {
		return fmt.Errorf("%s: %w", MsgDeleteUserFailed, err)
	}
	return nil
}

// ListAttendanceRecords calls GET /api/features/attendance-records/
func (c *Client) ListAttendanceRecords(ctx context.Context, token string) ([]AttendanceRecord, error) {
	records, err := doJSON[[]AttendanceRecord](ctx, c, http.MethodGet, PathAttendanceRecords, token, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MsgFetchRecordsFailed, err)
	}
	if records == nil {
		return []AttendanceRecord{}, nil
	}
	return *records, nil
}

// Health checks that the base URL answers HTTP. Any status counts as
// reachable; only transport failures do not.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/", "", nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.send(ctx, req)
	if err != nil {
		return &HealthResponse{BaseURL: c.baseURL}, err
	}
	return &HealthResponse{
		BaseURL:    c.baseURL,
		Reachable:  true,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}, nil
}

func userPath(id int) string {
	return fmt.Sprintf("%s%d/", PathUsers, id)
}

// doJSON sends requestBody (when non-nil) as JSON and decodes a 2xx reply
// into T. Empty 2xx bodies decode to nil.
func doJSON[T any](ctx context.Context, c *Client, method, path, token string, requestBody any) (*T, error) {
	var body *bytes.Reader
	if requestBody != nil {
		data, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = c.newRequest(ctx, method, path, token, body)
	} else {
		req, err = c.newRequest(ctx, method, path, token, nil)
	}
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(resp.Body))}
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	var result T
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("invalid response from service: %w", err)
	}
	return &result, nil
}
