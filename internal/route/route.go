// ABOUTME: Navigation gate deciding which screen a request may land on
// ABOUTME: Protected routes redirect home while no access token is stored

package route

import (
	"errors"
	"strings"
)

// Route names a navigable screen
type Route string

const (
	Home              Route = "home"
	SignIn            Route = "signin"
	Register          Route = "register"
	Attendance        Route = "attendance"
	Users             Route = "users"
	AttendanceRecords Route = "attendance-records"
)

// ErrNotAuthorized is returned when a protected operation is attempted
// without a stored credential
var ErrNotAuthorized = errors.New("not signed in")

// All lists every known route in menu order
var All = []Route{Home, SignIn, Register, Attendance, Users, AttendanceRecords}

// TokenSource reports the current access token, "" when signed out.
// *session.Store satisfies it.
type TokenSource interface {
	Current() string
}

// Known reports whether r is a defined route
func (r Route) Known() bool {
	for _, known := range All {
		if r == known {
			return true
		}
	}
	return false
}

// Protected reports whether r requires a stored credential.
// Marking attendance is intentionally public.
func (r Route) Protected() bool {
	switch r {
	case Register, Users, AttendanceRecords:
		return true
	}
	return false
}

// Title returns the human-readable screen name
func (r Route) Title() string {
	switch r {
	case Home:
		return "Home"
	case SignIn:
		return "Sign In"
	case Register:
		return "Register"
	case Attendance:
		return "Mark Attendance"
	case Users:
		return "Registered Users"
	case AttendanceRecords:
		return "Attendance Records"
	}
	return string(r)
}

// IsAuthorized is true iff an access token is present. The token itself is
// never inspected.
func IsAuthorized(tokens TokenSource) bool {
	return tokens != nil && tokens.Current() != ""
}

// Resolve returns the route navigation should actually land on. Unknown
// routes and protected routes without a credential resolve to Home.
func Resolve(r Route, tokens TokenSource) Route {
	if !r.Known() {
		return Home
	}
	if r.Protected() && !IsAuthorized(tokens) {
		return Home
	}
	return r
}

// Parse maps user input ("users", "/attendance-records/") to a Route.
// Unrecognised input yields Home.
func Parse(s string) Route {
	r := Route(strings.ToLower(strings.Trim(strings.TrimSpace(s), "/")))
	if r == "" || !r.Known() {
		return Home
	}
	return r
}
