// ABOUTME: Tests for the submission pipeline against mocked service endpoints
// ABOUTME: Covers message precedence, payload layout, auth and overlap rejection

package submit

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/markalston/facepunch/internal/capture"
	"github.com/markalston/facepunch/internal/client"
	"github.com/markalston/facepunch/internal/logger"
)

var jpegStub = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func testFrame() *capture.Frame {
	return &capture.Frame{Data: jpegStub, Filename: capture.Filename, ContentType: capture.ContentType}
}

func newPipeline(t *testing.T, handler http.HandlerFunc) *Pipeline {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(client.New(server.URL), logger.Discard())
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestSubmitAttendance_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected Outcome
	}{
		{"success message", 200, `{"message":"Attendance marked"}`, Success("Attendance marked")},
		{"created", 201, `{"message":"Welcome back, Ada"}`, Success("Welcome back, Ada")},
		{"success without message", 200, `{}`, Success(DefaultAttendanceOK)},
		{"error field", 400, `{"error":"Face not recognized"}`, Failure("Face not recognized")},
		{"message wins over error", 400, `{"message":"Already marked today","error":"duplicate"}`, Failure("Already marked today")},
		{"empty message falls to error", 400, `{"message":"","error":"No face found"}`, Failure("No face found")},
		{"raw body", 502, "Bad Gateway", Failure("Bad Gateway")},
		{"json without known fields", 400, `{"detail":"nope"}`, Failure(`{"detail":"nope"}`)},
		{"empty body", 500, "", Failure(FallbackAttendance)},
		{"whitespace body", 500, "  \n", Failure(FallbackAttendance)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(t, respond(tt.status, tt.body))
			got := p.SubmitAttendance(context.Background(), testFrame())
			if got != tt.expected {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
			if got.Message == "" {
				t.Error("outcome message must never be empty")
			}
		})
	}
}

func TestSubmitAttendance_Payload(t *testing.T) {
	p := newPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/features/mark-attendance/" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("attendance must be anonymous, got %q", auth)
		}
		parts := readParts(t, r)
		if len(parts) != 1 || parts[0].name != "image" {
			t.Fatalf("expected single image part, got %+v", parts)
		}
		if parts[0].filename != "face.jpg" || parts[0].contentType != "image/jpeg" {
			t.Errorf("unexpected image part %+v", parts[0])
		}
		if parts[0].value != string(jpegStub) {
			t.Error("image bytes not sent verbatim")
		}
		w.Write([]byte(`{"message":"ok"}`))
	})

	if got := p.SubmitAttendance(context.Background(), testFrame()); !got.Success {
		t.Errorf("expected success, got %+v", got)
	}
}

func TestSubmitRegistration_PayloadOrderAndAuth(t *testing.T) {
	p := newPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/features/register/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", auth)
		}

		parts := readParts(t, r)
		order := []string{"image", "name", "email", "gender", "dob"}
		if len(parts) != len(order) {
			t.Fatalf("expected %d parts, got %d", len(order), len(parts))
		}
		for i, name := range order {
			if parts[i].name != name {
				t.Errorf("part %d = %q, want %q", i, parts[i].name, name)
			}
		}
		want := map[string]string{"name": "Ada", "email": "ada@example.com", "gender": "female", "dob": ""}
		for _, part := range parts[1:] {
			if part.value != want[part.name] {
				t.Errorf("field %s = %q, want %q", part.name, part.value, want[part.name])
			}
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"User registered successfully"}`))
	})

	profile := Profile{Name: "Ada", Email: "ada@example.com", Gender: "female"}
	got := p.SubmitRegistration(context.Background(), testFrame(), profile, "tok")
	if got != Success("User registered successfully") {
		t.Errorf("unexpected outcome %+v", got)
	}
}

func TestSubmitRegistration_Failures(t *testing.T) {
	p := newPipeline(t, respond(http.StatusUnauthorized, ""))
	got := p.SubmitRegistration(context.Background(), testFrame(), Profile{}, "stale")
	if got != Failure(FallbackRegistration) {
		t.Errorf("expected registration fallback, got %+v", got)
	}
	if got.Local {
		t.Error("expected a service rejection, not a local failure")
	}
}

func TestSubmit_NetworkFailureUsesFallback(t *testing.T) {
	p := New(client.New("http://localhost:99999"), logger.Discard())
	if got := p.SubmitAttendance(context.Background(), testFrame()); got != LocalFailure(FallbackAttendance) {
		t.Errorf("expected attendance fallback, got %+v", got)
	}
	if got := p.SubmitRegistration(context.Background(), testFrame(), Profile{}, "t"); got != LocalFailure(FallbackRegistration) {
		t.Errorf("expected registration fallback, got %+v", got)
	}
}

func TestSubmit_ExactlyOneCall(t *testing.T) {
	var calls atomic.Int32
	p := newPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	p.SubmitAttendance(context.Background(), testFrame())
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one request with no retry, got %d", n)
	}
}

func TestSubmit_RejectsOverlap(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	unblock := make(chan struct{})
	p := newPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		close(entered)
		<-unblock
		w.Write([]byte(`{"message":"Attendance marked"}`))
	})

	first := make(chan Outcome, 1)
	go func() { first <- p.SubmitAttendance(context.Background(), testFrame()) }()
	<-entered

	if !p.InFlight(OpAttendance) {
		t.Error("expected attendance to be in flight")
	}
	if got := p.SubmitAttendance(context.Background(), testFrame()); got != LocalFailure(MsgInFlight) {
		t.Errorf("expected overlap rejection, got %+v", got)
	}
	if p.InFlight(OpRegistration) {
		t.Error("registration must be tracked separately")
	}

	close(unblock)
	if got := <-first; got != Success("Attendance marked") {
		t.Errorf("unexpected first outcome %+v", got)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected the rejected call to make no request, got %d requests", n)
	}
	if p.InFlight(OpAttendance) {
		t.Error("expected in-flight flag cleared")
	}
}

func TestSubmit_CanceledBeforeSend(t *testing.T) {
	var calls atomic.Int32
	p := newPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := p.SubmitAttendance(ctx, testFrame()); got != LocalFailure(MsgCanceled) {
		t.Errorf("expected canceled outcome, got %+v", got)
	}
	if calls.Load() != 0 {
		t.Error("expected no request after cancellation")
	}
}

func TestSubmit_CanceledDuringRequest(t *testing.T) {
	p := newPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if got := p.SubmitAttendance(ctx, testFrame()); got != LocalFailure(MsgCanceled) {
		t.Errorf("expected canceled outcome, got %+v", got)
	}
}

type fakeSource struct {
	frame *capture.Frame
	err   error
	calls int
}

func (f *fakeSource) Capture(ctx context.Context) (*capture.Frame, error) {
	f.calls++
	return f.frame, f.err
}

func TestCaptureAndSubmit_CaptureFailure(t *testing.T) {
	var calls atomic.Int32
	p := newPipeline(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })

	got := p.CaptureAndSubmitAttendance(context.Background(), &fakeSource{err: errors.New("device busy")})
	if got.Success || !got.Local || !strings.HasPrefix(got.Message, "Could not capture a frame") {
		t.Errorf("unexpected outcome %+v", got)
	}
	if calls.Load() != 0 {
		t.Error("expected no request when capture fails")
	}
}

func TestCaptureAndSubmit_CapturesThenSubmits(t *testing.T) {
	p := newPipeline(t, respond(http.StatusOK, `{"message":"Registered"}`))
	source := &fakeSource{frame: testFrame()}

	got := p.CaptureAndSubmitRegistration(context.Background(), source, Profile{Name: "Ada"}, "tok")
	if got != Success("Registered") {
		t.Errorf("unexpected outcome %+v", got)
	}
	if source.calls != 1 {
		t.Errorf("expected one capture, got %d", source.calls)
	}
}

func TestSubmit_NilFrame(t *testing.T) {
	p := newPipeline(t, respond(http.StatusOK, `{"message":"x"}`))
	if got := p.SubmitAttendance(context.Background(), nil); got != LocalFailure(FallbackAttendance) {
		t.Errorf("expected fallback for missing frame, got %+v", got)
	}
}

type part struct {
	name        string
	filename    string
	contentType string
	value       string
}

func readParts(t *testing.T, r *http.Request) []part {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("expected multipart body, got %q", r.Header.Get("Content-Type"))
	}

	var parts []part
	reader := multipart.NewReader(r.Body, params["boundary"])
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("reading part: %v", err)
		}
		data, _ := io.ReadAll(p)
		parts = append(parts, part{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			value:       string(data),
		})
	}
	return parts
}
