// ABOUTME: Multipart submission of captured frames for attendance and registration
// ABOUTME: One network call per submission, overlapping calls of one kind are rejected

package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/schema"

	"github.com/markalston/facepunch/internal/capture"
	"github.com/markalston/facepunch/internal/client"
	"github.com/markalston/facepunch/internal/logger"
)

// Operation identifies a submission kind for in-flight tracking
type Operation string

const (
	OpAttendance   Operation = "attendance"
	OpRegistration Operation = "registration"
)

// Messages shown to the operator
const (
	FallbackAttendance   = "Attendance marking failed"
	FallbackRegistration = "Registration failed"
	DefaultAttendanceOK  = "Attendance marked"
	DefaultRegisterOK    = "Registration successful"
	MsgInFlight          = "A submission is already in progress"
	MsgCanceled          = "Submission canceled"
	msgCaptureFailed     = "Could not capture a frame"
)

// Delay before leaving a screen after success, so the notification shows.
// Never applied to the network call itself.
const (
	RegistrationSuccessDelay = time.Second
	SignInSuccessDelay       = 100 * time.Millisecond
)

// ErrInFlight reports an overlapping submission of the same kind
var ErrInFlight = errors.New(MsgInFlight)

// Profile is the registration form. Fields are sent in declaration order.
type Profile struct {
	Name   string `schema:"name"`
	Email  string `schema:"email"`
	Gender string `schema:"gender"`
	DOB    string `schema:"dob"`
}

var profileFieldOrder = []string{"name", "email", "gender", "dob"}

// Poster sends a multipart body; *client.Client satisfies it
type Poster interface {
	PostMultipart(ctx context.Context, path, token, contentType string, body io.Reader) (*client.Response, error)
}

// FrameSource captures one frame; *capture.Capturer satisfies it
type FrameSource interface {
	Capture(ctx context.Context) (*capture.Frame, error)
}

// Pipeline submits frames to the service
type Pipeline struct {
	poster  Poster
	logger  *slog.Logger
	encoder *schema.Encoder

	mu       sync.Mutex
	inFlight map[Operation]bool
}

// New creates a pipeline posting through poster
func New(poster Poster, log *slog.Logger) *Pipeline {
	return &Pipeline{
		poster:   poster,
		logger:   logger.Component(log, "submit"),
		encoder:  schema.NewEncoder(),
		inFlight: make(map[Operation]bool),
	}
}

// InFlight reports whether op is currently running
func (p *Pipeline) InFlight(op Operation) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight[op]
}

func (p *Pipeline) acquire(op Operation) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight[op] {
		return false
	}
	p.inFlight[op] = true
	return true
}

func (p *Pipeline) release(op Operation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, op)
}

// SubmitAttendance posts frame anonymously to the mark-attendance endpoint
func (p *Pipeline) SubmitAttendance(ctx context.Context, frame *capture.Frame) Outcome {
	if !p.acquire(OpAttendance) {
		return LocalFailure(MsgInFlight)
	}
	defer p.release(OpAttendance)
	return p.attendance(ctx, frame)
}

// SubmitRegistration posts frame and profile with the bearer token
func (p *Pipeline) SubmitRegistration(ctx context.Context, frame *capture.Frame, profile Profile, token string) Outcome {
	if !p.acquire(OpRegistration) {
		return LocalFailure(MsgInFlight)
	}
	defer p.release(OpRegistration)
	return p.registration(ctx, frame, profile, token)
}

// CaptureAndSubmitAttendance captures then submits; the in-flight guard
// covers both steps.
func (p *Pipeline) CaptureAndSubmitAttendance(ctx context.Context, source FrameSource) Outcome {
	if !p.acquire(OpAttendance) {
		return LocalFailure(MsgInFlight)
	}
	defer p.release(OpAttendance)

	frame, outcome, ok := p.capture(ctx, source)
	if !ok {
		return outcome
	}
	return p.attendance(ctx, frame)
}

// CaptureAndSubmitRegistration captures then submits a registration
func (p *Pipeline) CaptureAndSubmitRegistration(ctx context.Context, source FrameSource, profile Profile, token string) Outcome {
	if !p.acquire(OpRegistration) {
		return LocalFailure(MsgInFlight)
	}
	defer p.release(OpRegistration)

	frame, outcome, ok := p.capture(ctx, source)
	if !ok {
		return outcome
	}
	return p.registration(ctx, frame, profile, token)
}

func (p *Pipeline) capture(ctx context.Context, source FrameSource) (*capture.Frame, Outcome, bool) {
	frame, err := source.Capture(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, LocalFailure(MsgCanceled), false
		}
		p.logger.Warn("capture failed", "error", err)
		return nil, LocalFailure(fmt.Sprintf("%s: %v", msgCaptureFailed, err)), false
	}
	return frame, Outcome{}, true
}

func (p *Pipeline) attendance(ctx context.Context, frame *capture.Frame) Outcome {
	body, contentType, err := p.buildPayload(frame, nil)
	if err != nil {
		p.logger.Error("building attendance payload failed", "error", err)
		return LocalFailure(FallbackAttendance)
	}
	return p.post(ctx, OpAttendance, client.PathMarkAttendance, "", contentType, body, FallbackAttendance, DefaultAttendanceOK)
}

func (p *Pipeline) registration(ctx context.Context, frame *capture.Frame, profile Profile, token string) Outcome {
	values := url.Values{}
	if err := p.encoder.Encode(profile, values); err != nil {
		p.logger.Error("encoding profile failed", "error", err)
		return LocalFailure(FallbackRegistration)
	}
	body, contentType, err := p.buildPayload(frame, values)
	if err != nil {
		p.logger.Error("building registration payload failed", "error", err)
		return LocalFailure(FallbackRegistration)
	}
	return p.post(ctx, OpRegistration, client.PathRegister, token, contentType, body, FallbackRegistration, DefaultRegisterOK)
}

// buildPayload writes the image part first, then profile fields in order.
// Empty fields are still sent.
func (p *Pipeline) buildPayload(frame *capture.Frame, fields url.Values) (*bytes.Buffer, string, error) {
	if frame == nil || len(frame.Data) == 0 {
		return nil, "", errors.New("no frame to submit")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := frame.Filename
	if filename == "" {
		filename = capture.Filename
	}
	contentType := frame.ContentType
	if contentType == "" {
		contentType = capture.ContentType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(frame.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write image data: %w", err)
	}

	if fields != nil {
		for _, name := range profileFieldOrder {
			if err := writer.WriteField(name, fields.Get(name)); err != nil {
				return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func (p *Pipeline) post(ctx context.Context, op Operation, path, token, contentType string, body io.Reader, fallback, defaultOK string) Outcome {
	if ctx.Err() != nil {
		return LocalFailure(MsgCanceled)
	}

	resp, err := p.poster.PostMultipart(ctx, path, token, contentType, body)
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Info("submission canceled", "operation", op)
			return LocalFailure(MsgCanceled)
		}
		p.logger.Warn("submission failed", "operation", op, "error", err)
		return LocalFailure(fallback)
	}

	if resp.OK() {
		msg := resolveSuccess(resp.Body, defaultOK)
		p.logger.Info("submission accepted", "operation", op, "status", resp.StatusCode)
		return Success(msg)
	}

	msg := resolveMessage(resp.Body, fallback)
	p.logger.Warn("submission rejected", "operation", op, "status", resp.StatusCode, "message", msg)
	return Failure(msg)
}
