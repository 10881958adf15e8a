// ABOUTME: Single still capture from a camera as an in-memory JPEG
// ABOUTME: A grabber yields a data URI which is then decoded into bytes

package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/markalston/facepunch/internal/logger"
)

// Fixed upload metadata for every captured frame
const (
	Filename    = "face.jpg"
	ContentType = "image/jpeg"
)

// ErrNotJPEG is returned when the grabbed still is not a JPEG
var ErrNotJPEG = errors.New("captured frame is not a JPEG image")

// Frame is one captured still. It lives only in memory until submitted.
type Frame struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Grabber takes a screenshot of the live source as a data URI
type Grabber interface {
	Screenshot(ctx context.Context) (string, error)
}

// Capturer turns a grabber screenshot into a Frame
type Capturer struct {
	grabber Grabber
	logger  *slog.Logger
}

// NewCapturer wraps grabber
func NewCapturer(grabber Grabber, log *slog.Logger) *Capturer {
	return &Capturer{
		grabber: grabber,
		logger:  logger.Component(log, "capture"),
	}
}

// Capture produces exactly one JPEG frame. Each call allocates a new buffer.
func (c *Capturer) Capture(ctx context.Context) (*Frame, error) {
	uri, err := c.grabber.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}

	data, mediaType, err := DecodeDataURI(ctx, uri)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("captured frame is empty")
	}
	if detected := http.DetectContentType(data); detected != ContentType {
		return nil, fmt.Errorf("%w: got %s (declared %s)", ErrNotJPEG, detected, mediaType)
	}

	c.logger.Debug("frame captured", "bytes", len(data))
	return &Frame{
		Data:        data,
		Filename:    Filename,
		ContentType: ContentType,
	}, nil
}
