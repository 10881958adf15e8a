// ABOUTME: Camera presence detection by enumerating video input devices
// ABOUTME: Probe never returns an error; any failure means no camera

package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/markalston/facepunch/internal/logger"
)

// Kind classifies an enumerated device node
type Kind string

const (
	KindVideoInput Kind = "videoinput"
	KindVideoMeta  Kind = "videometa"
	KindOther      Kind = "other"
)

// ErrUnsupported is returned by enumerators on platforms without V4L2
var ErrUnsupported = errors.New("device enumeration not supported on this platform")

// Device is one enumerated media node. Label may be empty when the node
// could not be opened.
type Device struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Enumerator lists the media devices currently present
type Enumerator interface {
	Enumerate(ctx context.Context) ([]Device, error)
}

// Probe reports whether at least one video input exists. Enumeration
// failures, cancellation and a nil enumerator all yield false.
func Probe(ctx context.Context, enumerator Enumerator, log *slog.Logger) (available bool) {
	log = logger.Component(log, "probe")

	if enumerator == nil {
		log.Warn("no device enumerator configured")
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warn("device enumeration panicked", "panic", fmt.Sprint(r))
			available = false
		}
	}()

	devices, err := enumerator.Enumerate(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Warn("device enumeration failed", "error", err)
		return false
	}

	inputs := VideoInputs(devices)
	log.Debug("devices enumerated", "total", len(devices), "video_inputs", len(inputs))
	return len(inputs) > 0
}

// VideoInputs filters devices down to video inputs
func VideoInputs(devices []Device) []Device {
	var out []Device
	for _, d := range devices {
		if d.Kind == KindVideoInput {
			out = append(out, d)
		}
	}
	return out
}
