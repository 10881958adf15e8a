// ABOUTME: Camera grabber that pulls one MJPEG frame from a V4L2 device via ffmpeg
// ABOUTME: Also holds the file-backed grabber used with --image

package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// FFmpegGrabber captures a single frame from a V4L2 device
type FFmpegGrabber struct {
	binary     string
	device     string
	normalizer Normalizer
}

// NewFFmpegGrabber grabs from device using the ffmpeg binary
func NewFFmpegGrabber(binary, device string, normalizer Normalizer) *FFmpegGrabber {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegGrabber{binary: binary, device: device, normalizer: normalizer}
}

// Screenshot implements Grabber
func (g *FFmpegGrabber) Screenshot(ctx context.Context) (string, error) {
	if g.device == "" {
		return "", errors.New("camera device required")
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2",
		"-i", g.device,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	}
	cmd := commandContext(ctx, g.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return "", fmt.Errorf("ffmpeg: %w", err)
	}
	if stdout.Len() == 0 {
		return "", errors.New("ffmpeg produced no frame")
	}

	data, err := g.normalizer.Normalize(stdout.Bytes())
	if err != nil {
		return "", err
	}
	return EncodeDataURI(ContentType, data), nil
}

// FileGrabber serves a still image from disk in place of a camera
type FileGrabber struct {
	path       string
	normalizer Normalizer
}

// NewFileGrabber reads path on each screenshot
func NewFileGrabber(path string, normalizer Normalizer) *FileGrabber {
	return &FileGrabber{path: path, normalizer: normalizer}
}

// Screenshot implements Grabber
func (g *FileGrabber) Screenshot(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(g.path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	data, err := g.normalizer.Normalize(raw)
	if err != nil {
		return "", err
	}
	return EncodeDataURI(ContentType, data), nil
}
