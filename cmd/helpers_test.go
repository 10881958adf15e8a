// ABOUTME: Shared fixtures for command tests
// ABOUTME: Isolates config, session and sysfs under temp dirs per test

package cmd

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/markalston/facepunch/internal/logger"
	"github.com/markalston/facepunch/internal/session"
)

// newTestEnv builds an env pointed at serverURL with no camera present
func newTestEnv(t *testing.T, serverURL string) *env {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FACEPUNCH_CONFIG_DIR", t.TempDir())
	t.Setenv("FACEPUNCH_SYSFS_ROOT", t.TempDir())
	t.Setenv("FACEPUNCH_API_URL", "")

	apiURL = serverURL
	t.Cleanup(func() { apiURL = "" })

	e, err := newEnv(logger.Discard())
	if err != nil {
		t.Fatalf("newEnv: %v", err)
	}
	return e
}

func signIn(t *testing.T, e *env) {
	t.Helper()
	if err := e.session.Save(session.Credential{Access: "tok", Refresh: "ref"}); err != nil {
		t.Fatalf("save credential: %v", err)
	}
}

func useJSON(t *testing.T) {
	t.Helper()
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })
}

// writeJPEG creates a small test still and returns its path
func writeJPEG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := range 64 {
		for y := range 48 {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "face.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	return path
}
