// ABOUTME: Finds bundled face images to punch in with when there is no camera
// ABOUTME: Searched in FACEPUNCH_SAMPLES_PATH, then a samples dir beside the binary

package samples

import (
	"cmp"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SampleFile is one image found in the samples directory
type SampleFile struct {
	Name string
	Path string
}

// IsImage reports whether path ends in an extension the frame normalizer decodes
func IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".bmp":
		return true
	}
	return false
}

// Discover lists the images directly inside dir, ordered by name.
// A blank or missing dir yields an empty list.
func Discover(dir string) ([]SampleFile, error) {
	found := []SampleFile{}
	if dir == "" {
		return found, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return found, nil
	}
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Type().IsRegular() && IsImage(e.Name()) {
			found = append(found, SampleFile{Name: e.Name(), Path: filepath.Join(dir, e.Name())})
		}
	}
	slices.SortFunc(found, func(a, b SampleFile) int { return cmp.Compare(a.Name, b.Name) })
	return found, nil
}

// FindSamplesDir returns the first existing candidate directory, or ""
func FindSamplesDir(basePath string) string {
	for _, dir := range []string{os.Getenv("FACEPUNCH_SAMPLES_PATH"), filepath.Join(basePath, "samples")} {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
