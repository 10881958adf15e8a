// ABOUTME: Remembers still images recently punched in with instead of a camera
// ABOUTME: Kept as JSON in the config directory, written under an advisory flock

package recentfiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/markalston/facepunch/internal/tui/samples"
)

// MaxRecentFiles caps the remembered images
const MaxRecentFiles = 5

// FileName is the history file inside the config directory
const FileName = "recent_images.json"

type used struct {
	Path   string    `json:"path"`
	UsedAt time.Time `json:"used_at"`
}

// History is an ordered, most-recent-first list of image paths
type History struct {
	file string
	lock *flock.Flock

	mu      sync.Mutex
	loaded  bool
	entries []used
	now     func() time.Time
}

// New returns a history stored in configDir; "" keeps it in memory
func New(configDir string) *History {
	h := &History{now: time.Now}
	if configDir != "" {
		h.file = filepath.Join(configDir, FileName)
		h.lock = flock.New(h.file + ".lock")
	}
	return h
}

// Load rereads the file. Paths that vanished or are not images are dropped,
// and an unreadable history is treated as empty.
func (h *History) Load() ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.reload(); err != nil {
		return nil, err
	}
	return h.paths(), nil
}

// List returns the paths, loading them on first use
func (h *History) List() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.loaded {
		_ = h.reload()
	}
	return h.paths()
}

// Add records path as just used and persists the history
func (h *History) Add(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.persist(func(entries []used) []used {
		entries = slices.DeleteFunc(entries, func(u used) bool { return u.Path == path })
		return slices.Insert(entries, 0, used{Path: path, UsedAt: h.now()})
	})
}

// Save replaces the history with paths in the given order
func (h *History) Save(paths []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	at := h.now()
	return h.persist(func([]used) []used {
		entries := make([]used, 0, len(paths))
		for _, p := range paths {
			entries = append(entries, used{Path: p, UsedAt: at})
		}
		return entries
	})
}

func (h *History) paths() []string {
	out := make([]string, len(h.entries))
	for i, u := range h.entries {
		out[i] = u.Path
	}
	return out
}

func (h *History) reload() error {
	h.loaded = true
	if h.file == "" {
		return nil
	}
	entries, err := readEntries(h.file)
	if err != nil {
		return err
	}
	h.entries = slices.DeleteFunc(entries, func(u used) bool {
		if !samples.IsImage(u.Path) {
			return true
		}
		_, err := os.Stat(u.Path)
		return err != nil
	})
	return nil
}

// persist applies change to the on-disk list while holding the file lock,
// so two terminals adding images do not drop each other's entries
func (h *History) persist(change func([]used) []used) error {
	if h.file == "" {
		h.loaded = true
		h.entries = trim(change(h.entries))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.file), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := h.lock.Lock(); err != nil {
		return fmt.Errorf("lock recent images: %w", err)
	}
	defer h.lock.Unlock()

	current, err := readEntries(h.file)
	if err != nil {
		return err
	}
	next := trim(change(current))
	if err := writeEntries(h.file, next); err != nil {
		return err
	}
	h.entries = next
	h.loaded = true
	return nil
}

func trim(entries []used) []used {
	if len(entries) > MaxRecentFiles {
		return entries[:MaxRecentFiles]
	}
	return entries
}

func readEntries(file string) ([]used, error) {
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read recent images: %w", err)
	}
	var entries []used
	if json.Unmarshal(data, &entries) != nil {
		return nil, nil
	}
	return entries, nil
}

func writeEntries(file string, entries []used) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write recent images: %w", err)
	}
	return os.Rename(tmp, file)
}
