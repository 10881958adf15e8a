// ABOUTME: Configuration loader for the facepunch client
// ABOUTME: Layers struct defaults, optional TOML file, .env and environment variables

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/pelletier/go-toml/v2"
)

// AppName is used for the config directory and the User-Agent header
const AppName = "facepunch"

// Config holds all client settings
type Config struct {
	// APIURL is the base URL of the remote attendance service
	APIURL string `toml:"api_url" default:"http://localhost:8000"`

	// RequestTimeoutSeconds bounds every HTTP call
	RequestTimeoutSeconds int `toml:"request_timeout_seconds" default:"30"`

	// ConfigDir holds session.json, config.toml and debug.log
	ConfigDir string `toml:"-"`

	Camera  Camera  `toml:"camera"`
	Logging Logging `toml:"logging"`
	UI      UI      `toml:"ui"`
}

// Camera controls device probing and frame capture
type Camera struct {
	Device      string `toml:"device" default:"/dev/video0"`
	SysfsRoot   string `toml:"sysfs_root" default:"/sys/class/video4linux"`
	FFmpegPath  string `toml:"ffmpeg_path" default:"ffmpeg"`
	Width       int    `toml:"width" default:"320"`
	Height      int    `toml:"height" default:"240"`
	JPEGQuality int    `toml:"jpeg_quality" default:"92"`
	Watch       bool   `toml:"watch" default:"false"`
}

// Logging controls slog output
type Logging struct {
	Level  string `toml:"level" default:"info"`
	Format string `toml:"format" default:"text"`
}

// UI controls terminal presentation
type UI struct {
	// Icons is auto, nerd or plain
	Icons string `toml:"icons" default:"auto"`
}

// RequestTimeout returns the HTTP timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SessionPath returns the persisted credential file location
func (c *Config) SessionPath() string {
	return filepath.Join(c.ConfigDir, "session.json")
}

// DebugLogPath returns the file the TUI logs to
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.ConfigDir, "debug.log")
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultConfigFile returns the path of the optional TOML config file
func DefaultConfigFile() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// Load builds a Config from defaults, then the TOML file at path (if present),
// then environment variables. An empty path means DefaultConfigFile().
// A missing file is not an error; an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile()
	}
	if path != "" {
		err := loadFile(path, cfg)
		if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
			return nil, err
		}
	}

	applyEnv(cfg)

	if cfg.ConfigDir == "" {
		cfg.ConfigDir = DefaultConfigDir()
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.APIURL = getEnv("FACEPUNCH_API_URL", cfg.APIURL)
	cfg.RequestTimeoutSeconds = getEnvInt("FACEPUNCH_REQUEST_TIMEOUT", cfg.RequestTimeoutSeconds)
	cfg.ConfigDir = getEnv("FACEPUNCH_CONFIG_DIR", cfg.ConfigDir)

	cfg.Camera.Device = getEnv("FACEPUNCH_CAMERA_DEVICE", cfg.Camera.Device)
	cfg.Camera.SysfsRoot = getEnv("FACEPUNCH_SYSFS_ROOT", cfg.Camera.SysfsRoot)
	cfg.Camera.FFmpegPath = getEnv("FACEPUNCH_FFMPEG", cfg.Camera.FFmpegPath)
	cfg.Camera.JPEGQuality = getEnvInt("FACEPUNCH_JPEG_QUALITY", cfg.Camera.JPEGQuality)
	cfg.Camera.Watch = getEnvBool("FACEPUNCH_CAMERA_WATCH", cfg.Camera.Watch)

	cfg.Logging.Level = getEnv("FACEPUNCH_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("FACEPUNCH_LOG_FORMAT", cfg.Logging.Format)

	cfg.UI.Icons = getEnv("FACEPUNCH_ICONS", cfg.UI.Icons)
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api url must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera frame size must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.JPEGQuality < 1 || c.Camera.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100, got %d", c.Camera.JPEGQuality)
	}
	switch c.UI.Icons {
	case "auto", "nerd", "plain":
	default:
		return fmt.Errorf("ui icons must be auto, nerd or plain, got %q", c.UI.Icons)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
