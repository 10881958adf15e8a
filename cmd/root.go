// ABOUTME: Root command for the facepunch client
// ABOUTME: Handles global flags, configuration and launching the TUI

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/markalston/facepunch/internal/capture"
	"github.com/markalston/facepunch/internal/client"
	"github.com/markalston/facepunch/internal/config"
	"github.com/markalston/facepunch/internal/device"
	"github.com/markalston/facepunch/internal/logger"
	"github.com/markalston/facepunch/internal/route"
	"github.com/markalston/facepunch/internal/session"
	"github.com/markalston/facepunch/internal/submit"
	"github.com/markalston/facepunch/internal/tui"
	"github.com/markalston/facepunch/internal/tui/icons"
	"github.com/markalston/facepunch/internal/tui/recentfiles"
	"github.com/markalston/facepunch/internal/tui/samples"
)

var (
	apiURL     string
	configPath string
	jsonOutput bool
	imagePath  string
	openScreen string
)

// errNoCamera mirrors the notification the capture screens show
var errNoCamera = errors.New("No camera detected")

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "facepunch",
	Short: "Terminal client for the face attendance service",
	Long: `facepunch marks attendance and registers people by face against a remote
attendance service. Run without a subcommand to open the interactive UI.

Environment Variables:
  FACEPUNCH_API_URL        Service base URL (default: http://localhost:8000)
  FACEPUNCH_CONFIG_DIR     Directory holding session.json and debug.log
  FACEPUNCH_CAMERA_DEVICE  Video device passed to ffmpeg (default: /dev/video0)
  FACEPUNCH_LOG_LEVEL      debug, info, warn or error`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runTUI()
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(loadDotEnv)

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Service base URL (overrides FACEPUNCH_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/facepunch/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&imagePath, "image", "", "Use a still image instead of the camera")
	rootCmd.Flags().StringVar(&openScreen, "open", "", "Screen to open first: signin, register, attendance, users, attendance-records")
}

// loadDotEnv reads .env from the working directory when present
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: .env: %v\n", err)
	}
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig resolves the config and applies flag overrides on top
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// env is everything a command needs to talk to the service and the camera
type env struct {
	cfg        *config.Config
	logger     *slog.Logger
	client     *client.Client
	session    *session.Store
	enumerator device.Enumerator
	pipeline   *submit.Pipeline
}

// newEnv wires the process-wide collaborators from the resolved config
func newEnv(log *slog.Logger) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Init(loggerOptions(cfg))
	}
	return buildEnv(cfg, log), nil
}

func buildEnv(cfg *config.Config, log *slog.Logger) *env {
	c := client.New(cfg.APIURL, client.WithTimeout(cfg.RequestTimeout()), client.WithLogger(log))
	return &env{
		cfg:        cfg,
		logger:     log,
		client:     c,
		session:    session.NewStore(session.NewFileStorage(cfg.SessionPath()), log),
		enumerator: device.NewSysfsEnumerator(cfg.Camera.SysfsRoot),
		pipeline:   submit.New(c, log),
	}
}

func loggerOptions(cfg *config.Config) logger.Options {
	return logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
}

func (e *env) normalizer() capture.Normalizer {
	return capture.Normalizer{
		Width:   e.cfg.Camera.Width,
		Height:  e.cfg.Camera.Height,
		Quality: e.cfg.Camera.JPEGQuality,
	}
}

// cameraSource captures from the configured video device
func (e *env) cameraSource() submit.FrameSource {
	grabber := capture.NewFFmpegGrabber(e.cfg.Camera.FFmpegPath, e.cfg.Camera.Device, e.normalizer())
	return capture.NewCapturer(grabber, e.logger)
}

// fileSource captures from a still image on disk
func (e *env) fileSource(path string) submit.FrameSource {
	return capture.NewCapturer(capture.NewFileGrabber(path, e.normalizer()), e.logger)
}

// frameSource picks --image when given, otherwise the camera if one is present
func (e *env) frameSource(ctx context.Context, image string) (submit.FrameSource, error) {
	if image != "" {
		if _, err := os.Stat(image); err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
		return e.fileSource(image), nil
	}
	if !device.Probe(ctx, e.enumerator, e.logger) {
		return nil, errNoCamera
	}
	return e.cameraSource(), nil
}

// runCommand wraps a command body with signal handling and config loading
func runCommand(body func(ctx context.Context, e *env, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exitCode := 2
	e, err := newEnv(nil)
	if err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
	} else {
		exitCode = body(ctx, e, os.Stdout)
	}
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}

// runTUI opens the interactive UI, logging to a file so the terminal stays clean
func runTUI() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	log, closeLog, err := logger.InitFile(cfg.DebugLogPath(), loggerOptions(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: debug log: %v\n", err)
		return 2
	}
	defer closeLog()

	icons.SetMode(icons.Mode(cfg.UI.Icons))
	e := buildEnv(cfg, log)
	if err := tui.Run(e.tuiDeps()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// tuiDeps maps the environment onto the TUI's collaborators
func (e *env) tuiDeps() tui.Deps {
	deps := tui.Deps{
		API:        e.client,
		Session:    e.session,
		Submitter:  e.pipeline,
		Enumerator: e.enumerator,
		Camera:     e.cameraSource(),
		FromFile:   e.fileSource,
		SamplesDir: samples.FindSamplesDir(executableDir()),
		Recent:     recentfiles.New(e.cfg.ConfigDir),
		Logger:     e.logger,
		Start:      route.Parse(openScreen),
	}
	if e.cfg.Camera.Watch {
		deps.Watcher = device.NewWatcher(e.enumerator, e.logger)
	}
	return deps
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
