// ABOUTME: Camera command for the facepunch client
// ABOUTME: Lists video devices once, or follows hot-plug changes with --watch

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/markalston/facepunch/internal/device"
	"github.com/markalston/facepunch/internal/tui/widgets"
)

var cameraWatch bool

var cameraCmd = &cobra.Command{
	Use:   "camera",
	Short: "Check whether a camera is available",
	Long: `List the video devices found on this machine and report whether a camera
can be used for capture. With --watch, print a line each time availability
changes until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, e *env, w io.Writer) int {
			if cameraWatch {
				return runCameraWatch(ctx, device.NewWatcher(e.enumerator, e.logger), w)
			}
			return runCamera(ctx, e, w)
		})
	},
}

func init() {
	cameraCmd.Flags().BoolVar(&cameraWatch, "watch", false, "Follow camera hot-plug changes")
	rootCmd.AddCommand(cameraCmd)
}

// cameraReport is the JSON shape of a one-off probe
type cameraReport struct {
	Available bool            `json:"available"`
	Devices   []device.Device `json:"devices"`
	Error     string          `json:"error,omitempty"`
}

// runCamera enumerates once. Availability follows the same rule as capture.
func runCamera(ctx context.Context, e *env, w io.Writer) int {
	report := cameraReport{Devices: []device.Device{}}

	devices, err := e.enumerator.Enumerate(ctx)
	if err != nil {
		report.Error = err.Error()
	} else {
		report.Devices = devices
	}
	report.Available = device.Probe(ctx, e.enumerator, e.logger)

	if IsJSONOutput() {
		writeJSON(w, report)
		return exitOK
	}
	fmt.Fprintln(w, formatCameraHuman(w, report))
	return exitOK
}

func formatCameraHuman(w io.Writer, report cameraReport) string {
	status := statusWord(w, widgets.CameraBadgeText(false, report.Available), report.Available)
	if report.Error != "" {
		return fmt.Sprintf("Camera:  %s\nError:   %s", status, report.Error)
	}
	if len(report.Devices) == 0 {
		return fmt.Sprintf("Camera:  %s", status)
	}

	rows := make([][]string, 0, len(report.Devices))
	for _, d := range report.Devices {
		label := d.Label
		if label == "" {
			label = "-"
		}
		rows = append(rows, []string{d.ID, string(d.Kind), label, d.Path})
	}
	return fmt.Sprintf("Camera:  %s\n%s", status,
		renderTable([]string{"ID", "Kind", "Label", "Path"}, rows, nil))
}

// cameraEvent is one JSON line emitted by --watch
type cameraEvent struct {
	Time      time.Time `json:"time"`
	Available bool      `json:"available"`
}

// runCameraWatch prints the current availability and every change after it
func runCameraWatch(ctx context.Context, watcher *device.Watcher, w io.Writer) int {
	for available := range watcher.Watch(ctx) {
		now := time.Now()
		if IsJSONOutput() {
			writeJSONLine(w, cameraEvent{Time: now, Available: available})
			continue
		}
		fmt.Fprintf(w, "%s  %s\n", now.Format(time.TimeOnly),
			statusWord(w, widgets.CameraBadgeText(false, available), available))
	}
	return exitOK
}
