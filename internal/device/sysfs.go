// ABOUTME: V4L2 enumeration from the video4linux sysfs class
// ABOUTME: Each node is classified by its VIDIOC_QUERYCAP capability bits

package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// V4L2 capability bits (linux/videodev2.h)
const (
	capVideoCapture      = 0x00000001
	capVideoCaptureMPlan = 0x00001000
	capMetaCapture       = 0x00800000
	capDeviceCaps        = 0x80000000
)

// capability is the decoded subset of struct v4l2_capability
type capability struct {
	Driver       string
	Card         string
	BusInfo      string
	Capabilities uint32
	DeviceCaps   uint32
}

// effective returns the caps of this node rather than the whole driver
func (c capability) effective() uint32 {
	if c.Capabilities&capDeviceCaps != 0 {
		return c.DeviceCaps
	}
	return c.Capabilities
}

func (c capability) kind() Kind {
	caps := c.effective()
	switch {
	case caps&(capVideoCapture|capVideoCaptureMPlan) != 0:
		return KindVideoInput
	case caps&capMetaCapture != 0:
		return KindVideoMeta
	default:
		return KindOther
	}
}

type queryFunc func(path string) (capability, error)

// SysfsEnumerator lists /sys/class/video4linux/video* nodes
type SysfsEnumerator struct {
	Root   string
	DevDir string

	query queryFunc
}

// NewSysfsEnumerator enumerates devices under root, resolving device nodes
// in /dev.
func NewSysfsEnumerator(root string) *SysfsEnumerator {
	return &SysfsEnumerator{Root: root, DevDir: "/dev"}
}

// Enumerate implements Enumerator
func (e *SysfsEnumerator) Enumerate(ctx context.Context) ([]Device, error) {
	if !sysfsSupported && e.query == nil {
		return nil, ErrUnsupported
	}
	query := e.query
	if query == nil {
		query = queryCapability
	}

	entries, err := os.ReadDir(e.Root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.Root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "video") {
			names = append(names, entry.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool { return nodeNumber(names[i]) < nodeNumber(names[j]) })

	var devices []Device
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d := Device{ID: name, Path: filepath.Join(e.DevDir, name)}
		caps, err := query(d.Path)
		if err != nil {
			// Unopenable nodes still reveal a camera, just not its label
			if errors.Is(err, os.ErrPermission) && e.index(name) == 0 {
				d.Kind = KindVideoInput
				devices = append(devices, d)
			}
			continue
		}

		d.Kind = caps.kind()
		d.Label = caps.Card
		if d.Label == "" {
			d.Label = e.readAttr(name, "name")
		}
		devices = append(devices, d)
	}
	return devices, nil
}

func (e *SysfsEnumerator) readAttr(node, attr string) string {
	data, err := os.ReadFile(filepath.Join(e.Root, node, attr))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// index returns the sysfs index attribute, -1 when unknown. Index 0 is the
// primary node of a physical device.
func (e *SysfsEnumerator) index(node string) int {
	n, err := strconv.Atoi(e.readAttr(node, "index"))
	if err != nil {
		return -1
	}
	return n
}

func nodeNumber(name string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(name, "video"))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
