//go:build linux

// ABOUTME: VIDIOC_QUERYCAP ioctl against a V4L2 device node
// ABOUTME: Linux only; other platforms report enumeration unsupported

package device

import (
	"bytes"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const sysfsSupported = true

// _IOR('V', 0, struct v4l2_capability)
const vidiocQueryCap = 0x80685600

type v4l2Capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

func queryCapability(path string) (capability, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return capability{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	var raw v4l2Capability
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), vidiocQueryCap, uintptr(unsafe.Pointer(&raw)))
	if errno != 0 {
		return capability{}, fmt.Errorf("VIDIOC_QUERYCAP %s: %w", path, errno)
	}

	return capability{
		Driver:       cString(raw.Driver[:]),
		Card:         cString(raw.Card[:]),
		BusInfo:      cString(raw.BusInfo[:]),
		Capabilities: raw.Capabilities,
		DeviceCaps:   raw.DeviceCaps,
	}, nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
