//go:build !linux

// ABOUTME: Placeholder capability query for platforms without V4L2
// ABOUTME: SysfsEnumerator returns ErrUnsupported here

package device

const sysfsSupported = false

func queryCapability(path string) (capability, error) {
	return capability{}, ErrUnsupported
}
