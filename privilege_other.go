//go:build !windows

package hwid

import "os"

// isElevated returns true if the process runs with effective UID 0.
func isElevated() bool {
	return os.Geteuid() == 0
}

func relaunchElevated() error {
	return &Error{Kind: KindUnsupported, Message: "elevation relaunch is only implemented on Windows"}
}
