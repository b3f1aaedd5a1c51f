package hwid

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// HostInfo carries the non-hardware fields shown next to the identifiers.
type HostInfo struct {
	Platform string
	Hostname string
}

func systemHostInfo(ctx context.Context) HostInfo {
	info := HostInfo{Platform: runtime.GOOS + "/" + runtime.GOARCH}

	hi, err := host.InfoWithContext(ctx)
	if err == nil {
		info.Hostname = hi.Hostname
		if platform := strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion); platform != "" {
			arch := hi.KernelArch
			if arch == "" {
				arch = runtime.GOARCH
			}
			info.Platform = platform + " (" + arch + ")"
		}
	}

	if info.Hostname == "" {
		if name, err := os.Hostname(); err == nil {
			info.Hostname = name
		}
	}
	return info
}
