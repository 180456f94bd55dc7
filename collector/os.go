package collector

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"

	"github.com/secinv/cpescan/model"
)

// systemNames maps runtime.GOOS onto the conventional system names the
// conversion engine recognizes.
var systemNames = map[string]string{
	"linux":   "Linux",
	"windows": "Windows",
	"darwin":  "Darwin",
}

// CollectOS gathers operating system facts for the local host.
func CollectOS(ctx context.Context) model.OSInfo {
	info := model.OSInfo{
		System:   systemName(runtime.GOOS),
		Release:  Unknown,
		Platform: Unknown,
		Machine:  Unknown,
	}

	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		logger.Warn("host info unavailable", zap.Error(err))
		return info
	}

	info.Release = hi.KernelVersion
	info.Machine = hi.KernelArch
	info.Platform = fmt.Sprintf("%s-%s-%s", info.System, hi.KernelVersion, hi.KernelArch)

	switch runtime.GOOS {
	case "linux":
		info.DistroID = hi.Platform
		info.DistroName = hi.Platform
		info.DistroVersion = hi.PlatformVersion
	case "windows":
		// Kernel version strings on Windows are build numbers; the product
		// version is the meaningful release identifier.
		info.Release = hi.PlatformVersion
		info.WinEdition = hi.Platform
	}

	return info
}

func systemName(goos string) string {
	if name, ok := systemNames[goos]; ok {
		return name
	}
	return goos
}
