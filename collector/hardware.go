package collector

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/secinv/cpescan/model"
)

// CollectHardware gathers hardware facts for the local host. Individual
// device probes that fail produce error-marked entries or empty categories,
// never a failed scan.
func CollectHardware(ctx context.Context) model.HardwareInfo {
	hw := model.HardwareInfo{
		CPU:    collectCPU(ctx),
		Memory: collectMemory(ctx),
		Disks:  collectDisks(ctx),
	}

	switch runtime.GOOS {
	case "linux":
		hw.GPU, hw.Audio, hw.PCI = collectPCIDevices(ctx)
		hw.USB = collectUSBDevices(ctx)
		hw.SystemDevices = collectDMIDevices()
	case "windows":
		hw.GPU = collectWindowsGPU(ctx)
		hw.SystemDevices = collectWindowsBaseboard(ctx)
	}

	return hw
}

func collectCPU(ctx context.Context) *model.CPUInfo {
	stats, err := cpu.InfoWithContext(ctx)
	if err != nil || len(stats) == 0 {
		logger.Warn("cpu info unavailable", zap.Error(err))
		return nil
	}

	info := &model.CPUInfo{
		Model:     stats[0].ModelName,
		Processor: stats[0].VendorID,
	}

	if physical, err := cpu.CountsWithContext(ctx, false); err == nil {
		info.PhysicalCores = physical
	}
	if logical, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.LogicalCores = logical
	}

	return info
}

func collectMemory(ctx context.Context) *model.MemoryInfo {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		logger.Warn("memory info unavailable", zap.Error(err))
		return &model.MemoryInfo{Err: err.Error()}
	}

	total := toGB(vm.Total)
	return &model.MemoryInfo{
		TotalGB:     &total,
		AvailableGB: toGB(vm.Available),
		UsedGB:      toGB(vm.Used),
	}
}

func collectDisks(ctx context.Context) []model.DiskInfo {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		logger.Warn("disk partitions unavailable", zap.Error(err))
		return []model.DiskInfo{{Err: err.Error()}}
	}

	var disks []model.DiskInfo
	for _, part := range partitions {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			disks = append(disks, model.DiskInfo{
				Device:     part.Device,
				Mountpoint: part.Mountpoint,
				Fstype:     part.Fstype,
				Err:        err.Error(),
			})
			continue
		}

		total := toGB(usage.Total)
		disks = append(disks, model.DiskInfo{
			Device:     part.Device,
			Mountpoint: part.Mountpoint,
			Fstype:     part.Fstype,
			TotalGB:    &total,
		})
	}

	return disks
}

// collectPCIDevices shells out to lspci and splits the result into GPU,
// audio and other PCI buckets so each device converts under one category.
func collectPCIDevices(ctx context.Context) (gpu, audio, pci []model.DeviceInfo) {
	out, err := runCommand(ctx, deviceToolTimeout, "lspci")
	if err != nil {
		logger.Debug("lspci unavailable", zap.Error(err))
		return nil, nil, nil
	}
	return splitPCIDevices(parseLspciOutput(out))
}

func splitPCIDevices(devices []model.DeviceInfo) (gpu, audio, pci []model.DeviceInfo) {
	for _, dev := range devices {
		class := strings.ToLower(dev.DeviceClass)
		switch {
		case strings.Contains(class, "vga") || strings.Contains(class, "3d") || strings.Contains(class, "display"):
			gpu = append(gpu, dev)
		case strings.Contains(class, "audio"):
			audio = append(audio, dev)
		default:
			pci = append(pci, dev)
		}
	}
	return gpu, audio, pci
}

// parseLspciOutput parses plain lspci lines of the form
// "00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 630".
func parseLspciOutput(out string) []model.DeviceInfo {
	var devices []model.DeviceInfo

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		slotAndRest := strings.SplitN(line, " ", 2)
		if len(slotAndRest) != 2 {
			continue
		}
		classAndName := strings.SplitN(slotAndRest[1], ": ", 2)
		if len(classAndName) != 2 {
			continue
		}

		devices = append(devices, model.DeviceInfo{
			Name:        strings.TrimSpace(classAndName[1]),
			DeviceClass: strings.TrimSpace(classAndName[0]),
		})
	}

	return devices
}

func collectUSBDevices(ctx context.Context) []model.DeviceInfo {
	out, err := runCommand(ctx, deviceToolTimeout, "lsusb")
	if err != nil {
		logger.Debug("lsusb unavailable", zap.Error(err))
		return nil
	}
	return parseLsusbOutput(out)
}

// parseLsusbOutput parses lsusb lines of the form
// "Bus 001 Device 002: ID 8087:0024 Intel Corp. Integrated Rate Matching Hub".
func parseLsusbOutput(out string) []model.DeviceInfo {
	var devices []model.DeviceInfo

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ": ID ")
		if idx < 0 {
			continue
		}

		rest := line[idx+len(": ID "):]
		fields := strings.SplitN(rest, " ", 2)
		if len(fields) != 2 || strings.TrimSpace(fields[1]) == "" {
			continue
		}

		devices = append(devices, model.DeviceInfo{
			Name: strings.TrimSpace(fields[1]),
		})
	}

	return devices
}

const dmiPath = "/sys/class/dmi/id"

// collectDMIDevices reads motherboard, BIOS and chassis identity from the
// DMI sysfs interface.
func collectDMIDevices() []model.DeviceInfo {
	var devices []model.DeviceInfo

	if name := readDMIField("board_name"); name != "" {
		devices = append(devices, model.DeviceInfo{
			Name:         name,
			Type:         "Motherboard",
			Manufacturer: readDMIField("board_vendor"),
			Version:      readDMIField("board_version"),
		})
	}

	if vendor := readDMIField("bios_vendor"); vendor != "" {
		devices = append(devices, model.DeviceInfo{
			Name:         vendor + " BIOS",
			Type:         "BIOS",
			Manufacturer: vendor,
			Version:      readDMIField("bios_version"),
		})
	}

	if product := readDMIField("product_name"); product != "" {
		devices = append(devices, model.DeviceInfo{
			Name:         product,
			Type:         "System",
			Manufacturer: readDMIField("sys_vendor"),
			Version:      readDMIField("product_version"),
		})
	}

	return devices
}

func readDMIField(field string) string {
	data, err := os.ReadFile(filepath.Join(dmiPath, field))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func collectWindowsGPU(ctx context.Context) []model.DeviceInfo {
	out, err := runCommand(ctx, deviceToolTimeout,
		"wmic", "path", "win32_VideoController", "get", "Name,DriverVersion", "/value")
	if err != nil {
		logger.Debug("wmic video query unavailable", zap.Error(err))
		return nil
	}

	var devices []model.DeviceInfo
	for _, block := range parseWmicValueOutput(out) {
		if block["Name"] == "" {
			continue
		}
		devices = append(devices, model.DeviceInfo{
			Name:          block["Name"],
			DriverVersion: block["DriverVersion"],
		})
	}
	return devices
}

func collectWindowsBaseboard(ctx context.Context) []model.DeviceInfo {
	out, err := runCommand(ctx, deviceToolTimeout,
		"wmic", "baseboard", "get", "Manufacturer,Product,Version", "/value")
	if err != nil {
		logger.Debug("wmic baseboard query unavailable", zap.Error(err))
		return nil
	}

	var devices []model.DeviceInfo
	for _, block := range parseWmicValueOutput(out) {
		if block["Product"] == "" {
			continue
		}
		devices = append(devices, model.DeviceInfo{
			Name:         block["Product"],
			Type:         "Motherboard",
			Manufacturer: block["Manufacturer"],
			Version:      block["Version"],
		})
	}
	return devices
}

// parseWmicValueOutput parses wmic /value output: Key=Value lines grouped
// into blocks separated by blank lines, one block per device.
func parseWmicValueOutput(out string) []map[string]string {
	var blocks []map[string]string
	current := map[string]string{}

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = map[string]string{}
		}
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}
		current[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	flush()

	return blocks
}

// toGB converts bytes to gigabytes rounded to two decimals, matching the
// precision the converters format into version fields.
func toGB(bytes uint64) float64 {
	return math.Round(float64(bytes)/(1<<30)*100) / 100
}
