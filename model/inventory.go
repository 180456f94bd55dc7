// Package model - raw inventory facts produced by the collectors.
//
// Every field is optional: the empty string means the collector could not
// determine the value, and collectors may also report the literal sentinel
// "Unknown". Both degrade to the CPE wildcard during conversion. An entry
// whose Err field is set was reported unusable by its collector and is
// skipped by the converters without failing the category.
package model

// OSInfo holds operating system facts from the OS collector
type OSInfo struct {
	System        string `json:"system,omitempty"`
	Release       string `json:"release,omitempty"`
	Platform      string `json:"platform,omitempty"`
	Machine       string `json:"machine,omitempty"`
	DistroID      string `json:"distro_id,omitempty"`
	DistroName    string `json:"distro_name,omitempty"`
	DistroVersion string `json:"distro_version,omitempty"`
	WinEdition    string `json:"win_edition,omitempty"`
}

// CPUInfo describes the processor. Model is preferred over Processor when both
// are present.
type CPUInfo struct {
	Model         string `json:"model,omitempty"`
	Processor     string `json:"processor,omitempty"`
	PhysicalCores int    `json:"physical_cores,omitempty"`
	LogicalCores  int    `json:"logical_cores,omitempty"`
	Err           string `json:"error,omitempty"`
}

// MemoryInfo describes installed memory. TotalGB is nil when the collector
// could not measure it; no record is emitted in that case.
type MemoryInfo struct {
	TotalGB     *float64 `json:"total_gb,omitempty"`
	AvailableGB float64  `json:"available_gb,omitempty"`
	UsedGB      float64  `json:"used_gb,omitempty"`
	Err         string   `json:"error,omitempty"`
}

// DiskInfo describes one disk or partition
type DiskInfo struct {
	Device     string   `json:"device,omitempty"`
	Mountpoint string   `json:"mountpoint,omitempty"`
	Fstype     string   `json:"fstype,omitempty"`
	TotalGB    *float64 `json:"total_gb,omitempty"`
	Err        string   `json:"error,omitempty"`
}

// DeviceInfo describes one GPU, audio, USB, PCI or system device. The
// converters read the subset of fields relevant to each category: GPU records
// use DriverVersion, USB records use Type, PCI records use DeviceClass, and
// system devices use Manufacturer/Vendor/Version/Type.
type DeviceInfo struct {
	Name          string `json:"name,omitempty"`
	Type          string `json:"type,omitempty"`
	DeviceClass   string `json:"device_class,omitempty"`
	DriverVersion string `json:"driver_version,omitempty"`
	Manufacturer  string `json:"manufacturer,omitempty"`
	Vendor        string `json:"vendor,omitempty"`
	Version       string `json:"version,omitempty"`
	Err           string `json:"error,omitempty"`
}

// HardwareInfo aggregates the hardware categories of one host
type HardwareInfo struct {
	CPU           *CPUInfo     `json:"cpu,omitempty"`
	Memory        *MemoryInfo  `json:"memory,omitempty"`
	Disks         []DiskInfo   `json:"disks,omitempty"`
	GPU           []DeviceInfo `json:"gpu,omitempty"`
	Audio         []DeviceInfo `json:"audio,omitempty"`
	USB           []DeviceInfo `json:"usb,omitempty"`
	PCI           []DeviceInfo `json:"pci,omitempty"`
	SystemDevices []DeviceInfo `json:"system_devices,omitempty"`
}

// SoftwareEntry describes one installed package as reported by a package
// manager. Type records the origin (dpkg, rpm, snap, flatpak, brew, windows,
// macos_app).
type SoftwareEntry struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Vendor  string `json:"vendor,omitempty"`
	Type    string `json:"type,omitempty"`
	Err     string `json:"error,omitempty"`
}
