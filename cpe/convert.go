package cpe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/secinv/cpescan/model"
)

// osMapping binds a lowercased system name to its canonical vendor/product pair.
type osMapping struct {
	system  string
	vendor  string
	product string
}

var osMappings = []osMapping{
	{"linux", "linux", "linux_kernel"},
	{"windows", "microsoft", "windows"},
	{"darwin", "apple", "macos"},
}

// ConvertOS maps operating system facts onto a single CPE record with part
// code "o". On Linux the distro ID, when known, overrides the generic kernel
// product and the distro vendor is resolved through the vendor table.
func ConvertOS(osInfo model.OSInfo) model.CPERecord {
	system := strings.ToLower(osInfo.System)
	if system == "" {
		system = "unknown"
	}

	vendor := "unknown"
	product := system
	for _, m := range osMappings {
		if m.system == system {
			vendor = m.vendor
			product = m.product
			break
		}
	}

	version := Wildcard
	if system == "linux" {
		if osInfo.DistroVersion != "" {
			version = osInfo.DistroVersion
		} else if osInfo.Release != "" {
			version = osInfo.Release
		}

		if osInfo.DistroID != "" {
			product = osInfo.DistroID
			if v, ok := lookupDistroVendor(osInfo.DistroID); ok {
				vendor = v
			} else {
				vendor = SanitizeValue(osInfo.DistroID)
			}
		}
	} else if osInfo.Release != "" {
		version = osInfo.Release
	}

	cpeStr := Assemble(PartOS, Attributes{
		Vendor:   vendor,
		Product:  product,
		Version:  version,
		TargetHW: osInfo.Machine,
	})

	name := osInfo.Platform
	if name == "" {
		name = fmt.Sprintf("%s %s", system, version)
	}

	return model.CPERecord{
		Category:    "Operating System",
		DisplayName: name,
		Vendor:      vendor,
		Product:     product,
		Version:     version,
		CPEString:   cpeStr,
	}
}

// ConvertHardware maps hardware facts onto zero or more CPE records with part
// code "h", one category at a time in fixed order: cpu, memory, disks, gpu,
// audio, usb, pci, system devices. Entries a collector marked with an error
// are skipped without failing the category.
func ConvertHardware(hw model.HardwareInfo) []model.CPERecord {
	var records []model.CPERecord

	if hw.CPU != nil {
		records = append(records, convertCPU(hw.CPU))
	}

	if hw.Memory != nil && hw.Memory.TotalGB != nil {
		total := formatGB(*hw.Memory.TotalGB)
		version := total + "gb"
		records = append(records, model.CPERecord{
			Category:    "Hardware - Memory",
			DisplayName: fmt.Sprintf("System Memory (%s GB)", total),
			Vendor:      "generic",
			Product:     "memory",
			Version:     version,
			CPEString: Assemble(PartHardware, Attributes{
				Vendor:  "generic",
				Product: "memory",
				Version: version,
			}),
		})
	}

	for i, disk := range hw.Disks {
		if disk.Err != "" {
			continue
		}
		records = append(records, convertDisk(disk, i))
	}

	for _, gpu := range hw.GPU {
		if gpu.Err != "" {
			continue
		}
		name := gpu.Name
		if name == "" {
			name = "Unknown GPU"
		}
		version := gpu.DriverVersion
		if version == "" {
			version = Wildcard
		}
		records = append(records, deviceRecord("Hardware - GPU", name, ResolveHardwareVendor(name), version))
	}

	for _, audio := range hw.Audio {
		if audio.Err != "" {
			continue
		}
		name := audio.Name
		if name == "" {
			name = "Unknown Audio Device"
		}
		records = append(records, deviceRecord("Hardware - Audio", name, ResolveHardwareVendor(name), Wildcard))
	}

	for _, usb := range hw.USB {
		if usb.Err != "" {
			continue
		}
		name := usb.Name
		if name == "" {
			name = "Unknown USB Device"
		}
		deviceType := usb.Type
		if deviceType == "" {
			deviceType = "USB Device"
		}
		records = append(records, deviceRecord("Hardware - "+deviceType, name, ResolveHardwareVendor(name), Wildcard))
	}

	for _, pci := range hw.PCI {
		if pci.Err != "" {
			continue
		}
		name := pci.Name
		if name == "" {
			name = "Unknown PCI Device"
		}
		class := pci.DeviceClass
		if class == "" {
			class = "PCI Device"
		}
		records = append(records, deviceRecord("Hardware - "+class, name, ResolveHardwareVendor(name), Wildcard))
	}

	for _, dev := range hw.SystemDevices {
		if dev.Err != "" {
			continue
		}
		records = append(records, convertSystemDevice(dev))
	}

	return records
}

func convertCPU(cpu *model.CPUInfo) model.CPERecord {
	cpuModel := cpu.Model
	if cpuModel == "" {
		cpuModel = cpu.Processor
	}
	if cpuModel == "" {
		cpuModel = unknownSentinel
	}

	// CPU vendor inference is deliberately narrow: the three fixed checks
	// below, not the full hardware vendor table.
	vendor := "unknown"
	lower := strings.ToLower(cpuModel)
	switch {
	case strings.Contains(lower, "intel"):
		vendor = "intel"
	case strings.Contains(lower, "amd"):
		vendor = "amd"
	case strings.Contains(lower, "arm"):
		vendor = "arm"
	}

	return deviceRecord("Hardware - CPU", cpuModel, vendor, Wildcard)
}

func convertDisk(disk model.DiskInfo, index int) model.CPERecord {
	device := disk.Device
	if device == "" {
		device = fmt.Sprintf("disk%d", index)
	}

	total := 0.0
	sizeLabel := unknownSentinel
	if disk.TotalGB != nil {
		total = *disk.TotalGB
		sizeLabel = formatGB(total)
	}
	version := formatGB(total) + "gb"

	return model.CPERecord{
		Category:    "Hardware - Storage",
		DisplayName: fmt.Sprintf("%s (%s GB)", device, sizeLabel),
		Vendor:      "generic",
		Product:     "storage",
		Version:     version,
		CPEString: Assemble(PartHardware, Attributes{
			Vendor:  "generic",
			Product: "storage",
			Version: version,
		}),
	}
}

// convertSystemDevice prefers an explicit manufacturer/vendor field over
// name-based inference. Only system devices carry such a field; the other
// device categories always infer from the name.
func convertSystemDevice(dev model.DeviceInfo) model.CPERecord {
	name := dev.Name
	if name == "" {
		name = "Unknown System Device"
	}
	deviceType := dev.Type
	if deviceType == "" {
		deviceType = "System Device"
	}

	vendor := dev.Manufacturer
	if vendor == "" {
		vendor = dev.Vendor
	}
	if vendor == "" {
		vendor = ResolveHardwareVendor(name)
	}

	version := dev.Version
	if version == "" {
		version = Wildcard
	}

	return deviceRecord("Hardware - "+deviceType, name, vendor, version)
}

func deviceRecord(category, name, vendor, version string) model.CPERecord {
	return model.CPERecord{
		Category:    category,
		DisplayName: name,
		Vendor:      vendor,
		Product:     name,
		Version:     version,
		CPEString: Assemble(PartHardware, Attributes{
			Vendor:  vendor,
			Product: name,
			Version: version,
		}),
	}
}

// ConvertSoftware maps installed software entries onto CPE records with part
// code "a", preserving input order. Error-marked entries are skipped.
func ConvertSoftware(software []model.SoftwareEntry) []model.CPERecord {
	var records []model.CPERecord

	for _, sw := range software {
		if sw.Err != "" {
			continue
		}

		name := sw.Name
		if name == "" {
			name = unknownSentinel
		}
		version := sw.Version
		if version == "" {
			version = Wildcard
		}

		vendor := ResolveSoftwareVendor(name, sw.Vendor)

		swType := sw.Type
		if swType == "" {
			swType = "unknown"
		}

		records = append(records, model.CPERecord{
			Category:    fmt.Sprintf("Software (%s)", swType),
			DisplayName: name,
			Vendor:      vendor,
			Product:     name,
			Version:     version,
			CPEString: Assemble(PartApplication, Attributes{
				Vendor:  vendor,
				Product: name,
				Version: version,
			}),
			Purl: softwarePurl(name, sw.Version, swType),
		})
	}

	return records
}

// purlTypes maps a package-manager origin to its PURL type.
var purlTypes = map[string]string{
	"dpkg": "deb",
	"rpm":  "rpm",
	"brew": "brew",
	"snap": "generic",
}

// softwarePurl derives a lowercase package URL for a software entry so
// downstream pipelines can correlate records with PURL-keyed vulnerability
// data. Entries whose name sanitizes to the wildcard get no PURL.
func softwarePurl(name, version, swType string) string {
	purlName := SanitizeValue(name)
	if purlName == Wildcard {
		return ""
	}

	purlType, ok := purlTypes[swType]
	if !ok {
		purlType = "generic"
	}

	if version == Wildcard || version == unknownSentinel {
		version = ""
	}

	purl := packageurl.NewPackageURL(purlType, "", purlName, version, nil, "")
	return strings.ToLower(purl.ToString())
}

// ConvertAll runs the three category converters over one inventory snapshot
// and concatenates their outputs: one OS record first, then hardware records
// in fixed category order, then software records in input order. Each call
// returns a fresh slice; nothing is retained between calls.
func ConvertAll(osInfo model.OSInfo, hw model.HardwareInfo, software []model.SoftwareEntry) []model.CPERecord {
	records := make([]model.CPERecord, 0, 1+len(software))

	records = append(records, ConvertOS(osInfo))
	records = append(records, ConvertHardware(hw)...)
	records = append(records, ConvertSoftware(software)...)

	return records
}

// formatGB renders a gigabyte figure the shortest way that round-trips
// (15.6 -> "15.6", 16 -> "16").
func formatGB(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
