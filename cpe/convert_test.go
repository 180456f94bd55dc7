package cpe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secinv/cpescan/model"
)

func float64Ptr(v float64) *float64 { return &v }

func TestConvertOSUbuntu(t *testing.T) {
	rec := ConvertOS(model.OSInfo{
		System:        "Linux",
		DistroID:      "ubuntu",
		DistroVersion: "22.04",
		Machine:       "x86_64",
	})

	assert.Equal(t, "Operating System", rec.Category)
	assert.Equal(t, "canonical", rec.Vendor)
	assert.Equal(t, "ubuntu", rec.Product)
	assert.Equal(t, "22.04", rec.Version)
	assert.Equal(t, "cpe:2.3:o:canonical:ubuntu:22.04:*:*:*:*:*:x86_64:*", rec.CPEString)
}

func TestConvertOSUnmappedDistroSanitized(t *testing.T) {
	// A distro outside the vendor table falls back to its own sanitized ID.
	rec := ConvertOS(model.OSInfo{
		System:        "Linux",
		DistroID:      "arch",
		DistroVersion: "rolling",
	})

	assert.Equal(t, "arch", rec.Vendor)
	assert.Equal(t, "arch", rec.Product)
	assert.Equal(t, "cpe:2.3:o:arch:arch:rolling:*:*:*:*:*:*:*", rec.CPEString)
}

func TestConvertOSLinuxVersionPreference(t *testing.T) {
	// distro_version wins over the kernel release, which wins over wildcard.
	rec := ConvertOS(model.OSInfo{System: "Linux", DistroVersion: "12", Release: "6.1.0-10-amd64"})
	assert.Equal(t, "12", rec.Version)

	rec = ConvertOS(model.OSInfo{System: "Linux", Release: "6.1.0-10-amd64"})
	assert.Equal(t, "6.1.0-10-amd64", rec.Version)

	rec = ConvertOS(model.OSInfo{System: "Linux"})
	assert.Equal(t, "*", rec.Version)
}

func TestConvertOSWindows(t *testing.T) {
	rec := ConvertOS(model.OSInfo{
		System:   "Windows",
		Release:  "10",
		Machine:  "AMD64",
		Platform: "Windows-10-10.0.19045",
	})

	assert.Equal(t, "microsoft", rec.Vendor)
	assert.Equal(t, "windows", rec.Product)
	assert.Equal(t, "Windows-10-10.0.19045", rec.DisplayName)
	assert.Equal(t, "cpe:2.3:o:microsoft:windows:10:*:*:*:*:*:amd64:*", rec.CPEString)
}

func TestConvertOSUnknownSystem(t *testing.T) {
	rec := ConvertOS(model.OSInfo{System: "FreeBSD", Release: "14.0"})

	assert.Equal(t, "unknown", rec.Vendor)
	assert.Equal(t, "freebsd", rec.Product)
	assert.Equal(t, "cpe:2.3:o:unknown:freebsd:14.0:*:*:*:*:*:*:*", rec.CPEString)
}

func TestConvertHardwareCPU(t *testing.T) {
	recs := ConvertHardware(model.HardwareInfo{
		CPU: &model.CPUInfo{Model: "Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz"},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, "Hardware - CPU", recs[0].Category)
	assert.Equal(t, "intel", recs[0].Vendor)
	assert.Equal(t, "*", recs[0].Version)
	assert.Equal(t,
		"cpe:2.3:h:intel:intel_r_core_tm_i7-9700k_cpu_3.60ghz:*:*:*:*:*:*:*:*",
		recs[0].CPEString)
}

func TestConvertHardwareCPUVendorChecks(t *testing.T) {
	tests := []struct {
		modelName string
		want      string
	}{
		{"AMD Ryzen 7 5800X", "amd"},
		{"ARM Cortex-A72", "arm"},
		{"Apple M2", "unknown"}, // cpu inference is intel/amd/arm only
	}

	for _, tc := range tests {
		recs := ConvertHardware(model.HardwareInfo{CPU: &model.CPUInfo{Model: tc.modelName}})
		require.Len(t, recs, 1)
		assert.Equal(t, tc.want, recs[0].Vendor, "model %q", tc.modelName)
	}
}

func TestConvertHardwareMemory(t *testing.T) {
	recs := ConvertHardware(model.HardwareInfo{
		Memory: &model.MemoryInfo{TotalGB: float64Ptr(15.6)},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, "Hardware - Memory", recs[0].Category)
	assert.Equal(t, "System Memory (15.6 GB)", recs[0].DisplayName)
	assert.Equal(t, "cpe:2.3:h:generic:memory:15.6gb:*:*:*:*:*:*:*", recs[0].CPEString)
}

func TestConvertHardwareMemoryAbsentTotal(t *testing.T) {
	recs := ConvertHardware(model.HardwareInfo{
		Memory: &model.MemoryInfo{Err: "collector unavailable"},
	})
	assert.Empty(t, recs)
}

func TestConvertHardwareDisksSkipOnError(t *testing.T) {
	recs := ConvertHardware(model.HardwareInfo{
		Disks: []model.DiskInfo{
			{Device: "/dev/sda1", TotalGB: float64Ptr(476.94)},
			{Device: "/dev/sdb1", Err: "Permission denied"},
		},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, "Hardware - Storage", recs[0].Category)
	assert.Equal(t, "/dev/sda1 (476.94 GB)", recs[0].DisplayName)
	assert.Equal(t, "cpe:2.3:h:generic:storage:476.94gb:*:*:*:*:*:*:*", recs[0].CPEString)
}

func TestConvertHardwareDiskDefaults(t *testing.T) {
	recs := ConvertHardware(model.HardwareInfo{
		Disks: []model.DiskInfo{{}},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, "disk0 (Unknown GB)", recs[0].DisplayName)
	assert.Equal(t, "0gb", recs[0].Version)
}

func TestConvertHardwareGPU(t *testing.T) {
	recs := ConvertHardware(model.HardwareInfo{
		GPU: []model.DeviceInfo{{Name: "NVIDIA GeForce RTX 3080", DriverVersion: "531.41"}},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, "Hardware - GPU", recs[0].Category)
	assert.Equal(t, "nvidia", recs[0].Vendor)
	assert.Equal(t, "531.41", recs[0].Version)
	assert.Equal(t, "cpe:2.3:h:nvidia:nvidia_geforce_rtx_3080:531.41:*:*:*:*:*:*:*", recs[0].CPEString)
}

func TestConvertHardwareDeviceCategoryLabels(t *testing.T) {
	recs := ConvertHardware(model.HardwareInfo{
		USB: []model.DeviceInfo{{Name: "Logitech USB Receiver", Type: "Wireless Receiver"}},
		PCI: []model.DeviceInfo{{Name: "Intel Corporation 440FX", DeviceClass: "Host bridge"}},
	})

	require.Len(t, recs, 2)
	assert.Equal(t, "Hardware - Wireless Receiver", recs[0].Category)
	assert.Equal(t, "logitech", recs[0].Vendor)
	assert.Equal(t, "Hardware - Host bridge", recs[1].Category)
	assert.Equal(t, "intel", recs[1].Vendor)
}

func TestConvertHardwareSystemDeviceManufacturerPriority(t *testing.T) {
	// The explicit manufacturer field beats name-based inference, but only
	// for system devices.
	recs := ConvertHardware(model.HardwareInfo{
		SystemDevices: []model.DeviceInfo{
			{Name: "NVIDIA nForce Motherboard", Type: "Motherboard", Manufacturer: "ASUSTeK Computer Inc.", Version: "Rev 1.02"},
			{Name: "Lenovo ThinkPad BIOS", Type: "BIOS", Version: "N2HET70W"},
		},
	})

	require.Len(t, recs, 2)
	assert.Equal(t, "Hardware - Motherboard", recs[0].Category)
	assert.Equal(t, "ASUSTeK Computer Inc.", recs[0].Vendor)
	assert.Equal(t, "cpe:2.3:h:asustek_computer_inc.:nvidia_nforce_motherboard:rev_1.02:*:*:*:*:*:*:*", recs[0].CPEString)

	// No explicit manufacturer: fall back to the keyword tables.
	assert.Equal(t, "lenovo", recs[1].Vendor)
}

func TestConvertHardwareCategoryOrder(t *testing.T) {
	recs := ConvertHardware(model.HardwareInfo{
		CPU:           &model.CPUInfo{Model: "AMD Ryzen 5"},
		Memory:        &model.MemoryInfo{TotalGB: float64Ptr(32)},
		Disks:         []model.DiskInfo{{Device: "/dev/nvme0n1", TotalGB: float64Ptr(931.51)}},
		GPU:           []model.DeviceInfo{{Name: "Radeon RX 580"}},
		Audio:         []model.DeviceInfo{{Name: "Realtek ALC892"}},
		USB:           []model.DeviceInfo{{Name: "Kingston DataTraveler"}},
		PCI:           []model.DeviceInfo{{Name: "Intel Ethernet I225-V"}},
		SystemDevices: []model.DeviceInfo{{Name: "Gigabyte B550 AORUS", Type: "Motherboard"}},
	})

	require.Len(t, recs, 8)
	categories := make([]string, len(recs))
	for i, r := range recs {
		categories[i] = r.Category
	}
	assert.Equal(t, []string{
		"Hardware - CPU",
		"Hardware - Memory",
		"Hardware - Storage",
		"Hardware - GPU",
		"Hardware - Audio",
		"Hardware - USB Device",
		"Hardware - PCI Device",
		"Hardware - Motherboard",
	}, categories)
}

func TestConvertSoftware(t *testing.T) {
	recs := ConvertSoftware([]model.SoftwareEntry{
		{Name: "Google Chrome", Version: "115.0.5790.110", Vendor: "Google LLC", Type: "windows"},
		{Name: "openssl", Version: "3.0.2-0ubuntu1", Vendor: "Unknown", Type: "dpkg"},
		{Err: "Unable to scan Windows software"},
	})

	require.Len(t, recs, 2)

	assert.Equal(t, "Software (windows)", recs[0].Category)
	assert.Equal(t, "Google LLC", recs[0].Vendor)
	assert.Equal(t, "cpe:2.3:a:google_llc:google_chrome:115.0.5790.110:*:*:*:*:*:*:*", recs[0].CPEString)
	assert.Equal(t, "pkg:generic/google_chrome@115.0.5790.110", recs[0].Purl)

	assert.Equal(t, "Software (dpkg)", recs[1].Category)
	assert.Equal(t, "cpe:2.3:a:openssl:openssl:3.0.2-0ubuntu1:*:*:*:*:*:*:*", recs[1].CPEString)
	assert.Equal(t, "pkg:deb/openssl@3.0.2-0ubuntu1", recs[1].Purl)
}

func TestConvertSoftwareFirstTokenFallback(t *testing.T) {
	recs := ConvertSoftware([]model.SoftwareEntry{
		{Name: "7-Zip 19.00", Version: "19.00", Vendor: "Unknown", Type: "windows"},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, "7-zip", recs[0].Vendor)
	assert.Equal(t, "cpe:2.3:a:7-zip:7-zip_19.00:19.00:*:*:*:*:*:*:*", recs[0].CPEString)
}

func TestConvertSoftwareDefaults(t *testing.T) {
	recs := ConvertSoftware([]model.SoftwareEntry{{Name: "mystery-tool"}})

	require.Len(t, recs, 1)
	assert.Equal(t, "Software (unknown)", recs[0].Category)
	assert.Equal(t, "*", recs[0].Version)
	assert.Equal(t, "mystery-tool", recs[0].Vendor)
	assert.Equal(t, "cpe:2.3:a:mystery-tool:mystery-tool:*:*:*:*:*:*:*:*", recs[0].CPEString)
}

func TestConvertAllOrderingAndDeterminism(t *testing.T) {
	osInfo := model.OSInfo{System: "Linux", DistroID: "debian", DistroVersion: "12", Machine: "x86_64"}
	hw := model.HardwareInfo{
		CPU:    &model.CPUInfo{Model: "Intel Xeon"},
		Memory: &model.MemoryInfo{TotalGB: float64Ptr(64)},
		GPU:    []model.DeviceInfo{{Name: "Radeon Pro W5500"}},
	}
	software := []model.SoftwareEntry{
		{Name: "bash", Version: "5.2", Type: "dpkg"},
		{Name: "curl", Version: "8.0.1", Type: "dpkg"},
	}

	first := ConvertAll(osInfo, hw, software)
	second := ConvertAll(osInfo, hw, software)

	assert.Equal(t, first, second)

	require.Len(t, first, 6)
	assert.Equal(t, "Operating System", first[0].Category)
	assert.Equal(t, "Hardware - CPU", first[1].Category)
	assert.Equal(t, "Hardware - Memory", first[2].Category)
	assert.Equal(t, "Hardware - GPU", first[3].Category)
	assert.Equal(t, "bash", first[4].DisplayName)
	assert.Equal(t, "curl", first[5].DisplayName)
}

func TestConvertAllFieldCountInvariant(t *testing.T) {
	records := ConvertAll(
		model.OSInfo{System: "Darwin", Release: "22.6.0", Machine: "arm64"},
		model.HardwareInfo{
			CPU:    &model.CPUInfo{Model: "Apple M2"},
			Memory: &model.MemoryInfo{TotalGB: float64Ptr(16)},
			USB:    []model.DeviceInfo{{Name: "Apple Internal Keyboard"}},
		},
		[]model.SoftwareEntry{{Name: "Safari", Version: "16.5", Type: "macos_app"}},
	)

	for _, rec := range records {
		fields := strings.Split(rec.CPEString, ":")
		require.Len(t, fields, 13, "cpe %q", rec.CPEString)
		assert.Equal(t, "cpe", fields[0])
		assert.Equal(t, "2.3", fields[1])
		assert.Contains(t, []string{"a", "o", "h"}, fields[2])
	}
}
