package collector

import (
	"context"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/secinv/cpescan/model"
)

// CollectSoftware gathers installed software from the package managers of the
// local host. Each supported manager contributes entries tagged with its
// origin type; a manager that is missing or fails is skipped silently.
func CollectSoftware(ctx context.Context) []model.SoftwareEntry {
	switch runtime.GOOS {
	case "linux":
		return collectLinuxSoftware(ctx)
	case "windows":
		return collectWindowsSoftware(ctx)
	case "darwin":
		return collectDarwinSoftware(ctx)
	default:
		return []model.SoftwareEntry{{Err: "unsupported operating system: " + runtime.GOOS}}
	}
}

func collectLinuxSoftware(ctx context.Context) []model.SoftwareEntry {
	var software []model.SoftwareEntry

	if out, err := runCommand(ctx, pkgManagerTimeout,
		"dpkg-query", "-W", "-f", "${Package}\t${Version}\t${Status}\n"); err == nil {
		software = append(software, parseDpkgOutput(out)...)
	} else {
		logger.Debug("dpkg-query unavailable", zap.Error(err))
	}

	// rpm is only consulted when dpkg produced nothing; mixed systems would
	// otherwise double-report.
	if len(software) == 0 {
		if out, err := runCommand(ctx, pkgManagerTimeout,
			"rpm", "-qa", "--queryformat", "%{NAME}\t%{VERSION}\t%{VENDOR}\n"); err == nil {
			software = append(software, parseRpmOutput(out)...)
		} else {
			logger.Debug("rpm unavailable", zap.Error(err))
		}
	}

	if out, err := runCommand(ctx, deviceToolTimeout, "snap", "list"); err == nil {
		software = append(software, parseSnapOutput(out)...)
	}

	if out, err := runCommand(ctx, deviceToolTimeout,
		"flatpak", "list", "--columns=application,version"); err == nil {
		software = append(software, parseFlatpakOutput(out)...)
	}

	return software
}

// parseDpkgOutput parses dpkg-query tab-separated package lines, keeping only
// packages whose status reports them installed.
func parseDpkgOutput(out string) []model.SoftwareEntry {
	var software []model.SoftwareEntry

	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		if len(parts) > 2 && !strings.Contains(parts[len(parts)-1], "installed") {
			continue
		}

		software = append(software, model.SoftwareEntry{
			Name:    parts[0],
			Version: parts[1],
			Vendor:  Unknown,
			Type:    "dpkg",
		})
	}

	return software
}

// parseRpmOutput parses rpm -qa tab-separated package lines.
func parseRpmOutput(out string) []model.SoftwareEntry {
	var software []model.SoftwareEntry

	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		entry := model.SoftwareEntry{
			Name:    parts[0],
			Version: Unknown,
			Vendor:  Unknown,
			Type:    "rpm",
		}
		if len(parts) > 1 {
			entry.Version = parts[1]
		}
		if len(parts) > 2 && parts[2] != "(none)" {
			entry.Vendor = parts[2]
		}
		software = append(software, entry)
	}

	return software
}

// parseSnapOutput parses the columnar output of snap list, skipping the
// header row.
func parseSnapOutput(out string) []model.SoftwareEntry {
	var software []model.SoftwareEntry

	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		return nil
	}

	for _, line := range lines[1:] {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		software = append(software, model.SoftwareEntry{
			Name:    parts[0],
			Version: parts[1],
			Vendor:  "Snap Store",
			Type:    "snap",
		})
	}

	return software
}

// parseFlatpakOutput parses flatpak list --columns=application,version.
func parseFlatpakOutput(out string) []model.SoftwareEntry {
	var software []model.SoftwareEntry

	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 1 || strings.TrimSpace(parts[0]) == "" {
			continue
		}
		entry := model.SoftwareEntry{
			Name:    strings.TrimSpace(parts[0]),
			Version: Unknown,
			Vendor:  "Flathub",
			Type:    "flatpak",
		}
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			entry.Version = strings.TrimSpace(parts[1])
		}
		software = append(software, entry)
	}

	return software
}

// windowsSoftwareScript lists installed programs from both registry views as
// tab-separated name/version/publisher lines, swallowing permission errors.
const windowsSoftwareScript = `
$ErrorActionPreference = "SilentlyContinue"
foreach ($hive in @(
    "HKLM:\Software\Microsoft\Windows\CurrentVersion\Uninstall\*",
    "HKLM:\Software\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall\*")) {
  try {
    Get-ItemProperty $hive -ErrorAction SilentlyContinue |
      Where-Object {$_.DisplayName -ne $null} |
      ForEach-Object { "$($_.DisplayName)` + "`t" + `$($_.DisplayVersion)` + "`t" + `$($_.Publisher)" }
  } catch {}
}
`

func collectWindowsSoftware(ctx context.Context) []model.SoftwareEntry {
	out, err := runCommand(ctx, powershellTimeout, "powershell", "-Command", windowsSoftwareScript)
	if err != nil {
		logger.Warn("windows software scan failed", zap.Error(err))
		return []model.SoftwareEntry{{Err: "Unable to scan Windows software"}}
	}
	return parseWindowsSoftwareOutput(out)
}

// parseWindowsSoftwareOutput parses the tab-separated registry listing.
func parseWindowsSoftwareOutput(out string) []model.SoftwareEntry {
	var software []model.SoftwareEntry

	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if parts[0] == "" {
			continue
		}
		entry := model.SoftwareEntry{
			Name:    parts[0],
			Version: Unknown,
			Vendor:  Unknown,
			Type:    "windows",
		}
		if len(parts) > 1 && parts[1] != "" {
			entry.Version = parts[1]
		}
		if len(parts) > 2 && parts[2] != "" {
			entry.Vendor = parts[2]
		}
		software = append(software, entry)
	}

	return software
}

func collectDarwinSoftware(ctx context.Context) []model.SoftwareEntry {
	var software []model.SoftwareEntry

	if out, err := runCommand(ctx, deviceToolTimeout, "ls", "/Applications"); err == nil {
		software = append(software, parseApplicationsOutput(out)...)
	}

	if out, err := runCommand(ctx, pkgManagerTimeout, "brew", "list", "--versions"); err == nil {
		software = append(software, parseBrewOutput(out)...)
	}

	return software
}

// parseApplicationsOutput turns an /Applications listing into entries, one
// per .app bundle.
func parseApplicationsOutput(out string) []model.SoftwareEntry {
	var software []model.SoftwareEntry

	for _, line := range strings.Split(out, "\n") {
		app := strings.TrimSpace(line)
		if !strings.HasSuffix(app, ".app") {
			continue
		}
		software = append(software, model.SoftwareEntry{
			Name:    strings.TrimSuffix(app, ".app"),
			Version: Unknown,
			Vendor:  Unknown,
			Type:    "macos_app",
		})
	}

	return software
}

// parseBrewOutput parses brew list --versions lines ("name version ...").
func parseBrewOutput(out string) []model.SoftwareEntry {
	var software []model.SoftwareEntry

	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		software = append(software, model.SoftwareEntry{
			Name:    parts[0],
			Version: parts[1],
			Vendor:  "Homebrew",
			Type:    "brew",
		})
	}

	return software
}
