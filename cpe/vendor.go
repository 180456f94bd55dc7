package cpe

import "strings"

// vendorMapping binds a lowercase keyword to the canonical vendor it implies.
// Tables are ordered slices, not maps: matching is first-match-wins and the
// scan order is part of the package contract.
type vendorMapping struct {
	keyword string
	vendor  string
}

// softwareVendors maps well-known product keywords to their vendor. Scanned
// in order against the lowercased product name.
var softwareVendors = []vendorMapping{
	{"microsoft", "microsoft"},
	{"google", "google"},
	{"mozilla", "mozilla"},
	{"apple", "apple"},
	{"oracle", "oracle"},
	{"adobe", "adobe"},
	{"canonical", "canonical"},
	{"redhat", "redhat"},
	{"red hat", "redhat"},
	{"debian", "debian"},
	{"ubuntu", "canonical"},
	{"fedora", "fedoraproject"},
	{"centos", "centos"},
	{"suse", "suse"},
	{"intel", "intel"},
	{"amd", "amd"},
	{"nvidia", "nvidia"},
	{"linux", "linux"},
	{"python", "python"},
	{"node", "nodejs"},
	{"nodejs", "nodejs"},
}

// hardwareVendors holds vendor brand names for device-name matching.
var hardwareVendors = []vendorMapping{
	{"intel", "intel"},
	{"amd", "amd"},
	{"nvidia", "nvidia"},
	{"realtek", "realtek"},
	{"broadcom", "broadcom"},
	{"qualcomm", "qualcomm"},
	{"marvell", "marvell"},
	{"samsung", "samsung"},
	{"western digital", "western_digital"},
	{"seagate", "seagate"},
	{"sandisk", "sandisk"},
	{"kingston", "kingston"},
	{"corsair", "corsair"},
	{"asus", "asus"},
	{"msi", "msi"},
	{"gigabyte", "gigabyte"},
	{"asrock", "asrock"},
	{"dell", "dell"},
	{"hp", "hp"},
	{"lenovo", "lenovo"},
	{"acer", "acer"},
	{"apple", "apple"},
	{"microsoft", "microsoft"},
	{"logitech", "logitech"},
	{"razer", "razer"},
	{"creative", "creative"},
	{"conexant", "conexant"},
	{"via", "via"},
	{"linux foundation", "linux"},
}

// productAliases maps product-line brand names to their owning vendor. Brand
// and product names are separate namespaces: this table is consulted only
// after hardwareVendors finds no match, so a device named "AMD Radeon"
// resolves through the vendor table while a bare "Radeon HD" resolves here.
var productAliases = []vendorMapping{
	{"ati", "amd"},
	{"radeon", "amd"},
	{"geforce", "nvidia"},
}

// lookupDistroVendor returns the canonical vendor for an exact distro ID
// (e.g. "ubuntu" -> "canonical"), using the same table as software matching.
func lookupDistroVendor(distroID string) (string, bool) {
	for _, m := range softwareVendors {
		if m.keyword == distroID {
			return m.vendor, true
		}
	}
	return "", false
}

// ResolveSoftwareVendor infers the vendor of a software product. An explicit
// hint wins unchanged; the caller sanitizes at assembly time. Otherwise the
// keyword table is scanned against the lowercased name, and as a last resort
// the sanitized first whitespace-delimited token of the name is used.
func ResolveSoftwareVendor(name, hint string) string {
	if hint != "" && hint != unknownSentinel {
		return hint
	}

	lower := strings.ToLower(name)
	for _, m := range softwareVendors {
		if strings.Contains(lower, m.keyword) {
			return m.vendor
		}
	}

	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "unknown"
	}
	return SanitizeValue(fields[0])
}

// ResolveHardwareVendor infers the vendor of a hardware device from its name,
// trying vendor brand names first and product-line aliases second.
func ResolveHardwareVendor(name string) string {
	if name == "" {
		return "unknown"
	}

	lower := strings.ToLower(name)

	for _, m := range hardwareVendors {
		if strings.Contains(lower, m.keyword) {
			return m.vendor
		}
	}

	for _, m := range productAliases {
		if strings.Contains(lower, m.keyword) {
			return m.vendor
		}
	}

	return "unknown"
}
