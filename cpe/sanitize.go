// Package cpe converts collected inventory facts into CPE 2.3 identifiers.
//
// CPE 2.3 format: cpe:2.3:part:vendor:product:version:update:edition:language:sw_edition:target_sw:target_hw:other
// Part values: a = application, o = operating system, h = hardware device
//
// Every function in this package is a pure function over its inputs and the
// fixed lookup tables; the package holds no state between calls.
package cpe

import (
	"regexp"
	"strings"
)

// Wildcard is the CPE value meaning "unspecified"
const Wildcard = "*"

// unknownSentinel is the placeholder collectors emit when a value could not
// be determined. It degrades to the wildcard exactly like an empty value.
const unknownSentinel = "Unknown"

var (
	illegalChars   = regexp.MustCompile(`[^a-z0-9._-]`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// SanitizeValue normalizes an arbitrary text value into the CPE-legal
// character subset. Empty or "Unknown" values become the wildcard. The result
// is idempotent: SanitizeValue(SanitizeValue(x)) == SanitizeValue(x).
func SanitizeValue(value string) string {
	if value == "" || value == unknownSentinel {
		return Wildcard
	}

	v := strings.ToLower(value)
	v = illegalChars.ReplaceAllString(v, "_")
	v = underscoreRuns.ReplaceAllString(v, "_")
	v = strings.Trim(v, "_")

	if v == "" {
		return Wildcard
	}
	return v
}

// NormalizeVersion formats a version string for CPE use. A single leading
// v/V prefix is stripped before sanitizing.
func NormalizeVersion(version string) string {
	if version == "" || version == unknownSentinel {
		return Wildcard
	}

	if version[0] == 'v' || version[0] == 'V' {
		version = version[1:]
	}

	return SanitizeValue(version)
}
