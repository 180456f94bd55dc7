package cpe

import "strings"

// Part is the one-character CPE field distinguishing the component kind.
type Part string

// Part codes defined by CPE 2.3
const (
	PartApplication Part = "a"
	PartOS          Part = "o"
	PartHardware    Part = "h"
)

// Attributes holds the ten CPE fields that follow the part code. Zero values
// degrade to the wildcard during assembly, so callers only set what they know.
type Attributes struct {
	Vendor    string
	Product   string
	Version   string
	Update    string
	Edition   string
	Language  string
	SWEdition string
	TargetSW  string
	TargetHW  string
	Other     string
}

// Assemble composes a CPE 2.3 string from a part code and attributes. The
// part is passed through unsanitized; every other field goes through the
// sanitizer (the version through the version normalizer). Assemble is total:
// any input yields a well-formed 13-field string.
func Assemble(part Part, attrs Attributes) string {
	fields := []string{
		"cpe", "2.3", string(part),
		SanitizeValue(attrs.Vendor),
		SanitizeValue(attrs.Product),
		NormalizeVersion(attrs.Version),
		SanitizeValue(attrs.Update),
		SanitizeValue(attrs.Edition),
		SanitizeValue(attrs.Language),
		SanitizeValue(attrs.SWEdition),
		SanitizeValue(attrs.TargetSW),
		SanitizeValue(attrs.TargetHW),
		SanitizeValue(attrs.Other),
	}

	return strings.Join(fields, ":")
}
