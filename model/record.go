// Package model - CPERecord defines the output record of the conversion engine
// and the ScanReport document that wraps one scan run for export and storage.
package model

import (
	"time"
)

// CPERecord is one converted inventory component. CPEString is derived from
// the other fields plus the part code and is never edited after construction.
type CPERecord struct {
	Category    string `json:"category"`
	DisplayName string `json:"name"`
	Vendor      string `json:"vendor"`
	Product     string `json:"product"`
	Version     string `json:"version"`
	CPEString   string `json:"cpe"`
	Purl        string `json:"purl,omitempty"` // software records only
}

// ScanReport groups the records of a single scan run for export, push and storage
type ScanReport struct {
	Key      string      `json:"_key,omitempty"`
	ObjType  string      `json:"objtype,omitempty"`
	ReportID string      `json:"report_id"`
	Hostname string      `json:"hostname"`
	ScanTime time.Time   `json:"scantime"`
	Records  []CPERecord `json:"records"`
}

// NewScanReport is the constructor that sets the appropriate default values
func NewScanReport() *ScanReport {
	return &ScanReport{
		ObjType:  "ScanReport",
		ScanTime: time.Now().UTC(),
	}
}
