package models

import "time"

// ScanError records a per-path failure that did not abort the scan.
type ScanError struct {
	Code    string    `json:"code"`
	Path    string    `json:"path"`
	Message string    `json:"message"`
	When    time.Time `json:"when"`
}

// ScanResult is the full outcome of one Assembler.Scan invocation.
// Partial results are well-formed: a cancelled or degraded scan still
// yields valid games and accumulated errors.
type ScanResult struct {
	Games              []DetectedGame `json:"games"`
	Duration           time.Duration  `json:"duration"`
	FilesScanned       int            `json:"files_scanned"`
	DirectoriesScanned int            `json:"directories_scanned"`
	Errors             []ScanError    `json:"errors,omitempty"`
}
