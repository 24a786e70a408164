package domain

import "time"

// ScanSummary is the short record kept for every scan run.
type ScanSummary struct {
	ID         string    `json:"id"` // ULID, sortable by creation time
	File       string    `json:"file"`
	Format     string    `json:"format"`
	Words      int       `json:"words"`
	Known      int       `json:"known"`
	Unknown    int       `json:"unknown"`
	Exceptions int       `json:"exceptions"`
	Suppressed []int64   `json:"suppressed,omitempty"`
	Cached     bool      `json:"cached"`
	ScannedAt  time.Time `json:"scanned_at"`
}
