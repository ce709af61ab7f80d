package models

import "time"

// Batch is a contiguous slice of the ordered group list.
type Batch struct {
	// Index is the 0-based batch number.
	Index int `json:"index"`
	// Start is the offset of the first group (inclusive).
	Start int `json:"start"`
	// End is Start plus the configured batch size. The last batch may hold
	// fewer groups than End-Start.
	End int `json:"end"`
	// Groups are the groups assigned to this batch.
	Groups []PersonGroup `json:"groups"`
}

// BatchResult describes one persisted output document.
type BatchResult struct {
	// Start and End are the batch's group offsets.
	Start int `json:"start"`
	End   int `json:"end"`
	// Groups is the number of persons merged into the document.
	Groups int `json:"groups"`
	// Rows is the number of table data rows written across all persons.
	Rows int `json:"rows"`
	// MissingAnchors counts persons whose clone had no name placeholder.
	MissingAnchors int `json:"missing_anchors"`
	// Path is the written file.
	Path string `json:"path"`
	// Bytes is the written file size.
	Bytes int64 `json:"bytes"`
}

// RunSummary reports what one run produced.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	// Rows is the number of data rows read from the register.
	Rows int `json:"rows"`
	// Records is the number of ownership records after splitting.
	Records int `json:"records"`
	// SkippedRows counts rows discarded for an empty id or the skip marker.
	SkippedRows int `json:"skipped_rows"`
	// ParseFailures counts area/share cells that defaulted to zero.
	ParseFailures int `json:"parse_failures"`
	// Groups is the number of distinct persons.
	Groups int `json:"groups"`
	// Processed is the number of groups merged into an output document.
	Processed int `json:"processed"`
	// Batches lists the written documents in batch order.
	Batches []BatchResult `json:"batches"`
}
