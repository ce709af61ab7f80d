// Package models defines data structures for co-owner notice generation.
package models

// RawRow is one spreadsheet row reduced to the cells the normalizer reads.
type RawRow struct {
	// R is the row index (1-based) in the source worksheet.
	R int `json:"r"`
	// ID is the source record identifier. Empty rows are not ownership records.
	ID string `json:"id"`
	// Flat is the flat (premises) number.
	Flat string `json:"flat"`
	// Area is the unparsed area text.
	Area string `json:"area"`
	// Name is the rights-holder cell, possibly listing several names.
	Name string `json:"name"`
	// Basis is the legal basis text.
	Basis string `json:"basis"`
	// Share is the unparsed ownership share text.
	Share string `json:"share"`
}

// OwnershipRecord is one (person, property, share) fact derived from a row.
type OwnershipRecord struct {
	// PersonName is the trimmed rights-holder name.
	PersonName string `json:"person_name"`
	// RecordID is the source row identifier.
	RecordID string `json:"record_id"`
	// FlatNumber is the flat number as written in the register.
	FlatNumber string `json:"flat_number"`
	// Area is the premises area (0 when the cell could not be parsed).
	Area float64 `json:"area"`
	// Share is the ownership share after division across co-names.
	Share float64 `json:"share"`
	// Basis is the legal basis text.
	Basis string `json:"basis"`
	// SourceRow is the worksheet row the record came from.
	SourceRow int `json:"source_row"`
}
