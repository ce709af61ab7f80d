package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
)

// SharePolicy decides how a share is divided across co-names of one row.
type SharePolicy string

const (
	// ShareEven gives every co-name share/n.
	ShareEven SharePolicy = "even"
	// ShareExact rounds each part down to Precision decimals and gives the
	// remainder to the last co-name, so the parts sum to the row share.
	ShareExact SharePolicy = "exact"
)

// ParseSharePolicy validates a policy name.
func ParseSharePolicy(s string) (SharePolicy, error) {
	switch p := SharePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ShareEven, ShareExact:
		return p, nil
	case "":
		return ShareEven, nil
	default:
		return "", fmt.Errorf("invalid share policy: %s (must be even or exact)", s)
	}
}

// NormalizeParams configures row normalization.
type NormalizeParams struct {
	// SkipMarker is the name cell text meaning "no identified rights-holder".
	SkipMarker string
	// Separator splits a name cell listing several persons.
	Separator string
	// SharePolicy selects the division rule for split rows.
	SharePolicy SharePolicy
	// Precision is the number of decimals kept by ShareExact.
	Precision int
}

// DefaultNormalizeParams returns default normalization parameters.
func DefaultNormalizeParams() NormalizeParams {
	return NormalizeParams{
		SkipMarker:  "данные о правообладателе отсутствуют",
		Separator:   "/",
		SharePolicy: ShareEven,
		Precision:   6,
	}
}

// NormalizeStats counts what normalization did with the input rows.
type NormalizeStats struct {
	Rows          int
	Records       int
	Skipped       int
	ParseFailures int
}

// NormalizeRow turns one register row into zero or more ownership records.
func NormalizeRow(row models.RawRow, params NormalizeParams) []models.OwnershipRecord {
	records, _ := normalizeRow(row, params)
	return records
}

// Normalize normalizes all rows in order. Records split from one row stay
// adjacent.
func Normalize(rows []models.RawRow, params NormalizeParams) ([]models.OwnershipRecord, NormalizeStats) {
	stats := NormalizeStats{Rows: len(rows)}
	var records []models.OwnershipRecord

	for _, row := range rows {
		out, failures := normalizeRow(row, params)
		stats.ParseFailures += failures
		if len(out) == 0 {
			stats.Skipped++
			continue
		}
		records = append(records, out...)
	}

	stats.Records = len(records)
	return records, stats
}

func normalizeRow(row models.RawRow, params NormalizeParams) ([]models.OwnershipRecord, int) {
	if params.SkipMarker != "" && strings.TrimSpace(row.Name) == params.SkipMarker {
		return nil, 0
	}
	if strings.TrimSpace(row.ID) == "" {
		return nil, 0
	}

	failures := 0
	area, ok := ParseDecimal(row.Area)
	if !ok {
		failures++
	}
	share, ok := ParseDecimal(row.Share)
	if !ok {
		failures++
	}

	base := models.OwnershipRecord{
		RecordID:   row.ID,
		FlatNumber: row.Flat,
		Area:       area,
		Share:      share,
		Basis:      row.Basis,
		SourceRow:  row.R,
	}

	if params.Separator == "" || !strings.Contains(row.Name, params.Separator) {
		base.PersonName = row.Name
		return []models.OwnershipRecord{base}, failures
	}

	var names []string
	for _, part := range strings.Split(row.Name, params.Separator) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}

	parts := divideShare(share, len(names), params)
	records := make([]models.OwnershipRecord, len(names))
	for i, name := range names {
		rec := base
		rec.PersonName = name
		rec.Share = parts[i]
		records[i] = rec
	}
	return records, failures
}

// divideShare splits share into n parts under the configured policy.
func divideShare(share float64, n int, params NormalizeParams) []float64 {
	parts := make([]float64, n)
	if n == 0 {
		return parts
	}

	if params.SharePolicy != ShareExact {
		for i := range parts {
			parts[i] = share / float64(n)
		}
		return parts
	}

	// Divide in whole units of the precision; the remainder goes to the last part.
	scale := math.Pow10(params.Precision)
	units := int64(math.Round(share * scale))
	part, rem := units/int64(n), units%int64(n)
	for i := range parts {
		parts[i] = float64(part) / scale
	}
	parts[n-1] = float64(part+rem) / scale
	return parts
}
