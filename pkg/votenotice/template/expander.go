package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/docx"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
)

// ErrEmptyGroup indicates a group without records.
var ErrEmptyGroup = errors.New("group has no records")

// ErrTooFewColumns indicates the data row cannot hold a record.
var ErrTooFewColumns = errors.New("data row has too few cells")

// Data row columns.
const (
	colFlat = iota
	colArea
	colShare
	colBasis
	colReserved
)

// Params configures expansion.
type Params struct {
	// NameAnchor is the exact text of the paragraph replaced by the name.
	NameAnchor string
	// DataRowIndex is the 0-based index of the template's data row, i.e. the
	// number of header rows above it.
	DataRowIndex int
}

// DefaultParams returns the default anchor (82 underscores) and data row.
func DefaultParams() Params {
	return Params{
		NameAnchor:   strings.Repeat("_", 82),
		DataRowIndex: 2,
	}
}

// Result is a filled template copy.
type Result struct {
	Doc         *docx.Document
	Rows        int
	AnchorFound bool
}

// Expand fills clone for group: it substitutes the name anchor, grows the
// first table to one data row per record, and writes each record's cells.
// clone must be a private copy; it is modified in place.
func Expand(group models.PersonGroup, clone *docx.Document, params Params) (Result, error) {
	n := len(group.Records)
	if n == 0 {
		return Result{}, ErrEmptyGroup
	}

	res := Result{Doc: clone, Rows: n}

	if params.NameAnchor != "" {
		if p, ok := clone.FindParagraph(params.NameAnchor); ok {
			res.AnchorFound = p.ReplaceText(params.NameAnchor, group.Name)
		}
	}

	tables := clone.Tables()
	if len(tables) == 0 {
		return Result{}, ErrNoTable
	}
	table := tables[0]

	for i := 1; i < n; i++ {
		if _, err := table.InsertRowAfter(params.DataRowIndex); err != nil {
			return Result{}, fmt.Errorf("insert row: %w", err)
		}
	}

	rows := table.Rows()
	for i, rec := range group.Records {
		idx := params.DataRowIndex + i
		if idx >= len(rows) {
			return Result{}, fmt.Errorf("%w: %d", docx.ErrRowIndex, idx)
		}
		if err := fillRow(rows[idx], rec); err != nil {
			return Result{}, fmt.Errorf("row %d: %w", idx, err)
		}
	}

	return res, nil
}

func fillRow(row docx.Row, rec models.OwnershipRecord) error {
	cells := row.Cells()
	if len(cells) <= colBasis {
		return fmt.Errorf("%w: %d", ErrTooFewColumns, len(cells))
	}

	values := []string{
		colFlat:     rec.FlatNumber,
		colArea:     FormatDecimal(rec.Area),
		colShare:    FormatDecimal(rec.Share),
		colBasis:    rec.Basis,
		colReserved: "",
	}
	for i, v := range values {
		if i >= len(cells) {
			break
		}
		if err := cells[i].InsertText(v); err != nil {
			return err
		}
	}
	return nil
}

// FormatDecimal renders v in its shortest decimal form ("45.5", "1", "0.5").
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
