// Package parser turns a co-owner register into grouped ownership records.
package parser

import (
	"errors"
	"strings"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// ErrNoWorksheet indicates the workbook has no sheets.
var ErrNoWorksheet = errors.New("workbook has no worksheet")

// Columns holds 1-based column indices of the register fields.
type Columns struct {
	ID    int `toml:"id"`
	Flat  int `toml:"flat"`
	Area  int `toml:"area"`
	Basis int `toml:"basis"`
	Name  int `toml:"name"`
	Share int `toml:"share"`
}

// DefaultColumns returns the register layout: the flat number doubles as the
// record id.
func DefaultColumns() Columns {
	return Columns{
		ID:    1,
		Flat:  1,
		Area:  3,
		Basis: 4,
		Name:  5,
		Share: 6,
	}
}

// ReadParams configures register reading.
type ReadParams struct {
	Columns Columns
	// FirstDataRow is the 1-based row where data starts.
	FirstDataRow int
}

// DefaultReadParams returns default reading parameters.
func DefaultReadParams() ReadParams {
	return ReadParams{
		Columns:      DefaultColumns(),
		FirstDataRow: 2,
	}
}

// ReadRegister reads the first worksheet of an xlsx file.
func ReadRegister(path string, params ReadParams) ([]models.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}
	return ExtractRows(f, sheets[0], params)
}

// ExtractRows extracts register rows from a sheet, starting at
// params.FirstDataRow. Cell text is the formatted value as displayed, NFC
// normalized so names typed with combining marks group with precomposed ones.
func ExtractRows(f *excelize.File, sheetName string, params ReadParams) ([]models.RawRow, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	first := params.FirstDataRow
	if first < 1 {
		first = 1
	}

	var result []models.RawRow
	for rowIdx := first - 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		c := params.Columns
		result = append(result, models.RawRow{
			R:     rowIdx + 1,
			ID:    cellText(row, c.ID),
			Flat:  cellText(row, c.Flat),
			Area:  cellText(row, c.Area),
			Name:  cellText(row, c.Name),
			Basis: cellText(row, c.Basis),
			Share: cellText(row, c.Share),
		})
	}

	return result, nil
}

// cellText returns the text at a 1-based column, or "" past the row's end.
func cellText(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	s := row[col-1]
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	return strings.ReplaceAll(s, "\u00a0", " ")
}
