package template

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/votenotice-go/internal/testsupport"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/docx"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
)

func loadSnapshot(t *testing.T, opts ...testsupport.TemplateOption) *Snapshot {
	t.Helper()
	path := testsupport.WriteTemplate(t, t.TempDir(), "template.docx", opts...)
	s, err := Load(path)
	require.NoError(t, err)
	return s
}

func group(name string, n int) models.PersonGroup {
	g := models.PersonGroup{Name: name}
	for i := 0; i < n; i++ {
		g.Records = append(g.Records, models.OwnershipRecord{
			PersonName: name,
			FlatNumber: fmt.Sprintf("%d", 10+i),
			Area:       45.5 + float64(i),
			Share:      0.5,
			Basis:      fmt.Sprintf("deed-%d", i),
		})
	}
	return g
}

func dataRows(t *testing.T, doc *docx.Document, from int) [][]string {
	t.Helper()
	tables := doc.Tables()
	require.NotEmpty(t, tables)
	var out [][]string
	for _, r := range tables[0].Rows()[from:] {
		out = append(out, r.Texts())
	}
	return out
}

func TestLoadRequiresTable(t *testing.T) {
	path := testsupport.WriteTemplate(t, t.TempDir(), "template.docx", testsupport.WithoutTable())
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestExpandSingleRecord(t *testing.T) {
	s := loadSnapshot(t)
	clone, err := s.Checkout()
	require.NoError(t, err)

	g := models.PersonGroup{Name: "Ivanov", Records: []models.OwnershipRecord{
		{PersonName: "Ivanov", RecordID: "1", FlatNumber: "12", Area: 45.5, Share: 1, Basis: "deed"},
	}}
	res, err := Expand(g, clone, DefaultParams())
	require.NoError(t, err)

	assert.True(t, res.AnchorFound)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, [][]string{{"12", "45.5", "1", "deed", ""}}, dataRows(t, res.Doc, 2))

	_, ok := res.Doc.FindParagraph("Ivanov")
	assert.True(t, ok)
}

func TestExpandManyRecords(t *testing.T) {
	s := loadSnapshot(t)

	for _, n := range []int{2, 3, 7} {
		t.Run(fmt.Sprintf("%d records", n), func(t *testing.T) {
			clone, err := s.Checkout()
			require.NoError(t, err)

			res, err := Expand(group("Petrov", n), clone, DefaultParams())
			require.NoError(t, err)

			rows := dataRows(t, res.Doc, 2)
			require.Len(t, rows, n)
			for i, r := range rows {
				assert.Equal(t, []string{
					fmt.Sprintf("%d", 10+i),
					FormatDecimal(45.5 + float64(i)),
					"0.5",
					fmt.Sprintf("deed-%d", i),
					"",
				}, r)
			}

			// Header rows are untouched.
			header := res.Doc.Tables()[0].Rows()[0].Texts()
			assert.Equal(t, "h0.0", header[0])
		})
	}
}

func TestExpandDoesNotTouchSnapshot(t *testing.T) {
	s := loadSnapshot(t)
	clone, err := s.Checkout()
	require.NoError(t, err)
	_, err = Expand(group("Sidorov", 4), clone, DefaultParams())
	require.NoError(t, err)

	again, err := s.Checkout()
	require.NoError(t, err)
	assert.Len(t, again.Tables()[0].Rows(), 3)
	_, ok := again.FindParagraph(DefaultParams().NameAnchor)
	assert.True(t, ok)
}

func TestExpandMissingAnchorIsNotFatal(t *testing.T) {
	s := loadSnapshot(t, testsupport.WithAnchor(""))
	clone, err := s.Checkout()
	require.NoError(t, err)

	res, err := Expand(group("Kozlov", 1), clone, DefaultParams())
	require.NoError(t, err)
	assert.False(t, res.AnchorFound)
	assert.Len(t, dataRows(t, res.Doc, 2), 1)
}

func TestExpandCustomDataRow(t *testing.T) {
	s := loadSnapshot(t, testsupport.WithHeaderRows(1))
	clone, err := s.Checkout()
	require.NoError(t, err)

	params := DefaultParams()
	params.DataRowIndex = 1
	res, err := Expand(group("Orlov", 2), clone, params)
	require.NoError(t, err)
	assert.Len(t, dataRows(t, res.Doc, 1), 2)
}

func TestExpandErrors(t *testing.T) {
	s := loadSnapshot(t)

	clone, err := s.Checkout()
	require.NoError(t, err)
	_, err = Expand(models.PersonGroup{Name: "Nobody"}, clone, DefaultParams())
	assert.ErrorIs(t, err, ErrEmptyGroup)

	clone, err = s.Checkout()
	require.NoError(t, err)
	params := DefaultParams()
	params.DataRowIndex = 9
	_, err = Expand(group("X", 2), clone, params)
	assert.ErrorIs(t, err, docx.ErrRowIndex)

	narrow := loadSnapshot(t, testsupport.WithColumns(3))
	clone, err = narrow.Checkout()
	require.NoError(t, err)
	_, err = Expand(group("Y", 1), clone, DefaultParams())
	assert.ErrorIs(t, err, ErrTooFewColumns)
}

func TestExpandFourColumnTable(t *testing.T) {
	s := loadSnapshot(t, testsupport.WithColumns(4))
	clone, err := s.Checkout()
	require.NoError(t, err)

	res, err := Expand(group("Z", 1), clone, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"10", "45.5", "0.5", "deed-0"}}, dataRows(t, res.Doc, 2))
}

func TestCheckoutConcurrent(t *testing.T) {
	s := loadSnapshot(t)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clone, err := s.Checkout()
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = Expand(group(fmt.Sprintf("P%d", i), i+1), clone, DefaultParams())
		}()
	}
	wg.Wait()

	for i, res := range results {
		require.NoError(t, errs[i])
		assert.Len(t, dataRows(t, res.Doc, 2), i+1)
		_, ok := res.Doc.FindParagraph(fmt.Sprintf("P%d", i))
		assert.True(t, ok)
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{45.5, "45.5"},
		{1, "1"},
		{0.5, "0.5"},
		{0, "0"},
		{1234.25, "1234.25"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDecimal(tt.input))
	}
}
