package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/votenotice-go/internal/testsupport"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/docx"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/template"
)

func makeGroups(n int) []models.PersonGroup {
	groups := make([]models.PersonGroup, n)
	for i := range groups {
		name := fmt.Sprintf("Person %03d", i)
		g := models.PersonGroup{Name: name}
		for j := 0; j <= i%3; j++ {
			g.Records = append(g.Records, models.OwnershipRecord{
				PersonName: name,
				FlatNumber: fmt.Sprintf("%d-%d", i, j),
				Area:       float64(10 + j),
				Share:      1,
				Basis:      "deed",
			})
		}
		groups[i] = g
	}
	return groups
}

func newCoordinator(t *testing.T, dir string, params Params) *Coordinator {
	t.Helper()
	path := testsupport.WriteTemplate(t, t.TempDir(), "template.docx")
	snapshot, err := template.Load(path)
	require.NoError(t, err)
	params.OutputDir = dir
	return NewCoordinator(snapshot, params, nil)
}

func TestPartition(t *testing.T) {
	tests := []struct {
		total, size int
		sizes       []int
	}{
		{0, 50, nil},
		{1, 50, []int{1}},
		{50, 50, []int{50}},
		{51, 50, []int{50, 1}},
		{120, 50, []int{50, 50, 20}},
		{150, 50, []int{50, 50, 50}},
		{5, 0, nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.size), func(t *testing.T) {
			groups := makeGroups(tt.total)
			batches := Partition(groups, tt.size)
			require.Len(t, batches, len(tt.sizes))

			seen := 0
			for i, b := range batches {
				assert.Equal(t, i, b.Index)
				assert.Equal(t, i*tt.size, b.Start)
				assert.Equal(t, b.Start+tt.size, b.End)
				assert.Len(t, b.Groups, tt.sizes[i])
				for j, g := range b.Groups {
					assert.Equal(t, groups[seen+j].Name, g.Name, "groups keep order without gaps")
				}
				seen += len(b.Groups)
			}
			if tt.size > 0 {
				assert.Equal(t, tt.total, seen)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	ts := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, fmt.Sprintf("output_100_150_%d.docx", ts.UnixNano()), OutputName(100, 150, ts))
}

func personOrder(t *testing.T, path string) ([]string, int) {
	t.Helper()
	doc, err := docx.Load(path)
	require.NoError(t, err)

	var names []string
	for _, p := range doc.Paragraphs() {
		if txt := p.Text(); len(txt) > 7 && txt[:7] == "Person " {
			names = append(names, txt)
		}
	}
	rows := 0
	for _, tbl := range doc.Tables() {
		rows += len(tbl.Rows()) - 2
	}
	return names, rows
}

func TestRunWritesOneFilePerBatch(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	params := DefaultParams()
	params.Timestamp = ts
	params.Workers = 8
	c := newCoordinator(t, dir, params)

	groups := makeGroups(120)
	results, err := c.Run(context.Background(), groups)
	require.NoError(t, err)
	require.Len(t, results, 3)

	ranges := [][2]int{{0, 50}, {50, 100}, {100, 150}}
	counts := []int{50, 50, 20}
	for i, res := range results {
		assert.Equal(t, ranges[i][0], res.Start)
		assert.Equal(t, ranges[i][1], res.End)
		assert.Equal(t, counts[i], res.Groups)
		assert.Equal(t, filepath.Join(dir, OutputName(res.Start, res.End, ts)), res.Path)
		assert.Zero(t, res.MissingAnchors)

		info, err := os.Stat(res.Path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), res.Bytes)

		names, rows := personOrder(t, res.Path)
		var want []string
		wantRows := 0
		for _, g := range groups[res.Start:min(res.End, len(groups))] {
			want = append(want, g.Name)
			wantRows += len(g.Records)
		}
		assert.Equal(t, want, names, "persons are merged in group order")
		assert.Equal(t, wantRows, rows)
		assert.Equal(t, wantRows, res.Rows)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRunIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	groups := makeGroups(7)

	var contents [][]string
	for i := 0; i < 2; i++ {
		params := DefaultParams()
		params.BatchSize = 10
		params.Timestamp = time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC)
		c := newCoordinator(t, dir, params)

		results, err := c.Run(context.Background(), groups)
		require.NoError(t, err)
		require.Len(t, results, 1)

		doc, err := docx.Load(results[0].Path)
		require.NoError(t, err)
		var cells []string
		for _, tbl := range doc.Tables() {
			for _, r := range tbl.Rows() {
				cells = append(cells, r.Texts()...)
			}
		}
		contents = append(contents, cells)
	}

	assert.Equal(t, contents[0], contents[1])
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "different timestamps never collide")
}

func TestRunNoGroups(t *testing.T) {
	c := newCoordinator(t, t.TempDir(), DefaultParams())
	_, err := c.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoGroups)
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	c := newCoordinator(t, dir, DefaultParams())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Run(ctx, makeGroups(3))
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunFailedBatchLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	params := DefaultParams()
	params.BatchSize = 2
	params.Expand.DataRowIndex = 9
	c := newCoordinator(t, dir, params)

	groups := makeGroups(4)
	results, err := c.Run(context.Background(), groups)
	require.ErrorIs(t, err, docx.ErrRowIndex)
	assert.Empty(t, results)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
