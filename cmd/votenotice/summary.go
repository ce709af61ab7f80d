package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
)

func renderSummary(s *models.RunSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Run %s: %d rows, %d records, %d persons (%d rows skipped, %d numbers unparsable)\n",
		s.RunID, s.Rows, s.Records, s.Groups, s.SkippedRows, s.ParseFailures)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Batch", "Persons", "Rows", "No name", "File", "Size"})
	for _, b := range s.Batches {
		tw.AppendRow(table.Row{
			fmt.Sprintf("%d-%d", b.Start, b.End),
			strconv.Itoa(b.Groups),
			strconv.Itoa(b.Rows),
			strconv.Itoa(b.MissingAnchors),
			filepath.Base(b.Path),
			humanize.Bytes(uint64(b.Bytes)),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	sb.WriteString(tw.Render())
	return sb.String()
}
