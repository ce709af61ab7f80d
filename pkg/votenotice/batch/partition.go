// Package batch drives notice generation over fixed-size batches of persons.
package batch

import (
	"fmt"
	"time"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
)

// Partition slices groups into contiguous batches of at most size groups.
// End is always Start+size, so the last batch's range may extend past the
// number of groups.
func Partition(groups []models.PersonGroup, size int) []models.Batch {
	if size <= 0 || len(groups) == 0 {
		return nil
	}

	batches := make([]models.Batch, 0, (len(groups)+size-1)/size)
	for start := 0; start < len(groups); start += size {
		end := min(start+size, len(groups))
		batches = append(batches, models.Batch{
			Index:  len(batches),
			Start:  start,
			End:    start + size,
			Groups: groups[start:end],
		})
	}
	return batches
}

// OutputName returns the file name of a batch document.
func OutputName(start, end int, ts time.Time) string {
	return fmt.Sprintf("output_%d_%d_%d.docx", start, end, ts.UTC().UnixNano())
}
