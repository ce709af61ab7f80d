package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/template"
)

// ErrNoGroups indicates there is nothing to generate.
var ErrNoGroups = errors.New("no groups to process")

// ErrIncomplete indicates a run finished without processing every group.
var ErrIncomplete = errors.New("not all groups were processed")

// Params configures a run.
type Params struct {
	// BatchSize is the maximum number of persons per output document.
	BatchSize int
	// Workers bounds concurrent expansion within a batch.
	Workers int
	// OutputDir receives the batch documents.
	OutputDir string
	// Timestamp distinguishes this run's file names from other runs.
	Timestamp time.Time
	// Expand configures the template expander.
	Expand template.Params
}

// DefaultParams returns a batch size of 50 and two workers per CPU.
func DefaultParams() Params {
	return Params{
		BatchSize: 50,
		Workers:   DefaultWorkers(),
		Expand:    template.DefaultParams(),
	}
}

// DefaultWorkers returns two workers per available CPU.
func DefaultWorkers() int {
	return runtime.NumCPU() * 2
}

// Coordinator expands person groups against a shared template snapshot and
// writes one document per batch.
type Coordinator struct {
	snapshot *template.Snapshot
	params   Params
	logger   *slog.Logger
}

// NewCoordinator creates a coordinator. A nil logger discards output.
func NewCoordinator(snapshot *template.Snapshot, params Params, logger *slog.Logger) *Coordinator {
	if params.BatchSize <= 0 {
		params.BatchSize = 50
	}
	if params.Workers <= 0 {
		params.Workers = DefaultWorkers()
	}
	if params.Timestamp.IsZero() {
		params.Timestamp = time.Now()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{snapshot: snapshot, params: params, logger: logger}
}

// Run processes every group, batch after batch. Batches never overlap; a
// failed batch stops the run and leaves no file for that batch.
func (c *Coordinator) Run(ctx context.Context, groups []models.PersonGroup) ([]models.BatchResult, error) {
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}

	var (
		results   []models.BatchResult
		processed int
	)
	for _, b := range Partition(groups, c.params.BatchSize) {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := c.processBatch(ctx, b)
		if err != nil {
			return results, fmt.Errorf("batch %d-%d: %w", b.Start, b.End, err)
		}
		results = append(results, res)
		processed += res.Groups
	}

	if processed != len(groups) {
		return results, fmt.Errorf("%w: %d of %d", ErrIncomplete, processed, len(groups))
	}
	return results, nil
}

func (c *Coordinator) processBatch(ctx context.Context, b models.Batch) (models.BatchResult, error) {
	logger := c.logger.With("batch_start", b.Start, "batch_end", b.End)
	logger.Info("batch start", "groups", len(b.Groups))

	out, err := c.snapshot.NewOutput()
	if err != nil {
		return models.BatchResult{}, fmt.Errorf("create output: %w", err)
	}

	filled := make([]template.Result, len(b.Groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.params.Workers)

	for i, group := range b.Groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logger.Info("expanding", "person", group.Name, "records", len(group.Records))

			clone, err := c.snapshot.Checkout()
			if err != nil {
				return fmt.Errorf("checkout for %q: %w", group.Name, err)
			}
			res, err := template.Expand(group, clone, c.params.Expand)
			if err != nil {
				return fmt.Errorf("expand %q: %w", group.Name, err)
			}
			if !res.AnchorFound {
				logger.Warn("name placeholder not found", "person", group.Name)
			}

			filled[i] = res
			logger.Debug("expanded", "person", group.Name, "rows", res.Rows)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.BatchResult{}, err
	}

	result := models.BatchResult{Start: b.Start, End: b.End}
	for i, res := range filled {
		if err := out.Append(res.Doc); err != nil {
			return models.BatchResult{}, fmt.Errorf("merge %q: %w", b.Groups[i].Name, err)
		}
		result.Groups++
		result.Rows += res.Rows
		if !res.AnchorFound {
			result.MissingAnchors++
		}
	}
	out.Finalize()

	path := filepath.Join(c.params.OutputDir, OutputName(b.Start, b.End, c.params.Timestamp))
	n, err := out.Save(path)
	if err != nil {
		return models.BatchResult{}, fmt.Errorf("save %s: %w", path, err)
	}
	result.Path = path
	result.Bytes = n

	logger.Info("batch written", "path", path, "size", humanize.Bytes(uint64(n)), "persons", result.Groups)
	return result, nil
}
