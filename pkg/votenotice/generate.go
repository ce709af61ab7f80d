package votenotice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/batch"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/parser"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/template"
)

// Generate reads the register, groups its owners, and writes one notice
// document per batch into the input root.
//
// Missing inputs and a template without a table abort the run before any
// output is written. An empty register returns the summary together with
// ErrEmptyResult.
func Generate(ctx context.Context, opts Options) (*models.RunSummary, error) {
	ts := opts.now()
	summary := &models.RunSummary{RunID: uuid.NewString(), Timestamp: ts}
	logger := opts.logger().With("run_id", summary.RunID)

	root, err := filepath.Abs(opts.InputRoot)
	if err != nil {
		return summary, NewGenerateError("resolve", opts.InputRoot, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return summary, NewGenerateError("resolve", root, err)
	}

	lock := flock.New(LockPath(root))
	ok, err := lock.TryLock()
	if err != nil {
		return summary, NewGenerateError("resolve", root, fmt.Errorf("acquire lock: %w", err))
	}
	if !ok {
		return summary, NewGenerateError("resolve", root, ErrRunLocked)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", "error", err)
		}
	}()

	templatePath := resolve(root, opts.TemplateName)
	registerPath := resolve(root, opts.RegisterName)
	for _, path := range []string{templatePath, registerPath} {
		if err := requireFile(path); err != nil {
			return summary, NewGenerateError("resolve", path, err)
		}
	}

	rows, err := parser.ReadRegister(registerPath, opts.Read)
	if err != nil {
		return summary, NewGenerateError("read", registerPath, err)
	}
	records, stats := parser.Normalize(rows, opts.Normalize)
	groups := parser.GroupByPerson(records)

	summary.Rows = stats.Rows
	summary.Records = stats.Records
	summary.SkippedRows = stats.Skipped
	summary.ParseFailures = stats.ParseFailures
	summary.Groups = len(groups)

	logger.Info("register read",
		"path", registerPath,
		"rows", stats.Rows,
		"records", stats.Records,
		"skipped", stats.Skipped,
		"persons", len(groups),
	)
	if stats.ParseFailures > 0 {
		logger.Warn("unparsable numbers defaulted to zero", "cells", stats.ParseFailures)
	}

	if len(groups) == 0 {
		logger.Warn("no owners found, nothing to generate")
		return summary, ErrEmptyResult
	}

	snapshot, err := template.Load(templatePath)
	if err != nil {
		return summary, NewGenerateError("template", templatePath, err)
	}

	coordinator := batch.NewCoordinator(snapshot, batch.Params{
		BatchSize: opts.BatchSize,
		Workers:   opts.Workers,
		OutputDir: root,
		Timestamp: ts,
		Expand:    opts.Expand,
	}, logger)

	results, err := coordinator.Run(ctx, groups)
	summary.Batches = results
	for _, r := range results {
		summary.Processed += r.Groups
	}
	if err != nil {
		return summary, NewGenerateError("batch", root, err)
	}

	logger.Info("run complete", "documents", len(results), "persons", summary.Processed)
	return summary, nil
}

func resolve(root, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, name)
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrMissingInput
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: is a directory", ErrMissingInput)
	}
	return nil
}
