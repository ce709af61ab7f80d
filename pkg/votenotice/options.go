// Package votenotice generates per-owner meeting notices from a co-owner
// register and a docx template.
package votenotice

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/batch"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/parser"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/template"
)

const (
	// DefaultInputRoot is the folder holding the template, the register, and
	// the generated documents.
	DefaultInputRoot = "input"
	// DefaultTemplateName is the template file name inside the input root.
	DefaultTemplateName = "template.docx"
	// DefaultRegisterName is the register file name inside the input root.
	DefaultRegisterName = "register.xlsx"
)

// LockPath returns the lock file guarding an absolute input root against
// concurrent runs. It lives in the temp directory so the input root only ever
// holds inputs and outputs.
func LockPath(root string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+root))
	return filepath.Join(os.TempDir(), "votenotice-"+id.String()+".lock")
}

// Options configures a generation run.
type Options struct {
	// InputRoot is the folder with the inputs; outputs are written there too.
	InputRoot string
	// TemplateName and RegisterName are resolved relative to InputRoot unless
	// absolute.
	TemplateName string
	RegisterName string
	// Read configures register columns and the first data row.
	Read parser.ReadParams
	// Normalize configures skip marker, name separator, and share division.
	Normalize parser.NormalizeParams
	// Expand configures the name anchor and the table data row.
	Expand template.Params
	// BatchSize is the maximum number of persons per output document.
	BatchSize int
	// Workers bounds concurrent expansion within a batch.
	Workers int
	// Logger receives progress lines. If nil, output is discarded.
	Logger *slog.Logger
	// Now returns the run timestamp. If nil, time.Now is used.
	Now func() time.Time
}

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		InputRoot:    DefaultInputRoot,
		TemplateName: DefaultTemplateName,
		RegisterName: DefaultRegisterName,
		Read:         parser.DefaultReadParams(),
		Normalize:    parser.DefaultNormalizeParams(),
		Expand:       template.DefaultParams(),
		BatchSize:    50,
		Workers:      batch.DefaultWorkers(),
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
