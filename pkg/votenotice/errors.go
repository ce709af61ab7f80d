package votenotice

import (
	"errors"
	"fmt"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/template"
)

// ErrMissingInput indicates the template or the register does not exist.
var ErrMissingInput = errors.New("input file not found")

// ErrEmptyResult indicates the register produced no persons. It is reported
// but is not a failure: there is simply nothing to generate.
var ErrEmptyResult = errors.New("no owners found in register")

// ErrMissingTable indicates the template has no table to expand.
var ErrMissingTable = template.ErrNoTable

// ErrRunLocked indicates another run holds the input root.
var ErrRunLocked = errors.New("another run is using the input root")

// GenerateError represents an error during a generation stage.
type GenerateError struct {
	Stage string // "resolve", "read", "template", "batch"
	Path  string
	Err   error
}

func (e *GenerateError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}

// NewGenerateError creates a new GenerateError.
func NewGenerateError(stage, path string, err error) *GenerateError {
	return &GenerateError{
		Stage: stage,
		Path:  path,
		Err:   err,
	}
}
