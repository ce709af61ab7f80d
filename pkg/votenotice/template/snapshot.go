// Package template clones the notice template and fills it per person.
package template

import (
	"errors"
	"sync"

	"github.com/ukaji3/votenotice-go/pkg/votenotice/docx"
)

// ErrNoTable indicates the template has no table to expand.
var ErrNoTable = errors.New("template has no table")

// Snapshot holds the loaded template for a whole run. The master is never
// handed out; workers receive private deep copies through Checkout, and only
// the copy step is serialized.
type Snapshot struct {
	mu     sync.Mutex
	master *docx.Document
}

// Load reads a template file and verifies it has a table.
func Load(path string) (*Snapshot, error) {
	doc, err := docx.Load(path)
	if err != nil {
		return nil, err
	}
	return New(doc)
}

// New wraps an already loaded template. The snapshot takes ownership of doc.
func New(doc *docx.Document) (*Snapshot, error) {
	if len(doc.Tables()) == 0 {
		return nil, ErrNoTable
	}
	return &Snapshot{master: doc}, nil
}

// Checkout returns a private copy of the template.
func (s *Snapshot) Checkout() (*docx.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.master.Clone()
}

// NewOutput returns an empty document sharing the template's package parts.
func (s *Snapshot) NewOutput() (*docx.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return docx.NewEmpty(s.master)
}
