// Package docx loads, edits, and saves WordprocessingML (.docx) packages.
//
// Only word/document.xml is parsed; every other package part (styles,
// numbering, media, relationships) is carried through unchanged.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const documentPart = "word/document.xml"

// ErrNotDocx indicates the package has no main document part.
var ErrNotDocx = errors.New("not a docx package")

// ErrNoBody indicates the main document part has no w:body element.
var ErrNoBody = errors.New("document has no body")

// Part is one file inside the package.
type Part struct {
	Name   string
	Method uint16
	Data   []byte
}

// Document is an in-memory docx package.
type Document struct {
	// Parts are kept in archive order. The data of the main document part is
	// regenerated from Root on write.
	Parts  []Part
	Prolog []byte
	Root   *Node

	// placeholder and breaks are set on documents built by NewEmpty.
	placeholder *Node
	breaks      []*Node
}

// Load reads a docx file.
func Load(path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return read(&r.Reader)
}

// Read parses a docx package from r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return read(zr)
}

func read(r *zip.Reader) (*Document, error) {
	doc := &Document{}
	for _, f := range r.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		doc.Parts = append(doc.Parts, Part{Name: f.Name, Method: f.Method, Data: data})

		if f.Name == documentPart {
			prolog, root, err := parseXML(data)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", documentPart, err)
			}
			doc.Prolog = prolog
			doc.Root = root
		}
	}

	if doc.Root == nil {
		return nil, ErrNotDocx
	}
	if doc.Body() == nil {
		return nil, ErrNoBody
	}
	return doc, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Body returns the w:body element.
func (d *Document) Body() *Node {
	if d.Root == nil {
		return nil
	}
	return d.Root.Child("body")
}

// Clone returns an independent copy of the document tree. Package parts other
// than the main document are immutable and shared.
func (d *Document) Clone() (*Document, error) {
	root, err := d.Root.Copy()
	if err != nil {
		return nil, err
	}
	parts := make([]Part, len(d.Parts))
	copy(parts, d.Parts)
	return &Document{Parts: parts, Prolog: d.Prolog, Root: root}, nil
}

// WriteTo writes the package as a zip archive.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, p := range d.Parts {
		method := p.Method
		if method != zip.Store {
			method = zip.Deflate
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.Name, Method: method})
		if err != nil {
			return cw.n, err
		}

		if p.Name == documentPart {
			if err := writeXML(fw, d.Prolog, d.Root); err != nil {
				return cw.n, fmt.Errorf("write %s: %w", documentPart, err)
			}
			continue
		}
		if _, err := fw.Write(p.Data); err != nil {
			return cw.n, fmt.Errorf("write %s: %w", p.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// Bytes returns the serialized package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the package to path through a temporary file in the same
// directory, so a failed save never leaves a partial file at path.
func (d *Document) Save(path string) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	n, err := d.WriteTo(tmp)
	if err != nil {
		tmp.Close()
		cleanup()
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return 0, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return 0, err
	}
	return n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
