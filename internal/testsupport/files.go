// Package testsupport builds docx templates and xlsx registers for tests.
package testsupport

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Anchor is the default name placeholder: 82 underscores.
var Anchor = strings.Repeat("_", 82)

// TemplateOption customizes the generated template.
type TemplateOption func(*templateBuilder)

type templateBuilder struct {
	anchor     string
	noTable    bool
	noSection  bool
	headerRows int
	columns    int
}

// WithAnchor sets the name placeholder text. An empty anchor omits the
// placeholder paragraph.
func WithAnchor(anchor string) TemplateOption {
	return func(b *templateBuilder) { b.anchor = anchor }
}

// WithoutTable omits the table.
func WithoutTable() TemplateOption {
	return func(b *templateBuilder) { b.noTable = true }
}

// WithoutSection omits the body section properties.
func WithoutSection() TemplateOption {
	return func(b *templateBuilder) { b.noSection = true }
}

// WithHeaderRows sets the number of header rows before the data row.
func WithHeaderRows(n int) TemplateOption {
	return func(b *templateBuilder) { b.headerRows = n }
}

// WithColumns sets the number of table columns.
func WithColumns(n int) TemplateOption {
	return func(b *templateBuilder) { b.columns = n }
}

// DocumentXML returns the main document part of a notice template.
func DocumentXML(opts ...TemplateOption) string {
	b := &templateBuilder{anchor: Anchor, headerRows: 2, columns: 5}
	for _, opt := range opts {
		opt(b)
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`)
	sb.WriteString(`<w:body>`)
	sb.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Notice of the general meeting</w:t></w:r></w:p>`)

	if b.anchor != "" {
		// Word routinely splits long underscore runs; keep the fixture honest.
		half := len(b.anchor) / 2
		fmt.Fprintf(&sb, `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t>%s</w:t></w:r><w:r><w:rPr><w:i/></w:rPr><w:t>%s</w:t></w:r></w:p>`,
			b.anchor[:half], b.anchor[half:])
	}

	if !b.noTable {
		sb.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tblGrid>`)
		for c := 0; c < b.columns; c++ {
			sb.WriteString(`<w:gridCol w:w="1800"/>`)
		}
		sb.WriteString(`</w:tblGrid>`)
		for r := 0; r < b.headerRows; r++ {
			sb.WriteString(`<w:tr>`)
			for c := 0; c < b.columns; c++ {
				fmt.Fprintf(&sb, `<w:tc><w:tcPr><w:tcW w:w="1800" w:type="dxa"/></w:tcPr><w:p><w:r><w:t>h%d.%d</w:t></w:r></w:p></w:tc>`, r, c)
			}
			sb.WriteString(`</w:tr>`)
		}
		sb.WriteString(`<w:tr><w:trPr><w:trHeight w:val="400"/></w:trPr>`)
		for c := 0; c < b.columns; c++ {
			sb.WriteString(`<w:tc><w:tcPr><w:tcW w:w="1800" w:type="dxa"/></w:tcPr><w:p><w:pPr><w:jc w:val="center"/><w:rPr><w:sz w:val="20"/></w:rPr></w:pPr></w:p></w:tc>`)
		}
		sb.WriteString(`</w:tr></w:tbl>`)
	}

	sb.WriteString(`<w:p><w:r><w:t xml:space="preserve">Signature: </w:t></w:r></w:p>`)
	if !b.noSection {
		sb.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1134" w:right="850" w:bottom="1134" w:left="1701"/></w:sectPr>`)
	}
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/></Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

const styles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/></w:style><w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/></w:style></w:styles>`

// WriteDocx writes a docx package with the given main document part.
func WriteDocx(t testing.TB, path, documentXML string) string {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", packageRels},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", documentRels},
		{"word/styles.xml", styles},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", p.name, err)
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			t.Fatalf("zip write %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return path
}

// WriteTemplate writes a notice template to dir/name.
func WriteTemplate(t testing.TB, dir, name string, opts ...TemplateOption) string {
	t.Helper()
	return WriteDocx(t, filepath.Join(dir, name), DocumentXML(opts...))
}

// RegisterHeader mirrors the register's column order: id/flat, -, area,
// basis, name, share.
var RegisterHeader = []any{"Flat", "Cadastral", "Area", "Basis", "Owner", "Share"}

// WriteRegister writes an xlsx register with a header row followed by rows.
func WriteRegister(t testing.TB, path string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	all := append([][]any{RegisterHeader}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save register: %v", err)
	}
	return path
}

// OwnerRow builds a register row in the default column layout.
func OwnerRow(flat, area, basis, name, share string) []any {
	return []any{flat, "", area, basis, name, share}
}
