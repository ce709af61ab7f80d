package docx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRowIndex indicates a row index outside the table.
var ErrRowIndex = errors.New("row index out of range")

// Table wraps a w:tbl element.
type Table struct {
	node *Node
}

// Row wraps a w:tr element.
type Row struct {
	node *Node
}

// Cell wraps a w:tc element.
type Cell struct {
	node *Node
}

// Tables returns the top-level body tables in document order.
func (d *Document) Tables() []Table {
	body := d.Body()
	if body == nil {
		return nil
	}

	var out []Table
	for _, n := range body.ChildrenNamed("tbl") {
		out = append(out, Table{node: n})
	}
	return out
}

// Rows returns the table rows.
func (t Table) Rows() []Row {
	var out []Row
	for _, n := range t.node.ChildrenNamed("tr") {
		out = append(out, Row{node: n})
	}
	return out
}

// Row returns the row at index i.
func (t Table) Row(i int) (Row, error) {
	rows := t.Rows()
	if i < 0 || i >= len(rows) {
		return Row{}, fmt.Errorf("%w: %d of %d", ErrRowIndex, i, len(rows))
	}
	return rows[i], nil
}

// InsertRowAfter inserts a structural copy of row i directly after it. The
// copy keeps row, cell, and paragraph properties but none of the runs.
func (t Table) InsertRowAfter(i int) (Row, error) {
	row, err := t.Row(i)
	if err != nil {
		return Row{}, err
	}

	cp, err := row.node.Copy()
	if err != nil {
		return Row{}, err
	}
	clearRuns(cp)

	pos := t.node.indexOf(row.node)
	t.node.insertAt(pos+1, cp)
	return Row{node: cp}, nil
}

// clearRuns removes run content from every paragraph under n.
func clearRuns(n *Node) {
	n.Walk(func(c *Node) bool {
		if !c.Is("p") {
			return true
		}
		kept := c.Children[:0]
		for _, child := range c.Children {
			if child.Is("r") || child.Is("hyperlink") || child.Is("fldSimple") {
				continue
			}
			kept = append(kept, child)
		}
		c.Children = kept
		return false
	})
}

// Cells returns the row's cells.
func (r Row) Cells() []Cell {
	var out []Cell
	for _, n := range r.node.ChildrenNamed("tc") {
		out = append(out, Cell{node: n})
	}
	return out
}

// Texts returns the text of each cell.
func (r Row) Texts() []string {
	cells := r.Cells()
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Text()
	}
	return out
}

// Paragraphs returns the cell's paragraphs.
func (c Cell) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, n := range c.node.ChildrenNamed("p") {
		out = append(out, Paragraph{node: n})
	}
	return out
}

// Text returns the cell text, paragraphs joined by newlines.
func (c Cell) Text() string {
	paras := c.Paragraphs()
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// InsertText appends s to the cell's first paragraph, creating the paragraph
// when the cell has none.
func (c Cell) InsertText(s string) error {
	paras := c.Paragraphs()
	if len(paras) == 0 {
		p := newElement(c.node.Name.Space, "p")
		c.node.Children = append(c.node.Children, p)
		paras = []Paragraph{{node: p}}
	}
	return paras[0].InsertText(s)
}
