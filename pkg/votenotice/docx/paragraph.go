package docx

import "strings"

// Paragraph wraps a w:p element.
type Paragraph struct {
	node *Node
}

// Paragraphs returns every paragraph in the body in document order, including
// paragraphs inside table cells.
func (d *Document) Paragraphs() []Paragraph {
	body := d.Body()
	if body == nil {
		return nil
	}

	var out []Paragraph
	body.Walk(func(n *Node) bool {
		if n.Is("p") {
			out = append(out, Paragraph{node: n})
		}
		return true
	})
	return out
}

// FindParagraph returns the first paragraph whose text equals text.
func (d *Document) FindParagraph(text string) (Paragraph, bool) {
	for _, p := range d.Paragraphs() {
		if p.Text() == text {
			return p, true
		}
	}
	return Paragraph{}, false
}

// Text returns the concatenated run text of the paragraph.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, t := range p.textNodes() {
		sb.WriteString(textOf(t))
	}
	return sb.String()
}

// ReplaceText replaces every occurrence of search in the paragraph text. Word
// splits text across runs freely, so the replaced text is written into the
// first text run and the remaining text runs are emptied. It reports whether
// anything was replaced.
func (p Paragraph) ReplaceText(search, repl string) bool {
	if search == "" {
		return false
	}
	texts := p.textNodes()
	if len(texts) == 0 {
		return false
	}

	full := p.Text()
	if !strings.Contains(full, search) {
		return false
	}

	setText(texts[0], strings.ReplaceAll(full, search, repl))
	for _, t := range texts[1:] {
		setText(t, "")
	}
	return true
}

// InsertText appends a run holding s. The run inherits the paragraph-mark run
// properties so the text picks up the template's cell formatting.
func (p Paragraph) InsertText(s string) error {
	if s == "" {
		return nil
	}

	prefix := p.node.Name.Space
	run := newElement(prefix, "r")
	if ppr := p.node.Child("pPr"); ppr != nil {
		if rpr := ppr.Child("rPr"); rpr != nil {
			cp, err := rpr.Copy()
			if err != nil {
				return err
			}
			run.Children = append(run.Children, cp)
		}
	}

	t := newElement(prefix, "t")
	setText(t, s)
	run.Children = append(run.Children, t)
	p.node.Children = append(p.node.Children, run)
	return nil
}

// textNodes returns the w:t elements of the paragraph's own runs.
func (p Paragraph) textNodes() []*Node {
	var out []*Node
	p.node.Walk(func(n *Node) bool {
		if n != p.node && n.Is("p") {
			return false
		}
		if n.Is("t") {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}

func textOf(t *Node) string {
	var sb strings.Builder
	for _, c := range t.Children {
		if c.Kind == TextNode {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

func setText(t *Node, s string) {
	if s == "" {
		t.Children = nil
		return
	}
	t.Children = []*Node{newText(s)}
	if strings.TrimSpace(s) != s {
		t.SetAttr("xml", "space", "preserve")
	}
}
