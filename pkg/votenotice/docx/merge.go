package docx

// NewEmpty returns an empty document that shares tmpl's package parts, so
// merged content keeps resolving the template's styles, numbering, and media.
// The body starts with a single placeholder paragraph that Finalize removes.
func NewEmpty(tmpl *Document) (*Document, error) {
	doc, err := tmpl.Clone()
	if err != nil {
		return nil, err
	}

	body := doc.Body()
	prefix := body.Name.Space
	placeholder := newElement(prefix, "p")

	children := []*Node{placeholder}
	if sect := body.Child("sectPr"); sect != nil {
		children = append(children, sect)
	}
	body.Children = children

	doc.placeholder = placeholder
	return doc, nil
}

// Append moves src's body content to the end of d as its own section. The
// section break carries src's section properties; src must not be used
// afterwards.
func (d *Document) Append(src *Document) error {
	body := d.Body()
	srcBody := src.Body()
	if body == nil || srcBody == nil {
		return ErrNoBody
	}
	prefix := body.Name.Space

	var (
		content []*Node
		srcSect *Node
	)
	for _, n := range srcBody.Children {
		if n.Is("sectPr") {
			srcSect = n
			continue
		}
		if n.Kind == TextNode {
			continue
		}
		content = append(content, n)
	}

	var brk *Node
	if srcSect != nil {
		brk = newElement(prefix, "p", newElement(prefix, "pPr", srcSect))
	} else {
		br := newElement(prefix, "br")
		br.SetAttr(prefix, "type", "page")
		brk = newElement(prefix, "p", newElement(prefix, "r", br))
	}
	content = append(content, brk)

	pos := len(body.Children)
	if sect := body.Child("sectPr"); sect != nil {
		pos = body.indexOf(sect)
	}
	body.insertAt(pos, content...)

	d.breaks = append(d.breaks, brk)
	srcBody.Children = nil
	return nil
}

// Finalize removes the placeholder paragraph and the trailing section break
// left by the last Append. The last section's properties become the body's
// final section properties. Finalize is a no-op on documents not built by
// NewEmpty.
func (d *Document) Finalize() {
	body := d.Body()
	if body == nil {
		return
	}

	if d.placeholder != nil {
		body.remove(d.placeholder)
		d.placeholder = nil
	}

	if len(d.breaks) == 0 {
		return
	}
	last := d.breaks[len(d.breaks)-1]
	d.breaks = nil

	if !body.remove(last) {
		return
	}
	ppr := last.Child("pPr")
	if ppr == nil {
		return
	}
	sect := ppr.Child("sectPr")
	if sect == nil {
		return
	}
	if old := body.Child("sectPr"); old != nil {
		body.Children[body.indexOf(old)] = sect
		return
	}
	body.Children = append(body.Children, sect)
}
