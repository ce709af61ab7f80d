package docx

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// Kind distinguishes element nodes from character data.
type Kind uint8

const (
	// ElementNode is an XML element.
	ElementNode Kind = iota
	// TextNode is character data.
	TextNode
	// CommentNode is an XML comment.
	CommentNode
)

// Node is a generic XML node. Names keep the prefix as written in the source
// (Name.Space holds "w", not the namespace URI) so serialization reproduces the
// original markup.
type Node struct {
	Kind     Kind
	Name     xml.Name
	Attr     []xml.Attr
	Children []*Node
	Text     string
}

// Is reports whether n is an element with the given local name.
func (n *Node) Is(local string) bool {
	return n != nil && n.Kind == ElementNode && n.Name.Local == local
}

// Child returns the first direct child element with the given local name.
func (n *Node) Child(local string) *Node {
	for _, c := range n.Children {
		if c.Is(local) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns the direct child elements with the given local name.
func (n *Node) ChildrenNamed(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Is(local) {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// AttrValue returns the value of the attribute with the given local name.
func (n *Node) AttrValue(local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or adds an attribute.
func (n *Node) SetAttr(space, local, value string) {
	for i, a := range n.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: value})
}

// indexOf returns the position of child among n's children, or -1.
func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// insertAt inserts nodes before position i.
func (n *Node) insertAt(i int, nodes ...*Node) {
	n.Children = slices.Insert(n.Children, i, nodes...)
}

// remove drops child from n's children.
func (n *Node) remove(child *Node) bool {
	i := n.indexOf(child)
	if i < 0 {
		return false
	}
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	return true
}

// Copy returns a deep copy of n.
func (n *Node) Copy() (*Node, error) {
	var out *Node
	if err := deepcopy.Copy(&out, n); err != nil {
		return nil, fmt.Errorf("copy %s: %w", qname(n.Name), err)
	}
	return out, nil
}

func newElement(prefix, local string, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Name: xml.Name{Space: prefix, Local: local}, Children: children}
}

func newText(s string) *Node {
	return &Node{Kind: TextNode, Text: s}
}

// parseXML decodes data into a node tree. Processing instructions before the
// root element are returned verbatim as the prolog.
func parseXML(data []byte) ([]byte, *Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var (
		prolog bytes.Buffer
		root   *Node
		stack  []*Node
	)

	for {
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			attrs := make([]xml.Attr, len(t.Attr))
			copy(attrs, t.Attr)
			el := &Node{Kind: ElementNode, Name: t.Name, Attr: attrs}
			if len(stack) == 0 {
				if root != nil {
					return nil, nil, errors.New("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, nil, fmt.Errorf("unexpected end element %s", qname(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, newText(string(t)))
		case xml.Comment:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{Kind: CommentNode, Text: string(t)})
		case xml.ProcInst:
			if root == nil {
				fmt.Fprintf(&prolog, "<?%s %s?>\n", t.Target, t.Inst)
			}
		}
	}

	if root == nil {
		return nil, nil, errors.New("no root element")
	}
	if len(stack) != 0 {
		return nil, nil, fmt.Errorf("unclosed element %s", qname(stack[len(stack)-1].Name))
	}
	return prolog.Bytes(), root, nil
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;",
	)
)

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// writeXML serializes prolog and root.
func writeXML(w io.Writer, prolog []byte, root *Node) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(prolog); err != nil {
		return err
	}
	writeNode(bw, root)
	return bw.Flush()
}

func writeNode(w *bufio.Writer, n *Node) {
	switch n.Kind {
	case TextNode:
		textEscaper.WriteString(w, n.Text)
	case CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Text)
		w.WriteString("-->")
	default:
		name := qname(n.Name)
		w.WriteByte('<')
		w.WriteString(name)
		for _, a := range n.Attr {
			w.WriteByte(' ')
			w.WriteString(qname(a.Name))
			w.WriteString(`="`)
			attrEscaper.WriteString(w, a.Value)
			w.WriteByte('"')
		}
		if len(n.Children) == 0 {
			w.WriteString("/>")
			return
		}
		w.WriteByte('>')
		for _, c := range n.Children {
			writeNode(w, c)
		}
		w.WriteString("</")
		w.WriteString(name)
		w.WriteByte('>')
	}
}
