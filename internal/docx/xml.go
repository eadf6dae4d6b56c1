package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element (or character-data run) of a WordprocessingML part.
// Tags keep their namespace prefix ("w:p") so a part round-trips without the
// namespace rewriting encoding/xml would otherwise apply.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	// Text holds character data when Tag is empty.
	Text   string
	parent *Node
}

// Attr is a prefixed attribute ("w:val").
type Attr struct {
	Name  string
	Value string
}

// NewNode returns a detached element.
func NewNode(tag string, attrs ...Attr) *Node {
	return &Node{Tag: tag, Attrs: attrs}
}

func (n *Node) Parent() *Node { return n.parent }

// IsElement reports whether n is an element rather than character data.
func (n *Node) IsElement() bool { return n != nil && n.Tag != "" }

func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

func (n *Node) HasAttr(name string) bool {
	for _, a := range n.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// SetAttr replaces the value of name in place, appending it when absent.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

func (n *Node) RemoveAttr(name string) {
	out := n.Attrs[:0]
	for _, a := range n.Attrs {
		if a.Name != name {
			out = append(out, a)
		}
	}
	n.Attrs = out
}

// Child returns the first direct child element with the given tag.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenTagged returns the direct child elements with any of the given tags.
func (n *Node) ChildrenTagged(tags ...string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		for _, t := range tags {
			if c.Tag == t {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Elements returns the direct child elements, skipping character data.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) Index(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		detach(c)
		c.parent = n
		n.Children = append(n.Children, c)
	}
}

// InsertAt places child at position i of n's children.
func (n *Node) InsertAt(i int, child *Node) {
	detach(child)
	if i < 0 {
		i = 0
	}
	if i > len(n.Children) {
		i = len(n.Children)
	}
	child.parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	i := n.Index(child)
	if i < 0 {
		return false
	}
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	child.parent = nil
	return true
}

// RemoveChildren drops every child for which keep returns false.
func (n *Node) RemoveChildren(keep func(*Node) bool) {
	out := n.Children[:0]
	for _, c := range n.Children {
		if keep(c) {
			out = append(out, c)
		} else {
			c.parent = nil
		}
	}
	n.Children = out
}

func detach(c *Node) {
	if c.parent != nil {
		c.parent.Remove(c)
	}
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the node just visited.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Descendants returns every descendant element with the given tag in document order.
func (n *Node) Descendants(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if d.Tag == tag {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// Ancestor returns the nearest ancestor with the given tag.
func (n *Node) Ancestor(tag string) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.Tag == tag {
			return p
		}
	}
	return nil
}

// Clone deep-copies n. The copy is detached.
func (n *Node) Clone() *Node {
	c := &Node{Tag: n.Tag, Text: n.Text}
	if len(n.Attrs) > 0 {
		c.Attrs = append([]Attr(nil), n.Attrs...)
	}
	for _, ch := range n.Children {
		cc := ch.Clone()
		cc.parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

// ensureChild returns the child with the given tag, creating it at the
// position the schema sequence in order requires.
func (n *Node) ensureChild(tag string, order []string) *Node {
	if c := n.Child(tag); c != nil {
		return c
	}
	c := NewNode(tag)
	rank := indexOf(order, tag)
	if rank < 0 {
		n.Append(c)
		return c
	}
	for i, existing := range n.Children {
		if !existing.IsElement() {
			continue
		}
		if r := indexOf(order, existing.Tag); r > rank {
			n.InsertAt(i, c)
			return c
		}
	}
	n.Append(c)
	return c
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// xmlPart is a parsed XML package part.
type xmlPart struct {
	header string
	root   *Node
}

func parseXML(data []byte) (*xmlPart, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	doc := &Node{}
	cur := doc
	part := &xmlPart{}
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.ProcInst:
			if t.Target == "xml" && cur == doc {
				part.header = "<?xml " + string(t.Inst) + "?>"
			}
		case xml.StartElement:
			n := &Node{Tag: qualified(t.Name), parent: cur}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			cur.Children = append(cur.Children, n)
			cur = n
		case xml.EndElement:
			if cur.parent == nil {
				return nil, fmt.Errorf("unbalanced end element %s", qualified(t.Name))
			}
			cur = cur.parent
		case xml.CharData:
			if cur == doc {
				continue
			}
			cur.Children = append(cur.Children, &Node{Text: string(t), parent: cur})
		}
	}
	for _, c := range doc.Children {
		if c.IsElement() {
			c.parent = nil
			part.root = c
			break
		}
	}
	if part.root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return part, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func (p *xmlPart) bytes() []byte {
	var b bytes.Buffer
	if p.header != "" {
		b.WriteString(p.header)
		b.WriteString("\r\n")
	}
	p.root.write(&b)
	return b.Bytes()
}

func (n *Node) write(b *bytes.Buffer) {
	if n.Tag == "" {
		escape(b, n.Text, false)
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		escape(b, a.Value, true)
		b.WriteByte('"')
	}
	if len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		c.write(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
)

func escape(b *bytes.Buffer, s string, attr bool) {
	if attr {
		b.WriteString(attrEscaper.Replace(s))
		return
	}
	b.WriteString(textEscaper.Replace(s))
}
