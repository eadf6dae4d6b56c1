package docx

// Container is any block-level parent of paragraphs and tables: the body, a
// table cell, a text box, a header or footer.
type Container struct {
	node *Node
	doc  *Document
}

// Node exposes the underlying element.
func (c *Container) Node() *Node { return c.node }

// Element is one block-level child of a container: either a paragraph or a
// table.
type Element struct {
	Paragraph *Paragraph
	Table     *Table
	// Node is set for every element, including structured document tags.
	Node *Node
}

// Elements returns the block-level children in order. Structured document
// tags are returned as-is with neither Paragraph nor Table set.
func (c *Container) Elements() []Element {
	var out []Element
	for _, n := range c.node.Children {
		switch n.Tag {
		case "w:p":
			out = append(out, Element{Paragraph: c.wrapParagraph(n), Node: n})
		case "w:tbl":
			out = append(out, Element{Table: &Table{node: n, doc: c.doc}, Node: n})
		case "w:sdt":
			out = append(out, Element{Node: n})
		}
	}
	return out
}

// Paragraphs returns the direct paragraph children.
func (c *Container) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, n := range c.node.ChildrenTagged("w:p") {
		out = append(out, c.wrapParagraph(n))
	}
	return out
}

// Tables returns the direct table children.
func (c *Container) Tables() []*Table {
	var out []*Table
	for _, n := range c.node.ChildrenTagged("w:tbl") {
		out = append(out, &Table{node: n, doc: c.doc})
	}
	return out
}

// SDTContent returns the content container of a structured document tag.
func (c *Container) SDTContent(sdt *Node) *Container {
	content := sdt.Child("w:sdtContent")
	if content == nil {
		return nil
	}
	return &Container{node: content, doc: c.doc}
}

func (c *Container) wrapParagraph(n *Node) *Paragraph {
	return &Paragraph{node: n, doc: c.doc}
}

// AddParagraph appends an empty paragraph, keeping any trailing sectPr last.
func (c *Container) AddParagraph() *Paragraph {
	p := c.wrapParagraph(NewNode("w:p"))
	c.Append(p.node)
	return p
}

// InsertParagraphAfter creates an empty paragraph directly after anchor,
// or at the start of the container when anchor is nil.
func (c *Container) InsertParagraphAfter(anchor *Node) *Paragraph {
	p := c.wrapParagraph(NewNode("w:p"))
	c.InsertAfter(anchor, p.node)
	return p
}

// InsertParagraphBefore creates an empty paragraph directly before anchor.
func (c *Container) InsertParagraphBefore(anchor *Node) *Paragraph {
	p := c.wrapParagraph(NewNode("w:p"))
	c.InsertBefore(anchor, p.node)
	return p
}

// Append adds n at the end of the container but before a trailing sectPr.
func (c *Container) Append(n *Node) {
	if last := c.lastElement(); last != nil && last.Tag == "w:sectPr" {
		c.node.InsertAt(c.node.Index(last), n)
		return
	}
	c.node.Append(n)
}

// InsertAfter places n directly after anchor. A nil anchor inserts at the
// start of the container, after any cell properties.
func (c *Container) InsertAfter(anchor, n *Node) {
	if anchor == nil {
		i := 0
		for j, ch := range c.node.Children {
			if ch.Tag == "w:tcPr" {
				i = j + 1
			}
		}
		c.node.InsertAt(i, n)
		return
	}
	c.node.InsertAt(c.node.Index(anchor)+1, n)
}

// InsertBefore places n directly before anchor.
func (c *Container) InsertBefore(anchor, n *Node) {
	c.node.InsertAt(c.node.Index(anchor), n)
}

// Remove detaches n from the container. A table cell must always hold a
// paragraph, so removing the last one leaves an empty paragraph behind.
func (c *Container) Remove(n *Node) {
	c.node.Remove(n)
	if c.node.Tag == "w:tc" && c.node.Child("w:p") == nil && c.node.Child("w:tbl") == nil {
		c.node.Append(NewNode("w:p"))
	}
}

// Find returns the first paragraph whose text satisfies match, searching
// this container and any nested table cells.
func (c *Container) Find(match func(*Paragraph) bool) *Paragraph {
	var found *Paragraph
	c.node.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Tag == "w:txbxContent" {
			return false
		}
		if n.Tag == "w:p" {
			p := c.wrapParagraph(n)
			if match(p) {
				found = p
			}
			return false
		}
		return true
	})
	return found
}

// AllParagraphs returns every paragraph in the container in document order,
// descending into tables and content controls but not text boxes.
func (c *Container) AllParagraphs() []*Paragraph {
	var out []*Paragraph
	c.Find(func(p *Paragraph) bool {
		out = append(out, p)
		return false
	})
	return out
}

// Index returns the position of n among the container's children.
func (c *Container) Index(n *Node) int { return c.node.Index(n) }

// Children returns the raw child elements, skipping character data.
func (c *Container) Children() []*Node { return c.node.Elements() }

func (c *Container) lastElement() *Node {
	for i := len(c.node.Children) - 1; i >= 0; i-- {
		if c.node.Children[i].IsElement() {
			return c.node.Children[i]
		}
	}
	return nil
}

// Same reports whether two containers wrap the same element.
func (c *Container) Same(o *Container) bool {
	return c != nil && o != nil && c.node == o.node
}
