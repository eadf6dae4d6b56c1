package docx

// Table wraps a w:tbl element.
type Table struct {
	node *Node
	doc  *Document
}

// Node exposes the underlying element.
func (t *Table) Node() *Node { return t.node }

// Rows returns the table rows in order.
func (t *Table) Rows() []*Row {
	var out []*Row
	for _, n := range t.node.ChildrenTagged("w:tr") {
		out = append(out, &Row{node: n, doc: t.doc})
	}
	return out
}

// RemoveRow detaches r from the table.
func (t *Table) RemoveRow(r *Row) bool { return t.node.Remove(r.node) }

// Remove detaches the table from its parent container.
func (t *Table) Remove() {
	if parent := t.node.parent; parent != nil {
		(&Container{node: parent, doc: t.doc}).Remove(t.node)
	}
}

// Row wraps a w:tr element.
type Row struct {
	node *Node
	doc  *Document
}

// Node exposes the underlying element.
func (r *Row) Node() *Node { return r.node }

// Cells returns the row cells in order, including cells wrapped in
// structured document tags.
func (r *Row) Cells() []*Cell {
	var out []*Cell
	for _, c := range r.node.Children {
		switch c.Tag {
		case "w:tc":
			out = append(out, &Cell{node: c, doc: r.doc})
		case "w:sdt":
			if content := c.Child("w:sdtContent"); content != nil {
				for _, tc := range content.ChildrenTagged("w:tc") {
					out = append(out, &Cell{node: tc, doc: r.doc})
				}
			}
		}
	}
	return out
}

// Text joins the cell texts with tabs.
func (r *Row) Text() string {
	var s string
	for i, c := range r.Cells() {
		if i > 0 {
			s += "\t"
		}
		s += c.Text()
	}
	return s
}

// Cell wraps a w:tc element.
type Cell struct {
	node *Node
	doc  *Document
}

// Node exposes the underlying element.
func (c *Cell) Node() *Node { return c.node }

// Container returns the cell as a block container.
func (c *Cell) Container() *Container { return &Container{node: c.node, doc: c.doc} }

// Paragraphs returns the direct paragraphs of the cell.
func (c *Cell) Paragraphs() []*Paragraph { return c.Container().Paragraphs() }

// Text joins the paragraph texts of the cell with newlines.
func (c *Cell) Text() string {
	var s string
	for i, p := range c.Paragraphs() {
		if i > 0 {
			s += "\n"
		}
		s += p.Text()
	}
	return s
}
