package render

import (
	"sort"
	"strings"

	"github.com/thywilljoshua/cv-reformat/internal/docx"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

type layout int

const (
	// flowLayout: heading and content share a container.
	flowLayout layout = iota
	// rowLayout: heading in the first cell of a row, content in its last cell.
	rowLayout
	// cellLayout: heading alone in a one-cell row, content below it in the
	// same cell. Guidance rows may follow the heading row.
	cellLayout
)

// extent locates the content of one section.
type extent struct {
	layout layout
	c      *docx.Container
	// after is the node new content follows; nil is the container start.
	after *docx.Node
	table *docx.Table
	row   *docx.Row
}

func (r *pass) extent(a *anchor) extent {
	tbl, row, cell, ok := a.p.Cell()
	if !ok {
		return extent{layout: flowLayout, c: a.p.Container(), after: a.p.Node()}
	}
	cells := row.Cells()
	switch {
	case len(cells) > 1 && cells[0].Node() == cell.Node():
		return extent{layout: rowLayout, c: cells[len(cells)-1].Container(), table: tbl, row: row}
	case len(cells) == 1:
		return extent{layout: cellLayout, c: cell.Container(), after: a.p.Node(), table: tbl, row: row}
	}
	return extent{layout: flowLayout, c: cell.Container(), after: a.p.Node()}
}

// bodyElements returns the elements after e.after in the content container,
// up to the next heading.
func (r *pass) bodyElements(e extent) []docx.Element {
	var out []docx.Element
	started := e.after == nil
	for _, el := range e.c.Elements() {
		if !started {
			started = el.Node == e.after
			continue
		}
		if r.holdsHeading(el.Node) {
			break
		}
		out = append(out, el)
	}
	return out
}

func (r *pass) holdsHeading(n *docx.Node) bool {
	found := false
	n.Walk(func(c *docx.Node) bool {
		if found {
			return false
		}
		if r.isHead[c] {
			found = true
			return false
		}
		return c.Tag != "w:p"
	})
	return found
}

// structural reports whether a text-less paragraph still carries something
// that must not be stripped: a section break, a page break or a graphic.
func structural(n *docx.Node) bool {
	if sectionBreak(n) {
		return true
	}
	for _, br := range n.Descendants("w:br") {
		if br.Attr("w:type") == "page" {
			return true
		}
	}
	for _, tag := range []string{"w:drawing", "w:pict", "w:object"} {
		if len(n.Descendants(tag)) > 0 {
			return true
		}
	}
	return false
}

func sectionBreak(n *docx.Node) bool {
	pPr := n.Child("w:pPr")
	return pPr != nil && pPr.Child("w:sectPr") != nil
}

// strip removes blank and guidance elements from the start of a section
// body. The first bordered blank paragraph is kept as a rule and content
// goes after it; a second rule ends the body. It returns the extent to
// write into, the number of removed elements and whether authored content
// follows the heading.
func (r *pass) strip(a *anchor) (extent, int, bool) {
	e := r.extent(a)
	removed, real := r.stripElements(&e)
	if e.layout != flowLayout {
		removed += r.stripRows(e.table, e.row)
	}
	return e, removed, real
}

func (r *pass) stripElements(e *extent) (removed int, real bool) {
	rules := 0
	for i, el := range r.bodyElements(*e) {
		if i >= r.cfg.MaxStrip {
			return removed, false
		}
		switch {
		case el.Paragraph != nil:
			text := strings.TrimSpace(el.Paragraph.Text())
			switch {
			case text == "" && structural(el.Node):
				return removed, !sectionBreak(el.Node)
			case text == "" && el.Paragraph.HasBorder():
				if rules++; rules > 1 {
					return removed, false
				}
				e.after = el.Node
			case text == "" || r.ph.Match(text):
				e.c.Remove(el.Node)
				removed++
			default:
				return removed, true
			}
		case el.Table != nil:
			n, rest := r.stripTable(el.Table)
			removed += n
			if rest {
				return removed, true
			}
		default:
			return removed, true
		}
	}
	return removed, false
}

// stripTable removes leading guidance rows, and the table itself when no
// row is left. rest reports whether authored rows remain.
func (r *pass) stripTable(t *docx.Table) (removed int, rest bool) {
	for _, row := range t.Rows() {
		if !r.guidanceRow(row) {
			return removed, true
		}
		t.RemoveRow(row)
		removed++
	}
	t.Remove()
	return removed, false
}

// stripRows removes the guidance rows directly below a heading row.
func (r *pass) stripRows(t *docx.Table, heading *docx.Row) int {
	rows := t.Rows()
	start := len(rows)
	for i, row := range rows {
		if row.Node() == heading.Node() {
			start = i + 1
			break
		}
	}
	n := 0
	for _, row := range rows[start:] {
		if n >= r.cfg.MaxStrip || r.holdsHeading(row.Node()) || !r.guidanceRow(row) {
			break
		}
		t.RemoveRow(row)
		n++
	}
	return n
}

// guidanceRow reports whether every paragraph of the row is blank or
// guidance.
func (r *pass) guidanceRow(row *docx.Row) bool {
	for _, c := range row.Cells() {
		if c.Node().Child("w:tbl") != nil {
			return false
		}
		for _, p := range c.Paragraphs() {
			text := strings.TrimSpace(p.Text())
			if text == "" && structural(p.Node()) {
				return false
			}
			if text != "" && !r.ph.Match(text) {
				return false
			}
		}
	}
	return true
}

// write inserts lines after e.after and returns how many were written.
func (r *pass) write(e extent, lines []Line) int {
	var bulletID string
	indent := docx.CM(r.cfg.BulletIndentCM)
	written := map[*docx.Node]bool{}
	prev := e.after
	for _, l := range lines {
		p := e.c.InsertParagraphAfter(prev)
		if l.Bullet {
			if bulletID == "" {
				bulletID = r.styleID(r.cfg.BulletStyle)
			}
			p.SetStyle(bulletID)
			p.Format().SetIndent(indent, indent)
		}
		if l.Justify {
			p.Format().SetAlignment(docx.AlignJustify)
		}
		run := p.AddRun(l.Text)
		if l.Bold {
			run.Format().SetBold(true)
		}
		if l.Italic {
			run.Format().SetItalic(true)
		}
		prev = p.Node()
		written[prev] = true
	}

	// A cell emptied by stripping keeps a blank paragraph; drop it now that
	// the cell has content.
	if e.layout == rowLayout {
		for _, p := range e.c.Paragraphs() {
			if !written[p.Node()] && strings.TrimSpace(p.Text()) == "" && !p.HasBorder() && !structural(p.Node()) {
				e.c.Remove(p.Node())
			}
		}
	}
	return len(lines)
}

// removeSection deletes a heading and its body: the heading row and its
// guidance rows for table headings, otherwise the heading paragraph and
// every element up to the next heading. Section breaks survive.
func (r *pass) removeSection(a *anchor) int {
	e := r.extent(a)
	if e.layout != flowLayout {
		n := r.stripRows(e.table, e.row)
		e.table.RemoveRow(e.row)
		if len(e.table.Rows()) == 0 {
			e.table.Remove()
		}
		return n + 1
	}
	n := 0
	for _, el := range r.bodyElements(e) {
		if el.Paragraph != nil && sectionBreak(el.Node) {
			continue
		}
		e.c.Remove(el.Node)
		n++
	}
	e.c.Remove(a.p.Node())
	return n + 1
}

// reorder moves the body-level sections into profile order. Everything
// before the first section heading stays in place, and each section
// carries every element up to the next heading. Unranked sections keep
// their relative order after the ranked ones.
func (r *pass) reorder() bool {
	r.scan()
	keyOf := map[*docx.Node]sections.Key{}
	for _, a := range r.anchors {
		keyOf[a.p.Node()] = a.key
	}

	type span struct {
		rank  int
		pos   int
		nodes []*docx.Node
	}
	var spans []*span
	for _, n := range r.body.Children() {
		if n.Tag == "w:sectPr" {
			continue
		}
		if k, ok := keyOf[n]; ok {
			spans = append(spans, &span{rank: r.cfg.Order.Rank(k), pos: len(spans)})
		}
		if len(spans) > 0 {
			cur := spans[len(spans)-1]
			cur.nodes = append(cur.nodes, n)
		}
	}

	sorted := append([]*span(nil), spans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case a.rank >= 0 && b.rank >= 0:
			return a.rank < b.rank
		case a.rank >= 0:
			return true
		case b.rank >= 0:
			return false
		default:
			return a.pos < b.pos
		}
	})
	changed := false
	for i := range spans {
		if spans[i] != sorted[i] {
			changed = true
			break
		}
	}
	if !changed {
		return false
	}
	for _, s := range spans {
		for _, n := range s.nodes {
			r.body.Remove(n)
		}
	}
	for _, s := range sorted {
		for _, n := range s.nodes {
			r.body.Append(n)
		}
	}
	return true
}
