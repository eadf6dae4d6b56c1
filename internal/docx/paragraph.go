package docx

import (
	"strconv"
	"strings"
)

// Schema order of pPr children used when creating new ones.
var pPrOrder = []string{
	"w:pStyle", "w:keepNext", "w:keepLines", "w:pageBreakBefore", "w:framePr",
	"w:widowControl", "w:numPr", "w:suppressLineNumbers", "w:pBdr", "w:shd",
	"w:tabs", "w:suppressAutoHyphens", "w:kinsoku", "w:wordWrap",
	"w:overflowPunct", "w:topLinePunct", "w:autoSpaceDE", "w:autoSpaceDN",
	"w:bidi", "w:adjustRightInd", "w:snapToGrid", "w:spacing", "w:ind",
	"w:contextualSpacing", "w:mirrorIndents", "w:suppressOverlap", "w:jc",
	"w:textDirection", "w:textAlignment", "w:textboxTightWrap",
	"w:outlineLvl", "w:divId", "w:cnfStyle", "w:rPr", "w:sectPr", "w:pPrChange",
}

// Paragraph wraps a w:p element.
type Paragraph struct {
	node *Node
	doc  *Document
}

// Node exposes the underlying element.
func (p *Paragraph) Node() *Node { return p.node }

// Text returns the visible text of the paragraph. Tabs and breaks become
// "\t" and "\n"; text inside text boxes is not included.
func (p *Paragraph) Text() string {
	var b strings.Builder
	p.node.Walk(func(n *Node) bool {
		switch n.Tag {
		case "w:pPr", "w:txbxContent", "mc:Fallback", "w:rPr", "w:delText", "w:instrText":
			return false
		case "w:t":
			for _, c := range n.Children {
				b.WriteString(c.Text)
			}
			return false
		case "w:tab":
			if n.parent != nil && n.parent.Tag == "w:r" {
				b.WriteByte('\t')
			}
		case "w:br", "w:cr":
			b.WriteByte('\n')
		}
		return true
	})
	return b.String()
}

// StyleID returns the paragraph style id, or "" for the default style.
func (p *Paragraph) StyleID() string {
	if pPr := p.node.Child("w:pPr"); pPr != nil {
		if s := pPr.Child("w:pStyle"); s != nil {
			return s.Attr("w:val")
		}
	}
	return ""
}

// StyleName returns the display name of the paragraph style.
func (p *Paragraph) StyleName() string {
	if p.doc == nil {
		return p.StyleID()
	}
	return p.doc.styleName(p.StyleID())
}

// SetStyle sets the paragraph style by id.
func (p *Paragraph) SetStyle(id string) {
	p.Format().node.ensureChild("w:pStyle", pPrOrder).SetAttr("w:val", id)
}

// IsList reports whether the paragraph carries numbering or a list style.
func (p *Paragraph) IsList() bool {
	if pPr := p.node.Child("w:pPr"); pPr != nil && pPr.Child("w:numPr") != nil {
		return true
	}
	return strings.Contains(strings.ToLower(p.StyleName()), "list")
}

// HasBorder reports whether the paragraph draws a border of its own.
func (p *Paragraph) HasBorder() bool {
	pPr := p.node.Child("w:pPr")
	return pPr != nil && pPr.Child("w:pBdr") != nil
}

// Runs returns the direct runs, including those wrapped in hyperlinks.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, c := range p.node.Children {
		switch c.Tag {
		case "w:r":
			out = append(out, &Run{node: c})
		case "w:hyperlink", "w:smartTag", "w:ins":
			for _, r := range c.ChildrenTagged("w:r") {
				out = append(out, &Run{node: r})
			}
		}
	}
	return out
}

// AddRun appends a run holding text. Tabs and newlines in text become
// w:tab and w:br elements.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{node: NewNode("w:r")}
	r.SetText(text)
	p.node.Append(r.node)
	return r
}

// SetText replaces the content of the paragraph with a single run, keeping
// the formatting of the first existing run.
func (p *Paragraph) SetText(text string) *Run {
	var rPr *Node
	if runs := p.Runs(); len(runs) > 0 {
		if f := runs[0].node.Child("w:rPr"); f != nil {
			rPr = f.Clone()
		}
	}
	p.Clear()
	r := p.AddRun(text)
	if rPr != nil {
		r.node.InsertAt(0, rPr)
	}
	return r
}

// Clear removes every run, hyperlink and field but keeps paragraph properties.
func (p *Paragraph) Clear() {
	p.node.RemoveChildren(func(n *Node) bool { return n.Tag == "w:pPr" })
}

// ClearAll removes all content and paragraph properties except section
// properties, which must survive.
func (p *Paragraph) ClearAll() {
	var sect *Node
	if pPr := p.node.Child("w:pPr"); pPr != nil {
		sect = pPr.Child("w:sectPr")
	}
	p.node.RemoveChildren(func(*Node) bool { return false })
	if sect != nil {
		pPr := NewNode("w:pPr")
		pPr.Append(sect)
		p.node.Append(pPr)
	}
}

// Format returns the paragraph formatting, creating w:pPr if needed.
func (p *Paragraph) Format() *ParagraphFormat {
	pPr := p.node.Child("w:pPr")
	if pPr == nil {
		pPr = NewNode("w:pPr")
		p.node.InsertAt(0, pPr)
	}
	return &ParagraphFormat{node: pPr}
}

// TextBoxes returns the text box contents anchored in this paragraph.
func (p *Paragraph) TextBoxes() []*Container {
	var out []*Container
	p.node.Walk(func(n *Node) bool {
		if n.Tag == "mc:Fallback" {
			return false
		}
		if n.Tag == "w:txbxContent" {
			out = append(out, &Container{node: n, doc: p.doc})
			return false
		}
		return true
	})
	return out
}

// AddField appends a simple field such as "PAGE" or "NUMPAGES".
func (p *Paragraph) AddField(instr string) {
	fld := NewNode("w:fldSimple", Attr{Name: "w:instr", Value: " " + instr + " "})
	r := &Run{node: NewNode("w:r")}
	r.SetText("1")
	fld.Append(r.node)
	p.node.Append(fld)
}

// Container returns the block-level parent of the paragraph.
func (p *Paragraph) Container() *Container {
	if p.node.parent == nil {
		return nil
	}
	return &Container{node: p.node.parent, doc: p.doc}
}

// Cell returns the table cell holding the paragraph, with its row and table.
func (p *Paragraph) Cell() (*Table, *Row, *Cell, bool) {
	tc := p.node.parent
	if tc == nil || tc.Tag != "w:tc" {
		return nil, nil, nil, false
	}
	tr := tc.Ancestor("w:tr")
	tbl := tc.Ancestor("w:tbl")
	if tr == nil || tbl == nil {
		return nil, nil, nil, false
	}
	return &Table{node: tbl, doc: p.doc}, &Row{node: tr, doc: p.doc}, &Cell{node: tc, doc: p.doc}, true
}

// Schema order of rPr children.
var rPrOrder = []string{
	"w:rStyle", "w:rFonts", "w:b", "w:bCs", "w:i", "w:iCs", "w:caps",
	"w:smallCaps", "w:strike", "w:dstrike", "w:outline", "w:shadow",
	"w:emboss", "w:imprint", "w:noProof", "w:snapToGrid", "w:vanish",
	"w:webHidden", "w:color", "w:spacing", "w:w", "w:kern", "w:position",
	"w:sz", "w:szCs", "w:highlight", "w:u", "w:effect", "w:bdr", "w:shd",
	"w:fitText", "w:vertAlign", "w:rtl", "w:cs", "w:em", "w:lang",
	"w:eastAsianLayout", "w:specVanish", "w:oMath",
}

// Run wraps a w:r element.
type Run struct {
	node *Node
}

// Node exposes the underlying element.
func (r *Run) Node() *Node { return r.node }

// Text returns the run text.
func (r *Run) Text() string {
	var b strings.Builder
	for _, c := range r.node.Children {
		switch c.Tag {
		case "w:t":
			for _, t := range c.Children {
				b.WriteString(t.Text)
			}
		case "w:tab":
			b.WriteByte('\t')
		case "w:br", "w:cr":
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// SetText replaces the run content, keeping its formatting.
func (r *Run) SetText(text string) {
	r.node.RemoveChildren(func(n *Node) bool { return n.Tag == "w:rPr" })
	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		s := seg.String()
		t := NewNode("w:t")
		if strings.TrimSpace(s) != s {
			t.SetAttr("xml:space", "preserve")
		}
		t.Append(&Node{Text: s})
		r.node.Append(t)
		seg.Reset()
	}
	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			r.node.Append(NewNode("w:tab"))
		case '\n':
			flush()
			r.node.Append(NewNode("w:br"))
		default:
			seg.WriteRune(ch)
		}
	}
	flush()
}

// Format returns the run formatting, creating w:rPr if needed.
func (r *Run) Format() *RunFormat {
	return &RunFormat{node: runProps(r.node)}
}

func runProps(parent *Node) *Node {
	rPr := parent.Child("w:rPr")
	if rPr == nil {
		rPr = NewNode("w:rPr")
		parent.InsertAt(0, rPr)
	}
	return rPr
}

// RunFormat edits character formatting on a w:rPr element.
type RunFormat struct {
	node *Node
}

// SetFont sets every script slot to name.
func (f *RunFormat) SetFont(name string) {
	fonts := f.node.ensureChild("w:rFonts", rPrOrder)
	fonts.Attrs = nil
	for _, slot := range []string{"w:ascii", "w:hAnsi", "w:cs", "w:eastAsia"} {
		fonts.SetAttr(slot, name)
	}
}

// SetSize sets the font size in points.
func (f *RunFormat) SetSize(pt float64) {
	v := strconv.Itoa(HalfPoints(pt))
	f.node.ensureChild("w:sz", rPrOrder).SetAttr("w:val", v)
	f.node.ensureChild("w:szCs", rPrOrder).SetAttr("w:val", v)
}

func (f *RunFormat) SetBold(on bool)   { f.toggle("w:b", on) }
func (f *RunFormat) SetItalic(on bool) { f.toggle("w:i", on) }
func (f *RunFormat) SetCaps(on bool)   { f.toggle("w:caps", on) }

// SetColor sets the text colour as a hex RGB string such as "1F3864".
func (f *RunFormat) SetColor(hex string) {
	f.node.ensureChild("w:color", rPrOrder).SetAttr("w:val", strings.TrimPrefix(hex, "#"))
}

// Bold reports whether bold is switched on directly on the run.
func (f *RunFormat) Bold() bool { return f.on("w:b") }

// Italic reports whether italic is switched on directly on the run.
func (f *RunFormat) Italic() bool { return f.on("w:i") }

// Caps reports whether all-caps is switched on directly on the run.
func (f *RunFormat) Caps() bool { return f.on("w:caps") }

func (f *RunFormat) toggle(tag string, on bool) {
	n := f.node.ensureChild(tag, rPrOrder)
	n.Attrs = nil
	if !on {
		n.SetAttr("w:val", "0")
	}
}

func (f *RunFormat) on(tag string) bool {
	n := f.node.Child(tag)
	if n == nil {
		return false
	}
	switch n.Attr("w:val") {
	case "0", "false", "off":
		return false
	}
	return true
}

// Alignment values accepted by ParagraphFormat.SetAlignment.
const (
	AlignLeft       = "left"
	AlignCenter     = "center"
	AlignRight      = "right"
	AlignJustify    = "both"
	AlignDistribute = "distribute"
)

// ParagraphFormat edits w:pPr.
type ParagraphFormat struct {
	node *Node
}

// SetSpacing sets space before and after in twips.
func (f *ParagraphFormat) SetSpacing(before, after int) {
	f.SetSpaceBefore(before)
	f.SetSpaceAfter(after)
}

func (f *ParagraphFormat) SetSpaceBefore(twips int) {
	f.node.ensureChild("w:spacing", pPrOrder).SetAttr("w:before", strconv.Itoa(twips))
}

func (f *ParagraphFormat) SetSpaceAfter(twips int) {
	f.node.ensureChild("w:spacing", pPrOrder).SetAttr("w:after", strconv.Itoa(twips))
}

// SetLineSpacing sets proportional line spacing, where 1.0 is single.
func (f *ParagraphFormat) SetLineSpacing(multiple float64) {
	s := f.node.ensureChild("w:spacing", pPrOrder)
	s.SetAttr("w:line", strconv.Itoa(int(multiple*240+0.5)))
	s.SetAttr("w:lineRule", "auto")
}

// SetAlignment sets paragraph justification to one of the Align constants.
func (f *ParagraphFormat) SetAlignment(jc string) {
	f.node.ensureChild("w:jc", pPrOrder).SetAttr("w:val", jc)
}

// SetKeepNext keeps the paragraph on the same page as the next one.
func (f *ParagraphFormat) SetKeepNext(on bool) {
	n := f.node.ensureChild("w:keepNext", pPrOrder)
	n.Attrs = nil
	if !on {
		n.SetAttr("w:val", "0")
	}
}

// SetIndent sets the left and hanging indents in twips.
func (f *ParagraphFormat) SetIndent(left, hanging int) {
	ind := f.node.ensureChild("w:ind", pPrOrder)
	ind.SetAttr("w:left", strconv.Itoa(left))
	ind.RemoveAttr("w:firstLine")
	if hanging > 0 {
		ind.SetAttr("w:hanging", strconv.Itoa(hanging))
	} else {
		ind.RemoveAttr("w:hanging")
	}
}

// SetLeftIndent sets the left indent in twips, leaving the first line alone.
func (f *ParagraphFormat) SetLeftIndent(twips int) {
	f.node.ensureChild("w:ind", pPrOrder).SetAttr("w:left", strconv.Itoa(twips))
}

// SetHanging sets a hanging first-line indent in twips.
func (f *ParagraphFormat) SetHanging(twips int) {
	ind := f.node.ensureChild("w:ind", pPrOrder)
	ind.RemoveAttr("w:firstLine")
	ind.SetAttr("w:hanging", strconv.Itoa(twips))
}

// Alignment returns the w:jc value, or "" when unset.
func (f *ParagraphFormat) Alignment() string {
	if jc := f.node.Child("w:jc"); jc != nil {
		return jc.Attr("w:val")
	}
	return ""
}

// RunDefaults returns the paragraph mark run properties.
func (f *ParagraphFormat) RunDefaults() *RunFormat {
	return &RunFormat{node: f.node.ensureChild("w:rPr", pPrOrder)}
}
