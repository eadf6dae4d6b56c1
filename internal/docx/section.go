package docx

import (
	"math"
	"strconv"
)

var sectPrOrder = []string{
	"w:headerReference", "w:footerReference", "w:footnotePr", "w:endnotePr",
	"w:type", "w:pgSz", "w:pgMar", "w:paperSrc", "w:pgBorders", "w:lnNumType",
	"w:pgNumType", "w:cols", "w:formProt", "w:vAlign", "w:noEndnote",
	"w:titlePg", "w:textDirection", "w:bidi", "w:rtlGutter", "w:docGrid",
	"w:printerSettings", "w:sectPrChange",
}

// CM converts centimetres to twips.
func CM(v float64) int { return int(math.Round(v * 1440 / 2.54)) }

// PT converts points to twips.
func PT(v float64) int { return int(math.Round(v * 20)) }

// HalfPoints converts points to the half-point unit of w:sz.
func HalfPoints(v float64) int { return int(math.Round(v * 2)) }

// Margins in twips.
type Margins struct {
	Top, Bottom, Left, Right int
}

// Section wraps a w:sectPr element.
type Section struct {
	node *Node
	doc  *Document
}

// SetMargins sets the page margins. Header, footer and gutter distances are
// filled with Word's defaults when the element is created.
func (s *Section) SetMargins(m Margins) {
	pg := s.node.Child("w:pgMar")
	if pg == nil {
		pg = s.node.ensureChild("w:pgMar", sectPrOrder)
		pg.SetAttr("w:header", "708")
		pg.SetAttr("w:footer", "708")
		pg.SetAttr("w:gutter", "0")
	}
	pg.SetAttr("w:top", strconv.Itoa(m.Top))
	pg.SetAttr("w:right", strconv.Itoa(m.Right))
	pg.SetAttr("w:bottom", strconv.Itoa(m.Bottom))
	pg.SetAttr("w:left", strconv.Itoa(m.Left))
}

// Margins returns the current page margins, zero when unset.
func (s *Section) Margins() Margins {
	pg := s.node.Child("w:pgMar")
	if pg == nil {
		return Margins{}
	}
	atoi := func(k string) int {
		n, _ := strconv.Atoi(pg.Attr(k))
		return n
	}
	return Margins{Top: atoi("w:top"), Bottom: atoi("w:bottom"), Left: atoi("w:left"), Right: atoi("w:right")}
}

// SetTitlePage toggles a distinct first-page header and footer.
func (s *Section) SetTitlePage(on bool) {
	if !on {
		if t := s.node.Child("w:titlePg"); t != nil {
			s.node.Remove(t)
		}
		return
	}
	s.node.ensureChild("w:titlePg", sectPrOrder).Attrs = nil
}

// TitlePage reports whether the first page has its own header and footer.
func (s *Section) TitlePage() bool {
	t := s.node.Child("w:titlePg")
	return t != nil && t.Attr("w:val") != "0" && t.Attr("w:val") != "false"
}

// Footer returns the default footer, creating the part when missing.
func (s *Section) Footer() (*Container, error) {
	return s.headerFooter("w:footerReference", "w:ftr", "footer", relTypeFooter, ctFooter)
}

// Header returns the default header, creating the part when missing.
func (s *Section) Header() (*Container, error) {
	return s.headerFooter("w:headerReference", "w:hdr", "header", relTypeHeader, ctHeader)
}

func (s *Section) headerFooter(refTag, rootTag, prefix, relType, contentType string) (*Container, error) {
	d := s.doc
	for _, ref := range s.node.ChildrenTagged(refTag) {
		if ref.Attr("w:type") != "default" {
			continue
		}
		if name, ok := d.pkg.targetByID(d.mainPart, ref.Attr("r:id")); ok && d.pkg.has(name) {
			part, err := d.pkg.xml(name)
			if err != nil {
				return nil, err
			}
			return &Container{node: part.root, doc: d}, nil
		}
	}

	name := d.pkg.freeName("word", prefix)
	root := NewNode(rootTag,
		Attr{Name: "xmlns:w", Value: nsW},
		Attr{Name: "xmlns:r", Value: nsR},
	)
	root.Append(NewNode("w:p"))
	d.pkg.addXML(name, &xmlPart{header: xmlHeader, root: root})
	id, err := d.pkg.addRelationship(d.mainPart, relType, name[len("word/"):])
	if err != nil {
		return nil, err
	}
	if err := d.pkg.addOverride(name, contentType); err != nil {
		return nil, err
	}
	if !d.main.root.HasAttr("xmlns:r") {
		d.main.root.SetAttr("xmlns:r", nsR)
	}

	ref := NewNode(refTag, Attr{Name: "w:type", Value: "default"}, Attr{Name: "r:id", Value: id})
	// References come first and headers precede footers.
	pos := 0
	for i, c := range s.node.Children {
		if c.Tag == "w:headerReference" || (refTag == "w:footerReference" && c.Tag == "w:footerReference") {
			pos = i + 1
		}
	}
	s.node.InsertAt(pos, ref)
	return &Container{node: root, doc: d}, nil
}
