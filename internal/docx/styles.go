package docx

import (
	"strings"
)

var styleOrder = []string{
	"w:name", "w:aliases", "w:basedOn", "w:next", "w:link", "w:autoRedefine",
	"w:hidden", "w:uiPriority", "w:semiHidden", "w:unhideWhenUsed", "w:qFormat",
	"w:locked", "w:personal", "w:personalCompose", "w:personalReply", "w:rsid",
	"w:pPr", "w:rPr", "w:tblPr", "w:trPr", "w:tcPr", "w:tblStylePr",
}

// Styles wraps the w:styles part.
type Styles struct {
	root *Node
}

// Style wraps one w:style definition.
type Style struct {
	node *Node
}

// ID returns the style id referenced from paragraphs.
func (s *Style) ID() string { return s.node.Attr("w:styleId") }

// Name returns the display name.
func (s *Style) Name() string {
	if n := s.node.Child("w:name"); n != nil {
		return n.Attr("w:val")
	}
	return ""
}

// Type returns the style type: paragraph, character, table or numbering.
func (s *Style) Type() string { return s.node.Attr("w:type") }

// Paragraph returns the paragraph formatting of the style.
func (s *Style) Paragraph() *ParagraphFormat {
	return &ParagraphFormat{node: s.node.ensureChild("w:pPr", styleOrder)}
}

// Run returns the character formatting of the style.
func (s *Style) Run() *RunFormat {
	return &RunFormat{node: s.node.ensureChild("w:rPr", styleOrder)}
}

func foldName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}

// All returns every style definition in order.
func (st *Styles) All() []*Style {
	var out []*Style
	for _, n := range st.root.ChildrenTagged("w:style") {
		out = append(out, &Style{node: n})
	}
	return out
}

// ByName finds a style by display name or id, ignoring case and spaces.
func (st *Styles) ByName(name string) *Style {
	want := foldName(name)
	for _, s := range st.All() {
		if foldName(s.Name()) == want {
			return s
		}
	}
	for _, s := range st.All() {
		if foldName(s.ID()) == want {
			return s
		}
	}
	return nil
}

// ByID finds a style by its exact id.
func (st *Styles) ByID(id string) *Style {
	for _, s := range st.All() {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

// Default returns the default style of the given type, or nil.
func (st *Styles) Default(typ string) *Style {
	for _, s := range st.All() {
		if s.Type() == typ && onOff(s.node.Attr("w:default")) {
			return s
		}
	}
	return nil
}

// NameOf returns the display name for a style id, or the id itself.
func (st *Styles) NameOf(id string) string {
	if s := st.ByID(id); s != nil && s.Name() != "" {
		return s.Name()
	}
	return id
}

// Ensure returns the paragraph style called name, creating it based on
// basedOn when absent. The id of a created style is its name without spaces.
func (st *Styles) Ensure(name, basedOn string) *Style {
	if s := st.ByName(name); s != nil {
		return s
	}
	id := strings.ReplaceAll(name, " ", "")
	n := NewNode("w:style",
		Attr{Name: "w:type", Value: "paragraph"},
		Attr{Name: "w:styleId", Value: id},
	)
	n.Append(NewNode("w:name", Attr{Name: "w:val", Value: name}))
	if basedOn != "" {
		if base := st.ByName(basedOn); base != nil {
			n.Append(NewNode("w:basedOn", Attr{Name: "w:val", Value: base.ID()}))
		}
	}
	n.Append(NewNode("w:qFormat"))
	st.root.Append(n)
	return &Style{node: n}
}

// DocDefaults returns the document-wide default run formatting.
func (st *Styles) DocDefaults() *RunFormat {
	dd := st.root.Child("w:docDefaults")
	if dd == nil {
		dd = NewNode("w:docDefaults")
		st.root.InsertAt(0, dd)
	}
	rd := dd.ensureChild("w:rPrDefault", []string{"w:rPrDefault", "w:pPrDefault"})
	return &RunFormat{node: rd.ensureChild("w:rPr", nil)}
}

func onOff(v string) bool {
	switch v {
	case "1", "true", "on":
		return true
	}
	return false
}
