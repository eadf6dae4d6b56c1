// Package style applies a declarative style profile to the named styles of
// a document. Every part of a profile is optional, and applying the same
// profile twice leaves the document byte-identical to applying it once.
package style

import (
	"gopkg.in/yaml.v3"
)

// Profile is the declarative style configuration. Nil parts are skipped.
type Profile struct {
	Margins      *Margins           `json:"margins,omitempty" yaml:"margins,omitempty"`
	BaseFont     *Font              `json:"base_font,omitempty" yaml:"base_font,omitempty"`
	Paragraph    *Paragraph         `json:"paragraph,omitempty" yaml:"paragraph,omitempty"`
	Headings     map[string]Heading `json:"headings,omitempty" yaml:"headings,omitempty"`
	Lists        *Lists             `json:"lists,omitempty" yaml:"lists,omitempty"`
	TitleBlock   *TitleBlock        `json:"title_block,omitempty" yaml:"title_block,omitempty"`
	HeaderFooter *HeaderFooter      `json:"header_footer,omitempty" yaml:"header_footer,omitempty"`
}

// UnmarshalYAML accepts margins_cm as another name for margins.
func (p *Profile) UnmarshalYAML(value *yaml.Node) error {
	type plain Profile
	var raw struct {
		plain     `yaml:",inline"`
		MarginsCM *Margins `yaml:"margins_cm"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = Profile(raw.plain)
	if p.Margins == nil {
		p.Margins = raw.MarginsCM
	}
	return nil
}

// Margins are page margins in centimetres.
type Margins struct {
	Top    *float64 `json:"top,omitempty" yaml:"top,omitempty"`
	Right  *float64 `json:"right,omitempty" yaml:"right,omitempty"`
	Bottom *float64 `json:"bottom,omitempty" yaml:"bottom,omitempty"`
	Left   *float64 `json:"left,omitempty" yaml:"left,omitempty"`
}

// Font is a font family and size.
type Font struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	SizePt float64 `json:"size_pt,omitempty" yaml:"size_pt,omitempty"`
}

// Paragraph holds the defaults written to the default paragraph style.
type Paragraph struct {
	SpacingBeforePt *float64 `json:"spacing_before_pt,omitempty" yaml:"spacing_before_pt,omitempty"`
	SpacingAfterPt  *float64 `json:"spacing_after_pt,omitempty" yaml:"spacing_after_pt,omitempty"`
	// LineSpacingRule is SINGLE, 1.5 or DOUBLE. LineSpacingValue wins when set.
	LineSpacingRule  string   `json:"line_spacing_rule,omitempty" yaml:"line_spacing_rule,omitempty"`
	LineSpacingValue *float64 `json:"line_spacing_value,omitempty" yaml:"line_spacing_value,omitempty"`
	Alignment        string   `json:"alignment,omitempty" yaml:"alignment,omitempty"`
}

// Heading styles one heading level. Only the keys present are written.
type Heading struct {
	Name            string   `json:"name,omitempty" yaml:"name,omitempty"`
	SizePt          *float64 `json:"size_pt,omitempty" yaml:"size_pt,omitempty"`
	Bold            *bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	AllCaps         *bool    `json:"all_caps,omitempty" yaml:"all_caps,omitempty"`
	SpacingBeforePt *float64 `json:"spacing_before_pt,omitempty" yaml:"spacing_before_pt,omitempty"`
	SpacingAfterPt  *float64 `json:"spacing_after_pt,omitempty" yaml:"spacing_after_pt,omitempty"`
	KeepWithNext    *bool    `json:"keep_with_next,omitempty" yaml:"keep_with_next,omitempty"`
}

// Lists styles the bullet list paragraph style.
type Lists struct {
	IndentCM        *float64 `json:"indent_cm,omitempty" yaml:"indent_cm,omitempty"`
	HangingIndentCM *float64 `json:"hanging_indent_cm,omitempty" yaml:"hanging_indent_cm,omitempty"`
	SpacingBeforePt *float64 `json:"spacing_before_pt,omitempty" yaml:"spacing_before_pt,omitempty"`
	SpacingAfterPt  *float64 `json:"spacing_after_pt,omitempty" yaml:"spacing_after_pt,omitempty"`
}

// UnmarshalYAML accepts bullet_indent_cm as another name for indent_cm.
func (l *Lists) UnmarshalYAML(value *yaml.Node) error {
	type plain Lists
	var raw struct {
		plain          `yaml:",inline"`
		BulletIndentCM *float64 `yaml:"bullet_indent_cm"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*l = Lists(raw.plain)
	if l.IndentCM == nil {
		l.IndentCM = raw.BulletIndentCM
	}
	return nil
}

// TitleBlock forces the runs of the first Lines body paragraphs to one font.
type TitleBlock struct {
	Apply   bool    `json:"apply" yaml:"apply"`
	Lines   int     `json:"lines,omitempty" yaml:"lines,omitempty"`
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	SizePt  float64 `json:"size_pt,omitempty" yaml:"size_pt,omitempty"`
	Bold    *bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
	AllCaps *bool   `json:"all_caps,omitempty" yaml:"all_caps,omitempty"`
}

// HeaderFooter configures page numbering.
type HeaderFooter struct {
	Apply              bool        `json:"apply" yaml:"apply"`
	FirstPageDifferent *bool       `json:"first_page_different,omitempty" yaml:"first_page_different,omitempty"`
	PageNumbers        PageNumbers `json:"page_numbers" yaml:"page_numbers"`
}

// PageNumbers places a page number line. Format may contain {PAGE} and
// {NUMPAGES}, which become fields.
type PageNumbers struct {
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
	Alignment string `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`
}
