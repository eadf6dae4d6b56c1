package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thywilljoshua/cv-reformat/internal/docx"
)

// Result records one step of an Apply run.
type Result struct {
	Step    string `json:"step"`
	Applied bool   `json:"applied"`
	Detail  string `json:"detail,omitempty"`
}

// Report lists the steps of an Apply run in order.
type Report struct {
	Results []Result `json:"results"`
}

func (r *Report) add(step string, applied bool, detail string) {
	r.Results = append(r.Results, Result{Step: step, Applied: applied, Detail: detail})
}

// Applied returns the names of the steps that changed the document.
func (r Report) Applied() []string {
	var out []string
	for _, res := range r.Results {
		if res.Applied {
			out = append(out, res.Step)
		}
	}
	return out
}

// Skipped returns the steps that were configured but could not be applied.
func (r Report) Skipped() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Applied {
			out = append(out, res)
		}
	}
	return out
}

var alignments = map[string]string{
	"LEFT":       docx.AlignLeft,
	"RIGHT":      docx.AlignRight,
	"CENTER":     docx.AlignCenter,
	"CENTRE":     docx.AlignCenter,
	"JUSTIFY":    docx.AlignJustify,
	"BOTH":       docx.AlignJustify,
	"DISTRIBUTE": docx.AlignDistribute,
}

var lineRules = map[string]float64{
	"SINGLE":         1,
	"1":              1,
	"1.0":            1,
	"1.15":           1.15,
	"ONE_POINT_FIVE": 1.5,
	"1.5":            1.5,
	"DOUBLE":         2,
	"2":              2,
	"2.0":            2,
}

// Apply writes p into doc. Named styles are edited in place; only the title
// block and the page number paragraph are rebuilt from scratch.
func Apply(doc *docx.Document, p Profile) Report {
	var rep Report
	if p.Margins != nil {
		applyMargins(doc, *p.Margins, &rep)
	}

	var styles *docx.Styles
	if p.BaseFont != nil || p.Paragraph != nil || len(p.Headings) > 0 || p.Lists != nil {
		var err error
		if styles, err = doc.Styles(); err != nil {
			rep.add("styles", false, err.Error())
		}
	}
	if styles != nil {
		if p.BaseFont != nil {
			applyBaseFont(styles, *p.BaseFont, &rep)
		}
		if p.Paragraph != nil {
			applyParagraph(styles, *p.Paragraph, &rep)
		}
		applyHeadings(styles, p.Headings, &rep)
		if p.Lists != nil {
			applyLists(styles, *p.Lists, &rep)
		}
	}

	if p.TitleBlock != nil {
		applyTitleBlock(doc, *p.TitleBlock, &rep)
	}
	if p.HeaderFooter != nil {
		applyHeaderFooter(doc, *p.HeaderFooter, &rep)
	}
	return rep
}

func applyMargins(doc *docx.Document, m Margins, rep *Report) {
	for _, sec := range doc.Sections() {
		cur := sec.Margins()
		if cur == (docx.Margins{}) {
			cur = docx.Margins{Top: 1440, Bottom: 1440, Left: 1440, Right: 1440}
		}
		set := func(dst *int, v *float64) {
			if v != nil {
				*dst = docx.CM(*v)
			}
		}
		set(&cur.Top, m.Top)
		set(&cur.Right, m.Right)
		set(&cur.Bottom, m.Bottom)
		set(&cur.Left, m.Left)
		sec.SetMargins(cur)
	}
	rep.add("margins", true, "")
}

// normal returns the default paragraph style, creating "Normal" if the
// document has none.
func normal(st *docx.Styles) *docx.Style {
	if s := st.Default("paragraph"); s != nil {
		return s
	}
	return st.Ensure("Normal", "")
}

func applyBaseFont(st *docx.Styles, f Font, rep *Report) {
	if f.Name == "" && f.SizePt <= 0 {
		rep.add("base_font", false, "no name or size")
		return
	}
	rf := normal(st).Run()
	if f.Name != "" {
		rf.SetFont(f.Name)
	}
	if f.SizePt > 0 {
		rf.SetSize(f.SizePt)
	}
	rep.add("base_font", true, "")
}

func applyParagraph(st *docx.Styles, cfg Paragraph, rep *Report) {
	pf := normal(st).Paragraph()
	if cfg.SpacingBeforePt != nil {
		pf.SetSpaceBefore(docx.PT(*cfg.SpacingBeforePt))
	}
	if cfg.SpacingAfterPt != nil {
		pf.SetSpaceAfter(docx.PT(*cfg.SpacingAfterPt))
	}

	var notes []string
	switch {
	case cfg.LineSpacingValue != nil && *cfg.LineSpacingValue > 0:
		pf.SetLineSpacing(*cfg.LineSpacingValue)
	case cfg.LineSpacingRule != "":
		if v, ok := lineRules[strings.ToUpper(strings.TrimSpace(cfg.LineSpacingRule))]; ok {
			pf.SetLineSpacing(v)
		} else {
			notes = append(notes, fmt.Sprintf("unknown line spacing rule %q", cfg.LineSpacingRule))
		}
	}
	if cfg.Alignment != "" {
		if jc, ok := alignments[strings.ToUpper(cfg.Alignment)]; ok {
			pf.SetAlignment(jc)
		} else {
			notes = append(notes, fmt.Sprintf("unknown alignment %q", cfg.Alignment))
		}
	}
	rep.add("paragraph", true, strings.Join(notes, "; "))
}

func applyHeadings(st *docx.Styles, headings map[string]Heading, rep *Report) {
	levels := make([]string, 0, len(headings))
	for k := range headings {
		levels = append(levels, k)
	}
	sort.Strings(levels)
	for _, k := range levels {
		level := strings.ToUpper(strings.TrimSpace(k))
		step := "headings." + level
		if level != "H1" && level != "H2" && level != "H3" {
			rep.add(step, false, "only H1 to H3 are supported")
			continue
		}
		applyHeading(st.Ensure("Heading "+level[1:], "Normal"), headings[k])
		rep.add(step, true, "")
	}
}

func applyHeading(s *docx.Style, h Heading) {
	if h.SpacingBeforePt != nil || h.SpacingAfterPt != nil || h.KeepWithNext != nil {
		pf := s.Paragraph()
		if h.SpacingBeforePt != nil {
			pf.SetSpaceBefore(docx.PT(*h.SpacingBeforePt))
		}
		if h.SpacingAfterPt != nil {
			pf.SetSpaceAfter(docx.PT(*h.SpacingAfterPt))
		}
		if h.KeepWithNext != nil {
			pf.SetKeepNext(*h.KeepWithNext)
		}
	}
	if h.Name != "" || h.SizePt != nil || h.Bold != nil || h.AllCaps != nil {
		rf := s.Run()
		if h.Name != "" {
			rf.SetFont(h.Name)
		}
		if h.SizePt != nil && *h.SizePt > 0 {
			rf.SetSize(*h.SizePt)
		}
		if h.Bold != nil {
			rf.SetBold(*h.Bold)
		}
		if h.AllCaps != nil {
			rf.SetCaps(*h.AllCaps)
		}
	}
}

// ListStyle is the paragraph style used for bullets.
const ListStyle = "List Bullet"

func applyLists(st *docx.Styles, l Lists, rep *Report) {
	pf := st.Ensure(ListStyle, "Normal").Paragraph()
	if l.IndentCM != nil {
		pf.SetLeftIndent(docx.CM(*l.IndentCM))
	}
	if l.HangingIndentCM != nil {
		pf.SetHanging(docx.CM(*l.HangingIndentCM))
	}
	if l.SpacingBeforePt != nil {
		pf.SetSpaceBefore(docx.PT(*l.SpacingBeforePt))
	}
	if l.SpacingAfterPt != nil {
		pf.SetSpaceAfter(docx.PT(*l.SpacingAfterPt))
	}
	rep.add("lists", true, "")
}

func applyTitleBlock(doc *docx.Document, tb TitleBlock, rep *Report) {
	if !tb.Apply || tb.Lines <= 0 {
		rep.add("title_block", false, "disabled")
		return
	}
	paras := doc.Paragraphs()
	if len(paras) > tb.Lines {
		paras = paras[:tb.Lines]
	}
	for _, p := range paras {
		for _, r := range p.Runs() {
			rf := r.Format()
			if tb.Name != "" {
				rf.SetFont(tb.Name)
			}
			if tb.SizePt > 0 {
				rf.SetSize(tb.SizePt)
			}
			if tb.Bold != nil {
				rf.SetBold(*tb.Bold)
			}
			if tb.AllCaps != nil {
				rf.SetCaps(*tb.AllCaps)
			}
		}
	}
	rep.add("title_block", true, fmt.Sprintf("%d paragraphs", len(paras)))
}

// DefaultPageFormat is used when a header/footer profile gives no format.
const DefaultPageFormat = "Page {PAGE} of {NUMPAGES}"

func applyHeaderFooter(doc *docx.Document, hf HeaderFooter, rep *Report) {
	if !hf.Apply {
		rep.add("header_footer", false, "disabled")
		return
	}
	pn := hf.PageNumbers
	format := pn.Format
	if format == "" {
		format = DefaultPageFormat
	}
	jc, ok := alignments[strings.ToUpper(pn.Alignment)]
	if !ok {
		jc = docx.AlignCenter
	}

	for _, sec := range doc.Sections() {
		if hf.FirstPageDifferent != nil {
			sec.SetTitlePage(*hf.FirstPageDifferent)
		}
		var (
			c   *docx.Container
			err error
		)
		if strings.EqualFold(pn.Location, "header") {
			c, err = sec.Header()
		} else {
			c, err = sec.Footer()
		}
		if err != nil {
			rep.add("header_footer", false, err.Error())
			return
		}
		var p *docx.Paragraph
		if ps := c.Paragraphs(); len(ps) > 0 {
			p = ps[0]
		} else {
			p = c.AddParagraph()
		}
		p.ClearAll()
		p.Format().SetAlignment(jc)
		writePageFormat(p, format)
	}
	rep.add("header_footer", true, "")
}

// writePageFormat renders format into p. {PAGE} and {NUMPAGES} become
// fields; any other braced token is kept as literal text.
func writePageFormat(p *docx.Paragraph, format string) {
	s := format
	for s != "" {
		i := strings.IndexByte(s, '{')
		if i < 0 {
			p.AddRun(s)
			return
		}
		if i > 0 {
			p.AddRun(s[:i])
			s = s[i:]
		}
		j := strings.IndexByte(s, '}')
		if j < 0 {
			p.AddRun(s)
			return
		}
		switch token := strings.ToUpper(strings.TrimSpace(s[1:j])); token {
		case "PAGE", "NUMPAGES":
			p.AddField(token)
		default:
			p.AddRun(s[:j+1])
		}
		s = s[j+1:]
	}
}
