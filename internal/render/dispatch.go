// Package render writes a field set into a template document: it finds or
// creates each section heading, strips template guidance under it, inserts
// the section content and puts the sections in profile order. Running it
// again on its own output changes nothing.
package render

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/thywilljoshua/cv-reformat/internal/docx"
	"github.com/thywilljoshua/cv-reformat/internal/errors"
	"github.com/thywilljoshua/cv-reformat/internal/fields"
	"github.com/thywilljoshua/cv-reformat/internal/logfields"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
	"github.com/thywilljoshua/cv-reformat/internal/style"
)

// Config configures a Dispatcher. Zero values take the defaults.
type Config struct {
	Order        sections.OrderProfile
	Vocabulary   *sections.Vocabulary
	Placeholders *Placeholders
	Writers      map[sections.Key]SectionWriter

	// HeadingStyle is the display name of the style given to synthesized
	// headings. Default "heading 2".
	HeadingStyle string
	// BulletStyle is the display name of the bullet paragraph style.
	BulletStyle    string
	BulletIndentCM float64
	// MaxStrip bounds how many elements under a heading are inspected for
	// guidance. Default 12.
	MaxStrip int

	Logger *slog.Logger
}

// Action is what happened to one section.
type Action string

const (
	ActionRendered   Action = "rendered"
	ActionKept       Action = "kept"
	ActionEmpty      Action = "empty"
	ActionSuppressed Action = "suppressed"
	ActionSkipped    Action = "skipped"
	ActionFailed     Action = "failed"
)

// SectionResult records the outcome for one section.
type SectionResult struct {
	Key    sections.Key `json:"key"`
	Action Action       `json:"action"`
	// Synthesized is set when the heading was not in the template.
	Synthesized bool  `json:"synthesized,omitempty"`
	Lines       int   `json:"lines,omitempty"`
	Removed     int   `json:"removed,omitempty"`
	Err         error `json:"-"`
}

// Report summarizes one Dispatch.
type Report struct {
	Sections       []SectionResult `json:"sections"`
	TitleLines     int             `json:"title_lines"`
	FillersRemoved int             `json:"fillers_removed"`
	Renamed        int             `json:"renamed"`
	Duplicates     int             `json:"duplicates"`
	Reordered      bool            `json:"reordered"`
}

// Failed returns the sections whose writer failed.
func (r Report) Failed() []SectionResult {
	var out []SectionResult
	for _, s := range r.Sections {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Changed reports whether the dispatch mutated the document.
func (r Report) Changed() bool {
	if r.TitleLines > 0 || r.FillersRemoved > 0 || r.Renamed > 0 || r.Duplicates > 0 || r.Reordered {
		return true
	}
	for _, s := range r.Sections {
		if s.Lines > 0 || s.Removed > 0 || s.Synthesized {
			return true
		}
	}
	return false
}

// Dispatcher renders field sets into templates. It holds no per-document
// state and may be reused.
type Dispatcher struct {
	cfg     Config
	vocab   *sections.Vocabulary
	ph      Placeholders
	writers map[sections.Key]SectionWriter
	log     *slog.Logger
}

// New builds a Dispatcher, filling unset config with defaults.
func New(cfg Config) *Dispatcher {
	base := cfg.Vocabulary
	if base == nil {
		base = sections.DefaultVocabulary()
	}
	cfg.Order = cfg.Order.Canonicalize(base)
	d := &Dispatcher{
		cfg:     cfg,
		vocab:   cfg.Order.Vocabulary(base),
		ph:      DefaultPlaceholders(),
		writers: cfg.Writers,
		log:     cfg.Logger,
	}
	if cfg.Placeholders != nil {
		d.ph = *cfg.Placeholders
	}
	if d.writers == nil {
		d.writers = DefaultWriters()
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	if d.cfg.HeadingStyle == "" {
		d.cfg.HeadingStyle = "heading 2"
	}
	if d.cfg.BulletStyle == "" {
		d.cfg.BulletStyle = style.ListStyle
	}
	if d.cfg.BulletIndentCM <= 0 {
		d.cfg.BulletIndentCM = 0.63
	}
	if d.cfg.MaxStrip <= 0 {
		d.cfg.MaxStrip = 12
	}
	return d
}

// Dispatch renders fs into doc in place.
func (d *Dispatcher) Dispatch(doc *docx.Document, fs fields.FieldSet) Report {
	r := &pass{Dispatcher: d, doc: doc, body: doc.Body()}
	if st, err := doc.Styles(); err == nil {
		r.styles = st
	} else {
		d.log.Warn("styles unavailable, using style ids by name", logfields.Error(err))
	}

	var rep Report
	rep.TitleLines = r.titleLines(fs)
	rep.FillersRemoved = r.removeFillers()
	r.scan()
	rep.Renamed = r.canonicalize()
	if d.cfg.Order.DedupeTitles {
		rep.Duplicates = r.dedupe()
	}

	r.prepareLines(fs)
	order := r.order()
	for i, k := range order {
		if _, ok := d.writers[k]; !ok {
			continue
		}
		rep.Sections = append(rep.Sections, r.section(k, order[i+1:]))
	}
	rep.Reordered = r.reorder()
	return rep
}

// anchor is a heading paragraph that opens a section.
type anchor struct {
	key   sections.Key
	p     *docx.Paragraph
	known bool
}

type writerOutput struct {
	lines []Line
	err   error
}

// pass holds the state of one Dispatch.
type pass struct {
	*Dispatcher
	doc     *docx.Document
	body    *docx.Container
	styles  *docx.Styles
	anchors []*anchor
	isHead  map[*docx.Node]bool
	output  map[sections.Key]writerOutput
}

var (
	titleLineRe    = regexp.MustCompile(`(?i)^\s*CURRICULUM\s+VITAE\s+FOR\b`)
	locationLineRe = regexp.MustCompile(`(?i)^\s*CANDIDATE\s+LOCATION\s*:`)
)

// titleLines rewrites the candidate name and location lines of the
// template, in the body and in headers and footers.
func (r *pass) titleLines(fs fields.FieldSet) int {
	name := strings.ToUpper(strings.TrimSpace(fs.Name))
	loc := strings.ToUpper(strings.TrimSpace(fs.Location))
	if loc == "" {
		loc = "N/A"
	}
	containers := append([]*docx.Container{r.body}, r.doc.HeaderFooterParts()...)
	n := 0
	for _, c := range containers {
		for _, p := range c.AllParagraphs() {
			text := p.Text()
			var want string
			switch {
			case titleLineRe.MatchString(text):
				if name == "" {
					continue
				}
				want = "CURRICULUM VITAE FOR " + name
			case locationLineRe.MatchString(text):
				want = "CANDIDATE LOCATION: " + loc
			default:
				continue
			}
			if text != want {
				p.SetText(want)
				n++
			}
		}
	}
	return n
}

func (r *pass) removeFillers() int {
	n := 0
	for _, p := range r.body.AllParagraphs() {
		if r.ph.IsXFiller(p.Text()) {
			p.Container().Remove(p.Node())
			n++
		}
	}
	return n
}

// scan collects the section headings in document order. Recognized
// headings are found anywhere outside lists; other heading-styled body
// paragraphs after the first recognized one open foreign sections, which
// are ordered but never written.
func (r *pass) scan() {
	r.anchors = nil
	r.isHead = map[*docx.Node]bool{}
	for _, p := range r.body.AllParagraphs() {
		if p.IsList() {
			continue
		}
		text := strings.TrimSpace(p.Text())
		if text == "" {
			continue
		}
		if k, ok := r.vocab.Resolve(text); ok {
			r.addAnchor(&anchor{key: k, p: p, known: true})
			continue
		}
		if len(r.anchors) > 0 && isHeadingStyle(p.StyleName()) && p.Container().Same(r.body) {
			r.addAnchor(&anchor{key: r.vocab.Canonical(text), p: p})
		}
	}
}

func (r *pass) addAnchor(a *anchor) {
	r.anchors = append(r.anchors, a)
	r.isHead[a.p.Node()] = true
}

func isHeadingStyle(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), "heading")
}

// canonicalize rewrites recognized headings to their canonical spelling.
// Repeats of a key keep their text: dedupe removes them, and without dedupe
// they stay as authored rather than become empty copies of the first.
func (r *pass) canonicalize() int {
	n := 0
	seen := map[sections.Key]bool{}
	for _, a := range r.anchors {
		first := !seen[a.key]
		seen[a.key] = true
		if first && a.known && strings.TrimSpace(a.p.Text()) != string(a.key) {
			a.p.SetText(string(a.key))
			n++
		}
	}
	return n
}

// dedupe removes every later section whose key already appeared.
func (r *pass) dedupe() int {
	seen := map[sections.Key]bool{}
	var keep []*anchor
	var dups []*anchor
	for _, a := range r.anchors {
		if seen[a.key] {
			dups = append(dups, a)
			continue
		}
		seen[a.key] = true
		keep = append(keep, a)
	}
	for _, a := range dups {
		r.removeSection(a)
		delete(r.isHead, a.p.Node())
		r.log.Info("duplicate section removed", logfields.Section(string(a.key)))
	}
	r.anchors = keep
	return len(dups)
}

func (r *pass) find(k sections.Key) *anchor {
	for _, a := range r.anchors {
		if a.key == k {
			return a
		}
	}
	return nil
}

// prepareLines runs every writer once, isolating panics.
func (r *pass) prepareLines(fs fields.FieldSet) {
	r.output = make(map[sections.Key]writerOutput, len(r.writers))
	for k, w := range r.writers {
		r.output[k] = runWriter(k, w, fs)
	}
}

func runWriter(k sections.Key, w SectionWriter, fs fields.FieldSet) (out writerOutput) {
	defer func() {
		if v := recover(); v != nil {
			out = writerOutput{err: errors.RenderError("section writer failed").
				WithContext("section", string(k)).
				WithContext("panic", fmt.Sprint(v)).
				Build()}
		}
	}()
	return writerOutput{lines: w(fs)}
}

// order returns the sections to visit: every heading present in the
// document plus every section with content, in profile order.
func (r *pass) order() []sections.Key {
	var titles []string
	present := map[sections.Key]bool{}
	for _, a := range r.anchors {
		titles = append(titles, string(a.key))
		present[a.key] = true
	}
	keys := make([]sections.Key, 0, len(r.output))
	for k := range r.output {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		if !present[k] && len(r.output[k].lines) > 0 {
			titles = append(titles, string(k))
		}
	}
	profile := r.cfg.Order
	profile.DedupeTitles = true
	return sections.Order(titles, profile, r.vocab)
}

func (r *pass) section(k sections.Key, later []sections.Key) (res SectionResult) {
	res.Key = k
	defer func() {
		if v := recover(); v != nil {
			res.Action = ActionFailed
			res.Err = errors.RenderError("section render failed").
				WithContext("section", string(k)).
				WithContext("panic", fmt.Sprint(v)).
				Build()
		}
		r.logResult(res)
	}()

	out := r.output[k]
	if out.err != nil {
		res.Action, res.Err = ActionFailed, out.err
		return res
	}
	a := r.find(k)
	if len(out.lines) == 0 {
		switch {
		case a == nil:
			res.Action = ActionSkipped
		case r.cfg.Order.SuppressEmpty.Suppresses(k):
			res.Action, res.Removed = ActionSuppressed, r.removeSection(a)
			r.dropAnchor(a)
		default:
			res.Action = ActionEmpty
			_, res.Removed, _ = r.strip(a)
		}
		return res
	}

	if a == nil {
		a = r.synthesize(k, later)
		res.Synthesized = true
	}
	target, removed, real := r.strip(a)
	res.Removed = removed
	if real {
		res.Action = ActionKept
		return res
	}
	res.Lines = r.write(target, out.lines)
	res.Action = ActionRendered
	return res
}

func (r *pass) logResult(res SectionResult) {
	attrs := []any{
		logfields.Section(string(res.Key)),
		logfields.Action(string(res.Action)),
		logfields.Count(res.Lines),
	}
	if res.Err != nil {
		r.log.Error("section failed", append(attrs, logfields.Error(res.Err))...)
		return
	}
	if res.Synthesized {
		r.log.Info("section heading missing from template, synthesized", attrs...)
		return
	}
	r.log.Debug("section done", attrs...)
}

func (r *pass) dropAnchor(a *anchor) {
	delete(r.isHead, a.p.Node())
	for i, b := range r.anchors {
		if b == a {
			r.anchors = append(r.anchors[:i], r.anchors[i+1:]...)
			return
		}
	}
}

// synthesize creates a missing heading directly before the body-level
// element holding the next present section, or at the end of the body.
func (r *pass) synthesize(k sections.Key, later []sections.Key) *anchor {
	var before *docx.Node
	for _, next := range later {
		if a := r.find(next); a != nil {
			if before = r.topLevel(a.p.Node()); before != nil {
				break
			}
		}
	}
	var p *docx.Paragraph
	if before != nil {
		p = r.body.InsertParagraphBefore(before)
	} else {
		p = r.body.AddParagraph()
	}
	p.SetStyle(r.styleID(r.cfg.HeadingStyle))
	p.AddRun(string(k))
	a := &anchor{key: k, p: p, known: true}
	r.addAnchor(a)
	return a
}

// topLevel returns the body child that contains n.
func (r *pass) topLevel(n *docx.Node) *docx.Node {
	body := r.body.Node()
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Parent() == body {
			return cur
		}
	}
	return nil
}

func (r *pass) styleID(name string) string {
	if r.styles == nil {
		return strings.ReplaceAll(name, " ", "")
	}
	if s := r.styles.ByName(name); s != nil {
		return s.ID()
	}
	return r.styles.Ensure(name, "Normal").ID()
}
