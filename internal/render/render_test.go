package render

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/cv-reformat/internal/docx"
	"github.com/thywilljoshua/cv-reformat/internal/errors"
	"github.com/thywilljoshua/cv-reformat/internal/fields"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newDispatcher(p sections.OrderProfile) *Dispatcher {
	if p.Order == nil {
		p.Order = sections.CanonicalKeys
	}
	return New(Config{Order: p, Logger: quiet()})
}

func heading(doc *docx.Document, text string) {
	p := doc.Body().AddParagraph()
	p.SetStyle("Heading2")
	p.AddRun(text)
}

func para(doc *docx.Document, text string) {
	doc.Body().AddParagraph().AddRun(text)
}

func rule(doc *docx.Document) {
	p := doc.Body().AddParagraph()
	p.Format()
	p.Node().Child("w:pPr").Append(docx.NewNode("w:pBdr"))
}

func addTable(doc *docx.Document, rows ...[]string) *docx.Table {
	tbl := docx.NewNode("w:tbl")
	for _, cells := range rows {
		tr := docx.NewNode("w:tr")
		for range cells {
			tr.Append(docx.NewNode("w:tc"))
		}
		tbl.Append(tr)
	}
	doc.Body().Append(tbl)
	t := doc.Tables()[len(doc.Tables())-1]
	for i, row := range t.Rows() {
		for j, c := range row.Cells() {
			for _, line := range strings.Split(rows[i][j], "\n") {
				c.Container().AddParagraph().AddRun(line)
			}
		}
	}
	return t
}

func texts(ps []*docx.Paragraph) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Text()
	}
	return out
}

func bytesOf(t *testing.T, doc *docx.Document) []byte {
	t.Helper()
	b, err := doc.Bytes()
	require.NoError(t, err)
	return b
}

func actions(rep Report) map[sections.Key]Action {
	out := map[sections.Key]Action{}
	for _, s := range rep.Sections {
		out[s.Key] = s.Action
	}
	return out
}

func TestPlaceholdersMatch(t *testing.T) {
	ph := DefaultPlaceholders()
	cases := map[string]bool{
		"List most recent first.":           true,
		"NAME OF ESTABLISHMENT":             true,
		"Title of Qualification":            true,
		"Date":                              true,
		"<Insert executive summary>":        true,
		"[Company name]":                    true,
		"XXXXXXXXXXXX":                      true,
		"":                                  false,
		"Date of birth withheld":            false,
		"Led a team of twelve analysts":     false,
		"Jan 2021 – Present\tACME LTD":      false,
		"Educational establishment":         true,
		"Awards obtained":                   true,
		"Start Date – End Date":             true,
		"Company info italic":               true,
		"Company, location or company info": true,
		"Job Title (bold)":                  true,
	}
	for text, want := range cases {
		assert.Equal(t, want, ph.Match(text), text)
	}
}

func TestDispatchStripsTemplateOneGuidance(t *testing.T) {
	doc := docx.New()
	heading(doc, "EDUCATION")
	para(doc, "Educational establishment")
	para(doc, "Awards obtained")
	heading(doc, "EMPLOYMENT HISTORY")
	para(doc, "Start Date – End Date")
	para(doc, "Job title")
	para(doc, "Company info italic")

	fs := fields.FieldSet{
		Education:  []fields.Education{{Dates: "2019", Institution: "University of Leeds"}},
		Experience: []fields.Role{{Dates: "2020 – 2022", Company: "Acme Ltd", Title: "Analyst"}},
	}
	rep := newDispatcher(sections.OrderProfile{}).Dispatch(doc, fs)

	want := []string{
		"EDUCATION",
		"2019\tUniversity of Leeds",
		"EMPLOYMENT HISTORY",
		"2020 – 2022\tACME LTD",
		"Analyst",
	}
	if diff := cmp.Diff(want, texts(doc.Paragraphs())); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[sections.Key]Action{
		sections.Education:         ActionRendered,
		sections.EmploymentHistory: ActionRendered,
	}, actions(rep))
}

func TestIsXFiller(t *testing.T) {
	ph := DefaultPlaceholders()
	assert.True(t, ph.IsXFiller("Phone: XXXXXXXXXXX"))
	assert.False(t, ph.IsXFiller("XXXX"))
	assert.False(t, ph.IsXFiller("Reference XXXXXXXX supplied on request by the employer"))
	assert.False(t, Placeholders{}.IsXFiller("XXXXXXXXXXXX"))
}

func TestWriteExperience(t *testing.T) {
	got := writeExperience([]fields.Role{{
		Dates:    "Jan 2021 – Present",
		Company:  "Acme Ltd",
		Location: "London",
		Title:    "Head of Operations",
		Blurb:    "A logistics group.",
		Bullets:  []string{"Led X", " "},
	}})
	want := []Line{
		{Text: "Jan 2021 – Present\tACME LTD, London"},
		{Text: "Head of Operations", Bold: true},
		{Text: "A logistics group.", Italic: true},
		{Text: "Led X", Bullet: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("writeExperience mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteEducation(t *testing.T) {
	got := writeEducation([]fields.Education{
		{Dates: "2019", Institution: "University of Leeds", Degree: "BSc Economics", Result: "2:1", Bullets: []string{"Dissertation"}},
		{Degree: "A Levels"},
	})
	want := []Line{
		{Text: "2019\tUniversity of Leeds", Bold: true},
		{Text: "BSc Economics, 2:1"},
		{Text: "Dissertation", Bullet: true},
		{Text: "A Levels"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("writeEducation mismatch (-want +got):\n%s", diff)
	}
}

func sampleFields() fields.FieldSet {
	return fields.FieldSet{
		Name:     "Jane Smith",
		Location: "Leeds",
		Summary:  "Operations leader with fifteen years in logistics.",
		Skills:   []string{"Go", "SQL"},
		Experience: []fields.Role{{
			Dates:    "Jan 2021 – Present",
			Company:  "Acme Ltd",
			Location: "London",
			Title:    "Head of Operations",
			Bullets:  []string{"Led X"},
		}},
	}
}

func template1() *docx.Document {
	doc := docx.New()
	para(doc, "CURRICULUM VITAE FOR FIRSTNAME LASTNAME")
	para(doc, "CANDIDATE LOCATION: N/A")
	heading(doc, "PERSONAL PROFILE")
	para(doc, "<Insert executive summary>")
	heading(doc, "KEY SKILLS")
	para(doc, "")
	heading(doc, "EMPLOYMENT HISTORY")
	para(doc, "List most recent first.")
	heading(doc, "ADDITIONAL INFORMATION")
	para(doc, "XXXXXXXXXXXX")
	return doc
}

func TestDispatchRendersAndSuppresses(t *testing.T) {
	doc := template1()
	d := newDispatcher(sections.OrderProfile{
		SuppressEmpty: sections.Suppression{Keys: []sections.Key{sections.AdditionalInformation}},
		DedupeTitles:  true,
	})
	rep := d.Dispatch(doc, sampleFields())

	want := []string{
		"CURRICULUM VITAE FOR JANE SMITH",
		"CANDIDATE LOCATION: LEEDS",
		"PERSONAL PROFILE",
		"Operations leader with fifteen years in logistics.",
		"KEY SKILLS",
		"Go",
		"SQL",
		"EMPLOYMENT HISTORY",
		"Jan 2021 – Present\tACME LTD, London",
		"Head of Operations",
		"Led X",
	}
	if diff := cmp.Diff(want, texts(doc.Paragraphs())); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 2, rep.TitleLines)
	assert.Equal(t, 1, rep.FillersRemoved)
	assert.Equal(t, map[sections.Key]Action{
		sections.PersonalProfile:       ActionRendered,
		sections.KeySkills:             ActionRendered,
		sections.EmploymentHistory:     ActionRendered,
		sections.AdditionalInformation: ActionSuppressed,
	}, actions(rep))
	assert.Empty(t, rep.Failed())

	paras := doc.Paragraphs()
	assert.Equal(t, docx.AlignJustify, paras[3].Format().Alignment())
	assert.Equal(t, "ListBullet", paras[5].StyleID())
	assert.True(t, paras[9].Runs()[0].Format().Bold())
}

func TestDispatchIsIdempotent(t *testing.T) {
	doc := template1()
	d := newDispatcher(sections.OrderProfile{SuppressEmpty: sections.Suppression{All: true}, DedupeTitles: true})
	first := d.Dispatch(doc, sampleFields())
	require.True(t, first.Changed())
	once := bytesOf(t, doc)

	second := d.Dispatch(doc, sampleFields())
	assert.False(t, second.Changed())
	for _, s := range second.Sections {
		assert.Equal(t, ActionKept, s.Action, s.Key)
	}
	assert.Equal(t, once, bytesOf(t, doc))
}

func TestDispatchSynthesizesMissingHeadings(t *testing.T) {
	doc := docx.New()
	heading(doc, "KEY SKILLS")
	heading(doc, "EMPLOYMENT HISTORY")

	fs := fields.FieldSet{
		Summary:   "A short profile.",
		Education: []fields.Education{{Dates: "2019", Institution: "University of Leeds", Degree: "BSc Economics", Result: "2:1"}},
	}
	rep := newDispatcher(sections.OrderProfile{}).Dispatch(doc, fs)

	want := []string{
		"PERSONAL PROFILE",
		"A short profile.",
		"KEY SKILLS",
		"EDUCATION",
		"2019\tUniversity of Leeds",
		"BSc Economics, 2:1",
		"EMPLOYMENT HISTORY",
	}
	if diff := cmp.Diff(want, texts(doc.Paragraphs())); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Heading2", doc.Paragraphs()[0].StyleID())
	assert.False(t, rep.Reordered)

	got := map[sections.Key]bool{}
	for _, s := range rep.Sections {
		got[s.Key] = s.Synthesized
	}
	assert.Equal(t, map[sections.Key]bool{
		sections.PersonalProfile:   true,
		sections.KeySkills:         false,
		sections.Education:         true,
		sections.EmploymentHistory: false,
	}, got)
	assert.Equal(t, ActionEmpty, actions(rep)[sections.KeySkills])

	again := newDispatcher(sections.OrderProfile{}).Dispatch(doc, fs)
	assert.False(t, again.Changed())
}

func TestDispatchCanonicalizesAndReorders(t *testing.T) {
	doc := docx.New()
	para(doc, "Candidate pack")
	heading(doc, "Work Experience")
	para(doc, "List most recent first")
	heading(doc, "Skills")
	para(doc, "<skills>")
	heading(doc, "REFERENCES")
	para(doc, "Available on request")

	fs := fields.FieldSet{
		Skills:     []string{"Go"},
		Experience: []fields.Role{{Dates: "2019 - 2021", Company: "Beta plc", Title: "Analyst"}},
	}
	rep := newDispatcher(sections.OrderProfile{}).Dispatch(doc, fs)

	want := []string{
		"Candidate pack",
		"KEY SKILLS",
		"Go",
		"EMPLOYMENT HISTORY",
		"2019 - 2021\tBETA PLC",
		"Analyst",
		"REFERENCES",
		"Available on request",
	}
	if diff := cmp.Diff(want, texts(doc.Paragraphs())); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, rep.Renamed)
	assert.True(t, rep.Reordered)

	before := bytesOf(t, doc)
	assert.False(t, newDispatcher(sections.OrderProfile{}).Dispatch(doc, fs).Changed())
	assert.Equal(t, before, bytesOf(t, doc))
}

func TestDispatchOrdersByProfileAliases(t *testing.T) {
	doc := docx.New()
	heading(doc, "KEY SKILLS")
	para(doc, "Go")
	heading(doc, "EMPLOYMENT HISTORY")
	para(doc, "2019 - 2021\tBETA PLC")

	rep := newDispatcher(sections.OrderProfile{Order: []sections.Key{"EXPERIENCE", "SKILLS"}}).Dispatch(doc, fields.FieldSet{})

	want := []string{"EMPLOYMENT HISTORY", "2019 - 2021\tBETA PLC", "KEY SKILLS", "Go"}
	if diff := cmp.Diff(want, texts(doc.Paragraphs())); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, rep.Reordered)
}

func TestDispatchDedupesTitles(t *testing.T) {
	doc := docx.New()
	heading(doc, "KEY SKILLS")
	heading(doc, "Skills")
	para(doc, "Duplicate body")
	heading(doc, "EDUCATION")

	rep := newDispatcher(sections.OrderProfile{DedupeTitles: true}).Dispatch(doc, fields.FieldSet{Skills: []string{"Go"}})
	assert.Equal(t, []string{"KEY SKILLS", "Go", "EDUCATION"}, texts(doc.Paragraphs()))
	assert.Equal(t, 1, rep.Duplicates)
	assert.Equal(t, ActionEmpty, actions(rep)[sections.Education])
}

func TestDispatchKeepsDuplicatesWithoutDedupe(t *testing.T) {
	doc := docx.New()
	heading(doc, "KEY SKILLS")
	heading(doc, "Skills")
	para(doc, "Duplicate body")

	d := newDispatcher(sections.OrderProfile{})
	rep := d.Dispatch(doc, fields.FieldSet{Skills: []string{"Go"}})
	assert.Equal(t, []string{"KEY SKILLS", "Go", "Skills", "Duplicate body"}, texts(doc.Paragraphs()))
	assert.Zero(t, rep.Duplicates)
	assert.Zero(t, rep.Renamed)

	before := bytesOf(t, doc)
	assert.False(t, d.Dispatch(doc, fields.FieldSet{Skills: []string{"Go"}}).Changed())
	assert.Equal(t, before, bytesOf(t, doc))
}

func TestDispatchRendersIntoTableRow(t *testing.T) {
	doc := docx.New()
	tbl := addTable(doc,
		[]string{"QUALIFICATIONS", "Name of establishment\nTitle of qualification"},
		[]string{"Date", "List most recent first."},
	)
	fs := fields.FieldSet{Qualifications: []fields.Education{{Dates: "2020", Institution: "CIPD", Degree: "Level 7 Diploma"}}}
	d := newDispatcher(sections.OrderProfile{})
	rep := d.Dispatch(doc, fs)

	require.Len(t, tbl.Rows(), 1)
	cells := tbl.Rows()[0].Cells()
	assert.Equal(t, "QUALIFICATIONS", cells[0].Text())
	assert.Equal(t, []string{"2020\tCIPD", "Level 7 Diploma"}, texts(cells[1].Paragraphs()))
	require.Len(t, rep.Sections, 1)
	assert.Equal(t, ActionRendered, rep.Sections[0].Action)
	assert.Equal(t, 3, rep.Sections[0].Removed)

	once := bytesOf(t, doc)
	assert.Equal(t, ActionKept, d.Dispatch(doc, fs).Sections[0].Action)
	assert.Equal(t, once, bytesOf(t, doc))
}

func TestDispatchRemovesEmptyTableSection(t *testing.T) {
	doc := docx.New()
	tbl := addTable(doc,
		[]string{"QUALIFICATIONS"},
		[]string{"NAME OF ESTABLISHMENT\tTITLE OF QUALIFICATION\tDATE"},
		[]string{"Member of the Institute of Directors"},
	)
	rep := newDispatcher(sections.OrderProfile{SuppressEmpty: sections.Suppression{All: true}}).Dispatch(doc, fields.FieldSet{})

	require.Len(t, tbl.Rows(), 1)
	assert.Equal(t, "Member of the Institute of Directors", tbl.Rows()[0].Text())
	assert.Equal(t, ActionSuppressed, actions(rep)[sections.Qualifications])
}

func TestDispatchKeepsRulesAroundSummary(t *testing.T) {
	doc := docx.New()
	heading(doc, "PERSONAL PROFILE")
	rule(doc)
	para(doc, "<Insert executive summary here>")
	rule(doc)
	heading(doc, "KEY SKILLS")

	fs := fields.FieldSet{Summary: "A short profile."}
	d := newDispatcher(sections.OrderProfile{})
	d.Dispatch(doc, fs)

	paras := doc.Paragraphs()
	assert.Equal(t, []string{"PERSONAL PROFILE", "", "A short profile.", "", "KEY SKILLS"}, texts(paras))
	assert.True(t, paras[1].HasBorder())
	assert.True(t, paras[3].HasBorder())

	once := bytesOf(t, doc)
	d.Dispatch(doc, fs)
	assert.Equal(t, once, bytesOf(t, doc))
}

func TestDispatchIsolatesWriterPanics(t *testing.T) {
	doc := docx.New()
	heading(doc, "KEY SKILLS")
	heading(doc, "EDUCATION")

	writers := DefaultWriters()
	writers[sections.KeySkills] = func(fields.FieldSet) []Line { panic("boom") }
	d := New(Config{Order: sections.OrderProfile{Order: sections.CanonicalKeys}, Writers: writers, Logger: quiet()})

	rep := d.Dispatch(doc, fields.FieldSet{
		Skills:    []string{"Go"},
		Education: []fields.Education{{Dates: "2019", Institution: "UCL"}},
	})
	failed := rep.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, sections.KeySkills, failed[0].Key)
	assert.True(t, errors.HasCategory(failed[0].Err, errors.CategoryRender))
	assert.Equal(t, []string{"KEY SKILLS", "EDUCATION", "2019\tUCL"}, texts(doc.Paragraphs()))
}
