package render

import (
	"strings"

	"github.com/thywilljoshua/cv-reformat/internal/fields"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

// Line is one paragraph of rendered section content.
type Line struct {
	Text    string
	Bullet  bool
	Bold    bool
	Italic  bool
	Justify bool
}

// SectionWriter turns the field set into the lines of one section. A writer
// returning no lines marks the section as empty.
type SectionWriter func(fields.FieldSet) []Line

// DefaultWriters returns the writers for the canonical sections.
func DefaultWriters() map[sections.Key]SectionWriter {
	return map[sections.Key]SectionWriter{
		sections.PersonalProfile:         writeSummary,
		sections.KeySkills:               func(fs fields.FieldSet) []Line { return bullets(fs.Skills) },
		sections.ProfessionalDevelopment: func(fs fields.FieldSet) []Line { return bullets(fs.ProfessionalDevelopment) },
		sections.Education:               func(fs fields.FieldSet) []Line { return writeEducation(fs.Education) },
		sections.Qualifications:          func(fs fields.FieldSet) []Line { return writeEducation(fs.Qualifications) },
		sections.EmploymentHistory:       func(fs fields.FieldSet) []Line { return writeExperience(fs.Experience) },
		sections.AdditionalInformation:   func(fs fields.FieldSet) []Line { return bullets(fs.AdditionalInformation) },
	}
}

func writeSummary(fs fields.FieldSet) []Line {
	s := strings.TrimSpace(fs.Summary)
	if s == "" {
		return nil
	}
	return []Line{{Text: s, Justify: true}}
}

func bullets(items []string) []Line {
	var out []Line
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, Line{Text: it, Bullet: true})
		}
	}
	return out
}

// joinNonEmpty joins the trimmed non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, sep)
}

// writeEducation renders "dates<TAB>institution", then "degree, result",
// then the entry bullets.
func writeEducation(es []fields.Education) []Line {
	var out []Line
	for _, e := range es {
		if head := joinNonEmpty("\t", e.Dates, e.Institution); head != "" {
			out = append(out, Line{Text: head, Bold: true})
		}
		if award := joinNonEmpty(", ", e.Degree, e.Result); award != "" {
			out = append(out, Line{Text: award})
		}
		out = append(out, bullets(e.Bullets)...)
	}
	return out
}

// writeExperience renders "dates<TAB>COMPANY, location", the title in bold,
// the company blurb in italic, then the role bullets.
func writeExperience(rs []fields.Role) []Line {
	var out []Line
	for _, r := range rs {
		org := joinNonEmpty(", ", strings.ToUpper(r.Company), r.Location)
		if head := joinNonEmpty("\t", r.Dates, org); head != "" {
			out = append(out, Line{Text: head})
		}
		if t := strings.TrimSpace(r.Title); t != "" {
			out = append(out, Line{Text: t, Bold: true})
		}
		if b := strings.TrimSpace(r.Blurb); b != "" {
			out = append(out, Line{Text: b, Italic: true})
		}
		out = append(out, bullets(r.Bullets)...)
	}
	return out
}
