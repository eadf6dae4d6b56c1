package extract

import (
	"strings"

	"github.com/thywilljoshua/cv-reformat/internal/blocks"
	"github.com/thywilljoshua/cv-reformat/internal/fields"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

// Fields runs every heuristic over the blocks and assembles a field set with
// its dated lists sorted most recent first.
func Fields(bs []blocks.Block, v *sections.Vocabulary, o Options) fields.FieldSet {
	if v == nil {
		v = sections.DefaultVocabulary()
	}
	o = o.withDefaults()
	ranges := sections.Classify(bs, v)

	var fs fields.FieldSet
	c := Contact(bs)
	fs.Email, fs.Phone, fs.URL = c.Email, c.Phone, c.URL

	var nameIdx int
	fs.Name, nameIdx = Name(bs, v, o)
	fs.Location = Location(bs, nameIdx, v, o)
	fs.Summary = Summary(bs, ranges, o)

	if r, ok := ranges[sections.KeySkills]; ok {
		lines := r.Texts(bs)
		if len(lines) == 0 {
			lines = shortLineList(bs, r.Start, v)
		}
		fs.Skills = Skills(lines)
	}
	if r, ok := ranges[sections.Education]; ok {
		fs.Education = Education(r.Texts(bs))
	}
	if r, ok := ranges[sections.Qualifications]; ok {
		fs.Qualifications = Education(r.Texts(bs))
	}
	if r, ok := ranges[sections.EmploymentHistory]; ok {
		fs.Experience = Experience(allTexts(bs, r))
	}
	if len(fs.Experience) == 0 {
		fs.Experience = FallbackExperience(bs, ranges, o)
	}
	if r, ok := ranges[sections.ProfessionalDevelopment]; ok {
		fs.ProfessionalDevelopment = Items(r.Texts(bs))
	}
	if r, ok := ranges[sections.AdditionalInformation]; ok {
		fs.AdditionalInformation = Items(r.Texts(bs))
	}
	fs.Sort()
	return fs
}

// shortLineList collects the run of unrecognized heading-like lines that
// starts at i. In unstyled text a one-item-per-line list reads as a series
// of headings, which leaves the section before it empty.
func shortLineList(bs []blocks.Block, i int, v *sections.Vocabulary) []string {
	var out []string
	for ; i < len(bs); i++ {
		t := strings.TrimSpace(bs[i].Text)
		if t == "" {
			continue
		}
		if !bs[i].IsHeading {
			break
		}
		if _, ok := v.Resolve(t); ok {
			break
		}
		out = append(out, t)
	}
	return out
}

// allTexts keeps empty blocks, which separate bullets in role bodies.
func allTexts(bs []blocks.Block, r sections.Range) []string {
	var out []string
	for i := r.Start; i < r.End && i < len(bs); i++ {
		out = append(out, bs[i].Text)
	}
	return out
}

// Education parses one entry per non-bullet line; bullet lines attach to the
// entry above them.
func Education(lines []string) []fields.Education {
	var out []fields.Education
	for _, line := range expand(lines) {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if isBullet(t) && len(out) > 0 {
			last := &out[len(out)-1]
			last.Bullets = append(last.Bullets, stripBullet(t))
			continue
		}
		if e := fields.ParseEducationLine(stripBullet(t)); !e.Empty() {
			out = append(out, e)
		}
	}
	fields.SortEducation(out)
	return out
}
