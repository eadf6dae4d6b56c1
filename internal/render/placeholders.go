package render

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

// Placeholders decides which template text is guidance to be removed.
// Phrases match anywhere in the normalized line; Exact matches the whole
// line.
type Placeholders struct {
	Phrases      []string `json:"phrases" yaml:"phrases"`
	Exact        []string `json:"exact" yaml:"exact"`
	XFillerMin   int      `json:"x_filler_min" yaml:"x_filler_min"`
	XFillerRatio float64  `json:"x_filler_ratio" yaml:"x_filler_ratio"`
}

// DefaultPlaceholders returns the guidance vocabulary of the stock templates.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Phrases: []string{
			"LIST MOST RECENT FIRST",
			"NAME OF ESTABLISHMENT",
			"EDUCATIONAL ESTABLISHMENT",
			"AWARDS OBTAINED",
			"TITLE OF QUALIFICATION",
			"START DATE - END DATE",
			"COMPANY INFO ITALIC",
			"COMPANY, LOCATION OR COMPANY INFO",
			"JOB TITLE",
			"INSERT EXECUTIVE SUMMARY",
			"INSERT SUMMARY",
			"DELETE AS APPROPRIATE",
		},
		Exact:        []string{"DATE", "DATES", "COMPANY NAME", "BULLET POINTS"},
		XFillerMin:   8,
		XFillerRatio: 0.6,
	}
}

var (
	bracketedRe = regexp.MustCompile(`^[<\[][^<>\[\]]*[>\]]$`)
	xRunRe      = regexp.MustCompile(`[xX]+`)
)

// Match reports whether text is template guidance: a known phrase, a whole
// line in angle or square brackets, or X filler. Blank text is not guidance.
func (p Placeholders) Match(text string) bool {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return false
	}
	if bracketedRe.MatchString(raw) || p.IsXFiller(raw) {
		return true
	}
	t := sections.Normalize(strings.Trim(raw, "<>[]"))
	for _, e := range p.Exact {
		if t == sections.Normalize(e) {
			return true
		}
	}
	for _, ph := range p.Phrases {
		if n := sections.Normalize(ph); n != "" && strings.Contains(t, n) {
			return true
		}
	}
	return false
}

// IsXFiller reports whether text is mostly a run of X characters, as used
// to pad template fields.
func (p Placeholders) IsXFiller(text string) bool {
	t := strings.TrimSpace(text)
	total := utf8.RuneCountInString(t)
	if total == 0 || p.XFillerMin <= 0 {
		return false
	}
	longest := 0
	for _, run := range xRunRe.FindAllString(t, -1) {
		longest = max(longest, len(run))
	}
	return longest >= p.XFillerMin && float64(longest) >= p.XFillerRatio*float64(total)
}
