// Package sections maps free-form CV headings onto the canonical section
// vocabulary and decides section order, deduplication and suppression.
package sections

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Key is a canonical section name, spelled as it is printed in templates.
// Unrecognized headings use their normalized literal text as their key.
type Key string

const (
	PersonalProfile         Key = "PERSONAL PROFILE"
	KeySkills               Key = "KEY SKILLS"
	ProfessionalDevelopment Key = "PROFESSIONAL DEVELOPMENT"
	Education               Key = "EDUCATION"
	Qualifications          Key = "QUALIFICATIONS"
	EmploymentHistory       Key = "EMPLOYMENT HISTORY"
	AdditionalInformation   Key = "ADDITIONAL INFORMATION"
)

// CanonicalKeys lists the vocabulary in the default template order.
var CanonicalKeys = []Key{
	PersonalProfile,
	KeySkills,
	ProfessionalDevelopment,
	Education,
	Qualifications,
	EmploymentHistory,
	AdditionalInformation,
}

// DefaultAliases returns the built-in heading variants for each canonical key.
func DefaultAliases() map[Key][]string {
	return map[Key][]string{
		PersonalProfile: {
			"PROFILE", "SUMMARY", "PROFESSIONAL SUMMARY", "PROFESSIONAL PROFILE",
			"PERSONAL STATEMENT", "PERSONAL SUMMARY", "EXECUTIVE SUMMARY",
			"CAREER SUMMARY", "ABOUT ME", "OBJECTIVE", "CAREER OBJECTIVE",
		},
		KeySkills: {
			"SKILLS", "TECHNICAL SKILLS", "CORE SKILLS", "SKILLS SUMMARY",
			"CORE COMPETENCIES", "KEY COMPETENCIES", "AREAS OF EXPERTISE",
		},
		ProfessionalDevelopment: {
			"OTHER HEADINGS", "OTHER HEADING", "TRAINING", "COURSES",
			"CONTINUING PROFESSIONAL DEVELOPMENT", "CPD", "TRAINING AND DEVELOPMENT",
		},
		Education: {
			"ACADEMIC HISTORY", "ACADEMIC BACKGROUND", "EDUCATION & TRAINING",
			"EDUCATION AND TRAINING", "EDUCATION HISTORY", "ACADEMIC QUALIFICATIONS",
		},
		Qualifications: {
			"CERTIFICATIONS", "CERTIFICATES", "PROFESSIONAL QUALIFICATIONS",
			"ACCREDITATIONS", "LICENCES", "LICENSES", "CERTIFICATIONS & LICENSES",
		},
		EmploymentHistory: {
			"EXPERIENCE", "WORK EXPERIENCE", "PROFESSIONAL EXPERIENCE", "EMPLOYMENT",
			"CAREER HISTORY", "WORK HISTORY", "CAREER", "RELEVANT EXPERIENCE",
		},
		AdditionalInformation: {
			"ADDITIONAL", "OTHER INFORMATION", "INTERESTS", "HOBBIES",
			"HOBBIES AND INTERESTS", "HOBBIES & INTERESTS", "PERSONAL INTERESTS",
			"LANGUAGES", "EXTRAS",
		},
	}
}

var (
	spaceRe         = regexp.MustCompile(`\s+`)
	trailingPunctRe = regexp.MustCompile(`[\s:;,.\-–—]+$`)
	dashes          = strings.NewReplacer("–", "-", "—", "-", "‒", "-", "−", "-")
)

// Normalize folds heading text to its comparison form: NFKC, ASCII
// hyphens for dashes, collapsed whitespace, upper case and no trailing
// punctuation.
func Normalize(s string) string {
	s = dashes.Replace(norm.NFKC.String(s))
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	s = strings.ToUpper(s)
	return trailingPunctRe.ReplaceAllString(s, "")
}

// Vocabulary is an alias map usable in both directions. It is immutable
// once built.
type Vocabulary struct {
	variants map[Key][]string
	index    map[string]Key
}

// NewVocabulary builds a vocabulary from canonical keys to their variants.
// Each canonical spelling always resolves to itself; when a variant is listed
// under more than one key, the key that sorts first wins.
func NewVocabulary(aliases map[Key][]string) *Vocabulary {
	v := &Vocabulary{
		variants: make(map[Key][]string, len(aliases)),
		index:    make(map[string]Key),
	}
	keys := make([]Key, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, Key(Normalize(string(k))))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	normalized := make(map[Key][]string, len(aliases))
	for k, list := range aliases {
		nk := Key(Normalize(string(k)))
		for _, a := range list {
			normalized[nk] = append(normalized[nk], Normalize(a))
		}
	}
	for _, k := range keys {
		v.index[string(k)] = k
	}
	for _, k := range keys {
		seen := map[string]bool{string(k): true}
		v.variants[k] = []string{string(k)}
		for _, a := range normalized[k] {
			if a == "" || seen[a] {
				continue
			}
			seen[a] = true
			v.variants[k] = append(v.variants[k], a)
			if _, taken := v.index[a]; !taken {
				v.index[a] = k
			}
		}
	}
	return v
}

// DefaultVocabulary is NewVocabulary(DefaultAliases()).
func DefaultVocabulary() *Vocabulary { return NewVocabulary(DefaultAliases()) }

// With returns a vocabulary extended by extra aliases. v is unchanged.
func (v *Vocabulary) With(extra map[Key][]string) *Vocabulary {
	if len(extra) == 0 {
		return v
	}
	merged := make(map[Key][]string, len(v.variants)+len(extra))
	for k, list := range v.variants {
		merged[k] = append(merged[k], list...)
	}
	for k, list := range extra {
		nk := Key(Normalize(string(k)))
		merged[nk] = append(merged[nk], list...)
	}
	return NewVocabulary(merged)
}

// Resolve maps heading text to its canonical key.
func (v *Vocabulary) Resolve(heading string) (Key, bool) {
	k, ok := v.index[Normalize(heading)]
	return k, ok
}

// Canonical resolves heading text, falling back to its normalized literal.
func (v *Vocabulary) Canonical(heading string) Key {
	if k, ok := v.Resolve(heading); ok {
		return k
	}
	return Key(Normalize(heading))
}

// Variants returns the normalized spellings accepted for k, canonical first.
func (v *Vocabulary) Variants(k Key) []string {
	return append([]string(nil), v.variants[k]...)
}

// Keys returns the canonical keys of the vocabulary, sorted.
func (v *Vocabulary) Keys() []Key {
	out := make([]Key, 0, len(v.variants))
	for k := range v.variants {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether k is a canonical key of the vocabulary.
func (v *Vocabulary) Known(k Key) bool {
	_, ok := v.variants[k]
	return ok
}
