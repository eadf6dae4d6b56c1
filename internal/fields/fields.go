// Package fields holds the structured data recovered from, or supplied for,
// a CV: scalar contact details and the repeated education and role entries.
package fields

import (
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

// FieldSet is the structured content of one CV. Empty values mean "render
// nothing" for the matching section.
type FieldSet struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`

	Skills                  []string    `json:"skills,omitempty" yaml:"skills,omitempty"`
	Education               []Education `json:"education,omitempty" yaml:"education,omitempty"`
	Qualifications          []Education `json:"qualifications,omitempty" yaml:"qualifications,omitempty"`
	Experience              []Role      `json:"experience,omitempty" yaml:"experience,omitempty"`
	ProfessionalDevelopment []string    `json:"professional_development,omitempty" yaml:"professional_development,omitempty"`
	AdditionalInformation   []string    `json:"additional_information,omitempty" yaml:"additional_information,omitempty"`
}

// Education is one dated education or qualification entry.
type Education struct {
	Dates       string   `json:"dates,omitempty" yaml:"dates,omitempty"`
	Institution string   `json:"institution,omitempty" yaml:"institution,omitempty"`
	Degree      string   `json:"degree,omitempty" yaml:"degree,omitempty"`
	Result      string   `json:"result,omitempty" yaml:"result,omitempty"`
	Bullets     []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
}

// Empty reports whether the entry carries no text at all.
func (e Education) Empty() bool {
	return e.Dates == "" && e.Institution == "" && e.Degree == "" && e.Result == "" && len(e.Bullets) == 0
}

// Role is one employment entry.
type Role struct {
	Dates    string   `json:"dates,omitempty" yaml:"dates,omitempty"`
	Company  string   `json:"company,omitempty" yaml:"company,omitempty"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Location string   `json:"location,omitempty" yaml:"location,omitempty"`
	Blurb    string   `json:"blurb,omitempty" yaml:"blurb,omitempty"`
	Bullets  []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
}

// Empty reports whether the role carries no text at all.
func (r Role) Empty() bool {
	return r.Dates == "" && r.Company == "" && r.Title == "" && r.Location == "" && r.Blurb == "" && len(r.Bullets) == 0
}

// Has reports whether the field set holds data for section k.
func (fs FieldSet) Has(k sections.Key) bool {
	switch k {
	case sections.PersonalProfile:
		return fs.Summary != ""
	case sections.KeySkills:
		return len(fs.Skills) > 0
	case sections.Education:
		return len(fs.Education) > 0
	case sections.Qualifications:
		return len(fs.Qualifications) > 0
	case sections.EmploymentHistory:
		return len(fs.Experience) > 0
	case sections.ProfessionalDevelopment:
		return len(fs.ProfessionalDevelopment) > 0
	case sections.AdditionalInformation:
		return len(fs.AdditionalInformation) > 0
	}
	return false
}

// Sort puts every dated list in most-recent-first order.
func (fs *FieldSet) Sort() {
	SortEducation(fs.Education)
	SortEducation(fs.Qualifications)
	SortRoles(fs.Experience)
}
