package fields

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Synonym key lists, first match wins. Upstream field sets come from several
// tools and hand-written files, so each canonical key accepts the spellings
// seen in practice.
var (
	nameKeys     = []string{"name", "full_name", "candidate_name", "candidate", "person_name"}
	firstKeys    = []string{"first_name", "firstname", "given_name"}
	lastKeys     = []string{"last_name", "lastname", "surname", "family_name"}
	emailKeys    = []string{"email", "e_mail", "email_address"}
	phoneKeys    = []string{"phone", "telephone", "tel", "mobile", "phone_number"}
	urlKeys      = []string{"url", "website", "web", "linkedin", "portfolio"}
	locationKeys = []string{"location", "candidate_location", "base_location", "city", "town"}
	summaryKeys  = []string{"summary", "personal_profile", "executive_summary", "professional_summary", "profile"}
	skillsKeys   = []string{"skills", "key_skills", "core_skills", "competencies"}
	eduKeys      = []string{"education", "academic_history", "training_and_education"}
	qualKeys     = []string{"qualifications", "certifications", "certificates"}
	roleKeys     = []string{"experience", "employment_history", "work_history", "employment", "roles"}
	pdKeys       = []string{"professional_development", "other_headings", "pd", "training", "courses"}
	extraKeys    = []string{"additional_information", "extras", "other_information", "interests"}

	entryDatesKeys  = []string{"dates", "year", "date", "when", "graduation_year", "period"}
	entryInstKeys   = []string{"institution", "establishment", "school", "university", "college", "name", "provider"}
	entryDegreeKeys = []string{"degree", "title", "qualification", "program", "programme", "course"}
	entryResultKeys = []string{"result", "award", "grade", "classification", "honours", "honors"}
	entryBulletKeys = []string{"bullets", "modules", "highlights", "details"}

	roleDatesKeys   = []string{"dates", "period"}
	roleStartKeys   = []string{"start", "start_date", "from", "date_from"}
	roleEndKeys     = []string{"end", "end_date", "to", "date_to"}
	roleTitleKeys   = []string{"title", "role", "job_title", "position"}
	roleCompanyKeys = []string{"company", "employer", "org", "organisation", "organization"}
	roleLocKeys     = []string{"location", "city", "place"}
	roleBlurbKeys   = []string{"blurb", "company_blurb", "company_info", "employer_summary", "about_company"}
	roleBulletKeys  = []string{"bullets", "responsibilities", "highlights", "achievements", "description"}
)

// Decode reads a JSON or YAML field set, accepting synonym keys.
func Decode(data []byte) (FieldSet, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return FieldSet{}, fmt.Errorf("decode field set: %w", err)
	}
	return fromMap(raw), nil
}

// UnmarshalJSON accepts the same synonym keys as Decode.
func (fs *FieldSet) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*fs = fromMap(raw)
	return nil
}

func fromMap(raw map[string]any) FieldSet {
	m := normalizeKeys(raw)
	fs := FieldSet{
		Name:     scalar(m, nameKeys...),
		Email:    scalar(m, emailKeys...),
		Phone:    scalar(m, phoneKeys...),
		URL:      scalar(m, urlKeys...),
		Location: scalar(m, locationKeys...),
		Summary:  scalar(m, summaryKeys...),

		Skills:                  stringList(first(m, skillsKeys...)),
		Education:               educationList(first(m, eduKeys...)),
		Qualifications:          educationList(first(m, qualKeys...)),
		Experience:              roleList(first(m, roleKeys...)),
		ProfessionalDevelopment: stringList(first(m, pdKeys...)),
		AdditionalInformation:   stringList(first(m, extraKeys...)),
	}
	if fs.Name == "" {
		fs.Name = strings.TrimSpace(scalar(m, firstKeys...) + " " + scalar(m, lastKeys...))
	}
	if langs := stringList(m["languages"]); len(langs) > 0 {
		fs.AdditionalInformation = append(fs.AdditionalInformation, "Languages: "+strings.Join(langs, ", "))
	}
	fs.Sort()
	return fs
}

// normalizeKeys lower-cases keys and folds spaces and hyphens to underscores.
func normalizeKeys(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		nk := strings.ToLower(strings.TrimSpace(k))
		nk = strings.NewReplacer(" ", "_", "-", "_").Replace(nk)
		if _, dup := out[nk]; !dup {
			out[nk] = v
		}
	}
	return out
}

// first returns the first non-empty value among keys.
func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && !isEmpty(v) {
			return v
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func scalar(m map[string]any, keys ...string) string {
	return toString(first(m, keys...))
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := stringList(t)
		return strings.Join(parts, " ")
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// stringList accepts a list, a single string with one item per line, or a
// map of labelled groups ("Tools: a, b").
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		for _, line := range strings.Split(t, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
	case map[string]any:
		for _, k := range sortedKeys(t) {
			items := stringList(t[k])
			if len(items) > 0 {
				out = append(out, k+": "+strings.Join(items, ", "))
			}
		}
	default:
		if s := toString(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// entries turns a list, a single map or a multi-line string into items.
func entries(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case map[string]any:
		return []any{t}
	case string:
		var out []any
		for _, line := range stringList(t) {
			out = append(out, line)
		}
		return out
	}
	return []any{v}
}

func educationList(v any) []Education {
	var out []Education
	for _, item := range entries(v) {
		var e Education
		switch t := item.(type) {
		case map[string]any:
			m := normalizeKeys(t)
			e = Education{
				Dates:       scalar(m, entryDatesKeys...),
				Institution: scalar(m, entryInstKeys...),
				Degree:      scalar(m, entryDegreeKeys...),
				Result:      scalar(m, entryResultKeys...),
				Bullets:     stringList(first(m, entryBulletKeys...)),
			}
			if e.Dates == "" {
				e.Dates = joinRange(scalar(m, roleStartKeys...), scalar(m, roleEndKeys...), false)
			}
		default:
			e = ParseEducationLine(toString(t))
		}
		if !e.Empty() {
			out = append(out, e)
		}
	}
	return out
}

func roleList(v any) []Role {
	var out []Role
	for _, item := range entries(v) {
		var r Role
		switch t := item.(type) {
		case map[string]any:
			m := normalizeKeys(t)
			r = Role{
				Dates:    scalar(m, roleDatesKeys...),
				Title:    scalar(m, roleTitleKeys...),
				Company:  scalar(m, roleCompanyKeys...),
				Location: scalar(m, roleLocKeys...),
				Blurb:    scalar(m, roleBlurbKeys...),
				Bullets:  stringList(first(m, roleBulletKeys...)),
			}
			if r.Dates == "" {
				r.Dates = joinRange(scalar(m, roleStartKeys...), scalar(m, roleEndKeys...), true)
			}
		default:
			r = Role{Title: toString(t)}
		}
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}

// joinRange renders start and end as "start – end". An open role with only a
// start date runs to "Present".
func joinRange(start, end string, open bool) string {
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "" && open:
		return start + " – Present"
	case end == "":
		return start
	}
	return start + " – " + end
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
