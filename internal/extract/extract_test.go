package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/cv-reformat/internal/blocks"
	"github.com/thywilljoshua/cv-reformat/internal/fields"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

func plain(texts ...string) []blocks.Block {
	out := make([]blocks.Block, len(texts))
	for i, t := range texts {
		out[i] = blocks.Block{Text: t, Source: blocks.SourceBody}
	}
	return out
}

func TestContact(t *testing.T) {
	bs := plain("Jane Smith", "jane.smith@example.com | +44 7700 900123 | linkedin.com/in/janesmith", "Call 0113 496 0000")
	c := Contact(bs)
	assert.Equal(t, "jane.smith@example.com", c.Email)
	assert.Equal(t, "+44 7700 900123", c.Phone)
	assert.Equal(t, "linkedin.com/in/janesmith", c.URL)
}

func TestContactIgnoresShortNumbers(t *testing.T) {
	c := Contact(plain("Saved 120,000 in 2019"))
	assert.Empty(t, c.Phone)
}

func TestNameSkipsGenericTitleAndPrefix(t *testing.T) {
	v := sections.DefaultVocabulary()
	name, idx := Name(plain("CURRICULUM VITAE", "Curriculum Vitae for Jane Smith", "Leeds"), v, Options{})
	assert.Equal(t, "Jane Smith", name)
	assert.Equal(t, 1, idx)

	name, _ = Name(plain("CV - Cvetan Petrov"), v, Options{})
	assert.Equal(t, "Cvetan Petrov", name)
}

func TestNameSkipsSectionHeadings(t *testing.T) {
	bs := plain("Key Skills", "jane smith", "jane@example.com")
	bs[0].IsHeading = true
	name, idx := Name(bs, sections.DefaultVocabulary(), Options{})
	assert.Equal(t, "jane smith", name)
	assert.Equal(t, 1, idx)
}

func TestNameMissing(t *testing.T) {
	name, idx := Name(plain("jane@example.com", ""), sections.DefaultVocabulary(), Options{})
	assert.Empty(t, name)
	assert.Equal(t, -1, idx)
}

func TestLocation(t *testing.T) {
	v := sections.DefaultVocabulary()

	t.Run("label wins", func(t *testing.T) {
		bs := plain("Jane Smith", "Manchester", "Candidate Location: Leeds")
		assert.Equal(t, "Leeds", Location(bs, 0, v, Options{}))
	})

	t.Run("n/a label is ignored", func(t *testing.T) {
		bs := plain("Jane Smith", "Candidate location: N/A", "Manchester")
		assert.Equal(t, "Manchester", Location(bs, 0, v, Options{}))
	})

	t.Run("headings and prose are not places", func(t *testing.T) {
		bs := plain("Jane Smith", "PROFILE", "An experienced operations leader", "Senior Project Manager")
		assert.Empty(t, Location(bs, 0, v, Options{}))
	})

	t.Run("job title under the name is not a place", func(t *testing.T) {
		bs := blocks.FromText("Jane Smith\nProduct Designer\njane@example.com\nLeeds, West Yorkshire")
		for _, title := range []string{"Product Designer", "Tax Accountant", "Solutions Architect", "Data Specialist"} {
			assert.False(t, looksLikePlace(title, DefaultOptions()), title)
		}
		assert.Equal(t, "Leeds, West Yorkshire", Location(bs, 0, v, Options{}))
	})

	t.Run("postcode line keeps the town", func(t *testing.T) {
		bs := plain("Jane Smith", "jane@example.com", "12 High Street, Harrogate, HG1 2AB")
		assert.Equal(t, "Harrogate", Location(bs, 0, v, Options{}))
	})

	t.Run("comma line keeps its last part", func(t *testing.T) {
		bs := plain("Jane Smith", "jane@example.com", "07700 900123", "0113 496 0000", "x", "y", "Headingley, Leeds")
		assert.Equal(t, "Leeds", Location(bs, 0, v, Options{}))
	})
}

func TestSummary(t *testing.T) {
	v := sections.DefaultVocabulary()

	bs := plain("PROFILE", "Line one of the profile.", "", "Line two.")
	bs[0].IsHeading = true
	assert.Equal(t, "Line one of the profile. Line two.", Summary(bs, sections.Classify(bs, v), Options{}))

	bs = plain("Jane Smith", "jane@example.com", "An operations leader with fifteen years in logistics.", "KEY SKILLS", "A very long list of skills that should never be used as summary")
	bs[0].IsHeading = true
	bs[3].IsHeading = true
	assert.Equal(t, "An operations leader with fifteen years in logistics.", Summary(bs, sections.Classify(bs, v), Options{}))
}

func TestCapText(t *testing.T) {
	assert.Equal(t, "short", capText("short", 10))
	assert.Equal(t, "alpha beta…", capText("alpha beta gamma", 12))
}

func TestSkills(t *testing.T) {
	got := Skills([]string{"Leadership, Financial Modelling; Lean / Kaizen"})
	assert.Equal(t, []string{"Leadership", "Financial Modelling", "Lean / Kaizen"}, got)

	got = Skills([]string{"• Go", "go", "SQL, and Python"})
	assert.Equal(t, []string{"Go", "SQL, and Python"}, got)
}

func TestItems(t *testing.T) {
	got := Items([]string{"- PRINCE2 Practitioner", "1. Full UK driving licence\n2) Fluent French", ""})
	assert.Equal(t, []string{"PRINCE2 Practitioner", "Full UK driving licence", "Fluent French"}, got)
}

func TestExperience(t *testing.T) {
	got := Experience([]string{
		"Jan 2021 – Present\tHead of Operations, Acme Ltd",
		"- Led X",
		"- Saved £3m",
		"Operations Manager | Beta plc",
		"2016 - 2020",
		"A regional distributor of parts.",
		"- Cut costs by 10%; improved OTIF",
		"- Ran a multi-",
		"site rollout",
	})
	want := []fields.Role{
		{
			Dates:   "Jan 2021 – Present",
			Title:   "Head of Operations",
			Company: "Acme Ltd",
			Bullets: []string{"Led X", "Saved £3m"},
		},
		{
			Dates:   "2016 - 2020",
			Title:   "Operations Manager",
			Company: "Beta plc",
			Blurb:   "A regional distributor of parts.",
			Bullets: []string{"Cut costs by 10%", "improved OTIF", "Ran a multisite rollout"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Experience mismatch (-want +got):\n%s", diff)
	}
}

func TestExperienceBareDatesMergeIntoHeader(t *testing.T) {
	got := Experience([]string{"Acme Ltd, Analyst", "2016 - 2019", "", "Built models", "", "Ran reports"})
	require.Len(t, got, 1)
	assert.Equal(t, "2016 - 2019", got[0].Dates)
	assert.Equal(t, "Analyst", got[0].Title)
	assert.Equal(t, "Acme Ltd", got[0].Company)
	assert.Equal(t, []string{"Built models", "Ran reports"}, got[0].Bullets)
}

func TestSplitHeader(t *testing.T) {
	cases := []struct {
		in                       string
		title, company, location string
	}{
		{"Acme Ltd — Head of Ops", "Head of Ops", "Acme Ltd", ""},
		{"Acme Ltd\tHead of Operations, London", "Head of Operations", "Acme Ltd", "London"},
		{"Finance Director at Beta plc", "Finance Director", "Beta plc", ""},
		{"Beta plc", "", "Beta plc", ""},
		{"Senior Engineer", "Senior Engineer", "", ""},
	}
	for _, c := range cases {
		title, company, location := splitHeader(c.in)
		assert.Equal(t, c.title, title, c.in)
		assert.Equal(t, c.company, company, c.in)
		assert.Equal(t, c.location, location, c.in)
	}
}

func TestFallbackExperienceSkipsEducation(t *testing.T) {
	bs := plain(
		"Jane Smith",
		"Analyst, Acme Ltd, 2016 - 2019",
		"- Built models",
		"EDUCATION",
		"BSc Economics, University of Leeds, 2012 - 2015",
	)
	bs[3].IsHeading = true
	ranges := sections.Classify(bs, sections.DefaultVocabulary())

	got := FallbackExperience(bs, ranges, Options{})
	want := []fields.Role{{Dates: "2016 - 2019", Title: "Analyst", Company: "Acme Ltd", Bullets: []string{"Built models"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FallbackExperience mismatch (-want +got):\n%s", diff)
	}
}

func TestEducation(t *testing.T) {
	got := Education([]string{
		"BSc Maths, University of York, 2016 - 2019",
		"MSc Data Science, UCL, 2020",
		"- Dissertation on graphs",
	})
	want := []fields.Education{
		{Dates: "2020", Degree: "MSc Data Science", Institution: "UCL", Bullets: []string{"Dissertation on graphs"}},
		{Dates: "2016 - 2019", Degree: "BSc Maths", Institution: "University of York"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Education mismatch (-want +got):\n%s", diff)
	}
}

func TestFields(t *testing.T) {
	bs := blocks.FromText(`CURRICULUM VITAE
Jane Smith
Leeds
jane.smith@example.com | 07700 900123
PROFILE
Operations leader with fifteen years in logistics.
KEY SKILLS
Leadership, Financial Modelling; Lean / Kaizen
EMPLOYMENT HISTORY
Jan 2021 – Present	Head of Operations, Acme Ltd
- Led X
Operations Manager | Beta plc
2016 - 2020
- Cut costs
EDUCATION
BSc Economics, University of Leeds, 2:1, 2012 - 2015
MBA, Leeds Business School, 2019`)

	got := Fields(bs, nil, Options{})
	want := fields.FieldSet{
		Name:     "Jane Smith",
		Email:    "jane.smith@example.com",
		Phone:    "07700 900123",
		Location: "Leeds",
		Summary:  "Operations leader with fifteen years in logistics.",
		Skills:   []string{"Leadership", "Financial Modelling", "Lean / Kaizen"},
		Education: []fields.Education{
			{Dates: "2019", Degree: "MBA", Institution: "Leeds Business School"},
			{Dates: "2012 - 2015", Degree: "BSc Economics", Institution: "University of Leeds", Result: "2:1"},
		},
		Experience: []fields.Role{
			{Dates: "Jan 2021 – Present", Title: "Head of Operations", Company: "Acme Ltd", Bullets: []string{"Led X"}},
			{Dates: "2016 - 2020", Title: "Operations Manager", Company: "Beta plc", Bullets: []string{"Cut costs"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsSkillsOnePerLine(t *testing.T) {
	bs := blocks.FromText("Jane Smith\nKEY SKILLS\nLeadership\nFinancial Modelling\n\nEDUCATION\nBSc Economics, University of Leeds, 2015")
	got := Fields(bs, nil, Options{})
	assert.Equal(t, []string{"Leadership", "Financial Modelling"}, got.Skills)
	require.Len(t, got.Education, 1)
}
