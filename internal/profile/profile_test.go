package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/cv-reformat/internal/errors"
	"github.com/thywilljoshua/cv-reformat/internal/extract"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultStyle(t *testing.T) {
	p, err := Style("")
	require.NoError(t, err)
	require.NotNil(t, p.Margins)
	assert.InDelta(t, 2.0, *p.Margins.Left, 1e-9)
	require.NotNil(t, p.Lists)
	assert.InDelta(t, 0.63, *p.Lists.IndentCM, 1e-9)
	assert.Contains(t, p.Headings, "H1")
	require.NotNil(t, p.HeaderFooter)
	assert.Equal(t, "Page {PAGE} of {NUMPAGES}", p.HeaderFooter.PageNumbers.Format)
}

func TestDefaultSections(t *testing.T) {
	p, err := Sections("")
	require.NoError(t, err)
	assert.Equal(t, sections.CanonicalKeys, p.Order)
	assert.True(t, p.DedupeTitles)
	assert.True(t, p.SuppressEmpty.Suppresses(sections.AdditionalInformation))
	assert.False(t, p.SuppressEmpty.Suppresses(sections.KeySkills))
}

func TestSectionsFromJSON(t *testing.T) {
	path := writeFile(t, "sections.json", `{"order": ["Key Skills", "EDUCATION"], "suppress_empty": true}`)
	p, err := Sections(path)
	require.NoError(t, err)
	assert.Equal(t, []sections.Key{"Key Skills", "EDUCATION"}, p.Order)
	assert.Equal(t, 0, p.Rank(sections.KeySkills))
	assert.True(t, p.SuppressEmpty.All)
}

func TestSectionsEmptyOrderUsesCanonical(t *testing.T) {
	p, err := Sections(writeFile(t, "s.yaml", "dedupe_titles: false\n"))
	require.NoError(t, err)
	assert.Equal(t, sections.CanonicalKeys, p.Order)
}

func TestSectionsRejectsDuplicateOrder(t *testing.T) {
	_, err := Sections(writeFile(t, "s.yaml", "order: [EDUCATION, education]\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestSectionsRejectsAliasDuplicate(t *testing.T) {
	_, err := Sections(writeFile(t, "s.yaml", "order: [EXPERIENCE, EMPLOYMENT HISTORY]\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	p, err := Sections(writeFile(t, "s.yaml", "order: [EXPERIENCE, SKILLS]\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Canonicalize(nil).Rank(sections.EmploymentHistory))
}

func TestMissingFileIsInputError(t *testing.T) {
	_, err := Style(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryInput))
	assert.Equal(t, 2, errors.ExitCode(err))
}

func TestMalformedProfileIsConfigError(t *testing.T) {
	_, err := Style(writeFile(t, "bad.yaml", "margins: [1, 2\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadRulesKeepsDefaults(t *testing.T) {
	r, err := LoadRules(writeFile(t, "rules.yaml", "placeholders:\n  exact: [TBC]\nextract:\n  name_window: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"TBC"}, r.Placeholders.Exact)
	assert.NotEmpty(t, r.Placeholders.Phrases)
	assert.Equal(t, 8, r.Placeholders.XFillerMin)
	assert.True(t, r.Placeholders.Match("tbc"))

	want := extract.DefaultOptions()
	want.NameWindow = 5
	assert.Equal(t, want, r.Extract)
}

func TestFieldsSortsAndAcceptsSynonyms(t *testing.T) {
	path := writeFile(t, "cv.yaml", `
full_name: Jane Smith
key_skills: [Go, SQL]
employment_history:
  - {company: Acme Ltd, start: "2016", end: "2019"}
  - {company: Beta plc, start: "2020", end: Present}
`)
	fs, err := Fields(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", fs.Name)
	assert.Equal(t, []string{"Go", "SQL"}, fs.Skills)
	require.Len(t, fs.Experience, 2)
	assert.Equal(t, "Beta plc", fs.Experience[0].Company)
}
