package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/cv-reformat/internal/docx"
	"github.com/thywilljoshua/cv-reformat/internal/errors"
)

const cvText = `CURRICULUM VITAE
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
`

const fieldsYAML = `
full_name: Jane Smith
location: Leeds
profile: Operations leader with fifteen years in logistics.
key_skills: [Go, SQL]
employment_history:
  - {company: Acme Ltd, title: Head of Operations, start: Jan 2021, end: Present, bullets: [Led X]}
`

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	doc := docx.New()
	add := func(style, text string) {
		p := doc.Body().AddParagraph()
		if style != "" {
			p.SetStyle(style)
		}
		p.AddRun(text)
	}
	add("", "CURRICULUM VITAE FOR FIRSTNAME LASTNAME")
	add("", "CANDIDATE LOCATION: N/A")
	add("Heading2", "PERSONAL PROFILE")
	add("", "<Insert executive summary>")
	add("Heading2", "KEY SKILLS")
	add("", "")
	add("Heading2", "EMPLOYMENT HISTORY")
	add("", "List most recent first.")
	add("Heading2", "ADDITIONAL INFORMATION")
	add("", "XXXXXXXXXXXX")

	path := filepath.Join(dir, "template.docx")
	require.NoError(t, doc.Save(path))
	return path
}

func paragraphs(t *testing.T, path string) []string {
	t.Helper()
	doc, err := docx.Open(path)
	require.NoError(t, err)
	var out []string
	for _, p := range doc.Paragraphs() {
		out = append(out, p.Text())
	}
	return out
}

func TestRunRendersFieldSet(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Fields:   writeFile(t, dir, "cv.yaml", fieldsYAML),
		Template: writeTemplate(t, dir),
		OutDir:   filepath.Join(dir, "out"),
		Output:   "jane.docx",
		Report:   filepath.Join(dir, "out", "report.json"),
		Logger:   quiet(),
	}
	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Equal(t, SourceFile, res.FieldSource)
	assert.Equal(t, filepath.Join(dir, "out", "jane.docx"), res.Output)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Warnings)
	assert.Contains(t, res.Style.Applied(), "header_footer")

	want := []string{
		"CURRICULUM VITAE FOR JANE SMITH",
		"CANDIDATE LOCATION: LEEDS",
		"PERSONAL PROFILE",
		"Operations leader with fifteen years in logistics.",
		"KEY SKILLS",
		"Go",
		"SQL",
		"EMPLOYMENT HISTORY",
		"Jan 2021 – Present\tACME LTD",
		"Head of Operations",
		"Led X",
	}
	if diff := cmp.Diff(want, paragraphs(t, res.Output)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(cfg.Report)
	require.NoError(t, err)
	var report Result
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, res.RunID, report.RunID)
	assert.Equal(t, "Jane Smith", report.Fields.Name)
}

func TestRunIsIdempotentOnItsOutput(t *testing.T) {
	dir := t.TempDir()
	fieldsPath := writeFile(t, dir, "cv.yaml", fieldsYAML)
	first, err := Run(context.Background(), Config{
		Fields:   fieldsPath,
		Template: writeTemplate(t, dir),
		Output:   filepath.Join(dir, "first.docx"),
		Logger:   quiet(),
	})
	require.NoError(t, err)

	second, err := Run(context.Background(), Config{
		Fields:   fieldsPath,
		Template: first.Output,
		Output:   filepath.Join(dir, "second.docx"),
		Logger:   quiet(),
	})
	require.NoError(t, err)
	assert.False(t, second.Render.Changed())

	a, err := docx.Open(first.Output)
	require.NoError(t, err)
	b, err := docx.Open(second.Output)
	require.NoError(t, err)
	for _, part := range []string{"word/document.xml", "word/styles.xml"} {
		pa, ok := a.Part(part)
		require.True(t, ok, part)
		pb, ok := b.Part(part)
		require.True(t, ok, part)
		assert.Equal(t, string(pa), string(pb), part)
	}
}

func TestRunExtractsFromText(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(context.Background(), Config{
		Input:    writeFile(t, dir, "jane.txt", cvText),
		Template: writeTemplate(t, dir),
		OutDir:   dir,
		Logger:   quiet(),
	})
	require.NoError(t, err)
	assert.Equal(t, SourceExtracted, res.FieldSource)
	assert.Equal(t, "Jane Smith", res.Fields.Name)
	assert.Equal(t, []string{"Leadership", "Financial Modelling", "Lean / Kaizen"}, res.Fields.Skills)
	assert.Equal(t, filepath.Join(dir, "jane-reformatted.docx"), res.Output)

	got := paragraphs(t, res.Output)
	assert.Contains(t, got, "CURRICULUM VITAE FOR JANE SMITH")
	assert.Contains(t, got, "Lean / Kaizen")
	assert.NotContains(t, got, "ADDITIONAL INFORMATION")
	assert.NotContains(t, got, "List most recent first.")
}

func TestRunLogsStyleSteps(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	_, err := Run(context.Background(), Config{
		Fields:   writeFile(t, dir, "cv.yaml", fieldsYAML),
		Template: writeTemplate(t, dir),
		Output:   filepath.Join(dir, "out.docx"),
		DryRun:   true,
		Logger:   slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	require.NoError(t, err)

	steps := map[string]bool{}
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		if entry["msg"] != "Style step" {
			continue
		}
		assert.Equal(t, "style", entry["stage"])
		assert.NotEmpty(t, entry["run_id"])
		steps[entry["step"].(string)] = entry["applied"].(bool)
	}
	assert.True(t, steps["margins"])
	assert.True(t, steps["header_footer"])
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(context.Background(), Config{
		Fields:   writeFile(t, dir, "cv.yaml", fieldsYAML),
		Template: writeTemplate(t, dir),
		Output:   filepath.Join(dir, "out.docx"),
		DryRun:   true,
		Logger:   quiet(),
	})
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.NotEmpty(t, res.Render.Sections)
	assert.NoFileExists(t, res.Output)
}

func TestRunDefaultsToInputAsTemplate(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir)
	input := filepath.Join(dir, "My CV.docx")
	require.NoError(t, os.Rename(tmpl, input))

	res, err := Run(context.Background(), Config{
		Input:     input,
		Fields:    writeFile(t, dir, "cv.yaml", fieldsYAML),
		OutDir:    dir,
		SkipStyle: true,
		Logger:    quiet(),
	})
	require.NoError(t, err)
	assert.Equal(t, input, res.Template)
	assert.Equal(t, filepath.Join(dir, "my-cv-reformatted.docx"), res.Output)
	assert.Empty(t, res.Style.Results)
	assert.FileExists(t, res.Output)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", cvText)
	fieldsPath := writeFile(t, dir, "cv.yaml", fieldsYAML)
	tmpl := writeTemplate(t, dir)
	notDocx := writeFile(t, dir, "broken.docx", "not a zip")

	cases := []struct {
		name     string
		cfg      Config
		category errors.ErrorCategory
	}{
		{"no input", Config{}, errors.CategoryInput},
		{"text input without template", Config{Input: cv}, errors.CategoryInput},
		{"missing template", Config{Fields: fieldsPath, Template: filepath.Join(dir, "nope.docx")}, errors.CategoryInput},
		{"broken template", Config{Fields: fieldsPath, Template: notDocx}, errors.CategoryTemplate},
		{"missing field set", Config{Fields: filepath.Join(dir, "nope.yaml"), Template: tmpl}, errors.CategoryInput},
		{"unsupported input", Config{Input: writeFile(t, dir, "cv.odt", "x"), Template: tmpl}, errors.CategoryInput},
		{"malformed profile", Config{Fields: fieldsPath, Template: tmpl, SectionProfile: writeFile(t, dir, "s.yaml", "order: [a\n")}, errors.CategoryConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Output = filepath.Join(dir, "out", tc.name+".docx")
			tc.cfg.Logger = quiet()
			_, err := Run(context.Background(), tc.cfg)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, tc.category), "got %v", err)
			assert.NoFileExists(t, tc.cfg.Output)
		})
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{
		Fields:   writeFile(t, dir, "cv.yaml", fieldsYAML),
		Template: writeTemplate(t, dir),
		Output:   filepath.Join(dir, "out.docx"),
		Logger:   quiet(),
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "out.docx"))
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "sections.yaml", "aliases:\n  PERSONAL PROFILE: [ABOUT ME]\n")
	fs, err := Extract(context.Background(), writeFile(t, dir, "cv.txt", cvText), ExtractConfig{SectionProfile: profile, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", fs.Name)
	assert.Equal(t, "jane.smith@example.com", fs.Email)
	require.Len(t, fs.Experience, 1)
	assert.Equal(t, "Acme Ltd", fs.Experience[0].Company)
	assert.Equal(t, []string{"Led X"}, fs.Experience[0].Bullets)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My CV":            "my-cv",
		" Jane_Smith 2024": "jane-smith-2024",
		"--CV--":           "cv",
		"Ünïcode":          "n-code",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), in)
	}
	assert.Equal(t, filepath.Join("out", "cv-reformatted.docx"), outputPath("___.pdf", "out"))
}
