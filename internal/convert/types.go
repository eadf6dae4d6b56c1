package convert

import (
	"log/slog"

	"github.com/thywilljoshua/cv-reformat/internal/fields"
	"github.com/thywilljoshua/cv-reformat/internal/render"
	"github.com/thywilljoshua/cv-reformat/internal/style"
)

// Config describes one reformat run. Paths left empty take their defaults:
// the embedded Template 1 profiles, the input CV as template, and an output
// named after the input next to OutDir.
type Config struct {
	// Input is the CV fields are extracted from (.docx, .pdf or text).
	Input string
	// Fields is a field set file used instead of extraction.
	Fields string
	// Template is the .docx rendered into. Defaults to Input.
	Template string
	Output   string
	OutDir   string

	StyleProfile   string
	SectionProfile string
	Rules          string

	SkipStyle bool
	// DryRun runs every stage but does not write the output.
	DryRun bool
	// Report, when set, receives the Result as JSON.
	Report string

	Logger *slog.Logger
}

// FieldSource says where the rendered field set came from.
type FieldSource string

const (
	SourceExtracted FieldSource = "extracted"
	SourceFile      FieldSource = "file"
)

// Result describes a finished run.
type Result struct {
	RunID       string          `json:"run_id"`
	Template    string          `json:"template"`
	Output      string          `json:"output,omitempty"`
	Written     bool            `json:"written"`
	FieldSource FieldSource     `json:"field_source"`
	Fields      fields.FieldSet `json:"fields"`
	Style       style.Report    `json:"style"`
	Render      render.Report   `json:"render"`
	// Warnings lists section failures and skipped style steps.
	Warnings []string `json:"warnings,omitempty"`
}

// ExtractConfig configures Extract.
type ExtractConfig struct {
	SectionProfile string
	Rules          string
	Logger         *slog.Logger
}
