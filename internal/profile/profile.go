// Package profile loads the declarative inputs of a run: style profiles,
// section order profiles, rule overrides and field sets. Profiles are YAML
// or JSON; an empty path selects the embedded Template 1 defaults.
package profile

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/cv-reformat/internal/errors"
	"github.com/thywilljoshua/cv-reformat/internal/extract"
	"github.com/thywilljoshua/cv-reformat/internal/fields"
	"github.com/thywilljoshua/cv-reformat/internal/render"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
	"github.com/thywilljoshua/cv-reformat/internal/style"
)

//go:embed defaults/*.yaml
var defaults embed.FS

const (
	defaultStyle    = "defaults/template1.style.yaml"
	defaultSections = "defaults/template1.sections.yaml"
)

// Rules overrides the built-in heuristics: the template guidance vocabulary
// and the extractor thresholds. Keys left out keep their defaults.
type Rules struct {
	Placeholders render.Placeholders `json:"placeholders" yaml:"placeholders"`
	Extract      extract.Options     `json:"extract" yaml:"extract"`
}

// DefaultRules returns the built-in rules.
func DefaultRules() Rules {
	return Rules{Placeholders: render.DefaultPlaceholders(), Extract: extract.DefaultOptions()}
}

// Style loads a style profile.
func Style(path string) (style.Profile, error) {
	var p style.Profile
	err := load(path, defaultStyle, &p)
	return p, err
}

// Sections loads a section order profile. An empty order falls back to the
// canonical order; a section listed twice is an error.
func Sections(path string) (sections.OrderProfile, error) {
	var p sections.OrderProfile
	if err := load(path, defaultSections, &p); err != nil {
		return p, err
	}
	if len(p.Order) == 0 {
		p.Order = append([]sections.Key(nil), sections.CanonicalKeys...)
	}
	// Duplicates are detected after alias resolution: EXPERIENCE and
	// EMPLOYMENT HISTORY name the same section.
	canonical := p.Canonicalize(sections.DefaultVocabulary())
	seen := map[sections.Key]bool{}
	for i, nk := range canonical.Order {
		k := p.Order[i]
		if nk == "" || seen[nk] {
			return p, errors.ConfigError(fmt.Sprintf("section %q listed twice or empty in order", k)).
				WithContext("path", path).
				Build()
		}
		seen[nk] = true
	}
	return p, nil
}

// LoadRules loads rule overrides on top of DefaultRules.
func LoadRules(path string) (Rules, error) {
	r := DefaultRules()
	if path == "" {
		return r, nil
	}
	err := load(path, "", &r)
	return r, err
}

// Fields loads a field set, accepting the synonym keys of fields.Decode.
func Fields(path string) (fields.FieldSet, error) {
	data, err := read(path)
	if err != nil {
		return fields.FieldSet{}, err
	}
	fs, err := fields.Decode(data)
	if err != nil {
		return fs, errors.WrapError(err, errors.CategoryInput, "invalid field set").
			Fatal().
			WithContext("path", path).
			Build()
	}
	fs.Sort()
	return fs, nil
}

func read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInput, "cannot read file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return data, nil
}

func load(path, fallback string, out any) error {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = defaults.ReadFile(fallback)
		if err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "missing embedded profile").
				WithContext("name", fallback).
				Build()
		}
		path = fallback
	} else if data, err = read(path); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid profile").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}
