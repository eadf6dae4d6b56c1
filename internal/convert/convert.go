// Package convert runs the reformat pipeline: load profiles, recover a field
// set, open the template, apply the style profile, render the sections and
// save the result.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thywilljoshua/cv-reformat/internal/blocks"
	"github.com/thywilljoshua/cv-reformat/internal/docx"
	"github.com/thywilljoshua/cv-reformat/internal/errors"
	"github.com/thywilljoshua/cv-reformat/internal/extract"
	"github.com/thywilljoshua/cv-reformat/internal/fields"
	"github.com/thywilljoshua/cv-reformat/internal/logfields"
	"github.com/thywilljoshua/cv-reformat/internal/profile"
	"github.com/thywilljoshua/cv-reformat/internal/render"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
	"github.com/thywilljoshua/cv-reformat/internal/style"
)

// Run reformats one CV. Input and profile errors are fatal and leave no
// output behind; a failing section is reported in the result and the rest
// of the document is still written.
func Run(ctx context.Context, cfg Config) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := logger(cfg.Logger).With(logfields.RunID(res.RunID))

	if err := cfg.resolve(); err != nil {
		return res, err
	}
	res.Template, res.Output = cfg.Template, cfg.Output

	var (
		sp    style.Profile
		order sections.OrderProfile
		rules profile.Rules
	)
	err := stage(ctx, log, "profiles", func() (err error) {
		if !cfg.SkipStyle {
			if sp, err = profile.Style(cfg.StyleProfile); err != nil {
				return err
			}
		}
		if order, err = profile.Sections(cfg.SectionProfile); err != nil {
			return err
		}
		rules, err = profile.LoadRules(cfg.Rules)
		return err
	})
	if err != nil {
		return res, err
	}

	err = stage(ctx, log, "fields", func() (err error) {
		if cfg.Fields != "" {
			res.FieldSource = SourceFile
			res.Fields, err = profile.Fields(cfg.Fields)
			return err
		}
		res.FieldSource = SourceExtracted
		res.Fields, err = extractFields(cfg.Input, order, rules)
		return err
	})
	if err != nil {
		return res, err
	}

	var doc *docx.Document
	if err := stage(ctx, log, "template", func() (err error) {
		doc, err = openTemplate(cfg.Template)
		return err
	}); err != nil {
		return res, err
	}

	if !cfg.SkipStyle {
		_ = stage(ctx, log, "style", func() error {
			res.Style = style.Apply(doc, sp)
			for _, s := range res.Style.Results {
				log.Debug("Style step", logfields.Stage("style"), slog.String("step", s.Step), logfields.Applied(s.Applied))
			}
			for _, s := range res.Style.Skipped() {
				res.Warnings = append(res.Warnings, fmt.Sprintf("style %s: %s", s.Step, s.Detail))
			}
			return nil
		})
	}

	_ = stage(ctx, log, "render", func() error {
		rc := render.Config{
			Order:        order,
			Placeholders: &rules.Placeholders,
			Logger:       log,
		}
		if sp.Lists != nil && sp.Lists.IndentCM != nil {
			rc.BulletIndentCM = *sp.Lists.IndentCM
		}
		res.Render = render.New(rc).Dispatch(doc, res.Fields)
		for _, s := range res.Render.Failed() {
			res.Warnings = append(res.Warnings, fmt.Sprintf("section %s: %v", s.Key, s.Err))
		}
		return nil
	})

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if cfg.DryRun {
		log.Info("Dry run, output not written", logfields.Path(cfg.Output))
	} else if err := stage(ctx, log, "save", func() error {
		if err := doc.Save(cfg.Output); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot write output").
				Fatal().
				WithContext("path", cfg.Output).
				Build()
		}
		res.Written = true
		return nil
	}); err != nil {
		return res, err
	}

	if cfg.Report != "" {
		if err := writeReport(cfg.Report, res); err != nil {
			return res, errors.WrapError(err, errors.CategoryFileSystem, "cannot write report").
				WithContext("path", cfg.Report).
				Build()
		}
	}
	log.Info("Reformat complete",
		logfields.Path(cfg.Output),
		slog.Bool("written", res.Written),
		logfields.Count(len(res.Warnings)))
	return res, nil
}

// Extract recovers the field set of the CV at path without rendering it.
func Extract(ctx context.Context, path string, cfg ExtractConfig) (fields.FieldSet, error) {
	log := logger(cfg.Logger).With(logfields.RunID(uuid.NewString()))
	var (
		order sections.OrderProfile
		rules profile.Rules
		fs    fields.FieldSet
	)
	err := stage(ctx, log, "profiles", func() (err error) {
		if order, err = profile.Sections(cfg.SectionProfile); err != nil {
			return err
		}
		rules, err = profile.LoadRules(cfg.Rules)
		return err
	})
	if err != nil {
		return fs, err
	}
	err = stage(ctx, log, "fields", func() (err error) {
		fs, err = extractFields(path, order, rules)
		return err
	})
	return fs, err
}

// resolve checks the inputs and fills the default template and output.
func (c *Config) resolve() error {
	if c.Input == "" && c.Fields == "" {
		return errors.InputError("an input CV or a field set is required").Build()
	}
	if c.Template == "" {
		if c.Input == "" || !strings.EqualFold(filepath.Ext(c.Input), ".docx") {
			return errors.InputError("a .docx template is required when the input is not a .docx").
				WithContext("input", c.Input).
				Build()
		}
		c.Template = c.Input
	}
	if c.Output == "" {
		src := c.Input
		if src == "" {
			src = c.Template
		}
		c.Output = outputPath(src, c.OutDir)
	} else if c.OutDir != "" && !filepath.IsAbs(c.Output) {
		c.Output = filepath.Join(c.OutDir, c.Output)
	}
	return nil
}

func extractFields(path string, order sections.OrderProfile, rules profile.Rules) (fields.FieldSet, error) {
	bs, err := blocks.Load(path)
	if err != nil {
		return fields.FieldSet{}, errors.WrapError(err, errors.CategoryInput, "cannot read input CV").
			Fatal().
			WithContext("path", path).
			Build()
	}
	vocab := order.Vocabulary(sections.DefaultVocabulary())
	return extract.Fields(bs, vocab, rules.Extract), nil
}

func openTemplate(path string) (*docx.Document, error) {
	doc, err := docx.Open(path)
	switch {
	case err == nil:
		return doc, nil
	case os.IsNotExist(err):
		return nil, errors.WrapError(err, errors.CategoryInput, "template not found").
			Fatal().
			WithContext("path", path).
			Build()
	default:
		return nil, errors.WrapError(err, errors.CategoryTemplate, "cannot open template").
			Fatal().
			WithContext("path", path).
			Build()
	}
}

// stage runs fn unless ctx is done and logs how long it took.
func stage(ctx context.Context, log *slog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	ms := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		log.Error("Stage failed", logfields.Stage(name), logfields.DurationMS(ms), logfields.Error(err))
		return err
	}
	log.Debug("Stage complete", logfields.Stage(name), logfields.DurationMS(ms))
	return nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
