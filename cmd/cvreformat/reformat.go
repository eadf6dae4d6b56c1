package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/cv-reformat/internal/convert"
)

// pipelineFlags registers the flags shared by reformat and watch.
func pipelineFlags(cmd *cobra.Command, conf *convert.Config) {
	cmd.Flags().StringVar(&conf.Fields, "data", "", "field set file (JSON or YAML) used instead of extraction")
	cmd.Flags().StringVarP(&conf.Template, "template", "t", env("TEMPLATE", ""), ".docx template to render into (default: the input)")
	cmd.Flags().StringVarP(&conf.Output, "out", "o", "", "output .docx path (default: <input>-reformatted.docx)")
	cmd.Flags().StringVar(&conf.OutDir, "out-dir", env("OUT_DIR", ""), "directory for the output")
	cmd.Flags().StringVar(&conf.StyleProfile, "style-profile", env("STYLE_PROFILE", ""), "style profile (default: built-in Template 1)")
	cmd.Flags().StringVar(&conf.SectionProfile, "section-profile", env("SECTION_PROFILE", ""), "section order profile (default: built-in Template 1)")
	cmd.Flags().StringVar(&conf.Rules, "rules", env("RULES", ""), "placeholder and extraction rule overrides")
	cmd.Flags().BoolVar(&conf.SkipStyle, "no-style", false, "leave template styles untouched")
	cmd.Flags().StringVar(&conf.Report, "report", "", "also write the run result as JSON to this path")
}

func reformatCmd(g *globalFlags) *cobra.Command {
	var conf convert.Config

	cmd := &cobra.Command{
		Use:   "reformat [input]",
		Short: "Render a CV into the template and save it as .docx",
		Long: `Reformat extracts the fields of the input CV (.docx, .pdf or text), or
reads them from --data, renders them into the template and saves the result.
Running it again on its own output changes nothing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				conf.Input = args[0]
			}
			conf.Logger = g.logger()
			res, err := convert.Run(cmd.Context(), conf)
			if err != nil {
				return err
			}
			b, _ := json.MarshalIndent(res, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	pipelineFlags(cmd, &conf)
	cmd.Flags().BoolVar(&conf.DryRun, "dry-run", false, "run every stage but do not write the output")
	return cmd
}
