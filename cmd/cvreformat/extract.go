package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/cv-reformat/internal/blocks"
	"github.com/thywilljoshua/cv-reformat/internal/convert"
	"github.com/thywilljoshua/cv-reformat/internal/errors"
)

func extractCmd(g *globalFlags) *cobra.Command {
	var conf convert.ExtractConfig
	var format string

	cmd := &cobra.Command{
		Use:   "extract <input>",
		Short: "Print the field set recovered from a CV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf.Logger = g.logger()
			fs, err := convert.Extract(cmd.Context(), args[0], conf)
			if err != nil {
				return err
			}
			return encode(cmd, format, fs)
		},
	}
	cmd.Flags().StringVar(&conf.SectionProfile, "section-profile", env("SECTION_PROFILE", ""), "section profile whose aliases extend the heading vocabulary")
	cmd.Flags().StringVar(&conf.Rules, "rules", env("RULES", ""), "extraction rule overrides")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json|yaml")
	return cmd
}

func blocksCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "blocks <input>",
		Short: "Print a CV as the ordered text blocks the extractor sees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := blocks.Load(args[0])
			if err != nil {
				return errors.WrapError(err, errors.CategoryInput, "cannot read input CV").
					Fatal().
					WithContext("path", args[0]).
					Build()
			}
			return encode(cmd, format, bs)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json|yaml")
	return cmd
}

func encode(cmd *cobra.Command, format string, v any) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	default:
		return errors.ConfigError(fmt.Sprintf("unknown format %q", format)).Build()
	}
}
