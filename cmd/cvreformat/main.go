package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/cv-reformat/internal/errors"
)

// Version is set at build time.
var Version = "dev"

type globalFlags struct {
	logFormat string
	verbose   bool
}

func main() {
	var g globalFlags
	root := &cobra.Command{
		Use:           "cvreformat",
		Short:         "Reformat CVs into a house template",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", env("LOG_FORMAT", "text"), "log format: text|json")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", env("VERBOSE", "") != "", "debug logging and detailed errors")

	root.AddCommand(reformatCmd(&g), extractCmd(&g), blocksCmd(), watchCmd(&g))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err, g.verbose))
		os.Exit(errors.ExitCode(err))
	}
}

// logger builds the stderr logger selected by the global flags.
func (g *globalFlags) logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if g.verbose {
		opts.Level = slog.LevelDebug
	}
	if strings.EqualFold(g.logFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// env reads CVREFORMAT_<name>, falling back to def.
func env(name, def string) string {
	if v, ok := os.LookupEnv("CVREFORMAT_" + name); ok {
		return v
	}
	return def
}
