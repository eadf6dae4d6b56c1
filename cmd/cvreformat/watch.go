package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/cv-reformat/internal/convert"
	"github.com/thywilljoshua/cv-reformat/internal/errors"
)

func watchCmd(g *globalFlags) *cobra.Command {
	var conf convert.Config
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [input]",
		Short: "Reformat again whenever the input, data, template or profiles change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				conf.Input = args[0]
			}
			log := g.logger()
			conf.Logger = log
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return convert.Watch(ctx, conf, debounce, func(res convert.Result, err error) {
				if err != nil {
					if ctx.Err() == context.Canceled {
						return
					}
					errors.Log(log, err)
					return
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			})
		},
	}
	pipelineFlags(cmd, &conf)
	cmd.Flags().DurationVar(&debounce, "debounce", convert.DefaultDebounce, "quiet period before re-running after a change")
	return cmd
}
