/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/flatten/core/expander"
	"github.com/tristendillon/flatten/core/graph"
	"github.com/tristendillon/flatten/core/logger"
	"github.com/tristendillon/flatten/core/output"
	"github.com/tristendillon/flatten/core/watcher"
)

func newWatchCommand(root *rootOptions) *cobra.Command {
	var out string

	watchCmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-flatten whenever an included file changes",
		Long: `Flattens the file into the output file, then watches every file that was
inlined and rewrites the output when one of them changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Debug("watch called")
			cfg, expOpts, err := root.load(cmd)
			if err != nil {
				return err
			}

			if out == "" {
				out = cfg.Output
			}
			if out == "" {
				return fmt.Errorf("watch needs an output file (-o or output in config)")
			}

			entry := args[0]
			build := func(g *graph.IncludeGraph) (*expander.Result, error) {
				buildOpts := expOpts
				buildOpts.Graph = g
				res, err := expander.New(buildOpts).ExpandFile(entry)
				if err != nil {
					return nil, err
				}
				if err := output.WriteFile(out, res.Text); err != nil {
					return nil, err
				}
				return res, nil
			}

			w, err := watcher.New(entry, build, watcher.DefaultDebounce)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("Watching %s, writing %s", entry, out)
			return w.Run(ctx)
		},
	}

	watchCmd.Flags().StringVarP(&out, "output", "o", "", "File to write (required unless set in config); <file>.lock is created beside it")
	return watchCmd
}
