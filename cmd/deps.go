/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tristendillon/flatten/core/expander"
	"github.com/tristendillon/flatten/core/graph"
	"github.com/tristendillon/flatten/core/logger"
)

func newDepsCommand(root *rootOptions) *cobra.Command {
	var format string

	depsCmd := &cobra.Command{
		Use:   "deps [file]",
		Short: "Print the local include graph",
		Long: `Resolves every local include the way flatten would and prints the graph
instead of the flattened text.

Formats:
  tree  indented tree from the entry file (default)
  list  one "includer -> included" line per edge
  topo  files with every include before its includer`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Debug("deps called")
			_, expOpts, err := root.load(cmd)
			if err != nil {
				return err
			}

			g := graph.New()
			expOpts.Graph = g
			if _, err := runExpansion(cmd, expander.New(expOpts), args); err != nil {
				return err
			}

			label := relativeLabeler(expOpts.WorkDir)
			w := cmd.OutOrStdout()
			switch format {
			case "tree":
				return g.WriteTree(w, label)
			case "list":
				return g.WriteEdges(w, label)
			case "topo":
				return g.WriteTopological(w, label)
			default:
				return fmt.Errorf("unknown format %q (want tree, list or topo)", format)
			}
		},
	}

	depsCmd.Flags().StringVar(&format, "format", "tree", "Output format: tree, list or topo")
	return depsCmd
}

// relativeLabeler shows paths relative to wd when they live below it.
func relativeLabeler(wd string) graph.Labeler {
	base := wd
	if resolved, err := filepath.EvalSymlinks(wd); err == nil {
		base = resolved
	}
	return func(path string) string {
		if path == expander.StdinName {
			return path
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return path
		}
		return filepath.ToSlash(rel)
	}
}
