/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/flatten/core/config"
	"github.com/tristendillon/flatten/core/expander"
	"github.com/tristendillon/flatten/core/logger"
	"github.com/tristendillon/flatten/core/output"
)

// rootOptions holds flag values shared by every command.
type rootOptions struct {
	logfile           string
	verbose           bool
	noColor           bool
	configPath        string
	includeDirs       []string
	excludedNamespace string
	maxDepth          int
	output            string

	logHandle *os.File
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootOptions{})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flatten [file]",
		Short: "Inline local #include directives into a single source file.",
		Long: `Flatten reads a source file (or standard input) and recursively replaces
every local #include "name" directive with the content of the named file.
Each file is inlined once, at its first include. System headers and headers
under the excluded namespace directory keep their directive line.

Include directories come from CPLUS_INCLUDE_PATH, then flatten.yaml, then -I.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setupLogging,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Debug("flatten called")
			cfg, expOpts, err := opts.load(cmd)
			if err != nil {
				return err
			}

			res, err := runExpansion(cmd, expander.New(expOpts), args)
			if err != nil {
				return err
			}

			if out := opts.outputPath(cfg); out != "" {
				if err := output.WriteFile(out, res.Text); err != nil {
					return err
				}
				logger.Info("Wrote %s (%d files)", out, len(res.Files))
				return nil
			}
			return output.Write(cmd.OutOrStdout(), res.Text)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logfile, "logfile", "", "File to write logs to")
	flags.BoolVar(&opts.verbose, "verbose", false, "Verbose output")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable coloured log output")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ./"+config.FileName+")")
	flags.StringArrayVarP(&opts.includeDirs, "include", "I", nil, "Additional include directory (repeatable)")
	flags.StringVar(&opts.excludedNamespace, "exclude-namespace", expander.DefaultExcludedNamespace, "Directory name whose headers are never inlined (empty to disable)")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum include nesting (0 = unlimited)")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to file instead of stdout; <file>.lock is created beside it")

	rootCmd.AddCommand(newDepsCommand(opts))
	rootCmd.AddCommand(newWatchCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func Execute() {
	opts := &rootOptions{}
	if err := run(newRootCommand(opts), opts); err != nil {
		os.Exit(1)
	}
}

// run executes cmd, logs a failure, and only then releases the log file so
// the final error reaches it.
func run(cmd *cobra.Command, opts *rootOptions) error {
	err := cmd.Execute()
	if err != nil {
		logger.Error("%v", err)
	}
	opts.closeLog()
	return err
}

func (o *rootOptions) setupLogging(cmd *cobra.Command, args []string) error {
	logger.SetVerbose(o.verbose)
	if o.noColor {
		logger.SetColor(false)
	}
	if o.logfile == "" {
		return nil
	}
	f, err := os.OpenFile(o.logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", o.logfile, err)
	}
	o.logHandle = f
	logger.AddWriterForAll(f)
	return nil
}

func (o *rootOptions) closeLog() {
	if o.logHandle != nil {
		logger.SetWriterForAll(os.Stderr)
		o.logHandle.Close()
		o.logHandle = nil
	}
}

// load reads .env and the config file and merges them with the flags.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, expander.Options, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, expander.Options{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	if err := config.LoadEnv(wd); err != nil {
		return nil, expander.Options{}, err
	}
	cfg, err := config.Load(wd, o.configPath)
	if err != nil {
		return nil, expander.Options{}, err
	}

	opts := expander.Options{
		IncludeDirs:       cfg.SearchDirs(o.includeDirs),
		ExcludedNamespace: cfg.ExcludedNamespace,
		SystemHeaders:     cfg.SystemHeaders,
		MaxDepth:          cfg.MaxDepth,
		WorkDir:           wd,
	}
	if cmd.Flags().Changed("exclude-namespace") {
		opts.ExcludedNamespace = o.excludedNamespace
	}
	if cmd.Flags().Changed("max-depth") {
		if o.maxDepth < 0 {
			return nil, expander.Options{}, fmt.Errorf("--max-depth must not be negative")
		}
		opts.MaxDepth = o.maxDepth
	}
	logger.Debug("Include directories: %v", opts.IncludeDirs)
	return cfg, opts, nil
}

func (o *rootOptions) outputPath(cfg *config.Config) string {
	if o.output != "" {
		return o.output
	}
	return cfg.Output
}

// runExpansion flattens args[0], or standard input when no file is given.
func runExpansion(cmd *cobra.Command, exp *expander.Expander, args []string) (*expander.Result, error) {
	if len(args) == 1 {
		return exp.ExpandFile(args[0])
	}
	logger.Debug("No file given, reading standard input")
	return exp.ExpandReader(cmd.InOrStdin())
}
