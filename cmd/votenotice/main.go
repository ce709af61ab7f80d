// Package main provides the CLI entry point for votenotice.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/votenotice-go/internal/config"
	"github.com/ukaji3/votenotice-go/internal/logging"
	"github.com/ukaji3/votenotice-go/pkg/votenotice"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/parser"
)

var (
	configPath   string
	templateName string
	registerName string
	batchSize    int
	workers      int
	sharePolicy  string
	logLevel     string
	logFormat    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "votenotice [input-root]",
		Short: "Generate co-owner meeting notices from a register",
		Long: `votenotice reads a co-owner register (xlsx), groups ownership records by
person, and fills a copy of the notice template (docx) for every person.
Notices are written in batches, one document per batch, into the input root.`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default: <input-root>/votenotice.toml)")
	flags.StringVar(&templateName, "template", "", "Template file name or path")
	flags.StringVar(&registerName, "register", "", "Register file name or path")
	flags.IntVarP(&batchSize, "batch-size", "b", 0, "Persons per output document")
	flags.IntVarP(&workers, "workers", "w", 0, "Concurrent expansions per batch")
	flags.StringVar(&sharePolicy, "share-policy", "", "Share division for multi-name rows: even, exact")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: console, json")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	inputRoot := votenotice.DefaultInputRoot
	if len(args) == 1 {
		inputRoot = args[0]
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath(inputRoot)
	}
	cfg, _, err := config.Load(path)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.InputRoot = inputRoot
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	opts := cfg.Options()
	opts.Logger = logger

	summary, err := votenotice.Generate(cmd.Context(), opts)
	if errors.Is(err, votenotice.ErrEmptyResult) {
		fmt.Fprintln(cmd.OutOrStdout(), "No owners found in the register; nothing to generate.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("template") {
		cfg.Files.Template = templateName
	}
	if flags.Changed("register") {
		cfg.Files.Register = registerName
	}
	if flags.Changed("batch-size") {
		cfg.Batch.Size = batchSize
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = workers
	}
	if flags.Changed("share-policy") {
		policy, err := parser.ParseSharePolicy(sharePolicy)
		if err != nil {
			return err
		}
		cfg.Register.SharePolicy = string(policy)
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	return nil
}
