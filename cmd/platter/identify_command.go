package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"platter/internal/catalog"
	"platter/internal/config"
	"platter/internal/logging"
	"platter/internal/notifications"
	"platter/internal/pipeline"
	"platter/internal/preflight"
	"platter/internal/reasoning"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "identify <disk-dir>",
		Short: "Identify the content of a ripped disk directory",
		Long: `Identify the movie or TV content inside a ripped disc directory by analyzing
subtitle dialogue, extracting character names, and searching the local catalog.

The run is resumable: progress is persisted to .platter/record.json inside the
disk directory, and a re-run picks up after the last completed step. Exit code
is 0 when the disk is identified or gracefully marked as needing manual
review, non-zero on unrecoverable errors.

Examples:
  platter identify ~/rips/GOODFELLAS_1990
  platter identify --skip-preflight /mnt/rips/BREAKING_BAD_S2_D1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			diskDir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve disk directory: %w", err)
			}

			out := cmd.OutOrStdout()
			if !skipPreflight {
				if err := runPreflight(cmd, cfg, diskDir); err != nil {
					return err
				}
			}

			logger, err := newRunLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			reasoner := reasoning.NewService(reasoning.NewClient(cfg.Reasoning), logger)
			notifier := notifications.NewService(cfg)

			opts := []pipeline.Option{}
			bar := newStepProgress(noProgress)
			if bar != nil {
				opts = append(opts, pipeline.WithObserver(func(step int, name string, outcome pipeline.Outcome) {
					bar.Describe(name)
					_ = bar.Add(1)
				}))
			}

			runner := pipeline.NewRunner(cfg, store, reasoner, notifier, logger, opts...)
			record, runErr := runner.Run(cmd.Context(), diskDir)
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(os.Stderr)
			}
			if runErr != nil {
				if record != nil {
					fmt.Fprintf(out, "Run aborted: %v\n", runErr)
					fmt.Fprintf(out, "Inspect the record with: platter show %s\n", diskDir)
				}
				return runErr
			}

			printOutcome(out, record, diskDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip readiness checks before the run")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the step progress bar")
	return cmd
}

func runPreflight(cmd *cobra.Command, cfg *config.Config, diskDir string) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	results := preflight.RunAll(cmd.Context(), cfg, diskDir)
	fmt.Fprintln(out, "Preflight:")
	for _, result := range results {
		fmt.Fprintln(out, renderCheckLine(result.Name, result.Passed, result.Detail, colorize))
	}
	if !preflight.AllPassed(results) {
		return fmt.Errorf("preflight checks failed, fix the reported problems or rerun with --skip-preflight")
	}
	fmt.Fprintln(out)
	return nil
}

// newRunLogger routes run logs into the configured log directory so they do
// not interleave with the progress bar. Without a log dir, logs fall back to
// stderr and switch to JSON when stderr is not a terminal.
func newRunLogger(cfg *config.Config) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		opts.OutputPaths = []string{filepath.Join(dir, "platter.log")}
	} else if !stderrIsTerminal() {
		opts.Format = "json"
	}
	return logging.New(opts)
}

// newStepProgress builds the per-step progress bar, or nil when disabled or
// when stderr is not a terminal.
func newStepProgress(disabled bool) *progressbar.ProgressBar {
	if disabled || !stderrIsTerminal() {
		return nil
	}
	return progressbar.NewOptions(pipeline.StepFinalize,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("starting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(24),
		progressbar.OptionClearOnFinish(),
	)
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printOutcome(out io.Writer, record *pipeline.DiskRecord, diskDir string) {
	fmt.Fprintln(out, "Identification Results:")
	fmt.Fprintf(out, "  Disk:         %s\n", record.Name)
	if record.ContentType != "" {
		fmt.Fprintf(out, "  Content Type: %s\n", record.ContentType)
	}
	fmt.Fprintf(out, "  Status:       %s\n", string(record.Status.Terminal))

	if best := record.BestMatch; best != nil {
		fmt.Fprintf(out, "  Best Match:   %s [%s]\n", candidateLabel(*best), best.ExternalID)
		if best.Confidence != "" {
			fmt.Fprintf(out, "  Confidence:   %s\n", best.Confidence)
		}
		if best.Reasoning != "" {
			fmt.Fprintf(out, "  Reasoning:    %s\n", best.Reasoning)
		}
		return
	}

	fmt.Fprintln(out, "  Best Match:   none")
	if record.Status.Error != "" {
		fmt.Fprintf(out, "  Error:        %s\n", record.Status.Error)
	}
	fmt.Fprintf(out, "\nNo confident match was found; manual review required.\n")
	fmt.Fprintf(out, "Inspect candidates with: platter show %s\n", diskDir)
}
