// Package benchmark implements the `benchmark` command line application: it runs every case in a YAML suite file
// against a list of containment strategies and writes a table of the best time, in milliseconds, for each.
package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/schollz/progressbar/v3"
	"github.com/whosonfirst/go-whosonfirst-spatial-contains/suite"
)

type Options struct {
	Strategies []string `short:"s" long:"strategy" description:"One or more containment strategy URIs. Overrides the strategies defined in the suite file."`
	Iterations int      `short:"n" long:"iterations" description:"The number of times to run each strategy. Overrides the iterations defined in the suite file."`
	NoProgress bool     `long:"no-progress" description:"Do not display a progress bar on STDERR"`
	Verbose    bool     `short:"v" long:"verbose" description:"Enable verbose (debug) logging to STDERR"`

	Args struct {
		Suite string `positional-arg-name:"suite-file" description:"Path to a YAML suite file"`
	} `positional-args:"yes" required:"yes"`
}

// Run parses 'args' (excluding the program name), runs the suite and writes the results table to 'stdout'.
// Progress is reported on STDERR.
func Run(ctx context.Context, args []string, stdout io.Writer) error {

	var opts Options

	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "benchmark"

	_, err := parser.ParseArgs(args)

	if err != nil {

		if flags_err, ok := err.(*flags.Error); ok && flags_err.Type == flags.ErrHelp {
			return nil
		}

		return fmt.Errorf("Failed to parse arguments, %w", err)
	}

	return RunWithOptions(ctx, &opts, stdout)
}

// RunWithOptions runs the suite described by 'opts' and writes the results table to 'stdout'.
func RunWithOptions(ctx context.Context, opts *Options, stdout io.Writer) error {

	level := slog.LevelInfo

	if opts.Verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	s, err := suite.Load(opts.Args.Suite)

	if err != nil {
		return fmt.Errorf("Failed to load suite, %w", err)
	}

	if len(opts.Strategies) > 0 {
		s.Strategies = opts.Strategies
	}

	if opts.Iterations > 0 {
		s.Iterations = opts.Iterations
	}

	run_opts := &suite.RunOptions{}

	var bar *progressbar.ProgressBar

	if !opts.NoProgress {

		bar = progressbar.NewOptions(s.Steps(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("benchmarking"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		run_opts.Progress = func() {
			bar.Add(1)
		}
	}

	results, err := suite.Run(ctx, s, run_opts)

	if err != nil {
		return fmt.Errorf("Failed to run suite, %w", err)
	}

	if bar != nil {
		bar.Finish()
	}

	err = suite.WriteTable(stdout, s.StrategyURIs(), results)

	if err != nil {
		return fmt.Errorf("Failed to write results, %w", err)
	}

	return nil
}
