// Package contains implements the `contains` command line application: it prints the number of milliseconds it
// takes to test each point in one GeoJSON file for containment by any of the geometries in a second GeoJSON file.
package contains

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb"
	"github.com/whosonfirst/go-reader"
	spatial_contains "github.com/whosonfirst/go-whosonfirst-spatial-contains"
	"github.com/whosonfirst/go-whosonfirst-spatial-contains/collection"
)

type Options struct {
	Strategy  string `long:"strategy" description:"A valid containment strategy URI" default:"scan://"`
	ReaderURI string `long:"reader-uri" description:"An optional whosonfirst/go-reader URI. If present points and polygons files are read relative to it."`
	Verbose   bool   `short:"v" long:"verbose" description:"Enable verbose (debug) logging to STDERR"`

	Args struct {
		Points   string `positional-arg-name:"points-file" description:"Path to a GeoJSON file containing points"`
		Polygons string `positional-arg-name:"polygons-file" description:"Path to a GeoJSON file containing polygons"`
	} `positional-args:"yes" required:"yes"`
}

// Run parses 'args' (excluding the program name), runs the containment test and writes the elapsed time, in whole
// milliseconds, as the only line written to 'stdout'.
func Run(ctx context.Context, args []string, stdout io.Writer) error {

	var opts Options

	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "contains"
	parser.LongDescription = fmt.Sprintf("Valid strategies are: %s", strings.Join(spatial_contains.Schemes(), ", "))

	_, err := parser.ParseArgs(args)

	if err != nil {

		if flags_err, ok := err.(*flags.Error); ok && flags_err.Type == flags.ErrHelp {
			return nil
		}

		return fmt.Errorf("Failed to parse arguments, %w", err)
	}

	return RunWithOptions(ctx, &opts, stdout)
}

// RunWithOptions runs the containment test described by 'opts' and writes the elapsed time, in whole milliseconds,
// to 'stdout'.
func RunWithOptions(ctx context.Context, opts *Options, stdout io.Writer) error {

	level := slog.LevelInfo

	if opts.Verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	points, polygons, err := load(ctx, opts)

	if err != nil {
		return err
	}

	runner, err := spatial_contains.NewRunner(ctx, opts.Strategy)

	if err != nil {
		return fmt.Errorf("Failed to create runner, %w", err)
	}

	defer runner.Close(ctx)

	rpt, err := runner.Run(ctx, points, polygons)

	if err != nil {
		return fmt.Errorf("Failed to run containment test, %w", err)
	}

	_, err = fmt.Fprintln(stdout, rpt.Milliseconds())

	if err != nil {
		return fmt.Errorf("Failed to write elapsed time, %w", err)
	}

	return nil
}

func load(ctx context.Context, opts *Options) (orb.Collection, orb.Collection, error) {

	if opts.ReaderURI == "" {

		points, err := collection.LoadPoints(ctx, opts.Args.Points)

		if err != nil {
			return nil, nil, fmt.Errorf("Failed to load points, %w", err)
		}

		polygons, err := collection.LoadPolygons(ctx, opts.Args.Polygons)

		if err != nil {
			return nil, nil, fmt.Errorf("Failed to load polygons, %w", err)
		}

		return points, polygons, nil
	}

	r, err := reader.NewReader(ctx, opts.ReaderURI)

	if err != nil {
		return nil, nil, fmt.Errorf("Failed to create reader, %w", err)
	}

	points, err := collection.LoadPointsWithReader(ctx, r, opts.Args.Points)

	if err != nil {
		return nil, nil, fmt.Errorf("Failed to load points, %w", err)
	}

	polygons, err := collection.LoadPolygonsWithReader(ctx, r, opts.Args.Polygons)

	if err != nil {
		return nil, nil, fmt.Errorf("Failed to load polygons, %w", err)
	}

	return points, polygons, nil
}
