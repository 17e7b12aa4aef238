// Package suite runs collections of containment benchmarks against multiple strategies.
package suite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/paulmach/orb"
	"github.com/whosonfirst/go-whosonfirst-spatial-contains"
	"github.com/whosonfirst/go-whosonfirst-spatial-contains/collection"
	"gopkg.in/yaml.v3"
)

// Suite defines a set of benchmark cases and the strategies to run them with.
type Suite struct {
	Iterations int      `yaml:"iterations,omitempty"`
	Strategies []string `yaml:"strategies,omitempty"`
	Cases      []Case   `yaml:"cases"`
}

// Case is a single pair of points and polygons files.
type Case struct {
	Name     string `yaml:"name"`
	Points   string `yaml:"points"`
	Polygons string `yaml:"polygons"`
}

// Result holds the best timings, in milliseconds, for each strategy in a case.
type Result struct {
	Case      string
	Points    int
	Contained int
	Timings   map[string]int64
}

// RunOptions configures `Run`.
type RunOptions struct {
	// Progress, if not nil, is invoked once after each strategy iteration completes.
	Progress func()
}

// Load reads the YAML suite file at 'path'. Relative case paths are resolved against the directory containing 'path'.
func Load(path string) (*Suite, error) {

	body, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("Failed to read %s, %w", path, err)
	}

	var s *Suite

	err = yaml.Unmarshal(body, &s)

	if err != nil {
		return nil, fmt.Errorf("Failed to unmarshal %s, %w", path, err)
	}

	if s == nil {
		return nil, fmt.Errorf("Empty suite %s", path)
	}

	root := filepath.Dir(path)

	for i, c := range s.Cases {

		if c.Points == "" || c.Polygons == "" {
			return nil, fmt.Errorf("Case %d (%s) is missing points or polygons", i, c.Name)
		}

		if !filepath.IsAbs(c.Points) {
			s.Cases[i].Points = filepath.Join(root, c.Points)
		}

		if !filepath.IsAbs(c.Polygons) {
			s.Cases[i].Polygons = filepath.Join(root, c.Polygons)
		}

		if c.Name == "" {
			s.Cases[i].Name = fmt.Sprintf("case-%d", i)
		}
	}

	return s, nil
}

// StrategyURIs returns the strategies defined by the suite, or every registered strategy if none are defined.
func (s *Suite) StrategyURIs() []string {

	if len(s.Strategies) > 0 {
		return s.Strategies
	}

	return contains.Schemes()
}

// Steps returns the total number of strategy iterations `Run` will perform.
func (s *Suite) Steps() int {
	return len(s.Cases) * len(s.StrategyURIs()) * s.iterations()
}

func (s *Suite) iterations() int {

	if s.Iterations < 1 {
		return 1
	}

	return s.Iterations
}

// Run executes every case in the suite against every strategy. Each case's files are loaded once. It is an error for
// two strategies to disagree about the results for a case.
func Run(ctx context.Context, s *Suite, opts *RunOptions) ([]*Result, error) {

	results := make([]*Result, len(s.Cases))

	for i, c := range s.Cases {

		r, err := runCase(ctx, s, c, opts)

		if err != nil {
			return nil, fmt.Errorf("Failed to run case '%s', %w", c.Name, err)
		}

		results[i] = r
	}

	return results, nil
}

func runCase(ctx context.Context, s *Suite, c Case, opts *RunOptions) (*Result, error) {

	logger := slog.Default()
	logger = logger.With("case", c.Name)

	points, err := collection.LoadPoints(ctx, c.Points)

	if err != nil {
		return nil, err
	}

	polygons, err := collection.LoadPolygons(ctx, c.Polygons)

	if err != nil {
		return nil, err
	}

	r := &Result{
		Case:    c.Name,
		Points:  len(points),
		Timings: make(map[string]int64),
	}

	var expected *contains.Results

	for _, uri := range s.StrategyURIs() {

		for i := 0; i < s.iterations(); i++ {

			rpt, err := runOnce(ctx, uri, points, polygons)

			if err != nil {
				return nil, err
			}

			if expected == nil {
				expected = rpt.Results
				r.Contained = expected.Count()
			} else if !expected.Equal(rpt.Results) {
				return nil, fmt.Errorf("Strategy '%s' results differ from '%s'", uri, s.StrategyURIs()[0])
			}

			ms := rpt.Milliseconds()

			best, ok := r.Timings[uri]

			if !ok || ms < best {
				r.Timings[uri] = ms
			}

			logger.Debug("Iteration complete", "strategy", uri, "iteration", i, "ms", ms)

			if opts != nil && opts.Progress != nil {
				opts.Progress()
			}
		}
	}

	return r, nil
}

func runOnce(ctx context.Context, uri string, points orb.Collection, polygons orb.Collection) (*contains.Report, error) {

	runner, err := contains.NewRunner(ctx, uri)

	if err != nil {
		return nil, err
	}

	defer runner.Close(ctx)

	return runner.Run(ctx, points, polygons)
}

// WriteTable writes 'results' to 'wr' as a table with one row per case and one column per strategy in 'strategies'.
func WriteTable(wr io.Writer, strategies []string, results []*Result) error {

	tw := tabwriter.NewWriter(wr, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, "Benchmark (time required in ms)\tPoints\tContained")

	for _, uri := range strategies {
		fmt.Fprintf(tw, "\t%s", uri)
	}

	fmt.Fprint(tw, "\n")

	for _, r := range results {

		fmt.Fprintf(tw, "%s\t%d\t%d", r.Case, r.Points, r.Contained)

		for _, uri := range strategies {

			ms, ok := r.Timings[uri]

			if !ok {
				fmt.Fprint(tw, "\t-")
				continue
			}

			fmt.Fprintf(tw, "\t%d", ms)
		}

		fmt.Fprint(tw, "\n")
	}

	return tw.Flush()
}
