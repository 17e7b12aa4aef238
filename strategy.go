package contains

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/aaronland/go-roster"
	"github.com/paulmach/orb"
)

// DEFAULT_STRATEGY is the URI of the strategy used when none is specified.
const DEFAULT_STRATEGY string = "scan://"

// Strategy is an interface for evaluating whether a point is contained by any member of a geometry collection.
type Strategy interface {
	// Prepare readies the strategy to answer containment queries for 'polygons'.
	Prepare(context.Context, orb.Collection) error
	// Contains reports whether any one of the prepared geometries contains the target, which is a point or a multi point.
	Contains(context.Context, orb.Geometry) (bool, error)
	Close(context.Context) error
}

// StrategyInitializationFunc is a function used to create a new `Strategy` instance from a URI.
type StrategyInitializationFunc func(ctx context.Context, uri string) (Strategy, error)

var strategies roster.Roster

// RegisterStrategy associates 'scheme' with 'init_func' so that it can be instantiated by `NewStrategy`.
func RegisterStrategy(ctx context.Context, scheme string, init_func StrategyInitializationFunc) error {

	err := ensureStrategiesRoster()

	if err != nil {
		return err
	}

	return strategies.Register(ctx, scheme, init_func)
}

func ensureStrategiesRoster() error {

	if strategies == nil {

		r, err := roster.NewDefaultRoster()

		if err != nil {
			return fmt.Errorf("Failed to create strategies roster, %w", err)
		}

		strategies = r
	}

	return nil
}

// NewStrategy returns a new `Strategy` instance for 'uri', whose scheme must have been registered with `RegisterStrategy`.
func NewStrategy(ctx context.Context, uri string) (Strategy, error) {

	u, err := url.Parse(uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to parse URI, %w", err)
	}

	scheme := u.Scheme

	if scheme == "" {
		return nil, fmt.Errorf("Missing scheme in '%s'", uri)
	}

	err = ensureStrategiesRoster()

	if err != nil {
		return nil, err
	}

	i, err := strategies.Driver(ctx, scheme)

	if err != nil {
		return nil, fmt.Errorf("Unknown strategy '%s', %w", scheme, err)
	}

	init_func := i.(StrategyInitializationFunc)
	return init_func(ctx, uri)
}

// Schemes returns the sorted list of registered strategy schemes, formatted as "{SCHEME}://".
func Schemes() []string {

	ctx := context.Background()
	schemes := []string{}

	err := ensureStrategiesRoster()

	if err != nil {
		return schemes
	}

	for _, dr := range strategies.Drivers(ctx) {
		scheme := fmt.Sprintf("%s://", strings.ToLower(dr))
		schemes = append(schemes, scheme)
	}

	sort.Strings(schemes)
	return schemes
}
