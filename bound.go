package contains

import (
	"context"

	"github.com/paulmach/orb"
)

func init() {
	ctx := context.Background()
	RegisterStrategy(ctx, "bound", NewBoundStrategy)
}

// BoundStrategy is a `ScanStrategy` that rejects geometries whose bounding box does not contain the target's
// bounding box before running the exact containment test.
type BoundStrategy struct {
	Strategy
	polygons orb.Collection
	bounds   []orb.Bound
}

// NewBoundStrategy returns a new `BoundStrategy` instance. 'uri' takes the form of "bound://".
func NewBoundStrategy(ctx context.Context, uri string) (Strategy, error) {
	s := &BoundStrategy{}
	return s, nil
}

func (s *BoundStrategy) Prepare(ctx context.Context, polygons orb.Collection) error {

	bounds := make([]orb.Bound, len(polygons))

	for i, g := range polygons {

		if g == nil {
			continue
		}

		bounds[i] = g.Bound()
	}

	s.polygons = polygons
	s.bounds = bounds

	return nil
}

func (s *BoundStrategy) Contains(ctx context.Context, target orb.Geometry) (bool, error) {

	if target == nil {
		return false, nil
	}

	target_bound := target.Bound()

	for i, g := range s.polygons {

		if !s.bounds[i].Contains(target_bound.Min) || !s.bounds[i].Contains(target_bound.Max) {
			continue
		}

		if GeometryContainsGeometry(g, target) {
			return true, nil
		}
	}

	return false, nil
}

func (s *BoundStrategy) Close(ctx context.Context) error {
	return nil
}
