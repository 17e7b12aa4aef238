package contains

import (
	"context"

	"github.com/paulmach/orb"
)

func init() {
	ctx := context.Background()
	RegisterStrategy(ctx, "scan", NewScanStrategy)
}

// ScanStrategy tests every geometry in order, stopping at the first one that contains the point.
type ScanStrategy struct {
	Strategy
	polygons orb.Collection
}

// NewScanStrategy returns a new `ScanStrategy` instance. 'uri' takes the form of "scan://".
func NewScanStrategy(ctx context.Context, uri string) (Strategy, error) {
	s := &ScanStrategy{}
	return s, nil
}

func (s *ScanStrategy) Prepare(ctx context.Context, polygons orb.Collection) error {
	s.polygons = polygons
	return nil
}

func (s *ScanStrategy) Contains(ctx context.Context, target orb.Geometry) (bool, error) {

	for _, g := range s.polygons {

		if GeometryContainsGeometry(g, target) {
			return true, nil
		}
	}

	return false, nil
}

func (s *ScanStrategy) Close(ctx context.Context) error {
	return nil
}
