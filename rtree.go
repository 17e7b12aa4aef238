package contains

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

func init() {
	ctx := context.Background()
	RegisterStrategy(ctx, "rtree", NewRTreeStrategy)
}

// how small can this be?
const rtree_tolerance float64 = 0.00001

// RTreeSpatialIndex is a geometry (and its offset in the original collection) stored in an in-memory R-tree.
type RTreeSpatialIndex struct {
	bounds   rtreego.Rect
	Offset   int
	Geometry orb.Geometry
}

func (sp *RTreeSpatialIndex) Bounds() rtreego.Rect {
	return sp.bounds
}

// RTreeStrategy indexes the bounding boxes of each geometry in an in-memory R-tree and runs the exact containment
// test only against the geometries whose bounds intersect the target.
type RTreeStrategy struct {
	Strategy
	rtree *rtreego.Rtree
}

// NewRTreeStrategy returns a new `RTreeStrategy` instance. 'uri' takes the form of "rtree://".
func NewRTreeStrategy(ctx context.Context, uri string) (Strategy, error) {

	s := &RTreeStrategy{}
	return s, nil
}

func (s *RTreeStrategy) Prepare(ctx context.Context, polygons orb.Collection) error {

	s.rtree = rtreego.NewTree(2, 25, 50)

	for idx, g := range polygons {

		if g == nil {
			continue
		}

		b := g.Bound()

		if b.IsEmpty() {
			continue
		}

		sw := rtreego.Point{b.Left(), b.Bottom()}
		ne := rtreego.Point{b.Right(), b.Top()}

		rect, err := rtreego.NewRectFromPoints(sw, ne)

		if err != nil {
			return fmt.Errorf("Failed to derive rect for geometry at offset %d, %w", idx, err)
		}

		sp := &RTreeSpatialIndex{
			bounds:   rect,
			Offset:   idx,
			Geometry: g,
		}

		s.rtree.Insert(sp)
	}

	slog.Debug("Indexed geometries", "strategy", "rtree", "count", s.rtree.Size())
	return nil
}

func (s *RTreeStrategy) Contains(ctx context.Context, target orb.Geometry) (bool, error) {

	if s.rtree == nil || target == nil {
		return false, nil
	}

	b := target.Bound().Pad(rtree_tolerance)

	sw := rtreego.Point{b.Left(), b.Bottom()}
	ne := rtreego.Point{b.Right(), b.Top()}

	rect, err := rtreego.NewRectFromPoints(sw, ne)

	if err != nil {
		return false, fmt.Errorf("Failed to derive rect for target, %w", err)
	}

	for _, raw := range s.rtree.SearchIntersect(rect) {

		sp := raw.(*RTreeSpatialIndex)

		if GeometryContainsGeometry(sp.Geometry, target) {
			return true, nil
		}
	}

	return false, nil
}

func (s *RTreeStrategy) Close(ctx context.Context) error {
	return nil
}
