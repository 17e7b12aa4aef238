package contains

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// location is the position of a point relative to a geometry.
type location int

const (
	exterior location = iota
	boundary
	interior
)

// GeometryContains reports whether 'g' contains 'pt', meaning 'pt' lies in the interior of 'g'. Points on the
// boundary of 'g' (the rings of a polygon, the endpoints of an open line) are not contained. Points and multi
// points contain only equal points. Collections contain a point if any of their members do.
func GeometryContains(g orb.Geometry, pt orb.Point) bool {
	return locate(g, pt) == interior
}

// GeometryContainsGeometry reports whether 'g' contains 'target', which must be a point or a multi point. A multi
// point is contained if none of its members lie outside 'g' and at least one lies in its interior. Other target
// geometries are never contained.
func GeometryContainsGeometry(g orb.Geometry, target orb.Geometry) bool {

	switch v := target.(type) {
	case orb.Point:
		return GeometryContains(g, v)
	case orb.MultiPoint:

		has_interior := false

		for _, pt := range v {

			switch locate(g, pt) {
			case exterior:
				return false
			case interior:
				has_interior = true
			}
		}

		return has_interior

	default:
		return false
	}
}

func locate(g orb.Geometry, pt orb.Point) location {

	switch v := g.(type) {
	case orb.Polygon:
		return locatePolygon(v, pt)
	case orb.MultiPolygon:

		locations := make([]location, len(v))

		for i, p := range v {
			locations[i] = locatePolygon(p, pt)
		}

		return strongest(locations)

	case orb.Ring:
		return locateRing(v, pt)
	case orb.Bound:
		return locateRing(v.ToRing(), pt)
	case orb.Point:

		if v.Equal(pt) {
			return interior
		}

		return exterior

	case orb.MultiPoint:

		for _, p := range v {
			if p.Equal(pt) {
				return interior
			}
		}

		return exterior

	case orb.LineString:
		return locateLineString(v, pt)
	case orb.MultiLineString:

		locations := make([]location, len(v))

		for i, ls := range v {
			locations[i] = locateLineString(ls, pt)
		}

		return strongest(locations)

	case orb.Collection:

		locations := make([]location, len(v))

		for i, m := range v {
			locations[i] = locate(m, pt)
		}

		return strongest(locations)

	default:
		return exterior
	}
}

// strongest returns interior if any of 'locations' is interior, otherwise boundary if any is boundary.
func strongest(locations []location) location {

	loc := exterior

	for _, l := range locations {

		if l > loc {
			loc = l
		}
	}

	return loc
}

func locatePolygon(p orb.Polygon, pt orb.Point) location {

	if len(p) == 0 {
		return exterior
	}

	for _, r := range p {

		if onRing(r, pt) {
			return boundary
		}
	}

	if planar.PolygonContains(p, pt) {
		return interior
	}

	return exterior
}

func locateRing(r orb.Ring, pt orb.Point) location {

	if onRing(r, pt) {
		return boundary
	}

	if planar.RingContains(r, pt) {
		return interior
	}

	return exterior
}

func onRing(r orb.Ring, pt orb.Point) bool {

	if len(r) == 0 {
		return false
	}

	if !r.Bound().Contains(pt) {
		return false
	}

	for i := 1; i < len(r); i++ {

		if onSegment(r[i-1], r[i], pt) {
			return true
		}
	}

	// Rings are not required to repeat their first point
	return onSegment(r[len(r)-1], r[0], pt)
}

func onSegment(a orb.Point, b orb.Point, pt orb.Point) bool {
	return planar.DistanceFromSegment(a, b, pt) == 0
}

func locateLineString(ls orb.LineString, pt orb.Point) location {

	if len(ls) < 2 {
		return exterior
	}

	first := ls[0]
	last := ls[len(ls)-1]

	// The boundary of an open line is its endpoints
	if !first.Equal(last) && (pt.Equal(first) || pt.Equal(last)) {
		return boundary
	}

	for i := 1; i < len(ls); i++ {

		if onSegment(ls[i-1], ls[i], pt) {
			return interior
		}
	}

	return exterior
}
