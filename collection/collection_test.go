package collection

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/whosonfirst/go-reader"
)

func TestLoadPoints(t *testing.T) {

	ctx := context.Background()

	tests := map[string]orb.Collection{
		"../fixtures/points-origin.geojson": {
			orb.Point{0, 0},
		},
		"../fixtures/points-two.geojson": {
			orb.Point{0, 0},
			orb.Point{5, 5},
		},
		"../fixtures/points-empty.geojson": {},
		"../fixtures/points-mixed.geojson": {
			orb.Point{5, 5},
			orb.Point{1, 1},
			orb.MultiPoint{{21, 21}, {31, 31}},
			orb.MultiPoint{{21, 21}, {25, 25}},
			orb.MultiPoint{{1, 1}, {21, 21}},
			orb.Point{45, 40},
			orb.Point{40, 40},
			orb.Point{60, 60},
			orb.Point{100, 100},
			orb.Point{0, 5},
		},
		"../fixtures/geometry-collection.geojson": {
			orb.Point{1, 2},
			orb.Point{3, 4},
		},
	}

	for path, expected := range tests {

		points, err := LoadPoints(ctx, path)

		if err != nil {
			t.Fatalf("Failed to load points from %s, %v", path, err)
		}

		if len(points) != len(expected) {
			t.Fatalf("Expected %d points from %s, got %d", len(expected), path, len(points))
		}

		for i, g := range points {

			if !orb.Equal(g, expected[i]) {
				t.Fatalf("Unexpected geometry at offset %d in %s: expected %v, got %v", i, path, expected[i], g)
			}
		}
	}
}

func TestLoadWithReader(t *testing.T) {

	ctx := context.Background()

	root, err := filepath.Abs("../fixtures")

	if err != nil {
		t.Fatalf("Failed to derive fixtures path, %v", err)
	}

	reader_uri := fmt.Sprintf("fs://%s", root)

	r, err := reader.NewReader(ctx, reader_uri)

	if err != nil {
		t.Fatalf("Failed to create reader for %s, %v", reader_uri, err)
	}

	points, err := LoadPointsWithReader(ctx, r, "points-two.geojson")

	if err != nil {
		t.Fatalf("Failed to load points with reader, %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}

	polygons, err := LoadPolygonsWithReader(ctx, r, "square-origin.geojson")

	if err != nil {
		t.Fatalf("Failed to load polygons with reader, %v", err)
	}

	if len(polygons) != 1 {
		t.Fatalf("Expected 1 polygon, got %d", len(polygons))
	}

	_, err = LoadPolygonsWithReader(ctx, r, "does-not-exist.geojson")

	if err == nil {
		t.Fatalf("Expected missing file to fail")
	}
}

func TestLoadPointsWithPolygons(t *testing.T) {

	ctx := context.Background()

	_, err := LoadPoints(ctx, "../fixtures/square-origin.geojson")

	if err == nil {
		t.Fatalf("Expected polygons to be rejected as points")
	}
}

func TestLoadPolygons(t *testing.T) {

	ctx := context.Background()

	tests := map[string][]string{
		"../fixtures/square-origin.geojson":   {"Polygon"},
		"../fixtures/feature-polygon.geojson": {"Polygon"},
		"../fixtures/polygons-empty.geojson":  {},
		"../fixtures/polygons-mixed.geojson": {
			"Polygon",
			"MultiPolygon",
			"LineString",
			"Point",
		},
	}

	for path, expected := range tests {

		c, err := LoadPolygons(ctx, path)

		if err != nil {
			t.Fatalf("Failed to load polygons from %s, %v", path, err)
		}

		if len(c) != len(expected) {
			t.Fatalf("Expected %d geometries from %s, got %d", len(expected), path, len(c))
		}

		for i, g := range c {

			if g.GeoJSONType() != expected[i] {
				t.Fatalf("Unexpected geometry type at offset %d in %s: expected %s, got %s", i, path, expected[i], g.GeoJSONType())
			}
		}
	}
}

func TestLoadMissingFile(t *testing.T) {

	ctx := context.Background()

	_, err := LoadPolygons(ctx, "../fixtures/does-not-exist.geojson")

	if err == nil {
		t.Fatalf("Expected missing file to fail")
	}

	_, err = LoadPoints(ctx, "../fixtures/does-not-exist.geojson")

	if err == nil {
		t.Fatalf("Expected missing file to fail")
	}
}

func TestParseInvalid(t *testing.T) {

	ctx := context.Background()

	for _, path := range []string{
		"../fixtures/invalid.geojson",
		"../fixtures/unknown-type.geojson",
	} {

		_, err := LoadPolygons(ctx, path)

		if err == nil {
			t.Fatalf("Expected %s to fail to parse", path)
		}
	}

	bodies := []string{
		``,
		`{}`,
		`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":"nope"}}]}`,
		`[1, 2, 3]`,
	}

	for _, body := range bodies {

		_, err := Parse([]byte(body))

		if err == nil {
			t.Fatalf("Expected '%s' to fail to parse", body)
		}
	}
}

func TestParseGeometry(t *testing.T) {

	c, err := Parse([]byte(`{"type":"Point","coordinates":[1.5,-2.5]}`))

	if err != nil {
		t.Fatalf("Failed to parse geometry, %v", err)
	}

	if len(c) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(c))
	}

	pt, ok := c[0].(orb.Point)

	if !ok {
		t.Fatalf("Expected orb.Point, got %T", c[0])
	}

	if pt.X() != 1.5 || pt.Y() != -2.5 {
		t.Fatalf("Unexpected point %v", pt)
	}
}
