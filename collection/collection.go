// Package collection loads GeoJSON documents in to ordered orb geometry collections.
package collection

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
	"github.com/whosonfirst/go-reader"
)

// Read returns the contents of the file at 'path', read using a "fs://" reader rooted at the file's directory.
func Read(ctx context.Context, path string) ([]byte, error) {

	abs_path, err := filepath.Abs(path)

	if err != nil {
		return nil, fmt.Errorf("Failed to derive absolute path for %s, %w", path, err)
	}

	u := url.URL{
		Scheme: "fs",
		Path:   filepath.Dir(abs_path),
	}

	r, err := reader.NewReader(ctx, u.String())

	if err != nil {
		return nil, fmt.Errorf("Failed to create reader for %s, %w", path, err)
	}

	return ReadWithReader(ctx, r, filepath.Base(abs_path))
}

// ReadWithReader returns the contents of 'path' read from 'r'.
func ReadWithReader(ctx context.Context, r reader.Reader, path string) ([]byte, error) {

	fh, err := r.Read(ctx, path)

	if err != nil {
		return nil, fmt.Errorf("Failed to open %s, %w", path, err)
	}

	defer fh.Close()

	body, err := io.ReadAll(fh)

	if err != nil {
		return nil, fmt.Errorf("Failed to read %s, %w", path, err)
	}

	return body, nil
}

// Parse converts the GeoJSON document in 'body' in to an ordered geometry collection. FeatureCollections yield one
// geometry per feature (features without a geometry are skipped), Features yield their geometry and bare geometries
// yield themselves. A top-level GeometryCollection is flattened in to its members.
func Parse(body []byte) (orb.Collection, error) {

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("Invalid JSON")
	}

	type_rsp := gjson.GetBytes(body, "type")

	if !type_rsp.Exists() {
		return nil, fmt.Errorf("Missing 'type' property")
	}

	switch type_rsp.String() {
	case "FeatureCollection":

		fc, err := geojson.UnmarshalFeatureCollection(body)

		if err != nil {
			return nil, fmt.Errorf("Failed to unmarshal feature collection, %w", err)
		}

		c := make(orb.Collection, 0, len(fc.Features))

		for idx, f := range fc.Features {

			if f.Geometry == nil {
				slog.Debug("Skip feature with empty geometry", "offset", idx)
				continue
			}

			c = append(c, f.Geometry)
		}

		return c, nil

	case "Feature":

		f, err := geojson.UnmarshalFeature(body)

		if err != nil {
			return nil, fmt.Errorf("Failed to unmarshal feature, %w", err)
		}

		if f.Geometry == nil {
			return orb.Collection{}, nil
		}

		return flatten(f.Geometry), nil

	case "Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon", "GeometryCollection":

		g, err := geojson.UnmarshalGeometry(body)

		if err != nil {
			return nil, fmt.Errorf("Failed to unmarshal geometry, %w", err)
		}

		return flatten(g.Geometry()), nil

	default:
		return nil, fmt.Errorf("Unsupported GeoJSON type '%s'", type_rsp.String())
	}
}

// LoadPolygons reads and parses the GeoJSON document at 'path'. Any geometry type is permitted.
func LoadPolygons(ctx context.Context, path string) (orb.Collection, error) {

	body, err := Read(ctx, path)

	if err != nil {
		return nil, err
	}

	return parsePolygons(path, body)
}

// LoadPolygonsWithReader reads 'path' from 'r' and parses it the same way `LoadPolygons` does.
func LoadPolygonsWithReader(ctx context.Context, r reader.Reader, path string) (orb.Collection, error) {

	body, err := ReadWithReader(ctx, r, path)

	if err != nil {
		return nil, err
	}

	return parsePolygons(path, body)
}

// LoadPoints reads and parses the GeoJSON document at 'path' and returns its points in document order, one
// entry per Point or MultiPoint geometry. Any other geometry type is an error.
func LoadPoints(ctx context.Context, path string) (orb.Collection, error) {

	body, err := Read(ctx, path)

	if err != nil {
		return nil, err
	}

	return parsePoints(path, body)
}

// LoadPointsWithReader reads 'path' from 'r' and parses it the same way `LoadPoints` does.
func LoadPointsWithReader(ctx context.Context, r reader.Reader, path string) (orb.Collection, error) {

	body, err := ReadWithReader(ctx, r, path)

	if err != nil {
		return nil, err
	}

	return parsePoints(path, body)
}

// Points returns the members of 'c' in order, ensuring that each one is a Point or a MultiPoint. A MultiPoint
// remains a single member.
func Points(c orb.Collection) (orb.Collection, error) {

	points := make(orb.Collection, 0, len(c))

	for idx, g := range c {

		switch g.(type) {
		case orb.Point, orb.MultiPoint:
			points = append(points, g)
		default:
			return nil, fmt.Errorf("Unexpected geometry type '%s' at offset %d", g.GeoJSONType(), idx)
		}
	}

	return points, nil
}

func parsePolygons(path string, body []byte) (orb.Collection, error) {

	t1 := time.Now()

	defer func() {
		slog.Debug("Time to parse polygons", "path", path, "time", time.Since(t1))
	}()

	c, err := Parse(body)

	if err != nil {
		return nil, fmt.Errorf("Failed to parse %s, %w", path, err)
	}

	return c, nil
}

func parsePoints(path string, body []byte) (orb.Collection, error) {

	t1 := time.Now()

	defer func() {
		slog.Debug("Time to parse points", "path", path, "time", time.Since(t1))
	}()

	c, err := Parse(body)

	if err != nil {
		return nil, fmt.Errorf("Failed to parse %s, %w", path, err)
	}

	points, err := Points(c)

	if err != nil {
		return nil, fmt.Errorf("Failed to derive points from %s, %w", path, err)
	}

	return points, nil
}

func flatten(g orb.Geometry) orb.Collection {

	if c, ok := g.(orb.Collection); ok {
		return c
	}

	return orb.Collection{g}
}
