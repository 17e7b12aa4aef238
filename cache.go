package contains

import (
	"context"
	"fmt"
	"strconv"

	gocache "github.com/patrickmn/go-cache"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// retrieveGeometry returns the geometry with primary key 'id' from the local cache, falling back to decoding
// the GeoJSON body stored in the database.
func (s *SQLiteStrategy) retrieveGeometry(ctx context.Context, id int64) (orb.Geometry, error) {

	key := strconv.FormatInt(id, 10)

	c, ok := s.gocache.Get(key)

	if ok {
		return c.(orb.Geometry), nil
	}

	q := fmt.Sprintf("SELECT body FROM %s WHERE id = ?", geometries_table_name)

	row := s.db.QueryRowContext(ctx, q, id)

	var body string

	err := row.Scan(&body)

	if err != nil {
		return nil, fmt.Errorf("Failed to retrieve geometry %d, %w", id, err)
	}

	geom, err := geojson.UnmarshalGeometry([]byte(body))

	if err != nil {
		return nil, fmt.Errorf("Failed to unmarshal geometry %d, %w", id, err)
	}

	g := geom.Geometry()

	s.gocache.Set(key, g, gocache.NoExpiration)
	return g, nil
}
