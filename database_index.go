package contains

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Prepare will replace the contents of the database with the geometries in 'polygons'. Each geometry is keyed by
// its offset in 'polygons'.
func (s *SQLiteStrategy) Prepare(ctx context.Context, polygons orb.Collection) error {

	t1 := time.Now()

	defer func() {
		slog.Debug("Time to index geometries", "strategy", "sqlite", "count", len(polygons), "time", time.Since(t1))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gocache.Flush()

	tx, err := s.db.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("Failed to create transaction, %w", err)
	}

	defer tx.Rollback()

	for _, t := range []string{rtree_table_name, geometries_table_name} {

		q := fmt.Sprintf("DELETE FROM %s", t)

		_, err := tx.ExecContext(ctx, q)

		if err != nil {
			return fmt.Errorf("Failed to purge %s, %w", t, err)
		}
	}

	rtree_q := fmt.Sprintf("INSERT INTO %s (id, min_x, max_x, min_y, max_y) VALUES (?, ?, ?, ?, ?)", rtree_table_name)

	rtree_stmt, err := tx.PrepareContext(ctx, rtree_q)

	if err != nil {
		return fmt.Errorf("Failed to create query statement for %s, %w", rtree_table_name, err)
	}

	defer rtree_stmt.Close()

	geom_q := fmt.Sprintf("INSERT INTO %s (id, body) VALUES (?, ?)", geometries_table_name)

	geom_stmt, err := tx.PrepareContext(ctx, geom_q)

	if err != nil {
		return fmt.Errorf("Failed to create query statement for %s, %w", geometries_table_name, err)
	}

	defer geom_stmt.Close()

	for idx, g := range polygons {

		if g == nil {
			continue
		}

		b := g.Bound()

		// Empty geometries contain nothing
		if b.IsEmpty() {
			continue
		}

		body, err := geojson.NewGeometry(g).MarshalJSON()

		if err != nil {
			return fmt.Errorf("Failed to marshal geometry at offset %d, %w", idx, err)
		}

		_, err = rtree_stmt.ExecContext(ctx, idx, b.Left(), b.Right(), b.Bottom(), b.Top())

		if err != nil {
			return fmt.Errorf("Failed to index geometry at offset %d in %s, %w", idx, rtree_table_name, err)
		}

		_, err = geom_stmt.ExecContext(ctx, idx, string(body))

		if err != nil {
			return fmt.Errorf("Failed to index geometry at offset %d in %s, %w", idx, geometries_table_name, err)
		}
	}

	err = tx.Commit()

	if err != nil {
		return fmt.Errorf("Failed to commit transaction, %w", err)
	}

	return nil
}

// Contains reports whether any one of the indexed geometries contains 'target'.
func (s *SQLiteStrategy) Contains(ctx context.Context, target orb.Geometry) (bool, error) {

	if target == nil {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b := target.Bound()

	candidates, err := s.getIntersectsByRect(ctx, &b)

	if err != nil {
		return false, fmt.Errorf("Get intersects failed, %w", err)
	}

	for _, id := range candidates {

		g, err := s.retrieveGeometry(ctx, id)

		if err != nil {
			return false, err
		}

		if GeometryContainsGeometry(g, target) {
			return true, nil
		}
	}

	return false, nil
}

// getIntersectsByRect returns the IDs of the geometries whose bounding boxes intersect 'rect'. R*Tree coordinates
// are stored as 32-bit floats rounded outwards so results are a superset of the exact answer.
func (s *SQLiteStrategy) getIntersectsByRect(ctx context.Context, rect *orb.Bound) ([]int64, error) {

	q := fmt.Sprintf("SELECT id FROM %s WHERE min_x <= ? AND max_x >= ? AND min_y <= ? AND max_y >= ?", rtree_table_name)

	rows, err := s.db.QueryContext(ctx, q, rect.Right(), rect.Left(), rect.Top(), rect.Bottom())

	if err != nil {
		return nil, fmt.Errorf("SQL query failed, %w", err)
	}

	defer rows.Close()

	intersects := make([]int64, 0)

	for id, err := range rowsToIds(rows) {

		if err != nil {
			return nil, err
		}

		intersects = append(intersects, id)
	}

	return intersects, nil
}

func rowsToIds(rows *sql.Rows) iter.Seq2[int64, error] {

	return func(yield func(int64, error) bool) {

		for rows.Next() {

			var id int64

			err := rows.Scan(&id)

			if err != nil {
				yield(0, fmt.Errorf("Result row scan failed, %w", err))
				return
			}

			if !yield(id, nil) {
				return
			}
		}

		err := rows.Err()

		if err != nil {
			yield(0, fmt.Errorf("Result rows failed, %w", err))
		}
	}
}
