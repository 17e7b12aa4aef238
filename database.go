package contains

// https://www.sqlite.org/rtree.html

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	gocache "github.com/patrickmn/go-cache"
)

func init() {
	ctx := context.Background()
	RegisterStrategy(ctx, "sqlite", NewSQLiteStrategy)
}

const rtree_table_name string = "rtree"

const geometries_table_name string = "geometries"

// SQLiteStrategy indexes the bounding boxes of each geometry in a SQLite R*Tree virtual table and stores the
// geometries themselves, encoded as GeoJSON, in a companion table. Candidate geometries are decoded on demand
// and cached.
type SQLiteStrategy struct {
	Strategy
	mu      *sync.RWMutex
	db      *sql.DB
	gocache *gocache.Cache
	dsn     string
}

// NewSQLiteStrategy returns a new `SQLiteStrategy` instance. 'uri' takes the form of:
//
//	sqlite://?dsn={DSN}
//
// Where {DSN} is a valid go-sqlite3 DSN. If omitted ":memory:" is assumed.
func NewSQLiteStrategy(ctx context.Context, uri string) (Strategy, error) {

	u, err := url.Parse(uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to parse URI, %w", err)
	}

	q := u.Query()

	dsn := q.Get("dsn")

	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite3", dsn)

	if err != nil {
		return nil, fmt.Errorf("Failed to open database, %w", err)
	}

	// Every connection to ":memory:" is a new, empty database
	db.SetMaxOpenConns(1)

	return NewSQLiteStrategyWithDatabase(ctx, uri, db)
}

// NewSQLiteStrategyWithDatabase returns a new `SQLiteStrategy` instance using 'db', creating its tables if necessary.
func NewSQLiteStrategyWithDatabase(ctx context.Context, uri string, db *sql.DB) (Strategy, error) {

	u, err := url.Parse(uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to parse URI, %w", err)
	}

	q := u.Query()

	dsn := q.Get("dsn")

	err = createTables(ctx, db)

	if err != nil {
		return nil, fmt.Errorf("Failed to create tables, %w", err)
	}

	expires := 5 * time.Minute
	cleanup := 30 * time.Minute

	gc := gocache.New(expires, cleanup)

	mu := new(sync.RWMutex)

	s := &SQLiteStrategy{
		db:      db,
		gocache: gc,
		dsn:     dsn,
		mu:      mu,
	}

	return s, nil
}

// Close will close the underlying database connection.
func (s *SQLiteStrategy) Close(ctx context.Context) error {
	s.gocache.Flush()
	return s.db.Close()
}

func createTables(ctx context.Context, db *sql.DB) error {

	// In an RTREE virtual table the first column is always an integer primary key
	// followed by min/max pairs for each dimension.

	schemas := []string{
		fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING rtree (
			id,
			min_x,
			max_x,
			min_y,
			max_y
		)`, rtree_table_name),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			body TEXT
		)`, geometries_table_name),
	}

	for _, q := range schemas {

		_, err := db.ExecContext(ctx, q)

		if err != nil {
			slog.Error("Failed to create table", "query", q, "error", err)
			return err
		}
	}

	return nil
}
