// Package contains measures how long it takes to test a list of points for containment against a collection of
// geometries.
//
// Containment is delegated to a `Strategy`, chosen by URI:
//
//	scan://                  test every geometry in order
//	bound://                 reject geometries by bounding box first
//	rtree://                 in-memory R-tree of geometry bounding boxes
//	sqlite://?dsn={DSN}      SQLite R*Tree of geometry bounding boxes
//
// Every strategy yields the same results; only the time taken differs.
package contains
