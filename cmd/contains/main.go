// contains prints the number of milliseconds it takes to test each point in a GeoJSON file for containment by any of
// the geometries in a second GeoJSON file.
//
//	$> ./bin/contains data/1000_random_points.geojson data/ne_110m_land.geojson
//	12
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/whosonfirst/go-whosonfirst-spatial-contains/application/contains"
)

func main() {

	ctx := context.Background()

	err := contains.Run(ctx, os.Args[1:], os.Stdout)

	if err != nil {
		slog.Error("Failed to run contains application", "error", err)
		os.Exit(1)
	}
}
