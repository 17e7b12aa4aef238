// benchmark runs every case in a YAML suite file against a list of containment strategies and prints a table of
// the best time, in milliseconds, for each.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/whosonfirst/go-whosonfirst-spatial-contains/application/benchmark"
)

func main() {

	ctx := context.Background()

	err := benchmark.Run(ctx, os.Args[1:], os.Stdout)

	if err != nil {
		slog.Error("Failed to run benchmark application", "error", err)
		os.Exit(1)
	}
}
