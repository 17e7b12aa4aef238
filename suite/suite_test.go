package suite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {

	s, err := Load("../fixtures/suite.yaml")

	if err != nil {
		t.Fatalf("Failed to load suite, %v", err)
	}

	if s.Iterations != 2 {
		t.Fatalf("Expected 2 iterations, got %d", s.Iterations)
	}

	if len(s.StrategyURIs()) != 4 {
		t.Fatalf("Expected 4 strategies, got %d", len(s.StrategyURIs()))
	}

	if len(s.Cases) != 2 {
		t.Fatalf("Expected 2 cases, got %d", len(s.Cases))
	}

	expected := filepath.Join("..", "fixtures", "points-two.geojson")

	if s.Cases[0].Points != expected {
		t.Fatalf("Expected points path to be resolved to %s, got %s", expected, s.Cases[0].Points)
	}

	if s.Steps() != 16 {
		t.Fatalf("Expected 16 steps, got %d", s.Steps())
	}
}

func TestLoadDefaults(t *testing.T) {

	path := filepath.Join(t.TempDir(), "suite.yaml")

	body := []byte("cases:\n  - points: /tmp/points.geojson\n    polygons: /tmp/polygons.geojson\n")

	err := os.WriteFile(path, body, 0644)

	if err != nil {
		t.Fatalf("Failed to write suite, %v", err)
	}

	s, err := Load(path)

	if err != nil {
		t.Fatalf("Failed to load suite, %v", err)
	}

	if s.Cases[0].Name != "case-0" {
		t.Fatalf("Unexpected default name '%s'", s.Cases[0].Name)
	}

	if s.Cases[0].Points != "/tmp/points.geojson" {
		t.Fatalf("Expected absolute path to be preserved, got %s", s.Cases[0].Points)
	}

	// Every registered strategy, run once
	if s.Steps() != len(s.StrategyURIs()) || len(s.StrategyURIs()) == 0 {
		t.Fatalf("Unexpected steps %d for strategies %v", s.Steps(), s.StrategyURIs())
	}
}

func TestLoadInvalid(t *testing.T) {

	_, err := Load("../fixtures/does-not-exist.yaml")

	if err == nil {
		t.Fatalf("Expected missing suite to fail")
	}

	path := filepath.Join(t.TempDir(), "suite.yaml")

	err = os.WriteFile(path, []byte("cases:\n  - name: broken\n"), 0644)

	if err != nil {
		t.Fatalf("Failed to write suite, %v", err)
	}

	_, err = Load(path)

	if err == nil {
		t.Fatalf("Expected case without files to fail")
	}
}

func TestRun(t *testing.T) {

	ctx := context.Background()

	s, err := Load("../fixtures/suite.yaml")

	if err != nil {
		t.Fatalf("Failed to load suite, %v", err)
	}

	steps := 0

	opts := &RunOptions{
		Progress: func() {
			steps += 1
		},
	}

	results, err := Run(ctx, s, opts)

	if err != nil {
		t.Fatalf("Failed to run suite, %v", err)
	}

	if steps != s.Steps() {
		t.Fatalf("Expected %d progress updates, got %d", s.Steps(), steps)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	if results[0].Points != 2 || results[0].Contained != 1 {
		t.Fatalf("Unexpected result for origin case, %d points %d contained", results[0].Points, results[0].Contained)
	}

	if results[1].Points != 10 || results[1].Contained != 4 {
		t.Fatalf("Unexpected result for mixed case, %d points %d contained", results[1].Points, results[1].Contained)
	}

	for _, r := range results {

		for _, uri := range s.StrategyURIs() {

			ms, ok := r.Timings[uri]

			if !ok {
				t.Fatalf("Missing timing for %s in %s", uri, r.Case)
			}

			if ms < 0 {
				t.Fatalf("Negative timing for %s in %s", uri, r.Case)
			}
		}
	}

	var buf bytes.Buffer

	err = WriteTable(&buf, s.StrategyURIs(), results)

	if err != nil {
		t.Fatalf("Failed to write table, %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %s", len(lines), buf.String())
	}

	if !strings.Contains(lines[0], "rtree://") {
		t.Fatalf("Expected header to list strategies, got %s", lines[0])
	}

	if !strings.HasPrefix(lines[2], "mixed") {
		t.Fatalf("Expected last row to describe the mixed case, got %s", lines[2])
	}
}

func TestRunMissingFiles(t *testing.T) {

	ctx := context.Background()

	s := &Suite{
		Strategies: []string{"scan://"},
		Cases: []Case{
			{Name: "missing", Points: "../fixtures/does-not-exist.geojson", Polygons: "../fixtures/square-origin.geojson"},
		},
	}

	_, err := Run(ctx, s, nil)

	if err == nil {
		t.Fatalf("Expected missing files to fail")
	}
}
