package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"garules/internal/stats"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	origWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	workdir := t.TempDir()
	if err := os.Chdir(workdir); err != nil {
		t.Fatalf("chdir tempdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origWD)
	})
	return workdir
}

func TestBenchmarkCommandCreatesArtifacts(t *testing.T) {
	chdirTemp(t)

	args := []string{
		"benchmark",
		"--store", "memory",
		"--rows-per-class", "10",
		"--iterations", "3",
		"--chromosomes", "20",
		"--seed", "11",
	}
	if err := run(context.Background(), args); err != nil {
		t.Fatalf("benchmark command: %v", err)
	}

	entries, err := stats.ListRunIndex(benchmarksDir)
	if err != nil {
		t.Fatalf("list run index: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d indexed runs want 1", len(entries))
	}

	runID := entries[0].RunID
	for _, file := range []string{"run_record.json", "report.json", "diagnostics.json", "fitness_history.csv", "report.txt"} {
		path := filepath.Join(benchmarksDir, runID, file)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected artifact %s: %v", path, err)
		}
	}
}

func TestExportCommand(t *testing.T) {
	chdirTemp(t)

	benchArgs := []string{
		"benchmark",
		"--store", "memory",
		"--rows-per-class", "10",
		"--iterations", "2",
		"--chromosomes", "20",
		"--seed", "3",
	}
	if err := run(context.Background(), benchArgs); err != nil {
		t.Fatalf("benchmark command: %v", err)
	}

	if err := run(context.Background(), []string{"export", "--latest"}); err != nil {
		t.Fatalf("export command: %v", err)
	}

	entries, err := stats.ListRunIndex(benchmarksDir)
	if err != nil {
		t.Fatalf("list run index: %v", err)
	}
	exported := filepath.Join(exportsDir, entries[0].RunID, "report.txt")
	if _, err := os.Stat(exported); err != nil {
		t.Fatalf("expected exported artifact %s: %v", exported, err)
	}
}

func TestTrainCommandCreatesArtifacts(t *testing.T) {
	chdirTemp(t)

	args := []string{
		"train",
		"--store", "memory",
		"--rows-per-class", "10",
		"--iterations", "2",
		"--chromosomes", "20",
		"--seed", "7",
	}
	if err := run(context.Background(), args); err != nil {
		t.Fatalf("train command: %v", err)
	}

	entries, err := stats.ListRunIndex(benchmarksDir)
	if err != nil {
		t.Fatalf("list run index: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d indexed runs want 1", len(entries))
	}
}

func TestResetCommand(t *testing.T) {
	chdirTemp(t)

	if err := run(context.Background(), []string{"reset", "--store", "memory"}); err != nil {
		t.Fatalf("reset command: %v", err)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"bogus"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("got %v", err)
	}
}

func TestRunMissingCommand(t *testing.T) {
	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected error for missing command")
	}
}
