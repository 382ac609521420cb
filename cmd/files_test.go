package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
)

func writeEmptyFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("INFO\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	sort.Strings(names)
	return names
}

func TestGatherLogFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"system.log",
		"system.log.1",
		"debug.log.gz",
		"bundle.tar.gz",
		"diag.7z",
		"notes.txt",        // not a log
		"nb-1-big-Data.db", // SSTable component
		"gc.log.0.current", // JVM gc log, different format
	} {
		writeEmptyFile(t, dir, name)
	}
	// Subdirectories are not descended into.
	if err := os.Mkdir(filepath.Join(dir, "snapshots"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeEmptyFile(t, filepath.Join(dir, "snapshots"), "system.log")

	got, err := gatherLogFiles(dir)
	if err != nil {
		t.Fatalf("gatherLogFiles: %v", err)
	}

	want := []string{"bundle.tar.gz", "debug.log.gz", "diag.7z", "system.log", "system.log.1"}
	names := baseNames(got)
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeEmptyFile(t, dir, "system.log")
	writeEmptyFile(t, dir, "debug.log")
	writeEmptyFile(t, dir, "notes.txt")

	log := zerolog.Nop()

	t.Run("stdin passthrough", func(t *testing.T) {
		got := collectFiles([]string{"-"}, log)
		if len(got) != 1 || got[0] != "-" {
			t.Errorf("got %v, want [-]", got)
		}
	})

	t.Run("direct file", func(t *testing.T) {
		path := filepath.Join(dir, "system.log")
		got := collectFiles([]string{path}, log)
		if len(got) != 1 || got[0] != path {
			t.Errorf("got %v, want [%s]", got, path)
		}
	})

	t.Run("glob pattern", func(t *testing.T) {
		got := collectFiles([]string{filepath.Join(dir, "*.log")}, log)
		names := baseNames(got)
		if len(names) != 2 || names[0] != "debug.log" || names[1] != "system.log" {
			t.Errorf("got %v, want [debug.log system.log]", names)
		}
	})

	t.Run("directory scan", func(t *testing.T) {
		got := collectFiles([]string{dir}, log)
		names := baseNames(got)
		// notes.txt is skipped by the name check
		if len(names) != 2 || names[0] != "debug.log" || names[1] != "system.log" {
			t.Errorf("got %v, want [debug.log system.log]", names)
		}
	})

	t.Run("missing pattern skipped", func(t *testing.T) {
		got := collectFiles([]string{filepath.Join(dir, "nothing-*.log")}, log)
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("mixed args", func(t *testing.T) {
		got := collectFiles([]string{"-", filepath.Join(dir, "system.log")}, log)
		if len(got) != 2 || got[0] != "-" {
			t.Errorf("got %v, want stdin first then the file", got)
		}
	})
}
