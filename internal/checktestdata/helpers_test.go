package checktestdata

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleScript = "INT(1, N, n) NEWLINE\nEOF\n"

// writeProblem lays out <root>/input_format_validators/validate.ctd and,
// when constraintsJSON is not empty, <root>/problem_statement/constraints.json.
func writeProblem(t *testing.T, constraintsJSON string) string {
	t.Helper()
	root := t.TempDir()

	validators := filepath.Join(root, "input_format_validators")
	if err := os.MkdirAll(validators, 0755); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(validators, "validate.ctd")
	if err := os.WriteFile(script, []byte(sampleScript), 0644); err != nil {
		t.Fatal(err)
	}

	if constraintsJSON != "" {
		statement := filepath.Join(root, "problem_statement")
		if err := os.MkdirAll(statement, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(statement, "constraints.json"), []byte(constraintsJSON), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return script
}

// fakeInterpreter creates a file standing in for the interpreter binary.
func fakeInterpreter(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checktestdata")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return entries
}
