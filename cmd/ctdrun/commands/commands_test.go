package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// setup writes a stub interpreter that accepts inputs containing "ok", a
// script inside a problem layout, and a config pointing at both.
func setup(t *testing.T) (cfgPath, script, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub interpreters need a POSIX shell")
	}
	dir = t.TempDir()

	interp := filepath.Join(dir, "checktestdata")
	stub := "#!/bin/sh\nif grep -q ok; then exit 0; fi\nexit 1\n"
	if err := os.WriteFile(interp, []byte(stub), 0755); err != nil {
		t.Fatal(err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "input_validators"), 0755); err != nil {
		t.Fatal(err)
	}
	script = filepath.Join(dir, "input_validators", "check.ctd")
	if err := os.WriteFile(script, []byte("INT(1, 10)\nNEWLINE\nEOF\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfgPath = filepath.Join(dir, "ctdrun.toml")
	cfg := fmt.Sprintf(`[checktestdata]
path = %q
tools_dir = %q
time_limit_seconds = 10

[history]
enabled = false
`, interp, filepath.Join(dir, "tools"))
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, script, dir
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := Root()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "ctdrun ") {
		t.Errorf("output = %q", out)
	}
}

func TestValidateAllAccepted(t *testing.T) {
	cfg, script, dir := setup(t)
	a := writeInput(t, dir, "1.in", "ok\n")
	b := writeInput(t, dir, "2.in", "ok ok\n")

	out, err := execute(t, "--config", cfg, "validate", script, a, b)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 accepted, 0 rejected") {
		t.Errorf("output missing summary:\n%s", out)
	}
	if strings.Count(out, "ACCEPT") != 2 {
		t.Errorf("expected two ACCEPT rows:\n%s", out)
	}
}

func TestValidateRejectedFails(t *testing.T) {
	cfg, script, dir := setup(t)
	a := writeInput(t, dir, "1.in", "ok\n")
	b := writeInput(t, dir, "2.in", "bad\n")

	out, err := execute(t, "--config", cfg, "validate", script, a, b)
	if err == nil {
		t.Fatalf("expected an error when an input is rejected:\n%s", out)
	}
	if !strings.Contains(out, "1 accepted, 1 rejected") {
		t.Errorf("output missing summary:\n%s", out)
	}
}

func TestRunExitsWithTranslatedCode(t *testing.T) {
	cfg, script, dir := setup(t)

	_, err := execute(t, "--config", cfg, "run", script, writeInput(t, dir, "good.in", "ok\n"))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want *ExitError", err)
	}
	if exitErr.Code != 42 {
		t.Errorf("Code = %d, want 42", exitErr.Code)
	}

	_, err = execute(t, "--config", cfg, "run", script, writeInput(t, dir, "bad.in", "nope\n"))
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want *ExitError", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
}

func TestCheck(t *testing.T) {
	cfg, script, _ := setup(t)

	// The stub reads nothing containing "ok" from /dev/null and exits 1,
	// which still counts as a successful syntax check.
	out, err := execute(t, "--config", cfg, "check", script)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "OK") {
		t.Errorf("output = %q", out)
	}
}

func TestMissingInterpreter(t *testing.T) {
	cfg, script, dir := setup(t)
	if err := os.Remove(filepath.Join(dir, "checktestdata")); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "--config", cfg, "check", script)
	if err == nil {
		t.Fatal("expected an error for a missing interpreter")
	}
	if !strings.Contains(err.Error(), "ctdrun fetch") {
		t.Errorf("error should point at 'ctdrun fetch': %v", err)
	}
}

func TestExitErrorMessage(t *testing.T) {
	if got := (&ExitError{Code: 42}).Error(); got != "exit status 42" {
		t.Errorf("Error() = %q", got)
	}
	inner := errors.New("boom")
	e := &ExitError{Code: 3, Err: inner}
	if !errors.Is(e, inner) {
		t.Error("ExitError should unwrap to its cause")
	}
}
