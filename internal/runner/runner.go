package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Request describes one process invocation with file-based stdio.
// Empty Stdin, Stdout or Stderr paths mean the null device.
type Request struct {
	Path      string
	Args      []string
	Stdin     string
	Stdout    string
	Stderr    string
	TimeLimit time.Duration // zero => no limit
}

// Result is the raw outcome of a process run.
type Result struct {
	Status  Status
	Runtime time.Duration
	// TimedOut is set when the process was killed because TimeLimit elapsed.
	TimedOut bool
}

// ProcessRunner abstracts process execution for testability.
// The error return is reserved for failures to set up or start the process;
// a non-zero exit or a signal is reported through Result.
type ProcessRunner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// OSRunner executes processes via os/exec.
type OSRunner struct {
	// KillGrace bounds how long Wait blocks on I/O after the process is
	// killed. Zero means one second.
	KillGrace time.Duration
}

func (r *OSRunner) Run(ctx context.Context, req Request) (Result, error) {
	if req.Path == "" {
		return Result{}, errors.New("empty executable path")
	}

	stdin, err := os.Open(nullIfEmpty(req.Stdin))
	if err != nil {
		return Result{}, fmt.Errorf("opening stdin %s: %w", req.Stdin, err)
	}
	defer stdin.Close()

	stdout, err := os.Create(nullIfEmpty(req.Stdout))
	if err != nil {
		return Result{}, fmt.Errorf("creating stdout %s: %w", req.Stdout, err)
	}
	defer stdout.Close()

	stderr, err := os.Create(nullIfEmpty(req.Stderr))
	if err != nil {
		return Result{}, fmt.Errorf("creating stderr %s: %w", req.Stderr, err)
	}
	defer stderr.Close()

	runCtx := ctx
	if req.TimeLimit > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.TimeLimit)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, req.Path, req.Args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = r.KillGrace
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = time.Second
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("starting %s: %w", req.Path, err)
	}
	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	if cmd.ProcessState == nil {
		return Result{}, fmt.Errorf("waiting for %s: %w", req.Path, waitErr)
	}

	res := Result{Status: statusOf(cmd.ProcessState), Runtime: elapsed}
	// A process that exited on its own right at the deadline still counts
	// as finished.
	if !res.Status.Exited() && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		res.TimedOut = true
	}
	return res, nil
}

func nullIfEmpty(path string) string {
	if path == "" {
		return os.DevNull
	}
	return path
}
