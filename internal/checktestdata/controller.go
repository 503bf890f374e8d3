package checktestdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ecairns22/ctdrun/internal/runner"
)

const (
	// ToolName is the interpreter's binary name.
	ToolName = "checktestdata"

	// DefaultTimeLimit applies to Compile and to runs without a limit.
	DefaultTimeLimit = 1000 * time.Second
)

type compileState int

const (
	compileUnknown compileState = iota
	compilePass
	compileFail
)

// Options configures a Controller.
type Options struct {
	// Interpreter is the resolved path of the checktestdata binary.
	Interpreter string
	// Runner defaults to runner.OSRunner.
	Runner runner.ProcessRunner
	// TempDir receives materialized scripts; os.TempDir when empty.
	TempDir string
	Logger  *log.Logger
}

// RunOptions describes one validation run. Empty paths mean the null device.
type RunOptions struct {
	Input     string
	Output    string
	Error     string
	Args      []string
	TimeLimit time.Duration // zero => DefaultTimeLimit
}

// Outcome is the result of one validation run.
type Outcome struct {
	// Raw is the interpreter's own exit status.
	Raw runner.Status
	// Status is Raw in pipeline convention: exit 42 means accepted.
	Status   runner.Status
	Runtime  time.Duration
	TimedOut bool
}

// Accepted reports whether the input passed validation.
func (o Outcome) Accepted() bool {
	return !o.TimedOut && o.Status.ExitedWith(AcceptCode)
}

// Abnormal reports whether the interpreter did not exit on its own.
func (o Outcome) Abnormal() bool {
	return o.TimedOut || !o.Status.Exited()
}

// Controller owns one script: its materialized copy and its syntax check.
// It is not safe for concurrent use; run separate controllers instead.
type Controller struct {
	script      string
	path        string
	temporary   bool
	interpreter string
	runner      runner.ProcessRunner
	logger      *log.Logger

	compiled compileState
	closed   bool
}

// New creates a Controller for the script at scriptPath. It fails with
// ErrToolNotFound if the interpreter is missing, before touching the script.
func New(scriptPath string, opts Options) (*Controller, error) {
	if opts.Interpreter == "" {
		return nil, fmt.Errorf("%w: could not locate %s to run %s", ErrToolNotFound, ToolName, scriptPath)
	}
	if _, err := os.Stat(opts.Interpreter); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrToolNotFound, opts.Interpreter, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := opts.Runner
	if r == nil {
		r = &runner.OSRunner{}
	}

	path, temporary, err := Materialize(scriptPath, opts.TempDir)
	if err != nil {
		return nil, err
	}
	if temporary {
		logger.Debug("prepended constraints", "script", scriptPath, "path", path)
	}

	return &Controller{
		script:      scriptPath,
		path:        path,
		temporary:   temporary,
		interpreter: opts.Interpreter,
		runner:      r,
		logger:      logger,
	}, nil
}

// Script returns the source script path.
func (c *Controller) Script() string { return c.script }

// Path returns the script path passed to the interpreter. It differs from
// Script when constraints were prepended.
func (c *Controller) Path() string { return c.path }

func (c *Controller) String() string { return c.path }

// Compile syntax-checks the script. The interpreter runs once per
// Controller; later calls return the first answer.
func (c *Controller) Compile(ctx context.Context) (bool, error) {
	if c.closed {
		return false, ErrClosed
	}
	if c.compiled != compileUnknown {
		return c.compiled == compilePass, nil
	}

	res, err := c.runner.Run(ctx, runner.Request{
		Path:      c.interpreter,
		Args:      []string{c.path},
		TimeLimit: DefaultTimeLimit,
	})
	if err != nil {
		return false, fmt.Errorf("syntax-checking %s: %w", c.script, err)
	}

	// 1 is a rejection of the empty input, so the script still parsed.
	ok := res.Status.ExitedWith(0) || res.Status.ExitedWith(1)
	c.compiled = compileFail
	if ok {
		c.compiled = compilePass
	}
	c.logger.Debug("syntax check", "script", c.script, "status", res.Status, "ok", ok)
	return ok, nil
}

// Run validates one input file.
func (c *Controller) Run(ctx context.Context, opts RunOptions) (Outcome, error) {
	if c.closed {
		return Outcome{}, ErrClosed
	}
	limit := opts.TimeLimit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}

	args := append([]string{c.path}, opts.Args...)
	res, err := c.runner.Run(ctx, runner.Request{
		Path:      c.interpreter,
		Args:      args,
		Stdin:     opts.Input,
		Stdout:    opts.Output,
		Stderr:    opts.Error,
		TimeLimit: limit,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("running %s on %s: %w", c.script, opts.Input, err)
	}

	out := Outcome{
		Raw:      res.Status,
		Status:   Translate(res.Status),
		Runtime:  res.Runtime,
		TimedOut: res.TimedOut,
	}
	c.logger.Debug("validated",
		"script", c.script,
		"input", opts.Input,
		"raw", out.Raw,
		"status", out.Status,
		"runtime", out.Runtime,
		"timed_out", out.TimedOut,
	)
	return out, nil
}

// Close removes the materialized script, if one was created. It is safe to
// call more than once.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if !c.temporary {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", c.path, err)
	}
	return nil
}
