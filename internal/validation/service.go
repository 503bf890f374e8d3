package validation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ecairns22/ctdrun/internal/checktestdata"
	"github.com/ecairns22/ctdrun/internal/config"
	"github.com/ecairns22/ctdrun/internal/runner"
	"github.com/ecairns22/ctdrun/internal/state"
)

// ErrDoesNotCompile is returned when a script fails its syntax check.
var ErrDoesNotCompile = errors.New("script does not compile")

// RunRecorder is the subset of state.Store needed to keep history.
type RunRecorder interface {
	InsertRun(ctx context.Context, run *state.Run) error
}

// Service validates test inputs with Checktestdata scripts and records
// the verdicts.
type Service struct {
	interpreter string
	runner      runner.ProcessRunner
	history     RunRecorder
	tempDir     string
	timeLimit   time.Duration
	logger      *log.Logger
}

// New creates a Service. interpreter is the resolved checktestdata path;
// history may be nil to skip recording.
func New(cfg *config.Config, interpreter string, r runner.ProcessRunner, history RunRecorder, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{
		interpreter: interpreter,
		runner:      r,
		history:     history,
		tempDir:     cfg.Checktestdata.TempDir,
		timeLimit:   cfg.Checktestdata.TimeLimit(),
		logger:      logger,
	}
}

// Request holds all parameters for a validation.
type Request struct {
	Script    string
	Inputs    []string
	Args      []string
	TimeLimit time.Duration // zero = configured limit
	OutputDir string        // empty = discard interpreter output
}

// InputResult is the verdict for one input file.
type InputResult struct {
	Input   string
	Outcome checktestdata.Outcome
	RunID   string // empty when history is off or recording failed
	Stdout  string
	Stderr  string
}

// Report holds the output of a validation.
type Report struct {
	Script   string
	Results  []InputResult
	Accepted int
	Rejected int
}

// AllAccepted reports whether every input was accepted.
func (r *Report) AllAccepted() bool {
	return r.Rejected == 0 && r.Accepted == len(r.Results)
}

func (s *Service) controller(script string) (*checktestdata.Controller, error) {
	return checktestdata.New(script, checktestdata.Options{
		Interpreter: s.interpreter,
		Runner:      s.runner,
		TempDir:     s.tempDir,
		Logger:      s.logger,
	})
}

// Check syntax-checks a script.
func (s *Service) Check(ctx context.Context, script string) (bool, error) {
	ctl, err := s.controller(script)
	if err != nil {
		return false, err
	}
	defer s.close(ctl)

	return ctl.Compile(ctx)
}

// Validate runs the script against each input in order. The script must
// pass its syntax check first.
func (s *Service) Validate(ctx context.Context, req Request) (*Report, error) {
	ctl, err := s.controller(req.Script)
	if err != nil {
		return nil, err
	}
	defer s.close(ctl)

	ok, err := ctl.Compile(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDoesNotCompile, req.Script)
	}

	limit := req.TimeLimit
	if limit <= 0 {
		limit = s.timeLimit
	}

	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output dir %s: %w", req.OutputDir, err)
		}
	}

	report := &Report{Script: req.Script}
	for i, input := range req.Inputs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := InputResult{Input: input}
		if req.OutputDir != "" {
			base := fmt.Sprintf("%03d-%s", i+1, filepath.Base(input))
			res.Stdout = filepath.Join(req.OutputDir, base+".out")
			res.Stderr = filepath.Join(req.OutputDir, base+".err")
		}

		out, err := ctl.Run(ctx, checktestdata.RunOptions{
			Input:     input,
			Output:    res.Stdout,
			Error:     res.Stderr,
			Args:      req.Args,
			TimeLimit: limit,
		})
		if err != nil {
			return report, err
		}
		res.Outcome = out

		if out.Accepted() {
			report.Accepted++
		} else {
			report.Rejected++
		}
		s.logger.Info("validated",
			"input", input,
			"verdict", Verdict(out),
			"status", out.Status,
			"runtime", out.Runtime.Round(time.Millisecond),
		)

		res.RunID = s.record(ctx, req.Script, input, out)
		report.Results = append(report.Results, res)
	}

	return report, nil
}

// Verdict names an outcome: ACCEPT, REJECT, TIMEOUT or ERROR.
func Verdict(o checktestdata.Outcome) string {
	switch {
	case o.TimedOut:
		return "TIMEOUT"
	case o.Abnormal():
		return "ERROR"
	case o.Accepted():
		return "ACCEPT"
	default:
		return "REJECT"
	}
}

// record stores the outcome. History is best effort: a failure is logged
// and does not change the verdict.
func (s *Service) record(ctx context.Context, script, input string, out checktestdata.Outcome) string {
	if s.history == nil {
		return ""
	}
	run := &state.Run{
		Script:    absOrSame(script),
		Input:     absOrSame(input),
		RawStatus: out.Raw.String(),
		Status:    out.Status.String(),
		Accepted:  out.Accepted(),
		TimedOut:  out.TimedOut,
		Abnormal:  out.Abnormal(),
		Runtime:   out.Runtime,
	}
	if err := s.history.InsertRun(ctx, run); err != nil {
		s.logger.Warn("failed to record run", "input", input, "error", err)
		return ""
	}
	return run.ID
}

func (s *Service) close(ctl *checktestdata.Controller) {
	if err := ctl.Close(); err != nil {
		s.logger.Warn("cleanup failed", "script", ctl.Script(), "error", err)
	}
}

func absOrSame(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
