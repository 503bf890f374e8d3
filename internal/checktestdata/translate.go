package checktestdata

import "github.com/ecairns22/ctdrun/internal/runner"

// AcceptCode is the pipeline's exit code for an accepted input.
const AcceptCode = 42

// Translate maps an interpreter exit status to the pipeline convention.
// Checktestdata exits 0 when it accepts, and the pipeline expects 42 for
// that, so exit 0 and exit 42 trade places. Every other status, including
// signal terminations, is returned unchanged.
func Translate(s runner.Status) runner.Status {
	switch {
	case s.ExitedWith(0):
		return runner.Exited(AcceptCode)
	case s.ExitedWith(AcceptCode):
		return runner.Exited(0)
	}
	return s
}
