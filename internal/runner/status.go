package runner

import (
	"fmt"
	"os"
	"syscall"
)

// Status is the raw outcome of a finished process. It keeps "exited with
// code N" and "terminated by signal S" apart; the zero value is Exited(0).
type Status struct {
	signaled bool
	code     int
	signal   syscall.Signal
}

// Exited returns the status of a process that exited normally with code.
func Exited(code int) Status {
	return Status{code: code}
}

// Signaled returns the status of a process terminated by sig.
func Signaled(sig syscall.Signal) Status {
	return Status{signaled: true, code: -1, signal: sig}
}

// Exited reports whether the process exited normally.
func (s Status) Exited() bool { return !s.signaled }

// ExitCode returns the exit code, or -1 if the process was signaled.
func (s Status) ExitCode() int {
	if s.signaled {
		return -1
	}
	return s.code
}

// Signal returns the terminating signal, or 0 if the process exited normally.
func (s Status) Signal() syscall.Signal {
	if !s.signaled {
		return 0
	}
	return s.signal
}

// ExitedWith reports whether the process exited normally with code.
func (s Status) ExitedWith(code int) bool {
	return !s.signaled && s.code == code
}

func (s Status) String() string {
	if s.signaled {
		return fmt.Sprintf("signal %d (%s)", int(s.signal), s.signal)
	}
	return fmt.Sprintf("exit %d", s.code)
}

// statusOf decodes the platform wait status of a finished process.
func statusOf(ps *os.ProcessState) Status {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Signaled(ws.Signal())
	}
	return Exited(ps.ExitCode())
}
