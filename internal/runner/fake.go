package runner

import (
	"context"
	"sync"
)

// Response is a pre-configured outcome for a fake invocation.
type Response struct {
	Result Result
	Err    error
}

// FakeRunner records process requests and returns pre-configured responses.
// Exported for use by checktestdata/validation tests.
type FakeRunner struct {
	mu        sync.Mutex
	calls     []Request
	responses map[string]Response // key: stdin path
	fallback  Response
}

// NewFakeRunner creates a FakeRunner whose fallback is a clean exit 0.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]Response),
	}
}

// SetResponse configures the response for requests reading stdin from path.
// Use "" for requests with no input file.
func (f *FakeRunner) SetResponse(stdin string, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[stdin] = resp
}

// SetFallback sets the default response for unmatched requests.
func (f *FakeRunner) SetFallback(resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = resp
}

// Run records the request and returns the matching response.
func (f *FakeRunner) Run(_ context.Context, req Request) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req.Args = append([]string(nil), req.Args...)
	f.calls = append(f.calls, req)

	if resp, ok := f.responses[req.Stdin]; ok {
		return resp.Result, resp.Err
	}
	return f.fallback.Result, f.fallback.Err
}

// Calls returns a copy of the recorded requests.
func (f *FakeRunner) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.calls...)
}

// CallCount returns the number of recorded requests.
func (f *FakeRunner) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Reset clears all recorded calls.
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Ensure FakeRunner implements ProcessRunner.
var _ ProcessRunner = (*FakeRunner)(nil)
var _ ProcessRunner = (*OSRunner)(nil)
