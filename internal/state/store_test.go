package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(script, input string, at time.Time) *Run {
	return &Run{
		Script:    script,
		Input:     input,
		RawStatus: "exit 0",
		Status:    "exit 42",
		Accepted:  true,
		Runtime:   1500 * time.Microsecond,
		CreatedAt: at,
	}
}

func TestInsertAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	at := time.UnixMicro(time.Now().UnixMicro())
	run := testRun("/p/validate.ctd", "/p/data/1.in", at)
	run.TimedOut = true
	if err := s.InsertRun(ctx, run); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("InsertRun should assign an ID")
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Script != run.Script || got.Input != run.Input {
		t.Errorf("got %+v", got)
	}
	if got.RawStatus != "exit 0" || got.Status != "exit 42" {
		t.Errorf("statuses = %q, %q", got.RawStatus, got.Status)
	}
	if !got.Accepted || !got.TimedOut {
		t.Errorf("Accepted = %v, TimedOut = %v", got.Accepted, got.TimedOut)
	}
	if got.Runtime != 1500*time.Microsecond {
		t.Errorf("Runtime = %v", got.Runtime)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, at)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for i, input := range []string{"1.in", "2.in", "3.in"} {
		if err := s.InsertRun(ctx, testRun("a.ctd", input, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.InsertRun(ctx, testRun("b.ctd", "x.in", base)); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(ctx, "a.ctd", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len = %d, want 3", len(runs))
	}
	if runs[0].Input != "3.in" || runs[2].Input != "1.in" {
		t.Errorf("order = %s, %s, %s", runs[0].Input, runs[1].Input, runs[2].Input)
	}

	all, err := s.ListRuns(ctx, "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("limited len = %d, want 2", len(all))
	}
}

func TestPruneBefore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	old := testRun("a.ctd", "old.in", now.Add(-48*time.Hour))
	fresh := testRun("a.ctd", "new.in", now)
	for _, r := range []*Run{old, fresh} {
		if err := s.InsertRun(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.PruneBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
	if _, err := s.GetRun(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Error("old run should be gone")
	}
	if _, err := s.GetRun(ctx, fresh.ID); err != nil {
		t.Errorf("fresh run should remain: %v", err)
	}
}

func TestOpenFileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.InsertRun(context.Background(), testRun("a.ctd", "1.in", time.Now())); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	runs, err := s.ListRuns(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("len = %d after reopen, want 1", len(runs))
	}
}

func TestOpenConfiguredUnknownDriver(t *testing.T) {
	if _, err := OpenConfigured(context.Background(), "postgres", "x"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestRunVerdict(t *testing.T) {
	cases := []struct {
		run  Run
		want string
	}{
		{Run{Accepted: true}, "ACCEPT"},
		{Run{}, "REJECT"},
		{Run{Abnormal: true}, "ERROR"},
		{Run{Abnormal: true, TimedOut: true}, "TIMEOUT"},
	}
	for _, tc := range cases {
		if got := tc.run.Verdict(); got != tc.want {
			t.Errorf("Verdict(%+v) = %s, want %s", tc.run, got, tc.want)
		}
	}
}

func TestAbnormalRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := testRun("/p/validate.ctd", "/p/data/crash.in", time.Now())
	run.Accepted = false
	run.Abnormal = true
	run.RawStatus = "signal 11 (segmentation fault)"
	run.Status = run.RawStatus
	if err := s.InsertRun(ctx, run); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !got.Abnormal || got.Verdict() != "ERROR" {
		t.Errorf("Abnormal = %v, Verdict = %s; want true, ERROR", got.Abnormal, got.Verdict())
	}
}
