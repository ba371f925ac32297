package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/alexiusacademia/gogirder/internal/handling"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// fake records calls and fails for segment 13.
type fake struct {
	mu      sync.Mutex
	calls   []string
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (f *fake) enter(what string) {
	n := f.active.Add(1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	f.active.Add(-1)
	f.mu.Lock()
	f.calls = append(f.calls, what)
	f.mu.Unlock()
}

var errBad = errors.New("bad segment")

func (f *fake) AnalyzeLifting(key segment.Key, _ handling.Configuration) (*handling.Artifact, error) {
	f.enter("lift")
	if key.Segment == 13 {
		return nil, errBad
	}
	return &handling.Artifact{}, nil
}

func (f *fake) AnalyzeHauling(segment.Key, handling.Configuration) (*handling.Artifact, error) {
	f.enter("haul")
	return &handling.Artifact{}, nil
}

func (f *fake) DesignLifting(segment.Key, handling.Bounds, handling.DesignOptions) (*handling.DesignOutcome, error) {
	f.enter("design lift")
	return &handling.DesignOutcome{Artifact: &handling.Artifact{}}, nil
}

func (f *fake) DesignHauling(segment.Key, handling.Bounds, handling.DesignOptions) (*handling.DesignOutcome, error) {
	f.enter("design haul")
	return &handling.DesignOutcome{Status: handling.StatusFailure}, nil
}

func TestRunKeepsJobOrder(t *testing.T) {
	f := &fake{}
	var jobs []Job
	for i := 0; i < 20; i++ {
		jobs = append(jobs, Job{Key: segment.Key{Segment: i}, Mode: handling.ModeLifting})
	}
	jobs = append(jobs,
		Job{Key: segment.Key{Segment: 20}, Mode: handling.ModeHauling},
		Job{Key: segment.Key{Segment: 21}, Mode: handling.ModeLifting, Design: true},
		Job{Key: segment.Key{Segment: 22}, Mode: handling.ModeHauling, Design: true},
	)

	results := NewRunner(f, Config{MaxConcurrency: 3}).Run(context.Background(), jobs)

	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, r := range results {
		if r.Job.Key != jobs[i].Key {
			t.Errorf("result %d is for %s, want %s", i, r.Job.Key, jobs[i].Key)
		}
	}
	if !errors.Is(results[13].Err, errBad) {
		t.Errorf("result 13 err = %v, want bad segment", results[13].Err)
	}
	if errs := Errors(results); len(errs) != 1 {
		t.Errorf("got %d errors, want 1", len(errs))
	}
	if results[21].Outcome == nil || results[21].Artifact == nil {
		t.Error("design result lacks outcome or artifact")
	}
	if results[22].Outcome == nil || results[22].Outcome.Status != handling.StatusFailure {
		t.Error("infeasible design outcome was not kept")
	}
	if got := f.maxSeen.Load(); got > 3 {
		t.Errorf("%d jobs ran at once, limit is 3", got)
	}
	if len(f.calls) != len(jobs) {
		t.Errorf("analyzer called %d times, want %d", len(f.calls), len(jobs))
	}
}

func TestRunUnknownMode(t *testing.T) {
	results := NewRunner(&fake{}, Config{}).Run(context.Background(), []Job{{Mode: "crane"}})
	if !errors.Is(results[0].Err, segment.ErrInvalidConfiguration) {
		t.Errorf("err = %v, want invalid configuration", results[0].Err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fake{}
	jobs := []Job{{Mode: handling.ModeLifting}, {Mode: handling.ModeHauling}}
	results := NewRunner(f, Config{MaxConcurrency: 1}).Run(ctx, jobs)

	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d err = %v, want canceled", i, r.Err)
		}
	}
	if len(f.calls) != 0 {
		t.Errorf("analyzer called %d times after cancel", len(f.calls))
	}
}

func TestRunEmpty(t *testing.T) {
	if got := NewRunner(&fake{}, Config{}).Run(context.Background(), nil); len(got) != 0 {
		t.Errorf("got %d results for no jobs", len(got))
	}
}

func TestRunLogsArtifactIDs(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	jobs := []Job{{Key: segment.Key{Segment: 1}, Mode: handling.ModeLifting}}
	NewRunner(&fake{}, Config{MaxConcurrency: 1, LogPrefix: "test"}).Run(context.Background(), jobs)

	if out := buf.String(); !strings.Contains(out, "done ["+uuid.Nil.String()+"]") {
		t.Fatalf("log output %q does not carry the artifact id", out)
	}
}
