// Package batch runs handling analyses and designs for many segments with
// bounded concurrency.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/alexiusacademia/gogirder/internal/handling"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// Job is one analysis or design request.
type Job struct {
	Key    segment.Key
	Mode   handling.Mode
	Design bool

	Config  handling.Configuration // analysis
	Bounds  handling.Bounds        // design
	Options handling.DesignOptions // design
}

func (j Job) String() string {
	verb := "analyze"
	if j.Design {
		verb = "design"
	}
	return fmt.Sprintf("%s %s %s", verb, j.Mode, j.Key)
}

// Result pairs a job with its artifact, design outcome or error.
type Result struct {
	Job      Job
	Artifact *handling.Artifact
	Outcome  *handling.DesignOutcome
	Err      error
}

// Analyzer is the part of handling.Engine the runner needs.
type Analyzer interface {
	AnalyzeLifting(key segment.Key, cfg handling.Configuration) (*handling.Artifact, error)
	AnalyzeHauling(key segment.Key, cfg handling.Configuration) (*handling.Artifact, error)
	DesignLifting(key segment.Key, bounds handling.Bounds, opts handling.DesignOptions) (*handling.DesignOutcome, error)
	DesignHauling(key segment.Key, bounds handling.Bounds, opts handling.DesignOptions) (*handling.DesignOutcome, error)
}

// Config configures the runner.
type Config struct {
	MaxConcurrency int    // 0 means one worker per job
	LogPrefix      string // prefix for log messages
}

// Runner executes jobs concurrently against one analyzer.
type Runner struct {
	analyzer Analyzer
	config   Config
}

// NewRunner creates a runner.
func NewRunner(analyzer Analyzer, config Config) *Runner {
	if config.LogPrefix == "" {
		config.LogPrefix = "batch"
	}
	return &Runner{analyzer: analyzer, config: config}
}

// Run executes every job and returns results in job order. Jobs not started
// before ctx is done report ctx.Err().
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	// Messages channel for logging
	messages := make(chan string)
	var logWG sync.WaitGroup
	logWG.Add(1)
	go func() {
		defer logWG.Done()
		for msg := range messages {
			log.Infof("%s: %s", r.config.LogPrefix, msg)
		}
	}()

	var throttle chan struct{}
	if r.config.MaxConcurrency > 0 {
		throttle = make(chan struct{}, r.config.MaxConcurrency)
	}

	var workersWG sync.WaitGroup
	for i, job := range jobs {
		acquired := false
		if throttle != nil {
			select {
			case throttle <- struct{}{}:
				acquired = true
			case <-ctx.Done():
			}
		}
		if err := ctx.Err(); err != nil {
			if acquired {
				<-throttle
			}
			results[i] = Result{Job: job, Err: err}
			continue
		}

		workersWG.Add(1)
		go func(i int, job Job) {
			defer workersWG.Done()
			if throttle != nil {
				defer func() { <-throttle }()
			}
			results[i] = r.run(job)
			if err := results[i].Err; err != nil {
				messages <- fmt.Sprintf("%s failed: %v", job, err)
				return
			}
			if a := results[i].Artifact; a != nil {
				messages <- fmt.Sprintf("%s done [%s]", job, a.ID())
				return
			}
			messages <- fmt.Sprintf("%s done", job)
		}(i, job)
	}

	workersWG.Wait()
	close(messages)
	logWG.Wait()
	return results
}

func (r *Runner) run(job Job) Result {
	res := Result{Job: job}
	switch {
	case job.Mode == handling.ModeLifting && job.Design:
		res.Outcome, res.Err = r.analyzer.DesignLifting(job.Key, job.Bounds, job.Options)
	case job.Mode == handling.ModeHauling && job.Design:
		res.Outcome, res.Err = r.analyzer.DesignHauling(job.Key, job.Bounds, job.Options)
	case job.Mode == handling.ModeLifting:
		res.Artifact, res.Err = r.analyzer.AnalyzeLifting(job.Key, job.Config)
	case job.Mode == handling.ModeHauling:
		res.Artifact, res.Err = r.analyzer.AnalyzeHauling(job.Key, job.Config)
	default:
		res.Err = fmt.Errorf("%w: unknown mode %q", segment.ErrInvalidConfiguration, job.Mode)
	}
	if res.Outcome != nil {
		res.Artifact = res.Outcome.Artifact
	}
	return res
}

// Errors collects the errors of a run.
func Errors(results []Result) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
