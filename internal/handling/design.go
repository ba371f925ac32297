package handling

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/alexiusacademia/gogirder/internal/model"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// Design search defaults.
const (
	DefaultTolerance     = 0.001 // m
	DefaultMaxIterations = 30
)

// Check is one factor of safety against its required minimum.
type Check struct {
	Name     string
	Value    float64
	Required float64
}

// Passed reports whether the factor meets its minimum.
func (c Check) Passed() bool { return c.Value >= c.Required }

// Ratio is Value/Required; +Inf when nothing is required.
func (c Check) Ratio() float64 {
	if c.Required <= 0 {
		return math.Inf(1)
	}
	return c.Value / c.Required
}

func (c Check) String() string {
	return fmt.Sprintf("%s FS %.3f < %.3f", c.Name, c.Value, c.Required)
}

// Bounds limits the support locations explored by a design search.
// The left and right overhangs move together from their minimums to their
// maximums.
type Bounds struct {
	LeftMin, LeftMax   float64
	RightMin, RightMax float64
}

// SymmetricBounds uses the same range at both ends.
func SymmetricBounds(lo, hi float64) Bounds {
	return Bounds{LeftMin: lo, LeftMax: hi, RightMin: lo, RightMax: hi}
}

// at returns the supports at parameter t in [0, 1].
func (b Bounds) at(t float64) model.Supports {
	return model.Supports{
		Left:  b.LeftMin + t*(b.LeftMax-b.LeftMin),
		Right: b.RightMin + t*(b.RightMax-b.RightMin),
	}
}

// travel is the longest distance a support moves over the search.
func (b Bounds) travel() float64 {
	return math.Max(b.LeftMax-b.LeftMin, b.RightMax-b.RightMin)
}

func (b Bounds) validate(key segment.Key, length float64) error {
	bad := func(format string, args ...any) error {
		return segment.Errorf(segment.KindInvalidConfiguration, key, format, args...).In("design bounds")
	}
	for _, v := range []float64{b.LeftMin, b.LeftMax, b.RightMin, b.RightMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return bad("bounds must be finite (left [%v, %v] m, right [%v, %v] m)", b.LeftMin, b.LeftMax, b.RightMin, b.RightMax)
		}
	}
	switch {
	case b.LeftMin < 0 || b.RightMin < 0:
		return bad("overhangs must not be negative")
	case b.LeftMax < b.LeftMin || b.RightMax < b.RightMin:
		return bad("maximum overhang is below the minimum")
	case b.LeftMax >= length/2 || b.RightMax >= length/2:
		return bad("maximum overhang must be less than half the segment length %.4f m", length)
	}
	return nil
}

// Status is the outcome class of a design search.
type Status int

const (
	StatusSuccess Status = iota
	StatusSuccessWithWarnings
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusSuccessWithWarnings:
		return "SuccessWithWarnings"
	}
	return "Failure"
}

// SearchState is the state of the design search when it stopped.
type SearchState int

const (
	StateInitializing SearchState = iota
	StateSearching
	StateConverged
	StateBoundExhausted
	StateInfeasible
)

func (s SearchState) String() string {
	return [...]string{"Initializing", "Searching", "Converged", "BoundExhausted", "Infeasible"}[s]
}

// DesignOptions tune a design search.
type DesignOptions struct {
	Threshold     float64 // replaces every required factor when positive
	Tolerance     float64 // m
	MaxIterations int
	Base          Configuration // concrete overrides applied to every trial
}

// DefaultDesignOptions returns 1 mm tolerance and 30 iterations.
func DefaultDesignOptions() DesignOptions {
	return DesignOptions{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

func (o DesignOptions) normalized() DesignOptions {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Sample is one trial of a design search.
type Sample struct {
	T        float64
	Supports model.Supports
	Checks   []Check
}

// Passed reports whether every check of the trial passed.
func (s Sample) Passed() bool {
	for _, c := range s.Checks {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// Ratio is the smallest check ratio of the trial.
func (s Sample) Ratio() float64 {
	r := math.Inf(1)
	for _, c := range s.Checks {
		r = math.Min(r, c.Ratio())
	}
	return r
}

// DesignOutcome is the result of a design search. Infeasible searches are
// reported here with StatusFailure rather than as errors.
type DesignOutcome struct {
	Status        Status
	State         SearchState
	Reason        string
	Configuration Configuration
	Artifact      *Artifact
	Violations    []Check
	Warnings      []string
	Iterations    int
	Samples       []Sample
}

// Err returns an Infeasible error for a failed search and nil otherwise.
func (o *DesignOutcome) Err() error {
	if o.Status != StatusFailure {
		return nil
	}
	var key segment.Key
	if o.Artifact != nil {
		key = o.Artifact.Key()
	}
	return segment.New(segment.KindInfeasible, key, o.Reason).In("design")
}

// trial evaluates one support location.
type trial func(sup model.Supports) (*Artifact, []Check, error)

type searcher struct {
	bounds  Bounds
	opts    DesignOptions
	eval    trial
	samples []Sample
	arts    []*Artifact
}

func (s *searcher) sample(t float64) (int, error) {
	sup := s.bounds.at(t)
	art, checks, err := s.eval(sup)
	if err != nil {
		return 0, err
	}
	s.samples = append(s.samples, Sample{T: t, Supports: sup, Checks: checks})
	s.arts = append(s.arts, art)
	smp := s.samples[len(s.samples)-1]
	log.Debugf("design trial t=%.5f left=%.4f right=%.4f ratio=%.4f passed=%t", t, sup.Left, sup.Right, smp.Ratio(), smp.Passed())
	return len(s.samples) - 1, nil
}

// search finds the smallest overhangs within bounds at which every check
// passes, assuming the checks improve as the supports move inward.
func search(bounds Bounds, opts DesignOptions, eval trial) (*DesignOutcome, error) {
	opts = opts.normalized()
	s := &searcher{bounds: bounds, opts: opts, eval: eval}
	out := &DesignOutcome{State: StateInitializing}
	travel := bounds.travel()

	hi, err := s.sample(1)
	if err != nil {
		return nil, err
	}
	if !s.samples[hi].Passed() {
		best := hi
		if travel > 0 {
			lo, err := s.sample(0)
			if err != nil {
				return nil, err
			}
			if s.samples[lo].Ratio() > s.samples[best].Ratio() {
				best = lo
			}
		}
		return s.finish(out, best, StateInfeasible, "no support location within bounds satisfies every check"), nil
	}
	if travel == 0 {
		return s.finish(out, hi, StateBoundExhausted, "bounds admit a single support location"), nil
	}
	lo, err := s.sample(0)
	if err != nil {
		return nil, err
	}
	if s.samples[lo].Passed() {
		return s.finish(out, lo, StateBoundExhausted, "minimum overhangs already satisfy every check"), nil
	}

	out.State = StateSearching
	tolT := opts.Tolerance / travel
	a, b, best := 0.0, 1.0, hi
	converged := false
	for i := 0; i < opts.MaxIterations; i++ {
		if b-a <= tolT {
			converged = true
			break
		}
		mid, err := s.sample((a + b) / 2)
		if err != nil {
			return nil, err
		}
		if s.samples[mid].Passed() {
			b, best = s.samples[mid].T, mid
		} else {
			a = s.samples[mid].T
		}
	}
	if !converged && b-a <= tolT {
		converged = true
	}
	if !converged {
		out.Warnings = append(out.Warnings, fmt.Sprintf("iteration limit %d reached with a %.4f m bracket", opts.MaxIterations, (b-a)*travel))
	}

	state, reason := StateConverged, "converged"
	if (1-b)*travel <= opts.Tolerance {
		state, reason = StateBoundExhausted, "solution lies at the maximum overhangs"
	}
	return s.finish(out, best, state, reason), nil
}

func (s *searcher) finish(out *DesignOutcome, best int, state SearchState, reason string) *DesignOutcome {
	smp := s.samples[best]
	out.State = state
	out.Reason = reason
	out.Artifact = s.arts[best]
	out.Configuration = s.opts.Base
	out.Configuration.UseDefaults = false
	out.Configuration.LeftOverhang = smp.Supports.Left
	out.Configuration.RightOverhang = smp.Supports.Right
	out.Iterations = len(s.samples)
	out.Samples = append([]Sample(nil), s.samples...)

	if w := s.monotonicity(); w != "" {
		out.Warnings = append(out.Warnings, w)
	}

	switch {
	case state == StateInfeasible:
		out.Status = StatusFailure
		var names []string
		for _, c := range smp.Checks {
			if !c.Passed() {
				out.Violations = append(out.Violations, c)
				names = append(names, c.String())
			}
		}
		if len(names) > 0 {
			out.Reason += ": " + strings.Join(names, ", ")
		}
	case state == StateConverged && len(out.Warnings) == 0:
		out.Status = StatusSuccess
	default:
		out.Status = StatusSuccessWithWarnings
	}
	log.Debugf("design search %s (%s) after %d trials: %s", out.Status, out.State, out.Iterations, out.Reason)
	return out
}

// monotonicity reports a governing ratio that rises and then falls as the
// supports move inward, which breaks the bisection assumption.
func (s *searcher) monotonicity() string {
	sorted := append([]Sample(nil), s.samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	peak := math.Inf(-1)
	for _, smp := range sorted {
		r := smp.Ratio()
		if math.IsInf(r, 1) {
			continue
		}
		if r < peak-1e-6 {
			return fmt.Sprintf("governing factor of safety drops from %.4f to %.4f at left overhang %.4f m; result may not be the smallest admissible overhang", peak, r, smp.Supports.Left)
		}
		peak = math.Max(peak, r)
	}
	return ""
}

// requiredChecks replaces every required minimum by threshold when positive.
func requiredChecks(checks []Check, threshold float64) []Check {
	out := append([]Check(nil), checks...)
	if threshold > 0 {
		for i := range out {
			out[i].Required = threshold
		}
	}
	return out
}
