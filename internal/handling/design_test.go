package handling

import (
	"errors"
	"math"
	"testing"

	"github.com/alexiusacademia/gogirder/internal/criteria"
	"github.com/alexiusacademia/gogirder/internal/model"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// stub returns a trial whose single factor is fs(left overhang).
func stub(fs func(a float64) float64) trial {
	return func(sup model.Supports) (*Artifact, []Check, error) {
		return nil, []Check{{Name: "stub", Value: fs(sup.Left), Required: 1}}, nil
	}
}

func TestSearchConvergesToSmallestPassingOverhang(t *testing.T) {
	out, err := search(SymmetricBounds(0.5, 5), DefaultDesignOptions(), stub(func(a float64) float64 { return a / 1.8 }))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out.Status != StatusSuccess || out.State != StateConverged {
		t.Fatalf("status %s (%s), want Success (Converged): %v", out.Status, out.State, out.Warnings)
	}
	a := out.Configuration.LeftOverhang
	if a < 1.8-1e-9 || a > 1.8+DefaultTolerance {
		t.Errorf("overhang = %.5f, want [1.8, 1.801]", a)
	}
	if out.Configuration.RightOverhang != a {
		t.Errorf("right overhang %.5f differs from left %.5f", out.Configuration.RightOverhang, a)
	}
	if out.Iterations > DefaultMaxIterations+2 {
		t.Errorf("%d trials exceed the iteration limit", out.Iterations)
	}
}

func TestSearchSolutionAtMaximumBound(t *testing.T) {
	out, err := search(SymmetricBounds(0.5, 5), DefaultDesignOptions(), stub(func(a float64) float64 { return a / 5 }))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out.Status != StatusSuccessWithWarnings || out.State != StateBoundExhausted {
		t.Errorf("status %s (%s), want SuccessWithWarnings (BoundExhausted)", out.Status, out.State)
	}
	if math.Abs(out.Configuration.LeftOverhang-5) > DefaultTolerance {
		t.Errorf("overhang = %.5f, want 5", out.Configuration.LeftOverhang)
	}
}

func TestSearchMinimumBoundAlreadyPasses(t *testing.T) {
	out, err := search(SymmetricBounds(0.5, 5), DefaultDesignOptions(), stub(func(float64) float64 { return 2 }))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out.Status != StatusSuccessWithWarnings || out.Configuration.LeftOverhang != 0.5 {
		t.Errorf("status %s at %.4f, want SuccessWithWarnings at 0.5", out.Status, out.Configuration.LeftOverhang)
	}
}

func TestSearchInfeasible(t *testing.T) {
	out, err := search(SymmetricBounds(0.5, 5), DefaultDesignOptions(), stub(func(a float64) float64 { return a / 10 }))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out.Status != StatusFailure || out.State != StateInfeasible {
		t.Fatalf("status %s (%s), want Failure (Infeasible)", out.Status, out.State)
	}
	if len(out.Violations) != 1 || out.Violations[0].Name != "stub" {
		t.Errorf("violations = %v", out.Violations)
	}
	// best attempt is the one closest to passing
	if out.Configuration.LeftOverhang != 5 {
		t.Errorf("best attempt at %.4f, want 5", out.Configuration.LeftOverhang)
	}
}

func TestSearchIterationLimit(t *testing.T) {
	opts := DefaultDesignOptions()
	opts.MaxIterations = 3
	out, err := search(SymmetricBounds(0.5, 5), opts, stub(func(a float64) float64 { return a / 1.8 }))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out.Status != StatusSuccessWithWarnings || len(out.Warnings) == 0 {
		t.Errorf("status %s with warnings %v, want iteration warning", out.Status, out.Warnings)
	}
	if out.Configuration.LeftOverhang < 1.8 {
		t.Errorf("returned overhang %.4f does not pass", out.Configuration.LeftOverhang)
	}
}

func TestSearchWarnsOnNonMonotonicFactor(t *testing.T) {
	// rises until 3 m then falls; passes on [1.8, 4.2]
	fs := func(a float64) float64 { return 1.5 - math.Abs(a-3)/4 }
	out, err := search(SymmetricBounds(0.5, 4.5), DefaultDesignOptions(), stub(fs))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out.Status == StatusSuccess || len(out.Warnings) == 0 {
		t.Errorf("status %s without a monotonicity warning", out.Status)
	}
}

func TestSearchPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := search(SymmetricBounds(0.5, 5), DefaultDesignOptions(), func(model.Supports) (*Artifact, []Check, error) {
		return nil, nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestRequiredChecksThreshold(t *testing.T) {
	checks := []Check{{Name: "cracking", Value: 1.2, Required: 1}, {Name: "failure", Value: 1.6, Required: 1.5}}
	got := requiredChecks(checks, 1.3)
	if got[0].Passed() || !got[1].Passed() {
		t.Errorf("threshold 1.3 gives %v", got)
	}
	if checks[0].Required != 1 {
		t.Error("input checks were modified")
	}
}

func TestDesignLiftingFindsSmallestOverhang(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	out, err := e.DesignLifting(testKey, SymmetricBounds(0.5, 5), DefaultDesignOptions())
	if err != nil {
		t.Fatalf("DesignLifting: %v", err)
	}
	if out.Status != StatusSuccess {
		t.Fatalf("status %s (%s): %s %v", out.Status, out.State, out.Reason, out.Warnings)
	}
	if out.Artifact == nil || !out.Artifact.Passed() {
		t.Fatal("returned artifact does not pass")
	}
	if err := out.Err(); err != nil {
		t.Fatalf("Err() = %v for a successful search", err)
	}
	a := out.Configuration.LeftOverhang
	if a <= 0.5 || a >= 5 {
		t.Fatalf("overhang %.4f is at a bound", a)
	}

	closer, err := e.AnalyzeLifting(testKey, NewConfiguration(a-2*DefaultTolerance, a-2*DefaultTolerance))
	if err != nil {
		t.Fatalf("AnalyzeLifting: %v", err)
	}
	if closer.Passed() {
		t.Errorf("overhang %.4f also passes; %.4f is not the smallest", a-2*DefaultTolerance, a)
	}
}

func TestDesignHaulingInfeasibleReportsViolations(t *testing.T) {
	rules := criteria.Standard()
	rules.Hauling.MinFSRollover = 100
	e := engine(t, catalog(t, 30, girderProps()), rules)

	out, err := e.DesignHauling(testKey, SymmetricBounds(0.5, 5), DefaultDesignOptions())
	if err != nil {
		t.Fatalf("DesignHauling: %v", err)
	}
	if out.Status != StatusFailure || out.Artifact == nil {
		t.Fatalf("status %s with artifact %v, want Failure with best attempt", out.Status, out.Artifact)
	}
	found := false
	for _, v := range out.Violations {
		found = found || v.Name == "rollover"
	}
	if !found {
		t.Errorf("violations %v do not name rollover", out.Violations)
	}
	err = out.Err()
	if !errors.Is(err, segment.ErrInfeasible) || segment.KindOf(err) != segment.KindInfeasible {
		t.Errorf("Err() = %v, want infeasible", err)
	}
}

func TestDesignRejectsInvalidBounds(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	for _, b := range []Bounds{SymmetricBounds(-1, 5), SymmetricBounds(4, 2), SymmetricBounds(1, 15),
		SymmetricBounds(math.NaN(), 5), SymmetricBounds(1, math.Inf(1))} {
		if _, err := e.DesignLifting(testKey, b, DefaultDesignOptions()); !errors.Is(err, segment.ErrInvalidConfiguration) {
			t.Errorf("%+v: err = %v, want invalid configuration", b, err)
		}
	}
}
