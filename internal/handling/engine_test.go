package handling

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/alexiusacademia/gogirder/internal/criteria"
	"github.com/alexiusacademia/gogirder/internal/model"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

const tol = 1e-6

var testKey = segment.Key{Group: 1, Girder: 1, Segment: 0}

func girderProps() segment.ExplicitProperties {
	return segment.ExplicitProperties{
		Area: 1, Ix: 0.5, Iy: 0.05, Ytop: 0.9, Ybottom: 0.9, TopWidth: 1, BottomWidth: 0.7,
	}
}

// catalog returns a prismatic 10 kN/m segment of the given length.
func catalog(t *testing.T, length float64, props segment.ExplicitProperties, stations ...float64) *segment.Catalog {
	t.Helper()
	def := &segment.Definition{
		Key:             testKey,
		Length:          length,
		UnitWeight:      10,
		Intervals:       []segment.Interval{{Name: "release", Fc: 35, Ec: 30000}, {Name: "shipping", Fc: 45, Ec: 33000}},
		LiftingInterval: 0,
		HaulingInterval: 1,
		Regions:         []segment.Region{{Start: 0, End: length, Properties: &props}},
		TenthPoints:     true,
	}
	for _, x := range stations {
		def.PointsOfInterest = append(def.PointsOfInterest, segment.POIDefinition{Station: x})
	}
	if err := def.Prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	cat, err := segment.NewCatalog(def)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func engine(t *testing.T, cat *segment.Catalog, rules criteria.Rules) *Engine {
	t.Helper()
	e, err := NewEngine(cat.Providers(), rules)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func staticMoment(t *testing.T, a *Artifact, station float64) float64 {
	t.Helper()
	for _, s := range a.StressesFor(model.CaseStatic) {
		if math.Abs(s.POI.Station-station) < 1e-3 {
			return s.Moment
		}
	}
	t.Fatalf("no static result at %.3f m", station)
	return 0
}

func TestLiftingMomentsWithOverhangs(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	a, err := e.AnalyzeLifting(testKey, NewConfiguration(2, 2))
	if err != nil {
		t.Fatalf("AnalyzeLifting: %v", err)
	}

	for _, x := range []float64{2, 28} {
		if m := staticMoment(t, a, x); math.Abs(m+20) > tol {
			t.Errorf("moment at support %.0f m = %.6f, want -20", x, m)
		}
	}
	if m := staticMoment(t, a, 15); math.Abs(m-825) > tol {
		t.Errorf("midspan moment = %.6f, want 825", m)
	}
	if m := staticMoment(t, a, 0); math.Abs(m) > tol {
		t.Errorf("end moment = %.6f, want 0", m)
	}

	for _, s := range a.StressesFor(model.CaseStatic) {
		if math.Abs(s.POI.Station-15) > 1e-3 {
			continue
		}
		want := 825 * 0.9 / 0.5 / 1000
		if math.Abs(s.Top+want) > tol || math.Abs(s.Bottom-want) > tol {
			t.Errorf("midspan stresses top %.6f bottom %.6f, want %.6f / %.6f", s.Top, s.Bottom, -want, want)
		}
	}
}

func TestZeroOverhangIsSimpleSpan(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	a, err := e.AnalyzeLifting(testKey, NewConfiguration(0, 0))
	if err != nil {
		t.Fatalf("AnalyzeLifting: %v", err)
	}
	if m := staticMoment(t, a, 15); math.Abs(m-1125) > tol {
		t.Errorf("midspan moment = %.6f, want 1125", m)
	}
	f, ok := a.Lifting()
	if !ok {
		t.Fatal("lifting factors missing")
	}
	if math.Abs(f.Weight-300) > tol {
		t.Errorf("weight = %.6f, want 300", f.Weight)
	}

	// 5wL⁴/384EI with EI = 30000 MPa × 0.5 m⁴
	if want := 5 * 10 * math.Pow(30, 4) / (384 * 30000 * 1000 * 0.5); math.Abs(a.MaxDeflection()-want) > 1e-9 {
		t.Errorf("deflection = %.9f m, want %.9f m", a.MaxDeflection(), want)
	}
}

func TestSupportReactionsCarryTheWeight(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	a, err := e.AnalyzeLifting(testKey, NewConfiguration(2, 2))
	if err != nil {
		t.Fatalf("AnalyzeLifting: %v", err)
	}
	left, right := a.SupportReactions()
	if math.Abs(left-150) > tol || math.Abs(right-150) > tol {
		t.Errorf("reactions = %.6f, %.6f kN, want 150 each", left, right)
	}

	// Moving one support inward shifts load onto it
	a, err = e.AnalyzeLifting(testKey, NewConfiguration(1, 5))
	if err != nil {
		t.Fatalf("AnalyzeLifting: %v", err)
	}
	left, right = a.SupportReactions()
	if math.Abs(left+right-300) > tol {
		t.Errorf("reactions sum to %.6f kN, want 300", left+right)
	}
	// Moments about the left support at 1 m: R·24 = 300·(15 − 1)
	if want := 300 * 14.0 / 24; math.Abs(right-want) > tol {
		t.Errorf("right reaction = %.6f kN, want %.6f", right, want)
	}
}

func TestSymmetricConfigurationGivesSymmetricMoments(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	a, err := e.AnalyzeLifting(testKey, NewConfiguration(4.5, 4.5))
	if err != nil {
		t.Fatalf("AnalyzeLifting: %v", err)
	}
	for _, x := range []float64{0, 3, 4.5, 6, 9, 12} {
		l, r := staticMoment(t, a, x), staticMoment(t, a, 30-x)
		if math.Abs(l-r) > tol {
			t.Errorf("M(%.1f) = %.6f, M(%.1f) = %.6f", x, l, 30-x, r)
		}
	}
}

func TestCantileverMomentGrowsTowardSupport(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	a, err := e.AnalyzeLifting(testKey, NewConfiguration(6.5, 6.5))
	if err != nil {
		t.Fatalf("AnalyzeLifting: %v", err)
	}
	prev := math.Inf(1)
	for _, x := range []float64{0, 3, 6, 6.5} {
		m := staticMoment(t, a, x)
		if x > 0 && m >= prev {
			t.Errorf("M(%.1f) = %.4f is not below %.4f", x, m, prev)
		}
		if want := -10 * x * x / 2; math.Abs(m-want) > tol {
			t.Errorf("M(%.1f) = %.6f, want %.6f", x, m, want)
		}
		prev = m
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())
	cfg := NewConfiguration(2.5, 3)

	a1, err := e.AnalyzeHauling(testKey, cfg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	a2, err := e.AnalyzeHauling(testKey, cfg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	s1, s2 := a1.Stresses(), a2.Stresses()
	if len(s1) != len(s2) {
		t.Fatalf("result count %d vs %d", len(s1), len(s2))
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			t.Fatalf("result %d differs: %v vs %v", i, s1[i], s2[i])
		}
	}
	h1, _ := a1.Hauling()
	h2, _ := a2.Hauling()
	if h1 != h2 {
		t.Errorf("factors differ: %+v vs %+v", h1, h2)
	}
	if a1.ID() == a2.ID() {
		t.Error("artifacts share an ID")
	}
}

func TestArtifactAccessorsReturnCopies(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())
	a, err := e.AnalyzeLifting(testKey, NewConfiguration(2, 2))
	if err != nil {
		t.Fatalf("AnalyzeLifting: %v", err)
	}

	s := a.Stresses()
	s[0].Moment = 1e9
	if a.Stresses()[0].Moment == 1e9 {
		t.Error("stress results were modified through an accessor")
	}
	c := a.Checks()
	c[0].Value = -1
	if a.Checks()[0].Value == -1 {
		t.Error("checks were modified through an accessor")
	}
}

func TestDefaultConfigurationUsesRuleOverhang(t *testing.T) {
	rules := criteria.Standard()
	e := engine(t, catalog(t, 30, girderProps()), rules)

	a, err := e.AnalyzeHauling(testKey, DefaultConfiguration())
	if err != nil {
		t.Fatalf("AnalyzeHauling: %v", err)
	}
	cfg := a.Configuration()
	if cfg.UseDefaults || cfg.LeftOverhang != rules.Hauling.DefaultOverhang || cfg.RightOverhang != rules.Hauling.DefaultOverhang {
		t.Errorf("configuration = %+v, want overhangs %.2f", cfg, rules.Hauling.DefaultOverhang)
	}
	if a.Interval() != 1 || a.Concrete().Fc != 45 {
		t.Errorf("interval %d with f'c %.1f, want hauling interval", a.Interval(), a.Concrete().Fc)
	}
}

func TestHaulingUniformImpactCases(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	a, err := e.AnalyzeHauling(testKey, NewConfiguration(2, 2))
	if err != nil {
		t.Fatalf("AnalyzeHauling: %v", err)
	}
	static := staticMoment(t, a, 15)
	var up, down float64
	for _, s := range a.Stresses() {
		if math.Abs(s.POI.Station-15) > 1e-3 {
			continue
		}
		switch s.Case {
		case model.CaseImpactUp:
			up = s.Moment
		case model.CaseImpactDown:
			down = s.Moment
		}
	}
	if math.Abs(up-0.8*static) > tol || math.Abs(down-1.2*static) > tol {
		t.Errorf("impact moments %.4f / %.4f, want %.4f / %.4f", up, down, 0.8*static, 1.2*static)
	}

	f, ok := a.Hauling()
	if !ok {
		t.Fatal("hauling factors missing")
	}
	if !f.Stable || f.FSRollover <= 0 || math.IsInf(f.FSRollover, 0) {
		t.Errorf("rollover factor %.4f (stable %t)", f.FSRollover, f.Stable)
	}
	if f.FSFailure > f.FSRollover {
		t.Errorf("failure factor %.4f exceeds rollover factor %.4f", f.FSFailure, f.FSRollover)
	}
	if len(a.Checks()) != 3 {
		t.Errorf("got %d hauling checks, want 3", len(a.Checks()))
	}
}

func TestHaulingRegionalDynamicFactors(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Regional())

	a, err := e.AnalyzeHauling(testKey, NewConfiguration(4, 4))
	if err != nil {
		t.Fatalf("AnalyzeHauling: %v", err)
	}
	for _, s := range a.StressesFor(model.CaseDynamic) {
		static := staticMoment(t, a, s.POI.Station)
		want := static
		if s.Region == model.RegionOverhang {
			want = 1.5 * static
		}
		if math.Abs(s.Moment-want) > tol {
			t.Errorf("%s (%s): dynamic %.4f, want %.4f", s.POI, s.Region, s.Moment, want)
		}
	}
	f, _ := a.Hauling()
	if f.WindMoment <= 0 {
		t.Errorf("wind moment %.4f, want positive", f.WindMoment)
	}
}

func TestUnstableEquilibriumIsReported(t *testing.T) {
	props := girderProps()
	props.Iy = 1e-5
	e := engine(t, catalog(t, 30, props), criteria.Standard())

	a, err := e.AnalyzeLifting(testKey, NewConfiguration(2, 2))
	if err != nil {
		t.Fatalf("AnalyzeLifting: %v", err)
	}
	f, _ := a.Lifting()
	if f.Stable || f.FSCracking != 0 || !math.IsInf(f.EquilibriumTilt, 1) {
		t.Errorf("factors %+v, want unstable with zero cracking factor", f)
	}
	if len(a.Warnings()) == 0 {
		t.Error("no warning for unstable equilibrium")
	}
	if g := a.Governing(); !g.Unstable || g.Found {
		t.Errorf("governing %+v, want unstable", g)
	}
	if got := a.ControllingSection(); !strings.Contains(got, "unstable") {
		t.Errorf("controlling section %q does not name the unstable equilibrium", got)
	}
	if a.Passed() {
		t.Error("unstable segment passed")
	}
}

func TestPrestressReducesBottomTension(t *testing.T) {
	plain := catalog(t, 30, girderProps())
	a0, err := engine(t, plain, criteria.Standard()).AnalyzeLifting(testKey, NewConfiguration(2, 2))
	if err != nil {
		t.Fatalf("plain: %v", err)
	}

	props := girderProps()
	def := &segment.Definition{
		Key: testKey, Length: 30, UnitWeight: 10,
		Intervals: []segment.Interval{{Name: "release", Fc: 35, Ec: 30000}},
		Regions: []segment.Region{{
			Start: 0, End: 30, Properties: &props,
			PrestressForce: 2000, PrestressEccentricity: 0.5,
		}},
		TenthPoints: true,
	}
	if err := def.Prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	cat, err := segment.NewCatalog(def)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	a1, err := engine(t, cat, criteria.Standard()).AnalyzeLifting(testKey, NewConfiguration(2, 2))
	if err != nil {
		t.Fatalf("prestressed: %v", err)
	}

	// -P/A - P·e·yb/I = -2000 - 1800 kN/m² at the bottom
	shift := -3.8
	b0 := a0.StressesFor(model.CaseStatic)
	b1 := a1.StressesFor(model.CaseStatic)
	for i := range b0 {
		if math.Abs(b1[i].Bottom-b0[i].Bottom-shift) > tol {
			t.Errorf("%s: bottom %.4f, want %.4f", b1[i].POI, b1[i].Bottom, b0[i].Bottom+shift)
		}
	}
}

type noConcrete struct{}

func (noConcrete) ConcreteProperties(segment.Key, segment.IntervalIndex) (segment.ConcreteProperties, error) {
	return segment.ConcreteProperties{}, nil
}

func TestMissingConcreteIsIncompleteInput(t *testing.T) {
	cat := catalog(t, 30, girderProps())
	p := cat.Providers()
	p.Materials = noConcrete{}
	e, err := NewEngine(p, criteria.Standard())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	_, err = e.AnalyzeLifting(testKey, NewConfiguration(2, 2))
	if !errors.Is(err, segment.ErrIncompleteInput) {
		t.Fatalf("err = %v, want incomplete input", err)
	}

	// An override supplies what the provider lacks.
	if _, err := e.AnalyzeLifting(testKey, NewConfiguration(2, 2).WithConcrete(35, 30000)); err != nil {
		t.Fatalf("with override: %v", err)
	}
}

func TestInvalidOverhangs(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	for _, cfg := range []Configuration{NewConfiguration(-1, 2), NewConfiguration(2, 15), NewConfiguration(16, 1), NewConfiguration(math.NaN(), 2)} {
		_, err := e.AnalyzeLifting(testKey, cfg)
		if !errors.Is(err, segment.ErrInvalidConfiguration) {
			t.Errorf("%s: err = %v, want invalid configuration", cfg, err)
		}
	}
}

func TestUnknownSegmentIsDataUnavailable(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	_, err := e.AnalyzeHauling(segment.Key{Group: 9}, NewConfiguration(1, 1))
	if !errors.Is(err, segment.ErrDataUnavailable) {
		t.Fatalf("err = %v, want data unavailable", err)
	}
}

func TestNewEngineRejectsMissingProviders(t *testing.T) {
	if _, err := NewEngine(segment.Providers{}, criteria.Standard()); !errors.Is(err, segment.ErrIncompleteInput) {
		t.Errorf("err = %v, want incomplete input", err)
	}
}

func TestEnvelopeSpansImpactCases(t *testing.T) {
	e := engine(t, catalog(t, 30, girderProps()), criteria.Standard())

	a, err := e.AnalyzeHauling(testKey, NewConfiguration(2, 2))
	if err != nil {
		t.Fatalf("AnalyzeHauling: %v", err)
	}
	env := a.Envelope()
	if want := len(a.StressesFor(model.CaseStatic)); len(env) != want {
		t.Fatalf("envelope has %d points, want %d", len(env), want)
	}
	for i := 1; i < len(env); i++ {
		if env[i].POI.Station <= env[i-1].POI.Station {
			t.Fatalf("envelope not ordered by station at %d", i)
		}
	}
	for _, p := range env {
		if math.Abs(p.POI.Station-15) > 1e-3 {
			continue
		}
		if math.Abs(p.MaxMoment-990) > tol || math.Abs(p.MinMoment-660) > tol {
			t.Errorf("midspan moment range [%.6f, %.6f], want [660, 990]", p.MinMoment, p.MaxMoment)
		}
		if p.MaxBottom <= p.MinBottom || p.MaxTop <= p.MinTop {
			t.Errorf("stress ranges are empty: %+v", p)
		}
		return
	}
	t.Fatal("no envelope point at midspan")
}
