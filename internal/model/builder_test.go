package model

import (
	"errors"
	"math"
	"testing"

	"github.com/alexiusacademia/gogirder/internal/fem"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

func prismatic(t *testing.T, length, w float64, regions ...float64) *segment.Catalog {
	t.Helper()
	def := &segment.Definition{
		Key:         segment.Key{Group: 1, Girder: 2, Segment: 0},
		Length:      length,
		UnitWeight:  w,
		Intervals:   []segment.Interval{{Name: "release", Fc: 35, Ec: 30000}},
		TenthPoints: true,
	}
	bounds := append([]float64{0}, regions...)
	bounds = append(bounds, length)
	for i := 0; i+1 < len(bounds); i++ {
		def.Regions = append(def.Regions, segment.Region{
			Start: bounds[i],
			End:   bounds[i+1],
			Properties: &segment.ExplicitProperties{
				Area: 1, Ix: 0.5, Iy: 0.05, Ytop: 0.9, Ybottom: 0.9, TopWidth: 1, BottomWidth: 0.7,
			},
		})
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

func build(t *testing.T, cat *segment.Catalog, sup Supports) *BeamModel {
	t.Helper()
	key := cat.Keys()[0]
	pois, err := cat.PointsOfInterest(key, 0)
	if err != nil {
		t.Fatalf("pois: %v", err)
	}
	m, err := NewBuilder(cat, cat).Build(key, 0, sup, pois, Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func momentAt(t *testing.T, m *BeamModel, sol *fem.Solution, station float64) float64 {
	t.Helper()
	poi, ok := m.Arena.Lookup(station)
	if !ok {
		t.Fatalf("no point of interest at %.3f", station)
	}
	addr, err := m.Mapper.Address(poi)
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	mo, err := sol.Moment(SelfWeight, addr.Member, addr.Distance)
	if err != nil {
		t.Fatalf("moment: %v", err)
	}
	return mo
}

func TestBuildZeroOverhangIsSimpleSpan(t *testing.T) {
	cat := prismatic(t, 30, 10)
	m := build(t, cat, Supports{})

	if m.LeftNode != 0 || m.RightNode != len(m.FEM.Nodes)-1 {
		t.Fatalf("supports at nodes %d and %d, want ends", m.LeftNode, m.RightNode)
	}
	sol, err := fem.NewStiffness().Solve(m.FEM)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if mid := momentAt(t, m, sol, 15); math.Abs(mid-10*30*30/8.0) > 1e-6 {
		t.Fatalf("midspan moment = %.6f, want 1125", mid)
	}
	if w := m.Weight(); math.Abs(w-300) > 1e-9 {
		t.Fatalf("weight = %.6f, want 300", w)
	}
}

func TestBuildDiscretizesSupportsAndTransitions(t *testing.T) {
	cat := prismatic(t, 30, 10, 1.25, 28.75)
	m := build(t, cat, Supports{Left: 2, Right: 2})

	for _, x := range []float64{0, 1.25, 2, 28, 28.75, 30} {
		i := nearestNode(m.FEM.Nodes, x)
		if math.Abs(m.FEM.Nodes[i]-x) > 1e-9 {
			t.Fatalf("station %.3f is not a node; nearest %.6f", x, m.FEM.Nodes[i])
		}
	}
	if got := m.FEM.Nodes[m.LeftNode]; got != 2 {
		t.Fatalf("left support node at %.4f, want 2", got)
	}
	if m.RegionOf(1) != RegionOverhang || m.RegionOf(2) != RegionInterior || m.RegionOf(29) != RegionOverhang {
		t.Fatal("region classification is wrong")
	}

	for _, p := range m.Arena.Points() {
		addr, err := m.Mapper.Address(p)
		if err != nil {
			t.Fatalf("poi %v: %v", p, err)
		}
		at := m.FEM.Nodes[addr.Member] + addr.Distance
		if math.Abs(at-p.Station) > 1e-9 {
			t.Fatalf("poi %v maps to %.6f", p, at)
		}
	}
}

func TestBuildRejectsImpossibleSupports(t *testing.T) {
	cat := prismatic(t, 30, 10)
	key := cat.Keys()[0]
	pois, _ := cat.PointsOfInterest(key, 0)

	cases := []Supports{
		{Left: -0.1, Right: 2},
		{Left: 15, Right: 2},
		{Left: 2, Right: 16},
		{Left: math.NaN(), Right: 2},
		{Left: 2, Right: math.Inf(1)},
	}
	for _, sup := range cases {
		_, err := NewBuilder(cat, cat).Build(key, 0, sup, pois, Options{})
		if !errors.Is(err, segment.ErrInvalidConfiguration) {
			t.Fatalf("supports %+v: expected invalid configuration, got %v", sup, err)
		}
	}
}

func TestBuildRejectsPointOutsideSegment(t *testing.T) {
	cat := prismatic(t, 30, 10)
	key := cat.Keys()[0]
	pois := []segment.PointOfInterest{{Segment: key, Station: 31}}

	_, err := NewBuilder(cat, cat).Build(key, 0, Supports{Left: 1, Right: 1}, pois, Options{})
	if !errors.Is(err, segment.ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

type missingSections struct{ *segment.Catalog }

func (missingSections) SectionProperties(segment.Key, segment.IntervalIndex, float64) (segment.SectionProperties, error) {
	return segment.SectionProperties{}, errors.New("library entry not found")
}

func TestBuildPropagatesMissingSectionData(t *testing.T) {
	cat := prismatic(t, 30, 10)
	key := cat.Keys()[0]
	pois, _ := cat.PointsOfInterest(key, 0)

	_, err := NewBuilder(missingSections{cat}, cat).Build(key, 0, Supports{Left: 1, Right: 1}, pois, Options{})
	if !errors.Is(err, segment.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
}

func TestMapperRejectsForeignPoint(t *testing.T) {
	cat := prismatic(t, 30, 10)
	m := build(t, cat, Supports{Left: 1, Right: 1})

	_, err := m.Mapper.Address(segment.PointOfInterest{ID: m.Arena.Len() + 3, Station: 7})
	if !errors.Is(err, segment.ErrInternalInvariantViolation) {
		t.Fatalf("expected internal invariant violation, got %v", err)
	}
}

func TestArenaMergesAndLooksUp(t *testing.T) {
	a := NewArena([]segment.PointOfInterest{
		{Station: 10, Attributes: segment.AttrHarpPoint},
		{Station: 0},
		{Station: 10.0004, Attributes: segment.AttrUserDefined},
		{Station: 5},
	})
	if a.Len() != 3 {
		t.Fatalf("len = %d, want 3", a.Len())
	}
	p, ok := a.Lookup(10)
	if !ok {
		t.Fatal("lookup failed")
	}
	if p.ID != 2 || !p.Attributes.Has(segment.AttrHarpPoint|segment.AttrUserDefined) {
		t.Fatalf("unexpected point %+v", p)
	}
	if _, ok := a.Lookup(7); ok {
		t.Fatal("lookup found a point that does not exist")
	}
}

func TestPolicies(t *testing.T) {
	u := UniformImpact{Up: 0.2, Down: 0.3}
	if got := len(u.Cases()); got != 3 {
		t.Fatalf("uniform cases = %d, want 3", got)
	}
	if f := u.Factor(CaseImpactDown, RegionOverhang); math.Abs(f-1.3) > 1e-12 {
		t.Fatalf("impact down factor = %v", f)
	}
	if got := len(UniformImpact{}.Cases()); got != 1 {
		t.Fatalf("no impact should give only the static case, got %d", got)
	}

	r := RegionalImpact{Overhang: 1.5, Interior: 1.1}
	if f := r.Factor(CaseDynamic, RegionOverhang); f != 1.5 {
		t.Fatalf("overhang factor = %v", f)
	}
	if f := r.Factor(CaseDynamic, RegionInterior); f != 1.1 {
		t.Fatalf("interior factor = %v", f)
	}
	if f := r.Factor(CaseStatic, RegionOverhang); f != 1 {
		t.Fatalf("static factor = %v", f)
	}
}
