package handling

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gogirder/internal/fem"
	"github.com/alexiusacademia/gogirder/internal/model"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// StressResult is the moment and fiber stresses at one point for one load case.
// Stresses are in MPa, tension positive; moment in kN·m, sagging positive.
type StressResult struct {
	POI    segment.PointOfInterest
	Case   model.LoadCase
	Region model.Region
	Moment float64
	Top    float64
	Bottom float64
}

// Evaluation is the solved response of one beam model.
type Evaluation struct {
	Stresses []StressResult

	// Static self-weight reactions at the left and right supports (kN)
	LeftReaction, RightReaction float64

	// Largest static vertical deflection magnitude at any node (m)
	MaxDeflection float64
}

// Evaluator solves a beam model once and converts the self-weight moments
// into stresses for every load case of a scaling policy.
type Evaluator struct {
	Solver   fem.Solver
	Sections segment.SectionProvider
}

// NewEvaluator returns an evaluator using the given solver and section data.
func NewEvaluator(solver fem.Solver, sections segment.SectionProvider) *Evaluator {
	return &Evaluator{Solver: solver, Sections: sections}
}

// Evaluate returns stress results ordered by point then load case, with the
// static support reactions and deflection.
func (e *Evaluator) Evaluate(m *model.BeamModel, policy model.LoadScaling) (*Evaluation, error) {
	const op = "evaluate stresses"

	sol, err := e.Solver.Solve(m.FEM)
	if err != nil {
		return nil, segment.New(segment.KindInternalInvariantViolation, m.Key, "beam model could not be solved").Wrap(err).In(op)
	}

	cases := policy.Cases()
	results := make([]StressResult, 0, m.Arena.Len()*len(cases))
	for _, poi := range m.Arena.Points() {
		if poi.Station < 0 || poi.Station > m.Length {
			return nil, segment.Errorf(segment.KindOutOfRange, m.Key, "no stress is defined outside [0, %.4f] m", m.Length).At(poi.Station).In(op)
		}
		addr, err := m.Mapper.Address(poi)
		if err != nil {
			return nil, err
		}
		m0, err := sol.Moment(model.SelfWeight, addr.Member, addr.Distance)
		if err != nil {
			return nil, segment.New(segment.KindInternalInvariantViolation, m.Key, "moment lookup").At(poi.Station).Wrap(err).In(op)
		}
		props, err := e.Sections.SectionProperties(m.Key, m.Interval, poi.Station)
		if err != nil {
			if segment.KindOf(err) != 0 {
				return nil, err
			}
			return nil, segment.New(segment.KindDataUnavailable, m.Key, "").At(poi.Station).Wrap(err).In(op)
		}
		if err := props.Complete(); err != nil {
			return nil, segment.New(segment.KindIncompleteInput, m.Key, "section properties").At(poi.Station).Wrap(err).In(op)
		}

		region := m.RegionOf(poi.Station)
		for _, c := range cases {
			mo := policy.Factor(c, region) * m0
			top, bottom := FiberStresses(props, mo)
			results = append(results, StressResult{
				POI:    poi,
				Case:   c,
				Region: region,
				Moment: mo,
				Top:    top,
				Bottom: bottom,
			})
		}
	}

	ev := &Evaluation{Stresses: results}
	if ev.LeftReaction, err = sol.Reaction(model.SelfWeight, m.LeftNode); err != nil {
		return nil, segment.New(segment.KindInternalInvariantViolation, m.Key, "support reaction").Wrap(err).In(op)
	}
	if ev.RightReaction, err = sol.Reaction(model.SelfWeight, m.RightNode); err != nil {
		return nil, segment.New(segment.KindInternalInvariantViolation, m.Key, "support reaction").Wrap(err).In(op)
	}
	for n := range m.FEM.Nodes {
		v, err := sol.Deflection(model.SelfWeight, n)
		if err != nil {
			return nil, segment.New(segment.KindInternalInvariantViolation, m.Key, "deflection").Wrap(err).In(op)
		}
		ev.MaxDeflection = math.Max(ev.MaxDeflection, math.Abs(v))
	}
	return ev, nil
}

// FiberStresses returns top and bottom stresses (MPa, tension positive) for
// moment M (kN·m) acting with the prestress recorded in props.
func FiberStresses(props segment.SectionProperties, M float64) (top, bottom float64) {
	P, e := props.PrestressForce, props.PrestressEccentricity
	axial := -P / props.Area
	top = axial + P*e*props.Ytop/props.Ix - M*props.Ytop/props.Ix
	bottom = axial - P*e*props.Ybottom/props.Ix + M*props.Ybottom/props.Ix
	return top / 1000, bottom / 1000
}

func (r StressResult) String() string {
	return fmt.Sprintf("%s %s: M=%.2f kN·m, top %.3f MPa, bottom %.3f MPa", r.POI, r.Case, r.Moment, r.Top, r.Bottom)
}
