package model

import "fmt"

// Region classifies a station relative to the supports.
type Region int

const (
	RegionInterior Region = iota // between the supports, supports included
	RegionOverhang               // on a cantilever beyond a support
)

func (r Region) String() string {
	if r == RegionOverhang {
		return "overhang"
	}
	return "interior"
}

// LoadCase names one scaling of the self-weight solution.
type LoadCase string

const (
	CaseStatic     LoadCase = "Static"
	CaseImpactUp   LoadCase = "ImpactUp"
	CaseImpactDown LoadCase = "ImpactDown"
	CaseDynamic    LoadCase = "Dynamic"
)

// LoadScaling turns the single self-weight solution into the handling load
// cases. The elastic model is linear, so scaling moments after the solve is
// equivalent to scaling the load.
type LoadScaling interface {
	Name() string
	Cases() []LoadCase
	Factor(c LoadCase, r Region) float64
}

// UniformImpact applies 1-Up and 1+Down to the whole segment.
type UniformImpact struct {
	Up   float64
	Down float64
}

func (u UniformImpact) Name() string {
	return fmt.Sprintf("uniform impact (-%.0f%%/+%.0f%%)", u.Up*100, u.Down*100)
}

func (u UniformImpact) Cases() []LoadCase {
	cases := []LoadCase{CaseStatic}
	if u.Up != 0 {
		cases = append(cases, CaseImpactUp)
	}
	if u.Down != 0 {
		cases = append(cases, CaseImpactDown)
	}
	return cases
}

func (u UniformImpact) Factor(c LoadCase, _ Region) float64 {
	switch c {
	case CaseImpactUp:
		return 1 - u.Up
	case CaseImpactDown:
		return 1 + u.Down
	}
	return 1
}

// RegionalImpact scales overhang and interior moments by separate dynamic
// factors in addition to the static case.
type RegionalImpact struct {
	Overhang float64
	Interior float64
}

func (r RegionalImpact) Name() string {
	return fmt.Sprintf("regional dynamic (overhang %.2f, interior %.2f)", r.Overhang, r.Interior)
}

func (r RegionalImpact) Cases() []LoadCase {
	return []LoadCase{CaseStatic, CaseDynamic}
}

func (r RegionalImpact) Factor(c LoadCase, region Region) float64 {
	if c != CaseDynamic {
		return 1
	}
	if region == RegionOverhang {
		return r.Overhang
	}
	return r.Interior
}
