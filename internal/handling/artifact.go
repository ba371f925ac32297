package handling

import (
	"github.com/google/uuid"

	"github.com/alexiusacademia/gogirder/internal/model"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// Artifact is the result of one handling analysis. It is immutable once
// returned; accessors return copies.
type Artifact struct {
	id       uuid.UUID
	mode     Mode
	key      segment.Key
	interval segment.IntervalIndex
	config   Configuration
	concrete segment.ConcreteProperties
	length   float64
	policy   string

	stresses []StressResult
	lifting  *LiftingFactors
	hauling  *HaulingFactors
	checks   []Check

	reactions  [2]float64
	deflection float64

	controlling string
	warnings    []string
}

func (a *Artifact) ID() uuid.UUID { return a.id }
func (a *Artifact) Mode() Mode { return a.mode }
func (a *Artifact) Key() segment.Key { return a.key }
func (a *Artifact) Interval() segment.IntervalIndex { return a.interval }
func (a *Artifact) Configuration() Configuration { return a.config }
func (a *Artifact) Concrete() segment.ConcreteProperties { return a.concrete }
func (a *Artifact) Length() float64 { return a.length }
func (a *Artifact) Policy() string { return a.policy }

// SupportReactions returns the static self-weight reactions (kN) at the left
// and right supports.
func (a *Artifact) SupportReactions() (left, right float64) { return a.reactions[0], a.reactions[1] }

// MaxDeflection returns the largest static vertical deflection (m).
func (a *Artifact) MaxDeflection() float64 { return a.deflection }

// ControllingSection describes the fiber that governs cracking.
func (a *Artifact) ControllingSection() string { return a.controlling }

// Stresses returns the stress results ordered by point then load case.
func (a *Artifact) Stresses() []StressResult {
	return append([]StressResult(nil), a.stresses...)
}

// Warnings returns diagnostics recorded during the analysis.
func (a *Artifact) Warnings() []string {
	return append([]string(nil), a.warnings...)
}

// Lifting returns the lifting factors; ok is false for hauling artifacts.
func (a *Artifact) Lifting() (f LiftingFactors, ok bool) {
	if a.lifting == nil {
		return f, false
	}
	return *a.lifting, true
}

// Hauling returns the hauling factors; ok is false for lifting artifacts.
func (a *Artifact) Hauling() (f HaulingFactors, ok bool) {
	if a.hauling == nil {
		return f, false
	}
	return *a.hauling, true
}

// Governing returns the controlling cracking location.
func (a *Artifact) Governing() Governing {
	if a.lifting != nil {
		return a.lifting.Cracking
	}
	if a.hauling != nil {
		return a.hauling.Cracking
	}
	return Governing{}
}

// Envelope returns the extreme moment and stresses over all load cases at
// each point, ordered by station.
func (a *Artifact) Envelope() []EnvelopePoint {
	var env []EnvelopePoint
	for _, s := range a.stresses {
		n := len(env)
		if n == 0 || env[n-1].POI.ID != s.POI.ID {
			env = append(env, EnvelopePoint{
				POI:       s.POI,
				MinMoment: s.Moment, MaxMoment: s.Moment,
				MinTop: s.Top, MaxTop: s.Top,
				MinBottom: s.Bottom, MaxBottom: s.Bottom,
			})
			continue
		}
		e := &env[n-1]
		e.MinMoment, e.MaxMoment = min(e.MinMoment, s.Moment), max(e.MaxMoment, s.Moment)
		e.MinTop, e.MaxTop = min(e.MinTop, s.Top), max(e.MaxTop, s.Top)
		e.MinBottom, e.MaxBottom = min(e.MinBottom, s.Bottom), max(e.MaxBottom, s.Bottom)
	}
	return env
}

// EnvelopePoint is the range of results at one point.
type EnvelopePoint struct {
	POI                  segment.PointOfInterest
	MinMoment, MaxMoment float64
	MinTop, MaxTop       float64
	MinBottom, MaxBottom float64
}

// Checks returns the factor of safety checks against the rule minimums.
func (a *Artifact) Checks() []Check {
	return append([]Check(nil), a.checks...)
}

// Passed reports whether every check is satisfied.
func (a *Artifact) Passed() bool {
	for _, c := range a.checks {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// StressesFor returns the results of one load case.
func (a *Artifact) StressesFor(c model.LoadCase) []StressResult {
	var out []StressResult
	for _, s := range a.stresses {
		if s.Case == c {
			out = append(out, s)
		}
	}
	return out
}
