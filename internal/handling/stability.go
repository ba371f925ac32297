package handling

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gogirder/internal/criteria"
	"github.com/alexiusacademia/gogirder/internal/model"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// Face is a fiber of the section.
type Face string

const (
	FaceTop    Face = "top"
	FaceBottom Face = "bottom"
)

// Governing records where a cracking factor of safety is controlled.
// Found is false when no fiber is in tension. Unstable marks a segment whose
// equilibrium tilt is unbounded, so no fiber was evaluated.
type Governing struct {
	POI       segment.PointOfInterest
	Case      model.LoadCase
	Face      Face
	Stress    float64 // MPa, including lateral bending at the flange tip
	Allowable float64 // MPa
	Found     bool
	Unstable  bool
}

func (g Governing) String() string {
	if g.Unstable {
		return "unstable equilibrium"
	}
	if !g.Found {
		return "no tension"
	}
	return fmt.Sprintf("%s, %s, %s fiber: %.3f MPa (allowable %.3f MPa)", g.POI, g.Case, g.Face, g.Stress, g.Allowable)
}

// LiftingFactors are the lifting factors of safety and the quantities
// they are derived from.
type LiftingFactors struct {
	FSCracking float64
	FSFailure  float64
	Cracking   Governing

	Weight            float64 // kN
	LateralDeflection float64 // zo, m
	RollAxisHeight    float64 // yr, m above the centroid
	Eccentricity      float64 // ei, m
	InitialTilt       float64 // rad
	EquilibriumTilt   float64 // rad, +Inf when unstable
	FailureTilt       float64 // rad
	Stable            bool
}

// HaulingFactors are the hauling factors of safety and the quantities they
// are derived from.
type HaulingFactors struct {
	FSCracking float64
	FSRollover float64
	FSFailure  float64
	Cracking   Governing

	Weight            float64 // kN
	LateralDeflection float64 // zo, m
	Eccentricity      float64 // ei, m
	StabilityRadius   float64 // r = Kθ/W, m
	CentroidHeight    float64 // y, centroid above roll center, m
	WindMoment        float64 // kN·m about the roll center
	EquilibriumTilt   float64 // rad, +Inf when unstable
	RolloverTilt      float64 // rad
	Stable            bool
}

// lateral holds what the stability checks need from the segment.
type lateral struct {
	key      segment.Key
	weight   float64 // kN
	length   float64 // m
	overhang float64 // m, mean of both ends
	ec       float64 // MPa
	mid      segment.SectionProperties
}

// lateralDeflection is the weak axis deflection of the centroid of the
// segment when hung from its supports with the full self-weight acting
// laterally (Mast 1989, eq. 4).
func (l lateral) lateralDeflection(span float64) float64 {
	w := l.weight / l.length
	a := l.overhang
	E := l.ec * 1000
	return w / (12 * E * l.mid.Iy * l.length) *
		(math.Pow(span, 5)/10 - a*a*math.Pow(span, 3) + 3*math.Pow(a, 4)*span + 6*math.Pow(a, 5)/5)
}

// eccentricity is the lateral offset of the centroid of a swept segment from
// the roll axis plus the support placement tolerance.
func (l lateral) eccentricity(span, sweep, placement float64) float64 {
	r := span / l.length
	return sweep*l.length*math.Abs(r*r-1.0/3) + placement
}

// failureTilt is the tilt at which the cracked segment is assumed to lose
// lateral stability (Mast 1993).
func failureTilt(ei, zo float64) float64 {
	if ei <= 0 || zo <= 0 {
		return criteria.MaxFailureTilt
	}
	return math.Min(math.Sqrt(ei/(criteria.FailureAmplification*zo)), criteria.MaxFailureTilt)
}

func (l lateral) check() error {
	switch {
	case l.weight <= 0:
		return fmt.Errorf("self-weight must be positive")
	case l.ec <= 0:
		return fmt.Errorf("modulus of elasticity must be positive")
	}
	return l.mid.Complete()
}

// liftingStability evaluates a segment hung from two lift points.
func liftingStability(l lateral, span float64, rules criteria.Lifting, stresses []StressResult, cr *crackingInput) LiftingFactors {
	f := LiftingFactors{Weight: l.weight}
	f.LateralDeflection = l.lateralDeflection(span)
	f.RollAxisHeight = l.mid.Ytop + rules.PickPointHeight
	f.Eccentricity = l.eccentricity(span, rules.SweepTolerance, rules.PlacementTolerance)

	yr, zo, ei := f.RollAxisHeight, f.LateralDeflection, f.Eccentricity
	f.InitialTilt = ei / yr
	f.Stable = zo < yr
	if f.Stable {
		f.EquilibriumTilt = f.InitialTilt / (1 - zo/yr)
		f.FSCracking, f.Cracking = cr.factor(stresses, f.EquilibriumTilt)
	} else {
		f.EquilibriumTilt = math.Inf(1)
		f.Cracking = Governing{Unstable: true}
	}

	f.FailureTilt = failureTilt(ei, zo)
	zoFail := zo * (1 + criteria.FailureAmplification*f.FailureTilt)
	f.FSFailure = ratio(yr*f.FailureTilt, zoFail*f.FailureTilt+ei)
	return f
}

// haulingStability evaluates a segment on truck bunks with a roll spring.
func haulingStability(l lateral, span float64, rules criteria.Hauling, stresses []StressResult, cr *crackingInput) HaulingFactors {
	f := HaulingFactors{Weight: l.weight}
	W := l.weight
	alpha := rules.Superelevation

	f.LateralDeflection = l.lateralDeflection(span)
	f.Eccentricity = l.eccentricity(span, rules.SweepTolerance, rules.PlacementTolerance)
	f.StabilityRadius = rules.RollStiffness / W
	f.CentroidHeight = rules.HeightOfGirderBottom + l.mid.Ybottom - rules.HeightOfRollCenter
	if rules.WindPressure > 0 {
		arm := rules.HeightOfGirderBottom + l.mid.Height/2 - rules.HeightOfRollCenter
		f.WindMoment = rules.WindPressure * l.mid.Height * l.length * arm
	}

	r, y, zo, ei, mw := f.StabilityRadius, f.CentroidHeight, f.LateralDeflection, f.Eccentricity, f.WindMoment
	denom := r - y - zo
	f.Stable = denom > 0
	if f.Stable {
		f.EquilibriumTilt = (r*alpha + ei + mw/W) / denom
		f.FSCracking, f.Cracking = cr.factor(stresses, f.EquilibriumTilt)
	} else {
		f.EquilibriumTilt = math.Inf(1)
		f.Cracking = Governing{Unstable: true}
	}

	f.RolloverTilt = (rules.TrackWidth/2-rules.HeightOfRollCenter*alpha)/r + alpha
	theta := f.RolloverTilt
	resist := W * r * (theta - alpha)
	f.FSRollover = math.Max(0, ratio(resist, W*(zo*theta+ei+y*theta)+mw))

	zoFail := zo * (1 + criteria.FailureAmplification*theta)
	f.FSFailure = math.Max(0, ratio(resist, W*(zoFail*theta+ei+y*theta)+mw))
	return f
}

// crackingInput supplies section data and allowable stresses per point.
type crackingInput struct {
	tension criteria.Tension
	fc      float64
	props   map[int]segment.SectionProperties // by POI ID
}

// factor returns allowable/tension at the most critical fiber, with the
// lateral bending from tilt added at the flange tips. Without tension the
// factor is +Inf.
func (c *crackingInput) factor(stresses []StressResult, tilt float64) (float64, Governing) {
	fs := math.Inf(1)
	var gov Governing
	for _, s := range stresses {
		p := c.props[s.POI.ID]
		latTop := math.Abs(tilt*s.Moment) * p.TopWidth / 2 / p.Iy / 1000
		latBottom := math.Abs(tilt*s.Moment) * p.BottomWidth / 2 / p.Iy / 1000

		faces := [...]struct {
			face       Face
			stress     float64
			reinforced bool
		}{
			{FaceTop, s.Top + latTop, p.TopReinforced},
			{FaceBottom, s.Bottom + latBottom, p.BottomReinforced},
		}
		for _, f := range faces {
			if f.stress <= 0 {
				continue
			}
			allow := c.tension.Allowable(c.fc, f.reinforced)
			if v := allow / f.stress; v < fs {
				fs = v
				gov = Governing{POI: s.POI, Case: s.Case, Face: f.face, Stress: f.stress, Allowable: allow, Found: true}
			}
		}
	}
	return fs, gov
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return math.Inf(1)
	}
	return num / den
}
