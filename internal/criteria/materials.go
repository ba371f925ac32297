package criteria

import "math"

// Code constants for temporary handling checks.

const (
	// Allowable tension during handling, AASHTO LRFD 5.9.2.3.1b (SI form)
	TensionCoefficient          = 0.25 // × √f'ci (MPa), without bonded reinforcement
	TensionMax                  = 1.38 // MPa cap without bonded reinforcement
	TensionCoefficientWithRebar = 0.63 // × √f'ci (MPa), with bonded reinforcement

	// Allowable compression during handling, AASHTO LRFD 5.9.2.3.1a
	CompressionCoefficient = 0.65 // × f'ci

	// Upper bound on the tilt used in the lateral failure check (rad)
	MaxFailureTilt = 0.4

	// Lateral deflection amplification at the failure tilt (Mast)
	FailureAmplification = 2.5

	// Sweep tolerance, 1/16 in per 10 ft of length
	SweepTolerance = 0.0015875 / 3.048
)

// Tension holds the allowable tensile stress rule for one handling stage.
type Tension struct {
	Coefficient          float64 `json:"coefficient"`            // × √f'c
	Max                  float64 `json:"max"`                    // MPa, 0 = uncapped
	CoefficientWithRebar float64 `json:"coefficient_with_rebar"` // × √f'c when bonded reinforcement crosses the face
}

// Allowable returns the allowable tensile stress (MPa) for concrete strength
// fc (MPa) at a face with or without bonded reinforcement.
func (t Tension) Allowable(fc float64, reinforced bool) float64 {
	root := math.Sqrt(fc)
	if reinforced && t.CoefficientWithRebar > 0 {
		return t.CoefficientWithRebar * root
	}
	f := t.Coefficient * root
	if t.Max > 0 {
		f = math.Min(f, t.Max)
	}
	return f
}

// AllowableCompression returns the magnitude of the allowable compressive
// stress (MPa) for concrete strength fc (MPa).
func AllowableCompression(fc float64) float64 {
	return CompressionCoefficient * fc
}

// StandardTension is the allowable tension rule of AASHTO LRFD.
func StandardTension() Tension {
	return Tension{
		Coefficient:          TensionCoefficient,
		Max:                  TensionMax,
		CoefficientWithRebar: TensionCoefficientWithRebar,
	}
}
