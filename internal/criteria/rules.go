package criteria

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Lifting holds the rules for lifting a segment from the casting bed.
type Lifting struct {
	Tension Tension `json:"tension"`

	ImpactUp   float64 `json:"impact_up"`   // fraction of self-weight
	ImpactDown float64 `json:"impact_down"` // fraction of self-weight

	PickPointHeight    float64 `json:"pick_point_height"`   // m above top of girder
	SweepTolerance     float64 `json:"sweep_tolerance"`     // m/m of length
	PlacementTolerance float64 `json:"placement_tolerance"` // m, lateral lift point offset

	MinFSCracking float64 `json:"min_fs_cracking"`
	MinFSFailure  float64 `json:"min_fs_failure"`

	DefaultOverhang float64 `json:"default_overhang"` // m, used when a configuration asks for defaults
}

// RegionalDynamic scales self-weight by separate factors in the overhangs and
// between the bunks.
type RegionalDynamic struct {
	Overhang float64 `json:"overhang"`
	Interior float64 `json:"interior"`
}

// Hauling holds the rules for shipping a segment on a truck.
type Hauling struct {
	Tension Tension `json:"tension"`

	ImpactUp   float64          `json:"impact_up"`
	ImpactDown float64          `json:"impact_down"`
	Regional   *RegionalDynamic `json:"regional,omitempty"` // replaces impact when present

	SweepTolerance     float64 `json:"sweep_tolerance"`
	PlacementTolerance float64 `json:"placement_tolerance"` // m, lateral bunk offset

	RollStiffness        float64 `json:"roll_stiffness"`          // kN·m/rad
	HeightOfRollCenter   float64 `json:"height_of_roll_center"`   // m above roadway
	HeightOfGirderBottom float64 `json:"height_of_girder_bottom"` // m above roadway
	TrackWidth           float64 `json:"track_width"`             // m, center to center of dual tires
	Superelevation       float64 `json:"superelevation"`          // rad (slope)
	WindPressure         float64 `json:"wind_pressure"`           // kPa on the girder side

	MinFSCracking float64 `json:"min_fs_cracking"`
	MinFSRollover float64 `json:"min_fs_rollover"`
	MinFSFailure  float64 `json:"min_fs_failure"`

	DefaultOverhang float64 `json:"default_overhang"`
}

// Rules is one agency rule set.
type Rules struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Lifting     Lifting `json:"lifting"`
	Hauling     Hauling `json:"hauling"`
}

// Standard returns the AASHTO/WSDOT style rules.
func Standard() Rules {
	return Rules{
		Name:        "standard",
		Description: "AASHTO LRFD 5.9.2.3.1 allowable tension, Mast lateral stability (1989, 1993)",
		Lifting: Lifting{
			Tension:            StandardTension(),
			ImpactUp:           0,
			ImpactDown:         0,
			PickPointHeight:    0,
			SweepTolerance:     SweepTolerance,
			PlacementTolerance: 0.00635,
			MinFSCracking:      1.0,
			MinFSFailure:       1.5,
			DefaultOverhang:    1.0,
		},
		Hauling: Hauling{
			Tension:              StandardTension(),
			ImpactUp:             0.2,
			ImpactDown:           0.2,
			SweepTolerance:       2 * SweepTolerance,
			PlacementTolerance:   0.0254,
			RollStiffness:        40000, // per truck, lumped
			HeightOfRollCenter:   0.61,
			HeightOfGirderBottom: 1.83,
			TrackWidth:           1.83,
			Superelevation:       0.06,
			WindPressure:         0,
			MinFSCracking:        1.0,
			MinFSRollover:        1.5,
			MinFSFailure:         1.5,
			DefaultOverhang:      1.5,
		},
	}
}

// Regional returns a rule set with region dependent dynamic factors for
// hauling and side wind on the girder.
func Regional() Rules {
	r := Standard()
	r.Name = "regional"
	r.Description = "standard rules with overhang/interior dynamic factors and wind during hauling"
	r.Hauling.Regional = &RegionalDynamic{Overhang: 1.5, Interior: 1.0}
	r.Hauling.ImpactUp = 0
	r.Hauling.ImpactDown = 0
	r.Hauling.WindPressure = 0.72
	return r
}

// Presets lists the built-in rule sets by name.
var Presets = map[string]func() Rules{
	"standard": Standard,
	"regional": Regional,
}

// PresetNames returns the built-in rule set names in order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve returns a preset by name or loads the rules from a JSON file.
func Resolve(nameOrPath string) (Rules, error) {
	if f, ok := Presets[nameOrPath]; ok {
		return f(), nil
	}
	return LoadFromFile(nameOrPath)
}

// LoadFromFile loads rules from a JSON file. Fields left out keep the
// standard values.
func LoadFromFile(filepath string) (Rules, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return Rules{}, err
	}

	rules := Standard()
	if err := json.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse %s: %w", filepath, err)
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}

	return rules, nil
}

// Validate checks that the rules are usable.
func (r Rules) Validate() error {
	if err := r.Lifting.Validate(); err != nil {
		return fmt.Errorf("rules %q: lifting: %w", r.Name, err)
	}
	if err := r.Hauling.Validate(); err != nil {
		return fmt.Errorf("rules %q: hauling: %w", r.Name, err)
	}
	return nil
}

func (t Tension) validate() error {
	if t.Coefficient <= 0 {
		return &ValidationError{"tension coefficient must be positive"}
	}
	if t.Max < 0 || t.CoefficientWithRebar < 0 {
		return &ValidationError{"tension limits must not be negative"}
	}
	return nil
}

// Validate checks the lifting rules.
func (l Lifting) Validate() error {
	if err := l.Tension.validate(); err != nil {
		return err
	}
	if l.ImpactUp < 0 || l.ImpactUp >= 1 || l.ImpactDown < 0 {
		return &ValidationError{"impact factors must satisfy 0 <= up < 1 and down >= 0"}
	}
	if l.SweepTolerance < 0 || l.PlacementTolerance < 0 || l.PickPointHeight < 0 {
		return &ValidationError{"tolerances and pick point height must not be negative"}
	}
	if l.MinFSCracking <= 0 || l.MinFSFailure <= 0 {
		return &ValidationError{"minimum factors of safety must be positive"}
	}
	if l.DefaultOverhang < 0 {
		return &ValidationError{"default overhang must not be negative"}
	}
	return nil
}

// Validate checks the hauling rules.
func (h Hauling) Validate() error {
	if err := h.Tension.validate(); err != nil {
		return err
	}
	if h.ImpactUp < 0 || h.ImpactUp >= 1 || h.ImpactDown < 0 {
		return &ValidationError{"impact factors must satisfy 0 <= up < 1 and down >= 0"}
	}
	if h.Regional != nil && (h.Regional.Overhang <= 0 || h.Regional.Interior <= 0) {
		return &ValidationError{"regional dynamic factors must be positive"}
	}
	if h.SweepTolerance < 0 || h.PlacementTolerance < 0 || h.WindPressure < 0 {
		return &ValidationError{"tolerances and wind pressure must not be negative"}
	}
	if h.RollStiffness <= 0 || h.TrackWidth <= 0 {
		return &ValidationError{"roll stiffness and track width must be positive"}
	}
	if h.HeightOfRollCenter < 0 || h.HeightOfGirderBottom <= 0 {
		return &ValidationError{"roll center and girder bottom heights are invalid"}
	}
	if h.MinFSCracking <= 0 || h.MinFSRollover <= 0 || h.MinFSFailure <= 0 {
		return &ValidationError{"minimum factors of safety must be positive"}
	}
	if h.DefaultOverhang < 0 {
		return &ValidationError{"default overhang must not be negative"}
	}
	return nil
}

// ValidationError represents an invalid rule set
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
