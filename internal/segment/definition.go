package segment

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/alexiusacademia/gogirder/internal/section"
)

// stationTolerance is the distance below which two stations are the same (m).
const stationTolerance = 1e-6

// Definition describes one precast segment in a JSON file.
//
// Example:
//
//	{
//	  "name": "W74G span 1",
//	  "key": {"group": 0, "girder": 1, "segment": 0},
//	  "length": 30,
//	  "unit_weight": 24.5,
//	  "intervals": [{"name": "release", "fc": 28, "ec": 25000}, {"name": "hauling", "fc": 40, "ec": 30000}],
//	  "lifting_interval": 0,
//	  "hauling_interval": 1,
//	  "regions": [{"start": 0, "end": 30, "shape": {"vertices": [...]}, "prestress_force": 4000, "prestress_eccentricity": 0.5}],
//	  "harp_points": [12, 18],
//	  "tenth_points": true
//	}
type Definition struct {
	Name       string  `json:"name"`
	Key        Key     `json:"key"`
	Length     float64 `json:"length"`      // m
	UnitWeight float64 `json:"unit_weight"` // kN/m³, including reinforcement

	Intervals       []Interval    `json:"intervals"`
	LiftingInterval IntervalIndex `json:"lifting_interval"`
	HaulingInterval IntervalIndex `json:"hauling_interval"`

	Regions []Region `json:"regions"`

	HarpPoints       []float64       `json:"harp_points,omitempty"`
	PointsOfInterest []POIDefinition `json:"points_of_interest,omitempty"`
	TenthPoints      bool            `json:"tenth_points,omitempty"`

	props []SectionProperties
	pois  []PointOfInterest
}

// Interval holds the concrete properties of one construction stage.
type Interval struct {
	Name string  `json:"name"`
	Fc   float64 `json:"fc"` // MPa
	Ec   float64 `json:"ec"` // MPa
}

// Region is a stretch of the segment with constant section properties.
// Either Shape or Properties must be given.
type Region struct {
	Start      float64             `json:"start"`
	End        float64             `json:"end"`
	Shape      *section.Shape      `json:"shape,omitempty"`
	Properties *ExplicitProperties `json:"properties,omitempty"`

	PrestressForce        float64 `json:"prestress_force,omitempty"`        // kN
	PrestressEccentricity float64 `json:"prestress_eccentricity,omitempty"` // m below centroid

	TopReinforced    bool `json:"top_reinforced,omitempty"`
	BottomReinforced bool `json:"bottom_reinforced,omitempty"`
}

// ExplicitProperties gives section properties directly instead of a shape.
type ExplicitProperties struct {
	Area        float64 `json:"area"`
	Ix          float64 `json:"ix"`
	Iy          float64 `json:"iy"`
	Ytop        float64 `json:"ytop"`
	Ybottom     float64 `json:"ybottom"`
	TopWidth    float64 `json:"top_width"`
	BottomWidth float64 `json:"bottom_width"`
}

// POIDefinition is a user supplied point of interest.
type POIDefinition struct {
	Station    float64  `json:"station"`
	Attributes []string `json:"attributes,omitempty"`
}

// LoadFromFile loads and prepares a segment definition from a JSON file
func LoadFromFile(filepath string) (*Definition, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath, err)
	}

	if err := def.Prepare(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Prepare validates the definition and computes region properties and points
// of interest. It must be called before the definition serves any request.
func (d *Definition) Prepare() error {
	if d.Length <= 0 {
		return &DefinitionError{d.Key, "length must be positive"}
	}
	if d.UnitWeight <= 0 {
		return &DefinitionError{d.Key, "unit weight must be positive"}
	}
	if len(d.Intervals) == 0 {
		return &DefinitionError{d.Key, "at least one interval is required"}
	}
	for i, iv := range d.Intervals {
		if iv.Fc <= 0 || iv.Ec <= 0 {
			return &DefinitionError{d.Key, fmt.Sprintf("interval %d (%s) needs positive fc and ec", i, iv.Name)}
		}
	}
	for _, idx := range []IntervalIndex{d.LiftingInterval, d.HaulingInterval} {
		if int(idx) < 0 || int(idx) >= len(d.Intervals) {
			return &DefinitionError{d.Key, fmt.Sprintf("interval index %d out of range", idx)}
		}
	}
	if err := d.prepareRegions(); err != nil {
		return err
	}
	return d.preparePointsOfInterest()
}

func (d *Definition) prepareRegions() error {
	if len(d.Regions) == 0 {
		return &DefinitionError{d.Key, "at least one region is required"}
	}
	sort.SliceStable(d.Regions, func(i, j int) bool { return d.Regions[i].Start < d.Regions[j].Start })

	d.props = make([]SectionProperties, len(d.Regions))
	prevEnd := 0.0
	for i, r := range d.Regions {
		if math.Abs(r.Start-prevEnd) > stationTolerance {
			return &DefinitionError{d.Key, fmt.Sprintf("region %d starts at %.4f m, expected %.4f m", i, r.Start, prevEnd)}
		}
		if r.End <= r.Start {
			return &DefinitionError{d.Key, fmt.Sprintf("region %d has non-positive length", i)}
		}
		p, err := d.regionProperties(r)
		if err != nil {
			return &DefinitionError{d.Key, fmt.Sprintf("region %d: %v", i, err)}
		}
		d.props[i] = p
		prevEnd = r.End
	}
	if math.Abs(prevEnd-d.Length) > stationTolerance {
		return &DefinitionError{d.Key, fmt.Sprintf("regions end at %.4f m, segment length is %.4f m", prevEnd, d.Length)}
	}
	return nil
}

func (d *Definition) regionProperties(r Region) (SectionProperties, error) {
	var p SectionProperties
	switch {
	case r.Shape != nil:
		if err := r.Shape.Validate(); err != nil {
			return p, err
		}
		gp := r.Shape.CalculateProperties()
		p = SectionProperties{
			Area:        gp.Area,
			Ix:          gp.Ix,
			Iy:          gp.Iy,
			Ytop:        gp.Ytop,
			Ybottom:     gp.Ybottom,
			Height:      gp.Height,
			TopWidth:    gp.TopWidth,
			BottomWidth: gp.BottomWidth,
		}
	case r.Properties != nil:
		e := r.Properties
		p = SectionProperties{
			Area:        e.Area,
			Ix:          e.Ix,
			Iy:          e.Iy,
			Ytop:        e.Ytop,
			Ybottom:     e.Ybottom,
			Height:      e.Ytop + e.Ybottom,
			TopWidth:    e.TopWidth,
			BottomWidth: e.BottomWidth,
		}
	default:
		return p, fmt.Errorf("either shape or properties is required")
	}
	p.UnitWeight = d.UnitWeight
	p.PrestressForce = r.PrestressForce
	p.PrestressEccentricity = r.PrestressEccentricity
	p.TopReinforced = r.TopReinforced
	p.BottomReinforced = r.BottomReinforced
	return p, p.Complete()
}

func (d *Definition) preparePointsOfInterest() error {
	var pois []PointOfInterest
	add := func(station float64, attr Attribute) {
		pois = append(pois, PointOfInterest{Segment: d.Key, Station: station, Attributes: attr})
	}

	add(0, 0)
	add(d.Length, 0)
	if d.TenthPoints {
		for i := 1; i < 10; i++ {
			add(d.Length*float64(i)/10, AttrTenthPoint)
		}
	}
	for _, x := range d.HarpPoints {
		add(x, AttrHarpPoint)
	}
	for _, x := range d.transitions() {
		add(x, AttrSectionTransition)
	}
	for _, pd := range d.PointsOfInterest {
		attr := AttrUserDefined
		for _, name := range pd.Attributes {
			a, err := ParseAttribute(name)
			if err != nil {
				return &DefinitionError{d.Key, err.Error()}
			}
			attr |= a
		}
		add(pd.Station, attr)
	}

	for i, p := range pois {
		if p.Station < -stationTolerance || p.Station > d.Length+stationTolerance {
			return &DefinitionError{d.Key, fmt.Sprintf("point of interest at %.4f m lies outside the segment", p.Station)}
		}
		// Stations within tolerance of an end snap onto it
		pois[i].Station = math.Min(math.Max(p.Station, 0), d.Length)
	}

	sort.SliceStable(pois, func(i, j int) bool { return pois[i].Station < pois[j].Station })

	// Merge coincident stations, keeping the union of their attributes
	merged := pois[:0]
	for _, p := range pois {
		if n := len(merged); n > 0 && math.Abs(merged[n-1].Station-p.Station) <= stationTolerance {
			merged[n-1].Attributes |= p.Attributes
			continue
		}
		merged = append(merged, p)
	}
	d.pois = merged
	return nil
}

func (d *Definition) transitions() []float64 {
	var xs []float64
	for i := 1; i < len(d.Regions); i++ {
		xs = append(xs, d.Regions[i].Start)
	}
	return xs
}

// regionAt returns the region index governing the station. At a transition the
// region ahead of the station governs.
func (d *Definition) regionAt(station float64) int {
	i := sort.Search(len(d.Regions), func(i int) bool { return d.Regions[i].End > station+stationTolerance })
	if i == len(d.Regions) {
		return len(d.Regions) - 1
	}
	return i
}

// DefinitionError reports an invalid segment definition
type DefinitionError struct {
	Key Key
	msg string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("segment %s: %s", e.Key, e.msg)
}
