package segment

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies a precast segment: group, girder line, and segment index
// within the girder line.
type Key struct {
	Group   int `json:"group"`
	Girder  int `json:"girder"`
	Segment int `json:"segment"`
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Group, k.Girder, k.Segment)
}

// ParseKey parses a key written as "group/girder/segment".
func ParseKey(s string) (Key, error) {
	var k Key
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return k, fmt.Errorf("invalid segment key %q: expected group/girder/segment", s)
	}
	var ids [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return k, fmt.Errorf("invalid segment key %q: %w", s, err)
		}
		ids[i] = n
	}
	k.Group, k.Girder, k.Segment = ids[0], ids[1], ids[2]
	return k, nil
}

// IntervalIndex identifies the construction stage whose material strengths
// and section properties apply.
type IntervalIndex int

// Attribute tags a point of interest. Attributes combine as a bit set.
type Attribute uint32

const (
	AttrHarpPoint Attribute = 1 << iota
	AttrSupport
	AttrSectionTransition
	AttrUserDefined
	AttrTenthPoint
)

var attributeNames = []struct {
	attr Attribute
	name string
}{
	{AttrHarpPoint, "harp"},
	{AttrSupport, "support"},
	{AttrSectionTransition, "transition"},
	{AttrUserDefined, "user"},
	{AttrTenthPoint, "tenth"},
}

// Has reports whether every bit of mask is set.
func (a Attribute) Has(mask Attribute) bool {
	return a&mask == mask
}

func (a Attribute) String() string {
	var names []string
	for _, an := range attributeNames {
		if a&an.attr != 0 {
			names = append(names, an.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseAttribute converts a name such as "harp" into its attribute bit.
func ParseAttribute(name string) (Attribute, error) {
	for _, an := range attributeNames {
		if an.name == name {
			return an.attr, nil
		}
	}
	return 0, fmt.Errorf("unknown point of interest attribute %q", name)
}

// PointOfInterest is a station along the segment at which results are reported.
// ID is assigned per analysis by the model arena; providers leave it zero.
type PointOfInterest struct {
	ID         int       `json:"-"`
	Segment    Key       `json:"-"`
	Station    float64   `json:"station"` // m from segment start
	Attributes Attribute `json:"-"`
}

func (p PointOfInterest) String() string {
	if p.Attributes == 0 {
		return fmt.Sprintf("POI %d @ %.3f m", p.ID, p.Station)
	}
	return fmt.Sprintf("POI %d @ %.3f m (%s)", p.ID, p.Station, p.Attributes)
}

// SectionProperties holds the gross section data at one station.
// Lengths in m, inertia in m⁴, unit weight in kN/m³, prestress force in kN.
type SectionProperties struct {
	Area        float64 // Ag
	Ix          float64 // strong axis moment of inertia
	Iy          float64 // weak axis moment of inertia
	Ytop        float64 // centroid to top fiber
	Ybottom     float64 // centroid to bottom fiber
	Height      float64
	TopWidth    float64
	BottomWidth float64
	UnitWeight  float64

	// Prestress at the station; eccentricity is positive below the centroid.
	PrestressForce        float64
	PrestressEccentricity float64

	// Bonded reinforcement crossing each face raises the allowable tension.
	TopReinforced    bool
	BottomReinforced bool
}

// WeightPerLength returns the self-weight intensity in kN/m.
func (p SectionProperties) WeightPerLength() float64 {
	return p.UnitWeight * p.Area
}

// Complete reports which required property is missing, if any.
func (p SectionProperties) Complete() error {
	switch {
	case p.Area <= 0:
		return fmt.Errorf("area must be positive")
	case p.Ix <= 0:
		return fmt.Errorf("strong axis inertia must be positive")
	case p.Iy <= 0:
		return fmt.Errorf("weak axis inertia must be positive")
	case p.Ytop <= 0 || p.Ybottom <= 0:
		return fmt.Errorf("centroid distances must be positive")
	case p.UnitWeight <= 0:
		return fmt.Errorf("unit weight must be positive")
	}
	return nil
}

// ConcreteProperties holds concrete strength and modulus in MPa for an interval.
type ConcreteProperties struct {
	Fc float64 `json:"fc"` // f'c, or f'ci at release
	Ec float64 `json:"ec"`
}
