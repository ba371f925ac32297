package model

import (
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// Address locates a point in the mechanical model.
type Address struct {
	Member   int
	Distance float64 // m from member start
	Node     int
}

// Mapper associates arena points with model addresses. It is filled once by
// the builder and never extended afterwards.
type Mapper struct {
	key     segment.Key
	toModel []Address   // indexed by POI ID
	mapped  []bool
}

func newMapper(key segment.Key, n int) *Mapper {
	return &Mapper{
		key:     key,
		toModel: make([]Address, n),
		mapped:  make([]bool, n),
	}
}

func (m *Mapper) register(id int, addr Address) {
	m.toModel[id] = addr
	m.mapped[id] = true
}

// Address returns the model address of a point. A point the builder did not
// discretize is a defect and reported as an internal invariant violation.
func (m *Mapper) Address(poi segment.PointOfInterest) (Address, error) {
	if poi.ID < 0 || poi.ID >= len(m.toModel) || !m.mapped[poi.ID] {
		return Address{}, segment.Errorf(segment.KindInternalInvariantViolation, m.key,
			"point of interest %d has no model address", poi.ID).At(poi.Station).In("map")
	}
	return m.toModel[poi.ID], nil
}
