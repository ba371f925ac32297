// Package model builds the mechanical representation of a segment resting on
// two temporary supports.
package model

import (
	"math"
	"sort"

	"github.com/gofiber/fiber/v2/log"

	"github.com/alexiusacademia/gogirder/internal/fem"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// SelfWeight is the load identifier of the segment self-weight.
const SelfWeight = "SelfWeight"

// Supports gives the distance from each segment end to its support (m).
type Supports struct {
	Left  float64
	Right float64
}

// Span returns the distance between the supports.
func (s Supports) Span(length float64) float64 {
	return length - s.Left - s.Right
}

// Options override material data for one build.
type Options struct {
	Ec float64 // MPa; zero uses the material provider
}

// Builder constructs beam models from provider data.
type Builder struct {
	Sections  segment.SectionProvider
	Materials segment.MaterialProvider
}

// NewBuilder returns a builder reading from the given providers.
func NewBuilder(sections segment.SectionProvider, materials segment.MaterialProvider) *Builder {
	return &Builder{Sections: sections, Materials: materials}
}

// BeamModel is a segment discretized at every POI, support and section
// transition. It lives for one evaluation.
type BeamModel struct {
	Key      segment.Key
	Interval segment.IntervalIndex
	Length   float64
	Supports Supports
	Ec       float64 // MPa

	FEM    *fem.Model
	Arena  *Arena
	Mapper *Mapper

	LeftNode  int
	RightNode int

	weight float64
}

// Weight returns the total self-weight (kN).
func (m *BeamModel) Weight() float64 { return m.weight }

// RegionOf classifies a station. Support stations are interior.
func (m *BeamModel) RegionOf(station float64) Region {
	if station < m.Supports.Left-StationTolerance || station > m.Length-m.Supports.Right+StationTolerance {
		return RegionOverhang
	}
	return RegionInterior
}

// node priorities when coincident candidates merge
const (
	priorityTransition = iota
	priorityPOI
	prioritySupport
	priorityEnd
)

type candidate struct {
	station  float64
	priority int
}

// Build discretizes the segment and applies its self-weight.
func (b *Builder) Build(key segment.Key, interval segment.IntervalIndex, sup Supports, pois []segment.PointOfInterest, opts Options) (*BeamModel, error) {
	const op = "build model"

	length, err := b.Sections.SegmentLength(key)
	if err != nil {
		return nil, unavailable(op, key, err)
	}
	if length <= 0 {
		return nil, segment.Errorf(segment.KindIncompleteInput, key, "segment length %.4f m is not positive", length).In(op)
	}
	if err := checkSupports(key, length, sup); err != nil {
		return nil, err.In(op)
	}
	for _, p := range pois {
		if p.Station < 0 || p.Station > length {
			return nil, segment.Errorf(segment.KindOutOfRange, key, "point of interest outside [0, %.4f] m", length).At(p.Station).In(op)
		}
	}

	ec := opts.Ec
	if ec <= 0 {
		cp, err := b.Materials.ConcreteProperties(key, interval)
		if err != nil {
			return nil, unavailable(op, key, err)
		}
		ec = cp.Ec
	}
	if ec <= 0 {
		return nil, segment.New(segment.KindIncompleteInput, key, "modulus of elasticity is not available").In(op)
	}

	transitions, err := b.Sections.SectionTransitions(key, interval)
	if err != nil {
		return nil, unavailable(op, key, err)
	}

	arena := NewArena(pois)

	cands := []candidate{
		{0, priorityEnd},
		{length, priorityEnd},
		{sup.Left, prioritySupport},
		{length - sup.Right, prioritySupport},
	}
	for _, p := range arena.pois {
		cands = append(cands, candidate{p.Station, priorityPOI})
	}
	for _, x := range transitions {
		if x > 0 && x < length {
			cands = append(cands, candidate{x, priorityTransition})
		}
	}
	nodes := mergeStations(cands)

	m := &BeamModel{
		Key:      key,
		Interval: interval,
		Length:   length,
		Supports: sup,
		Ec:       ec,
		Arena:    arena,
		Mapper:   newMapper(key, arena.Len()),
		FEM:      &fem.Model{Nodes: nodes},
	}

	for i := 0; i+1 < len(nodes); i++ {
		start, end := nodes[i], nodes[i+1]
		mid := (start + end) / 2
		props, err := b.Sections.SectionProperties(key, interval, mid)
		if err != nil {
			return nil, unavailable(op, key, err)
		}
		if err := props.Complete(); err != nil {
			return nil, segment.New(segment.KindIncompleteInput, key, "section properties").At(mid).Wrap(err).In(op)
		}
		w := props.WeightPerLength()
		m.FEM.Members = append(m.FEM.Members, fem.Member{
			ID:     i,
			Length: end - start,
			EI:     ec * 1000 * props.Ix,
		})
		m.FEM.Loads = append(m.FEM.Loads, fem.Load{ID: SelfWeight, Member: i, W: w})
		m.weight += w * (end - start)
	}

	m.LeftNode = nearestNode(nodes, sup.Left)
	m.RightNode = nearestNode(nodes, length-sup.Right)
	m.FEM.Supports = []int{m.LeftNode, m.RightNode}

	last := len(m.FEM.Members) - 1
	for _, p := range arena.pois {
		n := nearestNode(nodes, p.Station)
		if math.Abs(nodes[n]-p.Station) > StationTolerance {
			return nil, segment.Errorf(segment.KindInternalInvariantViolation, key,
				"point of interest %d was not discretized", p.ID).At(p.Station).In(op)
		}
		addr := Address{Member: n, Distance: 0, Node: n}
		if n > last {
			addr = Address{Member: last, Distance: m.FEM.Members[last].Length, Node: n}
		}
		m.Mapper.register(p.ID, addr)
	}

	log.Debugf("model %s: %d nodes, supports at %.4f m and %.4f m, weight %.2f kN",
		key, len(nodes), nodes[m.LeftNode], nodes[m.RightNode], m.weight)

	return m, nil
}

func checkSupports(key segment.Key, length float64, sup Supports) *segment.Error {
	switch {
	case !finite(sup.Left) || !finite(sup.Right):
		return segment.Errorf(segment.KindInvalidConfiguration, key,
			"overhangs must be finite (left %v m, right %v m)", sup.Left, sup.Right)
	case sup.Left < 0 || sup.Right < 0:
		return segment.Errorf(segment.KindInvalidConfiguration, key,
			"overhangs must be non-negative (left %.4f m, right %.4f m)", sup.Left, sup.Right)
	case sup.Left >= length/2 || sup.Right >= length/2:
		return segment.Errorf(segment.KindInvalidConfiguration, key,
			"overhangs must be less than half the segment length %.4f m (left %.4f m, right %.4f m)", length, sup.Left, sup.Right)
	case sup.Span(length) <= StationTolerance:
		return segment.Errorf(segment.KindInvalidConfiguration, key,
			"no span remains between supports (left %.4f m, right %.4f m)", sup.Left, sup.Right)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// mergeStations sorts candidate stations and collapses those within
// StationTolerance of the first station of their group, keeping the
// station of the highest priority candidate.
func mergeStations(cands []candidate) []float64 {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].station < cands[j].station })

	var nodes []float64
	groupStart, best := cands[0], cands[0]
	flush := func() { nodes = append(nodes, best.station) }
	for _, c := range cands[1:] {
		if c.station-groupStart.station <= StationTolerance {
			if c.priority > best.priority {
				best = c
			}
			continue
		}
		flush()
		groupStart, best = c, c
	}
	flush()
	return nodes
}

func nearestNode(nodes []float64, station float64) int {
	i := sort.SearchFloat64s(nodes, station)
	if i == len(nodes) {
		return len(nodes) - 1
	}
	if i > 0 && station-nodes[i-1] < nodes[i]-station {
		return i - 1
	}
	return i
}

// unavailable passes classified errors through and marks the rest as
// missing collaborator data.
func unavailable(op string, key segment.Key, err error) error {
	if segment.KindOf(err) != 0 {
		return err
	}
	return segment.New(segment.KindDataUnavailable, key, "").Wrap(err).In(op)
}
