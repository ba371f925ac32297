package model

import (
	"math"
	"sort"

	"github.com/alexiusacademia/gogirder/internal/segment"
)

// StationTolerance is the distance (m) within which stations coincide when
// the member is discretized. Supports and POIs closer than this share a node.
const StationTolerance = 1e-3

// Arena owns the points of interest of one analysis call. IDs are local
// indices in station order, valid only for the arena that issued them.
type Arena struct {
	pois []segment.PointOfInterest
}

// NewArena sorts the points by station, merges coincident stations and
// assigns IDs.
func NewArena(pois []segment.PointOfInterest) *Arena {
	sorted := append([]segment.PointOfInterest(nil), pois...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Station < sorted[j].Station })

	a := &Arena{pois: make([]segment.PointOfInterest, 0, len(sorted))}
	for _, p := range sorted {
		if n := len(a.pois); n > 0 && math.Abs(a.pois[n-1].Station-p.Station) <= StationTolerance {
			a.pois[n-1].Attributes |= p.Attributes
			continue
		}
		p.ID = len(a.pois)
		a.pois = append(a.pois, p)
	}
	return a
}

// Len returns the number of points.
func (a *Arena) Len() int { return len(a.pois) }

// Points returns a copy of the points in station order.
func (a *Arena) Points() []segment.PointOfInterest {
	return append([]segment.PointOfInterest(nil), a.pois...)
}

// Lookup finds the point at a station by binary search.
func (a *Arena) Lookup(station float64) (segment.PointOfInterest, bool) {
	i := sort.Search(len(a.pois), func(i int) bool { return a.pois[i].Station >= station-StationTolerance })
	if i < len(a.pois) && math.Abs(a.pois[i].Station-station) <= StationTolerance {
		return a.pois[i], true
	}
	return segment.PointOfInterest{}, false
}
