package segment

// SectionProvider supplies segment length and gross section data.
// Implementations must be safe for concurrent reads.
type SectionProvider interface {
	SegmentLength(key Key) (float64, error)
	SectionProperties(key Key, interval IntervalIndex, station float64) (SectionProperties, error)
	// SectionTransitions returns the stations where section properties change.
	SectionTransitions(key Key, interval IntervalIndex) ([]float64, error)
}

// MaterialProvider supplies concrete properties for an interval.
type MaterialProvider interface {
	ConcreteProperties(key Key, interval IntervalIndex) (ConcreteProperties, error)
}

// POIProvider supplies points of interest ordered by station. A zero filter
// returns every point; otherwise only points carrying all filter bits.
type POIProvider interface {
	PointsOfInterest(key Key, filter Attribute) ([]PointOfInterest, error)
}

// IntervalProvider names the intervals in which lifting and hauling occur.
type IntervalProvider interface {
	LiftingInterval(key Key) (IntervalIndex, error)
	HaulingInterval(key Key) (IntervalIndex, error)
}

// Providers bundles the read-only collaborators an analysis needs.
type Providers struct {
	Sections  SectionProvider
	Materials MaterialProvider
	POIs      POIProvider
	Intervals IntervalProvider
}

// Validate checks that every collaborator is present.
func (p Providers) Validate() error {
	switch {
	case p.Sections == nil:
		return New(KindIncompleteInput, Key{}, "section provider is required")
	case p.Materials == nil:
		return New(KindIncompleteInput, Key{}, "material provider is required")
	case p.POIs == nil:
		return New(KindIncompleteInput, Key{}, "point of interest provider is required")
	case p.Intervals == nil:
		return New(KindIncompleteInput, Key{}, "interval provider is required")
	}
	return nil
}
