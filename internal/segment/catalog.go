package segment

import (
	"fmt"
	"sort"
)

// Catalog serves prepared definitions through the provider interfaces.
// A catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	defs map[Key]*Definition
	keys []Key
}

// NewCatalog indexes definitions by key. Definitions must already be prepared.
func NewCatalog(defs ...*Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[Key]*Definition, len(defs))}
	for _, d := range defs {
		if d.props == nil {
			return nil, fmt.Errorf("segment %s: definition not prepared", d.Key)
		}
		if _, dup := c.defs[d.Key]; dup {
			return nil, fmt.Errorf("segment %s: defined more than once", d.Key)
		}
		c.defs[d.Key] = d
		c.keys = append(c.keys, d.Key)
	}
	sort.Slice(c.keys, func(i, j int) bool {
		a, b := c.keys[i], c.keys[j]
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.Girder != b.Girder {
			return a.Girder < b.Girder
		}
		return a.Segment < b.Segment
	})
	return c, nil
}

// Providers returns the catalog wired into every provider slot.
func (c *Catalog) Providers() Providers {
	return Providers{Sections: c, Materials: c, POIs: c, Intervals: c}
}

// Keys lists the catalogued segments in key order.
func (c *Catalog) Keys() []Key {
	return append([]Key(nil), c.keys...)
}

// Definition returns the definition for a key.
func (c *Catalog) Definition(key Key) (*Definition, bool) {
	d, ok := c.defs[key]
	return d, ok
}

func (c *Catalog) lookup(key Key) (*Definition, error) {
	d, ok := c.defs[key]
	if !ok {
		return nil, New(KindDataUnavailable, key, "segment is not defined")
	}
	return d, nil
}

func (c *Catalog) SegmentLength(key Key) (float64, error) {
	d, err := c.lookup(key)
	if err != nil {
		return 0, err
	}
	return d.Length, nil
}

func (c *Catalog) SectionProperties(key Key, interval IntervalIndex, station float64) (SectionProperties, error) {
	d, err := c.lookup(key)
	if err != nil {
		return SectionProperties{}, err
	}
	if err := d.checkInterval(interval); err != nil {
		return SectionProperties{}, err
	}
	if station < -stationTolerance || station > d.Length+stationTolerance {
		return SectionProperties{}, Errorf(KindOutOfRange, key, "station outside [0, %.4f] m", d.Length).At(station)
	}
	return d.props[d.regionAt(station)], nil
}

func (c *Catalog) SectionTransitions(key Key, interval IntervalIndex) ([]float64, error) {
	d, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	if err := d.checkInterval(interval); err != nil {
		return nil, err
	}
	return d.transitions(), nil
}

func (c *Catalog) ConcreteProperties(key Key, interval IntervalIndex) (ConcreteProperties, error) {
	d, err := c.lookup(key)
	if err != nil {
		return ConcreteProperties{}, err
	}
	if err := d.checkInterval(interval); err != nil {
		return ConcreteProperties{}, err
	}
	iv := d.Intervals[interval]
	return ConcreteProperties{Fc: iv.Fc, Ec: iv.Ec}, nil
}

func (c *Catalog) PointsOfInterest(key Key, filter Attribute) ([]PointOfInterest, error) {
	d, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	pois := make([]PointOfInterest, 0, len(d.pois))
	for _, p := range d.pois {
		if filter == 0 || p.Attributes.Has(filter) {
			pois = append(pois, p)
		}
	}
	return pois, nil
}

func (c *Catalog) LiftingInterval(key Key) (IntervalIndex, error) {
	d, err := c.lookup(key)
	if err != nil {
		return 0, err
	}
	return d.LiftingInterval, nil
}

func (c *Catalog) HaulingInterval(key Key) (IntervalIndex, error) {
	d, err := c.lookup(key)
	if err != nil {
		return 0, err
	}
	return d.HaulingInterval, nil
}

func (d *Definition) checkInterval(interval IntervalIndex) error {
	if int(interval) < 0 || int(interval) >= len(d.Intervals) {
		return Errorf(KindDataUnavailable, d.Key, "interval %d is not defined", interval)
	}
	return nil
}
