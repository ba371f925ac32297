// Package handling evaluates precast segments during lifting and hauling:
// moments and fiber stresses on two temporary supports, factors of safety
// against cracking, failure and rollover, and the search for support
// locations that satisfy them.
package handling

import (
	"fmt"

	"github.com/alexiusacademia/gogirder/internal/model"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// Mode is the handling condition being analysed.
type Mode string

const (
	ModeLifting Mode = "lifting"
	ModeHauling Mode = "hauling"
)

// Configuration locates the temporary supports (lift points or truck bunks)
// as distances from each segment end. It is a value; With* methods return
// modified copies.
type Configuration struct {
	LeftOverhang  float64 // m
	RightOverhang float64 // m

	// Concrete overrides the interval's concrete properties; zero fields
	// keep the provider values.
	Concrete segment.ConcreteProperties

	// UseDefaults takes both overhangs from the rule set.
	UseDefaults bool
}

// NewConfiguration returns a configuration with the given overhangs.
func NewConfiguration(left, right float64) Configuration {
	return Configuration{LeftOverhang: left, RightOverhang: right}
}

// DefaultConfiguration asks for the rule set's default overhangs.
func DefaultConfiguration() Configuration {
	return Configuration{UseDefaults: true}
}

// WithConcrete returns a copy overriding f'c and Ec (MPa).
func (c Configuration) WithConcrete(fc, ec float64) Configuration {
	c.Concrete = segment.ConcreteProperties{Fc: fc, Ec: ec}
	return c
}

// Supports returns the support locations of the configuration.
func (c Configuration) Supports() model.Supports {
	return model.Supports{Left: c.LeftOverhang, Right: c.RightOverhang}
}

func (c Configuration) String() string {
	s := fmt.Sprintf("overhangs %.4f m / %.4f m", c.LeftOverhang, c.RightOverhang)
	if c.Concrete.Fc > 0 {
		s += fmt.Sprintf(", f'c %.1f MPa", c.Concrete.Fc)
	}
	if c.Concrete.Ec > 0 {
		s += fmt.Sprintf(", Ec %.0f MPa", c.Concrete.Ec)
	}
	return s
}
