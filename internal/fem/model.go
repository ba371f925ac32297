// Package fem solves straight, planar Euler-Bernoulli beams by the direct
// stiffness method. Each node carries a transverse displacement and a
// rotation; supports restrain the transverse displacement only.
package fem

import (
	"errors"
	"fmt"
)

var (
	// ErrUnstable is returned when the supports cannot equilibrate the loads.
	ErrUnstable = errors.New("fem: model is unstable")
	// ErrMalformed is returned for inconsistent model descriptions.
	ErrMalformed = errors.New("fem: malformed model")
)

// Member connects node ID and node ID+1.
type Member struct {
	ID     int
	Length float64 // m
	EI     float64 // kN·m²
}

// Load is a uniform downward load on one member under a load identifier.
type Load struct {
	ID     string
	Member int
	W      float64 // kN/m, positive downward
}

// Model describes a continuous beam along one axis.
type Model struct {
	Nodes    []float64 // stations in m, strictly ascending
	Members  []Member  // len(Nodes)-1 members in station order
	Supports []int     // node indices with vertical restraint
	Loads    []Load
}

// Validate checks the model topology.
func (m *Model) Validate() error {
	if len(m.Nodes) < 2 {
		return fmt.Errorf("%w: at least two nodes are required", ErrMalformed)
	}
	if len(m.Members) != len(m.Nodes)-1 {
		return fmt.Errorf("%w: %d members for %d nodes", ErrMalformed, len(m.Members), len(m.Nodes))
	}
	for i, mbr := range m.Members {
		if mbr.ID != i {
			return fmt.Errorf("%w: member %d has id %d", ErrMalformed, i, mbr.ID)
		}
		if mbr.Length <= 0 || mbr.EI <= 0 {
			return fmt.Errorf("%w: member %d needs positive length and EI", ErrMalformed, i)
		}
	}
	seen := map[int]bool{}
	for _, s := range m.Supports {
		if s < 0 || s >= len(m.Nodes) {
			return fmt.Errorf("%w: support node %d does not exist", ErrMalformed, s)
		}
		seen[s] = true
	}
	if len(seen) < 2 {
		return fmt.Errorf("%w: %d distinct supports", ErrUnstable, len(seen))
	}
	for _, l := range m.Loads {
		if l.Member < 0 || l.Member >= len(m.Members) {
			return fmt.Errorf("%w: load %q on missing member %d", ErrMalformed, l.ID, l.Member)
		}
	}
	return nil
}

// Solver computes member end forces for every load identifier in a model.
type Solver interface {
	Solve(m *Model) (*Solution, error)
}
