package fem

import "fmt"

type caseResult struct {
	w    []float64    // member load intensity
	ends [][4]float64 // member end forces (V1, M1, V2, M2), upward/counterclockwise positive
	disp []float64    // nodal (v, θ)
}

// Solution holds member end forces per load identifier. It is immutable.
type Solution struct {
	nodes   []float64
	members []Member
	cases   map[string]*caseResult
}

func (s *Solution) result(loadID string, member int) (*caseResult, error) {
	cr, ok := s.cases[loadID]
	if !ok {
		return nil, fmt.Errorf("%w: load %q was not solved", ErrMalformed, loadID)
	}
	if member < 0 || member >= len(s.members) {
		return nil, fmt.Errorf("%w: member %d does not exist", ErrMalformed, member)
	}
	return cr, nil
}

// Moment returns the bending moment (kN·m, sagging positive) at distance x
// from the start of a member.
func (s *Solution) Moment(loadID string, member int, x float64) (float64, error) {
	cr, err := s.result(loadID, member)
	if err != nil {
		return 0, err
	}
	L := s.members[member].Length
	if x < 0 || x > L*(1+1e-9) {
		return 0, fmt.Errorf("%w: distance %.6f outside member %d of length %.6f", ErrMalformed, x, member, L)
	}
	f := cr.ends[member]
	return -f[1] + f[0]*x - cr.w[member]*x*x/2, nil
}

// Deflection returns the transverse displacement (m, upward positive) at a node.
func (s *Solution) Deflection(loadID string, node int) (float64, error) {
	cr, ok := s.cases[loadID]
	if !ok {
		return 0, fmt.Errorf("%w: load %q was not solved", ErrMalformed, loadID)
	}
	if node < 0 || node >= len(s.nodes) {
		return 0, fmt.Errorf("%w: node %d does not exist", ErrMalformed, node)
	}
	return cr.disp[2*node], nil
}

// Reaction returns the vertical support reaction (kN, upward positive) at a node.
func (s *Solution) Reaction(loadID string, node int) (float64, error) {
	cr, ok := s.cases[loadID]
	if !ok {
		return 0, fmt.Errorf("%w: load %q was not solved", ErrMalformed, loadID)
	}
	if node < 0 || node >= len(s.nodes) {
		return 0, fmt.Errorf("%w: node %d does not exist", ErrMalformed, node)
	}
	// Sum of member end shears meeting at the node
	var r float64
	if node > 0 {
		r += cr.ends[node-1][2]
	}
	if node < len(s.members) {
		r += cr.ends[node][0]
	}
	return r, nil
}
