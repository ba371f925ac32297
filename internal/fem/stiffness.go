package fem

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Stiffness is the direct stiffness solver.
type Stiffness struct{}

// NewStiffness returns a direct stiffness solver.
func NewStiffness() *Stiffness {
	return &Stiffness{}
}

// memberStiffness returns the 4x4 bending stiffness for dofs (v1, θ1, v2, θ2).
func memberStiffness(mbr Member) [4][4]float64 {
	L := mbr.Length
	k := mbr.EI / (L * L * L)
	return [4][4]float64{
		{12 * k, 6 * L * k, -12 * k, 6 * L * k},
		{6 * L * k, 4 * L * L * k, -6 * L * k, 2 * L * L * k},
		{-12 * k, -6 * L * k, 12 * k, -6 * L * k},
		{6 * L * k, 2 * L * L * k, -6 * L * k, 4 * L * L * k},
	}
}

// equivalentLoads returns consistent nodal loads (upward, counterclockwise
// positive) for a uniform downward load w.
func equivalentLoads(w, L float64) [4]float64 {
	return [4]float64{-w * L / 2, -w * L * L / 12, -w * L / 2, w * L * L / 12}
}

// Solve assembles and factorizes the reduced stiffness once, then solves
// each load identifier against it.
func (s *Stiffness) Solve(m *Model) (*Solution, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	ndof := 2 * len(m.Nodes)
	restrained := make([]bool, ndof)
	for _, n := range m.Supports {
		restrained[2*n] = true
	}
	eq := make([]int, ndof) // global dof -> reduced equation, -1 when restrained
	nfree := 0
	for d := 0; d < ndof; d++ {
		if restrained[d] {
			eq[d] = -1
			continue
		}
		eq[d] = nfree
		nfree++
	}

	K := mat.NewSymDense(nfree, nil)
	for _, mbr := range m.Members {
		ke := memberStiffness(mbr)
		dofs := memberDofs(mbr.ID)
		for a := 0; a < 4; a++ {
			ia := eq[dofs[a]]
			if ia < 0 {
				continue
			}
			for b := a; b < 4; b++ {
				ib := eq[dofs[b]]
				if ib < 0 {
					continue
				}
				i, j := ia, ib
				if i > j {
					i, j = j, i
				}
				K.SetSym(i, j, K.At(i, j)+ke[a][b])
			}
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(K); !ok {
		return nil, fmt.Errorf("%w: stiffness matrix is not positive definite", ErrUnstable)
	}

	loadsByID := map[string][]Load{}
	var ids []string
	for _, l := range m.Loads {
		if _, ok := loadsByID[l.ID]; !ok {
			ids = append(ids, l.ID)
		}
		loadsByID[l.ID] = append(loadsByID[l.ID], l)
	}
	sort.Strings(ids)

	sol := &Solution{
		nodes:   append([]float64(nil), m.Nodes...),
		members: append([]Member(nil), m.Members...),
		cases:   make(map[string]*caseResult, len(ids)),
	}

	for _, id := range ids {
		w := make([]float64, len(m.Members))
		F := make([]float64, ndof)
		for _, l := range loadsByID[id] {
			w[l.Member] += l.W
		}
		for i, mbr := range m.Members {
			if w[i] == 0 {
				continue
			}
			fe := equivalentLoads(w[i], mbr.Length)
			for a, d := range memberDofs(mbr.ID) {
				F[d] += fe[a]
			}
		}

		rhs := mat.NewVecDense(nfree, nil)
		for d := 0; d < ndof; d++ {
			if e := eq[d]; e >= 0 {
				rhs.SetVec(e, F[d])
			}
		}
		var u mat.VecDense
		if err := chol.SolveVecTo(&u, rhs); err != nil {
			return nil, fmt.Errorf("%w: load %q: %v", ErrUnstable, id, err)
		}

		U := make([]float64, ndof)
		for d := 0; d < ndof; d++ {
			if e := eq[d]; e >= 0 {
				U[d] = u.AtVec(e)
			}
		}

		cr := &caseResult{
			w:    w,
			ends: make([][4]float64, len(m.Members)),
			disp: U,
		}
		for i, mbr := range m.Members {
			ke := memberStiffness(mbr)
			fe := equivalentLoads(w[i], mbr.Length)
			dofs := memberDofs(mbr.ID)
			for a := 0; a < 4; a++ {
				var f float64
				for b := 0; b < 4; b++ {
					f += ke[a][b] * U[dofs[b]]
				}
				cr.ends[i][a] = f - fe[a]
			}
		}
		sol.cases[id] = cr
	}

	return sol, nil
}

func memberDofs(id int) [4]int {
	return [4]int{2 * id, 2*id + 1, 2*id + 2, 2*id + 3}
}
