// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import "gonum.org/v1/gonum/mat"

// SkipStability accelerates repeated stability-analysis calls for cells
// that have stayed single-phase across Newton iterations (spec.md §4.2),
// grounded on original_source/include/AcceleratePVT.hpp's SkipPSAVarset /
// SkipPSAMethod01 / SkipPSA trio. Per-cell state is kept in flat slices
// indexed by cell id, mirroring SkipPSAVarset's own flat layout rather
// than one struct per cell.
type SkipStability struct {
	nb int
	nc int

	flag     []bool    // true: cell was stable (single-phase) last time it was tested
	minEigen []float64 // minimum eigenvalue of the stability Hessian at last test
	p        []float64
	t        []float64
	z        [][]float64

	// "last time step" shadow copies, restored on a Newton reset the way
	// SkipPSAVarset::ResetToLastTimeStep undoes a rejected step.
	lflag     []bool
	lminEigen []float64
	lp        []float64
	lt        []float64
	lz        [][]float64
}

// NewSkipStability allocates accelerator state for nb cells of nc
// components, all initially unstable (flag=false) so the first step of a
// run always performs a full stability analysis.
func NewSkipStability(nb, nc int) *SkipStability {
	s := &SkipStability{nb: nb, nc: nc}
	s.flag = make([]bool, nb)
	s.minEigen = make([]float64, nb)
	s.p = make([]float64, nb)
	s.t = make([]float64, nb)
	s.z = make([][]float64, nb)
	for i := range s.z {
		s.z[i] = make([]float64, nc)
	}
	s.lflag = make([]bool, nb)
	s.lminEigen = make([]float64, nb)
	s.lp = make([]float64, nb)
	s.lt = make([]float64, nb)
	s.lz = make([][]float64, nb)
	for i := range s.lz {
		s.lz[i] = make([]float64, nc)
	}
	return s
}

// ShouldSkip applies spec.md §4.2's skip predicate: the cell must have
// been flagged stable, and P, T and every component's overall mole
// fraction must each have moved by less than a fraction of the stored
// minimum eigenvalue. A zero or negative stored eigenvalue (no prior
// single-phase test) always forces a full analysis.
func (s *SkipStability) ShouldSkip(cellID int, p, t float64, z []float64) bool {
	if !s.flag[cellID] {
		return false
	}
	lam := s.minEigen[cellID]
	if lam <= 0 {
		return false
	}
	if s.p[cellID] == 0 {
		return false
	}
	if abs(1-p/s.p[cellID]) >= lam/10 {
		return false
	}
	if abs(t-s.t[cellID]) >= 10*lam {
		return false
	}
	for i, zi := range z {
		if abs(zi-s.z[cellID][i]) >= lam/10 {
			return false
		}
	}
	return true
}

// UpdateAfterStability records the outcome of a just-performed (i.e. not
// skipped) stability analysis: stillSinglePhase selects whether the cell
// remains a skip candidate, and hessian is the stability-test matrix whose
// minimum eigenvalue gates future skips (AcceleratePVT.hpp's CalSkipForNextStep).
func (s *SkipStability) UpdateAfterStability(cellID int, p, t float64, z []float64, stillSinglePhase bool, hessian *mat.SymDense) {
	copy(s.z[cellID], z)
	s.p[cellID] = p
	s.t[cellID] = t
	if !stillSinglePhase {
		s.flag[cellID] = false
		s.minEigen[cellID] = 0
		return
	}
	s.flag[cellID] = true
	s.minEigen[cellID] = minEigenvalue(hessian)
}

// MarkSkipped records that the cell was skipped this iteration: the
// stored P/T/z are refreshed (so the next delta is measured against the
// latest accepted state) but flag/minEigen are left untouched.
func (s *SkipStability) MarkSkipped(cellID int, p, t float64, z []float64) {
	copy(s.z[cellID], z)
	s.p[cellID] = p
	s.t[cellID] = t
}

// ResetToLastTimeStep discards this-time-step's bookkeeping after a
// rejected Newton step, mirroring SkipPSAVarset::ResetToLastTimeStep.
func (s *SkipStability) ResetToLastTimeStep() {
	copy(s.flag, s.lflag)
	copy(s.minEigen, s.lminEigen)
	copy(s.p, s.lp)
	copy(s.t, s.lt)
	for i := range s.z {
		copy(s.z[i], s.lz[i])
	}
}

// UpdateLastTimeStep commits this-time-step's bookkeeping as the new
// "last time step" baseline after a step is accepted, mirroring
// SkipPSAVarset::UpdateLastTimeStep.
func (s *SkipStability) UpdateLastTimeStep() {
	copy(s.lflag, s.flag)
	copy(s.lminEigen, s.minEigen)
	copy(s.lp, s.p)
	copy(s.lt, s.t)
	for i := range s.lz {
		copy(s.lz[i], s.z[i])
	}
}

// minEigenvalue computes the smallest eigenvalue of a symmetric stability
// matrix via gonum's symmetric eigendecomposition, standing in for the
// original's dedicated eigenSkip solver.
func minEigenvalue(hessian *mat.SymDense) float64 {
	if hessian == nil {
		return 0
	}
	var eig mat.EigenSym
	ok := eig.Factorize(hessian, false)
	if !ok {
		return 0
	}
	values := eig.Values(nil)
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
