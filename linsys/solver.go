// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsys

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// Solver is the external linear-solver contract of spec.md §6: given the
// System's block-CSR matrix and right-hand side, solve J*du = -R into
// System.X and report an iteration count, or a negative status on failure
// (spec.md §7 "LinearSolverFailure").
type Solver interface {
	Solve(sys *System) (iterations int, err error)
	Free()
}

// DirectGaussSolver wraps gosl/la's dense solver for small test fixtures —
// it is a stand-in for the real distributed direct solver (e.g. MUMPS)
// named in spec.md §6, which is explicitly out of scope for this core.
// Grounded on the la.Triplet -> la.MatTriplet2Matrix conversion pattern
// used before handing a system to gosl's solvers.
type DirectGaussSolver struct{}

// Solve converts the triplet to a dense matrix and solves it directly.
// Every entry of b is negated to form the right-hand side, so that J*du = -R.
func (o *DirectGaussSolver) Solve(sys *System) (int, error) {
	n := sys.NumBlockRows * sys.BlockDim
	A := sys.trip.ToMatrix(nil).ToDense()
	rhs := make([]float64, n)
	for i := range rhs {
		rhs[i] = -sys.B[i]
	}
	err := la.DenSolve(sys.X, A, rhs)
	if err != nil {
		return -1, err
	}
	return 1, nil
}

// Free releases no resources; included to satisfy Solver.
func (o *DirectGaussSolver) Free() {}

// JacobiPreconditionedSolver is a simple Jacobi-preconditioned conjugate
// gradient iteration, standing in for an iterative solver with CPR/AMG
// preconditioning (spec.md §6). It is diagonal-dominance dependent and
// intended for small/symmetric test fixtures, not production-scale
// reservoir Jacobians.
type JacobiPreconditionedSolver struct {
	MaxIter int
	Tol     float64
}

// NewJacobiPreconditionedSolver returns a solver with sane test defaults.
func NewJacobiPreconditionedSolver() *JacobiPreconditionedSolver {
	return &JacobiPreconditionedSolver{MaxIter: 500, Tol: 1e-10}
}

func (o *JacobiPreconditionedSolver) Solve(sys *System) (int, error) {
	n := sys.NumBlockRows * sys.BlockDim
	A := sys.trip.ToMatrix(nil).ToDense()
	rhs := make([]float64, n)
	for i := range rhs {
		rhs[i] = -sys.B[i]
	}
	diag := make([]float64, n)
	for i := 0; i < n; i++ {
		d := A.Get(i, i)
		if d == 0 {
			d = 1
		}
		diag[i] = d
	}
	x := sys.X
	for i := range x {
		x[i] = 0
	}
	r := make([]float64, n)
	copy(r, rhs)
	z := make([]float64, n)
	for i := range z {
		z[i] = r[i] / diag[i]
	}
	p := make([]float64, n)
	copy(p, z)
	rz := dot(r, z)

	iter := 0
	for ; iter < o.MaxIter; iter++ {
		Ap := matVec(A, p)
		alpha := rz / dot(p, Ap)
		for i := 0; i < n; i++ {
			x[i] += alpha * p[i]
			r[i] -= alpha * Ap[i]
		}
		if norm2(r) < o.Tol {
			iter++
			break
		}
		for i := 0; i < n; i++ {
			z[i] = r[i] / diag[i]
		}
		rzNew := dot(r, z)
		beta := rzNew / rz
		for i := 0; i < n; i++ {
			p[i] = z[i] + beta*p[i]
		}
		rz = rzNew
	}
	return iter, nil
}

func (o *JacobiPreconditionedSolver) Free() {}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func matVec(A *la.Matrix, x []float64) []float64 {
	n := len(x)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += A.Get(i, j) * x[j]
		}
		y[i] = s
	}
	return y
}

func norm2(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}
