// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linsys assembles the block-CSR Jacobian and residual vector that
// feed an external sparse linear solver (spec.md §4.5, §6 "External
// Interfaces"), grounded on the gosl/la.Triplet accumulation idiom used by
// fem/domain.go's Kb *la.Triplet field.
package linsys

import "github.com/cpmech/gosl/la"

// System is the block-CSR matrix/vector pair handed to an external linear
// solver: ia/ja/A in block-CSR form, a right-hand side b, a solution slot
// x, and this rank's global row range (spec.md §6). Block entries use
// dense row-major storage of size BlockDim*BlockDim, added via AddBlock the
// way fem/domain.go accumulates into a Triplet before conversion.
type System struct {
	BlockDim     int
	NumBlockRows int // local number of block rows (bulk cells + active wells)
	GlobalBegin  int64
	GlobalEnd    int64

	trip *la.Triplet // block entries accumulate here before CSR conversion
	B    []float64   // right-hand side, length NumBlockRows*BlockDim
	X    []float64   // solution slot, length NumBlockRows*BlockDim
}

// NewSystem allocates a System for numBlockRows rows of blockDim unknowns
// each, with an estimated number of nonzero blocks nnzBlocks used to size
// the underlying Triplet (mirrors fem.Domain.Kb.Init's NnzKb sizing).
func NewSystem(numBlockRows, blockDim int, globalBegin, globalEnd int64, nnzBlocks int) *System {
	s := &System{
		BlockDim:     blockDim,
		NumBlockRows: numBlockRows,
		GlobalBegin:  globalBegin,
		GlobalEnd:    globalEnd,
		trip:         new(la.Triplet),
		B:            make([]float64, numBlockRows*blockDim),
		X:            make([]float64, numBlockRows*blockDim),
	}
	n := numBlockRows * blockDim
	s.trip.Init(n, n, nnzBlocks*blockDim*blockDim)
	return s
}

// Reset clears the Jacobian entries and residual vector for a new
// assembly pass, keeping the allocated capacity (mirrors Domain.Kb being
// re-initialised but not re-allocated between Newton iterations).
func (s *System) Reset() {
	n := s.NumBlockRows * s.BlockDim
	s.trip.Init(n, n, s.trip.Max())
	for i := range s.B {
		s.B[i] = 0
	}
}

// AddBlock accumulates a dense BlockDim x BlockDim contribution at
// (blockRow, blockCol), row-major in vals. Used for diagonal cell blocks,
// connection off-diagonals and the well row/column contributions of
// spec.md §4.4 "Assembly".
func (s *System) AddBlock(blockRow, blockCol int, vals []float64) {
	bd := s.BlockDim
	r0 := blockRow * bd
	c0 := blockCol * bd
	for i := 0; i < bd; i++ {
		for j := 0; j < bd; j++ {
			v := vals[i*bd+j]
			if v != 0 {
				s.trip.Put(r0+i, c0+j, v)
			}
		}
	}
}

// AddResidual accumulates a BlockDim-length contribution into the
// right-hand side at blockRow (the residual, per spec.md §4.5 step 1).
func (s *System) AddResidual(blockRow int, vals []float64) {
	bd := s.BlockDim
	r0 := blockRow * bd
	for i := 0; i < bd; i++ {
		s.B[r0+i] += vals[i]
	}
}

// Triplet exposes the underlying gosl/la.Triplet for conversion to
// whatever sparse format the external solver expects.
func (s *System) Triplet() *la.Triplet { return s.trip }
