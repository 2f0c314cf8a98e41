// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

// Direction tags a connection's geometric type (spec.md §3 "Connection").
type Direction int

const (
	DirX Direction = iota
	DirY
	DirZ
	DirMatrixFracture
	DirUnstructured
)

// Connection is an ordered pair (b,e) of cells sharing a static
// transmissibility. flux.Assembler.ComputeFlux returns its per-phase
// upstream evaluation as flux.PhaseFlux values and does not store it in
// the runtime fields below.
type Connection struct {
	Id  int // index into Domain.Connections
	B   int // "begin" cell index (local)
	E   int // "end" cell index (local)
	Dir Direction
	T   float64 // static transmissibility T_be

	// per-phase runtime fields, allocated by NewConnection; no code in this
	// module writes them after allocation
	Upstream   []int     // [np] upstream cell index (B or E) chosen by potential
	UpRho      []float64 // [np] upstream density used for the potential gradient
	Vj         []float64 // [np] phase volumetric flux
	Ni         []float64 // [nc] component molar flux contribution
}

// NewConnection allocates per-phase/per-component runtime fields.
func NewConnection(id, b, e int, dir Direction, trans float64, np, nc int) *Connection {
	return &Connection{
		Id: id, B: b, E: e, Dir: dir, T: trans,
		Upstream: make([]int, np),
		UpRho:    make([]float64, np),
		Vj:       make([]float64, np),
		Ni:       make([]float64, nc),
	}
}
