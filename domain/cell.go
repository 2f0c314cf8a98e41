// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package domain owns the local cell list, halo layout, and the
// peer-to-peer exchange schedule that feeds the rest of the solve core.
package domain

// PhaseState holds the phase-indexed arrays produced by a flash (pvt
// package) and consumed by the flux and NR-driver assembly. Its shape is
// fixed at Setup time by (np, nc) and is re-filled every Newton iteration;
// it carries no ownership beyond the cell that embeds it.
type PhaseState struct {
	Exists []bool      // [np] phase existence flag
	S      []float64   // [np] saturation
	Vm     []float64   // [np] molar volume
	N      []float64   // [np] phase moles
	X      [][]float64 // [np][nc] mole fractions x_ij
	Rho    []float64   // [np] mass density
	Xi     []float64   // [np] molar density
	Mu     []float64   // [np] viscosity
	H      []float64   // [np] enthalpy
	Kr     []float64   // [np] relative permeability
	Pc     []float64   // [np] capillary pressure (relative to reference phase)
}

// NewPhaseState allocates a PhaseState for np phases and nc components.
func NewPhaseState(np, nc int) *PhaseState {
	p := &PhaseState{
		Exists: make([]bool, np),
		S:      make([]float64, np),
		Vm:     make([]float64, np),
		N:      make([]float64, np),
		X:      make([][]float64, np),
		Rho:    make([]float64, np),
		Xi:     make([]float64, np),
		Mu:     make([]float64, np),
		H:      make([]float64, np),
		Kr:     make([]float64, np),
		Pc:     make([]float64, np),
	}
	for j := range p.X {
		p.X[j] = make([]float64, nc)
	}
	return p
}

// Copy deep-copies src into o; both must have matching shapes.
func (o *PhaseState) Copy(src *PhaseState) {
	copy(o.Exists, src.Exists)
	copy(o.S, src.S)
	copy(o.Vm, src.Vm)
	copy(o.N, src.N)
	copy(o.Rho, src.Rho)
	copy(o.Xi, src.Xi)
	copy(o.Mu, src.Mu)
	copy(o.H, src.H)
	copy(o.Kr, src.Kr)
	copy(o.Pc, src.Pc)
	for j := range o.X {
		copy(o.X[j], src.X[j])
	}
}

// DerivBlock is the flattened "secondary with respect to primary" Jacobian
// block dSec_dPri, kept as a deliberate performance choice (see spec.md §9).
// Rows are secondary variables in order (S_1,...,S_np, x_11,...,x_np·nc);
// columns are primary variables (P, N_1,...,N_nc[, T]).
type DerivBlock struct {
	nRow, nCol int
	data       []float64
}

// NewDerivBlock allocates a dSec_dPri block for np phases, nc components and
// npri primary variables (nc+1 isothermal, nc+2 thermal).
func NewDerivBlock(np, nc, npri int) *DerivBlock {
	nrow := np*nc + np
	return &DerivBlock{nRow: nrow, nCol: npri, data: make([]float64, nrow*npri)}
}

// Set stores the derivative of secondary variable row w.r.t. primary column.
func (o *DerivBlock) Set(row, col int, v float64) { o.data[row*o.nCol+col] = v }

// Get returns the derivative of secondary variable row w.r.t. primary column.
func (o *DerivBlock) Get(row, col int) float64 { return o.data[row*o.nCol+col] }

// Dims returns (nRow, nCol).
func (o *DerivBlock) Dims() (int, int) { return o.nRow, o.nCol }

// Zero resets all entries to zero, reusing the backing array.
func (o *DerivBlock) Zero() {
	for i := range o.data {
		o.data[i] = 0
	}
}

// Cell is one bulk mesh cell: static rock/geometry data plus the current
// fluid state and its phase-indexed arrays. See spec.md §3 "Mesh cell
// (bulk)".
type Cell struct {
	// static
	Id       int     // local index into Domain.Cells
	GlobalId int64   // stable global id, filled by Partition.ComputeGlobalIndices
	V        float64 // bulk volume
	Depth    float64 // depth (positive downward)
	RockCond float64 // rock thermal conductivity
	Part     int     // owning rank

	// porosity model: phi(P,T) and derivatives are filled by the rock package
	Phi   float64
	PhiP  float64 // ∂phi/∂P
	PhiT  float64 // ∂phi/∂T
	Hrock float64 // rock enthalpy H_r(T)

	// fluid state (current)
	P  float64   // pressure
	T  float64   // temperature
	N  []float64 // [nc] component moles
	Nt float64   // total moles
	Vf float64   // total fluid volume
	Vp float64   // pore volume = V * Phi

	Phase *PhaseState // phase-indexed arrays for the current state

	// derivatives needed by the assembler, valid only during a Newton
	// iteration (spec.md §3 "Derivative arrays live only for the duration
	// of a Newton iteration")
	DVfDP float64
	DVfDT float64
	DVfDN []float64   // [nc]
	DSec  *DerivBlock // dSec_dPri

	// AIMc classification for the current step
	Implicit bool
}

// NewCell allocates a Cell for nc components and np phases with npri primary
// unknowns (nc+1 isothermal, nc+2 thermal).
func NewCell(id, nc, np, npri int) *Cell {
	return &Cell{
		Id:    id,
		N:     make([]float64, nc),
		Phase: NewPhaseState(np, nc),
		DVfDN: make([]float64, nc),
		DSec:  NewDerivBlock(np, nc, npri),
	}
}

// CellState is a snapshot of the parts of Cell that participate in the
// current/last double-buffering scheme (spec.md §3 "Lifecycle"). Derivative
// arrays are excluded: they live only for the duration of a Newton
// iteration and are never part of a committed snapshot.
type CellState struct {
	P, T, Nt, Vf, Vp   float64
	Phi, PhiP, PhiT    float64
	N                  []float64
	Phase              *PhaseState
	Implicit           bool
}

// Snapshot copies the committable part of the cell into a fresh CellState.
func (c *Cell) Snapshot() *CellState {
	nc := len(c.N)
	np := len(c.Phase.S)
	s := &CellState{
		P: c.P, T: c.T, Nt: c.Nt, Vf: c.Vf, Vp: c.Vp,
		Phi: c.Phi, PhiP: c.PhiP, PhiT: c.PhiT,
		N:        make([]float64, nc),
		Phase:    NewPhaseState(np, nc),
		Implicit: c.Implicit,
	}
	copy(s.N, c.N)
	s.Phase.Copy(c.Phase)
	return s
}

// Restore writes a CellState back into the cell (used on time-step reset;
// spec.md §4.5 step 2, "current state reverts to last").
func (c *Cell) Restore(s *CellState) {
	c.P, c.T, c.Nt, c.Vf, c.Vp = s.P, s.T, s.Nt, s.Vf, s.Vp
	c.Phi, c.PhiP, c.PhiT = s.Phi, s.PhiP, s.PhiT
	c.Implicit = s.Implicit
	copy(c.N, s.N)
	c.Phase.Copy(s.Phase)
}
