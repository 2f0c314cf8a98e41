// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"math"

	"github.com/cpmech/resflow/deck"
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/flux"
	"github.com/cpmech/resflow/linsys"
	"github.com/cpmech/resflow/nr"
	"github.com/cpmech/resflow/pvt"
	"github.com/cpmech/resflow/well"
)

func init() {
	Register("impec", func(dom *domain.Domain, dk *deck.Deck, sol linsys.Solver, fl pvt.Flasher, fluxAsm *flux.Assembler) Strategy {
		return &IMPEC{Domain: dom, Deck: dk, Solver: sol, Flasher: fl, FluxAsm: fluxAsm}
	})
}

// IMPEC implements the implicit-pressure-explicit-composition strategy
// (spec.md §4.7): a pressure-only Newton system (blockDim=1, one row per
// cell carrying its net connection flow, one control row per well) is
// solved implicitly each step, with the flash and rock properties
// re-evaluated at the current pressure on every Newton iteration; once pressure converges,
// component molar inventories are advanced explicitly from that step's
// fluxes. Grounded on fem.FEsolver's Run shape, reusing flux.Assembler
// for the Darcy flux evaluation FIM also uses.
type IMPEC struct {
	Domain  *domain.Domain
	Deck    *deck.Deck
	Solver  linsys.Solver
	Flasher pvt.Flasher
	FluxAsm *flux.Assembler
}

func (s *IMPEC) Run(tFinal float64) error {
	dom := s.Domain
	gbegin, gend := dom.Part.GlobalBeginEnd()
	sys := linsys.NewSystem(dom.NumBlockRows(), 1, gbegin, gend, len(dom.Connections)*2+len(dom.Cells))

	tol := nr.DefaultTolerances()
	a := &impecAssembler{dom: dom, flasher: s.Flasher, fluxAsm: s.FluxAsm, dSlim: tol.DSmax}
	drv := &nr.Driver{
		Assembler: a,
		Solver:    s.Solver,
		Partition: dom.Part,
		Tol:       tol,
	}
	tw := s.Deck.TuningFor(0)
	dtInit, dtMin, dtMax := tw.DtInit, tw.DtMin, tw.DtMax
	if dtInit <= 0 {
		dtInit = 1
	}
	if dtMin <= 0 {
		dtMin = 1e-6
	}
	if dtMax <= 0 {
		dtMax = math.Inf(1)
	}
	return TimeLoop(drv, sys, dom, s.Deck, tFinal, dtInit, dtMin, dtMax, a.advanceComposition)
}

// impecAssembler assembles a pressure-only system: per bulk cell a single
// equation summing its connections' total volumetric flow (no Vp-Vf
// accumulation term is added), and per well its control equation, with
// no component unknowns at all. Flash is called with skip=true since composition is
// frozen for the duration of the pressure solve.
type impecAssembler struct {
	dom     *domain.Domain
	flasher pvt.Flasher
	fluxAsm *flux.Assembler
	dSlim   float64
	snapshotState
}

func (a *impecAssembler) Snapshot()                       { a.take(a.dom) }
func (a *impecAssembler) Restore()                        { a.restore(a.dom) }
func (a *impecAssembler) CheckPlausibility(tol nr.Tolerances) bool { return statePlausible(a.dom, tol) }
func (a *impecAssembler) RecheckWellLimits() bool          { return recheckWellLimits(a.dom) }
func (a *impecAssembler) WellResidualMax() float64         { return wellResidualMax(a.dom) }

func (a *impecAssembler) Assemble(sys *linsys.System) error {
	for _, c := range a.dom.Cells {
		if err := a.flasher.Flash(c, true); err != nil {
			return err
		}
		a.fluxAsm.FillRockProps(c)
	}
	checkWellControls(a.dom)
	for _, conn := range a.dom.Connections {
		b := a.dom.Cells[conn.B]
		e := a.dom.Cells[conn.E]
		a.addConnection(sys, conn, b, e)
	}
	cap := totalRateCapability{inner: perfRateCapability{dom: a.dom}, nc: a.dom.NumComponents}
	for wi, w := range a.dom.Wells {
		well.AssembleWellRow(sys, w, a.dom.WellRowOf(wi), func(ci int) int { return ci }, 1, 1, 0, cap)
	}
	return nil
}

// addConnection mirrors flux.Assembler.AddToKb's finite-difference
// pressure perturbation, but reduced to the single total-volumetric-flow
// row this pressure-only system carries instead of a per-component row.
func (a *impecAssembler) addConnection(sys *linsys.System, conn *domain.Connection, b, e *domain.Cell) {
	const h = 1e-4
	base := a.fluxAsm.ComputeFlux(conn, [2]*domain.Cell{b, e})
	q0 := totalQ(base)
	sys.AddResidual(conn.B, []float64{-q0})
	sys.AddResidual(conn.E, []float64{q0})

	pb := b.P
	b.P += h
	dqb := (totalQ(a.fluxAsm.ComputeFlux(conn, [2]*domain.Cell{b, e})) - q0) / h
	b.P = pb

	pe := e.P
	e.P += h
	dqe := (totalQ(a.fluxAsm.ComputeFlux(conn, [2]*domain.Cell{b, e})) - q0) / h
	e.P = pe

	sys.AddBlock(conn.B, conn.B, []float64{-dqb})
	sys.AddBlock(conn.B, conn.E, []float64{-dqe})
	sys.AddBlock(conn.E, conn.E, []float64{dqe})
	sys.AddBlock(conn.E, conn.B, []float64{dqb})
}

func totalQ(fluxes []flux.PhaseFlux) float64 {
	var q float64
	for _, f := range fluxes {
		q += f.Q
	}
	return q
}

// ApplyUpdate applies the pressure-only Newton correction, chopped by the
// same alpha FIM/AIMc use (chopCellUpdate with a nil mole-change slice,
// since this system carries no component unknowns). dT and cfl are left
// at zero: temperature plays no role in IMPEC's pressure solve, and a
// meaningful CFL number needs the step's dt, which isn't known until the
// step is accepted (see advanceComposition).
func (a *impecAssembler) ApplyUpdate(du []float64) (dP, dN, dS, dT, cfl float64) {
	for i, c := range a.dom.Cells {
		dp := du[i]
		alpha, ds := chopCellUpdate(c, dp, nil, a.dSlim)
		if math.Abs(alpha*dp) > dP {
			dP = math.Abs(alpha * dp)
		}
		c.P -= alpha * dp
		for _, dsj := range ds {
			if v := math.Abs(alpha * dsj); v > dS {
				dS = v
			}
		}
	}
	for wi, w := range a.dom.Wells {
		row := a.dom.WellRowOf(wi)
		w.Pbh -= du[row]
	}
	return
}

// advanceComposition performs IMPEC's explicit transport step: once a
// time step's pressure has converged, every component's molar inventory
// is updated by a forward-Euler step using the fluxes evaluated at the
// converged pressure field, per spec.md §4.7 "explicit composition".
func (a *impecAssembler) advanceComposition(dt float64) {
	nc := a.dom.NumComponents
	dN := make([][]float64, len(a.dom.Cells))
	for i := range dN {
		dN[i] = make([]float64, nc)
	}
	for _, conn := range a.dom.Connections {
		b := a.dom.Cells[conn.B]
		e := a.dom.Cells[conn.E]
		fluxes := a.fluxAsm.ComputeFlux(conn, [2]*domain.Cell{b, e})
		for _, f := range fluxes {
			for i, ni := range f.Ni {
				dN[conn.B][i] -= ni
				dN[conn.E][i] += ni
			}
		}
	}
	for i, c := range a.dom.Cells {
		for k := 0; k < nc; k++ {
			c.N[k] += dt * dN[i][k]
		}
	}
}
