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
	Register("fim", func(dom *domain.Domain, dk *deck.Deck, sol linsys.Solver, fl pvt.Flasher, fluxAsm *flux.Assembler) Strategy {
		return &FIM{Domain: dom, Deck: dk, Solver: sol, Flasher: fl, FluxAsm: fluxAsm}
	})
}

// FIM implements the fully-implicit strategy: every cell and well is
// assembled and solved together in one Newton system each iteration,
// grounded on fem.FEsolver's single monolithic Run plus spec.md §4.7
// "FIM: every cell is implicit, one global linear solve per iteration".
type FIM struct {
	Domain   *domain.Domain
	Deck     *deck.Deck
	Solver   linsys.Solver
	Flasher  pvt.Flasher
	FluxAsm  *flux.Assembler
}

func (f *FIM) Run(tFinal float64) error {
	dom := f.Domain
	npri := dom.NumPrimary
	gbegin, gend := dom.Part.GlobalBeginEnd()
	sys := linsys.NewSystem(dom.NumBlockRows(), npri, gbegin, gend, len(dom.Connections)*2+len(dom.Cells))

	tol := nr.DefaultTolerances()
	drv := &nr.Driver{
		Assembler: &fimAssembler{dom: dom, flasher: f.Flasher, fluxAsm: f.FluxAsm, blockDim: npri, dSlim: tol.DSmax},
		Solver:    f.Solver,
		Partition: dom.Part,
		Tol:       tol,
	}
	tw := f.Deck.TuningFor(0)
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
	return TimeLoop(drv, sys, dom, f.Deck, tFinal, dtInit, dtMin, dtMax, nil)
}

// fimAssembler adapts the domain/pvt/flux packages to nr.Assembler:
// flash every cell, compute fluxes across every connection, assemble
// well rows, and apply the chopped Newton update back into the domain.
type fimAssembler struct {
	dom      *domain.Domain
	flasher  pvt.Flasher
	fluxAsm  *flux.Assembler
	blockDim int
	dSlim    float64
	snapshotState
}

func (a *fimAssembler) Snapshot()                       { a.take(a.dom) }
func (a *fimAssembler) Restore()                        { a.restore(a.dom) }
func (a *fimAssembler) CheckPlausibility(tol nr.Tolerances) bool { return statePlausible(a.dom, tol) }
func (a *fimAssembler) RecheckWellLimits() bool          { return recheckWellLimits(a.dom) }
func (a *fimAssembler) WellResidualMax() float64         { return wellResidualMax(a.dom) }

func (a *fimAssembler) Assemble(sys *linsys.System) error {
	for i, c := range a.dom.Cells {
		if err := a.flasher.Flash(c, false); err != nil {
			return err
		}
		a.fluxAsm.FillRockProps(c)
		a.fluxAsm.AddVolumeBalance(sys, i, a.blockDim, c)
	}
	checkWellControls(a.dom)
	for _, conn := range a.dom.Connections {
		b := a.dom.Cells[conn.B]
		e := a.dom.Cells[conn.E]
		fluxes := a.fluxAsm.ComputeFlux(conn, [2]*domain.Cell{b, e})
		a.fluxAsm.AddToRhs(sys, conn, conn.B, conn.E, a.blockDim, fluxes)
		a.fluxAsm.AddToKb(sys, conn, conn.B, conn.E, a.blockDim, [2]*domain.Cell{b, e})
	}

	cap := perfRateCapability{dom: a.dom}
	for wi, w := range a.dom.Wells {
		well.AssembleWellRow(sys, w, a.dom.WellRowOf(wi), func(cellIndex int) int { return cellIndex }, a.blockDim, a.dom.NumComponents, 1, cap)
	}
	return nil
}

// ApplyUpdate chops the raw correction by spec.md §4.5 step 5's alpha
// (via chopCellUpdate, grounded on Cell.DSec and nr.ChopUpdate) before
// applying it, so a cell's saturations can never be driven negative or
// excursion past dSlim in one iteration; dT and cfl are left at zero
// here since this model is isothermal and a meaningful CFL number needs
// the step's dt, which isn't known until the step is accepted.
func (a *fimAssembler) ApplyUpdate(du []float64) (dP, dN, dS, dT, cfl float64) {
	bd := a.blockDim
	nc := a.dom.NumComponents
	dn := make([]float64, nc)
	for i, c := range a.dom.Cells {
		dp := du[i*bd+0]
		for k := 0; k < nc; k++ {
			dn[k] = du[i*bd+1+k]
		}
		alpha, ds := chopCellUpdate(c, dp, dn, a.dSlim)

		if math.Abs(alpha*dp) > dP {
			dP = math.Abs(alpha * dp)
		}
		c.P -= alpha * dp
		for k := 0; k < nc; k++ {
			if math.Abs(alpha*dn[k]) > dN {
				dN = math.Abs(alpha * dn[k])
			}
			c.N[k] -= alpha * dn[k]
		}
		for _, dsj := range ds {
			if v := math.Abs(alpha * dsj); v > dS {
				dS = v
			}
		}
	}
	for wi, w := range a.dom.Wells {
		row := a.dom.WellRowOf(wi)
		w.Pbh -= du[row*bd+0]
	}
	return
}
