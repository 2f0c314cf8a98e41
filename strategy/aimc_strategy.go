// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"math"

	"github.com/cpmech/resflow/aimc"
	"github.com/cpmech/resflow/deck"
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/flux"
	"github.com/cpmech/resflow/linsys"
	"github.com/cpmech/resflow/nr"
	"github.com/cpmech/resflow/pvt"
	"github.com/cpmech/resflow/well"
)

func init() {
	Register("aimc", func(dom *domain.Domain, dk *deck.Deck, sol linsys.Solver, fl pvt.Flasher, fluxAsm *flux.Assembler) Strategy {
		return &AIMc{Domain: dom, Deck: dk, Solver: sol, Flasher: fl, FluxAsm: fluxAsm}
	})
}

// AIMc implements the adaptive-implicit strategy (spec.md §4.6-4.7): one
// shared Jacobian carries every cell's pressure row, but only cells
// aimc.Classify tags implicit also carry their component rows -- cells
// tagged explicit have those rows pinned to identity in the linear
// system and have their composition advanced explicitly afterward, the
// same way IMPEC treats every cell. Grounded on spec.md §4.6's
// "explicit cells contribute only the IMPEC-style pressure unknown".
type AIMc struct {
	Domain     *domain.Domain
	Deck       *deck.Deck
	Solver     linsys.Solver
	Flasher    pvt.Flasher
	FluxAsm    *flux.Assembler
	Thresholds aimc.Thresholds
}

func (s *AIMc) Run(tFinal float64) error {
	dom := s.Domain
	npri := dom.NumPrimary
	gbegin, gend := dom.Part.GlobalBeginEnd()
	sys := linsys.NewSystem(dom.NumBlockRows(), npri, gbegin, gend, len(dom.Connections)*2+len(dom.Cells))

	th := s.Thresholds
	if th.PropagateHops == 0 && th.CFLLimit == 0 {
		th = aimc.DefaultThresholds()
	}
	tol := nr.DefaultTolerances()
	a := &aimcAssembler{dom: dom, flasher: s.Flasher, fluxAsm: s.FluxAsm, blockDim: npri, nc: dom.NumComponents, th: th, dSlim: tol.DSmax}
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
	return TimeLoop(drv, sys, dom, s.Deck, tFinal, dtInit, dtMin, dtMax, a.advanceExplicitComposition)
}

type aimcAssembler struct {
	dom      *domain.Domain
	flasher  pvt.Flasher
	fluxAsm  *flux.Assembler
	blockDim int
	nc       int
	th       aimc.Thresholds
	dSlim    float64
	snapshotState
}

func (a *aimcAssembler) Snapshot()                       { a.take(a.dom) }
func (a *aimcAssembler) Restore()                        { a.restore(a.dom) }
func (a *aimcAssembler) CheckPlausibility(tol nr.Tolerances) bool { return statePlausible(a.dom, tol) }
func (a *aimcAssembler) RecheckWellLimits() bool          { return recheckWellLimits(a.dom) }
func (a *aimcAssembler) WellResidualMax() float64         { return wellResidualMax(a.dom) }

func (a *aimcAssembler) Assemble(sys *linsys.System) error {
	for i, c := range a.dom.Cells {
		if err := a.flasher.Flash(c, true); err != nil {
			return err
		}
		a.fluxAsm.FillRockProps(c)
		a.fluxAsm.AddVolumeBalance(sys, i, a.blockDim, c)
	}
	checkWellControls(a.dom)

	wellCells := make([]int, 0)
	for _, w := range a.dom.Wells {
		for _, p := range w.Perfs {
			wellCells = append(wellCells, p.CellIndex)
		}
	}
	cfl := make([]float64, len(a.dom.Cells))
	volErr := make([]float64, len(a.dom.Cells))
	for i, c := range a.dom.Cells {
		if c.Vp > 0 {
			volErr[i] = math.Abs(c.Vf-c.Vp) / c.Vp
		}
	}
	for _, conn := range a.dom.Connections {
		b := a.dom.Cells[conn.B]
		e := a.dom.Cells[conn.E]
		q := totalQ(a.fluxAsm.ComputeFlux(conn, [2]*domain.Cell{b, e}))
		c := math.Abs(q)
		if c > cfl[conn.B] {
			cfl[conn.B] = c
		}
		if c > cfl[conn.E] {
			cfl[conn.E] = c
		}
	}
	aimc.Classify(a.dom.Cells, a.dom.Connections, cfl, volErr, wellCells, a.th)
	a.reconcileHaloTags()

	for _, conn := range a.dom.Connections {
		b := a.dom.Cells[conn.B]
		e := a.dom.Cells[conn.E]
		a.addConnection(sys, conn, b, e)
	}
	for _, c := range a.dom.Cells {
		if !c.Implicit {
			a.pinExplicitRows(sys, c)
		}
	}

	cap := perfRateCapability{dom: a.dom}
	for wi, w := range a.dom.Wells {
		well.AssembleWellRow(sys, w, a.dom.WellRowOf(wi), func(ci int) int { return ci }, a.blockDim, a.dom.NumComponents, 1, cap)
	}
	return nil
}

// addConnection always adds the pressure (row 0) contribution, but adds
// a cell's component rows (1..nc) only when that endpoint is tagged
// implicit -- an explicit cell's component rows stay untouched by any
// connection and are pinned to identity by pinExplicitRows below.
func (a *aimcAssembler) addConnection(sys *linsys.System, conn *domain.Connection, b, e *domain.Cell) {
	const h = 1e-4
	bd := a.blockDim
	base := a.fluxAsm.ComputeFlux(conn, [2]*domain.Cell{b, e})
	baseQ := totalQ(base)
	baseNi := sumNi(base, a.nc)

	rb := make([]float64, bd)
	re := make([]float64, bd)
	rb[0] = -baseQ
	re[0] = baseQ
	for i, ni := range baseNi {
		if b.Implicit {
			rb[1+i] -= ni
		}
		if e.Implicit {
			re[1+i] += ni
		}
	}
	sys.AddResidual(conn.B, rb)
	sys.AddResidual(conn.E, re)

	perturb := func(cell *domain.Cell) (dQ float64, dNi []float64) {
		orig := cell.P
		cell.P += h
		f := a.fluxAsm.ComputeFlux(conn, [2]*domain.Cell{b, e})
		cell.P = orig
		dQ = (totalQ(f) - baseQ) / h
		ni := sumNi(f, a.nc)
		dNi = make([]float64, a.nc)
		for i := range ni {
			dNi[i] = (ni[i] - baseNi[i]) / h
		}
		return
	}
	dQb, dNib := perturb(b)
	dQe, dNie := perturb(e)

	blockBB := make([]float64, bd*bd)
	blockBE := make([]float64, bd*bd)
	blockEE := make([]float64, bd*bd)
	blockEB := make([]float64, bd*bd)
	blockBB[0] = -dQb
	blockBE[0] = -dQe
	blockEE[0] = dQe
	blockEB[0] = dQb
	for i := 0; i < a.nc; i++ {
		row := 1 + i
		if b.Implicit {
			blockBB[row*bd+0] = -dNib[i]
			blockBE[row*bd+0] = -dNie[i]
		}
		if e.Implicit {
			blockEE[row*bd+0] = dNie[i]
			blockEB[row*bd+0] = dNib[i]
		}
	}
	sys.AddBlock(conn.B, conn.B, blockBB)
	sys.AddBlock(conn.B, conn.E, blockBE)
	sys.AddBlock(conn.E, conn.E, blockEE)
	sys.AddBlock(conn.E, conn.B, blockEB)
}

// pinExplicitRows adds an identity diagonal to an explicit cell's
// component rows, the rows no connection or well ever writes to for
// that cell, so the linear solve leaves those unknowns at zero change
// rather than handing the solver a singular block.
func (a *aimcAssembler) pinExplicitRows(sys *linsys.System, c *domain.Cell) {
	bd := a.blockDim
	diag := make([]float64, bd*bd)
	for i := 0; i < a.nc; i++ {
		row := 1 + i
		diag[row*bd+row] = 1
	}
	sys.AddBlock(c.Id, c.Id, diag)
}

// reconcileHaloTags exchanges each ghost cell's freshly classified
// Implicit tag across rank boundaries and applies aimc.ReconcileHalo's
// max rule, per spec.md §4.6: a cell classified explicit from this
// rank's own view but implicit on the owning rank must flip to implicit
// here too, since a shared connection can't have one side treat it
// implicitly and the other explicitly. On a single-rank run
// dom.Part.ExchangeScalar is a documented no-op (domain.Partition.Distr
// false), so this degrades to nothing, matching Classify's own output.
func (a *aimcAssembler) reconcileHaloTags() {
	part := a.dom.Part
	if part == nil || !part.Distr {
		return
	}
	field := make([]float64, part.Nb)
	for i, c := range a.dom.Cells {
		if c.Implicit {
			field[i] = 1
		}
	}
	if err := part.ExchangeScalar(field, 1); err != nil {
		return
	}
	haloIndices := make([]int, 0, part.Nb-part.NbInterior)
	haloTags := make([]bool, 0, part.Nb-part.NbInterior)
	for i := part.NbInterior; i < part.Nb; i++ {
		haloIndices = append(haloIndices, i)
		haloTags = append(haloTags, field[i] > 0.5)
	}
	aimc.ReconcileHalo(a.dom.Cells, haloTags, haloIndices)
}

func sumNi(fluxes []flux.PhaseFlux, nc int) []float64 {
	s := make([]float64, nc)
	for _, f := range fluxes {
		for i, v := range f.Ni {
			s[i] += v
		}
	}
	return s
}

// ApplyUpdate chops each cell's correction by the same alpha rule
// FIM/IMPEC use (chopCellUpdate): an explicit cell carries no real
// component delta (its rows were pinned to identity in Assemble), so it
// passes a nil dn and only its pressure is chopped/applied; an implicit
// cell passes its full per-component dn, exactly like FIM.
func (a *aimcAssembler) ApplyUpdate(du []float64) (dP, dN, dS, dT, cfl float64) {
	bd := a.blockDim
	dn := make([]float64, a.nc)
	for i, c := range a.dom.Cells {
		dp := du[i*bd+0]
		var alpha float64
		var ds []float64
		if c.Implicit {
			for k := 0; k < a.nc; k++ {
				dn[k] = du[i*bd+1+k]
			}
			alpha, ds = chopCellUpdate(c, dp, dn, a.dSlim)
		} else {
			alpha, ds = chopCellUpdate(c, dp, nil, a.dSlim)
		}

		if math.Abs(alpha*dp) > dP {
			dP = math.Abs(alpha * dp)
		}
		c.P -= alpha * dp
		for _, dsj := range ds {
			if v := math.Abs(alpha * dsj); v > dS {
				dS = v
			}
		}
		if !c.Implicit {
			continue
		}
		for k := 0; k < a.nc; k++ {
			if math.Abs(alpha*dn[k]) > dN {
				dN = math.Abs(alpha * dn[k])
			}
			c.N[k] -= alpha * dn[k]
		}
	}
	for wi, w := range a.dom.Wells {
		row := a.dom.WellRowOf(wi)
		w.Pbh -= du[row*bd+0]
	}
	return
}

// advanceExplicitComposition runs IMPEC's forward-Euler transport update
// restricted to cells this step classified explicit; implicit cells'
// composition already moved inside the Newton solve.
func (a *aimcAssembler) advanceExplicitComposition(dt float64) {
	dN := make([][]float64, len(a.dom.Cells))
	for i := range dN {
		dN[i] = make([]float64, a.nc)
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
		if c.Implicit {
			continue
		}
		for k := 0; k < a.nc; k++ {
			c.N[k] += dt * dN[i][k]
		}
	}
}
