// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"testing"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/resflow/deck"
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/flux"
	"github.com/cpmech/resflow/linsys"
	"github.com/cpmech/resflow/pvt"
	"github.com/cpmech/resflow/rock"
	"github.com/cpmech/resflow/well"
	"github.com/stretchr/testify/assert"
)

// waterOnlyFlasher returns a BlackOil model whose oil/gas correlations are
// never exercised: every test cell in this file carries component moles
// only in the water slot, so the aqueous phase is the sole phase that ever
// exists (per BlackOil.Flash's nw/no/ngTotal existence tests).
func waterOnlyFlasher() *pvt.BlackOil {
	o := new(pvt.BlackOil)
	o.Init(fun.Params{
		&fun.P{N: "Bw0", V: 1.0},
		&fun.P{N: "Cw", V: 1e-6},
		&fun.P{N: "MuW", V: 1.0},
		&fun.P{N: "RhoWS", V: 1000},
	})
	return o
}

func waterOnlyRelPerm() rock.RelPermModel {
	kr := new(rock.CoreyStoneII)
	if err := kr.Init(fun.Params{}); err != nil {
		panic(err)
	}
	return kr
}

// TestScheduleWells verifies the per-step well-control resync that
// TimeLoop applies from a deck's WellControlEntry schedule: a well takes
// on whatever schedule entry is active at t (the entry with the largest
// Time <= t), and a well beyond the deck's well list or with an empty
// schedule is left untouched.
func TestScheduleWells(t *testing.T) {
	w0 := well.NewWell("INJ1", well.Injector, 1000, 1)
	w0.Mode = well.BHP
	w1 := well.NewWell("PROD1", well.Producer, 1000, 1)
	w1.Mode = well.BHP
	dom := &domain.Domain{Wells: []*well.Well{w0, w1}}

	dk := &deck.Deck{
		Wells: []deck.WellDeck{
			{
				Name: "INJ1",
				Schedule: []deck.WellControlEntry{
					{Time: 0, Mode: "bhp", Target: 0},
					{Time: 10, Mode: "wrate", Target: 500},
				},
			},
			{Name: "PROD1"}, // no schedule: stays whatever it was constructed with
		},
	}

	scheduleWells(dom, dk, 0)
	assert.Equal(t, well.BHP, w0.Mode)
	assert.Equal(t, well.BHP, w1.Mode, "well with no schedule entries is left alone")

	scheduleWells(dom, dk, 10)
	assert.Equal(t, well.WRate, w0.Mode)
	assert.InDelta(t, 500, w0.TargetRate, 1e-9)

	scheduleWells(dom, dk, 999)
	assert.Equal(t, well.WRate, w0.Mode, "the last entry at or before t stays active past its own time")
}

// TestIMPECAdvanceCompositionConservesMoles checks that IMPEC's explicit
// transport step moves exactly as many moles out of the upstream cell as
// it moves into the downstream one: dN[b] and dN[e] are built from the
// same per-connection Ni slice with opposite sign in advanceComposition's
// accumulation loop, so summing N over all cells before and after a step
// must be invariant in a domain with no wells.
func TestIMPECAdvanceCompositionConservesMoles(t *testing.T) {
	nc := 3
	b := domain.NewCell(0, nc, 3, nc+1)
	e := domain.NewCell(1, nc, 3, nc+1)
	b.P, e.P = 2000, 1000
	b.N[0], e.N[0] = 100, 50
	b.Nt, e.Nt = 100, 50

	fl := waterOnlyFlasher()
	fluxAsm := &flux.Assembler{NumComp: nc, NumPhase: fl.NumPhases(), RelPerm: waterOnlyRelPerm()}
	assert.NoError(t, fl.Flash(b, false))
	assert.NoError(t, fl.Flash(e, false))
	fluxAsm.FillRockProps(b)
	fluxAsm.FillRockProps(e)

	conn := domain.NewConnection(0, 0, 1, domain.DirX, 5.0, fl.NumPhases(), nc)
	dom := &domain.Domain{Cells: []*domain.Cell{b, e}, Connections: []*domain.Connection{conn}, NumComponents: nc}

	a := &impecAssembler{dom: dom, flasher: fl, fluxAsm: fluxAsm}

	totalBefore := sumMoles(dom.Cells, nc)
	a.advanceComposition(0.1)
	totalAfter := sumMoles(dom.Cells, nc)

	assert.InDeltaSlice(t, totalBefore, totalAfter, 1e-9)
	assert.Less(t, e.N[0], 50.0+1e-9, "some water should have already existed or flowed in, but b started at the higher pressure")
	assert.Greater(t, b.N[0]+e.N[0], 0.0)
}

func sumMoles(cells []*domain.Cell, nc int) []float64 {
	total := make([]float64, nc)
	for _, c := range cells {
		for k := 0; k < nc; k++ {
			total[k] += c.N[k]
		}
	}
	return total
}

// TestAIMcAdvanceExplicitCompositionSkipsImplicitCells checks that
// advanceExplicitComposition only ever touches a cell tagged explicit;
// an implicit cell's moles (already moved inside the Newton solve) must
// come out of the call completely unchanged.
func TestAIMcAdvanceExplicitCompositionSkipsImplicitCells(t *testing.T) {
	nc := 3
	b := domain.NewCell(0, nc, 3, nc+1)
	e := domain.NewCell(1, nc, 3, nc+1)
	b.P, e.P = 2000, 1000
	b.N[0], e.N[0] = 100, 50
	b.Nt, e.Nt = 100, 50
	b.Implicit = true // b's composition already advanced by the Newton solve
	e.Implicit = false

	fl := waterOnlyFlasher()
	fluxAsm := &flux.Assembler{NumComp: nc, NumPhase: fl.NumPhases(), RelPerm: waterOnlyRelPerm()}
	assert.NoError(t, fl.Flash(b, true))
	assert.NoError(t, fl.Flash(e, true))
	fluxAsm.FillRockProps(b)
	fluxAsm.FillRockProps(e)

	conn := domain.NewConnection(0, 0, 1, domain.DirX, 5.0, fl.NumPhases(), nc)
	dom := &domain.Domain{Cells: []*domain.Cell{b, e}, Connections: []*domain.Connection{conn}, NumComponents: nc}

	a := &aimcAssembler{dom: dom, flasher: fl, fluxAsm: fluxAsm, blockDim: nc + 1, nc: nc}

	bBefore := append([]float64(nil), b.N...)
	a.advanceExplicitComposition(0.1)

	assert.Equal(t, bBefore, b.N, "implicit cell's moles must not move in the explicit sweep")
}

// TestFIMRunAtEquilibriumConverges drives FIM for one time step on a
// single well-controlled cell that starts exactly at the state its own
// volume-balance and well-row equations already call zero: Vp is read
// back from a flash performed before the run (so Vp-Vf=0 at t=0) and the
// well's BHP is pinned to the cell's own pressure with a target rate of
// zero. The very first Newton iteration should see a near-zero residual
// and accept the step without needing more than one retry.
func TestFIMRunAtEquilibriumConverges(t *testing.T) {
	nc := 3
	c := domain.NewCell(0, nc, 3, nc+1)
	c.P = 2000
	c.N[0] = 100
	c.Nt = 100

	fl := waterOnlyFlasher()
	assert.NoError(t, fl.Flash(c, false))
	c.Vp = c.Vf // the cell starts exactly volume-balanced

	w := well.NewWell("P1", well.Producer, 1000, nc)
	w.Mode = well.BHP
	w.MinBHP = c.P
	w.Pbh = c.P
	perf := well.NewPerforation(0, 0, 0.1, well.PerfZ, c.Depth, fl.NumPhases(), nc)
	w.AddPerforation(perf)

	dom := &domain.Domain{
		Cells:         []*domain.Cell{c},
		Wells:         []*well.Well{w},
		NumComponents: nc,
		NumPrimary:    nc + 1,
		Part:          domain.NewPartition(1, 1, nil),
	}

	fluxAsm := &flux.Assembler{NumComp: nc, NumPhase: fl.NumPhases(), RelPerm: waterOnlyRelPerm()}
	dk := &deck.Deck{Tuning: []deck.TuningWindow{{DtInit: 1, DtMin: 1e-3, DtMax: 1}}}

	f := &FIM{Domain: dom, Deck: dk, Solver: &linsys.DirectGaussSolver{}, Flasher: fl, FluxAsm: fluxAsm}
	err := f.Run(1)
	assert.NoError(t, err)
}
