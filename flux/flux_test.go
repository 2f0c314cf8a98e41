// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flux

import (
	"testing"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/linsys"
	"github.com/cpmech/resflow/rock"
	"github.com/stretchr/testify/assert"
)

func twoCellSetup(pb, pe float64) (*domain.Cell, *domain.Cell, *domain.Connection) {
	b := domain.NewCell(0, 2, 1, 3)
	e := domain.NewCell(1, 2, 1, 3)
	b.P, e.P = pb, pe
	b.Phase.Exists[0], e.Phase.Exists[0] = true, true
	b.Phase.Kr[0], e.Phase.Kr[0] = 0.5, 0.5
	b.Phase.Mu[0], e.Phase.Mu[0] = 1, 1
	b.Phase.Xi[0], e.Phase.Xi[0] = 10, 10
	b.Phase.X[0][0], e.Phase.X[0][0] = 1, 1
	conn := domain.NewConnection(0, 0, 1, domain.DirX, 2.0, 1, 2)
	return b, e, conn
}

func TestComputeFluxFlowsFromHighToLowPressure(t *testing.T) {
	a := &Assembler{Gravity: 0, NumComp: 2, NumPhase: 1}
	b, e, conn := twoCellSetup(2000, 1000)
	fluxes := a.ComputeFlux(conn, [2]*domain.Cell{b, e})
	assert.Len(t, fluxes, 1)
	assert.Greater(t, fluxes[0].Q, 0.0, "flow should go from high-pressure b to low-pressure e")
}

func TestAddToRhsConservesMass(t *testing.T) {
	a := &Assembler{Gravity: 0, NumComp: 2, NumPhase: 1}
	b, e, conn := twoCellSetup(2000, 1000)
	fluxes := a.ComputeFlux(conn, [2]*domain.Cell{b, e})
	sys := linsys.NewSystem(2, 3, 0, 2, 4)
	a.AddToRhs(sys, conn, 0, 1, 3, fluxes)
	assert.InDelta(t, -sys.B[0*3+1], sys.B[1*3+1], 1e-9)
	assert.InDelta(t, -sys.B[0*3+2], sys.B[1*3+2], 1e-9)
}

func TestFillRockPropsDerivesKrFromSaturation(t *testing.T) {
	kr := new(rock.CoreyStoneII)
	assert.NoError(t, kr.Init(fun.Params{}))
	pc := new(rock.BrooksCoreyPc)
	assert.NoError(t, pc.Init(fun.Params{&fun.P{N: "pcowentry", V: 5}, &fun.P{N: "pcogentry", V: 3}}))
	a := &Assembler{NumComp: 2, NumPhase: 3, RelPerm: kr, CapPress: pc}

	c := domain.NewCell(0, 2, 3, 4)
	c.Phase.S[phaseAqueous] = 0.6
	c.Phase.S[phaseOil] = 0.3
	c.Phase.S[phaseGas] = 0.1
	a.FillRockProps(c)

	assert.Greater(t, c.Phase.Kr[phaseAqueous], 0.0)
	assert.NotEqual(t, 0.0, c.Phase.Pc[phaseAqueous])
}

func TestAddVolumeBalanceWritesRowZeroOnly(t *testing.T) {
	a := &Assembler{NumComp: 2, NumPhase: 1}
	c := domain.NewCell(0, 2, 1, 3)
	c.Vp = 10
	c.Vf = 12
	c.DVfDP = 0.5
	c.DVfDN[0] = 1
	c.DVfDN[1] = 2

	sys := linsys.NewSystem(1, 3, 0, 1, 1)
	a.AddVolumeBalance(sys, 0, 3, c)

	assert.InDelta(t, -2, sys.B[0], 1e-9) // Vp - Vf

	dense := sys.Triplet().ToMatrix(nil).ToDense()
	assert.InDelta(t, -c.DVfDP, dense.Get(0, 0), 1e-9)
	assert.InDelta(t, -c.DVfDN[0], dense.Get(0, 1), 1e-9)
	assert.InDelta(t, -c.DVfDN[1], dense.Get(0, 2), 1e-9)
	assert.InDelta(t, 0, dense.Get(1, 0), 1e-9)
	assert.InDelta(t, 0, dense.Get(2, 0), 1e-9)
}
