// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"testing"

	"github.com/cpmech/resflow/domain"
	"github.com/stretchr/testify/assert"
)

func sampleBlackOil() *BlackOil {
	return &BlackOil{
		Bw0: 1.0, Cw: 3e-6, MuW: 0.5, RhoWS: 1000,
		Pbub: 20000, Bo0: 1.2, Co: 1e-5, Rs0: 0, RsSlope: 0.01, MuO: 2.0, RhoOS: 800,
		Bg0: 0.005, Cg: 5e-5, MuG: 0.02, RhoGS: 0.8,
	}
}

func TestBlackOilOnlyOilAndWaterBelowSaturation(t *testing.T) {
	bo := sampleBlackOil()
	cell := domain.NewCell(0, 3, 3, 4)
	cell.P = 10000
	cell.N[compWater] = 10
	cell.N[compOil] = 10
	cell.N[compGas] = 0.5 // less than Rs(P)*no, so fully dissolved
	cell.Nt = 20.5

	err := bo.Flash(cell, false)
	assert.NoError(t, err)
	assert.True(t, cell.Phase.Exists[phaseAqueous])
	assert.True(t, cell.Phase.Exists[phaseOil])
	assert.False(t, cell.Phase.Exists[phaseGas])
	assert.Greater(t, cell.Vf, 0.0)
}

func TestBlackOilFreeGasAppearsAboveSaturation(t *testing.T) {
	bo := sampleBlackOil()
	cell := domain.NewCell(0, 3, 3, 4)
	cell.P = 10000
	cell.N[compWater] = 10
	cell.N[compOil] = 10
	cell.N[compGas] = 5000 // far more than can dissolve
	cell.Nt = 5020

	err := bo.Flash(cell, false)
	assert.NoError(t, err)
	assert.True(t, cell.Phase.Exists[phaseGas])
	sum := cell.Phase.S[phaseAqueous] + cell.Phase.S[phaseOil] + cell.Phase.S[phaseGas]
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSkipStabilityNilHessianDoesNotSkip(t *testing.T) {
	s := NewSkipStability(1, 2)
	z := []float64{0.3, 0.7}
	s.UpdateAfterStability(0, 1000, 350, z, true, nil)
	assert.False(t, s.ShouldSkip(0, 1000, 350, z), "minEigen from a nil hessian must not enable skipping")
}

func TestSkipStabilityResetRestoresLastStep(t *testing.T) {
	s := NewSkipStability(1, 1)
	s.UpdateAfterStability(0, 1000, 350, []float64{1}, true, nil)
	s.UpdateLastTimeStep()
	s.flag[0] = false
	s.ResetToLastTimeStep()
	assert.True(t, s.flag[0])
}
