// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalWIPeacemanInvariantUnderKxKySwap(t *testing.T) {
	// Peaceman WI must be invariant under exchanging kx<->ky and the
	// perforation direction accordingly (spec.md §8 "Boundary behaviour").
	kx := []float64{200}
	ky := []float64{100}
	kz := []float64{50}
	dx := []float64{30}
	dy := []float64{30}
	dz := []float64{10}

	w1 := NewWell("A", Producer, 0, 1)
	w1.AddPerforation(NewPerforation(0, 0, 0.1, PerfZ, 1000, 1, 1))
	assert.NoError(t, w1.CalWIPeaceman(kx, ky, kz, dx, dy, dz))

	w2 := NewWell("B", Producer, 0, 1)
	w2.AddPerforation(NewPerforation(0, 0, 0.1, PerfZ, 1000, 1, 1))
	assert.NoError(t, w2.CalWIPeaceman(ky, kx, kz, dx, dy, dz))

	assert.InDelta(t, w1.Perfs[0].WI, w2.Perfs[0].WI, 1e-9)
}

func TestCheckOptModeInjectorSwitchesToRateWhenFeasible(t *testing.T) {
	w := NewWell("INJ1", Injector, 0, 1)
	w.InitialMode = BHP
	w.MaxBHP = 5000
	w.TargetRate = 100
	w.CheckOptMode(func() float64 { return 200 }) // can inject more than target
	assert.Equal(t, TotalRate, w.Mode)
}

func TestCheckOptModeInjectorClampsToBHPWhenInfeasible(t *testing.T) {
	w := NewWell("INJ1", Injector, 0, 1)
	w.InitialMode = BHP
	w.MaxBHP = 5000
	w.TargetRate = 100
	w.CheckOptMode(func() float64 { return 50 }) // cannot reach target at BHP limit
	assert.Equal(t, BHP, w.Mode)
	assert.Equal(t, 5000.0, w.Pbh)
}

func TestCheckOptModeProducerSwitchesToBHP(t *testing.T) {
	w := NewWell("PROD1", Producer, 0, 1)
	w.InitialMode = ORate
	w.MinBHP = 1000
	w.TargetRate = 1000
	w.CheckOptMode(func() float64 { return 500 }) // cannot sustain target rate
	assert.Equal(t, BHP, w.Mode)
	assert.Equal(t, 1000.0, w.Pbh)
}

func TestCheckCrossFlowClosesLowPressurePerf(t *testing.T) {
	w := NewWell("PROD1", Producer, 0, 1)
	pHigh := NewPerforation(0, 10, 0.1, PerfZ, 1000, 1, 1)
	pHigh.P = 2000
	pLow := NewPerforation(1, 10, 0.1, PerfZ, 1100, 1, 1)
	pLow.P = 2500
	w.AddPerforation(pHigh)
	w.AddPerforation(pLow)

	bulkP := map[int]float64{0: 2200, 1: 2000} // cell 1's pressure is below perf pressure -> crossflow
	changed := w.CheckCrossFlow(func(i int) float64 { return bulkP[i] })

	assert.True(t, changed)
	assert.Equal(t, Closed, w.Perfs[1].State)
	assert.Equal(t, Open, w.Perfs[0].State)
}

func TestCheckCrossFlowReopensDeepestWhenAllClosed(t *testing.T) {
	w := NewWell("PROD1", Producer, 0, 1)
	p := NewPerforation(0, 10, 0.1, PerfZ, 1000, 1, 1)
	p.P = 3000
	w.AddPerforation(p)

	bulkP := map[int]float64{0: 1000} // far below perf pressure -> would close
	w.CheckCrossFlow(func(i int) float64 { return bulkP[i] })

	assert.Equal(t, Open, w.Perfs[0].State, "the only (deepest) perforation must be reopened")
}

func TestWellRowResidualBHPMode(t *testing.T) {
	w := NewWell("PROD1", Producer, 0, 1)
	w.Mode = BHP
	w.MinBHP = 1500
	w.Pbh = 1500
	assert.Equal(t, 0.0, w.WellRowResidual())
	w.Pbh = 1600
	assert.True(t, math.Abs(w.WellRowResidual()-100) < 1e-12)
}

func TestWellRowResidualRateMode(t *testing.T) {
	w := NewWell("PROD1", Producer, 0, 2)
	w.Mode = ORate
	w.TargetRate = 1000
	w.RateWeights = []float64{1, 0}
	perf := NewPerforation(0, 10, 0.1, PerfZ, 1000, 1, 2)
	perf.Qi = []float64{1000, 500}
	w.AddPerforation(perf)
	assert.InDelta(t, 0.0, w.WellRowResidual(), 1e-12)
}
