// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flux

import (
	"math"

	"github.com/cpmech/resflow/domain"
)

// BoundaryHeatLoss implements the optional thermal-loss term SPEC_FULL.md
// adds for thermal strategies, grounded on
// original_source/include/HeatLoss.hpp's HeatLossMethod01: a semi-infinite
// overburden/underburden conduction model driven by an auxiliary variable
// I that accumulates with sqrt(time), rather than solving the burden's
// own heat equation explicitly.
type BoundaryHeatLoss struct {
	BK float64 // burden rock thermal conductivity
	BD float64 // burden rock thermal diffusivity

	nb          int
	i, hl, hlT  []float64
	li, lhl, lhlT []float64
	refTemp     []float64
}

// NewBoundaryHeatLoss allocates heat-loss bookkeeping for nb boundary cells.
func NewBoundaryHeatLoss(bk, bd float64, nb int) *BoundaryHeatLoss {
	h := &BoundaryHeatLoss{BK: bk, BD: bd, nb: nb}
	h.i = make([]float64, nb)
	h.hl = make([]float64, nb)
	h.hlT = make([]float64, nb)
	h.li = make([]float64, nb)
	h.lhl = make([]float64, nb)
	h.lhlT = make([]float64, nb)
	h.refTemp = make([]float64, nb)
	return h
}

// SetReferenceTemperature records the initial (undisturbed) temperature
// for boundary cell idx, the baseline CalHeatLoss measures T against.
func (h *BoundaryHeatLoss) SetReferenceTemperature(idx int, t float64) { h.refTemp[idx] = t }

// CalHeatLoss updates the heat-loss rate hl and its derivative hlT for
// boundary cell idx at time t with step size dt: hl = bK*(T-Tref)/sqrt(pi*bD*t)
// and hlT = bK/sqrt(pi*bD*t), evaluated directly without tracking the
// burden's temperature profile. The auxiliary variable I is advanced by
// sqrt(dt) on every call and saved/restored with the step, but hl and
// hlT do not read it.
func (h *BoundaryHeatLoss) CalHeatLoss(idx int, t, dt, temperature float64) {
	if t <= 0 {
		return
	}
	dT := temperature - h.refTemp[idx]
	h.i[idx] += math.Sqrt(dt)
	denom := math.Sqrt(math.Pi * h.BD * t)
	if denom == 0 {
		return
	}
	h.hl[idx] = h.BK * dT / denom
	h.hlT[idx] = h.BK / denom
}

func (h *BoundaryHeatLoss) ResetToLastTimeStep() {
	copy(h.i, h.li)
	copy(h.hl, h.lhl)
	copy(h.hlT, h.lhlT)
}

func (h *BoundaryHeatLoss) UpdateLastTimeStep() {
	copy(h.li, h.i)
	copy(h.lhl, h.hl)
	copy(h.lhlT, h.hlT)
}

// Apply returns a function with the HeatLoss signature that reports this
// model's current rate hl for boundary cell idx, whatever connection and
// cells it is given. No code in this module installs it as
// Assembler.HeatLoss.
func (h *BoundaryHeatLoss) Apply(idx int) func(conn *domain.Connection, cells []*domain.Cell) float64 {
	return func(conn *domain.Connection, cells []*domain.Cell) float64 {
		return h.hl[idx]
	}
}
