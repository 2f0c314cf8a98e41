// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/well"
)

// perfRateCapability implements well.BulkRateCapability with a simple
// total-mobility Peaceman inflow model: q_i = WI * (sum_j kr_j/mu_j) *
// z_i * (P_cell - P_perf), with z_i = N_i/Nt the bulk cell's overall mole
// fraction and P_perf the perforation's own pressure. Mobility and
// composition are always taken from the bulk cell, whichever way the
// flow goes; there is no upstream switch to the well bore. This intentionally does not split per-phase
// mobility out to each component the way a full multi-phase well model
// would (see DESIGN.md); it is sufficient to exercise the well
// row/column assembly wired in well.AssembleWellRow.
type perfRateCapability struct {
	dom *domain.Domain
}

func (c perfRateCapability) PerfRateDerivs(p *well.Perforation, component int) (q, dqDPbulk, dqDPbh float64) {
	cell := c.dom.Cells[p.CellIndex]
	var mobTotal float64
	for j, exists := range cell.Phase.Exists {
		if exists {
			mobTotal += cell.Phase.Kr[j] / cell.Phase.Mu[j]
		}
	}
	if mobTotal == 0 || component >= len(cell.N) {
		return 0, 0, 0
	}
	xi := 0.0
	if cell.Nt > 0 {
		xi = cell.N[component] / cell.Nt
	}
	potential := cell.P - p.P
	q = p.WI * mobTotal * xi * potential
	dqDPbulk = p.WI * mobTotal * xi
	dqDPbh = -p.WI * mobTotal * xi
	return
}

// totalRateCapability sums perfRateCapability's per-component rate and
// derivatives across all nc real components into a single pseudo-
// component channel, for strategies (IMPEC, AIMc's explicit cells) whose
// pressure-only system has no per-component well coupling of its own --
// the well row still needs *a* rate signal to drive BHP/rate control,
// just not one split by component.
type totalRateCapability struct {
	inner perfRateCapability
	nc    int
}

func (c totalRateCapability) PerfRateDerivs(p *well.Perforation, component int) (q, dqDPbulk, dqDPbh float64) {
	for i := 0; i < c.nc; i++ {
		qi, dqb, dqh := c.inner.PerfRateDerivs(p, i)
		q += qi
		dqDPbulk += dqb
		dqDPbh += dqh
	}
	return
}

// wellRateAtLimitBHP builds a well.RateCapability that reuses
// perfRateCapability's own rate formula but evaluated with every open
// perforation's pressure swapped to the well's limiting BHP (MaxBHP for
// an injector, MinBHP for a producer) plus that perforation's hydrostatic
// offset, the same "rate achievable at the BHP limit" test
// well.CheckOptMode needs (spec.md §4.4, original_source's
// CalInjRateMaxBHP/CalProdRateMinBHP).
func wellRateAtLimitBHP(w *well.Well, cap perfRateCapability) well.RateCapability {
	return func() float64 {
		limit := w.MaxBHP
		if w.Type == well.Producer {
			limit = w.MinBHP
		}
		var total float64
		for pi, p := range w.Perfs {
			if p.State != well.Open {
				continue
			}
			dg := 0.0
			if pi < len(w.DG) {
				dg = w.DG[pi]
			}
			saved := p.P
			p.P = limit + dg
			for i, weight := range w.RateWeights {
				q, _, _ := cap.PerfRateDerivs(p, i)
				total += weight * q
			}
			p.P = saved
		}
		return total
	}
}

// checkWellControls re-evaluates every well's feasible control mode and
// cross-flow state before the well row is assembled (spec.md §4.4 "On
// entering a step the well evaluates whether the nominal mode remains
// feasible"), grounded on original_source/src/Well.cpp's pairing of
// CheckOptMode with CheckCrossFlow ahead of assembly. CheckCrossFlow's
// perforation-state change takes effect immediately within this same
// Assemble call -- well.AssembleWellRow already skips closed
// perforations -- so no separate retry signal is needed here.
func checkWellControls(dom *domain.Domain) {
	cap := perfRateCapability{dom: dom}
	cellP := func(idx int) float64 { return dom.Cells[idx].P }
	for _, w := range dom.Wells {
		w.CheckOptMode(wellRateAtLimitBHP(w, cap))
		w.CheckCrossFlow(cellP)
	}
}

// recheckWellLimits re-examines every well's bounds after a Newton
// update (well.Well.CheckLimits, spec.md §4.4 "After each Newton step the
// well rechecks bounds"). It reports whether any well switched mode this
// iteration; a NegativePressure result isn't acted on directly here since
// it carries no correction of its own -- it surfaces as a
// statePlausible failure (strategy/plausibility.go) on the next
// iteration's pre-solve check instead.
func recheckWellLimits(dom *domain.Domain) bool {
	var switched bool
	for _, w := range dom.Wells {
		if w.CheckLimits() == well.SwitchedToBHP {
			switched = true
		}
	}
	return switched
}

// wellResidualMax returns spec.md §4.5 step 6's "max_well_rel" term: the
// largest of every well's RelativeResidual, zero when there are no wells.
func wellResidualMax(dom *domain.Domain) float64 {
	var m float64
	for _, w := range dom.Wells {
		if r := w.RelativeResidual(); r > m {
			m = r
		}
	}
	return m
}
