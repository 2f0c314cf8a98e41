// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nr

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/linsys"
)

// Assembler is whatever the current solution strategy (FIM/IMPEC/AIMc)
// uses to fill sys with the residual and Jacobian for the current
// iterate; the Driver knows nothing about phases, components or wells.
type Assembler interface {
	Assemble(sys *linsys.System) error
	// CheckPlausibility applies spec.md §4.5 step 2's coarse physical-
	// admissibility gate to the state Assemble just read: pressures,
	// temperatures and moles must stay non-negative and the volume-
	// balance error must stay under tol.VolErrMax. A false return tells
	// RunStep to abandon the solve and revert to the last committed
	// state via Restore.
	CheckPlausibility(tol Tolerances) bool
	// Snapshot records the current committed state (spec.md §3
	// "Lifecycle"); called once per RunStep before the Newton loop
	// starts, so Restore can revert to it on any rejection.
	Snapshot()
	// Restore reverts to the state Snapshot last recorded.
	Restore()
	// ApplyUpdate chops and applies du (the raw linear-solver output) to
	// the domain's primary unknowns, returning the per-quantity maximum
	// changes actually applied (after limiting) for convergence tracking.
	ApplyUpdate(du []float64) (dP, dN, dS, dT, cfl float64)
	// RecheckWellLimits re-examines every well's bounds after the Newton
	// update (well.Well.CheckLimits, spec.md §4.4); a true return means a
	// well switched mode this iteration, which RunStep treats as "not
	// converged this iteration" even if the residual-based test would
	// otherwise accept it.
	RecheckWellLimits() bool
	// WellResidualMax returns spec.md §4.5 step 6's "max_well_rel" term:
	// the largest relative well-row residual across every well, zero if
	// there are none.
	WellResidualMax() float64
}

// Driver runs the Newton loop for a single time step (spec.md §4.5
// "Newton-Raphson driver"): assemble, solve, exchange the solution's halo
// values, apply the chop-and-limit update, test convergence, repeat until
// Converged or NotConverged.
type Driver struct {
	Assembler Assembler
	Solver    linsys.Solver
	Partition *domain.Partition
	Tol       Tolerances

	trackers Trackers
}

// RunStep attempts one time step of size dt and returns its classification
// plus the tracked maxima, so the caller (solution-strategy orchestrator)
// can decide whether to accept, retry, or cut dt.
func (d *Driver) RunStep(sys *linsys.System) (StepOutcome, Trackers, error) {
	d.trackers.Reset()
	d.Assembler.Snapshot()
	for {
		sys.Reset()
		if err := d.Assembler.Assemble(sys); err != nil {
			return ResetCut, d.trackers, err
		}
		resNorm := residualNorm(sys.B)

		if !d.Assembler.CheckPlausibility(d.Tol) {
			d.Assembler.Restore()
			return ResetCut, d.trackers, nil
		}

		if _, err := d.Solver.Solve(sys); err != nil {
			return ResetCut, d.trackers, err
		}

		if d.Partition != nil && d.Partition.Distr {
			// one block of BlockDim words per bulk cell; well rows follow the cells
			if err := d.Partition.ExchangeScalar(sys.X[:d.Partition.Nb*sys.BlockDim], sys.BlockDim); err != nil {
				return ResetCut, d.trackers, err
			}
		}

		dP, dN, dS, dT, cfl := d.Assembler.ApplyUpdate(sys.X)
		if d.Partition != nil {
			cfl = domain.AllReduceMax(cfl)
		}
		switchedMode := d.Assembler.RecheckWellLimits()
		wellRel := d.Assembler.WellResidualMax()
		d.trackers.UpdateIter(dP, dN, dS, dT, cfl, wellRel)

		conv := CheckConvergence(&d.trackers, resNorm, d.Tol)
		if switchedMode && conv == Converged {
			conv = ContinueIter
		}
		outcome := ClassifyStep(conv, &d.trackers, d.Tol)
		switch outcome {
		case Continue:
			return Continue, d.trackers, nil
		case Reset, ResetCut, ResetCutCFL:
			if conv == ContinueIter {
				continue // keep iterating within this step
			}
			d.Assembler.Restore()
			return outcome, d.trackers, nil
		}
	}
}

func residualNorm(b []float64) float64 {
	var s float64
	for _, v := range b {
		s += v * v
	}
	return math.Sqrt(s)
}

// ChopUpdate applies spec.md §4.5's chop-and-limit rule to a raw Newton
// update for one cell's saturations: alpha = min_j min(dSlim/|dS_j|,
// 0.9*S_j/|dS_j|), so no saturation is driven negative and no single
// saturation moves by more than dSlim in one iteration.
func ChopUpdate(s []float64, ds []float64, dSlim float64) float64 {
	alpha := 1.0
	for j := range s {
		if ds[j] == 0 {
			continue
		}
		a := dSlim / math.Abs(ds[j])
		if a < alpha {
			alpha = a
		}
		if ds[j] < 0 {
			a2 := 0.9 * s[j] / -ds[j]
			if a2 < alpha {
				alpha = a2
			}
		}
	}
	if alpha < 0 {
		chk.Panic("nr: ChopUpdate: computed a negative step multiplier (%g); saturations are already out of bounds", alpha)
	}
	return alpha
}
