// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import "math"

// RateCapability is the single thing CheckOptMode needs from the rest of
// the simulator: the maximum rate achievable at the well's limiting BHP
// (spec.md §4.4 "Control mode"), grounded on
// original_source/src/Well.cpp's CalInjRateMaxBHP/CalProdRateMinBHP.
type RateCapability func() float64

// CheckOptMode evaluates, at the start of a step, whether the well's
// nominal control mode remains feasible and switches it if not (spec.md
// §4.4 "On entering a step the well evaluates whether the nominal mode
// remains feasible"), grounded on Well::CheckOptMode.
//
//   - injector at BHP limit: compute max injectable rate; if it exceeds the
//     target rate, switch to rate mode; else clamp to BHP.
//   - producer at BHP limit: symmetric test against minimum BHP.
func (w *Well) CheckOptMode(maxRateAtLimitBHP RateCapability) {
	q := maxRateAtLimitBHP()
	if w.InitialMode == BHP {
		// nominal mode is already BHP: injectors may still be moved to a
		// generic rate mode if the BHP limit alone would overinject.
		if w.Type == Injector {
			if q > w.TargetRate {
				w.Mode = TotalRate
			} else {
				w.Mode = BHP
				w.Pbh = w.MaxBHP
			}
		} else {
			w.Mode = BHP
			w.Pbh = w.MinBHP
		}
		return
	}
	// nominal mode is a rate mode: test whether the BHP limit would be
	// violated while honouring it, and fall back to BHP mode if so.
	if w.Type == Injector {
		if q > w.TargetRate {
			w.Mode = w.InitialMode
		} else {
			w.Mode = BHP
			w.Pbh = w.MaxBHP
		}
	} else {
		if q > w.TargetRate {
			w.Mode = w.InitialMode
		} else {
			w.Mode = BHP
			w.Pbh = w.MinBHP
		}
	}
}

// PCheckResult enumerates the outcome of CheckLimits, mirroring the
// WELL_* return codes of original_source/src/Well.cpp's CheckP.
type PCheckResult int

const (
	AllCorrect PCheckResult = iota
	NegativePressure
	SwitchedToBHP
)

// CheckLimits re-examines bounds after a Newton iteration (spec.md §4.4
// "After each Newton step the well rechecks bounds; if the current mode
// would violate its complementary limit, it switches mode and flags 'not
// converged this iteration'"). The caller (nr package) treats SwitchedToBHP
// as a signal to continue iterating rather than accept convergence.
func (w *Well) CheckLimits() PCheckResult {
	w.ModeSwitchedThisIter = false
	if w.Pbh < 0 {
		return NegativePressure
	}
	for _, p := range w.Perfs {
		if p.State == Open && p.P < 0 {
			return NegativePressure
		}
	}
	if w.Type == Injector {
		if w.Mode != BHP && w.Pbh > w.MaxBHP {
			w.Mode = BHP
			w.Pbh = w.MaxBHP
			w.ModeSwitchedThisIter = true
			return SwitchedToBHP
		}
	} else {
		if w.Mode != BHP && w.Pbh < w.MinBHP {
			w.Mode = BHP
			w.Pbh = w.MinBHP
			w.ModeSwitchedThisIter = true
			return SwitchedToBHP
		}
	}
	return AllCorrect
}

// WellRowResidual evaluates the well's own equation row (spec.md §4.4
// "Assembly"): P_bh - P_limit = 0 in BHP mode, or
// sum_i w_i*q_i - q_target = 0 in rate modes, where w_i are the
// RateWeights (surface-unit conversion factors from a standard-condition
// flash, see SPEC_FULL.md).
func (w *Well) WellRowResidual() float64 {
	if w.Mode == BHP {
		limit := w.MaxBHP
		if w.Type == Producer {
			limit = w.MinBHP
		}
		return w.Pbh - limit
	}
	var sum float64
	for i, weight := range w.RateWeights {
		qi := w.totalComponentRate(i)
		sum += weight * qi
	}
	return sum - w.TargetRate
}

// RelativeResidual scales WellRowResidual by the quantity the well row is
// being driven to zero against -- the BHP limit in BHP mode, the target
// rate otherwise -- so that a residual term is comparable across wells
// regardless of their absolute pressure or rate scale (spec.md §4.5 step
// 6's "max_well_rel").
func (w *Well) RelativeResidual() float64 {
	res := w.WellRowResidual()
	scale := 1.0
	if w.Mode == BHP {
		limit := w.MaxBHP
		if w.Type == Producer {
			limit = w.MinBHP
		}
		if math.Abs(limit) > scale {
			scale = math.Abs(limit)
		}
	} else if math.Abs(w.TargetRate) > scale {
		scale = math.Abs(w.TargetRate)
	}
	return math.Abs(res) / scale
}

func (w *Well) totalComponentRate(component int) float64 {
	var total float64
	for _, p := range w.Perfs {
		if p.State == Open && component < len(p.Qi) {
			total += p.Qi[component]
		}
	}
	return total
}
