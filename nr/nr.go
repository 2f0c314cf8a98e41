// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nr implements the Newton-Raphson driver and adaptive
// time-step control (spec.md §4.5), grounded on
// original_source/include/OCPNRsuite.hpp's state machine and on
// fem.FEM/fem.Solver's rank-gated io.Pf logging idiom.
package nr

import "github.com/cpmech/gosl/io"

// StepOutcome mirrors OCPNRStateP: the coarse disposition of a time step
// once the Newton loop finishes (or aborts).
type StepOutcome int

const (
	Continue      StepOutcome = iota // step accepted, proceed to next time step
	Reset                            // step rejected, retry at the same dt
	ResetCut                         // step rejected, retry with dt cut
	ResetCutCFL                      // step rejected because CFL limit was exceeded, cut by CFL
)

func (s StepOutcome) String() string {
	switch s {
	case Continue:
		return "continue"
	case Reset:
		return "reset"
	case ResetCut:
		return "reset-cut"
	case ResetCutCFL:
		return "reset-cut-cfl"
	}
	return "unknown"
}

// ConvergeState mirrors OCPNRStateC: the per-iteration convergence
// verdict within a single time step's Newton loop.
type ConvergeState int

const (
	Converged ConvergeState = iota
	ContinueIter
	NotConverged
)

// Tolerances collects the convergence thresholds spec.md §4.5 "Convergence
// criteria" names, grounded on OCPNRsuite's dPmaxT/dNmaxT/dSmaxT/eVmaxT /
// cfl fields that are checked against tunable limits each iteration.
type Tolerances struct {
	DPmax      float64 // max allowed pressure change per iteration
	DNmax      float64 // max allowed relative component-mole change
	DSmax      float64 // max allowed saturation change
	DTmax      float64 // max allowed temperature change (thermal runs)
	ResTol     float64 // residual norm tolerance
	VolErrMax  float64 // max allowed |Vf-Vp|/Vp before a state is implausible
	MaxIter    int
	MaxCFL     float64
}

// DefaultTolerances returns conservative defaults in the same spirit as
// OCPControl.hpp's ctrlNR default block.
func DefaultTolerances() Tolerances {
	return Tolerances{
		DPmax: 200, DNmax: 0.2, DSmax: 0.2, DTmax: 20,
		ResTol: 1e-6, VolErrMax: 0.5, MaxIter: 15, MaxCFL: 0.8,
	}
}

// Trackers mirrors OCPNRsuite's per-timestep and per-iteration maximum
// trackers: the largest absolute change seen in each primary/secondary
// quantity, used both for convergence tests and to drive the next time
// step's size prediction.
type Trackers struct {
	DPmaxT, DNmaxT, DSmaxT, DTmaxT, DPmaxNR, DNmaxNR, DSmaxNR, DTmaxNR float64
	CFL, MaxCFL                                                       float64
	WellRelNR, WellRelT                                                float64 // spec.md §4.5 step 6 "max_well_rel"
	IterNR, IterLS                                                     int
}

// Reset clears per-time-step trackers at the start of a new step.
func (t *Trackers) Reset() {
	*t = Trackers{}
}

// UpdateIter folds one Newton iteration's observed changes into both the
// per-iteration and per-time-step maxima, mirroring OCPNRsuite::UpdateNRsuite.
// wellRel is the iteration's largest relative well-row residual
// (well.Well.RelativeResidual, maxed over every well by the calling
// Assembler's WellResidualMax).
func (t *Trackers) UpdateIter(dP, dN, dS, dT, cfl, wellRel float64) {
	t.DPmaxNR, t.DNmaxNR, t.DSmaxNR, t.DTmaxNR = dP, dN, dS, dT
	t.CFL = cfl
	t.WellRelNR = wellRel
	if cfl > t.MaxCFL {
		t.MaxCFL = cfl
	}
	if dP > t.DPmaxT {
		t.DPmaxT = dP
	}
	if dN > t.DNmaxT {
		t.DNmaxT = dN
	}
	if dS > t.DSmaxT {
		t.DSmaxT = dS
	}
	if dT > t.DTmaxT {
		t.DTmaxT = dT
	}
	if wellRel > t.WellRelT {
		t.WellRelT = wellRel
	}
	t.IterNR++
}

// CheckConvergence applies spec.md §4.5's convergence test: iterate while
// any tracked quantity exceeds tolerance, accept once the residual norm,
// every per-iteration change, and the largest relative well-row residual
// all fall within tolerance, and fail outright once MaxIter is exceeded.
//
// This collapses the spec's documented two-path test (a volume/mole-based
// path OR a pure |ΔP|∞/|ΔS|∞ path, each ANDed with max_well_rel≤tol) into
// one AND-of-maxima test -- a simplification already in place before this
// revision (see DESIGN.md); what changed here is that max_well_rel is now
// part of that AND instead of being absent altogether, which is the part
// of the simplification that was an outright correctness gap: a well
// could previously be arbitrarily far from its target/limit while every
// other tracked quantity converged.
func CheckConvergence(t *Trackers, resNorm float64, tol Tolerances) ConvergeState {
	if t.IterNR > tol.MaxIter {
		return NotConverged
	}
	if resNorm <= tol.ResTol &&
		t.DPmaxNR <= tol.DPmax &&
		t.DNmaxNR <= tol.DNmax &&
		t.DSmaxNR <= tol.DSmax &&
		t.DTmaxNR <= tol.DTmax &&
		t.WellRelNR <= tol.ResTol {
		return Converged
	}
	return ContinueIter
}

// ClassifyStep decides what to do with a time step once the Newton loop
// exits, per spec.md §4.5 "Time-step outcome classification": a CFL
// breach always forces a CFL-driven cut regardless of convergence (the
// loop may have "converged" to a physically inadmissible state), a
// non-convergence with nothing learned forces a plain retry, and any
// other failure forces a proportional cut.
func ClassifyStep(conv ConvergeState, t *Trackers, tol Tolerances) StepOutcome {
	if t.MaxCFL > tol.MaxCFL {
		return ResetCutCFL
	}
	switch conv {
	case Converged:
		return Continue
	case NotConverged:
		if t.IterNR <= 1 {
			return Reset
		}
		return ResetCut
	default:
		return ResetCut
	}
}

// NextDt predicts the next time-step size from this step's tracked
// maxima, the way OCPControl.hpp's CalNextTstep scales dt by the ratio of
// a target change to the observed maximum change, clamped to [dtMin, dtMax].
func NextDt(dtLast float64, t *Trackers, tol Tolerances, dtMin, dtMax float64) float64 {
	scale := 2.0 // largest allowed growth; the cap below enforces the same bound
	if t.DPmaxT > 0 {
		scale = min(scale, tol.DPmax/t.DPmaxT)
	}
	if t.DNmaxT > 0 {
		scale = min(scale, tol.DNmax/t.DNmaxT)
	}
	if t.DSmaxT > 0 {
		scale = min(scale, tol.DSmax/t.DSmaxT)
	}
	dt := dtLast * scale
	if dt > dtLast*2 {
		dt = dtLast * 2 // cap the growth rate, mirroring OCPControl's dtMaxGrowthRate
	}
	if dt < dtMin {
		dt = dtMin
	}
	if dt > dtMax {
		dt = dtMax
	}
	return dt
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// LogStepOutcome prints a one-line summary on every rank (it does no rank
// check of its own), the same
// io.Pf/io.PfGreen/io.PfRed idiom fem.FEM.onexit uses to report run status.
func LogStepOutcome(stepIdx int, dt float64, outcome StepOutcome, iters int) {
	switch outcome {
	case Continue:
		io.Pf("> step %d: dt=%g converged in %d iterations\n", stepIdx, dt, iters)
	default:
		io.PfRed("> step %d: dt=%g %s after %d iterations\n", stepIdx, dt, outcome, iters)
	}
}
