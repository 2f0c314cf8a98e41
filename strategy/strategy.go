// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package strategy orchestrates a full run: it owns the domain, picks a
// solution strategy (FIM/IMPEC/AIMc), and drives the time-step loop,
// grounded on fem.FEM's NewFEM/Run pair and fem's solverallocators
// registry-of-constructors pattern.
package strategy

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/resflow/deck"
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/flux"
	"github.com/cpmech/resflow/linsys"
	"github.com/cpmech/resflow/nr"
	"github.com/cpmech/resflow/pvt"
	"github.com/cpmech/resflow/well"
)

// Strategy implements one of FIM/IMPEC/AIMc's time-step loop, mirroring
// fem.FEsolver's single-method Run contract.
type Strategy interface {
	Run(tFinal float64) error
}

// Allocator builds one strategy instance from the pieces every
// FIM/IMPEC/AIMc needs: the domain/deck/solver triple plus the PVT flash
// and flux assembler shared by all three (spec.md §4.2/§4.4 apply
// identically regardless of which strategy drives the time loop).
type Allocator func(dom *domain.Domain, dk *deck.Deck, sol linsys.Solver, fl pvt.Flasher, fluxAsm *flux.Assembler) Strategy

// allocators holds all registered strategies, the same
// name-to-constructor map shape as fem.go's solverallocators.
var allocators = make(map[string]Allocator)

// Register adds a strategy constructor under name; called from each
// strategy's init(), mirroring mconduct/mreten's allocators registration.
func Register(name string, alloc Allocator) {
	allocators[name] = alloc
}

// Runner holds everything one simulation run needs: the domain, deck,
// linear solver, and rank/processor bookkeeping, mirroring fem.FEM's
// top-level fields (Sim, Domains, Solver, Nproc, Proc, ShowMsg).
type Runner struct {
	Deck    *deck.Deck
	Domain  *domain.Domain
	Solver  linsys.Solver
	Nproc   int
	Proc    int
	ShowMsg bool

	strategy Strategy
}

// NewRunner wires a deck and domain into the strategy named by
// dk.Strategy, the same pattern NewFEM uses to look up
// solverallocators[o.Sim.Solver.Type] and chk.Panic if the name is
// unknown.
func NewRunner(dk *deck.Deck, dom *domain.Domain, sol linsys.Solver, fl pvt.Flasher, fluxAsm *flux.Assembler, verbose bool) *Runner {
	r := &Runner{Deck: dk, Domain: dom, Solver: sol}
	r.Nproc = 1
	if mpi.IsOn() {
		r.Proc = mpi.Rank()
		r.Nproc = mpi.Size()
	}
	r.ShowMsg = verbose && r.Proc == 0

	alloc, ok := allocators[dk.Strategy]
	if !ok {
		chk.Panic("strategy: cannot find strategy named %q", dk.Strategy)
	}
	r.strategy = alloc(dom, dk, sol, fl, fluxAsm)
	return r
}

// Run executes the strategy to tFinal, reporting success/failure with
// the same io.PfGreen/io.PfRed idiom as fem.FEM.onexit.
func (r *Runner) Run(tFinal float64) (err error) {
	cputime := time.Now()
	defer func() {
		if r.ShowMsg {
			if err == nil {
				io.PfGreen("> Success\n")
				io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
			} else {
				io.PfRed("> Failed: %v\n", err)
			}
		}
	}()
	if r.ShowMsg {
		io.Pf("> Running %s strategy\n", r.Deck.Strategy)
	}
	err = r.strategy.Run(tFinal)
	return
}

// TimeLoop is a shared helper every strategy's Run can call: it steps
// nr.Driver from t=0 to tFinal, applying nr.NextDt's prediction and
// retrying on rejection, per spec.md §4.5's outer time loop shape.
// onAccepted, if non-nil, runs once per accepted step with the step's
// dt before the next dt is predicted -- IMPEC and AIMc use this to
// advance their explicit unknowns, which FIM has none of (pass nil).
// dom's wells are re-synced against dk's per-well control schedule at the
// top of every iteration (including retries), the same begin-time lookup
// TuningFor already does for tuning windows.
func TimeLoop(drv *nr.Driver, sys *linsys.System, dom *domain.Domain, dk *deck.Deck, tFinal, dtInit, dtMin, dtMax float64, onAccepted func(dt float64)) error {
	t := 0.0
	dt := dtInit
	step := 0
	for t < tFinal {
		scheduleWells(dom, dk, t)
		tw := dk.TuningFor(t)
		if tw.DtMin > 0 {
			dtMin = tw.DtMin
		}
		if tw.DtMax > 0 {
			dtMax = tw.DtMax
		}

		outcome, trackers, err := drv.RunStep(sys)
		if err != nil {
			return err
		}
		nr.LogStepOutcome(step, dt, outcome, trackers.IterNR)
		switch outcome {
		case nr.Continue:
			if onAccepted != nil {
				onAccepted(dt)
			}
			t += dt
			step++
			dt = nr.NextDt(dt, &trackers, drv.Tol, dtMin, dtMax)
			if t+dt > tFinal {
				dt = tFinal - t
			}
		case nr.Reset:
			// retry at the same dt
		case nr.ResetCut, nr.ResetCutCFL:
			dt *= 0.5
			if dt < dtMin {
				return chk.Err("strategy: time step collapsed below dtMin at t=%g", t)
			}
		}
	}
	return nil
}

// scheduleWells pushes the currently active WellControlEntry from each
// deck.WellDeck onto its corresponding domain well, by position (dom.Wells
// is built from dk.Wells in order). A well beyond dk.Wells or with no
// schedule is left alone, which covers the case of a domain built without
// a matching deck (e.g. the flash-only CLI path never calls TimeLoop).
func scheduleWells(dom *domain.Domain, dk *deck.Deck, t float64) {
	for i, w := range dom.Wells {
		if i >= len(dk.Wells) {
			continue
		}
		entry, ok := dk.Wells[i].ScheduleFor(t)
		if !ok {
			continue
		}
		w.Mode = well.ParseMode(entry.Mode)
		w.TargetRate = entry.Target
	}
}
