// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package well implements the well model: perforation coupling, hydrostatic
// column integration, control-mode switching and cross-flow handling
// (spec.md §4.4), ported from the control/state-machine logic of
// original_source/src/Well.cpp into Go index-based types.
package well

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// ControlMode is the well's current operating mode (spec.md §3 "Well").
type ControlMode int

const (
	BHP ControlMode = iota
	ORate
	GRate
	WRate
	LRate
	TotalRate
)

func (m ControlMode) String() string {
	switch m {
	case BHP:
		return "BHP"
	case ORate:
		return "ORate"
	case GRate:
		return "GRate"
	case WRate:
		return "WRate"
	case LRate:
		return "LRate"
	case TotalRate:
		return "TotalRate"
	default:
		return "unknown"
	}
}

// ParseMode maps a deck schedule entry's mode string (spec.md §6's
// "bhp","orate","grate","wrate","lrate","totalrate" token set) to a
// ControlMode, the inverse of ControlMode.String. An unrecognised token
// falls back to BHP, the mode every well starts a schedule lookup from.
func ParseMode(s string) ControlMode {
	switch strings.ToLower(s) {
	case "bhp":
		return BHP
	case "orate":
		return ORate
	case "grate":
		return GRate
	case "wrate":
		return WRate
	case "lrate":
		return LRate
	case "totalrate":
		return TotalRate
	default:
		return BHP
	}
}

// WellType distinguishes producer from injector, mirroring opt.type in
// original_source/src/Well.cpp.
type WellType int

const (
	Producer WellType = iota
	Injector
)

// PerfState is the open/closed state of a Perforation.
type PerfState int

const (
	Open PerfState = iota
	Closed
)

// Perforation couples one Well to one bulk cell (spec.md §3 "Perforation").
type Perforation struct {
	CellIndex  int         // bulk cell this perforation connects to
	WI         float64     // Peaceman well index (0 means "not yet computed")
	Radius     float64     // effective radius r_w
	Dir        PerfDir     // perforation axis, used by the Peaceman formula
	Skin       float64     // skin factor S
	Kh         float64     // permeability-thickness product; < 0 means "derive from cell"
	State      PerfState
	Multiplier float64 // 0 when closed, 1 when open
	Depth      float64
	P          float64   // local (perforation) pressure P_p
	Trans      []float64 // [np] per-phase transmissibility T_j = WI * kr_j/mu_j (allocated here; AssembleWellRow does not fill it)
	Qt         float64   // total volumetric rate q_t
	Qi         []float64 // [nc] per-component molar rate
	Xi         float64   // molar density of injected fluid at this perforation
}

// PerfDir is the perforation's penetration axis.
type PerfDir int

const (
	PerfX PerfDir = iota
	PerfY
	PerfZ
)

// NewPerforation allocates per-phase/per-component runtime fields.
func NewPerforation(cellIdx int, wi, radius float64, dir PerfDir, depth float64, np, nc int) *Perforation {
	return &Perforation{
		CellIndex:  cellIdx,
		WI:         wi,
		Radius:     radius,
		Dir:        dir,
		Kh:         -1,
		State:      Open,
		Multiplier: 1,
		Depth:      depth,
		Trans:      make([]float64, np),
		Qi:         make([]float64, nc),
	}
}

// DGStrategy names the three producer hydrostatic-mixture approximations
// (spec.md §4.4 "Hydrostatic column"). CaldG does not read it: for
// producers it chooses among ColumnModel's TransWeighted, Bulk and Inflow
// functions, and injectors always use ColumnModel.Injected.
type DGStrategy int

const (
	// TransWeighted prefers the transmissibility-weighted mixture (strategy 1).
	TransWeighted DGStrategy = iota
	// BulkMixture falls back to the bulk cell's own mixture (strategy 2).
	BulkMixture
	// InflowComposition falls back to the accumulated inflow composition (strategy 3).
	InflowComposition
)

// Well is an ordered perforation list plus BHP state and control mode
// (spec.md §3 "Well").
type Well struct {
	Name  string
	Type  WellType
	Perfs []*Perforation

	Pbh      float64 // bottom-hole pressure
	RefDepth float64 // depth of the BHP reference
	DG       []float64 // [len(Perfs)] dG[p] = pressure at perf p minus Pbh

	Mode        ControlMode
	InitialMode ControlMode // latent mode the well may revert to

	// weights for rate-mode well-row equations (surface-unit conversion),
	// one per component (spec.md §4.4 "Assembly")
	RateWeights []float64

	// injector-only data
	InjComposition []float64
	InjTemperature float64
	InjPhase       int // phase index used by RhoPhase-style density lookups

	// limits
	MaxBHP    float64
	MinBHP    float64
	TargetRate float64

	// bookkeeping for the NR loop (spec.md §4.4 "Control mode")
	ModeSwitchedThisIter bool
	CrossflowThisIter    bool
}

// NewWell allocates a Well with nc components.
func NewWell(name string, typ WellType, refDepth float64, nc int) *Well {
	return &Well{
		Name:           name,
		Type:           typ,
		RefDepth:       refDepth,
		RateWeights:    make([]float64, nc),
		InjComposition: make([]float64, nc),
	}
}

// State captures the part of a Well that participates in the current/last
// double-buffering lifecycle (spec.md §3 "Lifecycle"): bottom-hole
// pressure and control mode are the two fields CheckOptMode/CheckLimits
// mutate mid-step, so a step reset has to roll them back alongside the
// cell state domain.Cell.Snapshot/Restore already cover.
type State struct {
	Pbh  float64
	Mode ControlMode
}

// Snapshot returns the committable part of the well's state.
func (w *Well) Snapshot() State {
	return State{Pbh: w.Pbh, Mode: w.Mode}
}

// Restore writes a State back into the well (used on time-step reset).
func (w *Well) Restore(s State) {
	w.Pbh = s.Pbh
	w.Mode = s.Mode
}

// AddPerforation appends a perforation and grows DG to match.
func (w *Well) AddPerforation(p *Perforation) {
	w.Perfs = append(w.Perfs, p)
	w.DG = append(w.DG, 0)
}

// OpenPerfCount returns the number of currently open perforations.
func (w *Well) OpenPerfCount() int {
	n := 0
	for _, p := range w.Perfs {
		if p.State == Open {
			n++
		}
	}
	return n
}

// CalWIPeaceman fills WI for any perforation that did not receive an
// explicit well index, using the anisotropic Peaceman formula (spec.md
// §4.4 "Peaceman well index"), grounded on original_source/src/Well.cpp's
// Well::CalWI_Peaceman. kx, ky, kz are the permeabilities and dx, dy, dz
// the cell dimensions of the perforation's cell.
func (w *Well) CalWIPeaceman(kx, ky, kz, dx, dy, dz []float64) error {
	const conv2 = 1.0 // unit-conversion constant; left as 1 in consistent units
	for _, p := range w.Perfs {
		if p.WI > 0 {
			continue
		}
		i := p.CellIndex
		var ro float64
		switch p.Dir {
		case PerfX:
			kykz := ky[i] * kz[i]
			kyOverKz := ky[i] / kz[i]
			if kykz <= 0 {
				return chk.Err("CalWIPeaceman: non-positive ky*kz at cell %d", i)
			}
			ro = 0.28 * math.Sqrt(dy[i]*dy[i]*math.Sqrt(1/kyOverKz)+dz[i]*dz[i]*math.Sqrt(kyOverKz))
			ro /= math.Pow(kyOverKz, 0.25) + math.Pow(1/kyOverKz, 0.25)
			if p.Kh < 0 {
				p.Kh = dx[i] * math.Sqrt(kykz)
			}
		case PerfY:
			kzkx := kz[i] * kx[i]
			kzOverKx := kz[i] / kx[i]
			if kzkx <= 0 {
				return chk.Err("CalWIPeaceman: non-positive kz*kx at cell %d", i)
			}
			ro = 0.28 * math.Sqrt(dz[i]*dz[i]*math.Sqrt(1/kzOverKx)+dx[i]*dx[i]*math.Sqrt(kzOverKx))
			ro /= math.Pow(kzOverKx, 0.25) + math.Pow(1/kzOverKx, 0.25)
			if p.Kh < 0 {
				p.Kh = dy[i] * math.Sqrt(kzkx)
			}
		case PerfZ:
			kxky := kx[i] * ky[i]
			kxOverKy := kx[i] / ky[i]
			if kxky <= 0 {
				return chk.Err("CalWIPeaceman: non-positive kx*ky at cell %d", i)
			}
			ro = 0.28 * math.Sqrt(dx[i]*dx[i]*math.Sqrt(1/kxOverKy)+dy[i]*dy[i]*math.Sqrt(kxOverKy))
			ro /= math.Pow(kxOverKy, 0.25) + math.Pow(1/kxOverKy, 0.25)
			if p.Kh < 0 {
				p.Kh = dz[i] * math.Sqrt(kxky)
			}
		default:
			return chk.Err("CalWIPeaceman: unknown perforation direction")
		}
		p.WI = conv2 * 2 * math.Pi * p.Kh / (math.Log(ro/p.Radius) + p.Skin)
	}
	return nil
}
