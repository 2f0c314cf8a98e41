// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package deck holds the JSON-decoded input deck types (spec.md §6
// "External interfaces"), grounded on inp/mat.go's MatDb/Material and
// inp/sim.go's Data/SolverData structs: a thin input struct with json
// tags, a derived/resolved counterpart built after reading, and a
// ReadXxx(dir, fn) loader using gosl/io.ReadFile + encoding/json.
package deck

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// wellControlModes lists the control-mode tokens a WellControlEntry.Mode
// (and WellDeck.InitMode) may carry, matching well.ControlMode's String
// set (spec.md §4.4).
var wellControlModes = []string{"bhp", "orate", "grate", "wrate", "lrate", "totalrate"}

// PVTTable is one row of a deck's PVT description, grounded on
// inp.Material's Name/Model/Prms shape applied to a PVT correlation
// instead of a solid constitutive model.
type PVTTable struct {
	Name  string     `json:"name"`
	Model string     `json:"model"` // e.g. "blackoil", "compositional"
	Prms  dbf.Params `json:"prms"`
}

// FunParams converts the table's JSON-decoded dbf.Params into the
// fun.Params shape the pvt/rock model Init methods consume. The deck's own
// tables are stored as dbf.Params to match inp.Material's json:"prms" tag
// idiom; the pvt and rock packages pre-date this deck and were grounded on
// mdl/fluid.Model/mconduct.Model's fun.Params-based Init instead, so the
// deck -- as the layer that bridges external JSON to those constructors --
// is the natural place to adapt between the two.
func (t PVTTable) FunParams() fun.Params { return toFunParams(t.Prms) }

func toFunParams(dp dbf.Params) fun.Params {
	fp := make(fun.Params, len(dp))
	for i, p := range dp {
		fp[i] = &fun.P{N: p.N, V: p.V}
	}
	return fp
}

// SATTable names the relative-permeability and capillary-pressure models
// for one rock region, mirroring inp.Material's Name/Model/Prms shape
// again but scoped to the rock package's two model interfaces.
type SATTable struct {
	Name       string     `json:"name"`
	RelPerm    string     `json:"relperm"`
	RelPrms    dbf.Params `json:"relprms"`
	CapPress   string     `json:"cappress"`
	CapPrms    dbf.Params `json:"capprms"`
}

// RelFunParams converts RelPrms for rock.RelPermModel.Init.
func (t SATTable) RelFunParams() fun.Params { return toFunParams(t.RelPrms) }

// CapFunParams converts CapPrms for rock.CapPressureModel.Init.
func (t SATTable) CapFunParams() fun.Params { return toFunParams(t.CapPrms) }

// TuningWindow is a time-indexed block of Newton/time-step tuning
// constants, grounded on original_source/include/OCPControl.hpp's
// ctrlTimeSet idea of switching tolerances/step-size policy at named
// simulation times instead of keeping one fixed set for the whole run.
type TuningWindow struct {
	BeginTime float64 `json:"begintime"`
	DtInit    float64 `json:"dtinit"`
	DtMin     float64 `json:"dtmin"`
	DtMax     float64 `json:"dtmax"`
	DPmax     float64 `json:"dpmax"`
	DSmax     float64 `json:"dsmax"`
	DNmax     float64 `json:"dnmax"`
}

// WellControlEntry is one time-indexed control change for a well,
// grounded on original_source's well-schedule tables (a well's target
// and mode can change at named simulation times).
type WellControlEntry struct {
	Time   float64 `json:"time"`
	Mode   string  `json:"mode"` // "bhp","orate","grate","wrate","lrate","totalrate"
	Target float64 `json:"target"`
}

// WellDeck describes one well's static completion data plus its control
// schedule, grounded on original_source's AllWells.hpp well list and on
// inp's json-tag struct idiom.
type WellDeck struct {
	Name       string             `json:"name"`
	Type       string             `json:"type"` // "producer","injector"
	RefDepth   float64            `json:"refdepth"`
	InitMode   string             `json:"initmode"`
	MinBHP     float64            `json:"minbhp"`
	MaxBHP     float64            `json:"maxbhp"`
	Perfs      []WellPerfDeck     `json:"perfs"`
	Schedule   []WellControlEntry `json:"schedule"`
	InjComp    []float64          `json:"injcomposition"`
	InjTemp    float64            `json:"injtemperature"`
}

// ScheduleFor returns the WellControlEntry active at time t -- the last
// entry whose Time is <= t -- mirroring Deck.TuningFor's lookup, and ok
// reports whether the well has any schedule entry at all (a well with an
// empty Schedule keeps whatever mode/target it was constructed with).
func (w WellDeck) ScheduleFor(t float64) (entry WellControlEntry, ok bool) {
	if len(w.Schedule) == 0 {
		return WellControlEntry{}, false
	}
	entry = w.Schedule[0]
	for _, e := range w.Schedule {
		if e.Time <= t {
			entry = e
		}
	}
	return entry, true
}

// WellPerfDeck is one perforation entry in a WellDeck. WI is the
// precomputed Peaceman well index for this perforation: per spec.md §1,
// deriving it from raw cell permeabilities/dimensions is grid-geometry
// work that belongs to the external preprocessor, so the deck carries the
// already-computed quantity rather than the geometry it came from.
type WellPerfDeck struct {
	CellIndex int     `json:"cellindex"`
	WI        float64 `json:"wi"`
	Radius    float64 `json:"radius"`
	Dir       string  `json:"dir"` // "x","y","z"
	Skin      float64 `json:"skin"`
	Depth     float64 `json:"depth"`
}

// Deck is the full simulation input: PVT/SAT tables, wells, tuning
// windows, and the strategy/grid selection, mirroring inp.MatDb's
// top-level Functions+Materials grouping generalised to this domain's
// own table types.
type Deck struct {
	Strategy string         `json:"strategy"` // "fim","impec","aimc"
	Thermal  bool           `json:"thermal"`
	PVT      []PVTTable     `json:"pvt"`
	SAT      []SATTable     `json:"sat"`
	Wells    []WellDeck     `json:"wells"`
	Tuning   []TuningWindow `json:"tuning"`
	Psc      float64        `json:"psc"` // standard-condition pressure
	Tsc      float64        `json:"tsc"` // standard-condition temperature
}

// Read loads a deck from a JSON file, mirroring inp.ReadMat's
// io.ReadFile + json.Unmarshal pattern.
func Read(dir, fn string) (*Deck, error) {
	b, err := io.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, err
	}
	d := new(Deck)
	if err := json.Unmarshal(b, d); err != nil {
		return nil, chk.Err("deck: cannot parse %q: %v", fn, err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// validate checks the two well-schedule invariants spec.md §4.4 assumes
// every downstream reader can rely on without rechecking: every control
// token names a mode well.ControlMode understands, and every well has at
// least one perforation to assemble a row against.
func (d *Deck) validate() error {
	for _, w := range d.Wells {
		if utl.StrIndexSmall(wellControlModes, w.InitMode) < 0 {
			return chk.Err("deck: well %q: invalid initmode %q", w.Name, w.InitMode)
		}
		for _, e := range w.Schedule {
			if utl.StrIndexSmall(wellControlModes, e.Mode) < 0 {
				return chk.Err("deck: well %q: invalid schedule mode %q", w.Name, e.Mode)
			}
		}
	}
	hasPerfs := make([]bool, len(d.Wells))
	for i, w := range d.Wells {
		hasPerfs[i] = len(w.Perfs) > 0
	}
	if !utl.AllTrue(hasPerfs) {
		for _, w := range d.Wells {
			if len(w.Perfs) == 0 {
				return chk.Err("deck: well %q has no perforations", w.Name)
			}
		}
	}
	return nil
}

// TuningFor returns the TuningWindow active at simulation time t: the
// last window whose BeginTime is <= t, per OCPControl.hpp's ctrlTimeSet
// lookup semantics.
func (d *Deck) TuningFor(t float64) TuningWindow {
	if len(d.Tuning) == 0 {
		return TuningWindow{}
	}
	active := d.Tuning[0]
	for _, w := range d.Tuning {
		if w.BeginTime <= t {
			active = w
		}
	}
	return active
}
