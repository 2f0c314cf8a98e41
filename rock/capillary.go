// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rock

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// CapPressureModel computes water-oil and oil-gas capillary pressures and
// their saturation derivatives, generalising mreten.Model's single
// Pc(sl) relation (Brooks-Corey et al.) to the two independent capillary
// pressures a three-phase rock model needs.
type CapPressureModel interface {
	Init(prms fun.Params) error
	GetPrms(example bool) fun.Params

	// Pcow, Pcog return capillary pressure [pressure units] as functions
	// of water and gas saturation respectively.
	Pcow(sw float64) float64
	Pcog(sg float64) float64
	DPcowDSw(sw float64) float64
	DPcogDSg(sg float64) float64
}

func NewCapPressure(name string) (CapPressureModel, error) {
	allocator, ok := pcAllocators[name]
	if !ok {
		return nil, chk.Err("rock: capillary pressure model %q is not available\n", name)
	}
	return allocator(), nil
}

var pcAllocators = map[string]func() CapPressureModel{}

func init() {
	pcAllocators["bc"] = func() CapPressureModel { return new(BrooksCoreyPc) }
}

// BrooksCoreyPc applies the classical Brooks-Corey Pc(S) = Pcae*S^(-1/lam)
// form independently to the water-oil and oil-gas pairs, grounded on
// mreten.BrooksCorey.Sl/Cc's functional form (inverted: here Pc is given
// as a function of saturation directly, which is how a SAT table is
// normally tabulated for reservoir simulation, rather than mreten's
// Sl(pc)).
type BrooksCoreyPc struct {
	Swc, Sgc             float64
	PcowEntry, PcogEntry float64
	LamOW, LamOG         float64
}

func (o *BrooksCoreyPc) Init(prms fun.Params) error {
	o.LamOW, o.LamOG = 2, 2
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "swc":
			o.Swc = p.V
		case "sgc":
			o.Sgc = p.V
		case "pcowentry":
			o.PcowEntry = p.V
		case "pcogentry":
			o.PcogEntry = p.V
		case "lamow":
			o.LamOW = p.V
		case "lamog":
			o.LamOG = p.V
		default:
			return chk.Err("rock: bc capillary: parameter named %q is incorrect\n", p.N)
		}
	}
	return nil
}

func (o BrooksCoreyPc) GetPrms(example bool) fun.Params {
	return fun.Params{
		&fun.P{N: "swc", V: o.Swc},
		&fun.P{N: "sgc", V: o.Sgc},
		&fun.P{N: "pcowentry", V: o.PcowEntry},
		&fun.P{N: "pcogentry", V: o.PcogEntry},
		&fun.P{N: "lamow", V: o.LamOW},
		&fun.P{N: "lamog", V: o.LamOG},
	}
}

func (o BrooksCoreyPc) Pcow(sw float64) float64 {
	swn := normalize(sw, o.Swc, 1)
	if swn <= 0 {
		swn = 1e-6
	}
	return o.PcowEntry * math.Pow(swn, -1/o.LamOW)
}

func (o BrooksCoreyPc) DPcowDSw(sw float64) float64 {
	swn := normalize(sw, o.Swc, 1)
	if swn <= 0 {
		swn = 1e-6
	}
	span := 1 - o.Swc
	if span <= 0 {
		return 0
	}
	return o.PcowEntry * (-1 / o.LamOW) * math.Pow(swn, -1/o.LamOW-1) / span
}

func (o BrooksCoreyPc) Pcog(sg float64) float64 {
	sgn := normalize(sg, o.Sgc, 1)
	if sgn <= 0 {
		sgn = 1e-6
	}
	return o.PcogEntry * math.Pow(sgn, -1/o.LamOG)
}

func (o BrooksCoreyPc) DPcogDSg(sg float64) float64 {
	sgn := normalize(sg, o.Sgc, 1)
	if sgn <= 0 {
		sgn = 1e-6
	}
	span := 1 - o.Sgc
	if span <= 0 {
		return 0
	}
	return o.PcogEntry * (-1 / o.LamOG) * math.Pow(sgn, -1/o.LamOG-1) / span
}
