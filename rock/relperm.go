// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rock implements the per-cell rock/fluid interaction models that
// the flux assembler needs: relative permeability, capillary pressure and
// pore-volume compressibility (spec.md §4.3 "Rock/SAT"), registered with
// the same name-to-constructor factory idiom as mconduct.Model / mreten.Model.
package rock

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// RelPermModel computes three-phase relative permeabilities and their
// saturation derivatives, mirroring mconduct.Model's Init/GetPrms/compute
// shape but generalised from the teacher's two-phase (liquid/gas) case to
// three phases (water/oil/gas).
type RelPermModel interface {
	Init(prms fun.Params) error
	GetPrms(example bool) fun.Params

	// Kr returns (krw, kro, krg) at the given saturations.
	Kr(sw, so, sg float64) (krw, kro, krg float64)

	// DKr returns the 3x3 Jacobian d(krw,kro,krg)/d(sw,so,sg).
	DKr(sw, so, sg float64) [3][3]float64
}

// New looks up a registered relative-permeability model by name, the same
// factory pattern as mconduct.New.
func New(name string) (RelPermModel, error) {
	allocator, ok := relpermAllocators[name]
	if !ok {
		return nil, chk.Err("rock: relative permeability model %q is not available\n", name)
	}
	return allocator(), nil
}

var relpermAllocators = map[string]func() RelPermModel{}

func init() {
	relpermAllocators["corey-stoneII"] = func() RelPermModel { return new(CoreyStoneII) }
}

// CoreyStoneII implements Corey two-phase endpoints combined via Stone's
// Model II for the three-phase oil relative permeability, the standard
// black-oil SAT-table replacement used when explicit three-phase tables
// are unavailable.
type CoreyStoneII struct {
	Swc, Sorw, Sorg, Sgc     float64 // connate/residual saturations
	Krwmax, Kromax, Krgmax   float64 // endpoint relative permeabilities
	Nw, Now, Nog, Ng         float64 // Corey exponents
}

func (o *CoreyStoneII) Init(prms fun.Params) error {
	o.Krwmax, o.Kromax, o.Krgmax = 1, 1, 1
	o.Nw, o.Now, o.Nog, o.Ng = 2, 2, 2, 2
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "swc":
			o.Swc = p.V
		case "sorw":
			o.Sorw = p.V
		case "sorg":
			o.Sorg = p.V
		case "sgc":
			o.Sgc = p.V
		case "krwmax":
			o.Krwmax = p.V
		case "kromax":
			o.Kromax = p.V
		case "krgmax":
			o.Krgmax = p.V
		case "nw":
			o.Nw = p.V
		case "now":
			o.Now = p.V
		case "nog":
			o.Nog = p.V
		case "ng":
			o.Ng = p.V
		default:
			return chk.Err("rock: corey-stoneII: parameter named %q is incorrect\n", p.N)
		}
	}
	return nil
}

func (o CoreyStoneII) GetPrms(example bool) fun.Params {
	return fun.Params{
		&fun.P{N: "swc", V: o.Swc},
		&fun.P{N: "sorw", V: o.Sorw},
		&fun.P{N: "sorg", V: o.Sorg},
		&fun.P{N: "sgc", V: o.Sgc},
		&fun.P{N: "krwmax", V: o.Krwmax},
		&fun.P{N: "kromax", V: o.Kromax},
		&fun.P{N: "krgmax", V: o.Krgmax},
		&fun.P{N: "nw", V: o.Nw},
		&fun.P{N: "now", V: o.Now},
		&fun.P{N: "nog", V: o.Nog},
		&fun.P{N: "ng", V: o.Ng},
	}
}

func normalize(s, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	v := (s - lo) / (hi - lo)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (o CoreyStoneII) Kr(sw, so, sg float64) (krw, kro, krg float64) {
	swn := normalize(sw, o.Swc, 1-o.Sorw)
	krw = o.Krwmax * math.Pow(swn, o.Nw)

	sgn := normalize(sg, o.Sgc, 1-o.Swc)
	krg = o.Krgmax * math.Pow(sgn, o.Ng)

	krow := o.Kromax * math.Pow(normalize(1-sw, o.Sorw, 1-o.Swc), o.Now)
	krog := o.Kromax * math.Pow(normalize(1-sg, o.Sorg, 1-o.Swc), o.Nog)
	kro = o.Kromax * ((krow/o.Kromax+krw)*(krog/o.Kromax+krg) - krw - krg)
	if kro < 0 {
		kro = 0
	}
	return
}

// DKr computes the saturation Jacobian by forward differences (Kr does not
// read so, so column 1 is zero and the so-h in each perturbation has no
// effect): the Stone
// II combination rule makes an analytic kro derivative error-prone to hand
// transcribe, and a numerical Jacobian is both simpler and, at this
// tolerance, indistinguishable from the analytic one for Newton's purposes.
func (o CoreyStoneII) DKr(sw, so, sg float64) [3][3]float64 {
	const h = 1e-6
	var J [3][3]float64
	base := func(sw, so, sg float64) (float64, float64, float64) { return o.Kr(sw, so, sg) }
	kw0, ko0, kg0 := base(sw, so, sg)
	_ = ko0
	kw1, ko1, kg1 := base(sw+h, so-h, sg)
	J[0][0] = (kw1 - kw0) / h
	J[1][0] = (ko1 - ko0) / h
	J[2][0] = (kg1 - kg0) / h
	kw2, ko2, kg2 := base(sw, so-h, sg+h)
	J[0][2] = (kw2 - kw0) / h
	J[1][2] = (ko2 - ko0) / h
	J[2][2] = (kg2 - kg0) / h
	return J
}
