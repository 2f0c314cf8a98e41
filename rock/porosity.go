// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rock

import (
	"math"

	"github.com/cpmech/gosl/fun"
)

// Porosity computes porosity phi(P,T) and its partial derivatives,
// grounded on mdl/porous.Model's tunable-constant Init(prms fun.Params)
// pattern applied to the much simpler exponential rock-compaction law
// spec.md §3 calls for (Phi, PhiP, PhiT on the Cell).
type Porosity struct {
	Phi0  float64 // reference porosity at P0, T0
	P0    float64
	T0    float64
	Cr    float64 // rock compressibility [1/pressure]
	AlphaT float64 // thermal expansion coefficient [1/temperature]
}

func (o *Porosity) Init(prms fun.Params) {
	for _, p := range prms {
		switch p.N {
		case "phi0":
			o.Phi0 = p.V
		case "p0":
			o.P0 = p.V
		case "t0":
			o.T0 = p.V
		case "cr":
			o.Cr = p.V
		case "alphat":
			o.AlphaT = p.V
		}
	}
}

// Calc returns phi and its derivatives at (p, t):
//
//	phi(P,T) = phi0 * exp(Cr*(P-P0) - alphaT*(T-T0))
func (o *Porosity) Calc(p, t float64) (phi, dPhiDp, dPhiDt float64) {
	phi = o.Phi0 * math.Exp(o.Cr*(p-o.P0)-o.AlphaT*(t-o.T0))
	dPhiDp = phi * o.Cr
	dPhiDt = -phi * o.AlphaT
	return
}
