// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/resflow/domain"
)

// component/phase index conventions for the three-phase black-oil model.
const (
	compWater = 0
	compOil   = 1
	compGas   = 2

	phaseAqueous = 0
	phaseOil     = 1
	phaseGas     = 2
)

// BlackOil implements Flasher with the classical three-pseudo-component
// black-oil PVT relations (R_s-saturated live oil, dry gas, slightly
// compressible water), parameterised the way mdl/fluid.Model.Init consumes
// a fun.Params name/value list rather than a bespoke config struct.
type BlackOil struct {
	// water
	Bw0, Cw, MuW, RhoWS float64
	// oil (linearised live-oil table: Bo and Rs as affine functions of P
	// below bubble point, constant above it)
	Pbub, Bo0, Co, Rs0, RsSlope, MuO, RhoOS float64
	// gas
	Bg0, Cg, MuG, RhoGS float64
}

// Init reads model constants from a parameter list, mirroring
// mdl/fluid.Model.Init's switch-over-p.N pattern.
func (o *BlackOil) Init(prms fun.Params) {
	for _, p := range prms {
		switch p.N {
		case "Bw0":
			o.Bw0 = p.V
		case "Cw":
			o.Cw = p.V
		case "MuW":
			o.MuW = p.V
		case "RhoWS":
			o.RhoWS = p.V
		case "Pbub":
			o.Pbub = p.V
		case "Bo0":
			o.Bo0 = p.V
		case "Co":
			o.Co = p.V
		case "Rs0":
			o.Rs0 = p.V
		case "RsSlope":
			o.RsSlope = p.V
		case "MuO":
			o.MuO = p.V
		case "RhoOS":
			o.RhoOS = p.V
		case "Bg0":
			o.Bg0 = p.V
		case "Cg":
			o.Cg = p.V
		case "MuG":
			o.MuG = p.V
		case "RhoGS":
			o.RhoGS = p.V
		}
	}
}

func (o *BlackOil) NumPhases() int     { return 3 }
func (o *BlackOil) NumComponents() int { return 3 }

// Flash fills cell.Phase and the cell-level volume derivatives from the
// component moles cell.N = (water, oil-at-stock-tank, gas-at-stock-tank)
// equivalents. Water and oil each exist when their mole number is
// positive; gas appears once the total gas exceeds what the oil holds in
// solution at local P (Rs(P) times the oil moles).
//
// skip is accepted to satisfy the Flasher contract; the black-oil
// correlations are cheap enough that SkipStability is only consulted by
// the compositional model, where stability testing is the expensive step.
func (o *BlackOil) Flash(cell *domain.Cell, skip bool) error {
	p := cell.P
	nw, no, ngTotal := cell.N[compWater], cell.N[compOil], cell.N[compGas]

	bw, dBwDp := o.waterFVF(p)
	rs, dRsDp := o.solutionGOR(p)
	bo, dBoDp := o.oilFVF(p)
	bg, dBgDp := o.gasFVF(p)

	// free gas exists once the total gas exceeds what the oil can hold in
	// solution at this pressure.
	dissolvedGas := rs * no
	freeGas := ngTotal - dissolvedGas
	gasExists := freeGas > 0

	ps := cell.Phase
	for j := 0; j < 3; j++ {
		ps.Exists[j] = false
	}
	ps.Exists[phaseAqueous] = nw > 0
	ps.Exists[phaseOil] = no > 0
	ps.Exists[phaseGas] = gasExists

	var vw, vo, vg float64
	if ps.Exists[phaseAqueous] {
		vw = nw * bw
		ps.Rho[phaseAqueous] = o.RhoWS / bw
		ps.Xi[phaseAqueous] = 1 / bw
		ps.Mu[phaseAqueous] = o.MuW
		ps.N[phaseAqueous] = nw
	}
	if ps.Exists[phaseOil] {
		vo = no * bo
		ps.Rho[phaseOil] = (o.RhoOS + rs*o.RhoGS) / bo
		ps.Xi[phaseOil] = 1 / bo
		ps.Mu[phaseOil] = o.MuO
		ps.N[phaseOil] = no
	}
	if gasExists {
		vg = freeGas * bg
		ps.Rho[phaseGas] = o.RhoGS / bg
		ps.Xi[phaseGas] = 1 / bg
		ps.Mu[phaseGas] = o.MuG
		ps.N[phaseGas] = freeGas
	}
	vf := vw + vo + vg
	cell.Vf = vf
	cell.DSec.Zero()
	if vf > 0 {
		ps.S[phaseAqueous] = vw / vf
		ps.S[phaseOil] = vo / vf
		ps.S[phaseGas] = vg / vf
	}

	// dVf/dP: chain rule through each phase's FVF; dRs/dP only matters
	// through its effect on free gas once two HC phases coexist.
	cell.DVfDP = nw*dBwDp + no*dBoDp
	if gasExists {
		cell.DVfDP += freeGas*dBgDp - dRsDp*no*bg
	}
	cell.DVfDT = 0 // isothermal black-oil: no thermal dependence
	cell.DVfDN[compWater] = bw
	cell.DVfDN[compOil] = bo
	if gasExists {
		cell.DVfDN[compOil] += -rs * bg
		cell.DVfDN[compGas] = bg
	} else {
		cell.DVfDN[compGas] = 0
	}

	// dSec_dPri saturation rows: S_j = v_j/Vf, so dS_j/dx follows the
	// quotient rule against the Vf derivatives already computed above.
	// Rows 0-2 are (S_aqueous, S_oil, S_gas); mole-fraction rows stay zero
	// since this model never computes per-phase x_ij. Columns are
	// (P, N_water, N_oil, N_gas), matching domain.NewCell's npri=nc+1.
	if vf > 0 {
		dvf := [4]float64{cell.DVfDP, cell.DVfDN[compWater], cell.DVfDN[compOil], cell.DVfDN[compGas]}
		dvw := [4]float64{nw * dBwDp, bw, 0, 0}
		dvo := [4]float64{no * dBoDp, 0, bo, 0}
		var dvg [4]float64
		if gasExists {
			dvg = [4]float64{freeGas*dBgDp - dRsDp*no*bg, 0, -rs * bg, bg}
		}
		setSRow := func(row int, s float64, dv [4]float64) {
			for col := 0; col < 4; col++ {
				cell.DSec.Set(row, col, (dv[col]-s*dvf[col])/vf)
			}
		}
		setSRow(phaseAqueous, ps.S[phaseAqueous], dvw)
		setSRow(phaseOil, ps.S[phaseOil], dvo)
		setSRow(phaseGas, ps.S[phaseGas], dvg)
	}

	return nil
}

// waterFVF: Bw(P) = Bw0 / (1 + Cw*(P-P0)), linearised about Pbub as the
// shared reference pressure.
func (o *BlackOil) waterFVF(p float64) (bw, dBwDp float64) {
	denom := 1 + o.Cw*(p-o.Pbub)
	bw = o.Bw0 / denom
	dBwDp = -o.Bw0 * o.Cw / (denom * denom)
	return
}

// solutionGOR below bubble point rises linearly with pressure and
// saturates above it, per the standard live-oil black-oil idealisation.
func (o *BlackOil) solutionGOR(p float64) (rs, dRsDp float64) {
	if p >= o.Pbub {
		return o.Rs0 + o.RsSlope*o.Pbub, 0
	}
	return o.Rs0 + o.RsSlope*p, o.RsSlope
}

// oilFVF rises linearly with dissolved gas up to the bubble point (more
// gas in solution swells the oil) and then falls under compression above
// it, the standard two-branch live-oil Bo(P) shape.
func (o *BlackOil) oilFVF(p float64) (bo, dBoDp float64) {
	if o.Pbub <= 0 {
		denom := 1 + o.Co*p
		return o.Bo0 / denom, -o.Bo0 * o.Co / (denom * denom)
	}
	if p <= o.Pbub {
		bo = o.Bo0 * p / o.Pbub
		dBoDp = o.Bo0 / o.Pbub
		return
	}
	boAtBubble := o.Bo0
	denom := 1 + o.Co*(p-o.Pbub)
	bo = boAtBubble / denom
	dBoDp = -boAtBubble * o.Co / (denom * denom)
	return
}

func (o *BlackOil) gasFVF(p float64) (bg, dBgDp float64) {
	denom := 1 + o.Cg*(p-o.Pbub)
	bg = o.Bg0 / denom
	dBgDp = -o.Bg0 * o.Cg / (denom * denom)
	return
}
