// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// BuckleyLeverett computes the classical Buckley-Leverett water-flood
// front: given a Corey-type fractional-flow curve, the water-saturation
// front that advances fastest is the one tangent to the fractional-flow
// curve drawn from the connate saturation, found by Welge's
// equal-area/tangent construction. Used as an independent check of a
// two-phase displacement run (spec.md §8 scenario 2's "water front
// reaches the producer at the analytic Buckley-Leverett arrival time").
type BuckleyLeverett struct {
	Swc, Sor       float64 // connate water / residual oil saturation
	Krwmax, Kromax float64 // endpoint relative permeabilities
	Muw, Muo       float64 // viscosities
	Nw, No         float64 // Corey exponents
}

// fractionalFlow returns fw(Sw), the water fraction of total flow, from
// the Corey two-phase mobility ratio.
func (o BuckleyLeverett) fractionalFlow(sw float64) float64 {
	swn := normalizeSat(sw, o.Swc, 1-o.Sor)
	krw := o.Krwmax * math.Pow(swn, o.Nw)
	kro := o.Kromax * math.Pow(1-swn, o.No)
	lw := krw / o.Muw
	lo := kro / o.Muo
	if lw+lo == 0 {
		return 0
	}
	return lw / (lw + lo)
}

func normalizeSat(s, lo, hi float64) float64 {
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

// FrontSaturation finds Sw_f, the Welge tangent-line saturation: the
// saturation at which the secant line from (Swc, 0) to (Sw_f, fw(Sw_f))
// has the same slope as fw's derivative at Sw_f, located by bisection
// over dfw/dSw - fw/(Sw_f-Swc) sign changes.
func (o BuckleyLeverett) FrontSaturation() float64 {
	const h = 1e-6
	g := func(sw float64) float64 {
		fw := o.fractionalFlow(sw)
		dfw := (o.fractionalFlow(sw+h) - o.fractionalFlow(sw-h)) / (2 * h)
		return dfw - fw/(sw-o.Swc)
	}
	lo, hi := o.Swc+1e-4, 1-o.Sor-1e-4
	glo, ghi := g(lo), g(hi)
	if glo*ghi > 0 {
		return hi // curve is concave throughout; front runs to max mobile saturation
	}
	for i := 0; i < 60; i++ {
		mid := 0.5 * (lo + hi)
		gmid := g(mid)
		if gmid*glo <= 0 {
			hi = mid
			ghi = gmid
		} else {
			lo = mid
			glo = gmid
		}
	}
	return 0.5 * (lo + hi)
}

// FrontVelocity returns the dimensionless front velocity dfw/dSw at the
// Welge front saturation (Buckley-Leverett's characteristic speed,
// v_f = (q_t/(A*phi)) * dfw/dSw|_Sw_f); callers scale by q_t/(A*phi).
func (o BuckleyLeverett) FrontVelocity() float64 {
	const h = 1e-6
	swf := o.FrontSaturation()
	return (o.fractionalFlow(swf+h) - o.fractionalFlow(swf-h)) / (2 * h)
}

// ArrivalTime returns the time for the water front to travel distance L
// at total flow rate qt through cross-sectional area A and porosity phi
// (t_BT = phi*A*L / (qt * dfw/dSw|_front)), the arrival time spec.md §8
// scenario 2 checks a simulated run against.
func (o BuckleyLeverett) ArrivalTime(qt, area, phi, length float64) float64 {
	v := o.FrontVelocity()
	if v == 0 {
		return math.Inf(1)
	}
	return phi * area * length / (qt * v)
}
