// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// SteadyRadialFlow computes the classical steady-state single-phase
// radial Darcy flow solution around a well: pressure as a function of
// radius follows a logarithmic profile set by the well rate, fluid
// viscosity and rock permeability-thickness product. Used to check a
// single-phase injection run's near-well pressure profile against a
// closed form (spec.md §8 scenario 1's "monotone pressure rise"), and
// to cross-check a computed Peaceman well index against the pressure
// drop it should reproduce at the perforation radius.
type SteadyRadialFlow struct {
	Q    float64 // volumetric rate at reservoir conditions, positive = production
	Mu   float64 // fluid viscosity
	Kh   float64 // permeability * thickness
	Rw   float64 // wellbore radius
	Re   float64 // drainage/boundary radius
	Pe   float64 // pressure at the boundary radius
}

// Pressure returns p(r) for Rw <= r <= Re.
func (o SteadyRadialFlow) Pressure(r float64) float64 {
	if r < o.Rw {
		r = o.Rw
	}
	return o.Pe - (o.Q*o.Mu)/(2*math.Pi*o.Kh)*math.Log(o.Re/r)
}

// BHP returns the flowing pressure at the wellbore, p(Rw).
func (o SteadyRadialFlow) BHP() float64 {
	return o.Pressure(o.Rw)
}

// WellIndex returns the well index implied by this steady solution,
// q = WI*(Pe-Pwf), for comparison against well.Perforation.WI's Peaceman
// computation: WI = 2*pi*Kh / (mu * ln(Re/Rw)).
func (o SteadyRadialFlow) WellIndex() float64 {
	return 2 * math.Pi * o.Kh / (o.Mu * math.Log(o.Re/o.Rw))
}
