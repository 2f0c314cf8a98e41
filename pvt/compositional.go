// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"math"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/resflow/domain"
	"gonum.org/v1/gonum/mat"
)

// ComponentProps is the per-component table an equation-of-state flash
// needs (critical properties plus a Wilson-correlation acentric factor),
// grounded on original_source's compositional component table and
// expressed with the same fun.Params-driven Init idiom as mdl/fluid.Model.
type ComponentProps struct {
	Name    string
	Tc      float64 // critical temperature [K]
	Pc      float64 // critical pressure [kPa]
	Vc      float64 // critical volume [per mole]
	Omega   float64 // acentric factor
	MW      float64 // molar mass
}

// Compositional implements Flasher via a Rachford-Rice flash on K-values
// held at their Wilson-correlation values (K is not updated by successive
// substitution), a deliberately lighter-weight
// stand-in for a full Peng-Robinson two-phase flash: it reproduces the
// two-hydrocarbon-phase split and the skip-stability bookkeeping spec.md
// §4.2 requires without carrying a full cubic-EOS solver.
type Compositional struct {
	Comps      []ComponentProps
	MaxIter    int
	Tol        float64
	Skip       *SkipStability
	MolarGas   float64 // universal gas constant, kPa·(molar volume unit)/(mol·K)
}

func (o *Compositional) Init(prms fun.Params) {
	for _, p := range prms {
		switch p.N {
		case "MaxIter":
			o.MaxIter = int(p.V)
		case "Tol":
			o.Tol = p.V
		case "MolarGas":
			o.MolarGas = p.V
		}
	}
	if o.MaxIter == 0 {
		o.MaxIter = 200
	}
	if o.Tol == 0 {
		o.Tol = 1e-10
	}
}

func (o *Compositional) NumPhases() int     { return 3 }
func (o *Compositional) NumComponents() int { return len(o.Comps) }

// wilsonK returns the initial-guess equilibrium ratio per the Wilson
// correlation, the standard starting point for successive substitution.
func wilsonK(c ComponentProps, p, t float64) float64 {
	return (c.Pc / p) * math.Exp(5.373*(1+c.Omega)*(1-c.Tc/t))
}

// Flash solves Rachford-Rice for the vapour fraction by Newton iteration,
// with every component's K fixed at its Wilson value (no component,
// water included, gets special treatment), and fills cell.Phase for
// phases {oil, gas} (indices phaseOil, phaseGas); the aqueous phase slot
// (index 0) gets no properties of its own here.
//
// skip selects whether to trust the previously stored phase split instead
// of re-solving Rachford-Rice, per SPEC_FULL.md's §4.2 skip-stability flow;
// the caller is expected to have already consulted SkipStability.ShouldSkip.
func (o *Compositional) Flash(cell *domain.Cell, skip bool) error {
	nc := len(o.Comps)
	nt := cell.Nt
	if nt <= 0 {
		return nil
	}
	z := make([]float64, nc)
	for i := range z {
		z[i] = cell.N[i] / nt
	}

	ps := cell.Phase
	if skip && ps.Exists[phaseOil] && !ps.Exists[phaseGas] {
		// single-phase oil persists: just restate volumes at the new N,P,T.
		o.singlePhase(cell, z, phaseOil)
		return nil
	}

	K := make([]float64, nc)
	for i, c := range o.Comps {
		K[i] = wilsonK(c, cell.P, cell.T)
	}

	v := 0.5 // vapour mole fraction guess
	for iter := 0; iter < o.MaxIter; iter++ {
		f, df := rachfordRice(z, K, v)
		if df == 0 {
			break
		}
		dv := -f / df
		v += dv
		if v < 0 {
			v = 1e-9
		}
		if v > 1 {
			v = 1 - 1e-9
		}
		if math.Abs(dv) < o.Tol {
			break
		}
	}

	x := make([]float64, nc) // liquid mole fractions
	y := make([]float64, nc) // vapour mole fractions
	for i := range z {
		denom := 1 + v*(K[i]-1)
		x[i] = z[i] / denom
		y[i] = K[i] * x[i]
	}

	twoPhase := v > 1e-8 && v < 1-1e-8
	ps.Exists[phaseOil] = true
	ps.Exists[phaseGas] = twoPhase

	no := (1 - v) * nt
	ng := v * nt
	copy(ps.X[phaseOil], x)
	ps.N[phaseOil] = no
	if twoPhase {
		copy(ps.X[phaseGas], y)
		ps.N[phaseGas] = ng
	} else {
		ps.N[phaseGas] = 0
	}

	molOil := molarMass(o.Comps, x)
	molGas := molarMass(o.Comps, y)
	vmOil := molarVolumeIdeal(cell.P, cell.T, o.MolarGas)
	vmGas := vmOil
	ps.Vm[phaseOil] = vmOil
	ps.Vm[phaseGas] = vmGas
	ps.Rho[phaseOil] = molOil / vmOil
	ps.Xi[phaseOil] = 1 / vmOil
	if twoPhase {
		ps.Rho[phaseGas] = molGas / vmGas
		ps.Xi[phaseGas] = 1 / vmGas
	}

	vo := no * vmOil
	vg := ng * vmGas
	vf := vo + vg
	cell.Vf = vf
	if vf > 0 {
		ps.S[phaseOil] = vo / vf
		ps.S[phaseGas] = vg / vf
	}
	cell.DVfDP = -vf / cell.P // ideal-gas-law compressibility, first-order
	cell.DVfDT = vf / cell.T
	for i := range cell.DVfDN {
		cell.DVfDN[i] = vf / nt
	}

	if o.Skip != nil {
		if !skip {
			hess := buildStabilityHessian(o.Comps, x, cell.P, cell.T)
			o.Skip.UpdateAfterStability(cell.Id, cell.P, cell.T, z, !twoPhase, hess)
		} else {
			o.Skip.MarkSkipped(cell.Id, cell.P, cell.T, z)
		}
	}
	return nil
}

func (o *Compositional) singlePhase(cell *domain.Cell, z []float64, phase int) {
	ps := cell.Phase
	for j := range ps.Exists {
		ps.Exists[j] = j == phase
	}
	copy(ps.X[phase], z)
	ps.N[phase] = cell.Nt
	vm := molarVolumeIdeal(cell.P, cell.T, o.MolarGas)
	ps.Vm[phase] = vm
	mol := molarMass(o.Comps, z)
	ps.Rho[phase] = mol / vm
	ps.Xi[phase] = 1 / vm
	ps.S[phase] = 1
	cell.Vf = cell.Nt * vm
	cell.DVfDP = -cell.Vf / cell.P
	cell.DVfDT = cell.Vf / cell.T
	for i := range cell.DVfDN {
		cell.DVfDN[i] = vm
	}
}

// rachfordRice evaluates sum_i z_i*(K_i-1) / (1+v*(K_i-1)) and its
// derivative w.r.t. v, the standard Newton step for the flash vapour
// fraction.
func rachfordRice(z, K []float64, v float64) (f, df float64) {
	for i := range z {
		km1 := K[i] - 1
		denom := 1 + v*km1
		f += z[i] * km1 / denom
		df += -z[i] * km1 * km1 / (denom * denom)
	}
	return
}

func molarMass(comps []ComponentProps, x []float64) float64 {
	var m float64
	for i, c := range comps {
		m += x[i] * c.MW
	}
	return m
}

// molarVolumeIdeal stands in for the Peng-Robinson molar-volume root
// finder this model simplifies away: V = RT/P.
func molarVolumeIdeal(p, t, r float64) float64 {
	if r == 0 {
		r = 8.314
	}
	return r * t / p
}

// buildStabilityHessian assembles a diagonal approximation of the
// tangent-plane-distance Hessian used by the stability test, sized so
// SkipStability can extract a minimum eigenvalue per spec.md §4.2; a full
// compositional simulator builds this from d(ln phi)/dn (AcceleratePVT.hpp's
// lnphiN), which this simplified flash does not track, so the diagonal
// entries use 1/x_i as the ideal-solution limit of that derivative.
func buildStabilityHessian(comps []ComponentProps, x []float64, p, t float64) *mat.SymDense {
	n := len(comps)
	h := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		xi := x[i]
		if xi < 1e-12 {
			xi = 1e-12
		}
		h.SetSym(i, i, 1/xi)
	}
	return h
}
