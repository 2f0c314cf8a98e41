// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flux assembles the per-connection Darcy flux residual and
// Jacobian contributions (spec.md §4.4 "Flux"), grounded on
// ele/porous.SolidLiquidGas's AddToRhs/AddToKb split (residual into a
// flat vector, Jacobian into a gosl/la.Triplet) and on
// original_source/include/BulkConnTrans.hpp's upstream-weighted
// transmissibility model.
package flux

import (
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/linsys"
	"github.com/cpmech/resflow/rock"
)

// HeatLoss is the optional thermal-loss term SPEC_FULL.md §4 adds to the
// energy-balance connection flux for thermal runs. No caller in this
// module sets Assembler.HeatLoss, and ComputeFlux does not evaluate it,
// so the term has no effect on the assembled system. Grounded on
// original_source/include/HeatLoss.hpp.
type HeatLoss func(conn *domain.Connection, cells []*domain.Cell) float64

// Assembler computes Darcy flux across connections and adds the
// resulting residual/Jacobian contributions into a linsys.System,
// exactly mirroring AddToRhs (residual-only pass) and AddToKb
// (Jacobian pass) as two separate methods rather than one combined call,
// the way ele/porous.SolidLiquidGas exposes them to the FEM solver.
type Assembler struct {
	Gravity  float64
	NumComp  int
	NumPhase int
	RelPerm  rock.RelPermModel
	CapPress rock.CapPressureModel // nil disables capillary pressure
	HeatLoss HeatLoss              // not evaluated by ComputeFlux
}

// phase index convention shared with pvt.BlackOil's compWater/compOil/
// compGas ordering.
const (
	phaseAqueous = 0
	phaseOil     = 1
	phaseGas     = 2
)

// FillRockProps computes a cell's per-phase relative permeability and
// capillary-pressure offset from its current saturations, via the
// assembler's rock models -- the step that must run before ComputeFlux
// can read cell.Phase.Kr/Pc. Kept separate from pvt.Flasher so
// saturation-dependent rock behaviour (rock.RelPermModel,
// rock.CapPressureModel) stays decoupled from the PVT flash, the same
// separation ele/porous keeps between its liquid-retention model and its
// conductivity model.
func (a *Assembler) FillRockProps(cell *domain.Cell) {
	if a.RelPerm == nil {
		return
	}
	s := cell.Phase.S
	var sw, so, sg float64
	if len(s) > phaseAqueous {
		sw = s[phaseAqueous]
	}
	if len(s) > phaseOil {
		so = s[phaseOil]
	}
	if len(s) > phaseGas {
		sg = s[phaseGas]
	}
	krw, kro, krg := a.RelPerm.Kr(sw, so, sg)
	kr := cell.Phase.Kr
	if len(kr) > phaseAqueous {
		kr[phaseAqueous] = krw
	}
	if len(kr) > phaseOil {
		kr[phaseOil] = kro
	}
	if len(kr) > phaseGas {
		kr[phaseGas] = krg
	}
	if a.CapPress == nil {
		return
	}
	pc := cell.Phase.Pc
	if len(pc) > phaseAqueous {
		pc[phaseAqueous] = -a.CapPress.Pcow(sw)
	}
	if len(pc) > phaseGas {
		pc[phaseGas] = a.CapPress.Pcog(sg)
	}
}

// AddVolumeBalance adds a bulk cell's own pressure/volume-balance equation
// (row 0 of its block, per AddToRhs's layout comment) into sys: residual
// Vp-Vf, with the Jacobian taken with respect to pressure and component
// moles straight off the derivatives pvt.Flasher already filled on cell
// (DVfDP, DVfDN). Pore volume is treated as pressure-independent here
// (dVp/dP=0): rock compaction is not wired into this build (see
// DESIGN.md), so cell.Vp is fixed at its grid-deck initial value for the
// life of a run. Grounded on ele/porous's own volume-balance row, the
// equation every FIM/AIMc bulk cell needs regardless of whether a well
// touches it -- without it, a cell with no perforation has no equation at
// all for its pressure unknown.
func (a *Assembler) AddVolumeBalance(sys *linsys.System, cellRow, blockDim int, cell *domain.Cell) {
	res := make([]float64, blockDim)
	res[0] = cell.Vp - cell.Vf
	sys.AddResidual(cellRow, res)

	block := make([]float64, blockDim*blockDim)
	block[0] = -cell.DVfDP
	for i, d := range cell.DVfDN {
		if 1+i < blockDim {
			block[1+i] = -d
		}
	}
	sys.AddBlock(cellRow, cellRow, block)
}

// PhaseFlux holds one phase's volumetric/molar flow across a connection,
// computed once per Newton iteration and reused by both AddToRhs and
// AddToKb (mirrors ele/porous's ipvars caching pattern).
type PhaseFlux struct {
	Phase int
	Q     float64   // volumetric flow, b->e positive
	Ni    []float64 // [nc] molar component flow, b->e positive
	Up    int       // upstream cell index (0=b, 1=e)
}

// ComputeFlux evaluates the Darcy flux for every existing phase across a
// connection: Q_j = -T * kr_j/mu_j * (P_e - P_b - rho_j*g*(depth_e-depth_b) [+ Pc]),
// upstream-weighted on kr/mu/xi/x. The rho_j in the gravity term is the
// average of the two cells' densities when the phase exists in both;
// otherwise the gravity term is dropped. cells is [b, e].
func (a *Assembler) ComputeFlux(conn *domain.Connection, cells [2]*domain.Cell) []PhaseFlux {
	b, e := cells[0], cells[1]
	fluxes := make([]PhaseFlux, 0, a.NumPhase)
	for j := 0; j < a.NumPhase; j++ {
		existsB := b.Phase.Exists[j]
		existsE := e.Phase.Exists[j]
		if !existsB && !existsE {
			continue
		}
		// potential difference; capillary/Pc terms are folded into
		// Phase.Pc by the rock model upstream of this assembler.
		dP := e.P - b.P
		dPc := e.Phase.Pc[j] - b.Phase.Pc[j]
		gTerm := 0.0
		if existsB && existsE {
			rhoAvg := 0.5 * (b.Phase.Rho[j] + e.Phase.Rho[j])
			gTerm = rhoAvg * a.Gravity * (e.Depth - b.Depth)
		}
		potential := dP + dPc - gTerm

		up := 0 // default upstream = b
		mobB, mobE := 0.0, 0.0
		if existsB {
			mobB = b.Phase.Kr[j] / b.Phase.Mu[j]
		}
		if existsE {
			mobE = e.Phase.Kr[j] / e.Phase.Mu[j]
		}
		mob := mobB
		if potential > 0 {
			// flow from e to b: e is upstream
			up = 1
			mob = mobE
		}
		if mob == 0 {
			continue
		}

		q := -conn.T * mob * potential
		ni := make([]float64, a.NumComp)
		upCell := b
		xi := 0.0
		if up == 1 {
			upCell = e
			xi = e.Phase.Xi[j]
		} else {
			xi = b.Phase.Xi[j]
		}
		for i := 0; i < a.NumComp; i++ {
			ni[i] = q * xi * upCell.Phase.X[j][i]
		}
		fluxes = append(fluxes, PhaseFlux{Phase: j, Q: q, Ni: ni, Up: up})
	}
	return fluxes
}

// AddToRhs adds this connection's component-molar-flow residual
// contribution into the b-cell and e-cell residual rows of sys: outflow
// from b, inflow into e. Each cell's residual block is laid out as
// [R_volume, R_mass_1..R_mass_nc] (slot 0 is the pressure/volume-balance
// equation, left to the accumulation term elsewhere; slots 1..nc are the
// per-component mass balances), matching the (P, N_1..N_nc) primary
// layout the rest of the assembler uses. Sign convention: each component's
// molar flow is subtracted from b's rows and added to e's rows, so
// outflow enters the donating cell's residual with a negative sign.
func (a *Assembler) AddToRhs(sys *linsys.System, conn *domain.Connection, bRow, eRow, blockDim int, fluxes []PhaseFlux) {
	rb := make([]float64, blockDim)
	re := make([]float64, blockDim)
	for _, f := range fluxes {
		for i, ni := range f.Ni {
			rb[1+i] -= ni
			re[1+i] += ni
		}
	}
	sys.AddResidual(bRow, rb)
	sys.AddResidual(eRow, re)
}

// AddToKb adds the Jacobian of this connection's flux with respect to the
// two endpoint cells' primary pressure unknown (column 0 of each block),
// via a numerical perturbation of ComputeFlux -- mirroring
// ele/porous.AddToKb's per-connection dense-block insertion into the
// shared Triplet, but using finite differences instead of hand-derived
// analytic derivatives since the upstream switch makes the analytic
// Jacobian discontinuous and error-prone to transcribe by hand.
func (a *Assembler) AddToKb(sys *linsys.System, conn *domain.Connection, bRow, eRow, blockDim int, cells [2]*domain.Cell) {
	const h = 1e-4
	base := a.ComputeFlux(conn, cells)
	baseNi := sumNi(base, a.NumComp)

	perturb := func(cell *domain.Cell, col int) ([]float64, []float64) {
		orig := cell.P
		cell.P += h
		fp := a.ComputeFlux(conn, cells)
		cell.P = orig
		niP := sumNi(fp, a.NumComp)
		dRb := make([]float64, a.NumComp)
		dRe := make([]float64, a.NumComp)
		for i := range niP {
			d := (niP[i] - baseNi[i]) / h
			dRb[i] = -d
			dRe[i] = d
		}
		return dRb, dRe
	}

	dRbDPb, dReDPb := perturb(cells[0], 0)
	dRbDPe, dReDPe := perturb(cells[1], 0)

	blockB := make([]float64, blockDim*blockDim)
	blockE := make([]float64, blockDim*blockDim)
	blockBE := make([]float64, blockDim*blockDim)
	blockEB := make([]float64, blockDim*blockDim)
	for i := 0; i < a.NumComp; i++ {
		row := 1 + i
		blockB[row*blockDim+0] = dRbDPb[i]
		blockBE[row*blockDim+0] = dRbDPe[i]
		blockE[row*blockDim+0] = dReDPe[i]
		blockEB[row*blockDim+0] = dReDPb[i]
	}
	sys.AddBlock(bRow, bRow, blockB)
	sys.AddBlock(bRow, eRow, blockBE)
	sys.AddBlock(eRow, eRow, blockE)
	sys.AddBlock(eRow, bRow, blockEB)
}

func sumNi(fluxes []PhaseFlux, nc int) []float64 {
	s := make([]float64, nc)
	for _, f := range fluxes {
		for i, v := range f.Ni {
			s[i] += v
		}
	}
	return s
}
