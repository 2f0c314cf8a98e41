// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pvt implements the per-cell thermodynamic "flash": given
// (P, T, component moles) it produces phase saturations, densities,
// viscosities, enthalpies and their partial derivatives (spec.md §4.2),
// grounded on mdl/porous.Model / mdl/fluid.Model's parameter-table idiom
// and on original_source/include/AcceleratePVT.hpp's skip-stability
// accelerator.
package pvt

import "github.com/cpmech/resflow/domain"

// Flasher is the capability every PVT model (black-oil, compositional,
// thermal) must implement, modelled as a tagged-variant capability per
// spec.md §9 rather than a deep virtual hierarchy: the assembler only ever
// needs "flash this cell", never the internal table machinery.
type Flasher interface {
	// Flash computes the equilibrium phase split for cell and fills its
	// PhaseState, Vf and their derivatives. skip, when true, means the
	// caller's SkipStability accelerator decided stability analysis can
	// be skipped and the previous phase labelling should be reused.
	Flash(cell *domain.Cell, skip bool) error

	// NumPhases and NumComponents describe the model's fixed shape.
	NumPhases() int
	NumComponents() int
}

// PhaseLabel names the conventional phase slots used across all Flasher
// implementations so the rest of the assembler can index PhaseState
// without knowing which concrete model produced it.
type PhaseLabel int

const (
	Aqueous PhaseLabel = iota
	Oil
	Gas
)

// LabelHydrocarbonPhases applies spec.md §4.2's phase-labelling policy: if
// two hydrocarbon phases exist, the one with larger molar mass is labelled
// oil; otherwise the single phase is labelled by the pseudo-critical
// criterion T vs Σx_i·Vci·Tci / Σx_i·Vci (above → gas). molarMass[j] and
// x[j] are per-candidate-phase inputs, Vc and Tc per-component critical
// volume and temperature; it returns the PhaseLabel for each candidate index.
func LabelHydrocarbonPhases(exists []bool, molarMass []float64, x [][]float64, Vc, Tc []float64, T float64) []PhaseLabel {
	labels := make([]PhaseLabel, len(exists))
	nExist := 0
	idxExist := -1
	for j, e := range exists {
		if e {
			nExist++
			idxExist = j
		}
	}
	switch nExist {
	case 0:
		return labels
	case 1:
		if pseudoCriticalIsGas(x[idxExist], Vc, Tc, T) {
			labels[idxExist] = Gas
		} else {
			labels[idxExist] = Oil
		}
		return labels
	default:
		// two (or more) hydrocarbon phases: heavier (larger molar mass) is oil
		heaviest := -1
		for j, e := range exists {
			if !e {
				continue
			}
			if heaviest == -1 || molarMass[j] > molarMass[heaviest] {
				heaviest = j
			}
		}
		for j, e := range exists {
			if !e {
				continue
			}
			if j == heaviest {
				labels[j] = Oil
			} else {
				labels[j] = Gas
			}
		}
		return labels
	}
}

// pseudoCriticalIsGas implements T vs Σ x_i V_ci T_ci / Σ x_i V_ci.
func pseudoCriticalIsGas(x []float64, Vc, Tc []float64, T float64) bool {
	var num, den float64
	for i := range x {
		num += x[i] * Vc[i] * Tc[i]
		den += x[i] * Vc[i]
	}
	if den == 0 {
		return false
	}
	tPseudo := num / den
	return T > tPseudo
}
