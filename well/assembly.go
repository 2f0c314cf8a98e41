// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import "github.com/cpmech/resflow/linsys"

// BulkRateCapability gives the assembler what it needs to turn a
// perforation's flow into bulk-cell Jacobian entries: the component molar
// rate at the perforation and its derivative with respect to bulk
// pressure and well BHP (spec.md §4.4 "well row/column").
type BulkRateCapability interface {
	// PerfRateDerivs returns (q_i, dq_i/dPbulk, dq_i/dPbh) for component i
	// at perforation p.
	PerfRateDerivs(p *Perforation, component int) (q, dqDPbulk, dqDPbh float64)
}

// AssembleWellRow adds the well's own equation (spec.md §4.4
// WellRowResidual: P_bh-P_limit or rate-target) into sys at wellRow, and
// the bulk<->well coupling blocks for every open perforation, the extra
// equation/extra unknown pattern fem/essenbcs.go uses for essential BCs
// generalised here to a well's BHP degree of freedom instead of a
// Lagrange multiplier.
//
// blockDim is the number of primary unknowns per bulk cell (P plus
// components [plus T]); the well's block row/column share the same
// blockDim as bulk cells so linsys.System's uniform block layout can
// carry both, with the well using only its column/row-0 (Pbh) slot.
// rowOffset is where a bulk cell's component-mass rows begin within its
// block: 1 for a full (P, N_1..N_nc[, T]) primary layout, matching
// flux.Assembler.AddToRhs's row-(1+i) convention, or 0 for a reduced
// pressure-only system (IMPEC/AIMc's explicit cells) where the single row
// carries a pseudo-component channel instead of a real component.
func AssembleWellRow(sys *linsys.System, w *Well, wellRow int, bulkRowOf func(cellIndex int) int, blockDim, nc, rowOffset int, cap BulkRateCapability) {
	wellRes := make([]float64, blockDim)
	wellRes[0] = w.WellRowResidual()
	sys.AddResidual(wellRow, wellRes)

	var dResDPbh float64
	if w.Mode == BHP {
		dResDPbh = 1
	}

	for _, p := range w.Perfs {
		if p.State != Open {
			continue
		}
		bulkRow := bulkRowOf(p.CellIndex)

		bulkDiag := make([]float64, blockDim*blockDim)   // d R_bulk_i / d Pbulk (col 0 only)
		bulkToWell := make([]float64, blockDim*blockDim) // d R_bulk_i / d Pbh   (col 0 only)
		wellToBulk := make([]float64, blockDim*blockDim) // d R_well / d Pbulk (row 0, col 0 only)
		for i := 0; i < nc; i++ {
			_, dqDPbulk, dqDPbh := cap.PerfRateDerivs(p, i)
			// perforation withdraws from the bulk cell: residual sign
			// matches flux.Assembler.AddToRhs's "outflow is negative"
			// convention at the donating cell.
			row := rowOffset + i
			bulkDiag[row*blockDim+0] = -dqDPbulk
			bulkToWell[row*blockDim+0] = -dqDPbh

			if w.Mode != BHP {
				dResDPbh += w.RateWeights[i] * dqDPbh
				wellToBulk[0*blockDim+0] += w.RateWeights[i] * dqDPbulk
			}
		}
		sys.AddBlock(bulkRow, bulkRow, bulkDiag)
		sys.AddBlock(bulkRow, wellRow, bulkToWell)
		sys.AddBlock(wellRow, bulkRow, wellToBulk)
	}

	wellDiag := make([]float64, blockDim*blockDim)
	wellDiag[0*blockDim+0] = dResDPbh
	sys.AddBlock(wellRow, wellRow, wellDiag)
}
