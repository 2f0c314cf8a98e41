// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/nr"
)

// chopCellUpdate computes spec.md §4.5 step 5's saturation-limited step
// multiplier alpha for one cell, from the raw pressure/mole corrections
// the linear solver produced (dp and dn, in the same column order as
// Cell.DSec: P then the cell's components) and the cell's own dSec_dPri
// block. Every assembler's ApplyUpdate applies alpha*dp and alpha*dn
// uniformly -- "pressure and mole updates use the same alpha" -- instead
// of the raw, unchopped values.
//
// nr.ChopUpdate works in the convention s_new = s + alpha*ds; this
// codebase's ApplyUpdate applies state_new = state_old - raw, so ds here
// is the *negated* DSec-projected change, keeping the two conventions
// consistent.
//
// A cell whose Flasher never fills DSec (pvt.Compositional, see
// DESIGN.md) yields an all-zero ds, which nr.ChopUpdate safely treats as
// alpha=1: no saturation protection, but no panic or spurious chop either.
func chopCellUpdate(c *domain.Cell, dp float64, dn []float64, dSlim float64) (alpha float64, ds []float64) {
	np := len(c.Phase.S)
	ds = make([]float64, np)
	nRow, nCol := c.DSec.Dims()
	if nRow == 0 {
		return 1, ds
	}
	raw := make([]float64, nCol)
	if nCol > 0 {
		raw[0] = dp
	}
	for k, v := range dn {
		if 1+k < nCol {
			raw[1+k] = v
		}
	}
	for j := 0; j < np; j++ {
		var v float64
		for col := 0; col < nCol; col++ {
			v += c.DSec.Get(j, col) * raw[col]
		}
		ds[j] = -v
	}
	alpha = nr.ChopUpdate(c.Phase.S, ds, dSlim)
	return
}
