// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import "github.com/cpmech/resflow/domain"

// StandardConditionFlash computes the surface-unit conversion factors
// (w_i in well.Well.RateWeights) used to turn a well's reservoir-condition
// molar production/injection rate into surface volume rate, grounded on
// original_source's OCPMixture-style flash-to-stock-tank-conditions call
// made once per well per Newton iteration.
//
// It flashes one mole of each component independently at (Psc, Tsc) through
// the same Flasher used for the reservoir, and returns the stock-tank
// molar volume of whichever phase that component reports into.
type StandardConditionFlash struct {
	Flasher  Flasher
	Psc, Tsc float64
}

// Weights returns, for each of the nc components, the stock-tank volume
// per mole produced/injected of that component.
func (o *StandardConditionFlash) Weights(nc int) []float64 {
	w := make([]float64, nc)
	for i := 0; i < nc; i++ {
		cell := domain.NewCell(0, nc, o.Flasher.NumPhases(), nc+1)
		cell.P = o.Psc
		cell.T = o.Tsc
		cell.N[i] = 1
		cell.Nt = 1
		o.Flasher.Flash(cell, false)
		if cell.Nt > 0 {
			w[i] = cell.Vf / cell.Nt
		}
	}
	return w
}
