// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import "math"

// maxSegmentLength bounds the hydrostatic integration step, spec.md §4.4
// "in segments of at most 10 ft", grounded on original_source/src/Well.cpp's
// CalInjdG/CalProddG01's `maxlen = 10`.
const maxSegmentLength = 10.0

// DensityAtPressure returns the fluid density to use for one hydrostatic
// integration segment at local pressure p. It is the single capability the
// hydrostatic column needs from the PVT layer (spec.md §9 "Each capability
// exposes only what the caller needs").
type DensityAtPressure func(p float64) (rho float64, degenerate bool)

// ColumnModel supplies the density functions the hydrostatic column
// integrates with, one per strategy, so Well stays unaware of how the PVT
// layer computes a mixture (spec.md §9 capability pattern).
type ColumnModel struct {
	// Injected is used when the well is an injector.
	Injected DensityAtPressure
	// TransWeighted, Bulk and Inflow implement the three producer
	// strategies in spec.md §4.4: "preferring the transmissibility-
	// weighted mixture (strategy 1) and falling back to the bulk mixture
	// (strategy 2) or the accumulated inflow composition (strategy 3)
	// when that mixture is degenerate".
	TransWeighted DensityAtPressure
	Bulk          DensityAtPressure
	Inflow        DensityAtPressure
}

// CaldG integrates the hydrostatic column from the BHP depth outward along
// the perforation list (spec.md §4.4 "Hydrostatic column"), grounded on
// original_source/src/Well.cpp's Well::CaldG / CalInjdG / CalProddG01.
// The integration walks toward deeper or shallower perforations depending
// on whether the BHP reference is above or below the first perforation.
func (w *Well) CaldG(gravity float64, model ColumnModel) {
	var density DensityAtPressure
	if w.Type == Injector {
		density = model.Injected
	} else {
		density = w.selectProducerDensity(model)
	}

	n := len(w.Perfs)
	if n == 0 {
		return
	}
	dGperf := make([]float64, n)

	if w.RefDepth <= w.Perfs[0].Depth {
		// well's BHP reference is shallower than the first perforation:
		// integrate from the deepest perforation upward.
		for p := n - 1; p >= 0; p-- {
			var segDepth float64
			if p == 0 {
				segDepth = w.Perfs[0].Depth - w.RefDepth
			} else {
				segDepth = w.Perfs[p].Depth - w.Perfs[p-1].Depth
			}
			if segDepth == 0 {
				continue
			}
			segNum := int(math.Ceil(math.Abs(segDepth) / maxSegmentLength))
			segLen := segDepth / float64(segNum)

			w.Perfs[p].P = w.Pbh + w.DG[p]
			pTmp := w.Perfs[p].P
			for i := 0; i < segNum; i++ {
				rho, _ := density(pTmp)
				pTmp -= rho * gravity * segLen
			}
			dGperf[p] = w.Perfs[p].P - pTmp
		}
		w.DG[0] = dGperf[0]
		for p := 1; p < n; p++ {
			w.DG[p] = w.DG[p-1] + dGperf[p]
		}
	} else {
		// well's BHP reference is deeper than the last perforation:
		// integrate from the shallowest perforation downward.
		for p := 0; p < n; p++ {
			var segDepth float64
			if p == n-1 {
				segDepth = w.RefDepth - w.Perfs[n-1].Depth
			} else {
				segDepth = w.Perfs[p+1].Depth - w.Perfs[p].Depth
			}
			if segDepth == 0 {
				continue
			}
			segNum := int(math.Ceil(math.Abs(segDepth) / maxSegmentLength))
			segLen := segDepth / float64(segNum)

			w.Perfs[p].P = w.Pbh + w.DG[p]
			pTmp := w.Perfs[p].P
			for i := 0; i < segNum; i++ {
				rho, _ := density(pTmp)
				pTmp += rho * gravity * segLen
			}
			dGperf[p] = pTmp - w.Perfs[p].P
		}
		w.DG[n-1] = dGperf[n-1]
		for p := n - 2; p >= 0; p-- {
			w.DG[p] = w.DG[p+1] + dGperf[p]
		}
	}
}

// selectProducerDensity implements the strategy-1/2/3 fallback chain of
// spec.md §4.4 by probing each candidate at the current BHP for
// degeneracy before committing to it for the whole column integration.
func (w *Well) selectProducerDensity(model ColumnModel) DensityAtPressure {
	if model.TransWeighted != nil {
		if _, degenerate := model.TransWeighted(w.Pbh); !degenerate {
			return model.TransWeighted
		}
	}
	if model.Bulk != nil {
		if _, degenerate := model.Bulk(w.Pbh); !degenerate {
			return model.Bulk
		}
	}
	return model.Inflow
}
