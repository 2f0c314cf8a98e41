// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

// CellPressure is the single thing CheckCrossFlow needs from the bulk
// state: the pressure of the cell a perforation connects to (spec.md §9
// capability pattern).
type CellPressure func(cellIndex int) float64

// CheckCrossFlow closes perforations whose well-side pressure would drive
// flow opposite to the well type and reopens any perforation whose
// pressure relation has reverted (spec.md §4.4 "Cross-flow"), grounded on
// original_source/src/Well.cpp's Well::CheckCrossFlow. If all perforations
// end up closed, the deepest is re-opened. Returns true if any
// perforation was closed in this call (a reopening alone returns false),
// signalling the caller to retry the step
// with recomputed transmissibilities.
func (w *Well) CheckCrossFlow(cellP CellPressure) bool {
	changed := false
	if w.Type == Producer {
		for _, p := range w.Perfs {
			bulkP := cellP(p.CellIndex)
			switch {
			case p.State == Open && bulkP < p.P:
				p.State = Closed
				p.Multiplier = 0
				changed = true
			case p.State == Closed && bulkP > p.P:
				p.State = Open
				p.Multiplier = 1
			}
		}
	} else {
		for _, p := range w.Perfs {
			bulkP := cellP(p.CellIndex)
			switch {
			case p.State == Open && bulkP > p.P:
				p.State = Closed
				p.Multiplier = 0
				changed = true
			case p.State == Closed && bulkP < p.P:
				p.State = Open
				p.Multiplier = 1
			}
		}
	}

	if w.OpenPerfCount() == 0 && len(w.Perfs) > 0 {
		deepest := w.Perfs[len(w.Perfs)-1]
		deepest.State = Open
		deepest.Multiplier = 1
	}

	w.CrossflowThisIter = changed
	return changed
}
