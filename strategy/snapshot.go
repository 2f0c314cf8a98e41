// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/well"
)

// snapshotState is the current/last double-buffer every assembler embeds
// (spec.md §3 "Lifecycle"): FIM, IMPEC and AIMc all snapshot and restore
// the same way regardless of how many primary unknowns a cell carries, so
// the bookkeeping lives here once instead of three times.
type snapshotState struct {
	cells []*domain.CellState
	wells []well.State
}

func (s *snapshotState) take(dom *domain.Domain) {
	s.cells = make([]*domain.CellState, len(dom.Cells))
	for i, c := range dom.Cells {
		s.cells[i] = c.Snapshot()
	}
	s.wells = make([]well.State, len(dom.Wells))
	for i, w := range dom.Wells {
		s.wells[i] = w.Snapshot()
	}
}

func (s *snapshotState) restore(dom *domain.Domain) {
	for i, c := range dom.Cells {
		c.Restore(s.cells[i])
	}
	for i, w := range dom.Wells {
		w.Restore(s.wells[i])
	}
}
