// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"testing"

	"github.com/cpmech/resflow/linsys"
	"github.com/stretchr/testify/assert"
)

type fakeRateCap struct{ dqDPbulk, dqDPbh float64 }

func (f fakeRateCap) PerfRateDerivs(p *Perforation, component int) (float64, float64, float64) {
	return 0, f.dqDPbulk, f.dqDPbh
}

func TestAssembleWellRowBHPMode(t *testing.T) {
	w := NewWell("P1", Producer, 1000, 2)
	w.Mode = BHP
	w.MinBHP = 500
	w.Pbh = 600
	perf := NewPerforation(0, 1.0, 0.1, PerfZ, 1000, 1, 2)
	w.AddPerforation(perf)

	sys := linsys.NewSystem(2, 3, 0, 2, 8)
	bulkRowOf := func(cellIndex int) int { return cellIndex }
	AssembleWellRow(sys, w, 1, bulkRowOf, 3, 2, 1, fakeRateCap{dqDPbulk: 2, dqDPbh: -3})

	assert.InDelta(t, 100, sys.B[1*3+0], 1e-9) // Pbh - MinBHP
}
