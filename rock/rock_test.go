// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoreyStoneIIEndpoints(t *testing.T) {
	m := &CoreyStoneII{Swc: 0.2, Sorw: 0.2, Sorg: 0.1, Sgc: 0.05, Krwmax: 0.8, Kromax: 1, Krgmax: 0.9, Nw: 2, Now: 2, Nog: 2, Ng: 2}
	krw, kro, _ := m.Kr(m.Swc, 1-m.Swc, 0)
	assert.InDelta(t, 0, krw, 1e-9)
	assert.Greater(t, kro, 0.0)
}

func TestBrooksCoreyPcDecreasesWithSaturation(t *testing.T) {
	m := &BrooksCoreyPc{Swc: 0.2, Sgc: 0.05, PcowEntry: 10, PcogEntry: 5, LamOW: 2, LamOG: 2}
	pcLow := m.Pcow(0.3)
	pcHigh := m.Pcow(0.9)
	assert.Greater(t, pcLow, pcHigh, "capillary pressure should fall as water saturation rises")
}

func TestPorosityIncreasesWithPressure(t *testing.T) {
	p := &Porosity{Phi0: 0.2, P0: 1000, T0: 320, Cr: 1e-5, AlphaT: 1e-4}
	phi0, dPhiDp, _ := p.Calc(1000, 320)
	assert.InDelta(t, 0.2, phi0, 1e-9)
	assert.Greater(t, dPhiDp, 0.0)
	phi1, _, _ := p.Calc(2000, 320)
	assert.Greater(t, phi1, phi0)
}
