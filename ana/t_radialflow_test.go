// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSteadyRadialFlowPressureDropsTowardWellbore(t *testing.T) {
	o := SteadyRadialFlow{Q: 50, Mu: 1, Kh: 100, Rw: 0.25, Re: 1000, Pe: 3000}
	assert.Less(t, o.BHP(), o.Pe)
	assert.InDelta(t, o.Pe, o.Pressure(o.Re), 1e-9)
}

func TestWellIndexMatchesPeacemanForm(t *testing.T) {
	o := SteadyRadialFlow{Q: 50, Mu: 1, Kh: 100, Rw: 0.25, Re: 1000, Pe: 3000}
	wi := o.WellIndex()
	expected := 2 * math.Pi * 100 / math.Log(1000/0.25)
	assert.InDelta(t, expected, wi, 1e-9)
}
