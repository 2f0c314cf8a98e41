// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBL() BuckleyLeverett {
	return BuckleyLeverett{
		Swc: 0.2, Sor: 0.2,
		Krwmax: 0.4, Kromax: 1.0,
		Muw: 0.5, Muo: 2.0,
		Nw: 2, No: 2,
	}
}

func TestFrontSaturationLiesBetweenConnateAndMaxMobile(t *testing.T) {
	bl := sampleBL()
	swf := bl.FrontSaturation()
	assert.Greater(t, swf, bl.Swc)
	assert.Less(t, swf, 1-bl.Sor)
}

func TestArrivalTimeScalesInverselyWithRate(t *testing.T) {
	bl := sampleBL()
	tSlow := bl.ArrivalTime(10, 1, 0.2, 100)
	tFast := bl.ArrivalTime(20, 1, 0.2, 100)
	assert.Greater(t, tSlow, tFast)
}
