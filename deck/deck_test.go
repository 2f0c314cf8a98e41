// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTuningForPicksLatestWindowNotAfterTime(t *testing.T) {
	d := &Deck{Tuning: []TuningWindow{
		{BeginTime: 0, DtInit: 1},
		{BeginTime: 100, DtInit: 5},
		{BeginTime: 200, DtInit: 10},
	}}
	w := d.TuningFor(150)
	assert.Equal(t, 5.0, w.DtInit)
}

func TestTuningForEmptyReturnsZeroValue(t *testing.T) {
	d := &Deck{}
	w := d.TuningFor(10)
	assert.Equal(t, TuningWindow{}, w)
}
