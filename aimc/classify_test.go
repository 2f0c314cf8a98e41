// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aimc

import (
	"testing"

	"github.com/cpmech/resflow/domain"
	"github.com/stretchr/testify/assert"
)

func chain(n int) ([]*domain.Cell, []*domain.Connection) {
	cells := make([]*domain.Cell, n)
	for i := range cells {
		cells[i] = domain.NewCell(i, 1, 1, 2)
	}
	conns := make([]*domain.Connection, 0, n-1)
	for i := 0; i < n-1; i++ {
		conns = append(conns, domain.NewConnection(i, i, i+1, domain.DirX, 1, 1, 1))
	}
	return cells, conns
}

func TestClassifyPropagatesFromHighCFLCell(t *testing.T) {
	cells, conns := chain(7)
	cfl := make([]float64, 7)
	cfl[3] = 5.0 // far above limit
	volErr := make([]float64, 7)

	Classify(cells, conns, cfl, volErr, nil, DefaultThresholds())

	for i := 1; i <= 5; i++ {
		assert.True(t, cells[i].Implicit, "cell %d is within 2 hops of the trigger", i)
	}
	assert.False(t, cells[0].Implicit, "cell 0 is 3 hops away, outside PropagateHops")
	assert.False(t, cells[6].Implicit, "cell 6 is 3 hops away, outside PropagateHops")
}

func TestClassifySeedsWellCells(t *testing.T) {
	cells, conns := chain(3)
	cfl := make([]float64, 3)
	volErr := make([]float64, 3)

	Classify(cells, conns, cfl, volErr, []int{0}, DefaultThresholds())
	assert.True(t, cells[0].Implicit)
}
