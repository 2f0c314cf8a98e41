// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckConvergenceAcceptsWithinTolerance(t *testing.T) {
	tr := &Trackers{}
	tr.UpdateIter(1, 0.01, 0.01, 0, 0.1, 0)
	tol := DefaultTolerances()
	assert.Equal(t, Converged, CheckConvergence(tr, 1e-8, tol))
}

func TestCheckConvergenceExceedsMaxIter(t *testing.T) {
	tr := &Trackers{}
	tol := DefaultTolerances()
	tol.MaxIter = 1
	for i := 0; i < 3; i++ {
		tr.UpdateIter(1000, 10, 10, 100, 0.1, 0)
	}
	assert.Equal(t, NotConverged, CheckConvergence(tr, 1.0, tol))
}

func TestCheckConvergenceBlockedByWellResidual(t *testing.T) {
	tr := &Trackers{}
	tr.UpdateIter(1, 0.01, 0.01, 0, 0.1, 0.5) // every other quantity tight, well still far off
	tol := DefaultTolerances()
	assert.Equal(t, ContinueIter, CheckConvergence(tr, 1e-8, tol))
}

func TestClassifyStepCFLBreachForcesCut(t *testing.T) {
	tr := &Trackers{}
	tr.UpdateIter(1, 0.01, 0.01, 0, 2.0, 0)
	tol := DefaultTolerances()
	assert.Equal(t, ResetCutCFL, ClassifyStep(Converged, tr, tol))
}

func TestChopUpdateLimitsExcursionAndNegativeSaturation(t *testing.T) {
	s := []float64{0.1, 0.4, 0.5}
	ds := []float64{-0.5, 0.05, -0.02}
	alpha := ChopUpdate(s, ds, 0.2)
	assert.LessOrEqual(t, alpha, 1.0)
	assert.Greater(t, alpha, 0.0)
	for j := range s {
		assert.GreaterOrEqual(t, s[j]+alpha*ds[j], 0.0)
	}
}

func TestNextDtClampsToRange(t *testing.T) {
	tr := &Trackers{}
	tr.DPmaxT = 1000 // far beyond tolerance, should shrink dt
	tol := DefaultTolerances()
	dt := NextDt(10, tr, tol, 0.1, 100)
	assert.GreaterOrEqual(t, dt, 0.1)
	assert.LessOrEqual(t, dt, 100.0)
}
