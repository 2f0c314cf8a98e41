// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"math"

	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/nr"
)

// statePlausible applies spec.md §4.5 step 2's physical-admissibility
// gate: every cell's pressure must stay positive and its component moles
// non-negative (a zero mole number is accepted), and
// the volume-balance error must stay under tol.VolErrMax. Temperature is
// only required to stay non-negative rather than strictly positive, since
// isothermal runs never move Cell.T away from its zero-value default.
// Every well's bottom-hole pressure must also stay non-negative (the same
// zero-default allowance as temperature); a well that drives Pbh negative
// is caught here on the *next* iteration's check
// (CheckLimits' own NegativePressure result is only a report, not a
// correction -- see strategy/wellcoupling.go's recheckWellLimits).
//
// The CFL half of step 2 ("IMPEC only") is not duplicated here: it is
// already the dedicated ResetCutCFL path in nr.ClassifyStep, driven by
// Trackers.MaxCFL once a step's dt is known. This pre-solve check runs
// before dt is chosen, so there is nothing for it to compare against yet.
func statePlausible(dom *domain.Domain, tol nr.Tolerances) bool {
	for _, c := range dom.Cells {
		if c.P <= 0 || c.T < 0 {
			return false
		}
		for _, n := range c.N {
			if n < 0 {
				return false
			}
		}
		if c.Vp > 0 && math.Abs(c.Vf-c.Vp)/c.Vp > tol.VolErrMax {
			return false
		}
	}
	for _, w := range dom.Wells {
		if w.Pbh < 0 {
			return false
		}
	}
	return true
}
