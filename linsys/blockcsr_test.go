// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsys

import "testing"

func TestAddBlockAndResidual(t *testing.T) {
	sys := NewSystem(2, 2, 0, 2, 8)
	sys.AddBlock(0, 0, []float64{2, 0, 0, 2})
	sys.AddBlock(1, 1, []float64{3, 0, 0, 3})
	sys.AddResidual(0, []float64{1, 2})
	sys.AddResidual(1, []float64{3, 4})

	if sys.B[0] != 1 || sys.B[1] != 2 || sys.B[2] != 3 || sys.B[3] != 4 {
		t.Fatalf("unexpected residual vector: %v", sys.B)
	}
}

func TestResetClearsResidual(t *testing.T) {
	sys := NewSystem(1, 2, 0, 1, 4)
	sys.AddResidual(0, []float64{5, 6})
	sys.Reset()
	for i, v := range sys.B {
		if v != 0 {
			t.Errorf("B[%d] = %v after Reset, want 0", i, v)
		}
	}
}

func TestDirectGaussSolverIdentity(t *testing.T) {
	sys := NewSystem(2, 1, 0, 2, 2)
	sys.AddBlock(0, 0, []float64{1})
	sys.AddBlock(1, 1, []float64{1})
	sys.AddResidual(0, []float64{-3}) // J*du = -R => du = 3
	sys.AddResidual(1, []float64{-4})

	solver := &DirectGaussSolver{}
	_, err := solver.Solve(sys)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if sys.X[0] != 3 || sys.X[1] != 4 {
		t.Fatalf("unexpected solution: %v", sys.X)
	}
}
