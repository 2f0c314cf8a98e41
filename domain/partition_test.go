// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

import "testing"

// TestPartitionSerial checks that a single-rank Partition treats all cells
// as interior and performs no communication.
func TestPartitionSerial(t *testing.T) {
	p := NewPartition(4, 4, nil)
	if p.Distr {
		t.Fatalf("single-rank partition must not be distributed")
	}
	field := make([]float64, 4*2)
	if err := p.ExchangeScalar(field, 2); err != nil {
		t.Fatalf("ExchangeScalar on serial partition must be a no-op: %v", err)
	}
	idx := p.ComputeGlobalIndices(0)
	for i, v := range idx {
		if v != int64(i) {
			t.Errorf("serial global index %d: got %d, want %d", i, v, i)
		}
	}
}

// TestPackIndices checks the send-buffer packing helper used by
// ExchangeScalar and the global-index halo exchange.
func TestPackIndices(t *testing.T) {
	field := []float64{0, 1, 2, 3, 4, 5, 6, 7} // 4 cells, elemWords=2
	buf := packIndices(field, []int{0, 2}, 2)
	want := []float64{0, 1, 4, 5}
	if len(buf) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(buf), len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

// TestGlobalBeginEndEmpty checks the degenerate zero-interior-cell case.
func TestGlobalBeginEndEmpty(t *testing.T) {
	p := NewPartition(0, 0, nil)
	b, e := p.GlobalBeginEnd()
	if b != 0 || e != 0 {
		t.Errorf("expected (0,0), got (%d,%d)", b, e)
	}
}
