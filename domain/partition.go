// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// PeerSchedule describes the fixed exchange lists for one neighbour rank,
// built once when the mesh is partitioned (spec.md §4.1).
type PeerSchedule struct {
	Rank        int   // neighbour rank
	SendIndices []int // interior cells of self that are ghosts of the peer
	RecvBegin   int   // first local index of the contiguous recv range
	RecvEnd     int   // one past the last local index of the recv range
}

// Partition owns the local cell list, halo layout and peer exchange
// schedule for one rank (spec.md §4.1). Real cells occupy [0, NbInterior);
// ghost cells from neighbours occupy [NbInterior, Nb). Wells are appended
// as pseudo-cells after all real cells when computing global numbering,
// matching spec.md §4.1 "compute_global_indices(num_active_wells)".
type Partition struct {
	Distr      bool // true when running with more than one rank
	Proc       int  // this processor's rank
	Nproc      int  // number of processors
	NbInterior int  // number of interior (owned) cells
	Nb         int  // interior + ghost cells
	Peers      []PeerSchedule
	globalIdx  []int64 // [Nb] stable global numbering, refreshed each call
}

// NewPartition builds a Partition descriptor. peers is the caller-supplied
// neighbour exchange schedule (built once by the mesh/grid layer, which is
// out of scope per spec.md §1); nbInterior/nb describe the local array
// layout.
func NewPartition(nbInterior, nb int, peers []PeerSchedule) *Partition {
	distr := mpi.IsOn() && mpi.Size() > 1
	proc := 0
	nproc := 1
	if mpi.IsOn() {
		proc = mpi.Rank()
		nproc = mpi.Size()
	}
	return &Partition{
		Distr:      distr,
		Proc:       proc,
		Nproc:      nproc,
		NbInterior: nbInterior,
		Nb:         nb,
		Peers:      peers,
		globalIdx:  make([]int64, nb),
	}
}

// sendRecvOrdered exchanges a fixed-length float64 buffer with a peer using
// a blocking send/recv pair ordered by rank to avoid the classic two-rank
// deadlock: the lower-ranked side sends first then receives, the
// higher-ranked side receives first then sends.
func sendRecvOrdered(selfRank, peerRank int, send []float64, recv []float64) {
	if selfRank < peerRank {
		if len(send) > 0 {
			mpi.SendFloat64(peerRank, send)
		}
		if len(recv) > 0 {
			mpi.RecvFloat64(peerRank, recv)
		}
	} else {
		if len(recv) > 0 {
			mpi.RecvFloat64(peerRank, recv)
		}
		if len(send) > 0 {
			mpi.SendFloat64(peerRank, send)
		}
	}
}

// ExchangeScalar posts, for every neighbour, a packed send of send_indices
// and an ordered receive into recv_range, implementing spec.md §4.1's
// exchange_scalar(&mut field, elem_bytes) contract. field holds one
// contiguous block of elemWords float64 values per local cell (component
// moles use elemWords=nc; the NR-solution exchange uses nc+1, or nc+2 for
// thermal, per spec.md §5).
func (o *Partition) ExchangeScalar(field []float64, elemWords int) error {
	if !o.Distr {
		return nil
	}
	if len(field) != o.Nb*elemWords {
		return chk.Err("ExchangeScalar: field has wrong length: %d != %d*%d", len(field), o.Nb, elemWords)
	}
	for _, p := range o.Peers {
		sendBuf := packIndices(field, p.SendIndices, elemWords)
		recvBuf := field[p.RecvBegin*elemWords : p.RecvEnd*elemWords]
		sendRecvOrdered(o.Proc, p.Rank, sendBuf, recvBuf)
	}
	return nil
}

func packIndices(field []float64, indices []int, elemWords int) []float64 {
	if len(indices) == 0 {
		return nil
	}
	buf := make([]float64, len(indices)*elemWords)
	for k, idx := range indices {
		copy(buf[k*elemWords:(k+1)*elemWords], field[idx*elemWords:(idx+1)*elemWords])
	}
	return buf
}

// ComputeGlobalIndices produces a stable global numbering via a prefix sum
// (scan) of NbInterior+numActiveWells across ranks, then a halo exchange of
// the resulting indices. Called every Newton iteration because the set of
// active wells may change (spec.md §4.1).
func (o *Partition) ComputeGlobalIndices(numActiveWells int) []int64 {
	localCount := float64(o.NbInterior + numActiveWells)
	base := exclusiveScan(o.Proc, o.Nproc, localCount)
	for i := 0; i < o.NbInterior; i++ {
		o.globalIdx[i] = base + int64(i)
	}
	if o.Distr {
		o.exchangeGlobalIndices()
	}
	return o.globalIdx
}

// exclusiveScan implements a prefix sum across ranks using gosl/mpi's
// collective all-reduce-sum primitive: every rank all-reduces a vector with
// its own contribution placed at its own slot and zero elsewhere, then
// sums the slots before its own rank. This avoids depending on a dedicated
// scan primitive that gosl/mpi may not expose, while still only using
// collective (not point-to-point) communication as spec.md §5 requires for
// "compute_global_indices".
func exclusiveScan(rank, nproc int, local float64) int64 {
	if nproc == 1 {
		return 0
	}
	contrib := make([]float64, nproc)
	contrib[rank] = local
	totals := make([]float64, nproc)
	mpi.AllReduceSum(totals, contrib)
	var base float64
	for i := 0; i < rank; i++ {
		base += totals[i]
	}
	return int64(base)
}

func (o *Partition) exchangeGlobalIndices() {
	for _, p := range o.Peers {
		sendBuf := packIndicesI64(o.globalIdx, p.SendIndices)
		recvBuf := make([]float64, p.RecvEnd-p.RecvBegin)
		sendRecvOrdered(o.Proc, p.Rank, sendBuf, recvBuf)
		for k, v := range recvBuf {
			o.globalIdx[p.RecvBegin+k] = int64(v)
		}
	}
}

func packIndicesI64(idx []int64, indices []int) []float64 {
	if len(indices) == 0 {
		return nil
	}
	buf := make([]float64, len(indices))
	for k, i := range indices {
		buf[k] = float64(idx[i])
	}
	return buf
}

// GlobalBeginEnd returns this rank's contiguous [begin,end) range in the
// global row numbering, as required by the linear-solver contract
// (spec.md §6 "External Interfaces").
func (o *Partition) GlobalBeginEnd() (begin, end int64) {
	if o.NbInterior == 0 {
		return 0, 0
	}
	begin = o.globalIdx[0]
	return begin, begin + int64(o.NbInterior)
}

// AllReduceMin reduces a local scalar across all ranks, taking the minimum;
// used for time-step prediction (spec.md §4.5) and convergence tests
// (spec.md §4.5 step 6, "the minimum is taken via collective reduction").
func AllReduceMin(local float64) float64 {
	if !mpi.IsOn() || mpi.Size() == 1 {
		return local
	}
	dest, orig := []float64{0}, []float64{local}
	mpi.AllReduceMin(dest, orig)
	return dest[0]
}

// AllReduceMax reduces a local scalar across all ranks, taking the maximum;
// used by residual-norm computation (spec.md §5 "Ordering guarantees").
func AllReduceMax(local float64) float64 {
	if !mpi.IsOn() || mpi.Size() == 1 {
		return local
	}
	dest, orig := []float64{0}, []float64{local}
	mpi.AllReduceMax(dest, orig)
	return dest[0]
}

// AllReduceSum reduces a local scalar across all ranks, summing; used for
// residual norms and mass-balance accumulation.
func AllReduceSum(local float64) float64 {
	if !mpi.IsOn() || mpi.Size() == 1 {
		return local
	}
	dest, orig := []float64{0}, []float64{local}
	mpi.AllReduceSum(dest, orig)
	return dest[0]
}
