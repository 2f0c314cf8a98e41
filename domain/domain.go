// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

import "github.com/cpmech/resflow/well"

// Domain aggregates one rank's local cells, connections, wells and halo
// schedule into the single object the rest of the solve core is handed,
// mirroring fem/domain.go's Domain struct (Distr/Proc/Nodes/Elems) but
// built around cells/connections/wells instead of nodes/elements.
type Domain struct {
	Distr   bool // distributed/parallel run
	Proc    int
	Nproc   int
	Verbose bool
	ShowMsg bool // Verbose && Proc == 0

	Cells       []*Cell
	Connections []*Connection
	Wells       []*well.Well

	Part *Partition

	NumComponents int
	NumPhases     int
	NumPrimary    int // nc+1 isothermal, nc+2 thermal
	Thermal       bool
}

// NewDomain allocates a Domain's cell/connection slices; wells are
// appended separately via AddWell once the deck's well list is resolved
// to cell indices.
func NewDomain(nb, nconn, nc, np int, thermal bool) *Domain {
	npri := nc + 1
	if thermal {
		npri = nc + 2
	}
	d := &Domain{
		NumComponents: nc,
		NumPhases:     np,
		NumPrimary:    npri,
		Thermal:       thermal,
		Cells:         make([]*Cell, nb),
		Connections:   make([]*Connection, 0, nconn),
	}
	for i := range d.Cells {
		d.Cells[i] = NewCell(i, nc, np, npri)
	}
	return d
}

// AddConnection appends a fully constructed connection; callers compute
// the static transmissibility before calling this (spec.md §3
// "Connection" static data is set once at mesh-build time).
func (d *Domain) AddConnection(c *Connection) { d.Connections = append(d.Connections, c) }

// AddWell appends a well to the domain's well list.
func (d *Domain) AddWell(w *well.Well) { d.Wells = append(d.Wells, w) }

// NumBlockRows returns the total number of block rows (bulk cells plus
// wells) this rank's linear system carries, the System.NumBlockRows the
// linsys package expects.
func (d *Domain) NumBlockRows() int { return len(d.Cells) + len(d.Wells) }

// WellRowOf returns the block row index for well i (wells are stacked
// after all bulk cells, per spec.md §4.4's "well row" placement).
func (d *Domain) WellRowOf(i int) int { return len(d.Cells) + i }
