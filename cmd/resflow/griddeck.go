// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/resflow/deck"
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/well"
)

// gridCellDeck is one cell's static geometry and initial state, the
// per-cell half of the grid-geometry external interface spec.md §1 places
// out of the core's scope ("grid geometry construction" is a
// collaborator's job, specified only by its interface to the core): a
// preprocessor computes bulk volumes, depths and transmissibilities from
// an actual mesh, and resflow only ever consumes the result.
type gridCellDeck struct {
	V        float64   `json:"v"`
	Depth    float64   `json:"depth"`
	RockCond float64   `json:"rockcond"`
	Phi0     float64   `json:"phi0"`
	P0       float64   `json:"p0"`
	T0       float64   `json:"t0"`
	N0       []float64 `json:"n0"`
}

// gridConnDeck is one precomputed static transmissibility between two
// cells, mirroring domain.Connection's own static fields.
type gridConnDeck struct {
	B     int     `json:"b"`
	E     int     `json:"e"`
	Dir   string  `json:"dir"` // "x","y","z","matrixfracture","unstructured"
	Trans float64 `json:"trans"`
}

// gridDeck is the full external geometry interface: a flat cell and
// connection list with no notion of how a mesh produced them.
type gridDeck struct {
	Cells       []gridCellDeck `json:"cells"`
	Connections []gridConnDeck `json:"connections"`
}

func readGridDeck(dir, fn string) (*gridDeck, error) {
	b, err := io.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, err
	}
	g := new(gridDeck)
	if err := json.Unmarshal(b, g); err != nil {
		return nil, chk.Err("griddeck: cannot parse %q: %v", fn, err)
	}
	return g, nil
}

func parseDirection(s string) domain.Direction {
	switch strings.ToLower(s) {
	case "x":
		return domain.DirX
	case "y":
		return domain.DirY
	case "z":
		return domain.DirZ
	case "matrixfracture":
		return domain.DirMatrixFracture
	default:
		return domain.DirUnstructured
	}
}

func parsePerfDir(s string) well.PerfDir {
	switch strings.ToLower(s) {
	case "y":
		return well.PerfY
	case "z":
		return well.PerfZ
	default:
		return well.PerfX
	}
}

func parseWellType(s string) well.WellType {
	if strings.EqualFold(s, "injector") {
		return well.Injector
	}
	return well.Producer
}

// buildDomain assembles a single-rank domain.Domain from a grid deck's
// static geometry plus the physics deck's well completions (deck.WellDeck
// already carries everything a well.Perforation needs, so wells are not
// duplicated into the grid deck). Called once per run, before the time
// loop; every value it copies in is static for the lifetime of the run.
func buildDomain(g *gridDeck, dk *deck.Deck, nc, np int) *domain.Domain {
	dom := domain.NewDomain(len(g.Cells), len(g.Connections), nc, np, dk.Thermal)
	dom.Part = domain.NewPartition(len(g.Cells), len(g.Cells), nil)
	dom.Verbose = true
	dom.ShowMsg = true

	for i, gc := range g.Cells {
		c := dom.Cells[i]
		c.V = gc.V
		c.Depth = gc.Depth
		c.RockCond = gc.RockCond
		c.Phi = gc.Phi0
		c.Vp = gc.V * gc.Phi0
		c.P = gc.P0
		c.T = gc.T0
		for k := range c.N {
			if k < len(gc.N0) {
				c.N[k] = gc.N0[k]
			}
			c.Nt += c.N[k]
		}
	}

	for i, gcn := range g.Connections {
		dom.AddConnection(domain.NewConnection(i, gcn.B, gcn.E, parseDirection(gcn.Dir), gcn.Trans, np, nc))
	}

	for _, wd := range dk.Wells {
		w := well.NewWell(wd.Name, parseWellType(wd.Type), wd.RefDepth, nc)
		w.MinBHP, w.MaxBHP = wd.MinBHP, wd.MaxBHP
		w.Mode = well.ParseMode(wd.InitMode)
		w.InitialMode = w.Mode
		for k, v := range wd.InjComp {
			if k < len(w.InjComposition) {
				w.InjComposition[k] = v
			}
		}
		w.InjTemperature = wd.InjTemp
		for _, pd := range wd.Perfs {
			p := well.NewPerforation(pd.CellIndex, pd.WI, pd.Radius, parsePerfDir(pd.Dir), pd.Depth, np, nc)
			p.Skin = pd.Skin
			w.AddPerforation(p)
		}
		dom.AddWell(w)
	}
	return dom
}
