// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/resflow/deck"
	"github.com/cpmech/resflow/flux"
	"github.com/cpmech/resflow/linsys"
	"github.com/cpmech/resflow/pvt"
	"github.com/cpmech/resflow/rock"
	"github.com/cpmech/resflow/strategy"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	runTFinal float64
	runSolver string
)

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().Float64Var(&runTFinal, "tfinal", 0, "simulation end time (required)")
	runCmd.Flags().StringVar(&runSolver, "solver", "jacobi", "linear solver: jacobi or gauss")
	runCmd.MarkFlagRequired("tfinal")
}

var runCmd = &cobra.Command{
	Use:   "run dir deckfile griddeckfile",
	Short: "Run a simulation to completion",
	Long: "run drives the strategy named by the deck's \"strategy\" field (fim, impec or " +
		"aimc) from t=0 to --tfinal. The domain it runs on is read from griddeckfile, a flat " +
		"cell/connection list with precomputed static geometry: building that geometry from " +
		"an actual mesh is an external preprocessor's job (spec.md §1), not this core's.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, deckFile, gridFile := args[0], args[1], args[2]
		dk, err := deck.Read(dir, deckFile)
		if err != nil {
			return err
		}
		gd, err := readGridDeck(dir, gridFile)
		if err != nil {
			return err
		}
		if len(dk.PVT) == 0 {
			return chk.Err("run: deck has no pvt table")
		}
		fl, err := pvt.NewFlasher(dk.PVT[0].Model, dk.PVT[0].FunParams(), nil, len(gd.Cells))
		if err != nil {
			return err
		}
		nc, np := fl.NumComponents(), fl.NumPhases()

		dom := buildDomain(gd, dk, nc, np)

		fluxAsm := &flux.Assembler{NumComp: nc, NumPhase: np}
		if len(dk.SAT) > 0 {
			if fluxAsm.RelPerm, err = rock.New(dk.SAT[0].RelPerm); err != nil {
				return err
			}
			if err = fluxAsm.RelPerm.Init(dk.SAT[0].RelFunParams()); err != nil {
				return err
			}
			if dk.SAT[0].CapPress != "" {
				if fluxAsm.CapPress, err = rock.NewCapPressure(dk.SAT[0].CapPress); err != nil {
					return err
				}
				if err = fluxAsm.CapPress.Init(dk.SAT[0].CapFunParams()); err != nil {
					return err
				}
			}
		}

		var sol linsys.Solver
		if runSolver == "gauss" {
			sol = &linsys.DirectGaussSolver{}
		} else {
			sol = linsys.NewJacobiPreconditionedSolver()
		}

		runner := strategy.NewRunner(dk, dom, sol, fl, fluxAsm, true)
		io.Pf("> %d cells, %d connections, %d wells, strategy=%s\n",
			len(dom.Cells), len(dom.Connections), len(dom.Wells), dk.Strategy)
		log.WithFields(logrus.Fields{
			"strategy": dk.Strategy, "cells": len(dom.Cells), "wells": len(dom.Wells), "tfinal": runTFinal,
		}).Info("resflow: run starting")
		err = runner.Run(runTFinal)
		if err != nil {
			log.WithError(err).Warn("resflow: run failed")
		} else {
			log.Info("resflow: run finished")
		}
		return err
	},
}
