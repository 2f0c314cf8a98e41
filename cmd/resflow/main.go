// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command resflow is the CLI entry point for the reservoir-flow solve
// core (spec.md §1 "Purpose and scope"). It wires a deck (spec.md §6
// "External interfaces") into the validate/flash/run subcommands;
// building the domain a run operates on (grid geometry, mesh
// partitioning) is explicitly the job of an external preprocessor per
// spec.md §1, so run reads its domain from an already-built grid deck
// rather than constructing one from raw geometry.
package main

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootCmd is the base command; each subcommand registers itself onto it
// from its own init(), mirroring spatialmodel-inmap's inmap/cmd.RootCmd
// tree.
var RootCmd = &cobra.Command{
	Use:   "resflow",
	Short: "resflow runs a parallel, multi-phase, multi-component reservoir-flow simulation",
}

// log is the structured run-lifecycle logger (start/success/failure of a
// subcommand invocation), kept separate from the per-iteration io.Pf
// console output nr.LogStepOutcome already prints: the same
// standard-logger-plus-TextFormatter setup inmapweb/cmd's main.go uses,
// applied here to the resflow process instead of a long-lived web server.
var log = logrus.StandardLogger()

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func main() {
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				log.WithField("panic", err).Error("resflow: unrecovered panic")
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)
	if mpi.Rank() == 0 {
		io.PfWhite("\nresflow -- parallel reservoir-flow simulation core\n\n")
	}
	if err := RootCmd.Execute(); err != nil {
		if mpi.Rank() == 0 {
			log.WithError(err).Error("resflow: command failed")
			io.PfRed("ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}
