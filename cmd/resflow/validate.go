// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/resflow/deck"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate dir file",
	Short: "Read a deck and print a summary without running it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dk, err := deck.Read(args[0], args[1])
		if err != nil {
			return err
		}
		printDeckSummary(dk)
		return nil
	},
}

func printDeckSummary(dk *deck.Deck) {
	io.Pf("strategy:       %s\n", dk.Strategy)
	io.Pf("thermal:        %v\n", dk.Thermal)
	io.Pf("standard cond:  Psc=%g Tsc=%g\n", dk.Psc, dk.Tsc)
	io.Pf("pvt tables (%d):\n", len(dk.PVT))
	for _, t := range dk.PVT {
		io.Pf("  - %-16s model=%s nprms=%d\n", t.Name, t.Model, len(t.Prms))
	}
	io.Pf("sat tables (%d):\n", len(dk.SAT))
	for _, t := range dk.SAT {
		io.Pf("  - %-16s relperm=%-14s cappress=%s\n", t.Name, t.RelPerm, t.CapPress)
	}
	io.Pf("wells (%d):\n", len(dk.Wells))
	for _, w := range dk.Wells {
		io.Pf("  - %-16s type=%-9s perfs=%d schedule=%d initmode=%s\n",
			w.Name, w.Type, len(w.Perfs), len(w.Schedule), w.InitMode)
	}
	io.Pf("tuning windows (%d):\n", len(dk.Tuning))
	for _, tw := range dk.Tuning {
		io.Pf("  - t>=%-10g dtinit=%g dtmin=%g dtmax=%g\n", tw.BeginTime, tw.DtInit, tw.DtMin, tw.DtMax)
	}
}
