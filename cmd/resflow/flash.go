// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/resflow/deck"
	"github.com/cpmech/resflow/domain"
	"github.com/cpmech/resflow/pvt"
	"github.com/spf13/cobra"
)

var (
	flashTable string
	flashP     float64
	flashT     float64
	flashN     []float64
)

func init() {
	RootCmd.AddCommand(flashCmd)
	flashCmd.Flags().StringVar(&flashTable, "pvt", "", "name of the deck's PVT table to flash with")
	flashCmd.Flags().Float64Var(&flashP, "p", 0, "cell pressure")
	flashCmd.Flags().Float64Var(&flashT, "t", 288.15, "cell temperature")
	flashCmd.Flags().Float64SliceVar(&flashN, "n", nil, "component moles, one per component")
}

var flashCmd = &cobra.Command{
	Use:   "flash dir file",
	Short: "Flash a single synthetic cell through one of a deck's PVT tables and print the result",
	Long: "flash exercises the pvt.Flasher core directly, without a domain: it builds one " +
		"synthetic cell from --p/--t/--n, flashes it with the named PVT table, and prints " +
		"the resulting phase split. Useful for sanity-checking a PVT table before wiring it " +
		"into a full run.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dk, err := deck.Read(args[0], args[1])
		if err != nil {
			return err
		}
		table, err := findPVTTable(dk, flashTable)
		if err != nil {
			return err
		}
		fl, err := pvt.NewFlasher(table.Model, table.FunParams(), nil, 1)
		if err != nil {
			return err
		}
		nc, np := fl.NumComponents(), fl.NumPhases()
		c := domain.NewCell(0, nc, np, nc+1)
		c.P, c.T = flashP, flashT
		for k := range c.N {
			if k < len(flashN) {
				c.N[k] = flashN[k]
			}
			c.Nt += c.N[k]
		}
		if err := fl.Flash(c, false); err != nil {
			return err
		}
		printFlashResult(c, np)
		return nil
	},
}

func findPVTTable(dk *deck.Deck, name string) (*deck.PVTTable, error) {
	for i := range dk.PVT {
		if dk.PVT[i].Name == name {
			return &dk.PVT[i], nil
		}
	}
	return nil, chk.Err("flash: deck has no pvt table named %q", name)
}

func printFlashResult(c *domain.Cell, np int) {
	io.Pf("Vf=%g Nt=%g\n", c.Vf, c.Nt)
	for j := 0; j < np; j++ {
		io.Pf("phase %d: exists=%-5v S=%-10.6g Rho=%-10.6g Xi=%-10.6g Mu=%g\n",
			j, c.Phase.Exists[j], c.Phase.S[j], c.Phase.Rho[j], c.Phase.Xi[j], c.Phase.Mu[j])
	}
}
