/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "tinydbg",
	SilenceUsage: true,
	Short:        "tinydbg is an on-target debugger core for a bytecode interpreter",
	Long: `tinydbg runs a compiled program under its debugger core, serving
breakpoints, stepping, and stack/variables inspection to a host over a
transport. It also bundles the developer tooling used to work on tinydbg
itself: disassembly, stack diagnostics, and the scenario test suite.`,
}

func init() {
	devCmd.AddCommand(devDisassembleCmd, devStackInfoCmd, devTestCmd)
	rootCmd.AddCommand(runCmd, serveCmd, devCmd)
}
