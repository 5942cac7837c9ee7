/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"github.com/spf13/cobra"
	"github.com/stackedboxes/tinydbg/pkg/test"
)

var devTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the debugger core's scenario test suite",
	Long: `Run the debugger core's scenario test suite: every scenario.toml found
under the suite path is driven end-to-end against a hand-assembled fixture,
exercising the execution-control state machine and the wire protocol the way
a host debugger would.`,
	Args: cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		err := test.ExecuteSuite(flagDevTestSuite)
		reportAndExit(err)
	},
}

// flagDevTestSuite is the value of the --suite flag of the `dev test` command.
var flagDevTestSuite string

func init() {
	devTestCmd.Flags().StringVarP(&flagDevTestSuite, "suite", "s",
		"./pkg/test/testdata", "Path to the scenario suite to run")
}
