/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/stackedboxes/tinydbg/pkg/romutil"
	"github.com/stackedboxes/tinydbg/pkg/vm"
)

// runDebugTraceExecution is for the flag --trace.
var runDebugTraceExecution bool

var runCmd = &cobra.Command{
	Use:   "run <program-file>",
	Short: "Runs a compiled program, with no debugger attached",
	Long: `Runs a compiled program, with no debugger attached. Use "serve" instead
to run under the debugger core.`,
	Args: cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		program := loadProgramExitingOnError(args[0])

		theVM := vm.New(romutil.NewWriterMouth(os.Stdout))
		theVM.DebugTraceExecution = runDebugTraceExecution
		err := theVM.Interpret(program)
		reportAndExit(err)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDebugTraceExecution, "trace", false,
		"Trace execution, disassembling each instruction as it runs")
}
