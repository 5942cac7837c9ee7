/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2024 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stackedboxes/tinydbg/pkg/config"
	"github.com/stackedboxes/tinydbg/pkg/dbgr"
	"github.com/stackedboxes/tinydbg/pkg/errs"
	"github.com/stackedboxes/tinydbg/pkg/romutil"
	"github.com/stackedboxes/tinydbg/pkg/transport"
	"github.com/stackedboxes/tinydbg/pkg/vm"
)

// devStackInfoCmd runs a program to completion under a debugger core that
// never actually stops it (no DBG_STRT is sent), just reports the peak frame
// depth seen against the configured breakpoint table capacity -- the kind of
// board-side sanity numbers an embedded target logs when its stack is
// suspect.
var devStackInfoCmd = &cobra.Command{
	Use:   "stack-info <program-file>",
	Short: "Report peak call-stack depth while running a program",
	Long: `Runs a compiled program to completion, reporting the peak call-stack
depth reached against the configured breakpoint table capacity.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		program := loadProgramWithDebugInfoExitingOnError(args[0])

		cfg := config.Default()
		if flagDevStackInfoConfig != "" {
			var err errs.Error
			cfg, err = config.Load(flagDevStackInfoConfig)
			if err != nil {
				reportAndExit(err)
			}
		}

		theVM := vm.New(romutil.NewWriterMouth(os.Stdout))
		bus := transport.NewChannelBus(16)
		core := dbgr.NewCore(cfg, theVM, bus.Target(), nil)

		peak := 0
		theVM.DebugHook = func() {
			if fc := core.StackDiagnostics().FrameCount; fc > peak {
				peak = fc
			}
		}

		err := theVM.Interpret(program)
		if err != nil {
			reportAndExit(err)
		}

		diag := core.StackDiagnostics()
		fmt.Printf("Peak frame depth: %v\n", peak)
		fmt.Printf("Final frame depth: %v\n", diag.FrameCount)
		fmt.Printf("Breakpoint table capacity: %v\n", diag.MaxBreakpoints)

		reportAndExit(nil)
	},
}

// flagDevStackInfoConfig is the value of the --config flag of the `dev
// stack-info` command.
var flagDevStackInfoConfig string

func init() {
	devStackInfoCmd.Flags().StringVar(&flagDevStackInfoConfig, "config", "",
		"Path to a debugger config TOML file (defaults to config.Default())")
}
