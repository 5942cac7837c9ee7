/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2024 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/stackedboxes/tinydbg/pkg/config"
	"github.com/stackedboxes/tinydbg/pkg/dbgr"
	"github.com/stackedboxes/tinydbg/pkg/errs"
	"github.com/stackedboxes/tinydbg/pkg/romutil"
	"github.com/stackedboxes/tinydbg/pkg/transport"
	"github.com/stackedboxes/tinydbg/pkg/vm"
)

var serveCmd = &cobra.Command{
	Use:   "serve <program-file>",
	Short: "Runs a compiled program with the debugger core attached",
	Long: `Runs a compiled program with the debugger core attached, speaking the
debug wire protocol over stdin/stdout. A host debugger drives breakpoints,
stepping, and stack/variables inspection by sending commands on stdin and
reading events and responses from stdout. Execution is held until the host
opens the session with DBG_STRT.`,
	Args: cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		program := loadProgramWithDebugInfoExitingOnError(args[0])

		cfg := config.Default()
		if flagServeConfig != "" {
			var err errs.Error
			cfg, err = config.Load(flagServeConfig)
			if err != nil {
				reportAndExit(err)
			}
		}

		bus := transport.NewStreamBus(os.Stdin, os.Stdout)
		theVM := vm.New(romutil.NewWriterMouth(os.Stderr))
		core := dbgr.NewCore(cfg, theVM, bus, nil)

		theVM.DebugHook = func() {
			if bc := theVM.CurrentPos(); bc != nil {
				core.Process(bc)
			}
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go core.RunDispatcher(ctx)

		core.AwaitEnabled(ctx)
		err := theVM.Interpret(program)

		var code uint32
		if err != nil {
			code = uint32(err.ExitCode())
		}
		core.EmitDone(code)

		reportAndExit(err)
	},
}

// flagServeConfig is the value of the --config flag of the `serve` command.
var flagServeConfig string

func init() {
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "",
		"Path to a debugger config TOML file (defaults to config.Default())")
}
