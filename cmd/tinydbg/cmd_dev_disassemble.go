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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/stackedboxes/tinydbg/pkg/bytecode"
)

var devDisassembleCmd = &cobra.Command{
	Use:   "disassemble <program-file>",
	Short: "Disassemble a compiled program",
	Long:  `Disassemble a compiled program.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		program := loadProgramWithDebugInfoExitingOnError(args[0])
		di := program.DebugInfo

		// Basic info
		fmt.Printf("Disassembling %s\n", args[0])
		fmt.Printf("Total %v constants, %v chunks\n", len(program.Constants), len(program.Chunks))
		fmt.Printf("Initial chunk: %v %v\n", program.FirstChunk, chunkDebugInfo(program, di, program.FirstChunk))

		// Chunks summary
		fmt.Println("\nChunks summary:")
		for i, c := range program.Chunks {
			chunkDI := chunkDebugInfo(program, di, i)
			fmt.Printf("    %5d: %5d bytes long %v\n", i, len(c.Code), chunkDI)
		}

		// Constants
		if flagDevDisassembleConstants || flagDevDisassembleAll {
			fmt.Println("\nConstants:")
			for i, c := range program.Constants {
				fmt.Printf("    %5d: %v\n", i, c)
			}
		}

		// Full disassembly of requested procedures
		if len(*flagDevDisassembleProcs) == 0 && !flagDevDisassembleAll {
			reportAndExit(nil)
		}

		for i, c := range program.Chunks {
			if !shouldDisassembleThisChunk(program, di, i) {
				continue
			}
			fmt.Printf("\nDisassembly of Chunk %v %v:\n", i, chunkDebugInfo(program, di, i))
			for offset := 0; offset < len(c.Code); {
				offset = program.DisassembleInstruction(c, os.Stdout, offset, di, i)
			}
		}

		reportAndExit(nil)
	},
}

// chunkDebugInfo returns a string with debug information about the chunk at
// index idx. The provided di can be nil, in which case an empty string is
// returned.
func chunkDebugInfo(program *bytecode.Program, di *bytecode.DebugInfo, idx int) string {
	if di == nil {
		return ""
	}
	return fmt.Sprintf("[%v, %v]", program.Interner.Lookup(di.ChunkNames[idx]), program.Interner.Lookup(di.ChunkSourceFiles[idx]))
}

// shouldDisassembleThisChunk returns true if the chunk at index idx should be
// disassembled. The provided di can be nil, in which case only chunk indices
// (no procedure names) will be recognized.
func shouldDisassembleThisChunk(program *bytecode.Program, di *bytecode.DebugInfo, idx int) bool {
	if flagDevDisassembleAll {
		return true
	}
	for _, p := range *flagDevDisassembleProcs {
		if strconv.Itoa(idx) == p || (di != nil && p == program.Interner.Lookup(di.ChunkNames[idx])) {
			return true
		}
	}
	return false
}

// flagDevDisassembleAll is the value of the --all flag of the `dev disassemble`
// command.
var flagDevDisassembleAll bool

// flagDevDisassembleConstants is the value of the --constants flag of the `dev
// disassemble` command.
var flagDevDisassembleConstants bool

// flagDevDisassembleProcs is the value of the --proc flag of the `dev
// disassemble` command.
var flagDevDisassembleProcs *[]string

func init() {
	devDisassembleCmd.Flags().BoolVarP(&flagDevDisassembleAll, "all", "a",
		false, "Disassemble everything in the compiled program")

	devDisassembleCmd.Flags().BoolVarP(&flagDevDisassembleConstants, "constants", "c",
		false, "List all constants in the compiled program")

	flagDevDisassembleProcs = devDisassembleCmd.Flags().StringArrayP("proc", "p",
		[]string{}, "Procedures to disassemble (name or index, can be specified multiple times)")
}
