/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"os"
	"path"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/errs"
)

// loadProgramExitingOnError loads a compiled program from path, exiting the
// program properly in case of errors. It also tries to load the sibling
// debug info file (same name, extension changed to .rad): a program loaded
// without it still runs, but can't be attached to the debugger core.
func loadProgramExitingOnError(path string) *bytecode.Program {
	program, err := loadProgram(path)
	if err != nil {
		reportAndExit(err)
	}
	return program
}

// loadProgramWithDebugInfoExitingOnError is like loadProgramExitingOnError,
// but also requires the debug info file to be present: used by commands that
// need source positions (serve, dev disassemble, dev stack-info).
func loadProgramWithDebugInfoExitingOnError(path string) *bytecode.Program {
	program, err := loadProgram(path)
	if err != nil {
		reportAndExit(err)
	}
	if program.DebugInfo == nil {
		reportAndExit(errs.NewTarget("%v has no debug info: the debugger core can't attach to it", path))
	}
	return program
}

// loadProgram loads a compiled program from programPath, along with its
// sibling debug info file, if present.
func loadProgram(programPath string) (*bytecode.Program, errs.Error) {
	programFile, err := os.Open(programPath)
	if err != nil {
		return nil, errs.NewTool("could not open compiled program file %v: %v", programPath, err)
	}
	defer programFile.Close()

	program := &bytecode.Program{}
	if err := program.Deserialize(programFile); err != nil {
		return nil, errs.NewTool("error reading the program file %v: %v", programPath, err)
	}

	diPath := programPath[:len(programPath)-len(path.Ext(programPath))] + ".rad"
	diFile, err := os.Open(diPath)
	if err != nil {
		// Debug info is optional: a release build may ship without it.
		return program, nil
	}
	defer diFile.Close()

	di := &bytecode.DebugInfo{}
	if err := di.Deserialize(diFile); err != nil {
		return nil, errs.NewTool("error reading the debug info from %v: %v", diPath, err)
	}
	program.DebugInfo = di

	return program, nil
}
