/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package test

import (
	"github.com/stackedboxes/tinydbg/pkg/bytecode"
)

// buildCallChainFixture assembles a tiny *bytecode.Program by hand: no
// compiler front-end ships with tinydbg, so the end-to-end scenario suite
// exercises the debugger core against hand-assembled chunks instead of
// compiling source text.
//
// The program has two procedures:
//
//	main.py (chunk 0, block "<module>"):
//	    line 1: push procedure g, call it, discard the result
//	    line 2: push "done", print it
//
//	g.py (chunk 1, block "g"):
//	    line 10: push nil, return it
//
// This is just enough to exercise a breakpoint at main.py:2, a step-over
// across the call on line 1 landing on line 2, and a normal DBG_DONE at the
// end of the run.
func buildCallChainFixture() *bytecode.Program {
	interner := bytecode.NewInterner()
	fileMain := interner.Intern("main.py")
	fileG := interner.Intern("g.py")
	blockModule := interner.Intern("<module>")
	blockG := interner.Intern("g")

	program := &bytecode.Program{
		Interner:   interner,
		FirstChunk: 0,
	}

	gProcIdx := len(program.Constants)
	program.Constants = append(program.Constants, bytecode.NewValueProcedure(&bytecode.Procedure{ChunkIndex: 1}))
	doneIdx := len(program.Constants)
	program.Constants = append(program.Constants, bytecode.NewValueString("done"))

	mainCode := []byte{}
	mainCode = append(mainCode, byte(bytecode.OpConstant))
	mainCode = appendU32(mainCode, uint32(gProcIdx))
	mainCode = append(mainCode, byte(bytecode.OpCall), 0)
	mainCode = append(mainCode, byte(bytecode.OpPop))
	mainCode = append(mainCode, byte(bytecode.OpConstant))
	mainCode = appendU32(mainCode, uint32(doneIdx))
	mainCode = append(mainCode, byte(bytecode.OpPrint))

	// Indices 0-7 are the call-and-discard sequence (line 1); the rest is
	// the print (line 2).
	mainLines := make([]uint32, len(mainCode))
	for i := range mainLines {
		if i < 8 {
			mainLines[i] = 1
		} else {
			mainLines[i] = 2
		}
	}

	gCode := []byte{byte(bytecode.OpNil), byte(bytecode.OpReturn)}
	gLines := []uint32{10, 10}

	program.Chunks = []*bytecode.Chunk{
		{Code: mainCode},
		{Code: gCode},
	}

	di := bytecode.NewDebugInfo(2)
	di.ChunkNames[0] = blockModule
	di.ChunkSourceFiles[0] = fileMain
	di.ChunkLines[0] = mainLines
	di.ChunkNames[1] = blockG
	di.ChunkSourceFiles[1] = fileG
	di.ChunkLines[1] = gLines
	program.DebugInfo = di

	return program
}

func appendU32(b []byte, v uint32) []byte {
	buf := make([]byte, 4)
	bytecode.EncodeUInt31(buf, int(v))
	return append(b, buf...)
}

// fixtures maps a scenario config's Fixture name to its builder.
var fixtures = map[string]func() *bytecode.Program{
	"call-chain": buildCallChainFixture,
}
