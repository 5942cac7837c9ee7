/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"fmt"
	"io"
	"strings"
)

var simpleOpNames = map[OpCode]string{
	OpNop:    "NOP",
	OpNil:    "NIL",
	OpTrue:   "TRUE",
	OpFalse:  "FALSE",
	OpPop:    "POP",
	OpPrint:  "PRINT",
	OpReturn: "RETURN",
}

var byteOpNames = map[OpCode]string{
	OpGetLocal:  "GET_LOCAL",
	OpSetLocal:  "SET_LOCAL",
	OpCall:      "CALL",
	OpMakeList:  "MAKE_LIST",
	OpMakeTuple: "MAKE_TUPLE",
	OpMakeDict:  "MAKE_DICT",
}

var constantOpNames = map[OpCode]string{
	OpConstant:     "CONSTANT",
	OpGetGlobal:    "GET_GLOBAL",
	OpSetGlobal:    "SET_GLOBAL",
	OpDefineGlobal: "DEFINE_GLOBAL",
	OpGetAttr:      "GET_ATTR",
	OpSetAttr:      "SET_ATTR",
	OpMakeClosure:  "MAKE_CLOSURE",
}

var jumpOpNames = map[OpCode]string{
	OpJump:        "JUMP",
	OpJumpIfFalse: "JUMP_IF_FALSE",
	OpLoop:        "LOOP",
}

// DisassembleInstruction disassembles the instruction at a given offset of
// chunk and returns the offset of the next instruction to disassemble. Output
// is written to out. chunkIndex is the index of the current chunk. debugInfo
// is optional: if not nil, it will be used for better disassembly.
func (p *Program) DisassembleInstruction(chunk *Chunk, out io.Writer, offset int, debugInfo *DebugInfo, chunkIndex int) int {
	fmt.Fprintf(out, "%05v ", offset)

	var lines []uint32
	sourceFile := ""
	if debugInfo != nil {
		lines = debugInfo.ChunkLines[chunkIndex]
		if name := debugInfo.ChunkSourceFiles[chunkIndex]; p.Interner != nil {
			sourceFile = p.Interner.Lookup(name)
		}
	}

	if offset > 0 && lines != nil && lines[offset] == lines[offset-1] {
		blank := strings.Repeat(" ", len(sourceFile)+1)
		fmt.Fprintf(out, "%v    | ", blank)
	} else if lines != nil {
		fmt.Fprintf(out, "%v:%5d ", sourceFile, lines[offset])
	} else {
		fmt.Fprintf(out, "             ")
	}

	instruction := OpCode(chunk.Code[offset])

	if name, ok := simpleOpNames[instruction]; ok {
		return p.disassembleSimpleInstruction(out, name, offset)
	}
	if name, ok := byteOpNames[instruction]; ok {
		return p.disassembleByteInstruction(chunk, out, name, offset)
	}
	if name, ok := constantOpNames[instruction]; ok {
		return p.disassembleConstantInstruction(chunk, out, name, offset)
	}
	if name, ok := jumpOpNames[instruction]; ok {
		return p.disassembleJumpInstruction(chunk, out, name, offset)
	}

	fmt.Fprintf(out, "Unknown opcode %d\n", instruction)
	return offset + 1
}

// A simple instruction is one composed of a single byte (just the opcode, no
// operands).
func (p *Program) disassembleSimpleInstruction(out io.Writer, name string, offset int) int {
	fmt.Fprintf(out, "%v\n", name)
	return offset + 1
}

// A byte instruction carries a single one-byte operand (a stack slot, an
// argument count, or an element count).
func (p *Program) disassembleByteInstruction(chunk *Chunk, out io.Writer, name string, offset int) int {
	operand := chunk.Code[offset+1]
	fmt.Fprintf(out, "%-16s %4d\n", name, operand)
	return offset + 2
}

// disassembleConstantInstruction disassembles an instruction that takes a
// four-byte constant-pool index as its single operand.
func (p *Program) disassembleConstantInstruction(chunk *Chunk, out io.Writer, name string, offset int) int {
	index := DecodeUInt31(chunk.Code[offset+1:])
	fmt.Fprintf(out, "%-16s %4d '%v'\n", name, index, p.Constants[index])
	return offset + 5
}

// disassembleJumpInstruction disassembles a jump/loop instruction, which
// takes a four-byte absolute target offset.
func (p *Program) disassembleJumpInstruction(chunk *Chunk, out io.Writer, name string, offset int) int {
	target := DecodeUInt31(chunk.Code[offset+1:])
	fmt.Fprintf(out, "%-16s %4d -> %d\n", name, offset, target)
	return offset + 5
}
