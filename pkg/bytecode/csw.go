/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

const (
	// MaxConstants is the maximum number of constants we can have on a
	// Program. This is equal to 2^31, so that it fits on an int even on
	// platforms that use 32-bit integers. And this number should be large
	// enough to ensure we don't run out of space for constants.
	MaxConstants = 2_147_483_648
)

// Program is a compiled, binary version of the whole of a loaded program:
// every chunk of bytecode, the constant pool they share, and the entry point.
type Program struct {
	// Chunks holds every Chunk of bytecode making up the compiled program.
	// There is one Chunk per compiled procedure.
	Chunks []*Chunk

	// FirstChunk indexes the element in Chunks from where execution starts.
	FirstChunk int

	// Constants holds the constant values used by all Chunks.
	Constants []Value

	// DebugInfo carries the source positions, names and interned strings the
	// debugger core needs, when it is present. A Program produced without
	// debug information (e.g. a release build) has a nil DebugInfo; the
	// debug core refuses to attach to a target whose Program lacks one.
	DebugInfo *DebugInfo

	// Interner holds every string interned while compiling or loading this
	// Program.
	Interner *Interner
}

// SearchConstant searches the constant pool for a constant with the given
// value. If found, it returns the index of this constant into p.Constants.
// If not found, it returns a negative value.
func (p *Program) SearchConstant(value Value) int {
	for i, v := range p.Constants {
		if ValuesEqual(value, v) {
			return i
		}
	}

	return -1
}

// AddConstant adds a constant to the Program and returns the index of the new
// constant into p.Constants.
func (p *Program) AddConstant(value Value) int {
	p.Constants = append(p.Constants, value)
	return len(p.Constants) - 1
}
