/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package vm

import (
	"github.com/stackedboxes/tinydbg/pkg/bytecode"
)

// callFrame contains the information needed at runtime about an ongoing
// procedure call.
type callFrame struct {
	// proc is the Procedure running.
	proc *bytecode.Procedure

	// closure is non-nil if this call is through a Closure rather than a bare
	// Procedure, so captured Cells are reachable from the frame's scope.
	closure *bytecode.Closure

	// ip is the instruction pointer, which points to the next instruction to
	// be executed (it's an index into proc's chunk).
	ip int

	// stack is a read/write view into the VM stack, and represents the stack
	// that this Procedure can use.
	stack *StackView

	// parent is the frame that called this one, or nil for the outermost
	// frame.
	parent *callFrame
}

// bytecodePos lazily builds the BytecodePos chain rooted at this frame's
// current instruction. Building it is deferred to here (rather than
// maintained incrementally on every call/return) because most instructions
// execute without a debugger ever asking for a position.
//
// Each frame's position carries its 1-based frame depth, so a callee's
// position always has a larger depth than its caller's -- the step-out and
// step-over transitions compare depths with exactly that orientation.
func (f *callFrame) bytecodePos(di *bytecode.DebugInfo) *bytecode.BytecodePos {
	var caller *bytecode.BytecodePos
	if f.parent != nil {
		caller = f.parent.bytecodePos(di)
	}
	pos := di.SourcePositionAt(f.proc.ChunkIndex, f.ip, f.depth()+1)
	return bytecode.NewBytecodePos(pos, caller)
}

// Locals returns this frame's locals, in slot order. VM.FrameLocals uses it
// to hand a debugger core a frame's scope.
func (f *callFrame) Locals() []bytecode.Value {
	return f.stack.Locals()
}

// depth returns how many callers are above this frame.
func (f *callFrame) depth() uint16 {
	d := uint16(0)
	for p := f.parent; p != nil; p = p.parent {
		d++
	}
	return d
}
