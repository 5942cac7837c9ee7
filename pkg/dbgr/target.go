/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// Package dbgr is the on-target debugging core: the breakpoint table, the
// frame walker, the variable enumerator, and the execution-control state
// machine that together let a host debugger attach to a running
// interpreter. It is written for a dual-core target -- one core runs the
// interpreter and its pre-opcode hook, the other services the transport --
// with pkg/vm playing the interpreter core's role in this repo.
//
// Nothing in this package imports pkg/vm. It depends only on pkg/bytecode
// (for Value, QStr, BytecodePos) and pkg/transport/pkg/proto for the wire
// side. An interpreter attaches by implementing Target; wiring a concrete
// *vm.VM to a Core happens in cmd/tinydbg, never here.
package dbgr

import (
	"github.com/stackedboxes/tinydbg/pkg/bytecode"
)

// Target is everything the debugger core needs to borrow from a running
// interpreter. A *vm.VM implements this purely by having the right method
// set -- structural typing is what keeps pkg/vm and pkg/dbgr from importing
// each other.
type Target interface {
	// CurrentPos returns the BytecodePos of the instruction about to
	// execute, or nil if the interpreter hasn't started running yet.
	CurrentPos() *bytecode.BytecodePos

	// FrameLocals returns the locals of the frame at the given call depth
	// (0 is the innermost, currently-running frame), and whether that depth
	// exists.
	FrameLocals(depth int) ([]bytecode.Value, bool)

	// FrameCount returns the number of active call frames.
	FrameCount() int

	// Globals exposes the program's global variables.
	Globals() bytecode.DictLike

	// InternedString resolves an interned-string id to its text. Used to
	// render the file and block names carried in a SourcePosition.
	InternedString(id bytecode.QStr) string

	// InternLookup resolves a file name to the QStr the interpreter already
	// interned it as, or 0 if that name was never interned. Used by
	// set_breakpoints: the host names files by string, but the breakpoint
	// table (and every SourcePosition the frame walker produces) keys on
	// QStr. A name the interpreter never saw yields QStr(0), which degrades
	// to an empty/no-op result rather than an error.
	InternLookup(name string) bytecode.QStr

	// ResolveObject looks up a previously registered object handle.
	ResolveObject(handle uint32) (bytecode.Value, bool)

	// RegisterObject assigns (or recalls) a synthetic address for v. Called
	// whenever the variable enumerator emits an address-worthy value.
	RegisterObject(v bytecode.Value) uint32

	// ReprOf returns the repr()-like rendering of v, used for every printed
	// value and for dict keys when drilling into an object's dict.
	ReprOf(v bytecode.Value) string

	// StrOf returns the str()-like rendering of v, used for the names of
	// global variables (the keys of the globals dict).
	StrOf(v bytecode.Value) string

	// Interrupt asks the interpreter to unwind at its next opportunity.
	// Called for DBG_TRMT, regardless of debugger status.
	Interrupt()
}
