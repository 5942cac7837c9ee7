/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package vm

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/errs"
	"github.com/stackedboxes/tinydbg/pkg/romutil"
)

// VM is a bytecode Virtual Machine. It plays the role of the interpreter core
// in a debugger session: a debugger core attaches to a VM through the
// interfaces it satisfies (see pkg/dbgr), and VM.DebugHook is its only
// knowledge of that attachment -- the interpreter never imports the debugger
// package, only the other way around.
type VM struct {
	// Set DebugTraceExecution to true to make the VM disassemble the code as
	// it runs through it.
	DebugTraceExecution bool

	// DebugHook, if set, is called before every opcode is executed. A
	// debugger core wires this up to implement breakpoints, single-stepping,
	// and pause requests. Left nil, the VM runs free of any debugging
	// overhead.
	DebugHook func()

	// out is where the VM sends its printed output.
	out romutil.Mouth

	// program is the compiled program we are executing.
	program *bytecode.Program

	// stack is the VM stack, used for storing values during interpretation.
	stack *Stack

	// frames is the stack of call frames. It has one entry for every
	// procedure that has started running but hasn't returned yet.
	frames []*callFrame

	// frame is the current call frame (the one on top of VM.frames).
	frame *callFrame

	// globals holds the program's module-level variables.
	globals *globals

	// objects hands out synthetic addresses for address-worthy values.
	objects *objectRegistry

	// interruptRequested is set by Interrupt, which may be called from a
	// different goroutine (the debugger core's dispatcher). run polls it
	// between instructions, from the VM's own goroutine, so the unwind
	// panic is always raised (and recovered) where Interpret expects it.
	interruptRequested int32
}

// New returns a new Virtual Machine. out is where the VM sends its output.
func New(out romutil.Mouth) *VM {
	return &VM{
		stack:   &Stack{},
		out:     out,
		globals: newGlobals(),
		objects: newObjectRegistry(),
	}
}

// currentChunk returns the chunk currently being executed.
func (vm *VM) currentChunk() *bytecode.Chunk {
	return vm.program.Chunks[vm.frame.proc.ChunkIndex]
}

// Interpret interprets a given compiled program.
func (vm *VM) Interpret(program *bytecode.Program) (err errs.Error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*errs.Runtime); ok {
				err = e
				return
			}
			err = errs.NewICE("Unexpected error type: %T", r)
			return
		}
	}()

	vm.program = program

	// Normal procedure calls start by pushing the callable thing. Here we
	// have an implicit call to the initial procedure, so we push it. This
	// keeps this implicit call consistent with calls made by user code, and
	// avoids treating it as a special case elsewhere.
	vm.push(bytecode.NewValueProcedure(&bytecode.Procedure{ChunkIndex: program.FirstChunk}))
	vm.callProcedure(&bytecode.Procedure{ChunkIndex: program.FirstChunk}, nil, 0)
	vm.frame = vm.frames[0]

	r := vm.run()
	vm.out.Flush()
	return r
}

// run runs the code loaded into vm.
func (vm *VM) run() errs.Error {
	for {
		if vm.frame.ip >= len(vm.currentChunk().Code) {
			if len(vm.frames) <= 1 {
				return nil
			}
			vm.returnFromCall(bytecode.NewValueNil())
			continue
		}

		if vm.DebugHook != nil {
			vm.DebugHook()
		}

		if atomic.LoadInt32(&vm.interruptRequested) != 0 {
			vm.runtimeError("interrupted by debugger")
		}

		if vm.DebugTraceExecution {
			fmt.Print("Stack: ")
			for _, v := range vm.stack.data {
				fmt.Printf("[ %v ]", v)
			}
			fmt.Print("\n")

			chunkIndex := vm.frame.proc.ChunkIndex
			vm.program.DisassembleInstruction(vm.currentChunk(), os.Stdout, vm.frame.ip, vm.program.DebugInfo, chunkIndex)
		}

		currentChunk := vm.currentChunk()
		instruction := bytecode.OpCode(currentChunk.Code[vm.frame.ip])
		vm.frame.ip++

		switch instruction {
		case bytecode.OpNop:
			break

		case bytecode.OpConstant:
			vm.push(vm.readConstant())

		case bytecode.OpNil:
			vm.push(bytecode.NewValueNil())

		case bytecode.OpTrue:
			vm.push(bytecode.NewValueBool(true))

		case bytecode.OpFalse:
			vm.push(bytecode.NewValueBool(false))

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpPrint:
			value := vm.pop()
			vm.out.Say(value.String())

		case bytecode.OpJump:
			target := bytecode.DecodeUInt31(currentChunk.Code[vm.frame.ip:])
			vm.frame.ip = target

		case bytecode.OpJumpIfFalse:
			target := bytecode.DecodeUInt31(currentChunk.Code[vm.frame.ip:])
			vm.frame.ip += 4
			if cond := vm.pop(); cond.Kind != bytecode.KindBool || !cond.AsBool() {
				vm.frame.ip = target
			}

		case bytecode.OpLoop:
			target := bytecode.DecodeUInt31(currentChunk.Code[vm.frame.ip:])
			vm.frame.ip = target

		case bytecode.OpGetLocal:
			slot := int(currentChunk.Code[vm.frame.ip])
			vm.frame.ip++
			vm.push(vm.frame.stack.at(slot))

		case bytecode.OpSetLocal:
			slot := int(currentChunk.Code[vm.frame.ip])
			vm.frame.ip++
			vm.frame.stack.setAt(slot, vm.top())

		case bytecode.OpGetGlobal:
			name := vm.readConstant().AsString()
			v, ok := vm.globals.Get(name)
			if !ok {
				vm.runtimeError("undefined global '%v'", name)
			}
			vm.push(v)

		case bytecode.OpSetGlobal:
			name := vm.readConstant().AsString()
			vm.globals.Define(name, vm.top())

		case bytecode.OpDefineGlobal:
			name := vm.readConstant().AsString()
			vm.globals.Define(name, vm.pop())

		case bytecode.OpCall:
			argCount := int(currentChunk.Code[vm.frame.ip])
			vm.frame.ip++
			vm.call(argCount)

		case bytecode.OpReturn:
			result := vm.pop()
			if len(vm.frames) <= 1 {
				vm.push(result)
				return nil
			}
			vm.returnFromCall(result)

		case bytecode.OpMakeList:
			count := int(currentChunk.Code[vm.frame.ip])
			vm.frame.ip++
			vm.push(bytecode.NewValueList(vm.popItems(count)))

		case bytecode.OpMakeTuple:
			count := int(currentChunk.Code[vm.frame.ip])
			vm.frame.ip++
			vm.push(bytecode.NewValueTuple(vm.popItems(count)))

		case bytecode.OpMakeDict:
			count := int(currentChunk.Code[vm.frame.ip])
			vm.frame.ip++
			items := vm.popItems(count * 2)
			d := bytecode.NewDict()
			for i := 0; i < len(items); i += 2 {
				d.Set(items[i], items[i+1])
			}
			vm.push(bytecode.NewValueDict(d))

		case bytecode.OpMakeClosure:
			proc := vm.readConstant()
			if proc.Kind != bytecode.KindProcedure {
				vm.runtimeError("cannot make a closure over a value of type %v", proc.Kind)
			}
			vm.push(bytecode.NewValueClosure(&bytecode.Closure{Proc: proc.AsProcedure()}))

		case bytecode.OpGetAttr:
			name := vm.readConstant().AsString()
			obj := vm.pop()
			a, ok := obj.AsAttrBearing()
			if !ok {
				vm.runtimeError("value of type %v has no attributes", obj.Kind)
			}
			v, ok := a.GetAttr(name)
			if !ok {
				vm.runtimeError("value of type %v has no attribute '%v'", obj.Kind, name)
			}
			vm.push(v)

		case bytecode.OpSetAttr:
			name := vm.readConstant().AsString()
			value := vm.pop()
			obj := vm.pop()
			vm.setAttr(obj, name, value)

		default:
			vm.runtimeError("Unexpected instruction: %v", instruction)
		}
	}
}

// call performs an OpCall: the callee and its argCount arguments are already
// on the stack, with the callee below its arguments.
func (vm *VM) call(argCount int) {
	callee := vm.peek(argCount)
	switch callee.Kind {
	case bytecode.KindProcedure:
		vm.callProcedure(callee.AsProcedure(), nil, argCount)
	case bytecode.KindClosure:
		c := callee.Payload.(*bytecode.Closure)
		vm.callProcedure(c.Proc, c, argCount)
	default:
		vm.runtimeError("cannot call a value of type %v", callee.Kind)
	}
}

// callProcedure calls procedure proc (optionally through closure cl).
// Assumes the callable and its arguments were pushed into the stack. Pushes
// a new frame into vm.frames.
func (vm *VM) callProcedure(proc *bytecode.Procedure, cl *bytecode.Closure, argCount int) {
	var parent *callFrame
	if vm.frame != nil {
		parent = vm.frame
	}
	newFrame := &callFrame{
		proc:    proc,
		closure: cl,
		stack:   vm.stack.createView(argCount + 1), // "+1" is the callee, which is on the stack
		parent:  parent,
	}
	vm.frames = append(vm.frames, newFrame)
	vm.frame = newFrame
}

// returnFromCall pops the current frame, discards its stack region, and
// pushes result in its place.
func (vm *VM) returnFromCall(result bytecode.Value) {
	frameSize := vm.frame.stack.size()
	vm.stack.popN(frameSize)
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.frame = vm.frames[len(vm.frames)-1]
	vm.push(result)
}

// popItems pops count values from the stack and returns them in push order
// (the deepest one first).
func (vm *VM) popItems(count int) []bytecode.Value {
	items := make([]bytecode.Value, count)
	for i := count - 1; i >= 0; i-- {
		items[i] = vm.pop()
	}
	return items
}

// setAttr performs an OpSetAttr on the kinds that carry mutable attributes.
func (vm *VM) setAttr(obj bytecode.Value, name string, value bytecode.Value) {
	switch o := obj.Payload.(type) {
	case *bytecode.PlainObject:
		o.Attrs[name] = value
	case *bytecode.Instance:
		o.Attrs[name] = value
	case *bytecode.Module:
		o.Attrs[name] = value
	default:
		vm.runtimeError("cannot set attribute '%v' on a value of type %v", name, obj.Kind)
	}
}

// readConstant reads a 32-bit constant index from the chunk bytecode and
// returns the corresponding constant value.
func (vm *VM) readConstant() bytecode.Value {
	chunk := vm.currentChunk()
	index := bytecode.DecodeUInt31(chunk.Code[vm.frame.ip:])
	constant := vm.program.Constants[index]
	vm.frame.ip += 4
	return constant
}

// push pushes a value into the VM stack.
func (vm *VM) push(value bytecode.Value) {
	vm.stack.push(value)
}

// top returns the value on the top of the VM stack (without removing it).
// Panics on underflow.
func (vm *VM) top() bytecode.Value {
	return vm.stack.top()
}

// pop pops a value from the VM stack and returns it. Panics on underflow.
func (vm *VM) pop() bytecode.Value {
	return vm.stack.pop()
}

// peek returns a value on the stack that is a given distance from the top.
// Passing 0 means "give me the value on the top of the stack". The stack is
// not changed at all.
func (vm *VM) peek(distance int) bytecode.Value {
	return vm.stack.peek(distance)
}

// runtimeError stops the execution and reports a runtime error with a given
// message and fmt.Printf-like arguments.
func (vm *VM) runtimeError(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	panic(errs.NewRuntime("%v", msg))
}

//
// Debug target surface
//
// These methods are never called from within VM itself -- they exist so a
// debugger core (pkg/dbgr) can treat *VM as its Target, purely through
// structural typing. No package here imports pkg/dbgr.
//

// CurrentPos returns the BytecodePos of the instruction about to execute.
func (vm *VM) CurrentPos() *bytecode.BytecodePos {
	if vm.frame == nil || vm.program == nil || vm.program.DebugInfo == nil {
		return nil
	}
	return vm.frame.bytecodePos(vm.program.DebugInfo)
}

// FrameLocals returns the locals of the frame at the given call depth (0 is
// the innermost, currently-running frame), and whether that depth exists.
func (vm *VM) FrameLocals(depth int) ([]bytecode.Value, bool) {
	f := vm.frame
	for i := 0; i < depth && f != nil; i++ {
		f = f.parent
	}
	if f == nil {
		return nil, false
	}
	return f.Locals(), true
}

// FrameCount returns the number of active call frames.
func (vm *VM) FrameCount() int {
	return len(vm.frames)
}

// Globals exposes the program's global variables as a bytecode.DictLike.
func (vm *VM) Globals() bytecode.DictLike {
	return vm.globals.DictLike()
}

// InternedString resolves an interned-string id to its text, via the
// program's Interner.
func (vm *VM) InternedString(id bytecode.QStr) string {
	if vm.program == nil || vm.program.Interner == nil {
		return ""
	}
	return vm.program.Interner.Lookup(id)
}

// InternLookup resolves a file name to its QStr, or 0 if the program never
// interned it.
func (vm *VM) InternLookup(name string) bytecode.QStr {
	if vm.program == nil || vm.program.Interner == nil {
		return 0
	}
	return vm.program.Interner.LookupReverse(name)
}

// ResolveObject looks up a previously registered object address.
func (vm *VM) ResolveObject(handle uint32) (bytecode.Value, bool) {
	return vm.objects.Resolve(handle)
}

// RegisterObject assigns (or recalls) a synthetic address for v.
func (vm *VM) RegisterObject(v bytecode.Value) uint32 {
	return vm.objects.Register(v)
}

// ReprOf returns the repr()-like rendering of v.
func (vm *VM) ReprOf(v bytecode.Value) string {
	if v.Kind == bytecode.KindString {
		return fmt.Sprintf("%q", v.AsString())
	}
	return v.String()
}

// StrOf returns the str()-like rendering of v.
func (vm *VM) StrOf(v bytecode.Value) string {
	return v.String()
}

// Interrupt asks the interpreter to unwind at its next opportunity. Safe to
// call from any goroutine -- in particular, from the debugger core's
// dispatcher, which services DBG_TRMT concurrently with the VM's own run
// loop. The actual unwind panic is raised from inside run, on the VM's own
// goroutine, where Interpret's recover expects it.
func (vm *VM) Interrupt() {
	atomic.StoreInt32(&vm.interruptRequested, 1)
}
