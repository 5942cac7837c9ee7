/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package test

import (
	"context"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/config"
	"github.com/stackedboxes/tinydbg/pkg/dbgr"
	"github.com/stackedboxes/tinydbg/pkg/errs"
	"github.com/stackedboxes/tinydbg/pkg/romutil"
	"github.com/stackedboxes/tinydbg/pkg/transport"
	"github.com/stackedboxes/tinydbg/pkg/vm"
)

// harness wires a *vm.VM, a *dbgr.Core and an in-memory transport.ChannelBus
// together, and drives the target's run loop in its own goroutine -- the
// same split RunDispatcher/Process already assume (one goroutine servicing
// the transport, one running the interpreter).
//
// Every scenario config in the suite exercises the real pkg/dbgr and pkg/vm
// code through their public surface only (this package is external to both),
// which is exactly the boundary a host debugger would see.
type harness struct {
	vm      *vm.VM
	core    *dbgr.Core
	program *bytecode.Program
	bus     *transport.ChannelBus
	host    transport.Endpoint
	mouth   *romutil.MemoryMouth

	done chan errs.Error
}

func newHarness(cfg *config.Config, program *bytecode.Program) *harness {
	bus := transport.NewChannelBus(16)
	mouth := &romutil.MemoryMouth{}
	theVM := vm.New(mouth)
	core := dbgr.NewCore(cfg, theVM, bus.Target(), nil)

	theVM.DebugHook = func() {
		if bc := theVM.CurrentPos(); bc != nil {
			core.Process(bc)
		}
	}

	return &harness{
		vm:      theVM,
		core:    core,
		program: program,
		bus:     bus,
		host:    bus.Host(),
		mouth:   mouth,
		done:    make(chan errs.Error, 1),
	}
}

// run starts the dispatcher and the interpreter, both in their own
// goroutines, and returns immediately. The interpreter goroutine first waits
// for the host's DBG_STRT (via AwaitEnabled) so a scenario's opening "start"
// step can never race the first few opcodes of the fixture. Call wait to
// block until the interpreter finishes.
func (h *harness) run(ctx context.Context) {
	go h.core.RunDispatcher(ctx)
	go func() {
		h.core.AwaitEnabled(ctx)
		err := h.vm.Interpret(h.program)
		var code uint32
		if err != nil {
			code = uint32(err.ExitCode())
		}
		h.core.EmitDone(code)
		h.done <- err
	}()
}

// send delivers a command to the core over the host side of the bus.
func (h *harness) send(m transport.Message) error {
	return h.host.Send(m)
}

// next blocks until the next event or response arrives from the core.
func (h *harness) next() (transport.Message, bool) {
	return h.host.Recv()
}

// wait blocks until the interpreter run loop exits.
func (h *harness) wait() errs.Error {
	return <-h.done
}
