/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import (
	"time"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/proto"
	"github.com/stackedboxes/tinydbg/pkg/transport"
)

// runStopLoop is entered once Process has transitioned the status to
// Stopped. It polls for host commands with a short timeout, yielding on
// every empty poll so other work can proceed -- here that yield is simply
// the blocking channel receive inside pending's select, which parks the
// goroutine instead of spinning.
//
// continue/step_into/step_over/step_out return control to Process (and, for
// the three step commands, snapshot stepPos at the position the command was
// accepted). stack_request and variables_request are served in place and the
// loop keeps polling. Anything else is logged and ignored.
func (c *Core) runStopLoop(bc *bytecode.BytecodePos) {
	for {
		msg, ok := c.tryRecvPending(c.cfg.StopLoopPollInterval)
		if !ok {
			continue
		}

		switch msg.Tag {
		case proto.CmdContinue:
			c.setStatus(Running)
			return

		case proto.CmdStepInto:
			c.stepPos = c.lastPos
			c.setStatus(StepInto)
			return

		case proto.CmdStepOver:
			c.stepPos = c.lastPos
			c.setStatus(StepOver)
			return

		case proto.CmdStepOut:
			c.stepPos = c.lastPos
			c.setStatus(StepOut)
			return

		case proto.CmdTerminate:
			// Target.Interrupt() was already called by the dispatcher;
			// resume so the interpreter's own loop notices the pending
			// interrupt on its next instruction instead of staying parked
			// here forever.
			c.setStatus(Running)
			return

		case proto.CmdStackRequest:
			c.serveStackRequest(bc, msg)

		case proto.CmdVarsRequest:
			c.serveVarsRequest(msg)

		default:
			c.log.Warnf("dbgr: stop-loop ignoring unexpected command %v", msg.Tag)
		}
	}
}

// tryRecvPending waits up to timeout for a message forwarded by the
// dispatcher (see dispatch.go). Exposed as its own method so tests can
// inspect the channel depth indirectly by timing, without reaching past the
// package boundary.
func (c *Core) tryRecvPending(timeout time.Duration) (transport.Message, bool) {
	select {
	case m := <-c.pending:
		return m, true
	case <-time.After(timeout):
		return transport.Message{}, false
	}
}

func (c *Core) serveStackRequest(bc *bytecode.BytecodePos, req transport.Message) {
	startIdx, ok := parseStackRequest(req.Payload)
	if !ok {
		c.log.Warnf("dbgr: malformed DBG_STAC payload (%d bytes)", len(req.Payload))
		startIdx = 0
	}

	resp := c.buildStackResponse(bc, startIdx)
	if err := c.ep.Send(transport.Message{
		Tag:           proto.CmdStackRequest,
		CorrelationID: req.CorrelationID,
		Payload:       resp,
	}); err != nil {
		c.log.Warnf("dbgr: sending stack response: %v", err)
	}
}

func (c *Core) serveVarsRequest(req transport.Message) {
	scope, mask, depthOrAddr, varStartIndex, ok := parseVarsRequest(req.Payload)
	if !ok {
		c.log.Warnf("dbgr: malformed DBG_VARS payload (%d bytes)", len(req.Payload))
		return
	}

	resp := c.buildVariablesResponse(scope, mask, depthOrAddr, varStartIndex)
	if err := c.ep.Send(transport.Message{
		Tag:           proto.CmdVarsRequest,
		CorrelationID: req.CorrelationID,
		Payload:       resp,
	}); err != nil {
		c.log.Warnf("dbgr: sending variables response: %v", err)
	}
}
