/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import (
	"context"

	"github.com/stackedboxes/tinydbg/pkg/proto"
	"github.com/stackedboxes/tinydbg/pkg/transport"
)

// RunDispatcher is the registered receive callback on the transport-servicing
// core: it reads every inbound message and handles terminate/
// start/pause/set_breakpoints itself. start and set_breakpoints take the core
// mutex to touch the breakpoint table; terminate and pause act without it
// (pause is a single atomic status write). Anything else
// (continue, the three step commands, stack/variables requests) it forwards
// to the stop-loop running inside Process, which is the only place those
// commands make sense to act on.
//
// It blocks until ctx is cancelled, and is meant to run in its own
// goroutine -- the Go stand-in for "the secondary core". A closed endpoint
// reads as an empty poll and does not end the loop.
func (c *Core) RunDispatcher(ctx context.Context) {
	for {
		msg, ok := c.ep.TryRecv(c.cfg.StopLoopPollInterval)
		if !ok {
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		c.dispatchOne(msg)
	}
}

// dispatchOne handles a single inbound message on the secondary core.
func (c *Core) dispatchOne(msg transport.Message) {
	switch msg.Tag {
	case proto.CmdTerminate:
		// Handled regardless of whether debugging is enabled. Also forward
		// it to the stop-loop: if the target is currently Stopped, it's
		// blocked waiting on pending and would otherwise never notice the
		// interrupt Target.Interrupt() just requested.
		c.target.Interrupt()
		select {
		case c.pending <- msg:
		default:
		}

	case proto.CmdStart:
		if !c.mu.TryLock(c.cfg.MutexTimeout) {
			c.log.Warnf("dbgr: mutex timeout handling DBG_STRT")
			return
		}
		c.bkpts.clearAll()
		c.mu.Unlock()
		c.setStatus(Starting)

	case proto.CmdPause:
		if c.Status() == NotEnabled {
			return
		}
		c.setStatus(PauseRequested)

	case proto.CmdSetBreakpoints:
		if c.Status() == NotEnabled {
			return
		}
		c.handleSetBreakpoints(msg.Payload)

	default:
		// continue / step_* / stack_request / variables_request: not this
		// core's job. Forward to the stop-loop; drop (with a log line)
		// rather than block if nobody's polling pending right now.
		select {
		case c.pending <- msg:
		default:
			c.log.Warnf("dbgr: dropping command %v, stop-loop not polling", msg.Tag)
		}
	}
}

// handleSetBreakpoints parses a DBG_BKPT payload and replaces every
// breakpoint for the named file with the given set of lines -- the host
// sends whole-file replaces, not incremental adds.
func (c *Core) handleSetBreakpoints(payload []byte) {
	file, lines, ok := parseSetBreakpoints(payload)
	if !ok {
		c.log.Warnf("dbgr: malformed DBG_BKPT payload (%d bytes)", len(payload))
		return
	}

	fileID := c.target.InternLookup(file)
	if fileID == 0 {
		// An unresolvable file name yields an empty result, not an error.
		// QStr(0) also doubles as the table's "empty slot" marker, so
		// inserting it would corrupt the compaction invariant.
		c.log.Warnf("dbgr: DBG_BKPT for unknown file %q, ignoring", file)
		return
	}

	if !c.mu.TryLock(c.cfg.MutexTimeout) {
		c.log.Warnf("dbgr: mutex timeout handling DBG_BKPT for %v", file)
		return
	}
	defer c.mu.Unlock()

	c.bkpts.clearForFile(fileID)
	for _, line := range lines {
		c.bkpts.set(fileID, line)
	}
}
