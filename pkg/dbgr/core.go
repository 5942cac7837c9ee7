/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/config"
	"github.com/stackedboxes/tinydbg/pkg/dbgrlog"
	"github.com/stackedboxes/tinydbg/pkg/proto"
	"github.com/stackedboxes/tinydbg/pkg/transport"
)

// Status is one of the debugger's process-wide execution states. Exactly one
// value is held at a time, in Core.status.
type Status int32

const (
	NotEnabled Status = iota
	Running
	PauseRequested
	StepInto
	StepOver
	StepOut
	Stopped
	Starting
)

func (s Status) String() string {
	switch s {
	case NotEnabled:
		return "NotEnabled"
	case Running:
		return "Running"
	case PauseRequested:
		return "PauseRequested"
	case StepInto:
		return "StepInto"
	case StepOver:
		return "StepOver"
	case StepOut:
		return "StepOut"
	case Stopped:
		return "Stopped"
	case Starting:
		return "Starting"
	default:
		return "?"
	}
}

// Core is the debugging runtime: the breakpoint table, the execution-control
// state machine, and everything needed to serve stack/variables requests
// while stopped. One Core attaches to one Target over one transport.Endpoint.
//
// The pieces that are genuinely process-wide (status, the
// breakpoint table, lastPos/stepPos) live as fields of a single value rather
// than as package-level globals -- Init hands out one shared instance, but
// NewCore remains available so tests can build independent Cores instead of
// fighting over shared state.
type Core struct {
	cfg    *config.Config
	log    *dbgrlog.Logger
	target Target
	ep     transport.Endpoint

	bkpts *breakpointTable
	mu    *timedMutex

	// status is read lock-free on the hot path (Process's fast-path check)
	// and therefore accessed only through sync/atomic.
	status int32

	// havePos/lastPos/stepPos are touched only from Process, which never
	// runs concurrently with itself -- no synchronization needed for these.
	havePos bool
	lastPos bytecode.SourcePosition
	stepPos bytecode.SourcePosition

	// pending carries commands the dispatcher (running as C1's receive
	// callback) doesn't itself handle -- continue/step/stack/variables
	// requests -- through to the stop-loop running inside Process (C0). A
	// real dual-core target has one physical command queue read by both an
	// ISR-style fast path and a polling main loop; two goroutines plus a
	// channel is the Go-shaped version of that split.
	pending chan transport.Message
}

// NewCore creates a Core wired to target over ep, using cfg for its tunables.
// A nil log uses dbgrlog.Default().
func NewCore(cfg *config.Config, target Target, ep transport.Endpoint, log *dbgrlog.Logger) *Core {
	if log == nil {
		log = dbgrlog.Default()
	}
	return &Core{
		cfg:     cfg,
		log:     log,
		target:  target,
		ep:      ep,
		bkpts:   newBreakpointTable(cfg.MaxBreakpoints, log),
		mu:      newTimedMutex(),
		status:  int32(NotEnabled),
		pending: make(chan transport.Message, 16),
	}
}

var (
	defaultOnce sync.Once
	defaultCore *Core
)

// Init returns the process-wide default Core, creating it on first call.
// Subsequent calls (with any arguments) return the same instance. Most of
// this repo's tests use NewCore directly instead, since a shared global
// makes tests interfere with one another.
func Init(cfg *config.Config, target Target, ep transport.Endpoint) *Core {
	defaultOnce.Do(func() {
		defaultCore = NewCore(cfg, target, ep, dbgrlog.Default())
	})
	return defaultCore
}

// Status reports the current debugger status.
func (c *Core) Status() Status {
	return Status(atomic.LoadInt32(&c.status))
}

func (c *Core) setStatus(s Status) {
	atomic.StoreInt32(&c.status, int32(s))
}

// bkptHit reports whether pos names a set breakpoint, acquiring the core
// mutex to do so. A timed-out acquisition fails open: "no breakpoint here".
func (c *Core) bkptHit(pos bytecode.SourcePosition) bool {
	if !c.mu.TryLock(c.cfg.MutexTimeout) {
		c.log.Warnf("dbgr: mutex timeout checking breakpoint at %v:%v", pos.File, pos.Line)
		return false
	}
	defer c.mu.Unlock()
	return c.bkpts.contains(pos.File, pos.Line)
}

// Process is the pre-opcode hook, called by the interpreter
// before every instruction. It must be cheap when debugging isn't enabled:
// the very first thing it does is an atomic load and early return.
//
// It is not re-entrant -- the stop-loop it may enter does not execute
// opcodes, so Process is never called from within itself.
func (c *Core) Process(bc *bytecode.BytecodePos) {
	if Status(atomic.LoadInt32(&c.status)) == NotEnabled {
		return
	}

	cur := bc.SourcePos()
	if c.havePos && c.lastPos.Equal(cur) {
		return
	}
	c.havePos = true
	c.lastPos = cur

	if c.bkptHit(cur) {
		c.stop(bc, proto.ReasonBreakpt)
		return
	}

	switch Status(atomic.LoadInt32(&c.status)) {
	case NotEnabled, Running, Stopped:
		return

	case Starting:
		c.stop(bc, proto.ReasonStarting)

	case PauseRequested:
		c.stop(bc, proto.ReasonPaused)

	case StepInto:
		c.stop(bc, proto.ReasonStepInto)

	case StepOut:
		if cur.Depth < c.stepPos.Depth {
			c.stop(bc, proto.ReasonStepOut)
		}

	case StepOver:
		if cur.Depth <= c.stepPos.Depth && !cur.EqualIgnoringDepth(c.stepPos) {
			c.stop(bc, proto.ReasonStepOver)
		}
	}
}

// stop transitions into Stopped, emits the DBG_STOP event, and runs the
// stop-loop until a resume/step command returns control to the interpreter.
func (c *Core) stop(bc *bytecode.BytecodePos, reason proto.StopReason) {
	c.setStatus(Stopped)
	c.emitStopped(reason)
	c.runStopLoop(bc)
}

// emitStopped sends the DBG_STOP event carrying reason. A transport failure
// here is logged and otherwise ignored -- a transient miss, never a reason
// to abort the stop-loop.
func (c *Core) emitStopped(reason proto.StopReason) {
	err := c.ep.Send(transport.Message{
		Tag:     proto.EvtStopped,
		Payload: append([]byte(nil), reason[:]...),
	})
	if err != nil {
		c.log.Warnf("dbgr: sending DBG_STOP: %v", err)
	}
}

// EmitDone sends the DBG_DONE event carrying the interpreter's return code.
// Called once, when the target's run loop exits.
func (c *Core) EmitDone(code uint32) {
	resp := newRespBuf(4)
	resp.appendU32(code)
	err := c.ep.Send(transport.Message{Tag: proto.EvtDone, Payload: resp.bytes()})
	if err != nil {
		c.log.Warnf("dbgr: sending DBG_DONE: %v", err)
	}
}

// AwaitEnabled blocks until the host opens a debug session (the status
// leaves NotEnabled) or ctx is done, and reports whether the debugger is
// enabled. A target that should be debugged from its very first opcode calls
// this before starting its run loop, the same way a board under a hardware
// debugger sits held until the host attaches -- otherwise the first few
// instructions race the DBG_STRT command and escape the stop-at-entry.
func (c *Core) AwaitEnabled(ctx context.Context) bool {
	for {
		if c.Status() != NotEnabled {
			return true
		}
		select {
		case <-ctx.Done():
			return c.Status() != NotEnabled
		case <-time.After(c.cfg.StopLoopPollInterval):
		}
	}
}

// StackDiagnostics holds the board-side sanity numbers a target can print
// or log when its call stack is suspect. Not part of the host-facing
// protocol; frame depth is already tracked for stepping, so exposing it
// costs nothing.
type StackDiagnostics struct {
	FrameCount     int
	MaxBreakpoints int
}

// StackDiagnostics returns the target's current frame count alongside the
// configured breakpoint table capacity.
func (c *Core) StackDiagnostics() StackDiagnostics {
	return StackDiagnostics{
		FrameCount:     c.target.FrameCount(),
		MaxBreakpoints: c.cfg.MaxBreakpoints,
	}
}
