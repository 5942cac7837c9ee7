/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/config"
	"github.com/stackedboxes/tinydbg/pkg/proto"
	"github.com/stackedboxes/tinydbg/pkg/transport"
)

func hasStoppedEvent(ep *recordingEndpoint, reason proto.StopReason) bool {
	for _, m := range ep.sent {
		if m.Tag == proto.EvtStopped && string(m.Payload) == reason.String() {
			return true
		}
	}
	return false
}

// TestScenarioA_BreakpointRoundTrip walks a full breakpoint round trip:
// start, set a breakpoint, run to it, resume -- including the stop-at-entry
// a Starting status always produces on the first position change.
func TestScenarioA_BreakpointRoundTrip(t *testing.T) {
	target := newFakeTarget()
	fileID := target.interner.Intern("main.py")
	blockID := target.interner.Intern("<module>")
	ep := &recordingEndpoint{}
	core := NewCore(config.Default(), target, ep, testLog())

	core.dispatchOne(transport.Message{Tag: proto.CmdStart})
	if core.Status() != Starting {
		t.Fatalf("status after DBG_STRT = %v, want Starting", core.Status())
	}

	payload := append([]byte("main.py\x00"), encodeU32(10)...)
	core.dispatchOne(transport.Message{Tag: proto.CmdSetBreakpoints, Payload: payload})

	// First position change: stop-at-entry, regardless of the breakpoint.
	entry := bytecode.SourcePosition{File: fileID, Line: 1, Block: blockID, Depth: 1}
	core.pending <- transport.Message{Tag: proto.CmdContinue}
	core.Process(bytecode.NewBytecodePos(entry, nil))
	if core.Status() != Running {
		t.Fatalf("status after resuming from stop-at-entry = %v, want Running", core.Status())
	}
	if !hasStoppedEvent(ep, proto.ReasonStarting) {
		t.Fatal("expected a :STARTNG stopped event at the first position change")
	}

	// A position change that doesn't match the breakpoint must not stop.
	mid := bytecode.SourcePosition{File: fileID, Line: 2, Block: blockID, Depth: 1}
	core.Process(bytecode.NewBytecodePos(mid, nil))
	if core.Status() != Running {
		t.Fatalf("status after a non-breakpoint line = %v, want Running", core.Status())
	}

	// Reaching the breakpoint line stops, and resuming returns to Running.
	hit := bytecode.SourcePosition{File: fileID, Line: 10, Block: blockID, Depth: 1}
	core.pending <- transport.Message{Tag: proto.CmdContinue}
	core.Process(bytecode.NewBytecodePos(hit, nil))
	if core.Status() != Running {
		t.Fatalf("status after continuing past the breakpoint = %v, want Running", core.Status())
	}
	if !hasStoppedEvent(ep, proto.ReasonBreakpt) {
		t.Fatal("expected a :BREAKPT stopped event at main.py:10")
	}
}

// TestScenarioE_StepOver checks that a step-over issued while stopped does
// not stop again for any position nested one level deeper, only once control
// returns to a depth at or above where it was issued and the position has
// actually changed.
func TestScenarioE_StepOver(t *testing.T) {
	target := newFakeTarget()
	fileF := target.interner.Intern("f.py")
	fileG := target.interner.Intern("g.py")
	blockMain := target.interner.Intern("main")
	blockG := target.interner.Intern("g")
	ep := &recordingEndpoint{}
	core := NewCore(config.Default(), target, ep, testLog())

	stopPos := bytecode.SourcePosition{File: fileF, Line: 4, Block: blockMain, Depth: 1}
	core.havePos = true
	core.lastPos = stopPos
	core.setStatus(Stopped)

	core.pending <- transport.Message{Tag: proto.CmdStepOver}
	core.runStopLoop(bytecode.NewBytecodePos(stopPos, nil))
	if core.Status() != StepOver {
		t.Fatalf("status after DBG_SOVR = %v, want StepOver", core.Status())
	}
	if core.stepPos != stopPos {
		t.Fatalf("stepPos = %+v, want %+v", core.stepPos, stopPos)
	}

	// Deeper (called into g.py): must not stop.
	into := bytecode.SourcePosition{File: fileG, Line: 1, Block: blockG, Depth: 2}
	core.Process(bytecode.NewBytecodePos(into, nil))
	if core.Status() != StepOver {
		t.Fatalf("status after stepping into a nested call = %v, want still StepOver", core.Status())
	}

	// Back at depth 1, different line: must stop with :SOVR___.
	back := bytecode.SourcePosition{File: fileF, Line: 5, Block: blockMain, Depth: 1}
	core.pending <- transport.Message{Tag: proto.CmdContinue}
	core.Process(bytecode.NewBytecodePos(back, nil))
	if core.Status() != Running {
		t.Fatalf("status after resuming = %v, want Running", core.Status())
	}
	if !hasStoppedEvent(ep, proto.ReasonStepOver) {
		t.Fatal("expected a :SOVR___ stopped event on return to the caller")
	}
}

// TestScenarioF_TerminateAlwaysHandled checks that DBG_TRMT interrupts the
// target regardless of the current status.
func TestScenarioF_TerminateAlwaysHandled(t *testing.T) {
	for _, s := range []Status{NotEnabled, Running, Stopped, PauseRequested} {
		target := newFakeTarget()
		core := NewCore(config.Default(), target, &recordingEndpoint{}, testLog())
		core.setStatus(s)

		core.dispatchOne(transport.Message{Tag: proto.CmdTerminate})
		if !target.interrupted {
			t.Fatalf("DBG_TRMT from status %v must call Interrupt()", s)
		}
	}
}

func TestEmitDone(t *testing.T) {
	ep := &recordingEndpoint{}
	core := NewCore(config.Default(), newFakeTarget(), ep, testLog())
	core.EmitDone(42)

	if len(ep.sent) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(ep.sent))
	}
	m := ep.sent[0]
	if m.Tag != proto.EvtDone {
		t.Fatalf("tag = %v, want DBG_DONE", m.Tag)
	}
	if got := binary.LittleEndian.Uint32(m.Payload); got != 42 {
		t.Fatalf("payload = %d, want 42", got)
	}
}

// TestProperty_RunningNeverStopsWithoutTrigger: with no breakpoints set and
// no pause/step command issued, a long run of distinct positions must never
// leave Running.
func TestProperty_RunningNeverStopsWithoutTrigger(t *testing.T) {
	target := newFakeTarget()
	core := NewCore(config.Default(), target, &recordingEndpoint{}, testLog())
	core.setStatus(Running)

	fileID := target.interner.Intern("a.py")
	blockID := target.interner.Intern("main")
	for line := uint32(1); line <= 50; line++ {
		pos := bytecode.SourcePosition{File: fileID, Line: line, Block: blockID, Depth: 1}
		core.Process(bytecode.NewBytecodePos(pos, nil))
		if core.Status() != Running {
			t.Fatalf("left Running at line %d without cause: %v", line, core.Status())
		}
	}
}

// TestProperty_NotEnabledFastPathEmitsNothing verifies the fast path: when
// debugging isn't enabled, Process leaves the status at NotEnabled and emits
// nothing.
func TestProperty_NotEnabledFastPathEmitsNothing(t *testing.T) {
	target := newFakeTarget()
	ep := &recordingEndpoint{}
	core := NewCore(config.Default(), target, ep, testLog())

	fileID := target.interner.Intern("a.py")
	pos := bytecode.SourcePosition{File: fileID, Line: 1, Depth: 0}
	core.Process(bytecode.NewBytecodePos(pos, nil))

	if core.Status() != NotEnabled {
		t.Fatalf("status = %v, want NotEnabled", core.Status())
	}
	if len(ep.sent) != 0 {
		t.Fatalf("expected no events while not enabled, got %d", len(ep.sent))
	}
}

func TestBkptHit_MutexTimeoutFailsOpen(t *testing.T) {
	cfg := config.Default()
	cfg.MutexTimeout = 5 * time.Millisecond
	core := NewCore(cfg, newFakeTarget(), &recordingEndpoint{}, testLog())

	if !core.mu.TryLock(time.Second) {
		t.Fatal("setup: could not acquire the mutex")
	}
	// Mutex held, never released: bkptHit must fail open rather than block.
	if core.bkptHit(bytecode.SourcePosition{File: 1, Line: 1}) {
		t.Fatal("a timed-out mutex acquisition must fail open (no breakpoint), not panic or block forever")
	}
}

func TestDispatchOne_SetBreakpointsIgnoresUnknownFile(t *testing.T) {
	target := newFakeTarget()
	core := NewCore(config.Default(), target, &recordingEndpoint{}, testLog())
	core.setStatus(Running)

	payload := append([]byte("never-seen.py\x00"), encodeU32(3)...)
	core.dispatchOne(transport.Message{Tag: proto.CmdSetBreakpoints, Payload: payload})

	// QStr(0) must never land in the table: it's also the table's
	// empty-slot sentinel.
	if core.bkpts.contains(0, 3) {
		t.Fatal("an unresolvable file must not be recorded as QStr(0)")
	}
}
