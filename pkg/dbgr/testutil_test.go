/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import (
	"fmt"
	"io"
	"time"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/dbgrlog"
	"github.com/stackedboxes/tinydbg/pkg/transport"
)

// testLog returns a Logger that discards everything below Error, so test
// output isn't cluttered by the warnings the core logs for expected
// failure-open paths (mutex timeouts, dropped commands).
func testLog() *dbgrlog.Logger {
	return dbgrlog.New(&dbgrlog.Config{Level: dbgrlog.LevelError, Output: io.Discard})
}

// recordingEndpoint is a transport.Endpoint that records every Send and
// never has anything to receive. It lets tests assert on the events a Core
// emitted without wiring up real goroutines or channels.
type recordingEndpoint struct {
	sent []transport.Message
}

func (e *recordingEndpoint) Send(m transport.Message) error {
	e.sent = append(e.sent, m)
	return nil
}

func (e *recordingEndpoint) Recv() (transport.Message, bool) {
	return transport.Message{}, false
}

func (e *recordingEndpoint) TryRecv(time.Duration) (transport.Message, bool) {
	return transport.Message{}, false
}

// fakeTarget is a hand-built Target double standing in for an interpreter.
// Tests populate its fields directly instead of compiling real bytecode.
type fakeTarget struct {
	interner    *bytecode.Interner
	frames      [][]bytecode.Value
	globals     *bytecode.Dict
	objects     map[uint32]bytecode.Value
	byPayload   map[interface{}]uint32
	nextAddr    uint32
	interrupted bool
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		interner:  bytecode.NewInterner(),
		globals:   bytecode.NewDict(),
		objects:   map[uint32]bytecode.Value{},
		byPayload: map[interface{}]uint32{},
		nextAddr:  1,
	}
}

func (f *fakeTarget) CurrentPos() *bytecode.BytecodePos { return nil }

func (f *fakeTarget) FrameLocals(depth int) ([]bytecode.Value, bool) {
	if depth < 0 || depth >= len(f.frames) {
		return nil, false
	}
	return f.frames[depth], true
}

func (f *fakeTarget) FrameCount() int { return len(f.frames) }

func (f *fakeTarget) Globals() bytecode.DictLike { return f.globals }

func (f *fakeTarget) InternedString(id bytecode.QStr) string { return f.interner.Lookup(id) }

func (f *fakeTarget) InternLookup(name string) bytecode.QStr { return f.interner.LookupReverse(name) }

func (f *fakeTarget) ResolveObject(handle uint32) (bytecode.Value, bool) {
	v, ok := f.objects[handle]
	return v, ok
}

func (f *fakeTarget) RegisterObject(v bytecode.Value) uint32 {
	if !v.IsAddressWorthy() {
		return 0
	}
	if h, ok := f.byPayload[v.Payload]; ok {
		return h
	}
	h := f.nextAddr
	f.nextAddr++
	f.byPayload[v.Payload] = h
	f.objects[h] = v
	return h
}

func (f *fakeTarget) ReprOf(v bytecode.Value) string {
	if v.Kind == bytecode.KindString {
		return fmt.Sprintf("%q", v.AsString())
	}
	return v.String()
}

func (f *fakeTarget) StrOf(v bytecode.Value) string { return v.String() }

func (f *fakeTarget) Interrupt() { f.interrupted = true }

func encodeU32(v uint32) []byte {
	b := newRespBuf(4)
	b.appendU32(v)
	return b.bytes()
}
