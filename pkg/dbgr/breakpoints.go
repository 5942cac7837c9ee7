/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import (
	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/dbgrlog"
)

// breakpoint is a single (file, line) pair. file == 0 marks an empty slot.
type breakpoint struct {
	file bytecode.QStr
	line uint32
}

// breakpointTable is a fixed-capacity set of breakpoints, compacted after
// every mutation: all non-empty slots occupy a contiguous prefix starting at
// index 0. Every method assumes the core mutex is already held by the
// caller -- breakpointTable itself does no locking.
type breakpointTable struct {
	slots []breakpoint
	log   *dbgrlog.Logger
}

func newBreakpointTable(capacity int, log *dbgrlog.Logger) *breakpointTable {
	return &breakpointTable{
		slots: make([]breakpoint, capacity),
		log:   log,
	}
}

// clearAll zeroes every slot.
func (t *breakpointTable) clearAll() {
	for i := range t.slots {
		t.slots[i] = breakpoint{}
	}
}

// clearForFile zeroes every slot with file == f, then compacts.
func (t *breakpointTable) clearForFile(f bytecode.QStr) {
	for i := range t.slots {
		if t.slots[i].file == f {
			t.slots[i] = breakpoint{}
		}
	}
	t.compact()
}

// set finds the first empty slot and writes (f, line). If the table is full,
// the request is dropped and a warning logged; existing entries are never
// overwritten and the table is never resized. Inserting a duplicate
// (f, line) pair is allowed -- the host is expected to replace a file's
// breakpoints wholesale via set_breakpoints, not add to them incrementally.
func (t *breakpointTable) set(f bytecode.QStr, line uint32) {
	for i := range t.slots {
		if t.slots[i].file == 0 {
			t.slots[i] = breakpoint{file: f, line: line}
			return
		}
	}
	t.log.Warnf("breakpoint table full (capacity %d), dropping (file=%v, line=%v)", len(t.slots), f, line)
}

// contains reports whether (f, line) is set. Scans linearly and returns on
// the first empty slot, which by the compaction invariant terminates the
// search as soon as the non-empty prefix ends.
func (t *breakpointTable) contains(f bytecode.QStr, line uint32) bool {
	for i := range t.slots {
		if t.slots[i].file == 0 {
			return false
		}
		if t.slots[i].file == f && t.slots[i].line == line {
			return true
		}
	}
	return false
}

// compact shifts every non-empty slot down to close gaps left by a deletion,
// preserving relative order.
func (t *breakpointTable) compact() {
	write := 0
	for read := range t.slots {
		if t.slots[read].file != 0 {
			t.slots[write] = t.slots[read]
			write++
		}
	}
	for ; write < len(t.slots); write++ {
		t.slots[write] = breakpoint{}
	}
}
