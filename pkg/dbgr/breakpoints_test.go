/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import "testing"

func TestBreakpointTable_SetAndContains(t *testing.T) {
	tbl := newBreakpointTable(4, testLog())

	tbl.set(1, 10)
	tbl.set(2, 20)
	tbl.set(3, 30)

	if !tbl.contains(2, 20) {
		t.Fatal("expected (2, 20) to be set")
	}
	if tbl.contains(2, 21) {
		t.Fatal("(2, 21) was never set")
	}
	if tbl.contains(9, 9) {
		t.Fatal("unknown file must not match")
	}
}

func TestBreakpointTable_ClearForFileCompacts(t *testing.T) {
	tbl := newBreakpointTable(4, testLog())
	tbl.set(1, 10)
	tbl.set(2, 20)
	tbl.set(3, 30)

	tbl.clearForFile(2)

	if tbl.contains(2, 20) {
		t.Fatal("file 2's breakpoint should have been cleared")
	}
	if !tbl.contains(1, 10) || !tbl.contains(3, 30) {
		t.Fatal("clearing file 2 must not disturb the other files")
	}

	nonEmpty := 0
	for _, s := range tbl.slots {
		if s.file != 0 {
			nonEmpty++
		}
	}
	if nonEmpty != 2 {
		t.Fatalf("expected 2 non-empty slots after compaction, got %d", nonEmpty)
	}
	for i := 0; i < nonEmpty; i++ {
		if tbl.slots[i].file == 0 {
			t.Fatalf("slot %d is empty before the non-empty count ends: compaction invariant broken", i)
		}
	}
}

func TestBreakpointTable_FullDropsNewEntries(t *testing.T) {
	tbl := newBreakpointTable(2, testLog())
	tbl.set(1, 1)
	tbl.set(1, 2)
	tbl.set(1, 3) // table is full, must be dropped silently (with a log warning)

	if tbl.contains(1, 3) {
		t.Fatal("a breakpoint set past capacity must be dropped")
	}
	if !tbl.contains(1, 1) || !tbl.contains(1, 2) {
		t.Fatal("existing entries must survive a dropped insert")
	}
}

func TestBreakpointTable_ClearAll(t *testing.T) {
	tbl := newBreakpointTable(4, testLog())
	tbl.set(1, 1)
	tbl.set(2, 2)
	tbl.clearAll()

	if tbl.contains(1, 1) || tbl.contains(2, 2) {
		t.Fatal("clearAll must remove every breakpoint")
	}
}
