/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/config"
	"github.com/stackedboxes/tinydbg/pkg/proto"
)

type decodedFrame struct {
	file, block string
	line, index uint32
}

func decodeStackFrames(t *testing.T, payload []byte) (frames []decodedFrame, sentinel bool) {
	t.Helper()
	i := 0
	for i < len(payload) {
		if bytes.HasPrefix(payload[i:], []byte(proto.EndSentinel)) {
			sentinel = true
			i += len(proto.EndSentinel)
			break
		}

		fileEnd := bytes.IndexByte(payload[i:], 0)
		if fileEnd < 0 {
			t.Fatalf("unterminated file name at offset %d", i)
		}
		file := string(payload[i : i+fileEnd])
		i += fileEnd + 1

		blockEnd := bytes.IndexByte(payload[i:], 0)
		if blockEnd < 0 {
			t.Fatalf("unterminated block name at offset %d", i)
		}
		block := string(payload[i : i+blockEnd])
		i += blockEnd + 1

		line := binary.LittleEndian.Uint32(payload[i : i+4])
		i += 4
		idx := binary.LittleEndian.Uint32(payload[i : i+4])
		i += 4

		frames = append(frames, decodedFrame{file: file, block: block, line: line, index: idx})
	}
	return frames, sentinel
}

// buildChain constructs a 3-frame caller chain: innermost first.
//   frame 0 (depth 3): a.py:5  in block f
//   frame 1 (depth 2): a.py:17 in block g
//   frame 2 (depth 1): main.py:1 in block <module>
func buildChain(target *fakeTarget) *bytecode.BytecodePos {
	fileA := target.interner.Intern("a.py")
	fileMain := target.interner.Intern("main.py")
	blockF := target.interner.Intern("f")
	blockG := target.interner.Intern("g")
	blockModule := target.interner.Intern("<module>")

	outer := bytecode.NewBytecodePos(bytecode.SourcePosition{File: fileMain, Line: 1, Block: blockModule, Depth: 1}, nil)
	mid := bytecode.NewBytecodePos(bytecode.SourcePosition{File: fileA, Line: 17, Block: blockG, Depth: 2}, outer)
	inner := bytecode.NewBytecodePos(bytecode.SourcePosition{File: fileA, Line: 5, Block: blockF, Depth: 3}, mid)
	return inner
}

func TestBuildStackResponse_WholeChainFits(t *testing.T) {
	target := newFakeTarget()
	chain := buildChain(target)

	cfg := config.Default()
	cfg.StackPayloadBudget = 200
	core := NewCore(cfg, target, &recordingEndpoint{}, testLog())

	payload := core.buildStackResponse(chain, 0)
	frames, sentinel := decodeStackFrames(t, payload)

	if !sentinel {
		t.Fatal("expected the end sentinel when the whole chain fits")
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	want := []decodedFrame{
		{file: "a.py", block: "f", line: 5, index: 0},
		{file: "a.py", block: "g", line: 17, index: 1},
		{file: "main.py", block: "<module>", line: 1, index: 2},
	}
	for i, w := range want {
		if frames[i] != w {
			t.Fatalf("frame %d = %+v, want %+v", i, frames[i], w)
		}
	}
}

func TestBuildStackResponse_BudgetTruncatesWithoutSentinel(t *testing.T) {
	target := newFakeTarget()
	chain := buildChain(target)

	// Frames 0 and 1 are each 15 bytes ("a.py\0"+"f\0"+4+4, "a.py\0"+"g\0"+4+4).
	// Frame 2 is 25 bytes. A budget of 30 fits exactly the first two and
	// leaves no room for the third or the sentinel.
	cfg := config.Default()
	cfg.StackPayloadBudget = 30
	core := NewCore(cfg, target, &recordingEndpoint{}, testLog())

	payload := core.buildStackResponse(chain, 0)
	frames, sentinel := decodeStackFrames(t, payload)

	if sentinel {
		t.Fatal("a budget-truncated response must not carry the end sentinel")
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames to fit in the budget, got %d", len(frames))
	}
}

func TestBuildStackResponse_StartFrameIndexSkips(t *testing.T) {
	target := newFakeTarget()
	chain := buildChain(target)

	cfg := config.Default()
	cfg.StackPayloadBudget = 200
	core := NewCore(cfg, target, &recordingEndpoint{}, testLog())

	payload := core.buildStackResponse(chain, 2)
	frames, sentinel := decodeStackFrames(t, payload)

	if !sentinel {
		t.Fatal("expected the end sentinel")
	}
	if len(frames) != 1 {
		t.Fatalf("expected only the outermost frame, got %d", len(frames))
	}
	if frames[0].file != "main.py" || frames[0].index != 2 {
		t.Fatalf("unexpected frame %+v", frames[0])
	}
}
