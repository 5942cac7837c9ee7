/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import (
	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/proto"
)

// buildStackResponse walks the caller chain starting at top, skipping frames
// before startFrameIndex, and serializes as many as fit in a budget-sized
// buffer. It never emits a partial frame: a frame whose wire
// size would overflow the budget simply isn't written, and the walk stops
// there. The end sentinel is appended only if the chain was walked to
// completion and it still fits.
func (c *Core) buildStackResponse(top *bytecode.BytecodePos, startFrameIndex uint32) []byte {
	resp := newRespBuf(c.cfg.StackPayloadBudget)

	reachedEnd := true
	bc := top
	for i := uint32(0); bc != nil; i, bc = i+1, nextFrame(bc) {
		if i < startFrameIndex {
			continue
		}

		pos := bc.SourcePos()
		file := c.target.InternedString(pos.File)
		block := c.target.InternedString(pos.Block)
		frameSize := len(file) + 1 + len(block) + 1 + 4 + 4

		if resp.remaining() < frameSize {
			reachedEnd = false
			break
		}

		resp.appendCString(file)
		resp.appendCString(block)
		resp.appendU32(pos.Line)
		resp.appendU32(i)
	}

	if reachedEnd {
		resp.appendRaw([]byte(proto.EndSentinel))
	}

	return resp.bytes()
}

// nextFrame returns bc's caller, or nil if bc is the outermost frame.
func nextFrame(bc *bytecode.BytecodePos) *bytecode.BytecodePos {
	caller, ok := bc.Caller()
	if !ok {
		return nil
	}
	return caller
}
