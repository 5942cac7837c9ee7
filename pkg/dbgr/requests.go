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

	"github.com/stackedboxes/tinydbg/pkg/proto"
)

// parseStackRequest decodes a DBG_STAC payload: a single little-endian u32
// start frame index. The 8-byte command tag travels in Message.Tag, not in
// the payload, so the start frame index is the first thing here.
func parseStackRequest(payload []byte) (startFrameIndex uint32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[0:4]), true
}

// parseVarsRequest decodes a DBG_VARS payload: scope (u8), include_kind_mask
// (u8), depth_or_addr (u32), var_start_index (u32).
func parseVarsRequest(payload []byte) (scope proto.Scope, mask proto.VarKindMask, depthOrAddr, varStartIndex uint32, ok bool) {
	if len(payload) < 10 {
		return 0, 0, 0, 0, false
	}
	scope = proto.Scope(payload[0])
	mask = proto.VarKindMask(payload[1])
	depthOrAddr = binary.LittleEndian.Uint32(payload[2:6])
	varStartIndex = binary.LittleEndian.Uint32(payload[6:10])
	return scope, mask, depthOrAddr, varStartIndex, true
}

// parseSetBreakpoints decodes a DBG_BKPT payload: a NUL-terminated file name
// followed by zero or more little-endian u32 line numbers.
func parseSetBreakpoints(payload []byte) (file string, lines []uint32, ok bool) {
	nul := bytes.IndexByte(payload, 0)
	if nul < 0 {
		return "", nil, false
	}
	file = string(payload[:nul])

	rest := payload[nul+1:]
	lines = make([]uint32, 0, len(rest)/4)
	for i := 0; i+4 <= len(rest); i += 4 {
		lines = append(lines, binary.LittleEndian.Uint32(rest[i:i+4]))
	}
	return file, lines, true
}
