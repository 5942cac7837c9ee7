/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// Package proto names the wire constants of the host<->target debug
// protocol: the 8-byte command/event tags, the stop-reason strings, and the
// scope/kind enumerations carried in a variables request. Every tag is
// exactly 8 ASCII bytes, padded with underscores, matching the fixed-width
// tag the transport (pkg/transport) reads and writes.
package proto

// Tag is an 8-byte command or event identifier.
type Tag [8]byte

// String renders a Tag for logging.
func (t Tag) String() string {
	return string(t[:])
}

func tag(s string) Tag {
	var t Tag
	copy(t[:], s)
	for i := len(s); i < len(t); i++ {
		t[i] = '_'
	}
	return t
}

// Commands, host -> target.
var (
	CmdTerminate      = tag("DBG_TRMT")
	CmdStart          = tag("DBG_STRT")
	CmdPause          = tag("DBG_PAUS")
	CmdContinue       = tag("DBG_CONT")
	CmdStepInto       = tag("DBG_SINT")
	CmdStepOver       = tag("DBG_SOVR")
	CmdStepOut        = tag("DBG_SOUT")
	CmdStackRequest   = tag("DBG_STAC")
	CmdVarsRequest    = tag("DBG_VARS")
	CmdSetBreakpoints = tag("DBG_BKPT")
)

// Events, target -> host.
var (
	EvtStopped = tag("DBG_STOP")
	EvtDone    = tag("DBG_DONE")
)

// StopReason is one of the fixed 8-character reason tags carried by
// EvtStopped.
type StopReason [8]byte

func reason(s string) StopReason {
	var r StopReason
	copy(r[:], s)
	for i := len(s); i < len(r); i++ {
		r[i] = '_'
	}
	return r
}

var (
	ReasonPaused   = reason(":PAUSED_")
	ReasonBreakpt  = reason(":BREAKPT")
	ReasonStepInto = reason(":SINT___")
	ReasonStepOver = reason(":SOVR___")
	ReasonStepOut  = reason(":SOUT___")
	ReasonStarting = reason(":STARTNG")
)

func (r StopReason) String() string {
	return string(r[:])
}

// Scope selects which namespace a variables request enumerates.
type Scope uint8

const (
	ScopeFrame Scope = iota
	ScopeGlobal
	ScopeObject
)

// VarKind classifies a variable, as a single-bit flag so kinds combine into
// a bitmask (VarKindMask).
type VarKind uint8

const (
	VarKindNormal   VarKind = 1 << 0
	VarKindSpecial  VarKind = 1 << 1
	VarKindFunction VarKind = 1 << 2
	VarKindClass    VarKind = 1 << 3
	VarKindModule   VarKind = 1 << 4
)

// VarKindMask is a bitmask over VarKind values.
type VarKindMask uint8

// Has reports whether mask includes k.
func (mask VarKindMask) Has(k VarKind) bool {
	return VarKind(mask)&k != 0
}

// EndSentinel marks the final chunk of a chunked stack or variables response.
const EndSentinel = "<end>\x00"
