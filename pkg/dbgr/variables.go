/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package dbgr

import (
	"strconv"
	"strings"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/proto"
)

// varEntry is one name/value pair produced while resolving a scope, before
// classification and filtering.
type varEntry struct {
	name  string
	value bytecode.Value
}

// varEntriesForScope resolves a variables request's scope to the entries it
// names. ok is false for an unresolvable scope -- an unknown frame depth, a
// zero or unknown object address -- in which case the caller sends back an
// empty result rather than an error.
func (c *Core) varEntriesForScope(scope proto.Scope, depthOrAddr uint32) ([]varEntry, bool) {
	switch scope {
	case proto.ScopeFrame:
		locals, ok := c.target.FrameLocals(int(depthOrAddr))
		if !ok {
			return nil, false
		}
		entries := make([]varEntry, len(locals))
		for i, v := range locals {
			entries[i] = varEntry{name: strconv.Itoa(i), value: v}
		}
		return entries, true

	case proto.ScopeGlobal:
		pairs := c.target.Globals().Pairs()
		entries := make([]varEntry, len(pairs))
		for i, p := range pairs {
			entries[i] = varEntry{name: c.target.StrOf(p.Key), value: p.Value}
		}
		return entries, true

	case proto.ScopeObject:
		if depthOrAddr == 0 {
			return nil, false
		}
		v, ok := c.target.ResolveObject(depthOrAddr)
		if !ok {
			return nil, false
		}
		return c.objectEntries(v), true

	default:
		return nil, false
	}
}

// objectEntries drills into v's interior using whichever capability trait it
// implements, rather than a hand-coded ladder over type tags. A
// value implementing none of Sequence/DictLike/AttrBearing yields no entries
// at all -- a best-effort dispatch on an unknown kind, never an error.
func (c *Core) objectEntries(v bytecode.Value) []varEntry {
	if seq, ok := v.AsSequence(); ok {
		entries := make([]varEntry, seq.Len())
		for i := 0; i < seq.Len(); i++ {
			entries[i] = varEntry{name: strconv.Itoa(i), value: seq.At(i)}
		}
		return entries
	}

	if d, ok := v.AsDictLike(); ok {
		pairs := d.Pairs()
		entries := make([]varEntry, 0, len(pairs)+1)
		entries = append(entries, varEntry{name: "len()", value: bytecode.NewValueInt(int64(d.Len()))})
		for _, p := range pairs {
			entries = append(entries, varEntry{name: c.target.ReprOf(p.Key), value: p.Value})
		}
		return entries
	}

	if a, ok := v.AsAttrBearing(); ok {
		names := a.Dir()
		entries := make([]varEntry, 0, len(names))
		for _, name := range names {
			val, ok := a.GetAttr(name)
			if !ok {
				continue
			}
			entries = append(entries, varEntry{name: name, value: val})
		}
		return entries
	}

	return nil
}

// classifyVarKind assigns a VarKind. Name takes priority over type: a
// dunder-named function is still Special, not Function. Only the leading
// "__" is checked; a trailing "__" is deliberately not required, which is
// what hosts speaking this protocol expect.
func classifyVarKind(name string, v bytecode.Value) proto.VarKind {
	if strings.HasPrefix(name, "__") {
		return proto.VarKindSpecial
	}
	switch v.Kind {
	case bytecode.KindProcedure, bytecode.KindClosure:
		return proto.VarKindFunction
	case bytecode.KindClass:
		return proto.VarKindClass
	case bytecode.KindModule:
		return proto.VarKindModule
	default:
		return proto.VarKindNormal
	}
}

// truncate caps s at max bytes, mirroring the interpreter's print helper
// capping printed representations at OBJ_REPR_MAX.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// buildVariablesResponse enumerates scope, classifies and filters by
// includeMask, and serializes the records starting at varStartIndex into a
// budget-sized buffer. The leading flags byte is always present,
// even on an empty or unresolvable scope.
func (c *Core) buildVariablesResponse(scope proto.Scope, includeMask proto.VarKindMask, depthOrAddr, varStartIndex uint32) []byte {
	resp := newRespBuf(c.cfg.VarsPayloadBudget)
	resp.appendU8(0) // flags byte, backfilled below

	entries, ok := c.varEntriesForScope(scope, depthOrAddr)
	if !ok {
		return resp.bytes()
	}

	var containsFlags proto.VarKindMask
	filteredIndex := uint32(0)
	full := false

	for _, e := range entries {
		kind := classifyVarKind(e.name, e.value)
		containsFlags |= proto.VarKindMask(kind)

		if !includeMask.Has(kind) {
			continue
		}

		index := filteredIndex
		filteredIndex++
		if index < varStartIndex {
			continue
		}
		if full {
			continue
		}

		name := truncate(e.name, c.cfg.ObjReprMax)
		value := truncate(c.target.ReprOf(e.value), c.cfg.ObjReprMax)
		typeName := e.value.Kind.String()

		var address uint32
		if e.value.IsAddressWorthy() {
			address = c.target.RegisterObject(e.value)
		}

		recordSize := len(name) + 1 + len(value) + 1 + len(typeName) + 1 + 4
		if resp.remaining() < recordSize {
			full = true
			continue
		}

		resp.appendCString(name)
		resp.appendCString(value)
		resp.appendCString(typeName)
		resp.appendU32(address)
	}

	if !full && resp.remaining() >= len(proto.EndSentinel) {
		resp.appendRaw([]byte(proto.EndSentinel))
	}

	resp.setByte(0, uint8(containsFlags))
	return resp.bytes()
}
