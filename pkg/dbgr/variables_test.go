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
	"strconv"
	"testing"

	"github.com/stackedboxes/tinydbg/pkg/bytecode"
	"github.com/stackedboxes/tinydbg/pkg/config"
	"github.com/stackedboxes/tinydbg/pkg/proto"
)

type decodedVar struct {
	name, value, typeName string
	address               uint32
}

func decodeVariables(t *testing.T, payload []byte) (flags proto.VarKindMask, vars []decodedVar, sentinel bool) {
	t.Helper()
	if len(payload) < 1 {
		t.Fatal("a variables response always carries at least the flags byte")
	}
	flags = proto.VarKindMask(payload[0])
	i := 1
	for i < len(payload) {
		if bytes.HasPrefix(payload[i:], []byte(proto.EndSentinel)) {
			sentinel = true
			i += len(proto.EndSentinel)
			break
		}

		nameEnd := bytes.IndexByte(payload[i:], 0)
		name := string(payload[i : i+nameEnd])
		i += nameEnd + 1

		valueEnd := bytes.IndexByte(payload[i:], 0)
		value := string(payload[i : i+valueEnd])
		i += valueEnd + 1

		typeEnd := bytes.IndexByte(payload[i:], 0)
		typeName := string(payload[i : i+typeEnd])
		i += typeEnd + 1

		addr := binary.LittleEndian.Uint32(payload[i : i+4])
		i += 4

		vars = append(vars, decodedVar{name: name, value: value, typeName: typeName, address: addr})
	}
	return flags, vars, sentinel
}

func TestBuildVariablesResponse_GlobalScopeFiltersButFlagsSeeAll(t *testing.T) {
	target := newFakeTarget()
	target.globals.Set(bytecode.NewValueString("x"), bytecode.NewValueInt(1))
	target.globals.Set(bytecode.NewValueString("__name__"), bytecode.NewValueString("__main__"))
	target.globals.Set(bytecode.NewValueString("f"), bytecode.NewValueProcedure(&bytecode.Procedure{ChunkIndex: 0}))

	core := NewCore(config.Default(), target, &recordingEndpoint{}, testLog())

	mask := proto.VarKindMask(proto.VarKindNormal | proto.VarKindFunction)
	payload := core.buildVariablesResponse(proto.ScopeGlobal, mask, 0, 0)
	flags, vars, sentinel := decodeVariables(t, payload)

	wantFlags := proto.VarKindMask(proto.VarKindNormal | proto.VarKindSpecial | proto.VarKindFunction)
	if flags != wantFlags {
		t.Fatalf("contains_flags = %#x, want %#x (must report every kind present, not just the filtered ones)", flags, wantFlags)
	}
	if !sentinel {
		t.Fatal("expected the end sentinel")
	}
	if len(vars) != 2 {
		t.Fatalf("expected 2 filtered entries (x, f), got %d: %+v", len(vars), vars)
	}
	if vars[0].name != "x" || vars[1].name != "f" {
		t.Fatalf("unexpected filtered names: %+v", vars)
	}
}

func TestBuildVariablesResponse_EmptyMaskStillReportsFlags(t *testing.T) {
	target := newFakeTarget()
	target.globals.Set(bytecode.NewValueString("x"), bytecode.NewValueInt(1))
	target.globals.Set(bytecode.NewValueString("__doc__"), bytecode.NewValueString("d"))

	core := NewCore(config.Default(), target, &recordingEndpoint{}, testLog())

	payload := core.buildVariablesResponse(proto.ScopeGlobal, 0, 0, 0)
	flags, vars, sentinel := decodeVariables(t, payload)

	wantFlags := proto.VarKindMask(proto.VarKindNormal | proto.VarKindSpecial)
	if flags != wantFlags {
		t.Fatalf("contains_flags = %#x, want %#x even with an empty include mask", flags, wantFlags)
	}
	if len(vars) != 0 {
		t.Fatalf("expected no records with an empty include mask, got %d", len(vars))
	}
	if !sentinel {
		t.Fatal("an empty result still ends with the sentinel, since nothing overflowed the budget")
	}
}

func TestBuildVariablesResponse_ObjectDrillDownList(t *testing.T) {
	target := newFakeTarget()
	list := bytecode.NewValueList([]bytecode.Value{
		bytecode.NewValueInt(10),
		bytecode.NewValueInt(20),
		bytecode.NewValueInt(30),
	})
	handle := target.RegisterObject(list)
	if handle == 0 {
		t.Fatal("a list must be address-worthy")
	}

	core := NewCore(config.Default(), target, &recordingEndpoint{}, testLog())
	payload := core.buildVariablesResponse(proto.ScopeObject, proto.VarKindMask(proto.VarKindNormal), handle, 0)
	_, vars, sentinel := decodeVariables(t, payload)

	if !sentinel {
		t.Fatal("expected the end sentinel")
	}
	if len(vars) != 3 {
		t.Fatalf("expected 3 list items, got %d", len(vars))
	}
	for i, want := range []string{"10", "20", "30"} {
		if vars[i].name != strconv.Itoa(i) || vars[i].value != want {
			t.Fatalf("item %d = %+v, want name %q value %q", i, vars[i], strconv.Itoa(i), want)
		}
	}
}

func TestBuildVariablesResponse_UnknownObjectAddressIsEmpty(t *testing.T) {
	target := newFakeTarget()
	core := NewCore(config.Default(), target, &recordingEndpoint{}, testLog())

	payload := core.buildVariablesResponse(proto.ScopeObject, proto.VarKindMask(proto.VarKindNormal), 0xDEAD, 0)
	flags, vars, sentinel := decodeVariables(t, payload)

	if flags != 0 || len(vars) != 0 || sentinel {
		t.Fatalf("an unresolvable object address must yield a bare empty payload, got flags=%#x vars=%+v sentinel=%v", flags, vars, sentinel)
	}
}

func TestClassifyVarKind_DunderNameOutranksType(t *testing.T) {
	if classifyVarKind("__init__", bytecode.NewValueProcedure(&bytecode.Procedure{})) != proto.VarKindSpecial {
		t.Fatal("a leading-dunder name must classify as Special even for a function value")
	}
	if classifyVarKind("x__", bytecode.NewValueInt(1)) == proto.VarKindSpecial {
		t.Fatal("a trailing __ without a leading one must not count as Special")
	}
	if classifyVarKind("x", bytecode.NewValueInt(1)) != proto.VarKindNormal {
		t.Fatal("a plain int should classify as Normal")
	}
}
