/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package vm

import (
	"github.com/stackedboxes/tinydbg/pkg/bytecode"
)

// objectRegistry hands out small, stable, synthetic addresses for
// address-worthy values (see bytecode.Value.IsAddressWorthy), so that a
// debugger host can name a container or object across two round-trips (list
// it, then drill into it) without tinydbg ever exposing a raw pointer.
//
// Every address-worthy Value's Payload is a pointer (*bytecode.List,
// *bytecode.Dict, and so on), so pointer identity is exactly what we want to
// key on: asking for the same object's address twice returns the same
// handle. We never validate that a handle a host hands back still names
// something live -- a debugger session is expected to end with the program
// that produced its handles.
type objectRegistry struct {
	byPayload map[interface{}]uint32
	byHandle  map[uint32]bytecode.Value
	next      uint32
}

func newObjectRegistry() *objectRegistry {
	return &objectRegistry{
		byPayload: map[interface{}]uint32{},
		byHandle:  map[uint32]bytecode.Value{},
		next:      1,
	}
}

// Register assigns (or recalls) a handle naming v. Registering a value that
// is not address-worthy always returns 0.
func (r *objectRegistry) Register(v bytecode.Value) uint32 {
	if !v.IsAddressWorthy() {
		return 0
	}
	if h, ok := r.byPayload[v.Payload]; ok {
		return h
	}
	h := r.next
	r.next++
	r.byPayload[v.Payload] = h
	r.byHandle[h] = v
	return h
}

// Resolve returns the Value previously registered under handle, and whether
// it was found.
func (r *objectRegistry) Resolve(handle uint32) (bytecode.Value, bool) {
	v, ok := r.byHandle[handle]
	return v, ok
}
