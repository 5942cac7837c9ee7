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

// globals holds every module-level variable the program has defined so far.
// Keyed by name rather than by QStr so that OpGetGlobal/OpSetGlobal, which
// carry a constant-pool index to a string Value, need no separate name table.
type globals struct {
	dict *bytecode.Dict
}

func newGlobals() *globals {
	return &globals{dict: bytecode.NewDict()}
}

// Get returns the value bound to name, and whether it is defined.
func (g *globals) Get(name string) (bytecode.Value, bool) {
	for _, p := range g.dict.Pairs() {
		if p.Key.AsString() == name {
			return p.Value, true
		}
	}
	return bytecode.Value{}, false
}

// Define binds name to value, overwriting any previous binding.
func (g *globals) Define(name string, value bytecode.Value) {
	g.dict.Set(bytecode.NewValueString(name), value)
}

// DictLike exposes the globals as a bytecode.DictLike, for the Global scope
// of the variable enumerator.
func (g *globals) DictLike() bytecode.DictLike {
	return g.dict
}
