/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

// QStr is an interned-string identifier, assigned by an Interner. Two strings
// are equal iff their QStr values are equal. QStr(0) means "unknown/absent" --
// it is never returned by Intern for a real string. QStr keeps this width
// everywhere, including in the breakpoint table; it is never narrowed for
// storage.
type QStr uint32

// Interner assigns small numeric ids to strings, so that string equality
// becomes id equality -- the interpreter's interned-string table.
type Interner struct {
	strings []string
	ids     map[string]QStr
}

// NewInterner creates an empty Interner. QStr(0) is reserved (see Lookup).
func NewInterner() *Interner {
	return &Interner{
		strings: []string{""},
		ids:     map[string]QStr{},
	}
}

// Intern returns the QStr identifying s, assigning a new one the first time s
// is seen. Interning the empty string returns 0, same as an uninterned QStr.
func (in *Interner) Intern(s string) QStr {
	if s == "" {
		return 0
	}
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := QStr(len(in.strings))
	in.strings = append(in.strings, s)
	in.ids[s] = id
	return id
}

// Lookup returns the string identified by id, or "" if id is 0 or unknown.
func (in *Interner) Lookup(id QStr) string {
	if int(id) < 0 || int(id) >= len(in.strings) {
		return ""
	}
	return in.strings[id]
}

// LookupReverse returns the QStr identifying s, or 0 if s was never interned.
// Unlike Intern, it never assigns a new id -- it's used to resolve a host-
// supplied file name against whatever the interpreter already knows about.
func (in *Interner) LookupReverse(s string) QStr {
	return in.ids[s]
}

// allStrings returns every interned string, in QStr order, including the
// reserved empty string at index 0. Used when serializing an Interner.
func (in *Interner) allStrings() []string {
	return in.strings
}
