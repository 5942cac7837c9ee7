/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"fmt"
)

// A ValueKind represents one of the types a value in the Virtual Machine can
// have. This is the type from the perspective of the VM (in the sense that
// user-defined classes are obviously not directly represented here). We use
// "kind" in the name because "type" is a keyword in Go.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindProcedure
	KindClosure
	KindList
	KindTuple
	KindDict
	KindObject
	KindInstance
	KindClass
	KindModule
	KindCell
)

// String returns a human-readable, type()-like name for k, used both for
// tracing and as the "type_name" reported to a debugger host.
func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindProcedure:
		return "function"
	case KindClosure:
		return "closure"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindDict:
		return "dict"
	case KindObject:
		return "object"
	case KindInstance:
		return "instance"
	case KindClass:
		return "type"
	case KindModule:
		return "module"
	case KindCell:
		return "cell"
	default:
		return "?"
	}
}

// Value is a language value as seen by the Virtual Machine.
type Value struct {
	Kind    ValueKind
	Payload interface{}
}

//
// Capability interfaces. The variable enumerator (pkg/dbgr) branches on these
// instead of on ValueKind directly, so adding a new address-worthy container
// never touches the enumerator's dispatch logic.
//

// Sequence is implemented by values that can be iterated by integer index
// (tuple, list).
type Sequence interface {
	Len() int
	At(i int) Value
}

// DictPair is one key/value pair yielded while iterating a DictLike.
type DictPair struct {
	Key   Value
	Value Value
}

// DictLike is implemented by values that iterate as key/value pairs (dict).
type DictLike interface {
	Len() int
	Pairs() []DictPair
}

// AttrBearing is implemented by values whose interior is inspected via
// attribute listing rather than indexing (object, instance, class, module,
// function, closure, cell).
type AttrBearing interface {
	Dir() []string
	GetAttr(name string) (Value, bool)
}

//
// Concrete payload types
//

// Procedure is the runtime representation of a compiled function. Addresses
// of Procedures are stable for the lifetime of the program (one instance per
// chunk), so function values are address-worthy.
type Procedure struct {
	ChunkIndex int
	Name       QStr
}

func (p *Procedure) Dir() []string { return []string{"__name__", "__code__"} }

func (p *Procedure) GetAttr(name string) (Value, bool) {
	switch name {
	case "__name__":
		return NewValueString(fmt.Sprintf("proc#%d", p.ChunkIndex)), true
	case "__code__":
		return NewValueInt(int64(p.ChunkIndex)), true
	}
	return Value{}, false
}

// Closure pairs a Procedure with the Cells it captured from enclosing scopes.
type Closure struct {
	Proc     *Procedure
	Captured []*Cell
}

func (c *Closure) Dir() []string { return []string{"__name__", "__closure__"} }

func (c *Closure) GetAttr(name string) (Value, bool) {
	switch name {
	case "__name__":
		return c.Proc.GetAttr("__name__")
	case "__closure__":
		return NewValueTuple(nil), true
	}
	return Value{}, false
}

// Cell is a single boxed variable, shared between a closure and the scope
// that created it.
type Cell struct {
	Value Value
}

func (c *Cell) Dir() []string { return []string{"cell_contents"} }

func (c *Cell) GetAttr(name string) (Value, bool) {
	if name == "cell_contents" {
		return c.Value, true
	}
	return Value{}, false
}

// List is a mutable, ordered, address-worthy sequence.
type List struct {
	Items []Value
}

func (l *List) Len() int       { return len(l.Items) }
func (l *List) At(i int) Value { return l.Items[i] }

// Tuple is an immutable, ordered, address-worthy sequence.
type Tuple struct {
	Items []Value
}

func (t *Tuple) Len() int       { return len(t.Items) }
func (t *Tuple) At(i int) Value { return t.Items[i] }

// Dict is an insertion-ordered key/value mapping. Ordered (rather than a bare
// Go map) so that enumeration order, and therefore chunked responses, is
// deterministic and reproducible in tests.
type Dict struct {
	pairs []DictPair
}

// NewDict creates an empty Dict.
func NewDict() *Dict {
	return &Dict{}
}

// Set inserts or updates the value for key, preserving insertion order.
func (d *Dict) Set(key, value Value) {
	for i, p := range d.pairs {
		if ValuesEqual(p.Key, key) {
			d.pairs[i].Value = value
			return
		}
	}
	d.pairs = append(d.pairs, DictPair{Key: key, Value: value})
}

func (d *Dict) Len() int          { return len(d.pairs) }
func (d *Dict) Pairs() []DictPair { return d.pairs }

// PlainObject is a bare `object()`-like instance: no class, just attributes.
type PlainObject struct {
	Attrs map[string]Value
}

func (o *PlainObject) Dir() []string {
	names := make([]string, 0, len(o.Attrs))
	for k := range o.Attrs {
		names = append(names, k)
	}
	return names
}

func (o *PlainObject) GetAttr(name string) (Value, bool) {
	v, ok := o.Attrs[name]
	return v, ok
}

// Class is a user-defined type. Its own attributes are its class-level
// members (methods, class variables).
type Class struct {
	Name    QStr
	Methods map[string]Value
}

func (c *Class) Dir() []string {
	names := make([]string, 0, len(c.Methods)+1)
	names = append(names, "__name__")
	for k := range c.Methods {
		names = append(names, k)
	}
	return names
}

func (c *Class) GetAttr(name string) (Value, bool) {
	if name == "__name__" {
		return NewValueString(fmt.Sprintf("qstr#%d", c.Name)), true
	}
	v, ok := c.Methods[name]
	return v, ok
}

// Instance is an instance of a user-defined Class.
type Instance struct {
	Class *Class
	Attrs map[string]Value
}

func (i *Instance) Dir() []string {
	names := make([]string, 0, len(i.Attrs)+1)
	names = append(names, "__class__")
	for k := range i.Attrs {
		names = append(names, k)
	}
	names = append(names, i.Class.Dir()...)
	return names
}

func (i *Instance) GetAttr(name string) (Value, bool) {
	if name == "__class__" {
		return Value{Kind: KindClass, Payload: i.Class}, true
	}
	if v, ok := i.Attrs[name]; ok {
		return v, true
	}
	return i.Class.GetAttr(name)
}

// Module is a loaded module's namespace.
type Module struct {
	Name  QStr
	Attrs map[string]Value
}

func (m *Module) Dir() []string {
	names := make([]string, 0, len(m.Attrs))
	for k := range m.Attrs {
		names = append(names, k)
	}
	return names
}

func (m *Module) GetAttr(name string) (Value, bool) {
	v, ok := m.Attrs[name]
	return v, ok
}

//
// Constructors
//

func NewValueNil() Value            { return Value{Kind: KindNil} }
func NewValueBool(b bool) Value     { return Value{Kind: KindBool, Payload: b} }
func NewValueInt(i int64) Value     { return Value{Kind: KindInt, Payload: i} }
func NewValueFloat(f float64) Value { return Value{Kind: KindFloat, Payload: f} }
func NewValueString(s string) Value { return Value{Kind: KindString, Payload: s} }

func NewValueProcedure(p *Procedure) Value { return Value{Kind: KindProcedure, Payload: p} }
func NewValueClosure(c *Closure) Value     { return Value{Kind: KindClosure, Payload: c} }
func NewValueCell(c *Cell) Value           { return Value{Kind: KindCell, Payload: c} }

func NewValueList(items []Value) Value {
	return Value{Kind: KindList, Payload: &List{Items: items}}
}

func NewValueTuple(items []Value) Value {
	return Value{Kind: KindTuple, Payload: &Tuple{Items: items}}
}

func NewValueDict(d *Dict) Value          { return Value{Kind: KindDict, Payload: d} }
func NewValueObject(o *PlainObject) Value { return Value{Kind: KindObject, Payload: o} }
func NewValueInstance(i *Instance) Value  { return Value{Kind: KindInstance, Payload: i} }
func NewValueClass(c *Class) Value        { return Value{Kind: KindClass, Payload: c} }
func NewValueModule(m *Module) Value      { return Value{Kind: KindModule, Payload: m} }

//
// Accessors
//

func (v Value) AsBool() bool            { return v.Payload.(bool) }
func (v Value) AsInt() int64            { return v.Payload.(int64) }
func (v Value) AsFloat() float64        { return v.Payload.(float64) }
func (v Value) AsString() string        { return v.Payload.(string) }
func (v Value) AsProcedure() *Procedure { return v.Payload.(*Procedure) }

// AsSequence returns v's payload as a Sequence, and whether that succeeded.
func (v Value) AsSequence() (Sequence, bool) {
	s, ok := v.Payload.(Sequence)
	return s, ok
}

// AsDictLike returns v's payload as a DictLike, and whether that succeeded.
func (v Value) AsDictLike() (DictLike, bool) {
	d, ok := v.Payload.(DictLike)
	return d, ok
}

// AsAttrBearing returns v's payload as an AttrBearing, and whether that
// succeeded.
func (v Value) AsAttrBearing() (AttrBearing, bool) {
	a, ok := v.Payload.(AttrBearing)
	return a, ok
}

// IsAddressWorthy reports whether v is one of the kinds singled out for
// drill-down: tuple, list, dict, plain-object, user-instance, class, module,
// bytecode-function, closure, cell. All other kinds never get a non-zero
// address in a varinfo record.
func (v Value) IsAddressWorthy() bool {
	switch v.Kind {
	case KindTuple, KindList, KindDict, KindObject, KindInstance, KindClass,
		KindModule, KindProcedure, KindClosure, KindCell:
		return true
	default:
		return false
	}
}

// String converts the value to a string. Used for tracing and as a fallback
// printed representation; the print_repr/print_str operations proper live
// closer to the interpreter (pkg/vm), since only it knows about truncation
// length and repr-vs-str formatting conventions.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "None"
	case KindBool:
		return fmt.Sprintf("%v", v.AsBool())
	case KindInt:
		return fmt.Sprintf("%d", v.AsInt())
	case KindFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case KindString:
		return v.AsString()
	case KindProcedure:
		return fmt.Sprintf("<function %d>", v.AsProcedure().ChunkIndex)
	default:
		return fmt.Sprintf("<%v>", v.Kind)
	}
}

// ValuesEqual checks if a and b are considered equal. Used by Dict.Set to find
// an existing key, and in tests.
func ValuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindBool:
		return a.AsBool() == b.AsBool()
	case KindInt:
		return a.AsInt() == b.AsInt()
	case KindFloat:
		return a.AsFloat() == b.AsFloat()
	case KindString:
		return a.AsString() == b.AsString()
	default:
		// Reference types are compared by identity.
		return a.Payload == b.Payload
	}
}
