/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"fmt"
	"io"

	"github.com/stackedboxes/tinydbg/pkg/romutil"
)

// These are the on-disk tags identifying the kind of a serialized constant
// Value. Only the kinds that can actually appear in a constant pool are
// represented; container values are always built at runtime.
const (
	cswNil       byte = 0
	cswBoolFalse byte = 1
	cswBoolTrue  byte = 2
	cswInt       byte = 3
	cswFloat     byte = 4
	cswString    byte = 5
	cswProcedure byte = 6
)

// Serialize writes v to w, in the on-disk constant format. Returns an error
// if v's kind cannot appear in a constant pool.
func (v Value) Serialize(w io.Writer) error {
	switch v.Kind {
	case KindNil:
		_, err := w.Write([]byte{cswNil})
		return err

	case KindBool:
		tag := cswBoolFalse
		if v.AsBool() {
			tag = cswBoolTrue
		}
		_, err := w.Write([]byte{tag})
		return err

	case KindInt:
		if _, err := w.Write([]byte{cswInt}); err != nil {
			return err
		}
		return romutil.SerializeU32(w, uint32(v.AsInt()))

	case KindFloat:
		if _, err := w.Write([]byte{cswFloat}); err != nil {
			return err
		}
		return romutil.SerializeU32(w, uint32(int64(v.AsFloat())))

	case KindString:
		if _, err := w.Write([]byte{cswString}); err != nil {
			return err
		}
		return romutil.SerializeString(w, v.AsString())

	case KindProcedure:
		if _, err := w.Write([]byte{cswProcedure}); err != nil {
			return err
		}
		return romutil.SerializeU32(w, uint32(v.AsProcedure().ChunkIndex))

	default:
		return fmt.Errorf("cannot serialize a constant of kind %v", v.Kind)
	}
}

// DeserializeValue reads a Value previously written by Value.Serialize.
func DeserializeValue(r io.Reader) (Value, error) {
	tag := make([]byte, 1)
	if _, err := io.ReadFull(r, tag); err != nil {
		return Value{}, err
	}

	switch tag[0] {
	case cswNil:
		return NewValueNil(), nil
	case cswBoolFalse:
		return NewValueBool(false), nil
	case cswBoolTrue:
		return NewValueBool(true), nil
	case cswInt:
		u, err := romutil.DeserializeU32(r)
		if err != nil {
			return Value{}, err
		}
		return NewValueInt(int64(u)), nil
	case cswFloat:
		u, err := romutil.DeserializeU32(r)
		if err != nil {
			return Value{}, err
		}
		return NewValueFloat(float64(int64(u))), nil
	case cswString:
		s, err := romutil.DeserializeString(r)
		if err != nil {
			return Value{}, err
		}
		return NewValueString(s), nil
	case cswProcedure:
		u, err := romutil.DeserializeU32(r)
		if err != nil {
			return Value{}, err
		}
		return NewValueProcedure(&Procedure{ChunkIndex: int(u)}), nil
	default:
		return Value{}, fmt.Errorf("unexpected constant tag: %v", tag[0])
	}
}

// Serialize writes chunk's bytecode to w.
func (chunk *Chunk) Serialize(w io.Writer) error {
	if err := romutil.SerializeU32(w, uint32(len(chunk.Code))); err != nil {
		return err
	}
	_, err := w.Write(chunk.Code)
	return err
}

// DeserializeChunk reads a Chunk previously written by Chunk.Serialize.
func DeserializeChunk(r io.Reader) (*Chunk, error) {
	n, err := romutil.DeserializeU32(r)
	if err != nil {
		return nil, err
	}
	code := make([]byte, n)
	if _, err := io.ReadFull(r, code); err != nil {
		return nil, err
	}
	return &Chunk{Code: code}, nil
}

// Serialize writes the whole Program -- chunks, constants, first-chunk index
// and the interned strings -- to w. DebugInfo is serialized separately (see
// DebugInfo.Serialize), since a release image may ship without it.
func (p *Program) Serialize(w io.Writer) error {
	if err := romutil.SerializeU32(w, uint32(p.FirstChunk)); err != nil {
		return err
	}

	if err := romutil.SerializeU32(w, uint32(len(p.Chunks))); err != nil {
		return err
	}
	for _, c := range p.Chunks {
		if err := c.Serialize(w); err != nil {
			return err
		}
	}

	if err := romutil.SerializeU32(w, uint32(len(p.Constants))); err != nil {
		return err
	}
	for _, v := range p.Constants {
		if err := v.Serialize(w); err != nil {
			return err
		}
	}

	strs := p.Interner.allStrings()
	if err := romutil.SerializeU32(w, uint32(len(strs))); err != nil {
		return err
	}
	for _, s := range strs {
		if err := romutil.SerializeString(w, s); err != nil {
			return err
		}
	}

	return nil
}

// Deserialize reads a Program previously written by Program.Serialize.
func (p *Program) Deserialize(r io.Reader) error {
	firstChunk, err := romutil.DeserializeU32(r)
	if err != nil {
		return err
	}
	p.FirstChunk = int(firstChunk)

	numChunks, err := romutil.DeserializeU32(r)
	if err != nil {
		return err
	}
	p.Chunks = make([]*Chunk, numChunks)
	for i := range p.Chunks {
		c, err := DeserializeChunk(r)
		if err != nil {
			return err
		}
		p.Chunks[i] = c
	}

	numConstants, err := romutil.DeserializeU32(r)
	if err != nil {
		return err
	}
	p.Constants = make([]Value, numConstants)
	for i := range p.Constants {
		v, err := DeserializeValue(r)
		if err != nil {
			return err
		}
		p.Constants[i] = v
	}

	numStrings, err := romutil.DeserializeU32(r)
	if err != nil {
		return err
	}
	p.Interner = NewInterner()
	for i := uint32(0); i < numStrings; i++ {
		s, err := romutil.DeserializeString(r)
		if err != nil {
			return err
		}
		p.Interner.Intern(s)
	}

	return nil
}

// Serialize writes di to w.
func (di *DebugInfo) Serialize(w io.Writer) error {
	if err := romutil.SerializeU32(w, uint32(len(di.ChunkNames))); err != nil {
		return err
	}
	for i := range di.ChunkNames {
		if err := romutil.SerializeU32(w, uint32(di.ChunkNames[i])); err != nil {
			return err
		}
		if err := romutil.SerializeU32(w, uint32(di.ChunkSourceFiles[i])); err != nil {
			return err
		}
		lines := di.ChunkLines[i]
		if err := romutil.SerializeU32(w, uint32(len(lines))); err != nil {
			return err
		}
		for _, l := range lines {
			if err := romutil.SerializeU32(w, l); err != nil {
				return err
			}
		}
	}
	return nil
}

// Deserialize reads a DebugInfo previously written by DebugInfo.Serialize.
func (di *DebugInfo) Deserialize(r io.Reader) error {
	n, err := romutil.DeserializeU32(r)
	if err != nil {
		return err
	}
	*di = *NewDebugInfo(int(n))
	for i := 0; i < int(n); i++ {
		name, err := romutil.DeserializeU32(r)
		if err != nil {
			return err
		}
		di.ChunkNames[i] = QStr(name)

		file, err := romutil.DeserializeU32(r)
		if err != nil {
			return err
		}
		di.ChunkSourceFiles[i] = QStr(file)

		numLines, err := romutil.DeserializeU32(r)
		if err != nil {
			return err
		}
		lines := make([]uint32, numLines)
		for j := range lines {
			l, err := romutil.DeserializeU32(r)
			if err != nil {
				return err
			}
			lines[j] = l
		}
		di.ChunkLines[i] = lines
	}
	return nil
}
