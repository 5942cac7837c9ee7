/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package romutil

import (
	"encoding/binary"
	"io"
)

// Serializer is the interface implemented by objects that can serialize
// themselves.
type Serializer interface {
	// Serialize serializes the given object writing the serialized data to w.
	Serialize(w io.Writer) error
}

// Deserializer is the interface implemented by objects that can deserialize
// themselves.
type Deserializer interface {
	// Deserialize deserializes the given object reading the serialized data
	// from r.
	Deserialize(r io.Reader) error
}

// SerializeU32 writes a uint32 to the given io.Writer, in little endian format.
func SerializeU32(w io.Writer, v uint32) error {
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], v)
	_, err := w.Write(u32[:])
	return err
}

// DeserializeU32 reads a little-endian uint32 from the given io.Reader.
func DeserializeU32(r io.Reader) (uint32, error) {
	var u32 [4]byte
	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(u32[:]), nil
}

// SerializeString writes a length-prefixed UTF-8 string to the given
// io.Writer. The length is a little-endian uint32 byte count.
func SerializeString(w io.Writer, s string) error {
	if err := SerializeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

// DeserializeString reads a length-prefixed UTF-8 string previously written
// by SerializeString.
func DeserializeString(r io.Reader) (string, error) {
	n, err := DeserializeU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
