/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/stackedboxes/tinydbg/pkg/proto"
)

// frameHeaderSize is the length-prefix (4 bytes) plus the fixed tag (8 bytes)
// plus the correlation id (1 byte) that precede every message's payload on a
// StreamBus.
const frameHeaderSize = 4 + 8 + 1

// StreamBus frames Messages over an arbitrary io.Reader/io.Writer -- a pair
// of pipes, a TCP connection, stdin/stdout. Each frame is a little-endian
// uint32 byte count (covering the tag, correlation id and payload that
// follow), then the 8-byte tag, then the correlation id, then the payload.
//
// A background goroutine owns the reads, so TryRecv can honor a timeout the
// same way ChannelBus's select-based Endpoint does, and no two callers ever
// race on the underlying reader.
type StreamBus struct {
	w io.Writer

	mu       sync.Mutex
	incoming chan Message
	readErr  error
}

// NewStreamBus wraps r and w as a StreamBus and starts its background reader.
func NewStreamBus(r io.Reader, w io.Writer) *StreamBus {
	b := &StreamBus{
		w:        w,
		incoming: make(chan Message, 16),
	}
	go b.readLoop(r)
	return b
}

func (b *StreamBus) readLoop(r io.Reader) {
	defer close(b.incoming)

	header := make([]byte, frameHeaderSize)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			b.mu.Lock()
			b.readErr = err
			b.mu.Unlock()
			return
		}

		length := binary.LittleEndian.Uint32(header[0:4])
		var tag proto.Tag
		copy(tag[:], header[4:12])
		corrID := header[12]

		payloadLen := int(length) - 9
		if payloadLen < 0 {
			b.mu.Lock()
			b.readErr = fmt.Errorf("transport: corrupt frame length %v", length)
			b.mu.Unlock()
			return
		}

		payload := make([]byte, payloadLen)
		if payloadLen > 0 {
			if _, err := io.ReadFull(r, payload); err != nil {
				b.mu.Lock()
				b.readErr = err
				b.mu.Unlock()
				return
			}
		}

		b.incoming <- Message{Tag: tag, CorrelationID: corrID, Payload: payload}
	}
}

// Send writes m as a single frame. Safe for concurrent use with Recv/TryRecv,
// but not with another concurrent Send.
func (b *StreamBus) Send(m Message) error {
	header := make([]byte, frameHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(9+len(m.Payload)))
	copy(header[4:12], m.Tag[:])
	header[12] = m.CorrelationID

	if _, err := b.w.Write(header); err != nil {
		return err
	}
	if len(m.Payload) > 0 {
		if _, err := b.w.Write(m.Payload); err != nil {
			return err
		}
	}
	return nil
}

// Recv blocks for the next frame.
func (b *StreamBus) Recv() (Message, bool) {
	m, ok := <-b.incoming
	return m, ok
}

// TryRecv waits up to timeout for the next frame.
func (b *StreamBus) TryRecv(timeout time.Duration) (Message, bool) {
	select {
	case m, ok := <-b.incoming:
		return m, ok
	case <-time.After(timeout):
		return Message{}, false
	}
}

// Err returns the error that terminated the read loop, if any.
func (b *StreamBus) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readErr
}
