/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// Package transport implements the message bus the debugger core rides on:
// fixed 8-byte command tags, a 1-byte correlation id tying a response to its
// request, and a bounded payload. It models the single bidirectional channel
// a real target exposes to its host, with two concrete shapes: an in-memory
// ChannelBus for wiring a host and target together inside one process (used
// by tests and by `tinydbg dev stack-info`), and a StreamBus framing the same
// messages over any io.Reader/io.Writer (`tinydbg serve` uses it on stdio).
package transport

import (
	"github.com/stackedboxes/tinydbg/pkg/proto"
)

// Message is one frame on the bus.
type Message struct {
	Tag           proto.Tag
	CorrelationID byte
	Payload       []byte
}
