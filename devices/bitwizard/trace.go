// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

// Dir is the direction of a register transaction.
type Dir uint8

const (
	// Write is host to board.
	Write Dir = iota
	// Read is board to host.
	Read
)

func (d Dir) String() string {
	if d == Read {
		return "-->"
	}
	return "<--"
}

// Event describes one register transaction.
//
// Write events are emitted before the transfer, Read events after it with the
// bytes received. Data must not be retained after Trace returns.
type Event struct {
	Bus  Bus
	Addr uint8
	Reg  uint8
	Dir  Dir
	Data []byte
}

// Tracer receives every register transaction done by a Dev.
//
// Tracing is best effort: implementations must not block for long and must
// swallow their own errors. See package bwtrace for implementations.
type Tracer interface {
	Trace(e *Event)
}
