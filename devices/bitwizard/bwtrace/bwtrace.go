// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bwtrace implements bitwizard.Tracer sinks.
//
// Logger prints the transactions as they happen; Recorder captures them in a
// compact CBOR stream that Reader decodes back, e.g. to compare a session
// against a known good one.
package bwtrace

import (
	"fmt"
	"log"

	"periph.io/x/bitwizard/devices/bitwizard"
)

// Logger prints each transaction on a *log.Logger.
//
// The format is:
//
//	SPI [0x8a] <-- 0x50: "\x80"
type Logger struct {
	L *log.Logger
}

// NewLogger returns a Logger printing on l, or on the standard logger if l is
// nil.
func NewLogger(l *log.Logger) *Logger {
	return &Logger{L: l}
}

// Trace implements bitwizard.Tracer.
func (l *Logger) Trace(e *bitwizard.Event) {
	s := Format(e)
	if l.L == nil {
		log.Print(s)
		return
	}
	l.L.Print(s)
}

// Format returns the one line description of a transaction used by Logger.
func Format(e *bitwizard.Event) string {
	return fmt.Sprintf("%s [%#02x] %s %#02x: %q", e.Bus, e.Addr, e.Dir, e.Reg, e.Data)
}

// Multi sends each transaction to all of tracers, in order.
type Multi []bitwizard.Tracer

// Trace implements bitwizard.Tracer.
func (m Multi) Trace(e *bitwizard.Event) {
	for _, t := range m {
		if t != nil {
			t.Trace(e)
		}
	}
}

var _ bitwizard.Tracer = &Logger{}
var _ bitwizard.Tracer = Multi{}
