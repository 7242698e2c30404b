// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bwtrace

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"periph.io/x/bitwizard/devices/bitwizard"
)

// Record is one captured transaction.
//
// CBOR encoding uses integer keys for compactness.
type Record struct {
	Time time.Time     `cbor:"1,keyasint"`
	Bus  bitwizard.Bus `cbor:"2,keyasint"`
	Addr uint8         `cbor:"3,keyasint"`
	Reg  uint8         `cbor:"4,keyasint"`
	Dir  bitwizard.Dir `cbor:"5,keyasint"`
	Data []byte        `cbor:"6,keyasint,omitempty"`
}

func (r *Record) String() string {
	e := bitwizard.Event{Bus: r.Bus, Addr: r.Addr, Reg: r.Reg, Dir: r.Dir, Data: r.Data}
	return r.Time.Format("15:04:05.000000") + " " + Format(&e)
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}
	if encMode, err = encOpts.EncMode(); err != nil {
		panic(fmt.Sprintf("bwtrace: CBOR encoder mode: %v", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyQuiet,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(fmt.Sprintf("bwtrace: CBOR decoder mode: %v", err))
	}
}

// Recorder writes each transaction as a CBOR Record.
//
// It is safe for concurrent use. Encoding errors are not reported to the
// traced device; the first one is returned by Err and by Close, and recording
// stops.
type Recorder struct {
	mu     sync.Mutex
	enc    *cbor.Encoder
	c      io.Closer
	err    error
	closed bool
	now    func() time.Time
}

// NewRecorder returns a Recorder writing to w.
//
// If w is an io.Closer, it is closed by Close.
func NewRecorder(w io.Writer) *Recorder {
	r := &Recorder{enc: encMode.NewEncoder(w), now: time.Now}
	if c, ok := w.(io.Closer); ok {
		r.c = c
	}
	return r
}

// Create returns a Recorder appending to the file at path.
func Create(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return NewRecorder(f), nil
}

// Trace implements bitwizard.Tracer.
func (r *Recorder) Trace(e *bitwizard.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.err != nil {
		return
	}
	rec := Record{Time: r.now(), Bus: e.Bus, Addr: e.Addr, Reg: e.Reg, Dir: e.Dir, Data: e.Data}
	r.err = r.enc.Encode(&rec)
}

// Err returns the first encoding error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close stops the recording. It is safe to call it multiple times.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.c != nil {
		if err := r.c.Close(); err != nil && r.err == nil {
			r.err = err
		}
	}
	return r.err
}

// Reader decodes a stream written by a Recorder.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: decMode.NewDecoder(r)}
}

// Next returns the next record. It returns io.EOF at the end of the stream.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ReadAll returns all the records of the stream.
func ReadAll(r io.Reader) ([]Record, error) {
	rd := NewReader(r)
	var out []Record
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

var _ bitwizard.Tracer = &Recorder{}
