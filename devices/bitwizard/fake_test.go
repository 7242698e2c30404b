// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"errors"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// fakeBoard emulates the register file of a board.
type fakeBoard struct {
	identity string
	regs     map[byte][]byte
	unlock   int
}

func newFakeBoard(identity string) *fakeBoard {
	return &fakeBoard{identity: identity, regs: map[byte][]byte{}}
}

func (b *fakeBoard) read(reg byte, r []byte) {
	src := b.regs[reg]
	if reg == RegIdentity {
		src = []byte(b.identity)
	}
	for i := range r {
		r[i] = 0
	}
	copy(r, src)
}

// op is one transaction seen on the bus, with the 8 bit address.
type op struct {
	addr uint8
	reg  byte
	read bool
	data []byte
}

// fakeBus is a bus with boards attached. It implements both spi.Port and
// i2c.Bus.
type fakeBus struct {
	boards map[uint8]*fakeBoard
	ops    []op
	// fail, if set, is called on each transaction; an error aborts it.
	fail func(o op) error
}

func newFakeBus() *fakeBus {
	return &fakeBus{boards: map[uint8]*fakeBoard{}}
}

func (f *fakeBus) add(addr uint8, identity string) *fakeBoard {
	b := newFakeBoard(identity)
	f.boards[addr] = b
	return b
}

// writes returns the write operations seen.
func (f *fakeBus) writes() []op {
	var out []op
	for _, o := range f.ops {
		if !o.read {
			out = append(out, o)
		}
	}
	return out
}

func (f *fakeBus) String() string {
	return "fake"
}

func (f *fakeBus) Close() error {
	return nil
}

// do runs one register transaction. It returns false if no board answered.
func (f *fakeBus) do(o op, r []byte) (bool, error) {
	if f.fail != nil {
		if err := f.fail(o); err != nil {
			return false, err
		}
	}
	f.ops = append(f.ops, o)
	b := f.boards[o.addr]
	if b == nil {
		return false, nil
	}
	if o.read {
		b.read(o.reg, r)
		return true, nil
	}
	switch {
	case o.reg == RegUnlock1 && len(o.data) == 1 && o.data[0] == 0x55:
		b.unlock = 1
	case o.reg == RegUnlock2 && len(o.data) == 1 && o.data[0] == 0xaa && b.unlock == 1:
		b.unlock = 2
	case o.reg == RegNewAddr && b.unlock == 2 && len(o.data) == 1:
		delete(f.boards, o.addr)
		f.boards[o.data[0]] = b
		b.unlock = 0
	default:
		b.unlock = 0
		b.regs[o.reg] = append([]byte(nil), o.data...)
	}
	return true, nil
}

// spi.Port

func (f *fakeBus) Connect(freq physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	return f, nil
}

func (f *fakeBus) LimitSpeed(freq physic.Frequency) error {
	return nil
}

// spi.Conn

func (f *fakeBus) Duplex() conn.Duplex {
	return conn.Full
}

func (f *fakeBus) Tx(w, r []byte) error {
	if len(w) < 2 {
		return errors.New("fake: short frame")
	}
	o := op{addr: w[0] &^ 1, reg: w[1], read: w[0]&1 != 0}
	if o.read {
		buf := make([]byte, len(w)-2)
		ok, err := f.do(o, buf)
		if err != nil {
			return err
		}
		if ok && len(r) >= 2 {
			r[0], r[1] = 0xff, w[0]
			copy(r[2:], buf)
		}
		return nil
	}
	o.data = append([]byte(nil), w[2:]...)
	_, err := f.do(o, nil)
	return err
}

func (f *fakeBus) TxPackets(p []spi.Packet) error {
	for _, pkt := range p {
		if err := f.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

// fakeI2C exposes the same boards over I²C. Missing boards NACK.
type fakeI2C struct {
	*fakeBus
}

func (f fakeI2C) Tx(addr uint16, w, r []byte) error {
	if len(w) < 1 {
		return errors.New("fake: missing register")
	}
	o := op{addr: uint8(addr << 1), reg: w[0], read: len(r) != 0}
	if !o.read {
		o.data = append([]byte(nil), w[1:]...)
	}
	ok, err := f.do(o, r)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("fake: NACK")
	}
	return nil
}

func (f fakeI2C) SetSpeed(freq physic.Frequency) error {
	return nil
}

// recorder is a Tracer keeping a copy of all events.
type recorder struct {
	events []Event
}

func (r *recorder) Trace(e *Event) {
	c := *e
	c.Data = append([]byte(nil), e.Data...)
	r.events = append(r.events, c)
}

var _ spi.Port = &fakeBus{}
var _ spi.Conn = &fakeBus{}
var _ i2c.Bus = fakeI2C{}
