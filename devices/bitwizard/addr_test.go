// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"bytes"
	"errors"
	"testing"
)

func openMotor(t *testing.T, bus *fakeBus) *Motor {
	b, err := NewSPI(bus, &Opts{Type: "spi_motor", Addr: AddrUnset})
	if err != nil {
		t.Fatal(err)
	}
	bus.ops = nil
	return b.(*Motor)
}

func TestSetAddr(t *testing.T) {
	bus := newFakeBus()
	bus.add(0x90, "spi_motor 1.1")
	m := openMotor(t, bus)
	if err := m.Dev().SetAddr(0x92); err != nil {
		t.Fatal(err)
	}
	if a := m.Dev().Addr(); a != 0x92 {
		t.Fatalf("Addr() = %#x", a)
	}
	// The collision check happened first, at the new address.
	if o := bus.ops[0]; !o.read || o.addr != 0x92 || o.reg != RegIdentity {
		t.Fatalf("unexpected first op %+v", o)
	}
	want := []op{
		{addr: 0x90, reg: 0xf1, data: []byte{0x55}},
		{addr: 0x90, reg: 0xf2, data: []byte{0xaa}},
		{addr: 0x90, reg: 0xf0, data: []byte{0x92}},
	}
	got := bus.writes()
	if len(got) != len(want) {
		t.Fatalf("got %d writes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].addr != want[i].addr || got[i].reg != want[i].reg || !bytes.Equal(got[i].data, want[i].data) {
			t.Fatalf("write #%d = %+v, want %+v", i, got[i], want[i])
		}
	}
	// The board now answers at the new address.
	if id, err := m.Dev().Identity(); err != nil || id != "spi_motor 1.1" {
		t.Fatalf("Identity() = %q, %v", id, err)
	}
}

func TestSetAddr_collision(t *testing.T) {
	bus := newFakeBus()
	bus.add(0x90, "spi_motor 1.1")
	bus.add(0x8a, "spi_3fets 1.2")
	m := openMotor(t, bus)
	if err := m.Dev().SetAddr(0x8a); !errors.Is(err, ErrAddressCollision) {
		t.Fatalf("got %v", err)
	}
	if a := m.Dev().Addr(); a != 0x90 {
		t.Fatalf("Addr() = %#x", a)
	}
	if w := bus.writes(); len(w) != 0 {
		t.Fatalf("unexpected writes %+v", w)
	}
}

func TestSetAddr_unknown_board_is_not_a_collision(t *testing.T) {
	bus := newFakeBus()
	bus.add(0x90, "spi_motor 1.1")
	bus.add(0x80, "spi_lcd 1.0")
	m := openMotor(t, bus)
	if err := m.Dev().SetAddr(0x84); err != nil {
		t.Fatal(err)
	}
	if len(bus.writes()) != 3 {
		t.Fatalf("got %d writes", len(bus.writes()))
	}
}

func TestSetAddr_I2C_nack_is_free(t *testing.T) {
	bus := newFakeBus()
	bus.add(0x90, "i2c_motor 1.1")
	b, err := NewI2C(fakeI2C{bus}, &Opts{Addr: 0x90})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Dev().SetAddr(0x94); err != nil {
		t.Fatal(err)
	}
	if b.Dev().Addr() != 0x94 {
		t.Fatalf("Addr() = %#x", b.Dev().Addr())
	}
	if _, ok := bus.boards[0x94]; !ok {
		t.Fatal("board didn't move")
	}
}

func TestSetAddr_invalid(t *testing.T) {
	bus := newFakeBus()
	bus.add(0x90, "spi_motor 1.1")
	m := openMotor(t, bus)
	for _, a := range []int{-1, 0x91, 256, 0x101} {
		if err := m.Dev().SetAddr(a); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("SetAddr(%#x) = %v", a, err)
		}
	}
	if len(bus.ops) != 0 {
		t.Fatalf("unexpected ops %+v", bus.ops)
	}
}

func TestSetAddr_same(t *testing.T) {
	bus := newFakeBus()
	bus.add(0x90, "spi_motor 1.1")
	m := openMotor(t, bus)
	if err := m.Dev().SetAddr(0x90); err != nil {
		t.Fatal(err)
	}
	if len(bus.ops) != 0 {
		t.Fatalf("unexpected ops %+v", bus.ops)
	}
}

func TestSetAddr_failure(t *testing.T) {
	for _, failReg := range []byte{0xf1, 0xf2, 0xf0} {
		bus := newFakeBus()
		bus.add(0x90, "spi_motor 1.1")
		m := openMotor(t, bus)
		boom := errors.New("boom")
		bus.fail = func(o op) error {
			if !o.read && o.reg == failReg {
				return boom
			}
			return nil
		}
		err := m.Dev().SetAddr(0x92)
		if !errors.Is(err, ErrAddressAssignmentFailed) || !errors.Is(err, boom) {
			t.Fatalf("%#x: got %v", failReg, err)
		}
		if a := m.Dev().Addr(); a != 0x90 {
			t.Fatalf("%#x: Addr() = %#x", failReg, a)
		}
		// No retry.
		for _, o := range bus.writes() {
			if o.reg == failReg {
				t.Fatalf("%#x: register written after failure", failReg)
			}
		}
	}
}
