// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"
)

func openFETs(t *testing.T, bus *fakeBus, n int) *FETs {
	var b Board
	var err error
	if n == 3 {
		bus.add(0x8a, "spi_3fets 1.2")
		b, err = NewSPI(bus, &Opts{Addr: 0x8a})
	} else {
		bus.add(0x88, "spi_7fets 1.0")
		b, err = NewSPI(bus, &Opts{Addr: 0x88})
	}
	if err != nil {
		t.Fatal(err)
	}
	bus.ops = nil
	return b.(*FETs)
}

func TestPWM_round_trip(t *testing.T) {
	for _, n := range []int{3, 7} {
		f := openFETs(t, newFakeBus(), n)
		for p := 1; p <= n; p++ {
			for v := 0; v < 256; v++ {
				if err := f.SetPWM(p, v); err != nil {
					t.Fatal(err)
				}
				got, err := f.PWM(p)
				if err != nil {
					t.Fatal(err)
				}
				if int(got) != v {
					t.Fatalf("%d fets port %d: PWM() = %d, want %d", n, p, got, v)
				}
			}
		}
	}
}

func TestPWM_registers(t *testing.T) {
	bus := newFakeBus()
	f := openFETs(t, bus, 3)
	if err := f.SetPWM(3, 0x40); err != nil {
		t.Fatal(err)
	}
	if o := bus.ops[0]; o.reg != 0x52 || !bytes.Equal(o.data, []byte{0x40}) {
		t.Fatalf("unexpected op %+v", o)
	}
}

func TestPWM_invalid(t *testing.T) {
	bus := newFakeBus()
	f := openFETs(t, bus, 3)
	for _, p := range []int{0, 4, -1} {
		if err := f.SetPWM(p, 1); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("SetPWM(%d) = %v", p, err)
		}
		if _, err := f.PWM(p); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("PWM(%d) = %v", p, err)
		}
	}
	for _, v := range []int{-1, 256} {
		if err := f.SetPWM(1, v); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("SetPWM(1, %d) = %v", v, err)
		}
	}
	if len(bus.ops) != 0 {
		t.Fatalf("unexpected ops %+v", bus.ops)
	}
}

func TestFETs_EnablePWM(t *testing.T) {
	bus := newFakeBus()
	f := openFETs(t, bus, 7)
	if err := f.EnablePWM(1, 3, 7); err != nil {
		t.Fatal(err)
	}
	got, err := f.PWMEnabled()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{1, 3, 7}) {
		t.Fatalf("PWMEnabled() = %v", got)
	}
	if m := bus.boards[0x88].regs[RegPWMEnabled]; !bytes.Equal(m, []byte{0x45}) {
		t.Fatalf("mask = %v", m)
	}
	if err := f.DisablePWM(3); err != nil {
		t.Fatal(err)
	}
	if got, _ = f.PWMEnabled(); !reflect.DeepEqual(got, []int{1, 7}) {
		t.Fatalf("PWMEnabled() = %v", got)
	}
	if err := f.EnablePWM(); err == nil {
		t.Fatal("expected error without port")
	}
	if err := f.DisablePWM(8); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("DisablePWM(8) = %v", err)
	}
}

func TestFETs_PWMEnabled_ignores_extra_bits(t *testing.T) {
	bus := newFakeBus()
	f := openFETs(t, bus, 3)
	bus.boards[0x8a].regs[RegPWMEnabled] = []byte{0xfe}
	got, err := f.PWMEnabled()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{2, 3}) {
		t.Fatalf("PWMEnabled() = %v", got)
	}
}

func TestStepper(t *testing.T) {
	bus := newFakeBus()
	bus.add(0x90, "spi_motor 1.1")
	m := openMotor(t, bus)
	if err := m.SetPosition(-2); err != nil {
		t.Fatal(err)
	}
	if o := bus.ops[0]; o.reg != 0x40 || !bytes.Equal(o.data, []byte{0xff, 0xff, 0xff, 0xfe}) {
		t.Fatalf("unexpected op %+v", o)
	}
	if p, err := m.Position(); err != nil || p != -2 {
		t.Fatalf("Position() = %d, %v", p, err)
	}
	if err := m.SetTarget(0x01020304); err != nil {
		t.Fatal(err)
	}
	if p, err := m.Target(); err != nil || p != 0x01020304 {
		t.Fatalf("Target() = %d, %v", p, err)
	}
	if err := m.SetDelay(25); err != nil {
		t.Fatal(err)
	}
	if d, err := m.Delay(); err != nil || d != 25 {
		t.Fatalf("Delay() = %d, %v", d, err)
	}
	if d, err := m.DelayDuration(); err != nil || d != 2500*time.Microsecond {
		t.Fatalf("DelayDuration() = %s, %v", d, err)
	}
	for _, d := range []int{-1, 256} {
		if err := m.SetDelay(d); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("SetDelay(%d) = %v", d, err)
		}
	}
}

func TestMotor_Start(t *testing.T) {
	data := []struct {
		port MotorPort
		v    int
		want []op
	}{
		{MotorA, 100, []op{{reg: 0x20, data: []byte{0}}, {reg: 0x21, data: []byte{100}}}},
		{MotorA, -255, []op{{reg: 0x20, data: []byte{1}}, {reg: 0x21, data: []byte{255}}}},
		{MotorB, 1, []op{{reg: 0x30, data: []byte{0}}, {reg: 0x31, data: []byte{1}}}},
		{MotorB, 0, []op{{reg: 0x32, data: []byte{1}}}},
	}
	for i, line := range data {
		bus := newFakeBus()
		bus.add(0x90, "spi_motor 1.1")
		m := openMotor(t, bus)
		if err := m.Start(line.port, line.v); err != nil {
			t.Fatalf("#%d: %v", i, err)
		}
		got := bus.writes()
		if len(got) != len(line.want) {
			t.Fatalf("#%d: got %+v", i, got)
		}
		for j := range got {
			if got[j].reg != line.want[j].reg || !bytes.Equal(got[j].data, line.want[j].data) {
				t.Fatalf("#%d: write #%d = %+v, want %+v", i, j, got[j], line.want[j])
			}
		}
	}
}

func TestMotor_invalid(t *testing.T) {
	bus := newFakeBus()
	bus.add(0x90, "spi_motor 1.1")
	m := openMotor(t, bus)
	if err := m.Start(MotorPort(2), 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("got %v", err)
	}
	for _, v := range []int{-256, 256} {
		if err := m.Start(MotorA, v); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Start(A, %d) = %v", v, err)
		}
	}
	if err := m.SetPWM(5, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SetPWM(5) = %v", err)
	}
	if len(bus.ops) != 0 {
		t.Fatalf("unexpected ops %+v", bus.ops)
	}
}

func TestMotor_Halt(t *testing.T) {
	bus := newFakeBus()
	bus.add(0x90, "spi_motor 1.1")
	m := openMotor(t, bus)
	if err := m.Halt(); err != nil {
		t.Fatal(err)
	}
	got := bus.writes()
	if len(got) != 2 || got[0].reg != 0x22 || got[1].reg != 0x32 {
		t.Fatalf("unexpected writes %+v", got)
	}
	if m.Ports() != 4 {
		t.Fatalf("Ports() = %d", m.Ports())
	}
}

func TestMotorPort_String(t *testing.T) {
	if s := MotorA.String() + MotorB.String() + MotorPort(3).String(); s != "ABMotorPort(?)" {
		t.Fatal(s)
	}
}
