// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinygobus bridges the bus interfaces of tinygo.org/x/drivers and
// periph.
//
// I2C and SPI expose a tinygo bus as a periph bus, so the periph device
// drivers and the BitWizard boards can be used on any controller that has a
// tinygo driver. Register makes them available through i2creg and spireg.
//
// A periph i2c.Bus already implements drivers.I2C; Conn does the same for a
// periph spi.Conn.
package tinygobus

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"tinygo.org/x/drivers"
)

// baudRater is implemented by tinygo machine buses that can change their
// clock after configuration.
type baudRater interface {
	SetBaudRate(br uint32) error
}

// I2C is a tinygo I²C bus exposed as a periph bus.
type I2C struct {
	name string
	mu   sync.Mutex
	b    drivers.I2C
}

// NewI2C returns b as a periph I²C bus named name.
func NewI2C(name string, b drivers.I2C) *I2C {
	return &I2C{name: name, b: b}
}

func (i *I2C) String() string {
	return i.name
}

// Tx implements i2c.Bus.
func (i *I2C) Tx(addr uint16, w, r []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.b.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus.
//
// It is only supported by buses with a SetBaudRate method.
func (i *I2C) SetSpeed(f physic.Frequency) error {
	if f <= 0 || f > physic.GigaHertz {
		return fmt.Errorf("tinygobus: invalid speed %s", f)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if s, ok := i.b.(baudRater); ok {
		return s.SetBaudRate(uint32(f / physic.Hertz))
	}
	return errors.New("tinygobus: bus speed is set at configuration time")
}

// Close implements i2c.BusCloser.
//
// The tinygo bus is left configured.
func (i *I2C) Close() error {
	return nil
}

// SPI is a tinygo SPI bus exposed as a periph port.
//
// The tinygo bus must already be configured; Connect only checks the
// requested settings.
type SPI struct {
	name string
	mode spi.Mode
	mu   sync.Mutex
	b    drivers.SPI
	max  physic.Frequency
	c    *spiConn
}

// NewSPI returns b as a periph SPI port named name. mode is the mode b was
// configured with.
func NewSPI(name string, b drivers.SPI, mode spi.Mode) *SPI {
	return &SPI{name: name, b: b, mode: mode}
}

func (s *SPI) String() string {
	return s.name
}

// Connect implements spi.Port.
func (s *SPI) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if f < 0 {
		return nil, fmt.Errorf("tinygobus: invalid speed %s", f)
	}
	if bits != 8 {
		return nil, fmt.Errorf("tinygobus: only 8 bits words are supported, got %d", bits)
	}
	if mode&^(spi.NoCS|spi.HalfDuplex) != s.mode {
		return nil, fmt.Errorf("tinygobus: bus is configured in %s, not %s", s.mode, mode)
	}
	if mode&spi.HalfDuplex != 0 {
		return nil, errors.New("tinygobus: half duplex is not supported")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil, errors.New("tinygobus: Connect() can only be called once")
	}
	if s.max != 0 && (f == 0 || f > s.max) {
		f = s.max
	}
	s.c = &spiConn{s: s, f: f}
	return s.c, nil
}

// LimitSpeed implements spi.Port.
func (s *SPI) LimitSpeed(f physic.Frequency) error {
	if f <= 0 || f > physic.GigaHertz {
		return fmt.Errorf("tinygobus: invalid speed %s", f)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.max = f
	return nil
}

// Close implements spi.PortCloser.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = nil
	return nil
}

// spiConn implements spi.Conn.
type spiConn struct {
	s *SPI
	f physic.Frequency
}

func (c *spiConn) String() string {
	return c.s.name
}

func (c *spiConn) Duplex() conn.Duplex {
	return conn.Full
}

func (c *spiConn) Tx(w, r []byte) error {
	if len(r) != 0 && len(w) != len(r) {
		return errors.New("tinygobus: both buffers must have the same size")
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.s.b.Tx(w, r)
}

// TxPackets sends the packets back to back. Chip select is not controlled
// by the tinygo interface so KeepCS is ignored.
func (c *spiConn) TxPackets(p []spi.Packet) error {
	for i := range p {
		if p[i].BitsPerWord != 0 && p[i].BitsPerWord != 8 {
			return fmt.Errorf("tinygobus: only 8 bits words are supported, got %d", p[i].BitsPerWord)
		}
		if len(p[i].R) != 0 && len(p[i].W) != len(p[i].R) {
			return errors.New("tinygobus: both buffers must have the same size")
		}
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i := range p {
		if err := c.s.b.Tx(p[i].W, p[i].R); err != nil {
			return err
		}
	}
	return nil
}

// Conn exposes a periph SPI connection as a tinygo bus.
type Conn struct {
	spi.Conn
}

// Tx implements drivers.SPI.
func (c Conn) Tx(w, r []byte) error {
	return c.Conn.Tx(w, r)
}

// Transfer implements drivers.SPI.
func (c Conn) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := c.Conn.Tx([]byte{b}, r[:])
	return r[0], err
}

// RegisterI2C registers b in i2creg as name.
func RegisterI2C(name string, b drivers.I2C) error {
	bus := NewI2C(name, b)
	return i2creg.Register(name, nil, -1, func() (i2c.BusCloser, error) {
		return bus, nil
	})
}

// RegisterSPI registers b in spireg as name.
func RegisterSPI(name string, b drivers.SPI, mode spi.Mode) error {
	return spireg.Register(name, nil, -1, func() (spi.PortCloser, error) {
		return NewSPI(name, b, mode), nil
	})
}

var _ i2c.BusCloser = &I2C{}
var _ spi.PortCloser = &SPI{}
var _ spi.Conn = &spiConn{}
var _ drivers.I2C = i2c.Bus(nil)
var _ drivers.SPI = Conn{}
