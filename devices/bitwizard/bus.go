// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// SPIFreq is the clock used to talk to the boards over SPI.
//
// The AVR on the boards is rather slow; faster clocks corrupt reads.
const SPIFreq = 100 * physic.KiloHertz

// Bus is the kind of bus a board is connected on.
type Bus uint8

const (
	// SPI is the Serial Peripheral Interface bus.
	SPI Bus = iota
	// I2C is the I²C bus.
	I2C
)

func (b Bus) String() string {
	switch b {
	case SPI:
		return "SPI"
	case I2C:
		return "I2C"
	default:
		return "Bus(?)"
	}
}

// link frames register transactions for one kind of bus.
//
// addr is the 8 bit board address with the read flag cleared.
type link interface {
	bus() Bus
	write(addr, reg uint8, data []byte) error
	read(addr, reg uint8, r []byte) error
	String() string
}

// spiLink sends [addr, reg, data...] frames on a full duplex connection.
type spiLink struct {
	c spi.Conn
}

func (s *spiLink) bus() Bus {
	return SPI
}

func (s *spiLink) String() string {
	return s.c.String()
}

func (s *spiLink) write(addr, reg uint8, data []byte) error {
	w := make([]byte, 2+len(data))
	w[0] = addr
	w[1] = reg
	copy(w[2:], data)
	return s.c.Tx(w, nil)
}

// read clocks out len(r) zeros after the header. The board echoes back two
// bytes while it receives the address and the register, they are dropped.
func (s *spiLink) read(addr, reg uint8, r []byte) error {
	w := make([]byte, 2+len(r))
	w[0] = addr | 1
	w[1] = reg
	buf := make([]byte, len(w))
	if err := s.c.Tx(w, buf); err != nil {
		return err
	}
	copy(r, buf[2:])
	return nil
}

// i2cLink maps the 8 bit board address to the 7 bit I²C address; the read
// flag is handled by the I²C controller.
type i2cLink struct {
	b i2c.Bus
}

func (i *i2cLink) bus() Bus {
	return I2C
}

func (i *i2cLink) String() string {
	return i.b.String()
}

func (i *i2cLink) write(addr, reg uint8, data []byte) error {
	w := make([]byte, 1+len(data))
	w[0] = reg
	copy(w[1:], data)
	return i.b.Tx(uint16(addr>>1), w, nil)
}

func (i *i2cLink) read(addr, reg uint8, r []byte) error {
	return i.b.Tx(uint16(addr>>1), []byte{reg}, r)
}

func connectSPI(p spi.Port) (link, error) {
	c, err := ConnectSPI(p)
	if err != nil {
		return nil, err
	}
	return &spiLink{c: c}, nil
}

var _ link = &spiLink{}
var _ link = &i2cLink{}
