// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"fmt"
	"strings"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/spi"
)

// AddrUnset means the board's default address shall be used.
const AddrUnset = -1

// Registers common to all boards.
const (
	RegIdentity = 0x01
	// IdentityLen is the size of the identity string, NUL padded.
	IdentityLen = 20

	RegNewAddr = 0xf0
	RegUnlock1 = 0xf1
	RegUnlock2 = 0xf2
)

// Dev is a handle to one board on a bus. It is the register accessor used by
// all the board features.
//
// Type, Version and Descriptor are only set on handles returned by the
// identification, i.e. NewSPI, NewI2C and the Scan functions.
type Dev struct {
	l    link
	addr int
	tr   Tracer
	reg  *Registry

	// Set once identified.
	typ     Type
	version string
	desc    *Descriptor
}

// OpenSPI returns a handle to the board at opts.Addr without checking what it
// is.
//
// Use it to talk to a board at the register level, e.g. one with a firmware
// unknown to the registry.
func OpenSPI(p spi.Port, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := ValidAddr(opts.Addr); err != nil {
		return nil, err
	}
	l, err := connectSPI(p)
	if err != nil {
		return nil, fmt.Errorf("bitwizard: %w: %w", ErrBus, err)
	}
	return opts.newDev(l, opts.Addr), nil
}

// OpenI2C returns a handle to the board at opts.Addr without checking what it
// is.
func OpenI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := ValidAddr(opts.Addr); err != nil {
		return nil, err
	}
	return opts.newDev(&i2cLink{b: b}, opts.Addr), nil
}

// ValidAddr returns an error wrapping ErrInvalidArgument if addr can't be used
// as a board address.
func ValidAddr(addr int) error {
	if addr < 0 || addr > 255 {
		return fmt.Errorf("bitwizard: address %d out of range [0, 255]: %w", addr, ErrInvalidArgument)
	}
	if addr&1 != 0 {
		return fmt.Errorf("bitwizard: address %#02x is odd, the lowest bit is the read flag: %w", addr, ErrInvalidArgument)
	}
	return nil
}

func (d *Dev) String() string {
	name := string(d.typ)
	if name == "" {
		name = "BitWizard"
	}
	return fmt.Sprintf("%s{%s, %#02x}", name, d.l, d.addr)
}

// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return nil
}

// Bus returns the kind of bus the board is on.
func (d *Dev) Bus() Bus {
	return d.l.bus()
}

// Addr returns the current 8 bit address of the board.
func (d *Dev) Addr() int {
	return d.addr
}

// Type returns the board type, as reported by the board when it was detected.
func (d *Dev) Type() Type {
	return d.typ
}

// Version returns the firmware version reported by the board.
func (d *Dev) Version() string {
	return d.version
}

// Descriptor returns the registry entry matching the board, or nil if the
// handle was not identified.
func (d *Dev) Descriptor() *Descriptor {
	return d.desc
}

// Write writes data starting at register reg.
func (d *Dev) Write(reg int, data []byte) error {
	if err := validReg(reg); err != nil {
		return err
	}
	if err := ValidAddr(d.addr); err != nil {
		return err
	}
	d.trace(Write, reg, data)
	if err := d.l.write(uint8(d.addr), uint8(reg), data); err != nil {
		return fmt.Errorf("bitwizard: %s: writing register %#02x: %w: %w", d, reg, ErrBus, err)
	}
	return nil
}

// WriteReg writes the single byte v to register reg.
func (d *Dev) WriteReg(reg, v int) error {
	if v < 0 || v > 255 {
		return fmt.Errorf("bitwizard: value %d out of range [0, 255]: %w", v, ErrInvalidArgument)
	}
	return d.Write(reg, []byte{byte(v)})
}

// Read reads n bytes starting at register reg.
func (d *Dev) Read(reg, n int) ([]byte, error) {
	if err := validReg(reg); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("bitwizard: negative read length %d: %w", n, ErrInvalidArgument)
	}
	if err := ValidAddr(d.addr); err != nil {
		return nil, err
	}
	r := make([]byte, n)
	if err := d.l.read(uint8(d.addr), uint8(reg), r); err != nil {
		return nil, fmt.Errorf("bitwizard: %s: reading register %#02x: %w: %w", d, reg, ErrBus, err)
	}
	d.trace(Read, reg, r)
	return r, nil
}

// ReadReg reads the single byte register reg.
func (d *Dev) ReadReg(reg int) (byte, error) {
	b, err := d.Read(reg, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Identity returns the identity string reported by the board, e.g.
// "spi_motor 1.1". It is empty when no board answers.
func (d *Dev) Identity() (string, error) {
	b, err := d.Read(RegIdentity, IdentityLen)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(string(b), 0); i != -1 {
		b = b[:i]
	}
	return string(b), nil
}

// SetAddr changes the bus address of the board to addr.
//
// The change is refused with ErrAddressCollision if a known board already
// answers at addr. Once the unlock sequence is sent the change can't be undone;
// a failure from there on returns ErrAddressAssignmentFailed and the board has
// to be probed again to find out where it is.
//
// Setting the current address is a no-op: no bus transaction is done, so the
// board does not collide with itself.
func (d *Dev) SetAddr(addr int) error {
	if err := ValidAddr(addr); err != nil {
		return err
	}
	if err := ValidAddr(d.addr); err != nil {
		return err
	}
	if addr == d.addr {
		return nil
	}
	if err := d.checkFree(addr); err != nil {
		return err
	}
	if err := d.WriteReg(RegUnlock1, 0x55); err != nil {
		return d.assignFailed(addr, err)
	}
	if err := d.WriteReg(RegUnlock2, 0xaa); err != nil {
		return d.assignFailed(addr, err)
	}
	if err := d.WriteReg(RegNewAddr, addr); err != nil {
		return d.assignFailed(addr, err)
	}
	d.addr = addr
	return nil
}

//

// checkFree probes addr for a known board.
//
// A bus error counts as nothing answering; on I²C a missing device NACKs.
func (d *Dev) checkFree(addr int) error {
	old := d.addr
	d.addr = addr
	id, err := d.Identity()
	d.addr = old
	if err != nil || blank(id) {
		return nil
	}
	if desc := d.registry().Match(id); desc != nil {
		return fmt.Errorf("bitwizard: another board (%q) already answers at %#02x: %w", id, addr, ErrAddressCollision)
	}
	return nil
}

func (d *Dev) assignFailed(addr int, err error) error {
	return fmt.Errorf("bitwizard: changing address to %#02x: %w: %w", addr, ErrAddressAssignmentFailed, err)
}

func (d *Dev) registry() *Registry {
	if d.reg == nil {
		return DefaultRegistry
	}
	return d.reg
}

func (d *Dev) trace(dir Dir, reg int, data []byte) {
	if d.tr == nil {
		return
	}
	d.tr.Trace(&Event{Bus: d.l.bus(), Addr: uint8(d.addr), Reg: uint8(reg), Dir: dir, Data: data})
}

func validReg(reg int) error {
	if reg < 0 || reg > 255 {
		return fmt.Errorf("bitwizard: register %d out of range [0, 255]: %w", reg, ErrInvalidArgument)
	}
	return nil
}

var _ conn.Resource = &Dev{}
