// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/spi"
)

// Board is an identified board.
//
// The concrete type depends on the registry entry that matched, e.g. *Motor or
// *FETs for DefaultRegistry.
type Board interface {
	conn.Resource
	// Dev returns the register accessor of the board.
	Dev() *Dev
}

// Opts describes the board to open.
type Opts struct {
	// Type is the expected board type, or AutoDetect.
	Type Type
	// Addr is the 8 bit address of the board. AddrUnset selects the default
	// address of Type; it is not allowed with AutoDetect.
	Addr int
	// Registry is the list of known boards. Defaults to DefaultRegistry.
	Registry *Registry
	// Tracer, if set, receives every register transaction.
	Tracer Tracer
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Type: AutoDetect,
	Addr: AddrUnset,
}

// NewSPI identifies the board described by opts on the SPI port p.
//
// The board is asked for its identity and checked against opts.Type. On
// success, the board features matching the identity are returned.
func NewSPI(p spi.Port, opts *Opts) (Board, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	l, err := connectSPI(p)
	if err != nil {
		return nil, fmt.Errorf("bitwizard: %w: %w", ErrBus, err)
	}
	return opts.registry().identify(l, opts)
}

// NewSPIConn is like NewSPI on a port already connected with ConnectSPI.
//
// SPI ports can only be connected once, use it to open multiple boards on the
// same port.
func NewSPIConn(c spi.Conn, opts *Opts) (Board, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	return opts.registry().identify(&spiLink{c: c}, opts)
}

// ConnectSPI connects p with the settings of the boards: mode 0, 8 bits words
// at SPIFreq.
func ConnectSPI(p spi.Port) (spi.Conn, error) {
	return p.Connect(SPIFreq, spi.Mode0, 8)
}

// NewI2C identifies the board described by opts on the I²C bus b.
func NewI2C(b i2c.Bus, opts *Opts) (Board, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	return opts.registry().identify(&i2cLink{b: b}, opts)
}

// ScanSPI auto detects the boards at each address of addrs.
//
// Addresses where nothing answers are skipped. Other failures are joined in
// the returned error, along with the boards found.
func ScanSPI(p spi.Port, addrs []int, opts *Opts) ([]Board, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	l, err := connectSPI(p)
	if err != nil {
		return nil, fmt.Errorf("bitwizard: %w: %w", ErrBus, err)
	}
	return scan(l, addrs, opts)
}

// ScanI2C auto detects the boards at each address of addrs.
func ScanI2C(b i2c.Bus, addrs []int, opts *Opts) ([]Board, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	return scan(&i2cLink{b: b}, addrs, opts)
}

// AllAddrs returns every valid board address.
func AllAddrs() []int {
	out := make([]int, 0, 128)
	for a := 0; a < 256; a += 2 {
		out = append(out, a)
	}
	return out
}

//

func (o *Opts) registry() *Registry {
	if o.Registry == nil {
		return DefaultRegistry
	}
	return o.Registry
}

func (o *Opts) newDev(l link, addr int) *Dev {
	return &Dev{l: l, addr: addr, tr: o.Tracer, reg: o.registry()}
}

func scan(l link, addrs []int, opts *Opts) ([]Board, error) {
	o := *opts
	o.Type = AutoDetect
	r := o.registry()
	var out []Board
	var errs []error
	for _, a := range addrs {
		o.Addr = a
		b, err := r.identify(l, &o)
		switch {
		case err == nil:
			out = append(out, b)
		case errors.Is(err, ErrNoResponse), errors.Is(err, ErrBus):
			// Nothing there.
		default:
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

// identify runs the self check of a board:
//
//   - resolve the address from the expected type when needed;
//   - read the identity string;
//   - reconcile the identity with the expected type;
//   - build the board features on a new handle.
//
// No handle is returned on failure.
func (r *Registry) identify(l link, opts *Opts) (Board, error) {
	p := probe{r: r, nominal: opts.Type, addr: opts.Addr}
	if err := p.resolveAddr(); err != nil {
		return nil, err
	}
	probeDev := opts.newDev(l, p.addr)
	if err := p.readIdentity(probeDev); err != nil {
		return nil, err
	}
	if err := p.reconcile(); err != nil {
		return nil, err
	}
	d := opts.newDev(l, p.addr)
	d.typ = p.typ
	d.version = p.version
	d.desc = p.desc
	b, err := p.desc.New(d)
	if err != nil {
		return nil, fmt.Errorf("bitwizard: %s: %w", d, err)
	}
	return b, nil
}

// probe holds the state of one identification.
type probe struct {
	r       *Registry
	nominal Type
	addr    int

	// expected is the descriptor of nominal, nil with AutoDetect.
	expected *Descriptor
	identity string

	typ     Type
	version string
	desc    *Descriptor
}

func (p *probe) resolveAddr() error {
	if p.nominal.autoDetect() {
		if p.addr == AddrUnset {
			return fmt.Errorf("bitwizard: auto detection requires an explicit address: %w", ErrConfiguration)
		}
		if err := ValidAddr(p.addr); err != nil {
			return fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		return nil
	}
	d, err := p.r.Lookup(p.nominal)
	if err != nil {
		return err
	}
	p.expected = d
	if ValidAddr(p.addr) != nil {
		p.addr = d.DefaultAddr
	}
	return nil
}

func (p *probe) readIdentity(d *Dev) error {
	id, err := d.Identity()
	if err != nil {
		return err
	}
	if blank(id) {
		return fmt.Errorf("bitwizard: %s: %w", d, ErrNoResponse)
	}
	p.identity = id
	return nil
}

func (p *probe) reconcile() error {
	fields := strings.Fields(p.identity)
	if len(fields) == 0 {
		return fmt.Errorf("bitwizard: nothing at %#02x: %w", p.addr, ErrNoResponse)
	}
	reported := Type(fields[0])
	version := ""
	if len(fields) > 1 {
		version = fields[1]
	}
	found := p.r.Match(p.identity)
	if found == nil {
		return fmt.Errorf("bitwizard: no known board of type %q at %#02x: %w", p.identity, p.addr, ErrUnknownBoard)
	}
	if p.expected == nil {
		p.typ = reported
	} else {
		if found != p.expected {
			return fmt.Errorf("bitwizard: board at %#02x reports type %s, which does not match %s: %w", p.addr, reported, p.nominal, ErrTypeMismatch)
		}
		p.typ = p.nominal
	}
	p.version = version
	p.desc = found
	return nil
}

// blank returns true if nothing answered: an idle SPI MISO line reads as
// zeros or ones depending on the pull resistor.
func blank(id string) bool {
	return len(strings.Fields(strings.ReplaceAll(id, "\xff", ""))) == 0
}
