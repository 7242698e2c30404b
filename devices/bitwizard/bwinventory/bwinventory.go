// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bwinventory describes a set of BitWizard boards in a YAML file and
// opens them.
//
// Example file:
//
//	boards:
//	  - name: lights
//	    bus: spi
//	    port: SPI0.0
//	    address: 0x8a
//	  - name: wheels
//	    bus: i2c
//	    type: i2c_motor
//
// port is the name of the bus in periph's registry, the default bus when
// empty. type defaults to auto_detect, in which case address is required.
package bwinventory

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"periph.io/x/bitwizard/devices/bitwizard"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
)

// Config is the content of an inventory file.
type Config struct {
	Boards []Board `yaml:"boards"`
}

// Board is one board of the inventory.
type Board struct {
	Name    string         `yaml:"name"`
	Bus     string         `yaml:"bus"`
	Port    string         `yaml:"port,omitempty"`
	Type    bitwizard.Type `yaml:"type,omitempty"`
	Address *Addr          `yaml:"address,omitempty"`
}

// Addr is a board address, written in hexadecimal.
type Addr int

// MarshalYAML implements yaml.Marshaler.
func (a Addr) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%#02x", int(a))}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Addr) UnmarshalYAML(n *yaml.Node) error {
	var v int
	if err := n.Decode(&v); err != nil {
		return fmt.Errorf("line %d: address: %w", n.Line, err)
	}
	*a = Addr(v)
	return nil
}

// Load reads an inventory and validates it.
func Load(r io.Reader) (*Config, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	c := &Config{}
	if err := d.Decode(c); err != nil {
		if err == io.EOF {
			return c, nil
		}
		return nil, fmt.Errorf("bwinventory: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads the inventory at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Write encodes the inventory.
func (c *Config) Write(w io.Writer) error {
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(c); err != nil {
		return err
	}
	return e.Close()
}

// Validate checks the inventory without touching the hardware.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for i := range c.Boards {
		b := &c.Boards[i]
		if b.Name == "" {
			return fmt.Errorf("bwinventory: board #%d: name is required: %w", i, bitwizard.ErrConfiguration)
		}
		if seen[b.Name] {
			return fmt.Errorf("bwinventory: board %q is listed twice: %w", b.Name, bitwizard.ErrConfiguration)
		}
		seen[b.Name] = true
		if err := b.validate(); err != nil {
			return fmt.Errorf("bwinventory: board %q: %w", b.Name, err)
		}
	}
	return nil
}

func (b *Board) validate() error {
	switch strings.ToLower(b.Bus) {
	case "spi", "i2c":
	default:
		return fmt.Errorf("unknown bus %q: %w", b.Bus, bitwizard.ErrConfiguration)
	}
	if b.Address != nil {
		if err := bitwizard.ValidAddr(int(*b.Address)); err != nil {
			return err
		}
	}
	if b.Type == "" || b.Type == bitwizard.AutoDetect {
		if b.Address == nil {
			return fmt.Errorf("auto detection requires an address: %w", bitwizard.ErrConfiguration)
		}
		return nil
	}
	_, err := bitwizard.DefaultRegistry.Lookup(b.Type)
	return err
}

// opts returns the identification options of the board.
func (b *Board) opts(tr bitwizard.Tracer) *bitwizard.Opts {
	o := bitwizard.DefaultOpts
	if b.Type != "" {
		o.Type = b.Type
	}
	if b.Address != nil {
		o.Addr = int(*b.Address)
	}
	o.Tracer = tr
	return &o
}

// FromBoards returns the inventory describing already identified boards.
//
// Boards are named after their type and address, and pinned to their
// identified type.
func FromBoards(bus bitwizard.Bus, port string, boards []bitwizard.Board) *Config {
	c := &Config{}
	for _, b := range boards {
		d := b.Dev()
		a := Addr(d.Addr())
		c.Boards = append(c.Boards, Board{
			Name:    fmt.Sprintf("%s-%02x", d.Type(), d.Addr()),
			Bus:     strings.ToLower(bus.String()),
			Port:    port,
			Type:    d.Type(),
			Address: &a,
		})
	}
	return c
}

// Inventory is the set of opened boards.
type Inventory struct {
	Names  []string
	Boards map[string]bitwizard.Board

	// Buses are keyed by their String() so that two names of the same bus,
	// e.g. "" and the default bus's name, share one handle. ports maps the
	// names used in the inventory to these keys.
	spi   map[string]*spiPort
	i2c   map[string]i2c.BusCloser
	ports map[string]string
}

// spiPort is a SPI port connected once for all the boards on it.
type spiPort struct {
	p spi.PortCloser
	c spi.Conn
}

// Open identifies all the boards of the inventory.
//
// Boards sharing a bus share the same handle. On failure, everything opened
// so far is closed.
func (c *Config) Open(tr bitwizard.Tracer) (*Inventory, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	inv := &Inventory{
		Boards: map[string]bitwizard.Board{},
		spi:    map[string]*spiPort{},
		i2c:    map[string]i2c.BusCloser{},
		ports:  map[string]string{},
	}
	for i := range c.Boards {
		b, err := inv.open(&c.Boards[i], tr)
		if err != nil {
			err = fmt.Errorf("bwinventory: board %q: %w", c.Boards[i].Name, err)
			if err2 := inv.Close(); err2 != nil {
				err = errors.Join(err, err2)
			}
			return nil, err
		}
		inv.Names = append(inv.Names, c.Boards[i].Name)
		inv.Boards[c.Boards[i].Name] = b
	}
	return inv, nil
}

func (inv *Inventory) open(b *Board, tr bitwizard.Tracer) (bitwizard.Board, error) {
	if strings.ToLower(b.Bus) == "i2c" {
		bus, err := inv.openI2C(b.Port)
		if err != nil {
			return nil, err
		}
		return bitwizard.NewI2C(bus, b.opts(tr))
	}
	s, err := inv.openSPI(b.Port)
	if err != nil {
		return nil, err
	}
	return bitwizard.NewSPIConn(s.c, b.opts(tr))
}

func (inv *Inventory) openI2C(port string) (i2c.Bus, error) {
	if k, ok := inv.ports["i2c/"+port]; ok {
		return inv.i2c[k], nil
	}
	bus, err := i2creg.Open(port)
	if err != nil {
		return nil, err
	}
	k := bus.String()
	if prev, ok := inv.i2c[k]; ok {
		if err := bus.Close(); err != nil {
			return nil, err
		}
		bus = prev
	}
	inv.i2c[k] = bus
	inv.ports["i2c/"+port] = k
	return bus, nil
}

func (inv *Inventory) openSPI(port string) (*spiPort, error) {
	if k, ok := inv.ports["spi/"+port]; ok {
		return inv.spi[k], nil
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, err
	}
	k := p.String()
	if prev, ok := inv.spi[k]; ok {
		if err := p.Close(); err != nil {
			return nil, err
		}
		inv.ports["spi/"+port] = k
		return prev, nil
	}
	c, err := bitwizard.ConnectSPI(p)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s := &spiPort{p: p, c: c}
	inv.spi[k] = s
	inv.ports["spi/"+port] = k
	return s, nil
}

// Board returns the board named name.
func (inv *Inventory) Board(name string) (bitwizard.Board, bool) {
	b, ok := inv.Boards[name]
	return b, ok
}

// Close halts all the boards and closes the buses.
func (inv *Inventory) Close() error {
	var errs []error
	for _, n := range inv.Names {
		if err := inv.Boards[n].Halt(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range inv.spi {
		if err := s.p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, b := range inv.i2c {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	inv.Names = nil
	inv.Boards = map[string]bitwizard.Board{}
	inv.spi = map[string]*spiPort{}
	inv.i2c = map[string]i2c.BusCloser{}
	inv.ports = map[string]string{}
	return errors.Join(errs...)
}
