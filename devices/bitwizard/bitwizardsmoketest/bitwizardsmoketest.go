// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitwizardsmoketest is leveraged by bwsmoketest to verify that a
// BitWizard board is working as expected.
//
// The test is non destructive: every register it changes is restored.
package bitwizardsmoketest

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"periph.io/x/bitwizard/devices/bitwizard"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/spi/spireg"
)

// SmokeTest is imported by bwsmoketest.
type SmokeTest struct {
	// Tracer, if set, receives the transactions of the test.
	Tracer bitwizard.Tracer
}

// Name implements the SmokeTest interface.
func (s *SmokeTest) Name() string {
	return "bitwizard"
}

// Description implements the SmokeTest interface.
func (s *SmokeTest) Description() string {
	return "Tests a BitWizard SPI or I²C board"
}

// Run implements the SmokeTest interface.
func (s *SmokeTest) Run(f *flag.FlagSet, args []string) (err error) {
	bus := f.String("bus", "spi", "Bus the board is on, spi or i2c")
	port := f.String("port", "", "Name of the bus, default bus if empty")
	addr := f.Int("addr", bitwizard.AddrUnset, "Board address; defaults to the type's address")
	typ := f.String("type", "", "Expected board type, e.g. spi_3fets; auto detects if empty")
	if err := f.Parse(args); err != nil {
		return err
	}
	if f.NArg() != 0 {
		f.Usage()
		return errors.New("unrecognized arguments")
	}
	opts := bitwizard.Opts{Type: bitwizard.Type(*typ), Addr: *addr, Tracer: s.Tracer}
	if *typ == "" {
		opts.Type = bitwizard.AutoDetect
		if *addr == bitwizard.AddrUnset {
			return errors.New("-addr is required when -type is not specified")
		}
	}

	var b bitwizard.Board
	switch strings.ToLower(*bus) {
	case "spi":
		p, err := spireg.Open(*port)
		if err != nil {
			return err
		}
		defer func() {
			if err2 := p.Close(); err == nil {
				err = err2
			}
		}()
		if b, err = bitwizard.NewSPI(p, &opts); err != nil {
			return err
		}
	case "i2c":
		i, err := i2creg.Open(*port)
		if err != nil {
			return err
		}
		defer func() {
			if err2 := i.Close(); err == nil {
				err = err2
			}
		}()
		if b, err = bitwizard.NewI2C(i, &opts); err != nil {
			return err
		}
	default:
		return errors.New("unrecognized -bus, only spi and i2c are supported")
	}
	return testBoard(b)
}

// testBoard verifies that the board answers consistently and that its
// registers can be written.
func testBoard(b bitwizard.Board) error {
	d := b.Dev()
	id, err := d.Identity()
	if err != nil {
		return err
	}
	if desc := d.Descriptor(); desc == nil || !desc.Pattern.MatchString(id) {
		return fmt.Errorf("%s: identity changed to %q", b, id)
	}
	switch t := b.(type) {
	case *bitwizard.FETs:
		if _, err := t.PWMEnabled(); err != nil {
			return err
		}
		return testPWM(b, &t.PWMOutputs)
	case *bitwizard.Motor:
		if _, err := t.Position(); err != nil {
			return err
		}
		return testPWM(b, &t.PWMOutputs)
	default:
		return nil
	}
}

// testPWM writes a pattern in the first PWM register, reads it back and
// restores the previous value.
func testPWM(b bitwizard.Board, p *bitwizard.PWMOutputs) (err error) {
	old, err := p.PWM(1)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := p.SetPWM(1, int(old)); err == nil {
			err = err2
		}
	}()
	for _, v := range []int{0x5a, 0xa5} {
		if err := p.SetPWM(1, v); err != nil {
			return err
		}
		got, err := p.PWM(1)
		if err != nil {
			return err
		}
		if int(got) != v {
			return fmt.Errorf("%s: PWM 1: wrote %#02x, read %#02x", b, v, got)
		}
	}
	return nil
}
