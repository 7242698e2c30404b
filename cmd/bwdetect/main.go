// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// bwdetect prints out information about the BitWizard boards found on a SPI
// port or an I²C bus.
//
// Without -addr, all the addresses are scanned. With -config, the boards of
// an inventory file are opened instead.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"periph.io/x/bitwizard/devices/bitwizard"
	"periph.io/x/bitwizard/devices/bitwizard/bwinventory"
	"periph.io/x/bitwizard/devices/bitwizard/bwtrace"
	"periph.io/x/bitwizard/hostextra"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/spi/spireg"
)

func printBoard(name string, b bitwizard.Board) {
	d := b.Dev()
	fmt.Printf("%s:\n", name)
	fmt.Printf("  Bus:      %s\n", d.Bus())
	fmt.Printf("  Address:  %#02x\n", d.Addr())
	fmt.Printf("  Type:     %s\n", d.Type())
	fmt.Printf("  Version:  %s\n", d.Version())
	if desc := d.Descriptor(); desc != nil {
		var f []string
		for _, x := range desc.Features {
			f = append(f, string(x))
		}
		fmt.Printf("  Features: %s\n", strings.Join(f, ", "))
		if a := desc.DefaultAddr; a != d.Addr() {
			fmt.Printf("  Default:  %#02x\n", a)
		}
	}
	switch t := b.(type) {
	case *bitwizard.FETs:
		if p, err := t.PWMEnabled(); err == nil {
			fmt.Printf("  PWM on:   %v\n", p)
		}
	case *bitwizard.Motor:
		if p, err := t.Position(); err == nil {
			fmt.Printf("  Position: %d\n", p)
		}
	}
}

func scan(bus, port string, opts *bitwizard.Opts) ([]bitwizard.Board, error) {
	addrs := bitwizard.AllAddrs()
	if opts.Addr != bitwizard.AddrUnset {
		addrs = []int{opts.Addr}
	}
	switch bus {
	case "spi":
		p, err := spireg.Open(port)
		if err != nil {
			return nil, err
		}
		defer p.Close()
		log.Printf("Scanning %s", p)
		return bitwizard.ScanSPI(p, addrs, opts)
	case "i2c":
		b, err := i2creg.Open(port)
		if err != nil {
			return nil, err
		}
		defer b.Close()
		log.Printf("Scanning %s", b)
		return bitwizard.ScanI2C(b, addrs, opts)
	default:
		return nil, errors.New("unrecognized -bus, only spi and i2c are supported")
	}
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode, also logs the register transactions")
	bus := flag.String("bus", "spi", "bus to scan, spi or i2c")
	port := flag.String("port", "", "name of the bus, default bus if empty")
	addr := flag.Int("addr", bitwizard.AddrUnset, "only probe this address")
	config := flag.String("config", "", "inventory file to open instead of scanning")
	out := flag.String("o", "", "write the boards found as an inventory file")
	trace := flag.String("trace", "", "record the register transactions in this file")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	var tr bwtrace.Multi
	if *verbose {
		tr = append(tr, bwtrace.NewLogger(nil))
	}
	if *trace != "" {
		r, err := bwtrace.Create(*trace)
		if err != nil {
			return err
		}
		defer r.Close()
		tr = append(tr, r)
	}

	if _, err := hostextra.Init(); err != nil {
		return err
	}

	if *config != "" {
		c, err := bwinventory.LoadFile(*config)
		if err != nil {
			return err
		}
		inv, err := c.Open(tr)
		if err != nil {
			return err
		}
		defer inv.Close()
		for _, n := range inv.Names {
			printBoard(n, inv.Boards[n])
		}
		return nil
	}

	b := strings.ToLower(*bus)
	boards, err := scan(b, *port, &bitwizard.Opts{Type: bitwizard.AutoDetect, Addr: *addr, Tracer: tr})
	if err != nil {
		// Partial results are still printed.
		fmt.Fprintf(os.Stderr, "bwdetect: %s.\n", err)
	}
	plural := ""
	if len(boards) != 1 {
		plural = "s"
	}
	fmt.Printf("Found %d board%s\n", len(boards), plural)
	for i, d := range boards {
		printBoard(fmt.Sprintf("- Board #%d", i), d)
	}
	if *out != "" {
		bw := bitwizard.SPI
		if b == "i2c" {
			bw = bitwizard.I2C
		}
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := bwinventory.FromBoards(bw, *port, boards).Write(f); err != nil {
			return err
		}
		return f.Close()
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "bwdetect: %s.\n", err)
		os.Exit(1)
	}
}
