// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// bwaddr changes the address of a BitWizard board.
//
// The board is identified first and the new address is checked to be free.
// The new address is persisted by the board.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"periph.io/x/bitwizard/devices/bitwizard"
	"periph.io/x/bitwizard/devices/bitwizard/bwinventory"
	"periph.io/x/bitwizard/devices/bitwizard/bwtrace"
	"periph.io/x/bitwizard/hostextra"
)

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode, also logs the register transactions")
	bus := flag.String("bus", "spi", "bus the board is on, spi or i2c")
	port := flag.String("port", "", "name of the bus, default bus if empty")
	addr := flag.Int("addr", bitwizard.AddrUnset, "current address of the board")
	typ := flag.String("type", "", "expected board type, e.g. spi_motor; auto detects if empty")
	newAddr := flag.Int("new", bitwizard.AddrUnset, "new address of the board")
	trace := flag.String("trace", "", "record the register transactions in this file")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *newAddr == bitwizard.AddrUnset {
		return errors.New("-new is required")
	}
	if err := bitwizard.ValidAddr(*newAddr); err != nil {
		return err
	}
	if *addr == bitwizard.AddrUnset && *typ == "" {
		return errors.New("for safety reasons, -addr or -type is required")
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

	c := bwinventory.Config{
		Boards: []bwinventory.Board{{Name: "board", Bus: *bus, Port: *port, Type: bitwizard.Type(*typ)}},
	}
	if *addr != bitwizard.AddrUnset {
		a := bwinventory.Addr(*addr)
		c.Boards[0].Address = &a
	}
	inv, err := c.Open(tr)
	if err != nil {
		return err
	}
	defer inv.Close()
	b, _ := inv.Board("board")
	d := b.Dev()
	old := d.Addr()
	log.Printf("Found %s version %s", d, d.Version())
	if err := d.SetAddr(*newAddr); err != nil {
		return err
	}
	// The board answers at its new address right away.
	id, err := d.Identity()
	if err != nil {
		return fmt.Errorf("board does not answer at %#02x: %w", *newAddr, err)
	}
	if desc := d.Descriptor(); desc != nil && !desc.Pattern.MatchString(id) {
		return fmt.Errorf("unexpected board %q at %#02x", id, *newAddr)
	}
	fmt.Printf("Moved %s from %#02x to %#02x\n", d.Type(), old, d.Addr())
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "bwaddr: %s.\n", err)
		os.Exit(1)
	}
}
