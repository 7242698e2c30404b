// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// bwrgb drives a RGB LED connected to a BitWizard FET board.
//
// Without color argument, the current color is printed.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"periph.io/x/bitwizard/devices/bitwizard"
	"periph.io/x/bitwizard/devices/bitwizard/bwinventory"
	"periph.io/x/bitwizard/devices/bitwizard/bwtrace"
	"periph.io/x/bitwizard/devices/rgbled"
	"periph.io/x/bitwizard/hostextra"
)

func parsePorts(s string) ([3]int, error) {
	var out [3]int
	p := strings.Split(s, ",")
	if len(p) != 3 {
		return out, errors.New("-ports requires 3 comma separated outputs")
	}
	for i := range p {
		v, err := strconv.Atoi(strings.TrimSpace(p[i]))
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func parseHSV(s string) (h, sat, v float64, err error) {
	p := strings.Split(s, ",")
	if len(p) != 3 {
		return 0, 0, 0, errors.New("-hsv requires h,s,v")
	}
	var f [3]float64
	for i := range p {
		if f[i], err = strconv.ParseFloat(strings.TrimSpace(p[i]), 64); err != nil {
			return 0, 0, 0, err
		}
	}
	return f[0], f[1], f[2], nil
}

func rainbow(led *rgbled.Dev, d time.Duration) error {
	const steps = 360
	t := time.NewTicker(d / steps)
	defer t.Stop()
	for h := 0; h < steps; h++ {
		if err := led.SetHSV(float64(h), 1, 1); err != nil {
			return err
		}
		<-t.C
	}
	return nil
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode, also logs the register transactions")
	bus := flag.String("bus", "spi", "bus the board is on, spi or i2c")
	port := flag.String("port", "", "name of the bus, default bus if empty")
	addr := flag.Int("addr", bitwizard.AddrUnset, "address of the board; defaults to the type's address")
	typ := flag.String("type", "spi_3fets", "board type, auto detects if empty")
	ports := flag.String("ports", "1,2,3", "outputs connected to red, green and blue")
	rgb := flag.String("rgb", "", "color to set, as hex, e.g. ff8000")
	hsv := flag.String("hsv", "", "color to set, as hue,saturation,value, e.g. 30,1,1")
	cycle := flag.Duration("rainbow", 0, "cycle through all the hues in this duration")
	preview := flag.Bool("preview", false, "also render the color on the terminal")
	off := flag.Bool("off", false, "turn the LED off on exit")
	trace := flag.String("trace", "", "record the register transactions in this file")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	n := 0
	for _, set := range []bool{*rgb != "", *hsv != "", *cycle != 0} {
		if set {
			n++
		}
	}
	if n > 1 {
		return errors.New("use only one of -rgb, -hsv and -rainbow")
	}
	opts := rgbled.Opts{}
	var err error
	if opts.Ports, err = parsePorts(*ports); err != nil {
		return err
	}
	if *preview {
		opts.Mirror = colorable.NewColorableStdout()
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
		Boards: []bwinventory.Board{{Name: "led", Bus: *bus, Port: *port, Type: bitwizard.Type(*typ)}},
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
	b, _ := inv.Board("led")
	led, err := rgbled.New(b, &opts)
	if err != nil {
		return err
	}
	if *off {
		defer led.Halt()
	}

	switch {
	case *rgb != "":
		raw, err := hex.DecodeString(strings.TrimPrefix(*rgb, "#"))
		if err != nil {
			return err
		}
		if len(raw) != 3 {
			return errors.New("-rgb requires 6 hex digits")
		}
		return led.SetRGB(raw[0], raw[1], raw[2])
	case *hsv != "":
		h, s, v, err := parseHSV(*hsv)
		if err != nil {
			return err
		}
		return led.SetHSV(h, s, v)
	case *cycle != 0:
		return rainbow(led, *cycle)
	default:
		r, g, bl, err := led.RGB()
		if err != nil {
			return err
		}
		h, s, v, err := led.HSV()
		if err != nil {
			return err
		}
		fmt.Printf("RGB: %02x%02x%02x\n", r, g, bl)
		fmt.Printf("HSV: %.0f,%.2f,%.2f\n", h, s, v)
		return nil
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "bwrgb: %s.\n", err)
		os.Exit(1)
	}
}
