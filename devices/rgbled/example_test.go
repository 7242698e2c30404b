// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbled_test

import (
	"log"
	"time"

	"periph.io/x/bitwizard/devices/bitwizard"
	"periph.io/x/bitwizard/devices/rgbled"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	b, err := bitwizard.NewSPI(p, &bitwizard.Opts{Type: "spi_3fets", Addr: bitwizard.AddrUnset})
	if err != nil {
		log.Fatal(err)
	}
	led, err := rgbled.New(b, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer led.Halt()

	// Cycle through the rainbow.
	for h := 0; h <= 360; h += 5 {
		if err := led.SetHSV(float64(h), 1, 1); err != nil {
			log.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
