// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// bwtrace prints the register transactions recorded with -trace by the other
// tools.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"periph.io/x/bitwizard/devices/bitwizard"
	"periph.io/x/bitwizard/devices/bitwizard/bwtrace"
)

type key struct {
	bus  bitwizard.Bus
	addr uint8
	reg  uint8
	dir  bitwizard.Dir
}

func dump(path string, addr int, summary bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r := bwtrace.NewReader(f)
	counts := map[key]int{}
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if addr != bitwizard.AddrUnset && int(rec.Addr) != addr {
			continue
		}
		if summary {
			counts[key{rec.Bus, rec.Addr, rec.Reg, rec.Dir}]++
			continue
		}
		fmt.Printf("%s\n", &rec)
	}
	if summary {
		keys := make([]key, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := keys[i], keys[j]
			if a.bus != b.bus {
				return a.bus < b.bus
			}
			if a.addr != b.addr {
				return a.addr < b.addr
			}
			if a.reg != b.reg {
				return a.reg < b.reg
			}
			return a.dir < b.dir
		})
		for _, k := range keys {
			fmt.Printf("%s [%#02x] %s %#02x: %d\n", k.bus, k.addr, k.dir, k.reg, counts[k])
		}
	}
	return nil
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	addr := flag.Int("addr", bitwizard.AddrUnset, "only print the transactions of this board")
	summary := flag.Bool("s", false, "print the number of transactions per register instead")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() == 0 {
		return errors.New("specify at least one trace file, try -help")
	}
	for _, p := range flag.Args() {
		log.Printf("Reading %s", p)
		if err := dump(p, *addr, *summary); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "bwtrace: %s.\n", err)
		os.Exit(1)
	}
}
