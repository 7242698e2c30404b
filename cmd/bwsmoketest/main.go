// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// bwsmoketest runs the smoke tests of the BitWizard boards connected to the
// host.
//
// Usage: bwsmoketest [-v] <test> [test flags]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"periph.io/x/bitwizard/devices/bitwizard/bitwizardsmoketest"
	"periph.io/x/bitwizard/devices/bitwizard/bwtrace"
	"periph.io/x/bitwizard/hostextra"
)

// SmokeTest is implemented by each smoke test.
type SmokeTest interface {
	Name() string
	Description() string
	Run(f *flag.FlagSet, args []string) error
}

func usage(tests []SmokeTest) {
	fmt.Fprintf(os.Stderr, "Usage: %s [-v] <test> [test flags]\n\nTests:\n", os.Args[0])
	for _, t := range tests {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", t.Name(), t.Description())
	}
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode, also logs the register transactions")
	var tr bwtrace.Multi
	tests := []SmokeTest{
		&bitwizardsmoketest.SmokeTest{Tracer: &tr},
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].Name() < tests[j].Name() })
	flag.Usage = func() { usage(tests) }
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() == 0 {
		flag.Usage()
		return errors.New("specify the test to run")
	}
	if *verbose {
		tr = append(tr, bwtrace.NewLogger(nil))
	}

	if _, err := hostextra.Init(); err != nil {
		return err
	}

	name := flag.Arg(0)
	for _, t := range tests {
		if t.Name() == name {
			f := flag.NewFlagSet(name, flag.ExitOnError)
			if err := t.Run(f, flag.Args()[1:]); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			fmt.Printf("%s: PASS\n", name)
			return nil
		}
	}
	return fmt.Errorf("unknown test %q", name)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "bwsmoketest: %s.\n", err)
		os.Exit(1)
	}
}
