// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitwizard is for documentation only.
//
// It contains drivers for the BitWizard SPI and I²C expansion boards.
//
// Packages
//
// devices/bitwizard identifies the boards and accesses their registers.
//
// devices/bitwizard/bwtrace logs and records the register transactions.
//
// devices/bitwizard/bwinventory opens a set of boards described in a YAML
// file.
//
// devices/rgbled drives a RGB LED on a FET board.
//
// Tools
//
// Install the tools with:
//
//  go install periph.io/x/bitwizard/cmd/...@latest
//
// bwdetect scans a bus for boards, bwaddr changes the address of a board,
// bwrgb sets the color of a RGB LED, bwtrace prints recorded transactions and
// bwsmoketest verifies a board.
package bitwizard
