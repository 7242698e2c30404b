// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitwizard controls BitWizard expansion boards over SPI or I²C.
//
// Every BitWizard board exposes a small register map behind an 8 bit bus
// address. The least significant bit of the address is the read flag, so valid
// addresses are even. Register 0x01 returns an identity string like
// "spi_3fets 1.2" which is used to find out which board is answering.
//
// NewSPI and NewI2C probe the board, check it against the expected Type (or
// detect it with AutoDetect) and return a Board ready to use: a *Motor or a
// *FETs for the default registry.
//
// Concurrency
//
// Dev does no locking. A bus carries one transaction at a time, so all the
// boards sharing a bus must be used from a single goroutine or be serialized
// by the caller.
//
// More details
//
// See http://www.bitwizard.nl/wiki/ for the register documentation of each
// board.
package bitwizard
