// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import "errors"

var (
	// ErrInvalidArgument is returned on malformed input: register, value,
	// address or port out of range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfiguration is returned when the detection options are
	// inconsistent, e.g. AutoDetect without an address.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNoResponse is returned when the identity read came back empty. No
	// board answered at this address.
	ErrNoResponse = errors.New("no response from board")

	// ErrUnknownBoard is returned when the identity string doesn't match any
	// registered board.
	ErrUnknownBoard = errors.New("unknown board")

	// ErrTypeMismatch is returned when the board reports a different type than
	// the one requested.
	ErrTypeMismatch = errors.New("board type mismatch")

	// ErrAddressCollision is returned when another known board already answers
	// at the requested address. Nothing was written to the board.
	ErrAddressCollision = errors.New("address already in use")

	// ErrAddressAssignmentFailed is returned when the unlock or commit sequence
	// of an address change failed. The board address is unknown afterward and
	// must be probed again.
	ErrAddressAssignmentFailed = errors.New("address assignment failed")

	// ErrBus wraps a failure reported by the underlying SPI or I²C bus.
	ErrBus = errors.New("bus transaction failed")
)
