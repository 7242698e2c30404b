// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hostextra

import (
	"periph.io/x/periph"
	"periph.io/x/periph/host"
)

// Init calls host.Init(), which calls periph.Init() and returns it as-is.
//
// All drivers in periph.io/x/periph/host are loaded, so the SPI ports and I²C
// buses of the host are registered in spireg and i2creg. Buses provided by
// other means, e.g. with package tinygobus, must be registered before the
// boards are opened.
func Init() (*periph.State, error) {
	return host.Init()
}
