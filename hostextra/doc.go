// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hostextra initializes the host drivers used by the BitWizard tools.
//
// The host is the machine where this code is running.
//
// Subpackage tinygobus exposes the buses of tinygo.org/x/drivers to periph,
// for controllers that periph.io/x/periph/host does not support.
package hostextra
