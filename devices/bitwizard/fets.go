// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"errors"
	"fmt"
)

// FETs is a board with 3 or 7 MOSFET outputs, each can be PWM driven.
//
// Ports are numbered from 1.
type FETs struct {
	Stepper
	PWMOutputs
	d *Dev
}

// Dev implements Board.
func (f *FETs) Dev() *Dev {
	return f.d
}

func (f *FETs) String() string {
	return f.d.String()
}

// Halt implements conn.Resource.
func (f *FETs) Halt() error {
	return nil
}

// EnablePWM enables PWM on the ports.
func (f *FETs) EnablePWM(ports ...int) error {
	return f.updateMask(ports, true)
}

// DisablePWM disables PWM on the ports.
func (f *FETs) DisablePWM(ports ...int) error {
	return f.updateMask(ports, false)
}

// PWMEnabled returns the ports with PWM enabled, in increasing order.
func (f *FETs) PWMEnabled() ([]int, error) {
	mask, err := f.d.ReadReg(RegPWMEnabled)
	if err != nil {
		return nil, err
	}
	var out []int
	for port := 1; port <= f.n; port++ {
		if mask&(1<<uint(port-1)) != 0 {
			out = append(out, port)
		}
	}
	return out, nil
}

func (f *FETs) updateMask(ports []int, on bool) error {
	if len(ports) == 0 {
		return errors.New("bitwizard: no port specified")
	}
	var bits byte
	for _, p := range ports {
		if err := f.validPort(p); err != nil {
			return err
		}
		bits |= 1 << uint(p-1)
	}
	mask, err := f.d.ReadReg(RegPWMEnabled)
	if err != nil {
		return err
	}
	if on {
		mask |= bits
	} else {
		mask &^= bits
	}
	return f.d.WriteReg(RegPWMEnabled, int(mask))
}

func newFETs(d *Dev, n int) (Board, error) {
	if n != 3 && n != 7 {
		return nil, fmt.Errorf("bitwizard: number of FETs must be 3 or 7, got %d: %w", n, ErrInvalidArgument)
	}
	return &FETs{Stepper: Stepper{d: d}, PWMOutputs: PWMOutputs{d: d, n: n}, d: d}, nil
}

var _ Board = &FETs{}
