// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"fmt"
)

// MotorPort is one of the two DC motor outputs of a motor board.
type MotorPort uint8

// Motor outputs.
const (
	MotorA MotorPort = iota
	MotorB
)

func (p MotorPort) String() string {
	switch p {
	case MotorA:
		return "A"
	case MotorB:
		return "B"
	default:
		return "MotorPort(?)"
	}
}

// base returns the first register of the port: direction, then speed, then
// stop.
func (p MotorPort) base() (int, error) {
	switch p {
	case MotorA:
		return 0x20, nil
	case MotorB:
		return 0x30, nil
	default:
		return 0, fmt.Errorf("bitwizard: motor port must be A or B, got %d: %w", p, ErrInvalidArgument)
	}
}

// Motor is a motor board: two DC motors (or one stepper) and 4 PWM outputs.
type Motor struct {
	Stepper
	PWMOutputs
	d *Dev
}

// Dev implements Board.
func (m *Motor) Dev() *Dev {
	return m.d
}

func (m *Motor) String() string {
	return m.d.String()
}

// Halt implements conn.Resource.
//
// It stops both motors.
func (m *Motor) Halt() error {
	if err := m.Stop(MotorA); err != nil {
		return err
	}
	return m.Stop(MotorB)
}

// Start spins the motor on port.
//
// The sign of v is the direction, its absolute value the speed, up to 255.
// 0 stops the motor.
func (m *Motor) Start(port MotorPort, v int) error {
	base, err := port.base()
	if err != nil {
		return err
	}
	if v < -255 || v > 255 {
		return fmt.Errorf("bitwizard: motor value %d out of range [-255, 255]: %w", v, ErrInvalidArgument)
	}
	if v == 0 {
		return m.d.WriteReg(base+2, 1)
	}
	dir := 0
	if v < 0 {
		dir = 1
		v = -v
	}
	if err := m.d.WriteReg(base, dir); err != nil {
		return err
	}
	return m.d.WriteReg(base+1, v)
}

// Stop stops the motor on port.
func (m *Motor) Stop(port MotorPort) error {
	return m.Start(port, 0)
}

func newMotor(d *Dev) (Board, error) {
	return &Motor{Stepper: Stepper{d: d}, PWMOutputs: PWMOutputs{d: d, n: 4}, d: d}, nil
}

var _ Board = &Motor{}
