// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Stepper and PWM registers.
const (
	RegStepperPosition = 0x40
	RegStepperTarget   = 0x41
	RegStepperDelay    = 0x43

	RegPWM        = 0x50
	RegPWMEnabled = 0x5f
)

// Stepper controls the stepper motor driven by a board.
//
// Positions are in steps. The board moves the motor from its current position
// toward the target position, one step every Delay.
type Stepper struct {
	d *Dev
}

// Position returns the current position of the stepper motor.
func (s *Stepper) Position() (int32, error) {
	return s.readInt32(RegStepperPosition)
}

// SetPosition changes the current position without moving the motor.
func (s *Stepper) SetPosition(pos int32) error {
	return s.writeInt32(RegStepperPosition, pos)
}

// Target returns the position the motor is moving to.
func (s *Stepper) Target() (int32, error) {
	return s.readInt32(RegStepperTarget)
}

// SetTarget starts moving the motor toward pos.
func (s *Stepper) SetTarget(pos int32) error {
	return s.writeInt32(RegStepperTarget, pos)
}

// Delay returns the delay between two steps, in tenths of a millisecond.
func (s *Stepper) Delay() (int, error) {
	b, err := s.d.ReadReg(RegStepperDelay)
	return int(b), err
}

// SetDelay sets the delay between two steps, in tenths of a millisecond.
//
// The maximum is 255, i.e. 25.5ms.
func (s *Stepper) SetDelay(delay int) error {
	if delay < 0 || delay > 255 {
		return fmt.Errorf("bitwizard: step delay %d out of range [0, 255]: %w", delay, ErrInvalidArgument)
	}
	return s.d.WriteReg(RegStepperDelay, delay)
}

// DelayDuration returns Delay as a time.Duration.
func (s *Stepper) DelayDuration() (time.Duration, error) {
	d, err := s.Delay()
	return time.Duration(d) * 100 * time.Microsecond, err
}

func (s *Stepper) readInt32(reg int) (int32, error) {
	b, err := s.d.Read(reg, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (s *Stepper) writeInt32(reg int, v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return s.d.Write(reg, b[:])
}

// PWMOutputs controls the PWM outputs of a board, numbered from 1.
type PWMOutputs struct {
	d *Dev
	n int
}

// Ports returns the number of PWM outputs.
func (p *PWMOutputs) Ports() int {
	return p.n
}

// PWM returns the duty cycle of port, 0 to 255.
func (p *PWMOutputs) PWM(port int) (byte, error) {
	if err := p.validPort(port); err != nil {
		return 0, err
	}
	return p.d.ReadReg(RegPWM + port - 1)
}

// SetPWM sets the duty cycle of port to v, 0 to 255.
func (p *PWMOutputs) SetPWM(port, v int) error {
	if err := p.validPort(port); err != nil {
		return err
	}
	if v < 0 || v > 255 {
		return fmt.Errorf("bitwizard: PWM value %d out of range [0, 255]: %w", v, ErrInvalidArgument)
	}
	return p.d.WriteReg(RegPWM+port-1, v)
}

func (p *PWMOutputs) validPort(port int) error {
	if port < 1 || port > p.n {
		return fmt.Errorf("bitwizard: port %d out of range [1, %d]: %w", port, p.n, ErrInvalidArgument)
	}
	return nil
}
