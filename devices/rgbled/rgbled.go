// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgbled drives a RGB LED connected to three outputs of a BitWizard
// FET board.
//
// Each color channel is the PWM duty cycle of one output.
package rgbled

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"periph.io/x/bitwizard/devices/bitwizard"
	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/display"
)

// Opts is optional options to pass to New.
type Opts struct {
	// Ports are the outputs connected to the red, green and blue channels.
	// Defaults to 1, 2 and 3.
	Ports [3]int
	// Mirror, if set, receives an ANSI rendition of the LED on each change.
	Mirror io.Writer
}

// Dev is a RGB LED.
type Dev struct {
	f     *bitwizard.FETs
	ports [3]int
	p     *preview
}

// New returns a RGB LED on the FET board b and enables PWM on its outputs.
func New(b bitwizard.Board, opts *Opts) (*Dev, error) {
	f, ok := b.(*bitwizard.FETs)
	if !ok {
		return nil, fmt.Errorf("rgbled: %s is not a FET board: %w", b, bitwizard.ErrInvalidArgument)
	}
	if f.Ports() < 3 {
		return nil, fmt.Errorf("rgbled: %s has %d outputs, need 3: %w", b, f.Ports(), bitwizard.ErrInvalidArgument)
	}
	d := &Dev{f: f, ports: [3]int{1, 2, 3}}
	if opts != nil {
		if opts.Ports != [3]int{} {
			d.ports = opts.Ports
		}
		if opts.Mirror != nil {
			d.p = &preview{w: opts.Mirror}
		}
	}
	if d.ports[0] == d.ports[1] || d.ports[1] == d.ports[2] || d.ports[0] == d.ports[2] {
		return nil, fmt.Errorf("rgbled: outputs %v must be distinct: %w", d.ports, bitwizard.ErrInvalidArgument)
	}
	if err := f.EnablePWM(d.ports[:]...); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("RGBLED{%s, %v}", d.f, d.ports)
}

// Halt implements conn.Resource.
//
// It turns the LED off.
func (d *Dev) Halt() error {
	err := d.SetRGB(0, 0, 0)
	if d.p != nil {
		if err2 := d.p.halt(); err == nil {
			err = err2
		}
	}
	return err
}

// RGB returns the current color, as read back from the board.
func (d *Dev) RGB() (r, g, b uint8, err error) {
	var c [3]uint8
	for i, port := range d.ports {
		if c[i], err = d.f.PWM(port); err != nil {
			return 0, 0, 0, err
		}
	}
	return c[0], c[1], c[2], nil
}

// SetRGB sets the color.
func (d *Dev) SetRGB(r, g, b uint8) error {
	for i, v := range [3]uint8{r, g, b} {
		if err := d.f.SetPWM(d.ports[i], int(v)); err != nil {
			return err
		}
	}
	if d.p != nil {
		return d.p.refresh(color.NRGBA{R: r, G: g, B: b, A: 255})
	}
	return nil
}

// HSV returns the current color as hue, saturation and value.
func (d *Dev) HSV() (h, s, v float64, err error) {
	r, g, b, err := d.RGB()
	if err != nil {
		return 0, 0, 0, err
	}
	h, s, v = ToHSV(r, g, b)
	return h, s, v, nil
}

// SetHSV sets the color from hue in [0, 360], saturation and value in [0, 1].
func (d *Dev) SetHSV(h, s, v float64) error {
	if !(h >= 0 && h <= 360) {
		return fmt.Errorf("rgbled: hue %g out of range [0, 360]: %w", h, bitwizard.ErrInvalidArgument)
	}
	if !(s >= 0 && s <= 1) || !(v >= 0 && v <= 1) {
		return fmt.Errorf("rgbled: saturation %g and value %g must be in [0, 1]: %w", s, v, bitwizard.ErrInvalidArgument)
	}
	return d.SetRGB(ToRGB(h, s, v))
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
//
// The LED is a single pixel.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, 1, 1)
}

// Draw implements display.Drawer.
//
// Only the source pixel at sp is used.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if r.Intersect(d.Bounds()).Empty() {
		return errors.New("rgbled: nothing to draw")
	}
	if !sp.In(src.Bounds()) {
		return errors.New("rgbled: source point out of bounds")
	}
	c := color.NRGBAModel.Convert(src.At(sp.X, sp.Y)).(color.NRGBA)
	return d.SetRGB(c.R, c.G, c.B)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
