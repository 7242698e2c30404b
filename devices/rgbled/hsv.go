// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbled

import "math"

// ToHSV converts a RGB color to hue in [0, 360), saturation and value in
// [0, 1].
func ToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min
	v = max
	if max != 0 {
		s = delta / max
	}
	if s == 0 {
		return 0, s, v
	}
	switch max {
	case rf:
		h = (gf - bf) / delta
	case gf:
		h = 2 + (bf-rf)/delta
	default:
		h = 4 + (rf-gf)/delta
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// ToRGB converts hue in [0, 360], saturation and value in [0, 1] to a RGB
// color.
//
// Hue 360 is the same as 0. Out of range inputs are clamped.
func ToRGB(h, s, v float64) (r, g, b uint8) {
	h = math.Mod(clamp(h, 0, 360), 360) / 60
	s = clamp(s, 0, 1)
	v = clamp(v, 0, 1)
	hi := int(h)
	f := h - float64(hi)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch hi {
	case 0:
		return to8(v), to8(t), to8(p)
	case 1:
		return to8(q), to8(v), to8(p)
	case 2:
		return to8(p), to8(v), to8(t)
	case 3:
		return to8(p), to8(q), to8(v)
	case 4:
		return to8(t), to8(p), to8(v)
	default:
		return to8(v), to8(p), to8(q)
	}
}

func to8(x float64) uint8 {
	return uint8(math.Round(clamp(x, 0, 1) * 255))
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
