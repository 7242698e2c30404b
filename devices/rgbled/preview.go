// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbled

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
)

// preview renders the LED color on a terminal using ANSI color codes.
type preview struct {
	w   io.Writer
	buf bytes.Buffer
}

func (p *preview) refresh(c color.NRGBA) error {
	// Reuse the buffer, it is called on each color change.
	p.buf.Reset()
	_, _ = p.buf.WriteString("\r\033[0m")
	_, _ = io.WriteString(&p.buf, ansi256.Default.Block(c))
	_, _ = p.buf.WriteString("\033[0m ")
	_, err := p.buf.WriteTo(p.w)
	return err
}

func (p *preview) halt() error {
	_, err := p.w.Write([]byte("\n\033[0m"))
	return err
}
