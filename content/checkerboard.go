// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"encoding/binary"

	"golang.org/x/exp/wlclient/present"
)

// Checkerboard paints a grid of Cell×Cell squares. Only squares in even
// columns of even rows are lit; the column picks one of eight colors and the
// row one of eight alpha levels, so the pattern is a pure function of the
// pixel position.
type Checkerboard struct {
	Cell int
}

var _ present.Painter = Checkerboard{}

// Pixel returns the ARGB value at (x, y).
func (c Checkerboard) Pixel(x, y int) uint32 {
	cell := c.Cell
	if cell <= 0 {
		cell = 1
	}
	mx, my := x/cell, y/cell
	if mx%2 != 0 || my%2 != 0 {
		return 0
	}
	code := uint32(mx/2) % 8
	var red, green, blue uint32
	if code&1 != 0 {
		red = 0xff0000
	}
	if code&2 != 0 {
		green = 0x00ff00
	}
	if code&4 != 0 {
		blue = 0x0000ff
	}
	alpha := uint32(my/2) % 8 * 32 << 24
	return alpha + red + green + blue
}

func (c Checkerboard) Paint(pix []byte, width, height, stride int) error {
	for y := 0; y < height; y++ {
		row := pix[y*stride : y*stride+width*4]
		for x := 0; x < width; x++ {
			binary.NativeEndian.PutUint32(row[x*4:], c.Pixel(x, y))
		}
	}
	return nil
}
