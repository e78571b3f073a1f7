// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestCheckerboardPixel(t *testing.T) {
	tests := []struct {
		cell, x, y int
		want       uint32
	}{
		{20, 0, 0, 0x00000000},
		{20, 19, 19, 0x00000000},
		{20, 20, 0, 0x00000000},
		{20, 0, 20, 0x00000000},
		{20, 40, 0, 0x00ff0000},
		{20, 59, 19, 0x00ff0000},
		{20, 40, 40, 0x20ff0000},
		{20, 80, 0, 0x0000ff00},
		{20, 160, 0, 0x000000ff},
		{20, 280, 0, 0x00ffffff},
		{20, 40, 280, 0xe0ff0000},
		{20, 320, 0, 0x00000000},
		{20, 40, 320, 0x00ff0000},
		{10, 20, 20, 0x20ff0000},
		{0, 2, 2, 0x20ff0000},
	}
	for _, tt := range tests {
		if got := (Checkerboard{Cell: tt.cell}).Pixel(tt.x, tt.y); got != tt.want {
			t.Errorf("Checkerboard{%d}.Pixel(%d, %d) = %#08x, want %#08x", tt.cell, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCheckerboardPaint(t *testing.T) {
	const (
		width, height = 320, 320
		stride        = width*4 + 16
	)
	pix := bytes.Repeat([]byte{0xaa}, stride*height)
	c := Checkerboard{Cell: 20}
	if err := c.Paint(pix, width, height, stride); err != nil {
		t.Fatal(err)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			got := binary.NativeEndian.Uint32(pix[y*stride+x*4:])
			if want := c.Pixel(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %#08x, want %#08x", x, y, got, want)
			}
		}
		pad := pix[y*stride+width*4 : (y+1)*stride]
		if !bytes.Equal(pad, bytes.Repeat([]byte{0xaa}, len(pad))) {
			t.Fatalf("row %d padding overwritten", y)
		}
	}

	again := bytes.Repeat([]byte{0x55}, stride*height)
	if err := c.Paint(again, width, height, stride); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < height; y++ {
		row := y * stride
		if !bytes.Equal(pix[row:row+width*4], again[row:row+width*4]) {
			t.Fatalf("row %d differs between two paints", y)
		}
	}
}
