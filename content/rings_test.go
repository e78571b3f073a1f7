// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"encoding/binary"
	"image/color"
	"testing"
)

func TestRingsImage(t *testing.T) {
	img, err := DefaultRings().Image(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got.X != 64 || got.Y != 64 {
		t.Fatalf("size = %v, want 64x64", got)
	}
	for _, tt := range []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"center", 32, 32, color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"outer ring", 4, 32, color.RGBA{0xff, 0, 0, 0xff}},
		{"second ring", 12, 32, color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"corner", 0, 0, color.RGBA{}},
	} {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s (%d, %d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRingsPaint(t *testing.T) {
	const width, height, stride = 64, 64, 64 * 4
	pix := make([]byte, stride*height)
	if err := DefaultRings().Paint(pix, width, height, stride); err != nil {
		t.Fatal(err)
	}

	at := func(x, y int) uint32 { return binary.NativeEndian.Uint32(pix[y*stride+x*4:]) }
	if got := at(4, 32); got != 0xffff0000 {
		t.Errorf("outer ring = %#08x, want opaque red", got)
	}
	if got := at(0, 0); got != 0 {
		t.Errorf("corner = %#08x, want transparent", got)
	}
}
