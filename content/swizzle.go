// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"encoding/binary"
	"image"
)

var littleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// bgra converts a pixel buffer between Go's RGBA and BGRA byte orders.
//
// It panics if the input slice length is not a multiple of 4.
func bgra(p []byte) {
	if len(p)%4 != 0 {
		panic("input slice length is not a multiple of 4")
	}
	for i := 0; i < len(p); i += 4 {
		p[i+0], p[i+2] = p[i+2], p[i+0]
	}
}

// copyRGBA copies src into an ARGB8888 buffer, clipping to the smaller of
// the two.
func copyRGBA(pix []byte, width, height, stride int, src *image.RGBA) {
	b := src.Bounds()
	w, h := min(width, b.Dx()), min(height, b.Dy())
	for y := 0; y < h; y++ {
		dst := pix[y*stride : y*stride+w*4]
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		if littleEndian {
			// ARGB in a little-endian word is B, G, R, A in memory.
			copy(dst, s)
			bgra(dst)
			continue
		}
		for x := 0; x < w; x++ {
			p := s[x*4 : x*4+4]
			binary.NativeEndian.PutUint32(dst[x*4:], uint32(p[3])<<24|uint32(p[0])<<16|uint32(p[1])<<8|uint32(p[2]))
		}
	}
}
