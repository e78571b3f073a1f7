// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"

	"golang.org/x/exp/wlclient/present"
)

// Rings paints concentric rings alternating between two colors on a
// transparent background.
type Rings struct {
	// N is the number of rings. Zero means 4.
	N      int
	Colors [2]color.Color
}

var _ present.Painter = Rings{}

// DefaultRings returns red and white rings.
func DefaultRings() Rings {
	return Rings{
		N:      4,
		Colors: [2]color.Color{color.NRGBA{0xff, 0, 0, 0xff}, color.NRGBA{0xff, 0xff, 0xff, 0xff}},
	}
}

// Image draws the rings into a width×height image.
func (r Rings) Image(width, height int) (*image.RGBA, error) {
	n := r.N
	if n <= 0 {
		n = 4
	}
	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.Clear()
	cx, cy := float64(width)/2, float64(height)/2
	radius := min(cx, cy)
	for i := n; i > 0; i-- {
		if c := r.Colors[(n-i)%2]; c != nil {
			dc.SetColor(c)
		}
		dc.DrawCircle(cx, cy, radius*float64(i)/float64(n))
		dc.Fill()
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("content: rings: %w", err)
	}
	img := dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

func (r Rings) Paint(pix []byte, width, height, stride int) error {
	img, err := r.Image(width, height)
	if err != nil {
		return err
	}
	copyRGBA(pix, width, height, stride, img)
	return nil
}
