// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // register PNG
	"os"

	_ "golang.org/x/image/bmp"  // register BMP
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP
	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"
)

// MaxTextureSize bounds the side of loaded textures. Larger images are
// scaled down to fit, keeping their aspect ratio.
const MaxTextureSize = 512

// LoadTexture decodes a PNG, BMP or WebP file into an RGBA image no larger
// than MaxTextureSize on either side.
func LoadTexture(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("content: decode %s: %w", path, err)
	}
	return fitTexture(src), nil
}

// fitTexture converts src to RGBA, scaling it down if it is too large.
func fitTexture(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > MaxTextureSize || h > MaxTextureSize {
		if w >= h {
			w, h = MaxTextureSize, max(1, h*MaxTextureSize/w)
		} else {
			w, h = max(1, w*MaxTextureSize/h), MaxTextureSize
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	return dst
}

// SolidTexture returns a size×size image of a single color.
func SolidTexture(size int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// DefaultTexture is the 64×64 red texture used when no file is given.
func DefaultTexture() *image.RGBA {
	return SolidTexture(64, color.RGBA{0xff, 0, 0, 0xff})
}

const quadVertexShader = `attribute vec4 pos;
attribute vec2 texcoord;
varying vec2 v_texcoord;
void main() {
	gl_Position = pos;
	v_texcoord = texcoord;
}`

const quadFragmentShader = `precision mediump float;
varying vec2 v_texcoord;
uniform sampler2D s_texture;
void main() {
	gl_FragColor = texture2D(s_texture, v_texcoord);
}`

// fanVertices holds x, y, u, v for each corner of a fan covering 80% of
// the viewport.
var fanVertices = []float32{
	-0.8, -0.8, 0, 0,
	+0.8, -0.8, 1, 0,
	+0.8, +0.8, 1, 1,
	-0.8, +0.8, 0, 1,
}

// stripVertices covers the whole viewport with a strip.
var stripVertices = []float32{
	-1, -1, 0, 0,
	+1, -1, 1, 0,
	-1, +1, 0, 1,
	+1, +1, 1, 1,
}

func nativeOrder() binary.ByteOrder {
	if littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// TexturedQuad draws an image on a quad over a translucent clear.
type TexturedQuad struct {
	img      *image.RGBA
	clear    [4]float32
	vertices []float32
	mode     gl.Enum
	wrap     int

	program  gl.Program
	pos      gl.Attrib
	texcoord gl.Attrib
	sampler  gl.Uniform
	texture  gl.Texture
	vbo      gl.Buffer
}

// NewTexturedQuad returns a drawer for img. A nil img means
// DefaultTexture.
func NewTexturedQuad(img *image.RGBA) *TexturedQuad {
	if img == nil {
		img = DefaultTexture()
	}
	return &TexturedQuad{
		img:      img,
		clear:    [4]float32{0, 0, 0, 0.5},
		vertices: fanVertices,
		mode:     gl.TRIANGLE_FAN,
		wrap:     gl.CLAMP_TO_EDGE,
	}
}

// NewOverlayQuad returns a drawer that fills the whole target with a
// repeating img over a translucent grey clear, for overlays.
func NewOverlayQuad(img *image.RGBA) *TexturedQuad {
	q := NewTexturedQuad(img)
	q.clear = [4]float32{0.5, 0.5, 0.5, 0.5}
	q.vertices = stripVertices
	q.mode = gl.TRIANGLE_STRIP
	q.wrap = gl.REPEAT
	return q
}

// Init compiles the program and uploads the texture and vertices. A
// compile or link failure is returned as an error.
func (q *TexturedQuad) Init(glctx gl.Context) error {
	p, err := compileProgram(glctx, quadVertexShader, quadFragmentShader)
	if err != nil {
		return err
	}
	q.program = p
	q.pos = glctx.GetAttribLocation(p, "pos")
	q.texcoord = glctx.GetAttribLocation(p, "texcoord")
	q.sampler = glctx.GetUniformLocation(p, "s_texture")

	q.vbo = glctx.CreateBuffer()
	glctx.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	glctx.BufferData(gl.ARRAY_BUFFER, f32.Bytes(nativeOrder(), q.vertices...), gl.STATIC_DRAW)

	b := q.img.Bounds()
	q.texture = glctx.CreateTexture()
	glctx.BindTexture(gl.TEXTURE_2D, q.texture)
	glctx.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, b.Dx(), b.Dy(), gl.RGBA, gl.UNSIGNED_BYTE, q.img.Pix)
	glctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	glctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	glctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, q.wrap)
	glctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, q.wrap)
	return nil
}

func (q *TexturedQuad) Draw(glctx gl.Context, width, height int) {
	glctx.Viewport(0, 0, width, height)
	glctx.ClearColor(q.clear[0], q.clear[1], q.clear[2], q.clear[3])
	glctx.Clear(gl.COLOR_BUFFER_BIT)

	glctx.UseProgram(q.program)
	glctx.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	glctx.EnableVertexAttribArray(q.pos)
	glctx.VertexAttribPointer(q.pos, 2, gl.FLOAT, false, 16, 0)
	glctx.EnableVertexAttribArray(q.texcoord)
	glctx.VertexAttribPointer(q.texcoord, 2, gl.FLOAT, false, 16, 8)

	glctx.ActiveTexture(gl.TEXTURE0)
	glctx.BindTexture(gl.TEXTURE_2D, q.texture)
	glctx.Uniform1i(q.sampler, 0)

	glctx.DrawArrays(q.mode, 0, len(q.vertices)/4)

	glctx.DisableVertexAttribArray(q.pos)
	glctx.DisableVertexAttribArray(q.texcoord)
}

func (q *TexturedQuad) Release(glctx gl.Context) {
	glctx.DeleteTexture(q.texture)
	glctx.DeleteBuffer(q.vbo)
	glctx.DeleteProgram(q.program)
}
