// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/mobile/gl"

	"golang.org/x/exp/wlclient/internal/egltest"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "texture.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTexture(t *testing.T) {
	green := color.RGBA{0, 0xff, 0, 0xff}
	path := writePNG(t, SolidTexture(16, green))

	img, err := LoadTexture(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, 16, 16); got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
	if got := img.RGBAAt(7, 7); got != green {
		t.Errorf("pixel = %v, want %v", got, green)
	}
}

func TestLoadTextureScalesDown(t *testing.T) {
	for _, tt := range []struct {
		w, h int
		want image.Rectangle
	}{
		{1024, 256, image.Rect(0, 0, 512, 128)},
		{300, 2048, image.Rect(0, 0, 75, 512)},
		{600, 600, image.Rect(0, 0, 512, 512)},
		{512, 100, image.Rect(0, 0, 512, 100)},
	} {
		t.Run(fmt.Sprintf("%dx%d", tt.w, tt.h), func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			for i := range src.Pix {
				src.Pix[i] = 0xff
			}
			img, err := LoadTexture(writePNG(t, src))
			if err != nil {
				t.Fatal(err)
			}
			if got := img.Bounds(); got != tt.want {
				t.Errorf("bounds = %v, want %v", got, tt.want)
			}
			if c := img.RGBAAt(img.Bounds().Dx()/2, img.Bounds().Dy()/2); c.R < 0xf0 || c.A < 0xf0 {
				t.Errorf("center pixel = %v, want opaque white", c)
			}
		})
	}
}

func TestLoadTextureErrors(t *testing.T) {
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadTexture(missing) = %v, want a not-exist error", err)
	}

	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadTexture(path)
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("LoadTexture(garbage) = %v, want a decode error", err)
	}
}

func TestDefaultTexture(t *testing.T) {
	img := DefaultTexture()
	if got, want := img.Bounds(), image.Rect(0, 0, 64, 64); got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
	if got, want := img.RGBAAt(0, 63), (color.RGBA{0xff, 0, 0, 0xff}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestTexturedQuad(t *testing.T) {
	g, _ := egltest.NewGL()
	q := NewTexturedQuad(nil)
	if err := q.Init(g); err != nil {
		t.Fatal(err)
	}
	if n := g.Count("CompileShader"); n != 2 {
		t.Errorf("%d shaders compiled, want 2", n)
	}
	if n := g.Count("LinkProgram"); n != 1 {
		t.Errorf("%d programs linked, want 1", n)
	}
	want := []string{
		fmt.Sprintf("TexImage2D(64, 64, %d)", 64*64*4),
		fmt.Sprintf("TexParameteri(%d, %d)", gl.TEXTURE_MIN_FILTER, gl.LINEAR),
		fmt.Sprintf("TexParameteri(%d, %d)", gl.TEXTURE_MAG_FILTER, gl.LINEAR),
		fmt.Sprintf("TexParameteri(%d, %d)", gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE),
		fmt.Sprintf("TexParameteri(%d, %d)", gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE),
	}
	if diff := cmp.Diff(want, g.Calls[len(g.Calls)-5:]); diff != "" {
		t.Errorf("texture upload mismatch (-want +got):\n%s", diff)
	}

	g.Calls = nil
	q.Draw(g, 256, 128)
	if got, want := g.Calls[0], "Viewport(0, 0, 256, 128)"; got != want {
		t.Errorf("first call = %s, want %s", got, want)
	}
	if got, want := g.Calls[1], "ClearColor(0, 0, 0, 0.5)"; got != want {
		t.Errorf("clear = %s, want %s", got, want)
	}
	draw := fmt.Sprintf("DrawArrays(%d, 0, 4)", gl.TRIANGLE_FAN)
	if !contains(g.Calls, draw) {
		t.Errorf("calls %q lack %s", g.Calls, draw)
	}
	if n := g.Count("VertexAttribPointer"); n != 2 {
		t.Errorf("%d attribute pointers, want 2", n)
	}

	g.Calls = nil
	q.Release(g)
	if diff := cmp.Diff([]string{"DeleteTexture", "DeleteBuffer", "DeleteProgram"}, names(g.Calls)); diff != "" {
		t.Errorf("release mismatch (-want +got):\n%s", diff)
	}
}

func TestOverlayQuad(t *testing.T) {
	g, _ := egltest.NewGL()
	q := NewOverlayQuad(SolidTexture(8, color.White))
	if err := q.Init(g); err != nil {
		t.Fatal(err)
	}
	wrap := fmt.Sprintf("TexParameteri(%d, %d)", gl.TEXTURE_WRAP_S, gl.REPEAT)
	if !contains(g.Calls, wrap) {
		t.Errorf("calls %q lack %s", g.Calls, wrap)
	}
	g.Calls = nil
	q.Draw(g, 64, 64)
	if got, want := g.Calls[1], "ClearColor(0.5, 0.5, 0.5, 0.5)"; got != want {
		t.Errorf("clear = %s, want %s", got, want)
	}
	draw := fmt.Sprintf("DrawArrays(%d, 0, 4)", gl.TRIANGLE_STRIP)
	if !contains(g.Calls, draw) {
		t.Errorf("calls %q lack %s", g.Calls, draw)
	}
}

func TestTexturedQuadCompileFails(t *testing.T) {
	g, _ := egltest.NewGL()
	g.CompileFails = true
	q := NewTexturedQuad(nil)
	err := q.Init(g)
	if err == nil || !strings.Contains(err.Error(), "syntax error") {
		t.Fatalf("Init() = %v, want a compile error", err)
	}
	if g.Count("DeleteProgram") != 1 || g.Count("DeleteShader") != 1 {
		t.Errorf("failed compile leaked objects: %q", g.Calls)
	}
	if g.Count("CreateTexture") != 0 {
		t.Error("texture uploaded after a failed compile")
	}
}

func TestNativeOrder(t *testing.T) {
	want := binary.ByteOrder(binary.BigEndian)
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		want = binary.LittleEndian
	}
	if got := nativeOrder(); got != want {
		t.Errorf("nativeOrder() = %v, want %v", got, want)
	}
}

func contains(calls []string, s string) bool {
	for _, c := range calls {
		if c == s {
			return true
		}
	}
	return false
}

func names(calls []string) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i], _, _ = strings.Cut(c, "(")
	}
	return out
}
