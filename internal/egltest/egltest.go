// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package egltest provides recording fakes of EGL, wayland-egl and the GL
// call queue, for testing accelerated drawing without a GPU.
package egltest

import (
	"fmt"
	"strings"

	"golang.org/x/mobile/gl"

	"golang.org/x/exp/wlclient/present/accel/egl"
)

// EGL records calls. Handles it returns are small distinct integers.
type EGL struct {
	// Configs is what ChooseConfig returns. The zero value returns a
	// single config.
	Configs []egl.Config
	// Fail, keyed by function name such as "eglCreateContext", makes that
	// call fail with BadAlloc.
	Fail map[string]bool

	// Calls lists every call, formatted like "eglSwapBuffers(1, 20)".
	Calls []string
	// Attribs is the attribute list of the last ChooseConfig.
	Attribs []egl.Int

	next uintptr
}

// New returns a fake offering configs.
func New(configs ...egl.Config) *EGL {
	return &EGL{Configs: configs}
}

func (e *EGL) call(name string, args ...any) error {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = fmt.Sprint(a)
	}
	e.Calls = append(e.Calls, fmt.Sprintf("%s(%s)", name, strings.Join(s, ", ")))
	if e.Fail[name] {
		return fmt.Errorf("%s: %w", name, egl.BadAlloc)
	}
	return nil
}

func (e *EGL) handle(base uintptr) uintptr {
	e.next++
	return base + e.next
}

// Names returns the function names of the recorded calls, in order.
func (e *EGL) Names() []string {
	names := make([]string, len(e.Calls))
	for i, c := range e.Calls {
		names[i], _, _ = strings.Cut(c, "(")
	}
	return names
}

func (e *EGL) GetDisplay(native uintptr) (egl.Display, error) {
	if err := e.call("eglGetDisplay", native); err != nil {
		return 0, err
	}
	return 1, nil
}

func (e *EGL) Initialize(d egl.Display) (major, minor int, err error) {
	if err := e.call("eglInitialize", d); err != nil {
		return 0, 0, err
	}
	return 1, 4, nil
}

func (e *EGL) BindAPI(api egl.Enum) error {
	return e.call("eglBindAPI", fmt.Sprintf("%#x", uint32(api)))
}

func (e *EGL) ChooseConfig(d egl.Display, attribs []egl.Int) ([]egl.Config, error) {
	e.Attribs = append([]egl.Int(nil), attribs...)
	if err := e.call("eglChooseConfig", d); err != nil {
		return nil, err
	}
	if e.Configs == nil {
		return []egl.Config{100}, nil
	}
	return e.Configs, nil
}

func (e *EGL) CreateWindowSurface(d egl.Display, c egl.Config, win egl.NativeWindow) (egl.Surface, error) {
	if err := e.call("eglCreateWindowSurface", d, c, win); err != nil {
		return 0, err
	}
	return egl.Surface(e.handle(200)), nil
}

func (e *EGL) CreateContext(d egl.Display, c egl.Config, share egl.Context, attribs []egl.Int) (egl.Context, error) {
	if err := e.call("eglCreateContext", d, c, share); err != nil {
		return 0, err
	}
	return egl.Context(e.handle(300)), nil
}

func (e *EGL) MakeCurrent(d egl.Display, draw, read egl.Surface, c egl.Context) error {
	return e.call("eglMakeCurrent", d, draw, read, c)
}

func (e *EGL) SwapBuffers(d egl.Display, s egl.Surface) error {
	return e.call("eglSwapBuffers", d, s)
}

func (e *EGL) DestroySurface(d egl.Display, s egl.Surface) error {
	return e.call("eglDestroySurface", d, s)
}

func (e *EGL) DestroyContext(d egl.Display, c egl.Context) error {
	return e.call("eglDestroyContext", d, c)
}

func (e *EGL) Terminate(d egl.Display) error {
	return e.call("eglTerminate", d)
}

func (e *EGL) CreateWindow(surface uintptr, width, height int) (egl.NativeWindow, error) {
	if err := e.call("wl_egl_window_create", surface, width, height); err != nil {
		return 0, err
	}
	return egl.NativeWindow(e.handle(400)), nil
}

func (e *EGL) ResizeWindow(win egl.NativeWindow, width, height, dx, dy int) {
	e.call("wl_egl_window_resize", win, width, height, dx, dy)
}

func (e *EGL) DestroyWindow(win egl.NativeWindow) {
	e.call("wl_egl_window_destroy", win)
}

// GL records the GL calls made through it. Calls the fake does not
// implement panic on the nil embedded Context.
type GL struct {
	gl.Context

	// CompileFails makes every shader fail to compile.
	CompileFails bool

	Calls []string
	next  uint32
}

// NewGL returns a fake context and a worker that never has work, for use
// as accel.Options.NewGL.
func NewGL() (*GL, Worker) { return &GL{}, Worker{} }

func (g *GL) call(name string, args ...any) {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = fmt.Sprint(a)
	}
	g.Calls = append(g.Calls, fmt.Sprintf("%s(%s)", name, strings.Join(s, ", ")))
}

// Count returns the number of recorded calls to name.
func (g *GL) Count(name string) int {
	n := 0
	for _, c := range g.Calls {
		if strings.HasPrefix(c, name+"(") {
			n++
		}
	}
	return n
}

func (g *GL) id() uint32 {
	g.next++
	return g.next
}

func (g *GL) ActiveTexture(texture gl.Enum)          { g.call("ActiveTexture", uint32(texture)) }
func (g *GL) AttachShader(p gl.Program, s gl.Shader) { g.call("AttachShader", p.Value, s.Value) }
func (g *GL) BindBuffer(target gl.Enum, b gl.Buffer) { g.call("BindBuffer", uint32(target), b.Value) }
func (g *GL) BindTexture(target gl.Enum, t gl.Texture) {
	g.call("BindTexture", uint32(target), t.Value)
}
func (g *GL) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	g.call("BufferData", uint32(target), len(src), uint32(usage))
}
func (g *GL) Clear(mask gl.Enum) { g.call("Clear", uint32(mask)) }
func (g *GL) ClearColor(red, green, blue, alpha float32) {
	g.call("ClearColor", red, green, blue, alpha)
}
func (g *GL) CompileShader(s gl.Shader) { g.call("CompileShader", s.Value) }

func (g *GL) CreateBuffer() gl.Buffer {
	b := gl.Buffer{Value: g.id()}
	g.call("CreateBuffer")
	return b
}

func (g *GL) CreateProgram() gl.Program {
	p := gl.Program{Init: true, Value: g.id()}
	g.call("CreateProgram")
	return p
}

func (g *GL) CreateShader(ty gl.Enum) gl.Shader {
	s := gl.Shader{Value: g.id()}
	g.call("CreateShader", uint32(ty))
	return s
}

func (g *GL) CreateTexture() gl.Texture {
	t := gl.Texture{Value: g.id()}
	g.call("CreateTexture")
	return t
}

func (g *GL) DeleteBuffer(v gl.Buffer)   { g.call("DeleteBuffer", v.Value) }
func (g *GL) DeleteProgram(p gl.Program) { g.call("DeleteProgram", p.Value) }
func (g *GL) DeleteShader(s gl.Shader)   { g.call("DeleteShader", s.Value) }
func (g *GL) DeleteTexture(v gl.Texture) { g.call("DeleteTexture", v.Value) }

func (g *GL) DisableVertexAttribArray(a gl.Attrib) { g.call("DisableVertexAttribArray", a.Value) }
func (g *GL) DrawArrays(mode gl.Enum, first, count int) {
	g.call("DrawArrays", uint32(mode), first, count)
}
func (g *GL) EnableVertexAttribArray(a gl.Attrib) { g.call("EnableVertexAttribArray", a.Value) }

func (g *GL) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	g.call("GetAttribLocation", p.Value, name)
	if name == "pos" {
		return gl.Attrib{Value: 0}
	}
	return gl.Attrib{Value: 1}
}

func (g *GL) GetProgrami(p gl.Program, pname gl.Enum) int {
	g.call("GetProgrami", p.Value, uint32(pname))
	return 1
}

func (g *GL) GetProgramInfoLog(p gl.Program) string { return "" }

func (g *GL) GetShaderi(s gl.Shader, pname gl.Enum) int {
	g.call("GetShaderi", s.Value, uint32(pname))
	if g.CompileFails {
		return 0
	}
	return 1
}

func (g *GL) GetShaderInfoLog(s gl.Shader) string {
	if g.CompileFails {
		return "syntax error"
	}
	return ""
}

func (g *GL) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	g.call("GetUniformLocation", p.Value, name)
	return gl.Uniform{Value: 0}
}

func (g *GL) LinkProgram(p gl.Program)             { g.call("LinkProgram", p.Value) }
func (g *GL) ShaderSource(s gl.Shader, src string) { g.call("ShaderSource", s.Value) }

func (g *GL) TexImage2D(target gl.Enum, level int, internalFormat int, width, height int, format gl.Enum, ty gl.Enum, data []byte) {
	g.call("TexImage2D", width, height, len(data))
}

func (g *GL) TexParameteri(target, pname gl.Enum, param int) {
	g.call("TexParameteri", uint32(pname), param)
}

func (g *GL) Uniform1i(dst gl.Uniform, v int) { g.call("Uniform1i", dst.Value, v) }
func (g *GL) UseProgram(p gl.Program)         { g.call("UseProgram", p.Value) }

func (g *GL) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	g.call("VertexAttribPointer", dst.Value, size, stride, offset)
}

func (g *GL) Viewport(x, y, width, height int) { g.call("Viewport", x, y, width, height) }

// Worker never has work: the fake GL runs calls immediately.
type Worker struct{}

func (Worker) WorkAvailable() <-chan struct{} { return nil }
func (Worker) DoWork()                        {}
