// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package accel draws windows with OpenGL through EGL's Wayland platform.
//
// It needs a display and surfaces that expose their libwayland pointers,
// which in practice means the native driver. GL calls are made through
// golang.org/x/mobile/gl, whose calls are executed by pumping its Worker on
// the goroutine that made the EGL context current. That goroutine must be
// locked to its OS thread, typically by calling runtime.LockOSThread from an
// init function of package main.
//
// The client API is OpenGL ES 2 unless the program is built with the
// egl_desktop tag, which selects desktop OpenGL.
package accel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/mobile/gl"

	"golang.org/x/exp/wlclient/present"
	"golang.org/x/exp/wlclient/present/accel/egl"
)

var (
	// ErrNoNativeDisplay is returned by New when the session's display does
	// not expose a libwayland pointer.
	ErrNoNativeDisplay = errors.New("accel: display has no native handle (use the native driver)")

	// ErrNoConfig is returned when no EGL config meets the requirements.
	ErrNoConfig = errors.New("accel: no matching EGL config")

	errNoEGL = errors.New("accel: no EGL implementation in this build")
)

// Native is implemented by displays and surfaces backed by libwayland. The
// pointer is a struct wl_display or struct wl_surface.
type Native interface {
	Native() uintptr
}

// EGL is the part of EGL and wayland-egl the backend uses. *egl.Lib
// implements it.
type EGL interface {
	GetDisplay(native uintptr) (egl.Display, error)
	Initialize(d egl.Display) (major, minor int, err error)
	BindAPI(api egl.Enum) error
	ChooseConfig(d egl.Display, attribs []egl.Int) ([]egl.Config, error)
	CreateWindowSurface(d egl.Display, c egl.Config, win egl.NativeWindow) (egl.Surface, error)
	CreateContext(d egl.Display, c egl.Config, share egl.Context, attribs []egl.Int) (egl.Context, error)
	MakeCurrent(d egl.Display, draw, read egl.Surface, c egl.Context) error
	SwapBuffers(d egl.Display, s egl.Surface) error
	DestroySurface(d egl.Display, s egl.Surface) error
	DestroyContext(d egl.Display, c egl.Context) error
	Terminate(d egl.Display) error

	CreateWindow(surface uintptr, width, height int) (egl.NativeWindow, error)
	ResizeWindow(win egl.NativeWindow, width, height, dx, dy int)
	DestroyWindow(win egl.NativeWindow)
}

// Drawer issues the GL calls for a frame.
type Drawer interface {
	// Init is called once, with the target's context current, before the
	// first Draw. An error is fatal to Attach.
	Init(glctx gl.Context) error
	// Draw draws a width×height frame.
	Draw(glctx gl.Context, width, height int)
	// Release frees what Init allocated.
	Release(glctx gl.Context)
}

// Requirements are minimum channel depths, in bits.
type Requirements struct {
	Red, Green, Blue, Alpha int
}

// DefaultRequirements asks for at least one bit per channel.
func DefaultRequirements() Requirements {
	return Requirements{Red: 1, Green: 1, Blue: 1, Alpha: 1}
}

// Options configure a Backend.
type Options struct {
	// Requirements select the EGL config. The zero value means
	// DefaultRequirements.
	Requirements Requirements

	// Drawer draws every frame. Nil clears to transparent black.
	Drawer Drawer

	// EGL defaults to the system library.
	EGL EGL

	// NewGL returns the GL context and its worker. It defaults to
	// gl.NewContext.
	NewGL func() (gl.Context, gl.Worker)
}

// defaultEGL and defaultGL are set in builds with cgo.
var (
	defaultEGL func() (EGL, error)
	defaultGL  func() (gl.Context, gl.Worker)
)

// Backend creates accelerated targets. All of its targets share one EGL
// display and one GL call queue.
type Backend struct {
	egl     EGL
	display egl.Display
	config  egl.Config
	chosen  bool
	req     Requirements
	drawer  Drawer

	glctx  gl.Context
	worker gl.Worker

	// current is the target whose context is current.
	current *target
	targets int

	log    *zap.Logger
	tracer trace.Tracer
	closed bool
}

var _ present.Backend = (*Backend)(nil)

// New initializes EGL on the session's display and binds the client API.
func New(s *present.Session, opts Options) (*Backend, error) {
	native, ok := s.Display().(Native)
	if !ok {
		return nil, ErrNoNativeDisplay
	}
	b := &Backend{
		egl:    opts.EGL,
		req:    opts.Requirements,
		drawer: opts.Drawer,
		log:    s.Logger().Named("accel"),
		tracer: s.Tracer(),
	}
	if b.req == (Requirements{}) {
		b.req = DefaultRequirements()
	}
	if b.drawer == nil {
		b.drawer = clearDrawer{}
	}
	if b.egl == nil {
		if defaultEGL == nil {
			return nil, errNoEGL
		}
		lib, err := defaultEGL()
		if err != nil {
			return nil, err
		}
		b.egl = lib
	}
	newGL := opts.NewGL
	if newGL == nil {
		if defaultGL == nil {
			return nil, errNoEGL
		}
		newGL = defaultGL
	}

	_, span := b.tracer.Start(context.Background(), "accel.init")
	defer span.End()
	d, err := b.egl.GetDisplay(native.Native())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("accel: %w", err)
	}
	major, minor, err := b.egl.Initialize(d)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("accel: %w", err)
	}
	b.display = d
	if err := b.egl.BindAPI(clientAPI); err != nil {
		b.egl.Terminate(d)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("accel: %w", err)
	}
	b.glctx, b.worker = newGL()
	span.SetAttributes(attribute.String("egl.version", fmt.Sprintf("%d.%d", major, minor)))
	b.log.Info("initialized EGL", zap.Int("major", major), zap.Int("minor", minor),
		zap.String("api", apiName))
	return b, nil
}

// ChooseConfig selects a config meeting req. When several do, the last one
// EGL enumerates is used; EGL sorts configs by its own preference and
// nothing here depends on which is picked.
func (b *Backend) ChooseConfig(req Requirements) (egl.Config, error) {
	configs, err := b.egl.ChooseConfig(b.display, configAttribs(req))
	if err != nil {
		return 0, fmt.Errorf("accel: %w", err)
	}
	if len(configs) == 0 {
		return 0, ErrNoConfig
	}
	c := configs[len(configs)-1]
	b.log.Debug("chose config", zap.Int("matches", len(configs)), zap.Uintptr("config", uintptr(c)))
	return c, nil
}

// Attach creates a window target for w: a wl_egl_window of w's size, a
// window surface over it and a context, which is made current. The
// backend's drawer is initialized before Attach returns.
func (b *Backend) Attach(w *present.Window) (present.DrawTarget, error) {
	return b.AttachDrawer(w, b.drawer)
}

// AttachDrawer is like Attach but draws w with d. Windows sharing a thread
// should share a Backend, which switches contexts between its targets.
func (b *Backend) AttachDrawer(w *present.Window, d Drawer) (present.DrawTarget, error) {
	if d == nil {
		d = clearDrawer{}
	}
	if b.closed {
		return nil, present.ErrDestroyed
	}
	ns, ok := w.Surface().(Native)
	if !ok {
		return nil, ErrNoNativeDisplay
	}
	_, span := b.tracer.Start(context.Background(), "attach.egl")
	defer span.End()
	fail := func(err error) (present.DrawTarget, error) {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !b.chosen {
		c, err := b.ChooseConfig(b.req)
		if err != nil {
			return fail(err)
		}
		b.config, b.chosen = c, true
	}

	t := &target{b: b, w: w, drawer: d}
	t.width, t.height = w.Size()
	var err error
	if t.win, err = b.egl.CreateWindow(ns.Native(), t.width, t.height); err != nil {
		return fail(fmt.Errorf("accel: %w", err))
	}
	if t.surf, err = b.egl.CreateWindowSurface(b.display, b.config, t.win); err != nil {
		b.egl.DestroyWindow(t.win)
		return fail(fmt.Errorf("accel: %w", err))
	}
	if t.ctx, err = b.egl.CreateContext(b.display, b.config, 0, contextAttribs); err != nil {
		b.egl.DestroySurface(b.display, t.surf)
		b.egl.DestroyWindow(t.win)
		return fail(fmt.Errorf("accel: %w", err))
	}
	if err := t.makeCurrent(); err != nil {
		t.release()
		return fail(err)
	}
	if err := b.run(func() error { return d.Init(b.glctx) }); err != nil {
		t.release()
		return fail(fmt.Errorf("accel: drawer init: %w", err))
	}
	t.inited = true
	if err := w.Attach(t); err != nil {
		t.release()
		return fail(err)
	}
	b.targets++
	b.log.Info("attached", zap.Uint32("surface", w.Surface().ID()),
		zap.Int("width", t.width), zap.Int("height", t.height))
	return t, nil
}

// run executes f, which makes GL calls, while pumping the GL worker on the
// calling goroutine. Every call f queued has been executed when run
// returns.
func (b *Backend) run(f func() error) error {
	done := make(chan error, 1)
	go func() { done <- f() }()
	work := b.worker.WorkAvailable()
	for {
		select {
		case <-work:
			b.worker.DoWork()
		case err := <-done:
			b.worker.DoWork()
			return err
		}
	}
}

// Close terminates the EGL display. Every target must have been destroyed.
func (b *Backend) Close() error {
	if b.closed {
		return present.ErrDestroyed
	}
	b.closed = true
	if b.targets > 0 {
		b.log.Warn("closing with live targets", zap.Int("targets", b.targets))
	}
	if err := b.egl.Terminate(b.display); err != nil {
		return fmt.Errorf("accel: %w", err)
	}
	b.log.Info("terminated EGL")
	return nil
}

type clearDrawer struct{}

func (clearDrawer) Init(gl.Context) error { return nil }
func (clearDrawer) Release(gl.Context)    {}

func (clearDrawer) Draw(glctx gl.Context, width, height int) {
	glctx.Viewport(0, 0, width, height)
	glctx.ClearColor(0, 0, 0, 0)
	glctx.Clear(gl.COLOR_BUFFER_BIT)
}
