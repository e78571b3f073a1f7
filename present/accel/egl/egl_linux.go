// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && cgo

package egl

/*
#cgo pkg-config: egl wayland-egl
#cgo CFLAGS: -DWL_EGL_PLATFORM=1

#include <stdint.h>
#include <EGL/egl.h>
#include <wayland-egl.h>

static uintptr_t getDisplay(uintptr_t native) {
	return (uintptr_t)eglGetDisplay((EGLNativeDisplayType)native);
}

static EGLBoolean initialize(uintptr_t dpy, EGLint *major, EGLint *minor) {
	return eglInitialize((EGLDisplay)dpy, major, minor);
}

static EGLBoolean chooseConfig(uintptr_t dpy, const EGLint *attribs, uintptr_t *configs, EGLint size, EGLint *n) {
	return eglChooseConfig((EGLDisplay)dpy, attribs, (EGLConfig *)configs, size, n);
}

static uintptr_t createWindowSurface(uintptr_t dpy, uintptr_t config, uintptr_t win) {
	return (uintptr_t)eglCreateWindowSurface((EGLDisplay)dpy, (EGLConfig)config, (EGLNativeWindowType)win, NULL);
}

static uintptr_t createContext(uintptr_t dpy, uintptr_t config, uintptr_t share, const EGLint *attribs) {
	return (uintptr_t)eglCreateContext((EGLDisplay)dpy, (EGLConfig)config, (EGLContext)share, attribs);
}

static EGLBoolean makeCurrent(uintptr_t dpy, uintptr_t draw, uintptr_t read, uintptr_t ctx) {
	return eglMakeCurrent((EGLDisplay)dpy, (EGLSurface)draw, (EGLSurface)read, (EGLContext)ctx);
}

static EGLBoolean swapBuffers(uintptr_t dpy, uintptr_t surf) {
	return eglSwapBuffers((EGLDisplay)dpy, (EGLSurface)surf);
}

static EGLBoolean destroySurface(uintptr_t dpy, uintptr_t surf) {
	return eglDestroySurface((EGLDisplay)dpy, (EGLSurface)surf);
}

static EGLBoolean destroyContext(uintptr_t dpy, uintptr_t ctx) {
	return eglDestroyContext((EGLDisplay)dpy, (EGLContext)ctx);
}

static EGLBoolean terminate(uintptr_t dpy) {
	return eglTerminate((EGLDisplay)dpy);
}

static uintptr_t windowCreate(uintptr_t surface, int width, int height) {
	return (uintptr_t)wl_egl_window_create((struct wl_surface *)surface, width, height);
}

static void windowResize(uintptr_t win, int width, int height, int dx, int dy) {
	wl_egl_window_resize((struct wl_egl_window *)win, width, height, dx, dy);
}

static void windowDestroy(uintptr_t win) {
	wl_egl_window_destroy((struct wl_egl_window *)win);
}
*/
import "C"

import "unsafe"

// Lib calls the system's libEGL and libwayland-egl.
type Lib struct{}

// Open returns the system binding.
func Open() (*Lib, error) { return &Lib{}, nil }

func lastError(call string) error {
	return callError(call, Error(C.eglGetError()))
}

func attribPtr(attribs []Int) *C.EGLint {
	if len(attribs) == 0 {
		return nil
	}
	return (*C.EGLint)(unsafe.Pointer(&attribs[0]))
}

// GetDisplay returns the EGL display for a native display, here a struct
// wl_display pointer.
func (*Lib) GetDisplay(native uintptr) (Display, error) {
	d := Display(C.getDisplay(C.uintptr_t(native)))
	if d == 0 {
		return 0, lastError("eglGetDisplay")
	}
	return d, nil
}

func (*Lib) Initialize(d Display) (major, minor int, err error) {
	var maj, min C.EGLint
	if C.initialize(C.uintptr_t(d), &maj, &min) == C.EGL_FALSE {
		return 0, 0, lastError("eglInitialize")
	}
	return int(maj), int(min), nil
}

func (*Lib) BindAPI(api Enum) error {
	if C.eglBindAPI(C.EGLenum(api)) == C.EGL_FALSE {
		return lastError("eglBindAPI")
	}
	return nil
}

// ChooseConfig returns every config matching attribs, in EGL's order.
// attribs must end with None.
func (*Lib) ChooseConfig(d Display, attribs []Int) ([]Config, error) {
	var n C.EGLint
	if C.chooseConfig(C.uintptr_t(d), attribPtr(attribs), nil, 0, &n) == C.EGL_FALSE {
		return nil, lastError("eglChooseConfig")
	}
	if n == 0 {
		return nil, nil
	}
	configs := make([]Config, n)
	if C.chooseConfig(C.uintptr_t(d), attribPtr(attribs), (*C.uintptr_t)(unsafe.Pointer(&configs[0])), n, &n) == C.EGL_FALSE {
		return nil, lastError("eglChooseConfig")
	}
	return configs[:n], nil
}

func (*Lib) CreateWindowSurface(d Display, c Config, win NativeWindow) (Surface, error) {
	s := Surface(C.createWindowSurface(C.uintptr_t(d), C.uintptr_t(c), C.uintptr_t(win)))
	if s == 0 {
		return 0, lastError("eglCreateWindowSurface")
	}
	return s, nil
}

func (*Lib) CreateContext(d Display, c Config, share Context, attribs []Int) (Context, error) {
	ctx := Context(C.createContext(C.uintptr_t(d), C.uintptr_t(c), C.uintptr_t(share), attribPtr(attribs)))
	if ctx == 0 {
		return 0, lastError("eglCreateContext")
	}
	return ctx, nil
}

func (*Lib) MakeCurrent(d Display, draw, read Surface, c Context) error {
	if C.makeCurrent(C.uintptr_t(d), C.uintptr_t(draw), C.uintptr_t(read), C.uintptr_t(c)) == C.EGL_FALSE {
		return lastError("eglMakeCurrent")
	}
	return nil
}

func (*Lib) SwapBuffers(d Display, s Surface) error {
	if C.swapBuffers(C.uintptr_t(d), C.uintptr_t(s)) == C.EGL_FALSE {
		return lastError("eglSwapBuffers")
	}
	return nil
}

func (*Lib) DestroySurface(d Display, s Surface) error {
	if C.destroySurface(C.uintptr_t(d), C.uintptr_t(s)) == C.EGL_FALSE {
		return lastError("eglDestroySurface")
	}
	return nil
}

func (*Lib) DestroyContext(d Display, c Context) error {
	if C.destroyContext(C.uintptr_t(d), C.uintptr_t(c)) == C.EGL_FALSE {
		return lastError("eglDestroyContext")
	}
	return nil
}

func (*Lib) Terminate(d Display) error {
	if C.terminate(C.uintptr_t(d)) == C.EGL_FALSE {
		return lastError("eglTerminate")
	}
	return nil
}

// CreateWindow creates a wl_egl_window for a struct wl_surface pointer.
func (*Lib) CreateWindow(surface uintptr, width, height int) (NativeWindow, error) {
	w := NativeWindow(C.windowCreate(C.uintptr_t(surface), C.int(width), C.int(height)))
	if w == 0 {
		return 0, callError("wl_egl_window_create", BadNativeWindow)
	}
	return w, nil
}

func (*Lib) ResizeWindow(win NativeWindow, width, height, dx, dy int) {
	C.windowResize(C.uintptr_t(win), C.int(width), C.int(height), C.int(dx), C.int(dy))
}

func (*Lib) DestroyWindow(win NativeWindow) {
	C.windowDestroy(C.uintptr_t(win))
}
