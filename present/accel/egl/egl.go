// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package egl is a small binding to EGL 1.4 and wayland-egl.
//
// Only the calls needed to drive a single window surface are covered. The
// types and constants build everywhere; Open only succeeds in linux builds
// with cgo enabled.
package egl

import (
	"errors"
	"fmt"
)

// Handles returned by EGL. The zero value is EGL_NO_DISPLAY, EGL_NO_SURFACE
// and so on.
type (
	Display      uintptr
	Config       uintptr
	Surface      uintptr
	Context      uintptr
	NativeWindow uintptr
)

// Int is an EGLint, used for attribute lists.
type Int int32

// Enum is an EGLenum.
type Enum uint32

// Attributes and values, from egl.h.
const (
	None Int = 0x3038

	AlphaSize            Int = 0x3021
	BlueSize             Int = 0x3022
	GreenSize            Int = 0x3023
	RedSize              Int = 0x3024
	SurfaceType          Int = 0x3033
	RenderableType       Int = 0x3040
	ContextClientVersion Int = 0x3098

	WindowBit    Int = 0x0004
	OpenGLES2Bit Int = 0x0004
	OpenGLBit    Int = 0x0008
)

// Client APIs for BindAPI.
const (
	OpenGLESAPI Enum = 0x30A0
	OpenGLAPI   Enum = 0x30A2
)

// Error is an EGL error code, as returned by eglGetError.
type Error Int

const (
	Success           Error = 0x3000
	NotInitialized    Error = 0x3001
	BadAccess         Error = 0x3002
	BadAlloc          Error = 0x3003
	BadAttribute      Error = 0x3004
	BadConfig         Error = 0x3005
	BadContext        Error = 0x3006
	BadCurrentSurface Error = 0x3007
	BadDisplay        Error = 0x3008
	BadMatch          Error = 0x3009
	BadNativePixmap   Error = 0x300A
	BadNativeWindow   Error = 0x300B
	BadParameter      Error = 0x300C
	BadSurface        Error = 0x300D
	ContextLost       Error = 0x300E
)

var errorNames = map[Error]string{
	Success:           "EGL_SUCCESS",
	NotInitialized:    "EGL_NOT_INITIALIZED",
	BadAccess:         "EGL_BAD_ACCESS",
	BadAlloc:          "EGL_BAD_ALLOC",
	BadAttribute:      "EGL_BAD_ATTRIBUTE",
	BadConfig:         "EGL_BAD_CONFIG",
	BadContext:        "EGL_BAD_CONTEXT",
	BadCurrentSurface: "EGL_BAD_CURRENT_SURFACE",
	BadDisplay:        "EGL_BAD_DISPLAY",
	BadMatch:          "EGL_BAD_MATCH",
	BadNativePixmap:   "EGL_BAD_NATIVE_PIXMAP",
	BadNativeWindow:   "EGL_BAD_NATIVE_WINDOW",
	BadParameter:      "EGL_BAD_PARAMETER",
	BadSurface:        "EGL_BAD_SURFACE",
	ContextLost:       "EGL_CONTEXT_LOST",
}

func (e Error) Error() string {
	if s, ok := errorNames[e]; ok {
		return s
	}
	return fmt.Sprintf("EGL error %#x", int32(e))
}

// ErrUnavailable is returned by Open in builds without the cgo binding.
var ErrUnavailable = errors.New("egl: not available in this build (needs linux and cgo)")

// callError wraps the error code of a failed call.
func callError(call string, code Error) error {
	return fmt.Errorf("egl: %s: %w", call, code)
}
