// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && cgo

package accel

import (
	"golang.org/x/mobile/gl"

	"golang.org/x/exp/wlclient/present/accel/egl"
)

func init() {
	defaultEGL = func() (EGL, error) {
		lib, err := egl.Open()
		if err != nil {
			return nil, err
		}
		return lib, nil
	}
	defaultGL = gl.NewContext
}
