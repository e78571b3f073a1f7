// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build egl_desktop

package accel

import "golang.org/x/exp/wlclient/present/accel/egl"

const (
	clientAPI = egl.OpenGLAPI
	apiName   = "opengl"
)

var contextAttribs []egl.Int

// configAttribs asks for the requested color depths only. Alpha and the
// renderable type are left to EGL.
func configAttribs(req Requirements) []egl.Int {
	return []egl.Int{
		egl.RedSize, egl.Int(req.Red),
		egl.GreenSize, egl.Int(req.Green),
		egl.BlueSize, egl.Int(req.Blue),
		egl.None,
	}
}
