// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !egl_desktop

package accel

import "golang.org/x/exp/wlclient/present/accel/egl"

const (
	clientAPI = egl.OpenGLESAPI
	apiName   = "gles2"
)

var contextAttribs = []egl.Int{egl.ContextClientVersion, 2, egl.None}

// configAttribs asks for a window-capable ES 2 config with at least the
// requested depths, alpha included.
func configAttribs(req Requirements) []egl.Int {
	return []egl.Int{
		egl.SurfaceType, egl.WindowBit,
		egl.RedSize, egl.Int(req.Red),
		egl.GreenSize, egl.Int(req.Green),
		egl.BlueSize, egl.Int(req.Blue),
		egl.AlphaSize, egl.Int(req.Alpha),
		egl.RenderableType, egl.OpenGLES2Bit,
		egl.None,
	}
}
