// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux || !cgo

package egl

// Lib is unusable in this build.
type Lib struct{}

// Open returns ErrUnavailable.
func Open() (*Lib, error) { return nil, ErrUnavailable }
