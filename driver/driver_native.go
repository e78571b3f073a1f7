// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && cgo

package driver

import (
	"golang.org/x/exp/wlclient/driver/nativedriver"
	"golang.org/x/exp/wlclient/wl"
)

func init() {
	dialNative = func(name string) (wl.Display, error) {
		d, err := nativedriver.Dial(name)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}
