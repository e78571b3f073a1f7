// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver picks a wl.Display implementation.
//
// The wire driver speaks the protocol in pure Go and works everywhere unix
// sockets do. The native driver wraps libwayland-client and is required by
// the accelerated backend, which hands libwayland pointers to EGL. It is only
// available in linux builds with cgo enabled.
package driver

import (
	"errors"
	"fmt"

	"golang.org/x/exp/wlclient/driver/wiredriver"
	"golang.org/x/exp/wlclient/wl"
)

// Kind selects a driver.
type Kind int

const (
	// Auto uses the native driver when it was compiled in, and the wire
	// driver otherwise.
	Auto Kind = iota
	Wire
	Native
)

func (k Kind) String() string {
	switch k {
	case Auto:
		return "auto"
	case Wire:
		return "wire"
	case Native:
		return "native"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses the String form of a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "auto", "":
		return Auto, nil
	case "wire":
		return Wire, nil
	case "native":
		return Native, nil
	}
	return 0, fmt.Errorf("driver: unknown driver %q", s)
}

// ErrNativeUnavailable is returned when the native driver is requested from
// a binary built without it.
var ErrNativeUnavailable = errors.New("driver: native driver not compiled in (needs linux and cgo)")

// HasNative reports whether the native driver was compiled in.
func HasNative() bool { return dialNative != nil }

// dialNative is set by driver_native.go.
var dialNative func(name string) (wl.Display, error)

// Dial connects to the compositor named name with the driver k. An empty
// name means $WAYLAND_DISPLAY.
func Dial(k Kind, name string) (wl.Display, error) {
	switch k {
	case Auto:
		if dialNative != nil {
			return dialNative(name)
		}
		return dialWire(name)
	case Wire:
		return dialWire(name)
	case Native:
		if dialNative == nil {
			return nil, ErrNativeUnavailable
		}
		return dialNative(name)
	}
	return nil, fmt.Errorf("driver: invalid kind %v", k)
}

func dialWire(name string) (wl.Display, error) {
	d, err := wiredriver.Dial(name)
	if err != nil {
		return nil, err
	}
	return d, nil
}
