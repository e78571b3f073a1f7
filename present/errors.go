// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import "errors"

var (
	// ErrNoServer is returned by Connect when the compositor cannot be
	// reached.
	ErrNoServer = errors.New("present: cannot connect to display server")

	// ErrMissingCapability is returned when a global the caller needs was
	// not advertised.
	ErrMissingCapability = errors.New("present: missing capability")

	// ErrNoRuntimeDir is returned by NewShmBackend when XDG_RUNTIME_DIR is
	// unset.
	ErrNoRuntimeDir = errors.New("present: XDG_RUNTIME_DIR is not set")

	// ErrNotDiscovered is returned when surfaces are requested before a
	// successful DiscoverCapabilities.
	ErrNotDiscovered = errors.New("present: capabilities not discovered")

	// ErrTargetAttached is returned when destroying a Window whose
	// DrawTarget has not been destroyed, or attaching a second one.
	ErrTargetAttached = errors.New("present: draw target still attached")

	// ErrDestroyed is returned by operations on destroyed objects.
	ErrDestroyed = errors.New("present: already destroyed")
)
