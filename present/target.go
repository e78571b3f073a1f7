// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

// DrawTarget is what a window's content is drawn into each frame.
type DrawTarget interface {
	// Size returns the extent the next Present draws at.
	Size() (width, height int)

	// Resize changes the extent, keeping the origin at (0, 0).
	Resize(width, height int) error

	// Present draws the current frame and hands it to the compositor.
	Present() error

	// Destroy releases the target's resources and detaches it from its
	// window.
	Destroy() error
}

// Backend produces DrawTargets for windows.
type Backend interface {
	// Attach creates a DrawTarget for w and attaches it.
	Attach(w *Window) (DrawTarget, error)

	// Close releases resources shared by the backend's targets. It is
	// called after every target has been destroyed.
	Close() error
}

// Painter fills CPU-side frames. pix holds height rows of stride bytes, each
// pixel a native-endian 32-bit premultiplied ARGB value. A painter that
// fails leaves the frame unpresented.
type Painter interface {
	Paint(pix []byte, width, height, stride int) error
}

// PainterFunc adapts a function to the Painter interface.
type PainterFunc func(pix []byte, width, height, stride int) error

func (f PainterFunc) Paint(pix []byte, width, height, stride int) error {
	return f(pix, width, height, stride)
}
