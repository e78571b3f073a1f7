// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wl provides interfaces for the subset of the Wayland core protocol
// that a simple presentation client needs: the registry, surfaces, the
// wl_shell toplevel role, shared memory buffers and sub-surfaces.
//
// Displays are not created directly. Instead, driver packages provide a
// Display: golang.org/x/exp/wlclient/driver/wiredriver speaks the wire
// protocol in pure Go, and golang.org/x/exp/wlclient/driver/nativedriver goes
// through libwayland-client, which is what EGL needs. The
// golang.org/x/exp/wlclient/driver package chooses between them:
//
//	d, err := driver.Dial(driver.Auto, "")
//	if err != nil {
//		handleError(err)
//		return
//	}
//	defer d.Close()
//
//	r, err := d.Registry(wl.RegistryListener{
//		Global: func(g wl.Global) { ... },
//	})
//	...
//	if err := d.Roundtrip(); err != nil {
//		handleError(err)
//	}
//
// All objects belong to the Display that created them and must only be used
// from one goroutine at a time. Event listeners run synchronously, from
// within Roundtrip or DispatchPending.
package wl

import "fmt"

// Interface names of the globals this package knows how to bind.
const (
	CompositorInterface    = "wl_compositor"
	ShellInterface         = "wl_shell"
	ShmInterface           = "wl_shm"
	SubcompositorInterface = "wl_subcompositor"
)

// Global is a global object advertised by the compositor's registry.
type Global struct {
	// Name is the numeric name the registry uses to identify the global.
	Name uint32
	// Interface is the protocol interface name, such as "wl_compositor".
	Interface string
	// Version is the highest version the compositor supports.
	Version uint32
}

func (g Global) String() string {
	return fmt.Sprintf("%s#%d (v%d)", g.Interface, g.Name, g.Version)
}

// RegistryListener receives wl_registry events. Nil fields are ignored.
type RegistryListener struct {
	// Global is called once for every advertised global.
	Global func(g Global)
	// GlobalRemove is called when a previously advertised global goes away.
	GlobalRemove func(name uint32)
}

// Display is a connection to a Wayland compositor.
type Display interface {
	// Registry issues wl_display.get_registry and installs l on the new
	// registry. Globals are only delivered by a later Roundtrip or
	// DispatchPending.
	Registry(l RegistryListener) (Registry, error)

	// Roundtrip flushes queued requests and blocks until the compositor has
	// processed all of them, dispatching every event received meanwhile.
	Roundtrip() error

	// DispatchPending flushes queued requests and dispatches whatever events
	// are already available, without blocking for more.
	DispatchPending() error

	// Flush sends queued requests to the compositor.
	Flush() error

	// Close disconnects from the compositor. Objects created from the
	// Display must not be used afterwards.
	Close() error
}

// Registry binds advertised globals. Each Bind method must be given the name
// of a global of the matching interface.
type Registry interface {
	BindCompositor(name, version uint32) (Compositor, error)
	BindShell(name, version uint32) (Shell, error)
	// BindShm binds wl_shm. format, if non-nil, is called for every pixel
	// format the compositor advertises.
	BindShm(name, version uint32, format func(ShmFormat)) (Shm, error)
	BindSubcompositor(name, version uint32) (Subcompositor, error)

	// Destroy releases the client side of the registry. The protocol has no
	// destructor request for wl_registry.
	Destroy() error
}

// Compositor creates surfaces.
type Compositor interface {
	CreateSurface() (Surface, error)
	// Destroy releases the client side of the compositor object.
	Destroy() error
}

// Surface is a wl_surface: a rectangular area that buffers are attached to.
type Surface interface {
	// ID returns the protocol object id, for logging.
	ID() uint32
	// Attach attaches b as the surface's next content. A nil b detaches.
	Attach(b Buffer, x, y int32) error
	// Damage marks a region, in surface coordinates, as changed.
	Damage(x, y, width, height int32) error
	// Commit atomically applies the pending state.
	Commit() error
	Destroy() error
}

// ShellSurfaceListener receives wl_shell_surface events. Nil fields are
// ignored, except that a nil Ping leaves the client unresponsive.
type ShellSurfaceListener struct {
	// Ping must be answered promptly with Pong(serial).
	Ping func(serial uint32)
	// Configure suggests a new size for the surface. edges tells which
	// edge is being dragged, if any.
	Configure func(edges ResizeEdge, width, height int32)
	// PopupDone is sent when a popup grab is broken.
	PopupDone func()
}

// Shell gives surfaces the wl_shell_surface role.
type Shell interface {
	GetShellSurface(s Surface, l ShellSurfaceListener) (ShellSurface, error)
	// Destroy releases the client side of the shell object.
	Destroy() error
}

// ShellSurface is a wl_shell_surface.
type ShellSurface interface {
	Pong(serial uint32) error
	// SetToplevel maps the surface as a standalone top-level window.
	SetToplevel() error
	SetTitle(title string) error
	SetClass(class string) error
	// Destroy releases the client side of the role object. The protocol
	// has no destructor request; the role ends with its surface.
	Destroy() error
}

// Shm creates shared memory pools.
type Shm interface {
	// CreatePool shares the first size bytes of the file open as fd with
	// the compositor. The caller keeps ownership of fd.
	CreatePool(fd int, size int32) (ShmPool, error)
	// Destroy releases the client side of the shm object.
	Destroy() error
}

// ShmPool is a wl_shm_pool.
type ShmPool interface {
	CreateBuffer(offset, width, height, stride int32, format ShmFormat) (Buffer, error)
	// Destroy destroys the pool. Buffers created from it stay valid.
	Destroy() error
}

// Buffer is a wl_buffer.
type Buffer interface {
	// ID returns the protocol object id, for logging.
	ID() uint32
	// OnRelease installs a function called when the compositor no longer
	// reads from the buffer.
	OnRelease(f func())
	Destroy() error
}

// Subcompositor turns surfaces into sub-surfaces of other surfaces.
type Subcompositor interface {
	GetSubsurface(surface, parent Surface) (Subsurface, error)
	Destroy() error
}

// Subsurface is a wl_subsurface: the role relating a surface to its parent.
type Subsurface interface {
	// SetPosition sets the position relative to the parent's top-left
	// corner. It takes effect on the parent's next commit.
	SetPosition(x, y int32) error
	PlaceAbove(sibling Surface) error
	PlaceBelow(sibling Surface) error
	SetSync() error
	SetDesync() error
	Destroy() error
}

// ResizeEdge is the edge argument of wl_shell_surface.configure.
type ResizeEdge uint32

const (
	ResizeNone        ResizeEdge = 0
	ResizeTop         ResizeEdge = 1
	ResizeBottom      ResizeEdge = 2
	ResizeLeft        ResizeEdge = 4
	ResizeTopLeft     ResizeEdge = 5
	ResizeBottomLeft  ResizeEdge = 6
	ResizeRight       ResizeEdge = 8
	ResizeTopRight    ResizeEdge = 9
	ResizeBottomRight ResizeEdge = 10
)

// ShmFormat is a wl_shm pixel format.
type ShmFormat uint32

const (
	// ShmFormatARGB8888 is 32-bit ARGB, native endian, premultiplied.
	ShmFormatARGB8888 ShmFormat = 0
	// ShmFormatXRGB8888 is 32-bit RGB with the top byte ignored.
	ShmFormatXRGB8888 ShmFormat = 1
)

func (f ShmFormat) String() string {
	switch f {
	case ShmFormatARGB8888:
		return "argb8888"
	case ShmFormatXRGB8888:
		return "xrgb8888"
	}
	// Other formats are DRM fourcc codes.
	return fmt.Sprintf("fourcc(%c%c%c%c)", byte(f), byte(f>>8), byte(f>>16), byte(f>>24))
}

// ProtocolError is a fatal wl_display.error event. The connection is unusable
// after one is received.
type ProtocolError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wl: protocol error on object %d, code %d: %s", e.ObjectID, e.Code, e.Message)
}
