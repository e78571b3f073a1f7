// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && cgo

// Package nativedriver implements the wl interfaces on top of
// libwayland-client.
//
// Unlike wiredriver, its Display and Surfaces expose the underlying
// libwayland pointers through a Native method, which is what EGL's
// wayland platform consumes.
package nativedriver

/*
#cgo pkg-config: wayland-client

#include <errno.h>
#include <stdlib.h>
#include "native.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime/cgo"
	"unsafe"

	"golang.org/x/exp/wlclient/wl"
)

// Dial connects to the compositor named name, or to $WAYLAND_DISPLAY if name
// is empty.
func Dial(name string) (*Display, error) {
	var cname *C.char
	if name != "" {
		cname = C.CString(name)
		defer C.free(unsafe.Pointer(cname))
	}
	d := C.wl_display_connect(cname)
	if d == nil {
		return nil, errors.New("nativedriver: wl_display_connect failed")
	}
	return &Display{d: d}, nil
}

// Display implements wl.Display.
type Display struct {
	d *C.struct_wl_display
}

var _ wl.Display = (*Display)(nil)

// Native returns the struct wl_display pointer.
func (d *Display) Native() uintptr { return uintptr(unsafe.Pointer(d.d)) }

// err converts libwayland's sticky error state into a Go error.
func (d *Display) err(op string) error {
	code := C.wl_display_get_error(d.d)
	if code == 0 {
		return fmt.Errorf("nativedriver: %s failed", op)
	}
	if code == C.EPROTO {
		var id C.uint32_t
		var iface *C.char
		pcode := C.wlclient_protocol_error(d.d, &id, &iface)
		return &wl.ProtocolError{
			ObjectID: uint32(id),
			Code:     uint32(pcode),
			Message:  fmt.Sprintf("%s: %s", op, C.GoString(iface)),
		}
	}
	return fmt.Errorf("nativedriver: %s: errno %d", op, int(code))
}

func (d *Display) Registry(l wl.RegistryListener) (wl.Registry, error) {
	r := C.wl_display_get_registry(d.d)
	if r == nil {
		return nil, d.err("wl_display_get_registry")
	}
	h := cgo.NewHandle(l)
	C.wlclient_registry_add_listener(r, C.uintptr_t(h))
	return &registry{r: r, h: h}, nil
}

func (d *Display) Roundtrip() error {
	if C.wl_display_roundtrip(d.d) < 0 {
		return d.err("wl_display_roundtrip")
	}
	return nil
}

func (d *Display) DispatchPending() error {
	if C.wlclient_dispatch_pending(d.d) < 0 {
		return d.err("dispatch")
	}
	return nil
}

func (d *Display) Flush() error {
	if C.wl_display_flush(d.d) < 0 {
		return d.err("wl_display_flush")
	}
	return nil
}

func (d *Display) Close() error {
	if d.d == nil {
		return errors.New("nativedriver: display is closed")
	}
	C.wl_display_disconnect(d.d)
	d.d = nil
	return nil
}

type registry struct {
	r *C.struct_wl_registry
	h cgo.Handle
}

//export wlclientRegistryGlobal
func wlclientRegistryGlobal(h C.uintptr_t, name C.uint32_t, iface *C.char, version C.uint32_t) {
	l := cgo.Handle(h).Value().(wl.RegistryListener)
	if l.Global != nil {
		l.Global(wl.Global{Name: uint32(name), Interface: C.GoString(iface), Version: uint32(version)})
	}
}

//export wlclientRegistryGlobalRemove
func wlclientRegistryGlobalRemove(h C.uintptr_t, name C.uint32_t) {
	l := cgo.Handle(h).Value().(wl.RegistryListener)
	if l.GlobalRemove != nil {
		l.GlobalRemove(uint32(name))
	}
}

func (r *registry) bind(name uint32, iface *C.struct_wl_interface, version uint32) unsafe.Pointer {
	return C.wl_registry_bind(r.r, C.uint32_t(name), iface, C.uint32_t(version))
}

func (r *registry) BindCompositor(name, version uint32) (wl.Compositor, error) {
	p := r.bind(name, &C.wl_compositor_interface, version)
	if p == nil {
		return nil, errors.New("nativedriver: bind wl_compositor failed")
	}
	return &compositor{c: (*C.struct_wl_compositor)(p)}, nil
}

func (r *registry) BindShell(name, version uint32) (wl.Shell, error) {
	p := r.bind(name, &C.wl_shell_interface, version)
	if p == nil {
		return nil, errors.New("nativedriver: bind wl_shell failed")
	}
	return &shell{s: (*C.struct_wl_shell)(p)}, nil
}

func (r *registry) BindShm(name, version uint32, format func(wl.ShmFormat)) (wl.Shm, error) {
	p := r.bind(name, &C.wl_shm_interface, version)
	if p == nil {
		return nil, errors.New("nativedriver: bind wl_shm failed")
	}
	s := &shm{s: (*C.struct_wl_shm)(p)}
	if format != nil {
		s.h = cgo.NewHandle(format)
		C.wlclient_shm_add_listener(s.s, C.uintptr_t(s.h))
	}
	return s, nil
}

func (r *registry) BindSubcompositor(name, version uint32) (wl.Subcompositor, error) {
	p := r.bind(name, &C.wl_subcompositor_interface, version)
	if p == nil {
		return nil, errors.New("nativedriver: bind wl_subcompositor failed")
	}
	return &subcompositor{s: (*C.struct_wl_subcompositor)(p)}, nil
}

func (r *registry) Destroy() error {
	C.wl_registry_destroy(r.r)
	r.h.Delete()
	return nil
}

type compositor struct {
	c *C.struct_wl_compositor
}

func (c *compositor) CreateSurface() (wl.Surface, error) {
	s := C.wl_compositor_create_surface(c.c)
	if s == nil {
		return nil, errors.New("nativedriver: wl_compositor_create_surface failed")
	}
	return &Surface{s: s}, nil
}

func (c *compositor) Destroy() error {
	C.wl_compositor_destroy(c.c)
	return nil
}

// Surface implements wl.Surface.
type Surface struct {
	s *C.struct_wl_surface
}

// Native returns the struct wl_surface pointer.
func (s *Surface) Native() uintptr { return uintptr(unsafe.Pointer(s.s)) }

func (s *Surface) ID() uint32 {
	return uint32(C.wl_proxy_get_id((*C.struct_wl_proxy)(unsafe.Pointer(s.s))))
}

func (s *Surface) Attach(b wl.Buffer, x, y int32) error {
	var cb *C.struct_wl_buffer
	if b != nil {
		nb, ok := b.(*buffer)
		if !ok {
			return fmt.Errorf("nativedriver: foreign buffer %T", b)
		}
		cb = nb.b
	}
	C.wl_surface_attach(s.s, cb, C.int32_t(x), C.int32_t(y))
	return nil
}

func (s *Surface) Damage(x, y, width, height int32) error {
	C.wl_surface_damage(s.s, C.int32_t(x), C.int32_t(y), C.int32_t(width), C.int32_t(height))
	return nil
}

func (s *Surface) Commit() error {
	C.wl_surface_commit(s.s)
	return nil
}

func (s *Surface) Destroy() error {
	C.wl_surface_destroy(s.s)
	return nil
}

func nativeSurface(s wl.Surface) (*C.struct_wl_surface, error) {
	ns, ok := s.(*Surface)
	if !ok {
		return nil, fmt.Errorf("nativedriver: foreign surface %T", s)
	}
	return ns.s, nil
}

type shell struct {
	s *C.struct_wl_shell
}

func (s *shell) GetShellSurface(surf wl.Surface, l wl.ShellSurfaceListener) (wl.ShellSurface, error) {
	cs, err := nativeSurface(surf)
	if err != nil {
		return nil, err
	}
	ss := C.wl_shell_get_shell_surface(s.s, cs)
	if ss == nil {
		return nil, errors.New("nativedriver: wl_shell_get_shell_surface failed")
	}
	h := cgo.NewHandle(l)
	C.wlclient_shell_surface_add_listener(ss, C.uintptr_t(h))
	return &shellSurface{s: ss, h: h}, nil
}

func (s *shell) Destroy() error {
	C.wl_shell_destroy(s.s)
	return nil
}

type shellSurface struct {
	s *C.struct_wl_shell_surface
	h cgo.Handle
}

//export wlclientShellSurfacePing
func wlclientShellSurfacePing(h C.uintptr_t, serial C.uint32_t) {
	if l := cgo.Handle(h).Value().(wl.ShellSurfaceListener); l.Ping != nil {
		l.Ping(uint32(serial))
	}
}

//export wlclientShellSurfaceConfigure
func wlclientShellSurfaceConfigure(h C.uintptr_t, edges C.uint32_t, width, height C.int32_t) {
	if l := cgo.Handle(h).Value().(wl.ShellSurfaceListener); l.Configure != nil {
		l.Configure(wl.ResizeEdge(edges), int32(width), int32(height))
	}
}

//export wlclientShellSurfacePopupDone
func wlclientShellSurfacePopupDone(h C.uintptr_t) {
	if l := cgo.Handle(h).Value().(wl.ShellSurfaceListener); l.PopupDone != nil {
		l.PopupDone()
	}
}

func (s *shellSurface) Pong(serial uint32) error {
	C.wl_shell_surface_pong(s.s, C.uint32_t(serial))
	return nil
}

func (s *shellSurface) SetToplevel() error {
	C.wl_shell_surface_set_toplevel(s.s)
	return nil
}

func (s *shellSurface) SetTitle(title string) error {
	ct := C.CString(title)
	defer C.free(unsafe.Pointer(ct))
	C.wl_shell_surface_set_title(s.s, ct)
	return nil
}

func (s *shellSurface) SetClass(class string) error {
	cc := C.CString(class)
	defer C.free(unsafe.Pointer(cc))
	C.wl_shell_surface_set_class(s.s, cc)
	return nil
}

func (s *shellSurface) Destroy() error {
	C.wl_shell_surface_destroy(s.s)
	s.h.Delete()
	return nil
}

type shm struct {
	s *C.struct_wl_shm
	h cgo.Handle
}

//export wlclientShmFormat
func wlclientShmFormat(h C.uintptr_t, format C.uint32_t) {
	cgo.Handle(h).Value().(func(wl.ShmFormat))(wl.ShmFormat(format))
}

func (s *shm) CreatePool(fd int, size int32) (wl.ShmPool, error) {
	p := C.wl_shm_create_pool(s.s, C.int32_t(fd), C.int32_t(size))
	if p == nil {
		return nil, errors.New("nativedriver: wl_shm_create_pool failed")
	}
	return &shmPool{p: p}, nil
}

func (s *shm) Destroy() error {
	C.wl_shm_destroy(s.s)
	if s.h != 0 {
		s.h.Delete()
	}
	return nil
}

type shmPool struct {
	p *C.struct_wl_shm_pool
}

func (p *shmPool) CreateBuffer(offset, width, height, stride int32, format wl.ShmFormat) (wl.Buffer, error) {
	b := C.wl_shm_pool_create_buffer(p.p, C.int32_t(offset), C.int32_t(width), C.int32_t(height), C.int32_t(stride), C.uint32_t(format))
	if b == nil {
		return nil, errors.New("nativedriver: wl_shm_pool_create_buffer failed")
	}
	return &buffer{b: b}, nil
}

func (p *shmPool) Destroy() error {
	C.wl_shm_pool_destroy(p.p)
	return nil
}

type buffer struct {
	b       *C.struct_wl_buffer
	h       cgo.Handle
	release func()
}

//export wlclientBufferRelease
func wlclientBufferRelease(h C.uintptr_t) {
	if b := cgo.Handle(h).Value().(*buffer); b.release != nil {
		b.release()
	}
}

func (b *buffer) ID() uint32 {
	return uint32(C.wl_proxy_get_id((*C.struct_wl_proxy)(unsafe.Pointer(b.b))))
}

func (b *buffer) OnRelease(f func()) {
	b.release = f
	if b.h == 0 {
		b.h = cgo.NewHandle(b)
		C.wlclient_buffer_add_listener(b.b, C.uintptr_t(b.h))
	}
}

func (b *buffer) Destroy() error {
	C.wl_buffer_destroy(b.b)
	if b.h != 0 {
		b.h.Delete()
	}
	return nil
}

type subcompositor struct {
	s *C.struct_wl_subcompositor
}

func (s *subcompositor) GetSubsurface(surf, parent wl.Surface) (wl.Subsurface, error) {
	cs, err := nativeSurface(surf)
	if err != nil {
		return nil, err
	}
	cp, err := nativeSurface(parent)
	if err != nil {
		return nil, err
	}
	ss := C.wl_subcompositor_get_subsurface(s.s, cs, cp)
	if ss == nil {
		return nil, errors.New("nativedriver: wl_subcompositor_get_subsurface failed")
	}
	return &subsurface{s: ss}, nil
}

func (s *subcompositor) Destroy() error {
	C.wl_subcompositor_destroy(s.s)
	return nil
}

type subsurface struct {
	s *C.struct_wl_subsurface
}

func (s *subsurface) SetPosition(x, y int32) error {
	C.wl_subsurface_set_position(s.s, C.int32_t(x), C.int32_t(y))
	return nil
}

func (s *subsurface) PlaceAbove(sibling wl.Surface) error {
	cs, err := nativeSurface(sibling)
	if err != nil {
		return err
	}
	C.wl_subsurface_place_above(s.s, cs)
	return nil
}

func (s *subsurface) PlaceBelow(sibling wl.Surface) error {
	cs, err := nativeSurface(sibling)
	if err != nil {
		return err
	}
	C.wl_subsurface_place_below(s.s, cs)
	return nil
}

func (s *subsurface) SetSync() error {
	C.wl_subsurface_set_sync(s.s)
	return nil
}

func (s *subsurface) SetDesync() error {
	C.wl_subsurface_set_desync(s.s)
	return nil
}

func (s *subsurface) Destroy() error {
	C.wl_subsurface_destroy(s.s)
	return nil
}
