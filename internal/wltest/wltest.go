// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wltest provides an in-memory wl.Display that plays the
// compositor's part: it advertises scripted globals, records every request
// and delivers events injected by the test.
package wltest

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"golang.org/x/exp/wlclient/wl"
)

// NativeBase is added to object ids to make fake native pointers.
const NativeBase = 0x10000

// NativeDisplay is a Display that also claims to be backed by libwayland.
type NativeDisplay struct {
	*Display
}

// Native returns a fake struct wl_display pointer.
func (NativeDisplay) Native() uintptr { return NativeBase + 1 }

// Display is a fake compositor connection. The zero value advertises no
// globals.
type Display struct {
	// Globals are advertised on the first Roundtrip or DispatchPending
	// after Registry is called.
	Globals []wl.Global
	// Formats are sent to every bound wl_shm.
	Formats []wl.ShmFormat
	// BindErr, keyed by interface name, makes the matching Bind fail.
	BindErr map[string]error
	// Err, if set, is returned by every later Roundtrip, DispatchPending
	// and Flush, the way a protocol error would be.
	Err error
	// RequestErr, keyed like "wl_subsurface.place_above", makes the
	// matching sub-surface request fail after it is recorded.
	RequestErr map[string]error
	// OnCommit, if set, is called after every wl_surface.commit, while the
	// committed buffer is still readable.
	OnCommit func(*Surface)

	// Requests lists every request in the order it was made, formatted
	// like "wl_surface#5.commit()".
	Requests []string
	// Flushes counts calls to Flush, Roundtrip and DispatchPending.
	Flushes int
	// Roundtrips counts calls to Roundtrip.
	Roundtrips int
	Closed     bool

	nextID     uint32
	registry   *registry
	advertised bool
	events     []func()

	surfaces      map[uint32]*Surface
	shellSurfaces map[uint32]*ShellSurface
	buffers       map[uint32]*Buffer
}

var _ wl.Display = (*Display)(nil)

// NewDisplay returns a display advertising the four globals a presentation
// client uses, plus a wl_seat it has no use for, and both mandatory shm
// formats.
func NewDisplay() *Display {
	return &Display{
		Globals: []wl.Global{
			{Name: 1, Interface: wl.CompositorInterface, Version: 4},
			{Name: 2, Interface: wl.SubcompositorInterface, Version: 1},
			{Name: 3, Interface: wl.ShmInterface, Version: 1},
			{Name: 4, Interface: "wl_seat", Version: 7},
			{Name: 5, Interface: wl.ShellInterface, Version: 1},
		},
		Formats: []wl.ShmFormat{wl.ShmFormatARGB8888, wl.ShmFormatXRGB8888},
	}
}

func (d *Display) newID() uint32 {
	if d.nextID < 2 {
		d.nextID = 2
	}
	d.nextID++
	return d.nextID
}

func (d *Display) record(iface string, id uint32, req string, args ...any) {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = fmt.Sprint(a)
	}
	d.Requests = append(d.Requests, fmt.Sprintf("%s#%d.%s(%s)", iface, id, req, strings.Join(s, ", ")))
}

// Count returns the number of recorded requests containing substr.
func (d *Display) Count(substr string) int {
	n := 0
	for _, r := range d.Requests {
		if strings.Contains(r, substr) {
			n++
		}
	}
	return n
}

// Index returns the position of the first recorded request containing
// substr, or -1.
func (d *Display) Index(substr string) int {
	for i, r := range d.Requests {
		if strings.Contains(r, substr) {
			return i
		}
	}
	return -1
}

func (d *Display) queue(f func()) { d.events = append(d.events, f) }

func (d *Display) dispatch() {
	if d.registry != nil && !d.advertised {
		d.advertised = true
		for _, g := range d.Globals {
			if d.registry.l.Global != nil {
				d.registry.l.Global(g)
			}
		}
	}
	for len(d.events) > 0 {
		f := d.events[0]
		d.events = d.events[1:]
		f()
	}
}

// Ping queues a wl_shell_surface.ping for the role of surface.
func (d *Display) Ping(surface wl.Surface, serial uint32) {
	d.queue(func() {
		if ss := d.shellSurfaces[surface.ID()]; ss != nil && ss.l.Ping != nil {
			ss.l.Ping(serial)
		}
	})
}

// Configure queues a wl_shell_surface.configure for the role of surface.
func (d *Display) Configure(surface wl.Surface, edges wl.ResizeEdge, width, height int32) {
	d.queue(func() {
		if ss := d.shellSurfaces[surface.ID()]; ss != nil && ss.l.Configure != nil {
			ss.l.Configure(edges, width, height)
		}
	})
}

// RemoveGlobal queues a wl_registry.global_remove.
func (d *Display) RemoveGlobal(name uint32) {
	d.queue(func() {
		if d.registry != nil && d.registry.l.GlobalRemove != nil {
			d.registry.l.GlobalRemove(name)
		}
	})
}

// ReleaseAll queues a wl_buffer.release for every live buffer.
func (d *Display) ReleaseAll() {
	d.queue(func() {
		for _, b := range d.buffers {
			if !b.destroyed && b.release != nil {
				b.release()
			}
		}
	})
}

// Surface returns the live surface with the given id, or nil.
func (d *Display) Surface(id uint32) *Surface { return d.surfaces[id] }

// Buffer returns the buffer with the given id, or nil.
func (d *Display) Buffer(id uint32) *Buffer { return d.buffers[id] }

func (d *Display) Registry(l wl.RegistryListener) (wl.Registry, error) {
	if d.Closed {
		return nil, fmt.Errorf("wltest: display closed")
	}
	d.registry = &registry{d: d, id: d.newID(), l: l}
	d.record("wl_display", 1, "get_registry", d.registry.id)
	return d.registry, nil
}

func (d *Display) Roundtrip() error {
	d.Roundtrips++
	d.Flushes++
	if d.Err != nil {
		return d.Err
	}
	d.dispatch()
	return d.Err
}

func (d *Display) DispatchPending() error {
	d.Flushes++
	if d.Err != nil {
		return d.Err
	}
	d.dispatch()
	return d.Err
}

func (d *Display) Flush() error {
	d.Flushes++
	return d.Err
}

func (d *Display) Close() error {
	if d.Closed {
		return fmt.Errorf("wltest: display already closed")
	}
	d.Closed = true
	for _, b := range d.buffers {
		b.close()
	}
	return nil
}

type registry struct {
	d  *Display
	id uint32
	l  wl.RegistryListener
}

func (r *registry) bind(iface string, name, version uint32) (uint32, error) {
	if err := r.d.BindErr[iface]; err != nil {
		return 0, err
	}
	id := r.d.newID()
	r.d.record("wl_registry", r.id, "bind", name, iface, version, id)
	return id, nil
}

func (r *registry) BindCompositor(name, version uint32) (wl.Compositor, error) {
	id, err := r.bind(wl.CompositorInterface, name, version)
	if err != nil {
		return nil, err
	}
	return &compositor{d: r.d, id: id}, nil
}

func (r *registry) BindShell(name, version uint32) (wl.Shell, error) {
	id, err := r.bind(wl.ShellInterface, name, version)
	if err != nil {
		return nil, err
	}
	return &shell{d: r.d, id: id}, nil
}

func (r *registry) BindShm(name, version uint32, format func(wl.ShmFormat)) (wl.Shm, error) {
	id, err := r.bind(wl.ShmInterface, name, version)
	if err != nil {
		return nil, err
	}
	if format != nil {
		formats := r.d.Formats
		r.d.queue(func() {
			for _, f := range formats {
				format(f)
			}
		})
	}
	return &shm{d: r.d, id: id}, nil
}

func (r *registry) BindSubcompositor(name, version uint32) (wl.Subcompositor, error) {
	id, err := r.bind(wl.SubcompositorInterface, name, version)
	if err != nil {
		return nil, err
	}
	return &subcompositor{d: r.d, id: id}, nil
}

func (r *registry) Destroy() error {
	r.d.record("wl_registry", r.id, "destroy")
	return nil
}

type compositor struct {
	d  *Display
	id uint32
}

func (c *compositor) CreateSurface() (wl.Surface, error) {
	s := &Surface{d: c.d, id: c.d.newID()}
	c.d.record("wl_compositor", c.id, "create_surface", s.id)
	if c.d.surfaces == nil {
		c.d.surfaces = map[uint32]*Surface{}
	}
	c.d.surfaces[s.id] = s
	return s, nil
}

func (c *compositor) Destroy() error {
	c.d.record("wl_compositor", c.id, "destroy")
	return nil
}

// Surface is a fake wl_surface. It tracks the pending and committed
// buffers.
type Surface struct {
	d  *Display
	id uint32

	pending   *Buffer
	attached  bool
	Committed *Buffer
	Commits   int
	Destroyed bool
}

func (s *Surface) ID() uint32 { return s.id }

// Native returns a fake struct wl_surface pointer derived from the id, so
// that accelerated backends can be tested against the fake.
func (s *Surface) Native() uintptr { return NativeBase + uintptr(s.id) }

func (s *Surface) Attach(b wl.Buffer, x, y int32) error {
	if b == nil {
		s.d.record("wl_surface", s.id, "attach", "nil", x, y)
		s.pending, s.attached = nil, true
		return nil
	}
	fb := b.(*Buffer)
	s.d.record("wl_surface", s.id, "attach", fmt.Sprintf("wl_buffer#%d", fb.id), x, y)
	s.pending, s.attached = fb, true
	return nil
}

func (s *Surface) Damage(x, y, width, height int32) error {
	s.d.record("wl_surface", s.id, "damage", x, y, width, height)
	return nil
}

func (s *Surface) Commit() error {
	s.d.record("wl_surface", s.id, "commit")
	if s.attached {
		s.Committed = s.pending
		s.attached = false
	}
	s.Commits++
	if s.d.OnCommit != nil {
		s.d.OnCommit(s)
	}
	return nil
}

func (s *Surface) Destroy() error {
	s.d.record("wl_surface", s.id, "destroy")
	s.Destroyed = true
	delete(s.d.surfaces, s.id)
	return nil
}

type shell struct {
	d  *Display
	id uint32
}

func (sh *shell) GetShellSurface(s wl.Surface, l wl.ShellSurfaceListener) (wl.ShellSurface, error) {
	ss := &ShellSurface{d: sh.d, id: sh.d.newID(), l: l}
	sh.d.record("wl_shell", sh.id, "get_shell_surface", ss.id, fmt.Sprintf("wl_surface#%d", s.ID()))
	if sh.d.shellSurfaces == nil {
		sh.d.shellSurfaces = map[uint32]*ShellSurface{}
	}
	sh.d.shellSurfaces[s.ID()] = ss
	return ss, nil
}

func (sh *shell) Destroy() error {
	sh.d.record("wl_shell", sh.id, "destroy")
	return nil
}

// ShellSurface is a fake wl_shell_surface.
type ShellSurface struct {
	d  *Display
	id uint32
	l  wl.ShellSurfaceListener
}

func (ss *ShellSurface) Pong(serial uint32) error {
	ss.d.record("wl_shell_surface", ss.id, "pong", serial)
	return nil
}

func (ss *ShellSurface) SetToplevel() error {
	ss.d.record("wl_shell_surface", ss.id, "set_toplevel")
	return nil
}

func (ss *ShellSurface) SetTitle(title string) error {
	ss.d.record("wl_shell_surface", ss.id, "set_title", fmt.Sprintf("%q", title))
	return nil
}

func (ss *ShellSurface) SetClass(class string) error {
	ss.d.record("wl_shell_surface", ss.id, "set_class", fmt.Sprintf("%q", class))
	return nil
}

func (ss *ShellSurface) Destroy() error {
	ss.d.record("wl_shell_surface", ss.id, "destroy")
	return nil
}

type shm struct {
	d  *Display
	id uint32
}

func (s *shm) CreatePool(fd int, size int32) (wl.ShmPool, error) {
	// Like the compositor, keep a descriptor of our own.
	dup, err := unix.Dup(fd)
	if err != nil {
		return nil, fmt.Errorf("wltest: dup pool fd: %w", err)
	}
	p := &shmPool{d: s.d, id: s.d.newID(), fd: dup, size: size}
	s.d.record("wl_shm", s.id, "create_pool", p.id, "fd", size)
	return p, nil
}

func (s *shm) Destroy() error {
	s.d.record("wl_shm", s.id, "destroy")
	return nil
}

type shmPool struct {
	d    *Display
	id   uint32
	fd   int
	size int32
}

func (p *shmPool) CreateBuffer(offset, width, height, stride int32, format wl.ShmFormat) (wl.Buffer, error) {
	if int64(offset)+int64(stride)*int64(height) > int64(p.size) {
		return nil, fmt.Errorf("wltest: buffer exceeds pool of %d bytes", p.size)
	}
	fd, err := unix.Dup(p.fd)
	if err != nil {
		return nil, fmt.Errorf("wltest: dup buffer fd: %w", err)
	}
	b := &Buffer{
		d: p.d, id: p.d.newID(), fd: fd,
		Offset: offset, Width: width, Height: height, Stride: stride, Format: format,
	}
	p.d.record("wl_shm_pool", p.id, "create_buffer", b.id, offset, width, height, stride, format)
	if p.d.buffers == nil {
		p.d.buffers = map[uint32]*Buffer{}
	}
	p.d.buffers[b.id] = b
	return b, nil
}

func (p *shmPool) Destroy() error {
	p.d.record("wl_shm_pool", p.id, "destroy")
	return unix.Close(p.fd)
}

// Buffer is a fake wl_buffer over shared memory.
type Buffer struct {
	d       *Display
	id      uint32
	fd      int
	release func()

	Offset, Width, Height, Stride int32
	Format                        wl.ShmFormat

	destroyed bool
}

func (b *Buffer) ID() uint32 { return b.id }

func (b *Buffer) OnRelease(f func()) { b.release = f }

// Contents reads the buffer's pixels the way the compositor would, from
// its own descriptor.
func (b *Buffer) Contents() ([]byte, error) {
	p := make([]byte, int(b.Stride)*int(b.Height))
	n, err := unix.Pread(b.fd, p, int64(b.Offset))
	if err != nil {
		return nil, err
	}
	return p[:n], nil
}

func (b *Buffer) close() {
	if b.fd >= 0 {
		unix.Close(b.fd)
		b.fd = -1
	}
}

func (b *Buffer) Destroy() error {
	b.d.record("wl_buffer", b.id, "destroy")
	b.destroyed = true
	b.close()
	return nil
}

type subcompositor struct {
	d  *Display
	id uint32
}

func (sc *subcompositor) GetSubsurface(surface, parent wl.Surface) (wl.Subsurface, error) {
	s := &subsurface{d: sc.d, id: sc.d.newID()}
	sc.d.record("wl_subcompositor", sc.id, "get_subsurface", s.id,
		fmt.Sprintf("wl_surface#%d", surface.ID()), fmt.Sprintf("wl_surface#%d", parent.ID()))
	return s, nil
}

func (sc *subcompositor) Destroy() error {
	sc.d.record("wl_subcompositor", sc.id, "destroy")
	return nil
}

type subsurface struct {
	d  *Display
	id uint32
}

func (s *subsurface) SetPosition(x, y int32) error {
	s.d.record("wl_subsurface", s.id, "set_position", x, y)
	return s.d.RequestErr["wl_subsurface.set_position"]
}

func (s *subsurface) PlaceAbove(sibling wl.Surface) error {
	s.d.record("wl_subsurface", s.id, "place_above", fmt.Sprintf("wl_surface#%d", sibling.ID()))
	return s.d.RequestErr["wl_subsurface.place_above"]
}

func (s *subsurface) PlaceBelow(sibling wl.Surface) error {
	s.d.record("wl_subsurface", s.id, "place_below", fmt.Sprintf("wl_surface#%d", sibling.ID()))
	return s.d.RequestErr["wl_subsurface.place_below"]
}

func (s *subsurface) SetSync() error {
	s.d.record("wl_subsurface", s.id, "set_sync")
	return nil
}

func (s *subsurface) SetDesync() error {
	s.d.record("wl_subsurface", s.id, "set_desync")
	return nil
}

func (s *subsurface) Destroy() error {
	s.d.record("wl_subsurface", s.id, "destroy")
	return nil
}
