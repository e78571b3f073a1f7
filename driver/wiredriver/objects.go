// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wiredriver

import (
	"fmt"

	"golang.org/x/exp/wlclient/driver/internal/wire"
	"golang.org/x/exp/wlclient/wl"
)

// Request and event opcodes, from wayland.xml.
const (
	registryBind = 0

	registryEventGlobal       = 0
	registryEventGlobalRemove = 1

	callbackEventDone = 0

	compositorCreateSurface = 0

	surfaceDestroy = 0
	surfaceAttach  = 1
	surfaceDamage  = 2
	surfaceCommit  = 6

	shellGetShellSurface = 0

	shellSurfacePong        = 0
	shellSurfaceSetToplevel = 3
	shellSurfaceSetTitle    = 8
	shellSurfaceSetClass    = 9

	shellSurfaceEventPing      = 0
	shellSurfaceEventConfigure = 1
	shellSurfaceEventPopupDone = 2

	shmCreatePool = 0

	shmEventFormat = 0

	shmPoolCreateBuffer = 0
	shmPoolDestroy      = 1

	bufferDestroy = 0

	bufferEventRelease = 0

	subcompositorDestroy       = 0
	subcompositorGetSubsurface = 1

	subsurfaceDestroy     = 0
	subsurfaceSetPosition = 1
	subsurfacePlaceAbove  = 2
	subsurfacePlaceBelow  = 3
	subsurfaceSetSync     = 4
	subsurfaceSetDesync   = 5
)

// ignore is embedded by objects without events, or whose events this client
// does not care about (such as wl_surface.enter).
type ignore struct{}

func (ignore) dispatch(*wire.Decoder) error { return nil }

type registry struct {
	d  *Display
	id uint32
	l  wl.RegistryListener
}

func (r *registry) dispatch(dec *wire.Decoder) error {
	switch dec.Header.Opcode {
	case registryEventGlobal:
		g := wl.Global{Name: dec.Uint(), Interface: dec.String(), Version: dec.Uint()}
		if err := dec.Err(); err != nil {
			return err
		}
		if r.l.Global != nil {
			r.l.Global(g)
		}
	case registryEventGlobalRemove:
		name := dec.Uint()
		if err := dec.Err(); err != nil {
			return err
		}
		if r.l.GlobalRemove != nil {
			r.l.GlobalRemove(name)
		}
	}
	return nil
}

func (r *registry) bind(name uint32, iface string, version uint32, o object) (uint32, error) {
	id := r.d.newID(o)
	m := wire.NewMessage(r.id, registryBind).Uint(name).UntypedNewID(iface, version, id)
	return id, r.d.request(m)
}

func (r *registry) BindCompositor(name, version uint32) (wl.Compositor, error) {
	c := &compositor{d: r.d}
	id, err := r.bind(name, wl.CompositorInterface, version, c)
	c.id = id
	return c, err
}

func (r *registry) BindShell(name, version uint32) (wl.Shell, error) {
	s := &shell{d: r.d}
	id, err := r.bind(name, wl.ShellInterface, version, s)
	s.id = id
	return s, err
}

func (r *registry) BindShm(name, version uint32, format func(wl.ShmFormat)) (wl.Shm, error) {
	s := &shm{d: r.d, format: format}
	id, err := r.bind(name, wl.ShmInterface, version, s)
	s.id = id
	return s, err
}

func (r *registry) BindSubcompositor(name, version uint32) (wl.Subcompositor, error) {
	s := &subcompositor{d: r.d}
	id, err := r.bind(name, wl.SubcompositorInterface, version, s)
	s.id = id
	return s, err
}

func (r *registry) Destroy() error {
	r.d.destroy(r.id)
	return nil
}

type callback struct {
	id   uint32
	done func(data uint32)
}

func (c *callback) dispatch(dec *wire.Decoder) error {
	if dec.Header.Opcode != callbackEventDone {
		return nil
	}
	data := dec.Uint()
	if err := dec.Err(); err != nil {
		return err
	}
	if c.done != nil {
		c.done(data)
	}
	return nil
}

type compositor struct {
	ignore
	d  *Display
	id uint32
}

func (c *compositor) CreateSurface() (wl.Surface, error) {
	s := &surface{d: c.d}
	s.id = c.d.newID(s)
	return s, c.d.request(wire.NewMessage(c.id, compositorCreateSurface).NewID(s.id))
}

func (c *compositor) Destroy() error {
	c.d.destroy(c.id)
	return nil
}

type surface struct {
	ignore
	d  *Display
	id uint32
}

func (s *surface) ID() uint32 { return s.id }

func (s *surface) Attach(b wl.Buffer, x, y int32) error {
	var bid uint32
	if b != nil {
		bid = b.ID()
	}
	return s.d.request(wire.NewMessage(s.id, surfaceAttach).Object(bid).Int(x).Int(y))
}

func (s *surface) Damage(x, y, width, height int32) error {
	return s.d.request(wire.NewMessage(s.id, surfaceDamage).Int(x).Int(y).Int(width).Int(height))
}

func (s *surface) Commit() error {
	return s.d.request(wire.NewMessage(s.id, surfaceCommit))
}

func (s *surface) Destroy() error {
	err := s.d.request(wire.NewMessage(s.id, surfaceDestroy))
	s.d.destroy(s.id)
	return err
}

type shell struct {
	ignore
	d  *Display
	id uint32
}

func (s *shell) GetShellSurface(surf wl.Surface, l wl.ShellSurfaceListener) (wl.ShellSurface, error) {
	if surf == nil {
		return nil, fmt.Errorf("wiredriver: nil surface")
	}
	ss := &shellSurface{d: s.d, l: l}
	ss.id = s.d.newID(ss)
	return ss, s.d.request(wire.NewMessage(s.id, shellGetShellSurface).NewID(ss.id).Object(surf.ID()))
}

func (s *shell) Destroy() error {
	s.d.destroy(s.id)
	return nil
}

type shellSurface struct {
	d  *Display
	id uint32
	l  wl.ShellSurfaceListener
}

func (s *shellSurface) dispatch(dec *wire.Decoder) error {
	switch dec.Header.Opcode {
	case shellSurfaceEventPing:
		serial := dec.Uint()
		if err := dec.Err(); err != nil {
			return err
		}
		if s.l.Ping != nil {
			s.l.Ping(serial)
		}
	case shellSurfaceEventConfigure:
		edges, w, h := dec.Uint(), dec.Int(), dec.Int()
		if err := dec.Err(); err != nil {
			return err
		}
		if s.l.Configure != nil {
			s.l.Configure(wl.ResizeEdge(edges), w, h)
		}
	case shellSurfaceEventPopupDone:
		if s.l.PopupDone != nil {
			s.l.PopupDone()
		}
	}
	return nil
}

func (s *shellSurface) Pong(serial uint32) error {
	return s.d.request(wire.NewMessage(s.id, shellSurfacePong).Uint(serial))
}

func (s *shellSurface) SetToplevel() error {
	return s.d.request(wire.NewMessage(s.id, shellSurfaceSetToplevel))
}

func (s *shellSurface) SetTitle(title string) error {
	return s.d.request(wire.NewMessage(s.id, shellSurfaceSetTitle).String(title))
}

func (s *shellSurface) SetClass(class string) error {
	return s.d.request(wire.NewMessage(s.id, shellSurfaceSetClass).String(class))
}

func (s *shellSurface) Destroy() error {
	s.d.destroy(s.id)
	return nil
}

type shm struct {
	d      *Display
	id     uint32
	format func(wl.ShmFormat)
}

func (s *shm) dispatch(dec *wire.Decoder) error {
	if dec.Header.Opcode != shmEventFormat {
		return nil
	}
	f := dec.Uint()
	if err := dec.Err(); err != nil {
		return err
	}
	if s.format != nil {
		s.format(wl.ShmFormat(f))
	}
	return nil
}

func (s *shm) CreatePool(fd int, size int32) (wl.ShmPool, error) {
	p := &shmPool{d: s.d}
	p.id = s.d.newID(p)
	return p, s.d.request(wire.NewMessage(s.id, shmCreatePool).NewID(p.id).FD(fd).Int(size))
}

func (s *shm) Destroy() error {
	s.d.destroy(s.id)
	return nil
}

type shmPool struct {
	ignore
	d  *Display
	id uint32
}

func (p *shmPool) CreateBuffer(offset, width, height, stride int32, format wl.ShmFormat) (wl.Buffer, error) {
	b := &buffer{d: p.d}
	b.id = p.d.newID(b)
	m := wire.NewMessage(p.id, shmPoolCreateBuffer).NewID(b.id).
		Int(offset).Int(width).Int(height).Int(stride).Uint(uint32(format))
	return b, p.d.request(m)
}

func (p *shmPool) Destroy() error {
	err := p.d.request(wire.NewMessage(p.id, shmPoolDestroy))
	p.d.destroy(p.id)
	return err
}

type buffer struct {
	d       *Display
	id      uint32
	release func()
}

func (b *buffer) dispatch(dec *wire.Decoder) error {
	if dec.Header.Opcode == bufferEventRelease && b.release != nil {
		b.release()
	}
	return nil
}

func (b *buffer) ID() uint32         { return b.id }
func (b *buffer) OnRelease(f func()) { b.release = f }

func (b *buffer) Destroy() error {
	err := b.d.request(wire.NewMessage(b.id, bufferDestroy))
	b.d.destroy(b.id)
	return err
}

type subcompositor struct {
	ignore
	d  *Display
	id uint32
}

func (s *subcompositor) GetSubsurface(surf, parent wl.Surface) (wl.Subsurface, error) {
	ss := &subsurface{d: s.d}
	ss.id = s.d.newID(ss)
	m := wire.NewMessage(s.id, subcompositorGetSubsurface).NewID(ss.id).Object(surf.ID()).Object(parent.ID())
	return ss, s.d.request(m)
}

func (s *subcompositor) Destroy() error {
	err := s.d.request(wire.NewMessage(s.id, subcompositorDestroy))
	s.d.destroy(s.id)
	return err
}

type subsurface struct {
	ignore
	d  *Display
	id uint32
}

func (s *subsurface) SetPosition(x, y int32) error {
	return s.d.request(wire.NewMessage(s.id, subsurfaceSetPosition).Int(x).Int(y))
}

func (s *subsurface) PlaceAbove(sibling wl.Surface) error {
	return s.d.request(wire.NewMessage(s.id, subsurfacePlaceAbove).Object(sibling.ID()))
}

func (s *subsurface) PlaceBelow(sibling wl.Surface) error {
	return s.d.request(wire.NewMessage(s.id, subsurfacePlaceBelow).Object(sibling.ID()))
}

func (s *subsurface) SetSync() error {
	return s.d.request(wire.NewMessage(s.id, subsurfaceSetSync))
}

func (s *subsurface) SetDesync() error {
	return s.d.request(wire.NewMessage(s.id, subsurfaceSetDesync))
}

func (s *subsurface) Destroy() error {
	err := s.d.request(wire.NewMessage(s.id, subsurfaceDestroy))
	s.d.destroy(s.id)
	return err
}
