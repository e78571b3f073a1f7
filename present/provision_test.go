// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"golang.org/x/exp/wlclient/internal/wltest"
	"golang.org/x/exp/wlclient/wl"
)

// fakeTarget is a DrawTarget recording what is done to it.
type fakeTarget struct {
	w             *Window
	width, height int
	presents      int
	resizes       int
	destroyed     bool
	onPresent     func() error
	destroyErr    error
}

func attachFake(t *testing.T, w *Window) *fakeTarget {
	t.Helper()
	ft := &fakeTarget{w: w}
	ft.width, ft.height = w.Size()
	if err := w.Attach(ft); err != nil {
		t.Fatal(err)
	}
	return ft
}

func (f *fakeTarget) Size() (int, int) { return f.width, f.height }

func (f *fakeTarget) Resize(w, h int) error {
	f.width, f.height = w, h
	f.resizes++
	return nil
}

func (f *fakeTarget) Present() error {
	f.presents++
	if f.onPresent != nil {
		return f.onPresent()
	}
	return nil
}

func (f *fakeTarget) Destroy() error {
	if f.destroyed {
		return ErrDestroyed
	}
	f.destroyed = true
	f.w.Detach(f)
	return f.destroyErr
}

func provisioner(t *testing.T, s *Session, opts ...ProvisionOption) *Provisioner {
	t.Helper()
	p, err := s.Provisioner(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCreateSurface(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	n := len(d.Requests)
	w, err := provisioner(t, s, WithTitle("demo"), WithClass("org.example.demo")).CreateSurface(256, 256)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"wl_compositor#4.create_surface(8)",
		"wl_shell#7.get_shell_surface(9, wl_surface#8)",
		"wl_shell_surface#9.set_toplevel()",
		`wl_shell_surface#9.set_title("demo")`,
		`wl_shell_surface#9.set_class("org.example.demo")`,
	}
	if diff := cmp.Diff(want, d.Requests[n:]); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	if w.Surface().ID() != 8 {
		t.Errorf("surface id %d, want 8", w.Surface().ID())
	}
	if gw, gh := w.Size(); gw != 256 || gh != 256 {
		t.Errorf("Size() = %d, %d, want 256, 256", gw, gh)
	}
}

func TestCreateSurfaceNoTitle(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	if _, err := provisioner(t, s).CreateSurface(10, 10); err != nil {
		t.Fatal(err)
	}
	if d.Count("set_title") != 0 || d.Count("set_class") != 0 {
		t.Errorf("title or class set without options: %q", d.Requests)
	}
}

func TestCreateSurfaceMissingShell(t *testing.T) {
	d := wltest.NewDisplay()
	d.Globals = d.Globals[:3]
	s := discovered(t, d)
	_, err := provisioner(t, s).CreateSurface(10, 10)
	if !errors.Is(err, ErrMissingCapability) {
		t.Errorf("CreateSurface() = %v, want %v", err, ErrMissingCapability)
	}
	if d.Count("create_surface") != 0 {
		t.Error("surface created without a shell")
	}
}

func TestPingAnsweredBeforePresent(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	d := wltest.NewDisplay()
	s := discovered(t, d)
	w, err := provisioner(t, s).CreateSurface(32, 32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewShmBackend(s)
	if err != nil {
		t.Fatal(err)
	}
	target, err := b.Attach(w)
	if err != nil {
		t.Fatal(err)
	}

	d.Ping(w.Surface(), 42)
	l, err := NewLoop(s, NewRunningFlag(), []DrawTarget{target}, WithFrameLimit(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := d.Count("pong(42)"); n != 1 {
		t.Fatalf("%d pongs for serial 42, want 1: %q", n, d.Requests)
	}
	pong, attach := d.Index("pong(42)"), d.Index("wl_surface#8.attach(")
	if attach < 0 || pong > attach {
		t.Errorf("pong at request %d, first attach at %d: want pong first", pong, attach)
	}
}

func TestConfigureResizesTarget(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	d := wltest.NewDisplay()
	s := discovered(t, d)
	w, err := provisioner(t, s).CreateSurface(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewShmBackend(s)
	if err != nil {
		t.Fatal(err)
	}
	target, err := b.Attach(w)
	if err != nil {
		t.Fatal(err)
	}

	d.Configure(w.Surface(), wl.ResizeBottomRight, 400, 300)
	if err := d.DispatchPending(); err != nil {
		t.Fatal(err)
	}
	if gw, gh := w.Size(); gw != 400 || gh != 300 {
		t.Errorf("window Size() = %d, %d, want 400, 300", gw, gh)
	}
	if gw, gh := target.Size(); gw != 400 || gh != 300 {
		t.Errorf("target Size() = %d, %d, want 400, 300", gw, gh)
	}
	if err := target.Present(); err != nil {
		t.Fatal(err)
	}
	committed := d.Surface(w.Surface().ID()).Committed
	if committed == nil || committed.Width != 400 || committed.Height != 300 || committed.Stride != 1600 {
		t.Errorf("committed buffer %+v, want 400×300 with stride 1600", committed)
	}
}

func TestConfigureZeroSize(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	d := wltest.NewDisplay()
	s := discovered(t, d)
	w, err := provisioner(t, s).CreateSurface(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewShmBackend(s)
	if err != nil {
		t.Fatal(err)
	}
	target, err := b.Attach(w)
	if err != nil {
		t.Fatal(err)
	}
	if err := target.Present(); err != nil {
		t.Fatal(err)
	}

	d.Configure(w.Surface(), wl.ResizeNone, 0, 0)
	if err := d.DispatchPending(); err != nil {
		t.Fatal(err)
	}
	if d.Count("wl_buffer#11.destroy()") != 1 {
		t.Errorf("buffer not released on zero-size configure: %q", d.Requests)
	}
	if err := target.Present(); err != nil {
		t.Fatal(err)
	}
	fs := d.Surface(w.Surface().ID())
	if fs.Committed != nil {
		t.Errorf("committed %+v, want no buffer", fs.Committed)
	}
	if d.Count("wl_surface#8.attach(nil, 0, 0)") != 1 {
		t.Errorf("no nil attach: %q", d.Requests)
	}
}

func TestWindowLifecycle(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	w, err := provisioner(t, s).CreateSurface(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	ft := attachFake(t, w)
	if err := w.Attach(&fakeTarget{w: w}); !errors.Is(err, ErrTargetAttached) {
		t.Errorf("second Attach() = %v, want %v", err, ErrTargetAttached)
	}
	if err := w.Destroy(); !errors.Is(err, ErrTargetAttached) {
		t.Errorf("Destroy() with target = %v, want %v", err, ErrTargetAttached)
	}
	if d.Count("wl_surface#8.destroy()") != 0 {
		t.Fatal("surface destroyed while a target is attached")
	}

	if err := w.DestroyTarget(); err != nil {
		t.Fatal(err)
	}
	if !ft.destroyed || w.Target() != nil {
		t.Error("target not destroyed and detached")
	}
	if err := w.Destroy(); err != nil {
		t.Fatal(err)
	}
	role, surface := d.Index("wl_shell_surface#9.destroy()"), d.Index("wl_surface#8.destroy()")
	if role < 0 || surface < 0 || role > surface {
		t.Errorf("role destroyed at %d, surface at %d: want role first", role, surface)
	}
	if err := w.Destroy(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("second Destroy() = %v, want %v", err, ErrDestroyed)
	}
	if err := w.Attach(&fakeTarget{w: w}); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Attach() after Destroy = %v, want %v", err, ErrDestroyed)
	}
}

func TestPingAfterRoleDestroyed(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	w, err := provisioner(t, s).CreateSurface(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.DestroyRole(); err != nil {
		t.Fatal(err)
	}
	d.Ping(w.Surface(), 3)
	if err := d.DispatchPending(); err != nil {
		t.Fatal(err)
	}
	if d.Count("pong") != 0 {
		t.Error("pong sent on a destroyed role")
	}
}
