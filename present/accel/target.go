// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package accel

import (
	"fmt"

	"go.uber.org/multierr"

	"golang.org/x/exp/wlclient/present"
	"golang.org/x/exp/wlclient/present/accel/egl"
)

type target struct {
	b      *Backend
	w      *present.Window
	drawer Drawer
	win  egl.NativeWindow
	surf egl.Surface
	ctx  egl.Context

	width, height int
	inited        bool
	destroyed     bool
}

// makeCurrent makes t's context current unless it already is. With a single
// target that happens exactly once; with several, every Present switches.
func (t *target) makeCurrent() error {
	if t.b.current == t {
		return nil
	}
	if err := t.b.egl.MakeCurrent(t.b.display, t.surf, t.surf, t.ctx); err != nil {
		return fmt.Errorf("accel: %w", err)
	}
	t.b.current = t
	return nil
}

func (t *target) Size() (width, height int) { return t.width, t.height }

// Resize resizes the wl_egl_window in place. The surface and context are
// kept.
func (t *target) Resize(width, height int) error {
	if t.destroyed {
		return present.ErrDestroyed
	}
	t.b.egl.ResizeWindow(t.win, width, height, 0, 0)
	t.width, t.height = width, height
	return nil
}

func (t *target) Present() error {
	if t.destroyed {
		return present.ErrDestroyed
	}
	if err := t.makeCurrent(); err != nil {
		return err
	}
	t.b.run(func() error {
		t.drawer.Draw(t.b.glctx, t.width, t.height)
		return nil
	})
	if err := t.b.egl.SwapBuffers(t.b.display, t.surf); err != nil {
		return fmt.Errorf("accel: %w", err)
	}
	return nil
}

// release tears down the EGL objects: surface, then native window, then
// context. The context is released from the thread first.
func (t *target) release() error {
	b := t.b
	var err error
	if t.inited {
		if cerr := t.makeCurrent(); cerr == nil {
			b.run(func() error {
				t.drawer.Release(b.glctx)
				return nil
			})
		}
		t.inited = false
	}
	if b.current != nil {
		err = multierr.Append(err, b.egl.MakeCurrent(b.display, 0, 0, 0))
		b.current = nil
	}
	err = multierr.Append(err, b.egl.DestroySurface(b.display, t.surf))
	b.egl.DestroyWindow(t.win)
	err = multierr.Append(err, b.egl.DestroyContext(b.display, t.ctx))
	return err
}

func (t *target) Destroy() error {
	if t.destroyed {
		return present.ErrDestroyed
	}
	t.destroyed = true
	t.w.Detach(t)
	t.b.targets--
	if err := t.release(); err != nil {
		return fmt.Errorf("accel: %w", err)
	}
	return nil
}
