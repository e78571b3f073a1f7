// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"golang.org/x/exp/wlclient/wl"
)

// A ProvisionOption configures a Provisioner.
type ProvisionOption func(*Provisioner)

// WithTitle sets the title of top-level windows.
func WithTitle(title string) ProvisionOption {
	return func(p *Provisioner) { p.title = title }
}

// WithClass sets the class, usually the desktop file name, of top-level
// windows.
func WithClass(class string) ProvisionOption {
	return func(p *Provisioner) { p.class = class }
}

// Provisioner creates windows from a discovered Session.
type Provisioner struct {
	s     *Session
	log   *zap.Logger
	title string
	class string
}

// CreateSurface creates a top-level window of the given size. The window
// answers pings on its own, and resizes its DrawTarget, if any, when the
// compositor configures it.
func (p *Provisioner) CreateSurface(width, height int) (*Window, error) {
	caps := &p.s.caps
	if err := caps.Require(wl.CompositorInterface, wl.ShellInterface); err != nil {
		return nil, err
	}
	_, span := p.s.tracer.Start(context.Background(), "provision",
		withSize(width, height))
	defer span.End()

	surface, err := caps.Compositor.CreateSurface()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("present: create surface: %w", err)
	}
	w := &Window{
		surface: surface,
		width:   width,
		height:  height,
		log:     p.log.With(zap.Uint32("surface", surface.ID())),
	}
	role, err := caps.Shell.GetShellSurface(surface, wl.ShellSurfaceListener{
		Ping:      w.ping,
		Configure: w.configure,
		PopupDone: func() {},
	})
	if err != nil {
		surface.Destroy()
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("present: get shell surface: %w", err)
	}
	w.role = role
	if err := role.SetToplevel(); err != nil {
		return nil, p.abandon(w, fmt.Errorf("present: set toplevel: %w", err))
	}
	if p.title != "" {
		if err := role.SetTitle(p.title); err != nil {
			return nil, p.abandon(w, fmt.Errorf("present: set title: %w", err))
		}
	}
	if p.class != "" {
		if err := role.SetClass(p.class); err != nil {
			return nil, p.abandon(w, fmt.Errorf("present: set class: %w", err))
		}
	}
	p.log.Info("created window", zap.Uint32("surface", surface.ID()),
		zap.Int("width", width), zap.Int("height", height))
	return w, nil
}

// CreateOverlay creates a surface of the given size and makes it a
// sub-surface of base, positioned at (x, y) relative to base's top-left
// corner and stacked directly above or below it. It needs wl_subcompositor.
//
// The overlay has no shell role of its own; it moves with base.
func (p *Provisioner) CreateOverlay(base *Window, width, height, x, y int, above bool) (*Window, *SubsurfaceRelation, error) {
	caps := &p.s.caps
	if err := caps.Require(wl.CompositorInterface, wl.SubcompositorInterface); err != nil {
		return nil, nil, err
	}
	if base.destroyed {
		return nil, nil, fmt.Errorf("present: overlay base: %w", ErrDestroyed)
	}
	_, span := p.s.tracer.Start(context.Background(), "provision.overlay",
		withSize(width, height), withOffset(x, y))
	defer span.End()

	surface, err := caps.Compositor.CreateSurface()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, fmt.Errorf("present: create overlay surface: %w", err)
	}
	w := &Window{
		surface: surface,
		width:   width,
		height:  height,
		log:     p.log.With(zap.Uint32("surface", surface.ID())),
	}
	sub, err := caps.Subcompositor.GetSubsurface(surface, base.surface)
	if err != nil {
		surface.Destroy()
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, fmt.Errorf("present: get subsurface: %w", err)
	}
	r := &SubsurfaceRelation{
		sub:     sub,
		overlay: w,
		base:    base,
		X:       x,
		Y:       y,
		Above:   above,
		valid:   true,
		log:     p.log.Named("subsurface"),
	}
	if err := r.place(); err != nil {
		r.Destroy()
		return nil, nil, p.abandon(w, err)
	}
	w.relations = append(w.relations, r)
	base.relations = append(base.relations, r)
	p.log.Info("created overlay", zap.Uint32("surface", surface.ID()),
		zap.Uint32("base", base.surface.ID()), zap.Int("x", x), zap.Int("y", y),
		zap.Bool("above", above))
	return w, r, nil
}

// abandon destroys a half-built window and returns err.
func (p *Provisioner) abandon(w *Window, err error) error {
	if w.role != nil {
		w.role.Destroy()
	}
	w.surface.Destroy()
	w.destroyed = true
	return err
}

// Window is a surface together with its shell role, if it has one, and the
// DrawTarget attached to it.
type Window struct {
	surface   wl.Surface
	role      wl.ShellSurface
	target    DrawTarget
	relations []*SubsurfaceRelation
	log       *zap.Logger

	width, height int
	destroyed     bool
}

// ping is the wl_shell_surface.ping listener. It only echoes the serial.
func (w *Window) ping(serial uint32) {
	if w.role == nil {
		return
	}
	// A failed pong leaves the display in an error state that the next
	// dispatch reports.
	w.role.Pong(serial)
}

// configure is the wl_shell_surface.configure listener. Degenerate sizes
// are passed through unchanged.
func (w *Window) configure(edges wl.ResizeEdge, width, height int32) {
	w.width, w.height = int(width), int(height)
	w.log.Debug("configure", zap.Uint32("edges", uint32(edges)),
		zap.Int32("width", width), zap.Int32("height", height))
	if w.target == nil {
		return
	}
	if err := w.target.Resize(w.width, w.height); err != nil {
		w.log.Warn("resize failed", zap.Error(err))
	}
}

// Surface returns the window's wl_surface.
func (w *Window) Surface() wl.Surface { return w.surface }

// Size returns the window's current size: the size it was created with, or
// the one last configured by the compositor.
func (w *Window) Size() (width, height int) { return w.width, w.height }

// Target returns the attached DrawTarget, or nil.
func (w *Window) Target() DrawTarget { return w.target }

// Attach records t as the window's DrawTarget. Backends call it from their
// Attach methods. A window holds at most one target.
func (w *Window) Attach(t DrawTarget) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if w.target != nil {
		return ErrTargetAttached
	}
	w.target = t
	return nil
}

// Detach forgets t if it is the attached target, without destroying it.
// Targets call it from their Destroy methods.
func (w *Window) Detach(t DrawTarget) {
	if w.target == t {
		w.target = nil
	}
}

// DestroyTarget destroys the attached DrawTarget, if any.
func (w *Window) DestroyTarget() error {
	if w.target == nil {
		return nil
	}
	t := w.target
	w.target = nil
	return t.Destroy()
}

// DestroyRole releases the shell role, if the window has one.
func (w *Window) DestroyRole() error {
	if w.role == nil {
		return nil
	}
	r := w.role
	w.role = nil
	return r.Destroy()
}

// Destroy destroys the surface, and the role if DestroyRole was not called.
// It fails with ErrTargetAttached while a DrawTarget is attached. Sub-surface
// relations involving the window become invalid.
func (w *Window) Destroy() error {
	if w.destroyed {
		return ErrDestroyed
	}
	if w.target != nil {
		return ErrTargetAttached
	}
	if err := w.DestroyRole(); err != nil {
		w.log.Warn("destroy role", zap.Error(err))
	}
	w.destroyed = true
	for _, r := range w.relations {
		r.valid = false
	}
	return w.surface.Destroy()
}

func withSize(width, height int) trace.SpanStartOption {
	return trace.WithAttributes(attribute.Int("width", width), attribute.Int("height", height))
}

func withOffset(x, y int) trace.SpanStartOption {
	return trace.WithAttributes(attribute.Int("x", x), attribute.Int("y", y))
}
