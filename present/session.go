// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"golang.org/x/exp/wlclient/wl"
)

const instrumentationName = "golang.org/x/exp/wlclient/present"

// bindVersion is the version every recognized global is bound at.
const bindVersion = 1

// DialFunc opens the connection to the compositor, typically driver.Dial
// with its arguments filled in.
type DialFunc func() (wl.Display, error)

// A SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used by the session and everything created
// from it. The default discards all output.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// WithTracerProvider sets the provider of the session's tracer. The default
// is the global provider.
func WithTracerProvider(tp trace.TracerProvider) SessionOption {
	return func(s *Session) { s.tracer = tp.Tracer(instrumentationName) }
}

// WithMeterProvider sets the provider of the session's meter. The default
// is the global provider.
func WithMeterProvider(mp metric.MeterProvider) SessionOption {
	return func(s *Session) { s.meter = mp.Meter(instrumentationName) }
}

// Session owns the connection to the compositor and the globals bound on
// it. Listeners installed by the session and its windows capture the
// session itself, so there is no package-level state.
type Session struct {
	display  wl.Display
	registry wl.Registry
	caps     CapabilitySet

	discovered bool
	closed     bool

	log    *zap.Logger
	tracer trace.Tracer
	meter  metric.Meter
}

// Connect dials the compositor. A dial failure wraps ErrNoServer.
func Connect(ctx context.Context, dial DialFunc, opts ...SessionOption) (*Session, error) {
	s := &Session{
		log:    zap.NewNop(),
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
		meter:  otel.GetMeterProvider().Meter(instrumentationName),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.Named("session")

	_, span := s.tracer.Start(ctx, "connect")
	defer span.End()
	d, err := dial()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", ErrNoServer, err)
	}
	s.display = d
	s.caps.names = map[string]uint32{}
	s.log.Info("connected")
	return s, nil
}

// Display returns the connection.
func (s *Session) Display() wl.Display { return s.display }

// Logger returns the session's logger.
func (s *Session) Logger() *zap.Logger { return s.log }

// Tracer returns the session's tracer.
func (s *Session) Tracer() trace.Tracer { return s.tracer }

// Meter returns the session's meter.
func (s *Session) Meter() metric.Meter { return s.meter }

// Capabilities returns the globals bound so far.
func (s *Session) Capabilities() *CapabilitySet { return &s.caps }

// DiscoverCapabilities enumerates the compositor's globals and binds those
// this package uses, at version 1. It returns once every advertisement sent
// before the request has been handled. Other globals are ignored, and so is
// the removal of any global.
func (s *Session) DiscoverCapabilities(ctx context.Context) error {
	_, span := s.tracer.Start(ctx, "discover")
	defer span.End()

	var bindErr error
	r, err := s.display.Registry(wl.RegistryListener{
		Global: func(g wl.Global) {
			if err := s.bind(g); err != nil && bindErr == nil {
				bindErr = err
			}
		},
		GlobalRemove: func(name uint32) {
			s.log.Debug("global removed", zap.Uint32("name", name))
		},
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("present: get registry: %w", err)
	}
	s.registry = r
	if err := s.display.Roundtrip(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("present: registry roundtrip: %w", err)
	}
	if bindErr != nil {
		span.SetStatus(codes.Error, bindErr.Error())
		return bindErr
	}
	s.discovered = true
	bound := s.caps.Bound()
	span.SetAttributes(attribute.StringSlice("wl.globals", bound))
	s.log.Info("capabilities discovered", zap.Strings("bound", bound))
	return nil
}

// bind binds g if it is one of the recognized interfaces. A second global of
// an interface already bound is ignored.
func (s *Session) bind(g wl.Global) error {
	if !recognized(g.Interface) {
		s.log.Debug("ignoring global", zap.Stringer("global", g))
		return nil
	}
	if _, dup := s.caps.names[g.Interface]; dup {
		s.log.Debug("ignoring duplicate global", zap.Stringer("global", g))
		return nil
	}
	var err error
	switch g.Interface {
	case wl.CompositorInterface:
		s.caps.Compositor, err = s.registry.BindCompositor(g.Name, bindVersion)
	case wl.ShellInterface:
		s.caps.Shell, err = s.registry.BindShell(g.Name, bindVersion)
	case wl.ShmInterface:
		s.caps.Shm, err = s.registry.BindShm(g.Name, bindVersion, func(f wl.ShmFormat) {
			s.caps.Formats = append(s.caps.Formats, f)
		})
	case wl.SubcompositorInterface:
		s.caps.Subcompositor, err = s.registry.BindSubcompositor(g.Name, bindVersion)
	}
	if err != nil {
		return fmt.Errorf("present: bind %v: %w", g, err)
	}
	s.caps.names[g.Interface] = g.Name
	s.log.Debug("bound global", zap.Stringer("global", g))
	return nil
}

// Provisioner returns a Provisioner for this session's windows. It fails
// with ErrNotDiscovered until DiscoverCapabilities has succeeded.
func (s *Session) Provisioner(opts ...ProvisionOption) (*Provisioner, error) {
	if s.closed {
		return nil, ErrDestroyed
	}
	if !s.discovered {
		return nil, ErrNotDiscovered
	}
	p := &Provisioner{s: s, log: s.log.Named("provision")}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Close releases the bound globals and disconnects. Every window must have
// been destroyed first.
func (s *Session) Close() error {
	if s.closed {
		return ErrDestroyed
	}
	s.closed = true
	s.caps.release()
	if s.registry != nil {
		s.registry.Destroy()
	}
	if err := s.display.Close(); err != nil {
		return fmt.Errorf("present: disconnect: %w", err)
	}
	s.log.Info("disconnected")
	return nil
}
