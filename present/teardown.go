// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Teardown runs release steps in order. A failing step is logged and
// recorded, and the remaining steps still run.
type Teardown struct {
	log    *zap.Logger
	tracer trace.Tracer
	steps  []teardownStep
}

type teardownStep struct {
	name string
	fn   func() error
}

// NewTeardown returns an empty Teardown using s's logger and tracer.
func NewTeardown(s *Session) *Teardown {
	return &Teardown{log: s.log.Named("teardown"), tracer: s.tracer}
}

// Add appends a step.
func (t *Teardown) Add(name string, fn func() error) {
	t.steps = append(t.steps, teardownStep{name, fn})
}

// Steps returns the names of the steps, in order.
func (t *Teardown) Steps() []string {
	names := make([]string, len(t.steps))
	for i, s := range t.steps {
		names[i] = s.name
	}
	return names
}

// Run runs every step, each in its own span, and returns the combined
// errors of those that failed.
func (t *Teardown) Run(ctx context.Context) error {
	ctx, span := t.tracer.Start(ctx, "teardown")
	defer span.End()

	var errs error
	for _, s := range t.steps {
		_, stepSpan := t.tracer.Start(ctx, "teardown."+s.name)
		if err := s.fn(); err != nil {
			stepSpan.SetStatus(codes.Error, err.Error())
			t.log.Warn("step failed", zap.String("step", s.name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", s.name, err))
		} else {
			t.log.Debug("step done", zap.String("step", s.name))
		}
		stepSpan.End()
	}
	if errs != nil {
		span.SetStatus(codes.Error, errs.Error())
	}
	return errs
}

// PlanTeardown returns the standard release order for a session: every
// window's target, then every window's role and surface, then the
// sub-surface relations, then the backends, and finally the connection.
//
// Windows are destroyed in the order given. For a Layered pair that is the
// base first, which leaves the relation dangling until its own step.
func PlanTeardown(s *Session, windows []*Window, relations []*SubsurfaceRelation, backends ...Backend) *Teardown {
	t := NewTeardown(s)
	for i, w := range windows {
		t.Add(fmt.Sprintf("target[%d]", i), w.DestroyTarget)
	}
	for i, w := range windows {
		t.Add(fmt.Sprintf("role[%d]", i), w.DestroyRole)
		t.Add(fmt.Sprintf("surface[%d]", i), ignoreDestroyed(w.Destroy))
	}
	for i, r := range relations {
		t.Add(fmt.Sprintf("subsurface[%d]", i), ignoreDestroyed(r.Destroy))
	}
	for i, b := range backends {
		t.Add(fmt.Sprintf("backend[%d]", i), b.Close)
	}
	t.Add("connection", s.Close)
	return t
}

// ignoreDestroyed makes fn succeed when the object is already gone.
func ignoreDestroyed(fn func() error) func() error {
	return func() error {
		if err := fn(); !errors.Is(err, ErrDestroyed) {
			return err
		}
		return nil
	}
}
