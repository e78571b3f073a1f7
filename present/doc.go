// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package present keeps a Wayland surface populated with pixels.
//
// A program connects a Session, discovers the compositor's globals, creates
// a Window with a Provisioner, attaches a DrawTarget to it through a Backend,
// and runs a Loop until its RunningFlag is cleared. A Teardown then releases
// everything in dependency order:
//
//	s, err := present.Connect(ctx, dial)
//	...
//	if err := s.DiscoverCapabilities(ctx); err != nil { ... }
//	b, err := present.NewShmBackend(s, present.WithPainter(painter))
//	p, err := s.Provisioner()
//	w, err := p.CreateSurface(320, 320)
//	t, err := b.Attach(w)
//	loop, err := present.NewLoop(s, running, []present.DrawTarget{t})
//	_, err = loop.Run(ctx)
//	err = present.PlanTeardown(s, []*present.Window{w}, nil, b).Run(ctx)
//
// The package is single-threaded: listeners run on the goroutine that calls
// into the Display, and nothing but the RunningFlag may be touched from
// elsewhere.
package present
