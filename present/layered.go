// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"fmt"

	"go.uber.org/zap"

	"golang.org/x/exp/wlclient/wl"
)

// SubsurfaceRelation ties an overlay window to the base window it is a
// sub-surface of. It is valid while both windows exist.
type SubsurfaceRelation struct {
	sub           wl.Subsurface
	overlay, base *Window
	log           *zap.Logger

	// X and Y are the overlay's offset from the base's top-left corner.
	X, Y  int
	// Above reports whether the overlay is stacked above the base.
	Above bool

	valid     bool
	destroyed bool
}

func (r *SubsurfaceRelation) place() error {
	if err := r.sub.SetPosition(int32(r.X), int32(r.Y)); err != nil {
		return fmt.Errorf("present: subsurface position: %w", err)
	}
	var err error
	if r.Above {
		err = r.sub.PlaceAbove(r.base.surface)
	} else {
		err = r.sub.PlaceBelow(r.base.surface)
	}
	if err != nil {
		return fmt.Errorf("present: subsurface stacking: %w", err)
	}
	return nil
}

// Overlay returns the sub-surface window.
func (r *SubsurfaceRelation) Overlay() *Window { return r.overlay }

// Base returns the parent window.
func (r *SubsurfaceRelation) Base() *Window { return r.base }

// Valid reports whether both windows still exist and the relation has not
// been destroyed.
func (r *SubsurfaceRelation) Valid() bool { return r.valid && !r.destroyed }

// Destroy releases the wl_subsurface. It may be called after either window
// has been destroyed: the compositor keeps an inert role object around until
// the client destroys it.
func (r *SubsurfaceRelation) Destroy() error {
	if r.destroyed {
		return ErrDestroyed
	}
	if !r.valid {
		r.log.Debug("destroying dangling subsurface relation")
	}
	r.destroyed = true
	r.valid = false
	return r.sub.Destroy()
}

// Layered is a base window with one overlay stacked on it.
type Layered struct {
	Base     *Window
	Overlay  *Window
	Relation *SubsurfaceRelation
}

// CreateLayered creates a top-level base window of size baseW×baseH and an
// overlay of size overW×overH at (x, y) on it.
func (p *Provisioner) CreateLayered(baseW, baseH, overW, overH, x, y int, above bool) (*Layered, error) {
	base, err := p.CreateSurface(baseW, baseH)
	if err != nil {
		return nil, err
	}
	overlay, rel, err := p.CreateOverlay(base, overW, overH, x, y, above)
	if err != nil {
		base.Destroy()
		return nil, err
	}
	return &Layered{Base: base, Overlay: overlay, Relation: rel}, nil
}

// Windows returns the base and the overlay, in the order their surfaces are
// destroyed at teardown.
func (l *Layered) Windows() []*Window {
	return []*Window{l.Base, l.Overlay}
}
