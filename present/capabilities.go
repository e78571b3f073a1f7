// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/wlclient/wl"
)

func recognized(iface string) bool {
	switch iface {
	case wl.CompositorInterface, wl.ShellInterface, wl.ShmInterface, wl.SubcompositorInterface:
		return true
	}
	return false
}

// CapabilitySet holds the globals a Session has bound. A nil field means
// the compositor did not advertise that interface.
type CapabilitySet struct {
	Compositor    wl.Compositor
	Shell         wl.Shell
	Shm           wl.Shm
	Subcompositor wl.Subcompositor

	// Formats lists the pixel formats wl_shm advertised. They are
	// recorded, not checked: ARGB8888 is always supported.
	Formats []wl.ShmFormat

	// names maps bound interface names to global names.
	names map[string]uint32
}

// Has reports whether a global of interface iface is bound.
func (c *CapabilitySet) Has(iface string) bool {
	_, ok := c.names[iface]
	return ok
}

// Bound returns the sorted interface names of the bound globals.
func (c *CapabilitySet) Bound() []string {
	b := make([]string, 0, len(c.names))
	for n := range c.names {
		b = append(b, n)
	}
	sort.Strings(b)
	return b
}

// Require returns an error wrapping ErrMissingCapability if any of ifaces
// is not bound.
func (c *CapabilitySet) Require(ifaces ...string) error {
	var missing []string
	for _, iface := range ifaces {
		if !c.Has(iface) {
			missing = append(missing, iface)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCapability, strings.Join(missing, ", "))
	}
	return nil
}

func (c *CapabilitySet) release() {
	if c.Subcompositor != nil {
		c.Subcompositor.Destroy()
	}
	if c.Shm != nil {
		c.Shm.Destroy()
	}
	if c.Shell != nil {
		c.Shell.Destroy()
	}
	if c.Compositor != nil {
		c.Compositor.Destroy()
	}
	*c = CapabilitySet{names: map[string]uint32{}}
}
