// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"errors"
	"fmt"
	"time"
)

// Backend names accepted in Config.
const (
	BackendShm = "shm"
	BackendEGL = "egl"
)

// Config describes a presentation: which backend draws the window, whether
// an overlay is stacked on it, and how long to run.
type Config struct {
	Width, Height int
	Backend       string
	Title         string
	Class         string

	// Layered adds an overlay sub-surface drawn by OverlayBackend.
	Layered                     bool
	OverlayBackend              string
	OverlayWidth, OverlayHeight int
	OverlayX, OverlayY          int
	OverlayBelow                bool

	// Cell is the checkerboard cell size of CPU-drawn windows.
	Cell    int
	// Texture names an image file for GPU-drawn windows. Empty means a
	// generated one.
	Texture string

	// Buffers is the number of shm buffers per window.
	Buffers int

	FrameLimit    int
	FrameInterval time.Duration
}

// DefaultConfig returns the configuration of the plain accelerated window:
// 256×256, EGL, running until interrupted.
func DefaultConfig() Config {
	return Config{
		Width:          256,
		Height:         256,
		Backend:        BackendEGL,
		Title:          "wlpresent",
		Class:          "wlpresent",
		OverlayBackend: BackendEGL,
		OverlayWidth:   160,
		OverlayHeight:  160,
		OverlayX:       160,
		OverlayY:       160,
		Cell:           20,
		Buffers:        1,
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("present: invalid size %dx%d", c.Width, c.Height)
	}
	if err := validBackend(c.Backend); err != nil {
		return err
	}
	if c.Cell <= 0 {
		return fmt.Errorf("present: invalid cell size %d", c.Cell)
	}
	if c.Buffers <= 0 {
		return fmt.Errorf("present: invalid buffer count %d", c.Buffers)
	}
	if c.FrameLimit < 0 || c.FrameInterval < 0 {
		return errors.New("present: negative frame limit or interval")
	}
	if !c.Layered {
		return nil
	}
	if c.OverlayWidth <= 0 || c.OverlayHeight <= 0 {
		return fmt.Errorf("present: invalid overlay size %dx%d", c.OverlayWidth, c.OverlayHeight)
	}
	return validBackend(c.OverlayBackend)
}

func validBackend(b string) error {
	switch b {
	case BackendShm, BackendEGL:
		return nil
	}
	return fmt.Errorf("present: unknown backend %q", b)
}
