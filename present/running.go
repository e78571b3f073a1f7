// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"os"
	"os/signal"

	"go.uber.org/atomic"
)

// RunningFlag tells a Loop to keep going. It starts set and is cleared at
// most once. It is the only value in this package that may be touched from
// more than one goroutine.
type RunningFlag struct {
	stopped atomic.Bool
}

// NewRunningFlag returns a set flag.
func NewRunningFlag() *RunningFlag { return &RunningFlag{} }

// Running reports whether the flag is still set.
func (f *RunningFlag) Running() bool { return !f.stopped.Load() }

// Stop clears the flag. It reports whether this call cleared it.
func (f *RunningFlag) Stop() bool { return f.stopped.CompareAndSwap(false, true) }

// resetInterrupt restores the default SIGINT disposition.
var resetInterrupt = func() { signal.Reset(os.Interrupt) }

// NotifyInterrupt clears f on the first SIGINT and then restores the
// default disposition, so that a second SIGINT kills the process. The
// returned function stops listening if no signal arrived yet.
func NotifyInterrupt(f *RunningFlag) (stop func()) {
	c := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(c, os.Interrupt)
	go func() {
		select {
		case <-c:
			f.Stop()
			resetInterrupt()
		case <-done:
			signal.Stop(c)
		}
	}()
	var stopped atomic.Bool
	return func() {
		if stopped.CompareAndSwap(false, true) {
			close(done)
		}
	}
}
