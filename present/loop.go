// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"golang.org/x/exp/wlclient/wl"
)

// LoopState is the state of a Loop.
type LoopState int32

const (
	Idle LoopState = iota
	Running
	Draining
	Stopped
)

func (s LoopState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("LoopState(%d)", int32(s))
}

// A LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameLimit stops the loop after n frames. Zero means no limit.
func WithFrameLimit(n int) LoopOption {
	return func(l *Loop) { l.limit = n }
}

// WithFrameInterval waits d between the start of successive frames. The
// default of zero runs frames back to back, bounded only by how long
// presenting takes.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) { l.interval = d }
}

// Loop presents a set of targets once per iteration until its RunningFlag
// is cleared.
type Loop struct {
	display wl.Display
	running *RunningFlag
	targets []DrawTarget
	log     *zap.Logger
	frames  metric.Int64Counter

	limit    int
	interval time.Duration
	state    atomic.Int32
}

// NewLoop returns an Idle loop presenting targets, in order, on every
// iteration.
func NewLoop(s *Session, running *RunningFlag, targets []DrawTarget, opts ...LoopOption) (*Loop, error) {
	frames, err := s.meter.Int64Counter("wlclient.frames",
		metric.WithDescription("Frames presented."),
		metric.WithUnit("{frame}"))
	if err != nil {
		return nil, fmt.Errorf("present: frame counter: %w", err)
	}
	l := &Loop{
		display: s.display,
		running: running,
		targets: targets,
		log:     s.log.Named("loop"),
		frames:  frames,
	}
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

// State returns the loop's current state. It may be called from any
// goroutine.
func (l *Loop) State() LoopState { return LoopState(l.state.Load()) }

func (l *Loop) setState(s LoopState) {
	l.state.Store(int32(s))
	l.log.Debug("state", zap.Stringer("state", s))
}

var errLoopStarted = errors.New("present: loop already started")

// Run runs the loop and returns the number of frames presented. Every
// iteration dispatches pending events before drawing, so a configure
// received during a frame takes effect in the next one. The loop drains
// once the RunningFlag is cleared, the frame limit is reached, or ctx is
// done; the frame in progress always completes. A dispatch or present
// error stops the loop immediately.
func (l *Loop) Run(ctx context.Context) (frames int, err error) {
	if !l.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return 0, errLoopStarted
	}
	l.log.Info("running", zap.Int("targets", len(l.targets)))
	defer func() {
		l.setState(Stopped)
		l.log.Info("stopped", zap.Int("frames", frames), zap.Error(err))
	}()

	var tick *time.Ticker
	if l.interval > 0 {
		tick = time.NewTicker(l.interval)
		defer tick.Stop()
	}
	for {
		if err := l.display.DispatchPending(); err != nil {
			return frames, fmt.Errorf("present: dispatch: %w", err)
		}
		for _, t := range l.targets {
			if err := t.Present(); err != nil {
				return frames, fmt.Errorf("present: frame %d: %w", frames, err)
			}
		}
		if err := l.display.Flush(); err != nil {
			return frames, fmt.Errorf("present: flush: %w", err)
		}
		frames++
		l.frames.Add(ctx, 1)

		if !l.running.Running() || ctx.Err() != nil || (l.limit > 0 && frames >= l.limit) {
			l.setState(Draining)
			return frames, nil
		}
		if tick != nil {
			select {
			case <-tick.C:
			case <-ctx.Done():
				l.setState(Draining)
				return frames, nil
			}
		}
	}
}
