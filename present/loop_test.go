// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"golang.org/x/exp/wlclient/internal/wltest"
	"golang.org/x/exp/wlclient/wl"
)

func newWindow(t *testing.T, s *Session) *Window {
	t.Helper()
	w, err := provisioner(t, s).CreateSurface(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestLoopFrameLimit(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	ft := attachFake(t, newWindow(t, s))
	l, err := NewLoop(s, NewRunningFlag(), []DrawTarget{ft}, WithFrameLimit(3))
	if err != nil {
		t.Fatal(err)
	}
	if got := l.State(); got != Idle {
		t.Errorf("State() before Run = %v, want %v", got, Idle)
	}
	flushes := d.Flushes
	frames, err := l.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if frames != 3 || ft.presents != 3 {
		t.Errorf("Run() = %d frames, %d presents, want 3 and 3", frames, ft.presents)
	}
	// One DispatchPending and one Flush per frame.
	if got := d.Flushes - flushes; got != 6 {
		t.Errorf("%d flushes, want 6", got)
	}
	if got := l.State(); got != Stopped {
		t.Errorf("State() after Run = %v, want %v", got, Stopped)
	}
	if _, err := l.Run(context.Background()); !errors.Is(err, errLoopStarted) {
		t.Errorf("second Run() = %v, want %v", err, errLoopStarted)
	}
}

func TestLoopStopsWhenFlagCleared(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	running := NewRunningFlag()
	ft := attachFake(t, newWindow(t, s))
	var l *Loop
	var states []LoopState
	ft.onPresent = func() error {
		states = append(states, l.State())
		if ft.presents == 2 {
			running.Stop()
		}
		return nil
	}
	var err error
	l, err = NewLoop(s, running, []DrawTarget{ft})
	if err != nil {
		t.Fatal(err)
	}
	frames, err := l.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// The frame in progress when the flag was cleared completes.
	if frames != 2 {
		t.Errorf("Run() = %d frames, want 2", frames)
	}
	for _, st := range states {
		if st != Running {
			t.Errorf("state %v while presenting, want %v", st, Running)
		}
	}
}

func TestLoopPresentsEveryTarget(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	var order []int
	a, b := attachFake(t, newWindow(t, s)), attachFake(t, newWindow(t, s))
	a.onPresent = func() error { order = append(order, 0); return nil }
	b.onPresent = func() error { order = append(order, 1); return nil }
	l, err := NewLoop(s, NewRunningFlag(), []DrawTarget{a, b}, WithFrameLimit(2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 1, 0, 1}; len(order) != 4 || order[0] != 0 || order[1] != 1 || order[2] != 0 || order[3] != 1 {
		t.Errorf("present order %v, want %v", order, want)
	}
}

func TestLoopDispatchError(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	ft := attachFake(t, newWindow(t, s))
	perr := &wl.ProtocolError{ObjectID: 8, Code: 2, Message: "invalid size"}
	d.Err = perr
	l, err := NewLoop(s, NewRunningFlag(), []DrawTarget{ft})
	if err != nil {
		t.Fatal(err)
	}
	frames, err := l.Run(context.Background())
	if !errors.Is(err, perr) || frames != 0 {
		t.Errorf("Run() = %d, %v, want 0, %v", frames, err, perr)
	}
	if ft.presents != 0 {
		t.Error("presented after a dispatch error")
	}
	if l.State() != Stopped {
		t.Errorf("State() = %v, want %v", l.State(), Stopped)
	}
}

func TestLoopPresentError(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	ft := attachFake(t, newWindow(t, s))
	broken := errors.New("broken")
	ft.onPresent = func() error { return broken }
	l, err := NewLoop(s, NewRunningFlag(), []DrawTarget{ft})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background()); !errors.Is(err, broken) {
		t.Errorf("Run() = %v, want %v", err, broken)
	}
}

func TestLoopContextDone(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	ft := attachFake(t, newWindow(t, s))
	ctx, cancel := context.WithCancel(context.Background())
	ft.onPresent = func() error {
		if ft.presents == 3 {
			cancel()
		}
		return nil
	}
	l, err := NewLoop(s, NewRunningFlag(), []DrawTarget{ft}, WithFrameInterval(time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	frames, err := l.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if frames != 3 {
		t.Errorf("Run() = %d frames, want 3", frames)
	}
}

func TestLoopFrameMetric(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	d := wltest.NewDisplay()
	s := discovered(t, d, WithMeterProvider(mp))
	ft := attachFake(t, newWindow(t, s))
	l, err := NewLoop(s, NewRunningFlag(), []DrawTarget{ft}, WithFrameLimit(5))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var got int64 = -1
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "wlclient.frames" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || len(sum.DataPoints) != 1 {
				t.Fatalf("wlclient.frames data %T %+v", m.Data, m.Data)
			}
			got = sum.DataPoints[0].Value
		}
	}
	if got != 5 {
		t.Errorf("wlclient.frames = %d, want 5", got)
	}
}

func TestLoopStateString(t *testing.T) {
	for s, want := range map[LoopState]string{
		Idle:         "idle",
		Running:      "running",
		Draining:     "draining",
		Stopped:      "stopped",
		LoopState(9): "LoopState(9)",
	} {
		if got := s.String(); got != want {
			t.Errorf("LoopState(%d).String() = %q, want %q", int32(s), got, want)
		}
	}
}

func TestRunningFlag(t *testing.T) {
	f := NewRunningFlag()
	if !f.Running() {
		t.Fatal("new flag is not set")
	}
	if !f.Stop() {
		t.Error("first Stop() = false")
	}
	if f.Stop() {
		t.Error("second Stop() = true")
	}
	if f.Running() {
		t.Error("flag still set after Stop")
	}

	stop := NotifyInterrupt(NewRunningFlag())
	stop()
	stop()
}

func TestNotifyInterrupt(t *testing.T) {
	reset := make(chan struct{})
	defer func(old func()) { resetInterrupt = old }(resetInterrupt)
	resetInterrupt = func() {
		signal.Reset(os.Interrupt)
		close(reset)
	}

	f := NewRunningFlag()
	stop := NotifyInterrupt(f)
	defer stop()
	if err := syscall.Kill(os.Getpid(), syscall.SIGINT); err != nil {
		t.Fatal(err)
	}
	select {
	case <-reset:
	case <-time.After(10 * time.Second):
		t.Fatal("SIGINT handler did not run")
	}
	if f.Running() {
		t.Error("flag still set after SIGINT")
	}
	if f.Stop() {
		t.Error("Stop() after SIGINT = true, want the flag already cleared")
	}
}
