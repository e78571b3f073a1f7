// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"

	"golang.org/x/exp/wlclient/internal/wltest"
	"golang.org/x/exp/wlclient/wl"
)

func dialer(d wl.Display) DialFunc {
	return func() (wl.Display, error) { return d, nil }
}

func connect(t *testing.T, d wl.Display, opts ...SessionOption) *Session {
	t.Helper()
	opts = append([]SessionOption{WithLogger(zaptest.NewLogger(t))}, opts...)
	s, err := Connect(context.Background(), dialer(d), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// discovered returns a session on d whose capabilities are discovered.
func discovered(t *testing.T, d wl.Display, opts ...SessionOption) *Session {
	t.Helper()
	s := connect(t, d, opts...)
	if err := s.DiscoverCapabilities(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestConnectNoServer(t *testing.T) {
	refused := errors.New("connection refused")
	_, err := Connect(context.Background(), func() (wl.Display, error) { return nil, refused })
	if !errors.Is(err, ErrNoServer) || !errors.Is(err, refused) {
		t.Errorf("Connect() = %v, want an error wrapping %v and %v", err, ErrNoServer, refused)
	}
}

func TestDiscoverCapabilities(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)

	caps := s.Capabilities()
	want := []string{"wl_compositor", "wl_shell", "wl_shm", "wl_subcompositor"}
	if diff := cmp.Diff(want, caps.Bound()); diff != "" {
		t.Errorf("bound globals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]wl.ShmFormat{wl.ShmFormatARGB8888, wl.ShmFormatXRGB8888}, caps.Formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	if caps.Has("wl_seat") {
		t.Error("wl_seat was bound")
	}
	if d.Roundtrips != 1 {
		t.Errorf("discovery made %d roundtrips, want 1", d.Roundtrips)
	}
	// Every global is bound at version 1 whatever the compositor offers.
	for _, r := range d.Requests {
		_, args, ok := strings.Cut(r, ".bind(")
		if !ok {
			continue
		}
		if f := strings.Split(args, ", "); len(f) != 4 || f[2] != "1" {
			t.Errorf("request %s does not bind version 1", r)
		}
	}
	if got := d.Index("wl_registry#3.bind(1, wl_compositor, 1,"); got < 0 {
		t.Errorf("no bind of wl_compositor at version 1 in %q", d.Requests)
	}
}

// TestDiscoverSubsets checks that, for every subset of advertised globals,
// exactly the recognized ones are bound.
func TestDiscoverSubsets(t *testing.T) {
	all := wltest.NewDisplay().Globals
	for mask := 0; mask < 1<<len(all); mask++ {
		d := wltest.NewDisplay()
		d.Globals = nil
		var want []string
		for i, g := range all {
			if mask&(1<<i) == 0 {
				continue
			}
			d.Globals = append(d.Globals, g)
			if g.Interface != "wl_seat" {
				want = append(want, g.Interface)
			}
		}
		s := discovered(t, d)
		got := s.Capabilities().Bound()
		if diff := cmp.Diff(want, got, cmpSorted); diff != "" {
			t.Errorf("globals %v: bound mismatch (-want +got):\n%s", d.Globals, diff)
		}
		err := s.Capabilities().Require(wl.CompositorInterface, wl.ShellInterface)
		mandatory := s.Capabilities().Has(wl.CompositorInterface) && s.Capabilities().Has(wl.ShellInterface)
		if (err == nil) != mandatory {
			t.Errorf("globals %v: Require(compositor, shell) = %v", d.Globals, err)
		}
	}
}

var cmpSorted = cmp.Options{
	cmpopts.SortSlices(func(a, b string) bool { return a < b }),
	cmpopts.EquateEmpty(),
}

func TestDuplicateGlobal(t *testing.T) {
	d := wltest.NewDisplay()
	d.Globals = append(d.Globals, wl.Global{Name: 9, Interface: wl.CompositorInterface, Version: 4})
	discovered(t, d)
	if n := d.Count("wl_compositor, 1"); n != 1 {
		t.Errorf("wl_compositor bound %d times, want once: %q", n, d.Requests)
	}
	if d.Index("bind(9,") >= 0 {
		t.Error("the second wl_compositor was bound instead of the first")
	}
}

func TestGlobalRemoveIgnored(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	d.RemoveGlobal(1)
	if err := d.DispatchPending(); err != nil {
		t.Fatal(err)
	}
	if !s.Capabilities().Has(wl.CompositorInterface) {
		t.Error("wl_compositor forgotten after global_remove")
	}
}

func TestDiscoverBindError(t *testing.T) {
	d := wltest.NewDisplay()
	denied := errors.New("denied")
	d.BindErr = map[string]error{wl.ShellInterface: denied}
	s := connect(t, d)
	if err := s.DiscoverCapabilities(context.Background()); !errors.Is(err, denied) {
		t.Errorf("DiscoverCapabilities() = %v, want %v", err, denied)
	}
	if _, err := s.Provisioner(); !errors.Is(err, ErrNotDiscovered) {
		t.Errorf("Provisioner() after failed discovery = %v, want %v", err, ErrNotDiscovered)
	}
}

func TestDiscoverRoundtripError(t *testing.T) {
	d := wltest.NewDisplay()
	d.Err = &wl.ProtocolError{ObjectID: 1, Code: 1, Message: "invalid method"}
	s := connect(t, d)
	var perr *wl.ProtocolError
	if err := s.DiscoverCapabilities(context.Background()); !errors.As(err, &perr) {
		t.Errorf("DiscoverCapabilities() = %v, want a protocol error", err)
	}
}

func TestProvisionerBeforeDiscovery(t *testing.T) {
	s := connect(t, wltest.NewDisplay())
	if _, err := s.Provisioner(); !errors.Is(err, ErrNotDiscovered) {
		t.Errorf("Provisioner() = %v, want %v", err, ErrNotDiscovered)
	}
}

func TestRequireMissing(t *testing.T) {
	d := wltest.NewDisplay()
	d.Globals = d.Globals[:1]
	s := discovered(t, d)
	err := s.Capabilities().Require(wl.CompositorInterface, wl.ShellInterface, wl.ShmInterface)
	if !errors.Is(err, ErrMissingCapability) {
		t.Fatalf("Require() = %v, want %v", err, ErrMissingCapability)
	}
	if !strings.Contains(err.Error(), "wl_shell, wl_shm") {
		t.Errorf("Require() = %q, want the missing names listed", err)
	}
}

func TestSessionClose(t *testing.T) {
	d := wltest.NewDisplay()
	s := discovered(t, d)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if !d.Closed {
		t.Error("display not closed")
	}
	if d.Index("wl_registry#3.destroy()") < 0 {
		t.Error("registry not destroyed")
	}
	if s.Capabilities().Has(wl.CompositorInterface) {
		t.Error("capabilities kept after Close")
	}
	if err := s.Close(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("second Close() = %v, want %v", err, ErrDestroyed)
	}
	if _, err := s.Provisioner(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Provisioner() after Close = %v, want %v", err, ErrDestroyed)
	}
}

func TestSessionSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	discovered(t, wltest.NewDisplay(), WithTracerProvider(tp))

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	if diff := cmp.Diff([]string{"connect", "discover"}, names); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}
