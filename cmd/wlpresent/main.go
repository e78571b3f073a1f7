// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// wlpresent opens a window on a Wayland compositor and keeps it drawn until
// interrupted.
//
// Usage:
//
//	wlpresent [-backend=egl|shm] [-driver=auto|wire|native] [-layered] [flags]
//
// Examples:
//
//	# A textured quad drawn with OpenGL ES through EGL.
//	wlpresent
//
//	# A checkerboard drawn on the CPU into shared memory, for ten seconds.
//	wlpresent -backend=shm -frames=600 -interval=16ms
//
//	# A checkerboard with an accelerated overlay stacked on it.
//	wlpresent -backend=shm -layered -cell=1
//
// The shm backend needs XDG_RUNTIME_DIR. The egl backend needs the native
// driver, which is only available in builds with cgo.
//
// The first interrupt stops the presentation loop after the frame in
// progress and releases everything in order; wlpresent then exits with
// status 0. A second interrupt kills the process. Any setup failure is
// reported on standard error and exits with status 1.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"golang.org/x/exp/wlclient/content"
	"golang.org/x/exp/wlclient/driver"
	"golang.org/x/exp/wlclient/present"
	"golang.org/x/exp/wlclient/present/accel"
	"golang.org/x/exp/wlclient/wl"
)

// EGL contexts are bound to the thread that made them current, and GL work
// is executed on the main goroutine.
func init() { runtime.LockOSThread() }

func main() {
	err := run(context.Background(), os.Args[1:], os.Stderr, env{dial: driver.Dial})
	if err != nil {
		var u *usageError
		if errors.As(err, &u) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type usageError struct {
	err error
}

func (e *usageError) Error() string { return fmt.Sprintf("wlpresent: %v", e.err) }
func (e *usageError) Unwrap() error { return e.err }

// env holds what tests replace.
type env struct {
	dial  func(kind driver.Kind, name string) (wl.Display, error)
	accel accel.Options
}

// options are the parsed command line.
type options struct {
	cfg     present.Config
	driver  driver.Kind
	display string
	verbose bool
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("wlpresent", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o := options{cfg: present.DefaultConfig()}
	c := &o.cfg
	var driverName string
	fs.StringVar(&c.Backend, "backend", c.Backend, "`backend` drawing the window: egl or shm")
	fs.StringVar(&driverName, "driver", driver.Auto.String(), "protocol `driver`: auto, wire or native")
	fs.StringVar(&o.display, "display", "", "Wayland display `name` (default $WAYLAND_DISPLAY)")
	fs.BoolVar(&c.Layered, "layered", c.Layered, "stack an overlay sub-surface on the window")
	fs.StringVar(&c.OverlayBackend, "overlay", c.OverlayBackend, "`backend` drawing the overlay")
	fs.IntVar(&c.OverlayX, "overlay-x", c.OverlayX, "overlay offset from the window's left edge")
	fs.IntVar(&c.OverlayY, "overlay-y", c.OverlayY, "overlay offset from the window's top edge")
	fs.BoolVar(&c.OverlayBelow, "below", c.OverlayBelow, "stack the overlay below the window")
	fs.IntVar(&c.Width, "width", c.Width, "window width")
	fs.IntVar(&c.Height, "height", c.Height, "window height")
	fs.StringVar(&c.Title, "title", c.Title, "window title")
	fs.IntVar(&c.FrameLimit, "frames", c.FrameLimit, "stop after `n` frames (0 runs until interrupted)")
	fs.DurationVar(&c.FrameInterval, "interval", c.FrameInterval, "minimum time between frames")
	fs.StringVar(&c.Texture, "texture", c.Texture, "PNG, BMP or WebP `file` drawn by egl windows")
	fs.IntVar(&c.Cell, "cell", c.Cell, "checkerboard cell size of shm windows")
	fs.IntVar(&c.Buffers, "buffers", c.Buffers, "shm buffers per window")
	fs.BoolVar(&o.verbose, "v", false, "log debug messages")
	if err := fs.Parse(args); err != nil {
		return o, &usageError{err}
	}
	if fs.NArg() > 0 {
		return o, &usageError{errors.New("no arguments allowed")}
	}
	k, err := driver.ParseKind(driverName)
	if err != nil {
		return o, &usageError{err}
	}
	o.driver = k
	if err := c.Validate(); err != nil {
		return o, &usageError{err}
	}
	return o, nil
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).Named("wlpresent")
}

// run is the main function of wlpresent. It writes its log to stderr and
// returns the fatal error, if any, after releasing whatever was set up.
func run(ctx context.Context, args []string, stderr io.Writer, e env) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	log := newLogger(stderr, o.verbose)
	defer log.Sync()

	p := &presentation{cfg: o.cfg, env: e, log: log}
	if err := p.setup(ctx, o); err != nil {
		log.Error("setup failed", zap.Error(err))
		p.teardown(ctx)
		return err
	}
	frames, err := p.loop(ctx)
	p.teardown(ctx)
	if err != nil {
		log.Error("presentation failed", zap.Int("frames", frames), zap.Error(err))
		return err
	}
	log.Info("done", zap.Int("frames", frames))
	return nil
}

// presentation is everything set up for one run, in creation order.
type presentation struct {
	cfg present.Config
	env env
	log *zap.Logger

	session   *present.Session
	windows   []*present.Window
	relations []*present.SubsurfaceRelation
	backends  []present.Backend
	targets   []present.DrawTarget

	// accel is shared by every EGL window.
	accel *accel.Backend
}

func (p *presentation) setup(ctx context.Context, o options) error {
	s, err := present.Connect(ctx, func() (wl.Display, error) {
		return p.env.dial(o.driver, o.display)
	}, present.WithLogger(p.log))
	if err != nil {
		return err
	}
	p.session = s
	if err := s.DiscoverCapabilities(ctx); err != nil {
		return err
	}
	if err := s.Capabilities().Require(wl.CompositorInterface, wl.ShellInterface); err != nil {
		return err
	}

	// Backends come first so that a missing runtime directory or EGL
	// failure aborts before any surface exists.
	var tex *image.RGBA
	if p.cfg.Texture != "" {
		if tex, err = content.LoadTexture(p.cfg.Texture); err != nil {
			return err
		}
	}
	base, err := p.newBackend(p.cfg.Backend, false, tex)
	if err != nil {
		return err
	}
	var overlay attachFunc
	if p.cfg.Layered {
		if overlay, err = p.newBackend(p.cfg.OverlayBackend, true, tex); err != nil {
			return err
		}
	}

	prov, err := s.Provisioner(present.WithTitle(p.cfg.Title), present.WithClass(p.cfg.Class))
	if err != nil {
		return err
	}
	if p.cfg.Layered {
		l, err := prov.CreateLayered(p.cfg.Width, p.cfg.Height,
			p.cfg.OverlayWidth, p.cfg.OverlayHeight, p.cfg.OverlayX, p.cfg.OverlayY, !p.cfg.OverlayBelow)
		if err != nil {
			return err
		}
		p.windows = l.Windows()
		p.relations = append(p.relations, l.Relation)
		return p.attach(map[*present.Window]attachFunc{l.Base: base, l.Overlay: overlay})
	}
	w, err := prov.CreateSurface(p.cfg.Width, p.cfg.Height)
	if err != nil {
		return err
	}
	p.windows = []*present.Window{w}
	return p.attach(map[*present.Window]attachFunc{w: base})
}

// attachFunc attaches a window to the backend that draws it.
type attachFunc func(*present.Window) (present.DrawTarget, error)

// attach attaches each window, in window order.
func (p *presentation) attach(attachers map[*present.Window]attachFunc) error {
	for _, w := range p.windows {
		t, err := attachers[w](w)
		if err != nil {
			return err
		}
		p.targets = append(p.targets, t)
	}
	return nil
}

// newBackend returns how a base window or an overlay is attached to a
// backend of the named kind. Every shm window gets its own backend. EGL
// windows share one, since the thread has a single current context and
// the backend switches it between its targets.
func (p *presentation) newBackend(kind string, overlay bool, tex *image.RGBA) (attachFunc, error) {
	switch kind {
	case present.BackendShm:
		var painter present.Painter = content.Checkerboard{Cell: p.cfg.Cell}
		if overlay {
			painter = content.DefaultRings()
		}
		sb, err := present.NewShmBackend(p.session, present.WithPainter(painter), present.WithBuffers(p.cfg.Buffers))
		if err != nil {
			return nil, err
		}
		p.backends = append(p.backends, sb)
		return sb.Attach, nil
	case present.BackendEGL:
		var drawer accel.Drawer = content.NewTexturedQuad(tex)
		if overlay {
			drawer = content.NewOverlayQuad(tex)
		}
		if p.accel == nil {
			ab, err := accel.New(p.session, p.env.accel)
			if err != nil {
				return nil, err
			}
			p.accel = ab
			p.backends = append(p.backends, ab)
		}
		ab := p.accel
		return func(w *present.Window) (present.DrawTarget, error) {
			return ab.AttachDrawer(w, drawer)
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", kind)
}

func (p *presentation) loop(ctx context.Context) (int, error) {
	running := present.NewRunningFlag()
	stop := present.NotifyInterrupt(running)
	defer stop()
	l, err := present.NewLoop(p.session, running, p.targets,
		present.WithFrameLimit(p.cfg.FrameLimit), present.WithFrameInterval(p.cfg.FrameInterval))
	if err != nil {
		return 0, err
	}
	return l.Run(ctx)
}

// teardown releases everything set up so far. Failures are logged by the
// teardown itself and do not change the exit status.
func (p *presentation) teardown(ctx context.Context) {
	if p.session == nil {
		return
	}
	present.PlanTeardown(p.session, p.windows, p.relations, p.backends...).Run(ctx)
}
