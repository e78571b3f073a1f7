// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wiredriver provides a pure Go implementation of the wl interfaces,
// speaking the Wayland wire protocol directly over the compositor's socket.
//
// It needs neither cgo nor libwayland-client, but as a consequence it cannot
// hand native object pointers to C libraries such as EGL. Use nativedriver
// for that.
package wiredriver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/exp/wlclient/driver/internal/wire"
	"golang.org/x/exp/wlclient/wl"
	"golang.org/x/sys/unix"
)

const displayID = 1

// Opcodes of wl_display.
const (
	displaySync        = 0
	displayGetRegistry = 1

	displayEventError    = 0
	displayEventDeleteID = 1
)

// SocketPath returns the path of the compositor socket for name, following
// libwayland: an empty name means $WAYLAND_DISPLAY, or "wayland-0" if that
// is unset, and relative names are resolved in $XDG_RUNTIME_DIR.
func SocketPath(name string) (string, error) {
	if name == "" {
		name = os.Getenv("WAYLAND_DISPLAY")
	}
	if name == "" {
		name = "wayland-0"
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return "", fmt.Errorf("wiredriver: XDG_RUNTIME_DIR is not set, cannot locate %q", name)
	}
	return filepath.Join(dir, name), nil
}

// Dial connects to the compositor. If $WAYLAND_SOCKET holds an inherited,
// already connected socket it is used, and the variable is cleared so that
// child processes do not reuse it. Otherwise name is resolved with
// SocketPath.
func Dial(name string) (*Display, error) {
	if s := os.Getenv("WAYLAND_SOCKET"); s != "" {
		os.Unsetenv("WAYLAND_SOCKET")
		fd, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("wiredriver: invalid WAYLAND_SOCKET %q", s)
		}
		unix.CloseOnExec(fd)
		return NewDisplay(fd), nil
	}
	path, err := SocketPath(name)
	if err != nil {
		return nil, err
	}
	c, err := wire.Dial(path)
	if err != nil {
		return nil, fmt.Errorf("wiredriver: %w", err)
	}
	return newDisplay(c), nil
}

// NewDisplay returns a Display talking over fd, a connected unix stream
// socket. The Display takes ownership of fd.
func NewDisplay(fd int) *Display {
	return newDisplay(wire.NewConn(fd))
}

func newDisplay(c *wire.Conn) *Display {
	d := &Display{
		c:       c,
		objects: map[uint32]object{},
		next:    displayID + 1,
	}
	d.objects[displayID] = displayObject{d}
	return d
}

// object is the client side of a protocol object.
type object interface {
	dispatch(dec *wire.Decoder) error
}

// zombie stands in for an object the client has destroyed but whose id the
// compositor has not yet released; its events are dropped.
type zombie struct{}

func (zombie) dispatch(*wire.Decoder) error { return nil }

// Display is a connection to a compositor. It implements wl.Display.
type Display struct {
	c *wire.Conn

	objects map[uint32]object
	free    []uint32
	next    uint32

	// err is sticky: a protocol error or a broken connection ends the
	// session.
	err    error
	closed bool
}

var _ wl.Display = (*Display)(nil)

func (d *Display) newID(o object) uint32 {
	var id uint32
	if n := len(d.free); n > 0 {
		id, d.free = d.free[n-1], d.free[:n-1]
	} else {
		id = d.next
		d.next++
	}
	d.objects[id] = o
	return id
}

func (d *Display) request(m *wire.Message) error {
	if d.err != nil {
		return d.err
	}
	if d.closed {
		return errClosed
	}
	if err := d.c.Queue(m); err != nil {
		d.err = err
		return err
	}
	return nil
}

// destroy turns id into a zombie until the compositor confirms with
// wl_display.delete_id.
func (d *Display) destroy(id uint32) {
	if _, ok := d.objects[id]; ok {
		d.objects[id] = zombie{}
	}
}

var errClosed = errors.New("wiredriver: display is closed")

func (d *Display) Registry(l wl.RegistryListener) (wl.Registry, error) {
	r := &registry{d: d, l: l}
	r.id = d.newID(r)
	if err := d.request(wire.NewMessage(displayID, displayGetRegistry).NewID(r.id)); err != nil {
		return nil, err
	}
	return r, nil
}

func (d *Display) Flush() error {
	if d.err != nil {
		return d.err
	}
	if err := d.c.Flush(); err != nil {
		d.err = err
		return err
	}
	return nil
}

func (d *Display) Roundtrip() error {
	done := false
	cb := &callback{done: func(uint32) { done = true }}
	cb.id = d.newID(cb)
	if err := d.request(wire.NewMessage(displayID, displaySync).NewID(cb.id)); err != nil {
		return err
	}
	if err := d.Flush(); err != nil {
		return err
	}
	for {
		if err := d.dispatchBuffered(); err != nil {
			return err
		}
		if done {
			return nil
		}
		if _, err := d.c.Fill(true); err != nil {
			return d.fail(err)
		}
	}
}

func (d *Display) DispatchPending() error {
	if err := d.Flush(); err != nil {
		return err
	}
	for {
		n, err := d.c.Fill(false)
		if err != nil {
			return d.fail(err)
		}
		if n == 0 {
			break
		}
	}
	return d.dispatchBuffered()
}

func (d *Display) fail(err error) error {
	if err == io.EOF {
		err = errors.New("wiredriver: compositor closed the connection")
	}
	d.err = err
	return err
}

// dispatchBuffered dispatches every whole message already read.
func (d *Display) dispatchBuffered() error {
	for d.err == nil {
		dec, err := d.c.Next()
		if err != nil {
			return d.fail(err)
		}
		if dec == nil {
			return nil
		}
		o, ok := d.objects[dec.Header.Object]
		if !ok {
			// Events may race with delete_id for ids already reused or
			// freed; libwayland drops them too.
			continue
		}
		if err := o.dispatch(dec); err != nil {
			return d.fail(fmt.Errorf("wiredriver: object %d event %d: %w", dec.Header.Object, dec.Header.Opcode, err))
		}
	}
	return d.err
}

func (d *Display) Close() error {
	if d.closed {
		return errClosed
	}
	d.closed = true
	// Flush what we can; the compositor cleans up after us either way.
	d.c.Flush()
	return d.c.Close()
}

type displayObject struct {
	d *Display
}

func (o displayObject) dispatch(dec *wire.Decoder) error {
	switch dec.Header.Opcode {
	case displayEventError:
		e := &wl.ProtocolError{
			ObjectID: dec.Uint(),
			Code:     dec.Uint(),
			Message:  dec.String(),
		}
		if err := dec.Err(); err != nil {
			return err
		}
		o.d.err = e
	case displayEventDeleteID:
		id := dec.Uint()
		if err := dec.Err(); err != nil {
			return err
		}
		if _, ok := o.d.objects[id]; ok {
			delete(o.d.objects, id)
			o.d.free = append(o.d.free, id)
		}
	}
	return nil
}
