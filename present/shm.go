// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"context"
	"fmt"
	"math"
	"os"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"golang.org/x/exp/wlclient/wl"
)

// bytesPerPixel is the size of an ARGB8888 pixel.
const bytesPerPixel = 4

// MappedBuffer is a file-backed pixel buffer shared with the compositor.
// The file has no name: it is unlinked as soon as it is created.
type MappedBuffer struct {
	f    *os.File
	name string

	// Data is the mapped memory, Stride*Height bytes long.
	Data []byte

	Width, Height, Stride int
}

// AllocateBuffer creates a width×height ARGB8888 buffer backed by an
// unlinked file in dir, and maps it shared and writable.
func AllocateBuffer(dir string, width, height int) (*MappedBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("present: invalid buffer size %dx%d", width, height)
	}
	stride := width * bytesPerPixel
	size := stride * height
	if size > math.MaxInt32 {
		return nil, fmt.Errorf("present: buffer size %dx%d too large", width, height)
	}

	f, err := os.CreateTemp(dir, "wlclient-shm-")
	if err != nil {
		return nil, fmt.Errorf("present: create shm file: %w", err)
	}
	b := &MappedBuffer{f: f, name: f.Name(), Width: width, Height: height, Stride: stride}
	if err := os.Remove(b.name); err != nil {
		f.Close()
		return nil, fmt.Errorf("present: unlink shm file: %w", err)
	}
	fd := int(f.Fd())
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("present: ftruncate shm file to %d bytes: %w", size, err)
	}
	b.Data, err = unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("present: mmap shm file: %w", err)
	}
	return b, nil
}

// Name returns the path the backing file had before it was unlinked.
func (b *MappedBuffer) Name() string { return b.name }

// Size returns the length of the mapping in bytes.
func (b *MappedBuffer) Size() int { return len(b.Data) }

// Wrap shares the buffer's file with the compositor and returns a wl_buffer
// over it. The pool is destroyed right away; the buffer outlives it.
func (b *MappedBuffer) Wrap(shm wl.Shm) (wl.Buffer, error) {
	pool, err := shm.CreatePool(int(b.f.Fd()), int32(len(b.Data)))
	if err != nil {
		return nil, fmt.Errorf("present: create shm pool: %w", err)
	}
	wb, err := pool.CreateBuffer(0, int32(b.Width), int32(b.Height), int32(b.Stride), wl.ShmFormatARGB8888)
	if perr := pool.Destroy(); err == nil && perr != nil {
		err = perr
	}
	if err != nil {
		return nil, fmt.Errorf("present: create shm buffer: %w", err)
	}
	return wb, nil
}

// Release unmaps the memory, then closes the file.
func (b *MappedBuffer) Release() error {
	var err error
	if b.Data != nil {
		err = unix.Munmap(b.Data)
		b.Data = nil
	}
	return multierr.Append(err, b.f.Close())
}

// A ShmOption configures a ShmBackend.
type ShmOption func(*ShmBackend)

// WithPainter sets the painter that fills every frame. The default leaves
// frames fully transparent.
func WithPainter(p Painter) ShmOption {
	return func(b *ShmBackend) { b.painter = p }
}

// WithBuffers sets the number of buffers per target. With one buffer, the
// default, every frame is painted into memory the compositor may still be
// reading. With more, a frame is painted into a buffer the compositor has
// released, and skipped if there is none.
func WithBuffers(n int) ShmOption {
	return func(b *ShmBackend) {
		if n > 0 {
			b.buffers = n
		}
	}
}

// ShmBackend draws frames on the CPU into shared memory buffers.
type ShmBackend struct {
	s       *Session
	shm     wl.Shm
	dir     string
	painter Painter
	buffers int
	log     *zap.Logger
}

var _ Backend = (*ShmBackend)(nil)

// NewShmBackend returns a backend allocating buffers in $XDG_RUNTIME_DIR.
// It fails with ErrNoRuntimeDir if the variable is unset, and with
// ErrMissingCapability if wl_shm was not bound.
func NewShmBackend(s *Session, opts ...ShmOption) (*ShmBackend, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return nil, ErrNoRuntimeDir
	}
	if err := s.caps.Require(wl.ShmInterface); err != nil {
		return nil, err
	}
	b := &ShmBackend{
		s:       s,
		shm:     s.caps.Shm,
		dir:     dir,
		painter: PainterFunc(func([]byte, int, int, int) error { return nil }),
		buffers: 1,
		log:     s.log.Named("shm"),
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Attach creates a target of w's current size.
func (b *ShmBackend) Attach(w *Window) (DrawTarget, error) {
	_, span := b.s.tracer.Start(context.Background(), "attach.shm")
	defer span.End()

	t := &shmTarget{b: b, w: w}
	t.width, t.height = w.Size()
	if err := t.allocate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := w.Attach(t); err != nil {
		t.free()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	b.log.Info("attached", zap.Uint32("surface", w.surface.ID()),
		zap.Int("width", t.width), zap.Int("height", t.height), zap.Int("buffers", len(t.slots)))
	return t, nil
}

// Close implements Backend. Shm targets own all their resources.
func (b *ShmBackend) Close() error { return nil }

type shmSlot struct {
	buf  *MappedBuffer
	wb   wl.Buffer
	busy bool
}

type shmTarget struct {
	b     *ShmBackend
	w     *Window
	slots []*shmSlot

	width, height int
	destroyed     bool
}

// allocate creates the buffers for the current size. A zero-sized target
// has none.
func (t *shmTarget) allocate() error {
	if t.width <= 0 || t.height <= 0 {
		return nil
	}
	for i := 0; i < t.b.buffers; i++ {
		buf, err := AllocateBuffer(t.b.dir, t.width, t.height)
		if err != nil {
			t.free()
			return err
		}
		wb, err := buf.Wrap(t.b.shm)
		if err != nil {
			buf.Release()
			t.free()
			return err
		}
		slot := &shmSlot{buf: buf, wb: wb}
		wb.OnRelease(func() { slot.busy = false })
		t.slots = append(t.slots, slot)
	}
	return nil
}

// free destroys each wl_buffer before releasing its memory.
func (t *shmTarget) free() error {
	var err error
	for _, s := range t.slots {
		err = multierr.Append(err, s.wb.Destroy())
		err = multierr.Append(err, s.buf.Release())
	}
	t.slots = nil
	return err
}

func (t *shmTarget) Size() (width, height int) { return t.width, t.height }

func (t *shmTarget) Resize(width, height int) error {
	if t.destroyed {
		return ErrDestroyed
	}
	if width == t.width && height == t.height {
		return nil
	}
	err := t.free()
	t.width, t.height = width, height
	return multierr.Append(err, t.allocate())
}

// next returns the buffer to paint, or nil if the frame must be skipped.
func (t *shmTarget) next() *shmSlot {
	for _, s := range t.slots {
		if !s.busy {
			return s
		}
	}
	if len(t.slots) == 1 {
		return t.slots[0]
	}
	return nil
}

func (t *shmTarget) Present() error {
	if t.destroyed {
		return ErrDestroyed
	}
	surface := t.w.surface
	if len(t.slots) == 0 {
		if err := surface.Attach(nil, 0, 0); err != nil {
			return err
		}
		return surface.Commit()
	}
	s := t.next()
	if s == nil {
		t.b.log.Debug("all buffers busy, skipping frame")
		return nil
	}
	if err := t.b.painter.Paint(s.buf.Data, s.buf.Width, s.buf.Height, s.buf.Stride); err != nil {
		return fmt.Errorf("present: paint: %w", err)
	}
	if err := surface.Attach(s.wb, 0, 0); err != nil {
		return err
	}
	if err := surface.Damage(0, 0, int32(t.width), int32(t.height)); err != nil {
		return err
	}
	if err := surface.Commit(); err != nil {
		return err
	}
	s.busy = true
	return nil
}

func (t *shmTarget) Destroy() error {
	if t.destroyed {
		return ErrDestroyed
	}
	t.destroyed = true
	t.w.Detach(t)
	return t.free()
}
