// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire encodes and decodes Wayland wire protocol messages.
//
// A message is a header of two 32-bit words, the sender's object id and
// (size<<16 | opcode), followed by its arguments, each padded to 32 bits.
// File descriptor arguments are not part of the byte stream; they travel as
// SCM_RIGHTS ancillary data next to it.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the size in bytes of a message header.
const HeaderSize = 8

// MaxMessageSize is the largest message the size field can describe.
const MaxMessageSize = 1<<16 - 1

var order = binary.NativeEndian

var (
	errShort     = errors.New("wire: message too short")
	errString    = errors.New("wire: malformed string")
	errNoFD      = errors.New("wire: missing file descriptor")
	errTooLarge  = errors.New("wire: message too large")
	errBadLength = errors.New("wire: bad message length")
)

// Header is a decoded message header.
type Header struct {
	Object uint32
	Opcode uint16
	// Size is the whole message size, header included.
	Size uint16
}

// ReadHeader decodes the header at the start of b. It reports false if b is
// shorter than a header.
func ReadHeader(b []byte) (Header, bool) {
	if len(b) < HeaderSize {
		return Header{}, false
	}
	w := order.Uint32(b[4:])
	return Header{
		Object: order.Uint32(b),
		Opcode: uint16(w),
		Size:   uint16(w >> 16),
	}, true
}

// Message accumulates a single outgoing message.
type Message struct {
	buf []byte
	fds []int
}

// NewMessage starts a message from object with the given opcode.
func NewMessage(object uint32, opcode uint16) *Message {
	m := &Message{buf: make([]byte, HeaderSize, 32)}
	order.PutUint32(m.buf, object)
	order.PutUint32(m.buf[4:], uint32(opcode))
	return m
}

func (m *Message) Uint(v uint32) *Message {
	m.buf = order.AppendUint32(m.buf, v)
	return m
}

func (m *Message) Int(v int32) *Message {
	return m.Uint(uint32(v))
}

// Object appends an object id; 0 is the null object.
func (m *Message) Object(id uint32) *Message {
	return m.Uint(id)
}

// NewID appends the id of a newly created object of a known interface.
func (m *Message) NewID(id uint32) *Message {
	return m.Uint(id)
}

// UntypedNewID appends a new_id argument whose interface is not fixed by the
// protocol, as used by wl_registry.bind.
func (m *Message) UntypedNewID(iface string, version, id uint32) *Message {
	return m.String(iface).Uint(version).Uint(id)
}

// String appends s as a NUL-terminated, padded string.
func (m *Message) String(s string) *Message {
	n := len(s) + 1
	m.buf = order.AppendUint32(m.buf, uint32(n))
	m.buf = append(m.buf, s...)
	m.buf = append(m.buf, 0)
	m.pad()
	return m
}

// Array appends b as a padded byte array.
func (m *Message) Array(b []byte) *Message {
	m.buf = order.AppendUint32(m.buf, uint32(len(b)))
	m.buf = append(m.buf, b...)
	m.pad()
	return m
}

// FD queues fd to be sent along with the message.
func (m *Message) FD(fd int) *Message {
	m.fds = append(m.fds, fd)
	return m
}

func (m *Message) pad() {
	for len(m.buf)%4 != 0 {
		m.buf = append(m.buf, 0)
	}
}

// Bytes finalizes the header and returns the encoded message.
func (m *Message) Bytes() ([]byte, error) {
	if len(m.buf) > MaxMessageSize {
		return nil, errTooLarge
	}
	w := order.Uint32(m.buf[4:])
	order.PutUint32(m.buf[4:], uint32(len(m.buf))<<16|w&0xffff)
	return m.buf, nil
}

// FDs returns the file descriptors queued with FD.
func (m *Message) FDs() []int { return m.fds }

// Decoder reads the arguments of one incoming message. The first error is
// sticky and reported by Err.
type Decoder struct {
	Header Header

	data []byte
	fds  *[]int
	err  error
}

// NewDecoder returns a Decoder for msg, a whole message including its
// header. File descriptor arguments are taken from the front of *fds.
func NewDecoder(msg []byte, fds *[]int) (*Decoder, error) {
	h, ok := ReadHeader(msg)
	if !ok {
		return nil, errShort
	}
	if int(h.Size) != len(msg) || h.Size < HeaderSize || h.Size%4 != 0 {
		return nil, fmt.Errorf("%w: %d for %d bytes", errBadLength, h.Size, len(msg))
	}
	return &Decoder{Header: h, data: msg[HeaderSize:], fds: fds}, nil
}

func (d *Decoder) Uint() uint32 {
	if d.err != nil {
		return 0
	}
	if len(d.data) < 4 {
		d.err = errShort
		return 0
	}
	v := order.Uint32(d.data)
	d.data = d.data[4:]
	return v
}

func (d *Decoder) Int() int32 { return int32(d.Uint()) }

func (d *Decoder) String() string {
	n := d.Uint()
	if d.err != nil {
		return ""
	}
	if n == 0 {
		// A null string.
		return ""
	}
	padded := (int(n) + 3) &^ 3
	if len(d.data) < padded || d.data[n-1] != 0 {
		d.err = errString
		return ""
	}
	s := string(d.data[:n-1])
	d.data = d.data[padded:]
	return s
}

func (d *Decoder) Array() []byte {
	n := d.Uint()
	if d.err != nil {
		return nil
	}
	padded := (int(n) + 3) &^ 3
	if len(d.data) < padded {
		d.err = errShort
		return nil
	}
	b := append([]byte(nil), d.data[:n]...)
	d.data = d.data[padded:]
	return b
}

// FD takes the next received file descriptor. The caller owns it.
func (d *Decoder) FD() int {
	if d.err != nil {
		return -1
	}
	if d.fds == nil || len(*d.fds) == 0 {
		d.err = errNoFD
		return -1
	}
	fd := (*d.fds)[0]
	*d.fds = (*d.fds)[1:]
	return fd
}

// Err returns the first decoding error.
func (d *Decoder) Err() error { return d.err }
