// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// maxFDsPerMessage bounds the ancillary data read per recvmsg, like
// libwayland's MAX_FDS_OUT.
const maxFDsPerMessage = 28

// Conn is a Wayland socket. It buffers outgoing messages until Flush and
// splits incoming bytes into whole messages.
//
// A Conn is not safe for concurrent use.
type Conn struct {
	fd int

	out    []byte
	outFDs []int

	in    []byte
	inFDs []int
}

// NewConn returns a Conn using fd, a connected SOCK_STREAM unix socket. The
// Conn takes ownership of fd.
func NewConn(fd int) *Conn {
	return &Conn{fd: fd}
}

// Dial connects to the unix socket at path.
func Dial(path string) (*Conn, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("wire: socket: %v", err)
	}
	if err := unix.Connect(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wire: connect %s: %w", path, err)
	}
	return NewConn(fd), nil
}

// Queue appends m to the output buffer.
func (c *Conn) Queue(m *Message) error {
	b, err := m.Bytes()
	if err != nil {
		return err
	}
	if len(c.out)+len(b) > 4096 || len(c.outFDs)+len(m.FDs()) > maxFDsPerMessage {
		if err := c.Flush(); err != nil {
			return err
		}
	}
	c.out = append(c.out, b...)
	// The fds are dup'ed so that the caller may close its copies as soon
	// as the request is queued, as it may with libwayland.
	for _, fd := range m.FDs() {
		dup, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
		if err != nil {
			return fmt.Errorf("wire: dup fd %d: %v", fd, err)
		}
		c.outFDs = append(c.outFDs, dup)
	}
	return nil
}

// Flush writes the output buffer to the socket.
func (c *Conn) Flush() error {
	for len(c.out) > 0 {
		var oob []byte
		if len(c.outFDs) > 0 {
			oob = unix.UnixRights(c.outFDs...)
		}
		n, err := unix.SendmsgN(c.fd, c.out, oob, nil, unix.MSG_NOSIGNAL)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("wire: sendmsg: %w", err)
		}
		// The kernel has taken the fds along with the first byte.
		c.closeOutFDs()
		c.out = c.out[n:]
	}
	c.out = c.out[:0]
	return nil
}

func (c *Conn) closeOutFDs() {
	for _, fd := range c.outFDs {
		unix.Close(fd)
	}
	c.outFDs = c.outFDs[:0]
}

// Fill reads from the socket into the input buffer. If block is false it
// returns immediately when nothing is available. It returns io.EOF when the
// peer has closed the connection.
func (c *Conn) Fill(block bool) (int, error) {
	buf := make([]byte, 4096)
	oob := make([]byte, unix.CmsgSpace(maxFDsPerMessage*4))
	flags := unix.MSG_CMSG_CLOEXEC
	if !block {
		flags |= unix.MSG_DONTWAIT
	}
	for {
		n, oobn, _, _, err := unix.Recvmsg(c.fd, buf, oob, flags)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("wire: recvmsg: %w", err)
		}
		if oobn > 0 {
			if err := c.parseRights(oob[:oobn]); err != nil {
				return 0, err
			}
		}
		if n == 0 {
			return 0, io.EOF
		}
		c.in = append(c.in, buf[:n]...)
		return n, nil
	}
}

func (c *Conn) parseRights(oob []byte) error {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return fmt.Errorf("wire: parse control message: %v", err)
	}
	for i := range msgs {
		fds, err := unix.ParseUnixRights(&msgs[i])
		if err != nil {
			continue
		}
		c.inFDs = append(c.inFDs, fds...)
	}
	return nil
}

// Next returns a decoder for the next whole message in the input buffer,
// or nil if there is none yet.
func (c *Conn) Next() (*Decoder, error) {
	h, ok := ReadHeader(c.in)
	if !ok {
		return nil, nil
	}
	if h.Size < HeaderSize {
		return nil, fmt.Errorf("%w: %d", errBadLength, h.Size)
	}
	if len(c.in) < int(h.Size) {
		return nil, nil
	}
	msg := make([]byte, h.Size)
	copy(msg, c.in)
	c.in = c.in[h.Size:]
	return NewDecoder(msg, &c.inFDs)
}

// Close closes the socket and any received but unclaimed fds.
func (c *Conn) Close() error {
	c.closeOutFDs()
	for _, fd := range c.inFDs {
		unix.Close(fd)
	}
	c.inFDs = nil
	if c.fd < 0 {
		return errors.New("wire: already closed")
	}
	err := unix.Close(c.fd)
	c.fd = -1
	return err
}
