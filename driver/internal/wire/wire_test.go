// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/unix"
)

func TestMessageLayout(t *testing.T) {
	// wl_registry.bind(1, "wl_shm", 1, 5) from object 2.
	b, err := NewMessage(2, 0).Uint(1).UntypedNewID("wl_shm", 1, 5).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	// header 8 + name 4 + string (4 + "wl_shm\x00" padded to 8) + version 4 + id 4
	if len(b) != 32 {
		t.Fatalf("message is %d bytes, want 32", len(b))
	}
	h, ok := ReadHeader(b)
	if !ok {
		t.Fatal("ReadHeader failed")
	}
	if diff := cmp.Diff(Header{Object: 2, Opcode: 0, Size: 32}, h); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	dec, err := NewDecoder(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	name, iface, version, id := dec.Uint(), dec.String(), dec.Uint(), dec.Uint()
	if err := dec.Err(); err != nil {
		t.Fatal(err)
	}
	if name != 1 || iface != "wl_shm" || version != 1 || id != 5 {
		t.Errorf("decoded (%d, %q, %d, %d), want (1, \"wl_shm\", 1, 5)", name, iface, version, id)
	}
}

func TestStringPadding(t *testing.T) {
	for _, s := range []string{"", "abc", "abcd", "wl_compositor"} {
		b, err := NewMessage(1, 0).String(s).Int(-1).Bytes()
		if err != nil {
			t.Fatal(err)
		}
		if len(b)%4 != 0 {
			t.Errorf("String(%q): message length %d is not padded", s, len(b))
		}
		dec, err := NewDecoder(b, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := dec.String(); got != s {
			t.Errorf("String(%q) decoded as %q", s, got)
		}
		if got := dec.Int(); got != -1 {
			t.Errorf("String(%q): next argument is %d, want -1", s, got)
		}
		if err := dec.Err(); err != nil {
			t.Errorf("String(%q): %v", s, err)
		}
	}
}

func TestDecoderErrors(t *testing.T) {
	b, _ := NewMessage(1, 0).Uint(7).Bytes()

	if _, err := NewDecoder(b[:6], nil); !errors.Is(err, errShort) {
		t.Errorf("truncated header: got %v, want %v", err, errShort)
	}
	if _, err := NewDecoder(b[:8], nil); !errors.Is(err, errBadLength) {
		t.Errorf("truncated body: got %v, want %v", err, errBadLength)
	}

	dec, err := NewDecoder(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	dec.Uint()
	dec.Uint()
	if !errors.Is(dec.Err(), errShort) {
		t.Errorf("reading past the end: got %v, want %v", dec.Err(), errShort)
	}
	// The error is sticky.
	if got := dec.FD(); got != -1 {
		t.Errorf("FD after error = %d, want -1", got)
	}

	dec, _ = NewDecoder(b, nil)
	dec.FD()
	if !errors.Is(dec.Err(), errNoFD) {
		t.Errorf("FD without descriptors: got %v, want %v", dec.Err(), errNoFD)
	}
}

func TestMessageTooLarge(t *testing.T) {
	_, err := NewMessage(1, 0).Array(make([]byte, MaxMessageSize)).Bytes()
	if !errors.Is(err, errTooLarge) {
		t.Errorf("got %v, want %v", err, errTooLarge)
	}
}

func socketpair(t *testing.T) (*Conn, *Conn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatal(err)
	}
	a, b := NewConn(fds[0]), NewConn(fds[1])
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b
}

func TestConnPassesFDs(t *testing.T) {
	client, server := socketpair(t)

	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		t.Fatal(err)
	}
	defer unix.Close(p[0])

	if err := client.Queue(NewMessage(3, 0).Uint(1).FD(p[1]).Int(4096)); err != nil {
		t.Fatal(err)
	}
	// The queued copy is independent of ours.
	unix.Close(p[1])
	if err := client.Flush(); err != nil {
		t.Fatal(err)
	}

	if _, err := server.Fill(true); err != nil {
		t.Fatal(err)
	}
	dec, err := server.Next()
	if err != nil || dec == nil {
		t.Fatalf("Next() = %v, %v", dec, err)
	}
	id, fd, size := dec.Uint(), dec.FD(), dec.Int()
	if err := dec.Err(); err != nil {
		t.Fatal(err)
	}
	defer unix.Close(fd)
	if id != 1 || size != 4096 {
		t.Errorf("decoded (%d, fd, %d), want (1, fd, 4096)", id, size)
	}

	if _, err := unix.Write(fd, []byte("ok")); err != nil {
		t.Fatalf("writing to received fd: %v", err)
	}
	buf := make([]byte, 2)
	if _, err := unix.Read(p[0], buf); err != nil || string(buf) != "ok" {
		t.Errorf("read %q, %v from pipe, want \"ok\"", buf, err)
	}
}

func TestConnSplitsMessages(t *testing.T) {
	client, server := socketpair(t)
	for i := uint32(0); i < 3; i++ {
		if err := client.Queue(NewMessage(10+i, uint16(i)).Uint(i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := client.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := server.Fill(true); err != nil {
		t.Fatal(err)
	}
	var got []Header
	for {
		dec, err := server.Next()
		if err != nil {
			t.Fatal(err)
		}
		if dec == nil {
			break
		}
		got = append(got, dec.Header)
	}
	want := []Header{{10, 0, 12}, {11, 1, 12}, {12, 2, 12}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}

	// Nothing more is available without blocking.
	if n, err := server.Fill(false); n != 0 || err != nil {
		t.Errorf("Fill(false) = %d, %v, want 0, nil", n, err)
	}
}
