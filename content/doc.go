// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package content provides the pictures drawn by wlpresent: CPU painters for
// shared memory windows and GL drawers for accelerated ones.
package content
