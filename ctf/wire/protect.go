// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

// ProtectedBuffer wraps a serialized CTF buffer after it has been frozen
// by DataProtect. Bytes is the only way to read it back; Close releases
// whatever backing the platform-specific implementation used.
type ProtectedBuffer interface {
	Bytes() []byte
	Close() error
}

// plainBuffer is the degenerate ProtectedBuffer used on platforms with no
// mmap/mprotect support: the bytes are never actually write-protected.
type plainBuffer struct {
	buf []byte
}

func (p *plainBuffer) Bytes() []byte { return p.buf }
func (p *plainBuffer) Close() error  { return nil }
