// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux || darwin

package wire

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mmapBuffer is a ProtectedBuffer backed by an anonymous mapping that has
// been frozen with mprotect(PROT_READ).
type mmapBuffer struct {
	data []byte
}

func (m *mmapBuffer) Bytes() []byte { return m.data }

func (m *mmapBuffer) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

// DataProtect copies buf into a freshly mmap'd anonymous region and makes
// it read-only, so the caller's serialized CTF buffer cannot be mutated
// out from under the read-only View built on top of it.
func DataProtect(buf []byte) (ProtectedBuffer, error) {
	if len(buf) == 0 {
		return &plainBuffer{buf: buf}, nil
	}
	m, err := unix.Mmap(-1, 0, len(buf), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("ctf: mmap data_protect buffer: %w", err)
	}
	copy(m, buf)
	if err := unix.Mprotect(m, unix.PROT_READ); err != nil {
		unix.Munmap(m)
		return nil, fmt.Errorf("ctf: mprotect data_protect buffer: %w", err)
	}
	return &mmapBuffer{data: m}, nil
}
