// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package strtab implements the CTF string table builder: an append-only
// byte arena whose byte 0 is always the empty string.
package strtab

// Table is a growable, append-only string arena. The zero Table is not
// usable; use New.
type Table struct {
	buf []byte
}

// New returns a Table primed with the mandatory leading NUL, so offset 0
// always resolves to the empty string.
func New() *Table {
	return &Table{buf: []byte{0}}
}

// Append adds s, NUL-terminated, to the table and returns its byte offset.
// The empty string always returns 0 without growing the table.
func (t *Table) Append(s string) uint32 {
	if s == "" {
		return 0
	}
	off := uint32(len(t.buf))
	t.buf = append(t.buf, s...)
	t.buf = append(t.buf, 0)
	return off
}

// Len returns the current size of the table in bytes.
func (t *Table) Len() int { return len(t.buf) }

// Bytes returns the table's backing bytes. The caller must not mutate the
// returned slice.
func (t *Table) Bytes() []byte { return t.buf }
