// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strtab

import "testing"

func TestNewStartsWithLeadingNUL(t *testing.T) {
	tab := New()
	if tab.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tab.Len())
	}
	if tab.Bytes()[0] != 0 {
		t.Fatalf("byte 0 = %d, want 0", tab.Bytes()[0])
	}
}

func TestAppendEmptyStringReturnsZero(t *testing.T) {
	tab := New()
	if off := tab.Append(""); off != 0 {
		t.Fatalf("Append(\"\") = %d, want 0", off)
	}
	if tab.Len() != 1 {
		t.Fatalf("Len() after empty append = %d, want 1", tab.Len())
	}
}

func TestAppendReturnsPriorOffset(t *testing.T) {
	tab := New()
	off1 := tab.Append("foo")
	off2 := tab.Append("barbaz")

	if off1 != 1 {
		t.Fatalf("first Append offset = %d, want 1", off1)
	}
	wantOff2 := uint32(1 + len("foo") + 1)
	if off2 != wantOff2 {
		t.Fatalf("second Append offset = %d, want %d", off2, wantOff2)
	}

	buf := tab.Bytes()
	if string(buf[off1:off1+3]) != "foo" || buf[off1+3] != 0 {
		t.Fatalf("foo not NUL-terminated at offset %d: %q", off1, buf)
	}
	if string(buf[off2:off2+6]) != "barbaz" || buf[off2+6] != 0 {
		t.Fatalf("barbaz not NUL-terminated at offset %d: %q", off2, buf)
	}
}
