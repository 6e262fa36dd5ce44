// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"testing"

	"github.com/hanwen/go-ctf/ctf/wire"
)

func TestChildContainerRecordsParentName(t *testing.T) {
	parent := New(Options{})
	addIntType(t, parent, "int", 32)
	mustOK(t, parent.Update(), "parent Update")

	child := New(Options{Parent: parent, ParentName: "libc.so"})
	addIntType(t, child, "pid_t", 32)
	mustOK(t, child.Update(), "child Update")

	if child.View().ParentName != "libc.so" {
		t.Fatalf("child view ParentName = %q, want libc.so", child.View().ParentName)
	}
	if child.View().Header.Flags&wire.FlagChild == 0 {
		t.Fatalf("child container's serialized header must carry the child flag")
	}
}

func TestTolerateDamagedIntWidthShim(t *testing.T) {
	src := New(Options{})
	addIntType(t, src, "int", 1)

	dst := New(Options{TolerateDamagedIntWidth: true})
	existing := addIntType(t, dst, "int", 32)

	id, st := AddType(dst, src, 1)
	mustOK(t, st, "AddType with shim enabled")
	if id != existing {
		t.Fatalf("shim should keep dst's existing int, got new id %d want %d", id, existing)
	}
}

func TestTolerateDamagedIntWidthDisabledByDefault(t *testing.T) {
	src := New(Options{})
	addIntType(t, src, "int", 1)

	dst := New(Options{})
	addIntType(t, dst, "int", 32)

	if _, st := AddType(dst, src, 1); st != CONFLICT {
		t.Fatalf("with the shim disabled, a 1-bit/32-bit int clash must CONFLICT, got %v", st)
	}
}

func TestCloseReleasesProtectedBuffer(t *testing.T) {
	c := New(Options{})
	addIntType(t, c, "int", 32)
	mustOK(t, c.Update(), "Update")

	if c.View() == nil {
		t.Fatalf("expected a view after Update")
	}
	if st := c.Close(); st != OK {
		t.Fatalf("Close: %v", st)
	}
	if c.View() != nil {
		t.Fatalf("View() should be nil after Close")
	}
	if c.NTypes() != 0 {
		t.Fatalf("NTypes() after Close = %d, want 0", c.NTypes())
	}
}

func TestLookupNameFindsRootVisibleOnly(t *testing.T) {
	c := New(Options{})
	charID := addIntType(t, c, "char", 8)
	if _, st := c.AddPointer(false, "anon_ptr_typedef_target", charID); st != OK {
		t.Fatalf("AddPointer: %v", st)
	}
	if _, ok := c.LookupName(Pointer, "anon_ptr_typedef_target"); ok {
		t.Fatalf("a non-root type must not be discoverable by LookupName")
	}
}
