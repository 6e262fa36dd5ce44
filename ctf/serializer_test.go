// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"testing"

	"github.com/hanwen/go-ctf/ctf/wire"
	"github.com/kylelemons/godebug/pretty"
)

func buildSample(t *testing.T) *Container {
	t.Helper()
	c := New(Options{})
	intID := addIntType(t, c, "int", 32)
	charID := addIntType(t, c, "char", 8)
	ptrID, st := c.AddPointer(false, "", charID)
	mustOK(t, st, "AddPointer")

	structID, st := c.AddStruct("point")
	mustOK(t, st, "AddStruct")
	mustOK(t, c.AddMember(structID, "x", intID, -1), "AddMember x")
	mustOK(t, c.AddMember(structID, "y", intID, -1), "AddMember y")
	mustOK(t, c.AddMember(structID, "label", ptrID, -1), "AddMember label")

	enumID, st := c.AddEnum("color")
	mustOK(t, st, "AddEnum")
	mustOK(t, c.AddEnumerator(enumID, "RED", 0), "AddEnumerator RED")
	mustOK(t, c.AddEnumerator(enumID, "GREEN", 1), "AddEnumerator GREEN")

	mustOK(t, c.AddVariable("origin", structID), "AddVariable")
	mustOK(t, c.Update(), "Update")
	return c
}

func TestUpdateIsIdempotentWhenClean(t *testing.T) {
	c := buildSample(t)
	before := c.View()
	if st := c.Update(); st != OK {
		t.Fatalf("second Update on a clean container: %v", st)
	}
	if c.View() != before {
		t.Fatalf("Update on a clean container must not rebuild the view")
	}
}

func TestSerializeThenOpenRoundTrips(t *testing.T) {
	c := buildSample(t)
	buf := append([]byte(nil), c.protected.Bytes()...)

	opened, st := Open(buf, Options{})
	mustOK(t, st, "Open")

	structID, ok := opened.View().LookupByName(wire.KindStruct, "point")
	if !ok {
		t.Fatalf("reopened container missing struct 'point'")
	}
	m, ok := opened.View().MemberInfo(structID, "y")
	if !ok {
		t.Fatalf("reopened struct missing member 'y'")
	}
	if m.Offset != 32 {
		t.Fatalf("reopened member 'y' offset = %d, want 32", m.Offset)
	}

	typ, ok := opened.View().LookupVarByName("origin")
	if !ok || typ != structID {
		t.Fatalf("reopened variable 'origin' = (%d,%v), want (%d,true)", typ, ok, structID)
	}
}

func TestViewMatchesDynamicStateAfterUpdate(t *testing.T) {
	c := buildSample(t)
	v := c.View()

	diff := pretty.Compare(v.Header.Magic, wire.Magic)
	if diff != "" {
		t.Fatalf("header magic mismatch: %s", diff)
	}
	if v.NTypes() != int(c.NTypes()) {
		t.Fatalf("view NTypes() = %d, dynamic NTypes() = %d", v.NTypes(), c.NTypes())
	}
}

func TestContainerHoldsProtectedBufferAfterUpdate(t *testing.T) {
	// View itself does not carry the raw buffer; Container does, via its
	// ProtectedBuffer. Confirm Update leaves a non-empty one in place.
	c := buildSample(t)
	if c.protected == nil {
		t.Fatalf("container should hold a protected buffer after Update")
	}
	if len(c.protected.Bytes()) == 0 {
		t.Fatalf("protected buffer should be non-empty")
	}
}
