// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"testing"

	"github.com/hanwen/go-ctf/ctf/wire"
)

func mustOK(t *testing.T, st Status, msg string) {
	t.Helper()
	if st != OK {
		t.Fatalf("%s: %v", msg, st)
	}
}

func addIntType(t *testing.T, c *Container, name string, bits uint16) uint32 {
	t.Helper()
	id, st := c.AddInteger(true, name, Encoding{Format: wire.IntSigned, Bits: bits})
	mustOK(t, st, "AddInteger "+name)
	return id
}

func TestAddIntegerDoesNotDeduplicate(t *testing.T) {
	c := New(Options{})
	id1 := addIntType(t, c, "int", 32)
	id2, st := c.AddInteger(true, "int", Encoding{Format: wire.IntSigned, Bits: 32})
	mustOK(t, st, "second AddInteger")
	if id1 == id2 {
		t.Fatalf("AddInteger is a raw builder: two calls must allocate distinct ids")
	}
}

func TestAddForwardIsIdempotent(t *testing.T) {
	c := New(Options{})
	id1, st := c.AddForward(Struct, "node")
	mustOK(t, st, "AddForward")
	id2, st := c.AddForward(Struct, "node")
	mustOK(t, st, "AddForward again")
	if id1 != id2 {
		t.Fatalf("AddForward(struct,node) twice = %d, %d; want same id", id1, id2)
	}
}

func TestAddStructUpgradesForward(t *testing.T) {
	c := New(Options{})
	fwdID, st := c.AddForward(Struct, "node")
	mustOK(t, st, "AddForward")

	structID, st := c.AddStruct("node")
	mustOK(t, st, "AddStruct")
	if structID != fwdID {
		t.Fatalf("AddStruct(node) = %d, want upgrade of forward id %d", structID, fwdID)
	}
	kind, st := c.TypeKind(structID)
	mustOK(t, st, "TypeKind")
	if kind != Struct {
		t.Fatalf("kind after upgrade = %v, want Struct", kind)
	}
}

func TestAddMemberNaturalPlacement(t *testing.T) {
	c := New(Options{})
	intID := addIntType(t, c, "int", 32)
	charID := addIntType(t, c, "char", 8)

	structID, st := c.AddStruct("s")
	mustOK(t, st, "AddStruct")
	mustOK(t, c.AddMember(structID, "a", charID, -1), "AddMember a")
	mustOK(t, c.AddMember(structID, "b", intID, -1), "AddMember b")

	mb, st := c.MemberInfo(structID, "b")
	mustOK(t, st, "MemberInfo b")
	if mb.Offset != 32 {
		t.Fatalf("member b offset = %d bits, want 32 (4-byte aligned after 1-byte char)", mb.Offset)
	}

	size, st := c.TypeSize(structID)
	mustOK(t, st, "TypeSize")
	if size != 8 {
		t.Fatalf("struct size = %d, want 8", size)
	}
}

func TestAddMemberUnionOffsetsAlwaysZero(t *testing.T) {
	c := New(Options{})
	intID := addIntType(t, c, "int", 32)
	charID := addIntType(t, c, "char", 8)

	unionID, st := c.AddUnion("u")
	mustOK(t, st, "AddUnion")
	mustOK(t, c.AddMember(unionID, "a", intID, -1), "AddMember a")
	mustOK(t, c.AddMember(unionID, "b", charID, -1), "AddMember b")

	ma, _ := c.MemberInfo(unionID, "a")
	mb, _ := c.MemberInfo(unionID, "b")
	if ma.Offset != 0 || mb.Offset != 0 {
		t.Fatalf("union members must all sit at offset 0, got a=%d b=%d", ma.Offset, mb.Offset)
	}
	size, st := c.TypeSize(unionID)
	mustOK(t, st, "TypeSize")
	if size != 4 {
		t.Fatalf("union size = %d, want max member size 4", size)
	}
}

func TestAddMemberDuplicateNameRejected(t *testing.T) {
	c := New(Options{})
	intID := addIntType(t, c, "int", 32)
	structID, _ := c.AddStruct("s")
	mustOK(t, c.AddMember(structID, "a", intID, -1), "first AddMember")
	if st := c.AddMember(structID, "a", intID, -1); st != DUPLICATE {
		t.Fatalf("AddMember with duplicate name = %v, want DUPLICATE", st)
	}
}

func TestAddEnumeratorDuplicateRejected(t *testing.T) {
	c := New(Options{})
	enumID, st := c.AddEnum("color")
	mustOK(t, st, "AddEnum")
	mustOK(t, c.AddEnumerator(enumID, "RED", 0), "AddEnumerator RED")
	if st := c.AddEnumerator(enumID, "RED", 1); st != DUPLICATE {
		t.Fatalf("AddEnumerator duplicate = %v, want DUPLICATE", st)
	}
}

func TestAddEnumeratorRejectsNonEnum(t *testing.T) {
	c := New(Options{})
	intID := addIntType(t, c, "int", 32)
	if st := c.AddEnumerator(intID, "X", 0); st != NOTENUM {
		t.Fatalf("AddEnumerator on non-enum = %v, want NOTENUM", st)
	}
}

func TestAddMemberRejectsBadID(t *testing.T) {
	c := New(Options{})
	structID, _ := c.AddStruct("s")
	if st := c.AddMember(structID, "a", 99, -1); st != BADID {
		t.Fatalf("AddMember with bad member type = %v, want BADID", st)
	}
}

func TestAddFunctionArgLimit(t *testing.T) {
	c := New(Options{})
	intID := addIntType(t, c, "int", 32)
	args := make([]uint32, 65536)
	for i := range args {
		args[i] = intID
	}
	if _, st := c.AddFunction(true, "f", intID, args, false); st != DTFULL {
		t.Fatalf("AddFunction with too many args = %v, want DTFULL", st)
	}
}

func TestReadOnlyRejectsBuilders(t *testing.T) {
	c := New(Options{})
	c.flags &^= flagReadWrite
	if _, st := c.AddInteger(true, "int", Encoding{Format: wire.IntSigned, Bits: 32}); st != RDONLY {
		t.Fatalf("AddInteger on read-only container = %v, want RDONLY", st)
	}
}

func TestAddVariableDuplicateRejected(t *testing.T) {
	c := New(Options{})
	intID := addIntType(t, c, "int", 32)
	mustOK(t, c.AddVariable("g", intID), "first AddVariable")
	if st := c.AddVariable("g", intID); st != DUPLICATE {
		t.Fatalf("AddVariable duplicate = %v, want DUPLICATE", st)
	}
}
