// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestAddTypeImportsScalarsByValue(t *testing.T) {
	src := New(Options{})
	addIntType(t, src, "int", 32)

	dst := New(Options{})
	id, st := AddType(dst, src, 1)
	mustOK(t, st, "AddType")

	kind, st := dst.TypeKind(id)
	mustOK(t, st, "TypeKind")
	if kind != Integer {
		t.Fatalf("imported kind = %v, want Integer", kind)
	}
}

func TestAddTypeDeduplicatesExistingScalar(t *testing.T) {
	src := New(Options{})
	addIntType(t, src, "int", 32)

	dst := New(Options{})
	existing := addIntType(t, dst, "int", 32)

	id, st := AddType(dst, src, 1)
	mustOK(t, st, "AddType")
	if id != existing {
		t.Fatalf("AddType should have deduplicated against dst's existing 'int', got new id %d", id)
	}
}

func TestAddTypeConflictingScalarEncoding(t *testing.T) {
	src := New(Options{})
	addIntType(t, src, "int", 64)

	dst := New(Options{})
	addIntType(t, dst, "int", 32)

	if _, st := AddType(dst, src, 1); st != CONFLICT {
		t.Fatalf("AddType with incompatible encoding = %v, want CONFLICT", st)
	}
}

func TestAddTypeTerminatesOnSelfReferentialStruct(t *testing.T) {
	src := New(Options{})
	structID, st := src.AddStruct("node")
	mustOK(t, st, "AddStruct")
	ptrID, st := src.AddPointer(false, "", structID)
	mustOK(t, st, "AddPointer")
	mustOK(t, src.AddMember(structID, "next", ptrID, -1), "AddMember next")

	dst := New(Options{})
	id, st := AddType(dst, src, structID)
	mustOK(t, st, "AddType self-referential struct")

	m, st := dst.MemberInfo(id, "next")
	mustOK(t, st, "MemberInfo next")
	ref, st := dst.TypeReference(m.Type)
	mustOK(t, st, "TypeReference")
	if ref != id {
		t.Fatalf("imported self-referential struct's pointer member should reference back to %d, got %d", id, ref)
	}
}

func TestAddTypeImportsFunctionArguments(t *testing.T) {
	src := New(Options{})
	intID := addIntType(t, src, "int", 32)
	charID := addIntType(t, src, "char", 8)
	ptrID, _ := src.AddPointer(false, "", charID)
	fnID, st := src.AddFunction(true, "f", intID, []uint32{ptrID, intID}, false)
	mustOK(t, st, "AddFunction")

	dst := New(Options{})
	id, st := AddType(dst, src, fnID)
	mustOK(t, st, "AddType function")

	dt, ok := dst.LookupByID(id)
	if !ok {
		t.Fatalf("imported function not found by id")
	}
	if len(dt.FuncArgs) != 2 {
		t.Fatalf("imported function has %d args, want 2 (argument import must not drop to argc=0)", len(dt.FuncArgs))
	}
	argKind, st := dst.TypeKind(dt.FuncArgs[0])
	mustOK(t, st, "TypeKind arg0")
	if argKind != Pointer {
		t.Fatalf("imported function's first arg kind = %v, want Pointer", argKind)
	}
}

func TestAddTypeEnumDedup(t *testing.T) {
	src := New(Options{})
	enumID, _ := src.AddEnum("color")
	mustOK(t, src.AddEnumerator(enumID, "RED", 0), "AddEnumerator")

	dst := New(Options{})
	existing, _ := dst.AddEnum("color")
	mustOK(t, dst.AddEnumerator(existing, "RED", 0), "AddEnumerator dst")

	id, st := AddType(dst, src, enumID)
	mustOK(t, st, "AddType enum")
	if id != existing {
		t.Fatalf("AddType should dedup identical enums, got new id %d want %d", id, existing)
	}
}

func TestAddTypeEnumConflict(t *testing.T) {
	src := New(Options{})
	enumID, _ := src.AddEnum("color")
	mustOK(t, src.AddEnumerator(enumID, "RED", 0), "AddEnumerator")

	dst := New(Options{})
	existing, _ := dst.AddEnum("color")
	mustOK(t, dst.AddEnumerator(existing, "RED", 99), "AddEnumerator dst")

	if _, st := AddType(dst, src, enumID); st != CONFLICT {
		t.Fatalf("AddType with mismatched enumerator value = %v, want CONFLICT", st)
	}
}

// TestAddTypeIndependentContainersConcurrently imports into several
// independent destination containers in parallel, one per source type,
// to exercise AddType under concurrent but non-overlapping use.
func TestAddTypeIndependentContainersConcurrently(t *testing.T) {
	src := New(Options{})
	var ids []uint32
	for i := 0; i < 8; i++ {
		id := addIntType(t, src, "t"+string(rune('a'+i)), 32)
		ids = append(ids, id)
	}

	g, _ := errgroup.WithContext(context.Background())
	for _, id := range ids {
		id := id
		g.Go(func() error {
			dst := New(Options{})
			if _, st := AddType(dst, src, id); st != OK {
				return st
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent AddType into independent containers: %v", err)
	}
}
