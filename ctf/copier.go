// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

// AddType imports srcID and everything it transitively references from
// src into dst, deduplicating against dst's existing types by name, kind
// and (for INTEGER/FLOAT) encoding. It returns the destination type id,
// or an error Status.
//
// FUNCTION import recursively imports argument types and rebuilds the
// full argument vector rather than importing with a zero-length one.
func AddType(dst, src *Container, srcID uint32) (uint32, Status) {
	seen := make(map[uint32]uint32)
	return addType(dst, src, srcID, seen)
}

func addType(dst, src *Container, srcID uint32, seen map[uint32]uint32) (uint32, Status) {
	if dstID, ok := seen[srcID]; ok {
		return dstID, OK
	}
	srcT, ok := src.types.Get(srcID)
	if !ok {
		return 0, BADID
	}

	switch srcT.Kind {
	case Integer, Float:
		return addScalarType(dst, srcT)
	case Pointer, Volatile, Const, Restrict, Typedef:
		return addRefType(dst, src, srcT, seen)
	case Array:
		return addArrayType(dst, src, srcT, seen)
	case Function:
		return addFunctionType(dst, src, srcT, seen)
	case Struct, Union:
		return addAggregateType(dst, src, srcT, seen)
	case Enum:
		return addEnumType(dst, src, srcT, seen)
	case Forward:
		return addForwardType(dst, srcT)
	}
	return 0, BADID
}

func addScalarType(dst *Container, srcT *TypeDef) (uint32, Status) {
	if srcT.Name != "" {
		if existing, ok := dst.LookupName(srcT.Kind, srcT.Name); ok {
			if existing.Kind != srcT.Kind {
				return 0, CONFLICT
			}
			if existing.Encoding != srcT.Encoding {
				if dst.options.TolerateDamagedIntWidth &&
					(existing.Encoding.Bits == 1 || existing.Encoding.Bits == 4 ||
						srcT.Encoding.Bits == 1 || srcT.Encoding.Bits == 4) {
					return existing.ID, OK
				}
				return 0, CONFLICT
			}
			return existing.ID, OK
		}
	}
	if srcT.Kind == Integer {
		return dst.AddInteger(srcT.Root, srcT.Name, srcT.Encoding)
	}
	return dst.AddFloat(srcT.Root, srcT.Name, srcT.Encoding)
}

func addForwardType(dst *Container, srcT *TypeDef) (uint32, Status) {
	return dst.AddForward(Kind(srcT.Ref), srcT.Name)
}

func addRefType(dst, src *Container, srcT *TypeDef, seen map[uint32]uint32) (uint32, Status) {
	if srcT.Name != "" {
		if existing, ok := dst.LookupName(srcT.Kind, srcT.Name); ok {
			if existing.Kind == srcT.Kind {
				return existing.ID, OK
			}
			return 0, CONFLICT
		}
	}
	ref, st := addType(dst, src, srcT.Ref, seen)
	if st != OK {
		return 0, st
	}
	return dst.addRefType(srcT.Kind, srcT.Root, srcT.Name, ref)
}

func addArrayType(dst, src *Container, srcT *TypeDef, seen map[uint32]uint32) (uint32, Status) {
	var existing *TypeDef
	if srcT.Name != "" {
		if e, ok := dst.LookupName(srcT.Kind, srcT.Name); ok {
			if e.Kind != Array {
				return 0, CONFLICT
			}
			existing = e
		}
	}
	contents, st := addType(dst, src, srcT.Contents, seen)
	if st != OK {
		return 0, st
	}
	index, st := addType(dst, src, srcT.Index, seen)
	if st != OK {
		return 0, st
	}
	if existing != nil {
		if existing.Contents != contents || existing.Index != index || existing.NElems != srcT.NElems {
			return 0, CONFLICT
		}
		return existing.ID, OK
	}
	return dst.AddArray(srcT.Root, srcT.Name, contents, index, srcT.NElems)
}

func addFunctionType(dst, src *Container, srcT *TypeDef, seen map[uint32]uint32) (uint32, Status) {
	ret, st := addType(dst, src, srcT.Ref, seen)
	if st != OK {
		return 0, st
	}
	args := make([]uint32, len(srcT.FuncArgs))
	for i, a := range srcT.FuncArgs {
		mapped, st := addType(dst, src, a, seen)
		if st != OK {
			return 0, st
		}
		args[i] = mapped
	}
	return dst.AddFunction(srcT.Root, srcT.Name, ret, args, srcT.FuncVariadic)
}

func addEnumType(dst, src *Container, srcT *TypeDef, seen map[uint32]uint32) (uint32, Status) {
	if srcT.Name != "" {
		if existing, ok := dst.LookupName(Enum, srcT.Name); ok {
			if existing.Kind == Forward {
				return upgradeForwardEnum(dst, existing, srcT)
			}
			if existing.Kind != Enum {
				return 0, CONFLICT
			}
			if enumeratorsEqual(existing.Enumerators, srcT.Enumerators) {
				return existing.ID, OK
			}
			return 0, CONFLICT
		}
	}
	id, st := dst.AddEnum(srcT.Name)
	if st != OK {
		return 0, st
	}
	seen[srcT.ID] = id
	for _, e := range srcT.Enumerators {
		if st := dst.AddEnumerator(id, e.Name, e.Value); st != OK {
			return 0, st
		}
	}
	return id, OK
}

func upgradeForwardEnum(dst *Container, fwd, srcT *TypeDef) (uint32, Status) {
	dst.indexRemove(fwd)
	fwd.Kind = Enum
	fwd.Ref = 0
	fwd.Size = uint64(dst.model.IntWidth)
	fwd.Enumerators = nil
	dst.indexInsert(fwd)
	dst.setDirty()
	for _, e := range srcT.Enumerators {
		if st := dst.AddEnumerator(fwd.ID, e.Name, e.Value); st != OK {
			return 0, st
		}
	}
	return fwd.ID, OK
}

func enumeratorsEqual(a, b []Enumerator) bool {
	if len(a) != len(b) {
		return false
	}
	idx := make(map[string]int32, len(a))
	for _, e := range a {
		idx[e.Name] = e.Value
	}
	for _, e := range b {
		v, ok := idx[e.Name]
		if !ok || v != e.Value {
			return false
		}
	}
	return true
}

// addAggregateType handles STRUCT/UNION import: install-then-translate,
// so a self-referential member (reached through a POINTER) resolves back
// to the record being built instead of recursing forever.
func addAggregateType(dst, src *Container, srcT *TypeDef, seen map[uint32]uint32) (uint32, Status) {
	var target *TypeDef
	if srcT.Name != "" {
		if existing, ok := dst.LookupName(srcT.Kind, srcT.Name); ok {
			switch {
			case existing.Kind == Forward:
				dst.indexRemove(existing)
				existing.Kind = srcT.Kind
				existing.Ref = 0
				existing.Size = 0
				existing.Members = nil
				dst.indexInsert(existing)
				dst.setDirty()
				target = existing
			case existing.Kind == srcT.Kind:
				if existing.Size == srcT.Size && membersStructurallyEqual(dst, src, existing, srcT, seen) {
					return existing.ID, OK
				}
				return 0, CONFLICT
			default:
				return 0, CONFLICT
			}
		}
	}

	if target == nil {
		fresh, st := dst.addAggregate(srcT.Kind, srcT.Name)
		if st != OK {
			return 0, st
		}
		target = fresh
	}
	seen[srcT.ID] = target.ID

	var firstErr Status
	members := make([]Member, 0, len(srcT.Members))
	for _, m := range srcT.Members {
		mappedType, st := addType(dst, src, m.Type, seen)
		if st != OK {
			if firstErr == OK {
				firstErr = st
			}
			continue
		}
		members = append(members, Member{Name: m.Name, Type: mappedType, Offset: m.Offset})
	}
	for _, m := range members {
		if m.Name != "" {
			dst.strGrowth += len(m.Name) + 1
		}
	}
	if firstErr != OK {
		// Continue past per-member translation failures, then report
		// the first failure's status, leaving a partially-translated
		// record. Callers are expected to Rollback to a snapshot taken
		// before AddType.
		target.Members = append(target.Members, members...)
		return 0, firstErr
	}

	target.Members = append(target.Members, members...)
	target.Size = srcT.Size
	dst.setDirty()
	return target.ID, OK
}

// membersStructurallyEqual compares an existing dst aggregate's members
// against src's, mapping each src member type into dst first (importing
// it if necessary) so references compare by identity in dst's id space.
func membersStructurallyEqual(dst, src *Container, existing, srcT *TypeDef, seen map[uint32]uint32) bool {
	if len(existing.Members) != len(srcT.Members) {
		return false
	}
	for i, sm := range srcT.Members {
		dm := existing.Members[i]
		if dm.Name != sm.Name || dm.Offset != sm.Offset {
			return false
		}
		mapped, st := addType(dst, src, sm.Type, seen)
		if st != OK || mapped != dm.Type {
			return false
		}
	}
	return true
}
