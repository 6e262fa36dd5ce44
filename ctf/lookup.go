// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import "github.com/hanwen/go-ctf/ctf/wire"

// Every live dynamic type stays in the container's type store: committed
// ones are also mirrored into the read-only view on Update but are never
// evicted from here, and only Rollback/Discard (for uncommitted types) and
// Close remove entries. These resolvers are therefore the single source
// of truth the builder and copier need for size/alignment/kind lookups.

// TypeKind returns the kind of id.
func (c *Container) TypeKind(id uint32) (Kind, Status) {
	t, ok := c.types.Get(id)
	if !ok {
		return 0, BADID
	}
	return t.Kind, OK
}

func (c *Container) typeSize(id uint32) (uint64, Status) {
	t, ok := c.types.Get(id)
	if !ok {
		return 0, BADID
	}
	switch t.Kind {
	case Integer, Float, Struct, Union:
		return t.Size, OK
	case Pointer:
		return uint64(c.model.PointerWidth), OK
	case Enum:
		return uint64(c.model.IntWidth), OK
	case Array:
		elemSize, st := c.typeSize(t.Contents)
		if st != OK {
			return 0, st
		}
		return elemSize * uint64(t.NElems), OK
	case Volatile, Const, Restrict, Typedef:
		return c.typeSize(t.Ref)
	case Function, Forward:
		return 0, OK
	}
	return 0, OK
}

// TypeSize is the exported form of typeSize.
func (c *Container) TypeSize(id uint32) (uint64, Status) { return c.typeSize(id) }

func (c *Container) typeAlign(id uint32) (uint64, Status) {
	t, ok := c.types.Get(id)
	if !ok {
		return 0, BADID
	}
	switch t.Kind {
	case Integer, Float:
		return wire.IntFloatByteSize(t.Encoding.Bits), OK
	case Pointer:
		return uint64(c.model.PointerWidth), OK
	case Enum:
		return uint64(c.model.IntWidth), OK
	case Array:
		return c.typeAlign(t.Contents)
	case Volatile, Const, Restrict, Typedef:
		return c.typeAlign(t.Ref)
	case Struct, Union:
		var max uint64 = 1
		for _, m := range t.Members {
			a, st := c.memberAlign(m)
			if st == OK && a > max {
				max = a
			}
		}
		return max, OK
	}
	return 1, OK
}

func (c *Container) memberAlign(m Member) (uint64, Status) {
	t, ok := c.types.Get(m.Type)
	if !ok {
		return 0, BADID
	}
	if t.Kind == Integer || t.Kind == Float {
		return wire.IntFloatByteSize(t.Encoding.Bits), OK
	}
	return c.typeAlign(m.Type)
}

// TypeAlign is the exported form of typeAlign.
func (c *Container) TypeAlign(id uint32) (uint64, Status) { return c.typeAlign(id) }

// TypeEncoding returns the INTEGER/FLOAT encoding of id.
func (c *Container) TypeEncoding(id uint32) (Encoding, Status) {
	t, ok := c.types.Get(id)
	if !ok {
		return Encoding{}, BADID
	}
	if t.Kind != Integer && t.Kind != Float {
		return Encoding{}, BADID
	}
	return t.Encoding, OK
}

// TypeReference returns the referenced type id of a POINTER/TYPEDEF/
// VOLATILE/CONST/RESTRICT.
func (c *Container) TypeReference(id uint32) (uint32, Status) {
	t, ok := c.types.Get(id)
	if !ok {
		return 0, BADID
	}
	switch t.Kind {
	case Pointer, Typedef, Volatile, Const, Restrict:
		return t.Ref, OK
	}
	return 0, BADID
}

// ArrayInfo returns the (contents, index, nelems) triple of an ARRAY.
func (c *Container) ArrayInfo(id uint32) (contents, index, nelems uint32, st Status) {
	t, ok := c.types.Get(id)
	if !ok {
		return 0, 0, 0, BADID
	}
	if t.Kind != Array {
		return 0, 0, 0, BADID
	}
	return t.Contents, t.Index, t.NElems, OK
}

// MemberIter returns a STRUCT/UNION's ordered member list.
func (c *Container) MemberIter(id uint32) ([]Member, Status) {
	t, ok := c.types.Get(id)
	if !ok {
		return nil, BADID
	}
	if t.Kind != Struct && t.Kind != Union {
		return nil, NOTSOU
	}
	return t.Members, OK
}

// EnumIter returns an ENUM's ordered enumerator list.
func (c *Container) EnumIter(id uint32) ([]Enumerator, Status) {
	t, ok := c.types.Get(id)
	if !ok {
		return nil, BADID
	}
	if t.Kind != Enum {
		return nil, NOTENUM
	}
	return t.Enumerators, OK
}

// EnumValue looks up a single enumerator's value by name.
func (c *Container) EnumValue(id uint32, name string) (int32, Status) {
	es, st := c.EnumIter(id)
	if st != OK {
		return 0, st
	}
	for _, e := range es {
		if e.Name == name {
			return e.Value, OK
		}
	}
	return 0, BADID
}

// MemberInfo looks up a single member by name.
func (c *Container) MemberInfo(id uint32, name string) (Member, Status) {
	ms, st := c.MemberIter(id)
	if st != OK {
		return Member{}, st
	}
	for _, m := range ms {
		if m.Name == name {
			return m, OK
		}
	}
	return Member{}, BADID
}

// LookupByID returns the dynamic record for id.
func (c *Container) LookupByID(id uint32) (*TypeDef, bool) {
	return c.types.Get(id)
}

// LookupVariable returns the type id bound to name.
func (c *Container) LookupVariable(name string) (uint32, Status) {
	v, ok := c.vars.Get(name)
	if !ok {
		return 0, BADID
	}
	return v.Type, OK
}
