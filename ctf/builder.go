// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import "github.com/hanwen/go-ctf/ctf/wire"

// addGeneric is the common prologue of every Add* builder: reject
// read-only/full containers, allocate a new id, and install a bare
// record. The caller fills in the kind-specific payload afterwards.
func (c *Container) addGeneric(name string, kind Kind, root bool) (*TypeDef, Status) {
	if !c.isReadWrite() {
		return nil, RDONLY
	}
	limit := uint32(wire.MaxType)
	if c.isChild() {
		limit = uint32(wire.MaxPType)
	}
	if c.nextID > limit {
		return nil, FULL
	}
	t := &TypeDef{
		ID:   c.nextID,
		Name: name,
		Kind: kind,
		Root: root,
	}
	c.nextID++
	c.types.Insert(t.ID, t)
	c.indexInsert(t)
	if name != "" {
		c.strGrowth += len(name) + 1
	}
	c.setDirty()
	return t, OK
}

// AddInteger installs an INTEGER type, root-visible when root is true.
func (c *Container) AddInteger(root bool, name string, enc Encoding) (uint32, Status) {
	t, st := c.addGeneric(name, Integer, root)
	if st != OK {
		return 0, st
	}
	t.Encoding = enc
	t.Size = wire.IntFloatByteSize(enc.Bits)
	return t.ID, OK
}

// AddFloat installs a FLOAT type, root-visible when root is true.
func (c *Container) AddFloat(root bool, name string, enc Encoding) (uint32, Status) {
	t, st := c.addGeneric(name, Float, root)
	if st != OK {
		return 0, st
	}
	t.Encoding = enc
	t.Size = wire.IntFloatByteSize(enc.Bits)
	return t.ID, OK
}

func (c *Container) addRefType(kind Kind, root bool, name string, ref uint32) (uint32, Status) {
	if ref > wire.MaxType {
		return 0, BADID
	}
	t, st := c.addGeneric(name, kind, root)
	if st != OK {
		return 0, st
	}
	t.Ref = ref
	return t.ID, OK
}

// AddPointer installs a POINTER to ref.
func (c *Container) AddPointer(root bool, name string, ref uint32) (uint32, Status) {
	return c.addRefType(Pointer, root, name, ref)
}

// AddVolatile installs a VOLATILE qualifier of ref.
func (c *Container) AddVolatile(root bool, name string, ref uint32) (uint32, Status) {
	return c.addRefType(Volatile, root, name, ref)
}

// AddConst installs a CONST qualifier of ref.
func (c *Container) AddConst(root bool, name string, ref uint32) (uint32, Status) {
	return c.addRefType(Const, root, name, ref)
}

// AddRestrict installs a RESTRICT qualifier of ref.
func (c *Container) AddRestrict(root bool, name string, ref uint32) (uint32, Status) {
	return c.addRefType(Restrict, root, name, ref)
}

// AddTypedef installs a TYPEDEF of ref under name.
func (c *Container) AddTypedef(root bool, name string, ref uint32) (uint32, Status) {
	return c.addRefType(Typedef, root, name, ref)
}

// AddArray installs an ARRAY of contents, indexed by index, with nelems
// elements.
func (c *Container) AddArray(root bool, name string, contents, index, nelems uint32) (uint32, Status) {
	t, st := c.addGeneric(name, Array, root)
	if st != OK {
		return 0, st
	}
	t.Contents, t.Index, t.NElems = contents, index, nelems
	return t.ID, OK
}

// AddFunction installs a FUNCTION returning ret, with the given argument
// types. variadic appends the trailing 0 sentinel.
func (c *Container) AddFunction(root bool, name string, ret uint32, args []uint32, variadic bool) (uint32, Status) {
	if len(args) > wire.MaxVlen-1 {
		return 0, DTFULL
	}
	t, st := c.addGeneric(name, Function, root)
	if st != OK {
		return 0, st
	}
	t.Ref = ret
	t.FuncArgs = append([]uint32(nil), args...)
	t.FuncVariadic = variadic
	return t.ID, OK
}

// AddForward installs a FORWARD placeholder for a struct/union/enum named
// name, or returns the existing id idempotently if one is already present
// in the matching per-kind index.
func (c *Container) AddForward(refKind Kind, name string) (uint32, Status) {
	if existing, ok := c.LookupName(refKind, name); ok {
		return existing.ID, OK
	}
	prev, hadPrev := c.namesIdx[name]
	t, st := c.addGeneric(name, Forward, true)
	if st != OK {
		return 0, st
	}
	// addGeneric indexed t before its referenced kind was known; move it
	// to the per-kind index it forwards to.
	c.indexRemove(t)
	if hadPrev {
		c.namesIdx[name] = prev
	}
	t.Ref = uint32(refKind)
	c.indexInsert(t)
	return t.ID, OK
}

// addAggregate implements the shared add_struct/add_union prologue:
// upgrade an existing forward in place, or allocate fresh.
func (c *Container) addAggregate(kind Kind, name string) (*TypeDef, Status) {
	if name != "" {
		if existing, ok := c.LookupName(kind, name); ok {
			if existing.Kind == Forward {
				c.indexRemove(existing)
				existing.Kind = kind
				existing.Ref = 0
				existing.Size = 0
				existing.Members = nil
				c.indexInsert(existing)
				c.setDirty()
				return existing, OK
			}
		}
	}
	return c.addGeneric(name, kind, true)
}

// AddStruct installs (or upgrades a forward into) a root-visible STRUCT
// named name, with size 0 — to be grown as members are added.
func (c *Container) AddStruct(name string) (uint32, Status) {
	t, st := c.addAggregate(Struct, name)
	if st != OK {
		return 0, st
	}
	return t.ID, OK
}

// AddUnion installs (or upgrades a forward into) a root-visible UNION
// named name.
func (c *Container) AddUnion(name string) (uint32, Status) {
	t, st := c.addAggregate(Union, name)
	if st != OK {
		return 0, st
	}
	return t.ID, OK
}

// AddEnum installs a root-visible ENUM named name, sized to the
// container's data model int width.
func (c *Container) AddEnum(name string) (uint32, Status) {
	t, st := c.addAggregate(Enum, name)
	if st != OK {
		return 0, st
	}
	t.Size = uint64(c.model.IntWidth)
	return t.ID, OK
}

// AddEnumerator appends a (name, value) pair to enumID, which must name an
// ENUM; name must be unique within it.
func (c *Container) AddEnumerator(enumID uint32, name string, value int32) Status {
	if !c.isReadWrite() {
		return RDONLY
	}
	t, ok := c.types.Get(enumID)
	if !ok {
		return BADID
	}
	if t.Kind != Enum {
		return NOTENUM
	}
	for _, e := range t.Enumerators {
		if e.Name == name {
			return DUPLICATE
		}
	}
	if len(t.Enumerators) >= wire.MaxVlen {
		return DTFULL
	}
	t.Enumerators = append(t.Enumerators, Enumerator{Name: name, Value: value})
	if name != "" {
		c.strGrowth += len(name) + 1
	}
	c.setDirty()
	return OK
}

// memberEndBit returns the bit offset one past the end of member m,
// preferring its encoding's bit width over size*8 when both are present.
func (c *Container) memberEndBit(m Member) (uint64, Status) {
	t, ok := c.types.Get(m.Type)
	if !ok {
		return 0, BADID
	}
	if t.Kind == Integer || t.Kind == Float {
		return m.Offset + uint64(t.Encoding.Bits), OK
	}
	size, st := c.typeSize(m.Type)
	if st != OK {
		return 0, st
	}
	return m.Offset + size*8, OK
}

// AddMember appends a member to a STRUCT/UNION. A negative offset (-1 by
// convention) requests natural placement; any other value is used as an
// explicit bit offset. UNION members are always placed at offset 0.
func (c *Container) AddMember(structID uint32, name string, memberType uint32, offset int64) Status {
	if !c.isReadWrite() {
		return RDONLY
	}
	t, ok := c.types.Get(structID)
	if !ok {
		return BADID
	}
	if t.Kind != Struct && t.Kind != Union {
		return NOTSOU
	}
	if name != "" {
		for _, m := range t.Members {
			if m.Name == name {
				return DUPLICATE
			}
		}
	}
	if len(t.Members) >= wire.MaxVlen {
		return DTFULL
	}

	memberSize, st := c.typeSize(memberType)
	if st != OK {
		return st
	}

	var bitOffset uint64
	if t.Kind == Union {
		bitOffset = 0
	} else if offset < 0 {
		var endBit uint64
		if n := len(t.Members); n > 0 {
			endBit, st = c.memberEndBit(t.Members[n-1])
			if st != OK {
				return st
			}
		}
		align, st := c.typeAlign(memberType)
		if st != OK {
			return st
		}
		byteOff := wire.Roundup(endBit, 8) / 8
		byteOff = wire.Roundup(byteOff, maxu64(align, 1))
		bitOffset = byteOff * 8
	} else {
		bitOffset = uint64(offset)
	}

	t.Members = append(t.Members, Member{Name: name, Type: memberType, Offset: bitOffset})

	if t.Kind == Union {
		if memberSize > t.Size {
			t.Size = memberSize
		}
	} else {
		end := bitOffset/8 + memberSize
		if end > t.Size {
			t.Size = end
		}
	}

	if name != "" {
		c.strGrowth += len(name) + 1
	}
	c.setDirty()
	return OK
}

// AddVariable binds name to typ. name must not already be present in the
// variable store.
func (c *Container) AddVariable(name string, typ uint32) Status {
	if !c.isReadWrite() {
		return RDONLY
	}
	if name == "" {
		return BADID
	}
	if c.vars.Has(name) {
		return DUPLICATE
	}
	c.vars.Insert(name, &VarDef{Name: name, Type: typ, Birth: c.snapshotCount})
	c.strGrowth += len(name) + 1
	c.setDirty()
	return OK
}

func maxu64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
