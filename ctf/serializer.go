// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"bytes"
	"encoding/binary"

	"github.com/hanwen/go-ctf/ctf/strtab"
	"github.com/hanwen/go-ctf/ctf/wire"
)

type varEntry struct {
	name string
	off  uint32
	typ  uint32
}

// typePayloadLen returns the kind-dependent payload length pass 1 must
// account for.
func typePayloadLen(t *TypeDef) int {
	switch t.Kind {
	case Integer, Float:
		return 4
	case Array:
		return wire.ArrayInfoSize
	case Function:
		vlen := t.vlen()
		if vlen%2 != 0 {
			vlen++
		}
		return 4 * vlen
	case Struct, Union:
		if wire.IsLongMember(t.Size) {
			return len(t.Members) * wire.LongMemberSize
		}
		return len(t.Members) * wire.ShortMemberSize
	case Enum:
		return len(t.Enumerators) * wire.EnumMemberSize
	}
	return 0
}

func typeHeaderLen(t *TypeDef) int {
	isSized := t.Kind == Integer || t.Kind == Float || t.Kind == Struct ||
		t.Kind == Union || t.Kind == Enum
	if isSized && wire.IsLongSize(t.Size) {
		return wire.ShortTypeHeaderSize + wire.LongSizeExtSize
	}
	return wire.ShortTypeHeaderSize
}

// Update serializes the container's dynamic state into a CTF buffer and
// swaps in a freshly parsed read-only view. A no-op, returning OK, when
// the container is not dirty.
func (c *Container) Update() Status {
	if !c.isDirty() {
		return OK
	}

	order := c.model.Order()

	// Pass 1: size computation.
	typeSize := 0
	c.types.Each(func(_ uint32, t *TypeDef) bool {
		typeSize += typeHeaderLen(t) + typePayloadLen(t)
		return true
	})
	nvars := c.vars.Len()

	varOff := uint32(0)
	typeOff := varOff + uint32(nvars)*wire.VarEntSize
	strOff := typeOff + uint32(typeSize)

	parentExtra := 0
	if c.isChild() && c.options.ParentName != "" {
		parentExtra = len(c.options.ParentName) + 1
	}
	strLen := uint32(1 + c.strGrowth + parentExtra)

	// Pass 2: emission.
	strs := strtab.New()
	var parNameOff uint32
	if c.isChild() && c.options.ParentName != "" {
		parNameOff = strs.Append(c.options.ParentName)
	}

	entries := make([]varEntry, 0, nvars)
	c.vars.Each(func(name string, v *VarDef) bool {
		off := strs.Append(name)
		entries = append(entries, varEntry{name: name, off: off, typ: v.Type})
		return true
	})
	sortVarEntries(entries)

	varBuf := new(bytes.Buffer)
	for _, e := range entries {
		binary.Write(varBuf, order, wire.VarEnt{NameOff: e.off, Type: e.typ})
	}

	typeBuf := new(bytes.Buffer)
	var emitErr Status
	c.types.Each(func(_ uint32, t *TypeDef) bool {
		nameOff := uint32(0)
		if t.Name != "" {
			nameOff = strs.Append(t.Name)
		}
		if st := emitType(typeBuf, order, t, nameOff, strs); st != OK {
			emitErr = st
			return false
		}
		return true
	})
	if emitErr != OK {
		return emitErr
	}

	if uint32(varBuf.Len()) != uint32(nvars)*wire.VarEntSize {
		return CORRUPT
	}
	if uint32(typeBuf.Len()) != uint32(typeSize) {
		return CORRUPT
	}
	if uint32(strs.Len()) != strLen {
		return CORRUPT
	}

	h := wire.Header{
		Magic:   wire.Magic,
		Version: wire.Version,
		ParName: parNameOff,
		VarOff:  varOff,
		TypeOff: typeOff,
		StrOff:  strOff,
		StrLen:  strLen,
	}
	if c.isChild() {
		h.Flags |= wire.FlagChild
	}

	out := new(bytes.Buffer)
	out.Grow(wire.HeaderSize + int(strOff) + int(strLen))
	binary.Write(out, order, h)
	out.Write(varBuf.Bytes())
	out.Write(typeBuf.Bytes())
	out.Write(strs.Bytes())

	protected, perr := wire.DataProtect(out.Bytes())
	if perr != nil {
		return NOMEM
	}
	view, err := wire.Open(protected.Bytes(), c.model)
	if err != nil {
		// DIRTY stays set on opener failure so the caller can retry or inspect.
		protected.Close()
		return CORRUPT
	}

	c.mu.Lock()
	if c.protected != nil {
		c.protected.Close()
	}
	c.ro = view
	c.protected = protected
	c.mu.Unlock()

	c.oldID = c.nextID - 1
	c.lastCommittedSnapshot = c.snapshotCount
	c.snapshotCount++
	c.flags &^= flagDirty
	return OK
}

func sortVarEntries(entries []varEntry) {
	// insertion sort is plenty for the handful-of-variables case this
	// module targets; swap for sort.Slice if that stops being true.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].name > entries[j].name; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

func emitType(buf *bytes.Buffer, order binary.ByteOrder, t *TypeDef, nameOff uint32, strs *strtab.Table) Status {
	info := wire.Info(t.Kind, t.Root, t.vlen())

	isSized := t.Kind == Integer || t.Kind == Float || t.Kind == Struct ||
		t.Kind == Union || t.Kind == Enum

	var sizeOrType uint32
	if isSized {
		if wire.IsLongSize(t.Size) {
			sizeOrType = wire.LSizeSent
		} else {
			sizeOrType = uint32(t.Size)
		}
	} else {
		sizeOrType = t.Ref
	}

	binary.Write(buf, order, wire.ShortTypeHeader{NameOff: nameOff, Info: info, SizeOrType: sizeOrType})
	if isSized && wire.IsLongSize(t.Size) {
		hi, lo := wire.SplitSize(t.Size)
		binary.Write(buf, order, wire.LongSizeExt{LSizeHi: hi, LSizeLo: lo})
	}

	switch t.Kind {
	case Integer, Float:
		binary.Write(buf, order, wire.EncodeIntFloat(t.Encoding.Format, t.Encoding.Offset, t.Encoding.Bits))

	case Array:
		binary.Write(buf, order, wire.ArrayInfo{Contents: t.Contents, Index: t.Index, NElems: t.NElems})

	case Function:
		for _, a := range t.FuncArgs {
			binary.Write(buf, order, a)
		}
		n := len(t.FuncArgs)
		if t.FuncVariadic {
			binary.Write(buf, order, uint32(0))
			n++
		}
		if n%2 != 0 {
			binary.Write(buf, order, uint32(0))
		}

	case Struct, Union:
		long := wire.IsLongMember(t.Size)
		for _, m := range t.Members {
			mNameOff := uint32(0)
			if m.Name != "" {
				mNameOff = strs.Append(m.Name)
			}
			if long {
				hi, lo := wire.SplitMemberOffset(m.Offset)
				binary.Write(buf, order, wire.LongMember{NameOff: mNameOff, Type: m.Type, OffsetHi: hi, OffsetLo: lo})
			} else {
				binary.Write(buf, order, wire.ShortMember{NameOff: mNameOff, Type: m.Type, Offset: uint32(m.Offset)})
			}
		}

	case Enum:
		for _, e := range t.Enumerators {
			eNameOff := uint32(0)
			if e.Name != "" {
				eNameOff = strs.Append(e.Name)
			}
			binary.Write(buf, order, wire.EnumMember{NameOff: eNameOff, Value: e.Value})
		}
	}
	return OK
}
