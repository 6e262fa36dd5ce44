// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import "github.com/hanwen/go-ctf/ctf/wire"

// Kind re-exports wire.Kind so callers need not import the wire package
// for the common case of naming a type kind.
type Kind = wire.Kind

const (
	Integer  = wire.KindInteger
	Float    = wire.KindFloat
	Pointer  = wire.KindPointer
	Array    = wire.KindArray
	Function = wire.KindFunction
	Struct   = wire.KindStruct
	Union    = wire.KindUnion
	Enum     = wire.KindEnum
	Forward  = wire.KindForward
	Typedef  = wire.KindTypedef
	Volatile = wire.KindVolatile
	Const    = wire.KindConst
	Restrict = wire.KindRestrict
)

// Encoding describes an INTEGER or FLOAT type's bit layout.
type Encoding struct {
	Format uint8
	Offset uint8
	Bits   uint16
}

// Member is one STRUCT/UNION member: a dynamic-store analogue of
// wire.Member, keyed by type id rather than an already-resolved record.
type Member struct {
	Name   string
	Type   uint32
	Offset uint64 // bit offset
}

// Enumerator is one ENUM (name, value) pair.
type Enumerator struct {
	Name  string
	Value int32
}

// TypeDef is the dynamic, mutable record for a type. Exactly one of the
// kind-dependent payload groups below is populated, selected by Kind.
type TypeDef struct {
	ID   uint32
	Name string
	Kind Kind
	Root bool

	Size uint64

	// Ref holds the referenced type id for POINTER/VOLATILE/CONST/
	// RESTRICT/TYPEDEF/FUNCTION-return, or the referenced kind (cast to
	// uint32) for FORWARD.
	Ref uint32

	Encoding Encoding // INTEGER/FLOAT

	Contents uint32 // ARRAY
	Index    uint32 // ARRAY
	NElems   uint32 // ARRAY

	FuncArgs     []uint32 // FUNCTION
	FuncVariadic bool

	Members     []Member      // STRUCT/UNION
	Enumerators []Enumerator // ENUM
}

func (t *TypeDef) vlen() int {
	switch t.Kind {
	case Struct, Union:
		return len(t.Members)
	case Enum:
		return len(t.Enumerators)
	case Function:
		n := len(t.FuncArgs)
		if t.FuncVariadic {
			n++
		}
		return n
	}
	return 0
}
