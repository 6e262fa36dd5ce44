// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

// Header is the fixed-size container preamble. LabelOff,
// ObjtOff and FuncOff are reserved for label/object/function sections this
// module does not populate; they are always written as zero.
type Header struct {
	Magic    uint16
	Version  uint8
	Flags    uint8
	LabelOff uint32
	ObjtOff  uint32
	FuncOff  uint32
	ParName  uint32
	VarOff   uint32
	TypeOff  uint32
	StrOff   uint32
	StrLen   uint32
}

// HeaderSize is the encoded byte length of Header.
const HeaderSize = 2 + 1 + 1 + 4*8

// VarEnt is one entry of the variable table: a string-table name offset
// paired with the type id it is bound to.
type VarEnt struct {
	NameOff uint32
	Type    uint32
}

// VarEntSize is the encoded byte length of VarEnt.
const VarEntSize = 8

// ShortTypeHeader is the 12-byte type record header used when the type's
// size fits the short field.
type ShortTypeHeader struct {
	NameOff    uint32
	Info       uint32
	SizeOrType uint32
}

// ShortTypeHeaderSize is the encoded byte length of ShortTypeHeader.
const ShortTypeHeaderSize = 12

// LongSizeExt is the 8-byte extension following a ShortTypeHeader whose
// SizeOrType field reads LSizeSent.
type LongSizeExt struct {
	LSizeHi uint32
	LSizeLo uint32
}

// LongSizeExtSize is the encoded byte length of LongSizeExt.
const LongSizeExtSize = 8

// ArrayInfo is the ARRAY kind's fixed payload.
type ArrayInfo struct {
	Contents uint32
	Index    uint32
	NElems   uint32
}

// ArrayInfoSize is the encoded byte length of ArrayInfo.
const ArrayInfoSize = 12

// ShortMember is a STRUCT/UNION member record used below LStructThresh.
type ShortMember struct {
	NameOff uint32
	Type    uint32
	Offset  uint32
}

// ShortMemberSize is the encoded byte length of ShortMember.
const ShortMemberSize = 12

// LongMember is a STRUCT/UNION member record used at or above
// LStructThresh, carrying a split bit offset.
type LongMember struct {
	NameOff  uint32
	Type     uint32
	OffsetHi uint32
	OffsetLo uint32
}

// LongMemberSize is the encoded byte length of LongMember.
const LongMemberSize = 16

// EnumMember is one ENUM (name, value) pair.
type EnumMember struct {
	NameOff uint32
	Value   int32
}

// EnumMemberSize is the encoded byte length of EnumMember.
const EnumMemberSize = 8
