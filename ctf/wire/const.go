// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire defines the on-disk CTF container layout: the bit-exact
// record shapes, the primitives to pack and unpack them, and the
// read-only buffer opener that parses a serialized container back into a
// queryable View.
package wire

// Kind discriminates a CTF type record.
type Kind uint32

const (
	KindUnknown Kind = iota
	KindInteger
	KindFloat
	KindPointer
	KindArray
	KindFunction
	KindStruct
	KindUnion
	KindEnum
	KindForward
	KindTypedef
	KindVolatile
	KindConst
	KindRestrict
)

func (k Kind) String() string {
	names := [...]string{
		"unknown", "integer", "float", "pointer", "array", "function",
		"struct", "union", "enum", "forward", "typedef", "volatile",
		"const", "restrict",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "invalid"
}

// info word layout within a 32-bit word: kind(5) in bits 26-30, the root
// flag in bit 25, and vlen(16) in the low 16 bits, mirroring the CTF wire
// format.
const (
	infoKindShift = 26
	infoKindMask  = 0x1f
	infoRootBit   = 1 << 25
	infoVlenMask  = 0xffff
)

// Size-field sentinels and thresholds.
const (
	// LSizeSent marks a short size field as "see lsizehi/lsizelo instead".
	LSizeSent = 0xffff

	// MaxSize is the largest size representable in the short form.
	MaxSize = LSizeSent - 1

	// LStructThresh is the byte-size threshold at or above which
	// STRUCT/UNION records use long (split-offset) member encoding.
	LStructThresh = 8192

	// MaxVlen bounds the member/argument/enumerator count of a single
	// record.
	MaxVlen = infoVlenMask

	// MaxType bounds the type id space for a top-level container.
	MaxType = 0x7fffffff

	// MaxPType bounds the type id space for a child container, which
	// reserves the low bit bank for the parent.
	MaxPType = 0x3fffffff
)

// Magic and version of the container preamble.
const (
	Magic   uint16 = 0xdff2
	Version uint8  = 4

	// flagCompressed is reserved for a compressed body; this module never
	// sets or reads it.
	flagCompressed uint8 = 1 << 0
	FlagChild      uint8 = 1 << 1
)

// Integer/float encoding format domains (CTF_INT_* / CTF_FP_*).
const (
	IntSigned = 1 << iota
	IntChar
	IntBool
	IntVarargs
)

const (
	FPSingle = iota + 1
	FPDouble
	FPComplex
	FPLongDouble
)
