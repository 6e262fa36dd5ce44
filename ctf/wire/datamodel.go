// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "encoding/binary"

// DataModel describes the width in bytes of the scalar C types a container
// was built against. It governs the default size/alignment of POINTER and
// ENUM types and the natural alignment fallback for members.
type DataModel struct {
	IntWidth     int
	LongWidth    int
	PointerWidth int
	ByteOrder    binary.ByteOrder
}

// ILP32 is the classic 32-bit data model: int, long and pointer are all
// 4 bytes wide.
var ILP32 = DataModel{IntWidth: 4, LongWidth: 4, PointerWidth: 4, ByteOrder: binary.LittleEndian}

// LP64 is the usual 64-bit data model: int stays 4 bytes, long and
// pointer widen to 8.
var LP64 = DataModel{IntWidth: 4, LongWidth: 8, PointerWidth: 8, ByteOrder: binary.LittleEndian}

// Order returns the model's configured byte order, defaulting to little
// endian when unset (the zero DataModel).
func (m DataModel) Order() binary.ByteOrder {
	if m.ByteOrder == nil {
		return binary.LittleEndian
	}
	return m.ByteOrder
}
