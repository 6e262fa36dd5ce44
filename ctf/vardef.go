// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

// VarDef is a dynamic name -> type binding. Birth records the snapshot at
// which it was added, so Rollback can evict variables born after a given
// snapshot.
type VarDef struct {
	Name  string
	Type  uint32
	Birth uint64
}
