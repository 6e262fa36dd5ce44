// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is a repository containing a Go implementation of the Compact
// Type Format (CTF): a mutable type dictionary that incrementally
// accumulates C type and variable definitions with deduplication and
// snapshot/rollback, then serializes into an immutable, read-only
// container buffer.
//
// See the ctf package for the container API, and ctf/wire for the
// on-disk record layout and the read-only view over a serialized
// buffer.
package lib
