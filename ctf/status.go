// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctf implements a mutable CTF (Compact Type Format) type
// dictionary: incremental type/variable construction, deduplication,
// snapshot/rollback, cross-container import, and serialization into the
// read-only wire format defined by package wire.
package ctf

import "fmt"

// Status is the sentinel result code returned by every fallible operation,
// in place of a generic error: compare against OK rather than against nil.
type Status int

// Status values.
const (
	OK Status = iota
	RDONLY
	FULL
	DTFULL
	BADID
	NOTENUM
	NOTSOU
	NOTSUE
	DUPLICATE
	CONFLICT
	OVERROLLBACK
	CORRUPT
	NOMEM
)

var statusNames = [...]string{
	"OK", "RDONLY", "FULL", "DTFULL", "BADID", "NOTENUM", "NOTSOU",
	"NOTSUE", "DUPLICATE", "CONFLICT", "OVERROLLBACK", "CORRUPT", "NOMEM",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if int(s) >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Ok reports whether s is the success sentinel.
func (s Status) Ok() bool { return s == OK }

// Error implements the error interface so a Status can be returned
// wherever a caller expects an error.
func (s Status) Error() string { return s.String() }
