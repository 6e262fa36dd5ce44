// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux && !darwin

package wire

// DataProtect on unsupported platforms returns the buffer unprotected:
// the bytes are not actually write-guarded by the kernel here.
func DataProtect(buf []byte) (ProtectedBuffer, error) {
	return &plainBuffer{buf: buf}, nil
}
