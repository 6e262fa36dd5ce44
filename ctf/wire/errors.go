// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "errors"

// ErrCorrupt is returned by Open when the buffer does not parse as a
// well-formed CTF container (bad magic, truncated sections, out-of-range
// offsets).
var ErrCorrupt = errors.New("ctf: corrupt container buffer")
