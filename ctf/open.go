// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"github.com/hanwen/go-ctf/ctf/wire"
)

// Open parses a previously serialized CTF buffer and returns a Container
// whose dynamic state is rehydrated from it: every type and variable the
// buffer describes becomes a live TypeDef/VarDef exactly as if it had
// been added via the builder API and then committed, so the returned
// Container can be mutated, copied into/from, and re-serialized just
// like one built from scratch.
func Open(buf []byte, opts Options) (*Container, Status) {
	model := opts.Model
	if model.PointerWidth == 0 {
		model = wire.LP64
	}
	protected, perr := wire.DataProtect(buf)
	if perr != nil {
		return nil, NOMEM
	}
	view, err := wire.Open(protected.Bytes(), model)
	if err != nil {
		protected.Close()
		return nil, CORRUPT
	}

	c := New(opts)
	c.model = model

	for _, r := range view.Types {
		t := &TypeDef{
			ID:           r.ID,
			Name:         r.Name,
			Kind:         r.Kind,
			Root:         r.Root,
			Size:         r.Size,
			Ref:          r.Ref,
			Contents:     r.Contents,
			Index:        r.Index,
			NElems:       r.NElems,
			FuncArgs:     append([]uint32(nil), r.FuncArgs...),
			FuncVariadic: r.FuncVariadic,
		}
		t.Encoding = Encoding(r.Encoding)
		for _, m := range r.Members {
			t.Members = append(t.Members, Member{Name: m.Name, Type: m.Type, Offset: m.Offset})
		}
		for _, e := range r.Enumerators {
			t.Enumerators = append(t.Enumerators, Enumerator{Name: e.Name, Value: e.Value})
		}
		c.types.Insert(t.ID, t)
		c.indexInsert(t)
		if t.Name != "" {
			c.strGrowth += len(t.Name) + 1
		}
		for _, m := range t.Members {
			if m.Name != "" {
				c.strGrowth += len(m.Name) + 1
			}
		}
		for _, e := range t.Enumerators {
			if e.Name != "" {
				c.strGrowth += len(e.Name) + 1
			}
		}
	}

	for _, v := range view.Vars {
		c.vars.Insert(v.Name, &VarDef{Name: v.Name, Type: v.Type})
		c.strGrowth += len(v.Name) + 1
	}

	c.nextID = uint32(len(view.Types)) + 1
	c.oldID = c.nextID - 1
	c.lastCommittedSnapshot = 0
	c.snapshotCount = 1
	c.ro = view
	if view.Header.Flags&wire.FlagChild != 0 {
		c.flags |= flagChild
		c.options.ParentName = view.ParentName
	}
	c.flags &^= flagDirty
	c.protected = protected
	return c, OK
}
