// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"sync"

	"github.com/hanwen/go-ctf/ctf/typestore"
	"github.com/hanwen/go-ctf/ctf/wire"
)

const (
	flagReadWrite uint8 = 1 << iota
	flagDirty
	flagChild
)

// Options configures a new Container.
type Options struct {
	// Model is the data model (int/long/pointer width) types are built
	// against. Defaults to wire.LP64.
	Model wire.DataModel

	// Parent, when set, makes the new container a child: its type ids
	// are allocated in the child id space (MaxPType) and its serialized
	// buffer records ParentName.
	Parent     *Container
	ParentName string

	// TolerateDamagedIntWidth enables a disabled-by-default integer
	// conflict compatibility shim: a root-visible integer conflict where
	// either side is 1 or 4 bits wide is downgraded from CONFLICT to
	// "keep existing" instead of failing import.
	TolerateDamagedIntWidth bool
}

// Container is the mutable CTF type dictionary: the core subject of this
// module. It is not safe for concurrent use by multiple goroutines —
// callers needing that must serialize access externally.
type Container struct {
	// mu guards ro and protected (the read-only view and its buffer)
	// during Update's swap and in View/Close; it does not guard the
	// counters or make the type/var builder API goroutine-safe.
	mu sync.Mutex

	model   wire.DataModel
	options Options
	flags   uint8

	types *typestore.Store[uint32, *TypeDef]
	vars  *typestore.Store[string, *VarDef]

	strGrowth int

	nextID                uint32
	oldID                 uint32
	snapshotCount         uint64
	lastCommittedSnapshot uint64

	structIdx map[string]uint32
	unionIdx  map[string]uint32
	enumIdx   map[string]uint32
	namesIdx  map[string]uint32

	ro        *wire.View
	protected wire.ProtectedBuffer
}

// New creates an empty, writable container.
func New(opts Options) *Container {
	model := opts.Model
	if model.PointerWidth == 0 {
		model = wire.LP64
	}
	c := &Container{
		model:   model,
		options: opts,
		flags:   flagReadWrite,
		types:   typestore.New[uint32, *TypeDef](),
		vars:    typestore.New[string, *VarDef](),
		nextID:  1,
	}
	if opts.Parent != nil {
		c.flags |= flagChild
	}
	c.structIdx = map[string]uint32{}
	c.unionIdx = map[string]uint32{}
	c.enumIdx = map[string]uint32{}
	c.namesIdx = map[string]uint32{}
	return c
}

func (c *Container) isReadWrite() bool { return c.flags&flagReadWrite != 0 }
func (c *Container) isDirty() bool     { return c.flags&flagDirty != 0 }
func (c *Container) isChild() bool     { return c.flags&flagChild != 0 }

func (c *Container) setDirty() { c.flags |= flagDirty }

// Dirty reports whether the container has uncommitted additions or
// mutations since the last successful Update.
func (c *Container) Dirty() bool { return c.isDirty() }

// Model returns the data model the container was built against.
func (c *Container) Model() wire.DataModel { return c.model }

// NTypes returns the number of types allocated so far (contiguous prefix
// of [1, NTypes]).
func (c *Container) NTypes() uint32 {
	if c.nextID == 0 {
		return 0
	}
	return c.nextID - 1
}

// View returns the read-only view produced by the last successful Update,
// or nil if Update has never been called.
func (c *Container) View() *wire.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ro
}

// Close releases the read-only view's protected buffer (if any) and
// drains both dynamic stores. Go's GC handles the maps, but the mmap'd
// buffer needs an explicit unmap.
func (c *Container) Close() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.protected != nil {
		if err := c.protected.Close(); err != nil {
			return NOMEM
		}
		c.protected = nil
	}
	c.ro = nil
	c.types = typestore.New[uint32, *TypeDef]()
	c.vars = typestore.New[string, *VarDef]()
	c.nextID = 1
	c.oldID = 0
	c.strGrowth = 0
	return OK
}

// indexBucket selects the per-kind name index a root-visible type of the
// given kind is discoverable in. A FORWARD is indexed under the kind it
// forwards to, so a later AddStruct/AddUnion/AddEnum of the same name
// finds it for upgrade-in-place.
func (c *Container) indexBucket(kind Kind, forwardRef uint32) map[string]uint32 {
	switch kind {
	case Struct:
		return c.structIdx
	case Union:
		return c.unionIdx
	case Enum:
		return c.enumIdx
	case Forward:
		switch Kind(forwardRef) {
		case Struct:
			return c.structIdx
		case Union:
			return c.unionIdx
		case Enum:
			return c.enumIdx
		}
		return c.namesIdx
	default:
		return c.namesIdx
	}
}

func (c *Container) indexInsert(t *TypeDef) {
	if !t.Root || t.Name == "" {
		return
	}
	c.indexBucket(t.Kind, t.Ref)[t.Name] = t.ID
}

func (c *Container) indexRemove(t *TypeDef) {
	if !t.Root || t.Name == "" {
		return
	}
	b := c.indexBucket(t.Kind, t.Ref)
	if b[t.Name] == t.ID {
		delete(b, t.Name)
	}
}

// LookupName resolves a root-visible name in the index selected by kind,
// returning the dynamic TypeDef (committed or still-pending) if present.
func (c *Container) LookupName(kind Kind, name string) (*TypeDef, bool) {
	b := c.indexBucket(kind, 0)
	id, ok := b[name]
	if !ok {
		return nil, false
	}
	return c.types.Get(id)
}
