// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

// Snapshot is the opaque rollback point returned by Container.Snapshot: a
// (type id high-water mark, snapshot counter) pair.
type Snapshot struct {
	TypeHWM uint32
	Snap    uint64
}

// Snapshot returns an opaque rollback point bounding the container's
// current state.
func (c *Container) Snapshot() Snapshot {
	s := Snapshot{TypeHWM: c.nextID - 1, Snap: c.snapshotCount}
	c.snapshotCount++
	return s
}

// Discard reverts the container to the state at its last successful
// Update.
func (c *Container) Discard() Status {
	return c.Rollback(Snapshot{TypeHWM: c.oldID, Snap: c.lastCommittedSnapshot + 1})
}

// Rollback reverts the container to a previously taken Snapshot, deleting
// every type and variable added after it.
func (c *Container) Rollback(id Snapshot) Status {
	if c.oldID > id.TypeHWM || c.lastCommittedSnapshot >= id.Snap {
		return OVERROLLBACK
	}
	clean := id.TypeHWM == c.oldID && id.Snap == c.lastCommittedSnapshot+1

	var toDelete []uint32
	c.types.Each(func(tid uint32, t *TypeDef) bool {
		if tid > id.TypeHWM {
			toDelete = append(toDelete, tid)
		}
		return true
	})
	for _, tid := range toDelete {
		t, _ := c.types.Get(tid)
		c.deleteTypeLocked(t)
	}

	var varsToDelete []string
	c.vars.Each(func(name string, v *VarDef) bool {
		if v.Birth > id.Snap {
			varsToDelete = append(varsToDelete, name)
		}
		return true
	})
	for _, name := range varsToDelete {
		v, _ := c.vars.Get(name)
		c.strGrowth -= len(v.Name) + 1
		c.vars.Delete(name)
	}

	c.nextID = id.TypeHWM + 1
	c.snapshotCount = id.Snap
	if clean {
		c.flags &^= flagDirty
	}
	return OK
}

// deleteTypeLocked removes t and all of its accounting (name index entry,
// string-growth contribution of its own name plus every member/enumerator
// name) from the container.
func (c *Container) deleteTypeLocked(t *TypeDef) {
	c.indexRemove(t)
	if t.Name != "" {
		c.strGrowth -= len(t.Name) + 1
	}
	for _, m := range t.Members {
		if m.Name != "" {
			c.strGrowth -= len(m.Name) + 1
		}
	}
	for _, e := range t.Enumerators {
		if e.Name != "" {
			c.strGrowth -= len(e.Name) + 1
		}
	}
	c.types.Delete(t.ID)
}
