// Copyright 2016 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ctfdump builds a small canned CTF container, commits it, and prints its
// types and variables in a libctf-dump-like textual form.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hanwen/go-ctf/ctf"
	"github.com/hanwen/go-ctf/ctf/wire"
)

func buildSelftest() (*ctf.Container, ctf.Status) {
	c := ctf.New(ctf.Options{})

	intID, st := c.AddInteger(true, "int", ctf.Encoding{Format: wire.IntSigned, Bits: 32})
	if st != ctf.OK {
		return nil, st
	}
	charID, st := c.AddInteger(true, "char", ctf.Encoding{Format: wire.IntSigned | wire.IntChar, Bits: 8})
	if st != ctf.OK {
		return nil, st
	}
	ptrCharID, st := c.AddPointer(false, "", charID)
	if st != ctf.OK {
		return nil, st
	}

	structID, st := c.AddStruct("point")
	if st != ctf.OK {
		return nil, st
	}
	if st := c.AddMember(structID, "x", intID, -1); st != ctf.OK {
		return nil, st
	}
	if st := c.AddMember(structID, "y", intID, -1); st != ctf.OK {
		return nil, st
	}
	if st := c.AddMember(structID, "label", ptrCharID, -1); st != ctf.OK {
		return nil, st
	}

	if st := c.AddVariable("origin", structID); st != ctf.OK {
		return nil, st
	}

	if st := c.Update(); st != ctf.OK {
		return nil, st
	}
	return c, ctf.OK
}

func dump(c *ctf.Container) {
	v := c.View()
	if v == nil {
		fmt.Println("(no committed view)")
		return
	}
	for i, t := range v.Types {
		name := t.Name
		if name == "" {
			name = "(anon)"
		}
		fmt.Printf("%5d: %-10s %-16s size=%d vlen=%d\n", i+1, t.Kind, name, t.Size, t.Vlen)
	}
	for _, vr := range v.Vars {
		fmt.Printf("var %s -> type %d\n", vr.Name, vr.Type)
	}
}

func main() {
	selftest := flag.Bool("selftest", true, "build and dump a canned in-process container")
	flag.Parse()

	if !*selftest {
		log.Fatal("Usage:\n  ctfdump -selftest")
	}

	c, st := buildSelftest()
	if st != ctf.OK {
		log.Fatalf("build fail: %v\n", st)
		os.Exit(1)
	}
	dump(c)
}
