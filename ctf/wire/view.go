// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// IntFloatEncoding is the parsed form of an INTEGER/FLOAT encoding word.
type IntFloatEncoding struct {
	Format uint8
	Offset uint8
	Bits   uint16
}

// Member is a parsed STRUCT/UNION member.
type Member struct {
	Name   string
	Type   uint32
	Offset uint64 // bit offset
}

// Enumerator is a parsed ENUM (name, value) pair.
type Enumerator struct {
	Name  string
	Value int32
}

// Rec is one parsed type record, indexed by (id-1) in View.Types.
type Rec struct {
	ID   uint32
	Name string
	Kind Kind
	Root bool
	Vlen int
	Size uint64

	// Ref holds the referenced type id for POINTER/VOLATILE/CONST/
	// RESTRICT/TYPEDEF/FUNCTION-return, or the referenced kind (as a
	// Kind cast to uint32) for FORWARD.
	Ref uint32

	Encoding     IntFloatEncoding
	Contents     uint32 // ARRAY
	Index        uint32 // ARRAY
	NElems       uint32 // ARRAY
	FuncArgs     []uint32
	FuncVariadic bool
	Members      []Member
	Enumerators  []Enumerator
}

// Var is a parsed variable-table entry.
type Var struct {
	Name string
	Type uint32
}

// View is the read-only, parsed form of a serialized CTF buffer.
type View struct {
	Header     Header
	Model      DataModel
	ParentName string

	Vars  []Var
	Types []Rec // Types[i] has ID == i+1

	structIdx map[string]uint32
	unionIdx  map[string]uint32
	enumIdx   map[string]uint32
	namesIdx  map[string]uint32
}

// Open parses buf as a CTF container and returns a queryable read-only
// View, or an error wrapping ErrCorrupt on malformed input.
func Open(buf []byte, model DataModel) (*View, error) {
	order := model.Order()
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: buffer shorter than header", ErrCorrupt)
	}
	r := bytes.NewReader(buf)
	var h Header
	if err := binary.Read(r, order, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrCorrupt, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	}

	strOff := HeaderSize + int(h.StrOff)
	strEnd := strOff + int(h.StrLen)
	if strOff < 0 || strEnd > len(buf) || strOff > strEnd {
		return nil, fmt.Errorf("%w: string table out of range", ErrCorrupt)
	}
	strs := buf[strOff:strEnd]
	getString := func(off uint32) (string, error) {
		if int(off) >= len(strs) {
			return "", fmt.Errorf("%w: name offset %d out of range", ErrCorrupt, off)
		}
		end := bytes.IndexByte(strs[off:], 0)
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated string at %d", ErrCorrupt, off)
		}
		return string(strs[off : int(off)+end]), nil
	}

	v := &View{Header: h, Model: model}
	if h.Flags&FlagChild != 0 {
		name, err := getString(1)
		if err != nil {
			return nil, err
		}
		v.ParentName = name
	}

	varOff := HeaderSize + int(h.VarOff)
	typeOff := HeaderSize + int(h.TypeOff)
	if varOff < 0 || typeOff < varOff {
		return nil, fmt.Errorf("%w: variable section out of range", ErrCorrupt)
	}
	nvars := (typeOff - varOff) / VarEntSize
	vr := bytes.NewReader(buf[varOff:typeOff])
	v.Vars = make([]Var, 0, nvars)
	for i := 0; i < nvars; i++ {
		var e VarEnt
		if err := binary.Read(vr, order, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		name, err := getString(e.NameOff)
		if err != nil {
			return nil, err
		}
		v.Vars = append(v.Vars, Var{Name: name, Type: e.Type})
	}

	v.structIdx = map[string]uint32{}
	v.unionIdx = map[string]uint32{}
	v.enumIdx = map[string]uint32{}
	v.namesIdx = map[string]uint32{}

	cur := typeOff
	end := strOff
	nextID := uint32(1)
	for cur < end {
		tr := bytes.NewReader(buf[cur:end])
		var th ShortTypeHeader
		if err := binary.Read(tr, order, &th); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		cur += ShortTypeHeaderSize

		size := uint64(th.SizeOrType)
		refOrKindField := th.SizeOrType
		kind, root, vlen := DecodeInfo(th.Info)

		isSized := kind == KindInteger || kind == KindFloat || kind == KindStruct ||
			kind == KindUnion || kind == KindEnum
		if isSized && th.SizeOrType == LSizeSent {
			var ext LongSizeExt
			tr2 := bytes.NewReader(buf[cur:end])
			if err := binary.Read(tr2, order, &ext); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			cur += LongSizeExtSize
			size = JoinSize(ext.LSizeHi, ext.LSizeLo)
		}

		name := ""
		if th.NameOff != 0 {
			n, err := getString(th.NameOff)
			if err != nil {
				return nil, err
			}
			name = n
		}

		rec := Rec{ID: nextID, Name: name, Kind: kind, Root: root, Vlen: vlen}
		if !isSized {
			rec.Ref = refOrKindField
		} else {
			rec.Size = size
		}

		switch kind {
		case KindInteger, KindFloat:
			var w uint32
			if err := readU32(buf, &cur, end, order, &w); err != nil {
				return nil, err
			}
			f, o, b := DecodeIntFloat(w)
			rec.Encoding = IntFloatEncoding{Format: f, Offset: o, Bits: b}

		case KindArray:
			var ai ArrayInfo
			ar := bytes.NewReader(buf[cur:end])
			if err := binary.Read(ar, order, &ai); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			cur += ArrayInfoSize
			rec.Contents, rec.Index, rec.NElems = ai.Contents, ai.Index, ai.NElems

		case KindFunction:
			n := vlen
			rec.FuncArgs = make([]uint32, 0, n)
			for i := 0; i < n; i++ {
				var a uint32
				if err := readU32(buf, &cur, end, order, &a); err != nil {
					return nil, err
				}
				rec.FuncArgs = append(rec.FuncArgs, a)
			}
			if n > 0 && rec.FuncArgs[n-1] == 0 {
				rec.FuncVariadic = true
				rec.FuncArgs = rec.FuncArgs[:n-1]
			}
			if n%2 != 0 {
				cur += 4 // padding word
			}

		case KindStruct, KindUnion:
			long := IsLongMember(rec.Size)
			rec.Members = make([]Member, 0, vlen)
			for i := 0; i < vlen; i++ {
				var mname string
				var mtype uint32
				var moff uint64
				if long {
					var lm LongMember
					mr := bytes.NewReader(buf[cur:end])
					if err := binary.Read(mr, order, &lm); err != nil {
						return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
					}
					cur += LongMemberSize
					mtype = lm.Type
					moff = JoinMemberOffset(lm.OffsetHi, lm.OffsetLo)
					if lm.NameOff != 0 {
						n, err := getString(lm.NameOff)
						if err != nil {
							return nil, err
						}
						mname = n
					}
				} else {
					var sm ShortMember
					mr := bytes.NewReader(buf[cur:end])
					if err := binary.Read(mr, order, &sm); err != nil {
						return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
					}
					cur += ShortMemberSize
					mtype = sm.Type
					moff = uint64(sm.Offset)
					if sm.NameOff != 0 {
						n, err := getString(sm.NameOff)
						if err != nil {
							return nil, err
						}
						mname = n
					}
				}
				rec.Members = append(rec.Members, Member{Name: mname, Type: mtype, Offset: moff})
			}

		case KindEnum:
			rec.Enumerators = make([]Enumerator, 0, vlen)
			for i := 0; i < vlen; i++ {
				var em EnumMember
				er := bytes.NewReader(buf[cur:end])
				if err := binary.Read(er, order, &em); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
				}
				cur += EnumMemberSize
				n := ""
				if em.NameOff != 0 {
					s, err := getString(em.NameOff)
					if err != nil {
						return nil, err
					}
					n = s
				}
				rec.Enumerators = append(rec.Enumerators, Enumerator{Name: n, Value: em.Value})
			}
		}

		v.Types = append(v.Types, rec)
		if root && name != "" {
			switch kind {
			case KindStruct:
				v.structIdx[name] = rec.ID
			case KindUnion:
				v.unionIdx[name] = rec.ID
			case KindEnum:
				v.enumIdx[name] = rec.ID
			default:
				v.namesIdx[name] = rec.ID
			}
		}
		nextID++
	}

	sort.Slice(v.Vars, func(i, j int) bool { return v.Vars[i].Name < v.Vars[j].Name })
	return v, nil
}

func readU32(buf []byte, cur *int, end int, order binary.ByteOrder, out *uint32) error {
	if *cur+4 > end {
		return fmt.Errorf("%w: truncated record", ErrCorrupt)
	}
	*out = order.Uint32(buf[*cur : *cur+4])
	*cur += 4
	return nil
}

// LookupByID returns the parsed record for a 1-based type id.
func (v *View) LookupByID(id uint32) (*Rec, bool) {
	if id == 0 || int(id) > len(v.Types) {
		return nil, false
	}
	return &v.Types[id-1], true
}

// TypeKind returns the kind of id.
func (v *View) TypeKind(id uint32) (Kind, bool) {
	r, ok := v.LookupByID(id)
	if !ok {
		return KindUnknown, false
	}
	return r.Kind, true
}

// TypeSize returns the byte size of id, resolving through qualifiers and
// typedefs to their referent.
func (v *View) TypeSize(id uint32) (uint64, bool) {
	r, ok := v.LookupByID(id)
	if !ok {
		return 0, false
	}
	switch r.Kind {
	case KindInteger, KindFloat:
		return IntFloatByteSize(r.Encoding.Bits), true
	case KindPointer:
		return uint64(v.Model.PointerWidth), true
	case KindEnum:
		return uint64(v.Model.IntWidth), true
	case KindStruct, KindUnion:
		return r.Size, true
	case KindArray:
		elemSize, ok := v.TypeSize(r.Contents)
		if !ok {
			return 0, false
		}
		return elemSize * uint64(r.NElems), true
	case KindVolatile, KindConst, KindRestrict, KindTypedef:
		return v.TypeSize(r.Ref)
	case KindFunction, KindForward:
		return 0, true
	}
	return 0, false
}

// TypeAlign returns the natural alignment of id in bytes: integer/float
// align to their encoded byte size, pointer/enum to the data model
// width, struct/union to the max member alignment, array to its
// element's alignment, qualifiers/typedefs forward to the referent.
func (v *View) TypeAlign(id uint32) (uint64, bool) {
	r, ok := v.LookupByID(id)
	if !ok {
		return 0, false
	}
	switch r.Kind {
	case KindInteger, KindFloat:
		return IntFloatByteSize(r.Encoding.Bits), true
	case KindPointer:
		return uint64(v.Model.PointerWidth), true
	case KindEnum:
		return uint64(v.Model.IntWidth), true
	case KindArray:
		return v.TypeAlign(r.Contents)
	case KindVolatile, KindConst, KindRestrict, KindTypedef:
		return v.TypeAlign(r.Ref)
	case KindStruct, KindUnion:
		var max uint64 = 1
		for _, m := range r.Members {
			a, ok := v.memberAlign(m)
			if ok && a > max {
				max = a
			}
		}
		return max, true
	}
	return 1, true
}

// memberAlign prefers a member's encoding bit width over size*8 when
// computing its natural alignment.
func (v *View) memberAlign(m Member) (uint64, bool) {
	r, ok := v.LookupByID(m.Type)
	if !ok {
		return 0, false
	}
	if r.Kind == KindInteger || r.Kind == KindFloat {
		return IntFloatByteSize(r.Encoding.Bits), true
	}
	return v.TypeAlign(m.Type)
}

// TypeEncoding returns the parsed INTEGER/FLOAT encoding of id.
func (v *View) TypeEncoding(id uint32) (IntFloatEncoding, bool) {
	r, ok := v.LookupByID(id)
	if !ok || (r.Kind != KindInteger && r.Kind != KindFloat) {
		return IntFloatEncoding{}, false
	}
	return r.Encoding, true
}

// TypeReference returns the type id referenced by a POINTER, TYPEDEF,
// VOLATILE, CONST or RESTRICT record.
func (v *View) TypeReference(id uint32) (uint32, bool) {
	r, ok := v.LookupByID(id)
	if !ok {
		return 0, false
	}
	switch r.Kind {
	case KindPointer, KindTypedef, KindVolatile, KindConst, KindRestrict:
		return r.Ref, true
	}
	return 0, false
}

// ArrayInfoOf returns the (contents, index, nelems) triple of an ARRAY.
func (v *View) ArrayInfoOf(id uint32) (contents, index, nelems uint32, ok bool) {
	r, ok := v.LookupByID(id)
	if !ok || r.Kind != KindArray {
		return 0, 0, 0, false
	}
	return r.Contents, r.Index, r.NElems, true
}

// MemberIter returns the ordered member list of a STRUCT/UNION.
func (v *View) MemberIter(id uint32) ([]Member, bool) {
	r, ok := v.LookupByID(id)
	if !ok || (r.Kind != KindStruct && r.Kind != KindUnion) {
		return nil, false
	}
	return r.Members, true
}

// EnumIter returns the ordered enumerator list of an ENUM.
func (v *View) EnumIter(id uint32) ([]Enumerator, bool) {
	r, ok := v.LookupByID(id)
	if !ok || r.Kind != KindEnum {
		return nil, false
	}
	return r.Enumerators, true
}

// EnumValue looks up a single enumerator's value by name.
func (v *View) EnumValue(id uint32, name string) (int32, bool) {
	es, ok := v.EnumIter(id)
	if !ok {
		return 0, false
	}
	for _, e := range es {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

// MemberInfo looks up a single member by name.
func (v *View) MemberInfo(id uint32, name string) (Member, bool) {
	ms, ok := v.MemberIter(id)
	if !ok {
		return Member{}, false
	}
	for _, m := range ms {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// LookupByName resolves a root-visible name in the index selected by kind:
// STRUCT/UNION/ENUM have dedicated indexes, everything else shares the
// catch-all names index.
func (v *View) LookupByName(kind Kind, name string) (uint32, bool) {
	var idx map[string]uint32
	switch kind {
	case KindStruct:
		idx = v.structIdx
	case KindUnion:
		idx = v.unionIdx
	case KindEnum:
		idx = v.enumIdx
	default:
		idx = v.namesIdx
	}
	id, ok := idx[name]
	return id, ok
}

// LookupVarByName binary-searches the (already name-sorted) variable
// table.
func (v *View) LookupVarByName(name string) (uint32, bool) {
	i := sort.Search(len(v.Vars), func(i int) bool { return v.Vars[i].Name >= name })
	if i < len(v.Vars) && v.Vars[i].Name == name {
		return v.Vars[i].Type, true
	}
	return 0, false
}

// NTypes returns the number of type records parsed.
func (v *View) NTypes() int { return len(v.Types) }
