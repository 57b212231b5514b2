// Copyright (C) 2024 msgpackio authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package value builds recursive trees on top of msgpack's flat token
// stream: ValueRef borrows byte slices from the buffer it was decoded
// from, for zero-copy reads of a complete in-memory message; Value owns
// its bytes, for results that must outlive the input buffer or that were
// reassembled from a chunked stream via an owned decoder.
package value

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slices"

	"github.com/mpkio/msgpackio/msgpack"
)

// Kind tags which field of a Value or ValueRef is live.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNum
	KindBin
	KindStr
	KindArr
	KindMap
	KindExt
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindBool:
		return "Bool"
	case KindNum:
		return "Num"
	case KindBin:
		return "Bin"
	case KindStr:
		return "Str"
	case KindArr:
		return "Arr"
	case KindMap:
		return "Map"
	case KindExt:
		return "Ext"
	default:
		return "Kind(?)"
	}
}

// Entry is one key/value pair of a map node. Map entries preserve
// encounter order and are never deduplicated or sorted: a map with
// repeated keys round-trips every entry, matching what the wire format
// actually carries.
type Entry struct {
	Key Value
	Val Value
}

// EntryRef is the borrowed counterpart of Entry.
type EntryRef struct {
	Key ValueRef
	Val ValueRef
}

// Value is an owned MessagePack value tree.
type Value struct {
	kind    Kind
	b       bool
	n       msgpack.Num
	bytes   []byte
	extType int8
	arr     []Value
	entries []Entry
}

// ValueRef is a MessagePack value tree whose Bin/Str/Ext payloads alias
// the buffer it was decoded from; its Arr/Map element slices are allocated
// separately. It must not outlive that buffer.
type ValueRef struct {
	kind    Kind
	b       bool
	n       msgpack.Num
	bytes   []byte
	extType int8
	arr     []ValueRef
	entries []EntryRef
}

// Constructors for Value.

func Nil() Value                  { return Value{kind: KindNil} }
func Bool(b bool) Value           { return Value{kind: KindBool, b: b} }
func FromNum(n msgpack.Num) Value { return Value{kind: KindNum, n: n} }
func Bin(b []byte) Value          { return Value{kind: KindBin, bytes: b} }
func Str(s string) Value          { return Value{kind: KindStr, bytes: []byte(s)} }
func Arr(elems []Value) Value     { return Value{kind: KindArr, arr: elems} }
func Map(entries []Entry) Value {
	return Value{kind: KindMap, entries: entries}
}
func Ext(extType int8, data []byte) Value {
	return Value{kind: KindExt, extType: extType, bytes: data}
}

// Kind reports which accessor is valid.
func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, wrongKind("AsBool", KindBool, v.kind)
	}
	return v.b, nil
}

func (v Value) AsNum() (msgpack.Num, error) {
	if v.kind != KindNum {
		return msgpack.Num{}, wrongKind("AsNum", KindNum, v.kind)
	}
	return v.n, nil
}

func (v Value) AsBin() ([]byte, error) {
	if v.kind != KindBin {
		return nil, wrongKind("AsBin", KindBin, v.kind)
	}
	return v.bytes, nil
}

// AsStr returns the node's text, validating it as UTF-8. The format
// permits arbitrary bytes in a str payload's position on the wire; a
// non-UTF-8 payload is reported as a *msgpack.UTF8Error rather than
// silently replacing invalid sequences, and StrBytes remains available to
// recover the raw bytes regardless.
func (v Value) AsStr() (string, error) {
	if v.kind != KindStr {
		return "", wrongKind("AsStr", KindStr, v.kind)
	}
	if !utf8.Valid(v.bytes) {
		return "", &msgpack.UTF8Error{Bytes: v.bytes}
	}
	return string(v.bytes), nil
}

// StrBytes returns a Str node's raw bytes without UTF-8 validation.
func (v Value) StrBytes() ([]byte, error) {
	if v.kind != KindStr {
		return nil, wrongKind("StrBytes", KindStr, v.kind)
	}
	return v.bytes, nil
}

func (v Value) AsArr() ([]Value, error) {
	if v.kind != KindArr {
		return nil, wrongKind("AsArr", KindArr, v.kind)
	}
	return v.arr, nil
}

func (v Value) AsMap() ([]Entry, error) {
	if v.kind != KindMap {
		return nil, wrongKind("AsMap", KindMap, v.kind)
	}
	return v.entries, nil
}

func (v Value) AsExt() (int8, []byte, error) {
	if v.kind != KindExt {
		return 0, nil, wrongKind("AsExt", KindExt, v.kind)
	}
	return v.extType, v.bytes, nil
}

func wrongKind(fn string, want, got Kind) error {
	return &msgpack.DecodeError{Expected: want.String(), Got: got.String(), Func: fn}
}

// ToOwned converts r into an owned Value, copying every byte slice so the
// result no longer aliases r's backing buffer. An alias of Clone, named to
// match the borrowed/owned conversion pair's counterpart, AsRef.
func (r ValueRef) ToOwned() Value { return r.Clone() }

// Clone converts r into an owned Value, copying every byte slice so the
// result no longer aliases r's backing buffer.
func (r ValueRef) Clone() Value {
	switch r.kind {
	case KindNil:
		return Nil()
	case KindBool:
		return Bool(r.b)
	case KindNum:
		return FromNum(r.n)
	case KindBin:
		return Bin(slices.Clone(r.bytes))
	case KindStr:
		return Value{kind: KindStr, bytes: slices.Clone(r.bytes)}
	case KindExt:
		return Ext(r.extType, slices.Clone(r.bytes))
	case KindArr:
		out := make([]Value, len(r.arr))
		for i, e := range r.arr {
			out[i] = e.Clone()
		}
		return Arr(out)
	default: // KindMap
		out := make([]Entry, len(r.entries))
		for i, e := range r.entries {
			out[i] = Entry{Key: e.Key.Clone(), Val: e.Val.Clone()}
		}
		return Map(out)
	}
}

// Equal reports whether v and o describe the same value tree. Numbers
// compare across variants (Num.Equal); map entries compare positionally,
// since map order is significant and not normalized.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindNum:
		return v.n.Equal(o.n)
	case KindBin, KindStr:
		return slices.Equal(v.bytes, o.bytes)
	case KindExt:
		return v.extType == o.extType && slices.Equal(v.bytes, o.bytes)
	case KindArr:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	default: // KindMap
		if len(v.entries) != len(o.entries) {
			return false
		}
		for i := range v.entries {
			if !v.entries[i].Key.Equal(o.entries[i].Key) || !v.entries[i].Val.Equal(o.entries[i].Val) {
				return false
			}
		}
		return true
	}
}

// AsRef converts v into a ValueRef that borrows v's own (already owned)
// byte slices rather than copying them again: safe for as long as v is
// not mutated, since Value never exposes a way to mutate its slices in
// place.
func (v Value) AsRef() ValueRef {
	switch v.kind {
	case KindNil:
		return ValueRef{kind: KindNil}
	case KindBool:
		return ValueRef{kind: KindBool, b: v.b}
	case KindNum:
		return ValueRef{kind: KindNum, n: v.n}
	case KindBin:
		return ValueRef{kind: KindBin, bytes: v.bytes}
	case KindStr:
		return ValueRef{kind: KindStr, bytes: v.bytes}
	case KindExt:
		return ValueRef{kind: KindExt, extType: v.extType, bytes: v.bytes}
	case KindArr:
		out := make([]ValueRef, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.AsRef()
		}
		return ValueRef{kind: KindArr, arr: out}
	default: // KindMap
		out := make([]EntryRef, len(v.entries))
		for i, e := range v.entries {
			out[i] = EntryRef{Key: e.Key.AsRef(), Val: e.Val.AsRef()}
		}
		return ValueRef{kind: KindMap, entries: out}
	}
}

// String renders v for debugging, in a compact JSON-like form.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNil:
		sb.WriteString("nil")
	case KindBool:
		fmt.Fprintf(sb, "%v", v.b)
	case KindNum:
		fmt.Fprintf(sb, "%v", v.n)
	case KindBin:
		fmt.Fprintf(sb, "bin(%d bytes)", len(v.bytes))
	case KindStr:
		fmt.Fprintf(sb, "%q", string(v.bytes))
	case KindExt:
		fmt.Fprintf(sb, "ext(%d, %d bytes)", v.extType, len(v.bytes))
	case KindArr:
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.Key.write(sb)
			sb.WriteString(": ")
			e.Val.write(sb)
		}
		sb.WriteByte('}')
	}
}
