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

package msgpack

import "fmt"

// LenKind identifies what a Token's Len announces the size of.
type LenKind uint8

const (
	LenBin LenKind = iota
	LenStr
	LenArr
	LenMap
	LenExt // carries an i8 extension type tag, see Token.ExtType
)

func (k LenKind) String() string {
	switch k {
	case LenBin:
		return "Bin"
	case LenStr:
		return "Str"
	case LenArr:
		return "Arr"
	case LenMap:
		return "Map"
	case LenExt:
		return "Ext"
	default:
		return "LenKind(?)"
	}
}

// TokenTag identifies which field of a Token is live.
type TokenTag uint8

const (
	TagNil TokenTag = iota
	TagBool
	TagNum
	TagLen
	TagBinCont
	TagBin
)

func (t TokenTag) String() string {
	switch t {
	case TagNil:
		return "Nil"
	case TagBool:
		return "Bool"
	case TagNum:
		return "Num"
	case TagLen:
		return "Len"
	case TagBinCont:
		return "BinCont"
	case TagBin:
		return "Bin"
	default:
		return "TokenTag(?)"
	}
}

// Token is the decoder's emission alphabet: a flat stream of atomic units
// describing a MessagePack value without any recursion or allocation.
//
//   - Nil, Bool, Num are complete scalars.
//   - Len announces the byte length (Bin/Str/Ext) or element count
//     (Arr/Map) of what follows; for Arr/Map no further payload tokens
//     follow — the consumer recurses for Len elements (2*Len for Map).
//   - BinCont carries a partial chunk of a bin/str/ext payload, with the
//     number of bytes still to come; Bin carries the final (or only)
//     chunk, whose length is exactly the remainder.
//
// A Token borrows its Data from the byte slice passed to Decoder.Parse and
// must not be retained past that call.
type Token struct {
	Tag TokenTag

	Bool bool
	Num  Num

	LenKind LenKind
	Len     uint32
	ExtType int8 // valid when LenKind == LenExt

	Data      []byte // valid for BinCont/Bin
	Remaining uint32 // valid for BinCont: bytes still to come
}

func tokNil() Token                { return Token{Tag: TagNil} }
func tokBool(b bool) Token         { return Token{Tag: TagBool, Bool: b} }
func tokNum(n Num) Token           { return Token{Tag: TagNum, Num: n} }
func tokLen(k LenKind, n uint32) Token {
	return Token{Tag: TagLen, LenKind: k, Len: n}
}
func tokExtLen(t int8, n uint32) Token {
	return Token{Tag: TagLen, LenKind: LenExt, Len: n, ExtType: t}
}
func tokBinCont(b []byte, remaining uint32) Token {
	return Token{Tag: TagBinCont, Data: b, Remaining: remaining}
}
func tokBin(b []byte) Token { return Token{Tag: TagBin, Data: b} }

// String renders the Token for debugging, in the form the package's test
// fixtures print (e.g. "Len(Str, 6)", "Bin(6 bytes)").
func (t Token) String() string {
	switch t.Tag {
	case TagNil:
		return "Nil"
	case TagBool:
		return fmt.Sprintf("Bool(%v)", t.Bool)
	case TagNum:
		return fmt.Sprintf("Num(%v)", t.Num)
	case TagLen:
		if t.LenKind == LenExt {
			return fmt.Sprintf("Len(Ext(%d), %d)", t.ExtType, t.Len)
		}
		return fmt.Sprintf("Len(%s, %d)", t.LenKind, t.Len)
	case TagBinCont:
		return fmt.Sprintf("BinCont(%d bytes, %d remain)", len(t.Data), t.Remaining)
	case TagBin:
		return fmt.Sprintf("Bin(%d bytes)", len(t.Data))
	default:
		return "Token(?)"
	}
}
