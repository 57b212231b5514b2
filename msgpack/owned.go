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

// OwnedTag identifies which field of an OwnedToken is live. It mirrors
// TokenTag but replaces BinCont/Bin with the single reassembled Bin/Str/Ext
// payload kinds, since OwnedDecoder never surfaces a partial chunk.
type OwnedTag uint8

const (
	OwnedNil OwnedTag = iota
	OwnedBool
	OwnedNum
	OwnedBin
	OwnedStr
	OwnedExt
	OwnedArrLen
	OwnedMapLen
)

// OwnedToken is the owning counterpart to Token: every bin/str/ext payload
// is a freshly allocated, fully reassembled []byte rather than a borrowed,
// possibly-split Data slice. Arr/Map still surface only their length, as
// in Token; the caller recurses for the announced element count.
type OwnedToken struct {
	Tag     OwnedTag
	Bool    bool
	Num     Num
	Bytes   []byte // OwnedBin, OwnedStr, OwnedExt
	ExtType int8   // valid when Tag == OwnedExt
	Len     uint32 // OwnedArrLen, OwnedMapLen
}

// OwnedDecoder wraps a Decoder to reassemble split bin/str/ext payloads
// into owned buffers, so a caller never has to track BinCont/Bin pairs
// itself. It retains at most one payload's worth of bytes across Feed
// calls, in a side buffer reused between values.
type OwnedDecoder struct {
	dec     Decoder
	buf     []byte
	lenKind LenKind // kind of the Bin/BinCont sequence currently being assembled
	extType int8    // valid when lenKind == LenExt
	active  bool    // true while buf is accumulating a split payload
}

// NewOwnedDecoder returns a ready-to-use OwnedDecoder.
func NewOwnedDecoder() *OwnedDecoder { return &OwnedDecoder{} }

// NextBytesMin forwards to the underlying Decoder's sizing hint.
func (o *OwnedDecoder) NextBytesMin() uint32 { return o.dec.NextBytesMin() }

// Feed parses data and returns every OwnedToken fully decodable from it,
// given whatever state (including a partially-assembled payload) carried
// over from prior calls.
func (o *OwnedDecoder) Feed(data []byte) []OwnedToken {
	var out []OwnedToken
	it := o.dec.Parse(data)
	for {
		tok, ok := it.Next()
		if !ok {
			break
		}
		switch tok.Tag {
		case TagNil:
			out = append(out, OwnedToken{Tag: OwnedNil})
		case TagBool:
			out = append(out, OwnedToken{Tag: OwnedBool, Bool: tok.Bool})
		case TagNum:
			out = append(out, OwnedToken{Tag: OwnedNum, Num: tok.Num})
		case TagLen:
			switch tok.LenKind {
			case LenArr:
				out = append(out, OwnedToken{Tag: OwnedArrLen, Len: tok.Len})
			case LenMap:
				out = append(out, OwnedToken{Tag: OwnedMapLen, Len: tok.Len})
			case LenExt:
				o.beginPayload(tok.LenKind, tok.ExtType, tok.Len)
			default: // LenBin, LenStr
				o.beginPayload(tok.LenKind, 0, tok.Len)
			}
		case TagBinCont:
			o.buf = append(o.buf, tok.Data...)
		case TagBin:
			o.buf = append(o.buf, tok.Data...)
			out = append(out, o.finishPayload())
		}
	}
	return out
}

// beginPayload resets the side buffer for a new bin/str/ext payload. The
// backing array is reused from the previous payload when it already has
// enough capacity, and only reallocated when a larger one is needed, so the
// buffer grows to the largest single payload seen and stays that size
// rather than reallocating on every value.
func (o *OwnedDecoder) beginPayload(k LenKind, extType int8, n uint32) {
	o.lenKind = k
	o.extType = extType
	o.active = true
	if cap(o.buf) < int(n) {
		o.buf = make([]byte, 0, n)
	} else {
		o.buf = o.buf[:0]
	}
}

// finishPayload copies the assembled bytes out of the side buffer into a
// freshly owned slice before handing it to the caller: the side buffer
// itself is retained (truncated to length 0) for the next payload, so a
// later payload's write cannot alias bytes an earlier OwnedToken still
// holds.
func (o *OwnedDecoder) finishPayload() OwnedToken {
	o.active = false
	owned := append([]byte(nil), o.buf...)
	o.buf = o.buf[:0]
	switch o.lenKind {
	case LenStr:
		return OwnedToken{Tag: OwnedStr, Bytes: owned}
	case LenExt:
		return OwnedToken{Tag: OwnedExt, Bytes: owned, ExtType: o.extType}
	default:
		return OwnedToken{Tag: OwnedBin, Bytes: owned}
	}
}
