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

import "math"

// pendKind selects how a pending 1/2/4/8-byte header is interpreted once
// it has fully arrived.
type pendKind uint8

const (
	pendLen  pendKind = iota // a LenKind length header
	pendExtLen              // an ext length, still awaiting the type byte
	pendExt                 // an ext type byte, length already known
	pendU8
	pendU16
	pendU32
	pendU64
	pendI8
	pendI16
	pendI32
	pendI64
	pendF32
	pendF64
)

// decState names which branch of the decoder's internal state record is
// live. The record itself stays fixed-size (at most 8 bytes of partial
// header storage plus a handful of tag/length fields) so a Decoder never
// allocates. With padding the Decoder struct is 24 bytes; it does not fit
// in 16.
type decState uint8

const (
	stateWantMarker decState = iota
	stateWantBinZero
	stateWantBin
	statePend8
	statePend16
	statePend32
	statePend64
)

// Decoder is a resumable, allocation-free MessagePack parser. Feed it
// arbitrary byte chunks via Parse; it emits every Token whose bytes are
// wholly present in the chunks seen so far, emits any partial payload as
// BinCont, and retains any incomplete header internally to be resumed by a
// later call.
//
// The zero value is ready to use, in the WantMarker state.
type Decoder struct {
	state decState

	pk      pendKind // meaning of the pending header, for Pend8/16/32/64
	lenKind LenKind  // meaning of a Len being assembled, when pk == pendLen
	extLen  uint32   // length already parsed, when pk == pendExt
	want    uint32   // remaining bytes to drain, in stateWantBin

	partial    [8]byte // big-endian accumulation buffer for Pend16/32/64
	partialLen uint8   // bytes already stored in partial
}

// NewDecoder returns a Decoder in its initial WantMarker state.
func NewDecoder() *Decoder { return &Decoder{} }

// NextBytesMin returns the minimum number of bytes required to make
// forward progress. Callers may pass fewer or more to Parse; this is only
// a sizing hint for I/O adapters choosing how much to read next.
func (d *Decoder) NextBytesMin() uint32 {
	switch d.state {
	case stateWantMarker:
		return 1
	case stateWantBinZero:
		return 0
	case stateWantBin:
		return d.want
	case statePend8:
		return 1
	case statePend16:
		return 2 - uint32(d.partialLen)
	case statePend32:
		return 4 - uint32(d.partialLen)
	case statePend64:
		return 8 - uint32(d.partialLen)
	default:
		return 1
	}
}

func (d *Decoder) setWantBin(n uint32) {
	if n == 0 {
		d.state = stateWantBinZero
	} else {
		d.state = stateWantBin
		d.want = n
	}
}

// Parse returns an iterator over data. Advance it with Next until it
// returns ok == false; any bytes belonging to an incomplete header, and
// any partial payload already emitted via a BinCont token, are retained on
// the Decoder itself and resumed by the next call to Parse, possibly with
// a different data slice.
func (d *Decoder) Parse(data []byte) *TokenIter {
	return &TokenIter{dec: d, data: data}
}

// TokenIter walks the tokens decodable from one Parse call's data. Tokens
// it yields borrow sub-slices of data and must not be retained past the
// iteration.
type TokenIter struct {
	dec    *Decoder
	data   []byte
	cursor int
}

// Consumed returns the number of bytes of data this iterator has consumed
// so far, for callers (such as msgpack/value.ParseRef) that decode one
// value out of a larger contiguous buffer and need to know where the next
// value starts.
func (it *TokenIter) Consumed() int { return it.cursor }

func (it *TokenIter) getByte() (byte, bool) {
	if it.cursor >= len(it.data) {
		return 0, false
	}
	b := it.data[it.cursor]
	it.cursor++
	return b, true
}

// getBytes returns up to n bytes starting at the cursor, or ok=false if
// the cursor is already at the end of data. The returned slice may be
// shorter than n.
func (it *TokenIter) getBytes(n uint32) ([]byte, bool) {
	if it.cursor >= len(it.data) {
		return nil, false
	}
	remaining := len(it.data) - it.cursor
	take := int(n)
	if take > remaining {
		take = remaining
	}
	out := it.data[it.cursor : it.cursor+take]
	it.cursor += take
	return out, true
}

// Next advances the iterator, returning the next fully-available token. It
// returns ok=false when no further token can be produced from the
// remaining input; this is not an error, the Decoder's partial state is
// simply retained for the next Parse call.
func (it *TokenIter) Next() (Token, bool) {
	switch it.dec.state {
	case stateWantMarker:
		return it.parseWantMarker()
	case stateWantBinZero:
		it.dec.state = stateWantMarker
		return tokBin(nil), true
	case stateWantBin:
		return it.parseWantBin(it.dec.want)
	case statePend8:
		return it.parsePend8()
	case statePend16:
		return it.parsePend16()
	case statePend32:
		return it.parsePend32()
	case statePend64:
		return it.parsePend64()
	default:
		return Token{}, false
	}
}

func (it *TokenIter) parseWantMarker() (Token, bool) {
	m, ok := it.getByte()
	if !ok {
		return Token{}, false
	}
	switch {
	case m <= markerPosFixintMax:
		return tokNum(Uint(uint64(m))), true
	case m >= markerFixmapMin && m <= markerFixmapMax:
		return tokLen(LenMap, uint32(m&fixmapSizeMask)), true
	case m >= markerFixarrMin && m <= markerFixarrMax:
		return tokLen(LenArr, uint32(m&fixarrSizeMask)), true
	case m >= markerFixstrMin && m <= markerFixstrMax:
		n := uint32(m & fixstrSizeMask)
		it.dec.setWantBin(n)
		return tokLen(LenStr, n), true
	case m >= markerNegFixintMin:
		return tokNum(Int(int64(int8(m)))), true
	}

	switch m {
	case markerNil:
		return tokNil(), true
	case markerRes: // reserved: tolerated as Nil, never emitted on encode
		return tokNil(), true
	case markerFalse:
		return tokBool(false), true
	case markerTrue:
		return tokBool(true), true

	case markerBin8:
		it.startPend8(pendLen, LenBin)
	case markerBin16:
		it.startPend16(pendLen, LenBin)
	case markerBin32:
		it.startPend32(pendLen, LenBin)

	case markerExt8:
		it.startPend8Ext()
	case markerExt16:
		it.startPend16Ext()
	case markerExt32:
		it.startPend32Ext()

	case markerF32:
		it.startPend32(pendF32, 0)
	case markerF64:
		it.startPend64(pendF64)

	case markerU8:
		it.startPend8Scalar(pendU8)
	case markerU16:
		it.startPend16(pendU16, 0)
	case markerU32:
		it.startPend32(pendU32, 0)
	case markerU64:
		it.startPend64(pendU64)

	case markerI8:
		it.startPend8Scalar(pendI8)
	case markerI16:
		it.startPend16(pendI16, 0)
	case markerI32:
		it.startPend32(pendI32, 0)
	case markerI64:
		it.startPend64(pendI64)

	case markerFixext1:
		it.startPend8(pendExt, 0)
		it.dec.extLen = 1
	case markerFixext2:
		it.startPend8(pendExt, 0)
		it.dec.extLen = 2
	case markerFixext4:
		it.startPend8(pendExt, 0)
		it.dec.extLen = 4
	case markerFixext8:
		it.startPend8(pendExt, 0)
		it.dec.extLen = 8
	case markerFixext16:
		it.startPend8(pendExt, 0)
		it.dec.extLen = 16

	case markerStr8:
		it.startPend8(pendLen, LenStr)
	case markerStr16:
		it.startPend16(pendLen, LenStr)
	case markerStr32:
		it.startPend32(pendLen, LenStr)

	case markerArr16:
		it.startPend16(pendLen, LenArr)
	case markerArr32:
		it.startPend32(pendLen, LenArr)

	case markerMap16:
		it.startPend16(pendLen, LenMap)
	case markerMap32:
		it.startPend32(pendLen, LenMap)

	default:
		// unreachable: every byte value is covered by the ranges and
		// switch cases above.
		return Token{}, false
	}
	return it.Next()
}

func (it *TokenIter) startPend8(pk pendKind, lk LenKind) {
	it.dec.state = statePend8
	it.dec.pk = pk
	it.dec.lenKind = lk
}

func (it *TokenIter) startPend8Scalar(pk pendKind) {
	it.dec.state = statePend8
	it.dec.pk = pk
}

func (it *TokenIter) startPend8Ext() {
	it.dec.state = statePend8
	it.dec.pk = pendExtLen
}

func (it *TokenIter) startPend16(pk pendKind, lk LenKind) {
	it.dec.state = statePend16
	it.dec.pk = pk
	it.dec.lenKind = lk
	it.dec.partialLen = 0
}

func (it *TokenIter) startPend16Ext() {
	it.dec.state = statePend16
	it.dec.pk = pendExtLen
	it.dec.partialLen = 0
}

func (it *TokenIter) startPend32(pk pendKind, lk LenKind) {
	it.dec.state = statePend32
	it.dec.pk = pk
	it.dec.lenKind = lk
	it.dec.partialLen = 0
}

func (it *TokenIter) startPend32Ext() {
	it.dec.state = statePend32
	it.dec.pk = pendExtLen
	it.dec.partialLen = 0
}

func (it *TokenIter) startPend64(pk pendKind) {
	it.dec.state = statePend64
	it.dec.pk = pk
	it.dec.partialLen = 0
}

func (it *TokenIter) parseWantBin(n uint32) (Token, bool) {
	bytes, ok := it.getBytes(n)
	if !ok {
		it.dec.setWantBin(n)
		return Token{}, false
	}
	if uint32(len(bytes)) == n {
		it.dec.state = stateWantMarker
		return tokBin(bytes), true
	}
	remaining := n - uint32(len(bytes))
	it.dec.setWantBin(remaining)
	return tokBinCont(bytes, remaining), true
}

// gotLen handles a fully-parsed length header: Arr/Map emit their Len
// token directly with no payload to follow; Bin/Str/Ext transition the
// decoder to await that many payload bytes.
func (it *TokenIter) gotLen(k LenKind, n uint32) (Token, bool) {
	if k == LenBin || k == LenStr {
		it.dec.setWantBin(n) // leaves state in WantBin/WantBinZero for the payload
	} else {
		it.dec.state = stateWantMarker // Arr/Map: no payload tokens follow
	}
	return tokLen(k, n), true
}

func (it *TokenIter) gotExtLen(n uint32) (Token, bool) {
	it.startPend8(pendExt, 0)
	it.dec.extLen = n
	return it.Next()
}

func (it *TokenIter) gotExt(extType int8, n uint32) (Token, bool) {
	it.dec.setWantBin(n)
	return tokExtLen(extType, n), true
}

func (it *TokenIter) parsePend8() (Token, bool) {
	b, ok := it.getByte()
	if !ok {
		return Token{}, false // state already parked in Pend8
	}
	switch it.dec.pk {
	case pendLen:
		return it.gotLen(it.dec.lenKind, uint32(b))
	case pendExtLen:
		return it.gotExtLen(uint32(b))
	case pendExt:
		it.dec.state = stateWantMarker
		return it.gotExt(int8(b), it.dec.extLen)
	case pendU8:
		it.dec.state = stateWantMarker
		return tokNum(Uint(uint64(b))), true
	case pendI8:
		it.dec.state = stateWantMarker
		return tokNum(Int(int64(int8(b)))), true
	default:
		panic("msgpack: unreachable pend8 kind")
	}
}

func (it *TokenIter) parsePend16() (Token, bool) {
	need := 2 - uint32(it.dec.partialLen)
	b, ok := it.getBytes(need)
	if !ok {
		return Token{}, false
	}
	copy(it.dec.partial[it.dec.partialLen:], b)
	it.dec.partialLen += uint8(len(b))
	if it.dec.partialLen < 2 {
		return Token{}, false
	}
	v := uint16(it.dec.partial[0])<<8 | uint16(it.dec.partial[1])
	switch it.dec.pk {
	case pendLen:
		return it.gotLen(it.dec.lenKind, uint32(v))
	case pendExtLen:
		return it.gotExtLen(uint32(v))
	case pendU16:
		it.dec.state = stateWantMarker
		return tokNum(Uint(uint64(v))), true
	case pendI16:
		it.dec.state = stateWantMarker
		return tokNum(Int(int64(int16(v)))), true
	default:
		panic("msgpack: unreachable pend16 kind")
	}
}

func (it *TokenIter) parsePend32() (Token, bool) {
	need := 4 - uint32(it.dec.partialLen)
	b, ok := it.getBytes(need)
	if !ok {
		return Token{}, false
	}
	copy(it.dec.partial[it.dec.partialLen:], b)
	it.dec.partialLen += uint8(len(b))
	if it.dec.partialLen < 4 {
		return Token{}, false
	}
	v := be32(it.dec.partial[:4])
	switch it.dec.pk {
	case pendLen:
		return it.gotLen(it.dec.lenKind, v)
	case pendExtLen:
		return it.gotExtLen(v)
	case pendU32:
		it.dec.state = stateWantMarker
		return tokNum(Uint(uint64(v))), true
	case pendI32:
		it.dec.state = stateWantMarker
		return tokNum(Int(int64(int32(v)))), true
	case pendF32:
		it.dec.state = stateWantMarker
		return tokNum(Float32(math.Float32frombits(v))), true
	default:
		panic("msgpack: unreachable pend32 kind")
	}
}

func (it *TokenIter) parsePend64() (Token, bool) {
	need := 8 - uint32(it.dec.partialLen)
	b, ok := it.getBytes(need)
	if !ok {
		return Token{}, false
	}
	copy(it.dec.partial[it.dec.partialLen:], b)
	it.dec.partialLen += uint8(len(b))
	if it.dec.partialLen < 8 {
		return Token{}, false
	}
	v := be64(it.dec.partial[:8])
	it.dec.state = stateWantMarker
	switch it.dec.pk {
	case pendU64:
		return tokNum(Uint(v)), true
	case pendI64:
		return tokNum(Int(int64(v))), true
	case pendF64:
		return tokNum(Float64(math.Float64frombits(v))), true
	default:
		panic("msgpack: unreachable pend64 kind")
	}
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func be64(b []byte) uint64 {
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}
