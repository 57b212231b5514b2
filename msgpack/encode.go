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

// Header holds the marker-and-length bytes produced by one of the Encode*
// functions below. It never exceeds 9 bytes (a 1-byte marker plus an
// 8-byte big-endian length or value) and carries no payload: callers write
// Bytes() followed, where applicable, by the value's own payload bytes
// (the UTF-8 string data, the bin/ext octets) directly to their output.
type Header struct {
	buf [9]byte
	n   uint8
}

// Bytes returns the encoded header bytes. The slice aliases Header's
// internal array and is only valid until the Header is reused.
func (h *Header) Bytes() []byte { return h.buf[:h.n] }

func (h *Header) set1(b0 byte) {
	h.buf[0] = b0
	h.n = 1
}

func (h *Header) set2(b0, b1 byte) {
	h.buf[0], h.buf[1] = b0, b1
	h.n = 2
}

func (h *Header) set3(b0 byte, v uint16) {
	h.buf[0] = b0
	h.buf[1] = byte(v >> 8)
	h.buf[2] = byte(v)
	h.n = 3
}

func (h *Header) set5(b0 byte, v uint32) {
	h.buf[0] = b0
	h.buf[1] = byte(v >> 24)
	h.buf[2] = byte(v >> 16)
	h.buf[3] = byte(v >> 8)
	h.buf[4] = byte(v)
	h.n = 5
}

func (h *Header) set9(b0 byte, v uint64) {
	h.buf[0] = b0
	for i := 0; i < 8; i++ {
		h.buf[1+i] = byte(v >> (56 - 8*i))
	}
	h.n = 9
}

// EncodeNil writes the Nil header.
func EncodeNil(h *Header) { h.set1(markerNil) }

// EncodeBool writes the Bool header.
func EncodeBool(h *Header, b bool) {
	if b {
		h.set1(markerTrue)
	} else {
		h.set1(markerFalse)
	}
}

// EncodeNum writes n in the shortest legal encoding for its value: a
// fixint when possible, else the narrowest fixed-width integer or float
// marker that holds it without loss.
func EncodeNum(h *Header, n Num) {
	switch n.kind {
	case numUnsigned:
		encodeUint(h, n.u)
	case numSigned:
		encodeInt(h, n.i)
	case numF32:
		h.set5(markerF32, math.Float32bits(n.f32))
	default:
		h.set9(markerF64, math.Float64bits(n.f64))
	}
}

func encodeUint(h *Header, v uint64) {
	switch {
	case v <= uint64(markerPosFixintMax):
		h.set1(byte(v))
	case v <= math.MaxUint8:
		h.set2(markerU8, byte(v))
	case v <= math.MaxUint16:
		h.set3(markerU16, uint16(v))
	case v <= math.MaxUint32:
		h.set5(markerU32, uint32(v))
	default:
		h.set9(markerU64, v)
	}
}

func encodeInt(h *Header, v int64) {
	if v >= 0 {
		encodeUint(h, uint64(v))
		return
	}
	switch {
	case v >= -32:
		h.set1(byte(v))
	case v >= math.MinInt8:
		h.set2(markerI8, byte(int8(v)))
	case v >= math.MinInt16:
		h.set3(markerI16, uint16(int16(v)))
	case v >= math.MinInt32:
		h.set5(markerI32, uint32(int32(v)))
	default:
		h.set9(markerI64, uint64(v))
	}
}

// EncodeBinLen writes the header for a bin payload of n bytes. The caller
// writes the n payload bytes separately.
func EncodeBinLen(h *Header, n uint32) {
	switch {
	case n <= math.MaxUint8:
		h.set2(markerBin8, byte(n))
	case n <= math.MaxUint16:
		h.set3(markerBin16, uint16(n))
	default:
		h.set5(markerBin32, n)
	}
}

// EncodeStrLen writes the header for a str payload of n UTF-8 bytes. The
// caller writes the n payload bytes separately.
func EncodeStrLen(h *Header, n uint32) {
	switch {
	case n < 32:
		h.set1(markerFixstrMin | byte(n))
	case n <= math.MaxUint8:
		h.set2(markerStr8, byte(n))
	case n <= math.MaxUint16:
		h.set3(markerStr16, uint16(n))
	default:
		h.set5(markerStr32, n)
	}
}

// EncodeArrLen writes the header announcing an array of n elements. Each
// element's own tokens/values follow, written by the caller.
func EncodeArrLen(h *Header, n uint32) {
	switch {
	case n < 16:
		h.set1(markerFixarrMin | byte(n))
	case n <= math.MaxUint16:
		h.set3(markerArr16, uint16(n))
	default:
		h.set5(markerArr32, n)
	}
}

// EncodeMapLen writes the header announcing a map of n key/value pairs
// (2*n values total). The entries follow, written by the caller.
func EncodeMapLen(h *Header, n uint32) {
	switch {
	case n < 16:
		h.set1(markerFixmapMin | byte(n))
	case n <= math.MaxUint16:
		h.set3(markerMap16, uint16(n))
	default:
		h.set5(markerMap32, n)
	}
}

// EncodeExtLen writes the header for an extension payload of n bytes
// tagged with application type extType. The caller writes the n payload
// bytes separately.
func EncodeExtLen(h *Header, extType int8, n uint32) {
	switch n {
	case 1:
		h.set2(markerFixext1, byte(extType))
		return
	case 2:
		h.set2(markerFixext2, byte(extType))
		return
	case 4:
		h.set2(markerFixext4, byte(extType))
		return
	case 8:
		h.set2(markerFixext8, byte(extType))
		return
	case 16:
		h.set2(markerFixext16, byte(extType))
		return
	}
	switch {
	case n <= math.MaxUint8:
		h.buf[0] = markerExt8
		h.buf[1] = byte(n)
		h.buf[2] = byte(extType)
		h.n = 3
	case n <= math.MaxUint16:
		h.buf[0] = markerExt16
		h.buf[1] = byte(n >> 8)
		h.buf[2] = byte(n)
		h.buf[3] = byte(extType)
		h.n = 4
	default:
		h.buf[0] = markerExt32
		h.buf[1] = byte(n >> 24)
		h.buf[2] = byte(n >> 16)
		h.buf[3] = byte(n >> 8)
		h.buf[4] = byte(n)
		h.buf[5] = byte(extType)
		h.n = 6
	}
}
