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

import (
	"fmt"

	"github.com/mpkio/msgpackio/date"
)

// TimestampExtType is the application extension type reserved by the
// format for timestamps: an Ext value tagged -1 carries a time instant in
// one of three fixed layouts, chosen by payload length.
const TimestampExtType int8 = -1

// EncodeTimestamp writes t as a timestamp ext payload (not including the
// Ext header itself, which the caller writes via EncodeExtLen with
// TimestampExtType and the returned length), choosing the shortest of the
// three standard layouts that holds it without loss:
//
//   - 4 bytes: seconds only, for 1970..2106 with no sub-second component.
//   - 8 bytes: 30-bit nanoseconds + 34-bit seconds, for the same range
//     with sub-second precision.
//   - 12 bytes: 32-bit nanoseconds + 64-bit signed seconds, for any
//     instant representable at all.
func EncodeTimestamp(t date.Time) []byte {
	sec := t.Unix()
	nsec := uint64(t.Nanosecond())

	if nsec == 0 && sec >= 0 && sec>>32 == 0 {
		return be32Bytes(uint32(sec))
	}
	if sec >= 0 && uint64(sec) < (1<<34) {
		v := nsec<<34 | uint64(sec)
		return be64Bytes(v)
	}
	buf := make([]byte, 12)
	copy(buf[0:4], be32Bytes(uint32(nsec)))
	copy(buf[4:12], be64Bytes(uint64(sec)))
	return buf
}

// DecodeTimestamp parses a timestamp ext payload of the standard 4, 8, or
// 12-byte layout. It returns an error for any other length, since no
// other length is defined by the format.
func DecodeTimestamp(data []byte) (date.Time, error) {
	switch len(data) {
	case 4:
		sec := int64(be32(data))
		return date.Unix(sec, 0), nil
	case 8:
		v := be64(data)
		nsec := int64(v >> 34)
		sec := int64(v & (1<<34 - 1))
		return date.Unix(sec, nsec), nil
	case 12:
		nsec := int64(be32(data[0:4]))
		sec := int64(be64(data[4:12]))
		return date.Unix(sec, nsec), nil
	default:
		return date.Time{}, fmt.Errorf("msgpack: timestamp ext payload has invalid length %d", len(data))
	}
}

func be32Bytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func be64Bytes(v uint64) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(v >> (56 - 8*i))
	}
	return out
}
