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

package value

import (
	"io"

	"github.com/mpkio/msgpackio/msgpack"
)

// Encode writes v to w in MessagePack wire format, walking the tree and
// emitting each node through the package's allocation-free header
// encoders; only the final Write calls touch w.
func Encode(w io.Writer, v Value) error {
	var h msgpack.Header
	return encodeValue(w, &h, v)
}

func encodeValue(w io.Writer, h *msgpack.Header, v Value) error {
	switch v.kind {
	case KindNil:
		msgpack.EncodeNil(h)
		return write(w, h)
	case KindBool:
		msgpack.EncodeBool(h, v.b)
		return write(w, h)
	case KindNum:
		msgpack.EncodeNum(h, v.n)
		return write(w, h)
	case KindBin:
		msgpack.EncodeBinLen(h, uint32(len(v.bytes)))
		if err := write(w, h); err != nil {
			return err
		}
		return writeBytes(w, v.bytes)
	case KindStr:
		msgpack.EncodeStrLen(h, uint32(len(v.bytes)))
		if err := write(w, h); err != nil {
			return err
		}
		return writeBytes(w, v.bytes)
	case KindExt:
		msgpack.EncodeExtLen(h, v.extType, uint32(len(v.bytes)))
		if err := write(w, h); err != nil {
			return err
		}
		return writeBytes(w, v.bytes)
	case KindArr:
		msgpack.EncodeArrLen(h, uint32(len(v.arr)))
		if err := write(w, h); err != nil {
			return err
		}
		for _, e := range v.arr {
			if err := encodeValue(w, h, e); err != nil {
				return err
			}
		}
		return nil
	default: // KindMap
		msgpack.EncodeMapLen(h, uint32(len(v.entries)))
		if err := write(w, h); err != nil {
			return err
		}
		for _, e := range v.entries {
			if err := encodeValue(w, h, e.Key); err != nil {
				return err
			}
			if err := encodeValue(w, h, e.Val); err != nil {
				return err
			}
		}
		return nil
	}
}

func write(w io.Writer, h *msgpack.Header) error {
	return writeBytes(w, h.Bytes())
}

func writeBytes(w io.Writer, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	_, err := w.Write(b)
	return err
}
