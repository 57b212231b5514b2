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
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mpkio/msgpackio/msgpack"
)

// OrderedMap is the JSON/YAML projection of a map node: a key/value pair
// list in encounter order rather than Go's unordered map, so a dump
// round-trips the order the bytes on the wire actually carried.
type OrderedMap []jsonPair

type jsonPair struct {
	Key string
	Val any
}

// MarshalJSON writes the pairs as a JSON object, preserving order — valid
// per the JSON grammar even though encoding/json's own map type would
// scramble it.
func (m OrderedMap) MarshalJSON() ([]byte, error) {
	var buf []byte
	buf = append(buf, '{')
	for i, p := range m {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Val)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// ToInterface projects v onto plain Go values suitable for
// encoding/json or sigs.k8s.io/yaml: numbers become float64/int64/uint64,
// Bin becomes base64 text (there being no binary leaf in either format),
// Ext becomes a small descriptive object, and Map becomes an OrderedMap
// so key order survives the round trip.
func (v Value) ToInterface() any {
	switch v.kind {
	case KindNil:
		return nil
	case KindBool:
		return v.b
	case KindNum:
		return numToInterface(v.n)
	case KindBin:
		return base64.StdEncoding.EncodeToString(v.bytes)
	case KindStr:
		return string(v.bytes)
	case KindExt:
		return map[string]any{
			"ext_type": v.extType,
			"data":     base64.StdEncoding.EncodeToString(v.bytes),
		}
	case KindArr:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToInterface()
		}
		return out
	default: // KindMap
		out := make(OrderedMap, len(v.entries))
		for i, e := range v.entries {
			out[i] = jsonPair{Key: mapKeyString(e.Key), Val: e.Val.ToInterface()}
		}
		return out
	}
}

func mapKeyString(k Value) string {
	switch k.kind {
	case KindStr:
		return string(k.bytes)
	case KindNum:
		return fmt.Sprint(numToInterface(k.n))
	case KindBool:
		return fmt.Sprint(k.b)
	default:
		return k.String()
	}
}

// numToInterface renders a Num the way encoding/json and sigs.k8s.io/yaml
// both expect a Go scalar: float64 for a float-backed Num (JSON has no
// separate integer type anyway), int64 or uint64 otherwise, picking
// whichever the value actually fits so a round-tripped small negative
// number doesn't get forced through an unsigned type.
func numToInterface(n msgpack.Num) any {
	switch {
	case n.IsFloat():
		return msgpack.To[float64](n)
	case msgpack.Fits[int64](n):
		return msgpack.To[int64](n)
	default:
		return msgpack.To[uint64](n)
	}
}
