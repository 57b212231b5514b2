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

// ExtStructName is the reserved newtype name a generic serialization
// framework's struct visitor must recognize to carry a MessagePack
// extension type through its own data model: a struct with exactly this
// name, wrapping an (int8 type, []byte data) pair, round-trips as an Ext
// value instead of an ordinary two-field struct. Frameworks that have no
// such escape hatch can ignore it and lose ext-typing on round trip.
const ExtStructName = "_ExtStruct"

// ExtStruct is the (type, data) pair ExtStructName wraps.
type ExtStruct struct {
	Type int8
	Data []byte
}

// EncodeExtBridge builds the ExtStruct a generic serialization framework
// wraps under ExtStructName, from the (type, payload) pair an Ext
// token/value already carries. A struct-tag-driven encoder calls this when
// it meets a field typed as an extension, to get back the newtype shape
// its own struct visitor knows how to serialize.
func EncodeExtBridge(extType int8, data []byte) ExtStruct {
	return ExtStruct{Type: extType, Data: data}
}

// DecodeExtBridge unwraps an ExtStruct received from a generic framework's
// struct visitor back into the (type, payload) pair an Ext token/value is
// built from.
func DecodeExtBridge(s ExtStruct) (extType int8, data []byte) {
	return s.Type, s.Data
}
