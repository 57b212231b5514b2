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

import "testing"

func TestExtStructNameIsReserved(t *testing.T) {
	if ExtStructName != "_ExtStruct" {
		t.Fatalf("got %q", ExtStructName)
	}
	s := ExtStruct{Type: 3, Data: []byte{1, 2, 3}}
	if s.Type != 3 || len(s.Data) != 3 {
		t.Fatalf("got %+v", s)
	}
}

func TestExtBridgeRoundTrip(t *testing.T) {
	s := EncodeExtBridge(7, []byte{0xaa, 0xbb})
	extType, data := DecodeExtBridge(s)
	if extType != 7 || len(data) != 2 || data[0] != 0xaa || data[1] != 0xbb {
		t.Fatalf("round trip mismatch: type=%d data=%v", extType, data)
	}
}
