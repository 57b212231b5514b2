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

// Marker byte values for the MessagePack wire format. Named the way the
// format's reference implementation describes them; see the RANGE comments
// for the fixed-immediate forms that pack their payload into the marker
// byte itself.
const (
	markerPosFixintMin byte = 0x00 // .. 0x7f: positive fixint, value = byte
	markerPosFixintMax byte = 0x7f

	markerFixmapMin byte = 0x80 // .. 0x8f: fixmap, count = byte&0x0f
	markerFixmapMax byte = 0x8f

	markerFixarrMin byte = 0x90 // .. 0x9f: fixarray, count = byte&0x0f
	markerFixarrMax byte = 0x9f

	markerFixstrMin byte = 0xa0 // .. 0xbf: fixstr, length = byte&0x1f
	markerFixstrMax byte = 0xbf

	markerNil   byte = 0xc0
	markerRes   byte = 0xc1 // reserved: decodes as Nil, never encoded
	markerFalse byte = 0xc2
	markerTrue  byte = 0xc3

	markerBin8  byte = 0xc4
	markerBin16 byte = 0xc5
	markerBin32 byte = 0xc6

	markerExt8  byte = 0xc7
	markerExt16 byte = 0xc8
	markerExt32 byte = 0xc9

	markerF32 byte = 0xca
	markerF64 byte = 0xcb

	markerU8  byte = 0xcc
	markerU16 byte = 0xcd
	markerU32 byte = 0xce
	markerU64 byte = 0xcf

	markerI8  byte = 0xd0
	markerI16 byte = 0xd1
	markerI32 byte = 0xd2
	markerI64 byte = 0xd3

	markerFixext1  byte = 0xd4
	markerFixext2  byte = 0xd5
	markerFixext4  byte = 0xd6
	markerFixext8  byte = 0xd7
	markerFixext16 byte = 0xd8

	markerStr8  byte = 0xd9
	markerStr16 byte = 0xda
	markerStr32 byte = 0xdb

	markerArr16 byte = 0xdc
	markerArr32 byte = 0xdd

	markerMap16 byte = 0xde
	markerMap32 byte = 0xdf

	markerNegFixintMin byte = 0xe0 // .. 0xff: negative fixint, value = byte as int8
	markerNegFixintMax byte = 0xff
)

const (
	fixstrSizeMask byte = 0x1f
	fixarrSizeMask byte = 0x0f
	fixmapSizeMask byte = 0x0f
)
