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

// Package msgpack implements a MessagePack codec.
//
// The core is split into a resumable, allocation-free streaming decoder
// (Decoder) that turns arbitrary byte chunks into a flat Token stream, and
// a set of pure encoder functions that turn logical values into the
// shortest legal MessagePack byte sequence. OwnedDecoder, which
// reassembles split payloads into owned buffers, sits beside Decoder in
// this package; recursive value trees and I/O adapters are built on top of
// these primitives in sibling packages (msgpack/value, msgpack/ioadapter).
package msgpack
