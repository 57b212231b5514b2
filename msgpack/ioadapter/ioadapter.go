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

// Package ioadapter supplies the single-method Producer/Consumer
// contracts a msgpack.Decoder or encoder is driven through, plus concrete
// adapters over the common byte sources this codec is actually fed from:
// an in-memory slice, a bufio.Reader, a background goroutine reporting
// through a future, a memory-mapped file, and a zstd-compressed stream.
package ioadapter

import "context"

// Producer supplies the next chunk of bytes to decode. A non-empty
// return with a nil error means more data follows; io.EOF (wrapped or
// not) signals the stream ended with no further bytes.
type Producer interface {
	Next(ctx context.Context) ([]byte, error)
}

// Consumer accepts one chunk of encoded bytes, such as a Header plus its
// payload, for forwarding to whatever sink backs it.
type Consumer interface {
	Write(ctx context.Context, p []byte) error
}
