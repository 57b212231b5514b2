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

package ioadapter

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// sharedDecoder is process-wide: zstd decoders are safe for concurrent
// use once built and expensive enough to build that every ZstdProducer
// sharing one avoids redundant setup.
var (
	sharedDecoderOnce sync.Once
	sharedDecoder     *zstd.Decoder
	sharedDecoderErr  error
)

func getSharedDecoder() (*zstd.Decoder, error) {
	sharedDecoderOnce.Do(func() {
		sharedDecoder, sharedDecoderErr = zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	})
	return sharedDecoder, sharedDecoderErr
}

// ZstdProducer decompresses a zstd-framed stream on the fly and serves
// fixed-size chunks of the decompressed bytes to a Decoder.
type ZstdProducer struct {
	r         io.ReadCloser
	chunkSize int
}

// NewZstdProducer wraps r, a reader positioned at the start of a zstd
// frame, decompressing chunkSize bytes of plaintext per Next call.
func NewZstdProducer(r io.Reader, chunkSize int) (*ZstdProducer, error) {
	dec, err := getSharedDecoder()
	if err != nil {
		return nil, fmt.Errorf("msgpack/ioadapter: zstd decoder: %w", err)
	}
	if err := dec.Reset(r); err != nil {
		return nil, fmt.Errorf("msgpack/ioadapter: zstd reset: %w", err)
	}
	return &ZstdProducer{r: dec.IOReadCloser(), chunkSize: chunkSize}, nil
}

func (p *ZstdProducer) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, p.chunkSize)
	n, err := p.r.Read(buf)
	if n == 0 {
		return nil, err
	}
	return buf[:n], nil
}

// Close releases the shared decoder's hold on its current input.
func (p *ZstdProducer) Close() error { return p.r.Close() }

// ZstdConsumer compresses every Write into a zstd frame written to an
// underlying io.Writer.
type ZstdConsumer struct {
	enc *zstd.Encoder
}

// NewZstdConsumer wraps w with a fresh zstd encoder at the default level.
func NewZstdConsumer(w io.Writer) (*ZstdConsumer, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("msgpack/ioadapter: zstd writer: %w", err)
	}
	return &ZstdConsumer{enc: enc}, nil
}

func (c *ZstdConsumer) Write(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.enc.Write(p)
	return err
}

// Close flushes and closes the zstd frame. Must be called for the output
// to be valid.
func (c *ZstdConsumer) Close() error { return c.enc.Close() }
