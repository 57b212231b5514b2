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
	"bufio"
	"context"
	"io"
)

// SliceProducer serves a single in-memory buffer as one contiguous chunk,
// the producer variant msgpack/value.ParseRef expects.
type SliceProducer struct {
	data []byte
	done bool
}

// NewSliceProducer wraps data for a single Next call.
func NewSliceProducer(data []byte) *SliceProducer { return &SliceProducer{data: data} }

func (p *SliceProducer) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.done {
		return nil, io.EOF
	}
	p.done = true
	return p.data, nil
}

// ReaderProducer pulls fixed-size chunks from an underlying io.Reader,
// suited to a streaming Decoder that only needs a handful of bytes at a
// time to make progress.
type ReaderProducer struct {
	r         *bufio.Reader
	chunkSize int
}

// NewReaderProducer wraps r, reading chunkSize bytes per Next call (or
// fewer at end of stream).
func NewReaderProducer(r io.Reader, chunkSize int) *ReaderProducer {
	return &ReaderProducer{r: bufio.NewReaderSize(r, chunkSize), chunkSize: chunkSize}
}

func (p *ReaderProducer) Next(ctx context.Context) ([]byte, error) {
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

// WriterConsumer forwards every Write directly to an underlying
// io.Writer, such as os.Stdout or a network connection.
type WriterConsumer struct {
	w io.Writer
}

// NewWriterConsumer wraps w.
func NewWriterConsumer(w io.Writer) *WriterConsumer { return &WriterConsumer{w: w} }

func (c *WriterConsumer) Write(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.w.Write(p)
	return err
}
