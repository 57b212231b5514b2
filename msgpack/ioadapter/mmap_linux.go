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
	"os"

	"golang.org/x/sys/unix"
)

// MmapProducer serves a memory-mapped file as one contiguous chunk, the
// cheapest possible Producer for a large on-disk message: the kernel
// pages the data in on first touch instead of a bulk read into a
// heap-allocated buffer.
type MmapProducer struct {
	data []byte
	done bool
}

// OpenMmapProducer maps the whole of path read-only.
func OpenMmapProducer(path string) (*MmapProducer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("msgpack/ioadapter: open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("msgpack/ioadapter: stat %s: %w", path, err)
	}
	size := fi.Size()
	if size == 0 {
		return &MmapProducer{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("msgpack/ioadapter: mmap %s: %w", path, err)
	}
	return &MmapProducer{data: data}, nil
}

func (p *MmapProducer) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.done {
		return nil, io.EOF
	}
	p.done = true
	return p.data, nil
}

// Close unmaps the backing file. The data returned by any prior Next call
// must not be used afterward.
func (p *MmapProducer) Close() error {
	if p.data == nil {
		return nil
	}
	err := unix.Munmap(p.data)
	p.data = nil
	return err
}
