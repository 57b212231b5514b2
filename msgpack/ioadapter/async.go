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
	"sync"

	"github.com/google/uuid"
)

// chunkResult is one completed fetch or write, tagged with the request
// that produced it so a caller juggling several in-flight requests can
// match completions back to callers.
type chunkResult struct {
	id   uuid.UUID
	data []byte
	err  error
}

// AsyncProducer adapts a callback-driven or goroutine-driven byte source
// into the Producer contract: each call to submit schedules work on a
// background goroutine and is tracked by a UUID so results can arrive out
// of submission order without being confused for each other.
type AsyncProducer struct {
	fetch func(ctx context.Context, id uuid.UUID) ([]byte, error)

	mu      sync.Mutex
	pending map[uuid.UUID]chan chunkResult
	once    sync.Once
	wg      sync.WaitGroup
}

// NewAsyncProducer wraps fetch, a function that retrieves one chunk given
// a correlation id, to be run on its own goroutine per call.
func NewAsyncProducer(fetch func(ctx context.Context, id uuid.UUID) ([]byte, error)) *AsyncProducer {
	return &AsyncProducer{
		fetch:   fetch,
		pending: make(map[uuid.UUID]chan chunkResult),
	}
}

// Next submits one fetch and blocks for its result, satisfying the
// Producer interface; Submit exposes the non-blocking form for callers
// that want to pipeline several fetches ahead of consuming them.
func (p *AsyncProducer) Next(ctx context.Context) ([]byte, error) {
	fut := p.Submit(ctx)
	return fut.Await(ctx)
}

// Future is a handle to one in-flight AsyncProducer fetch.
type Future struct {
	id uuid.UUID
	ch chan chunkResult
}

// Await blocks until the fetch completes, ctx is done, or both a result
// and ctx cancellation race (ctx wins only if the result has not already
// arrived).
func (f Future) Await(ctx context.Context) ([]byte, error) {
	select {
	case r := <-f.ch:
		return r.data, r.err
	default:
	}
	select {
	case r := <-f.ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ID returns the correlation id assigned to this fetch, for logging or
// matching against out-of-band completion notifications.
func (f Future) ID() uuid.UUID { return f.id }

// Submit schedules one fetch on a new goroutine and returns immediately
// with a Future for its result.
func (p *AsyncProducer) Submit(ctx context.Context) Future {
	id := uuid.New()
	ch := make(chan chunkResult, 1)

	p.mu.Lock()
	p.pending[id] = ch
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		data, err := p.fetch(ctx, id)
		ch <- chunkResult{id: id, data: data, err: err}

		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
	}()

	return Future{id: id, ch: ch}
}

// Close waits for every outstanding Submit to finish. Safe to call more
// than once.
func (p *AsyncProducer) Close() {
	p.once.Do(p.wg.Wait)
}

// AsyncConsumer adapts a callback-driven sink into the Consumer contract,
// dispatching each Write to its own goroutine and waiting for it to
// report back before returning, so backpressure is preserved even though
// the work itself runs off the calling goroutine.
type AsyncConsumer struct {
	write func(ctx context.Context, id uuid.UUID, p []byte) error
}

// NewAsyncConsumer wraps write, a function that delivers one chunk given
// a correlation id.
func NewAsyncConsumer(write func(ctx context.Context, id uuid.UUID, p []byte) error) *AsyncConsumer {
	return &AsyncConsumer{write: write}
}

func (c *AsyncConsumer) Write(ctx context.Context, p []byte) error {
	id := uuid.New()
	done := make(chan error, 1)
	go func() {
		done <- c.write(ctx, id, p)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
