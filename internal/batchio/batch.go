package batchio

import (
	"context"
	"fmt"
	"iter"
)

// DefaultBatchSize is used when a handler is built with a non-positive size.
const DefaultBatchSize = 1000

// BatchIOHandler reads a BatchSource in batches of at most batchSize rows and
// writes items back one by one.
type BatchIOHandler[T any] struct {
	source    BatchSource[T]
	inserter  Inserter[T]
	batchSize int
}

// BatchStore is a store that can be both read in batches and written to.
type BatchStore[T any] interface {
	BatchSource[T]
	Inserter[T]
}

// NewBatchIOHandler returns a handler bound to store.
func NewBatchIOHandler[T any](store BatchStore[T], batchSize int) *BatchIOHandler[T] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BatchIOHandler[T]{source: store, inserter: store, batchSize: batchSize}
}

// ReadIterator yields batches in offset order. Each batch has
// min(batchSize, remaining) rows; the handler never asks the source for more
// rows than remain according to Count. Iteration stops when the source
// returns an empty batch or the offset reaches the count.
func (h *BatchIOHandler[T]) ReadIterator(ctx context.Context) iter.Seq2[[]T, error] {
	return once(func(yield func([]T, error) bool) {
		count, err := h.source.Count(ctx)
		if err != nil {
			yield(nil, fmt.Errorf("count rows: %w", err))
			return
		}

		offset := 0
		for offset < count {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			size := min(h.batchSize, count-offset)
			batch, err := h.source.NextBatch(ctx, offset, size)
			if err != nil {
				yield(nil, fmt.Errorf("read batch at offset %d: %w", offset, err))
				return
			}
			if len(batch) == 0 {
				return
			}
			if !yield(batch, nil) {
				return
			}
			offset += len(batch)
		}
	})
}

// Write inserts items one at a time.
func (h *BatchIOHandler[T]) Write(ctx context.Context, items iter.Seq2[T, error]) error {
	return insertAll(ctx, h.inserter, items)
}
