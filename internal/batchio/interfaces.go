package batchio

import (
	"context"
	"iter"
)

// BatchSource is a store that can be read in offset/limit windows.
type BatchSource[T any] interface {
	// Count returns the number of rows currently in the store.
	Count(ctx context.Context) (int, error)

	// NextBatch returns at most size rows starting at offset start.
	// An empty result means the store is exhausted.
	NextBatch(ctx context.Context, start, size int) ([]T, error)
}

// ListSource is a store small enough to be read in one call.
type ListSource[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
}

// Inserter stores one item. Implementations must be idempotent per item.
type Inserter[T any] interface {
	Insert(ctx context.Context, item T) error
}

// IOHandler moves records of one store in and out.
type IOHandler[T any] interface {
	// ReadIterator yields the store content in batches.
	ReadIterator(ctx context.Context) iter.Seq2[[]T, error]

	// Write inserts every item of items, one at a time.
	Write(ctx context.Context, items iter.Seq2[T, error]) error
}
