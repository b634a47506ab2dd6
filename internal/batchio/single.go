package batchio

import (
	"context"
	"fmt"
	"iter"
)

// ListStore is a small store read in one call and written to item by item.
type ListStore[T any] interface {
	ListSource[T]
	Inserter[T]
}

// SingleReadIOHandler is meant for small tables where batching buys nothing.
type SingleReadIOHandler[T any] struct {
	store ListStore[T]
}

func NewSingleReadIOHandler[T any](store ListStore[T]) *SingleReadIOHandler[T] {
	return &SingleReadIOHandler[T]{store: store}
}

// ReadIterator fetches the whole table once and yields it as a single batch.
// An empty table yields nothing.
func (h *SingleReadIOHandler[T]) ReadIterator(ctx context.Context) iter.Seq2[[]T, error] {
	return once(func(yield func([]T, error) bool) {
		items, err := h.store.GetAll(ctx)
		if err != nil {
			yield(nil, fmt.Errorf("read all rows: %w", err))
			return
		}
		if len(items) == 0 {
			return
		}
		yield(items, nil)
	})
}

func (h *SingleReadIOHandler[T]) Write(ctx context.Context, items iter.Seq2[T, error]) error {
	return insertAll(ctx, h.store, items)
}
