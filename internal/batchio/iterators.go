package batchio

import (
	"context"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/dmitrijs2005/chatkeeper/internal/common"
)

// Flatten turns a sequence of batches into a sequence of items.
func Flatten[T any](batches iter.Seq2[[]T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for batch, err := range batches {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range batch {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// Map applies fn to every item of seq. Errors pass through unchanged.
func Map[T, R any](seq iter.Seq2[T, error], fn func(T) R) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		for item, err := range seq {
			if err != nil {
				var zero R
				yield(zero, err)
				return
			}
			if !yield(fn(item), nil) {
				return
			}
		}
	}
}

// MapErr is Map for conversions that can fail. A failed conversion ends the
// sequence with an error naming the 1-based record number.
func MapErr[T, R any](seq iter.Seq2[T, error], fn func(T) (R, error)) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		var zero R
		n := 0
		for item, err := range seq {
			if err != nil {
				yield(zero, err)
				return
			}
			n++
			out, err := fn(item)
			if err != nil {
				yield(zero, fmt.Errorf("record %d: %w", n, err))
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// FromSlice yields the items of s.
func FromSlice[T any](s []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range s {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

// once wraps seq so that it can be ranged over a single time.
func once[T any](seq iter.Seq2[T, error]) iter.Seq2[T, error] {
	var used atomic.Bool
	return func(yield func(T, error) bool) {
		if used.Swap(true) {
			var zero T
			yield(zero, common.ErrIteratorConsumed)
			return
		}
		seq(yield)
	}
}

// insertAll writes every item with ins, honoring ctx between items.
func insertAll[T any](ctx context.Context, ins Inserter[T], items iter.Seq2[T, error]) error {
	for item, err := range items {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ins.Insert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
