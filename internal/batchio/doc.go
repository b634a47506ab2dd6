// Package batchio streams large record collections between a store and a
// file without materializing them in memory.
//
// # Handlers
//
//   - BatchIOHandler: reads a BatchSource in bounded batches, in offset order.
//   - SingleReadIOHandler: reads a small ListSource in one call.
//   - FileIOHandler: writes/reads JSON lines through a JSONConverter.
//
// All readers return iter.Seq2 values. A sequence is forward-only: it is
// consumed by ranging over it once; ranging again yields ErrIteratorConsumed.
// Errors are yielded as the second value and stop the sequence.
//
// Typical usage
//
//	db := batchio.NewBatchIOHandler[models.Message](repo, 500)
//	file := batchio.NewFileIOHandler(path, batchio.NewJSONConverter[models.MessageBackup]())
//	err := file.Write(ctx, batchio.Map(batchio.Flatten(db.ReadIterator(ctx)), toBackup))
package batchio
