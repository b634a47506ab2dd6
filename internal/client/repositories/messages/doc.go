// Package messages provides the client-side persistence layer for chat
// messages.
//
// # Overview
//
// SQLiteRepository persists models.Message rows through a dbx.DBTX (either
// *sql.DB or *sql.Tx). Besides point lookups it exposes the window reads the
// backup exporter needs: Count and NextBatch page through the table in
// insertion (rowid) order so that a batch reader sees a stable sequence.
//
// Insert is idempotent: inserting an id that already exists is a no-op, which
// lets a restore be replayed safely.
//
// Typical Usage
//
//	repo := messages.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, msg)
//	n, _ := repo.Count(ctx)
//	page, _ := repo.NextBatch(ctx, 0, 500)
package messages
