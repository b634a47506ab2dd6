package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/chatkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/backup"
	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chatkeeper/internal/dbx"
	"github.com/dmitrijs2005/chatkeeper/internal/logging"
)

// Repositories groups the stores the CLI works with.
type Repositories struct {
	DB       *sql.DB
	Tx       dbx.TxRunner
	Metadata metadata.Repository
	// Domains are the stores that take part in a backup.
	Domains []backup.Repository
}

// InitDatabase opens the SQLite file at dsn and applies pending migrations.
//
// The pool is limited to one connection. SQLite allows a single writer and
// a restore imports all domains through one shared transaction.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewRepositories builds every repository on top of db.
func NewRepositories(db *sql.DB, batchSize int, log logging.Logger) *Repositories {
	return &Repositories{
		DB:       db,
		Tx:       dbx.NewTxRunner(db, nil),
		Metadata: metadata.NewSQLiteRepository(db),
		Domains:  backup.NewDefaultRepositories(db, batchSize, log),
	}
}

// Open is InitDatabase followed by NewRepositories.
func Open(ctx context.Context, dsn string, batchSize int, log logging.Logger) (*Repositories, error) {
	db, err := InitDatabase(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("init database %s: %w", dsn, err)
	}
	return NewRepositories(db, batchSize, log), nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
