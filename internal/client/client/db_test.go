package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/backup"
	"github.com/dmitrijs2005/chatkeeper/internal/logging"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("tableExists query failed: %v", err)
	}
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("db.PingContext failed: %v", err)
	}

	for _, name := range []string{"goose_db_version", "messages", "likes", "users", "metadata"} {
		if !tableExists(t, db, name) {
			t.Fatalf("expected table %s to exist after migrations", name)
		}
	}
}

func TestInitDatabase_ReopenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	for i := range 2 {
		db, err := InitDatabase(ctx, dsn)
		if err != nil {
			t.Fatalf("InitDatabase #%d error: %v", i+1, err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("close #%d: %v", i+1, err)
		}
	}
}

func TestOpen_RegistersAllDomains(t *testing.T) {
	ctx := context.Background()
	repos, err := Open(ctx, filepath.Join(t.TempDir(), "app.db"), 10, logging.NewNop())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer repos.Close()

	var names []string
	for _, d := range repos.Domains {
		names = append(names, d.Name())
	}
	want := []string{backup.MessagesDomain, backup.LikesDomain, backup.UsersDomain}
	if len(names) != len(want) {
		t.Fatalf("domains = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("domains = %v, want %v", names, want)
		}
	}

	if err := repos.Metadata.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("metadata set: %v", err)
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "app.db"), 10, logging.NewNop())
	if err == nil {
		t.Fatal("expected error for a database in a missing directory")
	}
}

func TestNewRepositories_UsesGivenDB(t *testing.T) {
	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer db.Close()

	r := NewRepositories(db, 1, logging.NewNop())
	if r.DB != db {
		t.Fatal("registry must keep the db handle")
	}
	if r.Tx == nil {
		t.Fatal("registry must provide a transaction runner")
	}
}
