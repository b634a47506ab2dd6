package likes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chatkeeper/internal/client/models"
	"github.com/dmitrijs2005/chatkeeper/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert adds a like; a duplicate (message, user) pair is ignored.
func (r *SQLiteRepository) Insert(ctx context.Context, l models.Like) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO likes (message_id, user_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT(message_id, user_id) DO NOTHING
	`, l.MessageID, l.UserID, l.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByMessage(ctx context.Context, messageID string) ([]models.Like, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT message_id, user_id, created_at FROM likes WHERE message_id = ? ORDER BY rowid`, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to select likes: %w", err)
	}
	return collect(rows)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) NextBatch(ctx context.Context, start, size int) ([]models.Like, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT message_id, user_id, created_at FROM likes ORDER BY rowid LIMIT ? OFFSET ?`, size, start)
	if err != nil {
		return nil, fmt.Errorf("failed to select likes: %w", err)
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]models.Like, error) {
	defer rows.Close()

	var result []models.Like
	for rows.Next() {
		var (
			l  models.Like
			ts int64
		)
		if err := rows.Scan(&l.MessageID, &l.UserID, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan like row: %w", err)
		}
		l.CreatedAt = time.UnixMilli(ts).UTC()
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate like rows: %w", err)
	}
	return result, nil
}
