package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chatkeeper/internal/client/models"
	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/dmitrijs2005/chatkeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert adds a message; an existing id is left untouched.
func (r *SQLiteRepository) Insert(ctx context.Context, m models.Message) error {
	query := `INSERT INTO messages (id, conversation_id, sender_id, content, created_at, edited_at, deleted)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`

	var editedAt sql.NullInt64
	if m.EditedAt != nil {
		editedAt = sql.NullInt64{Int64: m.EditedAt.UnixMilli(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ConversationID, m.SenderID, m.Content, m.CreatedAt.UnixMilli(), editedAt, m.Deleted)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// GetByID returns a message by id or common.ErrorNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT id, conversation_id, sender_id, content, created_at, edited_at, deleted
			FROM messages WHERE id = ?`

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return m, nil
}

// Count returns the number of rows in the messages table.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}

// NextBatch returns a window of messages ordered by rowid.
func (r *SQLiteRepository) NextBatch(ctx context.Context, start, size int) ([]models.Message, error) {
	query := `SELECT id, conversation_id, sender_id, content, created_at, edited_at, deleted
			FROM messages ORDER BY rowid LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, size, start)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	result := make([]models.Message, 0, size)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*models.Message, error) {
	var (
		m         models.Message
		createdAt int64
		editedAt  sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &createdAt, &editedAt, &m.Deleted); err != nil {
		return nil, err
	}
	m.CreatedAt = time.UnixMilli(createdAt).UTC()
	if editedAt.Valid {
		t := time.UnixMilli(editedAt.Int64).UTC()
		m.EditedAt = &t
	}
	return &m, nil
}
