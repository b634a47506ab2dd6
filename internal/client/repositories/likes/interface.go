// Package likes persists message reactions locally.
package likes

import (
	"context"

	"github.com/dmitrijs2005/chatkeeper/internal/client/models"
)

// Repository describes the like store used by the backup pipeline.
type Repository interface {
	Insert(ctx context.Context, l models.Like) error
	GetByMessage(ctx context.Context, messageID string) ([]models.Like, error)
	Count(ctx context.Context) (int, error)
	NextBatch(ctx context.Context, start, size int) ([]models.Like, error)
}
