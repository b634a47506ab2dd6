package messages

import (
	"context"

	"github.com/dmitrijs2005/chatkeeper/internal/client/models"
)

// Repository describes the message store used by the backup pipeline.
type Repository interface {
	// Insert stores m unless a message with the same id exists.
	Insert(ctx context.Context, m models.Message) error

	// GetByID returns a single message.
	GetByID(ctx context.Context, id string) (*models.Message, error)

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// NextBatch returns up to size messages starting at offset start, in
	// insertion order.
	NextBatch(ctx context.Context, start, size int) ([]models.Message, error)
}
