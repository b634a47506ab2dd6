// Package users persists known users locally. The table is small, so it is
// exported in a single read.
package users

import (
	"context"

	"github.com/dmitrijs2005/chatkeeper/internal/client/models"
)

type Repository interface {
	Insert(ctx context.Context, u models.User) error
	GetAll(ctx context.Context) ([]models.User, error)
}
