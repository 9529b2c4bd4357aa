// Package users persists account records.
package users

import (
	"context"

	"github.com/dmatveev/authd/internal/server/models"
)

// Repository is the credential store the authentication core works against.
// Lookups return common.ErrNotFound for absent accounts; Create and Update
// return common.ErrConflict when a unique email/username is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByEmailForUpdate locks the row for the remainder of the enclosing
	// transaction, serializing concurrent code issuance and consumption on
	// the same account.
	FindByEmailForUpdate(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
