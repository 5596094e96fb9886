package repository

import (
	"context"

	"github.com/oksasatya/social-feed/internal/domain/entity"
)

// UserRepository defines the credential store operations.
// Create must rely on the store's unique constraint and return
// apperr.ErrDuplicateIdentity on an email collision.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entity.UserSummary, error)
	SearchByEmail(ctx context.Context, fragment string) ([]entity.UserSummary, error)
}
