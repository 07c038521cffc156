package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when a user with the same email already exists.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUsernameTaken is returned when a user with the same username already exists.
	ErrUsernameTaken = errors.New("username already taken")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Delete removes the user; owned recipes and favorites go with it.
	Delete(ctx context.Context, id int64) error
}
