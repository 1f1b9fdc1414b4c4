package user

import (
	"context"
)

// Repository defines the operations for persisting and retrieving User entities.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}
