package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campus_event_bot/internal/domain/user"

	"github.com/google/uuid"
)

// Custom errors
var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateUsername = errors.New("user with this username already exists")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now().UTC()

	query := `INSERT INTO users (id, username, password_hash, is_admin, created_at)
               VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash, u.IsAdmin, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT id, username, password_hash, is_admin, created_at
               FROM users WHERE username = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by username: %w", err)
	}
	return u, nil
}
