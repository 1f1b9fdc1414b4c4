package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus_event_bot/internal/domain/user"
	idb "campus_event_bot/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Custom application-level errors for auth service
var ErrMissingCredentials = fmt.Errorf("username and password required")
var ErrUsernameTaken = fmt.Errorf("username already exists")
var ErrInvalidCredentials = fmt.Errorf("invalid credentials")
var ErrMissingUsername = fmt.Errorf("username required")
var ErrUnknownUser = fmt.Errorf("user not found")

// AdminUsername is the account that gets admin rights on registration.
const AdminUsername = "admin"

type AuthService struct {
	userRepo   user.Repository
	bcryptCost int
	logger     *logrus.Entry
}

func NewAuthService(ur user.Repository, logger *logrus.Entry) *AuthService {
	return &AuthService{
		userRepo:   ur,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// Register creates a dashboard account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      username == AdminUsername,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, idb.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.logger.WithField("username", u.Username).Info("User registered")
	return u, nil
}

// Login checks the password against the stored hash. Unknown users and wrong passwords
// both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, idb.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// RequestPasswordReset issues a reset link for an existing account. No mail is sent; the
// link is logged for whoever runs the server and returned to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, username, baseURL string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrMissingUsername
	}

	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, idb.ErrUserNotFound) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("failed to get user by username: %w", err)
	}

	link := strings.TrimRight(baseURL, "/") + "/reset-password?token=" + uuid.NewString()
	s.logger.WithFields(logrus.Fields{
		"username": u.Username,
		"link":     link,
	}).Info("Password reset link issued (mail delivery is not configured)")
	return link, nil
}
