package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/platewise/v1/internal/domain/user"
)

// RegisterCommand contains the data to create an account
type RegisterCommand struct {
	Email    string
	Name     string
	Password string
}

// AuthResult pairs an authenticated user with issued tokens
type AuthResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
}

// UserService defines account and authentication use cases
type UserService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, tokenID string) error
	Profile(ctx context.Context, userID uuid.UUID) (*user.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, pictureURL string) (*user.User, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs user.Preferences) (*user.User, error)
}
