// Package user implements account and authentication use cases
package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/user"
	"github.com/platewise/v1/internal/infrastructure/monitoring"
	"github.com/platewise/v1/internal/infrastructure/security"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// Service implements inbound.UserService
type Service struct {
	users   outbound.UserRepository
	auth    *security.AuthService
	metrics *monitoring.MetricsCollector
	logger  *zap.Logger
}

// NewService creates a new user service
func NewService(
	users outbound.UserRepository,
	auth *security.AuthService,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) inbound.UserService {
	return &Service{
		users:   users,
		auth:    auth,
		metrics: metrics,
		logger:  logger.Named("user-service"),
	}
}

// Register creates a new account and issues a token pair
func (s *Service) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.AuthResult, error) {
	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.Password)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, apperrors.NewEmailAlreadyExistsError(cmd.Email)
		}
		return nil, apperrors.NewDatabaseError("create user", err)
	}

	tokens, err := s.auth.GenerateTokenPair(u.ID().String(), u.Email())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue tokens")
	}

	s.metrics.UserRegistered()
	s.logger.Info("user registered",
		zap.String("user_id", u.ID().String()),
		zap.String("email", u.Email()))

	return &inbound.AuthResult{
		User:         u,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates by email and password
func (s *Service) Login(ctx context.Context, email, password string) (*inbound.AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewInvalidCredentialsError()
		}
		return nil, apperrors.NewDatabaseError("find user", err)
	}

	if !u.IsActive() {
		return nil, apperrors.NewForbiddenError("account is deactivated")
	}

	if err := u.CheckPassword(password); err != nil {
		s.logger.Warn("failed login attempt", zap.String("email", email))
		return nil, apperrors.NewInvalidCredentialsError()
	}

	tokens, err := s.auth.GenerateTokenPair(u.ID().String(), u.Email())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue tokens")
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID()); err != nil {
		// login still succeeds, the timestamp is advisory
		s.logger.Warn("failed to record login time", zap.Error(err))
	}

	return &inbound.AuthResult{
		User:         u,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
// The presented refresh token is revoked so it cannot be replayed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*inbound.AuthResult, error) {
	claims, err := s.auth.ValidateToken(refreshToken, security.RefreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid refresh token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid refresh token")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("account no longer exists")
		}
		return nil, apperrors.NewDatabaseError("find user", err)
	}
	if !u.IsActive() {
		return nil, apperrors.NewForbiddenError("account is deactivated")
	}

	tokens, err := s.auth.GenerateTokenPair(u.ID().String(), u.Email())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue tokens")
	}

	if err := s.auth.RevokeToken(claims.ID); err != nil {
		s.logger.Warn("failed to revoke rotated refresh token", zap.Error(err))
	}

	return &inbound.AuthResult{
		User:         u,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout ends the session behind the presented access token, revoking
// the refresh token issued with it as well
func (s *Service) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return apperrors.NewBadRequestError("missing token")
	}
	if err := s.auth.RevokeSession(tokenID); err != nil {
		return apperrors.Wrap(err, "failed to revoke session")
	}
	return nil
}

// Profile returns the account for the given user ID
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(userID.String())
		}
		return nil, apperrors.NewDatabaseError("find user", err)
	}
	return u, nil
}

// UpdateProfile changes the name and picture of an account
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, name, pictureURL string) (*user.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := u.UpdateProfile(name, pictureURL); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, apperrors.NewDatabaseError("update user", err)
	}
	return u, nil
}

// UpdatePreferences changes the nutrition preferences of an account
func (s *Service) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs user.Preferences) (*user.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := u.UpdatePreferences(prefs); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, apperrors.NewDatabaseError("update user", err)
	}

	s.logger.Debug("preferences updated",
		zap.String("user_id", userID.String()),
		zap.Int("calorie_goal", prefs.DailyCalorieGoal))
	return u, nil
}
