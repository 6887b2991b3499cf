// Package security provides authentication and request validation
package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/ports/outbound"
)

// ContextUserIDKey is the gin context key holding the authenticated user ID
const ContextUserIDKey = "user_id"

// AuthService provides JWT-based authentication
type AuthService struct {
	config    *config.Config
	logger    *zap.Logger
	cache     outbound.CacheRepository
	jwtSecret []byte
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg *config.Config, logger *zap.Logger, cache outbound.CacheRepository) *AuthService {
	return &AuthService{
		config:    cfg,
		logger:    logger.Named("auth"),
		cache:     cache,
		jwtSecret: []byte(cfg.Auth.JWTSecret),
	}
}

// TokenType represents different types of JWT tokens
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims represents JWT claims structure
type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles an access token with its refresh token
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// GenerateTokenPair creates an access and refresh token for a user.
// The refresh token's ID is recorded against the access token's so
// revoking the session ends both.
func (a *AuthService) GenerateTokenPair(userID, email string) (*TokenPair, error) {
	accessToken, accessID, expiresAt, err := a.generateToken(userID, email, AccessToken, a.config.Auth.JWTExpiration)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshID, _, err := a.generateToken(userID, email, RefreshToken, a.config.Auth.RefreshExpiration)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("token_pair:%s", accessID)
	if err := a.cache.Set(context.Background(), key, []byte(refreshID), a.config.Auth.RefreshExpiration); err != nil {
		a.logger.Warn("Failed to record token pairing", zap.Error(err))
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// generateToken creates a signed JWT of the given type
func (a *AuthService) generateToken(userID, email string, tokenType TokenType, expiration time.Duration) (string, string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiration)

	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.config.Auth.Issuer,
			Subject:   userID,
			Audience:  []string{a.config.Auth.Audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, claims.ID, expiresAt, nil
}

// ValidateToken validates and parses a JWT token
func (a *AuthService) ValidateToken(tokenString string, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.jwtSecret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(a.config.Auth.Issuer),
		jwt.WithAudience(a.config.Auth.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", expectedType, claims.TokenType)
	}

	if revoked, err := a.isTokenRevoked(claims.ID); err != nil {
		a.logger.Warn("Failed to check token revocation", zap.Error(err))
	} else if revoked {
		return nil, fmt.Errorf("token has been revoked")
	}

	return claims, nil
}

// RevokeSession revokes an access token and the refresh token issued
// with it
func (a *AuthService) RevokeSession(accessTokenID string) error {
	if err := a.RevokeToken(accessTokenID); err != nil {
		return err
	}

	key := fmt.Sprintf("token_pair:%s", accessTokenID)
	refreshID, err := a.cache.Get(context.Background(), key)
	if err != nil || len(refreshID) == 0 {
		return nil
	}
	return a.RevokeToken(string(refreshID))
}

// RevokeToken revokes a token by adding it to the revocation list
func (a *AuthService) RevokeToken(tokenID string) error {
	ctx := context.Background()
	key := fmt.Sprintf("revoked_token:%s", tokenID)

	// TTL matches the longest possible token lifetime
	return a.cache.Set(ctx, key, []byte("revoked"), a.config.Auth.RefreshExpiration)
}

// isTokenRevoked checks if a token has been revoked
func (a *AuthService) isTokenRevoked(tokenID string) (bool, error) {
	ctx := context.Background()
	key := fmt.Sprintf("revoked_token:%s", tokenID)

	return a.cache.Exists(ctx, key)
}

// HashPassword securely hashes a password using bcrypt
func (a *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.config.Auth.BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against its hash
func (a *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// AuthMiddleware provides JWT authentication middleware
func (a *AuthService) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := a.ValidateToken(parts[1], AccessToken)
		if err != nil {
			a.logger.Info("Token validation failed",
				zap.String("error", err.Error()),
				zap.String("ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("token_id", claims.ID)

		c.Next()
	}
}

// UserID extracts the authenticated user's ID from the gin context
func UserID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString(ContextUserIDKey)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return uuid.Parse(raw)
}
