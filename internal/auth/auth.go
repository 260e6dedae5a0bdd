package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserAccess is the resolved access snapshot for an authenticated
// user: the role names along the user's role chain plus the flattened
// permission codes those roles grant.
type UserAccess struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Username    string   `json:"username"`
	Position    string   `json:"position"`
	UserType    string   `json:"user_type"`
	AccountType string   `json:"account_type"`
	RoleNames   []string `json:"role_names"`
	Permissions []string `json:"permissions"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims. Role names ride along so stale
// sessions still carry evidence for the fallback predicates.
type Claims struct {
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates session tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, email, username string, roles []string) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
)
