package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/business-management/internal/principal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetPasswordForEmail(ctx context.Context, email string) (passwordHash string, userID string, err error)
	GetUserAccess(ctx context.Context, userID string) (*UserAccess, error)
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	loader         *principal.Loader
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, loader *principal.Loader, logger *slog.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		loader:         loader,
		logger:         logger,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, userID, err := s.userRepo.GetPasswordForEmail(ctx, dto.Email)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	access, err := s.userRepo.GetUserAccess(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user access at login", "user_id", userID, "error", err)
		return AuthTokens{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, access.Email, access.Username, access.RoleNames)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, access.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	access, err := s.userRepo.GetUserAccess(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.UserID, access.Email, access.Username, access.RoleNames)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims.UserID, access.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// BuildPrincipal resolves token claims into the normalized Principal
// the resolver consumes. Fresh access data from the store wins over
// whatever the token carried at issue time.
func (s *Service) BuildPrincipal(ctx context.Context, claims *Claims) (principal.Principal, error) {
	access, err := s.userRepo.GetUserAccess(ctx, claims.UserID)
	if err != nil {
		s.logger.Error("failed to load user access", "user_id", claims.UserID, "error", err)
		return principal.Principal{}, err
	}

	rawClaims := map[string]interface{}{
		"user_id":      claims.UserID,
		"username":     access.Username,
		"roles":        access.RoleNames,
		"permissions":  access.Permissions,
		"position":     access.Position,
		"user_type":    access.UserType,
		"account_type": access.AccountType,
	}
	if len(access.RoleNames) == 0 {
		// fall back to the role names minted into the token
		rawClaims["roles"] = claims.Roles
	}

	return s.loader.Load(ctx, rawClaims)
}

// GetUserAccess exposes the current access snapshot, used by /users/me.
func (s *Service) GetUserAccess(ctx context.Context, userID string) (*UserAccess, error) {
	return s.userRepo.GetUserAccess(ctx, userID)
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID, email, username string, roles []string) (string, error) {
	expiresAt := time.Now().Add(j.AccessTokenTTL)

	claims := &Claims{
		UserID:   userID,
		Email:    email,
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	expiresAt := time.Now().Add(j.RefreshTokenTTL)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.RefreshTokenSecret)
}

// ValidateToken parses and validates a token against both secrets,
// access first; refresh tokens validate with the refresh secret.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	for _, secret := range [][]byte{j.AccessTokenSecret, j.RefreshTokenSecret} {
		claims, err := j.parseWithSecret(tokenString, secret)
		if err == nil {
			return claims, nil
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
	}
	return nil, ErrInvalidToken
}

func (j *JWTTokenGenerator) parseWithSecret(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
