package services

import (
	"errors"
	"fmt"
	"time"

	"mediagate/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken           = errors.New("invalid token")
	ErrExpiredToken           = errors.New("token expired")
	ErrInsufficientPermission = errors.New("insufficient permission")
)

// TokenService issues and validates signed, expiring, permissioned access
// tokens binding one user to one content item. Validation needs no
// server-side lookup; the token is self-describing and tamper-evident.
type TokenService interface {
	Issue(userID domain.UserID, contentID domain.ContentID, permissions []domain.Permission) (*domain.IssuedToken, error)
	Validate(tokenString string, required domain.Permission) (*AccessClaims, error)
}

// AccessClaims is the JWT claim set carried by issued tokens.
type AccessClaims struct {
	UserID      domain.UserID    `json:"user_id"`
	ContentID   domain.ContentID `json:"content_id"`
	Permissions []string         `json:"permissions"`
	Watermark   string           `json:"watermark,omitempty"`
	jwt.RegisteredClaims
}

type tokenService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewTokenService(jwtSecret string, tokenTTL time.Duration) TokenService {
	return &tokenService{
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (s *tokenService) Issue(userID domain.UserID, contentID domain.ContentID, permissions []domain.Permission) (*domain.IssuedToken, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id must not be empty")
	}
	if contentID == "" {
		return nil, fmt.Errorf("content id must not be empty")
	}
	if len(permissions) == 0 {
		return nil, fmt.Errorf("at least one permission is required")
	}
	perms := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if !domain.KnownPermissions[p] {
			return nil, fmt.Errorf("unknown permission: %q", p)
		}
		perms = append(perms, string(p))
	}

	// The exp claim only carries whole seconds, so anchor the lifetime to a
	// whole second; otherwise the advertised expiry would outlive the token.
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.tokenTTL)
	watermark := uuid.New().String()

	claims := &AccessClaims{
		UserID:      userID,
		ContentID:   contentID,
		Permissions: perms,
		Watermark:   watermark,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.IssuedToken{
		Token:         signed,
		SubjectUserID: userID,
		ContentID:     contentID,
		Permissions:   permissions,
		IssuedAt:      issuedAt,
		ExpiresAt:     expiresAt,
		Watermark:     watermark,
	}, nil
}

func (s *tokenService) Validate(tokenString string, required domain.Permission) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	granted := false
	for _, p := range claims.Permissions {
		if p == string(required) {
			granted = true
			break
		}
	}
	if !granted {
		return nil, ErrInsufficientPermission
	}

	return claims, nil
}
