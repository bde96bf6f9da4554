package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"shopauth/internal/models"
	"shopauth/internal/repositories"
)

// Claims: содержимое наших JWT. Флаги пользователя лежат в фиксированной
// структуре, а не под ключом username.
type Claims struct {
	Type string             `json:"type"`
	User *models.UserClaims `json:"user,omitempty"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	Secret              []byte
	AccessExpires       time.Duration
	RefreshExpires      time.Duration
	RefreshEmbedsClaims bool
}

type TokenService interface {
	IssueAccess(subject string, claims models.UserClaims) (string, error)
	IssueRefresh(subject string, claims models.UserClaims) (string, error)
	Verify(token, expectedType string) (*models.VerifiedToken, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	Lifetime(tokenType string) time.Duration
}

type tokenService struct {
	cfg     TokenConfig
	revoked repositories.RevocationRepository
	now     func() time.Time
}

func NewTokenService(cfg TokenConfig, revoked repositories.RevocationRepository) TokenService {
	return NewTokenServiceWithClock(cfg, revoked, time.Now)
}

func NewTokenServiceWithClock(cfg TokenConfig, revoked repositories.RevocationRepository, now func() time.Time) TokenService {
	if now == nil {
		now = time.Now
	}
	return &tokenService{cfg: cfg, revoked: revoked, now: now}
}

func (s *tokenService) IssueAccess(subject string, claims models.UserClaims) (string, error) {
	return s.issue(subject, models.TokenTypeAccess, &claims, s.cfg.AccessExpires)
}

func (s *tokenService) IssueRefresh(subject string, claims models.UserClaims) (string, error) {
	var uc *models.UserClaims
	if s.cfg.RefreshEmbedsClaims {
		uc = &claims
	}
	return s.issue(subject, models.TokenTypeRefresh, uc, s.cfg.RefreshExpires)
}

func (s *tokenService) Lifetime(tokenType string) time.Duration {
	if tokenType == models.TokenTypeRefresh {
		return s.cfg.RefreshExpires
	}
	return s.cfg.AccessExpires
}

func (s *tokenService) issue(subject, tokenType string, uc *models.UserClaims, ttl time.Duration) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", validationError("token subject is required")
	}
	now := s.now()
	jti, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate jti: %w", err)
	}
	claims := &Claims{
		Type: tokenType,
		User: uc,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Verify проверяет подпись, алгоритм, срок и тип. Denylist здесь не смотрим.
func (s *tokenService) Verify(token, expectedType string) (*models.VerifiedToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Type != expectedType {
		return nil, ErrWrongTokenType
	}
	return &models.VerifiedToken{
		Subject:   claims.Subject,
		Claims:    claims.User,
		JTI:       claims.ID,
		Type:      claims.Type,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *tokenService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.revoked == nil {
		return false, errors.New("revocation store is not configured")
	}
	return s.revoked.IsRevoked(ctx, jti)
}

func (s *tokenService) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s.revoked == nil {
		return errors.New("revocation store is not configured")
	}
	return s.revoked.Revoke(ctx, jti, ttl)
}
