package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spakle/amarquiz-backend/internal/config"
	"github.com/spakle/amarquiz-backend/internal/model"
)

// Claims extends JWT standard claims with the student's saved identity. The
// token is a convenience, not an account: no password exists, the student just
// tells us who they are once and carries the signed result afterwards.
type Claims struct {
	jwt.RegisteredClaims
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PersonalKey string `json:"personal_key"`
}

// Identity returns the model identity carried by the claims.
func (c *Claims) Identity() model.Identity {
	return model.Identity{Name: c.Name, Email: c.Email}
}

// IdentityService issues and verifies identity tokens.
type IdentityService struct {
	cfg *config.Config
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(cfg *config.Config) *IdentityService {
	return &IdentityService{cfg: cfg}
}

// IssueToken creates a signed JWT for the given identity. Blank identities
// are allowed; they resolve to the shared anonymous personal key.
func (s *IdentityService) IssueToken(id model.Identity) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   id.PersonalKey(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Name:        id.Name,
		Email:       id.Email,
		PersonalKey: id.PersonalKey(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a signed identity token.
func (s *IdentityService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
