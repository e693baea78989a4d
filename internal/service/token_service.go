package service

import (
	"errors"
	"fmt"
	"time"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNoSigningSecret is returned when the service was built without a secret.
// An empty HMAC key would let anyone mint a valid token.
var ErrNoSigningSecret = errors.New("jwt signing secret is not configured")

// JWTTokenService implements ports.TokenService using HS256 JWT.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewJWTTokenService creates a new JWT token service.
func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Generate creates a signed JWT for an admin with the given permissions.
func (s *JWTTokenService) Generate(subject string, permissions []domain.Permission) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrNoSigningSecret
	}
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("empty subject")
	}
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	perms := make([]string, 0, len(permissions))
	for _, p := range permissions {
		perms = append(perms, string(p))
	}

	claims := jwt.MapClaims{
		"sub":         subject,
		"permissions": perms,
		"jti":         uuid.NewString(),
		"iat":         now.Unix(),
		"exp":         expiresAt.Unix(),
		"iss":         s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate parses and validates a JWT token, returning the claims.
func (s *JWTTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	if len(s.secret) == 0 {
		return nil, ErrNoSigningSecret
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("missing subject claim")
	}

	var perms []domain.Permission
	if raw, ok := claims["permissions"].([]interface{}); ok {
		for _, p := range raw {
			if name, ok := p.(string); ok {
				perms = append(perms, domain.Permission(name))
			}
		}
	}

	return &ports.TokenClaims{
		Subject:     sub,
		Permissions: perms,
	}, nil
}
