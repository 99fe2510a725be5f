package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"toy-catalog/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = 24 * time.Hour

// Claims are the decoded claims of a verified token.
type Claims struct {
	Email string
	Raw   jwt.MapClaims
}

type TokenService struct {
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	validate *validator.Validate
}

var TokenServiceTracer = otel.Tracer("TokenService")

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		validate: validator.New(),
	}, nil
}

// Issue signs the caller's identity payload as-is, adding iat, exp and jti.
// The payload must carry a valid "email" since ownership checks key on it.
func (s *TokenService) Issue(ctx context.Context, identity map[string]any) (string, error) {
	ctx, span := TokenServiceTracer.Start(ctx, "TokenService.Issue")
	defer span.End()
	logger.Info(ctx, "Service")

	email, _ := identity["email"].(string)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: email: %v", ErrInvalidPayload, err)
	}

	now := s.now()
	claims := jwt.MapClaims{}
	maps.Copy(claims, identity)
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.ttl))
	claims["jti"] = uuid.NewString()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded claims.
func (s *TokenService) Verify(ctx context.Context, token string) (*Claims, error) {
	_, span := TokenServiceTracer.Start(ctx, "TokenService.Verify")
	defer span.End()

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	email, _ := claims["email"].(string)
	return &Claims{Email: email, Raw: claims}, nil
}
