// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

// Package auth validates bearer tokens on the authenticated API surface.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/meetwise/meetwise-meeting-service/internal/logging"
)

const (
	defaultJWKSURL  = "http://auth-gateway:4457/.well-known/jwks"
	defaultIssuer   = "http://auth-gateway:4456/"
	defaultAudience = "meetwise-meeting-service"
)

// PrincipalClaims are the custom claims carried by tokens issued by the auth
// gateway.
type PrincipalClaims struct {
	Principal string `json:"principal"`
}

// Validate implements validator.CustomClaims.
func (c *PrincipalClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuthConfig configures the JWT validation for the service.
type JWTAuthConfig struct {
	// JWKSURL is the JWKS endpoint of the auth gateway.
	JWKSURL string
	// Issuer is the expected token issuer.
	Issuer string
	// Audience is the expected token audience.
	Audience string
	// MockLocalPrincipal bypasses validation and returns the given principal.
	// For local development only.
	MockLocalPrincipal string
}

// JWTAuth validates bearer tokens and extracts the caller principal.
type JWTAuth struct {
	config    JWTAuthConfig
	validator *validator.Validator
}

// NewJWTAuth creates a new JWT authenticator backed by a caching JWKS
// provider.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Issuer == "" {
		config.Issuer = defaultIssuer
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}

	issuerURL, err := url.Parse(config.Issuer)
	if err != nil {
		return nil, fmt.Errorf("parsing issuer URL: %w", err)
	}
	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("parsing JWKS URL: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute, jwks.WithCustomJWKSURI(jwksURL))

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &PrincipalClaims{}
		}),
		validator.WithAllowedClockSkew(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("creating JWT validator: %w", err)
	}

	return &JWTAuth{
		config:    config,
		validator: jwtValidator,
	}, nil
}

// ParsePrincipal validates the bearer token and returns the principal it
// carries.
func (a *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if a.config.MockLocalPrincipal != "" {
		logger.WarnContext(ctx, "mock authentication is enabled, skipping token validation")
		return a.config.MockLocalPrincipal, nil
	}

	if a.validator == nil {
		return "", errors.New("JWT validator is not set up")
	}

	parsed, err := a.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.DebugContext(ctx, "token validation failed", logging.ErrKey, err)
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}

	customClaims, ok := claims.CustomClaims.(*PrincipalClaims)
	if !ok {
		return "", errors.New("unexpected custom claims type")
	}

	return customClaims.Principal, nil
}
