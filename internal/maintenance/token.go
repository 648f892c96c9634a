// wardrive-maint - coverage service maintenance trigger
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package maintenance

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// TokenIssuer is the iss claim on every maintenance token.
	TokenIssuer = "wardrive-maint"

	defaultTokenTTL = 5 * time.Minute
)

// Claims are the JWT claims sent with a maintenance request.
type Claims struct {
	Operation string `json:"op"`
	jwt.RegisteredClaims
}

// TokenSigner mints short-lived HS256 tokens for maintenance calls.
type TokenSigner struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenSigner returns a signer using secret as the HMAC key.
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{
		signingKey: []byte(secret),
		ttl:        defaultTokenTTL,
		now:        time.Now,
	}
}

// Sign creates a token scoped to operation.
func (s *TokenSigner) Sign(operation string) (string, error) {
	if len(s.signingKey) == 0 {
		return "", errors.New("empty signing key")
	}
	now := s.now()
	claims := Claims{
		Operation: operation,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   operation,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

// Verify parses tokenString and returns its claims. The service side of a
// maintenance call uses this; the client only signs.
func (s *TokenSigner) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Issuer != TokenIssuer {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	return claims, nil
}
