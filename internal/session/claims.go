package session

import (
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

// UserFromToken reads identity claims from a JWT without verifying its
// signature; the API, not this client, is the party that verifies tokens.
func UserFromToken(token string) (entity.User, time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return entity.User{}, time.Time{}, fmt.Errorf("parse token: %w", err)
	}

	user := entity.User{
		ID:    stringClaim(claims, "sub"),
		Email: stringClaim(claims, "email"),
		Name:  firstNonEmpty(stringClaim(claims, "name"), nestedString(claims, "user_metadata", "name"), stringClaim(claims, "cognito:username")),
		Role:  roleFromClaims(claims),
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	return user, expiresAt, nil
}

func roleFromClaims(claims jwt.MapClaims) string {
	if groups, ok := claims["cognito:groups"].([]any); ok {
		for _, g := range groups {
			if s, ok := g.(string); ok && strings.EqualFold(s, entity.RoleAdmin) {
				return entity.RoleAdmin
			}
		}
	}
	for _, role := range []string{stringClaim(claims, "role"), nestedString(claims, "app_metadata", "role"), stringClaim(claims, "custom:role")} {
		if strings.EqualFold(role, entity.RoleAdmin) {
			return entity.RoleAdmin
		}
	}
	return entity.RoleUser
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

func nestedString(claims jwt.MapClaims, outer, key string) string {
	m, ok := claims[outer].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
