package apitest

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

var errInvalidToken = errors.New("token is invalid or expired")

type claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	Gen       int    `json:"gen"`
}

func (s *Server) issue(userID int64, tokenType string, ttl time.Duration, gen int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		TokenType: tokenType,
		Gen:       gen,
	})
	return token.SignedString(s.secret)
}

// parse validates signature, expiry, type and generation and returns the
// user the token was issued to.
func (s *Server) parse(tokenString, tokenType string) (int64, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !token.Valid || c.TokenType != tokenType {
		return 0, errInvalidToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.accessGen
	if tokenType == refreshTokenType {
		gen = s.refreshGen
		if s.usedRefresh[c.ID] {
			return 0, errInvalidToken
		}
	}
	if c.Gen != gen {
		return 0, errInvalidToken
	}
	return c.UserID, nil
}

// jti returns the token id without validating the token.
func jti(tokenString string) string {
	c := &claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, c); err != nil {
		return ""
	}
	return c.ID
}
