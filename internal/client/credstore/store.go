package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cinebook/internal/common"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown credential store backend")

// Store is a key-value store for session credentials.
//
// Get returns (nil, nil) when the key is absent. Clear removes every key and
// is a no-op on an empty store. Implementations are safe for concurrent use;
// each write replaces the whole value of a key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetAll writes several keys as one unit.
	SetAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Credential is the set of values a logged-in session keeps in a Store.
// User is the identity record returned by the API, kept as raw JSON.
type Credential struct {
	AccessToken  string
	RefreshToken string
	User         []byte
}

// SaveCredential writes all credential slots in one unit.
func SaveCredential(ctx context.Context, s Store, c Credential) error {
	user := c.User
	if user == nil {
		user = []byte{}
	}
	err := s.SetAll(ctx, map[string][]byte{
		common.AccessTokenKey:  []byte(c.AccessToken),
		common.RefreshTokenKey: []byte(c.RefreshToken),
		common.UserKey:         user,
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// LoadCredential reads every credential slot. Missing slots stay empty.
func LoadCredential(ctx context.Context, s Store) (Credential, error) {
	var c Credential

	access, err := AccessToken(ctx, s)
	if err != nil {
		return c, err
	}
	refresh, err := RefreshToken(ctx, s)
	if err != nil {
		return c, err
	}
	user, err := s.Get(ctx, common.UserKey)
	if err != nil {
		return c, fmt.Errorf("load user: %w", err)
	}

	c.AccessToken = access
	c.RefreshToken = refresh
	if len(user) > 0 {
		c.User = user
	}
	return c, nil
}

// AccessToken returns the stored access token, or "" when there is none.
func AccessToken(ctx context.Context, s Store) (string, error) {
	return getString(ctx, s, common.AccessTokenKey)
}

// RefreshToken returns the stored refresh token, or "" when there is none.
func RefreshToken(ctx context.Context, s Store) (string, error) {
	return getString(ctx, s, common.RefreshTokenKey)
}

func getString(ctx context.Context, s Store, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return string(v), nil
}
