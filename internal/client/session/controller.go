package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/credstore"
	"github.com/dmitrijs2005/cinebook/internal/common"
	"github.com/dmitrijs2005/cinebook/internal/logging"
)

// ErrNoRefreshToken is returned by Refresh when the store holds no refresh token.
var ErrNoRefreshToken = errors.New("no refresh token")

const refreshFlightKey = "refresh"

// Controller starts, refreshes and ends the session kept in a credential store.
type Controller struct {
	store     credstore.Store
	exchanger Exchanger
	log       logging.Logger

	mu           sync.RWMutex
	onTerminated func(ctx context.Context)

	singleFlight atomic.Bool
	flight       singleflight.Group
}

func NewController(store credstore.Store, exchanger Exchanger, log logging.Logger) *Controller {
	return &Controller{
		store:     store,
		exchanger: exchanger,
		log:       log.With("component", "session"),
	}
}

// OnSessionTerminated registers the hook called every time the session ends,
// by Logout or by a failed refresh. A nil fn removes the hook.
func (c *Controller) OnSessionTerminated(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTerminated = fn
}

// SetSingleFlight makes concurrent Refresh calls share one exchange.
func (c *Controller) SetSingleFlight(on bool) {
	c.singleFlight.Store(on)
}

// Start stores the credentials of a freshly authenticated session.
func (c *Controller) Start(ctx context.Context, cred credstore.Credential) error {
	if err := credstore.SaveCredential(ctx, c.store, cred); err != nil {
		return err
	}
	c.log.Info(ctx, "session started")
	return nil
}

// Logout clears the store and calls the termination hook. Calling it on an
// ended session is harmless; the hook still runs.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}

	c.mu.RLock()
	hook := c.onTerminated
	c.mu.RUnlock()

	if hook != nil {
		hook(ctx)
	}
	c.log.Info(ctx, "session ended")
	return nil
}

// Refresh exchanges the stored refresh token for a new access token, stores
// it (with the rotated refresh token, if any) and returns it.
//
// If the exchange fails the session is ended with Logout and the returned
// error wraps api.ErrSessionExpired and the exchange error.
func (c *Controller) Refresh(ctx context.Context) (string, error) {
	if !c.singleFlight.Load() {
		return c.refresh(ctx)
	}

	// The shared exchange must not die with whichever caller started it.
	ch := c.flight.DoChan(refreshFlightKey, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Controller) refresh(ctx context.Context) (string, error) {
	refreshToken, err := credstore.RefreshToken(ctx, c.store)
	if err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	tokens, err := c.exchanger.Exchange(ctx, refreshToken)
	if err != nil {
		expired := fmt.Errorf("%w: %w", api.ErrSessionExpired, err)
		c.log.Warn(ctx, "refresh exchange failed, ending session", "error", err)
		if lerr := c.Logout(ctx); lerr != nil {
			return "", errors.Join(expired, lerr)
		}
		return "", expired
	}

	values := map[string][]byte{common.AccessTokenKey: []byte(tokens.Access)}
	if tokens.Refresh != "" {
		values[common.RefreshTokenKey] = []byte(tokens.Refresh)
	}
	if err := c.store.SetAll(ctx, values); err != nil {
		return "", fmt.Errorf("store refreshed tokens: %w", err)
	}

	c.log.Info(ctx, "access token refreshed", "rotated", tokens.Refresh != "")
	return tokens.Access, nil
}

var _ api.Refresher = (*Controller)(nil)
