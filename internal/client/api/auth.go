package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cinebook/internal/client/credstore"
	"github.com/dmitrijs2005/cinebook/internal/common"
	"github.com/dmitrijs2005/cinebook/internal/logging"
)

// Refresher obtains a new access token for the current session.
//
// Refresh persists the new tokens before returning. When the exchange itself
// fails the implementation ends the session and returns an error wrapping
// ErrSessionExpired.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// AuthDispatcher sends requests with the stored access token and runs the
// refresh-and-replay protocol on 401 responses.
type AuthDispatcher struct {
	next      Sender
	store     credstore.Store
	refresher Refresher
	log       logging.Logger
}

func NewAuthDispatcher(next Sender, store credstore.Store, refresher Refresher, log logging.Logger) *AuthDispatcher {
	return &AuthDispatcher{
		next:      next,
		store:     store,
		refresher: refresher,
		log:       log.With("component", "auth_dispatcher"),
	}
}

// Send dispatches req with the current access token. If the API rejects the
// token, a refresh token is stored and req is not itself a replay, Send
// refreshes once and returns the outcome of the replayed request.
func (d *AuthDispatcher) Send(ctx context.Context, req Request) (*Response, error) {
	out, err := d.authorize(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := d.next.Send(ctx, out)
	if err == nil || !d.canRefresh(ctx, req, err) {
		return resp, err
	}

	d.log.Info(ctx, "access token rejected, refreshing", "method", req.Method, "path", req.Path)

	access, err := d.refresher.Refresh(ctx)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			d.log.Warn(ctx, "session expired", "method", req.Method, "path", req.Path, "error", err)
		}
		return nil, err
	}

	return d.Send(ctx, req.Retry().WithHeader(common.AuthorizationHeaderName, common.BearerToken(access)))
}

// authorize sets the bearer header from the store. A missing token leaves
// the request as it is; the API decides what to do with it.
func (d *AuthDispatcher) authorize(ctx context.Context, req Request) (Request, error) {
	token, err := credstore.AccessToken(ctx, d.store)
	if err != nil {
		return req, fmt.Errorf("read access token: %w", err)
	}
	if token == "" {
		return req, nil
	}
	return req.WithHeader(common.AuthorizationHeaderName, common.BearerToken(token)), nil
}

func (d *AuthDispatcher) canRefresh(ctx context.Context, req Request, err error) bool {
	if !errors.Is(err, ErrUnauthorized) || req.IsRetry() {
		return false
	}
	refresh, serr := credstore.RefreshToken(ctx, d.store)
	if serr != nil {
		d.log.Error(ctx, "read refresh token", "error", serr)
		return false
	}
	return refresh != ""
}
