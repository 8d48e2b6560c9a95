package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/models"
	"github.com/dmitrijs2005/cinebook/internal/common"
)

// ErrMissingAccessToken is returned when a refresh response has no access token.
var ErrMissingAccessToken = errors.New("refresh response has no access token")

// Exchanger trades a refresh token for new tokens.
type Exchanger interface {
	Exchange(ctx context.Context, refreshToken string) (models.Tokens, error)
}

// HTTPExchanger calls the API's token refresh endpoint. It must be given an
// unauthenticated sender.
type HTTPExchanger struct {
	sender api.Sender
}

func NewHTTPExchanger(sender api.Sender) *HTTPExchanger {
	return &HTTPExchanger{sender: sender}
}

func (e *HTTPExchanger) Exchange(ctx context.Context, refreshToken string) (models.Tokens, error) {
	req := api.Post(common.TokenRefreshPath, map[string]string{"refresh": refreshToken})

	resp, err := e.sender.Send(ctx, req)
	if err != nil {
		return models.Tokens{}, fmt.Errorf("refresh exchange: %w", err)
	}

	var tokens models.Tokens
	if err := resp.Decode(&tokens); err != nil {
		return models.Tokens{}, fmt.Errorf("refresh exchange: %w", err)
	}
	if tokens.Access == "" {
		return models.Tokens{}, ErrMissingAccessToken
	}
	return tokens, nil
}
