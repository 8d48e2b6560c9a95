// Package services contains the application services of the CineBook client.
// This file defines the authentication service: login, registration, logout,
// liveness probe and access to the cached identity of the logged-in user.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/credstore"
	"github.com/dmitrijs2005/cinebook/internal/client/models"
	"github.com/dmitrijs2005/cinebook/internal/client/session"
	"github.com/dmitrijs2005/cinebook/internal/common"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the API and start a session.
//   - Register: create a new account; it does not log in.
//   - Logout: end the session. Safe to call when logged out.
//   - CurrentUser: identity cached at login, ErrNotLoggedIn without a session.
//   - Ping: check API liveness.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (models.User, error)
	Register(ctx context.Context, in models.RegisterInput) (models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.User, error)
	Ping(ctx context.Context) error
}

type authService struct {
	public  api.Sender
	session *session.Controller
	store   credstore.Store
}

// NewAuthService builds an AuthService. public must not attach credentials.
func NewAuthService(public api.Sender, ctrl *session.Controller, store credstore.Store) AuthService {
	return &authService{public: public, session: ctrl, store: store}
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (models.User, error) {
	req := api.Post(common.LoginPath, map[string]string{
		"username": username,
		"password": string(password),
	})

	resp, err := a.public.Send(ctx, req)
	if err != nil {
		if code := api.StatusCode(err); code == http.StatusBadRequest || code == http.StatusUnauthorized {
			return models.User{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return models.User{}, fmt.Errorf("login error: %w", err)
	}

	var out models.LoginResponse
	if err := resp.Decode(&out); err != nil {
		return models.User{}, fmt.Errorf("login error: %w", err)
	}

	var user models.User
	if len(out.User) > 0 {
		if err := json.Unmarshal(out.User, &user); err != nil {
			return models.User{}, fmt.Errorf("login error: decode user: %w", err)
		}
	}

	err = a.session.Start(ctx, credstore.Credential{
		AccessToken:  out.Access,
		RefreshToken: out.Refresh,
		User:         out.User,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("login error: %w", err)
	}
	return user, nil
}

// Register sends the registration form as multipart, with the avatar as a
// file part when one is given.
func (a *authService) Register(ctx context.Context, in models.RegisterInput) (models.User, error) {
	form := map[string]string{
		"username":  in.Username,
		"email":     in.Email,
		"password":  in.Password,
		"password2": in.Password,
	}
	for k, v := range map[string]string{
		"phone":         in.Phone,
		"location":      in.Location,
		"date_of_birth": in.DateOfBirth,
	} {
		if v != "" {
			form[k] = v
		}
	}

	req := api.NewRequest(http.MethodPost, common.RegisterPath).WithForm(form)
	if len(in.Avatar) > 0 {
		req = req.WithFile("profile_picture", in.AvatarName, in.Avatar)
	}

	resp, err := a.public.Send(ctx, req)
	if err != nil {
		return models.User{}, fmt.Errorf("register error: %w", err)
	}

	var user models.User
	if err := resp.Decode(&user); err != nil {
		return models.User{}, fmt.Errorf("register error: %w", err)
	}
	return user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) CurrentUser(ctx context.Context) (models.User, error) {
	cred, err := credstore.LoadCredential(ctx, a.store)
	if err != nil {
		return models.User{}, err
	}
	if cred.AccessToken == "" && cred.RefreshToken == "" {
		return models.User{}, ErrNotLoggedIn
	}

	var user models.User
	if len(cred.User) > 0 {
		if err := json.Unmarshal(cred.User, &user); err != nil {
			return models.User{}, fmt.Errorf("decode cached user: %w", err)
		}
	}
	return user, nil
}

// Ping proxies a liveness check: any HTTP answer means the API is reachable.
func (a *authService) Ping(ctx context.Context) error {
	_, err := a.public.Send(ctx, api.Get(common.MoviesPath))
	if errors.Is(err, api.ErrUnavailable) {
		return err
	}
	return nil
}
