package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/credstore"
	"github.com/dmitrijs2005/cinebook/internal/client/models"
	"github.com/dmitrijs2005/cinebook/internal/common"
)

type ProfileService interface {
	Get(ctx context.Context) (models.User, error)
	Update(ctx context.Context, in models.ProfileUpdate) (models.User, error)
}

type profileService struct {
	sender api.Sender
	store  credstore.Store
}

// NewProfileService expects an authenticated sender. A successful update
// also refreshes the user cached in store.
func NewProfileService(sender api.Sender, store credstore.Store) ProfileService {
	return &profileService{sender: sender, store: store}
}

func (s *profileService) Get(ctx context.Context) (models.User, error) {
	var out models.User
	if err := getJSON(ctx, s.sender, common.ProfilePath, &out); err != nil {
		return models.User{}, fmt.Errorf("get profile: %w", err)
	}
	return out, nil
}

func (s *profileService) Update(ctx context.Context, in models.ProfileUpdate) (models.User, error) {
	var out models.ProfileUpdateResponse
	if err := doJSON(ctx, s.sender, api.Put(common.ProfilePath, in), &out); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}

	user, err := json.Marshal(out.User)
	if err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	if err := s.store.Set(ctx, common.UserKey, user); err != nil {
		return models.User{}, fmt.Errorf("update profile: cache user: %w", err)
	}
	return out.User, nil
}
