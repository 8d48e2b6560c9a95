package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/models"
	"github.com/dmitrijs2005/cinebook/internal/common"
)

// MovieService reads the public movie catalogue.
type MovieService interface {
	List(ctx context.Context) ([]models.Movie, error)
	Get(ctx context.Context, slug string) (models.Movie, error)
}

type movieService struct {
	sender api.Sender
}

func NewMovieService(sender api.Sender) MovieService {
	return &movieService{sender: sender}
}

func (s *movieService) List(ctx context.Context) ([]models.Movie, error) {
	var out []models.Movie
	if err := getJSON(ctx, s.sender, common.MoviesPath, &out); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return out, nil
}

func (s *movieService) Get(ctx context.Context, slug string) (models.Movie, error) {
	if slug == "" {
		return models.Movie{}, common.ErrInvalidInput
	}

	var out models.Movie
	if err := getJSON(ctx, s.sender, common.MoviesPath+url.PathEscape(slug)+"/", &out); err != nil {
		return models.Movie{}, fmt.Errorf("get movie %q: %w", slug, err)
	}
	return out, nil
}

// getJSON sends a GET and decodes the body into v. A 404 is reported as
// common.ErrNotFound.
func getJSON(ctx context.Context, sender api.Sender, path string, v any) error {
	return doJSON(ctx, sender, api.Get(path), v)
}

func doJSON(ctx context.Context, sender api.Sender, req api.Request, v any) error {
	resp, err := sender.Send(ctx, req)
	if err != nil {
		if api.StatusCode(err) == http.StatusNotFound {
			return errors.Join(common.ErrNotFound, err)
		}
		return err
	}
	if v == nil {
		return nil
	}
	return resp.Decode(v)
}
