package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/cinebook/internal/common"
)

func (a *App) Movies(ctx context.Context) error {
	movies, err := a.movieService.List(ctx)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		fmt.Fprintln(a.out, "No movies")
		return nil
	}
	for _, m := range movies {
		fmt.Fprintln(a.out, m.Summary())
	}
	return nil
}

func (a *App) Movie(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: movie <slug>")
		return nil
	}

	m, err := a.movieService.Get(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n%s, %s, %d min, rating %s, released %s\n%s\n",
		m.Title, m.Slug, m.Genre, m.Language, m.Duration, m.Rating, m.ReleaseDate, m.Description)
	return nil
}

func (a *App) Seats(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: seats <show>")
		return nil
	}
	show, err := parseID(args[0])
	if err != nil {
		return err
	}

	seats, err := a.bookingService.Seats(ctx, show)
	if err != nil {
		return err
	}
	if len(seats) == 0 {
		fmt.Fprintln(a.out, "No free seats")
		return nil
	}
	for _, s := range seats {
		fmt.Fprintln(a.out, s)
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid id: %w", s, common.ErrInvalidInput)
	}
	return id, nil
}
