package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cinebook/internal/client/models"
)

// Profile shows the profile, or edits it with "profile edit". Empty answers
// keep the current value.
func (a *App) Profile(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
		u, err := a.profileService.Get(ctx)
		if err != nil {
			return err
		}
		printProfile(a, u)
		return nil
	case len(args) == 1 && args[0] == "edit":
	default:
		fmt.Fprintln(a.out, "Usage: profile [edit]")
		return nil
	}

	var upd models.ProfileUpdate
	var err error
	for _, p := range []struct {
		dst    *string
		prompt string
	}{
		{&upd.Phone, "New phone (empty to keep)"},
		{&upd.Location, "New location (empty to keep)"},
		{&upd.DateOfBirth, "New date of birth, YYYY-MM-DD (empty to keep)"},
	} {
		if *p.dst, err = getSimpleText(a.reader, p.prompt, a.out); err != nil {
			return err
		}
	}
	if upd == (models.ProfileUpdate{}) {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	u, err := a.profileService.Update(ctx, upd)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated")
	printProfile(a, u)
	return nil
}

func printProfile(a *App, u models.User) {
	fmt.Fprintln(a.out, u)
	for _, f := range []struct{ name, value string }{
		{"phone", u.Phone},
		{"location", u.Location},
		{"date of birth", u.DateOfBirth},
	} {
		if f.value != "" {
			fmt.Fprintf(a.out, "  %s: %s\n", f.name, f.value)
		}
	}
	if u.ProfilePicture != nil {
		fmt.Fprintf(a.out, "  picture: %s\n", *u.ProfilePicture)
	}
}
