package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/cinebook/internal/client/models"
	"github.com/dmitrijs2005/cinebook/internal/client/services"
	"github.com/dmitrijs2005/cinebook/internal/common"
	"github.com/dmitrijs2005/cinebook/internal/filex"
)

const maxAvatarSize = 5 << 20

var errPasswordMismatch = errors.New("passwords do not match")

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields, creates the account and logs in
// with it. Phone, location, date of birth and avatar are optional.
//
// The password byte slices are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	var in models.RegisterInput
	var err error

	prompts := []struct {
		dst    *string
		prompt string
	}{
		{&in.Username, "Enter username"},
		{&in.Email, "Enter email"},
		{&in.Phone, "Enter phone (optional)"},
		{&in.Location, "Enter location (optional)"},
		{&in.DateOfBirth, "Enter date of birth, YYYY-MM-DD (optional)"},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.prompt, a.out); err != nil {
			return err
		}
	}
	if in.Username == "" || in.Email == "" {
		return fmt.Errorf("username and email are required: %w", common.ErrInvalidInput)
	}

	avatarPath, err := getSimpleText(a.reader, "Enter avatar file path (optional)", a.out)
	if err != nil {
		return err
	}
	if avatarPath != "" {
		if in.Avatar, err = filex.ReadFileLimited(avatarPath, maxAvatarSize); err != nil {
			return fmt.Errorf("avatar: %w", err)
		}
		in.AvatarName = filepath.Base(avatarPath)
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return errPasswordMismatch
	}
	in.Password = string(password)

	user, err := a.authService.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s\n", user.Username)

	return a.login(ctx, in.Username, password)
}

// Login prompts the user for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.login(ctx, userName, password)
}

func (a *App) login(ctx context.Context, userName string, password []byte) error {
	user, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fmt.Fprintln(a.out, "Login unsuccessful: invalid username or password")
			return nil
		}
		return err
	}

	a.setUser(user.Username)
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s\n", user)
	return nil
}

// Logout ends the session; the session hook clears the prompt state.
func (a *App) Logout(ctx context.Context) error {
	return a.authService.Logout(ctx)
}
