package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cinebook/internal/client/services"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root is the interactive entry point: it restores the saved session if
// there is one, then serves commands until exit.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to CineBook CLI (type 'help' for commands)")

	a.restoreSession(ctx)
	a.checkOnline(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) restoreSession(ctx context.Context) {
	user, err := a.authService.CurrentUser(ctx)
	switch {
	case errors.Is(err, services.ErrNotLoggedIn):
		fmt.Fprintln(a.out, "Not logged in. Use 'login' or 'register'.")
	case err != nil:
		a.log.Warn(ctx, "restore session", "error", err)
	default:
		a.setUser(user.Username)
		fmt.Fprintf(a.out, "Welcome back, %s\n", user.Username)
	}
}
