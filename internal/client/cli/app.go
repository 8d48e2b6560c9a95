package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/config"
	"github.com/dmitrijs2005/cinebook/internal/client/credstore"
	"github.com/dmitrijs2005/cinebook/internal/client/services"
	"github.com/dmitrijs2005/cinebook/internal/client/session"
	"github.com/dmitrijs2005/cinebook/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	log    logging.Logger

	authService    services.AuthService
	movieService   services.MovieService
	bookingService services.BookingService
	ticketService  services.TicketService
	profileService services.ProfileService
	closeStore     func() error

	mu       sync.Mutex
	userName string
	mode     Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the configured credential store and builds the client stack
// on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, closeStore, err := credstore.Open(ctx, c.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	return newApp(c, log, store, closeStore, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, log logging.Logger, store credstore.Store, closeStore func() error, in *bufio.Reader, out io.Writer) *App {
	public := api.NewPublicDispatcher(c.APIBaseURL, c.RequestTimeout, log)
	ctrl := session.NewController(store, session.NewHTTPExchanger(public), log)
	ctrl.SetSingleFlight(c.RefreshSingleFlight)
	authed := api.NewAuthDispatcher(public, store, ctrl, log)

	a := &App{
		config:         c,
		log:            log,
		authService:    services.NewAuthService(public, ctrl, store),
		movieService:   services.NewMovieService(public),
		bookingService: services.NewBookingService(authed),
		ticketService:  services.NewTicketService(authed),
		profileService: services.NewProfileService(authed, store),
		closeStore:     closeStore,
		reader:         in,
		out:            out,
	}
	ctrl.OnSessionTerminated(a.onSessionTerminated)
	return a
}

// Run restores a saved session, starts the connectivity watcher and runs
// the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.closeStore(); err != nil {
			a.log.Error(ctx, "close credential store", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName != ""
}

// onSessionTerminated runs when the session ends, by logout or because the
// refresh token was rejected.
func (a *App) onSessionTerminated(ctx context.Context) {
	a.mu.Lock()
	was := a.userName
	a.userName = ""
	a.mu.Unlock()

	if was != "" {
		fmt.Fprintln(a.out, "Session ended. Use 'login' to sign in again.")
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
