package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cinebook/internal/apitest"
	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/credstore"
	"github.com/dmitrijs2005/cinebook/internal/client/session"
	"github.com/dmitrijs2005/cinebook/internal/logging"
)

type env struct {
	srv        *apitest.Server
	store      *credstore.MemoryStore
	controller *session.Controller
	terminated atomic.Int32

	auth     AuthService
	movies   MovieService
	bookings BookingService
	tickets  TicketService
	profile  ProfileService
}

func newEnv(t *testing.T, opts ...apitest.Option) *env {
	t.Helper()

	srv := apitest.New(opts...)
	t.Cleanup(srv.Close)

	log := logging.Discard()
	store := credstore.NewMemoryStore()
	public := api.NewPublicDispatcher(srv.URL(), 2*time.Second, log)
	ctrl := session.NewController(store, session.NewHTTPExchanger(public), log)
	ctrl.SetSingleFlight(true)
	authed := api.NewAuthDispatcher(public, store, ctrl, log)

	e := &env{
		srv:        srv,
		store:      store,
		controller: ctrl,
		auth:       NewAuthService(public, ctrl, store),
		movies:     NewMovieService(public),
		bookings:   NewBookingService(authed),
		tickets:    NewTicketService(authed),
		profile:    NewProfileService(authed, store),
	}
	ctrl.OnSessionTerminated(func(context.Context) { e.terminated.Add(1) })
	return e
}

// loggedIn returns an env with user neo logged in.
func loggedIn(t *testing.T, opts ...apitest.Option) *env {
	t.Helper()
	e := newEnv(t, opts...)
	e.srv.AddUser("neo", "secret", "neo@zion.io")
	_, err := e.auth.Login(context.Background(), "neo", []byte("secret"))
	require.NoError(t, err)
	return e
}

func (e *env) access(t *testing.T) string {
	t.Helper()
	tok, err := credstore.AccessToken(context.Background(), e.store)
	require.NoError(t, err)
	return tok
}

func (e *env) refresh(t *testing.T) string {
	t.Helper()
	tok, err := credstore.RefreshToken(context.Background(), e.store)
	require.NoError(t, err)
	return tok
}
