package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cinebook/internal/apitest"
	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/config"
	"github.com/dmitrijs2005/cinebook/internal/client/credstore"
	"github.com/dmitrijs2005/cinebook/internal/client/models"
	"github.com/dmitrijs2005/cinebook/internal/logging"
)

type testApp struct {
	*App
	srv   *apitest.Server
	store *credstore.MemoryStore
	out   *bytes.Buffer
}

// newTestApp builds an App against a fake API. lines feed the prompts and
// passwords are returned by getPassword in order.
func newTestApp(t *testing.T, lines []string, passwords ...string) *testApp {
	t.Helper()

	srv := apitest.New()
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL()
	cfg.RequestTimeout = 2 * time.Second
	cfg.StoreBackend = credstore.BackendMemory

	store := credstore.NewMemoryStore()
	out := &bytes.Buffer{}
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	app := newApp(cfg, logging.Discard(), store, func() error { return nil }, in, out)

	orig := getPassword
	getPassword = func(string, io.Writer) ([]byte, error) {
		require.NotEmpty(t, passwords, "unexpected password prompt")
		pw := passwords[0]
		passwords = passwords[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })

	return &testApp{App: app, srv: srv, store: store, out: out}
}

func TestApp_LoginBookAndCancel(t *testing.T) {
	ta := newTestApp(t, []string{"neo"}, "secret")
	ta.srv.AddUser("neo", "secret", "neo@zion.io")
	ta.srv.AddMovie(models.Movie{Title: "The Matrix", Slug: "the-matrix", Genre: "sci-fi", Duration: 136})
	seats := ta.srv.AddShow(4, "A1", "A2")
	ctx := context.Background()

	require.NoError(t, ta.Login(ctx))
	require.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.getStatus(), "neo")
	assert.Contains(t, ta.out.String(), "Logged in as neo")

	require.NoError(t, ta.Movies(ctx))
	assert.Contains(t, ta.out.String(), "the-matrix")

	require.NoError(t, ta.Book(ctx, []string{"4", strconvID(seats[1].ID)}))
	assert.Contains(t, ta.out.String(), "Booked: booking #")

	require.NoError(t, ta.Tickets(ctx))
	assert.Contains(t, ta.out.String(), "seat A2")

	list, err := ta.bookingService.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, ta.Cancel(ctx, []string{strconvID(list[0].ID)}))
	assert.Contains(t, ta.out.String(), "cancelled")

	require.NoError(t, ta.Logout(ctx))
	assert.False(t, ta.isLoggedIn())
	assert.Empty(t, ta.store.Snapshot())
}

func TestApp_LoginInvalidCredentials(t *testing.T) {
	ta := newTestApp(t, []string{"neo"}, "wrong")
	ta.srv.AddUser("neo", "secret", "neo@zion.io")

	require.NoError(t, ta.Login(context.Background()))
	assert.False(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Login unsuccessful")
}

func TestApp_SessionExpiryDropsLogin(t *testing.T) {
	ta := newTestApp(t, []string{"neo"}, "secret")
	ta.srv.AddUser("neo", "secret", "neo@zion.io")
	ctx := context.Background()
	require.NoError(t, ta.Login(ctx))

	ta.srv.ExpireAccessTokens()
	require.NoError(t, ta.Bookings(ctx), "refresh is transparent")
	assert.True(t, ta.isLoggedIn())

	ta.srv.ExpireAccessTokens()
	ta.srv.RevokeRefreshTokens()
	err := ta.Bookings(ctx)
	require.ErrorIs(t, err, api.ErrSessionExpired)
	assert.False(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Session ended")
	assert.Empty(t, ta.store.Snapshot())
}

func TestApp_RegisterWithAvatarLogsIn(t *testing.T) {
	avatar := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(avatar, []byte("png"), 0o600))

	ta := newTestApp(t, []string{"trinity", "trinity@zion.io", "", "Zion", "", avatar}, "matrix", "matrix")

	require.NoError(t, ta.Register(context.Background()))
	assert.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Registered trinity")

	require.NoError(t, ta.Profile(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "location: Zion")
	assert.Contains(t, ta.out.String(), "me.png")
}

func TestApp_RegisterPasswordMismatch(t *testing.T) {
	ta := newTestApp(t, []string{"trinity", "trinity@zion.io", "", "", "", ""}, "matrix", "matrlx")

	require.ErrorIs(t, ta.Register(context.Background()), errPasswordMismatch)
	assert.Zero(t, ta.srv.Hits("POST", "/api/users/register/"))
}

func TestApp_ProfileEdit(t *testing.T) {
	ta := newTestApp(t, []string{"neo", "", "Zion", ""}, "secret")
	ta.srv.AddUser("neo", "secret", "neo@zion.io")
	ctx := context.Background()
	require.NoError(t, ta.Login(ctx))

	require.NoError(t, ta.Profile(ctx, []string{"edit"}))
	assert.Contains(t, ta.out.String(), "Profile updated")
	assert.Contains(t, ta.out.String(), "location: Zion")
}

func TestApp_UsageAndBadIDs(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, ta.Movie(ctx, nil))
	require.NoError(t, ta.Book(ctx, []string{"4"}))
	assert.Contains(t, ta.out.String(), "Usage: movie <slug>")
	assert.Contains(t, ta.out.String(), "Usage: book <show> <seat>...")

	require.Error(t, ta.Seats(ctx, []string{"x"}))
	require.Error(t, ta.Cancel(ctx, []string{"-1"}))
}

func TestApp_RestoreSessionAndConnectivity(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx := context.Background()

	ta.restoreSession(ctx)
	assert.Contains(t, ta.out.String(), "Not logged in")

	require.NoError(t, credstore.SaveCredential(ctx, ta.store, credstore.Credential{
		AccessToken: "A", RefreshToken: "R", User: []byte(`{"id":1,"username":"neo"}`),
	}))
	ta.restoreSession(ctx)
	assert.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Welcome back, neo")

	ta.checkOnline(ctx)
	assert.Contains(t, ta.getStatus(), string(ModeOnline))

	ta.srv.Close()
	ta.checkOnline(ctx)
	assert.Contains(t, ta.getStatus(), string(ModeOffline))
}

func TestApp_RootRunsUntilExit(t *testing.T) {
	capturePrint(t)
	ta := newTestApp(t, []string{"help", "movies", "exit"})

	done := make(chan struct{})
	go func() {
		ta.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("REPL did not exit")
	}
	assert.Contains(t, ta.out.String(), "Welcome to CineBook CLI")
	assert.Contains(t, ta.out.String(), "No movies")
}

func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}
