package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Movies(ctx context.Context) error { return f.record("movies", nil) }
func (f *fakeExec) Movie(ctx context.Context, args []string) error {
	return f.record("movie", args)
}
func (f *fakeExec) Seats(ctx context.Context, args []string) error {
	return f.record("seats", args)
}
func (f *fakeExec) Book(ctx context.Context, args []string) error {
	return f.record("book", args)
}
func (f *fakeExec) Bookings(ctx context.Context) error { return f.record("bookings", nil) }
func (f *fakeExec) Cancel(ctx context.Context, args []string) error {
	return f.record("cancel", args)
}
func (f *fakeExec) Tickets(ctx context.Context) error { return f.record("tickets", nil) }
func (f *fakeExec) Ticket(ctx context.Context, args []string) error {
	return f.record("ticket", args)
}
func (f *fakeExec) Profile(ctx context.Context, args []string) error {
	return f.record("profile", args)
}

// capturePrint replaces printlnFn for the test and returns the printed lines.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, input(
		"help",
		"bookings",
		"login",
		"help",
		"movies",
		"movie the-matrix",
		"seats 4",
		"book 4 11 12",
		"bookings",
		"cancel 9",
		"tickets",
		"ticket 3",
		"profile edit",
		"",
		"foobar",
		"logout",
		"exit",
		"movies",
	))

	require.Equal(t, []string{
		"login", "movies", "movie", "seats", "book", "bookings",
		"cancel", "tickets", "ticket", "profile", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"4", "11", "12"}, exec.args[4])
	assert.Equal(t, []string{"edit"}, exec.args[9])
}

func TestRunREPL_MemberCommandsNeedLogin(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, input("tickets", "profile", "quit"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *lines, "Please log in first")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_PrintsErrors(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "" }, input("bookings"))

	assert.Contains(t, *lines, "Error: boom")
}

func TestRunREPL_SessionExpiryIsNotReportedTwice(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{loggedIn: true, err: fmt.Errorf("%w: refresh rejected", api.ErrSessionExpired)}
	runREPL(context.Background(), exec, func() string { return "" }, input("bookings", "exit"))

	for _, l := range *lines {
		assert.NotContains(t, l, "Error:")
	}
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrint(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, input("login"))
	assert.Empty(t, exec.calls)
}
