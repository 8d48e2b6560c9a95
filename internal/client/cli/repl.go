package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Movies(ctx context.Context) error
	Movie(ctx context.Context, args []string) error
	Seats(ctx context.Context, args []string) error
	Book(ctx context.Context, args []string) error
	Bookings(ctx context.Context) error
	Cancel(ctx context.Context, args []string) error
	Tickets(ctx context.Context) error
	Ticket(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
}

const (
	guestHelp  = "Available commands: register, login, movies, movie <slug>, seats <show>, exit"
	memberHelp = "Available commands: movies, movie <slug>, seats <show>, book <show> <seat>..., bookings, cancel <id>, tickets, ticket <id>, profile [edit], logout, exit"
)

// memberOnly lists commands that need a logged-in user.
var memberOnly = map[string]bool{
	"book": true, "bookings": true, "cancel": true,
	"tickets": true, "ticket": true, "profile": true, "logout": true,
}

// runREPL starts a simple read–eval–print loop for the CineBook CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as its arguments, and dispatches to methods on 'a'. The loop exits
// on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed. An expired session is
// not, since the session hook already told the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("cinebook %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if memberOnly[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(memberHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "movies":
			cmdErr = a.Movies(ctx)
		case "movie":
			cmdErr = a.Movie(ctx, args)
		case "seats":
			cmdErr = a.Seats(ctx, args)
		case "book":
			cmdErr = a.Book(ctx, args)
		case "bookings":
			cmdErr = a.Bookings(ctx)
		case "cancel":
			cmdErr = a.Cancel(ctx, args)
		case "tickets":
			cmdErr = a.Tickets(ctx)
		case "ticket":
			cmdErr = a.Ticket(ctx, args)
		case "profile":
			cmdErr = a.Profile(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil && !errors.Is(cmdErr, api.ErrSessionExpired) {
			printlnFn("Error:", cmdErr)
		}
	}
}
