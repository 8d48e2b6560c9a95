package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cinebook/internal/client/models"
)

// Book books the given seat ids for a show.
func (a *App) Book(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: book <show> <seat>...")
		return nil
	}
	show, err := parseID(args[0])
	if err != nil {
		return err
	}
	seats := make([]int64, 0, len(args)-1)
	for _, s := range args[1:] {
		id, err := parseID(s)
		if err != nil {
			return err
		}
		seats = append(seats, id)
	}

	b, err := a.bookingService.Create(ctx, show, seats)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Booked: %s\n", b)
	printTickets(a, b.Tickets)
	return nil
}

func (a *App) Bookings(ctx context.Context) error {
	list, err := a.bookingService.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No bookings")
		return nil
	}
	for _, b := range list {
		fmt.Fprintln(a.out, b)
	}
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: cancel <id>")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.bookingService.Cancel(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Booking %d cancelled\n", id)
	return nil
}

func (a *App) Tickets(ctx context.Context) error {
	list, err := a.ticketService.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tickets")
		return nil
	}
	printTickets(a, list)
	return nil
}

func (a *App) Ticket(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: ticket <id>")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	t, err := a.ticketService.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, t)
	return nil
}

func printTickets(a *App, tickets []models.Ticket) {
	for _, t := range tickets {
		fmt.Fprintf(a.out, "  %s\n", t)
	}
}
