package models

import (
	"fmt"
	"time"
)

type Seat struct {
	ID         int64  `json:"id"`
	SeatNumber string `json:"seat_number"`
	SeatType   string `json:"seat_type"`
	Price      string `json:"price"`
	IsBooked   bool   `json:"is_booked"`
}

type Ticket struct {
	Code     string    `json:"ticket_code"`
	IssuedAt time.Time `json:"issued_at"`
	QRCode   string    `json:"qr_code,omitempty"`
	Seat     Seat      `json:"seat"`
}

type Booking struct {
	ID         int64     `json:"id"`
	Show       int64     `json:"show"`
	Seats      []int64   `json:"seats"`
	TotalPrice string    `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
	Tickets    []Ticket  `json:"tickets,omitempty"`
}

// BookingRequest is the body of a booking creation.
type BookingRequest struct {
	Show  int64   `json:"show"`
	Seats []int64 `json:"seats"`
}

func (s Seat) String() string {
	state := "free"
	if s.IsBooked {
		state = "booked"
	}
	return fmt.Sprintf("#%d %s (%s, %s) %s", s.ID, s.SeatNumber, s.SeatType, s.Price, state)
}

func (t Ticket) String() string {
	return fmt.Sprintf("%s seat %s issued %s", t.Code, t.Seat.SeatNumber, t.IssuedAt.Format(time.RFC3339))
}

func (b Booking) String() string {
	return fmt.Sprintf("booking #%d show %d seats %v total %s", b.ID, b.Show, b.Seats, b.TotalPrice)
}
