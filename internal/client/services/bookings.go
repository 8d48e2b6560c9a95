package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/models"
	"github.com/dmitrijs2005/cinebook/internal/common"
)

// BookingService manages the bookings of the logged-in user and lists the
// free seats of a show.
type BookingService interface {
	List(ctx context.Context) ([]models.Booking, error)
	Create(ctx context.Context, show int64, seats []int64) (models.Booking, error)
	Cancel(ctx context.Context, id int64) error
	Seats(ctx context.Context, show int64) ([]models.Seat, error)
}

type bookingService struct {
	sender api.Sender
}

// NewBookingService expects an authenticated sender.
func NewBookingService(sender api.Sender) BookingService {
	return &bookingService{sender: sender}
}

func (s *bookingService) List(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := getJSON(ctx, s.sender, common.BookingsPath, &out); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (s *bookingService) Create(ctx context.Context, show int64, seats []int64) (models.Booking, error) {
	if show <= 0 || len(seats) == 0 {
		return models.Booking{}, common.ErrInvalidInput
	}

	var out models.Booking
	req := api.Post(common.BookingCreate, models.BookingRequest{Show: show, Seats: seats})
	if err := doJSON(ctx, s.sender, req, &out); err != nil {
		return models.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return out, nil
}

func (s *bookingService) Cancel(ctx context.Context, id int64) error {
	if err := doJSON(ctx, s.sender, api.Delete(common.BookingsPath+strconv.FormatInt(id, 10)+"/"), nil); err != nil {
		return fmt.Errorf("cancel booking %d: %w", id, err)
	}
	return nil
}

func (s *bookingService) Seats(ctx context.Context, show int64) ([]models.Seat, error) {
	var out []models.Seat
	if err := getJSON(ctx, s.sender, common.SeatsPath+strconv.FormatInt(show, 10)+"/", &out); err != nil {
		return nil, fmt.Errorf("list seats of show %d: %w", show, err)
	}
	return out, nil
}
