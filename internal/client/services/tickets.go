package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/cinebook/internal/client/api"
	"github.com/dmitrijs2005/cinebook/internal/client/models"
	"github.com/dmitrijs2005/cinebook/internal/common"
)

type TicketService interface {
	List(ctx context.Context) ([]models.Ticket, error)
	Get(ctx context.Context, id int64) (models.Ticket, error)
}

type ticketService struct {
	sender api.Sender
}

func NewTicketService(sender api.Sender) TicketService {
	return &ticketService{sender: sender}
}

func (s *ticketService) List(ctx context.Context) ([]models.Ticket, error) {
	var out []models.Ticket
	if err := getJSON(ctx, s.sender, common.TicketsPath, &out); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return out, nil
}

func (s *ticketService) Get(ctx context.Context, id int64) (models.Ticket, error) {
	var out models.Ticket
	if err := getJSON(ctx, s.sender, common.TicketsPath+strconv.FormatInt(id, 10)+"/", &out); err != nil {
		return models.Ticket{}, fmt.Errorf("get ticket %d: %w", id, err)
	}
	return out, nil
}
