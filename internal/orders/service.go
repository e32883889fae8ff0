package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
)

// Service exposes the customer order history surface.
type Service interface {
	History(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPage, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
}

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.Order, string, error)
}

type service struct {
	repo orderRepository
}

// NewService constructs an order history service.
func NewService(repo orderRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{repo: repo}, nil
}

// History returns the user's placed orders, newest first.
func (s *service) History(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPage, error) {
	if userID == uuid.Nil {
		return OrderPage{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	records, nextCursor, err := s.repo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return OrderPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	items := make([]OrderDTO, 0, len(records))
	for i := range records {
		items = append(items, FromModel(&records[i]))
	}
	return OrderPage{Items: items, NextCursor: nextCursor}, nil
}

// Get loads a single order and enforces ownership.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and order id are required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	dto := FromModel(order)
	return &dto, nil
}
