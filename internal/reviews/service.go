package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
)

// Service exposes product review reads and writes.
type Service interface {
	ListForProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) (ReviewPage, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error)
}

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) ([]models.Review, string, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     reviewRepository
	products productLoader
}

// NewService constructs a reviews service.
func NewService(repo reviewRepository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{repo: repo, products: products}, nil
}

// ListForProduct returns a product's reviews, newest first.
func (s *service) ListForProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) (ReviewPage, error) {
	if productID == uuid.Nil {
		return ReviewPage{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	records, nextCursor, err := s.repo.ListByProduct(ctx, productID, cursor, limit)
	if err != nil {
		return ReviewPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	items := make([]ReviewDTO, 0, len(records))
	for _, record := range records {
		items = append(items, fromModel(record))
	}
	return ReviewPage{Items: items, NextCursor: nextCursor}, nil
}

// Create posts a review after confirming the product exists. The
// verified-purchase badge is derived, never client-supplied.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if req.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	purchased, err := s.repo.HasPurchased(ctx, userID, req.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}

	review := &models.Review{
		ProductID:          req.ProductID,
		UserID:             userID,
		Rating:             req.Rating,
		Title:              req.Title,
		Content:            req.Content,
		IsVerifiedPurchase: purchased,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	dto := fromModel(*review)
	return &dto, nil
}
