package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
	"github.com/luiscarvajal/velamart-backend/pkg/logger"
)

// Service exposes the read-only catalog surface.
type Service interface {
	GetBySlug(ctx context.Context, slug string) (*ProductDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	List(ctx context.Context, filter ListFilter) (ProductPage, error)
}

type catalogRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) (ProductPage, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo catalogRepository
	log  *logger.Logger
}

// NewService constructs a catalog service.
func NewService(repo catalogRepository, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: repo, log: log}, nil
}

// GetBySlug loads the product page projection and bumps the view counter.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, mapLookupError(err)
	}
	s.countView(ctx, product.ID)
	detail := detailFromModel(*product)
	return &detail, nil
}

// GetByID loads the product page projection by UUID.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	detail := detailFromModel(*product)
	return &detail, nil
}

// List returns a filtered catalog page.
func (s *service) List(ctx context.Context, filter ListFilter) (ProductPage, error) {
	page, err := s.repo.List(ctx, filter)
	if err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

// countView failures never surface to the caller.
func (s *service) countView(ctx context.Context, id uuid.UUID) {
	if err := s.repo.IncrementViewCount(ctx, id); err != nil {
		ctx = s.log.WithField(ctx, "product_id", id.String())
		s.log.Warn(ctx, "increment view count failed")
	}
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
}
