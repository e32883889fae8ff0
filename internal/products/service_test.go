package products

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
	"github.com/luiscarvajal/velamart-backend/pkg/logger"
)

func TestGetBySlugNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCatalogRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.GetBySlug(context.Background(), "missing-product")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetBySlugRequiresSlug(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCatalogRepo{})

	_, err := svc.GetBySlug(context.Background(), "   ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBySlugSurvivesViewCountFailure(t *testing.T) {
	t.Parallel()

	product := &models.Product{ID: uuid.New(), Name: "Walnut Desk Lamp", Slug: "walnut-desk-lamp"}
	repo := &stubCatalogRepo{product: product, viewErr: context.DeadlineExceeded}
	svc := newTestService(t, repo)

	detail, err := svc.GetBySlug(context.Background(), product.Slug)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != product.ID {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestPrimaryImageURLPrefersFlaggedImage(t *testing.T) {
	t.Parallel()

	images := []models.ProductImage{
		{URL: "https://cdn.velamart.test/a.jpg", SortOrder: 0},
		{URL: "https://cdn.velamart.test/b.jpg", SortOrder: 2, IsPrimary: true},
		{URL: "https://cdn.velamart.test/c.jpg", SortOrder: 1},
	}
	if got := primaryImageURL(images); got != "https://cdn.velamart.test/b.jpg" {
		t.Fatalf("unexpected primary image: %s", got)
	}
	if got := primaryImageURL(nil); got != "" {
		t.Fatalf("expected empty url for no images, got %s", got)
	}
}

func newTestService(t *testing.T, repo catalogRepository) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubCatalogRepo struct {
	product *models.Product
	findErr error
	viewErr error
}

func (s *stubCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.product, nil
}

func (s *stubCatalogRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.product, nil
}

func (s *stubCatalogRepo) List(ctx context.Context, filter ListFilter) (ProductPage, error) {
	return ProductPage{}, nil
}

func (s *stubCatalogRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return s.viewErr
}
