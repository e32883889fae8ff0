package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
)

type stubReviewRepo struct {
	purchased bool
	created   *models.Review
}

func (s *stubReviewRepo) Create(ctx context.Context, review *models.Review) error {
	review.ID = uuid.New()
	s.created = review
	return nil
}

func (s *stubReviewRepo) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return s.purchased, nil
}

func (s *stubReviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) ([]models.Review, string, error) {
	return nil, "", nil
}

type stubProductLoader struct {
	missing bool
}

func (s *stubProductLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.missing {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Product{ID: id}, nil
}

func TestCreateDerivesVerifiedPurchase(t *testing.T) {
	t.Parallel()

	repo := &stubReviewRepo{purchased: true}
	svc, err := NewService(repo, &stubProductLoader{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), uuid.New(), CreateReviewRequest{
		ProductID: uuid.New(),
		Rating:    5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dto.IsVerifiedPurchase {
		t.Fatal("expected verified purchase badge")
	}
	if repo.created == nil || !repo.created.IsVerifiedPurchase {
		t.Fatal("badge must be persisted, not just projected")
	}
}

func TestCreateRejectsOutOfRangeRating(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubReviewRepo{}, &stubProductLoader{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), uuid.New(), CreateReviewRequest{
			ProductID: uuid.New(),
			Rating:    rating,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}
}

func TestCreateUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubReviewRepo{}, &stubProductLoader{missing: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), CreateReviewRequest{
		ProductID: uuid.New(),
		Rating:    4,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
