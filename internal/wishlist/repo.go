package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns all wishlist lines with product hydration, newest
// first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistLine, error) {
	var lines []models.WishlistLine
	err := r.db.WithContext(ctx).
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Add appends a wishlist line. There is no conflict key; adding the
// same product twice stores two rows.
func (r *Repository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	line := models.WishlistLine{UserID: userID, ProductID: productID}
	return r.db.WithContext(ctx).Create(&line).Error
}

// Remove deletes every line the user holds for the product.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistLine{}).Error
}
