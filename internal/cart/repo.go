package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns all of a user's cart lines with product and variant
// hydration, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Product").
		Preload("Variant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Upsert inserts the line or, when the (user, product, variant) key
// already exists, replaces the stored quantity with the incoming one.
func (r *Repository) Upsert(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "product_id"},
				{Name: "variant_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   line.Quantity,
				"updated_at": gorm.Expr("now()"),
			}),
		}).
		Create(line).Error
}

// UpdateQuantity sets the quantity on an existing line. A missing line
// is a no-op, matching the synchronizer's tolerant update semantics.
func (r *Repository) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND product_id = ? AND variant_id IS NOT DISTINCT FROM ?", userID, productID, variantID).
		Update("quantity", quantity).Error
}

// Delete removes the line for the given key if present.
func (r *Repository) Delete(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND variant_id IS NOT DISTINCT FROM ?", userID, productID, variantID).
		Delete(&models.CartLine{}).Error
}

// DeleteAll empties the user's cart.
func (r *Repository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartLine{}).Error
}
