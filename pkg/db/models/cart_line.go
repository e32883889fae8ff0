package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one product (optionally variant-qualified) entry in a user's
// cart. Uniqueness per (user, product, variant) is enforced by the store's
// upsert conflict key, never by synchronizer logic.
type CartLine struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:cart_lines_user_id_idx;uniqueIndex:cart_lines_user_product_variant_key"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_lines_user_product_variant_key"`
	VariantID *uuid.UUID      `gorm:"column:variant_id;type:uuid;uniqueIndex:cart_lines_user_product_variant_key"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
