package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating attached to a product, optionally tied to the
// order item that proves the purchase.
type Review struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	UserID             uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	OrderItemID        *uuid.UUID `gorm:"column:order_item_id;type:uuid"`
	Rating             int        `gorm:"column:rating;not null"`
	Title              *string    `gorm:"column:title"`
	Content            *string    `gorm:"column:content"`
	IsVerifiedPurchase bool       `gorm:"column:is_verified_purchase;not null;default:false"`
	HelpfulCount       int        `gorm:"column:helpful_count;not null;default:0"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
