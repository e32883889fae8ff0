package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistLine links a user to a saved-for-later product. No uniqueness
// constraint: a second add for the same product yields a second line.
type WishlistLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:wishlist_lines_user_id_idx"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:wishlist_lines_product_id_idx"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
