package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents the canonical seller listing. Read-only from the
// storefront's perspective; sellers mutate it through their own surface.
type Product struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID          uuid.UUID        `gorm:"column:seller_id;type:uuid;not null;index"`
	CategoryID        uuid.UUID        `gorm:"column:category_id;type:uuid;not null;index"`
	Name              string           `gorm:"column:name;not null"`
	Slug              string           `gorm:"column:slug;not null;uniqueIndex"`
	Description       *string          `gorm:"column:description"`
	ShortDescription  *string          `gorm:"column:short_description"`
	SKU               *string          `gorm:"column:sku"`
	Price             decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	ComparePrice      *decimal.Decimal `gorm:"column:compare_price;type:numeric(10,2)"`
	StockQuantity     int              `gorm:"column:stock_quantity;not null;default:0"`
	LowStockThreshold int              `gorm:"column:low_stock_threshold;not null;default:5"`
	Rating            decimal.Decimal  `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	ReviewCount       int              `gorm:"column:review_count;not null;default:0"`
	ViewCount         int              `gorm:"column:view_count;not null;default:0"`
	IsFeatured        bool             `gorm:"column:is_featured;not null;default:false"`
	IsActive          bool             `gorm:"column:is_active;not null;default:true"`
	Seller            *Seller          `gorm:"foreignKey:SellerID"`
	Category          *Category        `gorm:"foreignKey:CategoryID"`
	Images            []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants          []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
