package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Seller is the storefront profile owned by a user with the seller role.
type Seller struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BusinessName string          `gorm:"column:business_name;not null"`
	Description  *string         `gorm:"column:description"`
	LogoURL      *string         `gorm:"column:logo_url"`
	WebsiteURL   *string         `gorm:"column:website_url"`
	Phone        *string         `gorm:"column:phone"`
	Rating       decimal.Decimal `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	TotalSales   int             `gorm:"column:total_sales;not null;default:0"`
	IsVerified   bool            `gorm:"column:is_verified;not null;default:false"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
