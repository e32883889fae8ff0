package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
)

// ItemProduct is the denormalized product slice carried on each entry.
type ItemProduct struct {
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
}

// Item is one wishlist entry as held in the local mirror. Duplicate
// entries for the same product are legal; the store has no uniqueness
// key and a second add yields a second row.
type Item struct {
	ID        uuid.UUID    `json:"id"`
	ProductID uuid.UUID    `json:"product_id"`
	Product   *ItemProduct `json:"product,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func itemFromModel(m models.WishlistLine) Item {
	item := Item{
		ID:        m.ID,
		ProductID: m.ProductID,
		CreatedAt: m.CreatedAt,
	}
	if m.Product != nil {
		item.Product = &ItemProduct{
			Name:     m.Product.Name,
			Slug:     m.Product.Slug,
			Price:    m.Product.Price,
			ImageURL: firstImageURL(m.Product.Images),
		}
	}
	return item
}

func firstImageURL(images []models.ProductImage) string {
	for _, img := range images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}
