package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
)

// LineProduct is the denormalized product slice carried on each line so
// totals and rendering never need a second lookup.
type LineProduct struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
}

// LineVariant is the chosen option carried on a line.
type LineVariant struct {
	Name            string          `json:"name"`
	Value           string          `json:"value"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// Line is one cart entry as held in the local mirror.
type Line struct {
	ID        uuid.UUID    `json:"id"`
	ProductID uuid.UUID    `json:"product_id"`
	VariantID *uuid.UUID   `json:"variant_id,omitempty"`
	Quantity  int          `json:"quantity"`
	Product   *LineProduct `json:"product,omitempty"`
	Variant   *LineVariant `json:"variant,omitempty"`
}

// UnitPrice is the product base price plus the variant adjustment. A
// line whose product failed to hydrate contributes zero.
func (l Line) UnitPrice() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}
	price := l.Product.Price
	if l.Variant != nil {
		price = price.Add(l.Variant.PriceAdjustment)
	}
	return price
}

// Subtotal is the unit price times the quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func lineFromModel(m models.CartLine) Line {
	line := Line{
		ID:        m.ID,
		ProductID: m.ProductID,
		VariantID: m.VariantID,
		Quantity:  m.Quantity,
	}
	if m.Product != nil {
		line.Product = &LineProduct{
			Name:     m.Product.Name,
			Price:    m.Product.Price,
			ImageURL: firstImageURL(m.Product.Images),
		}
	}
	if m.Variant != nil {
		line.Variant = &LineVariant{
			Name:            m.Variant.Name,
			Value:           m.Variant.Value,
			PriceAdjustment: m.Variant.PriceAdjustment,
		}
	}
	return line
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
