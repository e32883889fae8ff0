package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
)

// ProductSummary is the catalog listing projection.
type ProductSummary struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Price         decimal.Decimal  `json:"price"`
	ComparePrice  *decimal.Decimal `json:"compare_price,omitempty"`
	Rating        decimal.Decimal  `json:"rating"`
	ReviewCount   int              `json:"review_count"`
	StockQuantity int              `json:"stock_quantity"`
	IsFeatured    bool             `json:"is_featured"`
	ThumbnailURL  *string          `json:"thumbnail_url,omitempty"`
	SellerName    string           `json:"seller_name,omitempty"`
	CategorySlug  string           `json:"category_slug,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// VariantDTO is the selectable option projection.
type VariantDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Value           string          `json:"value"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	StockQuantity   int             `json:"stock_quantity"`
}

// ImageDTO is one entry of the ordered gallery.
type ImageDTO struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	AltText   *string   `json:"alt_text,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsPrimary bool      `json:"is_primary"`
}

// ProductDetail is the full product page projection.
type ProductDetail struct {
	ProductSummary
	Description      *string      `json:"description,omitempty"`
	ShortDescription *string      `json:"short_description,omitempty"`
	SKU              *string      `json:"sku,omitempty"`
	Images           []ImageDTO   `json:"images"`
	Variants         []VariantDTO `json:"variants"`
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	CategorySlug string
	SellerID     *uuid.UUID
	Search       string
	FeaturedOnly bool
	Cursor       string
	Limit        int
}

// ProductPage is a cursor-paginated slice of the catalog.
type ProductPage struct {
	Items      []ProductSummary `json:"items"`
	Total      int64            `json:"total"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func summaryFromModel(p models.Product) ProductSummary {
	summary := ProductSummary{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Price:         p.Price,
		ComparePrice:  p.ComparePrice,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		StockQuantity: p.StockQuantity,
		IsFeatured:    p.IsFeatured,
		CreatedAt:     p.CreatedAt,
	}
	if url := primaryImageURL(p.Images); url != "" {
		summary.ThumbnailURL = &url
	}
	if p.Seller != nil {
		summary.SellerName = p.Seller.BusinessName
	}
	if p.Category != nil {
		summary.CategorySlug = p.Category.Slug
	}
	return summary
}

func detailFromModel(p models.Product) ProductDetail {
	detail := ProductDetail{
		ProductSummary:   summaryFromModel(p),
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		SKU:              p.SKU,
		Images:           make([]ImageDTO, 0, len(p.Images)),
		Variants:         make([]VariantDTO, 0, len(p.Variants)),
	}
	for _, img := range p.Images {
		detail.Images = append(detail.Images, ImageDTO{
			ID:        img.ID,
			URL:       img.URL,
			AltText:   img.AltText,
			SortOrder: img.SortOrder,
			IsPrimary: img.IsPrimary,
		})
	}
	for _, v := range p.Variants {
		detail.Variants = append(detail.Variants, VariantDTO{
			ID:              v.ID,
			Name:            v.Name,
			Value:           v.Value,
			PriceAdjustment: v.PriceAdjustment,
			StockQuantity:   v.StockQuantity,
		})
	}
	return detail
}

// primaryImageURL picks the flagged primary image, falling back to the
// first by sort order.
func primaryImageURL(images []models.ProductImage) string {
	if len(images) == 0 {
		return ""
	}
	best := images[0]
	for _, img := range images[1:] {
		if img.IsPrimary && !best.IsPrimary {
			best = img
			continue
		}
		if img.IsPrimary == best.IsPrimary && img.SortOrder < best.SortOrder {
			best = img
		}
	}
	return best.URL
}
