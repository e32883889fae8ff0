package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	"github.com/luiscarvajal/velamart-backend/pkg/pagination"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads an active product with its gallery, variants, seller,
// and category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Variants", "is_active = true").
		Preload("Seller").
		Preload("Category").
		First(&product, "id = ? AND is_active = true", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads an active product by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Variants", "is_active = true").
		Preload("Seller").
		Preload("Category").
		First(&product, "slug = ? AND is_active = true", slug).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVariant loads an active variant belonging to the given product.
func (r *Repository) FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		First(&variant, "id = ? AND product_id = ? AND is_active = true", variantID, productID).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// List returns a cursor-paginated slice of the active catalog.
func (r *Repository) List(ctx context.Context, filter ListFilter) (ProductPage, error) {
	normalizedLimit := pagination.NormalizeLimit(filter.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filter.Limit)
	decodedCursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return ProductPage{}, err
	}

	base := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("products.is_active = true")

	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		base = base.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", slug)
	}
	if filter.SellerID != nil {
		base = base.Where("products.seller_id = ?", *filter.SellerID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		base = base.Where("products.name ILIKE ? OR products.description ILIKE ?", pattern, pattern)
	}
	if filter.FeaturedOnly {
		base = base.Where("products.is_featured = true")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return ProductPage{}, err
	}

	query := base.Session(&gorm.Session{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Seller").
		Preload("Category")

	if decodedCursor != nil {
		query = query.Where(
			"(products.created_at < ?) OR (products.created_at = ? AND products.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	var records []models.Product
	err = query.Order("products.created_at DESC").
		Order("products.id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error
	if err != nil {
		return ProductPage{}, err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items := make([]ProductSummary, 0, len(records))
	for _, record := range records {
		items = append(items, summaryFromModel(record))
	}

	return ProductPage{Items: items, Total: total, NextCursor: nextCursor}, nil
}

// IncrementViewCount bumps the product's view counter.
func (r *Repository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
