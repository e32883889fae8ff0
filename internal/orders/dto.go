package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	"github.com/luiscarvajal/velamart-backend/pkg/enums"
	"github.com/luiscarvajal/velamart-backend/pkg/types"
)

// ItemDTO is one frozen line of a placed order.
type ItemDTO struct {
	ID              uuid.UUID             `json:"id"`
	ProductID       uuid.UUID             `json:"product_id"`
	VariantID       *uuid.UUID            `json:"variant_id,omitempty"`
	Quantity        int                   `json:"quantity"`
	UnitPrice       decimal.Decimal       `json:"unit_price"`
	TotalPrice      decimal.Decimal       `json:"total_price"`
	ProductSnapshot types.ProductSnapshot `json:"product_snapshot"`
}

// OrderDTO is the customer-facing projection of an order.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	ShippingAmount  decimal.Decimal     `json:"shipping_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Currency        string              `json:"currency"`
	PaymentMethod   *string             `json:"payment_method,omitempty"`
	ShippingAddress types.Address       `json:"shipping_address"`
	BillingAddress  types.Address       `json:"billing_address"`
	Notes           *string             `json:"notes,omitempty"`
	TrackingNumber  *string             `json:"tracking_number,omitempty"`
	Items           []ItemDTO           `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

// OrderPage is a cursor-paginated slice of a user's order history.
type OrderPage struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel projects an order model into its DTO.
func FromModel(order *models.Order) OrderDTO {
	if order == nil {
		return OrderDTO{}
	}
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ID:              item.ID,
			ProductID:       item.ProductID,
			VariantID:       item.VariantID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			TotalPrice:      item.TotalPrice,
			ProductSnapshot: item.ProductSnapshot,
		})
	}
	return OrderDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		Subtotal:        order.Subtotal,
		TaxAmount:       order.TaxAmount,
		ShippingAmount:  order.ShippingAmount,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Notes:           order.Notes,
		TrackingNumber:  order.TrackingNumber,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}
