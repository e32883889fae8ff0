package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/luiscarvajal/velamart-backend/internal/cart"
)

var (
	taxRate               = decimal.RequireFromString("0.10")
	freeShippingThreshold = decimal.RequireFromString("50")
	flatShippingRate      = decimal.RequireFromString("9.99")
)

// Quote is the derived money breakdown for a cart. Values are kept
// unrounded; rounding happens at the rendering edge.
type Quote struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// BuildQuote derives the checkout totals from cart lines. Tax is a flat
// 10% of the subtotal. Shipping is free at a 50.00 subtotal or above,
// otherwise a 9.99 flat rate. An empty cart still pays flat shipping in
// the quote; order placement rejects empty carts before it matters.
func BuildQuote(lines []cart.Line) Quote {
	subtotal := decimal.Zero
	itemCount := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
		itemCount += line.Quantity
	}

	tax := subtotal.Mul(taxRate)
	shipping := flatShippingRate
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Quote{
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  shipping,
		Total:     subtotal.Add(tax).Add(shipping),
		ItemCount: itemCount,
	}
}
