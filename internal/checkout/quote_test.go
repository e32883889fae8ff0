package checkout

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/luiscarvajal/velamart-backend/internal/cart"
)

func line(price string, qty int) cart.Line {
	return cart.Line{
		Quantity: qty,
		Product:  &cart.LineProduct{Name: "x", Price: decimal.RequireFromString(price)},
	}
}

func TestBuildQuoteBelowFreeShippingThreshold(t *testing.T) {
	t.Parallel()

	quote := BuildQuote([]cart.Line{line("12.00", 2)})

	assertDecimal(t, "subtotal", quote.Subtotal, "24.00")
	assertDecimal(t, "tax", quote.Tax, "2.40")
	assertDecimal(t, "shipping", quote.Shipping, "9.99")
	assertDecimal(t, "total", quote.Total, "36.39")
	if quote.ItemCount != 2 {
		t.Fatalf("expected 2 items, got %d", quote.ItemCount)
	}
}

func TestBuildQuoteAtThresholdShipsFree(t *testing.T) {
	t.Parallel()

	quote := BuildQuote([]cart.Line{line("25.00", 2)})

	assertDecimal(t, "subtotal", quote.Subtotal, "50.00")
	assertDecimal(t, "shipping", quote.Shipping, "0")
	assertDecimal(t, "total", quote.Total, "55.00")
}

func TestBuildQuoteJustBelowThreshold(t *testing.T) {
	t.Parallel()

	quote := BuildQuote([]cart.Line{line("49.99", 1)})

	assertDecimal(t, "shipping", quote.Shipping, "9.99")
	// 49.99 + 4.999 + 9.99
	assertDecimal(t, "total", quote.Total, "64.979")
}

func TestBuildQuoteVariantAdjustmentFlows(t *testing.T) {
	t.Parallel()

	withVariant := cart.Line{
		Quantity: 1,
		Product:  &cart.LineProduct{Name: "shirt", Price: decimal.RequireFromString("45.00")},
		Variant:  &cart.LineVariant{Name: "Size", Value: "XL", PriceAdjustment: decimal.RequireFromString("5.00")},
	}
	quote := BuildQuote([]cart.Line{withVariant})

	// Adjustment pushes the subtotal over the free-shipping line.
	assertDecimal(t, "subtotal", quote.Subtotal, "50.00")
	assertDecimal(t, "shipping", quote.Shipping, "0")
}

func TestBuildQuoteMissingProductPricesZero(t *testing.T) {
	t.Parallel()

	quote := BuildQuote([]cart.Line{{Quantity: 3}})

	assertDecimal(t, "subtotal", quote.Subtotal, "0")
	assertDecimal(t, "shipping", quote.Shipping, "9.99")
	if quote.ItemCount != 3 {
		t.Fatalf("expected unpriced lines to keep their quantity, got %d", quote.ItemCount)
	}
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s: expected %s, got %s", label, want, got)
	}
}
