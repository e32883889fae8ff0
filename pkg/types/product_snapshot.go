package types

import "github.com/shopspring/decimal"

// ProductSnapshot is the frozen copy of product reference data captured on an
// order item so historical display is independent of later product edits.
type ProductSnapshot struct {
	Name         string          `json:"name"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Price        decimal.Decimal `json:"price"`
	VariantName  *string         `json:"variant_name,omitempty"`
	VariantValue *string         `json:"variant_value,omitempty"`
}
