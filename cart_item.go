package tpos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartItem is a position within a cart or transaction.
type CartItem struct {
	// Type of the item. Defaults to "item".
	Type CartItemType `json:"type" validate:"required,oneof=item discount tip"`
	// Quantity of the item. Zero means unset and becomes 1 in NewCartItem.
	Quantity decimal.Decimal `json:"quantity"`
	// Product UUID within the Tillhub environment.
	ProductID string `json:"productId" validate:"required,uuid_string"`
	// Three-letter ISO 4217 currency of the price, inherited by discounts.
	Currency string `json:"currency" validate:"required,iso4217"`
	// Price per quantity 1.0, before discounts (and before taxes for
	// TaxTypeExclusive carts).
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	// Tax rate within [0, 1].
	VatRate decimal.Decimal `json:"vatRate"`
	// Arbitrary title (e.g. product name).
	Title string `json:"title,omitempty"`
	// Arbitrary note (e.g. product description).
	Comment string `json:"comment,omitempty"`
	// Salesperson for this item, e.g. for commission.
	SalesPerson *Staff `json:"salesPerson,omitempty"`
	// Discounts applied to this item, in order.
	Discounts []CartItemDiscount `json:"discounts,omitempty"`
}

var cartItemKinds = fieldKinds{
	"productId": InvalidProductID,
	"currency":  InvalidCurrencyCode,
}

// NewCartItem applies defaults to item and validates it. An empty type
// becomes CartItemTypeItem and a zero quantity becomes 1.
//
//	item, err := tpos.NewCartItem(tpos.CartItem{
//		ProductID:    "84f82be1-29f7-4372-9f58-944966743991",
//		Currency:     "EUR",
//		PricePerUnit: decimal.RequireFromString("2.89"),
//		VatRate:      decimal.RequireFromString("0.07"),
//	})
func NewCartItem(item CartItem) (CartItem, error) {
	if item.Type == "" {
		item.Type = CartItemTypeItem
	}
	if item.Quantity.IsZero() {
		item.Quantity = decimalOne
	}
	if err := item.Validate(); err != nil {
		return CartItem{}, err
	}
	return item, nil
}

// Validate checks product id, currency, price and vat rate, in that order,
// followed by every discount.
func (i CartItem) Validate() error {
	if err := validateStruct(i, cartItemKinds); err != nil {
		return err
	}
	if err := checkNonNegative(i.PricePerUnit, "pricePerUnit", PriceNegative); err != nil {
		return err
	}
	if err := checkUnitRange(i.VatRate, "vatRate", VatRateOutOfRange); err != nil {
		return err
	}
	for idx, d := range i.Discounts {
		if err := d.Validate(); err != nil {
			return prefixField(err, fmt.Sprintf("discounts[%d]", idx))
		}
	}
	return nil
}

// CartItemDiscount is a discount applied to a single cart item.
type CartItemDiscount struct {
	Type DiscountType `json:"type" validate:"required,oneof=absolute relative"`
	// Absolute amount (>= 0) or rate in [0, 1], depending on Type.
	Value   decimal.Decimal `json:"value"`
	Comment string          `json:"comment,omitempty"`
}

// NewCartItemDiscount builds a validated discount.
func NewCartItemDiscount(typ DiscountType, value decimal.Decimal, comment string) (CartItemDiscount, error) {
	d := CartItemDiscount{Type: typ, Value: value, Comment: comment}
	if err := d.Validate(); err != nil {
		return CartItemDiscount{}, err
	}
	return d, nil
}

// Validate enforces the value range for the discount type.
func (d CartItemDiscount) Validate() error {
	if err := validateStruct(d, nil); err != nil {
		return err
	}
	switch d.Type {
	case DiscountTypeAbsolute:
		return checkNonNegative(d.Value, "value", DiscountValueNegative)
	default:
		return checkUnitRange(d.Value, "value", DiscountRateOutOfRange)
	}
}
