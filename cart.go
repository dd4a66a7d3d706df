package tpos

import "fmt"

// Cart is a full sale template sent to the point of sale.
type Cart struct {
	// Currency for the sale; defines all financial values.
	Currency string `json:"currency" validate:"required,len=3,iso4217"`
	// Tax scheme for the sale. Defaults to TaxTypeInclusive.
	TaxType TaxType `json:"taxType" validate:"required,oneof=inclusive exclusive"`
	// Items of the sale, in order.
	Items []CartItem `json:"items"`
	// How the sale may be paid.
	PaymentIntent *PaymentIntent `json:"paymentIntent,omitempty"`
	// External reference stored alongside the sale and its payments.
	CustomID string    `json:"customId,omitempty"`
	Title    string    `json:"title,omitempty"`
	Comment  string    `json:"comment,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
	Cashier  *Staff    `json:"cashier,omitempty"`
}

var currencyKinds = fieldKinds{
	"currency.required": CurrencyCodeLengthViolation,
	"currency.len":      CurrencyCodeLengthViolation,
	"currency.iso4217":  InvalidCurrencyCode,
}

// NewCart applies defaults to cart and validates it with all of its items.
func NewCart(cart Cart) (Cart, error) {
	if cart.TaxType == "" {
		cart.TaxType = TaxTypeInclusive
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	if err := cart.Validate(); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// Validate checks the cart currency, tax type, payment intent and items.
func (c Cart) Validate() error {
	if err := validateStruct(c, currencyKinds); err != nil {
		return err
	}
	for idx, item := range c.Items {
		if err := item.Validate(); err != nil {
			return prefixField(err, fmt.Sprintf("items[%d]", idx))
		}
	}
	return nil
}

// PayloadType satisfies Payload.
func (Cart) PayloadType() PayloadType { return PayloadTypeCart }
