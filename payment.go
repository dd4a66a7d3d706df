package tpos

import "github.com/shopspring/decimal"

// PaymentIntent describes how a cart may be paid.
type PaymentIntent struct {
	// Allowed tender types. Treated as a set.
	AllowedTypes []PaymentType `json:"allowedTypes" validate:"dive,oneof=cash card voucher invoice terminalGiftCard"`
	// If set, the receiver triggers this payment without cashier interaction.
	AutomaticType AutomaticPaymentType `json:"automaticType,omitempty" validate:"omitempty,oneof=automaticCash automaticCard"`
}

// DefaultPaymentTypes is used when NewPaymentIntent receives no types.
var DefaultPaymentTypes = []PaymentType{PaymentTypeCash, PaymentTypeCard}

// NewPaymentIntent builds a validated intent. Duplicate types are collapsed,
// keeping the first occurrence; nil allowed selects DefaultPaymentTypes.
func NewPaymentIntent(allowed []PaymentType, automatic AutomaticPaymentType) (PaymentIntent, error) {
	if allowed == nil {
		allowed = DefaultPaymentTypes
	}
	seen := make(map[PaymentType]struct{}, len(allowed))
	types := make([]PaymentType, 0, len(allowed))
	for _, t := range allowed {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	intent := PaymentIntent{AllowedTypes: types, AutomaticType: automatic}
	if err := intent.Validate(); err != nil {
		return PaymentIntent{}, err
	}
	return intent, nil
}

// Validate checks every tender type.
func (p PaymentIntent) Validate() error {
	return validateStruct(p, nil)
}

// Allows reports whether t is an allowed tender type.
func (p PaymentIntent) Allows(t PaymentType) bool {
	for _, a := range p.AllowedTypes {
		if a == t {
			return true
		}
	}
	return false
}

// Payment is a payment within a completed transaction.
type Payment struct {
	Type     PaymentType `json:"type" validate:"required,oneof=cash card voucher invoice terminalGiftCard"`
	Currency string      `json:"currency" validate:"required,iso4217"`
	// Total paid amount, including tip.
	AmountTotal decimal.Decimal `json:"amountTotal"`
	// Tip included in AmountTotal.
	AmountTip *decimal.Decimal `json:"amountTip,omitempty"`
}

var paymentKinds = fieldKinds{
	"currency": InvalidCurrencyCode,
}

// NewPayment builds a validated payment. tip is optional.
func NewPayment(typ PaymentType, currency string, total decimal.Decimal, tip *decimal.Decimal) (Payment, error) {
	p := Payment{Type: typ, Currency: currency, AmountTotal: total, AmountTip: tip}
	if err := p.Validate(); err != nil {
		return Payment{}, err
	}
	return p, nil
}

// Validate checks type and currency.
func (p Payment) Validate() error {
	return validateStruct(p, paymentKinds)
}
