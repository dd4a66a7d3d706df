package tpos

// TaxType defines how vat rates apply to item prices.
type TaxType string

// Defines values for TaxType.
const (
	TaxTypeInclusive TaxType = "inclusive" // Taxes are included in the item price (e.g. EU).
	TaxTypeExclusive TaxType = "exclusive" // Taxes are added on top of the item price (e.g. US).
)

// CartItemType defines model for CartItem.Type.
type CartItemType string

// Defines values for CartItemType.
const (
	CartItemTypeItem     CartItemType = "item"
	CartItemTypeDiscount CartItemType = "discount"
	CartItemTypeTip      CartItemType = "tip"
)

// DiscountType defines the meaning of CartItemDiscount.Value.
type DiscountType string

// Defines values for DiscountType.
const (
	DiscountTypeAbsolute DiscountType = "absolute" // Value is a monetary amount >= 0.
	DiscountTypeRelative DiscountType = "relative" // Value is a rate in [0, 1].
)

// PaymentType is a payment tender type.
type PaymentType string

// Defines values for PaymentType.
const (
	PaymentTypeCash             PaymentType = "cash"
	PaymentTypeCard             PaymentType = "card"
	PaymentTypeVoucher          PaymentType = "voucher"
	PaymentTypeInvoice          PaymentType = "invoice"
	PaymentTypeTerminalGiftCard PaymentType = "terminalGiftCard"
)

// AutomaticPaymentType asks the receiving application to trigger a payment
// without cashier interaction.
type AutomaticPaymentType string

// Defines values for AutomaticPaymentType.
const (
	AutomaticPaymentTypeCash AutomaticPaymentType = "automaticCash"
	AutomaticPaymentTypeCard AutomaticPaymentType = "automaticCard"
)

// ActionPath tells the receiver whether to stage the cart or also check out.
type ActionPath string

// Defines values for ActionPath.
const (
	ActionPathLoad     ActionPath = "load"
	ActionPathCheckout ActionPath = "checkout"
)

// PayloadType discriminates the request payload kind.
type PayloadType string

// Defines values for PayloadType.
const (
	PayloadTypeCart          PayloadType = "cart"
	PayloadTypeCartReference PayloadType = "cart_reference"
)

// ResponseStatus defines model for ResponseHeader.Status.
type ResponseStatus string

// Defines values for ResponseStatus.
const (
	ResponseStatusSuccess ResponseStatus = "success"
	ResponseStatusFailure ResponseStatus = "failure"
)

func parseActionPath(s string) (ActionPath, bool) {
	switch a := ActionPath(s); a {
	case ActionPathLoad, ActionPathCheckout:
		return a, true
	}
	return "", false
}

func parsePayloadType(s string) (PayloadType, bool) {
	switch p := PayloadType(s); p {
	case PayloadTypeCart, PayloadTypeCartReference:
		return p, true
	}
	return "", false
}

// Customer of a cart or transaction.
type Customer struct {
	Name     string `json:"name,omitempty"`
	CustomID string `json:"customId,omitempty"`
}

// Staff is a cashier per cart or a salesperson per item.
type Staff struct {
	Name     string `json:"name,omitempty"`
	CustomID string `json:"customId,omitempty"`
}
