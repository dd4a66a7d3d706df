package tpos

// CartReference points at a cart created through the Tillhub carts API.
type CartReference struct {
	// UUID of the cart.
	CartID string `json:"cartId" validate:"required,uuid_string"`
	// UUID of the branch where the cart was created and is valid.
	BranchID      string         `json:"branchId,omitempty" validate:"omitempty,uuid_string"`
	PaymentIntent *PaymentIntent `json:"paymentIntent,omitempty"`
}

var cartReferenceKinds = fieldKinds{
	"cartId":   InvalidCartID,
	"branchId": InvalidBranchID,
}

// NewCartReference builds a validated reference. branchID and intent are
// optional.
func NewCartReference(cartID, branchID string, intent *PaymentIntent) (CartReference, error) {
	ref := CartReference{CartID: cartID, BranchID: branchID, PaymentIntent: intent}
	if err := ref.Validate(); err != nil {
		return CartReference{}, err
	}
	return ref, nil
}

// Validate checks both ids and the payment intent.
func (r CartReference) Validate() error {
	return validateStruct(r, cartReferenceKinds)
}

// PayloadType satisfies Payload.
func (CartReference) PayloadType() PayloadType { return PayloadTypeCartReference }
