package tpos

import (
	"errors"
	"testing"
)

func TestNewCartItem(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate   func(*CartItem)
		wantKind ErrorKind
		field    string
	}{
		"valid item": {
			mutate: func(*CartItem) {},
		},
		"zero price": {
			mutate: func(i *CartItem) { i.PricePerUnit = dec(t, "0") },
		},
		"negative price": {
			mutate:   func(i *CartItem) { i.PricePerUnit = dec(t, "-0.01") },
			wantKind: PriceNegative,
			field:    "pricePerUnit",
		},
		"vat rate zero": {
			mutate: func(i *CartItem) { i.VatRate = dec(t, "0") },
		},
		"vat rate one": {
			mutate: func(i *CartItem) { i.VatRate = dec(t, "1") },
		},
		"vat rate above one": {
			mutate:   func(i *CartItem) { i.VatRate = dec(t, "1.0001") },
			wantKind: VatRateOutOfRange,
			field:    "vatRate",
		},
		"vat rate negative": {
			mutate:   func(i *CartItem) { i.VatRate = dec(t, "-0.07") },
			wantKind: VatRateOutOfRange,
			field:    "vatRate",
		},
		"upper case product id": {
			mutate: func(i *CartItem) { i.ProductID = "84F82BE1-29F7-4372-9F58-944966743991" },
		},
		"product id not a uuid": {
			mutate:   func(i *CartItem) { i.ProductID = "espresso" },
			wantKind: InvalidProductID,
			field:    "productId",
		},
		"product id without hyphens": {
			mutate:   func(i *CartItem) { i.ProductID = "84f82be129f743729f58944966743991" },
			wantKind: InvalidProductID,
			field:    "productId",
		},
		"unknown currency": {
			mutate:   func(i *CartItem) { i.Currency = "ZZZ" },
			wantKind: InvalidCurrencyCode,
			field:    "currency",
		},
		"lower case currency": {
			mutate:   func(i *CartItem) { i.Currency = "eur" },
			wantKind: InvalidCurrencyCode,
			field:    "currency",
		},
		"product id checked before price": {
			mutate: func(i *CartItem) {
				i.ProductID = "nope"
				i.PricePerUnit = dec(t, "-1")
			},
			wantKind: InvalidProductID,
			field:    "productId",
		},
		"unknown type": {
			mutate:   func(i *CartItem) { i.Type = "bundle" },
			wantKind: InvalidField,
			field:    "type",
		},
		"invalid discount": {
			mutate: func(i *CartItem) {
				i.Discounts = []CartItemDiscount{
					{Type: DiscountTypeAbsolute, Value: dec(t, "1")},
					{Type: DiscountTypeRelative, Value: dec(t, "1.5")},
				}
			},
			wantKind: DiscountRateOutOfRange,
			field:    "discounts[1].value",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := CartItem{
				ProductID:    testProductID,
				Currency:     "EUR",
				PricePerUnit: dec(t, "2.89"),
				VatRate:      dec(t, "0.07"),
			}
			tt.mutate(&in)
			item, err := NewCartItem(in)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("NewCartItem: %v", err)
				}
				return
			}
			assertKind(t, err, tt.wantKind)
			var tposErr *Error
			if !errors.As(err, &tposErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if tposErr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, tposErr.Field)
			}
			if tposErr.Kind.Class() != ValidationClass {
				t.Fatalf("expected validation class, got %s", tposErr.Kind.Class())
			}
			if item.ProductID != "" {
				t.Fatalf("expected zero item on failure, got %+v", item)
			}
		})
	}
}

func TestNewCartItemDefaults(t *testing.T) {
	t.Parallel()

	item, err := NewCartItem(CartItem{
		ProductID:    testProductID,
		Currency:     "USD",
		PricePerUnit: dec(t, "5"),
		VatRate:      dec(t, "0"),
	})
	if err != nil {
		t.Fatalf("NewCartItem: %v", err)
	}
	if item.Type != CartItemTypeItem {
		t.Fatalf("expected default type item, got %s", item.Type)
	}
	if !item.Quantity.Equal(dec(t, "1")) {
		t.Fatalf("expected default quantity 1, got %s", item.Quantity)
	}

	for name, tt := range map[string]struct {
		quantity string
		want     string
	}{
		"explicit zero is unset": {quantity: "0", want: "1"},
		"fractional kept":        {quantity: "2.5", want: "2.5"},
		"return kept":            {quantity: "-1", want: "-1"},
	} {
		item, err := NewCartItem(CartItem{
			ProductID:    testProductID,
			Currency:     "USD",
			Quantity:     dec(t, tt.quantity),
			PricePerUnit: dec(t, "5"),
			VatRate:      dec(t, "0"),
		})
		if err != nil {
			t.Fatalf("%s: NewCartItem: %v", name, err)
		}
		if !item.Quantity.Equal(dec(t, tt.want)) {
			t.Fatalf("%s: expected quantity %s, got %s", name, tt.want, item.Quantity)
		}
	}
}

func TestNewCartItemDiscount(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		typ      DiscountType
		value    string
		wantKind ErrorKind
	}{
		"absolute zero":         {typ: DiscountTypeAbsolute, value: "0"},
		"absolute above one":    {typ: DiscountTypeAbsolute, value: "12.50"},
		"absolute negative":     {typ: DiscountTypeAbsolute, value: "-1", wantKind: DiscountValueNegative},
		"relative zero":         {typ: DiscountTypeRelative, value: "0"},
		"relative one":          {typ: DiscountTypeRelative, value: "1"},
		"relative above one":    {typ: DiscountTypeRelative, value: "1.01", wantKind: DiscountRateOutOfRange},
		"relative negative":     {typ: DiscountTypeRelative, value: "-0.1", wantKind: DiscountRateOutOfRange},
		"unknown discount type": {typ: "bogus", value: "0.1", wantKind: InvalidField},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := NewCartItemDiscount(tt.typ, dec(t, tt.value), "")
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("NewCartItemDiscount: %v", err)
				}
				return
			}
			assertKind(t, err, tt.wantKind)
		})
	}
}

func TestNewCart(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		currency string
		items    func(t *testing.T) []CartItem
		wantKind ErrorKind
		field    string
	}{
		"valid":                {currency: "EUR"},
		"empty currency":       {currency: "", wantKind: CurrencyCodeLengthViolation, field: "currency"},
		"two letter currency":  {currency: "EU", wantKind: CurrencyCodeLengthViolation, field: "currency"},
		"four letter currency": {currency: "EURO", wantKind: CurrencyCodeLengthViolation, field: "currency"},
		"unknown currency":     {currency: "ZZZ", wantKind: InvalidCurrencyCode, field: "currency"},
		"invalid second item": {
			currency: "EUR",
			items: func(t *testing.T) []CartItem {
				good := testCart(t).Items[0]
				bad := good
				bad.VatRate = dec(t, "19")
				return []CartItem{good, bad}
			},
			wantKind: VatRateOutOfRange,
			field:    "items[1].vatRate",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := Cart{Currency: tt.currency}
			if tt.items != nil {
				in.Items = tt.items(t)
			}
			cart, err := NewCart(in)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("NewCart: %v", err)
				}
				if cart.TaxType != TaxTypeInclusive {
					t.Fatalf("expected default tax type inclusive, got %s", cart.TaxType)
				}
				return
			}
			assertKind(t, err, tt.wantKind)
			var tposErr *Error
			if !errors.As(err, &tposErr) || tposErr.Field != tt.field {
				t.Fatalf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestCartRejectsInvalidPaymentIntent(t *testing.T) {
	t.Parallel()

	cart := testCart(t)
	cart.PaymentIntent = &PaymentIntent{AllowedTypes: []PaymentType{PaymentTypeCash, "bitcoin"}}
	err := cart.Validate()
	assertKind(t, err, InvalidField)
	var tposErr *Error
	if !errors.As(err, &tposErr) || tposErr.Field != "paymentIntent.allowedTypes[1]" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestNewCartReference(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cartID   string
		branchID string
		wantKind ErrorKind
	}{
		"cart only":          {cartID: testCartID},
		"cart and branch":    {cartID: testCartID, branchID: testBranchID},
		"cart id not a uuid": {cartID: "not-a-uuid", wantKind: InvalidCartID},
		"missing cart id":    {cartID: "", wantKind: InvalidCartID},
		"branch not a uuid":  {cartID: testCartID, branchID: "main-street", wantKind: InvalidBranchID},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ref, err := NewCartReference(tt.cartID, tt.branchID, nil)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("NewCartReference: %v", err)
				}
				if ref.PayloadType() != PayloadTypeCartReference {
					t.Fatalf("unexpected payload type %s", ref.PayloadType())
				}
				return
			}
			assertKind(t, err, tt.wantKind)
		})
	}
}

func TestNewPaymentIntent(t *testing.T) {
	t.Parallel()

	t.Run("defaults to cash and card", func(t *testing.T) {
		t.Parallel()

		intent, err := NewPaymentIntent(nil, "")
		if err != nil {
			t.Fatalf("NewPaymentIntent: %v", err)
		}
		if len(intent.AllowedTypes) != 2 || !intent.Allows(PaymentTypeCash) || !intent.Allows(PaymentTypeCard) {
			t.Fatalf("unexpected allowed types %v", intent.AllowedTypes)
		}
	})

	t.Run("collapses duplicates keeping order", func(t *testing.T) {
		t.Parallel()

		intent, err := NewPaymentIntent([]PaymentType{PaymentTypeVoucher, PaymentTypeCash, PaymentTypeVoucher}, AutomaticPaymentTypeCash)
		if err != nil {
			t.Fatalf("NewPaymentIntent: %v", err)
		}
		want := []PaymentType{PaymentTypeVoucher, PaymentTypeCash}
		if len(intent.AllowedTypes) != len(want) {
			t.Fatalf("expected %v, got %v", want, intent.AllowedTypes)
		}
		for i := range want {
			if intent.AllowedTypes[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, intent.AllowedTypes)
			}
		}
	})

	t.Run("empty set is allowed", func(t *testing.T) {
		t.Parallel()

		if _, err := NewPaymentIntent([]PaymentType{}, ""); err != nil {
			t.Fatalf("NewPaymentIntent: %v", err)
		}
	})

	t.Run("unknown automatic type", func(t *testing.T) {
		t.Parallel()

		_, err := NewPaymentIntent(nil, "automaticCrypto")
		assertKind(t, err, InvalidField)
	})
}

func TestNewTransaction(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		txn := testTransaction(t)
		if txn.TaxType != TaxTypeInclusive {
			t.Fatalf("expected default tax type, got %s", txn.TaxType)
		}
	})

	t.Run("client transaction id required", func(t *testing.T) {
		t.Parallel()

		_, err := NewTransaction(Transaction{Currency: "EUR"})
		assertKind(t, err, InvalidField)
	})

	t.Run("currency length", func(t *testing.T) {
		t.Parallel()

		_, err := NewTransaction(Transaction{ClientTransactionID: "pos-1", Currency: "EURO"})
		assertKind(t, err, CurrencyCodeLengthViolation)
	})

	t.Run("payment currency", func(t *testing.T) {
		t.Parallel()

		txn := *testTransaction(t)
		txn.Payments = []Payment{{Type: PaymentTypeCard, Currency: "XQZ", AmountTotal: dec(t, "1")}}
		err := txn.Validate()
		assertKind(t, err, InvalidCurrencyCode)
		var tposErr *Error
		if !errors.As(err, &tposErr) || tposErr.Field != "payments[0].currency" {
			t.Fatalf("unexpected error %v", err)
		}
	})
}
