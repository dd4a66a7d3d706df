package tpos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Transaction is the result of a completed sale, returned in a Response.
type Transaction struct {
	// Server-assigned id; empty until the transaction is synchronized.
	TransactionID string `json:"transactionId,omitempty"`
	// Id assigned by the point of sale itself; always present.
	ClientTransactionID string              `json:"clientTransactionId" validate:"required"`
	Currency            string              `json:"currency" validate:"required,len=3,iso4217"`
	TaxType             TaxType             `json:"taxType" validate:"required,oneof=inclusive exclusive"`
	Items               []CartItem          `json:"items"`
	Payments            []Payment           `json:"payments"`
	Summary             *TransactionSummary `json:"summary,omitempty"`
	Title               string              `json:"title,omitempty"`
	Comment             string              `json:"comment,omitempty"`
	Customer            *Customer           `json:"customer,omitempty"`
	Cashier             *Staff              `json:"cashier,omitempty"`
}

// NewTransaction applies defaults to txn and validates it.
func NewTransaction(txn Transaction) (Transaction, error) {
	if txn.TaxType == "" {
		txn.TaxType = TaxTypeInclusive
	}
	if txn.Items == nil {
		txn.Items = []CartItem{}
	}
	if txn.Payments == nil {
		txn.Payments = []Payment{}
	}
	if err := txn.Validate(); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

// Validate checks currency, items and payments.
func (t Transaction) Validate() error {
	if err := validateStruct(t, currencyKinds); err != nil {
		return err
	}
	for idx, item := range t.Items {
		if err := item.Validate(); err != nil {
			return prefixField(err, fmt.Sprintf("items[%d]", idx))
		}
	}
	for idx, p := range t.Payments {
		if err := p.Validate(); err != nil {
			return prefixField(err, fmt.Sprintf("payments[%d]", idx))
		}
	}
	return nil
}

// TransactionSummary holds caller-aggregated monetary totals. The SDK does
// not compute or cross-check them.
type TransactionSummary struct {
	// Total payable amount, including taxes.
	AmountTotalGross decimal.Decimal `json:"amountTotalGross"`
	// Total amount excluding taxes.
	AmountTotalNet decimal.Decimal `json:"amountTotalNet"`
	// Total before discounts (and before taxes for TaxTypeExclusive).
	SubTotal            decimal.Decimal `json:"subTotal"`
	DiscountAmountTotal decimal.Decimal `json:"discountAmountTotal"`
	TaxAmountTotal      decimal.Decimal `json:"taxAmountTotal"`
	TipAmountTotal      decimal.Decimal `json:"tipAmountTotal"`
	// Total of all payments, including tips, before change.
	PaymentAmountTotal decimal.Decimal `json:"paymentAmountTotal"`
	// Change handed back: PaymentAmountTotal - AmountTotalGross.
	ChangeAmountTotal decimal.Decimal `json:"changeAmountTotal"`
}
