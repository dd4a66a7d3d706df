package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tillhub/tpos"
)

// loadDocument decodes a JSON or YAML file (by extension) into v. "-" reads
// JSON from in. YAML is bridged through JSON so the json tags and decimal
// decoding of the SDK types apply unchanged.
func loadDocument(path string, in io.Reader, v any) error {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(in)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("yaml parse %s: %w", path, err)
		}
		if b, err = json.Marshal(doc); err != nil {
			return fmt.Errorf("yaml to json %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("json parse %s: %w", path, err)
	}
	return nil
}

// loadCart reads a cart and applies the constructor defaults to it and its
// items.
func loadCart(path string, in io.Reader) (tpos.Cart, error) {
	var cart tpos.Cart
	if err := loadDocument(path, in, &cart); err != nil {
		return tpos.Cart{}, err
	}
	for i, item := range cart.Items {
		withDefaults, err := tpos.NewCartItem(item)
		if err != nil {
			return tpos.Cart{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		cart.Items[i] = withDefaults
	}
	return tpos.NewCart(cart)
}

func loadCartReference(path string, in io.Reader) (tpos.CartReference, error) {
	var ref tpos.CartReference
	if err := loadDocument(path, in, &ref); err != nil {
		return tpos.CartReference{}, err
	}
	return tpos.NewCartReference(ref.CartID, ref.BranchID, ref.PaymentIntent)
}

// withDefaults overlays payload on the document in path: fields the payload
// leaves out keep their value from the defaults file, nested objects are
// merged and arrays are replaced.
func withDefaults[P tpos.Payload](path string, payload P,
	merge func(*tpos.RequestPayload, P) error,
	as func(tpos.RequestPayload) (P, error),
) (P, error) {
	var zero P
	if path == "-" {
		return zero, fmt.Errorf("defaults cannot be read from stdin")
	}
	var base tpos.RequestPayload
	if err := loadDocument(path, nil, &base); err != nil {
		return zero, err
	}
	if err := merge(&base, payload); err != nil {
		return zero, fmt.Errorf("merge defaults %s: %w", path, err)
	}
	merged, err := as(base)
	if err != nil {
		return zero, fmt.Errorf("merge defaults %s: %w", path, err)
	}
	return merged, nil
}

func cartWithDefaults(path string, cart tpos.Cart) (tpos.Cart, error) {
	merged, err := withDefaults(path, cart, (*tpos.RequestPayload).MergeCart, tpos.RequestPayload.AsCart)
	if err != nil {
		return tpos.Cart{}, err
	}
	return tpos.NewCart(merged)
}

func cartReferenceWithDefaults(path string, ref tpos.CartReference) (tpos.CartReference, error) {
	merged, err := withDefaults(path, ref, (*tpos.RequestPayload).MergeCartReference, tpos.RequestPayload.AsCartReference)
	if err != nil {
		return tpos.CartReference{}, err
	}
	return tpos.NewCartReference(merged.CartID, merged.BranchID, merged.PaymentIntent)
}

func loadTransaction(path string, in io.Reader) (*tpos.Transaction, error) {
	var txn tpos.Transaction
	if err := loadDocument(path, in, &txn); err != nil {
		return nil, err
	}
	txn, err := tpos.NewTransaction(txn)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
