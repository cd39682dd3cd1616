// Package transaction implements the natural-language business-transaction
// pipeline: intent classification, field extraction and validation of
// sale / purchase / production-receipt commands.
package transaction

import "strings"

// Action is the transaction intent.
type Action string

const (
	ActionSale              Action = "sale"
	ActionPurchase          Action = "purchase"
	ActionProductionReceipt Action = "production_receipt"
)

// Valid reports whether the action is one of the known intents.
func (a Action) Valid() bool {
	switch a {
	case ActionSale, ActionPurchase, ActionProductionReceipt:
		return true
	}
	return false
}

// Transaction is the candidate business transaction built from one or more
// user utterances. Which fields are required depends on Action; see Validate.
type Transaction struct {
	Action Action `json:"action"`

	// Customer is the buying counterparty. Required for sale.
	Customer string `json:"customer,omitempty"`

	// Vendor is the supplying counterparty. Required for purchase.
	Vendor string `json:"vendor,omitempty"`

	// Product is the item name, matched or free text.
	Product string `json:"product"`

	// ProductCode is the resolved catalog code. Required for sale/purchase.
	ProductCode string `json:"product_code,omitempty"`

	Qty   int   `json:"qty"`
	Price int64 `json:"price"`

	// PriceExplicit is true when Price was stated in the user's text rather
	// than filled from the catalog or the default policy. Dialogue state only,
	// never submitted.
	PriceExplicit bool `json:"-"`

	// Date in YYYYMMDD. Hyphens are stripped on normalization.
	Date string `json:"date"`

	// Warehouse is the receiving warehouse code. Required for production_receipt.
	Warehouse string `json:"warehouse,omitempty"`
}

// NormalizeDate strips hyphens so "2025-01-01" submits as "20250101".
func (t *Transaction) NormalizeDate() {
	t.Date = strings.ReplaceAll(t.Date, "-", "")
}

// Counterparty returns the action-relevant counterparty field value.
func (t *Transaction) Counterparty() string {
	switch t.Action {
	case ActionSale:
		return t.Customer
	case ActionPurchase:
		return t.Vendor
	}
	return ""
}

// Merge fills empty fields of t from a newer extraction of the same action.
// Used by the dialogue layer when a follow-up utterance answers a clarifying
// question: explicit values from the follow-up win, previously collected
// values survive.
func (t *Transaction) Merge(next *Transaction) {
	if next == nil {
		return
	}
	if next.Customer != "" {
		t.Customer = next.Customer
	}
	if next.Vendor != "" {
		t.Vendor = next.Vendor
	}
	productChanged := next.ProductCode != "" && next.ProductCode != t.ProductCode

	// A catalog-matched product always wins. The free-text fallback name is
	// guesswork and must not clobber an already resolved product.
	if next.ProductCode != "" {
		t.Product = next.Product
		t.ProductCode = next.ProductCode
	} else if next.Product != "" && next.Product != UnknownProductName &&
		(t.Product == "" || t.Product == UnknownProductName) {
		t.Product = next.Product
	}
	if next.Qty > 1 || (next.Qty > 0 && t.Qty == 0) {
		t.Qty = next.Qty
	}

	// The extractor always fills a price (catalog or default policy), so a
	// follow-up that never mentions one still carries a value. Only a price
	// the user actually stated, or the catalog price of a newly named
	// product, may replace the staged one; anything else fills only an
	// empty price.
	switch {
	case next.PriceExplicit:
		t.Price = next.Price
		t.PriceExplicit = true
	case productChanged && next.Price > 0:
		t.Price = next.Price
		t.PriceExplicit = false
	case t.Price == 0 && next.Price > 0:
		t.Price = next.Price
	}
	if next.Date != "" {
		t.Date = next.Date
	}
	if next.Warehouse != "" {
		t.Warehouse = next.Warehouse
	}
}

// Defaults is the injected default-value policy for extraction.
// Keeping these out of the extractor lets the policy change without
// touching extraction logic.
type Defaults struct {
	// WarehouseCode is assigned for production receipts without an explicit
	// warehouse mention.
	WarehouseCode string

	// Price in won when neither the text nor the catalog yields one.
	Price int64

	// Qty when the text carries no recognizable quantity.
	Qty int
}

// DefaultDefaults returns the ERP's standing defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		WarehouseCode: "00003",
		Price:         10000,
		Qty:           1,
	}
}
