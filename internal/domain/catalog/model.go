// Package catalog provides the in-memory ERP reference catalogs (vendors,
// products, warehouses) and free-text entity matching against them.
// Reference data is immutable per snapshot; a refresh swaps the whole snapshot.
package catalog

import (
	"github.com/shopspring/decimal"
)

// DefaultWarehouseCode is the production warehouse used when no warehouse
// is mentioned in a command. Matches the ERP's fixed code for 생산창고.
const DefaultWarehouseCode = "00003"

// Vendor is a trading counterparty as served by the ERP.
type Vendor struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	CEO    string `json:"ceo"`
	Phone  string `json:"phone"`
	Mobile string `json:"mobile"`
}

// Product is a sellable/purchasable item as served by the ERP.
type Product struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`

	// Price is a decimal-as-string exactly as the ERP returns it.
	Price string `json:"price"`
}

// PriceAmount parses the ERP price string into integer currency units (won).
// Returns 0 and false if the price is empty or not a valid decimal.
func (p Product) PriceAmount() (int64, bool) {
	if p.Price == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(p.Price)
	if err != nil {
		return 0, false
	}
	return d.IntPart(), true
}

// Warehouse is a storage location as served by the ERP.
// Only active warehouses participate in matching and default selection.
type Warehouse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"isActive"`
}

// Snapshot is one immutable load of all three reference catalogs.
// Slice order is the ERP's iteration order and is significant for matching.
type Snapshot struct {
	Vendors    []Vendor
	Products   []Product
	Warehouses []Warehouse
}
