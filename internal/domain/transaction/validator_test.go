package transaction

import (
	"reflect"
	"testing"
)

func validSale() *Transaction {
	return &Transaction{
		Action:      ActionSale,
		Customer:    "삼성전자",
		Product:     "갤럭시",
		ProductCode: "P1",
		Qty:         10,
		Price:       1000000,
		Date:        "20250115",
	}
}

func TestValidate_CompleteTransactions(t *testing.T) {
	tests := []struct {
		name string
		tx   *Transaction
	}{
		{"sale", validSale()},
		{"purchase", &Transaction{
			Action: ActionPurchase, Vendor: "한국상사",
			Product: "부품A", ProductCode: "P2",
			Qty: 5, Price: 3000, Date: "20250115",
		}},
		{"production receipt", &Transaction{
			Action: ActionProductionReceipt,
			Product: "갤럭시", Qty: 50, Date: "20250115",
			Warehouse: "00003",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.tx)
			if !res.IsValid {
				t.Errorf("expected valid, missing: %v", res.Missing)
			}
			if len(res.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", res.Warnings)
			}
		})
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		tx      *Transaction
		missing []string
	}{
		{
			"sale without customer and price",
			&Transaction{
				Action: ActionSale,
				Product: "갤럭시", ProductCode: "P1",
				Qty: 10, Date: "20250115",
			},
			[]string{FieldCustomer, FieldPrice},
		},
		{
			"purchase without vendor",
			&Transaction{
				Action: ActionPurchase,
				Product: "부품A", ProductCode: "P2",
				Qty: 5, Price: 3000, Date: "20250115",
			},
			[]string{FieldVendor},
		},
		{
			"production receipt without warehouse",
			&Transaction{
				Action: ActionProductionReceipt,
				Product: "갤럭시", Qty: 50, Date: "20250115",
			},
			[]string{FieldWarehouse},
		},
		{
			"empty transaction",
			&Transaction{Action: ActionSale},
			[]string{FieldProduct, FieldQty, FieldDate, FieldCustomer, FieldProductCode, FieldPrice},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.tx)
			if res.IsValid {
				t.Fatal("expected invalid")
			}
			if !reflect.DeepEqual(res.Missing, tt.missing) {
				t.Errorf("missing: got %v, want %v", res.Missing, tt.missing)
			}
			if len(res.Suggestions) != len(res.Missing) {
				t.Errorf("every missing field needs a suggestion: %d missing, %d suggestions",
					len(res.Missing), len(res.Suggestions))
			}
		})
	}
}

func TestValidate_MissingProductCode(t *testing.T) {
	tx := validSale()
	tx.ProductCode = ""

	res := Validate(tx)
	if res.IsValid {
		t.Fatal("sale without product code must be invalid")
	}
	if !reflect.DeepEqual(res.Missing, []string{FieldProductCode}) {
		t.Errorf("missing: got %v", res.Missing)
	}
}

func TestValidate_WarningsDoNotBlock(t *testing.T) {
	tx := validSale()
	tx.Qty = -3
	tx.Price = -500
	tx.Date = "2025-01-15"

	res := Validate(tx)
	if !res.IsValid {
		t.Fatalf("warnings must not invalidate, missing: %v", res.Missing)
	}
	if len(res.Warnings) != 3 {
		t.Errorf("warnings: got %v, want 3 entries", res.Warnings)
	}
}

func TestValidate_IsPure(t *testing.T) {
	tx := validSale()
	before := *tx

	first := Validate(tx)
	second := Validate(tx)

	if *tx != before {
		t.Error("input transaction was mutated")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ across calls: %+v vs %+v", first, second)
	}
}
