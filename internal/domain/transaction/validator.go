package transaction

import "regexp"

// Canonical field names reported in Result.Missing. The dialogue layer maps
// these to localized labels before showing them to the user.
const (
	FieldCustomer    = "customer"
	FieldVendor      = "vendor"
	FieldProduct     = "product"
	FieldProductCode = "product_code"
	FieldQty         = "qty"
	FieldPrice       = "price"
	FieldDate        = "date"
	FieldWarehouse   = "warehouse"
)

var dateRe = regexp.MustCompile(`^\d{8}$`)

// Result is the outcome of validating a candidate Transaction.
// IsValid is true iff Missing is empty; Warnings never block submission.
type Result struct {
	IsValid     bool     `json:"isValid"`
	Missing     []string `json:"missing"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// suggestions give the user actionable phrasing per missing field.
var suggestions = map[string]string{
	FieldCustomer:    "거래처 이름을 함께 말씀해 주세요 (예: 삼성전자에)",
	FieldVendor:      "공급사 이름을 함께 말씀해 주세요 (예: 한국상사에서)",
	FieldProduct:     "품목 이름을 말씀해 주세요",
	FieldProductCode: "등록된 품목명으로 다시 말씀해 주세요",
	FieldQty:         "수량을 숫자와 단위로 말씀해 주세요 (예: 10개)",
	FieldPrice:       "단가를 말씀해 주세요 (예: 5000원)",
	FieldDate:        "날짜를 YYYYMMDD 형식으로 말씀해 주세요",
	FieldWarehouse:   "입고할 창고를 말씀해 주세요",
}

// Validate checks the candidate against the per-action required-field rules.
// Pure function: no side effects, deterministic for the same input.
func Validate(tx *Transaction) Result {
	res := Result{
		Missing:     []string{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	// Always required regardless of action.
	if tx.Product == "" {
		res.addMissing(FieldProduct)
	}
	if tx.Qty == 0 {
		res.addMissing(FieldQty)
	} else if tx.Qty < 0 {
		res.Warnings = append(res.Warnings, "수량이 0보다 작습니다")
	}
	if tx.Date == "" {
		res.addMissing(FieldDate)
	} else if !dateRe.MatchString(tx.Date) {
		res.Warnings = append(res.Warnings, "날짜 형식이 YYYYMMDD가 아닙니다")
	}

	switch tx.Action {
	case ActionSale:
		if tx.Customer == "" {
			res.addMissing(FieldCustomer)
		}
		res.requireTradeFields(tx)
	case ActionPurchase:
		if tx.Vendor == "" {
			res.addMissing(FieldVendor)
		}
		res.requireTradeFields(tx)
	case ActionProductionReceipt:
		if tx.Warehouse == "" {
			res.addMissing(FieldWarehouse)
		}
	}

	res.IsValid = len(res.Missing) == 0
	return res
}

// requireTradeFields covers rules shared by sale and purchase.
func (r *Result) requireTradeFields(tx *Transaction) {
	if tx.ProductCode == "" {
		r.addMissing(FieldProductCode)
	}
	if tx.Price == 0 {
		r.addMissing(FieldPrice)
	} else if tx.Price < 0 {
		r.Warnings = append(r.Warnings, "단가가 0보다 작습니다")
	}
}

func (r *Result) addMissing(field string) {
	r.Missing = append(r.Missing, field)
	if s, ok := suggestions[field]; ok {
		r.Suggestions = append(r.Suggestions, s)
	}
}
