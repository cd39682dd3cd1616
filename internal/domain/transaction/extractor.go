package transaction

import (
	"regexp"
	"strconv"
	"time"

	"erpchat/internal/domain/catalog"
)

// UnknownProductName is the literal used when no product can be read from
// the text. Kept in Korean because it is user-facing ERP data, not a log.
const UnknownProductName = "알 수 없는 품목"

var (
	// qtyRe matches an integer immediately followed by a known unit word.
	// Counter words outside this set ("대", "장", ...) are deliberately not
	// recognized; such quantities fall back to the default.
	qtyRe = regexp.MustCompile(`(\d+)\s*(?:개|kg|g|ea|BOX|box|상자|마리)`)

	// priceRe matches an integer immediately followed by a currency word.
	priceRe = regexp.MustCompile(`(\d+)\s*(?:원|달러|\$)`)

	// hangulRe captures candidate product words for the free-text fallback.
	hangulRe = regexp.MustCompile(`[가-힣]+`)
)

// extraction stop words: intent triggers and unit/particle noise that can
// never be a product name.
var productStopWords = map[string]struct{}{
	"팔아": {}, "팔아줘": {}, "판매": {}, "출하": {},
	"구매": {}, "입고": {}, "생산": {}, "완료": {},
	"개": {}, "상자": {}, "마리": {}, "원": {}, "달러": {},
	"주세요": {}, "해줘": {}, "해주세요": {},
}

// Extractor builds a candidate Transaction from free text.
// Defaults are injected; the clock is injectable for tests.
type Extractor struct {
	defaults Defaults
	now      func() time.Time
}

// NewExtractor creates an Extractor with the given default policy.
func NewExtractor(defaults Defaults) *Extractor {
	return &Extractor{defaults: defaults, now: time.Now}
}

// WithClock overrides the extractor's clock. Test helper.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Extract builds a Transaction for the classified action.
// Entity matching runs over the full text for both vendor and product
// catalogs regardless of action. A matched vendor is assigned to the
// customer field for sales only; purchases keep the field empty unless the
// user names the vendor in a later turn (asymmetry inherited from the ERP
// workflow, where purchase vendors are keyed in explicitly).
func (e *Extractor) Extract(text string, action Action, m *catalog.Matcher) *Transaction {
	if !action.Valid() {
		return nil
	}

	tx := &Transaction{
		Action: action,
		Qty:    e.defaults.Qty,
		Date:   e.now().Format("20060102"),
	}

	var matchedVendor *catalog.Vendor
	var matchedProduct *catalog.Product
	if m != nil {
		matchedVendor = m.MatchVendor(text)
		matchedProduct = m.MatchProduct(text)
	}

	if action == ActionSale && matchedVendor != nil {
		tx.Customer = matchedVendor.Name
	}

	if qty, ok := extractQty(text); ok {
		tx.Qty = qty
	}

	tx.Price, tx.PriceExplicit = e.extractPrice(text, matchedProduct)

	if matchedProduct != nil {
		tx.Product = matchedProduct.Name
		tx.ProductCode = matchedProduct.Code
	} else {
		tx.Product = extractProductName(text)
	}

	if action == ActionProductionReceipt {
		tx.Warehouse = e.defaults.WarehouseCode
	}

	return tx
}

func extractQty(text string) (int, bool) {
	match := qtyRe.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	qty, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return qty, true
}

// extractPrice resolves price by priority: explicit price in the text,
// then the matched product's catalog price, then the configured default.
// The second return value is true only for a price stated in the text;
// the dialogue layer uses it to keep filled-in prices from overriding
// staged ones on merge.
func (e *Extractor) extractPrice(text string, product *catalog.Product) (int64, bool) {
	if match := priceRe.FindStringSubmatch(text); match != nil {
		if price, err := strconv.ParseInt(match[1], 10, 64); err == nil {
			return price, true
		}
	}
	if product != nil {
		if amount, ok := product.PriceAmount(); ok {
			return amount, false
		}
	}
	return e.defaults.Price, false
}

// extractProductName is the best-effort fallback when the catalog yields no
// match: the first Korean word of two or more syllables that is not a known
// trigger or unit word.
func extractProductName(text string) string {
	for _, word := range hangulRe.FindAllString(text, -1) {
		if len([]rune(word)) < 2 {
			continue
		}
		if _, stop := productStopWords[word]; stop {
			continue
		}
		return word
	}
	return UnknownProductName
}
