package dialogue

import (
	"fmt"
	"strings"

	"erpchat/internal/domain/transaction"
)

// Message prefixes. UIs and tests distinguish the four categories by prefix,
// so the set is fixed even though the exact glyphs are presentation.
const (
	PrefixInfo    = "📋"
	PrefixWarning = "⚠️"
	PrefixError   = "❌"
	PrefixSuccess = "✅"
)

// ConfirmPrompt is the literal yes/no prompt appended to every summary.
const ConfirmPrompt = "(예/아니오)"

// fieldLabels maps canonical validator field names to user-facing labels.
var fieldLabels = map[string]string{
	transaction.FieldCustomer:    "고객사",
	transaction.FieldVendor:      "공급사",
	transaction.FieldProduct:     "품목",
	transaction.FieldProductCode: "품목코드",
	transaction.FieldQty:         "수량",
	transaction.FieldPrice:       "단가",
	transaction.FieldDate:        "일자",
	transaction.FieldWarehouse:   "창고",
}

// actionLabels maps actions to user-facing labels.
var actionLabels = map[transaction.Action]string{
	transaction.ActionSale:              "판매",
	transaction.ActionPurchase:          "구매",
	transaction.ActionProductionReceipt: "생산 입고",
}

// FieldLabel returns the localized label for a canonical field name.
// Canonical names never reach the user untranslated.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// ActionLabel returns the localized label for an action.
func ActionLabel(action transaction.Action) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return string(action)
}

// helpMessage is shown when no intent keyword matched.
func helpMessage() string {
	var b strings.Builder
	b.WriteString(PrefixInfo + " 어떤 거래를 도와드릴까요? 이렇게 말씀해 보세요:\n")
	b.WriteString("- 삼성전자에 갤럭시 10개 팔아줘\n")
	b.WriteString("- 한국상사에서 부품 50개 구매\n")
	b.WriteString("- 갤럭시 50개 생산 완료")
	return b.String()
}

// cancelMessage is shown when a confirmation is declined.
func cancelMessage() string {
	return PrefixInfo + " 거래가 취소되었습니다."
}

// collectingMessage lists clarifying questions for missing fields plus a
// recap of what is already known.
func collectingMessage(tx *transaction.Transaction, res transaction.Result) string {
	var b strings.Builder
	b.WriteString(PrefixError + " 다음 정보가 더 필요합니다:\n")
	for i, field := range res.Missing {
		b.WriteString("- " + FieldLabel(field))
		if i < len(res.Suggestions) {
			b.WriteString(": " + res.Suggestions[i])
		}
		b.WriteString("\n")
	}
	if recap := knownFields(tx); recap != "" {
		b.WriteString(PrefixInfo + " 지금까지 확인된 내용:\n")
		b.WriteString(recap)
	}
	return strings.TrimRight(b.String(), "\n")
}

// confirmMessage summarizes the staged transaction, appends non-blocking
// warnings and the yes/no prompt.
func confirmMessage(tx *transaction.Transaction, res transaction.Result) string {
	var b strings.Builder
	b.WriteString(PrefixInfo + " 아래 내용으로 진행할까요?\n")
	b.WriteString(knownFields(tx))
	for _, w := range res.Warnings {
		b.WriteString(PrefixWarning + " " + w + "\n")
	}
	b.WriteString(ConfirmPrompt)
	return b.String()
}

// submittedMessage reports a successful ERP submission.
func submittedMessage(tx *transaction.Transaction) string {
	return fmt.Sprintf("%s %s 거래가 등록되었습니다. (%s %d개)",
		PrefixSuccess, ActionLabel(tx.Action), tx.Product, tx.Qty)
}

// submitFailedMessage reports an ERP submission failure.
func submitFailedMessage(err error) string {
	return PrefixError + " 거래 등록에 실패했습니다: " + err.Error()
}

// catalogUnavailableMessage reports that reference data could not be loaded.
func catalogUnavailableMessage() string {
	return PrefixError + " 기준정보를 불러올 수 없습니다. 잠시 후 다시 시도해 주세요."
}

// knownFields renders the populated fields of a transaction, one per line.
func knownFields(tx *transaction.Transaction) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			b.WriteString("- " + label + ": " + value + "\n")
		}
	}

	line("유형", ActionLabel(tx.Action))
	line(FieldLabel(transaction.FieldCustomer), tx.Customer)
	line(FieldLabel(transaction.FieldVendor), tx.Vendor)
	product := tx.Product
	if tx.ProductCode != "" {
		product = fmt.Sprintf("%s (%s)", tx.Product, tx.ProductCode)
	}
	line(FieldLabel(transaction.FieldProduct), product)
	if tx.Qty != 0 {
		line(FieldLabel(transaction.FieldQty), fmt.Sprintf("%d", tx.Qty))
	}
	if tx.Price != 0 {
		line(FieldLabel(transaction.FieldPrice), fmt.Sprintf("%d원", tx.Price))
	}
	line(FieldLabel(transaction.FieldDate), tx.Date)
	line(FieldLabel(transaction.FieldWarehouse), tx.Warehouse)
	return b.String()
}
