package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"erpchat/internal/domain/catalog"
	"erpchat/internal/domain/transaction"
)

type fakeSource struct{ fail bool }

func (f *fakeSource) FetchVendors(context.Context) ([]catalog.Vendor, error) {
	if f.fail {
		return nil, errors.New("backend down")
	}
	return []catalog.Vendor{
		{Code: "V1", Name: "삼성전자"},
		{Code: "V2", Name: "한국상사"},
	}, nil
}

func (f *fakeSource) FetchProducts(context.Context) ([]catalog.Product, error) {
	if f.fail {
		return nil, errors.New("backend down")
	}
	return []catalog.Product{
		{Code: "P1", Name: "갤럭시", Price: "1000000"},
		{Code: "P2", Name: "부품A", Price: "3000"},
	}, nil
}

func (f *fakeSource) FetchWarehouses(context.Context) ([]catalog.Warehouse, error) {
	if f.fail {
		return nil, errors.New("backend down")
	}
	return []catalog.Warehouse{
		{Code: "00003", Name: "생산창고", IsActive: true},
	}, nil
}

type fakeSubmitter struct {
	calls int
	err   error
	last  *transaction.Transaction
}

func (f *fakeSubmitter) Submit(_ context.Context, tx *transaction.Transaction) (map[string]any, error) {
	f.calls++
	f.last = tx
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"success": true}, nil
}

func newTestController(t *testing.T, sub Submitter) *Controller {
	t.Helper()
	catalogs := catalog.NewService(&fakeSource{})
	if err := catalogs.Refresh(context.Background()); err != nil {
		t.Fatalf("catalog refresh: %v", err)
	}
	extractor := transaction.NewExtractor(transaction.DefaultDefaults()).
		WithClock(func() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) })
	return NewController(transaction.MustClassifier(), extractor, catalogs, sub)
}

func TestStep_SaleConfirmAndSubmit(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestController(t, sub)
	ctx := context.Background()

	sess, reply := c.Step(ctx, NewSession(), "삼성전자에 갤럭시 10개 팔아줘")
	if sess.State != StateConfirming {
		t.Fatalf("state: got %q, want confirming (%s)", sess.State, reply.Text)
	}
	if !strings.Contains(reply.Text, ConfirmPrompt) {
		t.Errorf("confirm reply must end with the yes/no prompt: %q", reply.Text)
	}
	if sub.calls != 0 {
		t.Fatalf("nothing may be submitted before confirmation, got %d calls", sub.calls)
	}

	sess, reply = c.Step(ctx, sess, "네")
	if sub.calls != 1 {
		t.Errorf("submit calls: got %d, want exactly 1", sub.calls)
	}
	if sess.State != StateIdle || sess.Tx != nil {
		t.Errorf("session must reset after submission, got %q tx=%v", sess.State, sess.Tx)
	}
	if !reply.SubmitAttempted || !reply.Submitted {
		t.Errorf("reply flags: attempted=%v submitted=%v", reply.SubmitAttempted, reply.Submitted)
	}
	if reply.Action != transaction.ActionSale {
		t.Errorf("reply action: got %q", reply.Action)
	}
	if !strings.HasPrefix(reply.Text, PrefixSuccess) {
		t.Errorf("success reply: %q", reply.Text)
	}
	if sub.last.Customer != "삼성전자" || sub.last.ProductCode != "P1" {
		t.Errorf("submitted transaction: %+v", sub.last)
	}
}

func TestStep_DeclineCancelsWithoutSubmit(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestController(t, sub)
	ctx := context.Background()

	sess, _ := c.Step(ctx, NewSession(), "삼성전자에 갤럭시 10개 팔아줘")
	if sess.State != StateConfirming {
		t.Fatalf("state: got %q", sess.State)
	}

	sess, reply := c.Step(ctx, sess, "아니요")
	if sub.calls != 0 {
		t.Errorf("decline must never submit, got %d calls", sub.calls)
	}
	if sess.State != StateIdle || sess.Tx != nil {
		t.Errorf("session must reset on decline, got %q", sess.State)
	}
	if reply.SubmitAttempted {
		t.Error("decline is not a submit attempt")
	}
	if !strings.Contains(reply.Text, "취소") {
		t.Errorf("cancel reply: %q", reply.Text)
	}
}

func TestStep_AffirmativeVariants(t *testing.T) {
	for _, answer := range []string{"예", "네", "yes", "네, 맞아요", "Yes please"} {
		t.Run(answer, func(t *testing.T) {
			sub := &fakeSubmitter{}
			c := newTestController(t, sub)
			ctx := context.Background()

			sess, _ := c.Step(ctx, NewSession(), "삼성전자에 갤럭시 10개 팔아줘")
			_, _ = c.Step(ctx, sess, answer)
			if sub.calls != 1 {
				t.Errorf("answer %q: got %d calls, want 1", answer, sub.calls)
			}
		})
	}
}

func TestStep_UnrecognizedShowsHelp(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestController(t, sub)

	sess, reply := c.Step(context.Background(), NewSession(), "오늘 날씨 어때")
	if sess.State != StateIdle {
		t.Errorf("state: got %q, want idle", sess.State)
	}
	if !strings.Contains(reply.Text, "팔아줘") {
		t.Errorf("help reply should carry example commands: %q", reply.Text)
	}
	if sub.calls != 0 {
		t.Errorf("unexpected submit calls: %d", sub.calls)
	}
}

func TestStep_CollectingMergesFollowUp(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestController(t, sub)
	ctx := context.Background()

	// No customer mentioned: the sale stays in collecting.
	sess, reply := c.Step(ctx, NewSession(), "갤럭시 5개 팔아줘")
	if sess.State != StateCollecting {
		t.Fatalf("state: got %q, want collecting (%s)", sess.State, reply.Text)
	}
	if !strings.Contains(reply.Text, FieldLabel(transaction.FieldCustomer)) {
		t.Errorf("reply should ask for the customer: %q", reply.Text)
	}

	// Follow-up without an intent keyword: the staged action carries over,
	// the explicit price overrides the catalog one, the matched product stays.
	sess, _ = c.Step(ctx, sess, "삼성전자에 5000원에")
	if sess.State != StateConfirming {
		t.Fatalf("state: got %q, want confirming", sess.State)
	}
	if sess.Tx.Customer != "삼성전자" {
		t.Errorf("customer: got %q", sess.Tx.Customer)
	}
	if sess.Tx.Product != "갤럭시" || sess.Tx.ProductCode != "P1" {
		t.Errorf("staged product must survive the follow-up: %+v", sess.Tx)
	}
	if sess.Tx.Price != 5000 {
		t.Errorf("price: got %d, want explicit 5000", sess.Tx.Price)
	}
	if sess.Tx.Qty != 5 {
		t.Errorf("qty: got %d, want staged 5", sess.Tx.Qty)
	}
}

func TestStep_FollowUpKeepsStagedExplicitPrice(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestController(t, sub)
	ctx := context.Background()

	sess, _ := c.Step(ctx, NewSession(), "갤럭시 5000원에 팔아줘")
	if sess.State != StateCollecting {
		t.Fatalf("state: got %q, want collecting", sess.State)
	}
	if sess.Tx.Price != 5000 {
		t.Fatalf("price: got %d, want 5000", sess.Tx.Price)
	}

	// The follow-up only names the customer. The extractor still fills its
	// default price for that utterance; the staged 5000원 must survive.
	sess, _ = c.Step(ctx, sess, "삼성전자에")
	if sess.State != StateConfirming {
		t.Fatalf("state: got %q, want confirming", sess.State)
	}
	if sess.Tx.Price != 5000 {
		t.Errorf("price: got %d, want staged 5000", sess.Tx.Price)
	}
	if sess.Tx.Customer != "삼성전자" {
		t.Errorf("customer: got %q", sess.Tx.Customer)
	}

	sess, _ = c.Step(ctx, sess, "네")
	if sub.calls != 1 || sub.last.Price != 5000 {
		t.Errorf("submitted price: got %d (calls=%d), want 5000", sub.last.Price, sub.calls)
	}
	if sess.State != StateIdle {
		t.Errorf("state: got %q, want idle after submit", sess.State)
	}
}

func TestStep_NewIntentReplacesStaged(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestController(t, sub)
	ctx := context.Background()

	sess, _ := c.Step(ctx, NewSession(), "갤럭시 5개 팔아줘")
	if sess.State != StateCollecting {
		t.Fatalf("state: got %q", sess.State)
	}

	sess, _ = c.Step(ctx, sess, "부품A 30개 생산 완료")
	if sess.State != StateConfirming {
		t.Fatalf("state: got %q, want confirming", sess.State)
	}
	if sess.Tx.Action != transaction.ActionProductionReceipt {
		t.Errorf("action: got %q", sess.Tx.Action)
	}
	if sess.Tx.Customer != "" {
		t.Errorf("stale sale fields must not survive an intent switch: %+v", sess.Tx)
	}
	if sess.Tx.Qty != 30 || sess.Tx.Warehouse != "00003" {
		t.Errorf("transaction: %+v", sess.Tx)
	}
}

func TestStep_SubmitFailureStillResets(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("erp rejected")}
	c := newTestController(t, sub)
	ctx := context.Background()

	sess, _ := c.Step(ctx, NewSession(), "삼성전자에 갤럭시 10개 팔아줘")
	sess, reply := c.Step(ctx, sess, "네")

	if sub.calls != 1 {
		t.Errorf("submit calls: got %d", sub.calls)
	}
	if sess.State != StateIdle || sess.Tx != nil {
		t.Errorf("session must reset even on failure, got %q", sess.State)
	}
	if !reply.SubmitAttempted || reply.Submitted {
		t.Errorf("reply flags: attempted=%v submitted=%v", reply.SubmitAttempted, reply.Submitted)
	}
	if !strings.HasPrefix(reply.Text, PrefixError) {
		t.Errorf("failure reply: %q", reply.Text)
	}
}

func TestStep_CatalogUnavailableKeepsState(t *testing.T) {
	sub := &fakeSubmitter{}
	catalogs := catalog.NewService(&fakeSource{fail: true})
	extractor := transaction.NewExtractor(transaction.DefaultDefaults())
	c := NewController(transaction.MustClassifier(), extractor, catalogs, sub)

	sess, reply := c.Step(context.Background(), NewSession(), "갤럭시 10개 팔아줘")
	if sess.State != StateIdle {
		t.Errorf("state: got %q, want unchanged idle", sess.State)
	}
	if !strings.HasPrefix(reply.Text, PrefixError) {
		t.Errorf("reply: %q", reply.Text)
	}
	if sub.calls != 0 {
		t.Errorf("unexpected submit calls: %d", sub.calls)
	}
}

func TestStore_GetReturnsFreshSessionForUnknownID(t *testing.T) {
	store := NewStore()

	sess := store.Get("abc")
	if sess.ID != "abc" || sess.State != StateIdle {
		t.Errorf("got %+v", sess)
	}
	if store.Len() != 0 {
		t.Errorf("Get must not persist, len=%d", store.Len())
	}

	store.Put(sess)
	if store.Len() != 1 {
		t.Errorf("len: got %d", store.Len())
	}
	if got := store.Get("abc"); got.ID != "abc" {
		t.Errorf("got %+v", got)
	}
}
