package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"erpchat/internal/core/apperror"
	"erpchat/internal/domain/transaction"
)

func TestFetchVendors(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"code":"V1","name":"삼성전자"},{"code":"V2","name":"한국상사"}]`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	vendors, err := c.FetchVendors(context.Background())
	if err != nil {
		t.Fatalf("FetchVendors: %v", err)
	}
	if gotPath != "/api/v1/vendors" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("X-API-Key: got %q", gotKey)
	}
	if len(vendors) != 2 || vendors[0].Name != "삼성전자" {
		t.Errorf("vendors: %+v", vendors)
	}
}

func TestFetchProducts_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.FetchProducts(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeCatalogUnavailable {
		t.Errorf("got %v, want CATALOG_UNAVAILABLE", err)
	}
}

func TestSubmit_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"doc_no":"S-20250115-001"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	tx := &transaction.Transaction{
		Action:      transaction.ActionSale,
		Customer:    "삼성전자",
		Product:     "갤럭시",
		ProductCode: "P1",
		Qty:         10,
		Price:       1000000,
		Date:        "20250115",
	}

	result, err := c.Submit(context.Background(), tx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gotPath != "/api/v1/transactions/sale" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotBody["product_code"] != "P1" || gotBody["qty"] != float64(10) {
		t.Errorf("body: %v", gotBody)
	}
	if result["doc_no"] != "S-20250115-001" {
		t.Errorf("result: %v", result)
	}
}

func TestSubmit_NonJSONSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	result, err := c.Submit(context.Background(), &transaction.Transaction{Action: transaction.ActionPurchase})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result["success"] != true || result["raw"] != "OK" {
		t.Errorf("result: %v", result)
	}
}

func TestSubmit_BackendRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "duplicate document", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Submit(context.Background(), &transaction.Transaction{Action: transaction.ActionProductionReceipt})
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperror.IsSubmission(err) {
		t.Errorf("got %v, want SUBMISSION_FAILED", err)
	}
	if got := apperror.GetHTTPStatus(err); got != http.StatusBadGateway {
		t.Errorf("http status: got %d, want 502", got)
	}
}

func TestSubmit_UnknownAction(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"})
	_, err := c.Submit(context.Background(), &transaction.Transaction{Action: "refund"})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Errorf("got %v, want VALIDATION_ERROR", err)
	}
}
