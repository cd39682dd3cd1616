package catalog

import (
	"context"
	"errors"
	"testing"

	"erpchat/internal/core/apperror"
)

type stubSource struct {
	vendors []Vendor
	err     error
}

func (s *stubSource) FetchVendors(context.Context) ([]Vendor, error) {
	return s.vendors, s.err
}

func (s *stubSource) FetchProducts(context.Context) ([]Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []Product{{Code: "P1", Name: "갤럭시"}}, nil
}

func (s *stubSource) FetchWarehouses(context.Context) ([]Warehouse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []Warehouse{{Code: "00003", Name: "생산창고", IsActive: true}}, nil
}

func TestService_MatcherBeforeLoad(t *testing.T) {
	svc := NewService(&stubSource{})
	if _, err := svc.Matcher(); err == nil {
		t.Fatal("expected error before first refresh")
	} else if appErr, ok := apperror.AsAppError(err); !ok || appErr.Code != apperror.CodeCatalogUnavailable {
		t.Errorf("got %v, want CATALOG_UNAVAILABLE", err)
	}
}

func TestService_RefreshFailureKeepsSnapshot(t *testing.T) {
	src := &stubSource{vendors: []Vendor{{Code: "V1", Name: "삼성전자"}}}
	svc := NewService(src)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	loaded := svc.LoadedAt()

	src.err = errors.New("backend down")
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail")
	}

	snap := svc.Snapshot()
	if snap == nil || len(snap.Vendors) != 1 {
		t.Fatalf("previous snapshot must survive a failed refresh: %+v", snap)
	}
	if !svc.LoadedAt().Equal(loaded) {
		t.Error("LoadedAt must not advance on failure")
	}
	if _, err := svc.Matcher(); err != nil {
		t.Errorf("matcher over surviving snapshot: %v", err)
	}
}
