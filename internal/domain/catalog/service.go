package catalog

import (
	"context"
	"sync"
	"time"

	"erpchat/internal/core/apperror"
	"erpchat/pkg/logger"
)

// Source loads reference catalogs from the ERP backend.
// Implemented by the erp package; faked in tests.
type Source interface {
	FetchVendors(ctx context.Context) ([]Vendor, error)
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchWarehouses(ctx context.Context) ([]Warehouse, error)
}

// Service caches one catalog snapshot in memory and hands out matchers over it.
// Load happens once at startup; Refresh replaces the snapshot atomically so
// in-flight dialogues keep matching against the snapshot they started with.
type Service struct {
	source Source

	mu       sync.RWMutex
	snap     *Snapshot
	loadedAt time.Time
}

// NewService creates a catalog service over the given source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// Refresh loads all three catalogs and swaps the cached snapshot.
// On failure the previous snapshot (if any) stays in place.
func (s *Service) Refresh(ctx context.Context) error {
	vendors, err := s.source.FetchVendors(ctx)
	if err != nil {
		return apperror.NewCatalogUnavailable("vendors", err)
	}
	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		return apperror.NewCatalogUnavailable("products", err)
	}
	warehouses, err := s.source.FetchWarehouses(ctx)
	if err != nil {
		return apperror.NewCatalogUnavailable("warehouses", err)
	}

	snap := &Snapshot{
		Vendors:    vendors,
		Products:   products,
		Warehouses: warehouses,
	}

	s.mu.Lock()
	s.snap = snap
	s.loadedAt = time.Now()
	s.mu.Unlock()

	logger.Info(ctx, "catalog refreshed",
		"vendors", len(vendors),
		"products", len(products),
		"warehouses", len(warehouses),
	)
	return nil
}

// Snapshot returns the current snapshot, or nil if never loaded.
func (s *Service) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Matcher returns a Matcher over the current snapshot.
// Returns an error if the catalog was never loaded.
func (s *Service) Matcher() (*Matcher, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, apperror.NewCatalogUnavailable("cache", nil)
	}
	return NewMatcher(snap), nil
}

// LoadedAt returns the time of the last successful refresh.
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
